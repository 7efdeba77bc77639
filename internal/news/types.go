package news

import (
	"fmt"
	"strings"
	"time"
)

// Article is a single news item as returned by a headline source.
// Fields are fixed at fetch time; Category is assigned exactly once by
// the fetch stage that produced the article and is never re-derived.
type Article struct {
	Title       string
	Description string
	URL         string
	ImageURL    string
	PublishedAt time.Time
	SourceName  string
	Category    string
}

// Key identifies an article for memoization purposes.
func (a Article) Key() string {
	return a.URL + "|" + a.Title
}

// PreferenceQuery is the structured form of a free-text user preference.
type PreferenceQuery struct {
	Include []string `json:"include"`
	Exclude []string `json:"exclude"`
}

// IsEmpty reports whether the query carries no topics at all.
func (q PreferenceQuery) IsEmpty() bool {
	return len(q.Include) == 0 && len(q.Exclude) == 0
}

// FilterCriteria is the structural filter snapshot passed into the
// pipeline by value on each invocation. Empty Countries or Categories
// mean "unrestricted".
type FilterCriteria struct {
	Language      string
	Countries     []string
	Categories    []string
	BannedSources []string
}

// Categories supported by the top-headlines endpoint.
var ValidCategories = []string{
	"general", "business", "health", "science", "sports", "technology", "entertainment",
}

// Validate checks the criteria before the pipeline runs. A malformed
// criteria aborts the whole request, unlike per-source failures.
func (c FilterCriteria) Validate() error {
	if len(c.Language) != 2 {
		return fmt.Errorf("language must be a 2-letter code, got %q", c.Language)
	}
	for _, country := range c.Countries {
		if len(country) != 2 {
			return fmt.Errorf("country must be a 2-letter code, got %q", country)
		}
	}
	for _, cat := range c.Categories {
		if !IsValidCategory(cat) {
			return fmt.Errorf("unknown category %q", cat)
		}
	}
	return nil
}

// IsValidCategory reports whether cat is one of the upstream categories.
func IsValidCategory(cat string) bool {
	for _, c := range ValidCategories {
		if strings.EqualFold(c, cat) {
			return true
		}
	}
	return false
}

// IsBanned reports whether the article's source is on the ban-list.
func (c FilterCriteria) IsBanned(sourceName string) bool {
	for _, banned := range c.BannedSources {
		if strings.EqualFold(banned, sourceName) {
			return true
		}
	}
	return false
}
