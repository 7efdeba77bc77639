// Package scraper backfills missing article descriptions from the
// article page itself, so the topic classifier has more than a title to
// work with.
package scraper

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"newsdesk/internal/logger"
)

const maxDescriptionRunes = 500

// Enricher fetches a short description for an article page.
type Enricher struct {
	client *http.Client
}

func New(client *http.Client) *Enricher {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Enricher{client: client}
}

// Describe returns a best-effort description for the page, or "" when
// the page cannot be fetched or yields nothing usable. Enrichment is
// optional, so failures are logged and swallowed.
func (e *Enricher) Describe(ctx context.Context, pageURL string) string {
	if pageURL == "" {
		return ""
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return ""
	}
	resp, err := e.client.Do(req)
	if err != nil {
		logger.Debug("description fetch failed", "url", pageURL, "error", err)
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return ""
	}
	return Extract(doc)
}

// Extract pulls a description out of a parsed page: meta description
// tags first, then leading article paragraphs.
func Extract(doc *goquery.Document) string {
	for _, selector := range []string{
		`meta[property="og:description"]`,
		`meta[name="description"]`,
	} {
		if content, ok := doc.Find(selector).First().Attr("content"); ok {
			if text := strings.TrimSpace(content); text != "" {
				return clip(text)
			}
		}
	}

	var paragraphs []string
	doc.Find("article p, .article-body p, .content p, main p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if len(text) > 40 {
			paragraphs = append(paragraphs, text)
		}
		return len(paragraphs) < 2
	})
	return clip(strings.Join(paragraphs, " "))
}

func clip(s string) string {
	runes := []rune(s)
	if len(runes) > maxDescriptionRunes {
		return string(runes[:maxDescriptionRunes])
	}
	return s
}
