// Package rssfeed is a fallback headline source backed by configured RSS
// feeds, for running without an API key. Top headlines come from the
// configured feeds filtered by category tag; full-text search is a local
// match over the fetched items.
package rssfeed

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"gopkg.in/yaml.v3"

	"newsdesk/internal/logger"
	"newsdesk/internal/news"
)

// Feed is one configured RSS source.
type Feed struct {
	URL      string `yaml:"url"`
	Name     string `yaml:"name"`
	Country  string `yaml:"country"`
	Category string `yaml:"category"`
}

type feedsConfig struct {
	Feeds []Feed `yaml:"feeds"`
}

// LoadFeeds reads the RSS feed list from a YAML file.
func LoadFeeds(path string) ([]Feed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg feedsConfig
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, err
	}
	return cfg.Feeds, nil
}

// Source implements news.HeadlineSource over RSS feeds.
type Source struct {
	feeds  []Feed
	parser *gofeed.Parser
}

func NewSource(feeds []Feed) *Source {
	return &Source{feeds: feeds, parser: gofeed.NewParser()}
}

// TopHeadlines returns the most recent items from feeds matching the
// requested country and category, newest first.
func (s *Source) TopHeadlines(ctx context.Context, q news.TopHeadlinesQuery) ([]news.Article, error) {
	articles, err := s.collect(ctx, q.Country, q.Category)
	if err != nil {
		return nil, err
	}
	if q.Query != "" {
		articles = matchQuery(articles, q.Query)
	}
	return limit(articles, q.PageSize), nil
}

// Search filters all feed items by query text and publication window.
func (s *Source) Search(ctx context.Context, q news.SearchQuery) ([]news.Article, error) {
	if q.Query == "" {
		return nil, fmt.Errorf("%w: full-text search needs a non-empty query", news.ErrInvalidQuery)
	}
	articles, err := s.collect(ctx, "", "")
	if err != nil {
		return nil, err
	}
	articles = matchQuery(articles, q.Query)
	if !q.Since.IsZero() {
		recent := articles[:0]
		for _, a := range articles {
			if !a.PublishedAt.Before(q.Since) {
				recent = append(recent, a)
			}
		}
		articles = recent
	}
	return limit(articles, q.PageSize), nil
}

func (s *Source) collect(ctx context.Context, country, category string) ([]news.Article, error) {
	var all []news.Article
	attempted, fetched := 0, 0
	for _, feed := range s.feeds {
		if country != "" && feed.Country != "" && !strings.EqualFold(feed.Country, country) {
			continue
		}
		if category != "" && !strings.EqualFold(feed.Category, category) {
			continue
		}

		attempted++
		parsed, err := s.parser.ParseURLWithContext(feed.URL, ctx)
		if err != nil {
			logger.Warn("RSS feed failed", "url", feed.URL, "error", err)
			continue
		}
		fetched++
		for _, item := range parsed.Items {
			all = append(all, itemToArticle(feed, parsed, item))
		}
	}
	if fetched == 0 && attempted > 0 {
		return nil, fmt.Errorf("%w: no RSS feed could be fetched", news.ErrSourceUnavailable)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].PublishedAt.After(all[j].PublishedAt)
	})
	return all, nil
}

func itemToArticle(feed Feed, parsed *gofeed.Feed, item *gofeed.Item) news.Article {
	published := time.Time{}
	if item.PublishedParsed != nil {
		published = *item.PublishedParsed
	}
	source := feed.Name
	if source == "" {
		source = parsed.Title
	}
	image := ""
	if item.Image != nil {
		image = item.Image.URL
	}
	return news.Article{
		Title:       item.Title,
		Description: item.Description,
		URL:         item.Link,
		ImageURL:    image,
		PublishedAt: published,
		SourceName:  source,
	}
}

func matchQuery(articles []news.Article, query string) []news.Article {
	query = strings.ToLower(query)
	matched := make([]news.Article, 0, len(articles))
	for _, a := range articles {
		text := strings.ToLower(a.Title + " " + a.Description)
		if strings.Contains(text, query) {
			matched = append(matched, a)
		}
	}
	return matched
}

func limit(articles []news.Article, n int) []news.Article {
	if n <= 0 {
		n = news.DefaultPageSize
	}
	if len(articles) > n {
		articles = articles[:n]
	}
	return articles
}
