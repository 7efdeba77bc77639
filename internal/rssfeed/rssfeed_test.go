package rssfeed

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"newsdesk/internal/news"
)

func rssDocument(title string, items ...string) string {
	body := ""
	for _, item := range items {
		body += item
	}
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>%s</title>%s</channel></rss>`, title, body)
}

func rssItem(title, link string, published time.Time) string {
	return fmt.Sprintf(`<item><title>%s</title><link>%s</link><description>About %s</description><pubDate>%s</pubDate></item>`,
		title, link, title, published.Format(time.RFC1123Z))
}

func serveRSS(t *testing.T, doc string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(doc))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLoadFeeds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feeds.yaml")
	doc := `feeds:
  - url: https://example.com/tech.xml
    name: Example Tech
    country: us
    category: technology
  - url: https://example.com/world.xml
    name: Example World
`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}

	feeds, err := LoadFeeds(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(feeds) != 2 {
		t.Fatalf("feeds = %d", len(feeds))
	}
	if feeds[0].Category != "technology" || feeds[1].Name != "Example World" {
		t.Errorf("feeds = %+v", feeds)
	}
}

func TestTopHeadlinesSortsNewestFirst(t *testing.T) {
	now := time.Now()
	srv := serveRSS(t, rssDocument("Wire",
		rssItem("Older", "https://example.com/1", now.Add(-2*time.Hour)),
		rssItem("Newest", "https://example.com/2", now),
		rssItem("Middle", "https://example.com/3", now.Add(-time.Hour)),
	))

	s := NewSource([]Feed{{URL: srv.URL, Name: "Wire"}})
	articles, err := s.TopHeadlines(context.Background(), news.TopHeadlinesQuery{})
	if err != nil {
		t.Fatal(err)
	}
	if len(articles) != 3 {
		t.Fatalf("articles = %d", len(articles))
	}
	if articles[0].Title != "Newest" || articles[2].Title != "Older" {
		t.Errorf("order = %q, %q, %q", articles[0].Title, articles[1].Title, articles[2].Title)
	}
	if articles[0].SourceName != "Wire" {
		t.Errorf("SourceName = %q", articles[0].SourceName)
	}
}

func TestTopHeadlinesFiltersByCountryAndCategory(t *testing.T) {
	tech := serveRSS(t, rssDocument("Tech Wire", rssItem("Chip news", "https://example.com/t", time.Now())))
	sport := serveRSS(t, rssDocument("Sport Wire", rssItem("Match report", "https://example.com/s", time.Now())))

	s := NewSource([]Feed{
		{URL: tech.URL, Name: "Tech Wire", Country: "us", Category: "technology"},
		{URL: sport.URL, Name: "Sport Wire", Country: "de", Category: "sports"},
	})

	articles, err := s.TopHeadlines(context.Background(), news.TopHeadlinesQuery{Country: "us", Category: "technology"})
	if err != nil {
		t.Fatal(err)
	}
	if len(articles) != 1 || articles[0].Title != "Chip news" {
		t.Fatalf("articles = %+v", articles)
	}

	// No feed matches the filter: empty result, not an error.
	articles, err = s.TopHeadlines(context.Background(), news.TopHeadlinesQuery{Country: "us", Category: "sports"})
	if err != nil {
		t.Fatal(err)
	}
	if len(articles) != 0 {
		t.Fatalf("articles = %+v", articles)
	}
}

func TestSearchRejectsEmptyQuery(t *testing.T) {
	s := NewSource([]Feed{{URL: "https://example.invalid/feed.xml"}})
	_, err := s.Search(context.Background(), news.SearchQuery{})
	if !errors.Is(err, news.ErrInvalidQuery) {
		t.Fatalf("err = %v, want ErrInvalidQuery", err)
	}
}

func TestSearchMatchesTextAndWindow(t *testing.T) {
	now := time.Now()
	srv := serveRSS(t, rssDocument("Wire",
		rssItem("Quantum breakthrough announced", "https://example.com/1", now),
		rssItem("Quantum history retrospective", "https://example.com/2", now.Add(-30*24*time.Hour)),
		rssItem("Transfer window closes", "https://example.com/3", now),
	))

	s := NewSource([]Feed{{URL: srv.URL}})
	articles, err := s.Search(context.Background(), news.SearchQuery{
		Query: "quantum",
		Since: now.Add(-7 * 24 * time.Hour),
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(articles) != 1 || articles[0].Title != "Quantum breakthrough announced" {
		t.Fatalf("articles = %+v", articles)
	}
}

func TestCollectAllFeedsUnreachable(t *testing.T) {
	s := NewSource([]Feed{{URL: "http://127.0.0.1:1/feed.xml"}})
	_, err := s.TopHeadlines(context.Background(), news.TopHeadlinesQuery{})
	if !errors.Is(err, news.ErrSourceUnavailable) {
		t.Fatalf("err = %v, want ErrSourceUnavailable", err)
	}
}

func TestTopHeadlinesRespectsPageSize(t *testing.T) {
	now := time.Now()
	srv := serveRSS(t, rssDocument("Wire",
		rssItem("a", "https://example.com/a", now),
		rssItem("b", "https://example.com/b", now),
		rssItem("c", "https://example.com/c", now),
	))

	s := NewSource([]Feed{{URL: srv.URL}})
	articles, err := s.TopHeadlines(context.Background(), news.TopHeadlinesQuery{PageSize: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(articles) != 2 {
		t.Fatalf("articles = %d, want 2", len(articles))
	}
}
