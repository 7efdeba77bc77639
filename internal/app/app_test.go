package app

import (
	"strings"
	"testing"
	"time"

	"newsdesk/internal/news"
)

func TestRenderBuckets(t *testing.T) {
	published := time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)
	out := Render([]news.Bucket{
		{Name: "technology", Articles: []news.Article{
			{Title: "Chips get faster", SourceName: "Tech Wire", URL: "https://example.com/1",
				Description: "A new fabrication process.", PublishedAt: published},
		}},
		{Name: news.TrendingBucket, Articles: []news.Article{
			{Title: "Storm hits coast", SourceName: "Wire", URL: "https://example.com/2"},
		}},
	})

	for _, want := range []string{
		"=== Newsfeed ===",
		"## technology (1)",
		"* Chips get faster — Tech Wire",
		"A new fabrication process.",
		"https://example.com/1",
		"## Trending (1)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderSkipsEmptyBuckets(t *testing.T) {
	out := Render([]news.Bucket{
		{Name: "science"},
		{Name: "technology", Articles: []news.Article{{Title: "t", SourceName: "s", URL: "u"}}},
	})
	if strings.Contains(out, "science") {
		t.Errorf("empty bucket rendered:\n%s", out)
	}
}

func TestRenderEmptyFeed(t *testing.T) {
	out := Render(nil)
	if !strings.Contains(out, "No relevant news to display.") {
		t.Errorf("output = %q", out)
	}
}
