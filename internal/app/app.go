// Package app wires the components together and runs one interaction
// cycle: interpret the preference, fetch and filter, group, render.
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"newsdesk/internal/cache"
	"newsdesk/internal/classify"
	"newsdesk/internal/config"
	"newsdesk/internal/llm"
	"newsdesk/internal/logger"
	"newsdesk/internal/news"
	"newsdesk/internal/newsapi"
	"newsdesk/internal/preference"
	"newsdesk/internal/ratelimit"
	"newsdesk/internal/retry"
	"newsdesk/internal/rssfeed"
	"newsdesk/internal/scraper"
	"newsdesk/internal/session"
)

// Run loads configuration, builds the pipeline and executes one cycle.
func Run() error {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx := context.Background()

	var client llm.Client
	switch cfg.AIProvider {
	case "openai":
		client = llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.AIModel)
	default:
		gemini, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.AIModel)
		if err != nil {
			return err
		}
		defer gemini.Close()
		client = gemini
	}

	limiter := ratelimit.NewAILimiter(map[string]int{cfg.AIProvider: cfg.MaxAICalls}, cfg.MaxAICalls)
	store := cache.NewManager(cfg.SourceCacheTTL)

	var source news.HeadlineSource
	if cfg.NewsAPIKey != "" {
		source = newsapi.NewClient(cfg.NewsAPIKey, newsapi.Options{
			Cache:    store,
			CacheTTL: cfg.SourceCacheTTL,
			Retry:    retry.Config{MaxAttempts: cfg.RetryAttempts, Delay: cfg.RetryDelay, Backoff: true},
		})
	} else {
		feeds, err := rssfeed.LoadFeeds(cfg.FeedsConfigPath)
		if err != nil {
			return fmt.Errorf("loading RSS feeds: %w", err)
		}
		logger.Info("no API key configured, using RSS fallback source", "feeds", len(feeds))
		source = rssfeed.NewSource(feeds)
	}

	pipe := news.NewPipeline(source, classify.New(client, store, limiter, cfg.ClassifyCacheTTL), news.Options{
		PageSize:            cfg.PageSize,
		TopicLookback:       cfg.TopicLookback,
		ClassifyConcurrency: cfg.ClassifyConcurrency,
		Enricher:            scraper.New(nil),
	})
	interpreter := preference.NewInterpreter(client, limiter)

	sess := session.NewStore()
	for _, name := range cfg.BannedSources {
		sess.BanSource(name)
	}
	sess.SetPreference(cfg.PreferenceText)

	out, err := Cycle(ctx, cfg, sess, interpreter, pipe)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

// Cycle executes one request-response interaction against a session
// snapshot and returns the rendered feed. The timeout around the whole
// invocation is the cancellation boundary for every downstream call.
func Cycle(ctx context.Context, cfg *config.Config, sess *session.Store, interpreter *preference.Interpreter, pipe *news.Pipeline) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
	defer cancel()

	banned, preferenceText := sess.Snapshot()
	query := interpreter.Parse(ctx, preferenceText)

	criteria := news.FilterCriteria{
		Language:      cfg.Language,
		Countries:     cfg.Countries,
		Categories:    cfg.Categories,
		BannedSources: banned,
	}
	articles, err := pipe.Fetch(ctx, criteria, query.Include, query.Exclude)
	if err != nil {
		if len(articles) == 0 {
			return "", err
		}
		// Partial data beats no data.
		logger.Warn("some sources failed, showing partial feed", "error", err)
	}

	return Render(news.Group(articles, query.Include, cfg.Categories)), nil
}

// Render formats the grouped feed for terminal output.
func Render(buckets []news.Bucket) string {
	var b strings.Builder
	b.WriteString("=== Newsfeed ===\n")

	total := 0
	for _, bucket := range buckets {
		if len(bucket.Articles) == 0 {
			continue
		}
		total += len(bucket.Articles)
		fmt.Fprintf(&b, "\n## %s (%d)\n\n", bucket.Name, len(bucket.Articles))
		for _, a := range bucket.Articles {
			fmt.Fprintf(&b, "* %s — %s\n", a.Title, a.SourceName)
			if a.Description != "" {
				fmt.Fprintf(&b, "  %s\n", a.Description)
			}
			if !a.PublishedAt.IsZero() {
				fmt.Fprintf(&b, "  %s\n", a.PublishedAt.Format(time.RFC1123))
			}
			fmt.Fprintf(&b, "  %s\n", a.URL)
		}
	}
	if total == 0 {
		b.WriteString("\nNo relevant news to display.\n")
	}
	return b.String()
}
