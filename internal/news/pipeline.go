package news

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"newsdesk/internal/logger"
	"newsdesk/internal/metrics"
)

// RemovedTitle is the sentinel the upstream source substitutes for
// retracted articles.
const RemovedTitle = "[Removed]"

const (
	DefaultPageSize            = 20
	DefaultTopicLookback       = 7 * 24 * time.Hour
	DefaultClassifyConcurrency = 10
)

// TopHeadlinesQuery are the parameters for a top-headlines fetch.
// Empty Country or Category means unrestricted; Query is an optional
// free-text restriction.
type TopHeadlinesQuery struct {
	Query    string
	Language string
	Country  string
	Category string
	PageSize int
}

// SearchQuery are the parameters for a full-text search fetch.
type SearchQuery struct {
	Query    string
	Language string
	Since    time.Time
	PageSize int
}

// HeadlineSource is the read-only upstream the pipeline fans out to.
type HeadlineSource interface {
	TopHeadlines(ctx context.Context, q TopHeadlinesQuery) ([]Article, error)
	Search(ctx context.Context, q SearchQuery) ([]Article, error)
}

// ExclusionClassifier decides whether an article belongs to any of the
// given topics. Implementations fail open: on any internal failure they
// answer false, so an article is dropped only on a confident match.
type ExclusionClassifier interface {
	Belongs(ctx context.Context, article Article, topics []string) bool
}

// Enricher fills in a missing article description before classification.
type Enricher interface {
	Describe(ctx context.Context, pageURL string) string
}

// Options tune the pipeline; zero values fall back to defaults.
type Options struct {
	PageSize            int
	TopicLookback       time.Duration
	ClassifyConcurrency int
	Enricher            Enricher
}

// Pipeline runs the fetch-filter-classify sequence for one request.
type Pipeline struct {
	source     HeadlineSource
	classifier ExclusionClassifier
	opts       Options
}

// NewPipeline wires a pipeline over the given source and classifier.
func NewPipeline(source HeadlineSource, classifier ExclusionClassifier, opts Options) *Pipeline {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.TopicLookback <= 0 {
		opts.TopicLookback = DefaultTopicLookback
	}
	if opts.ClassifyConcurrency <= 0 {
		opts.ClassifyConcurrency = DefaultClassifyConcurrency
	}
	return &Pipeline{source: source, classifier: classifier, opts: opts}
}

// Fetch runs the full pipeline: fan-out across country×category pairs
// and include topics, union in stable order, then ban-list, removed
// sentinel and topic-exclusion filters.
//
// A failing fetch never blanks the feed: whatever was retrievable is
// returned together with the joined per-source errors. Only malformed
// criteria aborts with an empty result.
func (p *Pipeline) Fetch(ctx context.Context, criteria FilterCriteria, includeTopics, excludeTopics []string) ([]Article, error) {
	start := time.Now()
	defer func() {
		metrics.Global.RecordPipelineTime(time.Since(start))
		metrics.Global.SetLastRun()
	}()

	if err := criteria.Validate(); err != nil {
		metrics.Global.SetError(err.Error())
		return nil, err
	}

	fetched, fetchErr := p.fanOut(ctx, criteria, includeTopics)

	kept := make([]Article, 0, len(fetched))
	for _, a := range fetched {
		if criteria.IsBanned(a.SourceName) {
			metrics.Global.IncrementArticlesBanned()
			continue
		}
		if strings.EqualFold(strings.TrimSpace(a.Title), RemovedTitle) {
			metrics.Global.IncrementArticlesRemoved()
			continue
		}
		kept = append(kept, a)
	}

	if len(excludeTopics) > 0 {
		kept = p.applyExclusions(ctx, kept, excludeTopics)
	}

	logger.Info("pipeline finished",
		"fetched", len(fetched), "kept", len(kept), "duration", time.Since(start))
	return kept, fetchErr
}

// fanOut issues one top-headlines call per country×category pair and one
// full-text search per include topic, all concurrently, and unions the
// results in task order. Empty country/category sets collapse to a single
// unrestricted call. Duplicates across sources are intentionally kept.
func (p *Pipeline) fanOut(ctx context.Context, criteria FilterCriteria, includeTopics []string) ([]Article, error) {
	countries := criteria.Countries
	if len(countries) == 0 {
		countries = []string{""}
	}
	categories := criteria.Categories
	if len(categories) == 0 {
		categories = []string{""}
	}

	type task struct {
		tag string
		run func(context.Context) ([]Article, error)
	}
	var tasks []task
	for _, country := range countries {
		for _, category := range categories {
			country, category := country, category
			tasks = append(tasks, task{
				tag: category,
				run: func(ctx context.Context) ([]Article, error) {
					return p.source.TopHeadlines(ctx, TopHeadlinesQuery{
						Language: criteria.Language,
						Country:  country,
						Category: category,
						PageSize: p.opts.PageSize,
					})
				},
			})
		}
	}
	since := time.Now().Add(-p.opts.TopicLookback)
	for _, topic := range includeTopics {
		topic := topic
		tasks = append(tasks, task{
			tag: topic,
			run: func(ctx context.Context) ([]Article, error) {
				return p.source.Search(ctx, SearchQuery{
					Query:    topic,
					Language: criteria.Language,
					Since:    since,
					PageSize: p.opts.PageSize,
				})
			},
		})
	}

	results := make([][]Article, len(tasks))
	fetchErrs := make([]error, len(tasks))
	g, gctx := errgroup.WithContext(ctx)
	for i, t := range tasks {
		i, t := i, t
		g.Go(func() error {
			metrics.Global.IncrementFetches()
			articles, err := t.run(gctx)
			if err != nil {
				// Report but keep the remaining tasks going.
				fetchErrs[i] = err
				metrics.Global.IncrementFetchFailures()
				logger.Warn("headline fetch failed", "tag", t.tag, "error", err)
				return nil
			}
			for j := range articles {
				articles[j].Category = t.tag
			}
			results[i] = articles
			return nil
		})
	}
	_ = g.Wait()

	var all []Article
	for _, r := range results {
		all = append(all, r...)
	}
	metrics.Global.AddArticlesFetched(len(all))
	return all, errors.Join(fetchErrs...)
}

// applyExclusions drops articles the classifier confidently places in an
// excluded topic. Articles are evaluated independently, bounded by the
// classification concurrency limit.
func (p *Pipeline) applyExclusions(ctx context.Context, articles []Article, excludeTopics []string) []Article {
	drop := make([]bool, len(articles))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.ClassifyConcurrency)
	for i, a := range articles {
		i, a := i, a
		g.Go(func() error {
			if a.Description == "" && p.opts.Enricher != nil {
				a.Description = p.opts.Enricher.Describe(gctx, a.URL)
			}
			drop[i] = p.classifier.Belongs(gctx, a, excludeTopics)
			return nil
		})
	}
	_ = g.Wait()

	kept := make([]Article, 0, len(articles))
	for i, a := range articles {
		if drop[i] {
			metrics.Global.IncrementArticlesExcluded()
			logger.Debug("article excluded by topic", "title", a.Title)
			continue
		}
		kept = append(kept, a)
	}
	return kept
}
