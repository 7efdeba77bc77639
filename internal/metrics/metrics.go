package metrics

import (
	"sync"
	"time"
)

// Metrics tracks pipeline activity for the monitoring endpoints.
type Metrics struct {
	mu sync.RWMutex

	// Counters
	FetchesIssued       int64
	FetchFailures       int64
	ArticlesFetched     int64
	ArticlesBanned      int64
	ArticlesRemoved     int64
	ArticlesExcluded    int64
	ClassifierCalls     int64
	ClassifierFailures  int64
	ClassifierCacheHits int64
	PreferenceParses    int64

	// Timings
	LastPipelineTime    time.Duration
	TotalPipelineTime   time.Duration
	AveragePipelineTime time.Duration
	PipelineRuns        int64

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) IncrementFetches() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FetchesIssued++
}

func (m *Metrics) IncrementFetchFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FetchFailures++
}

func (m *Metrics) AddArticlesFetched(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesFetched += int64(n)
}

func (m *Metrics) IncrementArticlesBanned() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesBanned++
}

func (m *Metrics) IncrementArticlesRemoved() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesRemoved++
}

func (m *Metrics) IncrementArticlesExcluded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesExcluded++
}

func (m *Metrics) IncrementClassifierCalls() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClassifierCalls++
}

func (m *Metrics) IncrementClassifierFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClassifierFailures++
}

func (m *Metrics) IncrementClassifierCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClassifierCacheHits++
}

func (m *Metrics) IncrementPreferenceParses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PreferenceParses++
}

func (m *Metrics) RecordPipelineTime(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastPipelineTime = duration
	m.TotalPipelineTime += duration
	m.PipelineRuns++

	if m.PipelineRuns > 0 {
		m.AveragePipelineTime = m.TotalPipelineTime / time.Duration(m.PipelineRuns)
	}
}

func (m *Metrics) SetLastRun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"fetches_issued":           m.FetchesIssued,
		"fetch_failures":           m.FetchFailures,
		"articles_fetched":         m.ArticlesFetched,
		"articles_banned":          m.ArticlesBanned,
		"articles_removed":         m.ArticlesRemoved,
		"articles_excluded":        m.ArticlesExcluded,
		"classifier_calls":         m.ClassifierCalls,
		"classifier_failures":      m.ClassifierFailures,
		"classifier_cache_hits":    m.ClassifierCacheHits,
		"preference_parses":        m.PreferenceParses,
		"last_pipeline_time_ms":    m.LastPipelineTime.Milliseconds(),
		"average_pipeline_time_ms": m.AveragePipelineTime.Milliseconds(),
		"last_run_time":            m.LastRunTime.Format(time.RFC3339),
		"last_error_time":          m.LastErrorTime.Format(time.RFC3339),
		"last_error":               m.LastError,
		"is_healthy":               m.IsHealthy,
	}
}
