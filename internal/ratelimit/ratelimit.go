package ratelimit

import (
	"fmt"
	"sync"
	"time"

	"newsdesk/internal/logger"
)

// AILimiter caps daily LLM usage per provider so a busy session cannot
// burn through the upstream quota. A zero limit means unlimited.
type AILimiter struct {
	mu          sync.Mutex
	counts      map[string]int
	limits      map[string]int
	totalCount  int
	maxTotal    int
	resetTime   time.Time
	cacheHits   int
	cacheMisses int
}

// NewAILimiter creates a limiter with per-provider limits and an overall
// cap. Counters reset daily.
func NewAILimiter(limits map[string]int, maxTotal int) *AILimiter {
	l := make(map[string]int, len(limits))
	for k, v := range limits {
		l[k] = v
	}
	return &AILimiter{
		counts:    make(map[string]int),
		limits:    l,
		maxTotal:  maxTotal,
		resetTime: time.Now().Add(24 * time.Hour),
	}
}

// Allow reports whether another call to the provider fits the budget.
func (rl *AILimiter) Allow(provider string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.checkReset()

	if max := rl.limits[provider]; max > 0 && rl.counts[provider] >= max {
		logger.Warn("provider rate limit reached", "provider", provider, "used", rl.counts[provider], "limit", max)
		return false
	}
	if rl.maxTotal > 0 && rl.totalCount >= rl.maxTotal {
		logger.Warn("total AI rate limit reached", "used", rl.totalCount, "limit", rl.maxTotal)
		return false
	}
	return true
}

// Use consumes one call from the provider's budget.
func (rl *AILimiter) Use(provider string) error {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.checkReset()

	if max := rl.limits[provider]; max > 0 && rl.counts[provider] >= max {
		return fmt.Errorf("%s rate limit exceeded", provider)
	}
	if rl.maxTotal > 0 && rl.totalCount >= rl.maxTotal {
		return fmt.Errorf("total AI rate limit exceeded")
	}

	rl.counts[provider]++
	rl.totalCount++
	rl.cacheMisses++
	return nil
}

// RecordCacheHit notes that a memoized verdict spared an LLM call.
func (rl *AILimiter) RecordCacheHit() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.cacheHits++
}

// CacheHitRate returns the hit percentage across memoizable calls.
func (rl *AILimiter) CacheHitRate() float64 {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	total := rl.cacheHits + rl.cacheMisses
	if total == 0 {
		return 0
	}
	return float64(rl.cacheHits) / float64(total) * 100
}

// Stats returns a snapshot of the limiter state.
func (rl *AILimiter) Stats() map[string]interface{} {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	stats := map[string]interface{}{
		"total_used":   rl.totalCount,
		"total_limit":  rl.maxTotal,
		"cache_hits":   rl.cacheHits,
		"cache_misses": rl.cacheMisses,
		"reset_time":   rl.resetTime,
	}
	for provider, used := range rl.counts {
		stats[provider+"_used"] = used
	}
	for provider, limit := range rl.limits {
		stats[provider+"_limit"] = limit
	}
	return stats
}

// checkReset clears the counters once the daily window has passed.
// Callers must hold the mutex.
func (rl *AILimiter) checkReset() {
	if time.Now().After(rl.resetTime) {
		logger.Info("resetting AI rate limiter counters")
		rl.counts = make(map[string]int)
		rl.totalCount = 0
		rl.cacheHits = 0
		rl.cacheMisses = 0
		rl.resetTime = time.Now().Add(24 * time.Hour)
	}
}
