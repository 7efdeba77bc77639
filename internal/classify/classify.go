// Package classify answers whether an article is relevant to any of a
// set of topics, using one LLM call per (article, topic set) pair with
// memoization on top.
package classify

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"newsdesk/internal/cache"
	"newsdesk/internal/llm"
	"newsdesk/internal/logger"
	"newsdesk/internal/metrics"
	"newsdesk/internal/news"
	"newsdesk/internal/ratelimit"
)

const systemInstruction = `You decide whether a news article is relevant to any of the listed topics.
Respond with only a JSON object of the form {"belongs": true|false, "category": "<matching topic>"|null}.
Set "belongs" to true only when the article clearly covers one of the topics; when unsure, answer false.`

// DefaultTTL bounds how long a verdict is reused. Within the window the
// classifier behaves deterministically even though the underlying model
// call may not.
const DefaultTTL = time.Hour

type verdict struct {
	Belongs  bool    `json:"belongs"`
	Category *string `json:"category"`
}

// Classifier memoizes topic-relevance verdicts keyed by article identity
// and topic set. It fails open: any call or parse failure answers false,
// so an article is only ever dropped on a confident match.
type Classifier struct {
	client  llm.Client
	store   cache.Store
	limiter *ratelimit.AILimiter
	ttl     time.Duration
}

// New creates a classifier. The store must not be nil; the limiter may be.
func New(client llm.Client, store cache.Store, limiter *ratelimit.AILimiter, ttl time.Duration) *Classifier {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Classifier{client: client, store: store, limiter: limiter, ttl: ttl}
}

// Belongs reports whether the article is relevant to any listed topic.
func (c *Classifier) Belongs(ctx context.Context, article news.Article, topics []string) bool {
	if len(topics) == 0 {
		return false
	}

	key := cacheKey(article, topics)
	if v, ok := c.store.Get(key); ok {
		if belongs, ok := v.(bool); ok {
			metrics.Global.IncrementClassifierCacheHits()
			if c.limiter != nil {
				c.limiter.RecordCacheHit()
			}
			return belongs
		}
	}

	metrics.Global.IncrementClassifierCalls()
	if c.limiter != nil {
		if err := c.limiter.Use(c.client.Name()); err != nil {
			logger.Warn("classification skipped, keeping article", "error", err)
			return false
		}
	}

	raw, err := c.client.Chat(ctx, systemInstruction, buildPrompt(article, topics))
	if err != nil {
		metrics.Global.IncrementClassifierFailures()
		logger.Warn("classification failed, keeping article", "title", article.Title, "error", err)
		return false
	}

	payload := llm.ExtractJSON(raw)
	if payload == "" {
		metrics.Global.IncrementClassifierFailures()
		logger.Warn("classification response had no JSON object", "response", raw)
		return false
	}
	var v verdict
	if err := json.Unmarshal([]byte(payload), &v); err != nil {
		metrics.Global.IncrementClassifierFailures()
		logger.Warn("classification response did not match schema", "error", err)
		return false
	}

	c.store.Set(key, v.Belongs, c.ttl)
	return v.Belongs
}

func buildPrompt(article news.Article, topics []string) string {
	var b strings.Builder
	b.WriteString("Topics:\n")
	for _, t := range topics {
		b.WriteString("- ")
		b.WriteString(t)
		b.WriteString("\n")
	}
	b.WriteString("\nArticle title: ")
	b.WriteString(article.Title)
	if article.Description != "" {
		b.WriteString("\nArticle description: ")
		b.WriteString(article.Description)
	}
	return b.String()
}

func cacheKey(article news.Article, topics []string) string {
	h := sha1.New()
	fmt.Fprint(h, strings.ToLower(article.Key()))
	for _, t := range topics {
		fmt.Fprint(h, "|", strings.ToLower(t))
	}
	return "classify:" + hex.EncodeToString(h.Sum(nil))
}
