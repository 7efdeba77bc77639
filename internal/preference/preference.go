// Package preference turns a free-text news preference into structured
// include/exclude topic lists via one LLM call.
package preference

import (
	"context"
	"encoding/json"
	"strings"

	"newsdesk/internal/llm"
	"newsdesk/internal/logger"
	"newsdesk/internal/metrics"
	"newsdesk/internal/news"
	"newsdesk/internal/ratelimit"
)

const systemInstruction = `You convert a reader's free-text news preference into topic lists.
Partition the expressed preference into topics the reader wants to see and topics they want filtered out.
Respond with only a JSON object of the form {"include": ["topic", ...], "exclude": ["topic", ...]}.
Topics are short phrases. Use empty arrays when nothing fits. Do not invent topics the reader did not express.`

// Interpreter parses preference text. Interpretation is best-effort:
// any failure degrades to an empty query so the rest of the pipeline
// still runs without personalization.
type Interpreter struct {
	client  llm.Client
	limiter *ratelimit.AILimiter
}

// NewInterpreter creates an interpreter over the given chat client.
// The limiter may be nil.
func NewInterpreter(client llm.Client, limiter *ratelimit.AILimiter) *Interpreter {
	return &Interpreter{client: client, limiter: limiter}
}

// Parse interprets the preference text. Empty or whitespace-only input
// returns the zero query without any external call.
func (i *Interpreter) Parse(ctx context.Context, text string) news.PreferenceQuery {
	text = strings.TrimSpace(text)
	if text == "" {
		return news.PreferenceQuery{}
	}
	metrics.Global.IncrementPreferenceParses()

	if i.limiter != nil {
		if err := i.limiter.Use(i.client.Name()); err != nil {
			logger.Warn("preference parse skipped", "error", err)
			return news.PreferenceQuery{}
		}
	}

	raw, err := i.client.Chat(ctx, systemInstruction, text)
	if err != nil {
		logger.Warn("preference parse failed, continuing without personalization", "error", err)
		return news.PreferenceQuery{}
	}

	payload := llm.ExtractJSON(raw)
	if payload == "" {
		logger.Warn("preference response had no JSON object", "response", raw)
		return news.PreferenceQuery{}
	}
	var q news.PreferenceQuery
	if err := json.Unmarshal([]byte(payload), &q); err != nil {
		logger.Warn("preference response did not match schema", "error", err)
		return news.PreferenceQuery{}
	}

	q.Include = cleanTopics(q.Include)
	q.Exclude = cleanTopics(q.Exclude)
	logger.Debug("preference parsed", "include", q.Include, "exclude", q.Exclude)
	return q
}

func cleanTopics(topics []string) []string {
	out := topics[:0]
	for _, t := range topics {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
