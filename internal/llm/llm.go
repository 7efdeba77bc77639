// Package llm abstracts the chat-completion call the interpreter and
// classifier depend on. Two providers are supported: Gemini and OpenAI.
package llm

import (
	"context"
	"errors"
	"strings"
)

// ErrUnavailable marks a failed or unusable model response. Callers
// recover locally by falling back to a safe default; the error never
// propagates out of the calling component.
var ErrUnavailable = errors.New("classification service unavailable")

// Client issues one chat-completion call: a fixed system instruction
// plus a user message, returning the raw model text.
type Client interface {
	Name() string
	Chat(ctx context.Context, system, user string) (string, error)
}

// ExtractJSON pulls the first JSON object out of a model response.
// Models wrap JSON in prose or markdown fences often enough that the
// raw text cannot be unmarshaled directly.
func ExtractJSON(response string) string {
	s := response
	if i := strings.Index(s, "```"); i >= 0 {
		s = s[i+3:]
		s = strings.TrimPrefix(s, "json")
		if j := strings.Index(s, "```"); j >= 0 {
			s = s[:j]
		}
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}
