package classify

import (
	"context"
	"errors"
	"testing"
	"time"

	"newsdesk/internal/cache"
	"newsdesk/internal/news"
)

type fakeClient struct {
	response string
	err      error
	calls    int
}

func (f *fakeClient) Name() string { return "fake" }

func (f *fakeClient) Chat(context.Context, string, string) (string, error) {
	f.calls++
	return f.response, f.err
}

func testArticle() news.Article {
	return news.Article{
		Title:       "Senate passes budget bill",
		Description: "A long night in the chamber",
		URL:         "https://example.com/budget",
	}
}

func TestBelongsPositiveVerdict(t *testing.T) {
	client := &fakeClient{response: `{"belongs": true, "category": "politics"}`}
	c := New(client, cache.Disabled{}, nil, time.Minute)

	if !c.Belongs(context.Background(), testArticle(), []string{"politics"}) {
		t.Error("want true for a confident match")
	}
}

func TestBelongsNegativeVerdict(t *testing.T) {
	client := &fakeClient{response: `{"belongs": false, "category": null}`}
	c := New(client, cache.Disabled{}, nil, time.Minute)

	if c.Belongs(context.Background(), testArticle(), []string{"sports"}) {
		t.Error("want false")
	}
}

func TestBelongsFailsOpenOnCallError(t *testing.T) {
	client := &fakeClient{err: errors.New("boom")}
	c := New(client, cache.Disabled{}, nil, time.Minute)

	if c.Belongs(context.Background(), testArticle(), []string{"politics"}) {
		t.Error("call failure must keep the article (belongs=false)")
	}
}

func TestBelongsFailsOpenOnUnparseableResponse(t *testing.T) {
	for _, response := range []string{"definitely politics", `{"belongs": "yes"}`, ""} {
		client := &fakeClient{response: response}
		c := New(client, cache.Disabled{}, nil, time.Minute)
		if c.Belongs(context.Background(), testArticle(), []string{"politics"}) {
			t.Errorf("response %q must fail open", response)
		}
	}
}

func TestBelongsEmptyTopicsNoCall(t *testing.T) {
	client := &fakeClient{response: `{"belongs": true, "category": "x"}`}
	c := New(client, cache.Disabled{}, nil, time.Minute)

	if c.Belongs(context.Background(), testArticle(), nil) {
		t.Error("no topics means no membership")
	}
	if client.calls != 0 {
		t.Errorf("made %d calls, want 0", client.calls)
	}
}

func TestBelongsMemoizesByArticleAndTopicSet(t *testing.T) {
	client := &fakeClient{response: `{"belongs": true, "category": "politics"}`}
	c := New(client, cache.NewManager(time.Minute), nil, time.Minute)

	a := testArticle()
	topics := []string{"politics", "crime"}

	first := c.Belongs(context.Background(), a, topics)
	second := c.Belongs(context.Background(), a, topics)
	if !first || !second {
		t.Fatal("want true on both calls")
	}
	if client.calls != 1 {
		t.Fatalf("made %d LLM calls, want 1 (second verdict memoized)", client.calls)
	}

	// A different topic set is a different key.
	c.Belongs(context.Background(), a, []string{"sports"})
	if client.calls != 2 {
		t.Fatalf("made %d LLM calls, want 2", client.calls)
	}
}

func TestBelongsDoesNotCacheFailures(t *testing.T) {
	client := &fakeClient{err: errors.New("boom")}
	c := New(client, cache.NewManager(time.Minute), nil, time.Minute)

	a := testArticle()
	c.Belongs(context.Background(), a, []string{"politics"})
	client.err = nil
	client.response = `{"belongs": true, "category": "politics"}`
	if !c.Belongs(context.Background(), a, []string{"politics"}) {
		t.Error("recovered call should classify normally, not reuse the failed attempt")
	}
}
