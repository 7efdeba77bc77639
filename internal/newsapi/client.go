// Package newsapi implements the headline source over the NewsAPI.org
// HTTP endpoints: top headlines and full-text search. Responses are
// cached by (operation, parameters) to stay inside tight upstream rate
// limits when identical fetches repeat within a session.
package newsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"newsdesk/internal/cache"
	"newsdesk/internal/logger"
	"newsdesk/internal/news"
	"newsdesk/internal/retry"
)

const (
	defaultBaseURL  = "https://newsapi.org/v2"
	DefaultCacheTTL = time.Hour
)

// Options tune the client; zero values fall back to defaults.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Cache      cache.Store
	CacheTTL   time.Duration
	Retry      retry.Config
}

// Client is the read-only adapter over the headlines API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	store      cache.Store
	cacheTTL   time.Duration
	retry      retry.Config
}

func NewClient(apiKey string, opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}
	if opts.Cache == nil {
		opts.Cache = cache.Disabled{}
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	if opts.Retry.MaxAttempts <= 0 {
		opts.Retry = retry.Config{MaxAttempts: 3, Delay: 2 * time.Second, Backoff: true}
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    opts.BaseURL,
		httpClient: opts.HTTPClient,
		store:      opts.Cache,
		cacheTTL:   opts.CacheTTL,
		retry:      opts.Retry,
	}
}

// TopHeadlines fetches current headlines, most recent first as returned
// by upstream. Zero upstream matches yield an empty slice, not an error.
func (c *Client) TopHeadlines(ctx context.Context, q news.TopHeadlinesQuery) ([]news.Article, error) {
	params := url.Values{}
	if q.Query != "" {
		params.Set("q", q.Query)
	}
	if q.Language != "" {
		params.Set("language", q.Language)
	}
	if q.Country != "" {
		params.Set("country", q.Country)
	}
	if q.Category != "" {
		params.Set("category", q.Category)
	}
	params.Set("pageSize", strconv.Itoa(pageSizeOrDefault(q.PageSize)))

	return c.fetch(ctx, "top-headlines", params)
}

// Search fetches articles matching the query, restricted to those
// published at or after q.Since. The query is mandatory.
func (c *Client) Search(ctx context.Context, q news.SearchQuery) ([]news.Article, error) {
	if q.Query == "" {
		return nil, fmt.Errorf("%w: full-text search needs a non-empty query", news.ErrInvalidQuery)
	}

	params := url.Values{}
	params.Set("q", q.Query)
	if q.Language != "" {
		params.Set("language", q.Language)
	}
	if !q.Since.IsZero() {
		params.Set("from", q.Since.UTC().Format(time.RFC3339))
	}
	params.Set("sortBy", "publishedAt")
	params.Set("pageSize", strconv.Itoa(pageSizeOrDefault(q.PageSize)))

	return c.fetch(ctx, "everything", params)
}

func (c *Client) fetch(ctx context.Context, operation string, params url.Values) ([]news.Article, error) {
	cacheKey := operation + "?" + params.Encode()
	if cached, ok := c.store.Get(cacheKey); ok {
		if articles, ok := cached.([]news.Article); ok {
			logger.Debug("headline cache hit", "operation", operation)
			return cloneArticles(articles), nil
		}
	}

	var articles []news.Article
	err := retry.Do(ctx, c.retry, func(err error) bool {
		return errors.Is(err, news.ErrSourceUnavailable)
	}, func() error {
		var err error
		articles, err = c.doRequest(ctx, operation, params)
		return err
	})
	if err != nil {
		return nil, err
	}

	c.store.Set(cacheKey, cloneArticles(articles), c.cacheTTL)
	return articles, nil
}

func (c *Client) doRequest(ctx context.Context, operation string, params url.Values) ([]news.Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+operation+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", news.ErrSourceUnavailable, err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", news.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decoding %s response: %v", news.ErrSourceUnavailable, operation, err)
	}
	if resp.StatusCode != http.StatusOK || body.Status != "ok" {
		return nil, fmt.Errorf("%w: %s returned HTTP %d (%s: %s)",
			news.ErrSourceUnavailable, operation, resp.StatusCode, body.Code, body.Message)
	}

	articles := make([]news.Article, 0, len(body.Articles))
	for _, a := range body.Articles {
		articles = append(articles, a.toArticle())
	}
	return articles, nil
}

func pageSizeOrDefault(n int) int {
	if n <= 0 {
		return news.DefaultPageSize
	}
	return n
}

// cloneArticles keeps cached entries isolated from later ingestion-time
// category tagging by the pipeline.
func cloneArticles(articles []news.Article) []news.Article {
	out := make([]news.Article, len(articles))
	copy(out, articles)
	return out
}

type apiResponse struct {
	Status       string       `json:"status"`
	TotalResults int          `json:"totalResults"`
	Code         string       `json:"code"`
	Message      string       `json:"message"`
	Articles     []apiArticle `json:"articles"`
}

type apiArticle struct {
	Source struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"source"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
}

func (a apiArticle) toArticle() news.Article {
	published, _ := time.Parse(time.RFC3339, a.PublishedAt)
	return news.Article{
		Title:       a.Title,
		Description: a.Description,
		URL:         a.URL,
		ImageURL:    a.URLToImage,
		PublishedAt: published,
		SourceName:  a.Source.Name,
	}
}
