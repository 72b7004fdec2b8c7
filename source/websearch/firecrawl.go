// Package websearch implements the search-and-scrape contract over the
// Firecrawl search API.
package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	contractx "github.com/moneylens/moneylens/adapter/contract"
)

type Config struct {
	BaseURL     string        `envconfig:"BASE_URL" split_words:"true" default:"https://api.firecrawl.dev/v1"`
	APIKey      string        `envconfig:"API_KEY" split_words:"true"`
	Timeout     time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
	ResultCount int           `envconfig:"RESULT_COUNT" split_words:"true" default:"5"`
}

// Client calls Firecrawl's /search endpoint, which both searches and
// scrapes each hit to markdown. The API key is optional for self-hosted
// instances.
type Client struct {
	baseURL     string
	apiKey      string
	timeout     time.Duration
	resultCount int
	httpClient  *http.Client
}

var _ contractx.SearchSource = (*Client)(nil)

func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("firecrawl: base url is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	resultCount := cfg.ResultCount
	if resultCount <= 0 {
		resultCount = 5
	}

	return &Client{
		baseURL:     baseURL,
		apiKey:      strings.TrimSpace(cfg.APIKey),
		timeout:     timeout,
		resultCount: resultCount,
		httpClient:  &http.Client{Timeout: timeout},
	}, nil
}

func MustNew(cfg Config) *Client {
	client, err := NewClient(cfg)
	if err != nil {
		panic(err)
	}
	return client
}

// DefaultResultCount is the configured number of hits to scrape.
func (c *Client) DefaultResultCount() int {
	return c.resultCount
}

type searchRequest struct {
	Query         string        `json:"query"`
	Limit         int           `json:"limit"`
	ScrapeOptions scrapeOptions `json:"scrapeOptions"`
	Timeout       int64         `json:"timeout"`
}

type scrapeOptions struct {
	Formats []string `json:"formats"`
}

type searchResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Data    []struct {
		Title    string `json:"title"`
		URL      string `json:"url"`
		Markdown string `json:"markdown"`
	} `json:"data"`
}

func (c *Client) Search(ctx context.Context, query string, resultCount int) ([]contractx.SearchResult, error) {
	if resultCount <= 0 {
		resultCount = c.resultCount
	}

	payload := searchRequest{
		Query:   query,
		Limit:   resultCount,
		Timeout: c.timeout.Milliseconds(),
		ScrapeOptions: scrapeOptions{
			Formats: []string{"markdown"},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal search payload: %v", contractx.ErrSource, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build search request: %v", contractx.ErrSource, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: call firecrawl: %v", contractx.ErrSource, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: firecrawl error: %d %s", contractx.ErrSource, resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: decode firecrawl response: %v", contractx.ErrSource, err)
	}
	if !decoded.Success {
		msg := decoded.Error
		if msg == "" {
			msg = "unknown error occurred"
		}
		return nil, fmt.Errorf("%w: firecrawl: %s", contractx.ErrSource, msg)
	}

	results := make([]contractx.SearchResult, 0, len(decoded.Data))
	for _, hit := range decoded.Data {
		results = append(results, contractx.SearchResult{
			Title:    hit.Title,
			URL:      hit.URL,
			Markdown: hit.Markdown,
		})
	}
	return results, nil
}
