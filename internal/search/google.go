// Package search wraps the Google Custom Search JSON API. It is an optional
// collaborator: callers must treat ErrNotConfigured as "skip this strategy",
// not as a failure.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"jobreach-utils/internal/config"
	"jobreach-utils/internal/logging"
	"jobreach-utils/internal/logging/types"
	"jobreach-utils/pkg/retry"
	"jobreach-utils/pkg/utils"
)

const endpoint = "https://www.googleapis.com/customsearch/v1"

// ErrNotConfigured is returned when no API key or engine ID is set.
var ErrNotConfigured = errors.New("search: google custom search not configured")

// Result is one organic search hit.
type Result struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// Client queries the Google Custom Search JSON API
type Client struct {
	config     *config.Config
	httpClient *http.Client
	logger     types.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client used for API calls.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a new search client
func NewClient(cfg *config.Config, opts ...Option) *Client {
	c := &Client{
		config:     cfg,
		httpClient: &http.Client{Timeout: cfg.Search.Timeout},
		logger:     logging.GetGlobalLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsConfigured reports whether the client has credentials to make calls.
func (c *Client) IsConfigured() bool {
	return c.config.Search.APIKey != "" && c.config.Search.EngineID != ""
}

// Search runs one query and returns up to num organic results.
func (c *Client) Search(ctx context.Context, query string, num int) ([]Result, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}
	if num <= 0 || num > 10 {
		num = 5
	}

	params := url.Values{}
	params.Set("key", c.config.Search.APIKey)
	params.Set("cx", c.config.Search.EngineID)
	params.Set("q", query)
	params.Set("num", fmt.Sprintf("%d", num))
	requestURL := endpoint + "?" + params.Encode()

	policy := retry.DefaultPolicy()
	policy.MaxAttempts = c.config.Search.MaxRetries

	var results []Result
	err := policy.Do(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
		if err != nil {
			return err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return err
		}
		if resp.StatusCode != http.StatusOK {
			return utils.NewSearchError(fmt.Sprintf("status %d", resp.StatusCode))
		}

		var payload struct {
			Items []Result `json:"items"`
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			return fmt.Errorf("failed to parse search response: %w", err)
		}
		results = payload.Items
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Debug("Search completed", map[string]interface{}{
		"query":   query,
		"results": len(results),
	})
	return results, nil
}

// FirstURL returns the link of the top result for the query, or "" when there
// are no hits.
func (c *Client) FirstURL(ctx context.Context, query string) (string, error) {
	results, err := c.Search(ctx, query, 3)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "", nil
	}
	return results[0].Link, nil
}
