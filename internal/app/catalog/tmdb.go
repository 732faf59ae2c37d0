/*
Package catalog is a thin client for the TMDB v3 API.
*/
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"moviehub/internal/app/movie"
	"moviehub/internal/pkg/logx"
	"moviehub/internal/pkg/metrics"
)

const (
	// DefaultBaseURL is the public TMDB v3 API root.
	DefaultBaseURL = "https://api.themoviedb.org/3"

	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 4 << 20
)

// ErrUpstream wraps every failure talking to TMDB.
var ErrUpstream = errors.New("catalog: upstream request failed")

// Page is one page of movie results.
type Page struct {
	Page         int           `json:"page"`
	Results      []movie.Movie `json:"results"`
	TotalPages   int           `json:"total_pages"`
	TotalResults int           `json:"total_results"`
}

// Client calls TMDB with a v4 read access token.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  zerolog.Logger
}

// NewClient returns a Client. A nil httpClient gets a default with a 10s timeout.
func NewClient(baseURL, token string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    httpClient,
		logger:  logx.Component("TMDB"),
	}
}

// Popular lists movies ordered by popularity.
func (c *Client) Popular(ctx context.Context) (Page, error) {
	return c.get(ctx, "/discover/movie", url.Values{"sort_by": {"popularity.desc"}})
}

// Search finds movies matching query.
func (c *Client) Search(ctx context.Context, query string) (Page, error) {
	return c.get(ctx, "/search/movie", url.Values{"query": {query}})
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (Page, error) {
	endpoint := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Page{}, fmt.Errorf("catalog: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues("tmdb", "error").Inc()
		return Page{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer res.Body.Close()

	metrics.UpstreamRequests.WithLabelValues("tmdb", strconv.Itoa(res.StatusCode)).Inc()
	c.logger.Debug().
		Str("path", path).
		Int("status", res.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("TMDB request")

	if res.StatusCode != http.StatusOK {
		return Page{}, fmt.Errorf("%w: %s returned %d", ErrUpstream, path, res.StatusCode)
	}

	var page Page
	if err := json.NewDecoder(io.LimitReader(res.Body, maxBodyBytes)).Decode(&page); err != nil {
		return Page{}, fmt.Errorf("%w: decode %s: %v", ErrUpstream, path, err)
	}
	if page.Results == nil {
		page.Results = []movie.Movie{}
	}
	return page, nil
}
