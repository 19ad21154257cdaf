package neows

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ishaan-vashist/cosmic-event/internal/domain"
	"github.com/ishaan-vashist/cosmic-event/internal/observability"
)

// maxErrorBody caps how much of an upstream error response is kept on the
// returned error.
const maxErrorBody = 512

// Client fetches raw payloads from the NASA NeoWs REST API. Responses are
// returned as received; validation and normalization belong to the domain
// layer. No retries are performed here; retry policy is the caller's.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a NeoWs API client.
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		logger:     logger,
		metrics:    metrics,
	}
}

// Feed fetches the raw date-keyed feed for a window.
func (c *Client) Feed(ctx context.Context, r domain.DateRange) ([]byte, error) {
	params := url.Values{
		"start_date": {r.StartString()},
		"end_date":   {r.EndString()},
		"api_key":    {c.apiKey},
	}
	return c.doRequest(ctx, c.baseURL+"/feed?"+params.Encode(), "feed", "")
}

// Lookup fetches the raw detail record for one object.
func (c *Client) Lookup(ctx context.Context, id string) ([]byte, error) {
	params := url.Values{"api_key": {c.apiKey}}
	u := fmt.Sprintf("%s/neo/%s?%s", c.baseURL, url.PathEscape(id), params.Encode())
	return c.doRequest(ctx, u, "lookup", id)
}

func (c *Client) doRequest(ctx context.Context, fullURL, endpoint, id string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.UpstreamDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(endpoint, "error").Inc()
		return nil, &domain.UpstreamError{Err: fmt.Errorf("%s request: %w", endpoint, err)}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound && endpoint == "lookup":
		c.metrics.UpstreamRequests.WithLabelValues(endpoint, "not_found").Inc()
		return nil, &domain.NotFoundError{ID: id}
	case resp.StatusCode == http.StatusTooManyRequests:
		retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
		c.metrics.UpstreamRequests.WithLabelValues(endpoint, "rate_limited").Inc()
		c.logger.Warn("neows rate limited", "endpoint", endpoint, "retry_after", retryAfter)
		return nil, &domain.UpstreamError{Status: resp.StatusCode, RetryAfter: retryAfter}
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.metrics.UpstreamRequests.WithLabelValues(endpoint, "error").Inc()
		return nil, &domain.UpstreamError{Status: resp.StatusCode, Body: string(body)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(endpoint, "error").Inc()
		return nil, &domain.UpstreamError{Err: fmt.Errorf("read %s response: %w", endpoint, err)}
	}

	c.metrics.UpstreamRequests.WithLabelValues(endpoint, "success").Inc()
	c.logger.Debug("neows request complete", "endpoint", endpoint, "bytes", len(data))
	return data, nil
}

// parseRetryAfter handles both the delay-seconds and HTTP-date forms of the
// Retry-After header. Unparseable or past values yield zero.
func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}
