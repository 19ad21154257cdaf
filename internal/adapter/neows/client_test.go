package neows

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ishaan-vashist/cosmic-event/internal/domain"
	"github.com/ishaan-vashist/cosmic-event/internal/observability"
)

const testAPIKey = "test-key"

func testMetrics() *observability.Metrics {
	return observability.NewMetricsForTesting()
}

func testClient(baseURL string) *Client {
	return &Client{
		apiKey:     testAPIKey,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics:    testMetrics(),
	}
}

func testRange(t *testing.T) domain.DateRange {
	t.Helper()
	r, err := domain.ParseDateRange("2025-08-19", "2025-08-21", 7)
	require.NoError(t, err)
	return r
}

func TestClient_Feed_Success(t *testing.T) {
	payload := `{"element_count":0,"near_earth_objects":{}}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/feed", r.URL.Path)
		assert.Equal(t, "2025-08-19", r.URL.Query().Get("start_date"))
		assert.Equal(t, "2025-08-21", r.URL.Query().Get("end_date"))
		assert.Equal(t, testAPIKey, r.URL.Query().Get("api_key"))

		_, _ = w.Write([]byte(payload))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	data, err := c.Feed(context.Background(), testRange(t))

	require.NoError(t, err)
	assert.JSONEq(t, payload, string(data))
}

func TestClient_Lookup_Success(t *testing.T) {
	payload := `{"id":"3542519","name":"(2010 PK9)"}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/neo/3542519", r.URL.Path)
		assert.Equal(t, testAPIKey, r.URL.Query().Get("api_key"))

		_, _ = w.Write([]byte(payload))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	data, err := c.Lookup(context.Background(), "3542519")

	require.NoError(t, err)
	assert.JSONEq(t, payload, string(data))
}

func TestClient_Lookup_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Lookup(context.Background(), "99999999")

	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "99999999", notFound.ID)
}

func TestClient_Feed_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Feed(context.Background(), testRange(t))

	var upstream *domain.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.True(t, upstream.RateLimited())
	assert.Equal(t, 30*time.Second, upstream.RetryAfter)
}

func TestClient_Feed_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":"upstream exploded"}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Feed(context.Background(), testRange(t))

	var upstream *domain.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusBadGateway, upstream.Status)
	assert.Contains(t, upstream.Body, "upstream exploded")
	assert.False(t, upstream.RateLimited())
}

func TestClient_Feed_NotFoundIsGenericUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Feed(context.Background(), testRange(t))

	var upstream *domain.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusNotFound, upstream.Status)
}

func TestClient_Feed_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.httpClient.Timeout = 50 * time.Millisecond

	_, err := c.Feed(context.Background(), testRange(t))

	var upstream *domain.UpstreamError
	require.ErrorAs(t, err, &upstream)
}

func TestParseRetryAfter(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		expected time.Duration
	}{
		{"delay seconds", "30", 30 * time.Second},
		{"zero seconds", "0", 0},
		{"empty header", "", 0},
		{"negative seconds", "-5", 0},
		{"garbage", "soon", 0},
		{"past http date", "Tue, 19 Aug 2014 12:00:00 GMT", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseRetryAfter(tt.header))
		})
	}

	t.Run("future http date", func(t *testing.T) {
		future := time.Now().Add(time.Hour).UTC().Format(http.TimeFormat)
		d := parseRetryAfter(future)
		assert.Greater(t, d, 50*time.Minute)
	})
}
