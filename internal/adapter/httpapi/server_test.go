package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ishaan-vashist/cosmic-event/internal/config"
	"github.com/ishaan-vashist/cosmic-event/internal/domain"
	"github.com/ishaan-vashist/cosmic-event/internal/service"
)

const (
	testToken  = "11111111-2222-3333-4444-555555555555"
	testUserID = "user-1"
)

// --- mocks ---

type mockService struct {
	groups    []domain.DateGroup
	detail    domain.NEO
	favorites []domain.Favorite
	favorite  domain.Favorite
	favorited bool
	err       error
	readyErr  error

	lastQuery    service.FeedQuery
	lastHeld     []domain.DateGroup
	lastDetailID string
	lastOrbital  bool
	lastUserID   string
	lastNeoID    string
}

func (m *mockService) Feed(_ context.Context, q service.FeedQuery) ([]domain.DateGroup, error) {
	m.lastQuery = q
	if m.err != nil {
		return nil, m.err
	}
	return m.groups, nil
}

func (m *mockService) ExtendFeed(_ context.Context, held []domain.DateGroup, q service.FeedQuery) ([]domain.DateGroup, error) {
	m.lastHeld = held
	m.lastQuery = q
	if m.err != nil {
		return nil, m.err
	}
	return m.groups, nil
}

func (m *mockService) Detail(_ context.Context, id string, includeOrbital bool) (domain.NEO, error) {
	m.lastDetailID = id
	m.lastOrbital = includeOrbital
	if m.err != nil {
		return domain.NEO{}, m.err
	}
	return m.detail, nil
}

func (m *mockService) AddFavorite(_ context.Context, userID, neoID string) (domain.Favorite, error) {
	m.lastUserID = userID
	m.lastNeoID = neoID
	if m.err != nil {
		return domain.Favorite{}, m.err
	}
	return m.favorite, nil
}

func (m *mockService) RemoveFavorite(_ context.Context, userID, neoID string) error {
	m.lastUserID = userID
	m.lastNeoID = neoID
	return m.err
}

func (m *mockService) ListFavorites(_ context.Context, userID string) ([]domain.Favorite, error) {
	m.lastUserID = userID
	if m.err != nil {
		return nil, m.err
	}
	return m.favorites, nil
}

func (m *mockService) IsFavorite(_ context.Context, userID, neoID string) (bool, error) {
	m.lastUserID = userID
	m.lastNeoID = neoID
	if m.err != nil {
		return false, m.err
	}
	return m.favorited, nil
}

func (m *mockService) CheckReadiness(_ context.Context) error { return m.readyErr }

type mockSessions struct {
	users map[string]string
	err   error
}

func (m *mockSessions) Resolve(_ context.Context, token string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.users[token], nil
}

// --- helpers ---

func newTestServer(svc NEOService) *Server {
	sessions := &mockSessions{users: map[string]string{testToken: testUserID}}
	cfg := config.ServerConfig{Addr: ":0", ReadTimeout: 5 * time.Second, WriteTimeout: 5 * time.Second}
	return NewServer(cfg, svc, sessions, slog.Default())
}

func doRequest(t *testing.T, s *Server, req *http.Request) *http.Response {
	t.Helper()
	resp, err := s.app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func authed(req *http.Request) *http.Request {
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+testToken)
	return req
}

func sampleGroups() []domain.DateGroup {
	return []domain.DateGroup{
		{Date: "2025-08-19", Count: 1, Objects: []domain.NEO{{ID: "100", Name: "(2025 A1)", Hazardous: true}}},
	}
}

// --- feed endpoints ---

func TestFeedEndpoint(t *testing.T) {
	svc := &mockService{groups: sampleGroups()}
	srv := newTestServer(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/feed?start_date=2025-08-19&end_date=2025-08-20&hazardous_only=true&sort=size_desc", nil)
	resp := doRequest(t, srv, req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body feedResponse
	decodeBody(t, resp, &body)
	require.Len(t, body.Dates, 1)
	assert.Equal(t, "2025-08-19", body.Dates[0].Date)
	assert.Equal(t, 1, body.TotalObjects)

	assert.Equal(t, service.FeedQuery{
		StartDate:     "2025-08-19",
		EndDate:       "2025-08-20",
		HazardousOnly: true,
		Sort:          "size_desc",
	}, svc.lastQuery)
}

func TestFeedEndpoint_ValidationError(t *testing.T) {
	svc := &mockService{err: &domain.ValidationError{Param: "sort", Reason: "must be one of approach_asc, approach_desc, size_asc, size_desc"}}
	srv := newTestServer(svc)

	resp := doRequest(t, srv, httptest.NewRequest(http.MethodGet, "/api/v1/feed?sort=bogus", nil))

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body map[string]any
	decodeBody(t, resp, &body)
	assert.Equal(t, true, body["error"])
	assert.Contains(t, body["message"], "sort")
}

func TestFeedEndpoint_RateLimited(t *testing.T) {
	svc := &mockService{err: &domain.UpstreamError{Status: 429, RetryAfter: 30 * time.Second}}
	srv := newTestServer(svc)

	resp := doRequest(t, srv, httptest.NewRequest(http.MethodGet, "/api/v1/feed", nil))

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "30", resp.Header.Get("Retry-After"))
}

func TestFeedEndpoint_UpstreamError(t *testing.T) {
	svc := &mockService{err: &domain.UpstreamError{Status: 500, Body: "upstream exploded"}}
	srv := newTestServer(svc)

	resp := doRequest(t, srv, httptest.NewRequest(http.MethodGet, "/api/v1/feed", nil))

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	var body map[string]any
	decodeBody(t, resp, &body)
	assert.NotContains(t, body["message"], "exploded", "upstream details must not leak to clients")
}

func TestFeedEndpoint_SchemaError(t *testing.T) {
	svc := &mockService{err: &domain.SchemaError{Path: "near_earth_objects", Reason: "missing"}}
	srv := newTestServer(svc)

	resp := doRequest(t, srv, httptest.NewRequest(http.MethodGet, "/api/v1/feed", nil))

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestExtendFeedEndpoint(t *testing.T) {
	svc := &mockService{groups: sampleGroups()}
	srv := newTestServer(svc)

	payload := `{
		"held": [{"date": "2025-08-18", "count": 1, "objects": [{"id": "old", "name": "(2025 Z9)"}]}],
		"start_date": "2025-08-19",
		"end_date": "2025-08-20",
		"sort": "approach_desc"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/feed/extend", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := doRequest(t, srv, req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.Len(t, svc.lastHeld, 1)
	assert.Equal(t, "2025-08-18", svc.lastHeld[0].Date)
	assert.Equal(t, "approach_desc", svc.lastQuery.Sort)
}

func TestExtendFeedEndpoint_MalformedBody(t *testing.T) {
	srv := newTestServer(&mockService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/feed/extend", strings.NewReader(`{"held": [`))
	req.Header.Set("Content-Type", "application/json")
	resp := doRequest(t, srv, req)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// --- detail endpoint ---

func TestDetailEndpoint(t *testing.T) {
	svc := &mockService{detail: domain.NEO{ID: "3542519", Name: "(2010 PK9)", Hazardous: true}}
	srv := newTestServer(svc)

	resp := doRequest(t, srv, httptest.NewRequest(http.MethodGet, "/api/v1/neo/3542519?include_orbital=true", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "3542519", svc.lastDetailID)
	assert.True(t, svc.lastOrbital)

	var body domain.NEO
	decodeBody(t, resp, &body)
	assert.Equal(t, "3542519", body.ID)
}

func TestDetailEndpoint_NotFound(t *testing.T) {
	svc := &mockService{err: &domain.NotFoundError{ID: "99999999"}}
	srv := newTestServer(svc)

	resp := doRequest(t, srv, httptest.NewRequest(http.MethodGet, "/api/v1/neo/99999999", nil))

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// --- favorites endpoints ---

func TestFavorites_WithoutTokenRejected(t *testing.T) {
	srv := newTestServer(&mockService{})

	resp := doRequest(t, srv, httptest.NewRequest(http.MethodGet, "/api/v1/favorites", nil))

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestFavorites_UnknownTokenRejected(t *testing.T) {
	srv := newTestServer(&mockService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/favorites", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer not-a-session")
	resp := doRequest(t, srv, req)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestListFavoritesEndpoint(t *testing.T) {
	svc := &mockService{favorites: []domain.Favorite{{UserID: testUserID, NeoID: "3542519", Name: "(2010 PK9)"}}}
	srv := newTestServer(svc)

	resp := doRequest(t, srv, authed(httptest.NewRequest(http.MethodGet, "/api/v1/favorites", nil)))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, testUserID, svc.lastUserID)

	var body favoritesResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, 1, body.Count)
	require.Len(t, body.Favorites, 1)
	assert.Equal(t, "3542519", body.Favorites[0].NeoID)
}

func TestAddFavoriteEndpoint(t *testing.T) {
	svc := &mockService{favorite: domain.Favorite{UserID: testUserID, NeoID: "3542519", Name: "(2010 PK9)"}}
	srv := newTestServer(svc)

	resp := doRequest(t, srv, authed(httptest.NewRequest(http.MethodPost, "/api/v1/favorites/3542519", nil)))

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, testUserID, svc.lastUserID)
	assert.Equal(t, "3542519", svc.lastNeoID)

	var body domain.Favorite
	decodeBody(t, resp, &body)
	assert.Equal(t, "3542519", body.NeoID)
}

func TestRemoveFavoriteEndpoint(t *testing.T) {
	svc := &mockService{}
	srv := newTestServer(svc)

	resp := doRequest(t, srv, authed(httptest.NewRequest(http.MethodDelete, "/api/v1/favorites/3542519", nil)))

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "3542519", svc.lastNeoID)
}

func TestFavoriteStatusEndpoint(t *testing.T) {
	svc := &mockService{favorited: true}
	srv := newTestServer(svc)

	resp := doRequest(t, srv, authed(httptest.NewRequest(http.MethodGet, "/api/v1/favorites/3542519", nil)))

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body favoriteStatusResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, "3542519", body.NeoID)
	assert.True(t, body.Favorited)
}

func TestFavorites_SessionLookupError(t *testing.T) {
	srv := NewServer(
		config.ServerConfig{Addr: ":0", ReadTimeout: 5 * time.Second, WriteTimeout: 5 * time.Second},
		&mockService{},
		&mockSessions{err: errors.New("redis down")},
		slog.Default(),
	)

	resp := doRequest(t, srv, authed(httptest.NewRequest(http.MethodGet, "/api/v1/favorites", nil)))

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

// --- operational endpoints ---

func TestHealthzReturns200(t *testing.T) {
	srv := newTestServer(&mockService{})

	resp := doRequest(t, srv, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	srv := newTestServer(&mockService{})

	resp := doRequest(t, srv, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "ready", body["status"])
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	srv := newTestServer(&mockService{readyErr: errors.New("no upstream fetch has succeeded yet")})

	resp := doRequest(t, srv, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "no upstream fetch has succeeded yet", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(&mockService{})

	resp := doRequest(t, srv, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "go_goroutines")
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{name: "standard", header: "Bearer abc123", want: "abc123"},
		{name: "case insensitive scheme", header: "bearer abc123", want: "abc123"},
		{name: "missing header", header: "", want: ""},
		{name: "wrong scheme", header: "Basic abc123", want: ""},
		{name: "scheme only", header: "Bearer ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, bearerToken(tt.header))
		})
	}
}
