package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidcollell/plataformes/internal/config"
	"github.com/davidcollell/plataformes/internal/database"
	"github.com/davidcollell/plataformes/internal/enrich"
	"github.com/davidcollell/plataformes/internal/scheduler"
	"github.com/davidcollell/plataformes/internal/watchlist"
	"github.com/davidcollell/plataformes/internal/websocket"
)

type stubProvider struct{}

func (stubProvider) Name() string       { return "stub" }
func (stubProvider) IsConfigured() bool { return true }
func (stubProvider) FetchDetails(ctx context.Context, query string) (*enrich.MediaDetails, error) {
	return &enrich.MediaDetails{
		Title: query,
		Year:  2020,
		Type:  enrich.MediaTypeMovie,
	}, nil
}

func setupTestServer(t *testing.T) *Server {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate())

	hub := websocket.NewHub()
	go hub.Run()

	store, err := watchlist.NewStore(db, stubProvider{}, hub, zerolog.Nop())
	require.NoError(t, err)

	sched, err := scheduler.New(zerolog.Nop())
	require.NoError(t, err)

	return NewServer(store, hub, sched, config.Default(), zerolog.Nop())
}

func TestServer_HealthCheck(t *testing.T) {
	s := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServer_GetStatus(t *testing.T) {
	s := setupTestServer(t)

	_, err := s.store.Add(context.Background(), "Dune")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var status struct {
		Version      string `json:"version"`
		TowatchCount int    `json:"towatchCount"`
		WatchedCount int    `json:"watchedCount"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, config.Version, status.Version)
	assert.Equal(t, 1, status.TowatchCount)
	assert.Equal(t, 0, status.WatchedCount)
}

func TestServer_SecurityHeaders(t *testing.T) {
	s := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, rec.Header().Get("Cache-Control"), "no-store")
}

func TestServer_CrossOriginDenied(t *testing.T) {
	s := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	req.Host = "localhost:8484"
	req.Header.Set("Origin", "https://evil.example.com")
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestServer_SameOriginAllowed(t *testing.T) {
	s := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	req.Host = "localhost:8484"
	req.Header.Set("Origin", "http://localhost:8484")
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
