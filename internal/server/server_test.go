package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tour-planner/internal/genetic"
	"tour-planner/internal/handlers"
	"tour-planner/internal/routing"
	"tour-planner/internal/sqlite"
)

func setupTestMux(t *testing.T) http.Handler {
	db, err := sqlite.New(filepath.Join(t.TempDir(), "server.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := genetic.DefaultConfig()
	cfg.Generations = 2
	cfg.PopulationSize = 6

	h := &handlers.Handler{DB: db, Planner: routing.NewGeneticPlanner(), Defaults: cfg}
	return loggingMiddleware(corsMiddleware(setupRoutes(h)))
}

func TestRoutes(t *testing.T) {
	mux := setupTestMux(t)

	tests := []struct {
		name     string
		method   string
		path     string
		body     string
		expected int
	}{
		{"health", http.MethodGet, "/api/v1/health", "", http.StatusOK},
		{"health wrong method", http.MethodPost, "/api/v1/health", "", http.StatusMethodNotAllowed},
		{"list point sets", http.MethodGet, "/api/v1/point-sets", "", http.StatusOK},
		{"point sets wrong method", http.MethodDelete, "/api/v1/point-sets", "", http.StatusMethodNotAllowed},
		{"point set bare slash", http.MethodGet, "/api/v1/point-sets/", "", http.StatusNotFound},
		{"missing point set", http.MethodGet, "/api/v1/point-sets/9", "", http.StatusNotFound},
		{"point set patch", http.MethodPatch, "/api/v1/point-sets/9", "", http.StatusMethodNotAllowed},
		{"solve", http.MethodPost, "/api/v1/solve", `{"points":[{"x":0,"y":0},{"x":1,"y":0},{"x":0,"y":1}]}`, http.StatusOK},
		{"solve wrong method", http.MethodGet, "/api/v1/solve", "", http.StatusMethodNotAllowed},
		{"list runs", http.MethodGet, "/api/v1/runs", "", http.StatusOK},
		{"runs bare slash", http.MethodGet, "/api/v1/runs/", "", http.StatusNotFound},
		{"run put", http.MethodPut, "/api/v1/runs/abc", "", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			mux.ServeHTTP(rr, req)
			assert.Equal(t, tt.expected, rr.Code, rr.Body.String())
		})
	}
}

func TestCORSMiddleware(t *testing.T) {
	mux := setupTestMux(t)

	tests := []struct {
		name    string
		origin  string
		allowed bool
	}{
		{"localhost", "http://localhost:5173", true},
		{"loopback", "http://127.0.0.1:3000", true},
		{"foreign", "https://example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, "/api/v1/solve", nil)
			req.Header.Set("Origin", tt.origin)
			rr := httptest.NewRecorder()
			mux.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusOK, rr.Code)
			if tt.allowed {
				assert.Equal(t, tt.origin, rr.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

func TestServerLifecycle(t *testing.T) {
	srv, err := New(Config{
		Addr:     "127.0.0.1:0",
		DBPath:   filepath.Join(t.TempDir(), "lifecycle.db"),
		Defaults: genetic.DefaultConfig(),
	})
	require.NoError(t, err)

	addr, err := srv.Start()
	require.NoError(t, err)
	assert.NotEqual(t, "127.0.0.1:0", addr)

	resp, err := http.Get("http://" + addr + "/api/v1/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, srv.Shutdown(ctx))
}

func TestNewRejectsInvalidDefaults(t *testing.T) {
	bad := genetic.DefaultConfig()
	bad.PopulationSize = 1

	_, err := New(Config{Addr: "127.0.0.1:0", DBPath: filepath.Join(t.TempDir(), "bad.db"), Defaults: bad})

	assert.ErrorIs(t, err, genetic.ErrInvalidConfiguration)
}
