package webserver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupManager(t *testing.T) *Manager {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>Rally</h1>"), 0o644))

	m := NewManager("", dir)
	m.Router().HandleFunc("/api/rally", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "[]")
	}).Methods(http.MethodGet)
	m.Handle("/metrics", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "rally_records 0")
	}))
	return m
}

func TestManager_DefaultAddress(t *testing.T) {
	assert.Equal(t, DefaultAddress, NewManager("", "").Addr())
	assert.Equal(t, ":9090", NewManager(":9090", "").Addr())
}

func TestManager_ServesIndexAtRoot(t *testing.T) {
	h := setupManager(t).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>Rally</h1>")
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestManager_APIRoutesWinOverStatic(t *testing.T) {
	h := setupManager(t).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/rally", nil))
	assert.Equal(t, "[]", rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, "rally_records 0", rec.Body.String())
}

func TestManager_Preflight(t *testing.T) {
	h := setupManager(t).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/rally/reset", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodDelete)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "X-Admin-Key")
}

func TestManager_HandlerIsIdempotent(t *testing.T) {
	m := setupManager(t)
	m.Handler()
	m.Handler()

	routes := 0
	_ = m.Router().Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		routes++
		return nil
	})
	assert.Equal(t, 3, routes)
}

func TestManager_ServeStopsWithContext(t *testing.T) {
	m := NewManager("127.0.0.1:0", "")
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- m.Serve(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("server did not shut down")
	}
}
