package webserver

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

const (
	DefaultAddress   = ":8080"
	DefaultStaticDir = "wwwroot"

	shutdownTimeout = 10 * time.Second
)

type Manager struct {
	r         *mux.Router
	addr      string
	staticDir string
	once      sync.Once
}

// NewManager returns a webserver listening on addr. Files under staticDir are
// served at the root once every other route has been registered.
func NewManager(addr, staticDir string) *Manager {
	if addr == "" {
		addr = DefaultAddress
	}
	return &Manager{
		r:         mux.NewRouter(),
		addr:      addr,
		staticDir: staticDir,
	}
}

func (m *Manager) Router() *mux.Router {
	return m.r
}

func (m *Manager) Addr() string {
	return m.addr
}

// Handle registers h for GET requests on path.
func (m *Manager) Handle(path string, h http.Handler) {
	m.r.Handle(path, h).Methods(http.MethodGet)
}

// Handler returns the router wrapped with CORS. The static file route is added
// on the first call, so every API route must be registered before.
func (m *Manager) Handler() http.Handler {
	m.once.Do(m.rootHandlers)
	return withCORS(m.r)
}

func (m *Manager) rootHandlers() {
	if m.staticDir == "" {
		return
	}
	fs := http.FileServer(http.Dir(m.staticDir))
	m.r.PathPrefix("/").Handler(fs).Methods(http.MethodGet, http.MethodHead)
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, X-Admin-Key")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m *Manager) Debug() {
	_ = m.r.Walk(func(route *mux.Route, router *mux.Router, ancestors []*mux.Route) error {
		pathTemplate, err := route.GetPathTemplate()
		if err == nil {
			fmt.Println("ROUTE:", pathTemplate)
		}
		methods, err := route.GetMethods()
		if err == nil {
			fmt.Println("Methods:", strings.Join(methods, ","))
		}
		fmt.Println()
		return nil
	})
}

// Serve blocks until ctx is done and then shuts the server down, waiting for
// open requests up to a deadline.
func (m *Manager) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:         m.addr,
		WriteTimeout: time.Second * 15,
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
		Handler:      m.Handler(),
	}

	errChan := make(chan error, 1)
	go func() {
		log.Printf("webserver listening on %s\n", m.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err, ok := <-errChan:
		if ok {
			return errors.Wrapf(err, "listening on %s", m.addr)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	log.Println("webserver shutting down")
	return srv.Shutdown(shutdownCtx)
}
