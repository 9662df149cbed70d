package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	json "github.com/goccy/go-json"

	"github.com/skyward/launchspot/internal/auth"
	"github.com/skyward/launchspot/internal/catalog"
	"github.com/skyward/launchspot/internal/health"
	"github.com/skyward/launchspot/internal/httputil"
	"github.com/skyward/launchspot/internal/metrics"
	"github.com/skyward/launchspot/internal/viscache"
	"github.com/skyward/launchspot/internal/visibility"
)

// Server holds the HTTP server and its dependencies.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	store      *catalog.Store
	resolver   *visibility.Resolver
	cache      *viscache.Cache
	trustProxy bool
}

// NewServer creates a configured HTTP server.
func NewServer(addr string, logger *slog.Logger, authCfg auth.Config, trustProxy bool,
	store *catalog.Store, resolver *visibility.Resolver, cache *viscache.Cache) *Server {

	s := &Server{
		logger:     logger,
		store:      store,
		resolver:   resolver,
		cache:      cache,
		trustProxy: trustProxy,
	}

	mux := http.NewServeMux()

	// Register routes.
	mux.HandleFunc("GET /healthz", health.Healthz)
	mux.HandleFunc("GET /readyz", health.Readyz)
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /api/v1/launches", s.handleLaunches)
	mux.HandleFunc("GET /api/v1/visibility/{id}", s.handleVisibilityByID)
	mux.HandleFunc("POST /api/v1/visibility", s.handleVisibilityPost)
	mux.HandleFunc("GET /api/v1/cache/stats", s.handleCacheStats)

	// Build middleware chain: metrics -> logging -> auth -> mux.
	var handler http.Handler = mux
	handler = auth.Middleware(authCfg)(handler)
	handler = s.loggingMiddleware()(handler)
	handler = metrics.Middleware(handler)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// HTTPServer returns the underlying *http.Server for external control (e.g. shutdown).
func (s *Server) HTTPServer() *http.Server {
	return s.httpServer
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Handler returns the full middleware-wrapped handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) handleLaunches(w http.ResponseWriter, r *http.Request) {
	ds := s.store.Get()
	if ds == nil {
		writeError(w, http.StatusServiceUnavailable, "no launch dataset loaded yet")
		return
	}
	writeJSON(w, http.StatusOK, ds)
}

func (s *Server) handleVisibilityByID(w http.ResponseWriter, r *http.Request) {
	ds := s.store.Get()
	if ds == nil {
		writeError(w, http.StatusServiceUnavailable, "no launch dataset loaded yet")
		return
	}

	id := r.PathValue("id")
	l := ds.Find(id)
	if l == nil {
		writeError(w, http.StatusNotFound, "unknown launch id")
		return
	}

	res, err := s.resolver.Resolve(r.Context(), l, nil, nil)
	if err != nil {
		s.logger.Error("resolve failed", "component", "api", "launch", id, "error", err)
		writeError(w, http.StatusInternalServerError, "resolution failed")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleVisibilityPost(w http.ResponseWriter, r *http.Request) {
	var l catalog.Launch
	if err := json.NewDecoder(r.Body).Decode(&l); err != nil {
		writeError(w, http.StatusBadRequest, "invalid launch record: "+err.Error())
		return
	}
	if l.ID == "" {
		writeError(w, http.StatusBadRequest, "launch id is required")
		return
	}

	res, err := s.resolver.Resolve(r.Context(), &l, nil, nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "resolution failed")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	if s.cache == nil {
		writeJSON(w, http.StatusOK, viscache.Stats{})
		return
	}
	writeJSON(w, http.StatusOK, s.cache.Stats())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// probePath returns true for health/readiness probe paths that should not log at INFO.
func probePath(path string) bool {
	return path == "/healthz" || path == "/readyz"
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.statusCode = code
	sr.ResponseWriter.WriteHeader(code)
}

func (s *Server) loggingMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sr := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(sr, r)

			duration := time.Since(start)
			level := slog.LevelInfo
			if probePath(r.URL.Path) {
				level = slog.LevelDebug
			}

			s.logger.Log(r.Context(), level, "request",
				"component", "api",
				"method", r.Method,
				"path", r.URL.Path,
				"status", strconv.Itoa(sr.statusCode),
				"duration_ms", duration.Milliseconds(),
				"remote_ip", httputil.ClientIP(r, s.trustProxy),
			)
		})
	}
}
