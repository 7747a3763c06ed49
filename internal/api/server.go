// Package api provides the ReCircle HTTP server: auth, gamification
// events, reports, charts, stats, and collection points.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/recircle-app/recircle/internal/app/accounts"
	"github.com/recircle-app/recircle/internal/app/gamify"
	"github.com/recircle-app/recircle/internal/domain"
	"github.com/recircle-app/recircle/internal/health"
	"github.com/recircle-app/recircle/internal/infra/metrics"
)

// Server is the ReCircle HTTP API server.
type Server struct {
	accounts  *accounts.Service
	gamify    *gamify.Service
	locations domain.LocationStore

	health         *health.Checker
	metricsEnabled bool
	corsOrigins    []string

	// now is injected so handler tests can pin the clock; the accounting
	// core itself never reads it.
	now func() time.Time
}

// NewServer creates a new API server.
func NewServer(acc *accounts.Service, svc *gamify.Service, locations domain.LocationStore) *Server {
	return &Server{
		accounts:  acc,
		gamify:    svc,
		locations: locations,
		now:       time.Now,
	}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetHealth attaches the health checker backing /health.
func (s *Server) SetHealth(h *health.Checker) { s.health = h }

// SetCORSOrigins restricts CORS to the given origins. Empty or containing
// "*" allows any origin.
func (s *Server) SetCORSOrigins(origins []string) { s.corsOrigins = origins }

// SetClock overrides the request clock. Test hook.
func (s *Server) SetClock(now func() time.Time) { s.now = now }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(s.corsMiddleware)
	r.Use(timingMiddleware)

	r.Get("/health", s.handleHealth)

	r.Get("/api/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"version": "0.1.0",
		})
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
	})

	r.Route("/api/users/{email}", func(r chi.Router) {
		r.Get("/", s.handleProfile)
		r.Get("/charts", s.handleCharts)
		r.Get("/activity", s.handleActivity)
		r.Get("/reports", s.handleUserReports)
		r.Post("/visit", s.handleVisit)
		r.Post("/recycle", s.handleRecycle)
	})

	r.Route("/api/reports", func(r chi.Router) {
		r.Post("/", s.handleFileReport)
		r.Get("/", s.handleListReports)
		r.Delete("/{id}", s.handleDeleteReport)
	})

	r.Get("/api/stats", s.handleGlobalStats)
	r.Get("/api/leaderboard", s.handleLeaderboard)

	r.Route("/api/locations", func(r chi.Router) {
		r.Get("/", s.handleListLocations)
		r.Post("/", s.handleAddLocation)
	})

	// Prometheus metrics endpoint
	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}
	status := http.StatusOK
	if !s.health.IsHealthy() {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]any{
		"healthy": s.health.IsHealthy(),
		"checks":  s.health.Statuses(),
	})
}

// ─── Helpers ────────────────────────────────────────────────────────────────

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps a domain error to its HTTP status and writes it.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]any{
		"error": map[string]any{
			"message": err.Error(),
			"type":    "error",
		},
	})
}

// statusFor maps the domain error taxonomy onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrReportNotFound),
		errors.Is(err, domain.ErrLocationNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotReportOwner):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrInvalidEvent),
		errors.Is(err, domain.ErrUnknownMaterial),
		errors.Is(err, domain.ErrEmptyReport):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// corsMiddleware adds CORS headers for the map frontend, honoring the
// configured origin list.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := s.allowOrigin(r.Header.Get("Origin")); origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			if origin != "*" {
				w.Header().Add("Vary", "Origin")
			}
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// allowOrigin resolves the Allow-Origin value for a request origin, or ""
// when the origin is not permitted.
func (s *Server) allowOrigin(origin string) string {
	if len(s.corsOrigins) == 0 {
		return "*"
	}
	for _, o := range s.corsOrigins {
		if o == "*" {
			return "*"
		}
		if o == origin {
			return origin
		}
	}
	return ""
}

// timingMiddleware records per-route latency and error counts.
func timingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		metrics.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		if ww.Status() >= 400 {
			metrics.RequestErrors.WithLabelValues(route, strconv.Itoa(ww.Status())).Inc()
		}
	})
}
