// Package api provides the HTTP API server and handlers for the book review catalog.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bookreview/bookreview-server/internal/http/response"
	"github.com/bookreview/bookreview-server/internal/metrics"
	"github.com/bookreview/bookreview-server/internal/ratelimit"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options tunes the HTTP layer.
type Options struct {
	// RequestTimeout bounds each request, including its persistence calls.
	// Zero disables the deadline.
	RequestTimeout time.Duration

	// AllowedOrigins lists CORS origins. Empty allows any origin.
	AllowedOrigins []string
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	services        *Services
	db              Pinger
	authRateLimiter *ratelimit.KeyedRateLimiter
	router          *chi.Mux
	api             huma.API
	logger          *slog.Logger
	opts            Options
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(services *Services, db Pinger, authRateLimiter *ratelimit.KeyedRateLimiter, opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		services:        services,
		db:              db,
		authRateLimiter: authRateLimiter,
		router:          chi.NewRouter(),
		logger:          logger,
		opts:            opts,
	}

	s.setupMiddleware()

	humaConfig := huma.DefaultConfig("Book Review API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API exposes the huma API, mainly for tests.
func (s *Server) API() huma.API {
	return s.api
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins(s.opts.AllowedOrigins),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))
	s.router.Use(metricsMiddleware)
	if s.opts.RequestTimeout > 0 {
		s.router.Use(requestTimeout(s.opts.RequestTimeout))
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/", s.handleRoot)
	s.router.Handle("/metrics", promhttp.Handler())

	s.router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "Not Found", s.logger)
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.MethodNotAllowed(w, "Method Not Allowed", s.logger)
	})

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerBookRoutes()
	s.registerReviewRoutes()
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"message": "Book Review API is running",
	}, s.logger)
}

func allowedOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// metricsMiddleware records request counts and latency labelled by route
// pattern, so path parameters do not explode label cardinality.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.RecordHTTPRequest(r.Method, route, status, time.Since(start))
	})
}

// requestTimeout attaches a deadline to the request context. Store calls
// that overrun it fail and surface as a generic server error.
func requestTimeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
