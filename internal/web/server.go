// Package web provides the HTTP server and handlers for the program search UI
// and its JSON API.
package web

import (
	"context"
	"embed"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/UniSearch/internal/config"
	"github.com/JonMunkholm/UniSearch/internal/core"
	"github.com/JonMunkholm/UniSearch/internal/metrics"
	"github.com/JonMunkholm/UniSearch/internal/web/middleware"
	"github.com/JonMunkholm/UniSearch/internal/web/templates"
)

//go:embed static
var staticFiles embed.FS

// Server is the HTTP server for the search application.
type Server struct {
	cfg     *config.Config
	store   *core.SessionStore
	table   *core.Table
	options templates.Options
	limiter *middleware.RateLimiter
	router  *chi.Mux
	server  *http.Server
}

// NewServer creates a Server over the sessions in store.
func NewServer(cfg *config.Config, store *core.SessionStore) *Server {
	s := &Server{
		cfg:     cfg,
		store:   store,
		table:   store.Table(),
		options: templates.OptionsFor(store.Table()),
		router:  chi.NewRouter(),
	}
	if cfg.Rate.Enabled {
		s.limiter = middleware.NewRateLimiter(cfg.Rate.RequestsPerMinute, cfg.Rate.Burst)
	}
	s.setupMiddleware()
	s.setupRoutes()

	sc := cfg.Server
	s.server = &http.Server{
		Addr:         sc.Addr(),
		Handler:      s.router,
		ReadTimeout:  sc.ReadTimeout,
		WriteTimeout: sc.WriteTimeout,
		IdleTimeout:  sc.IdleTimeout,
	}
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(middleware.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(middleware.Logger)
	s.router.Use(chimw.Recoverer)
	s.router.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))
	s.router.Use(securityHeaders(s.cfg.Security.EnableCSP))

	if s.limiter != nil {
		s.router.Use(s.limiter.Middleware(s.handleRateLimited))
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	s.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	s.router.Get("/healthz", s.handleHealth)
	if s.cfg.Metrics.Enabled {
		s.router.Handle(s.cfg.Metrics.Path, metrics.Handler())
	}

	// Pages and controls, bound to the visitor's session
	s.router.Group(func(r chi.Router) {
		r.Use(middleware.Sessions(s.store, middleware.SessionOptions{
			CookieName: s.cfg.Session.CookieName,
			Secure:     s.cfg.Session.SecureCookie,
		}))

		r.Get("/", s.handleIndex)
		r.Get("/record/{id}", s.handleRecord)
		r.Post("/search", s.handleSearch)
		r.Post("/page/prev", s.handlePrevPage)
		r.Post("/page/next", s.handleNextPage)
		r.Post("/reset", s.handleReset)
	})

	// Stateless JSON API
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/search", s.handleAPISearch)
		r.Get("/options", s.handleAPIOptions)
		r.Get("/records/{id}", s.handleAPIRecord)
		r.Get("/export.csv", s.handleExportCSV)
		r.Get("/export.xlsx", s.handleExportXLSX)
	})
}

// Start listens on the configured address until the server is shut down.
// ctx bounds background work such as rate limiter pruning.
func (s *Server) Start(ctx context.Context) error {
	if s.limiter != nil {
		go s.limiter.Run(ctx)
	}

	slog.Info("server listening", "addr", s.server.Addr, "rows", s.table.Len())
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func securityHeaders(enableCSP bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			if enableCSP {
				w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self'; img-src 'self' data:; form-action 'self'")
			}
			next.ServeHTTP(w, r)
		})
	}
}
