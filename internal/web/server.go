// Package web provides the HTTP API and report pages for the upload workbench.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/JonMunkholm/datapilot/internal/config"
	"github.com/JonMunkholm/datapilot/internal/core"
	mw "github.com/JonMunkholm/datapilot/internal/web/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server is the HTTP server for one workbench session.
type Server struct {
	cfg      *config.Config
	service  *core.Service
	gatherer prometheus.Gatherer
	router   *chi.Mux
	server   *http.Server
	limiter  *mw.RateLimiter
}

// NewServer creates a server around a session. Metrics from gatherer are
// exposed on /metrics; pass nil to disable the endpoint.
func NewServer(cfg *config.Config, service *core.Service, gatherer prometheus.Gatherer) *Server {
	s := &Server{
		cfg:      cfg,
		service:  service,
		gatherer: gatherer,
		router:   chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(mw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(mw.Client)
	s.router.Use(mw.Logger)
	s.router.Use(middleware.Recoverer)
	if d := s.cfg.Server.RequestTimeout; d > 0 {
		s.router.Use(middleware.Timeout(d))
	}
	s.router.Use(securityHeaders)

	if s.cfg.Rate.Enabled {
		s.limiter = mw.NewRateLimiter(s.cfg.Rate.RequestsPerMinute, time.Minute)
		s.router.Use(s.limiter.Handler)
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	if s.gatherer != nil {
		s.router.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	// Pages
	s.router.Get("/", s.handleReportPage)
	s.router.Get("/report", s.handleReportPage)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(mw.APIKeyAuth(s.cfg.Security))

		// Session
		r.Get("/status", s.handleStatus)
		r.Post("/advance", s.handleAdvance)
		r.Post("/reset", s.handleReset)
		r.Get("/activity", s.handleActivity)
		r.Get("/categories", s.handleCategories)
		r.Get("/issues", s.handleIssues)
		r.Post("/validate", s.handleRevalidate)
		r.Get("/report", s.handleReportExport)

		// Files
		r.Post("/files", s.handleUpload)
		r.Get("/files", s.handleListFiles)
		r.Route("/files/{fileID}", func(r chi.Router) {
			r.Get("/", s.handleGetFile)
			r.Delete("/", s.handleDeleteFile)
			r.Get("/issues", s.handleFileIssues)
			r.Put("/cells", s.handleEditCell)
			r.Put("/rows", s.handleReplaceRows)
			r.Put("/category", s.handleSetCategory)
			r.Get("/search", s.handleSearch)
			r.Get("/activity", s.handleFileActivity)
			r.Get("/export", s.handleExportFile)
			r.Get("/rules", s.handleEvaluateRules)
		})

		// Rules
		r.Get("/rules", s.handleListRules)
		r.Post("/rules", s.handleCreateRule)
		r.Get("/rules/export", s.handleExportRules)
		r.Post("/rules/import", s.handleImportRules)
		r.Get("/rules/{ruleID}", s.handleGetRule)
		r.Put("/rules/{ruleID}", s.handleUpdateRule)
		r.Delete("/rules/{ruleID}", s.handleDeleteRule)
		r.Post("/rules/{ruleID}/toggle", s.handleToggleRule)

		// Priority weights
		r.Get("/weights", s.handleGetWeights)
		r.Put("/weights", s.handleSetWeight)
		r.Get("/weights/templates", s.handleListWeightTemplates)
		r.Post("/weights/templates/{name}", s.handleApplyWeightTemplate)
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("starting server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown stops accepting requests and waits for in-flight ones, then for
// any upload batch still being parsed.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.limiter != nil {
		s.limiter.Stop()
	}
	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			return err
		}
	}
	return s.service.Limiter().WaitForDrain(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// writeJSON encodes v as JSON with a 200 status.
// Encoding errors are only logged since headers are already sent.
func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, http.StatusOK, v)
}

func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
