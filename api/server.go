// Package api provides the HTTP REST API server for entitylens.
//
// It exposes the composed entity lookup plus the individual pipeline stages
// (financials, resolver, news, opinions) for the web layer.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/seenimoa/entitylens/internal/config"
	"github.com/seenimoa/entitylens/internal/infra"
	"github.com/seenimoa/entitylens/pkg/models"
	"github.com/seenimoa/entitylens/pkg/utils"
)

// Version is reported by /health. Overridden at build time.
var Version = "dev"

// EntityComposer builds the composite record for one lookup.
type EntityComposer interface {
	ScrapeEntityInfo(ctx context.Context, name string, typ models.EntityType) models.EntityInfo
}

// Financials returns the aggregated record for a symbol.
type Financials interface {
	Get(ctx context.Context, identifier string) models.FinancialRecord
}

// Resolver maps between company names and ticker symbols.
type Resolver interface {
	ResolveSymbol(ctx context.Context, name string) (string, bool)
	ResolveName(ctx context.Context, symbol string) string
}

// NewsFeed returns recent headlines for a query.
type NewsFeed interface {
	Fetch(ctx context.Context, query string) []models.NewsItem
}

// OpinionFeed returns public discussion posts for a query.
type OpinionFeed interface {
	Fetch(ctx context.Context, query string) []models.OpinionItem
}

// Deps are the pipeline components the server exposes.
type Deps struct {
	Composer   EntityComposer
	Financials Financials
	Resolver   Resolver
	News       NewsFeed
	Opinions   OpinionFeed
	Logger     *slog.Logger
}

// Server is the HTTP API server.
type Server struct {
	router chi.Router
	cfg    *config.Config
	deps   Deps
	logger *slog.Logger
}

// NewServer creates a configured API server with all routes and middleware.
func NewServer(cfg *config.Config, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = infra.NopLogger()
	}
	srv := &Server{
		cfg:    cfg,
		deps:   deps,
		logger: logger.With("component", "api"),
	}
	srv.router = srv.buildRouter()
	return srv
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Get("/entity", s.handleEntity)
		r.Get("/financials/{symbol}", s.handleFinancials)

		r.Get("/resolve/symbol", s.handleResolveSymbol)
		r.Get("/resolve/name/{symbol}", s.handleResolveName)

		r.Get("/news", s.handleNews)
		r.Get("/opinions", s.handleOpinions)

		r.Get("/config/keys", s.handleGetConfigKeys)
	})

	return r
}

// requestLogger logs one line per request through slog.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// ============================================================
// Request/Response types
// ============================================================

// APIResponse is the standard JSON envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// SymbolResolution is the payload of /resolve/symbol.
type SymbolResolution struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	Found  bool   `json:"found"`
}

// NameResolution is the payload of /resolve/name/{symbol}.
type NameResolution struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// ============================================================
// Handlers
// ============================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status":  "ok",
			"version": Version,
			"cache":   s.cfg.Cache.Backend,
			"time":    time.Now().UTC().Format(time.RFC3339),
		},
	})
}

func (s *Server) handleEntity(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	typ := models.EntityCompany
	if t := r.URL.Query().Get("type"); t != "" {
		typ = models.ParseEntityType(t)
	}

	info := s.deps.Composer.ScrapeEntityInfo(r.Context(), name, typ)
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    info,
	})
}

func (s *Server) handleFinancials(w http.ResponseWriter, r *http.Request) {
	symbol := utils.NormalizeSymbol(chi.URLParam(r, "symbol"))
	if !utils.LooksLikeTicker(symbol) {
		writeError(w, http.StatusBadRequest, "invalid ticker symbol: "+symbol)
		return
	}

	rec := s.deps.Financials.Get(r.Context(), symbol)
	if !rec.HasData() {
		writeError(w, http.StatusNotFound, "no financial data for "+symbol)
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    rec,
	})
}

func (s *Server) handleResolveSymbol(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	symbol, ok := s.deps.Resolver.ResolveSymbol(r.Context(), name)
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    SymbolResolution{Name: name, Symbol: symbol, Found: ok},
	})
}

func (s *Server) handleResolveName(w http.ResponseWriter, r *http.Request) {
	symbol := utils.NormalizeSymbol(chi.URLParam(r, "symbol"))
	if symbol == "" {
		writeError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    NameResolution{Symbol: symbol, Name: s.deps.Resolver.ResolveName(r.Context(), symbol)},
	})
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}
	items := s.deps.News.Fetch(r.Context(), q)
	if items == nil {
		items = []models.NewsItem{}
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: items})
}

func (s *Server) handleOpinions(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}
	items := s.deps.Opinions.Fetch(r.Context(), q)
	if items == nil {
		items = []models.OpinionItem{}
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: items})
}

// ============================================================
// Helpers
// ============================================================

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Error("failed to write JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   msg,
	})
}
