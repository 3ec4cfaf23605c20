// Package server is the HTTP binding of the orchestration surface.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/fibero-labs/bridgectl/internal/admin"
	"github.com/fibero-labs/bridgectl/internal/fee"
	"github.com/fibero-labs/bridgectl/internal/journal"
	"github.com/fibero-labs/bridgectl/internal/pool"
	"github.com/fibero-labs/bridgectl/internal/registry"
	"github.com/fibero-labs/bridgectl/internal/swap"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

type Config struct {
	Listen         string
	AllowedOrigins []string
	RatePerMinute  int
	// AdminToken gates the admin routes. Empty disables them entirely
	// rather than leaving them open.
	AdminToken string
}

type Deps struct {
	Registry *registry.Registry
	Pools    pool.Selector
	Fees     *fee.Calculator
	Planner  *swap.Planner
	Executor *swap.Executor
	Admin    *admin.Admin
	Journal  *journal.Store
	Logger   zerolog.Logger
}

type Server struct {
	config     Config
	deps       Deps
	httpServer *http.Server
}

func New(cfg Config, deps Deps) *Server {
	s := &Server{config: cfg, deps: deps}

	mux := chi.NewMux()
	mux.Use(s.requestLogger)
	mux.Use(s.recoverer)
	mux.Use(middleware.RequestID)
	mux.Use(middleware.RealIP)
	mux.Use(middleware.Timeout(5 * time.Minute))
	if cfg.RatePerMinute > 0 {
		mux.Use(httprate.LimitByIP(cfg.RatePerMinute, time.Minute))
	}
	mux.Use(cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler)

	mux.Get("/healthz", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	mux.Route("/api/swap", func(r chi.Router) {
		r.Get("/pool-balances", s.handlePoolBalances)
		r.Get("/fees", s.handleFees)
		r.Post("/plan", s.handlePlan)
		r.Post("/execute", s.handleExecute)
	})

	mux.Route("/api/admin", func(r chi.Router) {
		r.Use(s.requireAdmin)
		r.Post("/update-fees", s.handleUpdateFees)
		r.Post("/update-max-transaction-amount", s.handleUpdateMaxAmount)
		r.Post("/add-liquidity", s.handleAddLiquidity)
		r.Post("/remove-liquidity", s.handleRemoveLiquidity)
	})

	s.httpServer = &http.Server{
		Addr:              cfg.Listen,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler exposes the router, used by tests.
func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

func (s *Server) ListenAndServe() error {
	s.deps.Logger.Info().Str("listen", s.config.Listen).Msg("http server starting")
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
