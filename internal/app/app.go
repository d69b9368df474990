// Package app assembles the HTTP surface of the service.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/johnwards/seedgate/internal/api"
	"github.com/johnwards/seedgate/internal/api/seeding"
	"github.com/johnwards/seedgate/internal/auth"
	"github.com/johnwards/seedgate/internal/config"
	"github.com/johnwards/seedgate/internal/seed"
)

// Deps are the collaborators New wires together.
type Deps struct {
	Config   config.Config
	DB       *sql.DB
	Seeder   seeding.Seeder
	Resolver auth.Resolver
	Logger   *slog.Logger
	Registry *prometheus.Registry
}

// New returns the fully wrapped HTTP handler. A nil Registry gets a fresh one.
func New(d Deps) http.Handler {
	if d.Registry == nil {
		d.Registry = prometheus.NewRegistry()
	}
	mux := http.NewServeMux()

	seedHandler := seeding.NewHandler(seeding.Options{
		Seeder:      d.Seeder,
		Resolver:    d.Resolver,
		Environment: d.Config.Environment,
		Logger:      d.Logger,
		Metrics:     seeding.NewMetrics(d.Registry),
		Limiter:     limiterFor(d.Config),
	})
	seeding.RegisterRoutes(mux, seedHandler)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := d.DB.PingContext(r.Context()); err != nil {
			api.WriteError(w, http.StatusServiceUnavailable, api.NewErrorWithDetails("Database unavailable", err))
			return
		}
		api.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.Handle("GET /metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		api.WriteError(w, http.StatusNotFound, api.NewError(
			fmt.Sprintf("No route found for %s %s", r.Method, r.URL.Path),
		))
	})

	return api.Chain(mux,
		api.Recovery(),
		api.AssignRequestID(),
		api.JSONContentType(),
		api.Logging(),
	)
}

func limiterFor(cfg config.Config) *rate.Limiter {
	if cfg.SeedRate <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(cfg.SeedRate), cfg.SeedBurst)
}

// SeederFor exposes a database seeder through the handler's Seeder interface.
func SeederFor(s *seed.Seeder) seeding.Seeder {
	return seeding.SeederFunc(func(ctx context.Context) (any, error) {
		res, err := s.Seed(ctx)
		if err != nil {
			return nil, err
		}
		return res, nil
	})
}

// NewLogger builds the process logger from config.
func NewLogger(w io.Writer, cfg config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if strings.EqualFold(cfg.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
