package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/johnwards/seedgate/internal/app"
	"github.com/johnwards/seedgate/internal/auth"
	"github.com/johnwards/seedgate/internal/config"
	"github.com/johnwards/seedgate/internal/database"
	"github.com/johnwards/seedgate/internal/seed"
	"github.com/johnwards/seedgate/internal/telemetry"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	issueToken := flag.String("issue-token", "", "print a signed admin token for `subject` and exit")
	tokenRole := flag.String("role", "admin", "role claim for -issue-token")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := app.NewLogger(os.Stderr, cfg)
	slog.SetDefault(logger)

	if *issueToken != "" {
		token, err := auth.NewIssuer(cfg.AuthSecret, cfg.TokenTTL).Issue(*issueToken, *tokenRole)
		if err != nil {
			return fmt.Errorf("issue token: %w", err)
		}
		fmt.Println(token)
		return nil
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	shutdownTracing, err := telemetry.SetupTracing(ctx, telemetry.TracingConfig{
		ServiceName: "seedgate",
		Endpoint:    cfg.OTelEndpoint,
		Enabled:     cfg.OTelEnabled,
	})
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			slog.Error("tracing shutdown error", "error", err)
		}
	}()

	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := database.Migrate(ctx, db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	fixtures, err := seed.LoadFixtures(cfg.FixturesPath)
	if err != nil {
		return fmt.Errorf("load fixtures: %w", err)
	}
	seeder := seed.New(db, fixtures)

	if cfg.SeedOnStart {
		res, err := seeder.Seed(ctx)
		if err != nil {
			return fmt.Errorf("seed data: %w", err)
		}
		slog.Info("seeded on start", "users", res.Users, "categories", res.Categories, "posts", res.Posts)
	}

	if cfg.IsDevelopment() {
		slog.Info("development mode; public seed route is enabled")
	}
	if cfg.AuthSecret == "" {
		slog.Warn("SEEDGATE_AUTH_SECRET is empty; admin seed route will reject every request")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: app.New(app.Deps{
			Config:   cfg,
			DB:       db,
			Seeder:   app.SeederFor(seeder),
			Resolver: auth.NewJWTResolver(cfg.AuthSecret),
			Logger:   logger,
			Registry: reg,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("starting seedgate server", "addr", cfg.Addr, "environment", cfg.Environment)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}

	return nil
}
