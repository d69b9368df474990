package seeding

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/johnwards/seedgate/internal/api"
	"github.com/johnwards/seedgate/internal/auth"
	"github.com/johnwards/seedgate/internal/config"
)

// Response messages. The admin and public routes differ by the trailing "!".
const (
	AdminSuccessMessage  = "Database seeded successfully!"
	PublicSuccessMessage = "Database seeded successfully"

	msgUnauthorized   = "Unauthorized"
	msgNotDevelopment = "Seeding only allowed in development"
	msgSeedFailed     = "Failed to seed database"
	msgRateLimited    = "Too Many Requests"
)

// Route labels used in logs, metrics and spans.
const (
	RouteAdmin  = "admin"
	RoutePublic = "public"
)

// Seeder performs all database population work. The result is passed through
// to the response body untouched.
type Seeder interface {
	Seed(ctx context.Context) (any, error)
}

// SeederFunc adapts a function to the Seeder interface.
type SeederFunc func(ctx context.Context) (any, error)

// Seed calls f(ctx).
func (f SeederFunc) Seed(ctx context.Context) (any, error) {
	return f(ctx)
}

// Options configures a Handler. Seeder is required; a nil Resolver resolves
// nobody, a nil Logger uses slog.Default and a nil Limiter never throttles.
//
// Limiter is consulted only for requests that passed their route's gate.
type Options struct {
	Seeder      Seeder
	Resolver    auth.Resolver
	Environment string
	Logger      *slog.Logger
	Metrics     *Metrics
	Limiter     *rate.Limiter
}

// Handler serves the seed routes.
type Handler struct {
	seeder      Seeder
	resolver    auth.Resolver
	environment string
	logger      *slog.Logger
	metrics     *Metrics
	limiter     *rate.Limiter
	tracer      trace.Tracer
}

// NewHandler builds a Handler from opts.
func NewHandler(opts Options) *Handler {
	h := &Handler{
		seeder:      opts.Seeder,
		resolver:    opts.Resolver,
		environment: opts.Environment,
		logger:      opts.Logger,
		metrics:     opts.Metrics,
		limiter:     opts.Limiter,
		tracer:      otel.Tracer("github.com/johnwards/seedgate/internal/api/seeding"),
	}
	if h.resolver == nil {
		h.resolver = auth.Anonymous
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	return h
}

type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// Admin seeds on behalf of any authenticated caller.
//
// Any resolved identity is accepted; the role is logged but not checked.
func (h *Handler) Admin(w http.ResponseWriter, r *http.Request) {
	id, ok := h.resolver.Resolve(r)
	if !ok {
		h.metrics.observe(RouteAdmin, outcomeUnauthorized, 0)
		api.WriteError(w, http.StatusUnauthorized, api.NewError(msgUnauthorized))
		return
	}

	if !h.allow(w, RouteAdmin) {
		return
	}

	ctx := auth.WithIdentity(r.Context(), id)
	h.logger.InfoContext(ctx, "admin seed requested",
		"subject", id.Subject,
		"role", id.Role,
		"request_id", api.RequestID(ctx),
	)
	h.invoke(w, r.WithContext(ctx), RouteAdmin, AdminSuccessMessage)
}

// Public seeds only when the service runs in development mode.
func (h *Handler) Public(w http.ResponseWriter, r *http.Request) {
	if h.environment != config.EnvDevelopment {
		h.metrics.observe(RoutePublic, outcomeForbidden, 0)
		api.WriteError(w, http.StatusForbidden, api.NewError(msgNotDevelopment))
		return
	}
	if !h.allow(w, RoutePublic) {
		return
	}
	h.invoke(w, r, RoutePublic, PublicSuccessMessage)
}

func (h *Handler) allow(w http.ResponseWriter, route string) bool {
	if h.limiter == nil || h.limiter.Allow() {
		return true
	}
	h.metrics.observe(route, outcomeRateLimited, 0)
	api.WriteError(w, http.StatusTooManyRequests, api.NewError(msgRateLimited))
	return false
}

// invoke calls the seeder exactly once and maps the outcome to a response.
func (h *Handler) invoke(w http.ResponseWriter, r *http.Request, route, message string) {
	ctx, span := h.tracer.Start(r.Context(), "seed.invoke",
		trace.WithAttributes(attribute.String("seed.route", route)),
	)
	defer span.End()

	start := time.Now()
	data, err := h.callSeeder(ctx)
	elapsed := time.Since(start)

	// Encode before any header is written so an unencodable result still
	// yields a failure response.
	var body []byte
	if err == nil {
		body, err = api.Marshal(successResponse{
			Success: true,
			Message: message,
			Data:    data,
		})
		if err != nil {
			err = fmt.Errorf("encode seed result: %w", err)
		}
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, msgSeedFailed)
		h.metrics.observe(route, outcomeFailure, elapsed)
		h.logger.ErrorContext(ctx, "seed failed",
			"route", route,
			"error", err,
			"duration", elapsed.String(),
			"request_id", api.RequestID(ctx),
		)
		api.WriteError(w, http.StatusInternalServerError, api.NewErrorWithDetails(msgSeedFailed, err))
		return
	}

	h.metrics.observe(route, outcomeSuccess, elapsed)
	api.WriteBody(w, http.StatusOK, body)
}

// callSeeder turns a panicking seeder into an ordinary failure.
func (h *Handler) callSeeder(ctx context.Context) (data any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			data, err = nil, fmt.Errorf("seeder panic: %v", rec)
		}
	}()
	return h.seeder.Seed(ctx)
}
