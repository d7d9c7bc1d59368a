package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/asdf-project/user-service/internal/auth"
	"github.com/asdf-project/user-service/internal/handler"
	"github.com/asdf-project/user-service/internal/metrics"
	"github.com/asdf-project/user-service/internal/middleware"
	"github.com/asdf-project/user-service/internal/service"
)

// RouterConfig carries everything NewRouter wires together.
type RouterConfig struct {
	Logger   *slog.Logger
	Users    *service.UserService
	Metrics  metrics.Recorder
	Snapshot metrics.Snapshotter

	// Health dependencies; nil when not configured.
	DB    handler.HealthChecker
	Cache handler.HealthChecker
	Conn  handler.ConnectionTester

	ServiceName    string
	ServiceVersion string
	IsDevelopment  bool

	// Lookup rate limiting; Limiter is nil when Redis is not configured.
	Limiter          middleware.IPLimiter
	RateLimitEnabled bool
	RateLimitRPS     int
	RateLimitBurst   int

	CORSAllowedOrigins []string
	MaxRequestBodySize int64
}

// NewRouter builds the chi router with all routes and middleware.
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewNoop()
	}

	h := handler.New(cfg.ServiceName)
	healthHandler := handler.NewHealthHandler(handler.HealthOptions{
		DB:      cfg.DB,
		Cache:   cfg.Cache,
		Conn:    cfg.Conn,
		Service: cfg.ServiceName,
		Version: cfg.ServiceVersion,
	})
	userHandler := handler.NewUserHandler(cfg.Users, cfg.Logger)
	metricsHandler := handler.NewMetricsHandler(cfg.Snapshot, cfg.ServiceName)

	r := chi.NewRouter()

	// CORS must answer preflight requests before anything else runs.
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSAllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPut, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Content-Type", auth.UserIDHeader, middleware.RequestIDHeader},
			ExposedHeaders:   []string{middleware.RequestIDHeader, "Retry-After"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recoverer(cfg.Logger, cfg.IsDevelopment))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment}))
	if cfg.MaxRequestBodySize > 0 {
		r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))
	}

	r.Get("/", h.Root)
	r.Get("/health", healthHandler.Health)
	r.Get("/readyz", healthHandler.Readyz)
	r.Get("/db-test", healthHandler.DBTest)
	r.Get("/metrics", metricsHandler.Metrics)

	rateLimitCfg := middleware.RateLimitConfig{
		Logger:  cfg.Logger,
		Limiter: cfg.Limiter,
		Metrics: cfg.Metrics,
		Enabled: cfg.RateLimitEnabled,
		RPS:     cfg.RateLimitRPS,
		Burst:   cfg.RateLimitBurst,
	}

	r.Route("/api/v1/users", func(r chi.Router) {
		// Static segments win over {user_id} in chi, so /me never reaches GetByID.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Identity(cfg.Logger, cfg.Metrics))
			r.Get("/me", userHandler.GetMe)
			r.Put("/me", userHandler.UpdateMe)
		})

		r.With(middleware.RateLimitIP(rateLimitCfg)).Get("/{user_id}", userHandler.GetByID)
	})

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}
