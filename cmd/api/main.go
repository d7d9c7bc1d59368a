// Package main is the entrypoint for the user service API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/asdf-project/user-service/internal/cache"
	"github.com/asdf-project/user-service/internal/config"
	"github.com/asdf-project/user-service/internal/metrics"
	"github.com/asdf-project/user-service/internal/repository"
	"github.com/asdf-project/user-service/internal/server"
	"github.com/asdf-project/user-service/internal/service"
)

const startupTimeout = 10 * time.Second

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)
	databaseURL := cfg.DatabaseURL()

	// The pool connects lazily, so a database that is down at boot does not
	// stop the process; requests fail until it comes back.
	repo, err := repository.New(ctx, databaseURL, repository.Options{
		Schema:   cfg.DBSchema,
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
		Logger:   logger,
	})
	if err != nil {
		logger.Error("failed to configure database",
			slog.String("error", sanitizeError(err, databaseURL)),
			slog.String("database_url", redactURL(databaseURL)),
		)
		os.Exit(1)
	}

	startupCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	if repo.TestConnection(startupCtx) {
		logger.Info("database connection test succeeded", slog.String("database_url", redactURL(databaseURL)))
	} else {
		logger.Warn("database connection test failed, continuing", slog.String("database_url", redactURL(databaseURL)))
	}
	cancel()

	var cacheClient *cache.Cache
	if cfg.RedisURL != "" {
		startupCtx, cancel := context.WithTimeout(ctx, startupTimeout)
		cacheClient, err = cache.New(startupCtx, cfg.RedisURL, cfg.ServiceName+":")
		cancel()
		if err != nil {
			// Redis only backs rate limiting, which fails open.
			logger.Warn("redis unavailable, lookup rate limiting disabled",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			cacheClient = nil
		} else {
			logger.Info("connected to Redis")
		}
	}

	metricsRecorder := metrics.NewInMemory()
	userService := service.NewUserService(repo, logger, metricsRecorder)

	routerCfg := server.RouterConfig{
		Logger:             logger,
		Users:              userService,
		Metrics:            metricsRecorder,
		Snapshot:           metricsRecorder,
		DB:                 repo,
		Conn:               repo,
		ServiceName:        cfg.ServiceName,
		ServiceVersion:     cfg.ServiceVersion,
		IsDevelopment:      cfg.IsDevelopment(),
		RateLimitEnabled:   cfg.RateLimitEnabled() && cacheClient != nil,
		RateLimitRPS:       cfg.RateLimitLookupRPS,
		RateLimitBurst:     cfg.RateLimitLookupBurst,
		CORSAllowedOrigins: cfg.GetCORSAllowedOrigins(),
		MaxRequestBodySize: cfg.MaxRequestBodySize,
	}
	// Assigned only when present so nil pointers never become non-nil interfaces.
	if cacheClient != nil {
		routerCfg.Cache = cacheClient
		routerCfg.Limiter = cacheClient
	}

	srv := server.New(server.NewRouter(routerCfg), server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
		Logger:          logger,
	})

	srv.OnShutdown("database", func(ctx context.Context) error {
		repo.Close()
		return nil
	})
	if cacheClient != nil {
		srv.OnShutdown("redis", func(ctx context.Context) error {
			return cacheClient.Close()
		})
	}

	logger.Info("starting server",
		slog.String("service", cfg.ServiceName),
		slog.String("version", cfg.ServiceVersion),
		slog.Int("port", cfg.AppPort),
		slog.String("env", cfg.AppEnv),
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
