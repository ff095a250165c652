package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/aryan0dhankhar/venueguard/internal/domain"
	"github.com/aryan0dhankhar/venueguard/internal/featureflags"
	"github.com/aryan0dhankhar/venueguard/internal/handler"
	"github.com/aryan0dhankhar/venueguard/internal/infrastructure/events"
	"github.com/aryan0dhankhar/venueguard/internal/infrastructure/logger"
	"github.com/aryan0dhankhar/venueguard/internal/infrastructure/redis"
	"github.com/aryan0dhankhar/venueguard/internal/observability/metrics"
	"github.com/aryan0dhankhar/venueguard/internal/observability/tracing"
	"github.com/aryan0dhankhar/venueguard/internal/reliability/circuitbreaker"
	"github.com/aryan0dhankhar/venueguard/internal/reliability/retry"
	"github.com/aryan0dhankhar/venueguard/internal/repository"
	"github.com/aryan0dhankhar/venueguard/internal/repository/memory"
	"github.com/aryan0dhankhar/venueguard/internal/security/audit"
	"github.com/aryan0dhankhar/venueguard/internal/security/auth"
	"github.com/aryan0dhankhar/venueguard/internal/security/middleware"
	"github.com/aryan0dhankhar/venueguard/internal/security/ratelimit"
	"github.com/aryan0dhankhar/venueguard/internal/seed"
	"github.com/aryan0dhankhar/venueguard/internal/service"
	"github.com/aryan0dhankhar/venueguard/pkg/config"
	"github.com/aryan0dhankhar/venueguard/pkg/database"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize structured logger
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("starting venueguard server", slog.String("environment", cfg.Environment))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := tracing.Init(ctx, log, cfg.OTLPEndpoint, "venueguard", cfg.Environment)
	if err != nil {
		log.Error("failed to initialize tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 3. Open the store
	checks := map[string]handler.Pinger{}
	var store domain.Store
	if cfg.DatabaseURL == "" {
		log.Warn("DATABASE_URL not set, using in-memory store")
		store = memory.NewStore()
		checks["store"] = store
	} else {
		pool, err := retry.Do(ctx, nil, log, "connect postgres", func(ctx context.Context) (*database.ConnectionPool, error) {
			return database.NewConnectionPool(ctx, database.DefaultConfig(cfg.DatabaseURL), log)
		})
		if err != nil {
			log.Error("failed to connect to database", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer pool.Close()

		if err := database.Migrate(pool.GetDB(), log); err != nil {
			log.Error("failed to run migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
		store = repository.NewPostgresStore(pool.GetDB(), log)
		checks["postgres"] = store
	}

	if cfg.SeedOnStart {
		if _, err := seed.Run(ctx, store, seed.Options{}, log); err != nil {
			log.Error("failed to seed store", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	// 4. Stats cache: Redis when configured, in-process otherwise
	var statsCache domain.StatsCache
	if cfg.RedisURL != "" {
		redisClient, err := retry.Do(ctx, nil, log, "connect redis", func(context.Context) (*redis.Client, error) {
			return redis.NewClient(cfg.RedisURL, log)
		})
		if err != nil {
			log.Error("failed to connect to Redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer redisClient.Close()
		statsCache = repository.NewRedisStatsCache(redisClient, cfg.StatsCacheTTL, log)
		checks["redis"] = redisClient
	} else {
		statsCache = repository.NewMemoryStatsCache(cfg.StatsCacheTTL)
		checks["redis"] = nil
	}

	// 5. Event publisher
	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.NATSURL != "" {
		nats, err := retry.Do(ctx, nil, log, "connect nats", func(context.Context) (*events.NATSPublisher, error) {
			return events.NewNATSPublisher(cfg.NATSURL, log)
		})
		if err != nil {
			log.Error("failed to connect to NATS", slog.String("error", err.Error()))
			os.Exit(1)
		}
		publisher = events.NewGuardedPublisher(nats, circuitbreaker.NewCircuitBreaker(5, 30*time.Second), log)
	}
	defer publisher.Close()

	// 6. Initialize services
	flags := featureflags.FromEnv()
	log.Info("feature flags loaded", slog.Any("enabled", flags))
	tokenManager := auth.NewTokenManager(cfg.JWTSecret, "venueguard")
	svc := service.New(service.Dependencies{
		Store:           store,
		Events:          publisher,
		StatsCache:      statsCache,
		Tokens:          tokenManager,
		TokenTTL:        cfg.TokenTTL,
		Logger:          log,
		ScopedOffenders: flags.Enabled(featureflags.ScopedOffenders),
	})

	// 7. Setup HTTP routes
	mux := http.NewServeMux()
	handler.Register(mux, svc, handler.NewHealthHandler(checks, log), log)

	rateLimiter := ratelimit.NewLimiter(cfg.RateLimitPerMinute, time.Minute)
	auditLogger := audit.NewLogger(log)

	// Chain middleware: request ID -> otel -> CORS -> JWT -> rate limit -> audit -> content type -> metrics -> mux
	var root http.Handler = metrics.HTTPMetricsMiddleware(mux)
	root = middleware.JSONBody(middleware.DefaultMaxBodyBytes, log)(root)
	root = middleware.AuditMiddleware(auditLogger)(root)
	root = middleware.RateLimitMiddleware(rateLimiter, log)(root)
	root = middleware.JWTMiddleware(tokenManager, log)(root)
	root = withCORS(root, cfg.CORSAllowedOrigins)
	root = otelhttp.NewHandler(root, "venueguard")
	root = withRequestID(root, log)

	// 8. Start HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("server starting",
		slog.Int("port", cfg.ServerPort),
		slog.Int("rate_limit", cfg.RateLimitPerMinute),
		slog.Bool("postgres", cfg.DatabaseURL != ""),
		slog.Bool("redis", cfg.RedisURL != ""),
		slog.Bool("nats", cfg.NATSURL != ""),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.String("error", err.Error()))
			sigChan <- syscall.SIGTERM
		}
	}()

	<-sigChan
	log.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", slog.String("error", err.Error()))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("tracing shutdown error", slog.String("error", err.Error()))
	}

	rateLimiter.Stop()
	log.Info("server stopped")
}

// withRequestID attaches a request ID to the context and response headers
// and logs each request once it completes
func withRequestID(next http.Handler, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", reqID)

		ctx := logger.WithRequestID(r.Context(), reqID)
		start := time.Now()

		next.ServeHTTP(w, r.WithContext(ctx))

		log.Info("request completed",
			slog.String("request_id", reqID),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Duration("duration_ms", time.Since(start)),
		)
	})
}

// withCORS honors the configured origins and answers preflight requests
func withCORS(next http.Handler, allowed []string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if originAllowed(allowed, origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		} else if len(allowed) > 0 {
			w.Header().Set("Access-Control-Allow-Origin", allowed[0])
		}
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Methods", strings.Join([]string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		}, ", "))
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Authorization, X-Request-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func originAllowed(allowed []string, origin string) bool {
	if origin == "" {
		return false
	}
	for _, a := range allowed {
		if a == "*" || a == origin {
			return true
		}
	}
	return false
}
