package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/creditline/internal/adapter/http"
	"github.com/iho/creditline/internal/adapter/http/handler"
	"github.com/iho/creditline/internal/adapter/http/middleware"
	"github.com/iho/creditline/internal/adapter/messaging/kafka"
	postgresRepo "github.com/iho/creditline/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/creditline/internal/adapter/repository/redis"
	"github.com/iho/creditline/internal/engine"
	"github.com/iho/creditline/internal/infrastructure/auth"
	"github.com/iho/creditline/internal/infrastructure/config"
	"github.com/iho/creditline/internal/infrastructure/eventpublisher"
	"github.com/iho/creditline/internal/infrastructure/logger"
	"github.com/iho/creditline/internal/infrastructure/metrics"
	"github.com/iho/creditline/internal/infrastructure/postgres"
	"github.com/iho/creditline/internal/infrastructure/redis"
	"github.com/iho/creditline/internal/usecase"
)

// publisher is an event publisher that holds resources until closed.
type publisher interface {
	usecase.EventPublisher
	Close() error
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// Connect to PostgreSQL
	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL: cfg.DatabaseURL,
		MaxConns:    cfg.DatabaseMaxConns,
		MinConns:    cfg.DatabaseMinConns,
		Timeout:     cfg.DatabaseTimeout,
	})
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if cfg.MigrationsPath != "" {
		if err := postgres.NewMigrator(cfg.DatabaseURL, cfg.MigrationsPath, log).Up(); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL, log)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()

	pub, err := newPublisher(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := pub.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close event publisher")
		}
	}()

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool, postgresRepo.WithLockTimeout(cfg.DatabaseLockTimeout))
	accountRepo := postgresRepo.NewAccountRepository(pool)
	eventRepo := postgresRepo.NewEventRepository(pool)
	retrier := postgresRepo.NewRetrier(log)
	idGen := postgresRepo.NewULIDGenerator()
	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)

	// Initialize use cases
	eng := engine.New(engineConfig(cfg), log)
	accountUC := usecase.NewAccountUseCase(accountRepo, idGen, pub, m, log)
	eventUC := usecase.NewEventUseCase(txManager, accountRepo, eventRepo, idGen, retrier, pub, m, log)
	statisticsUC := usecase.NewStatisticsUseCase(eng, accountRepo, eventRepo, cache, cfg.StatisticsCacheTTL, m, log)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(
		handler.HealthCheck{Name: "postgres", Check: pool.Ping},
		handler.HealthCheck{Name: "redis", Check: func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}},
	)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).WithMetrics(m)
	go rateLimiter.RunCleanup(ctx, 10*time.Minute)

	verifier, err := newTokenVerifier(cfg)
	if err != nil {
		return err
	}

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:    handler.NewAccountHandler(accountUC),
		EventHandler:      handler.NewEventHandler(eventUC),
		StatisticsHandler: handler.NewStatisticsHandler(statisticsUC),
		HealthHandler:     healthHandler,
		IdempotencyStore:  idempotencyStore,
		IdempotencyTTL:    cfg.IdempotencyTTL,
		TokenVerifier:     verifier,
		RateLimiter:       rateLimiter,
		Metrics:           m,
		MetricsHandler:    promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Logger:            log,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.HTTPPort).
			Bool("auth", verifier != nil).
			Str("daily_rate", cfg.DailyInterestRate.String()).
			Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Wait for interrupt signal
	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}

func engineConfig(cfg *config.Config) engine.Config {
	return engine.Config{
		DailyRate:           cfg.DailyInterestRate,
		SettleExactInterest: cfg.SettleExactInterest,
	}
}

// newPublisher publishes to Kafka when brokers are configured and to the log otherwise.
func newPublisher(cfg *config.Config, log zerolog.Logger) (publisher, error) {
	if len(cfg.KafkaBrokers) == 0 {
		log.Info().Msg("no kafka brokers configured, logging events instead")
		return eventpublisher.NewLogPublisher(log), nil
	}

	p, err := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, log)
	if err != nil {
		return nil, fmt.Errorf("create kafka publisher: %w", err)
	}
	return p, nil
}

// newTokenVerifier returns nil when authentication is disabled.
func newTokenVerifier(cfg *config.Config) (middleware.TokenVerifier, error) {
	if !cfg.AuthEnabled {
		return nil, nil
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("AUTH_ENABLED requires JWT_SECRET")
	}
	return auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration), nil
}
