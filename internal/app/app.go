// Package app wires the catalog service's dependencies and runs it.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/Sudhanshu9000/BazzarNet1.1/internal/auth"
	"github.com/Sudhanshu9000/BazzarNet1.1/internal/client"
	"github.com/Sudhanshu9000/BazzarNet1.1/internal/config"
	"github.com/Sudhanshu9000/BazzarNet1.1/internal/event"
	handler "github.com/Sudhanshu9000/BazzarNet1.1/internal/handler/http"
	"github.com/Sudhanshu9000/BazzarNet1.1/internal/repository"
	"github.com/Sudhanshu9000/BazzarNet1.1/internal/repository/postgres"
	rediscache "github.com/Sudhanshu9000/BazzarNet1.1/internal/repository/redis"
	"github.com/Sudhanshu9000/BazzarNet1.1/internal/service"
	"github.com/Sudhanshu9000/BazzarNet1.1/migrations"
	"github.com/Sudhanshu9000/BazzarNet1.1/pkg/database"
	"github.com/Sudhanshu9000/BazzarNet1.1/pkg/health"
	"github.com/Sudhanshu9000/BazzarNet1.1/pkg/httpclient"
	pkgkafka "github.com/Sudhanshu9000/BazzarNet1.1/pkg/kafka"
	"github.com/Sudhanshu9000/BazzarNet1.1/pkg/middleware"
	"github.com/Sudhanshu9000/BazzarNet1.1/pkg/tracing"
)

const (
	startupTimeout  = 30 * time.Second
	shutdownTimeout = 10 * time.Second
	tokenLifetime   = 24 * time.Hour
)

// App wires together all dependencies and runs the catalog service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	pool           *pgxpool.Pool
	redis          *redis.Client
	producer       *pkgkafka.Producer
	tracerShutdown tracing.Shutdown
	httpServer     *http.Server
	stopLimiter    context.CancelFunc
}

// NewApp creates a new application instance, initializing all dependencies.
// Whatever was opened before a failure is closed again.
func NewApp(cfg *config.Config, logger *slog.Logger) (_ *App, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	a := &App{cfg: cfg, logger: logger}
	defer func() {
		if err != nil {
			a.close(context.Background())
		}
	}()

	a.tracerShutdown, err = tracing.InitTracer(ctx, cfg.Tracing())
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// PostgreSQL.
	a.pool, err = database.NewPostgresPool(ctx, cfg.Postgres(), logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)

	if err = database.RunMigrations(ctx, a.pool, migrations.FS, logger); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	database.SetSlowQueryLogging(cfg.SlowQueryThreshold(), logger)
	if err = database.RegisterPoolMetrics(prometheus.DefaultRegisterer, a.pool, config.ServiceName); err != nil {
		return nil, fmt.Errorf("register pool metrics: %w", err)
	}

	// Kafka.
	a.producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("postgres", a.pool.Ping)
	healthHandler.RegisterNonCritical("kafka", a.producer.Ping)

	// Repositories.
	productRepo := postgres.NewProductRepository(a.pool)
	reviewRepo := postgres.NewReviewRepository(a.pool)
	userRepo := postgres.NewUserRepository(a.pool)

	var storeRepo repository.StoreRepository = postgres.NewStoreRepository(a.pool)
	if ttl := cfg.StoreCacheTTL(); ttl > 0 {
		a.redis, err = database.NewRedisClient(ctx, cfg.Redis(), logger)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		storeRepo = rediscache.NewStoreCache(storeRepo, a.redis, ttl, logger)
		healthHandler.RegisterNonCritical("redis", func(ctx context.Context) error {
			return a.redis.Ping(ctx).Err()
		})
		logger.Info("pincode store cache enabled", slog.Duration("ttl", ttl))
	}

	verifier := a.purchaseVerifier(healthHandler)

	// Services.
	eventProducer := event.NewProducer(a.producer, logger)
	productService := service.NewProductService(productRepo, storeRepo, userRepo, eventProducer, logger)
	reviewService := service.NewReviewService(productRepo, reviewRepo, verifier, eventProducer, logger)

	// HTTP.
	limiterCtx, stopLimiter := context.WithCancel(context.Background())
	a.stopLimiter = stopLimiter

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, tokenLifetime)
	router := handler.NewRouter(handler.RouterConfig{
		ServiceName:    config.ServiceName,
		ProductService: productService,
		ReviewService:  reviewService,
		Health:         healthHandler,
		ValidateToken:  jwtManager.Validator(),
		RateLimiter:    middleware.NewRateLimiter(limiterCtx, cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.TrustProxyHeaders, logger),
		CORS:           middleware.CORSConfig{AllowedOrigins: cfg.CORSAllowedOrigins, AllowCredentials: true},
		PprofCIDRs:     cfg.PprofAllowedCIDRs,
		Logger:         logger,
	})

	a.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return a, nil
}

// purchaseVerifier asks the order service when ORDER_SERVICE_URL is set and
// reads the orders table otherwise.
func (a *App) purchaseVerifier(h *health.Handler) repository.PurchaseVerifier {
	if a.cfg.OrderServiceURL == "" {
		a.logger.Info("verifying purchases against postgres")
		return postgres.NewOrderRepository(a.pool)
	}

	cb := httpclient.NewCircuitBreakerClient(
		httpclient.New(httpclient.DefaultConfig()),
		httpclient.DefaultCircuitBreakerConfig("order-service"),
		a.logger,
	)
	h.RegisterNonCritical("order-service", func(ctx context.Context) error {
		resp, err := cb.Get(ctx, a.cfg.OrderServiceURL+"/health/live")
		if err != nil {
			return err
		}
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("order service returned status %d", resp.StatusCode)
		}
		return nil
	})

	a.logger.Info("verifying purchases through the order service",
		slog.String("url", a.cfg.OrderServiceURL),
	)
	return client.NewOrderClient(cb, a.cfg.OrderServiceURL, a.logger)
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		a.Shutdown()
		return err
	}

	a.Shutdown()
	return nil
}

// Shutdown drains HTTP, then flushes the tracer and closes Kafka, Redis and
// PostgreSQL in that order.
func (a *App) Shutdown() {
	a.logger.Info("shutting down application...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if a.httpServer != nil {
		if err := a.httpServer.Shutdown(ctx); err != nil {
			a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		}
	}
	a.close(ctx)

	a.logger.Info("application shutdown complete")
}

func (a *App) close(ctx context.Context) {
	if a.stopLimiter != nil {
		a.stopLimiter()
	}
	if a.tracerShutdown != nil {
		if err := a.tracerShutdown(ctx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
		}
	}
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
}
