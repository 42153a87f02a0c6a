package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/richxcame/finsight/internal/audit"
	"github.com/richxcame/finsight/internal/auth"
	"github.com/richxcame/finsight/internal/dashboard"
	"github.com/richxcame/finsight/internal/demo"
	"github.com/richxcame/finsight/internal/fraud"
	"github.com/richxcame/finsight/internal/subscriptions"
	"github.com/richxcame/finsight/internal/transactions"
	"github.com/richxcame/finsight/pkg/cache"
	"github.com/richxcame/finsight/pkg/config"
	"github.com/richxcame/finsight/pkg/database"
	"github.com/richxcame/finsight/pkg/health"
	"github.com/richxcame/finsight/pkg/logger"
	"github.com/richxcame/finsight/pkg/middleware"
	"github.com/richxcame/finsight/pkg/ratelimit"
	"github.com/richxcame/finsight/pkg/redis"
	"github.com/richxcame/finsight/pkg/tracing"
	"go.uber.org/zap"
)

const (
	serviceName    = "finsight-api"
	serviceVersion = "1.0.0"
	maxBodyBytes   = 1 << 20
)

// routeHandlers groups every API handler mounted on the router
type routeHandlers struct {
	auth          *auth.Handler
	transactions  *transactions.Handler
	fraud         *fraud.Handler
	subscriptions *subscriptions.Handler
	dashboard     *dashboard.Handler
	audit         *audit.Handler
}

func main() {
	cfg, err := config.Load(serviceName)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	if err := logger.Init(cfg.Server.Environment); err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Observability.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Observability.SentryDSN,
			Environment: cfg.Server.Environment,
			Release:     serviceName + "@" + serviceVersion,
		}); err != nil {
			logger.Warn("Failed to initialize Sentry", zap.Error(err))
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	shutdownTracing, err := tracing.Init(context.Background(), serviceName, cfg.Observability)
	if err != nil {
		logger.Warn("Failed to initialize tracing", zap.Error(err))
	} else {
		defer func() { _ = shutdownTracing(context.Background()) }()
	}

	if cfg.Database.RunMigrations {
		if err := database.Migrate(&cfg.Database); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	pool, err := database.NewPostgresPool(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(pool)
	logger.Info("Connected to PostgreSQL database")

	healthChecks := map[string]health.Checker{}
	sqlDB := stdlib.OpenDBFromPool(pool)
	defer sqlDB.Close()
	healthChecks["database"] = health.DatabaseChecker(sqlDB)

	var summaryCache cache.Cache
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewRedisClient(&cfg.Redis)
		if err != nil {
			logger.Warn("Redis unavailable, falling back to in-process cache", zap.Error(err))
			summaryCache = cache.NewMemoryCache(cfg.Redis.CacheTTL())
		} else {
			defer redisClient.Close()
			summaryCache = cache.NewRedisCache(redisClient, cfg.Redis.Breaker)
			healthChecks["redis"] = health.RedisChecker(redisClient.Client)
			logger.Info("Connected to Redis")
		}
	} else {
		summaryCache = cache.NewMemoryCache(cfg.Redis.CacheTTL())
	}

	// Repositories
	authRepo := auth.NewRepository(pool)
	txnRepo := transactions.NewRepository(pool)
	alertRepo := fraud.NewRepository(pool)
	subRepo := subscriptions.NewRepository(pool)
	auditRepo := audit.NewRepository(pool)

	// Services
	auditService := audit.NewService(auditRepo)
	engine := fraud.NewEngine(txnRepo)
	fraudService := fraud.NewService(alertRepo, auditService)
	dashboardService := dashboard.NewService(txnRepo, authRepo, summaryCache, cfg.Redis.CacheTTL())
	txnService := transactions.NewService(txnRepo, authRepo, engine, fraudService, auditService, dashboardService)
	subService := subscriptions.NewService(subRepo, txnRepo, authRepo, auditService)

	var seeder auth.DemoSeeder
	if cfg.Demo.SeedOnSignup {
		seeder = demo.NewService(txnRepo, txnService, fraudService, authRepo, dashboardService)
	}
	authService := auth.NewService(authRepo, cfg.JWT.Secret, cfg.JWT.Expiration, seeder)

	handlers := &routeHandlers{
		auth:          auth.NewHandler(authService),
		transactions:  transactions.NewHandler(txnService),
		fraud:         fraud.NewHandler(fraudService),
		subscriptions: subscriptions.NewHandler(subService),
		dashboard:     dashboard.NewHandler(dashboardService),
		audit:         audit.NewHandler(auditService),
	}

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := newRouter(cfg, handlers, healthChecks)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	logger.Info("Server exited")
}

func newRouter(cfg *config.Config, h *routeHandlers, healthChecks map[string]health.Checker) *gin.Engine {
	router := gin.New()

	corsConfig := cors.DefaultConfig()
	if origins := cfg.Server.Origins(); len(origins) > 0 {
		corsConfig.AllowOrigins = origins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	router.Use(cors.New(corsConfig))

	router.Use(middleware.CorrelationID())
	if cfg.Observability.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.Metrics(serviceName))
	if cfg.Observability.TracingEnabled {
		router.Use(middleware.Tracing(serviceName))
	}
	router.Use(middleware.MaxBodySize(maxBodyBytes))

	// Health check and metrics (no auth required)
	router.GET("/healthz", health.ReadyHandler(serviceName, serviceVersion, healthChecks))
	router.GET("/health/live", health.LiveHandler(serviceName, serviceVersion))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	api.Use(middleware.Timeout(time.Duration(cfg.Server.RequestTimeout) * time.Second))

	public := api.Group("")
	public.Use(middleware.RateLimit(ratelimit.NewLimiter(cfg.RateLimit)))
	h.auth.RegisterPublicRoutes(public)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(cfg.JWT.Secret))
	h.auth.RegisterRoutes(protected)
	h.transactions.RegisterRoutes(protected)
	h.fraud.RegisterRoutes(protected)
	h.subscriptions.RegisterRoutes(protected)
	h.dashboard.RegisterRoutes(protected)
	h.audit.RegisterRoutes(protected)

	return router
}
