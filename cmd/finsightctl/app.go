package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
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
	"github.com/richxcame/finsight/pkg/logger"
	"github.com/richxcame/finsight/pkg/redis"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const serviceName = "finsightctl"

// app holds the services a command may need. close releases the pool and
// the Redis client.
type app struct {
	cfg           *config.Config
	demo          *demo.Service
	subscriptions *subscriptions.Service
	close         func()
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(serviceName)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := logger.Init(cfg.Server.Environment); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, nil
}

func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	pool, err := database.NewPostgresPool(&cfg.Database)
	if err != nil {
		return nil, err
	}

	closers := []func(){func() { database.Close(pool) }}
	summaryCache := newCache(cfg, &closers)

	a := wire(cfg, pool, summaryCache)
	a.close = func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
		_ = logger.Sync()
	}
	return a, nil
}

// newCache connects to Redis when enabled so reseeding invalidates the
// summaries the API serves. A memory cache is used otherwise.
func newCache(cfg *config.Config, closers *[]func()) cache.Cache {
	if !cfg.Redis.Enabled {
		return cache.NewMemoryCache(cfg.Redis.CacheTTL())
	}
	client, err := redis.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Warn("Redis unavailable, dashboard caches will not be invalidated", zap.Error(err))
		return cache.NewMemoryCache(cfg.Redis.CacheTTL())
	}
	*closers = append(*closers, func() { _ = client.Close() })
	return cache.NewRedisCache(client, cfg.Redis.Breaker)
}

func wire(cfg *config.Config, pool *pgxpool.Pool, summaryCache cache.Cache) *app {
	authRepo := auth.NewRepository(pool)
	txnRepo := transactions.NewRepository(pool)

	auditService := audit.NewService(audit.NewRepository(pool))
	fraudService := fraud.NewService(fraud.NewRepository(pool), auditService)
	dashboardService := dashboard.NewService(txnRepo, authRepo, summaryCache, cfg.Redis.CacheTTL())
	txnService := transactions.NewService(txnRepo, authRepo, fraud.NewEngine(txnRepo), fraudService, auditService, dashboardService)

	return &app{
		cfg:           cfg,
		demo:          demo.NewService(txnRepo, txnService, fraudService, authRepo, dashboardService),
		subscriptions: subscriptions.NewService(subscriptions.NewRepository(pool), txnRepo, authRepo, auditService),
	}
}

func userFlag(cmd *cobra.Command) (uuid.UUID, error) {
	raw, _ := cmd.Flags().GetString("user")
	if raw == "" {
		return uuid.Nil, fmt.Errorf("--user is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid --user %q: %w", raw, err)
	}
	return id, nil
}
