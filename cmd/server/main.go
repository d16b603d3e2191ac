// Package main is the entry point for the GoldNest API server.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"goldnest/internal/config"
	"goldnest/internal/handlers"
	"goldnest/internal/logging"
	"goldnest/internal/repositories"
	"goldnest/internal/repositories/cache"
	"goldnest/internal/routes"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func main() {
	config.LoadEnv()
	cfg := config.Load()
	logging.Configure(cfg.LogLevel, cfg.Env == "production")

	deps := routes.Dependencies{
		Config:       cfg,
		HealthChecks: map[string]handlers.HealthCheck{},
	}

	var db *gorm.DB
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		logging.Log.Warn("Using the in-memory account store, data is lost on restart")
		deps.Accounts = repositories.NewMemoryAccountRepository()
	default:
		var err error
		db, err = repositories.InitDB(cfg.DB)
		if err != nil {
			logging.Log.Fatalf("Failed to initialize database: %v", err)
		}
		deps.Accounts = repositories.NewAccountRepository(db)
		deps.HealthChecks["database"] = func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
	}
	defer repositories.Close(db)

	var cacheService *cache.CacheService
	if cfg.Redis.Enabled {
		client := cache.NewRedisClient(&cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		cacheService = cache.NewCacheService(client, cfg.Redis.TTL)

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := cacheService.HealthCheck(ctx)
		cancel()
		if err != nil {
			logging.Log.Warnf("Redis unavailable, continuing without cache: %v", err)
			_ = cacheService.Close()
			cacheService = nil
		}
	}
	if cacheService != nil {
		deps.Cache = cacheService
		deps.HealthChecks["redis"] = cacheService.HealthCheck
		defer func() {
			if err := cacheService.Close(); err != nil {
				logging.Log.Warnf("Failed to close Redis connection: %v", err)
			}
		}()
	} else if cfg.StoreDriver == config.StoreDriverMemory {
		// a single process owns the memory store, so a process-local cache stays coherent
		deps.Cache = cache.NewMemoryCache(cfg.Redis.TTL)
	} else {
		deps.Cache = cache.NoopCache{}
	}
	if db != nil || cacheService != nil {
		go logPoolStats(db, cacheService)
	}

	app := routes.NewApp(deps)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		logging.Log.Info("Shutting down server")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logging.Log.Errorf("Server shutdown failed: %v", err)
		}
	}()

	logging.Log.Infof("GoldNest API listening on :%s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		logging.Log.Errorf("Server stopped: %v", err)
	}
}

// logPoolStats periodically reports database and redis connection pool usage.
// Either argument may be nil.
func logPoolStats(db *gorm.DB, redisCache *cache.CacheService) {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		if db != nil {
			if sqlDB, err := db.DB(); err == nil {
				stats := sqlDB.Stats()
				logging.Log.WithFields(logrus.Fields{
					"open":          stats.OpenConnections,
					"idle":          stats.Idle,
					"in_use":        stats.InUse,
					"wait_count":    stats.WaitCount,
					"wait_duration": stats.WaitDuration.String(),
				}).Debug("DB pool stats")
			}
		}
		if redisCache != nil {
			stats := redisCache.GetStats()
			logging.Log.WithFields(logrus.Fields{
				"total":    stats.TotalConns,
				"idle":     stats.IdleConns,
				"stale":    stats.StaleConns,
				"hits":     stats.Hits,
				"misses":   stats.Misses,
				"timeouts": stats.Timeouts,
			}).Debug("Redis pool stats")
		}
	}
}
