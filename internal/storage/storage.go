// Package storage wires the configured persistence backend and realtime
// broker.
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"relief-exchange/internal/config"
	"relief-exchange/internal/realtime"
	"relief-exchange/internal/repository"
	"relief-exchange/internal/repository/memory"
	"relief-exchange/internal/repository/mongodb"
	"relief-exchange/internal/repository/postgresql"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Open returns the repositories for cfg.StorageDriver.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.Store, error) {
	switch cfg.StorageDriver {
	case config.DriverMongo:
		return mongodb.Open(ctx, cfg.MongoURI, cfg.MongoDatabase, logger)
	case config.DriverPostgres:
		return postgresql.Open(cfg.DBConnectionString, logger)
	case config.DriverMemory:
		logger.Warn("using in-memory storage, data is lost on restart")
		return memory.NewStore().Bundle(), nil
	}
	return repository.Store{}, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}

// RedisOptions accepts either a redis:// URL or a bare host:port.
func RedisOptions(raw string) (*redis.Options, error) {
	if strings.Contains(raw, "://") {
		opts, err := redis.ParseURL(raw)
		if err != nil {
			return nil, fmt.Errorf("REDIS_URL: %w", err)
		}
		return opts, nil
	}
	return &redis.Options{Addr: raw, DB: 0}, nil
}

// OpenBroker connects to Redis when REDIS_URL is set and otherwise falls
// back to an in-process hub, which only fans out within this process.
func OpenBroker(ctx context.Context, cfg *config.Config, logger *zap.Logger) (realtime.Broker, func() error, error) {
	if cfg.RedisURL == "" {
		logger.Warn("REDIS_URL not set, realtime events stay in this process")
		return realtime.NewHub(), func() error { return nil }, nil
	}
	opts, err := RedisOptions(cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("redis ping: %w", err)
	}
	logger.Info("redis initialized", zap.String("addr", opts.Addr))
	return realtime.NewRedisBroker(client, logger), client.Close, nil
}
