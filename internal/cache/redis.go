package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/seenimoa/entitylens/pkg/models"
)

// Redis is a Store backed by a Redis server, for deployments where several
// processes share one cache.
type Redis struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedis connects to redisURL ("redis://..." or a bare host:port) and
// verifies the connection.
func NewRedis(ctx context.Context, redisURL string, logger *slog.Logger) (*Redis, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		opt = &redis.Options{Addr: redisURL}
	}

	client := redis.NewClient(opt)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opt.Addr, err)
	}

	return NewRedisFromClient(client, logger), nil
}

// NewRedisFromClient wraps an existing client.
func NewRedisFromClient(client *redis.Client, logger *slog.Logger) *Redis {
	return &Redis{client: client, logger: logger}
}

// Get loads and decodes a record. Any backend or decode error is logged and
// reported as a miss.
func (r *Redis) Get(ctx context.Context, key string) (models.FinancialRecord, bool) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("cache get failed", "key", key, "error", err)
		}
		return models.FinancialRecord{}, false
	}

	var rec models.FinancialRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		r.logger.Warn("cache entry undecodable", "key", key, "error", err)
		return models.FinancialRecord{}, false
	}
	return rec, true
}

// Set encodes and stores a record with ttl. Failures are logged and dropped.
func (r *Redis) Set(ctx context.Context, key string, rec models.FinancialRecord, ttl time.Duration) {
	data, err := json.Marshal(rec)
	if err != nil {
		r.logger.Warn("cache encode failed", "key", key, "error", err)
		return
	}
	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		r.logger.Warn("cache set failed", "key", key, "error", err)
	}
}

// Close closes the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}
