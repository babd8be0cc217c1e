// internal/heatmap/store/redis.go
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"heatmap-chat/internal/common/config"
	"heatmap-chat/internal/common/logger"
)

// NewRedisClient creates the client used to hydrate the snapshot from
// a Redis instance populated by the ingestion pipeline.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})
}

// LoadRedis builds a snapshot by scanning keys under the configured
// prefix. Each value is a JSON array of observation rows published by
// the ingestion pipeline; row order within a value is preserved.
func LoadRedis(ctx context.Context, client *redis.Client, keyPrefix string, log logger.Logger) (*Snapshot, error) {
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	builder := NewBuilder()
	skipped := 0

	iter := client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		val, err := client.Get(ctx, iter.Val()).Result()
		if err != nil {
			return nil, fmt.Errorf("redis get %s: %w", iter.Val(), err)
		}

		var rows []ObservationRow
		if err := json.Unmarshal([]byte(val), &rows); err != nil {
			log.Warn("skipping malformed dataset entry", map[string]interface{}{
				"key":   iter.Val(),
				"error": err.Error(),
			})
			skipped++
			continue
		}
		for _, row := range rows {
			builder.Add(row)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan: %w", err)
	}

	snap := builder.Build()
	log.Info("dataset loaded from redis", map[string]interface{}{
		"prefix":  keyPrefix,
		"rows":    snap.Len(),
		"keys":    snap.Keys(),
		"skipped": skipped,
	})
	return snap, nil
}
