package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"artisthub/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// NewRedisClient connects to redis and verifies the connection with a ping.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// RedisAvailabilityCache keeps a short-lived copy of each artist's offered slots.
// A miss or a redis failure falls back to the store; cache errors never fail a request.
type RedisAvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisAvailabilityCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisAvailabilityCache {
	return &RedisAvailabilityCache{client: client, ttl: ttl, logger: logger}
}

func availabilityKey(providerID string) string {
	return "availability:" + providerID
}

// Get returns the cached slots and whether the key was present.
func (c *RedisAvailabilityCache) Get(ctx context.Context, providerID string) ([]models.Slot, bool) {
	raw, err := c.client.Get(ctx, availabilityKey(providerID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("availability cache read failed", zap.String("providerId", providerID), zap.Error(err))
		}
		return nil, false
	}
	var slots []models.Slot
	if err := json.Unmarshal(raw, &slots); err != nil {
		c.logger.Warn("availability cache entry is corrupt", zap.String("providerId", providerID), zap.Error(err))
		return nil, false
	}
	return slots, true
}

func (c *RedisAvailabilityCache) Set(ctx context.Context, providerID string, slots []models.Slot) {
	if slots == nil {
		slots = []models.Slot{}
	}
	raw, err := json.Marshal(slots)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, availabilityKey(providerID), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("availability cache write failed", zap.String("providerId", providerID), zap.Error(err))
	}
}

func (c *RedisAvailabilityCache) Invalidate(ctx context.Context, providerID string) {
	if err := c.client.Del(ctx, availabilityKey(providerID)).Err(); err != nil {
		c.logger.Warn("availability cache invalidation failed", zap.String("providerId", providerID), zap.Error(err))
	}
}

// NoopAvailabilityCache is used when REDIS_ADDR is empty.
type NoopAvailabilityCache struct{}

func (NoopAvailabilityCache) Get(context.Context, string) ([]models.Slot, bool) { return nil, false }
func (NoopAvailabilityCache) Set(context.Context, string, []models.Slot)        {}
func (NoopAvailabilityCache) Invalidate(context.Context, string)                {}
