// Package redis caches store lookups in Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/Sudhanshu9000/BazzarNet1.1/internal/repository"
)

const keyPrefix = "stores:pincode:"

var cacheLookups = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "catalog_store_cache_lookups_total",
		Help: "Pincode store lookups by cache result (hit, miss, error).",
	},
	[]string{"result"},
)

func init() {
	prometheus.MustRegister(cacheLookups)
}

// StoreCache is a read-through cache in front of a StoreRepository. Redis
// failures fall back to the wrapped repository.
type StoreCache struct {
	next   repository.StoreRepository
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewStoreCache wraps next with a Redis cache whose entries expire after ttl.
func NewStoreCache(next repository.StoreRepository, client *redis.Client, ttl time.Duration, logger *slog.Logger) *StoreCache {
	return &StoreCache{next: next, client: client, ttl: ttl, logger: logger}
}

var _ repository.StoreRepository = (*StoreCache)(nil)

// ActiveIDsByPincode returns cached store ids for pincode, loading and
// caching them from the wrapped repository on a miss. Empty results are
// cached as well.
func (c *StoreCache) ActiveIDsByPincode(ctx context.Context, pincode string) ([]string, error) {
	key := keyPrefix + pincode

	ids, err := c.get(ctx, key)
	switch {
	case err == nil:
		cacheLookups.WithLabelValues("hit").Inc()
		return ids, nil
	case errors.Is(err, redis.Nil):
		cacheLookups.WithLabelValues("miss").Inc()
	default:
		cacheLookups.WithLabelValues("error").Inc()
		c.logger.WarnContext(ctx, "store cache read failed",
			slog.String("pincode", pincode),
			slog.String("error", err.Error()),
		)
	}

	ids, err = c.next.ActiveIDsByPincode(ctx, pincode)
	if err != nil {
		return nil, err
	}

	if err := c.set(ctx, key, ids); err != nil {
		c.logger.WarnContext(ctx, "store cache write failed",
			slog.String("pincode", pincode),
			slog.String("error", err.Error()),
		)
	}
	return ids, nil
}

// Invalidate drops the cached ids for pincode.
func (c *StoreCache) Invalidate(ctx context.Context, pincode string) error {
	if err := c.client.Del(ctx, keyPrefix+pincode).Err(); err != nil {
		return fmt.Errorf("redis del store ids: %w", err)
	}
	return nil
}

func (c *StoreCache) get(ctx context.Context, key string) ([]string, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, err
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("unmarshal store ids: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

func (c *StoreCache) set(ctx context.Context, key string, ids []string) error {
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("marshal store ids: %w", err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set store ids: %w", err)
	}
	return nil
}
