package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"tns/internal/registry/pricing"
	id "tns/pkg/domain"
)

const (
	// Redis key prefix for cached oracle snapshots.
	snapshotKeyPrefix = "tns:oracle:"

	// DefaultCacheTTL keeps cached readings well inside the staleness bound.
	DefaultCacheTTL = time.Minute
)

// Source is the upstream oracle a RedisCache wraps.
type Source interface {
	ReadPrice(ctx context.Context, feed id.FeedRef) (pricing.PriceSnapshot, error)
}

// RedisCache is a read-through cache over a price oracle. Cache failures fall
// back to the upstream read; a broken cache must never block pricing.
type RedisCache struct {
	client *redis.Client
	source Source
	ttl    time.Duration
}

// CacheOption configures a RedisCache.
type CacheOption func(*RedisCache)

// WithTTL overrides the cache TTL.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *RedisCache) {
		c.ttl = ttl
	}
}

// NewRedisCache wraps source with a redis snapshot cache.
func NewRedisCache(client *redis.Client, source Source, opts ...CacheOption) *RedisCache {
	c := &RedisCache{
		client: client,
		source: source,
		ttl:    DefaultCacheTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type cachedSnapshot struct {
	Price       int64     `json:"price"`
	Exponent    int32     `json:"exponent"`
	PublishedAt time.Time `json:"published_at"`
}

func (c *RedisCache) ReadPrice(ctx context.Context, feed id.FeedRef) (pricing.PriceSnapshot, error) {
	key := snapshotKeyPrefix + feed.String()

	raw, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var cached cachedSnapshot
		if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
			return pricing.PriceSnapshot{
				Price:       cached.Price,
				Exponent:    cached.Exponent,
				PublishedAt: cached.PublishedAt,
			}, nil
		}
	} else if !errors.Is(err, redis.Nil) && ctx.Err() != nil {
		return pricing.PriceSnapshot{}, ctx.Err()
	}

	snap, err := c.source.ReadPrice(ctx, feed)
	if err != nil {
		return pricing.PriceSnapshot{}, err
	}

	payload, err := json.Marshal(cachedSnapshot{
		Price:       snap.Price,
		Exponent:    snap.Exponent,
		PublishedAt: snap.PublishedAt,
	})
	if err == nil {
		// Best effort: a failed SET only costs the next caller a feed read.
		_ = c.client.Set(ctx, key, payload, c.ttl).Err()
	}
	return snap, nil
}
