package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/web3-frozen/defi-radar/internal/metrics"
)

// TTL is the fixed lifetime of every cached response. Readers may serve
// data up to this much older than the last upstream change.
const TTL = 5 * time.Minute

// Cache keys, one per data domain. The read handler for a domain serves
// the bytes stored under its key verbatim.
const (
	KeyYield      = "yield_data"
	KeyGovernance = "governance_data"
	KeyRiskMetric = "risk_metrics"
	KeyRiskScore  = "risk_scores"
	KeyOnChain    = "on_chain_data"
	KeyTechnical  = "technical_data"
)

// Cache is a Redis-backed response cache with a fixed TTL.
type Cache struct {
	rdb *redis.Client
}

// New creates a Cache backed by Redis.
func New(redisURL, password string) (*Cache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	if password != "" {
		opts.Password = password
	}
	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &Cache{rdb: rdb}, nil
}

// Close shuts down the Redis connection.
func (c *Cache) Close() error {
	return c.rdb.Close()
}

// Get returns the cached bytes for key, if present and not expired.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		metrics.CacheMisses.WithLabelValues(key).Inc()
		return nil, false
	}
	metrics.CacheHits.WithLabelValues(key).Inc()
	return val, true
}

// Set stores val under key for the fixed TTL. A cache write failure is
// not fatal to the caller: the durable store already holds the data.
func (c *Cache) Set(ctx context.Context, key string, val []byte) {
	c.rdb.Set(ctx, key, val, TTL) //nolint:errcheck
}
