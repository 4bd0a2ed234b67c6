package quotes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mohamedkhairy/stock-signals/internal/config"
	"github.com/mohamedkhairy/stock-signals/internal/models"
	"github.com/mohamedkhairy/stock-signals/pkg/logger"
)

// Cache is a byte-value store with expiry
type Cache interface {
	// Get returns ErrCacheMiss when the key is absent
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CacheObserver receives cache lookup results ("hit", "miss", "error")
type CacheObserver interface {
	ObserveCache(result string)
}

// RedisCache implements Cache on Redis
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to Redis
func NewRedisCache(cfg config.RedisConfig) (*RedisCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Connected to Redis",
		logger.String("host", cfg.Host),
		logger.Int("port", cfg.Port),
	)

	return &RedisCache{client: rdb}, nil
}

// NewRedisCacheFromClient wraps an existing client
func NewRedisCacheFromClient(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get key %s: %w", key, err)
	}
	return value, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}

// Close closes the Redis connection
func (r *RedisCache) Close() error {
	return r.client.Close()
}

// CachedSource serves History from a Cache, falling back to the wrapped
// Source on a miss. Cache failures never fail a request.
type CachedSource struct {
	source   Source
	cache    Cache
	ttl      time.Duration
	observer CacheObserver
}

// NewCachedSource wraps source with cache. observer may be nil.
func NewCachedSource(source Source, cache Cache, ttl time.Duration, observer CacheObserver) *CachedSource {
	return &CachedSource{
		source:   source,
		cache:    cache,
		ttl:      ttl,
		observer: observer,
	}
}

// Name returns the wrapped provider name
func (c *CachedSource) Name() string {
	return c.source.Name()
}

// History returns cached quotes when present, otherwise fetches and stores them
func (c *CachedSource) History(ctx context.Context, symbol string, start, end time.Time) ([]models.Quote, error) {
	key := c.key(symbol, start, end)

	data, err := c.cache.Get(ctx, key)
	switch {
	case err == nil:
		var quotes []models.Quote
		jsonErr := json.Unmarshal(data, &quotes)
		if jsonErr == nil {
			c.observe("hit")
			return quotes, nil
		}
		logger.Warn("Discarding undecodable cache entry",
			logger.String("key", key),
			logger.ErrorField(jsonErr),
		)
		c.observe("error")
	case errors.Is(err, ErrCacheMiss):
		c.observe("miss")
	default:
		logger.Warn("Quote cache lookup failed",
			logger.String("key", key),
			logger.ErrorField(err),
		)
		c.observe("error")
	}

	quotes, err := c.source.History(ctx, symbol, start, end)
	if err != nil {
		return nil, err
	}

	data, err = json.Marshal(quotes)
	if err != nil {
		return quotes, nil
	}
	if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
		logger.Warn("Failed to store quotes in cache",
			logger.String("key", key),
			logger.ErrorField(err),
		)
	}

	return quotes, nil
}

// key buckets the end time by the TTL, so requests ending "now" share an
// entry until it expires
func (c *CachedSource) key(symbol string, start, end time.Time) string {
	if c.ttl > 0 {
		end = end.Truncate(c.ttl)
	}
	return fmt.Sprintf("quotes:%s:%s:%d:%d", c.source.Name(), symbol, start.Unix(), end.Unix())
}

func (c *CachedSource) observe(result string) {
	if c.observer != nil {
		c.observer.ObserveCache(result)
	}
}
