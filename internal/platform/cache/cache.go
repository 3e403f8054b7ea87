package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/foodgram-backend/internal/platform/envutil"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
)

const keyPrefix = "foodgram:"

// Cache stores JSON documents under versioned namespaces. Invalidate bumps a namespace's
// version so every key written under the old version stops being read.
type Cache interface {
	GetJSON(ctx context.Context, namespace, key string, dst any) bool
	SetJSON(ctx context.Context, namespace, key string, v any)
	Invalidate(ctx context.Context, namespace string)
	Close() error
}

type redisCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

// New connects to REDIS_ADDR. Without it the returned cache is a no-op.
func New(log *logger.Logger) (Cache, error) {
	addr := envutil.String("REDIS_ADDR", "", log)
	if addr == "" {
		log.Info("REDIS_ADDR not set; reference data caching disabled")
		return Nop(), nil
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    envutil.String("REDIS_PASSWORD", "", nil),
		DB:          envutil.Int("REDIS_DB", 0, log),
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedis(rdb, envutil.Seconds("CACHE_TTL", 10*time.Minute, log), log), nil
}

func NewRedis(rdb *goredis.Client, ttl time.Duration, log *logger.Logger) Cache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &redisCache{log: log.With("service", "RedisCache"), rdb: rdb, ttl: ttl}
}

func versionKey(namespace string) string {
	return keyPrefix + namespace + ":version"
}

func (c *redisCache) version(ctx context.Context, namespace string) (int64, error) {
	v, err := c.rdb.Get(ctx, versionKey(namespace)).Int64()
	if err == goredis.Nil {
		if err := c.rdb.SetNX(ctx, versionKey(namespace), 1, 0).Err(); err != nil {
			return 0, err
		}
		return c.rdb.Get(ctx, versionKey(namespace)).Int64()
	}
	return v, err
}

func (c *redisCache) dataKey(ctx context.Context, namespace, key string) (string, error) {
	v, err := c.version(ctx, namespace)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%s:v%d:%s", keyPrefix, namespace, v, strings.ToLower(key)), nil
}

func (c *redisCache) GetJSON(ctx context.Context, namespace, key string, dst any) bool {
	k, err := c.dataKey(ctx, namespace, key)
	if err != nil {
		c.log.Warn("cache version lookup failed", "namespace", namespace, "error", err)
		return false
	}
	raw, err := c.rdb.Get(ctx, k).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.log.Warn("cache get failed", "key", k, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.log.Warn("cache decode failed", "key", k, "error", err)
		return false
	}
	return true
}

func (c *redisCache) SetJSON(ctx context.Context, namespace, key string, v any) {
	k, err := c.dataKey(ctx, namespace, key)
	if err != nil {
		c.log.Warn("cache version lookup failed", "namespace", namespace, "error", err)
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		c.log.Warn("cache encode failed", "key", k, "error", err)
		return
	}
	if err := c.rdb.Set(ctx, k, raw, c.ttl).Err(); err != nil {
		c.log.Warn("cache set failed", "key", k, "error", err)
	}
}

func (c *redisCache) Invalidate(ctx context.Context, namespace string) {
	v, err := c.rdb.Incr(ctx, versionKey(namespace)).Result()
	if err != nil {
		c.log.Error("cache invalidation failed", "namespace", namespace, "error", err)
		return
	}
	c.log.Debug("cache invalidated", "namespace", namespace, "version", v)
}

func (c *redisCache) Close() error { return c.rdb.Close() }

type nopCache struct{}

func Nop() Cache { return nopCache{} }

func (nopCache) GetJSON(context.Context, string, string, any) bool { return false }
func (nopCache) SetJSON(context.Context, string, string, any)      {}
func (nopCache) Invalidate(context.Context, string)                {}
func (nopCache) Close() error                                      { return nil }
