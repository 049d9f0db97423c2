package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Domenick1991/cargobooking/config"
	"github.com/Domenick1991/cargobooking/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client    *redis.Client
	routesTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, routesTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:    redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		routesTTL: routesTTL,
	}
}

// NewRedisCacheWithClient wires an existing client, used by tests with redismock.
func NewRedisCacheWithClient(client *redis.Client, routesTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, routesTTL: routesTTL}
}

// TryAcquire is an atomic set-if-absent with expiry. The TTL is the only
// defense against a crashed holder, so it must always be positive.
func (c *RedisCache) TryAcquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, key, "locked", ttl).Result()
}

// Release deletes the lock key unconditionally. Ownership is not validated.
func (c *RedisCache) Release(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

func (c *RedisCache) AcquireCapacityLock(ctx context.Context, flightID string, ttl time.Duration) (bool, error) {
	return c.TryAcquire(ctx, CapacityLockKey(flightID), ttl)
}

func (c *RedisCache) ReleaseCapacityLock(ctx context.Context, flightID string) error {
	return c.Release(ctx, CapacityLockKey(flightID))
}

func (c *RedisCache) GetRoutes(ctx context.Context, origin, destination string, date time.Time) ([]domain.Route, error) {
	data, err := c.client.Get(ctx, routesKey(origin, destination, date)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var routes []domain.Route
	if err := json.Unmarshal(data, &routes); err != nil {
		return nil, err
	}
	return routes, nil
}

func (c *RedisCache) SetRoutes(ctx context.Context, origin, destination string, date time.Time, routes []domain.Route) error {
	payload, err := json.Marshal(routes)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, routesKey(origin, destination, date), payload, c.routesTTL).Err()
}

// CapacityLockKey derives the per-flight capacity lock key.
func CapacityLockKey(flightID string) string {
	return fmt.Sprintf("lock:flight:%s:capacity", flightID)
}

func routesKey(origin, destination string, date time.Time) string {
	return fmt.Sprintf("cache:routes:%s:%s:%s", origin, destination, date.Format("2006-01-02"))
}
