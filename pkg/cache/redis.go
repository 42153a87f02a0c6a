package cache

import (
	"context"
	"time"

	"github.com/richxcame/finsight/pkg/config"
	"github.com/richxcame/finsight/pkg/redis"
	"github.com/richxcame/finsight/pkg/resilience"
)

type getResult struct {
	value string
	found bool
}

// RedisCache stores entries in Redis behind a circuit breaker so a Redis
// outage degrades to cache misses instead of failed requests.
type RedisCache struct {
	client  *redis.Client
	breaker *resilience.CircuitBreaker
}

// NewRedisCache wraps client with a breaker named "redis-cache" tuned by cfg
func NewRedisCache(client *redis.Client, cfg config.BreakerConfig) *RedisCache {
	settings := resilience.SettingsFromConfig("redis-cache", cfg)
	return &RedisCache{
		client:  client,
		breaker: resilience.NewCircuitBreaker(settings, resilience.WarnAndReject("redis")),
	}
}

func (r *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	res, err := r.breaker.Execute(ctx, func(ctx context.Context) (interface{}, error) {
		v, found, err := r.client.GetString(ctx, key)
		if err != nil {
			return nil, err
		}
		return getResult{value: v, found: found}, nil
	})
	if err != nil {
		return "", false, err
	}
	gr := res.(getResult)
	return gr.value, gr.found, nil
}

func (r *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	_, err := r.breaker.Execute(ctx, func(ctx context.Context) (interface{}, error) {
		return nil, r.client.SetWithExpiration(ctx, key, value, ttl)
	})
	return err
}

func (r *RedisCache) Incr(ctx context.Context, key string) (int64, error) {
	res, err := r.breaker.Execute(ctx, func(ctx context.Context) (interface{}, error) {
		return r.client.Increment(ctx, key)
	})
	if err != nil {
		return 0, err
	}
	return res.(int64), nil
}

func (r *RedisCache) Delete(ctx context.Context, keys ...string) error {
	_, err := r.breaker.Execute(ctx, func(ctx context.Context) (interface{}, error) {
		return nil, r.client.Delete(ctx, keys...)
	})
	return err
}

var _ Cache = (*RedisCache)(nil)
