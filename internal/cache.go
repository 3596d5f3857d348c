package internal

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

//go:generate mockgen -source=cache.go -destination=mock/cache.go

type ICache interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	// Get returns "" and no error on a miss.
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, keys ...string) error
	GenerateKey(operation, key string) string
}

type RedisCache struct {
	client    *redis.Client
	namespace string
}

func NewRedisCache(addr, namespace string) *RedisCache {
	return &RedisCache{
		client:    redis.NewClient(&redis.Options{Addr: addr}),
		namespace: namespace,
	}
}

func (c RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c RedisCache) Get(ctx context.Context, key string) (string, error) {
	v, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (c RedisCache) Delete(ctx context.Context, keys ...string) error {
	return c.client.Del(ctx, keys...).Err()
}

func (c RedisCache) GenerateKey(operation, key string) string {
	return fmt.Sprintf("%s:%s:%s", c.namespace, operation, key)
}

func (c RedisCache) Close() error {
	return c.client.Close()
}

// NoopCache never stores anything; every Get is a miss.
type NoopCache struct{}

func (NoopCache) Set(context.Context, string, interface{}, time.Duration) error { return nil }

func (NoopCache) Get(context.Context, string) (string, error) { return "", nil }

func (NoopCache) Delete(context.Context, ...string) error { return nil }

func (NoopCache) GenerateKey(operation, key string) string {
	return operation + ":" + key
}
