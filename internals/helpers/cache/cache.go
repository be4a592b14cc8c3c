// Package cache menyimpan hasil agregasi yang mahal (statistik dashboard)
// di Redis. Tanpa REDIS_URL, NoopCache dipakai dan semua Get = miss.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"jejakliqo_backend/internals/configs"
)

var ErrCacheMiss = errors.New("cache: key not found")

const keyPrefix = "jejakliqo:"

type Cache interface {
	GetJSON(ctx context.Context, key string, dest any) error
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// ===================== Redis =====================

type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (r *RedisCache) GetJSON(ctx context.Context, key string, dest any) error {
	raw, err := r.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("cache get %s: %w", key, err)
	}
	return sonic.Unmarshal(raw, dest)
}

func (r *RedisCache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := sonic.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal %s: %w", key, err)
	}
	return r.client.Set(ctx, keyPrefix+key, raw, ttl).Err()
}

func (r *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = keyPrefix + k
	}
	return r.client.Del(ctx, full...).Err()
}

// ===================== Noop =====================

type NoopCache struct{}

func NewNoopCache() NoopCache { return NoopCache{} }

func (NoopCache) GetJSON(context.Context, string, any) error { return ErrCacheMiss }
func (NoopCache) SetJSON(context.Context, string, any, time.Duration) error { return nil }
func (NoopCache) Delete(context.Context, ...string) error { return nil }

// NewFromEnv: REDIS_URL kosong atau Redis tidak bisa di-ping → NoopCache.
func NewFromEnv(ctx context.Context) Cache {
	if configs.RedisURL == "" {
		return NewNoopCache()
	}
	opt, err := redis.ParseURL(configs.RedisURL)
	if err != nil {
		log.Printf("[WARN] REDIS_URL tidak valid: %v, cache dimatikan", err)
		return NewNoopCache()
	}
	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Printf("[WARN] Redis tidak bisa dihubungi: %v, cache dimatikan", err)
		_ = client.Close()
		return NewNoopCache()
	}
	log.Println("[INFO] Redis cache aktif")
	return NewRedisCache(client)
}

// Remember: ambil dari cache, kalau miss hitung lalu simpan.
// Error cache tidak pernah menggagalkan request.
func Remember[T any](ctx context.Context, c Cache, key string, ttl time.Duration, compute func() (T, error)) (T, error) {
	var out T
	if c == nil {
		return compute()
	}
	if err := c.GetJSON(ctx, key, &out); err == nil {
		return out, nil
	} else if !errors.Is(err, ErrCacheMiss) {
		log.Printf("[WARN] cache get %s: %v", key, err)
	}

	out, err := compute()
	if err != nil {
		return out, err
	}
	if err := c.SetJSON(ctx, key, out, ttl); err != nil {
		log.Printf("[WARN] cache set %s: %v", key, err)
	}
	return out, nil
}
