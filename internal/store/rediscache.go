package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/lmartins/shortly/internal/shortener"
	"github.com/redis/go-redis/v9"
)

const (
	redirectCachePrefix = "url:"
	listingCachePrefix  = "urls:owner:"

	// Redirects are immutable once created so they can sit for a while;
	// listings change on every create/delete and expire quickly.
	redirectCacheTTL = time.Hour
	listingCacheTTL  = 5 * time.Minute
)

// RedisCache is a Redis implementation of shortener.Cache.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new Redis-backed cache.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (r *RedisCache) GetLongURL(ctx context.Context, code shortener.Code) (string, error) {
	longURL, err := r.client.Get(ctx, redirectCachePrefix+string(code)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", shortener.ErrCacheMiss
		}

		return "", err
	}

	return longURL, nil
}

func (r *RedisCache) SetLongURL(ctx context.Context, code shortener.Code, longURL string) error {
	return r.client.Set(ctx, redirectCachePrefix+string(code), longURL, redirectCacheTTL).Err()
}

func (r *RedisCache) GetListing(ctx context.Context, ownerID string) ([]shortener.ShortURL, error) {
	payload, err := r.client.Get(ctx, listingCachePrefix+ownerID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, shortener.ErrCacheMiss
		}

		return nil, err
	}

	var urls []shortener.ShortURL
	if err := json.Unmarshal(payload, &urls); err != nil {
		return nil, err
	}

	return urls, nil
}

func (r *RedisCache) SetListing(ctx context.Context, ownerID string, urls []shortener.ShortURL) error {
	payload, err := json.Marshal(urls)
	if err != nil {
		return err
	}

	return r.client.Set(ctx, listingCachePrefix+ownerID, payload, listingCacheTTL).Err()
}

func (r *RedisCache) InvalidateCode(ctx context.Context, code shortener.Code) error {
	return r.client.Del(ctx, redirectCachePrefix+string(code)).Err()
}

func (r *RedisCache) InvalidateListing(ctx context.Context, ownerID string) error {
	return r.client.Del(ctx, listingCachePrefix+ownerID).Err()
}

// Compile-time check.
var _ shortener.Cache = (*RedisCache)(nil)
