package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"product-catalog/internal/domain/entity"

	"github.com/redis/go-redis/v9"
)

const (
	productKeyPrefix = "catalog:product:"
	pageKeyPrefix    = "catalog:products:page:"
	// pageIndexKey is a set holding every live page key.
	pageIndexKey = "catalog:products:pages"
)

type redisProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisProductCache shares entries between every instance using the same Redis.
func NewRedisProductCache(client *redis.Client, ttl time.Duration) ProductCache {
	return &redisProductCache{client: client, ttl: ttl}
}

func (c *redisProductCache) GetProduct(ctx context.Context, id int64) (*entity.Product, bool, error) {
	var product entity.Product
	ok, err := c.get(ctx, productKey(id), &product)
	if !ok || err != nil {
		return nil, false, err
	}
	return &product, true, nil
}

func (c *redisProductCache) SetProduct(ctx context.Context, product *entity.Product) error {
	data, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("failed to encode product %d: %w", product.ID, err)
	}
	return c.client.Set(ctx, productKey(product.ID), data, c.ttl).Err()
}

func (c *redisProductCache) EvictProduct(ctx context.Context, id int64) error {
	return c.client.Del(ctx, productKey(id)).Err()
}

func (c *redisProductCache) GetPage(ctx context.Context, key string) (*entity.ProductPage, bool, error) {
	var page entity.ProductPage
	ok, err := c.get(ctx, pageKeyPrefix+key, &page)
	if !ok || err != nil {
		return nil, false, err
	}
	return &page, true, nil
}

func (c *redisProductCache) SetPage(ctx context.Context, key string, page *entity.ProductPage) error {
	data, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("failed to encode page %s: %w", key, err)
	}

	pipe := c.client.TxPipeline()
	pipe.Set(ctx, pageKeyPrefix+key, data, c.ttl)
	pipe.SAdd(ctx, pageIndexKey, pageKeyPrefix+key)
	pipe.Expire(ctx, pageIndexKey, c.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

func (c *redisProductCache) EvictPages(ctx context.Context) error {
	keys, err := c.client.SMembers(ctx, pageIndexKey).Result()
	if err != nil {
		return err
	}

	pipe := c.client.TxPipeline()
	if len(keys) > 0 {
		pipe.Del(ctx, keys...)
	}
	pipe.Del(ctx, pageIndexKey)
	_, err = pipe.Exec(ctx)
	return err
}

// Close is a no-op; the client is owned by the caller.
func (c *redisProductCache) Close() error {
	return nil
}

func (c *redisProductCache) get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to decode cache entry %s: %w", key, err)
	}
	return true, nil
}

func productKey(id int64) string {
	return fmt.Sprintf("%s%d", productKeyPrefix, id)
}
