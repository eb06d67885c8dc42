package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"product-catalog/internal/domain/entity"

	"github.com/allegro/bigcache/v3"
)

type memoryProductCache struct {
	products *bigcache.BigCache
	pages    *bigcache.BigCache
}

// NewMemoryProductCache keeps entries in this process only. maxSizeMB is
// split between products and pages.
func NewMemoryProductCache(maxSizeMB int, ttl time.Duration) (ProductCache, error) {
	products, err := newBigCache(maxSizeMB, ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to create product cache: %w", err)
	}
	pages, err := newBigCache(maxSizeMB, ttl)
	if err != nil {
		products.Close()
		return nil, fmt.Errorf("failed to create page cache: %w", err)
	}
	return &memoryProductCache{products: products, pages: pages}, nil
}

func newBigCache(maxSizeMB int, ttl time.Duration) (*bigcache.BigCache, error) {
	cfg := bigcache.DefaultConfig(ttl)
	// Fewer shards keep each shard large enough for a full listing page.
	cfg.Shards = 16
	cfg.MaxEntriesInWindow = 10000
	cfg.MaxEntrySize = 2048
	cfg.CleanWindow = time.Minute
	cfg.HardMaxCacheSize = maxSizeMB / 2
	if cfg.HardMaxCacheSize < 1 {
		cfg.HardMaxCacheSize = 1
	}
	cfg.Verbose = false
	return bigcache.New(context.Background(), cfg)
}

func (c *memoryProductCache) GetProduct(_ context.Context, id int64) (*entity.Product, bool, error) {
	var product entity.Product
	ok, err := c.get(c.products, productField(id), &product)
	if !ok || err != nil {
		return nil, false, err
	}
	return &product, true, nil
}

func (c *memoryProductCache) SetProduct(_ context.Context, product *entity.Product) error {
	return c.set(c.products, productField(product.ID), product)
}

func (c *memoryProductCache) EvictProduct(_ context.Context, id int64) error {
	err := c.products.Delete(productField(id))
	if err != nil && !errors.Is(err, bigcache.ErrEntryNotFound) {
		return err
	}
	return nil
}

func (c *memoryProductCache) GetPage(_ context.Context, key string) (*entity.ProductPage, bool, error) {
	var page entity.ProductPage
	ok, err := c.get(c.pages, key, &page)
	if !ok || err != nil {
		return nil, false, err
	}
	return &page, true, nil
}

func (c *memoryProductCache) SetPage(_ context.Context, key string, page *entity.ProductPage) error {
	return c.set(c.pages, key, page)
}

func (c *memoryProductCache) EvictPages(_ context.Context) error {
	return c.pages.Reset()
}

func (c *memoryProductCache) Close() error {
	return errors.Join(c.products.Close(), c.pages.Close())
}

func (c *memoryProductCache) get(store *bigcache.BigCache, key string, dest interface{}) (bool, error) {
	data, err := store.Get(key)
	if err != nil {
		if errors.Is(err, bigcache.ErrEntryNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to decode cache entry %s: %w", key, err)
	}
	return true, nil
}

func (c *memoryProductCache) set(store *bigcache.BigCache, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry %s: %w", key, err)
	}
	return store.Set(key, data)
}

func productField(id int64) string {
	return strconv.FormatInt(id, 10)
}
