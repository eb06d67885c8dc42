package cache

import (
	"context"
	"fmt"
	"time"

	"product-catalog/config"
	"product-catalog/internal/domain/entity"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL bounds how long an entry may live without being invalidated.
const DefaultTTL = 10 * time.Minute

// ProductCache holds single products by id and listing pages by key.
// A miss is reported as (nil, false, nil).
type ProductCache interface {
	GetProduct(ctx context.Context, id int64) (*entity.Product, bool, error)
	SetProduct(ctx context.Context, product *entity.Product) error
	EvictProduct(ctx context.Context, id int64) error

	GetPage(ctx context.Context, key string) (*entity.ProductPage, bool, error)
	SetPage(ctx context.Context, key string, page *entity.ProductPage) error
	// EvictPages drops every cached page.
	EvictPages(ctx context.Context) error

	Close() error
}

// PageKey identifies one listing page. Sort is part of the key so differently
// ordered listings never share an entry.
func PageKey(page entity.PageRequest) string {
	sortBy := page.SortBy
	if _, ok := entity.ProductSortColumns[sortBy]; !ok {
		sortBy = "id"
	}
	direction := entity.SortAsc
	if page.Direction == entity.SortDesc {
		direction = entity.SortDesc
	}
	return fmt.Sprintf("%d:%d:%s,%s", page.Page, page.Size, sortBy, direction)
}

// NewProductCache builds the engine selected by cfg.Driver. The redis client
// is only required for the redis driver.
func NewProductCache(cfg config.CacheConfig, client *redis.Client) (ProductCache, error) {
	switch cfg.Driver {
	case config.CacheDriverMemory:
		return NewMemoryProductCache(cfg.MaxSize, DefaultTTL)
	case config.CacheDriverRedis:
		if client == nil {
			return nil, fmt.Errorf("redis cache driver requires a redis client")
		}
		return NewRedisProductCache(client, DefaultTTL), nil
	default:
		return nil, fmt.Errorf("unsupported cache driver %q", cfg.Driver)
	}
}
