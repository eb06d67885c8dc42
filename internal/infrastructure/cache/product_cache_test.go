package cache

import (
	"context"
	"testing"
	"time"

	"product-catalog/config"
	"product-catalog/internal/domain/entity"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func cacheEngines(t *testing.T) map[string]ProductCache {
	t.Helper()

	memory, err := NewMemoryProductCache(8, time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { memory.Close() })

	_, client := newTestRedis(t)

	return map[string]ProductCache{
		"memory": memory,
		"redis":  NewRedisProductCache(client, time.Minute),
	}
}

func sampleProduct(id int64) *entity.Product {
	return &entity.Product{
		ID:            id,
		Name:          "Widget",
		Price:         decimal.RequireFromString("19.99"),
		StockQuantity: 10,
		Active:        true,
		CreatedAt:     time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		UpdatedAt:     time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestProductCache_Products(t *testing.T) {
	ctx := context.Background()

	for name, c := range cacheEngines(t) {
		t.Run(name, func(t *testing.T) {
			got, ok, err := c.GetProduct(ctx, 1)
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Nil(t, got)

			require.NoError(t, c.SetProduct(ctx, sampleProduct(1)))

			got, ok, err = c.GetProduct(ctx, 1)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, "Widget", got.Name)
			assert.True(t, decimal.RequireFromString("19.99").Equal(got.Price))
			assert.Equal(t, 10, got.StockQuantity)

			require.NoError(t, c.EvictProduct(ctx, 1))
			require.NoError(t, c.EvictProduct(ctx, 1), "evicting a missing entry is not an error")

			_, ok, err = c.GetProduct(ctx, 1)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestProductCache_Pages(t *testing.T) {
	ctx := context.Background()

	for name, c := range cacheEngines(t) {
		t.Run(name, func(t *testing.T) {
			first := PageKey(entity.PageRequest{Page: 0, Size: 20})
			second := PageKey(entity.PageRequest{Page: 1, Size: 20})

			page := entity.NewProductPage([]entity.Product{*sampleProduct(1)}, entity.PageRequest{Page: 0, Size: 20}, 1)
			require.NoError(t, c.SetPage(ctx, first, page))
			require.NoError(t, c.SetPage(ctx, second, entity.NewProductPage(nil, entity.PageRequest{Page: 1, Size: 20}, 1)))

			got, ok, err := c.GetPage(ctx, first)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, int64(1), got.TotalElements)
			assert.Equal(t, 1, got.TotalPages)
			require.Len(t, got.Items, 1)
			assert.Equal(t, "Widget", got.Items[0].Name)

			require.NoError(t, c.EvictPages(ctx))

			for _, key := range []string{first, second} {
				_, ok, err = c.GetPage(ctx, key)
				require.NoError(t, err)
				assert.False(t, ok)
			}
		})
	}
}

func TestPageKey(t *testing.T) {
	tests := []struct {
		name string
		page entity.PageRequest
		want string
	}{
		{name: "defaults", page: entity.PageRequest{Page: 0, Size: 20}, want: "0:20:id,asc"},
		{name: "sorted", page: entity.PageRequest{Page: 2, Size: 5, SortBy: "price", Direction: entity.SortDesc}, want: "2:5:price,desc"},
		{name: "unknown column normalised", page: entity.PageRequest{Page: 0, Size: 5, SortBy: "secret"}, want: "0:5:id,asc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PageKey(tt.page))
		})
	}

	assert.NotEqual(t,
		PageKey(entity.PageRequest{Size: 20, SortBy: "name"}),
		PageKey(entity.PageRequest{Size: 20, SortBy: "price"}),
	)
}

func TestRedisProductCache_EvictPagesClearsIndex(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	c := NewRedisProductCache(client, time.Minute)

	require.NoError(t, c.SetPage(ctx, "0:20:id,asc", entity.NewProductPage(nil, entity.PageRequest{Size: 20}, 0)))
	assert.True(t, mr.Exists(pageIndexKey))

	require.NoError(t, c.EvictPages(ctx))
	assert.False(t, mr.Exists(pageIndexKey))
	assert.False(t, mr.Exists(pageKeyPrefix+"0:20:id,asc"))
}

func TestNewProductCache(t *testing.T) {
	_, client := newTestRedis(t)

	memory, err := NewProductCache(config.CacheConfig{Driver: config.CacheDriverMemory, MaxSize: 4}, nil)
	require.NoError(t, err)
	defer memory.Close()

	shared, err := NewProductCache(config.CacheConfig{Driver: config.CacheDriverRedis}, client)
	require.NoError(t, err)
	assert.NotNil(t, shared)

	_, err = NewProductCache(config.CacheConfig{Driver: config.CacheDriverRedis}, nil)
	assert.Error(t, err)

	_, err = NewProductCache(config.CacheConfig{Driver: "memcached"}, nil)
	assert.Error(t, err)
}
