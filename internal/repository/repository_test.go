package repository

import (
	"io"
	"testing"

	"product-catalog/internal/domain/entity"
	"product-catalog/internal/infrastructure/database"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	db, err := database.Open(sqlite.Open(":memory:"), log, false)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func strPtr(s string) *string { return &s }

func seedProduct(t *testing.T, db *gorm.DB, name, price string, stock int, category string) *entity.Product {
	t.Helper()

	product := &entity.Product{
		Name:          name,
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
		Active:        true,
	}
	if category != "" {
		product.Category = strPtr(category)
	}
	require.NoError(t, NewProductRepository().Create(db, product))
	return product
}
