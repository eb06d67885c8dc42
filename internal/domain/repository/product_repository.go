package repository

import (
	"product-catalog/internal/domain/entity"

	"gorm.io/gorm"
)

// ProductRepository is the durable product store. Every method runs on the
// handle it is given so callers decide the transaction boundary.
//
// Mutating methods report rows affected; zero means no row matched.
type ProductRepository interface {
	Create(db *gorm.DB, product *entity.Product) error
	FindByID(db *gorm.DB, id int64) (*entity.Product, error)
	FindAll(db *gorm.DB, page entity.PageRequest) ([]entity.Product, int64, error)
	FindByFilter(db *gorm.DB, filter *entity.ProductFilter, page entity.PageRequest) ([]entity.Product, int64, error)
	FindLowStock(db *gorm.DB, threshold int) ([]entity.Product, error)
	// Update writes the named columns of product; updated_at is always written.
	Update(db *gorm.DB, product *entity.Product, columns []string) (int64, error)
	Delete(db *gorm.DB, id int64) (int64, error)

	// SetStock replaces the quantity.
	SetStock(db *gorm.DB, id int64, quantity int) (int64, error)
	// DecrementStock subtracts quantity only while enough stock remains.
	DecrementStock(db *gorm.DB, id int64, quantity int) (int64, error)
	IncrementStock(db *gorm.DB, id int64, quantity int) (int64, error)
}
