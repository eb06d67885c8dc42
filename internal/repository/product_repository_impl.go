package repository

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"product-catalog/internal/domain/entity"
	domainRepo "product-catalog/internal/domain/repository"

	"gorm.io/gorm"
)

// Columns a merge patch may touch. id and created_at are never written after insert.
var productMutableColumns = map[string]bool{
	"name":           true,
	"description":    true,
	"price":          true,
	"stock_quantity": true,
	"category":       true,
	"brand":          true,
	"image_url":      true,
	"active":         true,
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type productRepository struct{}

func NewProductRepository() domainRepo.ProductRepository {
	return &productRepository{}
}

func (r *productRepository) Create(db *gorm.DB, product *entity.Product) error {
	return db.Create(product).Error
}

func (r *productRepository) FindByID(db *gorm.DB, id int64) (*entity.Product, error) {
	var product entity.Product
	err := db.Where("id = ?", id).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindAll(db *gorm.DB, page entity.PageRequest) ([]entity.Product, int64, error) {
	return r.findPage(db.Model(&entity.Product{}), page)
}

// FindByFilter applies every non-empty filter field. Name matching is a
// case-insensitive substring match with LIKE wildcards escaped.
func (r *productRepository) FindByFilter(db *gorm.DB, filter *entity.ProductFilter, page entity.PageRequest) ([]entity.Product, int64, error) {
	query := db.Model(&entity.Product{})

	if filter != nil {
		if filter.Name != "" {
			pattern := "%" + likeEscaper.Replace(strings.ToLower(filter.Name)) + "%"
			query = query.Where(`LOWER(name) LIKE ? ESCAPE '\'`, pattern)
		}
		if filter.Category != nil {
			query = query.Where("category = ?", *filter.Category)
		}
		if filter.Brand != nil {
			query = query.Where("brand = ?", *filter.Brand)
		}
		if filter.MinPrice != nil {
			query = query.Where("price >= ?", *filter.MinPrice)
		}
		if filter.MaxPrice != nil {
			query = query.Where("price <= ?", *filter.MaxPrice)
		}
		if filter.Active != nil {
			query = query.Where("active = ?", *filter.Active)
		}
		if filter.InStock != nil {
			if *filter.InStock {
				query = query.Where("stock_quantity > 0")
			} else {
				query = query.Where("stock_quantity = 0")
			}
		}
	}

	return r.findPage(query, page)
}

func (r *productRepository) findPage(query *gorm.DB, page entity.PageRequest) ([]entity.Product, int64, error) {
	var products []entity.Product
	var total int64

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if total == 0 || int64(page.Offset()) >= total {
		return []entity.Product{}, total, nil
	}

	err := query.
		Order(page.OrderClause()).
		Limit(page.Size).
		Offset(page.Offset()).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// FindLowStock returns active products whose stock is below threshold.
func (r *productRepository) FindLowStock(db *gorm.DB, threshold int) ([]entity.Product, error) {
	var products []entity.Product
	err := db.
		Where("stock_quantity < ? AND active = ?", threshold, true).
		Order("stock_quantity ASC, id ASC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// Update writes only the given columns plus updated_at, so columns the caller
// did not touch keep whatever a concurrent writer stored in the meantime.
func (r *productRepository) Update(db *gorm.DB, product *entity.Product, columns []string) (int64, error) {
	selected := make([]string, 0, len(columns)+1)
	for _, column := range columns {
		if !productMutableColumns[column] {
			return 0, fmt.Errorf("column %q cannot be updated", column)
		}
		selected = append(selected, column)
	}
	selected = append(selected, "updated_at")

	result := db.Model(product).Select(selected).Updates(product)
	return result.RowsAffected, result.Error
}

func (r *productRepository) Delete(db *gorm.DB, id int64) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.Product{})
	return result.RowsAffected, result.Error
}

func (r *productRepository) SetStock(db *gorm.DB, id int64, quantity int) (int64, error) {
	result := db.Model(&entity.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"stock_quantity": quantity,
			"updated_at":     time.Now(),
		})
	return result.RowsAffected, result.Error
}

// DecrementStock is a single conditional UPDATE, so concurrent reservations
// can never drive stock_quantity below zero.
func (r *productRepository) DecrementStock(db *gorm.DB, id int64, quantity int) (int64, error) {
	result := db.Model(&entity.Product{}).
		Where("id = ? AND stock_quantity >= ?", id, quantity).
		Updates(map[string]interface{}{
			"stock_quantity": gorm.Expr("stock_quantity - ?", quantity),
			"updated_at":     time.Now(),
		})
	return result.RowsAffected, result.Error
}

func (r *productRepository) IncrementStock(db *gorm.DB, id int64, quantity int) (int64, error) {
	result := db.Model(&entity.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"stock_quantity": gorm.Expr("stock_quantity + ?", quantity),
			"updated_at":     time.Now(),
		})
	return result.RowsAffected, result.Error
}
