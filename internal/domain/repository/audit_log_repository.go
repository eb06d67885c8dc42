package repository

import (
	"product-catalog/internal/domain/entity"

	"gorm.io/gorm"
)

// AuditLogRepository stores the catalog's change history. Entries are
// append-only; nothing updates or deletes them.
type AuditLogRepository interface {
	Create(db *gorm.DB, log *entity.AuditLog) error
	// FindAll lists entries newest first. A non-empty action matches that
	// action and every action below it, so "product.stock" covers set,
	// reserve and restock.
	FindAll(db *gorm.DB, action string, limit, offset int) ([]entity.AuditLog, int64, error)
	FindByID(db *gorm.DB, id int64) (*entity.AuditLog, error)
}
