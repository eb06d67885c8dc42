package repository

import (
	"product-catalog/internal/domain/entity"

	"gorm.io/gorm"
)

type RoleRepository interface {
	FindByName(db *gorm.DB, name string) (*entity.Role, error)
	EnsureDefaults(db *gorm.DB) error
}
