package repository

import (
	"errors"

	"product-catalog/internal/domain/entity"
	domainRepo "product-catalog/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type roleRepository struct{}

func NewRoleRepository() domainRepo.RoleRepository {
	return &roleRepository{}
}

func (r *roleRepository) FindByName(db *gorm.DB, name string) (*entity.Role, error) {
	var role entity.Role
	err := db.Where("role_name = ?", name).First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &role, nil
}

// EnsureDefaults inserts the built-in roles, leaving existing rows untouched.
func (r *roleRepository) EnsureDefaults(db *gorm.DB) error {
	roles := entity.DefaultRoles()
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&roles).Error
}
