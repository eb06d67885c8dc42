package repository

import (
	"testing"

	"product-catalog/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleRepository_EnsureDefaultsIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRoleRepository()

	require.NoError(t, repo.EnsureDefaults(db))
	require.NoError(t, repo.EnsureDefaults(db))

	var count int64
	require.NoError(t, db.Model(&entity.Role{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)

	role, err := repo.FindByName(db, entity.RoleAdmin)
	require.NoError(t, err)
	require.NotNil(t, role)
	assert.Equal(t, entity.RoleIDAdmin, role.ID)

	missing, err := repo.FindByName(db, "superuser")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, NewRoleRepository().EnsureDefaults(db))
	repo := NewUserRepository()

	user := &entity.User{
		RoleID:   entity.RoleIDCustomer,
		Email:    "jane@example.com",
		Password: "hashed",
		FullName: "Jane Doe",
		IsActive: true,
	}
	require.NoError(t, repo.Create(db, user))
	assert.NotEqual(t, uuid.Nil, user.ID)

	byEmail, err := repo.FindByEmail(db, "jane@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, user.ID, byEmail.ID)
	assert.Equal(t, entity.RoleCustomer, byEmail.Role.RoleName)

	byID, err := repo.FindByID(db, user.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "Jane Doe", byID.FullName)

	missing, err := repo.FindByEmail(db, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestAuditLogRepository_CreateAndList(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, NewRoleRepository().EnsureDefaults(db))

	user := &entity.User{RoleID: entity.RoleIDAdmin, Email: "admin@example.com", Password: "x", FullName: "Admin", IsActive: true}
	require.NoError(t, NewUserRepository().Create(db, user))

	repo := NewAuditLogRepository()
	for _, action := range []string{entity.AuditActionProductCreate, entity.AuditActionProductUpdate, entity.AuditActionProductStockReserve, entity.AuditActionProductStockRestock} {
		require.NoError(t, repo.Create(db, &entity.AuditLog{
			UserID:   &user.ID,
			Action:   action,
			Metadata: entity.JSON{"entity": entity.AuditEntityProduct, "entity_id": 1},
		}))
	}

	logs, total, err := repo.FindAll(db, "", 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	require.Len(t, logs, 2)
	assert.Equal(t, entity.AuditActionProductUpdate, logs[0].Action)
	require.NotNil(t, logs[0].User)
	assert.Equal(t, entity.RoleAdmin, logs[0].User.Role.RoleName)

	found, err := repo.FindByID(db, logs[1].ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, entity.AuditEntityProduct, found.Metadata["entity"])

	missing, err := repo.FindByID(db, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	stock, total, err := repo.FindAll(db, "product.stock", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, stock, 2)
	assert.Equal(t, entity.AuditActionProductStockRestock, stock[0].Action)

	exact, total, err := repo.FindAll(db, entity.AuditActionProductUpdate, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, exact, 1)

	// A bare prefix without the dot boundary matches nothing.
	none, total, err := repo.FindAll(db, "product.sto", 10, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, none)
}
