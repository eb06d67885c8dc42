package converter

import (
	"product-catalog/internal/delivery/dto"
	"product-catalog/internal/domain/entity"
)

// UserToResponse converts a User entity to UserResponse DTO.
// Role must be preloaded for the role name to be set.
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	return &dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      user.Role.RoleName,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
