package converter

import (
	"ayursetu-backend/internal/delivery/dto"
	"ayursetu-backend/internal/domain/entity"
)

// UserToResponse converts a User entity to UserResponse DTO. The password
// hash never leaves this layer.
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	return &dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}
