package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dlezama/banca_simple_app/internal/core/domain"
)

// ChangeRoleRequest is the body for PATCH /api/account/admin/change-role.
type ChangeRoleRequest struct {
	UserID string `json:"userId" binding:"required"`
	Role   string `json:"role" binding:"required"`
}

// UserResponse is the full user representation with the password hash excluded.
type UserResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Role      domain.Role     `json:"role"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"createdAt"`
}

// ChangeRoleResponse is returned after a successful role update.
type ChangeRoleResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

// ToUserResponse converts a domain.User to its response DTO.
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.UserID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		Balance:   user.Balance,
		CreatedAt: user.CreatedAt,
	}
}

// ToUserResponseList converts a slice of domain users.
func ToUserResponseList(users []domain.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = ToUserResponse(&users[i])
	}
	return out
}
