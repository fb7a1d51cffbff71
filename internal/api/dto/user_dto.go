package dto

import (
	"time"

	"github.com/spec-kit/client-portal/internal/domain"
)

// ProvisionUserRequest payload. An empty password asks the server to
// generate one.
type ProvisionUserRequest struct {
	Email              string            `json:"email" validate:"required,email"`
	Password           string            `json:"password" validate:"omitempty,min=8"`
	FullName           string            `json:"full_name" validate:"required,max=200"`
	Role               domain.UserRole   `json:"role" validate:"omitempty,oneof=user admin"`
	Status             domain.UserStatus `json:"status" validate:"omitempty,oneof=active inactive"`
	MustChangePassword bool              `json:"must_change_password"`
}

// UpdateUserStatusRequest payload.
type UpdateUserStatusRequest struct {
	Status domain.UserStatus `json:"status" validate:"required,oneof=active inactive suspended"`
}

// RecoverAccountRequest payload.
type RecoverAccountRequest struct {
	Token string `json:"token" validate:"required"`
}

// UserResponse is the account view. Password material never leaves
// the service; the deletion token is only ever delivered by email.
type UserResponse struct {
	ID                 string            `json:"id"`
	Email              string            `json:"email"`
	FullName           string            `json:"full_name"`
	Role               domain.UserRole   `json:"role"`
	Status             domain.UserStatus `json:"status"`
	MustChangePassword bool              `json:"must_change_password"`
	DeletionDate       *time.Time        `json:"deletion_date,omitempty"`
	LastLogin          *time.Time        `json:"last_login,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

// ProvisionUserResponse includes the plaintext password exactly once,
// for manual out-of-band delivery.
type ProvisionUserResponse struct {
	User     UserResponse `json:"user"`
	Password string       `json:"password"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:                 user.ID,
		Email:              user.Email,
		FullName:           user.FullName,
		Role:               user.Role,
		Status:             user.Status,
		MustChangePassword: user.MustChangePassword,
		DeletionDate:       user.DeletionDate,
		LastLogin:          user.LastLogin,
		CreatedAt:          user.CreatedAt,
		UpdatedAt:          user.UpdatedAt,
	}
}
