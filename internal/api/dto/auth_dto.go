package dto

import "time"

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued token.
type LoginResponse struct {
	Token              string       `json:"token"`
	ExpiresAt          time.Time    `json:"expires_at"`
	MustChangePassword bool         `json:"must_change_password"`
	User               UserResponse `json:"user"`
}

// ChatMessageRequest payload for the FAQ bot.
type ChatMessageRequest struct {
	Message string `json:"message" validate:"required,max=2000"`
}
