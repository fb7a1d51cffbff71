package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/client-portal/internal/domain"
)

// CreateReferralRequest payload.
type CreateReferralRequest struct {
	ReferredName  string `json:"referred_name" validate:"required,max=200"`
	ReferredEmail string `json:"referred_email" validate:"required,email"`
}

// UpdateReferralStatusRequest payload. RewardAmount is a decimal
// string, honored only on conversion.
type UpdateReferralStatusRequest struct {
	Status       domain.ReferralStatus `json:"status" validate:"required,oneof=pending contacted converted expired"`
	RewardAmount *string               `json:"reward_amount" validate:"omitempty"`
}

// ReferralResponse is the referral view.
type ReferralResponse struct {
	ID            string                `json:"id"`
	ReferrerID    string                `json:"referrer_id"`
	ReferredName  string                `json:"referred_name"`
	ReferredEmail string                `json:"referred_email"`
	Status        domain.ReferralStatus `json:"status"`
	RewardAmount  decimal.Decimal       `json:"reward_amount"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// NewReferralResponse maps a domain referral.
func NewReferralResponse(referral *domain.Referral) ReferralResponse {
	return ReferralResponse{
		ID:            referral.ID,
		ReferrerID:    referral.ReferrerID,
		ReferredName:  referral.ReferredName,
		ReferredEmail: referral.ReferredEmail,
		Status:        referral.Status,
		RewardAmount:  referral.RewardAmount,
		CreatedAt:     referral.CreatedAt,
		UpdatedAt:     referral.UpdatedAt,
	}
}
