package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/client-portal/internal/domain"
	"github.com/spec-kit/client-portal/internal/repository"
	apperrors "github.com/spec-kit/client-portal/pkg/util"
)

// ReferralService tracks client referrals and their rewards.
type ReferralService struct {
	referrals repository.ReferralRepository
	users     repository.UserRepository
}

// NewReferralService constructs the service.
func NewReferralService(referrals repository.ReferralRepository, users repository.UserRepository) *ReferralService {
	return &ReferralService{referrals: referrals, users: users}
}

// ReferralCreateInput describes a prospect introduced by a client.
type ReferralCreateInput struct {
	ReferrerID    string
	ReferredName  string
	ReferredEmail string
}

// ReferralStatusInput describes an admin status move. RewardAmount is
// honored only when the referral converts.
type ReferralStatusInput struct {
	Status       domain.ReferralStatus
	RewardAmount *decimal.Decimal
}

// CreateReferral registers a prospect on behalf of a client.
func (s *ReferralService) CreateReferral(ctx context.Context, input ReferralCreateInput) (*domain.Referral, error) {
	if strings.TrimSpace(input.ReferredName) == "" {
		return nil, apperrors.NewValidationError("referred name required", nil)
	}
	if strings.TrimSpace(input.ReferredEmail) == "" {
		return nil, apperrors.NewValidationError("referred email required", nil)
	}
	if _, err := s.users.GetByID(ctx, input.ReferrerID); err != nil {
		return nil, apperrors.MapError(err)
	}

	referral := &domain.Referral{
		ReferrerID:    input.ReferrerID,
		ReferredName:  strings.TrimSpace(input.ReferredName),
		ReferredEmail: strings.ToLower(strings.TrimSpace(input.ReferredEmail)),
		Status:        domain.ReferralStatusPending,
		RewardAmount:  decimal.Zero,
	}
	if err := s.referrals.Create(ctx, referral); err != nil {
		return nil, apperrors.MapError(err)
	}
	return referral, nil
}

// UpdateStatus moves a referral along its lifecycle. Converted and
// expired are terminal. A conversion records the reward amount.
func (s *ReferralService) UpdateStatus(ctx context.Context, referralID string, input ReferralStatusInput) (*domain.Referral, error) {
	referral, err := s.referrals.GetByID(ctx, referralID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !referral.Status.CanTransitionTo(input.Status) {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("cannot transition referral from %s to %s", referral.Status, input.Status), nil)
	}
	if referral.Status == input.Status {
		return referral, nil
	}

	referral.Status = input.Status
	if input.Status == domain.ReferralStatusConverted && input.RewardAmount != nil {
		if input.RewardAmount.IsNegative() {
			return nil, apperrors.NewValidationError("reward amount must not be negative", nil)
		}
		referral.RewardAmount = *input.RewardAmount
	}
	if err := s.referrals.Update(ctx, referral); err != nil {
		return nil, apperrors.MapError(err)
	}
	return referral, nil
}

// ListForReferrer returns referrals submitted by the user.
func (s *ReferralService) ListForReferrer(ctx context.Context, referrerID string, limit, offset int) ([]domain.Referral, error) {
	referrals, err := s.referrals.ListByReferrer(ctx, referrerID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return referrals, nil
}

// ListAll returns referrals across users for the back office.
func (s *ReferralService) ListAll(ctx context.Context, limit, offset int) ([]domain.Referral, error) {
	referrals, err := s.referrals.ListAll(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return referrals, nil
}
