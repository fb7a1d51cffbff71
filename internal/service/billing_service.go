package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/spec-kit/client-portal/internal/domain"
	"github.com/spec-kit/client-portal/internal/events"
	"github.com/spec-kit/client-portal/internal/repository"
	apperrors "github.com/spec-kit/client-portal/pkg/util"
)

// BillingService coordinates billing record workflows.
type BillingService struct {
	billing    repository.BillingRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// BillingDependencies bundles requirements for the billing service.
type BillingDependencies struct {
	BillingRepo repository.BillingRepository
	UserRepo    repository.UserRepository
	Dispatcher  events.Dispatcher
}

// NewBillingService constructs the service.
func NewBillingService(deps BillingDependencies) *BillingService {
	return &BillingService{
		billing:    deps.BillingRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
	}
}

// BillingCreateInput describes a new billing period.
type BillingCreateInput struct {
	UserID      string
	Amount      decimal.Decimal
	Currency    string
	PeriodStart time.Time
	PeriodEnd   time.Time
}

// BillingUpdateInput describes an admin status edit. Version carries
// the value the admin last read; a mismatch at write time is a lost
// update and surfaces as CONFLICT.
type BillingUpdateInput struct {
	Status      domain.BillingStatus
	Amount      decimal.Decimal
	PeriodStart time.Time
	PeriodEnd   time.Time
	Version     int64
}

// CreateBillingRecord opens a billing period for a user.
func (s *BillingService) CreateBillingRecord(ctx context.Context, input BillingCreateInput) (*domain.BillingRecord, error) {
	if input.Amount.IsNegative() || input.Amount.IsZero() {
		return nil, apperrors.NewValidationError("amount must be positive", nil)
	}
	if input.PeriodEnd.Before(input.PeriodStart) {
		return nil, apperrors.NewValidationError("billing period end precedes start", nil)
	}
	if _, err := s.users.GetByID(ctx, input.UserID); err != nil {
		return nil, apperrors.MapError(err)
	}

	record := &domain.BillingRecord{
		UserID:      input.UserID,
		Amount:      input.Amount,
		Currency:    input.Currency,
		Status:      domain.BillingStatusPending,
		PeriodStart: input.PeriodStart,
		PeriodEnd:   input.PeriodEnd,
	}
	if record.Currency == "" {
		record.Currency = "GBP"
	}
	if err := s.billing.Create(ctx, record); err != nil {
		return nil, apperrors.MapError(err)
	}
	return record, nil
}

// UpdateStatus applies a status transition to a billing record. PaidAt
// is set iff the target status is paid and cleared otherwise. A genuine
// not-paid -> paid edge emits exactly one payment-receipt event;
// re-marking an already-paid record emits nothing.
func (s *BillingService) UpdateStatus(ctx context.Context, billingID string, input BillingUpdateInput) (*domain.BillingRecord, error) {
	if input.Amount.IsNegative() {
		return nil, apperrors.NewValidationError("amount must be positive", nil)
	}

	record, err := s.billing.GetByID(ctx, billingID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !record.Status.CanTransitionTo(input.Status) {
		return nil, apperrors.NewValidationError("invalid status transition", map[string]any{
			"from": record.Status,
			"to":   input.Status,
		})
	}

	// Zero-valued amount and period fields mean "leave as is".
	previous := record.Status
	record.Status = input.Status
	if !input.Amount.IsZero() {
		record.Amount = input.Amount
	}
	if !input.PeriodStart.IsZero() {
		record.PeriodStart = input.PeriodStart
	}
	if !input.PeriodEnd.IsZero() {
		record.PeriodEnd = input.PeriodEnd
	}
	if record.PeriodEnd.Before(record.PeriodStart) {
		return nil, apperrors.NewValidationError("billing period end precedes start", nil)
	}
	if input.Version > 0 {
		record.Version = input.Version
	}

	paidEdge := previous != domain.BillingStatusPaid && input.Status == domain.BillingStatusPaid
	if input.Status == domain.BillingStatusPaid {
		if paidEdge {
			now := time.Now()
			record.PaidAt = &now
		}
	} else {
		record.PaidAt = nil
	}

	if err := s.billing.UpdateVersioned(ctx, record); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil, apperrors.NewConflict("billing record was modified concurrently", nil)
		}
		return nil, apperrors.MapError(err)
	}

	if paidEdge {
		s.publishEvent(ctx, events.Event{
			Type:   events.EventBillingPaid,
			UserID: record.UserID,
			Payload: events.BillingPaidPayload{
				BillingID: record.ID,
				Amount:    record.Amount,
				Currency:  record.Currency,
				PaidAt:    *record.PaidAt,
			},
		})
	}
	return record, nil
}

// ListForUser returns billing records owned by the user.
func (s *BillingService) ListForUser(ctx context.Context, userID string, limit, offset int) ([]domain.BillingRecord, error) {
	records, err := s.billing.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return records, nil
}

// ListAll returns billing records across users for the back office.
func (s *BillingService) ListAll(ctx context.Context, limit, offset int) ([]domain.BillingRecord, error) {
	records, err := s.billing.ListAll(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return records, nil
}

// SummaryForUser derives the billing read model for one user.
func (s *BillingService) SummaryForUser(ctx context.Context, userID string, now time.Time) (*BillingSummary, error) {
	records, err := s.billing.ListByUser(ctx, userID, 1000, 0)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	summary := SummarizeBilling(records, now)
	return &summary, nil
}

func (s *BillingService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
