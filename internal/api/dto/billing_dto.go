package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/client-portal/internal/domain"
)

// CreateBillingRequest payload. Amount travels as a decimal string.
type CreateBillingRequest struct {
	UserID      string    `json:"user_id" validate:"required,uuid4"`
	Amount      string    `json:"amount" validate:"required"`
	Currency    string    `json:"currency" validate:"omitempty,len=3"`
	PeriodStart time.Time `json:"period_start" validate:"required"`
	PeriodEnd   time.Time `json:"period_end" validate:"required"`
}

// UpdateBillingStatusRequest payload. Version is the value the caller
// last read; zero means no concurrency check. Omitted amount and
// period fields leave the stored values untouched.
type UpdateBillingStatusRequest struct {
	Status      domain.BillingStatus `json:"status" validate:"required,oneof=pending paid overdue cancelled"`
	Amount      string               `json:"amount" validate:"omitempty"`
	PeriodStart *time.Time           `json:"period_start"`
	PeriodEnd   *time.Time           `json:"period_end"`
	Version     int64                `json:"version" validate:"omitempty,min=1"`
}

// BillingResponse is the billing record view.
type BillingResponse struct {
	ID          string               `json:"id"`
	UserID      string               `json:"user_id"`
	Amount      decimal.Decimal      `json:"amount"`
	Currency    string               `json:"currency"`
	Status      domain.BillingStatus `json:"status"`
	PeriodStart time.Time            `json:"period_start"`
	PeriodEnd   time.Time            `json:"period_end"`
	PaidAt      *time.Time           `json:"paid_at,omitempty"`
	Version     int64                `json:"version"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// MonthlyTotalResponse is one rollup bucket.
type MonthlyTotalResponse struct {
	Label string          `json:"label"`
	Total decimal.Decimal `json:"total"`
}

// BillingSummaryResponse is the dashboard aggregate.
type BillingSummaryResponse struct {
	TotalPaid     decimal.Decimal        `json:"total_paid"`
	Outstanding   decimal.Decimal        `json:"outstanding"`
	OverdueCount  int                    `json:"overdue_count"`
	CurrentPeriod *BillingResponse       `json:"current_period,omitempty"`
	MonthlyRollup []MonthlyTotalResponse `json:"monthly_rollup"`
}

// NewBillingResponse maps a domain billing record.
func NewBillingResponse(record *domain.BillingRecord) BillingResponse {
	return BillingResponse{
		ID:          record.ID,
		UserID:      record.UserID,
		Amount:      record.Amount,
		Currency:    record.Currency,
		Status:      record.Status,
		PeriodStart: record.PeriodStart,
		PeriodEnd:   record.PeriodEnd,
		PaidAt:      record.PaidAt,
		Version:     record.Version,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
}
