package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillingStatus enumerates payment states of a billing period.
type BillingStatus string

const (
	BillingStatusPending   BillingStatus = "pending"
	BillingStatusPaid      BillingStatus = "paid"
	BillingStatusOverdue   BillingStatus = "overdue"
	BillingStatusCancelled BillingStatus = "cancelled"
)

// BillingRecord is a recurring-period billing obligation for a user,
// distinct from an Invoice. PaidAt is non-nil iff Status is paid.
// Version backs optimistic concurrency on status updates.
type BillingRecord struct {
	ID          string
	UserID      string
	Amount      decimal.Decimal
	Currency    string
	Status      BillingStatus
	PeriodStart time.Time
	PeriodEnd   time.Time
	PaidAt      *time.Time
	Version     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

var billingTransitions = map[BillingStatus][]BillingStatus{
	BillingStatusPending:   {BillingStatusPaid, BillingStatusOverdue, BillingStatusCancelled},
	BillingStatusOverdue:   {BillingStatusPaid, BillingStatusPending, BillingStatusCancelled},
	BillingStatusPaid:      {BillingStatusPending, BillingStatusCancelled},
	BillingStatusCancelled: {BillingStatusPending},
}

// CanTransitionTo reports whether the edge s -> next is meaningful.
// The identity edge is allowed so repeated admin saves stay idempotent.
func (s BillingStatus) CanTransitionTo(next BillingStatus) bool {
	if s == next {
		return true
	}
	for _, candidate := range billingTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// ContainsDate reports whether the billing period covers the given
// instant, inclusive on both ends.
func (b *BillingRecord) ContainsDate(t time.Time) bool {
	return !t.Before(b.PeriodStart) && !t.After(b.PeriodEnd)
}
