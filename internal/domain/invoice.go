package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus enumerates invoice lifecycle states.
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// Invoice is a discrete billable document, optionally derived from a
// BillingRecord. InvoiceNumber is assigned at creation and immutable.
// PaidDate is a calendar date, non-nil iff Status is paid.
type Invoice struct {
	ID            string
	UserID        string
	InvoiceNumber string
	Amount        decimal.Decimal
	Currency      string
	Status        InvoiceStatus
	IssueDate     time.Time
	DueDate       time.Time
	PaidDate      *time.Time
	BillingID     *string
	PDFURL        *string
	Version       int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

var invoiceTransitions = map[InvoiceStatus][]InvoiceStatus{
	InvoiceStatusDraft:     {InvoiceStatusSent, InvoiceStatusCancelled},
	InvoiceStatusSent:      {InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled},
	InvoiceStatusOverdue:   {InvoiceStatusPaid, InvoiceStatusCancelled},
	InvoiceStatusPaid:      {InvoiceStatusSent},
	InvoiceStatusCancelled: {},
}

// CanTransitionTo reports whether the edge s -> next is meaningful.
// The identity edge is allowed so repeated admin saves stay idempotent.
func (s InvoiceStatus) CanTransitionTo(next InvoiceStatus) bool {
	if s == next {
		return true
	}
	for _, candidate := range invoiceTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}
