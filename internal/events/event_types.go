package events

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/client-portal/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventBillingPaid              EventType = "billing_paid"
	EventInvoiceIssued            EventType = "invoice_issued"
	EventInvoicePaid              EventType = "invoice_paid"
	EventUserProvisioned          EventType = "user_provisioned"
	EventAccountDeletionRequested EventType = "account_deletion_requested"
	EventProjectUpdatePosted      EventType = "project_update_posted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// BillingPaidPayload is emitted on a genuine not-paid -> paid edge.
type BillingPaidPayload struct {
	BillingID string          `json:"billing_id"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	PaidAt    time.Time       `json:"paid_at"`
}

// InvoiceIssuedPayload is emitted when an invoice enters sent.
type InvoiceIssuedPayload struct {
	InvoiceID     string          `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	DueDate       time.Time       `json:"due_date"`
}

// InvoicePaidPayload is emitted on a genuine not-paid -> paid edge.
type InvoicePaidPayload struct {
	InvoiceID     string          `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	PaidDate      time.Time       `json:"paid_date"`
}

// UserProvisionedPayload is emitted after admin account creation.
type UserProvisionedPayload struct {
	Email string          `json:"email"`
	Role  domain.UserRole `json:"role"`
}

// AccountDeletionRequestedPayload carries the recovery token so the
// notification observer can build the recovery URL.
type AccountDeletionRequestedPayload struct {
	Email         string    `json:"email"`
	DeletionDate  time.Time `json:"deletion_date"`
	RecoveryToken string    `json:"recovery_token"`
}

// ProjectUpdatePostedPayload is emitted when an update is appended.
type ProjectUpdatePostedPayload struct {
	WebsiteID  string                   `json:"website_id"`
	UpdateType domain.ProjectUpdateType `json:"update_type"`
	Title      string                   `json:"title"`
}
