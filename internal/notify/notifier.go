package notify

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus mirrors the states the email functions render.
type PaymentStatus string

const (
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// PaymentDetails is the named payload for payment-receipt emails.
type PaymentDetails struct {
	TransactionID string          `json:"transactionId"`
	InvoiceNumber *string         `json:"invoiceNumber,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	PaymentMethod string          `json:"paymentMethod"`
	PaymentDate   time.Time       `json:"paymentDate"`
	Status        PaymentStatus   `json:"status"`
	ReceiptURL    string          `json:"receiptUrl,omitempty"`
	InvoiceURL    string          `json:"invoiceUrl,omitempty"`
}

// InvoiceDetails is the named payload for invoice-issued emails.
type InvoiceDetails struct {
	InvoiceNumber string          `json:"invoiceNumber"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	DueDate       time.Time       `json:"dueDate"`
	InvoiceURL    string          `json:"invoiceUrl,omitempty"`
}

// DeletionDetails is the named payload for deletion-confirmation emails.
type DeletionDetails struct {
	DeletionDate time.Time `json:"deletionDate"`
	RecoveryURL  string    `json:"recoveryUrl"`
}

// Result reports the outcome of a single send attempt.
type Result struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Notifier abstracts the serverless email functions. Callers treat
// every send as best-effort: a returned error is logged, never
// propagated past the dispatch boundary.
type Notifier interface {
	SendPaymentReceipt(ctx context.Context, recipient string, details PaymentDetails) (Result, error)
	SendInvoiceIssued(ctx context.Context, recipient string, details InvoiceDetails) (Result, error)
	SendDeletionConfirmation(ctx context.Context, recipient string, details DeletionDetails) (Result, error)
}
