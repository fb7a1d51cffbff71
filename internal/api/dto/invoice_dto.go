package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/client-portal/internal/domain"
)

// CreateInvoiceRequest payload. BillingID links the invoice to a
// billing record and inherits its user, amount and currency; Issue
// sends the invoice immediately instead of leaving it in draft.
type CreateInvoiceRequest struct {
	UserID    string    `json:"user_id" validate:"omitempty,uuid4"`
	Amount    string    `json:"amount" validate:"omitempty"`
	Currency  string    `json:"currency" validate:"omitempty,len=3"`
	IssueDate time.Time `json:"issue_date"`
	DueDate   time.Time `json:"due_date" validate:"required"`
	BillingID *string   `json:"billing_id" validate:"omitempty,uuid4"`
	Issue     bool      `json:"issue"`
}

// UpdateInvoiceStatusRequest payload. Omitted amount and due date
// leave the stored values untouched.
type UpdateInvoiceStatusRequest struct {
	Status  domain.InvoiceStatus `json:"status" validate:"required,oneof=draft sent paid overdue cancelled"`
	Amount  string               `json:"amount" validate:"omitempty"`
	DueDate *time.Time           `json:"due_date"`
	Version int64                `json:"version" validate:"omitempty,min=1"`
}

// InvoiceResponse is the invoice view.
type InvoiceResponse struct {
	ID            string               `json:"id"`
	UserID        string               `json:"user_id"`
	InvoiceNumber string               `json:"invoice_number"`
	Amount        decimal.Decimal      `json:"amount"`
	Currency      string               `json:"currency"`
	Status        domain.InvoiceStatus `json:"status"`
	IssueDate     time.Time            `json:"issue_date"`
	DueDate       time.Time            `json:"due_date"`
	PaidDate      *time.Time           `json:"paid_date,omitempty"`
	BillingID     *string              `json:"billing_id,omitempty"`
	PDFURL        *string              `json:"pdf_url,omitempty"`
	Version       int64                `json:"version"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// InvoiceSummaryResponse is the invoice-side aggregate.
type InvoiceSummaryResponse struct {
	TotalPaid    decimal.Decimal `json:"total_paid"`
	Outstanding  decimal.Decimal `json:"outstanding"`
	OverdueCount int             `json:"overdue_count"`
}

// NewInvoiceResponse maps a domain invoice.
func NewInvoiceResponse(invoice *domain.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:            invoice.ID,
		UserID:        invoice.UserID,
		InvoiceNumber: invoice.InvoiceNumber,
		Amount:        invoice.Amount,
		Currency:      invoice.Currency,
		Status:        invoice.Status,
		IssueDate:     invoice.IssueDate,
		DueDate:       invoice.DueDate,
		PaidDate:      invoice.PaidDate,
		BillingID:     invoice.BillingID,
		PDFURL:        invoice.PDFURL,
		Version:       invoice.Version,
		CreatedAt:     invoice.CreatedAt,
		UpdatedAt:     invoice.UpdatedAt,
	}
}
