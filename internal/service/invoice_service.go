package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/spec-kit/client-portal/internal/domain"
	"github.com/spec-kit/client-portal/internal/events"
	"github.com/spec-kit/client-portal/internal/repository"
	apperrors "github.com/spec-kit/client-portal/pkg/util"
)

// NumberGenerator mints globally unique invoice numbers. Admins never
// control the scheme directly.
type NumberGenerator interface {
	NextInvoiceNumber(issueDate time.Time) string
}

type invoiceNumberGenerator struct{}

// NewInvoiceNumberGenerator returns the default generator.
func NewInvoiceNumberGenerator() NumberGenerator {
	return invoiceNumberGenerator{}
}

func (invoiceNumberGenerator) NextInvoiceNumber(issueDate time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return "INV-" + issueDate.Format("200601") + "-" + suffix
}

// InvoiceService coordinates invoice workflows.
type InvoiceService struct {
	invoices   repository.InvoiceRepository
	billing    repository.BillingRepository
	users      repository.UserRepository
	numbers    NumberGenerator
	dispatcher events.Dispatcher
}

// InvoiceDependencies bundles requirements for the invoice service.
type InvoiceDependencies struct {
	InvoiceRepo repository.InvoiceRepository
	BillingRepo repository.BillingRepository
	UserRepo    repository.UserRepository
	Numbers     NumberGenerator
	Dispatcher  events.Dispatcher
}

// NewInvoiceService constructs the service.
func NewInvoiceService(deps InvoiceDependencies) *InvoiceService {
	numbers := deps.Numbers
	if numbers == nil {
		numbers = NewInvoiceNumberGenerator()
	}
	return &InvoiceService{
		invoices:   deps.InvoiceRepo,
		billing:    deps.BillingRepo,
		users:      deps.UserRepo,
		numbers:    numbers,
		dispatcher: deps.Dispatcher,
	}
}

// InvoiceCreateInput describes a new invoice. BillingID, when set,
// links the invoice to an existing billing record and inherits user,
// amount and currency from it.
type InvoiceCreateInput struct {
	UserID    string
	Amount    decimal.Decimal
	Currency  string
	IssueDate time.Time
	DueDate   time.Time
	BillingID *string
	Issue     bool
}

// InvoiceUpdateInput describes an admin status edit.
type InvoiceUpdateInput struct {
	Status  domain.InvoiceStatus
	Amount  decimal.Decimal
	DueDate time.Time
	Version int64
}

// CreateInvoice mints an invoice, standalone or from a billing record.
func (s *InvoiceService) CreateInvoice(ctx context.Context, input InvoiceCreateInput) (*domain.Invoice, error) {
	if input.BillingID != nil {
		record, err := s.billing.GetByID(ctx, *input.BillingID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		input.UserID = record.UserID
		input.Amount = record.Amount
		input.Currency = record.Currency
	}
	if input.Amount.IsNegative() || input.Amount.IsZero() {
		return nil, apperrors.NewValidationError("amount must be positive", nil)
	}
	if input.IssueDate.IsZero() {
		input.IssueDate = time.Now()
	}
	if input.DueDate.Before(input.IssueDate) {
		return nil, apperrors.NewValidationError("due date precedes issue date", nil)
	}
	if _, err := s.users.GetByID(ctx, input.UserID); err != nil {
		return nil, apperrors.MapError(err)
	}

	invoice := &domain.Invoice{
		UserID:        input.UserID,
		InvoiceNumber: s.numbers.NextInvoiceNumber(input.IssueDate),
		Amount:        input.Amount,
		Currency:      input.Currency,
		Status:        domain.InvoiceStatusDraft,
		IssueDate:     input.IssueDate,
		DueDate:       input.DueDate,
		BillingID:     input.BillingID,
	}
	if invoice.Currency == "" {
		invoice.Currency = "GBP"
	}
	if input.Issue {
		invoice.Status = domain.InvoiceStatusSent
	}
	if err := s.invoices.Create(ctx, invoice); err != nil {
		return nil, apperrors.MapError(err)
	}

	if invoice.Status == domain.InvoiceStatusSent {
		s.publishEvent(ctx, events.Event{
			Type:   events.EventInvoiceIssued,
			UserID: invoice.UserID,
			Payload: events.InvoiceIssuedPayload{
				InvoiceID:     invoice.ID,
				InvoiceNumber: invoice.InvoiceNumber,
				Amount:        invoice.Amount,
				Currency:      invoice.Currency,
				DueDate:       invoice.DueDate,
			},
		})
	}
	return invoice, nil
}

// UpdateStatus applies a status transition. PaidDate (a calendar date,
// not a timestamp) is set only on a genuine not-paid -> paid edge and
// cleared when leaving paid; the edge also emits exactly one
// invoice-paid event. Issuing a draft emits an invoice-issued event.
func (s *InvoiceService) UpdateStatus(ctx context.Context, invoiceID string, input InvoiceUpdateInput) (*domain.Invoice, error) {
	if input.Amount.IsNegative() {
		return nil, apperrors.NewValidationError("amount must be positive", nil)
	}

	invoice, err := s.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !invoice.Status.CanTransitionTo(input.Status) {
		return nil, apperrors.NewValidationError("invalid status transition", map[string]any{
			"from": invoice.Status,
			"to":   input.Status,
		})
	}

	// A zero amount or due date means "leave as is".
	previous := invoice.Status
	invoice.Status = input.Status
	if !input.Amount.IsZero() {
		invoice.Amount = input.Amount
	}
	if !input.DueDate.IsZero() {
		if input.DueDate.Before(invoice.IssueDate) {
			return nil, apperrors.NewValidationError("due date precedes issue date", nil)
		}
		invoice.DueDate = input.DueDate
	}
	if input.Version > 0 {
		invoice.Version = input.Version
	}

	paidEdge := previous != domain.InvoiceStatusPaid && input.Status == domain.InvoiceStatusPaid
	if input.Status == domain.InvoiceStatusPaid {
		if paidEdge {
			today := truncateToDate(time.Now())
			invoice.PaidDate = &today
		}
	} else {
		invoice.PaidDate = nil
	}

	if err := s.invoices.UpdateVersioned(ctx, invoice); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil, apperrors.NewConflict("invoice was modified concurrently", nil)
		}
		return nil, apperrors.MapError(err)
	}

	issuedEdge := previous == domain.InvoiceStatusDraft && input.Status == domain.InvoiceStatusSent
	switch {
	case paidEdge:
		s.publishEvent(ctx, events.Event{
			Type:   events.EventInvoicePaid,
			UserID: invoice.UserID,
			Payload: events.InvoicePaidPayload{
				InvoiceID:     invoice.ID,
				InvoiceNumber: invoice.InvoiceNumber,
				Amount:        invoice.Amount,
				Currency:      invoice.Currency,
				PaidDate:      *invoice.PaidDate,
			},
		})
	case issuedEdge:
		s.publishEvent(ctx, events.Event{
			Type:   events.EventInvoiceIssued,
			UserID: invoice.UserID,
			Payload: events.InvoiceIssuedPayload{
				InvoiceID:     invoice.ID,
				InvoiceNumber: invoice.InvoiceNumber,
				Amount:        invoice.Amount,
				Currency:      invoice.Currency,
				DueDate:       invoice.DueDate,
			},
		})
	}
	return invoice, nil
}

// ListForUser returns invoices owned by the user.
func (s *InvoiceService) ListForUser(ctx context.Context, userID string, limit, offset int) ([]domain.Invoice, error) {
	invoices, err := s.invoices.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return invoices, nil
}

// ListAll returns invoices across users for the back office.
func (s *InvoiceService) ListAll(ctx context.Context, limit, offset int) ([]domain.Invoice, error) {
	invoices, err := s.invoices.ListAll(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return invoices, nil
}

// SummaryForUser derives the invoice read model for one user.
func (s *InvoiceService) SummaryForUser(ctx context.Context, userID string) (*InvoiceSummary, error) {
	invoices, err := s.invoices.ListByUser(ctx, userID, 1000, 0)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	summary := SummarizeInvoices(invoices)
	return &summary, nil
}

func (s *InvoiceService) publishEvent(ctx context.Context, event events.Event) {
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

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
