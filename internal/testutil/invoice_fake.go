package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/client-portal/internal/domain"
	"github.com/spec-kit/client-portal/internal/repository"
)

// FakeInvoiceRepository mirrors the versioned-write semantics of the
// pgx invoice repository.
type FakeInvoiceRepository struct {
	mu       sync.Mutex
	invoices map[string]domain.Invoice
}

// NewFakeInvoiceRepository builds an empty store.
func NewFakeInvoiceRepository() *FakeInvoiceRepository {
	return &FakeInvoiceRepository{invoices: make(map[string]domain.Invoice)}
}

func (f *FakeInvoiceRepository) Create(_ context.Context, invoice *domain.Invoice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if invoice.ID == "" {
		invoice.ID = uuid.NewString()
	}
	if invoice.Version == 0 {
		invoice.Version = 1
	}
	now := time.Now()
	invoice.CreatedAt = now
	invoice.UpdatedAt = now
	f.invoices[invoice.ID] = *invoice
	return nil
}

func (f *FakeInvoiceRepository) GetByID(_ context.Context, id string) (*domain.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	invoice, ok := f.invoices[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := invoice
	return &copied, nil
}

func (f *FakeInvoiceRepository) GetByNumber(_ context.Context, number string) (*domain.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, invoice := range f.invoices {
		if invoice.InvoiceNumber == number {
			copied := invoice
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *FakeInvoiceRepository) ListByUser(_ context.Context, userID string, _, _ int) ([]domain.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.Invoice
	for _, invoice := range f.invoices {
		if invoice.UserID == userID {
			result = append(result, invoice)
		}
	}
	return result, nil
}

func (f *FakeInvoiceRepository) ListAll(_ context.Context, _, _ int) ([]domain.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]domain.Invoice, 0, len(f.invoices))
	for _, invoice := range f.invoices {
		result = append(result, invoice)
	}
	return result, nil
}

func (f *FakeInvoiceRepository) UpdateVersioned(_ context.Context, invoice *domain.Invoice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.invoices[invoice.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	if stored.Version != invoice.Version {
		return repository.ErrVersionConflict
	}
	invoice.Version++
	invoice.UpdatedAt = time.Now()
	f.invoices[invoice.ID] = *invoice
	return nil
}

func (f *FakeInvoiceRepository) MarkOverdue(_ context.Context, asOf time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var swept int64
	for id, invoice := range f.invoices {
		if invoice.Status == domain.InvoiceStatusSent && invoice.DueDate.Before(asOf) {
			invoice.Status = domain.InvoiceStatusOverdue
			invoice.Version++
			f.invoices[id] = invoice
			swept++
		}
	}
	return swept, nil
}

// Seed inserts an invoice directly.
func (f *FakeInvoiceRepository) Seed(invoice domain.Invoice) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if invoice.ID == "" {
		invoice.ID = uuid.NewString()
	}
	if invoice.Version == 0 {
		invoice.Version = 1
	}
	f.invoices[invoice.ID] = invoice
}

// Get returns the stored copy for assertions.
func (f *FakeInvoiceRepository) Get(id string) (domain.Invoice, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	invoice, ok := f.invoices[id]
	return invoice, ok
}
