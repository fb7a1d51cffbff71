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

// FakeBillingRepository mirrors the versioned-write semantics of the
// pgx billing repository.
type FakeBillingRepository struct {
	mu      sync.Mutex
	records map[string]domain.BillingRecord
}

// NewFakeBillingRepository builds an empty store.
func NewFakeBillingRepository() *FakeBillingRepository {
	return &FakeBillingRepository{records: make(map[string]domain.BillingRecord)}
}

func (f *FakeBillingRepository) Create(_ context.Context, record *domain.BillingRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Version == 0 {
		record.Version = 1
	}
	now := time.Now()
	record.CreatedAt = now
	record.UpdatedAt = now
	f.records[record.ID] = *record
	return nil
}

func (f *FakeBillingRepository) GetByID(_ context.Context, id string) (*domain.BillingRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.records[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := record
	return &copied, nil
}

func (f *FakeBillingRepository) ListByUser(_ context.Context, userID string, _, _ int) ([]domain.BillingRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.BillingRecord
	for _, record := range f.records {
		if record.UserID == userID {
			result = append(result, record)
		}
	}
	return result, nil
}

func (f *FakeBillingRepository) ListAll(_ context.Context, _, _ int) ([]domain.BillingRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]domain.BillingRecord, 0, len(f.records))
	for _, record := range f.records {
		result = append(result, record)
	}
	return result, nil
}

func (f *FakeBillingRepository) UpdateVersioned(_ context.Context, record *domain.BillingRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.records[record.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	if stored.Version != record.Version {
		return repository.ErrVersionConflict
	}
	record.Version++
	record.UpdatedAt = time.Now()
	f.records[record.ID] = *record
	return nil
}

func (f *FakeBillingRepository) MarkOverdue(_ context.Context, asOf time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var swept int64
	for id, record := range f.records {
		if record.Status == domain.BillingStatusPending && record.PeriodEnd.Before(asOf) {
			record.Status = domain.BillingStatusOverdue
			record.Version++
			f.records[id] = record
			swept++
		}
	}
	return swept, nil
}

// Seed inserts a record directly.
func (f *FakeBillingRepository) Seed(record domain.BillingRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Version == 0 {
		record.Version = 1
	}
	f.records[record.ID] = record
}

// Get returns the stored copy for assertions.
func (f *FakeBillingRepository) Get(id string) (domain.BillingRecord, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.records[id]
	return record, ok
}
