package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/client-portal/internal/domain"
)

// FakeWebsiteRepository is an in-memory website store.
type FakeWebsiteRepository struct {
	mu    sync.Mutex
	sites map[string]domain.Website
}

// NewFakeWebsiteRepository builds an empty store.
func NewFakeWebsiteRepository() *FakeWebsiteRepository {
	return &FakeWebsiteRepository{sites: make(map[string]domain.Website)}
}

func (f *FakeWebsiteRepository) Create(_ context.Context, site *domain.Website) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if site.ID == "" {
		site.ID = uuid.NewString()
	}
	now := time.Now()
	site.CreatedAt = now
	site.UpdatedAt = now
	f.sites[site.ID] = *site
	return nil
}

func (f *FakeWebsiteRepository) Update(_ context.Context, site *domain.Website) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.sites[site.ID]; !ok {
		return pgx.ErrNoRows
	}
	site.UpdatedAt = time.Now()
	f.sites[site.ID] = *site
	return nil
}

func (f *FakeWebsiteRepository) GetByID(_ context.Context, id string) (*domain.Website, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	site, ok := f.sites[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := site
	return &copied, nil
}

func (f *FakeWebsiteRepository) ListByUser(_ context.Context, userID string) ([]domain.Website, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.Website
	for _, site := range f.sites {
		if site.UserID == userID {
			result = append(result, site)
		}
	}
	return result, nil
}

func (f *FakeWebsiteRepository) ListAll(_ context.Context, _, _ int) ([]domain.Website, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]domain.Website, 0, len(f.sites))
	for _, site := range f.sites {
		result = append(result, site)
	}
	return result, nil
}

// Get returns the stored copy for assertions.
func (f *FakeWebsiteRepository) Get(id string) (domain.Website, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	site, ok := f.sites[id]
	return site, ok
}

// FakeProjectUpdateRepository is an append-only in-memory feed.
type FakeProjectUpdateRepository struct {
	mu      sync.Mutex
	Updates []domain.ProjectUpdate
}

// NewFakeProjectUpdateRepository builds an empty feed.
func NewFakeProjectUpdateRepository() *FakeProjectUpdateRepository {
	return &FakeProjectUpdateRepository{}
}

func (f *FakeProjectUpdateRepository) Create(_ context.Context, update *domain.ProjectUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if update.ID == "" {
		update.ID = uuid.NewString()
	}
	update.CreatedAt = time.Now()
	f.Updates = append(f.Updates, *update)
	return nil
}

func (f *FakeProjectUpdateRepository) ListByWebsite(_ context.Context, websiteID string, _, _ int) ([]domain.ProjectUpdate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.ProjectUpdate
	for _, update := range f.Updates {
		if update.WebsiteID == websiteID {
			result = append(result, update)
		}
	}
	return result, nil
}

func (f *FakeProjectUpdateRepository) ListByUser(_ context.Context, userID string, _, _ int) ([]domain.ProjectUpdate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.ProjectUpdate
	for _, update := range f.Updates {
		if update.UserID == userID {
			result = append(result, update)
		}
	}
	return result, nil
}

// FakeSupportTicketRepository is an in-memory ticket store.
type FakeSupportTicketRepository struct {
	mu      sync.Mutex
	tickets map[string]domain.SupportTicket
}

// NewFakeSupportTicketRepository builds an empty store.
func NewFakeSupportTicketRepository() *FakeSupportTicketRepository {
	return &FakeSupportTicketRepository{tickets: make(map[string]domain.SupportTicket)}
}

func (f *FakeSupportTicketRepository) Create(_ context.Context, ticket *domain.SupportTicket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ticket.ID == "" {
		ticket.ID = uuid.NewString()
	}
	now := time.Now()
	ticket.CreatedAt = now
	ticket.UpdatedAt = now
	f.tickets[ticket.ID] = *ticket
	return nil
}

func (f *FakeSupportTicketRepository) Update(_ context.Context, ticket *domain.SupportTicket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	ticket.UpdatedAt = time.Now()
	f.tickets[ticket.ID] = *ticket
	return nil
}

func (f *FakeSupportTicketRepository) GetByID(_ context.Context, id string) (*domain.SupportTicket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ticket, ok := f.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := ticket
	return &copied, nil
}

func (f *FakeSupportTicketRepository) ListByUser(_ context.Context, userID string, _, _ int) ([]domain.SupportTicket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.SupportTicket
	for _, ticket := range f.tickets {
		if ticket.UserID == userID {
			result = append(result, ticket)
		}
	}
	return result, nil
}

func (f *FakeSupportTicketRepository) ListAll(_ context.Context, statuses []domain.TicketStatus, _, _ int) ([]domain.SupportTicket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.SupportTicket
	for _, ticket := range f.tickets {
		if len(statuses) == 0 {
			result = append(result, ticket)
			continue
		}
		for _, status := range statuses {
			if ticket.Status == status {
				result = append(result, ticket)
				break
			}
		}
	}
	return result, nil
}

// FakeReferralRepository is an in-memory referral store.
type FakeReferralRepository struct {
	mu        sync.Mutex
	referrals map[string]domain.Referral
}

// NewFakeReferralRepository builds an empty store.
func NewFakeReferralRepository() *FakeReferralRepository {
	return &FakeReferralRepository{referrals: make(map[string]domain.Referral)}
}

func (f *FakeReferralRepository) Create(_ context.Context, referral *domain.Referral) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if referral.ID == "" {
		referral.ID = uuid.NewString()
	}
	now := time.Now()
	referral.CreatedAt = now
	referral.UpdatedAt = now
	f.referrals[referral.ID] = *referral
	return nil
}

func (f *FakeReferralRepository) Update(_ context.Context, referral *domain.Referral) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.referrals[referral.ID]; !ok {
		return pgx.ErrNoRows
	}
	referral.UpdatedAt = time.Now()
	f.referrals[referral.ID] = *referral
	return nil
}

func (f *FakeReferralRepository) GetByID(_ context.Context, id string) (*domain.Referral, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	referral, ok := f.referrals[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := referral
	return &copied, nil
}

func (f *FakeReferralRepository) ListByReferrer(_ context.Context, referrerID string, _, _ int) ([]domain.Referral, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.Referral
	for _, referral := range f.referrals {
		if referral.ReferrerID == referrerID {
			result = append(result, referral)
		}
	}
	return result, nil
}

func (f *FakeReferralRepository) ListAll(_ context.Context, _, _ int) ([]domain.Referral, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]domain.Referral, 0, len(f.referrals))
	for _, referral := range f.referrals {
		result = append(result, referral)
	}
	return result, nil
}
