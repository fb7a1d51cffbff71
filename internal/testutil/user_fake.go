package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/client-portal/internal/domain"
)

// FakeUserRepository is an in-memory stand-in for the pgx repository.
type FakeUserRepository struct {
	mu    sync.Mutex
	users map[string]domain.User

	// CreateCalls counts writes, letting tests assert validation
	// happened before any store access.
	CreateCalls int
	FailCreate  error
	FailUpdate  error
}

// NewFakeUserRepository builds an empty store.
func NewFakeUserRepository() *FakeUserRepository {
	return &FakeUserRepository{users: make(map[string]domain.User)}
}

func (f *FakeUserRepository) Create(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CreateCalls++
	if f.FailCreate != nil {
		return f.FailCreate
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	f.users[user.ID] = *user
	return nil
}

func (f *FakeUserRepository) Update(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailUpdate != nil {
		return f.FailUpdate
	}
	if _, ok := f.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	user.UpdatedAt = time.Now()
	f.users[user.ID] = *user
	return nil
}

func (f *FakeUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := user
	return &copied, nil
}

func (f *FakeUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			copied := user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *FakeUserRepository) GetByDeletionToken(_ context.Context, token string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.DeletionToken != nil && *user.DeletionToken == token {
			copied := user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *FakeUserRepository) List(_ context.Context, _, _ int) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]domain.User, 0, len(f.users))
	for _, user := range f.users {
		result = append(result, user)
	}
	return result, nil
}

func (f *FakeUserRepository) RecordLogin(_ context.Context, id string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.LastLogin = &at
	f.users[id] = user
	return nil
}

func (f *FakeUserRepository) DeleteExpired(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var deleted int64
	for id, user := range f.users {
		if user.Status == domain.UserStatusPendingDeletion &&
			user.DeletionDate != nil && !user.DeletionDate.After(cutoff) {
			delete(f.users, id)
			deleted++
		}
	}
	return deleted, nil
}

// Seed inserts a user directly, bypassing Create bookkeeping.
func (f *FakeUserRepository) Seed(user domain.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	f.users[user.ID] = user
}

// Get returns the stored copy for assertions.
func (f *FakeUserRepository) Get(id string) (domain.User, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	return user, ok
}
