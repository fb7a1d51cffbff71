package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/client-portal/internal/domain"
	"github.com/spec-kit/client-portal/internal/events"
	"github.com/spec-kit/client-portal/internal/testutil"
	apperrors "github.com/spec-kit/client-portal/pkg/util"
)

func newBillingFixture(t *testing.T) (*BillingService, *testutil.FakeBillingRepository, *testutil.FakeUserRepository, *eventRecorder) {
	t.Helper()
	billingRepo := testutil.NewFakeBillingRepository()
	userRepo := testutil.NewFakeUserRepository()
	dispatcher := events.NewInMemoryDispatcher()
	recorder := recordEvents(dispatcher,
		events.EventBillingPaid, events.EventInvoiceIssued, events.EventInvoicePaid)

	svc := NewBillingService(BillingDependencies{
		BillingRepo: billingRepo,
		UserRepo:    userRepo,
		Dispatcher:  dispatcher,
	})
	return svc, billingRepo, userRepo, recorder
}

// eventRecorder captures published events for assertions.
type eventRecorder struct {
	Events []events.Event
}

func recordEvents(dispatcher events.Dispatcher, types ...events.EventType) *eventRecorder {
	recorder := &eventRecorder{}
	for _, eventType := range types {
		dispatcher.Subscribe(eventType, func(_ context.Context, event events.Event) error {
			recorder.Events = append(recorder.Events, event)
			return nil
		})
	}
	return recorder
}

func seedClient(repo *testutil.FakeUserRepository) domain.User {
	user := domain.User{
		ID:     "11111111-1111-4111-8111-111111111111",
		Email:  "client@example.com",
		Role:   domain.RoleUser,
		Status: domain.UserStatusActive,
	}
	repo.Seed(user)
	return user
}

func TestCreateBillingRecord(t *testing.T) {
	svc, _, userRepo, _ := newBillingFixture(t)
	user := seedClient(userRepo)
	ctx := context.Background()

	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)

	t.Run("defaults currency and status", func(t *testing.T) {
		record, err := svc.CreateBillingRecord(ctx, BillingCreateInput{
			UserID:      user.ID,
			Amount:      decimal.NewFromInt(250),
			PeriodStart: start,
			PeriodEnd:   end,
		})
		require.NoError(t, err)
		assert.Equal(t, "GBP", record.Currency)
		assert.Equal(t, domain.BillingStatusPending, record.Status)
		assert.Nil(t, record.PaidAt)
		assert.NotEmpty(t, record.ID)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := svc.CreateBillingRecord(ctx, BillingCreateInput{
			UserID:      user.ID,
			Amount:      decimal.Zero,
			PeriodStart: start,
			PeriodEnd:   end,
		})
		assertErrorCode(t, err, "VALIDATION_FAILED")
	})

	t.Run("rejects inverted period", func(t *testing.T) {
		_, err := svc.CreateBillingRecord(ctx, BillingCreateInput{
			UserID:      user.ID,
			Amount:      decimal.NewFromInt(100),
			PeriodStart: end,
			PeriodEnd:   start,
		})
		assertErrorCode(t, err, "VALIDATION_FAILED")
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.CreateBillingRecord(ctx, BillingCreateInput{
			UserID:      "22222222-2222-4222-8222-222222222222",
			Amount:      decimal.NewFromInt(100),
			PeriodStart: start,
			PeriodEnd:   end,
		})
		assertErrorCode(t, err, "NOT_FOUND")
	})
}

func TestBillingPaidEdge(t *testing.T) {
	svc, billingRepo, userRepo, recorder := newBillingFixture(t)
	user := seedClient(userRepo)
	ctx := context.Background()

	record := domain.BillingRecord{
		ID:          "33333333-3333-4333-8333-333333333333",
		UserID:      user.ID,
		Amount:      decimal.NewFromInt(100),
		Currency:    "GBP",
		Status:      domain.BillingStatusPending,
		PeriodStart: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
	}
	billingRepo.Seed(record)

	updated, err := svc.UpdateStatus(ctx, record.ID, BillingUpdateInput{Status: domain.BillingStatusPaid})
	require.NoError(t, err)
	require.NotNil(t, updated.PaidAt)
	assert.WithinDuration(t, time.Now(), *updated.PaidAt, time.Second)
	require.Len(t, recorder.Events, 1, "exactly one paid event on the edge")
	assert.Equal(t, events.EventBillingPaid, recorder.Events[0].Type)

	firstPaidAt := *updated.PaidAt

	// Re-marking an already-paid record is a no-op edge: paid_at is
	// preserved and no second notification fires.
	again, err := svc.UpdateStatus(ctx, record.ID, BillingUpdateInput{Status: domain.BillingStatusPaid})
	require.NoError(t, err)
	require.NotNil(t, again.PaidAt)
	assert.True(t, again.PaidAt.Equal(firstPaidAt), "paid_at preserved on paid -> paid")
	assert.Len(t, recorder.Events, 1, "no event on paid -> paid")

	// Leaving paid clears paid_at; returning sets a fresh one and a
	// fresh event.
	reverted, err := svc.UpdateStatus(ctx, record.ID, BillingUpdateInput{Status: domain.BillingStatusPending})
	require.NoError(t, err)
	assert.Nil(t, reverted.PaidAt)

	repaid, err := svc.UpdateStatus(ctx, record.ID, BillingUpdateInput{Status: domain.BillingStatusPaid})
	require.NoError(t, err)
	require.NotNil(t, repaid.PaidAt)
	assert.Len(t, recorder.Events, 2, "second genuine edge emits again")
}

func TestBillingInvalidTransition(t *testing.T) {
	svc, billingRepo, userRepo, _ := newBillingFixture(t)
	user := seedClient(userRepo)

	record := domain.BillingRecord{
		ID:        "44444444-4444-4444-8444-444444444444",
		UserID:    user.ID,
		Amount:    decimal.NewFromInt(100),
		Currency:  "GBP",
		Status:    domain.BillingStatusCancelled,
		PeriodEnd: time.Now(),
	}
	billingRepo.Seed(record)

	_, err := svc.UpdateStatus(context.Background(), record.ID, BillingUpdateInput{Status: domain.BillingStatusPaid})
	assertErrorCode(t, err, "VALIDATION_FAILED")
}

func TestBillingVersionConflict(t *testing.T) {
	svc, billingRepo, userRepo, recorder := newBillingFixture(t)
	user := seedClient(userRepo)

	record := domain.BillingRecord{
		ID:       "55555555-5555-4555-8555-555555555555",
		UserID:   user.ID,
		Amount:   decimal.NewFromInt(100),
		Currency: "GBP",
		Status:   domain.BillingStatusPending,
		Version:  3,
	}
	billingRepo.Seed(record)

	_, err := svc.UpdateStatus(context.Background(), record.ID, BillingUpdateInput{
		Status:  domain.BillingStatusPaid,
		Version: 1,
	})
	assertErrorCode(t, err, "CONFLICT")
	assert.Empty(t, recorder.Events, "a conflicting write must not notify")

	stored, ok := billingRepo.Get(record.ID)
	require.True(t, ok)
	assert.Equal(t, domain.BillingStatusPending, stored.Status, "stale write rejected")
}

func assertErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr), "expected DomainError, got %v", err)
	assert.Equal(t, code, domainErr.Code)
}
