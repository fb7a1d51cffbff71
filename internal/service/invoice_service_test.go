package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/client-portal/internal/domain"
	"github.com/spec-kit/client-portal/internal/events"
	"github.com/spec-kit/client-portal/internal/testutil"
)

func newInvoiceFixture(t *testing.T) (*InvoiceService, *testutil.FakeInvoiceRepository, *testutil.FakeBillingRepository, *testutil.FakeUserRepository, *eventRecorder) {
	t.Helper()
	invoiceRepo := testutil.NewFakeInvoiceRepository()
	billingRepo := testutil.NewFakeBillingRepository()
	userRepo := testutil.NewFakeUserRepository()
	dispatcher := events.NewInMemoryDispatcher()
	recorder := recordEvents(dispatcher, events.EventInvoiceIssued, events.EventInvoicePaid)

	svc := NewInvoiceService(InvoiceDependencies{
		InvoiceRepo: invoiceRepo,
		BillingRepo: billingRepo,
		UserRepo:    userRepo,
		Dispatcher:  dispatcher,
	})
	return svc, invoiceRepo, billingRepo, userRepo, recorder
}

func TestCreateInvoice(t *testing.T) {
	svc, _, billingRepo, userRepo, recorder := newInvoiceFixture(t)
	user := seedClient(userRepo)
	ctx := context.Background()

	issue := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	due := issue.AddDate(0, 0, 14)

	t.Run("draft by default with generated number", func(t *testing.T) {
		invoice, err := svc.CreateInvoice(ctx, InvoiceCreateInput{
			UserID:    user.ID,
			Amount:    decimal.NewFromInt(500),
			IssueDate: issue,
			DueDate:   due,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.InvoiceStatusDraft, invoice.Status)
		assert.Equal(t, "GBP", invoice.Currency)
		assert.Nil(t, invoice.PaidDate)
		assert.Regexp(t, regexp.MustCompile(`^INV-202609-[0-9A-F]{8}$`), invoice.InvoiceNumber)
		assert.Empty(t, recorder.Events, "drafts are not announced")
	})

	t.Run("issue on create emits invoice issued", func(t *testing.T) {
		invoice, err := svc.CreateInvoice(ctx, InvoiceCreateInput{
			UserID:    user.ID,
			Amount:    decimal.NewFromInt(500),
			IssueDate: issue,
			DueDate:   due,
			Issue:     true,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.InvoiceStatusSent, invoice.Status)
		require.Len(t, recorder.Events, 1)
		assert.Equal(t, events.EventInvoiceIssued, recorder.Events[0].Type)
	})

	t.Run("inherits user, amount and currency from billing record", func(t *testing.T) {
		billing := domain.BillingRecord{
			ID:          "66666666-6666-4666-8666-666666666666",
			UserID:      user.ID,
			Amount:      decimal.NewFromFloat(149.99),
			Currency:    "EUR",
			Status:      domain.BillingStatusPending,
			PeriodStart: issue,
			PeriodEnd:   due,
		}
		billingRepo.Seed(billing)

		invoice, err := svc.CreateInvoice(ctx, InvoiceCreateInput{
			Amount:    decimal.NewFromInt(1), // ignored in favour of the billing record
			IssueDate: issue,
			DueDate:   due,
			BillingID: &billing.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, user.ID, invoice.UserID)
		assert.True(t, invoice.Amount.Equal(billing.Amount))
		assert.Equal(t, "EUR", invoice.Currency)
		require.NotNil(t, invoice.BillingID)
		assert.Equal(t, billing.ID, *invoice.BillingID)
	})

	t.Run("unknown billing record", func(t *testing.T) {
		missing := "77777777-7777-4777-8777-777777777777"
		_, err := svc.CreateInvoice(ctx, InvoiceCreateInput{
			IssueDate: issue,
			DueDate:   due,
			BillingID: &missing,
		})
		assertErrorCode(t, err, "NOT_FOUND")
	})

	t.Run("due before issue", func(t *testing.T) {
		_, err := svc.CreateInvoice(ctx, InvoiceCreateInput{
			UserID:    user.ID,
			Amount:    decimal.NewFromInt(10),
			IssueDate: due,
			DueDate:   issue,
		})
		assertErrorCode(t, err, "VALIDATION_FAILED")
	})
}

func TestInvoicePaidEdge(t *testing.T) {
	svc, invoiceRepo, _, userRepo, recorder := newInvoiceFixture(t)
	user := seedClient(userRepo)
	ctx := context.Background()

	invoice := domain.Invoice{
		ID:            "88888888-8888-4888-8888-888888888888",
		UserID:        user.ID,
		InvoiceNumber: "INV-202608-DEADBEEF",
		Amount:        decimal.NewFromInt(300),
		Currency:      "GBP",
		Status:        domain.InvoiceStatusSent,
		IssueDate:     time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		DueDate:       time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
	}
	invoiceRepo.Seed(invoice)

	updated, err := svc.UpdateStatus(ctx, invoice.ID, InvoiceUpdateInput{Status: domain.InvoiceStatusPaid})
	require.NoError(t, err)
	require.NotNil(t, updated.PaidDate)
	today := time.Now().UTC()
	assert.Equal(t, time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC), *updated.PaidDate,
		"paid_date is a calendar date, not a timestamp")
	require.Len(t, recorder.Events, 1)
	assert.Equal(t, events.EventInvoicePaid, recorder.Events[0].Type)

	// paid -> paid preserves the date and stays quiet.
	again, err := svc.UpdateStatus(ctx, invoice.ID, InvoiceUpdateInput{Status: domain.InvoiceStatusPaid})
	require.NoError(t, err)
	require.NotNil(t, again.PaidDate)
	assert.True(t, again.PaidDate.Equal(*updated.PaidDate))
	assert.Len(t, recorder.Events, 1)

	// Leaving paid clears the date.
	reverted, err := svc.UpdateStatus(ctx, invoice.ID, InvoiceUpdateInput{Status: domain.InvoiceStatusSent})
	require.NoError(t, err)
	assert.Nil(t, reverted.PaidDate)
}

func TestInvoiceIssuedEdge(t *testing.T) {
	svc, invoiceRepo, _, userRepo, recorder := newInvoiceFixture(t)
	user := seedClient(userRepo)
	ctx := context.Background()

	invoice := domain.Invoice{
		ID:            "99999999-9999-4999-8999-999999999999",
		UserID:        user.ID,
		InvoiceNumber: "INV-202609-CAFEF00D",
		Amount:        decimal.NewFromInt(120),
		Currency:      "GBP",
		Status:        domain.InvoiceStatusDraft,
		IssueDate:     time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		DueDate:       time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
	}
	invoiceRepo.Seed(invoice)

	updated, err := svc.UpdateStatus(ctx, invoice.ID, InvoiceUpdateInput{Status: domain.InvoiceStatusSent})
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusSent, updated.Status)
	require.Len(t, recorder.Events, 1)
	assert.Equal(t, events.EventInvoiceIssued, recorder.Events[0].Type)

	// Falling overdue is silent.
	_, err = svc.UpdateStatus(ctx, invoice.ID, InvoiceUpdateInput{Status: domain.InvoiceStatusOverdue})
	require.NoError(t, err)
	assert.Len(t, recorder.Events, 1)
}

func TestInvoiceVersionConflict(t *testing.T) {
	svc, invoiceRepo, _, userRepo, _ := newInvoiceFixture(t)
	user := seedClient(userRepo)

	invoice := domain.Invoice{
		ID:            "aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa",
		UserID:        user.ID,
		InvoiceNumber: "INV-202609-0BADF00D",
		Amount:        decimal.NewFromInt(90),
		Currency:      "GBP",
		Status:        domain.InvoiceStatusSent,
		IssueDate:     time.Now(),
		DueDate:       time.Now().AddDate(0, 0, 7),
		Version:       4,
	}
	invoiceRepo.Seed(invoice)

	_, err := svc.UpdateStatus(context.Background(), invoice.ID, InvoiceUpdateInput{
		Status:  domain.InvoiceStatusPaid,
		Version: 2,
	})
	assertErrorCode(t, err, "CONFLICT")

	stored, ok := invoiceRepo.Get(invoice.ID)
	require.True(t, ok)
	assert.Equal(t, domain.InvoiceStatusSent, stored.Status)
}
