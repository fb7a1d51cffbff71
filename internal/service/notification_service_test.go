package service

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/client-portal/internal/config"
	"github.com/spec-kit/client-portal/internal/events"
	"github.com/spec-kit/client-portal/internal/notify"
	"github.com/spec-kit/client-portal/internal/observability"
	"github.com/spec-kit/client-portal/internal/testutil"
)

func newNotificationFixture(t *testing.T) (events.Dispatcher, *testutil.RecordingNotifier, *notify.Queue, *testutil.FakeUserRepository) {
	t.Helper()
	logger := zap.NewNop()
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	notifier := testutil.NewRecordingNotifier()
	queue := notify.NewQueue(16, logger, metrics)
	userRepo := testutil.NewFakeUserRepository()

	cfg := config.NotificationConfig{PortalBaseURL: "https://portal.example.com/"}
	svc := NewNotificationService(cfg, notifier, queue, userRepo, logger)

	dispatcher := events.NewInMemoryDispatcher()
	svc.RegisterHandlers(dispatcher)
	return dispatcher, notifier, queue, userRepo
}

func drainQueue(t *testing.T, queue *notify.Queue) {
	t.Helper()
	queue.Start(context.Background())
	queue.Close()
}

func TestNotificationOnBillingPaid(t *testing.T) {
	dispatcher, notifier, queue, userRepo := newNotificationFixture(t)
	user := seedClient(userRepo)

	paidAt := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	err := dispatcher.Publish(context.Background(), events.Event{
		Type:   events.EventBillingPaid,
		UserID: user.ID,
		Payload: events.BillingPaidPayload{
			BillingID: "bill-1",
			Amount:    decimal.NewFromInt(100),
			Currency:  "GBP",
			PaidAt:    paidAt,
		},
	})
	require.NoError(t, err)
	drainQueue(t, queue)

	sent := notifier.All()
	require.Len(t, sent, 1)
	assert.Equal(t, "payment_receipt", sent[0].Kind)
	assert.Equal(t, user.Email, sent[0].Recipient)
	require.NotNil(t, sent[0].Payment)
	assert.Equal(t, "https://portal.example.com/billing/bill-1", sent[0].Payment.ReceiptURL)
	assert.Equal(t, "bank_transfer", sent[0].Payment.PaymentMethod)
	assert.True(t, sent[0].Payment.PaymentDate.Equal(paidAt))
}

func TestNotificationOnInvoiceIssued(t *testing.T) {
	dispatcher, notifier, queue, userRepo := newNotificationFixture(t)
	user := seedClient(userRepo)

	err := dispatcher.Publish(context.Background(), events.Event{
		Type:   events.EventInvoiceIssued,
		UserID: user.ID,
		Payload: events.InvoiceIssuedPayload{
			InvoiceID:     "inv-1",
			InvoiceNumber: "INV-202609-AAAAAAAA",
			Amount:        decimal.NewFromInt(250),
			Currency:      "GBP",
			DueDate:       time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		},
	})
	require.NoError(t, err)
	drainQueue(t, queue)

	sent := notifier.All()
	require.Len(t, sent, 1)
	assert.Equal(t, "invoice_issued", sent[0].Kind)
	require.NotNil(t, sent[0].Invoice)
	assert.Equal(t, "INV-202609-AAAAAAAA", sent[0].Invoice.InvoiceNumber)
	assert.Equal(t, "https://portal.example.com/invoices/inv-1", sent[0].Invoice.InvoiceURL)
}

func TestNotificationOnDeletionRequested(t *testing.T) {
	dispatcher, notifier, queue, _ := newNotificationFixture(t)

	// The deletion payload carries the email itself; no user lookup.
	deletionDate := time.Now().Add(30 * 24 * time.Hour)
	err := dispatcher.Publish(context.Background(), events.Event{
		Type:   events.EventAccountDeletionRequested,
		UserID: "66666666-6666-4666-8666-666666666666",
		Payload: events.AccountDeletionRequestedPayload{
			Email:         "leaver@example.com",
			DeletionDate:  deletionDate,
			RecoveryToken: "tok-123",
		},
	})
	require.NoError(t, err)
	drainQueue(t, queue)

	sent := notifier.All()
	require.Len(t, sent, 1)
	assert.Equal(t, "deletion_confirmation", sent[0].Kind)
	assert.Equal(t, "leaver@example.com", sent[0].Recipient)
	require.NotNil(t, sent[0].Deletion)
	assert.Equal(t, "https://portal.example.com/account/recover?token=tok-123", sent[0].Deletion.RecoveryURL)
}

func TestNotificationUnknownRecipientSwallowed(t *testing.T) {
	dispatcher, notifier, queue, _ := newNotificationFixture(t)

	err := dispatcher.Publish(context.Background(), events.Event{
		Type:   events.EventBillingPaid,
		UserID: "77777777-7777-4777-8777-777777777777",
		Payload: events.BillingPaidPayload{
			BillingID: "bill-x",
			Amount:    decimal.NewFromInt(10),
			Currency:  "GBP",
			PaidAt:    time.Now(),
		},
	})
	require.NoError(t, err, "a missing recipient never fails the publisher")
	drainQueue(t, queue)
	assert.Empty(t, notifier.All())
}

func TestNotificationSendFailureIsSilent(t *testing.T) {
	dispatcher, notifier, queue, userRepo := newNotificationFixture(t)
	user := seedClient(userRepo)
	notifier.Err = context.DeadlineExceeded

	err := dispatcher.Publish(context.Background(), events.Event{
		Type:   events.EventBillingPaid,
		UserID: user.ID,
		Payload: events.BillingPaidPayload{
			BillingID: "bill-y",
			Amount:    decimal.NewFromInt(10),
			Currency:  "GBP",
			PaidAt:    time.Now(),
		},
	})
	require.NoError(t, err)
	drainQueue(t, queue)
	assert.Empty(t, notifier.All())
}
