package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/client-portal/internal/config"
	"github.com/spec-kit/client-portal/internal/events"
	"github.com/spec-kit/client-portal/internal/notify"
	"github.com/spec-kit/client-portal/internal/repository"
)

// NotificationService observes domain events and enqueues the matching
// emails. Every send is fire-and-forget: the mutation that produced
// the event has already committed by the time a job is queued, and a
// failed or dropped job is only logged.
type NotificationService struct {
	cfg      config.NotificationConfig
	notifier notify.Notifier
	queue    *notify.Queue
	users    repository.UserRepository
	logger   *zap.Logger
}

// NewNotificationService constructs the observer.
func NewNotificationService(cfg config.NotificationConfig, notifier notify.Notifier, queue *notify.Queue, users repository.UserRepository, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		cfg:      cfg,
		notifier: notifier,
		queue:    queue,
		users:    users,
		logger:   logger,
	}
}

// RegisterHandlers subscribes the observer to the dispatcher.
func (s *NotificationService) RegisterHandlers(dispatcher events.Dispatcher) {
	dispatcher.Subscribe(events.EventBillingPaid, s.onBillingPaid)
	dispatcher.Subscribe(events.EventInvoicePaid, s.onInvoicePaid)
	dispatcher.Subscribe(events.EventInvoiceIssued, s.onInvoiceIssued)
	dispatcher.Subscribe(events.EventAccountDeletionRequested, s.onDeletionRequested)
}

func (s *NotificationService) onBillingPaid(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.BillingPaidPayload)
	if !ok {
		s.logger.Warn("unexpected payload type", zap.String("event", string(event.Type)))
		return nil
	}
	recipient, err := s.recipientFor(ctx, event.UserID)
	if err != nil {
		return nil
	}

	details := notify.PaymentDetails{
		TransactionID: payload.BillingID,
		Amount:        payload.Amount,
		Currency:      payload.Currency,
		PaymentMethod: "bank_transfer",
		PaymentDate:   payload.PaidAt,
		Status:        notify.PaymentStatusCompleted,
		ReceiptURL:    s.portalURL("/billing/" + payload.BillingID),
	}
	s.queue.Enqueue(notify.Job{
		Kind:      "payment_receipt",
		Recipient: recipient,
		Send: func(ctx context.Context) (notify.Result, error) {
			return s.notifier.SendPaymentReceipt(ctx, recipient, details)
		},
	})
	return nil
}

func (s *NotificationService) onInvoicePaid(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.InvoicePaidPayload)
	if !ok {
		s.logger.Warn("unexpected payload type", zap.String("event", string(event.Type)))
		return nil
	}
	recipient, err := s.recipientFor(ctx, event.UserID)
	if err != nil {
		return nil
	}

	number := payload.InvoiceNumber
	details := notify.PaymentDetails{
		TransactionID: payload.InvoiceID,
		InvoiceNumber: &number,
		Amount:        payload.Amount,
		Currency:      payload.Currency,
		PaymentMethod: "bank_transfer",
		PaymentDate:   payload.PaidDate,
		Status:        notify.PaymentStatusCompleted,
		InvoiceURL:    s.portalURL("/invoices/" + payload.InvoiceID),
	}
	s.queue.Enqueue(notify.Job{
		Kind:      "payment_receipt",
		Recipient: recipient,
		Send: func(ctx context.Context) (notify.Result, error) {
			return s.notifier.SendPaymentReceipt(ctx, recipient, details)
		},
	})
	return nil
}

func (s *NotificationService) onInvoiceIssued(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.InvoiceIssuedPayload)
	if !ok {
		s.logger.Warn("unexpected payload type", zap.String("event", string(event.Type)))
		return nil
	}
	recipient, err := s.recipientFor(ctx, event.UserID)
	if err != nil {
		return nil
	}

	details := notify.InvoiceDetails{
		InvoiceNumber: payload.InvoiceNumber,
		Amount:        payload.Amount,
		Currency:      payload.Currency,
		DueDate:       payload.DueDate,
		InvoiceURL:    s.portalURL("/invoices/" + payload.InvoiceID),
	}
	s.queue.Enqueue(notify.Job{
		Kind:      "invoice_issued",
		Recipient: recipient,
		Send: func(ctx context.Context) (notify.Result, error) {
			return s.notifier.SendInvoiceIssued(ctx, recipient, details)
		},
	})
	return nil
}

func (s *NotificationService) onDeletionRequested(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.AccountDeletionRequestedPayload)
	if !ok {
		s.logger.Warn("unexpected payload type", zap.String("event", string(event.Type)))
		return nil
	}

	// The payload carries the email directly: by the time the purge
	// runs the user row is gone, and the recovery token must never be
	// fetched from a mutated row.
	details := notify.DeletionDetails{
		DeletionDate: payload.DeletionDate,
		RecoveryURL:  s.portalURL(fmt.Sprintf("/account/recover?token=%s", payload.RecoveryToken)),
	}
	recipient := payload.Email
	s.queue.Enqueue(notify.Job{
		Kind:      "deletion_confirmation",
		Recipient: recipient,
		Send: func(ctx context.Context) (notify.Result, error) {
			return s.notifier.SendDeletionConfirmation(ctx, recipient, details)
		},
	})
	return nil
}

func (s *NotificationService) recipientFor(ctx context.Context, userID string) (string, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		s.logger.Warn("notification recipient lookup failed",
			zap.String("user_id", userID), zap.Error(err))
		return "", err
	}
	return user.Email, nil
}

func (s *NotificationService) portalURL(path string) string {
	return strings.TrimRight(s.cfg.PortalBaseURL, "/") + path
}
