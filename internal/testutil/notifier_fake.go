package testutil

import (
	"context"
	"sync"

	"github.com/spec-kit/client-portal/internal/notify"
)

// SentNotification records one delivery attempt.
type SentNotification struct {
	Kind      string
	Recipient string
	Payment   *notify.PaymentDetails
	Invoice   *notify.InvoiceDetails
	Deletion  *notify.DeletionDetails
}

// RecordingNotifier captures every send for assertions. Err, when set,
// makes all sends fail.
type RecordingNotifier struct {
	mu   sync.Mutex
	Sent []SentNotification
	Err  error
}

// NewRecordingNotifier builds an empty recorder.
func NewRecordingNotifier() *RecordingNotifier {
	return &RecordingNotifier{}
}

func (r *RecordingNotifier) SendPaymentReceipt(_ context.Context, recipient string, details notify.PaymentDetails) (notify.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return notify.Result{}, r.Err
	}
	r.Sent = append(r.Sent, SentNotification{Kind: "payment_receipt", Recipient: recipient, Payment: &details})
	return notify.Result{Success: true, MessageID: "msg-payment"}, nil
}

func (r *RecordingNotifier) SendInvoiceIssued(_ context.Context, recipient string, details notify.InvoiceDetails) (notify.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return notify.Result{}, r.Err
	}
	r.Sent = append(r.Sent, SentNotification{Kind: "invoice_issued", Recipient: recipient, Invoice: &details})
	return notify.Result{Success: true, MessageID: "msg-invoice"}, nil
}

func (r *RecordingNotifier) SendDeletionConfirmation(_ context.Context, recipient string, details notify.DeletionDetails) (notify.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return notify.Result{}, r.Err
	}
	r.Sent = append(r.Sent, SentNotification{Kind: "deletion_confirmation", Recipient: recipient, Deletion: &details})
	return notify.Result{Success: true, MessageID: "msg-deletion"}, nil
}

// All returns a snapshot of recorded sends.
func (r *RecordingNotifier) All() []SentNotification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]SentNotification(nil), r.Sent...)
}
