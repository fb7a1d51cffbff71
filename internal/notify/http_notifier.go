package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/spec-kit/client-portal/internal/config"
)

// httpNotifier posts named payloads to the serverless email functions.
type httpNotifier struct {
	cfg    config.NotificationConfig
	client *http.Client
}

// NewHTTPNotifier builds a Notifier over the configured function URLs.
func NewHTTPNotifier(cfg config.NotificationConfig) Notifier {
	return &httpNotifier{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout()},
	}
}

type emailRequest struct {
	From      string `json:"from"`
	Recipient string `json:"recipient"`
	Payload   any    `json:"payload"`
}

func (n *httpNotifier) SendPaymentReceipt(ctx context.Context, recipient string, details PaymentDetails) (Result, error) {
	return n.post(ctx, n.cfg.PaymentReceiptURL, recipient, details)
}

func (n *httpNotifier) SendInvoiceIssued(ctx context.Context, recipient string, details InvoiceDetails) (Result, error) {
	return n.post(ctx, n.cfg.InvoiceIssuedURL, recipient, details)
}

func (n *httpNotifier) SendDeletionConfirmation(ctx context.Context, recipient string, details DeletionDetails) (Result, error) {
	return n.post(ctx, n.cfg.DeletionConfirmURL, recipient, details)
}

func (n *httpNotifier) post(ctx context.Context, url, recipient string, payload any) (Result, error) {
	if url == "" {
		return Result{}, errors.New("notification endpoint not configured")
	}

	body, err := json.Marshal(emailRequest{
		From:      n.cfg.EmailFrom,
		Recipient: recipient,
		Payload:   payload,
	})
	if err != nil {
		return Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Result{}, fmt.Errorf("decode notification response: %w", err)
	}
	if resp.StatusCode >= 300 || !result.Success {
		return result, fmt.Errorf("notification rejected: status %d: %s", resp.StatusCode, result.Error)
	}
	return result, nil
}
