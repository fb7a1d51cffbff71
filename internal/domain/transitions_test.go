package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBillingStatusTransitions(t *testing.T) {
	cases := []struct {
		from    BillingStatus
		to      BillingStatus
		allowed bool
	}{
		{BillingStatusPending, BillingStatusPaid, true},
		{BillingStatusPending, BillingStatusOverdue, true},
		{BillingStatusPending, BillingStatusCancelled, true},
		{BillingStatusOverdue, BillingStatusPaid, true},
		{BillingStatusOverdue, BillingStatusPending, true},
		{BillingStatusPaid, BillingStatusPending, true},
		{BillingStatusPaid, BillingStatusOverdue, false},
		{BillingStatusCancelled, BillingStatusPending, true},
		{BillingStatusCancelled, BillingStatusPaid, false},
		{BillingStatusPaid, BillingStatusPaid, true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestInvoiceStatusTransitions(t *testing.T) {
	cases := []struct {
		from    InvoiceStatus
		to      InvoiceStatus
		allowed bool
	}{
		{InvoiceStatusDraft, InvoiceStatusSent, true},
		{InvoiceStatusDraft, InvoiceStatusPaid, false},
		{InvoiceStatusSent, InvoiceStatusPaid, true},
		{InvoiceStatusSent, InvoiceStatusOverdue, true},
		{InvoiceStatusOverdue, InvoiceStatusPaid, true},
		{InvoiceStatusPaid, InvoiceStatusSent, true},
		{InvoiceStatusPaid, InvoiceStatusDraft, false},
		{InvoiceStatusCancelled, InvoiceStatusSent, false},
		{InvoiceStatusSent, InvoiceStatusSent, true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestAdminUserTransitions(t *testing.T) {
	cases := []struct {
		from    UserStatus
		to      UserStatus
		allowed bool
	}{
		{UserStatusActive, UserStatusInactive, true},
		{UserStatusActive, UserStatusSuspended, true},
		{UserStatusInactive, UserStatusActive, true},
		{UserStatusSuspended, UserStatusActive, true},
		{UserStatusActive, UserStatusPendingDeletion, false},
		{UserStatusPendingDeletion, UserStatusActive, false},
		{UserStatusActive, UserStatusActive, true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanAdminTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestTicketReopenFromResolved(t *testing.T) {
	assert.True(t, TicketStatusResolved.CanTransitionTo(TicketStatusOpen))
	assert.False(t, TicketStatusClosed.CanTransitionTo(TicketStatusOpen))
}

func TestBillingRecordContainsDate(t *testing.T) {
	record := BillingRecord{
		PeriodStart: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
	}

	assert.True(t, record.ContainsDate(record.PeriodStart), "start is inclusive")
	assert.True(t, record.ContainsDate(record.PeriodEnd), "end is inclusive")
	assert.True(t, record.ContainsDate(time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)))
	assert.False(t, record.ContainsDate(record.PeriodStart.Add(-time.Second)))
	assert.False(t, record.ContainsDate(record.PeriodEnd.Add(time.Second)))
}

func TestClampProgress(t *testing.T) {
	assert.Equal(t, 0, ClampProgress(-5))
	assert.Equal(t, 100, ClampProgress(150))
	assert.Equal(t, 42, ClampProgress(42))
}
