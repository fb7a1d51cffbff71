package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/client-portal/internal/domain"
	"github.com/spec-kit/client-portal/internal/testutil"
)

func newTicketFixture(t *testing.T) (*TicketService, *testutil.FakeUserRepository) {
	t.Helper()
	userRepo := testutil.NewFakeUserRepository()
	return NewTicketService(testutil.NewFakeSupportTicketRepository(), userRepo), userRepo
}

func TestCreateTicket(t *testing.T) {
	svc, userRepo := newTicketFixture(t)
	user := seedClient(userRepo)
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, TicketCreateInput{
		UserID:  user.ID,
		Subject: "Contact form broken",
		Message: "Submissions stopped arriving yesterday.",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	assert.Equal(t, domain.TicketPriorityMedium, ticket.Priority, "priority defaults to medium")

	_, err = svc.CreateTicket(ctx, TicketCreateInput{UserID: user.ID, Subject: "x"})
	assertErrorCode(t, err, "VALIDATION_FAILED")
}

func TestTicketLifecycle(t *testing.T) {
	svc, userRepo := newTicketFixture(t)
	user := seedClient(userRepo)
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, TicketCreateInput{
		UserID:  user.ID,
		Subject: "Contact form broken",
		Message: "Submissions stopped arriving yesterday.",
	})
	require.NoError(t, err)

	resolved, err := svc.UpdateStatus(ctx, ticket.ID, domain.TicketStatusResolved)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusResolved, resolved.Status)

	// Resolved tickets can reopen.
	reopened, err := svc.UpdateStatus(ctx, ticket.ID, domain.TicketStatusOpen)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusOpen, reopened.Status)

	// Closed is terminal.
	_, err = svc.UpdateStatus(ctx, ticket.ID, domain.TicketStatusClosed)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, ticket.ID, domain.TicketStatusOpen)
	assertErrorCode(t, err, "VALIDATION_FAILED")
}
