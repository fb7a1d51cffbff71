package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/client-portal/internal/domain"
	"github.com/spec-kit/client-portal/internal/testutil"
)

func newReferralFixture(t *testing.T) (*ReferralService, *testutil.FakeUserRepository) {
	t.Helper()
	userRepo := testutil.NewFakeUserRepository()
	return NewReferralService(testutil.NewFakeReferralRepository(), userRepo), userRepo
}

func TestCreateReferral(t *testing.T) {
	svc, userRepo := newReferralFixture(t)
	user := seedClient(userRepo)
	ctx := context.Background()

	referral, err := svc.CreateReferral(ctx, ReferralCreateInput{
		ReferrerID:    user.ID,
		ReferredName:  "Jordan Lee",
		ReferredEmail: "  Jordan@Example.COM ",
	})
	require.NoError(t, err)
	assert.Equal(t, "jordan@example.com", referral.ReferredEmail)
	assert.Equal(t, domain.ReferralStatusPending, referral.Status)
	assert.True(t, referral.RewardAmount.IsZero())

	_, err = svc.CreateReferral(ctx, ReferralCreateInput{ReferrerID: user.ID, ReferredName: " "})
	assertErrorCode(t, err, "VALIDATION_FAILED")
}

func TestReferralConversionReward(t *testing.T) {
	svc, userRepo := newReferralFixture(t)
	user := seedClient(userRepo)
	ctx := context.Background()

	referral, err := svc.CreateReferral(ctx, ReferralCreateInput{
		ReferrerID:    user.ID,
		ReferredName:  "Jordan Lee",
		ReferredEmail: "jordan@example.com",
	})
	require.NoError(t, err)

	reward := decimal.NewFromInt(50)

	// A reward on a non-conversion move is ignored.
	contacted, err := svc.UpdateStatus(ctx, referral.ID, ReferralStatusInput{
		Status:       domain.ReferralStatusContacted,
		RewardAmount: &reward,
	})
	require.NoError(t, err)
	assert.True(t, contacted.RewardAmount.IsZero())

	converted, err := svc.UpdateStatus(ctx, referral.ID, ReferralStatusInput{
		Status:       domain.ReferralStatusConverted,
		RewardAmount: &reward,
	})
	require.NoError(t, err)
	assert.True(t, converted.RewardAmount.Equal(reward))

	// Converted is terminal.
	_, err = svc.UpdateStatus(ctx, referral.ID, ReferralStatusInput{Status: domain.ReferralStatusExpired})
	assertErrorCode(t, err, "VALIDATION_FAILED")
}

func TestReferralNegativeRewardRejected(t *testing.T) {
	svc, userRepo := newReferralFixture(t)
	user := seedClient(userRepo)
	ctx := context.Background()

	referral, err := svc.CreateReferral(ctx, ReferralCreateInput{
		ReferrerID:    user.ID,
		ReferredName:  "Jordan Lee",
		ReferredEmail: "jordan@example.com",
	})
	require.NoError(t, err)

	negative := decimal.NewFromInt(-10)
	_, err = svc.UpdateStatus(ctx, referral.ID, ReferralStatusInput{
		Status:       domain.ReferralStatusConverted,
		RewardAmount: &negative,
	})
	assertErrorCode(t, err, "VALIDATION_FAILED")
}
