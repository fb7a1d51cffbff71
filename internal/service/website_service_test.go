package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/client-portal/internal/domain"
	"github.com/spec-kit/client-portal/internal/events"
	"github.com/spec-kit/client-portal/internal/testutil"
)

func newWebsiteFixture(t *testing.T) (*WebsiteService, *testutil.FakeWebsiteRepository, *testutil.FakeProjectUpdateRepository, *testutil.FakeUserRepository, *eventRecorder) {
	t.Helper()
	websiteRepo := testutil.NewFakeWebsiteRepository()
	updateRepo := testutil.NewFakeProjectUpdateRepository()
	userRepo := testutil.NewFakeUserRepository()
	dispatcher := events.NewInMemoryDispatcher()
	recorder := recordEvents(dispatcher, events.EventProjectUpdatePosted)

	svc := NewWebsiteService(WebsiteDependencies{
		WebsiteRepo: websiteRepo,
		UpdateRepo:  updateRepo,
		UserRepo:    userRepo,
		Dispatcher:  dispatcher,
	})
	return svc, websiteRepo, updateRepo, userRepo, recorder
}

func TestCreateWebsite(t *testing.T) {
	svc, _, _, userRepo, _ := newWebsiteFixture(t)
	user := seedClient(userRepo)
	ctx := context.Background()

	site, err := svc.CreateWebsite(ctx, WebsiteCreateInput{
		UserID:   user.ID,
		Name:     "  Acme Rebrand  ",
		Progress: 150,
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme Rebrand", site.Name)
	assert.Equal(t, domain.WebsiteStatusInProgress, site.Status)
	assert.Equal(t, 100, site.ProgressPercentage, "progress clamps to the percentage range")

	_, err = svc.CreateWebsite(ctx, WebsiteCreateInput{UserID: user.ID, Name: "   "})
	assertErrorCode(t, err, "VALIDATION_FAILED")
}

func TestPostUpdate(t *testing.T) {
	svc, websiteRepo, updateRepo, userRepo, recorder := newWebsiteFixture(t)
	user := seedClient(userRepo)
	ctx := context.Background()

	site, err := svc.CreateWebsite(ctx, WebsiteCreateInput{UserID: user.ID, Name: "Acme Rebrand", Progress: 20})
	require.NoError(t, err)

	t.Run("progress update moves the site", func(t *testing.T) {
		progress := 45
		update, err := svc.PostUpdate(ctx, site.ID, "admin-1", ProjectUpdateInput{
			UpdateType: domain.UpdateTypeProgress,
			Title:      "Design phase signed off",
			Progress:   &progress,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.UpdateTypeProgress, update.UpdateType)

		stored, ok := websiteRepo.Get(site.ID)
		require.True(t, ok)
		assert.Equal(t, 45, stored.ProgressPercentage)
		assert.Equal(t, domain.WebsiteStatusInProgress, stored.Status)
		require.Len(t, recorder.Events, 1)
	})

	t.Run("completed update finishes the site", func(t *testing.T) {
		_, err := svc.PostUpdate(ctx, site.ID, "admin-1", ProjectUpdateInput{
			UpdateType: domain.UpdateTypeCompleted,
			Title:      "Site launched",
		})
		require.NoError(t, err)

		stored, ok := websiteRepo.Get(site.ID)
		require.True(t, ok)
		assert.Equal(t, domain.WebsiteStatusCompleted, stored.Status)
		assert.Equal(t, 100, stored.ProgressPercentage)
	})

	t.Run("empty title rejected before any write", func(t *testing.T) {
		before := len(updateRepo.Updates)
		_, err := svc.PostUpdate(ctx, site.ID, "admin-1", ProjectUpdateInput{Title: "  "})
		assertErrorCode(t, err, "VALIDATION_FAILED")
		assert.Len(t, updateRepo.Updates, before)
	})
}

func TestListUpdatesForOwner(t *testing.T) {
	svc, _, _, userRepo, _ := newWebsiteFixture(t)
	user := seedClient(userRepo)
	ctx := context.Background()

	site, err := svc.CreateWebsite(ctx, WebsiteCreateInput{UserID: user.ID, Name: "Acme Rebrand"})
	require.NoError(t, err)

	_, err = svc.PostUpdate(ctx, site.ID, "admin-1", ProjectUpdateInput{Title: "Kickoff"})
	require.NoError(t, err)

	updates, err := svc.ListUpdatesForOwner(ctx, user.ID, site.ID, 50, 0)
	require.NoError(t, err)
	assert.Len(t, updates, 1)

	_, err = svc.ListUpdatesForOwner(ctx, "99999999-9999-4999-8999-999999999999", site.ID, 50, 0)
	assertErrorCode(t, err, "FORBIDDEN")
}
