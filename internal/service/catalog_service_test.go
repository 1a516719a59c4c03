package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/community-directory/internal/config"
	"github.com/spec-kit/community-directory/internal/domain"
	"github.com/spec-kit/community-directory/internal/events"
)

func TestCatalogDetailPagesRecordViews(t *testing.T) {
	env := newTestEnv()
	interactions := &fakeInteractions{}
	catalog := NewCatalogService(CatalogDependencies{
		Businesses:   env.businesses,
		Jobs:         env.jobs,
		Events:       env.events,
		Users:        env.users,
		Interactions: NewInteractionService(interactions, nil, nil),
	})
	ctx := context.Background()

	businessID := env.businesses.seed(domain.Business{Name: "Cafe", Slug: "cafe-abc123"})
	b, err := catalog.GetBusiness(ctx, "  CAFE-abc123 ")
	require.NoError(t, err)
	assert.Equal(t, businessID, b.ID)

	_, err = catalog.GetBusiness(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = catalog.GetJob(ctx, "bad")
	require.ErrorIs(t, err, domain.ErrInvalidID)
	_, err = catalog.GetEvent(ctx, uuid.NewString())
	require.ErrorIs(t, err, domain.ErrNotFound)

	records := interactions.all()
	require.Len(t, records, 1)
	assert.Equal(t, domain.InteractionView, records[0].Kind)
	assert.Equal(t, businessID, records[0].EntityID)

	owner := uuid.NewString()
	env.businesses.seed(domain.Business{Name: "Mine", Slug: "mine-1", OwnerUserID: &owner})
	owned, err := catalog.ListOwned(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, owned, 1)
}

func TestNotificationServiceHandlesEvents(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	dispatcher := events.NewInMemoryDispatcher()
	svc := NewNotificationService(dispatcher, zap.New(core), config.NotificationConfig{EmailFrom: "noreply@example.com"})
	svc.RegisterHandlers()
	ctx := context.Background()

	require.NoError(t, dispatcher.Publish(ctx, events.Event{Type: events.EventSubmissionReceived, Kind: "job", SubjectID: "1"}))
	require.NoError(t, dispatcher.Publish(ctx, events.Event{Type: events.EventSubmissionApproved, Kind: "job", SubjectID: "1"}))
	require.NoError(t, dispatcher.Publish(ctx, events.Event{Type: events.EventSubmissionRejected, Kind: "news", SubjectID: "2"}))
	require.NoError(t, dispatcher.Publish(ctx, events.Event{
		Type: events.EventPasswordReset, SubjectID: "u1",
		Payload: events.PasswordResetPayload{Email: "jo@example.com"},
	}))
	require.NoError(t, dispatcher.Publish(ctx, events.Event{Type: events.EventSubscriptionChange, SubjectID: "cus_1"}))

	assert.Equal(t, 1, logs.FilterMessage("SubmissionReceived").Len())
	assert.Equal(t, 2, logs.FilterMessage("SubmissionDecided").Len())
	assert.Equal(t, 1, logs.FilterMessage("PasswordResetRequested").Len())
	assert.Equal(t, 1, logs.FilterMessage("SubscriptionChanged").Len())
}
