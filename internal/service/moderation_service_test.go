package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/community-directory/internal/domain"
	"github.com/spec-kit/community-directory/internal/events"
)

func pendingListing(id string) domain.BusinessListingRequest {
	return domain.BusinessListingRequest{
		ID:           id,
		BusinessName: "Castle Street Coffee",
		ContactName:  "Jo Bloggs",
		ContactEmail: "Jo@Example.com",
		Category:     "Cafe",
		Area:         "Town Centre",
		Description:  strings.Repeat("Great coffee and cake by the castle. ", 8),
		Status:       domain.StatusPending,
	}
}

func TestApproveListingPublishesBusiness(t *testing.T) {
	env := newTestEnv()
	svc := env.moderation()
	ctx := context.Background()

	requester := env.users.seed(domain.User{Email: "owner@example.com"})
	listing := pendingListing("00000000-0000-0000-0000-000000a1b2c3")
	listing.RequesterUserID = &requester
	listing.Website = strPtr("https://castlecoffee.example")
	id := env.listings.seed(listing)

	result, err := svc.Approve(ctx, domain.KindBusinessListing, id)
	require.NoError(t, err)
	assert.Equal(t, DecisionApproved, result.Decision)
	require.NotNil(t, result.PublishedID)

	businesses := env.businesses.all()
	require.Len(t, businesses, 1)
	b := businesses[0]
	assert.Equal(t, *result.PublishedID, b.ID)
	assert.Equal(t, "castle-street-coffee-a1b2c3", b.Slug)
	assert.Equal(t, "Town Centre, Tamworth", b.Address)
	assert.Equal(t, "B79", b.Postcode)
	assert.Len(t, []rune(b.Summary), 160)
	assert.False(t, b.Verified)
	require.NotNil(t, b.OwnerUserID)
	assert.Equal(t, requester, *b.OwnerUserID)
	assert.Equal(t, "https://castlecoffee.example", *b.Website)

	assert.Equal(t, domain.StatusApproved, env.listings.get(id).Status)

	approved := env.dispatcher.ofType(events.EventSubmissionApproved)
	require.Len(t, approved, 1)
	assert.Equal(t, id, approved[0].SubjectID)
	payload, ok := approved[0].Payload.(events.SubmissionDecidedPayload)
	require.True(t, ok)
	assert.Equal(t, b.ID, *payload.PublishedID)
}

func TestApproveIsIdempotent(t *testing.T) {
	env := newTestEnv()
	svc := env.moderation()
	ctx := context.Background()
	id := env.listings.seed(pendingListing(uuid.NewString()))

	first, err := svc.Approve(ctx, domain.KindBusinessListing, id)
	require.NoError(t, err)
	assert.Equal(t, DecisionApproved, first.Decision)

	second, err := svc.Approve(ctx, domain.KindBusinessListing, id)
	require.NoError(t, err)
	assert.Equal(t, DecisionNoop, second.Decision)
	assert.Nil(t, second.PublishedID)

	assert.Len(t, env.businesses.all(), 1)
	assert.Len(t, env.dispatcher.ofType(events.EventSubmissionApproved), 1)
}

func TestApproveAndRejectAreMutuallyExclusive(t *testing.T) {
	ctx := context.Background()

	t.Run("reject after approve", func(t *testing.T) {
		env := newTestEnv()
		svc := env.moderation()
		id := env.jobSubs.seed(domain.JobSubmission{ID: uuid.NewString(), Title: "Barista", Company: "Castle", Status: domain.StatusPending})

		_, err := svc.Approve(ctx, domain.KindJob, id)
		require.NoError(t, err)
		result, err := svc.Reject(ctx, domain.KindJob, id)
		require.NoError(t, err)

		assert.Equal(t, DecisionNoop, result.Decision)
		assert.Equal(t, domain.StatusApproved, env.jobSubs.get(id).Status)
		assert.Empty(t, env.dispatcher.ofType(events.EventSubmissionRejected))
	})

	t.Run("approve after reject", func(t *testing.T) {
		env := newTestEnv()
		svc := env.moderation()
		id := env.jobSubs.seed(domain.JobSubmission{ID: uuid.NewString(), Title: "Barista", Company: "Castle", Status: domain.StatusPending})

		rejected, err := svc.Reject(ctx, domain.KindJob, id)
		require.NoError(t, err)
		assert.Equal(t, DecisionRejected, rejected.Decision)

		result, err := svc.Approve(ctx, domain.KindJob, id)
		require.NoError(t, err)
		assert.Equal(t, DecisionNoop, result.Decision)
		assert.Equal(t, domain.StatusRejected, env.jobSubs.get(id).Status)
		assert.Empty(t, env.store.jobs)
	})
}

func TestApproveRollsBackOnFailure(t *testing.T) {
	env := newTestEnv()
	svc := env.moderation()
	ctx := context.Background()
	id := env.listings.seed(pendingListing(uuid.NewString()))

	env.store.failOn = "listings.transition"
	_, err := svc.Approve(ctx, domain.KindBusinessListing, id)
	require.ErrorIs(t, err, errInjected)

	assert.Empty(t, env.businesses.all(), "published row must not survive the rollback")
	assert.Equal(t, domain.StatusPending, env.listings.get(id).Status)
	assert.Equal(t, 1, env.tx.rollbacks)
	assert.Equal(t, 0, env.tx.commits)
	assert.Empty(t, env.dispatcher.ofType(events.EventSubmissionApproved))

	env.store.failOn = ""
	result, err := svc.Approve(ctx, domain.KindBusinessListing, id)
	require.NoError(t, err)
	assert.Equal(t, DecisionApproved, result.Decision)
	assert.Len(t, env.businesses.all(), 1)
}

func TestApproveMaterializeFailureKeepsPending(t *testing.T) {
	env := newTestEnv()
	svc := env.moderation()
	id := env.jobSubs.seed(domain.JobSubmission{ID: uuid.NewString(), Title: "Chef", Company: "Inn", Status: domain.StatusPending})

	env.store.failOn = "jobs.create"
	_, err := svc.Approve(context.Background(), domain.KindJob, id)
	require.Error(t, err)
	assert.Equal(t, domain.StatusPending, env.jobSubs.get(id).Status)
	assert.Empty(t, env.store.jobs)
}

func TestApproveMissingRecordIsNoop(t *testing.T) {
	env := newTestEnv()
	svc := env.moderation()

	result, err := svc.Approve(context.Background(), domain.KindNews, uuid.NewString())
	require.NoError(t, err)
	assert.Equal(t, DecisionNoop, result.Decision)
	assert.Empty(t, env.store.news)
}

func TestModerationRejectsMalformedInput(t *testing.T) {
	env := newTestEnv()
	svc := env.moderation()
	ctx := context.Background()

	_, err := svc.Approve(ctx, domain.KindJob, "not-a-uuid")
	require.ErrorIs(t, err, domain.ErrInvalidID)
	_, err = svc.Reject(ctx, domain.KindJob, "")
	require.ErrorIs(t, err, domain.ErrInvalidID)
	assert.Zero(t, env.tx.commits+env.tx.rollbacks)

	_, err = svc.Approve(ctx, domain.RecordKind("coupon"), uuid.NewString())
	require.ErrorIs(t, err, domain.ErrValidation)
	_, err = svc.Reject(ctx, domain.RecordKind("coupon"), uuid.NewString())
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestConcurrentApprovalPublishesOnce(t *testing.T) {
	env := newTestEnv()
	svc := env.moderation()
	id := env.listings.seed(pendingListing(uuid.NewString()))

	const workers = 8
	results := make([]*ModerationResult, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := svc.Approve(context.Background(), domain.KindBusinessListing, id)
			assert.NoError(t, err)
			results[i] = res
		}(i)
	}
	wg.Wait()

	approved := 0
	for _, res := range results {
		if res != nil && res.Decision == DecisionApproved {
			approved++
		}
	}
	assert.Equal(t, 1, approved)
	assert.Len(t, env.businesses.all(), 1)
}

func TestOwnerResolutionFallbackThenClaim(t *testing.T) {
	ctx := context.Background()

	t.Run("contact email matches account", func(t *testing.T) {
		env := newTestEnv()
		svc := env.moderation()
		userID := env.users.seed(domain.User{Email: "jo@example.com"})
		listing := pendingListing(uuid.NewString())
		listing.RequesterUserID = strPtr(uuid.NewString())
		id := env.listings.seed(listing)

		_, err := svc.Approve(ctx, domain.KindBusinessListing, id)
		require.NoError(t, err)

		b := env.businesses.all()[0]
		require.NotNil(t, b.OwnerUserID)
		assert.Equal(t, userID, *b.OwnerUserID)
	})

	t.Run("no match leaves listing unowned until claimed", func(t *testing.T) {
		env := newTestEnv()
		svc := env.moderation()
		id := env.listings.seed(pendingListing(uuid.NewString()))

		_, err := svc.Approve(ctx, domain.KindBusinessListing, id)
		require.NoError(t, err)
		b := env.businesses.all()[0]
		assert.Nil(t, b.OwnerUserID)

		claimant := env.users.seed(domain.User{Email: "new-owner@example.com"})
		claim, err := env.submissions().Claim(ctx, claimant, b.ID, ClaimInput{Note: "I run the cafe"})
		require.NoError(t, err)

		result, err := svc.Approve(ctx, domain.KindBusinessClaim, claim.ID)
		require.NoError(t, err)
		assert.Equal(t, DecisionApproved, result.Decision)

		b = env.businesses.all()[0]
		require.NotNil(t, b.OwnerUserID)
		assert.Equal(t, claimant, *b.OwnerUserID)
	})
}

func TestApproveEditKeepsSlugAndVerified(t *testing.T) {
	env := newTestEnv()
	svc := env.moderation()
	owner := uuid.NewString()
	businessID := env.businesses.seed(domain.Business{
		Name: "Old Name", Slug: "old-name-abc123", Verified: true, OwnerUserID: &owner,
	})
	id := env.edits.seed(domain.BusinessEditRequest{
		ID:          uuid.NewString(),
		BusinessID:  businessID,
		OwnerUserID: owner,
		Name:        "New Name",
		Summary:     "A brand new summary",
		Description: "A brand new description",
		Category:    "Bakery",
		Phone:       strPtr("01827 000000"),
		Address:     "1 Market St",
		Postcode:    "B79 7AA",
		Area:        "Town Centre",
		Status:      domain.StatusPending,
	})

	_, err := svc.Approve(context.Background(), domain.KindBusinessEdit, id)
	require.NoError(t, err)

	b, err := env.businesses.GetByID(context.Background(), businessID)
	require.NoError(t, err)
	assert.Equal(t, "New Name", b.Name)
	assert.Equal(t, "Bakery", b.Category)
	assert.Equal(t, "B79 7AA", b.Postcode)
	assert.Equal(t, "old-name-abc123", b.Slug)
	assert.True(t, b.Verified)
}

func TestApproveLinksJobsAndEventsByName(t *testing.T) {
	env := newTestEnv()
	svc := env.moderation()
	ctx := context.Background()

	oldest := env.businesses.seed(domain.Business{Name: "Castle Grounds", Slug: "castle-grounds-1"})
	env.businesses.seed(domain.Business{Name: "Castle Grounds", Slug: "castle-grounds-2"})

	jobID := env.jobSubs.seed(domain.JobSubmission{ID: uuid.NewString(), Title: "Gardener", Company: "Castle Grounds", Status: domain.StatusPending})
	eventID := env.eventSubs.seed(domain.EventSubmission{
		ID: uuid.NewString(), Title: "Fireworks", Venue: "Castle Grounds",
		StartsAt: time.Date(2024, 11, 5, 19, 0, 0, 0, time.UTC), Status: domain.StatusPending,
	})
	orphanID := env.jobSubs.seed(domain.JobSubmission{ID: uuid.NewString(), Title: "Driver", Company: "Unknown Ltd", Status: domain.StatusPending})

	jobResult, err := svc.Approve(ctx, domain.KindJob, jobID)
	require.NoError(t, err)
	job, err := env.jobs.GetByID(ctx, *jobResult.PublishedID)
	require.NoError(t, err)
	require.NotNil(t, job.BusinessID)
	assert.Equal(t, oldest, *job.BusinessID)

	eventResult, err := svc.Approve(ctx, domain.KindEvent, eventID)
	require.NoError(t, err)
	event, err := env.events.GetByID(ctx, *eventResult.PublishedID)
	require.NoError(t, err)
	require.NotNil(t, event.BusinessID)
	assert.Equal(t, oldest, *event.BusinessID)

	orphanResult, err := svc.Approve(ctx, domain.KindJob, orphanID)
	require.NoError(t, err)
	orphan, err := env.jobs.GetByID(ctx, *orphanResult.PublishedID)
	require.NoError(t, err)
	assert.Nil(t, orphan.BusinessID)
}

func TestApproveNewsAndCharityCopyFields(t *testing.T) {
	env := newTestEnv()
	svc := env.moderation()
	ctx := context.Background()

	newsID := env.newsSubs.seed(domain.NewsSubmission{
		ID: uuid.NewString(), Title: "Library reopens", Summary: "Doors open again", Body: "Full story",
		Source: "Herald", SourceURL: strPtr("https://herald.example/library"), Area: "Glascote", Status: domain.StatusPending,
	})
	charityID := env.charitySubs.seed(domain.CharitySubmission{
		ID: uuid.NewString(), Name: "Food Bank", Summary: "Feeding families", Mission: "No one goes hungry",
		Area: "Belgrave", Email: strPtr("help@foodbank.example"), Status: domain.StatusPending,
	})

	newsResult, err := svc.Approve(ctx, domain.KindNews, newsID)
	require.NoError(t, err)
	article := env.store.news[*newsResult.PublishedID]
	assert.Equal(t, "Library reopens", article.Title)
	assert.Equal(t, "https://herald.example/library", *article.SourceURL)

	charityResult, err := svc.Approve(ctx, domain.KindCharity, charityID)
	require.NoError(t, err)
	charity := env.store.charities[*charityResult.PublishedID]
	assert.Equal(t, "Food Bank", charity.Name)
	assert.Equal(t, "help@foodbank.example", *charity.Email)
}

func TestSetFeaturedAndVerified(t *testing.T) {
	env := newTestEnv()
	svc := env.moderation()
	ctx := context.Background()

	jobID := uuid.NewString()
	env.store.jobs[jobID] = domain.Job{ID: jobID, Title: "Barista"}

	require.NoError(t, svc.SetFeatured(ctx, domain.EntityJob, jobID, true))
	job, _ := env.jobs.GetByID(ctx, jobID)
	assert.True(t, job.Featured())

	err := svc.SetFeatured(ctx, domain.EntityEvent, uuid.NewString(), true)
	require.ErrorIs(t, err, domain.ErrNotFound)

	err = svc.SetFeatured(ctx, domain.EntityBusiness, jobID, true)
	require.ErrorIs(t, err, domain.ErrValidation)

	businessID := env.businesses.seed(domain.Business{Name: "Cafe", Slug: "cafe-1"})
	require.NoError(t, svc.SetVerified(ctx, businessID, true))
	b, _ := env.businesses.GetByID(ctx, businessID)
	assert.True(t, b.Verified)

	require.ErrorIs(t, svc.SetVerified(ctx, uuid.NewString(), true), domain.ErrNotFound)
	require.ErrorIs(t, svc.SetVerified(ctx, "nope", true), domain.ErrInvalidID)
}

func TestPendingQueues(t *testing.T) {
	env := newTestEnv()
	svc := env.moderation()
	ctx := context.Background()

	env.listings.seed(pendingListing(uuid.NewString()))
	env.listings.seed(pendingListing(uuid.NewString()))
	approvedListing := pendingListing(uuid.NewString())
	approvedListing.Status = domain.StatusApproved
	env.listings.seed(approvedListing)
	env.newsSubs.seed(domain.NewsSubmission{ID: uuid.NewString(), Title: "Story", Status: domain.StatusPending})

	queues, err := svc.PendingQueues(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, queues.Listings, 2)
	assert.Len(t, queues.News, 1)
	assert.Empty(t, queues.Claims)
	assert.Equal(t, 3, queues.Total())

	env.store.failOn = "charities.list"
	_, err = svc.PendingQueues(ctx, 10)
	require.ErrorIs(t, err, errInjected)
}
