package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/community-directory/internal/domain"
	"github.com/spec-kit/community-directory/internal/repository"
)

const defaultQueueLimit = 100

// ModerationQueues holds the Pending records of every kind, oldest first.
type ModerationQueues struct {
	Listings  []domain.BusinessListingRequest `json:"businessListings"`
	Edits     []domain.BusinessEditRequest    `json:"businessEdits"`
	Claims    []domain.BusinessClaimRequest   `json:"businessClaims"`
	Jobs      []domain.JobSubmission          `json:"jobs"`
	Events    []domain.EventSubmission        `json:"events"`
	News      []domain.NewsSubmission         `json:"news"`
	Charities []domain.CharitySubmission      `json:"charities"`
}

// Total counts records across all queues.
func (q *ModerationQueues) Total() int {
	return len(q.Listings) + len(q.Edits) + len(q.Claims) + len(q.Jobs) +
		len(q.Events) + len(q.News) + len(q.Charities)
}

// Counts returns the queue sizes keyed by record kind.
func (q *ModerationQueues) Counts() map[string]int {
	return map[string]int{
		string(domain.KindBusinessListing): len(q.Listings),
		string(domain.KindBusinessEdit):    len(q.Edits),
		string(domain.KindBusinessClaim):   len(q.Claims),
		string(domain.KindJob):             len(q.Jobs),
		string(domain.KindEvent):           len(q.Events),
		string(domain.KindNews):            len(q.News),
		string(domain.KindCharity):         len(q.Charities),
	}
}

// PendingQueues loads the seven Pending queues concurrently.
func (s *ModerationService) PendingQueues(ctx context.Context, limit int) (*ModerationQueues, error) {
	if limit <= 0 {
		limit = defaultQueueLimit
	}

	var queues ModerationQueues
	g, gctx := errgroup.WithContext(ctx)

	loadPending(g, gctx, s.deps.Listings, limit, &queues.Listings, domain.KindBusinessListing)
	loadPending(g, gctx, s.deps.Edits, limit, &queues.Edits, domain.KindBusinessEdit)
	loadPending[domain.BusinessClaimRequest](g, gctx, s.deps.Claims, limit, &queues.Claims, domain.KindBusinessClaim)
	loadPending(g, gctx, s.deps.JobSubs, limit, &queues.Jobs, domain.KindJob)
	loadPending(g, gctx, s.deps.EventSubs, limit, &queues.Events, domain.KindEvent)
	loadPending(g, gctx, s.deps.NewsSubs, limit, &queues.News, domain.KindNews)
	loadPending(g, gctx, s.deps.CharitySubs, limit, &queues.Charities, domain.KindCharity)

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &queues, nil
}

func loadPending[T domain.Moderatable](g *errgroup.Group, ctx context.Context, repo repository.SubmissionRepository[T], limit int, dst *[]T, kind domain.RecordKind) {
	g.Go(func() error {
		records, err := repo.ListByStatus(ctx, domain.StatusPending, limit)
		if err != nil {
			return fmt.Errorf("list pending %s: %w", kind, err)
		}
		if records == nil {
			records = []T{}
		}
		*dst = records
		return nil
	})
}
