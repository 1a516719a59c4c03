package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/community-directory/internal/domain"
	"github.com/spec-kit/community-directory/internal/events"
	"github.com/spec-kit/community-directory/internal/observability"
	"github.com/spec-kit/community-directory/internal/repository"
)

const (
	placeholderTown     = "Tamworth"
	placeholderPostcode = "B79"
)

// Decision is the outcome of a moderation call.
type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
	// DecisionNoop means the record was missing or already decided.
	DecisionNoop Decision = "noop"
)

// errNoop aborts the transaction without surfacing an error to the caller.
var errNoop = errors.New("moderation: nothing to do")

// TxRunner runs fn inside one database transaction.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type transitioner interface {
	Transition(ctx context.Context, id string, to domain.ModerationStatus) (bool, error)
}

// ModerationResult reports what a moderation call did.
type ModerationResult struct {
	Kind        domain.RecordKind `json:"kind"`
	ID          string            `json:"id"`
	Decision    Decision          `json:"decision"`
	PublishedID *string           `json:"publishedId,omitempty"`
}

// ModerationDependencies bundles repositories for the moderation service.
type ModerationDependencies struct {
	Tx          TxRunner
	Listings    repository.ListingRequestRepository
	Edits       repository.EditRequestRepository
	Claims      repository.ClaimRequestRepository
	JobSubs     repository.JobSubmissionRepository
	EventSubs   repository.EventSubmissionRepository
	NewsSubs    repository.NewsSubmissionRepository
	CharitySubs repository.CharitySubmissionRepository
	Businesses  repository.BusinessRepository
	Jobs        repository.JobRepository
	Events      repository.EventRepository
	News        repository.NewsRepository
	Charities   repository.CharityRepository
	Users       repository.UserRepository
	Dispatcher  events.Dispatcher
	Metrics     *observability.Metrics
	Logger      *zap.Logger
}

// ModerationService approves and rejects submissions and publishes the result
// into the catalog. Every approval runs in a single transaction that locks the
// submission row, so concurrent decisions on one record publish at most once.
type ModerationService struct {
	deps        ModerationDependencies
	transitions map[domain.RecordKind]transitioner
	logger      *zap.Logger
}

// NewModerationService constructs the service.
func NewModerationService(deps ModerationDependencies) *ModerationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ModerationService{
		deps: deps,
		transitions: map[domain.RecordKind]transitioner{
			domain.KindBusinessListing: deps.Listings,
			domain.KindBusinessEdit:    deps.Edits,
			domain.KindBusinessClaim:   deps.Claims,
			domain.KindJob:             deps.JobSubs,
			domain.KindEvent:           deps.EventSubs,
			domain.KindNews:            deps.NewsSubs,
			domain.KindCharity:         deps.CharitySubs,
		},
		logger: logger,
	}
}

// Approve publishes a Pending submission and marks it Approved. Missing or
// already decided records are a successful no-op.
func (s *ModerationService) Approve(ctx context.Context, kind domain.RecordKind, id string) (*ModerationResult, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	var (
		published *string
		err       error
	)
	switch kind {
	case domain.KindBusinessListing:
		published, err = approve(ctx, s.deps.Tx, s.deps.Listings, id, s.publishListing)
	case domain.KindBusinessEdit:
		published, err = approve(ctx, s.deps.Tx, s.deps.Edits, id, s.applyEdit)
	case domain.KindBusinessClaim:
		published, err = approve[domain.BusinessClaimRequest](ctx, s.deps.Tx, s.deps.Claims, id, s.grantClaim)
	case domain.KindJob:
		published, err = approve(ctx, s.deps.Tx, s.deps.JobSubs, id, s.publishJob)
	case domain.KindEvent:
		published, err = approve(ctx, s.deps.Tx, s.deps.EventSubs, id, s.publishEvent)
	case domain.KindNews:
		published, err = approve(ctx, s.deps.Tx, s.deps.NewsSubs, id, s.publishNews)
	case domain.KindCharity:
		published, err = approve(ctx, s.deps.Tx, s.deps.CharitySubs, id, s.publishCharity)
	default:
		return nil, domain.NewValidationError("kind", fmt.Sprintf("unknown record kind %q", kind))
	}
	if err != nil {
		s.logger.Error("approval failed", zap.String("kind", string(kind)), zap.String("id", id), zap.Error(err))
		return nil, err
	}

	result := &ModerationResult{Kind: kind, ID: id, Decision: DecisionNoop}
	if published != nil {
		result.Decision = DecisionApproved
		result.PublishedID = published
	}
	s.finish(ctx, result)
	return result, nil
}

// Reject marks a Pending submission Rejected. Missing or already decided
// records are a successful no-op.
func (s *ModerationService) Reject(ctx context.Context, kind domain.RecordKind, id string) (*ModerationResult, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	repo, ok := s.transitions[kind]
	if !ok {
		return nil, domain.NewValidationError("kind", fmt.Sprintf("unknown record kind %q", kind))
	}

	changed, err := repo.Transition(ctx, id, domain.StatusRejected)
	if err != nil {
		s.logger.Error("rejection failed", zap.String("kind", string(kind)), zap.String("id", id), zap.Error(err))
		return nil, err
	}

	result := &ModerationResult{Kind: kind, ID: id, Decision: DecisionNoop}
	if changed {
		result.Decision = DecisionRejected
	}
	s.finish(ctx, result)
	return result, nil
}

// SetFeatured toggles manual featuring on a published job or event.
func (s *ModerationService) SetFeatured(ctx context.Context, kind domain.EntityKind, id string, featured bool) error {
	if err := validateID(id); err != nil {
		return err
	}
	switch kind {
	case domain.EntityJob:
		return s.deps.Jobs.SetFeatured(ctx, id, featured)
	case domain.EntityEvent:
		return s.deps.Events.SetFeatured(ctx, id, featured)
	default:
		return domain.NewValidationError("kind", "only jobs and events can be featured")
	}
}

// SetVerified toggles the verified badge on a business.
func (s *ModerationService) SetVerified(ctx context.Context, id string, verified bool) error {
	if err := validateID(id); err != nil {
		return err
	}
	return s.deps.Businesses.SetVerified(ctx, id, verified)
}

// approve locks the submission, materializes it and flips it to Approved. It
// returns the id of the catalog row, or nil when there was nothing to do.
func approve[T domain.Moderatable](
	ctx context.Context,
	tx TxRunner,
	repo repository.SubmissionRepository[T],
	id string,
	materialize func(ctx context.Context, pending domain.Pending[T]) (string, error),
) (*string, error) {
	var published *string
	err := tx.RunInTx(ctx, func(ctx context.Context) error {
		record, err := repo.GetForUpdate(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			return errNoop
		}
		if err != nil {
			return err
		}

		pending, ok := domain.AsPending(*record)
		if !ok {
			return errNoop
		}

		publishedID, err := materialize(ctx, pending)
		if err != nil {
			return err
		}

		changed, err := repo.Transition(ctx, id, domain.StatusApproved)
		if err != nil {
			return err
		}
		if !changed {
			return errNoop
		}
		published = &publishedID
		return nil
	})
	if errors.Is(err, errNoop) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return published, nil
}

func (s *ModerationService) publishListing(ctx context.Context, pending domain.Pending[domain.BusinessListingRequest]) (string, error) {
	req := pending.Record()

	owner, err := s.resolveOwner(ctx, req.RequesterUserID, req.ContactEmail)
	if err != nil {
		return "", err
	}

	email := req.ContactEmail
	business := &domain.Business{
		Name:        req.BusinessName,
		Slug:        domain.BusinessSlug(req.BusinessName, req.ID),
		Summary:     domain.Summarize(req.Description),
		Description: req.Description,
		Category:    req.Category,
		Phone:       req.ContactPhone,
		Email:       &email,
		Website:     req.Website,
		Address:     fmt.Sprintf("%s, %s", req.Area, placeholderTown),
		Postcode:    placeholderPostcode,
		Area:        req.Area,
		Verified:    false,
		OwnerUserID: owner,
	}
	if err := s.deps.Businesses.Create(ctx, business); err != nil {
		return "", err
	}
	return business.ID, nil
}

// resolveOwner prefers the signed-in requester, then an account with the
// contact email. A nil result leaves the listing unowned until claimed.
func (s *ModerationService) resolveOwner(ctx context.Context, requesterID *string, contactEmail string) (*string, error) {
	if requesterID != nil && *requesterID != "" {
		user, err := s.deps.Users.GetByID(ctx, *requesterID)
		switch {
		case err == nil:
			return &user.ID, nil
		case !errors.Is(err, domain.ErrNotFound):
			return nil, err
		}
	}
	return s.deps.Users.FindIDByEmail(ctx, contactEmail)
}

func (s *ModerationService) applyEdit(ctx context.Context, pending domain.Pending[domain.BusinessEditRequest]) (string, error) {
	req := pending.Record()
	err := s.deps.Businesses.ApplyEdit(ctx, req.BusinessID, domain.BusinessEdit{
		Name:        req.Name,
		Summary:     req.Summary,
		Description: req.Description,
		Category:    req.Category,
		Phone:       req.Phone,
		Email:       req.Email,
		Website:     req.Website,
		Address:     req.Address,
		Postcode:    req.Postcode,
		Area:        req.Area,
	})
	if err != nil {
		return "", err
	}
	return req.BusinessID, nil
}

func (s *ModerationService) grantClaim(ctx context.Context, pending domain.Pending[domain.BusinessClaimRequest]) (string, error) {
	req := pending.Record()
	if err := s.deps.Businesses.SetOwner(ctx, req.BusinessID, req.UserID); err != nil {
		return "", err
	}
	return req.BusinessID, nil
}

func (s *ModerationService) publishJob(ctx context.Context, pending domain.Pending[domain.JobSubmission]) (string, error) {
	sub := pending.Record()

	businessID, err := s.deps.Businesses.FindIDByName(ctx, sub.Company)
	if err != nil {
		return "", err
	}

	job := &domain.Job{
		Title:      sub.Title,
		Company:    sub.Company,
		Summary:    sub.Summary,
		Type:       sub.Type,
		Salary:     sub.Salary,
		Location:   sub.Location,
		ApplyURL:   sub.ApplyURL,
		BusinessID: businessID,
	}
	if err := s.deps.Jobs.Create(ctx, job); err != nil {
		return "", err
	}
	return job.ID, nil
}

func (s *ModerationService) publishEvent(ctx context.Context, pending domain.Pending[domain.EventSubmission]) (string, error) {
	sub := pending.Record()

	businessID, err := s.deps.Businesses.FindIDByName(ctx, sub.Venue)
	if err != nil {
		return "", err
	}

	event := &domain.Event{
		Title:      sub.Title,
		Summary:    sub.Summary,
		Venue:      sub.Venue,
		Area:       sub.Area,
		StartsAt:   sub.StartsAt,
		EndsAt:     sub.EndsAt,
		Price:      sub.Price,
		BookingURL: sub.BookingURL,
		BusinessID: businessID,
	}
	if err := s.deps.Events.Create(ctx, event); err != nil {
		return "", err
	}
	return event.ID, nil
}

func (s *ModerationService) publishNews(ctx context.Context, pending domain.Pending[domain.NewsSubmission]) (string, error) {
	sub := pending.Record()
	article := &domain.NewsArticle{
		Title:     sub.Title,
		Summary:   sub.Summary,
		Body:      sub.Body,
		Source:    sub.Source,
		SourceURL: sub.SourceURL,
		Area:      sub.Area,
	}
	if err := s.deps.News.Create(ctx, article); err != nil {
		return "", err
	}
	return article.ID, nil
}

func (s *ModerationService) publishCharity(ctx context.Context, pending domain.Pending[domain.CharitySubmission]) (string, error) {
	sub := pending.Record()
	charity := &domain.Charity{
		Name:    sub.Name,
		Summary: sub.Summary,
		Mission: sub.Mission,
		Area:    sub.Area,
		Website: sub.Website,
		Email:   sub.Email,
		Phone:   sub.Phone,
	}
	if err := s.deps.Charities.Create(ctx, charity); err != nil {
		return "", err
	}
	return charity.ID, nil
}

func (s *ModerationService) finish(ctx context.Context, result *ModerationResult) {
	s.deps.Metrics.RecordModeration(string(result.Kind), string(result.Decision))

	var eventType events.EventType
	var status domain.ModerationStatus
	switch result.Decision {
	case DecisionApproved:
		eventType, status = events.EventSubmissionApproved, domain.StatusApproved
	case DecisionRejected:
		eventType, status = events.EventSubmissionRejected, domain.StatusRejected
	default:
		s.logger.Debug("moderation no-op", zap.String("kind", string(result.Kind)), zap.String("id", result.ID))
		return
	}

	publish(ctx, s.deps.Dispatcher, s.logger, events.Event{
		Type:      eventType,
		Kind:      string(result.Kind),
		SubjectID: result.ID,
		Payload: events.SubmissionDecidedPayload{
			Status:      status,
			PublishedID: result.PublishedID,
		},
	})
}

func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%q: %w", id, domain.ErrInvalidID)
	}
	return nil
}

// publish fills event metadata and dispatches it. Handler failures are logged.
func publish(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, event events.Event) {
	if dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if err := dispatcher.Publish(ctx, event); err != nil {
		logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
