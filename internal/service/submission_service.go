package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/community-directory/internal/domain"
	"github.com/spec-kit/community-directory/internal/events"
	"github.com/spec-kit/community-directory/internal/repository"
)

// ListingRequestInput is the public "list my business" form.
type ListingRequestInput struct {
	BusinessName      string `json:"businessName" validate:"required,min=2"`
	ContactName       string `json:"contactName" validate:"required,min=2"`
	ContactEmail      string `json:"contactEmail" validate:"required,email"`
	ContactPhone      string `json:"contactPhone" validate:"omitempty,min=7"`
	Website           string `json:"website" validate:"omitempty,http_url"`
	Category          string `json:"category" validate:"required,min=2"`
	Area              string `json:"area" validate:"required,min=2"`
	Description       string `json:"description" validate:"required,min=30"`
	PreferredCallTime string `json:"preferredCallTime"`
}

// EditRequestInput proposes new values for an owned listing.
type EditRequestInput struct {
	Name        string `json:"name" validate:"required,min=2"`
	Summary     string `json:"summary" validate:"required,min=20"`
	Description string `json:"description" validate:"required,min=40"`
	Category    string `json:"category" validate:"required,min=2"`
	Phone       string `json:"phone"`
	Email       string `json:"email" validate:"omitempty,email"`
	Website     string `json:"website" validate:"omitempty,http_url"`
	Address     string `json:"address" validate:"required,min=5"`
	Postcode    string `json:"postcode" validate:"required,min=4"`
	Area        string `json:"area" validate:"required,min=2"`
}

// ClaimInput accompanies an ownership claim.
type ClaimInput struct {
	Note string `json:"note" validate:"omitempty,max=2000"`
}

// JobInput is the public vacancy form.
type JobInput struct {
	Title        string `json:"title" validate:"required,min=3"`
	Company      string `json:"company" validate:"required,min=2"`
	Summary      string `json:"summary" validate:"required,min=16"`
	Type         string `json:"type" validate:"required,min=2"`
	Salary       string `json:"salary"`
	Location     string `json:"location" validate:"required,min=2"`
	ApplyURL     string `json:"applyUrl" validate:"omitempty,http_url"`
	ContactEmail string `json:"contactEmail" validate:"required,email"`
}

// EventInput is the public event form. Times are RFC 3339.
type EventInput struct {
	Title        string `json:"title" validate:"required,min=3"`
	Summary      string `json:"summary" validate:"required,min=16"`
	Venue        string `json:"venue" validate:"required,min=2"`
	Area         string `json:"area" validate:"required,min=2"`
	StartsAt     string `json:"startsAt" validate:"required"`
	EndsAt       string `json:"endsAt"`
	Price        string `json:"price"`
	BookingURL   string `json:"bookingUrl" validate:"omitempty,http_url"`
	ContactEmail string `json:"contactEmail" validate:"required,email"`
}

// NewsInput is the public story form.
type NewsInput struct {
	Title        string `json:"title" validate:"required,min=4"`
	Summary      string `json:"summary" validate:"required,min=16"`
	Body         string `json:"body" validate:"required,min=40"`
	Source       string `json:"source" validate:"required,min=2"`
	SourceURL    string `json:"sourceUrl" validate:"omitempty,http_url"`
	Area         string `json:"area" validate:"required,min=2"`
	ContactEmail string `json:"contactEmail" validate:"required,email"`
}

// CharityInput is the public charity form.
type CharityInput struct {
	Name         string `json:"name" validate:"required,min=2"`
	Summary      string `json:"summary" validate:"required,min=16"`
	Mission      string `json:"mission" validate:"required,min=24"`
	Area         string `json:"area" validate:"required,min=2"`
	Website      string `json:"website" validate:"omitempty,http_url"`
	Email        string `json:"email" validate:"omitempty,email"`
	Phone        string `json:"phone"`
	ContactEmail string `json:"contactEmail" validate:"required,email"`
}

// PlanInterestInput is the "talk to us about a plan" form.
type PlanInterestInput struct {
	Plan         string `json:"plan" validate:"required,min=2"`
	Company      string `json:"company" validate:"required,min=2"`
	ContactName  string `json:"contactName" validate:"required,min=2"`
	ContactEmail string `json:"contactEmail" validate:"required,email"`
	Notes        string `json:"notes"`
}

// SubmissionDependencies bundles repositories for the intake service.
type SubmissionDependencies struct {
	Listings      repository.ListingRequestRepository
	Edits         repository.EditRequestRepository
	Claims        repository.ClaimRequestRepository
	JobSubs       repository.JobSubmissionRepository
	EventSubs     repository.EventSubmissionRepository
	NewsSubs      repository.NewsSubmissionRepository
	CharitySubs   repository.CharitySubmissionRepository
	Businesses    repository.BusinessRepository
	PlanInterests repository.PlanInterestRepository
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
}

// SubmissionService validates public forms and stores them as Pending records.
type SubmissionService struct {
	deps   SubmissionDependencies
	logger *zap.Logger
}

// NewSubmissionService constructs the service.
func NewSubmissionService(deps SubmissionDependencies) *SubmissionService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubmissionService{deps: deps, logger: logger}
}

// SubmitListing stores a listing request. requester is the signed-in user, if any.
func (s *SubmissionService) SubmitListing(ctx context.Context, requester *string, in ListingRequestInput) (*domain.BusinessListingRequest, error) {
	trimAll(&in)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	req := &domain.BusinessListingRequest{
		BusinessName:      in.BusinessName,
		ContactName:       in.ContactName,
		ContactEmail:      strings.ToLower(in.ContactEmail),
		ContactPhone:      optional(in.ContactPhone),
		Website:           optional(in.Website),
		Category:          in.Category,
		Area:              in.Area,
		Description:       in.Description,
		PreferredCallTime: optional(in.PreferredCallTime),
		RequesterUserID:   requester,
	}
	if err := s.deps.Listings.Create(ctx, req); err != nil {
		return nil, err
	}
	s.received(ctx, domain.KindBusinessListing, req.ID, requester, req.BusinessName, req.ContactEmail)
	return req, nil
}

// RequestEdit files an edit for a listing the caller owns.
func (s *SubmissionService) RequestEdit(ctx context.Context, userID, businessID string, in EditRequestInput) (*domain.BusinessEditRequest, error) {
	if err := validateID(businessID); err != nil {
		return nil, err
	}
	trimAll(&in)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	business, err := s.deps.Businesses.GetByID(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if business.OwnerUserID == nil || *business.OwnerUserID != userID {
		return nil, domain.ErrForbidden
	}

	req := &domain.BusinessEditRequest{
		BusinessID:  business.ID,
		OwnerUserID: userID,
		Name:        in.Name,
		Summary:     in.Summary,
		Description: in.Description,
		Category:    in.Category,
		Phone:       optional(in.Phone),
		Email:       optional(strings.ToLower(in.Email)),
		Website:     optional(in.Website),
		Address:     in.Address,
		Postcode:    strings.ToUpper(in.Postcode),
		Area:        in.Area,
	}
	if err := s.deps.Edits.Create(ctx, req); err != nil {
		return nil, err
	}
	s.received(ctx, domain.KindBusinessEdit, req.ID, &userID, req.Name, "")
	return req, nil
}

// Claim asks for ownership of a listing. Owners and callers with a Pending
// claim on the same listing are turned away.
func (s *SubmissionService) Claim(ctx context.Context, userID, businessID string, in ClaimInput) (*domain.BusinessClaimRequest, error) {
	if err := validateID(businessID); err != nil {
		return nil, err
	}
	trimAll(&in)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	business, err := s.deps.Businesses.GetByID(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if business.OwnerUserID != nil && *business.OwnerUserID == userID {
		return nil, domain.NewFormError("You already manage this listing.")
	}

	pending, err := s.deps.Claims.HasPending(ctx, businessID, userID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, domain.NewFormError("You already have a claim waiting for review.")
	}

	req := &domain.BusinessClaimRequest{
		BusinessID: businessID,
		UserID:     userID,
		Note:       optional(in.Note),
	}
	if err := s.deps.Claims.Create(ctx, req); err != nil {
		return nil, err
	}
	s.received(ctx, domain.KindBusinessClaim, req.ID, &userID, business.Name, "")
	return req, nil
}

// SubmitJob stores a vacancy for review.
func (s *SubmissionService) SubmitJob(ctx context.Context, submitter *string, in JobInput) (*domain.JobSubmission, error) {
	trimAll(&in)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	sub := &domain.JobSubmission{
		Title:           in.Title,
		Company:         in.Company,
		Summary:         in.Summary,
		Type:            in.Type,
		Salary:          optional(in.Salary),
		Location:        in.Location,
		ApplyURL:        optional(in.ApplyURL),
		ContactEmail:    strings.ToLower(in.ContactEmail),
		SubmitterUserID: submitter,
	}
	if err := s.deps.JobSubs.Create(ctx, sub); err != nil {
		return nil, err
	}
	s.received(ctx, domain.KindJob, sub.ID, submitter, sub.Title, sub.ContactEmail)
	return sub, nil
}

// SubmitEvent stores an event for review.
func (s *SubmissionService) SubmitEvent(ctx context.Context, submitter *string, in EventInput) (*domain.EventSubmission, error) {
	trimAll(&in)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	startsAt, err := time.Parse(time.RFC3339, in.StartsAt)
	if err != nil {
		return nil, domain.NewValidationError("startsAt", "Enter a valid start date and time.")
	}
	var endsAt *time.Time
	if in.EndsAt != "" {
		parsed, err := time.Parse(time.RFC3339, in.EndsAt)
		if err != nil {
			return nil, domain.NewValidationError("endsAt", "Enter a valid end date and time.")
		}
		if parsed.Before(startsAt) {
			return nil, domain.NewValidationError("endsAt", "The event cannot end before it starts.")
		}
		endsAt = &parsed
	}

	sub := &domain.EventSubmission{
		Title:           in.Title,
		Summary:         in.Summary,
		Venue:           in.Venue,
		Area:            in.Area,
		StartsAt:        startsAt,
		EndsAt:          endsAt,
		Price:           optional(in.Price),
		BookingURL:      optional(in.BookingURL),
		ContactEmail:    strings.ToLower(in.ContactEmail),
		SubmitterUserID: submitter,
	}
	if err := s.deps.EventSubs.Create(ctx, sub); err != nil {
		return nil, err
	}
	s.received(ctx, domain.KindEvent, sub.ID, submitter, sub.Title, sub.ContactEmail)
	return sub, nil
}

// SubmitNews stores a story for review.
func (s *SubmissionService) SubmitNews(ctx context.Context, submitter *string, in NewsInput) (*domain.NewsSubmission, error) {
	trimAll(&in)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	sub := &domain.NewsSubmission{
		Title:           in.Title,
		Summary:         in.Summary,
		Body:            in.Body,
		Source:          in.Source,
		SourceURL:       optional(in.SourceURL),
		Area:            in.Area,
		ContactEmail:    strings.ToLower(in.ContactEmail),
		SubmitterUserID: submitter,
	}
	if err := s.deps.NewsSubs.Create(ctx, sub); err != nil {
		return nil, err
	}
	s.received(ctx, domain.KindNews, sub.ID, submitter, sub.Title, sub.ContactEmail)
	return sub, nil
}

// SubmitCharity stores a charity for review.
func (s *SubmissionService) SubmitCharity(ctx context.Context, submitter *string, in CharityInput) (*domain.CharitySubmission, error) {
	trimAll(&in)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	sub := &domain.CharitySubmission{
		Name:            in.Name,
		Summary:         in.Summary,
		Mission:         in.Mission,
		Area:            in.Area,
		Website:         optional(in.Website),
		Email:           optional(strings.ToLower(in.Email)),
		Phone:           optional(in.Phone),
		ContactEmail:    strings.ToLower(in.ContactEmail),
		SubmitterUserID: submitter,
	}
	if err := s.deps.CharitySubs.Create(ctx, sub); err != nil {
		return nil, err
	}
	s.received(ctx, domain.KindCharity, sub.ID, submitter, sub.Name, sub.ContactEmail)
	return sub, nil
}

// RegisterPlanInterest records a plan enquiry. It is not moderated.
func (s *SubmissionService) RegisterPlanInterest(ctx context.Context, in PlanInterestInput) (*domain.PlanInterest, error) {
	trimAll(&in)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	interest := &domain.PlanInterest{
		Plan:         in.Plan,
		Company:      in.Company,
		ContactName:  in.ContactName,
		ContactEmail: strings.ToLower(in.ContactEmail),
		Notes:        optional(in.Notes),
	}
	if err := s.deps.PlanInterests.Create(ctx, interest); err != nil {
		return nil, err
	}
	return interest, nil
}

func (s *SubmissionService) received(ctx context.Context, kind domain.RecordKind, id string, actor *string, title, contactEmail string) {
	publish(ctx, s.deps.Dispatcher, s.logger, events.Event{
		Type:      events.EventSubmissionReceived,
		Kind:      string(kind),
		SubjectID: id,
		Actor:     events.Actor{UserID: actor},
		Payload: events.SubmissionReceivedPayload{
			Title:        title,
			ContactEmail: contactEmail,
		},
	})
}
