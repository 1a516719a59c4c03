package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/community-directory/internal/domain"
)

// SubmissionRepository is the storage contract shared by every moderatable record.
type SubmissionRepository[T domain.Moderatable] interface {
	Create(ctx context.Context, record *T) error
	// GetForUpdate locks the row for the surrounding transaction.
	GetForUpdate(ctx context.Context, id string) (*T, error)
	// Transition moves a Pending row to status and reports whether a row changed.
	Transition(ctx context.Context, id string, to domain.ModerationStatus) (bool, error)
	ListByStatus(ctx context.Context, status domain.ModerationStatus, limit int) ([]T, error)
}

// submissionTable implements the status oriented half of SubmissionRepository.
type submissionTable[T domain.Moderatable] struct {
	db      DB
	table   string
	entity  string
	columns []string
}

func (s submissionTable[T]) GetForUpdate(ctx context.Context, id string) (*T, error) {
	query, args, err := psql.Select(s.columns...).
		From(s.table).
		Where(sq.Eq{"id": id}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, err
	}

	var records []T
	if err := pgxscan.Select(ctx, QuerierFromCtx(ctx, s.db), &records, query, args...); err != nil {
		return nil, mapError(err, s.entity, id)
	}
	if len(records) == 0 {
		return nil, mapError(pgx.ErrNoRows, s.entity, id)
	}
	return &records[0], nil
}

func (s submissionTable[T]) Transition(ctx context.Context, id string, to domain.ModerationStatus) (bool, error) {
	if !to.Terminal() {
		return false, fmt.Errorf("%s %s: cannot transition to %s", s.entity, id, to)
	}

	query, args, err := psql.Update(s.table).
		Set("status", string(to)).
		Where(sq.Eq{"id": id}).
		Where(sq.Eq{"status": string(domain.StatusPending)}).
		ToSql()
	if err != nil {
		return false, err
	}

	tag, err := QuerierFromCtx(ctx, s.db).Exec(ctx, query, args...)
	if err != nil {
		return false, mapError(err, s.entity, id)
	}
	return tag.RowsAffected() == 1, nil
}

func (s submissionTable[T]) ListByStatus(ctx context.Context, status domain.ModerationStatus, limit int) ([]T, error) {
	query, args, err := psql.Select(s.columns...).
		From(s.table).
		Where(sq.Eq{"status": string(status)}).
		OrderBy("created_at ASC").
		Limit(uint64(clampLimit(limit, 100, 500))).
		ToSql()
	if err != nil {
		return nil, err
	}

	var records []T
	if err := pgxscan.Select(ctx, QuerierFromCtx(ctx, s.db), &records, query, args...); err != nil {
		return nil, mapError(err, s.entity, string(status))
	}
	return records, nil
}

// ListingRequestRepository stores business listing requests.
type ListingRequestRepository = SubmissionRepository[domain.BusinessListingRequest]

type listingRequestRepository struct {
	submissionTable[domain.BusinessListingRequest]
}

// NewListingRequestRepository returns a Postgres-backed implementation.
func NewListingRequestRepository(db DB) ListingRequestRepository {
	return &listingRequestRepository{submissionTable[domain.BusinessListingRequest]{
		db:     db,
		table:  "business_listing_requests",
		entity: "listing request",
		columns: []string{"id", "business_name", "contact_name", "contact_email", "contact_phone",
			"website", "category", "area", "description", "preferred_call_time", "requester_user_id",
			"status", "created_at"},
	}}
}

func (r *listingRequestRepository) Create(ctx context.Context, req *domain.BusinessListingRequest) error {
	const query = `
        INSERT INTO business_listing_requests (business_name, contact_name, contact_email, contact_phone,
            website, category, area, description, preferred_call_time, requester_user_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING id, status, created_at`

	err := QuerierFromCtx(ctx, r.db).QueryRow(ctx, query,
		req.BusinessName,
		req.ContactName,
		req.ContactEmail,
		req.ContactPhone,
		req.Website,
		req.Category,
		req.Area,
		req.Description,
		req.PreferredCallTime,
		req.RequesterUserID,
	).Scan(&req.ID, &req.Status, &req.CreatedAt)
	return mapError(err, r.entity, req.BusinessName)
}

// EditRequestRepository stores owner edit requests.
type EditRequestRepository = SubmissionRepository[domain.BusinessEditRequest]

type editRequestRepository struct {
	submissionTable[domain.BusinessEditRequest]
}

// NewEditRequestRepository returns a Postgres-backed implementation.
func NewEditRequestRepository(db DB) EditRequestRepository {
	return &editRequestRepository{submissionTable[domain.BusinessEditRequest]{
		db:     db,
		table:  "business_edit_requests",
		entity: "edit request",
		columns: []string{"id", "business_id", "owner_user_id", "name", "summary", "description",
			"category", "phone", "email", "website", "address", "postcode", "area", "status", "created_at"},
	}}
}

func (r *editRequestRepository) Create(ctx context.Context, req *domain.BusinessEditRequest) error {
	const query = `
        INSERT INTO business_edit_requests (business_id, owner_user_id, name, summary, description,
            category, phone, email, website, address, postcode, area)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        RETURNING id, status, created_at`

	err := QuerierFromCtx(ctx, r.db).QueryRow(ctx, query,
		req.BusinessID,
		req.OwnerUserID,
		req.Name,
		req.Summary,
		req.Description,
		req.Category,
		req.Phone,
		req.Email,
		req.Website,
		req.Address,
		req.Postcode,
		req.Area,
	).Scan(&req.ID, &req.Status, &req.CreatedAt)
	return mapError(err, r.entity, req.BusinessID)
}

// ClaimRequestRepository stores ownership claims.
type ClaimRequestRepository interface {
	SubmissionRepository[domain.BusinessClaimRequest]
	HasPending(ctx context.Context, businessID, userID string) (bool, error)
}

type claimRequestRepository struct {
	submissionTable[domain.BusinessClaimRequest]
}

// NewClaimRequestRepository returns a Postgres-backed implementation.
func NewClaimRequestRepository(db DB) ClaimRequestRepository {
	return &claimRequestRepository{submissionTable[domain.BusinessClaimRequest]{
		db:      db,
		table:   "business_claim_requests",
		entity:  "claim request",
		columns: []string{"id", "business_id", "user_id", "note", "status", "created_at"},
	}}
}

func (r *claimRequestRepository) Create(ctx context.Context, req *domain.BusinessClaimRequest) error {
	const query = `
        INSERT INTO business_claim_requests (business_id, user_id, note)
        VALUES ($1, $2, $3)
        RETURNING id, status, created_at`

	err := QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, req.BusinessID, req.UserID, req.Note).
		Scan(&req.ID, &req.Status, &req.CreatedAt)
	return mapError(err, r.entity, req.BusinessID)
}

func (r *claimRequestRepository) HasPending(ctx context.Context, businessID, userID string) (bool, error) {
	const query = `
        SELECT EXISTS (
            SELECT 1 FROM business_claim_requests
            WHERE business_id = $1 AND user_id = $2 AND status = 'Pending'
        )`

	var exists bool
	if err := QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, businessID, userID).Scan(&exists); err != nil {
		return false, mapError(err, r.entity, businessID)
	}
	return exists, nil
}

// JobSubmissionRepository stores pending vacancies.
type JobSubmissionRepository = SubmissionRepository[domain.JobSubmission]

type jobSubmissionRepository struct {
	submissionTable[domain.JobSubmission]
}

// NewJobSubmissionRepository returns a Postgres-backed implementation.
func NewJobSubmissionRepository(db DB) JobSubmissionRepository {
	return &jobSubmissionRepository{submissionTable[domain.JobSubmission]{
		db:     db,
		table:  "job_submissions",
		entity: "job submission",
		columns: []string{"id", "title", "company", "summary", "type", "salary", "location", "apply_url",
			"contact_email", "submitter_user_id", "status", "created_at"},
	}}
}

func (r *jobSubmissionRepository) Create(ctx context.Context, sub *domain.JobSubmission) error {
	const query = `
        INSERT INTO job_submissions (title, company, summary, type, salary, location, apply_url,
            contact_email, submitter_user_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id, status, created_at`

	err := QuerierFromCtx(ctx, r.db).QueryRow(ctx, query,
		sub.Title,
		sub.Company,
		sub.Summary,
		sub.Type,
		sub.Salary,
		sub.Location,
		sub.ApplyURL,
		sub.ContactEmail,
		sub.SubmitterUserID,
	).Scan(&sub.ID, &sub.Status, &sub.CreatedAt)
	return mapError(err, r.entity, sub.Title)
}

// EventSubmissionRepository stores pending events.
type EventSubmissionRepository = SubmissionRepository[domain.EventSubmission]

type eventSubmissionRepository struct {
	submissionTable[domain.EventSubmission]
}

// NewEventSubmissionRepository returns a Postgres-backed implementation.
func NewEventSubmissionRepository(db DB) EventSubmissionRepository {
	return &eventSubmissionRepository{submissionTable[domain.EventSubmission]{
		db:     db,
		table:  "event_submissions",
		entity: "event submission",
		columns: []string{"id", "title", "summary", "venue", "area", "starts_at", "ends_at", "price",
			"booking_url", "contact_email", "submitter_user_id", "status", "created_at"},
	}}
}

func (r *eventSubmissionRepository) Create(ctx context.Context, sub *domain.EventSubmission) error {
	const query = `
        INSERT INTO event_submissions (title, summary, venue, area, starts_at, ends_at, price,
            booking_url, contact_email, submitter_user_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING id, status, created_at`

	err := QuerierFromCtx(ctx, r.db).QueryRow(ctx, query,
		sub.Title,
		sub.Summary,
		sub.Venue,
		sub.Area,
		sub.StartsAt,
		sub.EndsAt,
		sub.Price,
		sub.BookingURL,
		sub.ContactEmail,
		sub.SubmitterUserID,
	).Scan(&sub.ID, &sub.Status, &sub.CreatedAt)
	return mapError(err, r.entity, sub.Title)
}

// NewsSubmissionRepository stores pending stories.
type NewsSubmissionRepository = SubmissionRepository[domain.NewsSubmission]

type newsSubmissionRepository struct {
	submissionTable[domain.NewsSubmission]
}

// NewNewsSubmissionRepository returns a Postgres-backed implementation.
func NewNewsSubmissionRepository(db DB) NewsSubmissionRepository {
	return &newsSubmissionRepository{submissionTable[domain.NewsSubmission]{
		db:     db,
		table:  "news_submissions",
		entity: "news submission",
		columns: []string{"id", "title", "summary", "body", "source", "source_url", "area",
			"contact_email", "submitter_user_id", "status", "created_at"},
	}}
}

func (r *newsSubmissionRepository) Create(ctx context.Context, sub *domain.NewsSubmission) error {
	const query = `
        INSERT INTO news_submissions (title, summary, body, source, source_url, area,
            contact_email, submitter_user_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, status, created_at`

	err := QuerierFromCtx(ctx, r.db).QueryRow(ctx, query,
		sub.Title,
		sub.Summary,
		sub.Body,
		sub.Source,
		sub.SourceURL,
		sub.Area,
		sub.ContactEmail,
		sub.SubmitterUserID,
	).Scan(&sub.ID, &sub.Status, &sub.CreatedAt)
	return mapError(err, r.entity, sub.Title)
}

// CharitySubmissionRepository stores pending charities.
type CharitySubmissionRepository = SubmissionRepository[domain.CharitySubmission]

type charitySubmissionRepository struct {
	submissionTable[domain.CharitySubmission]
}

// NewCharitySubmissionRepository returns a Postgres-backed implementation.
func NewCharitySubmissionRepository(db DB) CharitySubmissionRepository {
	return &charitySubmissionRepository{submissionTable[domain.CharitySubmission]{
		db:     db,
		table:  "charity_submissions",
		entity: "charity submission",
		columns: []string{"id", "name", "summary", "mission", "area", "website", "email", "phone",
			"contact_email", "submitter_user_id", "status", "created_at"},
	}}
}

func (r *charitySubmissionRepository) Create(ctx context.Context, sub *domain.CharitySubmission) error {
	const query = `
        INSERT INTO charity_submissions (name, summary, mission, area, website, email, phone,
            contact_email, submitter_user_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id, status, created_at`

	err := QuerierFromCtx(ctx, r.db).QueryRow(ctx, query,
		sub.Name,
		sub.Summary,
		sub.Mission,
		sub.Area,
		sub.Website,
		sub.Email,
		sub.Phone,
		sub.ContactEmail,
		sub.SubmitterUserID,
	).Scan(&sub.ID, &sub.Status, &sub.CreatedAt)
	return mapError(err, r.entity, sub.Name)
}
