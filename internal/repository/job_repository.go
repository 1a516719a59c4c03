package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/community-directory/internal/domain"
)

// JobRepository defines persistence access for published jobs.
type JobRepository interface {
	Create(ctx context.Context, job *domain.Job) error
	GetByID(ctx context.Context, id string) (*domain.Job, error)
	SetFeatured(ctx context.Context, id string, featured bool) error
	List(ctx context.Context, filter CatalogFilter) ([]domain.Job, error)
}

type jobRepository struct {
	db DB
}

// NewJobRepository returns a Postgres-backed implementation.
func NewJobRepository(db DB) JobRepository {
	return &jobRepository{db: db}
}

const featuredOwnerTier = "COALESCE(u.tier, 'Free')"

func jobQuery() sq.SelectBuilder {
	return psql.Select(
		"j.id", "j.title", "j.company", "j.summary", "j.type", "j.salary", "j.location",
		"j.apply_url", "j.manually_featured", "j.business_id",
		featuredOwnerTier+" AS owner_tier", "j.created_at",
	).
		From("jobs j").
		LeftJoin("businesses b ON b.id = j.business_id").
		LeftJoin("users u ON u.id = b.owner_user_id")
}

func (r *jobRepository) Create(ctx context.Context, job *domain.Job) error {
	const query = `
        INSERT INTO jobs (title, company, summary, type, salary, location, apply_url, manually_featured, business_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id, created_at`

	err := QuerierFromCtx(ctx, r.db).QueryRow(ctx, query,
		job.Title,
		job.Company,
		job.Summary,
		job.Type,
		job.Salary,
		job.Location,
		job.ApplyURL,
		job.ManuallyFeatured,
		job.BusinessID,
	).Scan(&job.ID, &job.CreatedAt)
	return mapError(err, "job", job.Title)
}

func (r *jobRepository) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	query, args, err := jobQuery().Where(sq.Eq{"j.id": id}).Limit(1).ToSql()
	if err != nil {
		return nil, err
	}

	var jobs []domain.Job
	if err := pgxscan.Select(ctx, QuerierFromCtx(ctx, r.db), &jobs, query, args...); err != nil {
		return nil, mapError(err, "job", id)
	}
	if len(jobs) == 0 {
		return nil, mapError(pgx.ErrNoRows, "job", id)
	}
	return &jobs[0], nil
}

func (r *jobRepository) SetFeatured(ctx context.Context, id string, featured bool) error {
	tag, err := QuerierFromCtx(ctx, r.db).Exec(ctx,
		`UPDATE jobs SET manually_featured = $1 WHERE id = $2`, featured, id)
	if err != nil {
		return mapError(err, "job", id)
	}
	return requireOneRow(tag, "job", id)
}

// List puts featured jobs first, newest first within each group.
func (r *jobRepository) List(ctx context.Context, filter CatalogFilter) ([]domain.Job, error) {
	qb := jobQuery()
	if filter.Category != "" {
		qb = qb.Where(sq.Eq{"j.type": filter.Category})
	}
	if filter.Area != "" {
		qb = qb.Where(sq.ILike{"j.location": "%" + filter.Area + "%"})
	}
	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		qb = qb.Where(sq.Or{sq.ILike{"j.title": like}, sq.ILike{"j.company": like}, sq.ILike{"j.summary": like}})
	}

	query, args, err := qb.
		OrderBy("CASE WHEN j.manually_featured OR "+featuredOwnerTier+" <> 'Free' THEN 0 ELSE 1 END", "j.created_at DESC").
		Limit(uint64(clampLimit(filter.Limit, 50, 200))).
		Offset(uint64(max(filter.Offset, 0))).
		ToSql()
	if err != nil {
		return nil, err
	}

	var jobs []domain.Job
	if err := pgxscan.Select(ctx, QuerierFromCtx(ctx, r.db), &jobs, query, args...); err != nil {
		return nil, mapError(err, "jobs", "list")
	}
	return jobs, nil
}
