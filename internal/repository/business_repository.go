package repository

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/community-directory/internal/domain"
)

// CatalogFilter narrows public catalog listings.
type CatalogFilter struct {
	Category string
	Area     string
	Query    string
	Limit    int
	Offset   int
}

// BusinessRepository defines persistence access for published businesses.
type BusinessRepository interface {
	Create(ctx context.Context, business *domain.Business) error
	GetByID(ctx context.Context, id string) (*domain.Business, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Business, error)
	FindIDByName(ctx context.Context, name string) (*string, error)
	ApplyEdit(ctx context.Context, id string, edit domain.BusinessEdit) error
	SetOwner(ctx context.Context, id, userID string) error
	SetVerified(ctx context.Context, id string, verified bool) error
	List(ctx context.Context, filter CatalogFilter) ([]domain.Business, error)
	ListByOwner(ctx context.Context, userID string) ([]domain.Business, error)
}

type businessRepository struct {
	db DB
}

// NewBusinessRepository returns a Postgres-backed implementation.
func NewBusinessRepository(db DB) BusinessRepository {
	return &businessRepository{db: db}
}

var businessSelect = []string{
	"b.id", "b.name", "b.slug", "b.summary", "b.description", "b.category",
	"b.phone", "b.email", "b.website", "b.address", "b.postcode", "b.area",
	"b.verified", "b.owner_user_id", "COALESCE(u.tier, 'Free') AS owner_tier",
	"b.created_at", "b.updated_at",
}

func businessQuery() sq.SelectBuilder {
	return psql.Select(businessSelect...).
		From("businesses b").
		LeftJoin("users u ON u.id = b.owner_user_id")
}

func (r *businessRepository) Create(ctx context.Context, business *domain.Business) error {
	const query = `
        INSERT INTO businesses (name, slug, summary, description, category, phone, email, website,
            address, postcode, area, verified, owner_user_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
        RETURNING id, created_at, updated_at`

	err := QuerierFromCtx(ctx, r.db).QueryRow(ctx, query,
		business.Name,
		business.Slug,
		business.Summary,
		business.Description,
		business.Category,
		business.Phone,
		business.Email,
		business.Website,
		business.Address,
		business.Postcode,
		business.Area,
		business.Verified,
		business.OwnerUserID,
	).Scan(&business.ID, &business.CreatedAt, &business.UpdatedAt)
	return mapError(err, "business", business.Slug)
}

func (r *businessRepository) GetByID(ctx context.Context, id string) (*domain.Business, error) {
	return r.getOne(ctx, sq.Eq{"b.id": id}, id)
}

func (r *businessRepository) GetBySlug(ctx context.Context, slug string) (*domain.Business, error) {
	return r.getOne(ctx, sq.Eq{"b.slug": slug}, slug)
}

func (r *businessRepository) getOne(ctx context.Context, where sq.Eq, key string) (*domain.Business, error) {
	query, args, err := businessQuery().Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, err
	}

	var businesses []domain.Business
	if err := pgxscan.Select(ctx, QuerierFromCtx(ctx, r.db), &businesses, query, args...); err != nil {
		return nil, mapError(err, "business", key)
	}
	if len(businesses) == 0 {
		return nil, mapError(pgx.ErrNoRows, "business", key)
	}
	return &businesses[0], nil
}

// FindIDByName returns the oldest business with exactly this name, or nil.
func (r *businessRepository) FindIDByName(ctx context.Context, name string) (*string, error) {
	const query = `SELECT id FROM businesses WHERE name = $1 ORDER BY created_at ASC, id ASC LIMIT 1`

	var id string
	err := QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, name).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError(err, "business", name)
	}
	return &id, nil
}

func (r *businessRepository) ApplyEdit(ctx context.Context, id string, edit domain.BusinessEdit) error {
	const query = `
        UPDATE businesses
        SET name = $1, summary = $2, description = $3, category = $4, phone = $5, email = $6,
            website = $7, address = $8, postcode = $9, area = $10, updated_at = NOW()
        WHERE id = $11`

	tag, err := QuerierFromCtx(ctx, r.db).Exec(ctx, query,
		edit.Name,
		edit.Summary,
		edit.Description,
		edit.Category,
		edit.Phone,
		edit.Email,
		edit.Website,
		edit.Address,
		edit.Postcode,
		edit.Area,
		id,
	)
	if err != nil {
		return mapError(err, "business", id)
	}
	return requireOneRow(tag, "business", id)
}

func (r *businessRepository) SetOwner(ctx context.Context, id, userID string) error {
	const query = `UPDATE businesses SET owner_user_id = $1, updated_at = NOW() WHERE id = $2`

	tag, err := QuerierFromCtx(ctx, r.db).Exec(ctx, query, userID, id)
	if err != nil {
		return mapError(err, "business", id)
	}
	return requireOneRow(tag, "business", id)
}

func (r *businessRepository) SetVerified(ctx context.Context, id string, verified bool) error {
	const query = `UPDATE businesses SET verified = $1, updated_at = NOW() WHERE id = $2`

	tag, err := QuerierFromCtx(ctx, r.db).Exec(ctx, query, verified, id)
	if err != nil {
		return mapError(err, "business", id)
	}
	return requireOneRow(tag, "business", id)
}

// List returns paid-tier listings first, then verified ones, then by name.
func (r *businessRepository) List(ctx context.Context, filter CatalogFilter) ([]domain.Business, error) {
	qb := businessQuery()
	if filter.Category != "" {
		qb = qb.Where(sq.Eq{"b.category": filter.Category})
	}
	if filter.Area != "" {
		qb = qb.Where(sq.Eq{"b.area": filter.Area})
	}
	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		qb = qb.Where(sq.Or{sq.ILike{"b.name": like}, sq.ILike{"b.summary": like}, sq.ILike{"b.category": like}})
	}

	query, args, err := qb.
		OrderBy("CASE WHEN COALESCE(u.tier, 'Free') <> 'Free' THEN 0 ELSE 1 END", "b.verified DESC", "b.name ASC").
		Limit(uint64(clampLimit(filter.Limit, 50, 200))).
		Offset(uint64(max(filter.Offset, 0))).
		ToSql()
	if err != nil {
		return nil, err
	}

	var businesses []domain.Business
	if err := pgxscan.Select(ctx, QuerierFromCtx(ctx, r.db), &businesses, query, args...); err != nil {
		return nil, mapError(err, "businesses", "list")
	}
	return businesses, nil
}

func (r *businessRepository) ListByOwner(ctx context.Context, userID string) ([]domain.Business, error) {
	query, args, err := businessQuery().
		Where(sq.Eq{"b.owner_user_id": userID}).
		OrderBy("b.name ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	var businesses []domain.Business
	if err := pgxscan.Select(ctx, QuerierFromCtx(ctx, r.db), &businesses, query, args...); err != nil {
		return nil, mapError(err, "businesses", userID)
	}
	return businesses, nil
}
