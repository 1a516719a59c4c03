package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/spec-kit/community-directory/internal/domain"
)

// CharityRepository defines persistence access for published charities.
type CharityRepository interface {
	Create(ctx context.Context, charity *domain.Charity) error
	List(ctx context.Context, filter CatalogFilter) ([]domain.Charity, error)
}

type charityRepository struct {
	db DB
}

// NewCharityRepository returns a Postgres-backed implementation.
func NewCharityRepository(db DB) CharityRepository {
	return &charityRepository{db: db}
}

func (r *charityRepository) Create(ctx context.Context, charity *domain.Charity) error {
	const query = `
        INSERT INTO charities (name, summary, mission, area, website, email, phone)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at`

	err := QuerierFromCtx(ctx, r.db).QueryRow(ctx, query,
		charity.Name,
		charity.Summary,
		charity.Mission,
		charity.Area,
		charity.Website,
		charity.Email,
		charity.Phone,
	).Scan(&charity.ID, &charity.CreatedAt)
	return mapError(err, "charity", charity.Name)
}

func (r *charityRepository) List(ctx context.Context, filter CatalogFilter) ([]domain.Charity, error) {
	qb := psql.Select("id", "name", "summary", "mission", "area", "website", "email", "phone", "created_at").
		From("charities")
	if filter.Area != "" {
		qb = qb.Where(sq.Eq{"area": filter.Area})
	}
	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		qb = qb.Where(sq.Or{sq.ILike{"name": like}, sq.ILike{"summary": like}})
	}

	query, args, err := qb.
		OrderBy("name ASC").
		Limit(uint64(clampLimit(filter.Limit, 50, 200))).
		Offset(uint64(max(filter.Offset, 0))).
		ToSql()
	if err != nil {
		return nil, err
	}

	var charities []domain.Charity
	if err := pgxscan.Select(ctx, QuerierFromCtx(ctx, r.db), &charities, query, args...); err != nil {
		return nil, mapError(err, "charities", "list")
	}
	return charities, nil
}
