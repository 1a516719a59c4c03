package repository

import (
	"context"

	"github.com/spec-kit/community-directory/internal/domain"
)

// PlanInterestRepository stores plan enquiries.
type PlanInterestRepository interface {
	Create(ctx context.Context, interest *domain.PlanInterest) error
}

type planInterestRepository struct {
	db DB
}

// NewPlanInterestRepository returns a Postgres-backed implementation.
func NewPlanInterestRepository(db DB) PlanInterestRepository {
	return &planInterestRepository{db: db}
}

func (r *planInterestRepository) Create(ctx context.Context, interest *domain.PlanInterest) error {
	const query = `
        INSERT INTO plan_interests (plan, company, contact_name, contact_email, notes)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at`

	err := QuerierFromCtx(ctx, r.db).QueryRow(ctx, query,
		interest.Plan,
		interest.Company,
		interest.ContactName,
		interest.ContactEmail,
		interest.Notes,
	).Scan(&interest.ID, &interest.CreatedAt)
	return mapError(err, "plan interest", interest.Company)
}
