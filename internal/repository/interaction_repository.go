package repository

import (
	"context"

	"github.com/spec-kit/community-directory/internal/domain"
)

// InteractionRepository appends analytics events. Rows are never updated or deleted.
type InteractionRepository interface {
	Record(ctx context.Context, interaction *domain.Interaction) error
	CountByEntity(ctx context.Context, kind domain.EntityKind, entityID string) (map[domain.InteractionKind]int64, error)
}

type interactionRepository struct {
	db DB
}

// NewInteractionRepository returns a Postgres-backed implementation.
func NewInteractionRepository(db DB) InteractionRepository {
	return &interactionRepository{db: db}
}

func (r *interactionRepository) Record(ctx context.Context, interaction *domain.Interaction) error {
	const query = `
        INSERT INTO interactions (entity_kind, entity_id, kind)
        VALUES ($1, $2, $3)
        RETURNING id, created_at`

	err := QuerierFromCtx(ctx, r.db).QueryRow(ctx, query,
		interaction.EntityKind,
		interaction.EntityID,
		interaction.Kind,
	).Scan(&interaction.ID, &interaction.CreatedAt)
	return mapError(err, "interaction", interaction.EntityID)
}

func (r *interactionRepository) CountByEntity(ctx context.Context, kind domain.EntityKind, entityID string) (map[domain.InteractionKind]int64, error) {
	const query = `
        SELECT kind, COUNT(*) FROM interactions
        WHERE entity_kind = $1 AND entity_id = $2
        GROUP BY kind`

	rows, err := QuerierFromCtx(ctx, r.db).Query(ctx, query, kind, entityID)
	if err != nil {
		return nil, mapError(err, "interactions", entityID)
	}
	defer rows.Close()

	counts := make(map[domain.InteractionKind]int64)
	for rows.Next() {
		var (
			k     domain.InteractionKind
			total int64
		)
		if err := rows.Scan(&k, &total); err != nil {
			return nil, mapError(err, "interactions", entityID)
		}
		counts[k] = total
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "interactions", entityID)
	}
	return counts, nil
}
