package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/community-directory/internal/domain"
)

// EventRepository defines persistence access for published events.
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	SetFeatured(ctx context.Context, id string, featured bool) error
	List(ctx context.Context, filter CatalogFilter) ([]domain.Event, error)
}

type eventRepository struct {
	db DB
}

// NewEventRepository returns a Postgres-backed implementation.
func NewEventRepository(db DB) EventRepository {
	return &eventRepository{db: db}
}

func eventQuery() sq.SelectBuilder {
	return psql.Select(
		"e.id", "e.title", "e.summary", "e.venue", "e.area", "e.starts_at", "e.ends_at",
		"e.price", "e.booking_url", "e.manually_featured", "e.business_id",
		featuredOwnerTier+" AS owner_tier", "e.created_at",
	).
		From("events e").
		LeftJoin("businesses b ON b.id = e.business_id").
		LeftJoin("users u ON u.id = b.owner_user_id")
}

func (r *eventRepository) Create(ctx context.Context, event *domain.Event) error {
	const query = `
        INSERT INTO events (title, summary, venue, area, starts_at, ends_at, price, booking_url,
            manually_featured, business_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING id, created_at`

	err := QuerierFromCtx(ctx, r.db).QueryRow(ctx, query,
		event.Title,
		event.Summary,
		event.Venue,
		event.Area,
		event.StartsAt,
		event.EndsAt,
		event.Price,
		event.BookingURL,
		event.ManuallyFeatured,
		event.BusinessID,
	).Scan(&event.ID, &event.CreatedAt)
	return mapError(err, "event", event.Title)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query, args, err := eventQuery().Where(sq.Eq{"e.id": id}).Limit(1).ToSql()
	if err != nil {
		return nil, err
	}

	var events []domain.Event
	if err := pgxscan.Select(ctx, QuerierFromCtx(ctx, r.db), &events, query, args...); err != nil {
		return nil, mapError(err, "event", id)
	}
	if len(events) == 0 {
		return nil, mapError(pgx.ErrNoRows, "event", id)
	}
	return &events[0], nil
}

func (r *eventRepository) SetFeatured(ctx context.Context, id string, featured bool) error {
	tag, err := QuerierFromCtx(ctx, r.db).Exec(ctx,
		`UPDATE events SET manually_featured = $1 WHERE id = $2`, featured, id)
	if err != nil {
		return mapError(err, "event", id)
	}
	return requireOneRow(tag, "event", id)
}

// List puts featured events first, then soonest first.
func (r *eventRepository) List(ctx context.Context, filter CatalogFilter) ([]domain.Event, error) {
	qb := eventQuery()
	if filter.Area != "" {
		qb = qb.Where(sq.Eq{"e.area": filter.Area})
	}
	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		qb = qb.Where(sq.Or{sq.ILike{"e.title": like}, sq.ILike{"e.venue": like}, sq.ILike{"e.summary": like}})
	}

	query, args, err := qb.
		OrderBy("CASE WHEN e.manually_featured OR "+featuredOwnerTier+" <> 'Free' THEN 0 ELSE 1 END", "e.starts_at ASC").
		Limit(uint64(clampLimit(filter.Limit, 50, 200))).
		Offset(uint64(max(filter.Offset, 0))).
		ToSql()
	if err != nil {
		return nil, err
	}

	var events []domain.Event
	if err := pgxscan.Select(ctx, QuerierFromCtx(ctx, r.db), &events, query, args...); err != nil {
		return nil, mapError(err, "events", "list")
	}
	return events, nil
}
