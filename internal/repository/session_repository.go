package repository

import (
	"context"

	"github.com/spec-kit/community-directory/internal/domain"
)

// SessionRepository stores hashed session tokens.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteByTokenHash(ctx context.Context, tokenHash string) error
	DeleteByUser(ctx context.Context, userID string) error
}

type sessionRepository struct {
	db DB
}

// NewSessionRepository returns a Postgres-backed implementation.
func NewSessionRepository(db DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *domain.Session) error {
	const query = `
        INSERT INTO sessions (user_id, token_hash, expires_at)
        VALUES ($1, $2, $3)
        RETURNING id, created_at`

	err := QuerierFromCtx(ctx, r.db).QueryRow(ctx, query,
		session.UserID,
		session.TokenHash,
		session.ExpiresAt,
	).Scan(&session.ID, &session.CreatedAt)
	return mapError(err, "session", session.UserID)
}

func (r *sessionRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error) {
	const query = `
        SELECT id, user_id, token_hash, expires_at, created_at
        FROM sessions WHERE token_hash = $1`

	var session domain.Session
	if err := QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, tokenHash).Scan(
		&session.ID,
		&session.UserID,
		&session.TokenHash,
		&session.ExpiresAt,
		&session.CreatedAt,
	); err != nil {
		return nil, mapError(err, "session", "token")
	}
	return &session, nil
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	_, err := QuerierFromCtx(ctx, r.db).Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	return mapError(err, "session", id)
}

func (r *sessionRepository) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	_, err := QuerierFromCtx(ctx, r.db).Exec(ctx, `DELETE FROM sessions WHERE token_hash = $1`, tokenHash)
	return mapError(err, "session", "token")
}

func (r *sessionRepository) DeleteByUser(ctx context.Context, userID string) error {
	_, err := QuerierFromCtx(ctx, r.db).Exec(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID)
	return mapError(err, "sessions", userID)
}
