package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/community-directory/internal/domain"
)

// UserRepository defines persistence access for accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	FindIDByEmail(ctx context.Context, email string) (*string, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	SetRoleByEmail(ctx context.Context, email string, role domain.Role) (*domain.User, error)
	SetCustomerID(ctx context.Context, id, customerID string) error
	ApplyCheckout(ctx context.Context, id string, update CheckoutUpdate) error
	ApplySubscriptionChange(ctx context.Context, customerID string, update SubscriptionUpdate) (bool, error)
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
}

// CheckoutUpdate is written when a checkout completes.
type CheckoutUpdate struct {
	CustomerID     string
	SubscriptionID string
	Status         string
	Tier           domain.Tier
}

// SubscriptionUpdate is written when the provider reports a subscription change.
type SubscriptionUpdate struct {
	SubscriptionID string
	Status         string
	Active         bool
}

type userRepository struct {
	db DB
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(db DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, name, email, password_hash, role, tier, stripe_customer_id,
        stripe_subscription_id, subscription_status, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Tier,
		&user.StripeCustomerID,
		&user.StripeSubscriptionID,
		&user.SubscriptionStatus,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (name, email, password_hash, role, tier)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`

	if user.Role == "" {
		user.Role = domain.RoleMember
	}
	if user.Tier == "" {
		user.Tier = domain.TierFree
	}

	err := QuerierFromCtx(ctx, r.db).QueryRow(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Tier,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	return mapError(err, "user", user.Email)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapError(err, "user", id)
	}
	return user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`

	user, err := scanUser(QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, strings.TrimSpace(email)))
	if err != nil {
		return nil, mapError(err, "user", email)
	}
	return user, nil
}

// FindIDByEmail returns nil without error when no account matches.
func (r *userRepository) FindIDByEmail(ctx context.Context, email string) (*string, error) {
	const query = `SELECT id FROM users WHERE LOWER(email) = LOWER($1) LIMIT 1`

	var id string
	err := QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, strings.TrimSpace(email)).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError(err, "user", email)
	}
	return &id, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const query = `UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`

	tag, err := QuerierFromCtx(ctx, r.db).Exec(ctx, query, passwordHash, id)
	if err != nil {
		return mapError(err, "user", id)
	}
	return requireOneRow(tag, "user", id)
}

func (r *userRepository) SetRoleByEmail(ctx context.Context, email string, role domain.Role) (*domain.User, error) {
	query := `UPDATE users SET role = $1, updated_at = NOW()
        WHERE LOWER(email) = LOWER($2)
        RETURNING ` + userColumns

	user, err := scanUser(QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, role, strings.TrimSpace(email)))
	if err != nil {
		return nil, mapError(err, "user", email)
	}
	return user, nil
}

func (r *userRepository) SetCustomerID(ctx context.Context, id, customerID string) error {
	const query = `UPDATE users SET stripe_customer_id = $1, updated_at = NOW() WHERE id = $2`

	tag, err := QuerierFromCtx(ctx, r.db).Exec(ctx, query, customerID, id)
	if err != nil {
		return mapError(err, "user", id)
	}
	return requireOneRow(tag, "user", id)
}

func (r *userRepository) ApplyCheckout(ctx context.Context, id string, update CheckoutUpdate) error {
	const query = `
        UPDATE users
        SET stripe_customer_id = $1, stripe_subscription_id = $2, subscription_status = $3,
            tier = $4, updated_at = NOW()
        WHERE id = $5`

	tag, err := QuerierFromCtx(ctx, r.db).Exec(ctx, query,
		update.CustomerID,
		nullableString(update.SubscriptionID),
		update.Status,
		update.Tier,
		id,
	)
	if err != nil {
		return mapError(err, "user", id)
	}
	return requireOneRow(tag, "user", id)
}

// ApplySubscriptionChange reports false when no account uses the customer id.
func (r *userRepository) ApplySubscriptionChange(ctx context.Context, customerID string, update SubscriptionUpdate) (bool, error) {
	const query = `
        UPDATE users
        SET stripe_subscription_id = $1, subscription_status = $2,
            tier = CASE WHEN $3 THEN tier ELSE 'Free' END, updated_at = NOW()
        WHERE stripe_customer_id = $4`

	tag, err := QuerierFromCtx(ctx, r.db).Exec(ctx, query,
		nullableString(update.SubscriptionID),
		update.Status,
		update.Active,
		customerID,
	)
	if err != nil {
		return false, mapError(err, "customer", customerID)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *userRepository) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	query, args, err := psql.
		Select("id", "name", "email", "password_hash", "role", "tier", "stripe_customer_id",
			"stripe_subscription_id", "subscription_status", "created_at", "updated_at").
		From("users").
		OrderBy("created_at DESC").
		Limit(uint64(clampLimit(limit, 50, 200))).
		Offset(uint64(max(offset, 0))).
		ToSql()
	if err != nil {
		return nil, err
	}

	var users []domain.User
	if err := pgxscan.Select(ctx, QuerierFromCtx(ctx, r.db), &users, query, args...); err != nil {
		return nil, mapError(err, "users", "list")
	}
	return users, nil
}

func nullableString(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}
