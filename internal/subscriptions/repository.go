package subscriptions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryInterface defines persistence for subscriptions
type RepositoryInterface interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Subscription, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Subscription, error)
	SaveAll(ctx context.Context, subs []*Subscription) error
	ListDueBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*Subscription, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
}

// Repository handles subscription data operations
type Repository struct {
	db *pgxpool.Pool
}

// Ensure the concrete repository satisfies the service's requirements.
var _ RepositoryInterface = (*Repository)(nil)

// ErrSubscriptionNotFound is returned when no subscription matches the id
var ErrSubscriptionNotFound = errors.New("subscription not found")

// NewRepository creates a new subscription repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const subscriptionColumns = `id, user_id, merchant, normalized_merchant, amount,
	last_paid_date, next_due_date, status, created_at, updated_at`

// ListByUser returns every stored subscription of the user
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions
		WHERE user_id = $1
		ORDER BY next_due_date, normalized_merchant`

	return r.query(ctx, query, userID)
}

// GetByID retrieves a subscription by id
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id = $1`

	sub, err := scanSubscription(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return sub, nil
}

// SaveAll upserts the subscriptions in one database transaction. Rows are
// matched on (user_id, normalized_merchant); an existing row keeps its id,
// label, status and creation time. On success each element carries the
// stored values.
func (r *Repository) SaveAll(ctx context.Context, subs []*Subscription) error {
	if len(subs) == 0 {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO subscriptions (
			id, user_id, merchant, normalized_merchant, amount,
			last_paid_date, next_due_date, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id, normalized_merchant) DO UPDATE SET
			amount = EXCLUDED.amount,
			last_paid_date = EXCLUDED.last_paid_date,
			next_due_date = EXCLUDED.next_due_date,
			updated_at = EXCLUDED.updated_at
		RETURNING ` + subscriptionColumns

	for _, sub := range subs {
		saved, err := scanSubscription(tx.QueryRow(ctx, query,
			sub.ID,
			sub.UserID,
			sub.Merchant,
			sub.NormalizedMerchant,
			sub.Amount,
			sub.LastPaidDate,
			sub.NextDueDate,
			sub.Status,
			sub.CreatedAt,
			sub.UpdatedAt,
		))
		if err != nil {
			return fmt.Errorf("failed to save subscription %q: %w", sub.NormalizedMerchant, err)
		}
		*sub = *saved
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit subscriptions: %w", err)
	}
	return nil
}

// ListDueBetween returns ACTIVE subscriptions whose next due date falls in [from, to]
func (r *Repository) ListDueBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions
		WHERE user_id = $1 AND status = $2 AND next_due_date BETWEEN $3 AND $4
		ORDER BY next_due_date, normalized_merchant`

	return r.query(ctx, query, userID, StatusActive, from, to)
}

// UpdateStatus changes a subscription's status
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE subscriptions SET status = $1, updated_at = $2 WHERE id = $3`,
		status, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update subscription status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

func (r *Repository) query(ctx context.Context, query string, args ...interface{}) ([]*Subscription, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	defer rows.Close()

	subs := make([]*Subscription, 0)
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate subscriptions: %w", err)
	}
	return subs, nil
}

func scanSubscription(row pgx.Row) (*Subscription, error) {
	sub := &Subscription{}
	err := row.Scan(
		&sub.ID,
		&sub.UserID,
		&sub.Merchant,
		&sub.NormalizedMerchant,
		&sub.Amount,
		&sub.LastPaidDate,
		&sub.NextDueDate,
		&sub.Status,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return sub, nil
}
