package fraud

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository handles fraud alert data operations
type Repository struct {
	db *pgxpool.Pool
}

// Ensure the concrete repository satisfies the service's requirements.
var _ RepositoryInterface = (*Repository)(nil)

// ErrAlertNotFound is returned when no alert matches the id
var ErrAlertNotFound = errors.New("fraud alert not found")

// NewRepository creates a new fraud alert repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// CreateAlert inserts a new fraud alert
func (r *Repository) CreateAlert(ctx context.Context, alert *FraudAlert) error {
	query := `
		INSERT INTO fraud_alerts (id, user_id, transaction_id, message, severity, resolved, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		alert.ID,
		alert.UserID,
		alert.TransactionID,
		alert.Message,
		alert.Severity,
		alert.Resolved,
		alert.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create fraud alert: %w", err)
	}
	return nil
}

// GetAlertByID retrieves a fraud alert with its transaction
func (r *Repository) GetAlertByID(ctx context.Context, alertID uuid.UUID) (*FraudAlert, error) {
	query := alertSelect + ` WHERE a.id = $1`

	alert, err := scanAlert(r.db.QueryRow(ctx, query, alertID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAlertNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fraud alert: %w", err)
	}
	return alert, nil
}

// ListAlertsByUser returns a user's alerts, newest first, and the unpaged total
func (r *Repository) ListAlertsByUser(ctx context.Context, userID uuid.UUID, filters *AlertFilters, limit, offset int) ([]*FraudAlert, int, error) {
	conditions := []string{"a.user_id = $1"}
	args := []interface{}{userID}

	if filters != nil {
		if filters.Resolved != nil {
			args = append(args, *filters.Resolved)
			conditions = append(conditions, fmt.Sprintf("a.resolved = $%d", len(args)))
		}
		if filters.Severity != nil {
			args = append(args, string(*filters.Severity))
			conditions = append(conditions, fmt.Sprintf("a.severity = $%d", len(args)))
		}
	}
	where := " WHERE " + strings.Join(conditions, " AND ")

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM fraud_alerts a`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count fraud alerts: %w", err)
	}

	args = append(args, limit, offset)
	query := alertSelect + where + fmt.Sprintf(" ORDER BY a.created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list fraud alerts: %w", err)
	}
	defer rows.Close()

	alerts := make([]*FraudAlert, 0)
	for rows.Next() {
		alert, err := scanAlert(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan fraud alert: %w", err)
		}
		alerts = append(alerts, alert)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate fraud alerts: %w", err)
	}

	return alerts, total, nil
}

// MarkResolved flags an alert as resolved
func (r *Repository) MarkResolved(ctx context.Context, alertID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `UPDATE fraud_alerts SET resolved = TRUE WHERE id = $1`, alertID)
	if err != nil {
		return fmt.Errorf("failed to resolve fraud alert: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAlertNotFound
	}
	return nil
}

// DeleteByUser removes every alert owned by the user
func (r *Repository) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM fraud_alerts WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete fraud alerts: %w", err)
	}
	return tag.RowsAffected(), nil
}

const alertSelect = `
	SELECT a.id, a.user_id, a.transaction_id, a.message, a.severity, a.resolved, a.created_at,
	       t.id, t.amount, t.type, t.category, t.description, t.location,
	       t.transaction_date, t.fraudulent, t.fraud_score
	FROM fraud_alerts a
	JOIN transactions t ON t.id = a.transaction_id`

func scanAlert(row pgx.Row) (*FraudAlert, error) {
	var alert FraudAlert
	var txn TransactionSummary

	err := row.Scan(
		&alert.ID,
		&alert.UserID,
		&alert.TransactionID,
		&alert.Message,
		&alert.Severity,
		&alert.Resolved,
		&alert.CreatedAt,
		&txn.ID,
		&txn.Amount,
		&txn.Type,
		&txn.Category,
		&txn.Description,
		&txn.Location,
		&txn.TransactionDate,
		&txn.Fraudulent,
		&txn.FraudScore,
	)
	if err != nil {
		return nil, err
	}

	alert.Transaction = &txn
	return &alert, nil
}
