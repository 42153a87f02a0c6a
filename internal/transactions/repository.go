package transactions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/richxcame/finsight/pkg/models"
	"github.com/shopspring/decimal"
)

// Repository handles transaction data operations
type Repository struct {
	db *pgxpool.Pool
}

// Ensure the concrete repository satisfies the service's requirements.
var _ RepositoryInterface = (*Repository)(nil)

// ErrTransactionNotFound is returned when no transaction matches the id
var ErrTransactionNotFound = errors.New("transaction not found")

// NewRepository creates a new transaction repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const transactionColumns = `id, user_id, amount, type, category, description, location,
	transaction_date, fraudulent, fraud_score, created_at`

// Create inserts a new transaction
func (r *Repository) Create(ctx context.Context, txn *models.Transaction) error {
	query := `
		INSERT INTO transactions (id, user_id, amount, type, category, description, location,
			transaction_date, fraudulent, fraud_score)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at
	`

	err := r.db.QueryRow(ctx, query,
		txn.ID,
		txn.UserID,
		txn.Amount,
		txn.Type,
		txn.Category,
		txn.Description,
		txn.Location,
		txn.TransactionDate,
		txn.Fraudulent,
		txn.FraudScore,
	).Scan(&txn.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// UpdateFraudResult stamps the assessment outcome onto a stored transaction
func (r *Repository) UpdateFraudResult(ctx context.Context, txnID uuid.UUID, score float64, fraudulent bool) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE transactions SET fraud_score = $1, fraudulent = $2 WHERE id = $3`,
		score, fraudulent, txnID,
	)
	if err != nil {
		return fmt.Errorf("failed to update fraud result: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

// GetByID retrieves a transaction by id
func (r *Repository) GetByID(ctx context.Context, txnID uuid.UUID) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	txn, err := scanTransaction(r.db.QueryRow(ctx, query, txnID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return txn, nil
}

// List returns a filtered, sorted page of a user's transactions and the unpaged total
func (r *Repository) List(ctx context.Context, userID uuid.UUID, filters *ListFilters, limit, offset int) ([]*models.Transaction, int, error) {
	conditions := []string{"user_id = $1"}
	args := []interface{}{userID}
	orderBy := "transaction_date DESC"

	if filters != nil {
		if filters.Type != nil {
			args = append(args, string(*filters.Type))
			conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)))
		}
		if filters.Category != "" {
			args = append(args, models.NormalizeCategory(filters.Category))
			conditions = append(conditions, fmt.Sprintf("LOWER(TRIM(category)) = $%d", len(args)))
		}
		if filters.From != nil {
			args = append(args, *filters.From)
			conditions = append(conditions, fmt.Sprintf("transaction_date >= $%d", len(args)))
		}
		if filters.To != nil {
			args = append(args, *filters.To)
			conditions = append(conditions, fmt.Sprintf("transaction_date <= $%d", len(args)))
		}
		if filters.Fraudulent != nil {
			args = append(args, *filters.Fraudulent)
			conditions = append(conditions, fmt.Sprintf("fraudulent = $%d", len(args)))
		}

		direction := "ASC"
		if filters.SortDesc {
			direction = "DESC"
		}
		orderBy = sortColumn(filters.SortBy) + " " + direction
	}
	where := " WHERE " + strings.Join(conditions, " AND ")

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM transactions`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	args = append(args, limit, offset)
	query := `SELECT ` + transactionColumns + ` FROM transactions` + where +
		fmt.Sprintf(" ORDER BY %s, id LIMIT $%d OFFSET $%d", orderBy, len(args)-1, len(args))

	txns, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}

// CountByUser returns how many transactions the user has
func (r *Repository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE user_id = $1`, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

// DeleteByUser removes every transaction owned by the user
func (r *Repository) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM transactions WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete transactions: %w", err)
	}
	return tag.RowsAffected(), nil
}

// AverageAmount returns the mean amount over all of the user's transactions
func (r *Repository) AverageAmount(ctx context.Context, userID uuid.UUID) (decimal.NullDecimal, error) {
	var avg decimal.NullDecimal
	if err := r.db.QueryRow(ctx, `SELECT AVG(amount) FROM transactions WHERE user_id = $1`, userID).Scan(&avg); err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("failed to average transactions: %w", err)
	}
	return avg, nil
}

// CountInRange counts the user's transactions dated within [from, to]
func (r *Repository) CountInRange(ctx context.Context, userID uuid.UUID, from, to time.Time) (int64, error) {
	query := `
		SELECT COUNT(*) FROM transactions
		WHERE user_id = $1 AND transaction_date BETWEEN $2 AND $3
	`

	var count int64
	if err := r.db.QueryRow(ctx, query, userID, from, to).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count transactions in range: %w", err)
	}
	return count, nil
}

// ListByUser returns all of the user's transactions, newest first
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions
		WHERE user_id = $1
		ORDER BY transaction_date DESC, created_at DESC`

	return r.query(ctx, query, userID)
}

// ListBetween returns the user's transactions dated within [from, to], newest first
func (r *Repository) ListBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions
		WHERE user_id = $1 AND transaction_date BETWEEN $2 AND $3
		ORDER BY transaction_date DESC, created_at DESC`

	return r.query(ctx, query, userID, from, to)
}

// DistinctCategories returns every category label the user has used
func (r *Repository) DistinctCategories(ctx context.Context, userID uuid.UUID) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT category FROM transactions WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]string, 0)
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}
	return categories, nil
}

func (r *Repository) query(ctx context.Context, query string, args ...interface{}) ([]*models.Transaction, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	txns := make([]*models.Transaction, 0)
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return txns, nil
}

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	txn := &models.Transaction{}
	err := row.Scan(
		&txn.ID,
		&txn.UserID,
		&txn.Amount,
		&txn.Type,
		&txn.Category,
		&txn.Description,
		&txn.Location,
		&txn.TransactionDate,
		&txn.Fraudulent,
		&txn.FraudScore,
		&txn.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return txn, nil
}
