package transactions

import (
	"context"

	"github.com/google/uuid"
	"github.com/richxcame/finsight/internal/fraud"
	"github.com/richxcame/finsight/pkg/models"
)

// RepositoryInterface defines persistence for transactions. It is also the
// history the fraud engine reads.
type RepositoryInterface interface {
	fraud.TransactionStore

	Create(ctx context.Context, txn *models.Transaction) error
	UpdateFraudResult(ctx context.Context, txnID uuid.UUID, score float64, fraudulent bool) error
	GetByID(ctx context.Context, txnID uuid.UUID) (*models.Transaction, error)
	List(ctx context.Context, userID uuid.UUID, filters *ListFilters, limit, offset int) ([]*models.Transaction, int, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

// UserChecker confirms that a user id refers to an existing account
type UserChecker interface {
	UserExists(ctx context.Context, userID uuid.UUID) (bool, error)
}

// Assessor scores a persisted transaction
type Assessor interface {
	Assess(ctx context.Context, txn *models.Transaction) (*fraud.Assessment, error)
}

// AlertRaiser persists a fraud alert for an assessed transaction
type AlertRaiser interface {
	RaiseAlert(ctx context.Context, txn *models.Transaction, assessment *fraud.Assessment) (*fraud.FraudAlert, error)
}

// CacheInvalidator drops cached per-user aggregates after a write
type CacheInvalidator interface {
	Invalidate(ctx context.Context, userID uuid.UUID) error
}
