package fraud

import (
	"context"

	"github.com/google/uuid"
)

// RepositoryInterface defines persistence for fraud alerts
type RepositoryInterface interface {
	CreateAlert(ctx context.Context, alert *FraudAlert) error
	GetAlertByID(ctx context.Context, alertID uuid.UUID) (*FraudAlert, error)
	ListAlertsByUser(ctx context.Context, userID uuid.UUID, filters *AlertFilters, limit, offset int) ([]*FraudAlert, int, error)
	MarkResolved(ctx context.Context, alertID uuid.UUID) error
	DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

// AuditLogger records user actions for compliance
type AuditLogger interface {
	LogAction(ctx context.Context, userID uuid.UUID, action, entityType, entityID string, details map[string]interface{}) error
}
