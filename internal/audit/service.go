package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/richxcame/finsight/pkg/common"
	"github.com/richxcame/finsight/pkg/logger"
	"go.uber.org/zap"
)

// Service records and lists user actions
type Service struct {
	repo RepositoryInterface
}

// NewService creates a new audit service
func NewService(repo RepositoryInterface) *Service {
	return &Service{repo: repo}
}

// LogAction persists an audit entry. details is stored as JSON and may be nil.
func (s *Service) LogAction(ctx context.Context, userID uuid.UUID, action, entityType, entityID string, details map[string]interface{}) error {
	entry := &Log{
		ID:         uuid.New(),
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		CreatedAt:  time.Now().UTC(),
	}

	if len(details) > 0 {
		raw, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("failed to encode audit details: %w", err)
		}
		entry.Details = raw
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		return err
	}

	logger.WithContext(ctx).Info("Audit log created",
		zap.String("user_id", userID.String()),
		zap.String("action", action),
		zap.String("entity_type", entityType),
		zap.String("entity_id", entityID),
	)
	return nil
}

// ListLogs returns the user's audit trail, newest first
func (s *Service) ListLogs(ctx context.Context, userID uuid.UUID, action string, limit, offset int) ([]*Log, int, error) {
	logs, total, err := s.repo.ListByUser(ctx, userID, action, limit, offset)
	if err != nil {
		return nil, 0, common.NewInternalError("failed to list audit logs", err)
	}
	if logs == nil {
		logs = []*Log{}
	}
	return logs, total, nil
}
