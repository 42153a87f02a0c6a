package fraud

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/richxcame/finsight/pkg/common"
	"github.com/richxcame/finsight/pkg/logger"
	"github.com/richxcame/finsight/pkg/models"
	"go.uber.org/zap"
)

// Audit actions and entity types recorded by this package
const (
	ActionResolveAlert    = "RESOLVE_ALERT"
	EntityTypeFraudAlert  = "FRAUD_ALERT"
	alertMessagePrefix    = "Suspicious transaction detected: "
	alertReasonsSeparator = ", "
)

// Service manages fraud alerts
type Service struct {
	repo  RepositoryInterface
	audit AuditLogger
}

// NewService creates a new fraud alert service
func NewService(repo RepositoryInterface, audit AuditLogger) *Service {
	return &Service{repo: repo, audit: audit}
}

// RaiseAlert persists an alert for txn carrying the assessment's reasons
func (s *Service) RaiseAlert(ctx context.Context, txn *models.Transaction, assessment *Assessment) (*FraudAlert, error) {
	alert := &FraudAlert{
		ID:            uuid.New(),
		UserID:        txn.UserID,
		TransactionID: txn.ID,
		Message:       alertMessagePrefix + strings.Join(assessment.Reasons, alertReasonsSeparator),
		Severity:      assessment.RiskLevel,
		Resolved:      false,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.repo.CreateAlert(ctx, alert); err != nil {
		return nil, common.NewInternalError("failed to create fraud alert", err)
	}

	alertsRaisedTotal.WithLabelValues(string(alert.Severity)).Inc()
	logger.WithContext(ctx).Warn("Fraud alert raised",
		zap.String("alert_id", alert.ID.String()),
		zap.String("transaction_id", txn.ID.String()),
		zap.Float64("score", assessment.Score),
		zap.String("severity", string(alert.Severity)),
	)

	return alert, nil
}

// ListAlerts returns a user's alerts, newest first
func (s *Service) ListAlerts(ctx context.Context, userID uuid.UUID, filters *AlertFilters, limit, offset int) ([]*FraudAlert, int, error) {
	alerts, total, err := s.repo.ListAlertsByUser(ctx, userID, filters, limit, offset)
	if err != nil {
		return nil, 0, common.NewInternalError("failed to list fraud alerts", err)
	}
	if alerts == nil {
		alerts = []*FraudAlert{}
	}
	return alerts, total, nil
}

// ResolveAlert marks an alert resolved. Only the owner may resolve it.
func (s *Service) ResolveAlert(ctx context.Context, userID, alertID uuid.UUID) (*FraudAlert, error) {
	alert, err := s.repo.GetAlertByID(ctx, alertID)
	if err != nil {
		if errors.Is(err, ErrAlertNotFound) {
			return nil, common.NewNotFoundError("fraud alert not found", err)
		}
		return nil, common.NewInternalError("failed to get fraud alert", err)
	}

	if alert.UserID != userID {
		return nil, common.NewForbiddenError("not authorized to resolve this alert")
	}

	if !alert.Resolved {
		if err := s.repo.MarkResolved(ctx, alertID); err != nil {
			return nil, common.NewInternalError("failed to resolve fraud alert", err)
		}
		alert.Resolved = true
	}

	if s.audit != nil {
		if err := s.audit.LogAction(ctx, userID, ActionResolveAlert, EntityTypeFraudAlert, alertID.String(), map[string]interface{}{
			"severity": string(alert.Severity),
		}); err != nil {
			logger.WithContext(ctx).Warn("failed to write audit log", zap.String("action", ActionResolveAlert), zap.Error(err))
		}
	}

	logger.WithContext(ctx).Info("Resolved fraud alert",
		zap.String("alert_id", alertID.String()),
		zap.String("user_id", userID.String()),
	)

	return alert, nil
}

// DeleteAlertsForUser removes all of a user's alerts
func (s *Service) DeleteAlertsForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	n, err := s.repo.DeleteByUser(ctx, userID)
	if err != nil {
		return 0, common.NewInternalError("failed to delete fraud alerts", err)
	}
	return n, nil
}
