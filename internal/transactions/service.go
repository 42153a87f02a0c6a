package transactions

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/richxcame/finsight/internal/fraud"
	"github.com/richxcame/finsight/pkg/common"
	"github.com/richxcame/finsight/pkg/logger"
	"github.com/richxcame/finsight/pkg/models"
	"go.uber.org/zap"
)

// AlertPolicy decides whether an assessment warrants a fraud alert
type AlertPolicy func(*fraud.Assessment) bool

// DefaultAlertPolicy raises an alert for any scored transaction with a reason
func DefaultAlertPolicy(a *fraud.Assessment) bool {
	return a.ShouldRaiseAlert()
}

// Service orchestrates transaction ingestion and queries
type Service struct {
	repo      RepositoryInterface
	users     UserChecker
	assessor  Assessor
	alerts    AlertRaiser
	audit     fraud.AuditLogger
	dashboard CacheInvalidator
}

// NewService creates a new transaction service. audit and dashboard may be nil.
func NewService(repo RepositoryInterface, users UserChecker, assessor Assessor, alerts AlertRaiser, audit fraud.AuditLogger, dashboard CacheInvalidator) *Service {
	return &Service{
		repo:      repo,
		users:     users,
		assessor:  assessor,
		alerts:    alerts,
		audit:     audit,
		dashboard: dashboard,
	}
}

// CreateTransaction stores, scores and, when suspicious, alerts on a new transaction
func (s *Service) CreateTransaction(ctx context.Context, userID uuid.UUID, req *CreateTransactionRequest) (*TransactionResponse, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	txn := newTransaction(userID, req)
	assessment, err := s.Record(ctx, txn, DefaultAlertPolicy)
	if err != nil {
		return nil, err
	}

	if s.audit != nil {
		if err := s.audit.LogAction(ctx, userID, ActionCreateTransaction, EntityTypeTransaction, txn.ID.String(), map[string]interface{}{
			"amount":      txn.Amount.StringFixed(2),
			"type":        string(txn.Type),
			"category":    txn.Category,
			"fraud_score": assessment.Score,
			"risk_level":  string(assessment.RiskLevel),
		}); err != nil {
			logger.WithContext(ctx).Warn("failed to write audit log", zap.String("action", ActionCreateTransaction), zap.Error(err))
		}
	}

	s.invalidateDashboard(ctx, userID)

	status := StatusCompleted
	if txn.Fraudulent {
		status = StatusFlagged
	}

	logger.WithContext(ctx).Info("Transaction created",
		zap.String("transaction_id", txn.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("status", status),
	)

	return &TransactionResponse{
		Transaction: txn,
		RiskLevel:   assessment.RiskLevel,
		Status:      status,
		Reasons:     assessment.Reasons,
	}, nil
}

// Record persists txn with default fraud fields, assesses it, stamps the
// result and raises an alert when policy says so. txn is updated in place.
func (s *Service) Record(ctx context.Context, txn *models.Transaction, policy AlertPolicy) (*fraud.Assessment, error) {
	txn.Fraudulent = false
	txn.FraudScore = 0
	if err := s.repo.Create(ctx, txn); err != nil {
		return nil, common.NewInternalError("failed to create transaction", err)
	}

	assessment, err := s.assessor.Assess(ctx, txn)
	if err != nil {
		return nil, common.NewInternalError("failed to assess transaction", err)
	}

	if err := s.repo.UpdateFraudResult(ctx, txn.ID, assessment.Score, assessment.Fraudulent); err != nil {
		return nil, common.NewInternalError("failed to update fraud result", err)
	}
	txn.FraudScore = assessment.Score
	txn.Fraudulent = assessment.Fraudulent

	if policy != nil && policy(assessment) {
		if _, err := s.alerts.RaiseAlert(ctx, txn, assessment); err != nil {
			return nil, err
		}
	}

	return assessment, nil
}

// GetTransaction returns one of the user's transactions
func (s *Service) GetTransaction(ctx context.Context, userID, txnID uuid.UUID) (*models.Transaction, error) {
	txn, err := s.repo.GetByID(ctx, txnID)
	if err != nil {
		if errors.Is(err, ErrTransactionNotFound) {
			return nil, common.NewNotFoundError("transaction not found", err)
		}
		return nil, common.NewInternalError("failed to get transaction", err)
	}

	if txn.UserID != userID {
		return nil, common.NewForbiddenError("not authorized to view this transaction")
	}
	return txn, nil
}

// ListTransactions returns a filtered page of the user's transactions
func (s *Service) ListTransactions(ctx context.Context, userID uuid.UUID, filters *ListFilters, limit, offset int) ([]*models.Transaction, int, error) {
	if filters != nil && filters.From != nil && filters.To != nil && filters.From.After(*filters.To) {
		return nil, 0, common.NewBadRequestError("start_date must not be after end_date", nil)
	}

	txns, total, err := s.repo.List(ctx, userID, filters, limit, offset)
	if err != nil {
		return nil, 0, common.NewInternalError("failed to list transactions", err)
	}
	if txns == nil {
		txns = []*models.Transaction{}
	}
	return txns, total, nil
}

func (s *Service) ensureUser(ctx context.Context, userID uuid.UUID) error {
	exists, err := s.users.UserExists(ctx, userID)
	if err != nil {
		return common.NewInternalError("failed to look up user", err)
	}
	if !exists {
		return common.NewNotFoundError("user not found", nil)
	}
	return nil
}

func (s *Service) invalidateDashboard(ctx context.Context, userID uuid.UUID) {
	if s.dashboard == nil {
		return
	}
	if err := s.dashboard.Invalidate(ctx, userID); err != nil {
		logger.WithContext(ctx).Warn("failed to invalidate dashboard cache",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
	}
}
