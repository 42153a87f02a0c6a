package demo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/richxcame/finsight/internal/fraud"
	"github.com/richxcame/finsight/internal/transactions"
	"github.com/richxcame/finsight/pkg/common"
	"github.com/richxcame/finsight/pkg/logger"
	"github.com/richxcame/finsight/pkg/models"
	"go.uber.org/zap"
)

// TransactionStore is the subset of the transaction repository seeding needs
type TransactionStore interface {
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

// Recorder persists and scores one transaction, raising an alert when policy allows
type Recorder interface {
	Record(ctx context.Context, txn *models.Transaction, policy transactions.AlertPolicy) (*fraud.Assessment, error)
}

// AlertStore removes a user's alerts before their transactions are deleted
type AlertStore interface {
	DeleteAlertsForUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

// UserChecker confirms that a user id refers to an existing account
type UserChecker interface {
	UserExists(ctx context.Context, userID uuid.UUID) (bool, error)
}

// CacheInvalidator drops cached per-user aggregates after a write
type CacheInvalidator interface {
	Invalidate(ctx context.Context, userID uuid.UUID) error
}

// Service seeds demo accounts with a year of synthetic history
type Service struct {
	txns      TransactionStore
	recorder  Recorder
	alerts    AlertStore
	users     UserChecker
	dashboard CacheInvalidator
	now       func() time.Time
}

// NewService creates a demo data service. dashboard may be nil.
func NewService(txns TransactionStore, recorder Recorder, alerts AlertStore, users UserChecker, dashboard CacheInvalidator) *Service {
	return &Service{
		txns:      txns,
		recorder:  recorder,
		alerts:    alerts,
		users:     users,
		dashboard: dashboard,
		now:       time.Now,
	}
}

// alertPolicy only alerts on MEDIUM and HIGH results so demo accounts are not
// buried under low-risk alerts
func alertPolicy(a *fraud.Assessment) bool {
	return a.Score >= 40 && len(a.Reasons) > 0
}

// SeedIfEmpty generates demo history unless the user already has transactions.
// It returns the number of transactions created.
func (s *Service) SeedIfEmpty(ctx context.Context, userID uuid.UUID) (int, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return 0, err
	}

	count, err := s.txns.CountByUser(ctx, userID)
	if err != nil {
		return 0, common.NewInternalError("failed to count transactions", err)
	}
	if count > 0 {
		logger.WithContext(ctx).Info("User already has transactions, skipping demo seed",
			zap.String("user_id", userID.String()),
			zap.Int64("count", count),
		)
		return 0, nil
	}

	return s.seed(ctx, userID)
}

// ForceReseed deletes the user's alerts and transactions and seeds again
func (s *Service) ForceReseed(ctx context.Context, userID uuid.UUID) (int, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return 0, err
	}

	alerts, err := s.alerts.DeleteAlertsForUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	txns, err := s.txns.DeleteByUser(ctx, userID)
	if err != nil {
		return 0, common.NewInternalError("failed to delete transactions", err)
	}

	logger.WithContext(ctx).Info("Cleared demo user data",
		zap.String("user_id", userID.String()),
		zap.Int64("alerts", alerts),
		zap.Int64("transactions", txns),
	)

	return s.seed(ctx, userID)
}

// seed records each generated transaction in order so every assessment sees
// the history written before it
func (s *Service) seed(ctx context.Context, userID uuid.UUID) (int, error) {
	txns := Generate(userID, s.now())

	alerts := 0
	for _, txn := range txns {
		assessment, err := s.recorder.Record(ctx, txn, alertPolicy)
		if err != nil {
			return 0, err
		}
		if alertPolicy(assessment) {
			alerts++
		}
	}

	if s.dashboard != nil {
		if err := s.dashboard.Invalidate(ctx, userID); err != nil {
			logger.WithContext(ctx).Warn("failed to invalidate dashboard cache", zap.Error(err))
		}
	}

	logger.WithContext(ctx).Info("Generated demo transactions",
		zap.String("user_id", userID.String()),
		zap.Int("transactions", len(txns)),
		zap.Int("fraud_alerts", alerts),
	)

	return len(txns), nil
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
