package subscriptions

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/richxcame/finsight/pkg/common"
	"github.com/richxcame/finsight/pkg/logger"
	"github.com/richxcame/finsight/pkg/models"
	"github.com/richxcame/finsight/pkg/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// TransactionLister reads a user's full transaction history
type TransactionLister interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Transaction, error)
}

// UserChecker confirms that a user id refers to an existing account
type UserChecker interface {
	UserExists(ctx context.Context, userID uuid.UUID) (bool, error)
}

// AuditLogger records user actions for compliance
type AuditLogger interface {
	LogAction(ctx context.Context, userID uuid.UUID, action, entityType, entityID string, details map[string]interface{}) error
}

// Service detects and manages recurring subscriptions
type Service struct {
	repo  RepositoryInterface
	txns  TransactionLister
	users UserChecker
	audit AuditLogger
	now   func() time.Time
}

// NewService creates a new subscription service. audit may be nil.
func NewService(repo RepositoryInterface, txns TransactionLister, users UserChecker, audit AuditLogger) *Service {
	return &Service{
		repo:  repo,
		txns:  txns,
		users: users,
		audit: audit,
		now:   time.Now,
	}
}

// DetectSubscriptions re-runs detection over the user's whole history and
// persists the result. Categories that are no longer detected keep their
// stored rows. The returned slice holds only what this run created or updated.
func (s *Service) DetectSubscriptions(ctx context.Context, userID uuid.UUID) ([]*Subscription, error) {
	ctx, span := tracing.Tracer("subscriptions").Start(ctx, "subscriptions.Service.DetectSubscriptions")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID.String()))

	if err := s.ensureUser(ctx, userID); err != nil {
		detectionRunsTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	existing, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		tracing.RecordError(span, err)
		detectionRunsTotal.WithLabelValues("error").Inc()
		return nil, common.NewInternalError("failed to load subscriptions", err)
	}
	byMerchant := make(map[string]*Subscription, len(existing))
	for _, sub := range existing {
		key := models.NormalizeCategory(sub.NormalizedMerchant)
		if _, ok := byMerchant[key]; !ok {
			byMerchant[key] = sub
		}
	}

	txns, err := s.txns.ListByUser(ctx, userID)
	if err != nil {
		tracing.RecordError(span, err)
		detectionRunsTotal.WithLabelValues("error").Inc()
		return nil, common.NewInternalError("failed to load transactions", err)
	}

	patterns := DetectPatterns(txns)
	now := s.now().UTC()

	detected := make([]*Subscription, 0, len(patterns))
	for _, p := range patterns {
		sub := mergePattern(byMerchant[p.NormalizedMerchant], p, now)
		if sub.ID == uuid.Nil {
			sub.ID = uuid.New()
			sub.UserID = userID
		}
		detected = append(detected, sub)
	}

	if err := s.repo.SaveAll(ctx, detected); err != nil {
		tracing.RecordError(span, err)
		detectionRunsTotal.WithLabelValues("error").Inc()
		return nil, common.NewInternalError("failed to save subscriptions", err)
	}

	detectionRunsTotal.WithLabelValues("success").Inc()
	subscriptionsDetected.Observe(float64(len(detected)))
	span.SetAttributes(attribute.Int("subscriptions.detected", len(detected)))

	logger.WithContext(ctx).Info("Subscription detection complete",
		zap.String("user_id", userID.String()),
		zap.Int("transactions", len(txns)),
		zap.Int("detected", len(detected)),
	)

	return detected, nil
}

// FindDueSoon returns ACTIVE subscriptions due between today and today+days,
// both inclusive. It reads stored subscriptions only.
func (s *Service) FindDueSoon(ctx context.Context, userID uuid.UUID, days int) ([]*Subscription, error) {
	if days < 0 {
		return nil, common.NewBadRequestError("days must not be negative", nil)
	}
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	today := truncateToDate(s.now().UTC())
	subs, err := s.repo.ListDueBetween(ctx, userID, today, today.AddDate(0, 0, days))
	if err != nil {
		return nil, common.NewInternalError("failed to list due subscriptions", err)
	}
	if subs == nil {
		subs = []*Subscription{}
	}
	return subs, nil
}

// ListSubscriptions returns the user's stored subscriptions without re-detecting
func (s *Service) ListSubscriptions(ctx context.Context, userID uuid.UUID) ([]*Subscription, error) {
	subs, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, common.NewInternalError("failed to list subscriptions", err)
	}
	if subs == nil {
		subs = []*Subscription{}
	}
	return subs, nil
}

// IgnoreSubscription marks one of the user's subscriptions IGNORED. Later
// detection runs keep that status.
func (s *Service) IgnoreSubscription(ctx context.Context, userID, subID uuid.UUID) (*Subscription, error) {
	sub, err := s.repo.GetByID(ctx, subID)
	if err != nil {
		if errors.Is(err, ErrSubscriptionNotFound) {
			return nil, common.NewNotFoundError("subscription not found", err)
		}
		return nil, common.NewInternalError("failed to get subscription", err)
	}

	if sub.UserID != userID {
		return nil, common.NewForbiddenError("not authorized to modify this subscription")
	}

	if sub.Status != StatusIgnored {
		if err := s.repo.UpdateStatus(ctx, subID, StatusIgnored); err != nil {
			return nil, common.NewInternalError("failed to ignore subscription", err)
		}
		sub.Status = StatusIgnored
		sub.UpdatedAt = s.now().UTC()
	}

	if s.audit != nil {
		if err := s.audit.LogAction(ctx, userID, ActionIgnoreSubscription, EntityTypeSubscription, subID.String(), map[string]interface{}{
			"merchant": sub.Merchant,
		}); err != nil {
			logger.WithContext(ctx).Warn("failed to write audit log", zap.String("action", ActionIgnoreSubscription), zap.Error(err))
		}
	}

	return sub, nil
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
