package dashboard

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/richxcame/finsight/pkg/cache"
	"github.com/richxcame/finsight/pkg/common"
	"github.com/richxcame/finsight/pkg/logger"
	"github.com/richxcame/finsight/pkg/models"
	"go.uber.org/zap"
)

// TransactionReader loads the transactions a summary is built from
type TransactionReader interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Transaction, error)
	ListBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*models.Transaction, error)
}

// UserChecker confirms that a user id refers to an existing account
type UserChecker interface {
	UserExists(ctx context.Context, userID uuid.UUID) (bool, error)
}

// open-ended ranges are clamped to these bounds
var (
	minTime = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	maxTime = time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)
)

// Service builds dashboard summaries. Summaries are cached per user under a
// version number that every write to the user's transactions bumps, so stale
// entries are never read and simply expire. A user whose bump failed stays in
// pending and bypasses the cache until a retried bump succeeds.
type Service struct {
	txns    TransactionReader
	users   UserChecker
	cache   cache.Cache
	ttl     time.Duration
	pending sync.Map
}

// NewService creates a dashboard service. c may be nil to disable caching.
func NewService(txns TransactionReader, users UserChecker, c cache.Cache, ttl time.Duration) *Service {
	return &Service{txns: txns, users: users, cache: c, ttl: ttl}
}

// GetSummary aggregates the user's transactions, optionally limited to [from, to]
func (s *Service) GetSummary(ctx context.Context, userID uuid.UUID, from, to *time.Time) (*Summary, error) {
	if from != nil && to != nil && from.After(*to) {
		return nil, common.NewBadRequestError("start_date must not be after end_date", nil)
	}

	exists, err := s.users.UserExists(ctx, userID)
	if err != nil {
		return nil, common.NewInternalError("failed to look up user", err)
	}
	if !exists {
		return nil, common.NewNotFoundError("user not found", nil)
	}

	key := s.summaryKey(ctx, userID, from, to)
	if key != "" {
		var cached Summary
		found, err := cache.GetJSON(ctx, s.cache, key, &cached)
		switch {
		case err != nil:
			cacheRequestsTotal.WithLabelValues("error").Inc()
			logger.WithContext(ctx).Warn("dashboard cache read failed", zap.String("key", key), zap.Error(err))
		case found:
			cacheRequestsTotal.WithLabelValues("hit").Inc()
			return &cached, nil
		default:
			cacheRequestsTotal.WithLabelValues("miss").Inc()
		}
	}

	var txns []*models.Transaction
	if from == nil && to == nil {
		txns, err = s.txns.ListByUser(ctx, userID)
	} else {
		lo, hi := minTime, maxTime
		if from != nil {
			lo = *from
		}
		if to != nil {
			hi = *to
		}
		txns, err = s.txns.ListBetween(ctx, userID, lo, hi)
	}
	if err != nil {
		return nil, common.NewInternalError("failed to load transactions", err)
	}

	summary := Summarize(txns)

	if key != "" {
		if err := cache.SetJSON(ctx, s.cache, key, summary, s.ttl); err != nil {
			logger.WithContext(ctx).Warn("dashboard cache write failed", zap.String("key", key), zap.Error(err))
		}
	}

	return summary, nil
}

// Invalidate makes every cached summary of the user stale
func (s *Service) Invalidate(ctx context.Context, userID uuid.UUID) error {
	if s.cache == nil {
		return nil
	}
	if _, err := s.cache.Incr(ctx, versionKey(userID)); err != nil {
		s.pending.Store(userID, struct{}{})
		return fmt.Errorf("failed to bump dashboard version: %w", err)
	}
	s.pending.Delete(userID)
	return nil
}

// summaryKey returns "" when caching is off or the version cannot be read
func (s *Service) summaryKey(ctx context.Context, userID uuid.UUID, from, to *time.Time) string {
	if s.cache == nil {
		return ""
	}

	if _, stale := s.pending.Load(userID); stale {
		if _, err := s.cache.Incr(ctx, versionKey(userID)); err != nil {
			cacheRequestsTotal.WithLabelValues("error").Inc()
			logger.WithContext(ctx).Warn("dashboard cache still unversioned, bypassing", zap.String("user_id", userID.String()), zap.Error(err))
			return ""
		}
		s.pending.Delete(userID)
	}

	version, found, err := s.cache.Get(ctx, versionKey(userID))
	if err != nil {
		cacheRequestsTotal.WithLabelValues("error").Inc()
		logger.WithContext(ctx).Warn("dashboard cache version read failed", zap.Error(err))
		return ""
	}
	if !found {
		version = "0"
	}

	return fmt.Sprintf("dashboard:summary:%s:v%s:%s:%s", userID, version, rangeBound(from), rangeBound(to))
}

func versionKey(userID uuid.UUID) string {
	return "dashboard:version:" + userID.String()
}

func rangeBound(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return strconv.FormatInt(t.Unix(), 10)
}
