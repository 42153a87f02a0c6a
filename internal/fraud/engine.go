package fraud

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/richxcame/finsight/pkg/logger"
	"github.com/richxcame/finsight/pkg/models"
	"github.com/richxcame/finsight/pkg/tracing"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// TransactionStore is the read access the engine needs over a user's history
type TransactionStore interface {
	// AverageAmount is invalid (Valid=false) when the user has no transactions
	AverageAmount(ctx context.Context, userID uuid.UUID) (decimal.NullDecimal, error)
	// CountInRange counts transactions with from <= date <= to
	CountInRange(ctx context.Context, userID uuid.UUID, from, to time.Time) (int64, error)
	// ListByUser returns all transactions ordered by date, newest first
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Transaction, error)
	DistinctCategories(ctx context.Context, userID uuid.UUID) ([]string, error)
}

// Engine scores transactions against the behavioural fraud rules
type Engine struct {
	store TransactionStore
}

// NewEngine creates a rule engine reading from store
func NewEngine(store TransactionStore) *Engine {
	return &Engine{store: store}
}

// Assess evaluates every rule against txn and returns the combined result.
//
// txn must already be persisted: the rapid-fire and unusual-category rules
// count the transaction itself through the store. Assess only reads; writing
// the score back and raising alerts is up to the caller. Store errors are
// returned wrapped and no partial result is produced.
func (e *Engine) Assess(ctx context.Context, txn *models.Transaction) (*Assessment, error) {
	ctx, span := tracing.Tracer("fraud").Start(ctx, "fraud.Engine.Assess")
	defer span.End()
	span.SetAttributes(attribute.String("transaction.id", txn.ID.String()))

	log := logger.WithContext(ctx).With(zap.String("transaction_id", txn.ID.String()))
	log.Debug("Starting fraud assessment",
		zap.String("amount", txn.Amount.String()),
		zap.String("category", txn.Category),
		zap.String("location", txn.LocationValue()),
		zap.Time("transaction_date", txn.TransactionDate),
	)

	var (
		score   float64
		reasons []string
		fired   []string
	)

	reason, err := e.checkHighAmount(ctx, txn)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	if reason != "" {
		score += highAmountPoints
		reasons = append(reasons, reason)
		fired = append(fired, RuleHighAmount)
	}

	hit, err := e.checkRapidFire(ctx, txn)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	if hit {
		score += rapidFirePoints
		reasons = append(reasons, fmt.Sprintf("%d or more transactions within %d minutes", rapidFireMinCount, int(rapidFireWindow.Minutes())))
		fired = append(fired, RuleRapidFire)
	}

	// history is shared by the geo and category rules
	var (
		history []*models.Transaction
		loaded  bool
	)
	loadHistory := func() ([]*models.Transaction, error) {
		if loaded {
			return history, nil
		}
		h, err := e.store.ListByUser(ctx, txn.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to list transactions: %w", err)
		}
		history, loaded = h, true
		return history, nil
	}

	if txn.HasLocation() {
		h, err := loadHistory()
		if err != nil {
			tracing.RecordError(span, err)
			return nil, err
		}
		if hasGeoAnomaly(txn, h) {
			score += geoAnomalyPoints
			reasons = append(reasons, "Different location within 2 hours of previous transaction")
			fired = append(fired, RuleGeoAnomaly)
		}
	} else {
		log.Debug("Geo rule skipped: no location")
	}

	unusual, err := e.checkUnusualCategory(ctx, txn, loadHistory)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	if unusual {
		score += unusualCategoryPoints
		reasons = append(reasons, fmt.Sprintf("First time using category: %s", txn.Category))
		fired = append(fired, RuleUnusualCategory)
	}

	score = clampScore(score)
	assessment := &Assessment{
		Score:      score,
		RiskLevel:  ClassifyRisk(score),
		Fraudulent: txn.Type.IsExpense() && score >= mediumRiskThreshold,
		Reasons:    reasons,
	}
	if assessment.Reasons == nil {
		assessment.Reasons = []string{}
	}

	assessmentsTotal.WithLabelValues(string(assessment.RiskLevel)).Inc()
	for _, rule := range fired {
		ruleHitsTotal.WithLabelValues(rule).Inc()
		log.Warn("Fraud rule triggered", zap.String("rule", rule))
	}

	span.SetAttributes(
		attribute.Float64("fraud.score", score),
		attribute.String("fraud.risk_level", string(assessment.RiskLevel)),
		attribute.Bool("fraud.fraudulent", assessment.Fraudulent),
	)

	fields := []zap.Field{
		zap.Float64("score", score),
		zap.String("risk_level", string(assessment.RiskLevel)),
		zap.Bool("fraudulent", assessment.Fraudulent),
		zap.String("reasons", strings.Join(reasons, "; ")),
	}
	if assessment.RiskLevel == RiskLevelHigh {
		log.Warn("High fraud score", fields...)
	} else {
		log.Info("Fraud assessment complete", fields...)
	}

	return assessment, nil
}

func (e *Engine) checkHighAmount(ctx context.Context, txn *models.Transaction) (string, error) {
	avg, err := e.store.AverageAmount(ctx, txn.UserID)
	if err != nil {
		return "", fmt.Errorf("failed to compute average amount: %w", err)
	}
	if !avg.Valid || !avg.Decimal.IsPositive() {
		return "", nil
	}

	threshold := avg.Decimal.Mul(decimal.NewFromInt(highAmountMultiplier))
	if !txn.Amount.GreaterThan(threshold) {
		return "", nil
	}
	return fmt.Sprintf("Amount $%s exceeds %dx user average $%s",
		txn.Amount.StringFixed(2), highAmountMultiplier, avg.Decimal.StringFixed(2)), nil
}

func (e *Engine) checkRapidFire(ctx context.Context, txn *models.Transaction) (bool, error) {
	from := txn.TransactionDate.Add(-rapidFireWindow)
	to := txn.TransactionDate.Add(rapidFireWindow)

	count, err := e.store.CountInRange(ctx, txn.UserID, from, to)
	if err != nil {
		return false, fmt.Errorf("failed to count transactions in window: %w", err)
	}
	return count >= rapidFireMinCount, nil
}

// hasGeoAnomaly compares txn with the most recent other located transaction
// at or before it. history must be ordered newest first.
func hasGeoAnomaly(txn *models.Transaction, history []*models.Transaction) bool {
	for _, prev := range history {
		if prev.ID == txn.ID || !prev.HasLocation() || prev.TransactionDate.After(txn.TransactionDate) {
			continue
		}

		gap := txn.TransactionDate.Sub(prev.TransactionDate)
		if gap < 0 {
			gap = -gap
		}
		return !strings.EqualFold(prev.LocationValue(), txn.LocationValue()) && gap < geoAnomalyWindow
	}
	return false
}

func (e *Engine) checkUnusualCategory(ctx context.Context, txn *models.Transaction, loadHistory func() ([]*models.Transaction, error)) (bool, error) {
	key := models.NormalizeCategory(txn.Category)

	categories, err := e.store.DistinctCategories(ctx, txn.UserID)
	if err != nil {
		return false, fmt.Errorf("failed to list categories: %w", err)
	}

	known := false
	for _, c := range categories {
		if models.NormalizeCategory(c) == key {
			known = true
			break
		}
	}
	if !known {
		return true, nil
	}

	history, err := loadHistory()
	if err != nil {
		return false, err
	}

	count := 0
	for _, t := range history {
		if models.NormalizeCategory(t.Category) == key {
			count++
		}
	}
	return count == 1, nil
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > maxScore {
		return maxScore
	}
	return score
}
