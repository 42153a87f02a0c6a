package subscriptions

import (
	"sort"
	"strings"
	"time"

	"github.com/richxcame/finsight/pkg/models"
	"github.com/shopspring/decimal"
)

// DetectPatterns mines recurring monthly charges from a user's transactions.
//
// Expenses with a category are grouped by normalized category. A group is a
// subscription only when it has at most one transaction in every calendar
// month, appears in two consecutive months at least once, and its amounts
// stay within 1% of the smallest one. The result is sorted by normalized
// category.
func DetectPatterns(txns []*models.Transaction) []Pattern {
	groups := make(map[string][]*models.Transaction)
	for _, t := range txns {
		if t == nil || !t.Type.IsExpense() || strings.TrimSpace(t.Category) == "" {
			continue
		}
		key := models.NormalizeCategory(t.Category)
		groups[key] = append(groups[key], t)
	}

	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	patterns := make([]Pattern, 0)
	for _, key := range keys {
		if p, ok := detectGroup(key, groups[key]); ok {
			patterns = append(patterns, p)
		}
	}
	return patterns
}

func detectGroup(key string, txns []*models.Transaction) (Pattern, bool) {
	sorted := make([]*models.Transaction, len(txns))
	copy(sorted, txns)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TransactionDate.Before(sorted[j].TransactionDate)
	})

	months := make(map[int]int, len(sorted))
	for _, t := range sorted {
		m := monthIndex(t.TransactionDate)
		months[m]++
		if months[m] > 1 {
			return Pattern{}, false
		}
	}

	if !hasConsecutiveMonths(months) {
		return Pattern{}, false
	}

	if !withinTolerance(sorted) {
		return Pattern{}, false
	}

	first := sorted[0]
	lastPaid := truncateToDate(sorted[len(sorted)-1].TransactionDate)
	return Pattern{
		NormalizedMerchant: key,
		Merchant:           first.Category,
		Amount:             first.Amount,
		LastPaidDate:       lastPaid,
		NextDueDate:        lastPaid.AddDate(0, 0, billingCycleDays),
	}, true
}

// monthIndex numbers calendar months so adjacent months differ by one
func monthIndex(t time.Time) int {
	return t.Year()*12 + int(t.Month()) - 1
}

func hasConsecutiveMonths(months map[int]int) bool {
	for m := range months {
		if _, ok := months[m+1]; ok {
			return true
		}
	}
	return false
}

// withinTolerance compares the spread of amounts to the smallest one. A
// non-positive minimum skips the check.
func withinTolerance(txns []*models.Transaction) bool {
	lo, hi := txns[0].Amount, txns[0].Amount
	for _, t := range txns[1:] {
		if t.Amount.LessThan(lo) {
			lo = t.Amount
		}
		if t.Amount.GreaterThan(hi) {
			hi = t.Amount
		}
	}

	if !lo.IsPositive() {
		return true
	}

	variance := hi.Sub(lo).DivRound(lo, 6).Mul(decimal.NewFromInt(100))
	return !variance.GreaterThan(decimal.NewFromFloat(amountTolerancePercent))
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// mergePattern folds a detected pattern into the stored subscription for the
// same category. Amount and dates are refreshed and the status is kept, so a
// subscription the user ignored stays ignored. Without an existing record a
// new ACTIVE subscription is returned.
func mergePattern(existing *Subscription, p Pattern, now time.Time) *Subscription {
	if existing != nil {
		merged := *existing
		merged.Amount = p.Amount
		merged.LastPaidDate = p.LastPaidDate
		merged.NextDueDate = p.NextDueDate
		merged.UpdatedAt = now
		return &merged
	}

	return &Subscription{
		Merchant:           p.Merchant,
		NormalizedMerchant: p.NormalizedMerchant,
		Amount:             p.Amount,
		LastPaidDate:       p.LastPaidDate,
		NextDueDate:        p.NextDueDate,
		Status:             StatusActive,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}
