package demo

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/richxcame/finsight/pkg/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var generatorNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func TestGenerateCountAndOwnership(t *testing.T) {
	userID := uuid.New()

	txns := Generate(userID, generatorNow)

	require.Len(t, txns, 250)
	for _, txn := range txns {
		assert.Equal(t, userID, txn.UserID)
		assert.True(t, txn.Amount.GreaterThan(decimal.Zero))
		assert.False(t, txn.TransactionDate.After(generatorNow), "date %s is in the future", txn.TransactionDate)
		require.NotNil(t, txn.Description)
		require.NotNil(t, txn.Location)
	}
}

func TestGenerateIsDeterministicPerUser(t *testing.T) {
	userID := uuid.New()

	first := Generate(userID, generatorNow)
	second := Generate(userID, generatorNow)

	require.Len(t, second, len(first))
	for i := range first {
		assert.True(t, first[i].Amount.Equal(second[i].Amount))
		assert.Equal(t, first[i].Category, second[i].Category)
		assert.Equal(t, first[i].TransactionDate, second[i].TransactionDate)
	}
}

func TestGenerateSpansTwelveMonths(t *testing.T) {
	txns := Generate(uuid.New(), generatorNow)

	perMonth := map[string]int{}
	for _, txn := range txns {
		perMonth[txn.TransactionDate.Format("2006-01")]++
	}

	assert.Len(t, perMonth, 12)
	assert.Equal(t, 12, perMonth["2023-07"])
	assert.Equal(t, 30, perMonth["2024-06"])
}

func TestGenerateAmountsWithinCategoryRanges(t *testing.T) {
	txns := Generate(uuid.New(), generatorNow)

	scenarioIndex := map[int]bool{}
	for _, s := range fraudScenarios {
		scenarioIndex[s.index] = true
	}

	for i, txn := range txns {
		if scenarioIndex[i] {
			continue
		}
		r, ok := categoryAmounts[txn.Category]
		require.True(t, ok, "unexpected category %q", txn.Category)
		assert.True(t, txn.Amount.GreaterThanOrEqual(decimal.NewFromInt(int64(r.min))))
		assert.True(t, txn.Amount.LessThanOrEqual(decimal.NewFromInt(int64(r.max))))

		if txn.Category == "salary" {
			assert.Equal(t, models.TransactionTypeIncome, txn.Type)
		} else {
			assert.Equal(t, models.TransactionTypeExpense, txn.Type)
		}
	}
}

func TestGenerateInjectsFraudScenarios(t *testing.T) {
	txns := Generate(uuid.New(), generatorNow)

	for _, s := range fraudScenarios {
		txn := txns[s.index]
		assert.Equal(t, s.category, txn.Category)
		assert.Equal(t, models.TransactionTypeExpense, txn.Type)
		assert.Equal(t, s.description, *txn.Description)
		assert.True(t, txn.Amount.GreaterThanOrEqual(decimal.NewFromInt(int64(s.base))))
		assert.True(t, txn.Amount.LessThanOrEqual(decimal.NewFromInt(int64(s.base+s.spread))))
		if s.location != "" {
			assert.Equal(t, s.location, *txn.Location)
		}
	}
}

func TestGenerateEarlyInMonthStaysInPast(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

	txns := Generate(uuid.New(), now)

	for _, txn := range txns {
		assert.False(t, txn.TransactionDate.After(now))
	}
}
