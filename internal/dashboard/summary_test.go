package dashboard

import (
	"testing"
	"time"

	"github.com/richxcame/finsight/pkg/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func txn(t models.TransactionType, category, amount string, date time.Time, fraudulent bool, score float64) *models.Transaction {
	return &models.Transaction{
		Type:            t,
		Category:        category,
		Amount:          decimal.RequireFromString(amount),
		TransactionDate: date,
		Fraudulent:      fraudulent,
		FraudScore:      score,
	}
}

func TestSummarize(t *testing.T) {
	d1 := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 5, 2, 18, 0, 0, 0, time.UTC)

	s := Summarize([]*models.Transaction{
		txn(models.TransactionTypeIncome, "salary", "3000.00", d1, false, 0),
		txn(models.TransactionTypeExpense, "groceries", "45.50", d1, false, 20),
		txn(models.TransactionTypeExpense, "groceries", "54.50", d2, true, 55),
		txn(models.TransactionTypeExpense, "electronics", "900.00", d2, true, 75),
	})

	assert.True(t, s.TotalIncome.Equal(decimal.RequireFromString("3000")))
	assert.True(t, s.TotalExpenses.Equal(decimal.RequireFromString("1000")))
	assert.True(t, s.CurrentBalance.Equal(decimal.RequireFromString("2000")))
	assert.Equal(t, int64(4), s.TotalTransactions)
	assert.Equal(t, int64(2), s.TotalFlaggedTransactions)
	assert.Equal(t, 37.5, s.AverageFraudScore)

	assert.True(t, s.SpendingByCategory["groceries"].Equal(decimal.NewFromInt(100)))
	assert.Equal(t, int64(1), s.FraudByCategory["groceries"])
	assert.Equal(t, int64(1), s.FraudByCategory["electronics"])
	_, hasSalary := s.SpendingByCategory["salary"]
	assert.False(t, hasSalary)

	require.Len(t, s.SpendingTrends, 2)
	assert.Equal(t, "2024-05-01", s.SpendingTrends[0].Date)
	assert.True(t, s.SpendingTrends[0].Amount.Equal(decimal.RequireFromString("45.50")))
	assert.Equal(t, "2024-05-02", s.SpendingTrends[1].Date)
	assert.True(t, s.SpendingTrends[1].Amount.Equal(decimal.RequireFromString("954.50")))
}

func TestSummarizeRoundsAverageScore(t *testing.T) {
	now := time.Now()
	s := Summarize([]*models.Transaction{
		txn(models.TransactionTypeExpense, "a", "1", now, false, 10),
		txn(models.TransactionTypeExpense, "a", "1", now, false, 20),
		txn(models.TransactionTypeExpense, "a", "1", now, false, 20),
	})
	assert.Equal(t, 16.67, s.AverageFraudScore)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.True(t, s.CurrentBalance.IsZero())
	assert.Zero(t, s.AverageFraudScore)
	assert.NotNil(t, s.SpendingTrends)
	assert.Empty(t, s.SpendingByCategory)
}
