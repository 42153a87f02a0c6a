package dashboard

import (
	"sort"

	"github.com/richxcame/finsight/pkg/models"
	"github.com/shopspring/decimal"
)

const trendDateLayout = "2006-01-02"

// Summarize aggregates txns. Categories are reported with the label they
// were recorded under; trends are sorted by day.
func Summarize(txns []*models.Transaction) *Summary {
	s := &Summary{
		TotalIncome:        decimal.Zero,
		TotalExpenses:      decimal.Zero,
		SpendingByCategory: make(map[string]decimal.Decimal),
		FraudByCategory:    make(map[string]int64),
		SpendingTrends:     make([]TrendPoint, 0),
	}

	daily := make(map[string]decimal.Decimal)
	scoreSum := 0.0

	for _, t := range txns {
		s.TotalTransactions++
		scoreSum += t.FraudScore

		switch {
		case t.Type.IsExpense():
			s.TotalExpenses = s.TotalExpenses.Add(t.Amount)
			s.SpendingByCategory[t.Category] = s.SpendingByCategory[t.Category].Add(t.Amount)
			day := t.TransactionDate.UTC().Format(trendDateLayout)
			daily[day] = daily[day].Add(t.Amount)
		default:
			if txnType, ok := models.ParseTransactionType(string(t.Type)); ok && txnType == models.TransactionTypeIncome {
				s.TotalIncome = s.TotalIncome.Add(t.Amount)
			}
		}

		if t.Fraudulent {
			s.TotalFlaggedTransactions++
			s.FraudByCategory[t.Category]++
		}
	}

	s.CurrentBalance = s.TotalIncome.Sub(s.TotalExpenses)

	if s.TotalTransactions > 0 {
		avg := decimal.NewFromFloat(scoreSum / float64(s.TotalTransactions)).Round(2)
		s.AverageFraudScore = avg.InexactFloat64()
	}

	days := make([]string, 0, len(daily))
	for day := range daily {
		days = append(days, day)
	}
	sort.Strings(days)
	for _, day := range days {
		s.SpendingTrends = append(s.SpendingTrends, TrendPoint{Date: day, Amount: daily[day]})
	}

	return s
}
