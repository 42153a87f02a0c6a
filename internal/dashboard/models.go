package dashboard

import (
	"github.com/shopspring/decimal"
)

// Summary aggregates a user's transactions for the dashboard
type Summary struct {
	TotalIncome              decimal.Decimal            `json:"total_income"`
	TotalExpenses            decimal.Decimal            `json:"total_expenses"`
	CurrentBalance           decimal.Decimal            `json:"current_balance"`
	TotalTransactions        int64                      `json:"total_transactions"`
	TotalFlaggedTransactions int64                      `json:"total_flagged_transactions"`
	AverageFraudScore        float64                    `json:"average_fraud_score"`
	SpendingByCategory       map[string]decimal.Decimal `json:"spending_by_category"`
	FraudByCategory          map[string]int64           `json:"fraud_by_category"`
	SpendingTrends           []TrendPoint               `json:"spending_trends"`
}

// TrendPoint is the total spent on one calendar day
type TrendPoint struct {
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}
