package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the direction of money flow
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "INCOME"
	TransactionTypeExpense TransactionType = "EXPENSE"
)

// ParseTransactionType accepts any casing of INCOME/EXPENSE
func ParseTransactionType(s string) (TransactionType, bool) {
	switch TransactionType(strings.ToUpper(strings.TrimSpace(s))) {
	case TransactionTypeIncome:
		return TransactionTypeIncome, true
	case TransactionTypeExpense:
		return TransactionTypeExpense, true
	}
	return "", false
}

// IsExpense compares case-insensitively
func (t TransactionType) IsExpense() bool {
	return strings.EqualFold(string(t), string(TransactionTypeExpense))
}

// Transaction is a single income or expense record owned by a user
type Transaction struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	UserID          uuid.UUID       `json:"user_id" db:"user_id"`
	Amount          decimal.Decimal `json:"amount" db:"amount"`
	Type            TransactionType `json:"type" db:"type"`
	Category        string          `json:"category" db:"category"`
	Description     *string         `json:"description,omitempty" db:"description"`
	Location        *string         `json:"location,omitempty" db:"location"`
	TransactionDate time.Time       `json:"transaction_date" db:"transaction_date"`
	Fraudulent      bool            `json:"fraudulent" db:"fraudulent"`
	FraudScore      float64         `json:"fraud_score" db:"fraud_score"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
}

// LocationValue returns the trimmed location or "" when absent
func (t *Transaction) LocationValue() string {
	if t.Location == nil {
		return ""
	}
	return strings.TrimSpace(*t.Location)
}

// HasLocation reports whether the transaction carries a non-blank location
func (t *Transaction) HasLocation() bool {
	return t.LocationValue() != ""
}

// NormalizeCategory lowercases and trims a category label for matching
func NormalizeCategory(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}
