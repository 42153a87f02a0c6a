package transactions

import (
	"time"

	"github.com/google/uuid"
	"github.com/richxcame/finsight/internal/fraud"
	"github.com/richxcame/finsight/pkg/models"
	"github.com/shopspring/decimal"
)

// Status reported back to the client after ingestion
const (
	StatusFlagged   = "FLAGGED"
	StatusCompleted = "COMPLETED"
)

// Audit action and entity type for ingestion
const (
	ActionCreateTransaction = "CREATE_TRANSACTION"
	EntityTypeTransaction   = "TRANSACTION"
)

// CreateTransactionRequest is the body of POST /transactions
type CreateTransactionRequest struct {
	Amount          decimal.Decimal `json:"amount" binding:"required" validate:"required,gte=0.01"`
	Type            string          `json:"type" binding:"required" validate:"required,txn_type"`
	Category        string          `json:"category" binding:"required" validate:"required,notblank,max=100"`
	Description     *string         `json:"description,omitempty" validate:"omitempty,max=500"`
	Location        *string         `json:"location,omitempty" validate:"omitempty,max=255"`
	TransactionDate time.Time       `json:"transaction_date" binding:"required" validate:"required,notfuture"`
}

// TransactionResponse is the stored transaction plus the outcome of its assessment
type TransactionResponse struct {
	*models.Transaction
	RiskLevel fraud.RiskLevel `json:"risk_level"`
	Status    string          `json:"status"`
	Reasons   []string        `json:"reasons"`
}

// ListFilters narrows a transaction listing. Nil fields are not applied.
type ListFilters struct {
	Type       *models.TransactionType
	Category   string
	From       *time.Time
	To         *time.Time
	Fraudulent *bool
	SortBy     string
	SortDesc   bool
}

// sortColumns whitelists the sortable fields, keyed by the names clients send
var sortColumns = map[string]string{
	"transactionDate":  "transaction_date",
	"transaction_date": "transaction_date",
	"amount":           "amount",
	"category":         "category",
	"type":             "type",
	"fraudScore":       "fraud_score",
	"fraud_score":      "fraud_score",
	"createdAt":        "created_at",
	"created_at":       "created_at",
}

// sortColumn resolves a client sort field, falling back to the transaction date
func sortColumn(field string) string {
	if col, ok := sortColumns[field]; ok {
		return col
	}
	return "transaction_date"
}

// newTransaction builds an unscored transaction owned by userID
func newTransaction(userID uuid.UUID, req *CreateTransactionRequest) *models.Transaction {
	txnType, _ := models.ParseTransactionType(req.Type)
	return &models.Transaction{
		ID:              uuid.New(),
		UserID:          userID,
		Amount:          req.Amount.Round(2),
		Type:            txnType,
		Category:        req.Category,
		Description:     req.Description,
		Location:        req.Location,
		TransactionDate: req.TransactionDate.UTC(),
		Fraudulent:      false,
		FraudScore:      0,
	}
}
