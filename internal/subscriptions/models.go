package subscriptions

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status of a detected subscription
type Status string

const (
	StatusActive  Status = "ACTIVE"
	StatusIgnored Status = "IGNORED"
)

// Audit action and entity type for status changes
const (
	ActionIgnoreSubscription = "IGNORE_SUBSCRIPTION"
	EntityTypeSubscription   = "SUBSCRIPTION"
)

// Detection constants
const (
	amountTolerancePercent = 1.0
	billingCycleDays       = 30
	defaultDueSoonDays     = 7
)

// Subscription is a recurring fixed-amount monthly charge mined from a
// user's expense history, keyed by the normalized category.
type Subscription struct {
	ID                 uuid.UUID       `json:"id" db:"id"`
	UserID             uuid.UUID       `json:"user_id" db:"user_id"`
	Merchant           string          `json:"merchant" db:"merchant"`
	NormalizedMerchant string          `json:"-" db:"normalized_merchant"`
	Amount             decimal.Decimal `json:"amount" db:"amount"`
	LastPaidDate       time.Time       `json:"last_paid_date" db:"last_paid_date"`
	NextDueDate        time.Time       `json:"next_due_date" db:"next_due_date"`
	Status             Status          `json:"status" db:"status"`
	CreatedAt          time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at" db:"updated_at"`
}

// Pattern is a category that passed every detection rule
type Pattern struct {
	NormalizedMerchant string
	Merchant           string
	Amount             decimal.Decimal
	LastPaidDate       time.Time
	NextDueDate        time.Time
}
