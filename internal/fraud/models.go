package fraud

import (
	"time"

	"github.com/google/uuid"
	"github.com/richxcame/finsight/pkg/models"
	"github.com/shopspring/decimal"
)

// Rule weights
const (
	highAmountPoints      = 30.0
	rapidFirePoints       = 25.0
	geoAnomalyPoints      = 25.0
	unusualCategoryPoints = 20.0
)

// Rule thresholds
const (
	highAmountMultiplier = 3
	rapidFireWindow      = 10 * time.Minute
	rapidFireMinCount    = 5
	geoAnomalyWindow     = 2 * time.Hour
	maxScore             = 100.0
)

// Rule names used as metric labels
const (
	RuleHighAmount      = "high_amount"
	RuleRapidFire       = "rapid_fire"
	RuleGeoAnomaly      = "geo_anomaly"
	RuleUnusualCategory = "unusual_category"
)

// Assessment is the outcome of running every rule against one transaction.
// It is computed fresh on every call and never stored.
type Assessment struct {
	Fraudulent bool      `json:"fraudulent"`
	Score      float64   `json:"fraud_score"`
	RiskLevel  RiskLevel `json:"risk_level"`
	Reasons    []string  `json:"reasons"`
}

// ShouldRaiseAlert applies the alerting policy of the transaction workflow:
// any non-zero score with at least one reason, which is looser than the
// fraud flag threshold.
func (a *Assessment) ShouldRaiseAlert() bool {
	return a != nil && a.Score > 0 && len(a.Reasons) > 0
}

// FraudAlert is raised for a suspicious transaction
type FraudAlert struct {
	ID            uuid.UUID           `json:"id" db:"id"`
	UserID        uuid.UUID           `json:"user_id" db:"user_id"`
	TransactionID uuid.UUID           `json:"transaction_id" db:"transaction_id"`
	Message       string              `json:"message" db:"message"`
	Severity      RiskLevel           `json:"severity" db:"severity"`
	Resolved      bool                `json:"resolved" db:"resolved"`
	CreatedAt     time.Time           `json:"created_at" db:"created_at"`
	Transaction   *TransactionSummary `json:"transaction,omitempty"`
}

// TransactionSummary is the flagged transaction embedded in alert listings
type TransactionSummary struct {
	ID              uuid.UUID              `json:"id"`
	Amount          decimal.Decimal        `json:"amount"`
	Type            models.TransactionType `json:"type"`
	Category        string                 `json:"category"`
	Description     *string                `json:"description,omitempty"`
	Location        *string                `json:"location,omitempty"`
	TransactionDate time.Time              `json:"transaction_date"`
	Fraudulent      bool                   `json:"fraudulent"`
	FraudScore      float64                `json:"fraud_score"`
}

// AlertFilters narrows an alert listing
type AlertFilters struct {
	Resolved *bool
	Severity *RiskLevel
}
