package fraud

// RiskLevel is the ordinal band derived from a fraud score
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "LOW"
	RiskLevelMedium RiskLevel = "MEDIUM"
	RiskLevelHigh   RiskLevel = "HIGH"
)

const (
	mediumRiskThreshold = 40.0
	highRiskThreshold   = 70.0
)

// ClassifyRisk maps a score to its band: [0,40) LOW, [40,70) MEDIUM, [70,100] HIGH.
// Scores outside [0,100] are not rejected.
func ClassifyRisk(score float64) RiskLevel {
	switch {
	case score >= highRiskThreshold:
		return RiskLevelHigh
	case score >= mediumRiskThreshold:
		return RiskLevelMedium
	default:
		return RiskLevelLow
	}
}

// ParseRiskLevel accepts the exact band names only
func ParseRiskLevel(s string) (RiskLevel, bool) {
	switch RiskLevel(s) {
	case RiskLevelLow, RiskLevelMedium, RiskLevelHigh:
		return RiskLevel(s), true
	}
	return "", false
}
