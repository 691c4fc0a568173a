package model

// RiskLevel classifies a fraud score.
//
// Levels are ordered so they can be compared directly; the three levels from
// RiskElevated upward line up with the fraud-score bins.
type RiskLevel int

const (
	// RiskLow covers scores below 70. These records are not charted.
	RiskLow RiskLevel = iota

	// RiskElevated covers scores in [70, 80).
	RiskElevated

	// RiskHigh covers scores in [80, 90).
	RiskHigh

	// RiskCritical covers scores of 90 and above.
	RiskCritical
)

// String returns a human-readable representation of the risk level.
func (r RiskLevel) String() string {
	switch r {
	case RiskLow:
		return "LOW"
	case RiskElevated:
		return "ELEVATED"
	case RiskHigh:
		return "HIGH"
	case RiskCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// RiskLevelOf returns the risk level of a fraud score.
func RiskLevelOf(score float64) RiskLevel {
	switch {
	case score >= 90:
		return RiskCritical
	case score >= 80:
		return RiskHigh
	case score >= 70:
		return RiskElevated
	default:
		return RiskLow
	}
}

// riskRecommendations maps each level to the action suggested in reports.
var riskRecommendations = map[RiskLevel]string{
	RiskLow:      "No action required.",
	RiskElevated: "Monitor these sources and require step-up verification on sensitive actions.",
	RiskHigh:     "Consider adding MFA for users connecting from these proxies.",
	RiskCritical: "Block or challenge traffic from these proxies.",
}

// Recommendation returns the suggested action for the level.
func (r RiskLevel) Recommendation() string {
	if s, ok := riskRecommendations[r]; ok {
		return s
	}
	return ""
}
