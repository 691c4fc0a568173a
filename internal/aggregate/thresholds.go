package aggregate

// Filtering thresholds and result sizes.
const (
	// DistributionFloor is the lowest score included in the score
	// distribution (inclusive).
	DistributionFloor = 70.0

	// HighRiskThreshold is the score a record must exceed to count as high
	// risk in the country, ISP and geographic aggregations (exclusive).
	HighRiskThreshold = 75.0

	// TopCountryLimit is the number of countries in the country chart.
	TopCountryLimit = 10

	// TopISPLimit is the number of ISPs in the ISP chart.
	TopISPLimit = 5

	// LeadingCountryLimit is the number of countries named in the summary text.
	LeadingCountryLimit = 3
)

// IsHighRisk reports whether score exceeds HighRiskThreshold.
func IsHighRisk(score float64) bool {
	return score > HighRiskThreshold
}

// InDistribution reports whether score is at or above DistributionFloor.
func InDistribution(score float64) bool {
	return score >= DistributionFloor
}
