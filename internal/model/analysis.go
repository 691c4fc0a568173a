package model

import (
	"sort"
	"time"
)

// Analysis is the result of one proxyscope run over a single source file.
// It holds every aggregate the charts are drawn from and is serialized as-is
// into JSON reports and the history database.
type Analysis struct {
	// === Basic Information ===

	// Source is the path of the analyzed CSV file.
	Source string `json:"source"`

	// GeneratedAt is when the analysis was performed.
	GeneratedAt time.Time `json:"generated_at"`

	// RecordCount is the number of cleaned records.
	RecordCount int `json:"record_count"`

	// DroppedCount is the number of rows dropped for an unparseable score.
	DroppedCount int `json:"dropped_count"`

	// === Aggregates ===

	// ScoreDistribution holds the three fraud-score bins in label order.
	ScoreDistribution []CategoryCount `json:"score_distribution,omitempty"`

	// TopCountries holds up to ten high-risk countries, ascending by count.
	TopCountries []CategoryCount `json:"top_countries,omitempty"`

	// LeadingCountries holds the three highest-ranked high-risk countries.
	LeadingCountries []string `json:"leading_countries,omitempty"`

	// TopISPs holds up to five high-risk ISPs, ascending by count.
	TopISPs []CategoryCount `json:"top_isps,omitempty"`

	// CountryTotals maps every high-risk country to its record count.
	CountryTotals map[string]int `json:"country_totals,omitempty"`

	// === Outputs ===

	// Charts maps each exported chart kind to the written file path.
	Charts map[ChartKind]string `json:"charts,omitempty"`

	// PerformedSteps lists the pipeline steps that ran, in order.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// Error is the last step error, if any.
	// It is not serialized; ErrorMessage carries the text.
	Error error `json:"-"`

	// ErrorMessage is the text of Error.
	ErrorMessage string `json:"error,omitempty"`

	// Dataset is the cleaned dataset the aggregates were computed from.
	// It is never serialized.
	Dataset *Dataset `json:"-"`
}

// NewAnalysis creates an Analysis for the given dataset.
func NewAnalysis(ds *Dataset) *Analysis {
	a := &Analysis{
		GeneratedAt:   time.Now(),
		Dataset:       ds,
		CountryTotals: make(map[string]int),
		Charts:        make(map[ChartKind]string),
	}
	if ds != nil {
		a.Source = ds.Source
		a.RecordCount = ds.Len()
		a.DroppedCount = ds.Dropped
	}
	return a
}

// AddChart records the output path of an exported chart.
func (a *Analysis) AddChart(kind ChartKind, path string) {
	if a.Charts == nil {
		a.Charts = make(map[ChartKind]string)
	}
	a.Charts[kind] = path
}

// HighRiskTotal returns the number of records counted in CountryTotals.
func (a *Analysis) HighRiskTotal() int {
	total := 0
	for _, n := range a.CountryTotals {
		total += n
	}
	return total
}

// DistributionTotal returns the number of records across the score bins.
func (a *Analysis) DistributionTotal() int {
	return Total(a.ScoreDistribution)
}

// SortedCountryTotals returns CountryTotals as a slice ordered by count
// descending, then by country name.
func (a *Analysis) SortedCountryTotals() []CategoryCount {
	out := make([]CategoryCount, 0, len(a.CountryTotals))
	for name, n := range a.CountryTotals {
		out = append(out, CategoryCount{Label: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// Failed reports whether a step recorded an error.
func (a *Analysis) Failed() bool {
	return a.ErrorMessage != ""
}
