package aggregate

import "github.com/nao1215/proxyscope/internal/model"

// ScoreBin is a half-open score interval [Low, High) with its label.
type ScoreBin struct {
	Label string
	Low   float64
	High  float64
}

// Contains reports whether score falls inside the bin.
func (b ScoreBin) Contains(score float64) bool {
	return score >= b.Low && score < b.High
}

// ScoreBins are the fraud-score bins in label order. The upper edge of the
// last bin is 101 so that a score of exactly 100 is included.
var ScoreBins = []ScoreBin{
	{Label: "70-79", Low: 70, High: 80},
	{Label: "80-89", Low: 80, High: 90},
	{Label: "90-100", Low: 90, High: 101},
}

// ScoreDistribution counts records with a fraud score of at least 70 per
// score bin. The result always has one entry per bin in ScoreBins order,
// with empty bins reported as zero. Scores of 101 and above fall outside
// every bin and are not counted.
func ScoreDistribution(ds *model.Dataset) []model.CategoryCount {
	out := make([]model.CategoryCount, len(ScoreBins))
	for i, bin := range ScoreBins {
		out[i].Label = bin.Label
	}
	if ds == nil {
		return out
	}

	for _, rec := range ds.Records {
		if !InDistribution(rec.FraudScore) {
			continue
		}
		for i, bin := range ScoreBins {
			if bin.Contains(rec.FraudScore) {
				out[i].Count++
				break
			}
		}
	}
	return out
}
