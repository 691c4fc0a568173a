package aggregate

import (
	"sort"

	"github.com/nao1215/proxyscope/internal/model"
)

// countBy counts high-risk records per key.
func countBy(ds *model.Dataset, key func(*model.ProxyRecord) string) map[string]int {
	counts := make(map[string]int)
	if ds == nil {
		return counts
	}
	for i := range ds.Records {
		rec := &ds.Records[i]
		if !IsHighRisk(rec.FraudScore) {
			continue
		}
		counts[key(rec)]++
	}
	return counts
}

// rank orders counts by count descending, then by label ascending.
func rank(counts map[string]int) []model.CategoryCount {
	ranked := make([]model.CategoryCount, 0, len(counts))
	for label, n := range counts {
		ranked = append(ranked, model.CategoryCount{Label: label, Count: n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Label < ranked[j].Label
	})
	return ranked
}

// topN returns the first n ranked entries.
func topN(ranked []model.CategoryCount, n int) []model.CategoryCount {
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	out := make([]model.CategoryCount, len(ranked))
	copy(out, ranked)
	return out
}

// ascending returns the ranked entries in reverse, giving ascending counts
// with the top-ranked entry last.
func ascending(ranked []model.CategoryCount) []model.CategoryCount {
	out := make([]model.CategoryCount, len(ranked))
	for i, c := range ranked {
		out[len(ranked)-1-i] = c
	}
	return out
}
