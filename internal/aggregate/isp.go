package aggregate

import "github.com/nao1215/proxyscope/internal/model"

// TopISPs returns up to TopISPLimit ISPs with the most records scoring
// above 75, ascending by count.
func TopISPs(ds *model.Dataset) []model.CategoryCount {
	ranked := rank(countBy(ds, func(r *model.ProxyRecord) string { return r.ISP }))
	return ascending(topN(ranked, TopISPLimit))
}
