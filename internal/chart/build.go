package chart

import (
	"fmt"

	"github.com/nao1215/proxyscope/internal/model"
)

// Build creates the figure of the given kind from an analysis whose
// aggregations have already been computed.
func Build(kind model.ChartKind, a *model.Analysis, highlight []string, spec model.ChartSpec) (*Figure, error) {
	if a == nil {
		return nil, fmt.Errorf("build %s chart: nil analysis", kind)
	}
	switch kind {
	case model.ChartScore:
		return NewScoreFigure(a.ScoreDistribution, spec)
	case model.ChartCountry:
		return NewCountryFigure(a.TopCountries, a.LeadingCountries, highlight, spec)
	case model.ChartISP:
		return NewISPFigure(a.TopISPs, spec)
	case model.ChartGeo:
		return NewGeoFigure(a.CountryTotals, spec)
	default:
		return nil, fmt.Errorf("build chart: unknown kind %q", kind)
	}
}
