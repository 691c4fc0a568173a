package aggregate

import "github.com/nao1215/proxyscope/internal/model"

func countryName(r *model.ProxyRecord) string { return r.CountryName }

// CountryRanking holds the top high-risk countries.
type CountryRanking struct {
	// Top holds up to TopCountryLimit countries, ascending by count.
	Top []model.CategoryCount

	// Leading holds the LeadingCountryLimit highest-ranked country names,
	// highest first.
	Leading []string
}

// TopCountries ranks countries by their number of records scoring above 75.
func TopCountries(ds *model.Dataset) CountryRanking {
	ranked := rank(countBy(ds, countryName))

	leading := topN(ranked, LeadingCountryLimit)
	return CountryRanking{
		Top:     ascending(topN(ranked, TopCountryLimit)),
		Leading: model.Labels(leading),
	}
}

// CountryTotals counts records scoring above 75 for every country present.
func CountryTotals(ds *model.Dataset) map[string]int {
	return countBy(ds, countryName)
}
