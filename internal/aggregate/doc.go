// Package aggregate turns a cleaned dataset into chart-ready summaries.
//
// The four aggregators are pure functions of a *model.Dataset:
//   - ScoreDistribution: records with score >= 70, binned into 70-79, 80-89, 90-100
//   - TopCountries: the ten countries with the most records scoring above 75
//   - TopISPs: the five ISPs with the most records scoring above 75
//   - CountryTotals: every country with its count of records scoring above 75
//
// Country and ISP names are grouping keys used verbatim. Ranking ties are
// broken by lexical order of the name, so results are deterministic for a
// fixed input.
package aggregate
