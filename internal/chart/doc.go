// Package chart renders aggregate summaries as figures.
//
// A Figure wraps a gonum plot together with an optional color legend and an
// insight annotation drawn in a band under the plot. Figures are exported at
// an exact pixel size as PNG or SVG.
//
// The builders mirror the four aggregations:
//   - NewScoreFigure: vertical bars, one color per score bin
//   - NewCountryFigure: horizontal bars, highlighted countries in red
//   - NewISPFigure: horizontal bars
//   - NewGeoFigure: country markers on an equirectangular map, colored by count
package chart
