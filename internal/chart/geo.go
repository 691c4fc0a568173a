package chart

import (
	"fmt"
	"image/color"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/nao1215/proxyscope/internal/model"
)

// Map bounds in degrees.
const (
	minLon = -180
	maxLon = 180
	minLat = -60
	maxLat = 85
)

// maxLabeled is the number of largest countries labeled on the map.
const maxLabeled = 5

type located struct {
	name  string
	count int
	at    LatLon
}

// NewGeoFigure builds the geographic bubble map. Each country is a marker at its
// centroid colored by count on a sequential scale. Countries without a known
// centroid are listed in the annotation under the map.
func NewGeoFigure(totals map[string]int, spec model.ChartSpec) (*Figure, error) {
	p := newPlot(orDefault(spec.Title, GeoTitle), "Longitude", "Latitude")
	p.X.Min, p.X.Max = minLon, maxLon
	p.Y.Min, p.Y.Max = minLat, maxLat
	p.Add(plotter.NewGrid())

	var points []located
	var missing []string
	maxCount := 0
	for name, count := range totals {
		if count > maxCount {
			maxCount = count
		}
		at, ok := Locate(name)
		if !ok {
			missing = append(missing, name)
			continue
		}
		points = append(points, located{name: name, count: count, at: at})
	}
	// Smaller markers are drawn last so they stay visible.
	sort.Slice(points, func(i, j int) bool {
		if points[i].count != points[j].count {
			return points[i].count > points[j].count
		}
		return points[i].name < points[j].name
	})
	sort.Strings(missing)

	ramp := NewRamp(0, math.Max(1, float64(maxCount)))

	if len(points) > 0 {
		xys := make(plotter.XYs, len(points))
		for i, pt := range points {
			xys[i] = plotter.XY{X: pt.at.Lon, Y: pt.at.Lat}
		}
		scatter, err := plotter.NewScatter(xys)
		if err != nil {
			return nil, fmt.Errorf("geo markers: %w", err)
		}
		scatter.GlyphStyleFunc = func(i int) draw.GlyphStyle {
			c, err := ramp.At(float64(points[i].count))
			if err != nil {
				c = color.Black
			}
			return draw.GlyphStyle{
				Color:  c,
				Shape:  draw.CircleGlyph{},
				Radius: markerRadius(points[i].count, maxCount),
			}
		}
		p.Add(scatter)

		if err := addMapLabels(p, points); err != nil {
			return nil, err
		}
	}

	legend := plot.New()
	legend.HideX()
	legend.Y.Label.Text = "High-Risk Proxies"
	legend.Y.Padding = 0
	legend.Add(&plotter.ColorBar{ColorMap: ramp, Vertical: true, Colors: 64})

	insight := spec.Insight
	if insight == "" && len(missing) > 0 {
		insight = "Not mapped: " + strings.Join(missing, ", ")
	}

	return &Figure{
		Kind:    model.ChartGeo,
		Plot:    p,
		Legend:  legend,
		Insight: insight,
	}, nil
}

// markerRadius scales the marker area with the count.
func markerRadius(count, maxCount int) vg.Length {
	const minRadius, maxRadius = 3, 18
	if maxCount <= 0 {
		return vg.Points(minRadius)
	}
	frac := math.Sqrt(float64(count) / float64(maxCount))
	return vg.Points(minRadius + frac*(maxRadius-minRadius))
}

// addMapLabels names the largest countries next to their markers.
func addMapLabels(p *plot.Plot, points []located) error {
	n := min(len(points), maxLabeled)
	xys := make(plotter.XYs, n)
	names := make([]string, n)
	for i := range n {
		xys[i] = plotter.XY{X: points[i].at.Lon, Y: points[i].at.Lat}
		names[i] = points[i].name
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: names})
	if err != nil {
		return fmt.Errorf("map labels: %w", err)
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].Font.Size = vg.Points(8)
	}
	labels.Offset = vg.Point{X: vg.Points(6), Y: vg.Points(6)}
	p.Add(labels)
	return nil
}
