package chart

import (
	"fmt"
	"image/color"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/nao1215/proxyscope/internal/model"
)

// Default titles and annotations.
const (
	ScoreTitle   = "Distribution of Proxies by High-Risk Score"
	ScoreInsight = "Business Insight: Over 70% of proxies have a fraud score above 80.\nConsider adding MFA for these users."

	CountryTitle = "Top 10 Countries Hosting High-Risk Proxies (Fraud Score > 75)"
	// CountryInsight is expanded with the leading countries in place of
	// CountriesPlaceholder.
	CountryInsight = "Business Insight: {countries} are consistently high-risk.\nConsider implementing geo-aware filters for these regions."

	ISPTitle   = "Top 5 ISPs Hosting High-Risk Proxies (Fraud Score > 75)"
	ISPInsight = "Business Insight: A few ISPs host a disproportionate number of high-risk proxies.\nConsider rate-limiting traffic from these networks."

	GeoTitle = "Geographic Distribution of High-Risk Proxies (Fraud Score > 75)"

	// CountriesPlaceholder is replaced by the comma-separated leading countries.
	CountriesPlaceholder = "{countries}"
)

const barWidth vg.Length = 36

// newPlot creates a plot with the common title styling.
func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.Title.Padding = vg.Points(8)
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	return p
}

// orDefault returns s, or def when s is empty.
func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// addBars adds one bar per count, each with its own color, at positions
// 0..len(counts)-1 along the category axis, and labels every bar with its
// formatted value.
func addBars(p *plot.Plot, counts []model.CategoryCount, colorOf func(i int) color.Color, horizontal bool) error {
	width := barWidth
	if horizontal {
		width = vg.Points(18)
	}

	positions := make(plotter.XYs, len(counts))
	labels := make([]string, len(counts))
	for i, c := range counts {
		bar, err := plotter.NewBarChart(plotter.Values{float64(c.Count)}, width)
		if err != nil {
			return fmt.Errorf("bar %q: %w", c.Label, err)
		}
		bar.XMin = float64(i)
		bar.Horizontal = horizontal
		bar.Color = colorOf(i)
		bar.LineStyle.Width = 0
		p.Add(bar)

		if horizontal {
			positions[i] = plotter.XY{X: float64(c.Count), Y: float64(i)}
		} else {
			positions[i] = plotter.XY{X: float64(i), Y: float64(c.Count)}
		}
		labels[i] = FormatCount(c.Count)
	}

	if horizontal {
		p.X.Min = 0
		p.X.Max = headroom(counts)
	} else {
		p.Y.Min = 0
		p.Y.Max = headroom(counts)
	}
	if len(counts) == 0 {
		// An empty category axis gets no ticks.
		if horizontal {
			p.Y.Tick.Marker = plot.ConstantTicks(nil)
		} else {
			p.X.Tick.Marker = plot.ConstantTicks(nil)
		}
		return nil
	}

	names := model.Labels(counts)
	if horizontal {
		p.NominalY(names...)
	} else {
		p.NominalX(names...)
	}

	valueLabels, err := plotter.NewLabels(plotter.XYLabels{XYs: positions, Labels: labels})
	if err != nil {
		return fmt.Errorf("value labels: %w", err)
	}
	for i := range valueLabels.TextStyle {
		if horizontal {
			valueLabels.TextStyle[i].XAlign = draw.XLeft
			valueLabels.TextStyle[i].YAlign = draw.YCenter
		} else {
			valueLabels.TextStyle[i].XAlign = draw.XCenter
		}
	}
	if horizontal {
		valueLabels.Offset = vg.Point{X: vg.Points(4)}
	} else {
		valueLabels.Offset = vg.Point{Y: vg.Points(4)}
	}
	p.Add(valueLabels)

	return nil
}

// headroom returns an axis maximum leaving space for the value labels.
func headroom(counts []model.CategoryCount) float64 {
	maxCount := 0
	for _, c := range counts {
		if c.Count > maxCount {
			maxCount = c.Count
		}
	}
	if maxCount == 0 {
		return 1
	}
	return float64(maxCount) * 1.15
}

// NewScoreFigure builds the fraud-score distribution chart.
func NewScoreFigure(bins []model.CategoryCount, spec model.ChartSpec) (*Figure, error) {
	p := newPlot(orDefault(spec.Title, ScoreTitle), "Fraud Score Range", "Number of Proxies")

	colorOf := func(i int) color.Color {
		return ScoreBinColors[i%len(ScoreBinColors)]
	}
	if err := addBars(p, bins, colorOf, false); err != nil {
		return nil, err
	}

	return &Figure{
		Kind:    model.ChartScore,
		Plot:    p,
		Insight: orDefault(spec.Insight, ScoreInsight),
	}, nil
}

// NewCountryFigure builds the top high-risk countries chart. Countries in
// highlight are drawn in HighlightColor.
func NewCountryFigure(top []model.CategoryCount, leading, highlight []string, spec model.ChartSpec) (*Figure, error) {
	p := newPlot(orDefault(spec.Title, CountryTitle), "Number of High-Risk Proxies", "Country")

	colorOf := func(i int) color.Color {
		if Highlighted(top[i].Label, highlight) {
			return HighlightColor
		}
		return NeutralColor
	}
	if err := addBars(p, top, colorOf, true); err != nil {
		return nil, err
	}

	insight := strings.ReplaceAll(orDefault(spec.Insight, CountryInsight), CountriesPlaceholder, strings.Join(leading, ", "))
	return &Figure{
		Kind:    model.ChartCountry,
		Plot:    p,
		Insight: insight,
	}, nil
}

// NewISPFigure builds the top high-risk ISPs chart.
func NewISPFigure(top []model.CategoryCount, spec model.ChartSpec) (*Figure, error) {
	p := newPlot(orDefault(spec.Title, ISPTitle), "Number of High-Risk Proxies", "Internet Service Provider (ISP)")

	colorOf := func(int) color.Color { return ISPColor }
	if err := addBars(p, top, colorOf, true); err != nil {
		return nil, err
	}

	return &Figure{
		Kind:    model.ChartISP,
		Plot:    p,
		Insight: orDefault(spec.Insight, ISPInsight),
	}, nil
}
