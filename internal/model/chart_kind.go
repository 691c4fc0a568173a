package model

import "fmt"

// ChartKind identifies one of the four charts produced for a dataset.
type ChartKind string

// Chart kinds, in presentation order.
const (
	// ChartScore is the binned fraud-score distribution.
	ChartScore ChartKind = "score"

	// ChartCountry is the top high-risk countries bar chart.
	ChartCountry ChartKind = "country"

	// ChartISP is the top high-risk ISPs bar chart.
	ChartISP ChartKind = "isp"

	// ChartGeo is the per-country bubble map.
	ChartGeo ChartKind = "geo"
)

// ChartKinds returns every chart kind in presentation order.
func ChartKinds() []ChartKind {
	return []ChartKind{ChartScore, ChartCountry, ChartISP, ChartGeo}
}

// ParseChartKind converts a string to a ChartKind.
func ParseChartKind(s string) (ChartKind, error) {
	for _, k := range ChartKinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown chart kind %q", s)
}

// Bounds of a chart dimension in pixels.
const (
	MinChartPixels = 200
	MaxChartPixels = 4000
)

// ChartSpec describes where and how large a chart is exported.
type ChartSpec struct {
	// File is the output filename, relative to the output directory.
	File string `json:"file" yaml:"file,omitempty"`

	// Width is the raster width in pixels.
	Width int `json:"width" yaml:"width,omitempty"`

	// Height is the raster height in pixels.
	Height int `json:"height" yaml:"height,omitempty"`

	// Title overrides the chart title.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Insight overrides the annotation shown under the chart.
	Insight string `json:"insight,omitempty" yaml:"insight,omitempty"`
}

// DefaultChartSpec returns the built-in output settings for a chart kind.
func DefaultChartSpec(kind ChartKind) ChartSpec {
	switch kind {
	case ChartScore:
		return ChartSpec{File: "safe_report_1_fraud_score_distribution.png", Width: 1000, Height: 600}
	case ChartCountry:
		return ChartSpec{File: "safe_report_2_country_distribution.png", Width: 1000, Height: 600}
	case ChartISP:
		return ChartSpec{File: "safe_report_3_isp_distribution.png", Width: 1000, Height: 600}
	case ChartGeo:
		return ChartSpec{File: "geographic_heatmap.png", Width: 1200, Height: 600}
	default:
		return ChartSpec{}
	}
}

// Merge returns s with every non-zero field of override applied.
func (s ChartSpec) Merge(override ChartSpec) ChartSpec {
	if override.File != "" {
		s.File = override.File
	}
	if override.Width > 0 {
		s.Width = override.Width
	}
	if override.Height > 0 {
		s.Height = override.Height
	}
	if override.Title != "" {
		s.Title = override.Title
	}
	if override.Insight != "" {
		s.Insight = override.Insight
	}
	return s
}

// ValidSize reports whether both dimensions are within
// [MinChartPixels, MaxChartPixels].
func ValidSize(width, height int) bool {
	return width >= MinChartPixels && width <= MaxChartPixels &&
		height >= MinChartPixels && height <= MaxChartPixels
}

// String returns a human-readable chart name.
func (k ChartKind) String() string {
	switch k {
	case ChartScore:
		return "Fraud Score Distribution"
	case ChartCountry:
		return "High-Risk Countries"
	case ChartISP:
		return "High-Risk ISPs"
	case ChartGeo:
		return "Geographic Distribution"
	default:
		return string(k)
	}
}
