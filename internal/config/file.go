package config

import (
	"fmt"
	"sort"

	"github.com/nao1215/proxyscope/internal/model"
)

// File represents the structure of the .proxyscope configuration file.
//
//	highlight:
//	  - United States
//	  - Russia
//	charts:
//	  geo:
//	    file: heatmap.svg
//	    width: 1600
type File struct {
	// Highlight lists the countries drawn in the highlight color.
	// Names must match the dataset exactly.
	Highlight []string `yaml:"highlight,omitempty"`

	// Charts maps chart kinds (score, country, isp, geo) to overrides of
	// their default export settings.
	Charts map[string]model.ChartSpec `yaml:"charts,omitempty"`
}

// GetChartSpec returns the export settings for a chart kind.
// It merges the chart-specific override with the built-in defaults.
func (cf *File) GetChartSpec(kind model.ChartKind) model.ChartSpec {
	result := model.DefaultChartSpec(kind)
	if override, ok := cf.Charts[string(kind)]; ok {
		result = result.Merge(override)
	}
	return result
}

// Validate reports unknown chart names and out-of-range sizes.
func (cf *File) Validate() error {
	names := make([]string, 0, len(cf.Charts))
	for name := range cf.Charts {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		kind, err := model.ParseChartKind(name)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrUnknownChart, name)
		}
		spec := cf.GetChartSpec(kind)
		if !model.ValidSize(spec.Width, spec.Height) {
			return fmt.Errorf("%w: %s is %dx%d, allowed %d-%d pixels",
				ErrInvalidChartSize, name, spec.Width, spec.Height, model.MinChartPixels, model.MaxChartPixels)
		}
	}
	return nil
}
