package chart

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Colors used by the figures.
var (
	// ScoreBinColors are the bar colors of the score bins, lowest bin first.
	ScoreBinColors = []color.Color{
		MustHex("#ffcc00"),
		MustHex("#ff9900"),
		MustHex("#d9534f"),
	}

	// HighlightColor marks highlighted countries.
	HighlightColor = MustHex("#d9534f")

	// NeutralColor is the bar color of countries that are not highlighted.
	NeutralColor = MustHex("#6c757d")

	// ISPColor is the bar color of the ISP chart.
	ISPColor = MustHex("#5bc0de")

	insightText       = MustHex("#808080")
	insightBackground = MustHex("#f5f5f5")
	insightBorder     = MustHex("#d3d3d3")
)

// DefaultHighlight lists the countries drawn in HighlightColor by default.
var DefaultHighlight = []string{"United States", "Russia"}

// ParseHex parses a "#rrggbb" color.
func ParseHex(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil //nolint:gosec // masked by uint8 conversion
}

// MustHex is like ParseHex but panics on malformed input.
func MustHex(s string) color.RGBA {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

var countPrinter = message.NewPrinter(language.English)

// FormatCount formats n with thousands separators, e.g. 12345 as "12,345".
func FormatCount(n int) string {
	return countPrinter.Sprintf("%d", n)
}

// Highlighted reports whether name is in set. Matching is exact.
func Highlighted(name string, set []string) bool {
	for _, s := range set {
		if s == name {
			return true
		}
	}
	return false
}
