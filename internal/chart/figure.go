package chart

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgsvg"

	"github.com/nao1215/proxyscope/internal/model"
)

// Format is an export format.
type Format string

// Supported export formats.
const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// dpi is the export resolution. Pixel sizes are converted to vg lengths at
// this resolution so that a 1000x600 figure is exactly 1000x600 pixels.
const dpi = 96

// Size limits for exported figures.
const (
	MinPixels = model.MinChartPixels
	MaxPixels = model.MaxChartPixels
)

// ErrInvalidSize is returned when a width or height is outside
// [MinPixels, MaxPixels].
var ErrInvalidSize = errors.New("invalid figure size")

// FormatFromPath returns the format implied by a file extension.
// Anything other than ".svg" is exported as PNG.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".svg") {
		return FormatSVG
	}
	return FormatPNG
}

// ParseFormat converts a string to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatPNG:
		return FormatPNG, nil
	case FormatSVG:
		return FormatSVG, nil
	default:
		return "", fmt.Errorf("unsupported format %q", s)
	}
}

// Figure is a renderable chart.
type Figure struct {
	// Kind identifies the chart.
	Kind model.ChartKind

	// Plot is the main plot.
	Plot *plot.Plot

	// Legend is an optional color bar drawn to the right of the plot.
	Legend *plot.Plot

	// Insight is an annotation drawn in a box under the plot.
	// Lines are separated by "\n".
	Insight string
}

// pixels converts a pixel count to a vg length at the export resolution.
func pixels(n int) vg.Length {
	return vg.Length(n) * vg.Inch / dpi
}

// Draw draws the figure onto c.
func (f *Figure) Draw(c draw.Canvas) {
	width := c.Max.X - c.Min.X
	height := c.Max.Y - c.Min.Y

	area := c
	if f.Insight != "" {
		band := height * 0.2
		f.drawInsight(draw.Crop(c, 0, 0, 0, -(height-band)))
		area = draw.Crop(c, 0, 0, band, 0)
	}

	if f.Legend != nil {
		strip := width * 0.1
		f.Legend.Draw(draw.Crop(area, width-strip, 0, 0, 0))
		area = draw.Crop(area, 0, -strip, 0, 0)
	}

	f.Plot.Draw(area)
}

// drawInsight draws the insight text centered in a bordered box.
func (f *Figure) drawInsight(c draw.Canvas) {
	sty := f.Plot.Title.TextStyle
	sty.Color = insightText
	sty.Font.Size = vg.Points(10)
	sty.XAlign = draw.XCenter
	sty.YAlign = draw.YCenter

	textWidth := sty.Width(f.Insight)
	textHeight := sty.Height(f.Insight)
	pad := vg.Points(6)
	center := c.Center()

	box := []vg.Point{
		{X: center.X - textWidth/2 - pad, Y: center.Y - textHeight/2 - pad},
		{X: center.X + textWidth/2 + pad, Y: center.Y - textHeight/2 - pad},
		{X: center.X + textWidth/2 + pad, Y: center.Y + textHeight/2 + pad},
		{X: center.X - textWidth/2 - pad, Y: center.Y + textHeight/2 + pad},
	}
	c.FillPolygon(insightBackground, box)
	c.StrokeLines(draw.LineStyle{Color: insightBorder, Width: vg.Points(1)}, append(box, box[0]))
	c.FillText(sty, center, f.Insight)
}

// WriteTo renders the figure at width x height pixels in the given format.
func (f *Figure) WriteTo(w io.Writer, format Format, width, height int) error {
	if !model.ValidSize(width, height) {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}

	switch format {
	case FormatSVG:
		canvas := vgsvg.New(pixels(width), pixels(height))
		f.Draw(draw.New(canvas))
		if _, err := canvas.WriteTo(w); err != nil {
			return fmt.Errorf("write svg: %w", err)
		}
	case FormatPNG:
		canvas := vgimg.NewWith(vgimg.UseWH(pixels(width), pixels(height)), vgimg.UseDPI(dpi))
		f.Draw(draw.New(canvas))
		if _, err := (vgimg.PngCanvas{Canvas: canvas}).WriteTo(w); err != nil {
			return fmt.Errorf("write png: %w", err)
		}
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
	return nil
}

// Save renders the figure to path, creating parent directories as needed.
// The format is taken from the file extension.
func (f *Figure) Save(path string, width, height int) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	out, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // output path is chosen by the user
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := f.WriteTo(out, FormatFromPath(path), width, height); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
