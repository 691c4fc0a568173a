package chart

import (
	"image/color"
	"math"

	"gonum.org/v1/plot/palette"
)

// ylOrRd is the sequential yellow-orange-red scheme used by the geo chart.
var ylOrRd = []color.Color{
	MustHex("#ffffcc"),
	MustHex("#ffeda0"),
	MustHex("#fed976"),
	MustHex("#feb24c"),
	MustHex("#fd8d3c"),
	MustHex("#fc4e2a"),
	MustHex("#e31a1c"),
	MustHex("#bd0026"),
	MustHex("#800026"),
}

// Ramp is a palette.ColorMap interpolating linearly between color stops.
// Values outside [Min, Max] are clamped rather than rejected.
type Ramp struct {
	stops    []color.Color
	min, max float64
	alpha    float64
}

var _ palette.ColorMap = (*Ramp)(nil)

// NewRamp returns the map color ramp spanning [min, max].
func NewRamp(min, max float64) *Ramp {
	r := &Ramp{stops: ylOrRd, alpha: 1}
	r.SetMin(min)
	r.SetMax(max)
	return r
}

// At returns the color for v.
func (r *Ramp) At(v float64) (color.Color, error) {
	if math.IsNaN(v) {
		return nil, palette.ErrNaN
	}
	t := 0.0
	if r.max > r.min {
		t = (v - r.min) / (r.max - r.min)
	}
	t = math.Max(0, math.Min(1, t))

	pos := t * float64(len(r.stops)-1)
	i := int(math.Floor(pos))
	if i >= len(r.stops)-1 {
		return r.withAlpha(r.stops[len(r.stops)-1]), nil
	}
	return r.withAlpha(lerp(r.stops[i], r.stops[i+1], pos-float64(i))), nil
}

// Max returns the upper bound of the ramp.
func (r *Ramp) Max() float64 { return r.max }

// SetMax sets the upper bound of the ramp.
func (r *Ramp) SetMax(v float64) { r.max = v }

// Min returns the lower bound of the ramp.
func (r *Ramp) Min() float64 { return r.min }

// SetMin sets the lower bound of the ramp.
func (r *Ramp) SetMin(v float64) { r.min = v }

// Alpha returns the opacity.
func (r *Ramp) Alpha() float64 { return r.alpha }

// SetAlpha sets the opacity, clamped to [0, 1].
func (r *Ramp) SetAlpha(a float64) { r.alpha = math.Max(0, math.Min(1, a)) }

// Palette returns n evenly spaced colors from the ramp.
func (r *Ramp) Palette(n int) palette.Palette {
	out := make(colors, n)
	for i := range out {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		c, err := r.At(r.min + t*(r.max-r.min))
		if err != nil {
			c = r.stops[0]
		}
		out[i] = c
	}
	return out
}

type colors []color.Color

func (c colors) Colors() []color.Color { return c }

func (r *Ramp) withAlpha(c color.Color) color.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(math.Round(r.alpha * 255))
	return n
}

func lerp(a, b color.Color, t float64) color.Color {
	na := color.NRGBAModel.Convert(a).(color.NRGBA)
	nb := color.NRGBAModel.Convert(b).(color.NRGBA)
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return color.NRGBA{R: mix(na.R, nb.R), G: mix(na.G, nb.G), B: mix(na.B, nb.B), A: 255}
}
