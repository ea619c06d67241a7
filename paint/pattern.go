// Package paint defines the patterns used to fill and stroke
// scene nodes, and their persisted form.
package paint

import (
	"image/color"
	"math"
)

// Pattern is either a Color or a Gradient.
type Pattern interface {
	isPattern()
}

func (Color) isPattern()    {}
func (Gradient) isPattern() {}

// Color is a non alpha-premultiplied color.
type Color color.NRGBA

// NewColor returns an opaque color.
func NewColor(r, g, b uint8) Color { return Color{R: r, G: g, B: b, A: 0xff} }

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) { return color.NRGBA(c).RGBA() }

// GradientUnits is the type for gradient units
type GradientUnits byte

// gradient bounds parameter constants
const (
	ObjectBoundingBox GradientUnits = iota
	UserSpaceOnUse
)

// SpreadMethod is the type for spread parameters
type SpreadMethod byte

// spread parameter constants
const (
	PadSpread SpreadMethod = iota
	ReflectSpread
	RepeatSpread
)

func (s SpreadMethod) String() string {
	switch s {
	case PadSpread:
		return "pad"
	case ReflectSpread:
		return "reflect"
	case RepeatSpread:
		return "repeat"
	default:
		return "<unknown SpreadMethod>"
	}
}

// GradStop is a color stop of a gradient.
type GradStop struct {
	Offset  float64
	Color   Color
	Opacity float64
}

// Gradient is a linear or radial gradient, expressed
// in object bounding box units.
type Gradient struct {
	Direction Direction
	Stops     []GradStop
	Spread    SpreadMethod
}

// Direction is either Linear or Radial
type Direction interface {
	isRadial() bool
}

// Linear holds x1, y1, x2, y2
type Linear [4]float64

func (Linear) isRadial() bool { return false }

// Radial holds cx, cy, fx, fy, r, fr
type Radial [6]float64

func (Radial) isRadial() bool { return true }

// WithOpacity returns p with its alpha multiplied by opacity,
// which is clamped to [0,1].
func WithOpacity(p Pattern, opacity float64) Pattern {
	opacity = math.Max(0, math.Min(1, opacity))
	switch p := p.(type) {
	case Color:
		p.A = uint8(math.Round(float64(p.A) * opacity))
		return p
	case Gradient:
		stops := make([]GradStop, len(p.Stops))
		for i, s := range p.Stops {
			s.Opacity *= opacity
			stops[i] = s
		}
		p.Stops = stops
		return p
	}
	return p
}

// Equal compares two patterns by value. Two nil patterns are equal.
func Equal(a, b Pattern) bool {
	switch a := a.(type) {
	case nil:
		return b == nil
	case Color:
		bc, ok := b.(Color)
		return ok && a == bc
	case Gradient:
		bg, ok := b.(Gradient)
		if !ok || a.Spread != bg.Spread || len(a.Stops) != len(bg.Stops) {
			return false
		}
		if a.Direction != bg.Direction {
			return false
		}
		for i := range a.Stops {
			if a.Stops[i] != bg.Stops[i] {
				return false
			}
		}
		return true
	}
	return false
}

// FirstColor returns a representative plain color for p,
// used by backends without gradient support.
func FirstColor(p Pattern) (Color, bool) {
	switch p := p.(type) {
	case Color:
		return p, true
	case Gradient:
		if len(p.Stops) == 0 {
			return Color{}, false
		}
		s := p.Stops[0]
		return WithOpacity(s.Color, s.Opacity).(Color), true
	}
	return Color{}, false
}
