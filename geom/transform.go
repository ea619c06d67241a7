// Package geom provides the 2D geometry used by the scene graph:
// affine transforms, points, rectangles and quadrilaterals.
package geom

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// epsilon is the tolerance used when comparing transforms.
const epsilon = 1e-9

var errTransformFormat = errors.New("invalid transform: expected 6 comma separated numbers")

// Transform is an affine map, with the same coefficient layout
// as the SVG matrix(a,b,c,d,e,f) function:
//
//	x' = A*x + C*y + E
//	y' = B*x + D*y + F
type Transform struct {
	A, B, C, D, E, F float64
}

// Identity is the transform leaving every point unchanged.
var Identity = Transform{A: 1, D: 1}

// NewTransform builds a transform from its six coefficients,
// in the order scale x, shear y, shear x, scale y, translate x, translate y.
func NewTransform(a, b, c, d, e, f float64) Transform {
	return Transform{A: a, B: b, C: c, D: d, E: e, F: f}
}

// Translation returns a translation by (tx, ty).
func Translation(tx, ty float64) Transform {
	return Transform{A: 1, D: 1, E: tx, F: ty}
}

// Scaling returns a scaling by (sx, sy) around the origin.
func Scaling(sx, sy float64) Transform {
	return Transform{A: sx, D: sy}
}

// Rotation returns a rotation of theta radians around the origin.
func Rotation(theta float64) Transform {
	sin, cos := math.Sincos(theta)
	return Transform{A: cos, B: sin, C: -sin, D: cos}
}

// Shearing returns a shear of factors (shx, shy).
func Shearing(shx, shy float64) Transform {
	return Transform{A: 1, B: shy, C: shx, D: 1}
}

// Multiplied returns the transform applying t first, then o.
// The operation is not commutative.
func (t Transform) Multiplied(o Transform) Transform {
	return Transform{
		A: o.A*t.A + o.C*t.B,
		B: o.B*t.A + o.D*t.B,
		C: o.A*t.C + o.C*t.D,
		D: o.B*t.C + o.D*t.D,
		E: o.A*t.E + o.C*t.F + o.E,
		F: o.B*t.E + o.D*t.F + o.F,
	}
}

// Translate returns t followed by a translation.
func (t Transform) Translate(tx, ty float64) Transform {
	return t.Multiplied(Translation(tx, ty))
}

// Scale returns t followed by a scaling.
func (t Transform) Scale(sx, sy float64) Transform {
	return t.Multiplied(Scaling(sx, sy))
}

// IsIdentity reports whether t leaves every point unchanged.
func (t Transform) IsIdentity() bool {
	return t.Equal(Identity)
}

// Equal compares the coefficients of t and o, up to a small tolerance.
func (t Transform) Equal(o Transform) bool {
	return near(t.A, o.A) && near(t.B, o.B) && near(t.C, o.C) &&
		near(t.D, o.D) && near(t.E, o.E) && near(t.F, o.F)
}

func near(a, b float64) bool { return math.Abs(a-b) <= epsilon }

// Determinant returns the determinant of the linear part of t.
func (t Transform) Determinant() float64 {
	return t.A*t.D - t.B*t.C
}

// Inverted returns the inverse of t. The boolean is false
// when t is not invertible.
func (t Transform) Inverted() (Transform, bool) {
	det := t.Determinant()
	if math.Abs(det) < epsilon {
		return Identity, false
	}
	inv := 1 / det
	return Transform{
		A: t.D * inv,
		B: -t.B * inv,
		C: -t.C * inv,
		D: t.A * inv,
		E: (t.C*t.F - t.D*t.E) * inv,
		F: (t.B*t.E - t.A*t.F) * inv,
	}, true
}

// MapPoint applies t to p.
func (t Transform) MapPoint(p Point) Point {
	return Point{
		X: t.A*p.X + t.C*p.Y + t.E,
		Y: t.B*p.X + t.D*p.Y + t.F,
	}
}

// MapQuadrilateral returns the image of the corners of r.
func (t Transform) MapQuadrilateral(r Rect) Quadrilateral {
	c := r.Corners()
	return Quadrilateral{t.MapPoint(c[0]), t.MapPoint(c[1]), t.MapPoint(c[2]), t.MapPoint(c[3])}
}

// MapRect returns the axis aligned bounds of the image of r.
func (t Transform) MapRect(r Rect) Rect {
	return t.MapQuadrilateral(r).Bounds()
}

// String returns the stable persisted form "a,b,c,d,e,f".
func (t Transform) String() string {
	chunks := [6]string{}
	for i, v := range [6]float64{t.A, t.B, t.C, t.D, t.E, t.F} {
		chunks[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(chunks[:], ",")
}

// ParseTransform reads back the output of Transform.String.
func ParseTransform(s string) (Transform, error) {
	fields := strings.Split(s, ",")
	if len(fields) != 6 {
		return Transform{}, errTransformFormat
	}
	var vs [6]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return Transform{}, fmt.Errorf("invalid transform coefficient %q: %w", f, err)
		}
		vs[i] = v
	}
	return NewTransform(vs[0], vs[1], vs[2], vs[3], vs[4], vs[5]), nil
}
