package geom

import (
	"fmt"
	"math"
)

// Point is a location in the plane.
type Point struct{ X, Y float64 }

func (p Point) Add(q Point) Point         { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point         { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Mul(f float64) Point       { return Point{p.X * f, p.Y * f} }
func (p Point) Dot(q Point) float64       { return p.X*q.X + p.Y*q.Y }
func (p Point) Cross(q Point) float64     { return p.X*q.Y - p.Y*q.X }
func (p Point) Length() float64           { return math.Hypot(p.X, p.Y) }
func (p Point) String() string            { return fmt.Sprintf("(%g,%g)", p.X, p.Y) }
func (p Point) Floor() Point              { return Point{math.Floor(p.X), math.Floor(p.Y)} }
func (p Point) Equal(q Point) bool        { return near(p.X, q.X) && near(p.Y, q.Y) }
func (p Point) Snapped(off float64) Point { return Point{math.Floor(p.X) + off, math.Floor(p.Y) + off} }

// Rect is an axis aligned rectangle. A rectangle with
// a negative width or height is empty.
type Rect struct{ X, Y, W, H float64 }

// EmptyRect is the neutral element of Union.
var EmptyRect = Rect{W: -1, H: -1}

// IsEmpty reports whether r covers no area at all.
// Zero sized rectangles are not empty: they still locate a point or a segment.
func (r Rect) IsEmpty() bool { return r.W < 0 || r.H < 0 }

func (r Rect) Right() float64  { return r.X + r.W }
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Corners returns the corners of r, clockwise from the top left one
// (in a y-down coordinate system).
func (r Rect) Corners() [4]Point {
	return [4]Point{
		{r.X, r.Y},
		{r.Right(), r.Y},
		{r.Right(), r.Bottom()},
		{r.X, r.Bottom()},
	}
}

// Union returns the smallest rectangle containing r and o.
func (r Rect) Union(o Rect) Rect {
	if r.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return r
	}
	minX, minY := math.Min(r.X, o.X), math.Min(r.Y, o.Y)
	maxX, maxY := math.Max(r.Right(), o.Right()), math.Max(r.Bottom(), o.Bottom())
	return Rect{minX, minY, maxX - minX, maxY - minY}
}

// Expanded grows r by d on every side. A negative d shrinks it.
func (r Rect) Expanded(d float64) Rect {
	if r.IsEmpty() {
		return r
	}
	return Rect{r.X - d, r.Y - d, r.W + 2*d, r.H + 2*d}
}

// Contains reports whether p lies inside r, borders included.
func (r Rect) Contains(p Point) bool {
	return !r.IsEmpty() && p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
}

// Equal compares r and o up to a small tolerance.
func (r Rect) Equal(o Rect) bool {
	if r.IsEmpty() || o.IsEmpty() {
		return r.IsEmpty() == o.IsEmpty()
	}
	return near(r.X, o.X) && near(r.Y, o.Y) && near(r.W, o.W) && near(r.H, o.H)
}

func (r Rect) String() string {
	if r.IsEmpty() {
		return "Rect(empty)"
	}
	return fmt.Sprintf("Rect(%g,%g %gx%g)", r.X, r.Y, r.W, r.H)
}

// BoundsOf returns the bounds of the given points.
func BoundsOf(points ...Point) Rect {
	if len(points) == 0 {
		return EmptyRect
	}
	minX, minY, maxX, maxY := points[0].X, points[0].Y, points[0].X, points[0].Y
	for _, p := range points[1:] {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	return Rect{minX, minY, maxX - minX, maxY - minY}
}

// Viewport returns the transform mapping box, scaled by scale, to an image
// whose top left corner is the top left corner of box, and the size of
// that image in pixels.
func Viewport(box Rect, scale float64) (view Transform, width, height int) {
	if box.IsEmpty() || scale <= 0 {
		return Identity, 0, 0
	}
	view = Translation(-box.X, -box.Y).Scale(scale, scale)
	return view, int(math.Ceil(box.W * scale)), int(math.Ceil(box.H * scale))
}
