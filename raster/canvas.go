// Package raster implements a scene.Canvas painting into an image,
// by wrapping rasterx.
package raster

import (
	"image"
	"image/color"
	"math"

	"github.com/benoitkugler/okscene/geom"
	"github.com/benoitkugler/okscene/paint"
	"github.com/benoitkugler/okscene/scene"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/fixed"
)

var _ scene.Rasterizer = (*Canvas)(nil) // assert interface conformance

// Canvas rasterizes polygons into an RGBA image.
// The filler and the dasher share the scanner, so that every paint
// operation replays the current polygon into a cleared rasterizer.
type Canvas struct {
	img     *image.RGBA
	scanner *rasterx.ScannerGV
	filler  *rasterx.Filler
	dasher  *rasterx.Dasher

	view   geom.Transform
	path   []fixed.Point26_6 // in device space
	closed bool
}

// NewCanvas returns a transparent canvas of the given size, in pixels.
func NewCanvas(width, height int) *Canvas {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	return &Canvas{
		img:     img,
		scanner: scanner,
		filler:  rasterx.NewFiller(width, height, scanner),
		dasher:  rasterx.NewDasher(width, height, scanner),
		view:    geom.Identity,
	}
}

// Clear fills the whole image with bg. A nil bg makes it transparent.
func (c *Canvas) Clear(bg paint.Pattern) {
	var col color.Color = color.Transparent
	if fc, ok := paint.FirstColor(bg); ok {
		col = color.NRGBA(fc)
	}
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{}, draw.Src)
}

func (c *Canvas) ResetTransform() geom.Transform {
	old := c.view
	c.view = geom.Identity
	return old
}

func (c *Canvas) SetTransform(t geom.Transform) { c.view = t }
func (c *Canvas) Transform() geom.Transform     { return c.view }

func toFixed(p geom.Point) fixed.Point26_6 {
	return fixed.Point26_6{X: fixed.Int26_6(p.X * 64), Y: fixed.Int26_6(p.Y * 64)}
}

func (c *Canvas) PutVertices(points []geom.Point, closed bool) {
	c.path = c.path[:0]
	for _, p := range points {
		c.path = append(c.path, toFixed(c.view.MapPoint(p)))
	}
	c.closed = closed
}

func (c *Canvas) replay(a rasterx.Adder) {
	if len(c.path) == 0 {
		return
	}
	a.Start(c.path[0])
	for _, p := range c.path[1:] {
		a.Line(p)
	}
	a.Stop(c.closed)
}

// StrokeVertices strokes the current polygon. The width is given in node
// units and scaled by the view transform.
func (c *Canvas) StrokeVertices(p paint.Pattern, width float64) {
	if p == nil || len(c.path) < 2 {
		return
	}
	width *= math.Sqrt(math.Abs(c.view.Determinant()))
	c.dasher.Clear()
	c.dasher.SetStroke(fixed.Int26_6(width*64), 4<<6, rasterx.ButtCap, nil, rasterx.FlatGap, rasterx.Miter, nil, 0)
	c.replay(c.dasher)
	setColorFromPattern(p, 1, c.dasher.Scanner)
	c.dasher.Draw()
}

func (c *Canvas) FillVertices(p paint.Pattern, alpha float64) {
	if p == nil || len(c.path) < 3 {
		return
	}
	c.filler.Clear()
	c.replay(c.filler)
	setColorFromPattern(p, alpha, c.filler.Scanner)
	c.filler.Draw()
}

func toRasterxGradient(grad paint.Gradient) rasterx.Gradient {
	var (
		points   [5]float64
		isRadial bool
	)
	switch dir := grad.Direction.(type) {
	case paint.Linear:
		points[0], points[1], points[2], points[3] = dir[0], dir[1], dir[2], dir[3]
	case paint.Radial:
		points[0], points[1], points[2], points[3], points[4] = dir[0], dir[1], dir[2], dir[3], dir[4] // in rasterx fr is ignored
		isRadial = true
	}
	stops := make([]rasterx.GradStop, len(grad.Stops))
	for i, s := range grad.Stops {
		stops[i] = rasterx.GradStop{StopColor: opaque(s.Color), Offset: s.Offset, Opacity: s.Opacity * float64(s.Color.A) / 0xff}
	}
	return rasterx.Gradient{
		Points:   points,
		Stops:    stops,
		Matrix:   rasterx.Identity,
		Spread:   rasterx.SpreadMethod(grad.Spread),
		Units:    rasterx.ObjectBoundingBox,
		IsRadial: isRadial,
	}
}

func opaque(c paint.Color) color.NRGBA { return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff} }

// resolve gradient color, once the path has been sent to the scanner
func setColorFromPattern(p paint.Pattern, opacity float64, scanner rasterx.Scanner) {
	switch p := p.(type) {
	case paint.Color:
		scanner.SetColor(rasterx.ApplyOpacity(opaque(p), opacity*float64(p.A)/0xff))
	case paint.Gradient:
		grad := toRasterxGradient(p)
		fRect := scanner.GetPathExtent()
		mnx, mny := float64(fRect.Min.X)/64, float64(fRect.Min.Y)/64
		mxx, mxy := float64(fRect.Max.X)/64, float64(fRect.Max.Y)/64
		grad.Bounds.X, grad.Bounds.Y = mnx, mny
		grad.Bounds.W, grad.Bounds.H = mxx-mnx, mxy-mny
		scanner.SetColor(grad.GetColorFunction(opacity))
	}
}

// Bitmap returns the painted image.
func (c *Canvas) Bitmap() scene.Bitmap { return &Bitmap{img: c.img} }

// Image returns the underlying image.
func (c *Canvas) Image() *image.RGBA { return c.img }
