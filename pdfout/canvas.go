// Package pdfout implements a scene.Canvas writing PDF vector
// drawings, by wrapping github.com/jung-kurt/gofpdf.
package pdfout

import (
	"io"
	"math"

	"github.com/benoitkugler/okscene/geom"
	"github.com/benoitkugler/okscene/paint"
	"github.com/benoitkugler/okscene/scene"
	"github.com/jung-kurt/gofpdf"
)

var _ scene.Canvas = (*Canvas)(nil) // assert interface conformance

// Canvas draws on a single page, whose size is given in points.
// Coordinates are mapped by the view transform, then used as points,
// with the origin at the top left corner of the page.
type Canvas struct {
	pdf *gofpdf.Fpdf

	view   geom.Transform
	path   []gofpdf.PointType // current polygon, in page space
	closed bool
	bounds geom.Rect // bounding box of the current polygon, used by gradients
}

// NewCanvas returns a canvas drawing on a new one page document.
func NewCanvas(width, height float64) *Canvas {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: width, Ht: height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	pdf.SetLineJoinStyle("miter")
	return &Canvas{pdf: pdf, view: geom.Identity, bounds: geom.EmptyRect}
}

// Document returns the underlying document.
func (c *Canvas) Document() *gofpdf.Fpdf { return c.pdf }

// Output writes the document to w.
func (c *Canvas) Output(w io.Writer) error { return c.pdf.Output(w) }

func (c *Canvas) ResetTransform() geom.Transform {
	old := c.view
	c.view = geom.Identity
	return old
}

func (c *Canvas) SetTransform(t geom.Transform) { c.view = t }
func (c *Canvas) Transform() geom.Transform     { return c.view }

func (c *Canvas) PutVertices(points []geom.Point, closed bool) {
	c.path = c.path[:0]
	mapped := make([]geom.Point, len(points))
	for i, p := range points {
		mapped[i] = c.view.MapPoint(p)
		c.path = append(c.path, gofpdf.PointType{X: mapped[i].X, Y: mapped[i].Y})
	}
	c.bounds = geom.BoundsOf(mapped...)
	c.closed = closed
}

func (c *Canvas) writePath() {
	for i, p := range c.path {
		if i == 0 {
			c.pdf.MoveTo(p.X, p.Y)
		} else {
			c.pdf.LineTo(p.X, p.Y)
		}
	}
	if c.closed {
		c.pdf.ClosePath()
	}
}

// StrokeVertices strokes the current polygon. Gradients are approximated
// by their first stop.
func (c *Canvas) StrokeVertices(p paint.Pattern, width float64) {
	col, ok := paint.FirstColor(p)
	if !ok || len(c.path) < 2 {
		return
	}
	c.pdf.SetDrawColor(int(col.R), int(col.G), int(col.B))
	c.pdf.SetAlpha(float64(col.A)/0xff, "Normal")
	c.pdf.SetLineWidth(width * math.Sqrt(math.Abs(c.view.Determinant())))
	c.writePath()
	c.pdf.DrawPath("D")
	c.pdf.SetAlpha(1, "Normal")
}

// FillVertices fills the current polygon. Gradients are drawn between
// their first and last stops, clipped by the polygon.
func (c *Canvas) FillVertices(p paint.Pattern, alpha float64) {
	if len(c.path) < 3 {
		return
	}
	switch p := p.(type) {
	case paint.Color:
		c.pdf.SetFillColor(int(p.R), int(p.G), int(p.B))
		c.pdf.SetAlpha(alpha*float64(p.A)/0xff, "Normal")
		c.writePath()
		c.pdf.DrawPath("F")
	case paint.Gradient:
		if len(p.Stops) == 0 {
			return
		}
		c.pdf.SetAlpha(alpha, "Normal")
		c.fillGradient(p)
	}
	c.pdf.SetAlpha(1, "Normal")
}

func (c *Canvas) fillGradient(g paint.Gradient) {
	first, last := g.Stops[0].Color, g.Stops[len(g.Stops)-1].Color
	b := c.bounds
	c.pdf.ClipPolygon(c.path, false)
	// gofpdf gradient vectors have a bottom left origin
	switch dir := g.Direction.(type) {
	case paint.Linear:
		c.pdf.LinearGradient(b.X, b.Y, b.W, b.H,
			int(first.R), int(first.G), int(first.B), int(last.R), int(last.G), int(last.B),
			dir[0], 1-dir[1], dir[2], 1-dir[3])
	case paint.Radial:
		c.pdf.RadialGradient(b.X, b.Y, b.W, b.H,
			int(first.R), int(first.G), int(first.B), int(last.R), int(last.G), int(last.B),
			dir[2], 1-dir[3], dir[0], 1-dir[1], dir[4])
	}
	c.pdf.ClipEnd()
}
