package scene

import (
	"fmt"
	"image"

	"github.com/benoitkugler/okscene/geom"
	"github.com/benoitkugler/okscene/paint"
)

// Canvas is the rendering backend. It knows nothing about nodes:
// vertices are sent in node coordinates and mapped by the canvas
// transform before being drawn.
type Canvas interface {
	// ResetTransform sets the identity transform and returns the previous one.
	ResetTransform() geom.Transform
	SetTransform(t geom.Transform)
	Transform() geom.Transform

	// PutVertices replaces the current polygon.
	PutVertices(points []geom.Point, closed bool)
	// StrokeVertices strokes the current polygon.
	StrokeVertices(p paint.Pattern, width float64)
	// FillVertices fills the current polygon, with an extra opacity.
	FillVertices(p paint.Pattern, alpha float64)
}

// Bitmap is a raster image owned by a canvas.
type Bitmap interface {
	Image() image.Image
	// Trim crops the bitmap to its non transparent extent.
	Trim()
}

// Rasterizer is implemented by canvases painting into a bitmap.
type Rasterizer interface {
	Canvas
	Bitmap() Bitmap
}

// Configuration answers the questions a node asks while painting.
type Configuration interface {
	SlicesVisible(ctx *PaintContext) bool
	// Outline is true for outline (wireframe) render passes.
	Outline(ctx *PaintContext) bool
	OutlineColor() paint.Pattern
}

// DefaultOutlineColor is used when the configuration provides none.
var DefaultOutlineColor = paint.NewColor(0, 0, 0)

// StaticConfig is a Configuration with fixed answers.
type StaticConfig struct {
	ShowSlices  bool
	OutlineMode bool
	Color       paint.Pattern
}

func (c StaticConfig) SlicesVisible(*PaintContext) bool { return c.ShowSlices }
func (c StaticConfig) Outline(*PaintContext) bool       { return c.OutlineMode }
func (c StaticConfig) OutlineColor() paint.Pattern      { return c.Color }

// PaintContext bundles the canvas and the configuration of a render pass.
type PaintContext struct {
	Canvas Canvas
	Config Configuration
}

// NewPaintContext returns a context on canvas. A nil config shows slices
// in normal mode.
func NewPaintContext(canvas Canvas, config Configuration) *PaintContext {
	if config == nil {
		config = StaticConfig{ShowSlices: true}
	}
	return &PaintContext{Canvas: canvas, Config: config}
}

// OutlineColor returns the color of outline strokes.
func (ctx *PaintContext) OutlineColor() paint.Pattern {
	if c := ctx.Config.OutlineColor(); c != nil {
		return c
	}
	return DefaultOutlineColor
}

func (ctx *PaintContext) outline() bool { return ctx.Config.Outline(ctx) }

// Paint renders id and its descendants into ctx.
func (t *Tree) Paint(id NodeID, ctx *PaintContext) error {
	n, err := t.node(id)
	if err != nil {
		return err
	}
	if p, ok := n.kind.Behavior().(Painter); ok {
		p.Paint(t.Node(id), ctx)
	}
	return nil
}

// PaintToBitmap renders id as an image. It fails with ErrNotAttached when the
// node is not part of a scene and with ErrUnsupported when its kind can't be
// exported.
func (t *Tree) PaintToBitmap(id NodeID, ctx *PaintContext) (Bitmap, error) {
	n, err := t.node(id)
	if err != nil {
		return nil, err
	}
	bp, ok := n.kind.Behavior().(BitmapPainter)
	if !ok {
		return nil, fmt.Errorf("%w: %s can't be painted to a bitmap", ErrUnsupported, n.kind)
	}
	return bp.PaintToBitmap(t.Node(id), ctx)
}

// paintChildren paints the non decoration children of n, in order.
func paintChildren(n Node, ctx *PaintContext) {
	for _, c := range n.t.Children(n.id) {
		if n.t.nodes[c].kind.isDecoration() {
			continue
		}
		_ = n.t.Paint(c, ctx)
	}
}

// snapped moves the corners of q to pixel centers.
func snapped(q geom.Quadrilateral) []geom.Point {
	return q.Map(func(p geom.Point) geom.Point { return p.Snapped(0.5) }).Points()
}

// strokeOutline draws the transformed source bounds of n with a thin
// line, ignoring the view transform scale.
func strokeOutline(n Node, ctx *PaintContext, own geom.Transform) {
	view := ctx.Canvas.ResetTransform()
	target := own.Multiplied(view)
	ctx.Canvas.PutVertices(snapped(target.MapQuadrilateral(n.SourceBBox())), true)
	ctx.Canvas.StrokeVertices(ctx.OutlineColor(), 1)
	ctx.Canvas.SetTransform(view)
}

// HitResult describes a successful hit test.
type HitResult struct {
	Node NodeID
}

// HitTest returns the topmost node under location, starting at id.
// t maps node coordinates to the coordinates of location; tolerance grows
// the hit area. When force is set, hidden and locked nodes are tested too.
// It returns nil when nothing is hit.
//
// Kinds with bounds are only asked for a detailed test when the location
// lies within their paint bounds, grown by tolerance.
func (t *Tree) HitTest(id NodeID, location geom.Point, tr geom.Transform, tolerance float64, force bool) *HitResult {
	n, err := t.node(id)
	if err != nil {
		return nil
	}
	ht, ok := n.kind.Behavior().(HitTester)
	if !ok {
		return nil
	}
	if _, ok := n.kind.Behavior().(BoundsComputer); ok {
		box := t.PaintBBox(id)
		if box.IsEmpty() || !tr.MapRect(box).Expanded(tolerance).Contains(location) {
			return nil
		}
	}
	return ht.HitTest(t.Node(id), location, tr, tolerance, force)
}

// hitTestChildren tests the non decoration children of n, topmost first.
func hitTestChildren(n Node, location geom.Point, tr geom.Transform, tolerance float64, force bool) *HitResult {
	children := n.children()
	for i := len(children) - 1; i >= 0; i-- {
		c := children[i]
		if n.t.nodes[c].kind.isDecoration() {
			continue
		}
		if hit := n.t.HitTest(c, location, tr, tolerance, force); hit != nil {
			return hit
		}
	}
	return nil
}
