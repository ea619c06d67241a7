package scene

import (
	"fmt"

	"github.com/benoitkugler/okscene/geom"
	"github.com/benoitkugler/okscene/paint"
)

// Rectangle property keys.
const (
	RectangleFill = "fill" // visual, nil for no fill
)

var rectangleProperties = newPropertySet(
	PropertyDef{Key: RectangleFill, Group: Visual, Type: PatternValue},
	PropertyDef{Key: transformKey, Group: Geometry, Type: TransformValue},
)

// rectangleKind is a rectangle shape: the unit source box mapped by its
// transform, filled and decorated by its style set.
type rectangleKind struct{}

var (
	_ Painter        = rectangleKind{}
	_ Transformer    = rectangleKind{}
	_ HitTester      = rectangleKind{}
	_ BoundsComputer = rectangleKind{}
)

func (rectangleKind) Properties() *PropertySet { return rectangleProperties }

func (rectangleKind) ValidateInsertion(parent Node, _ NodeID) bool {
	k := parent.Kind()
	return k == KindLayer || k == KindScene
}

func (rectangleKind) HandleChange(n Node, ev *Event) error { return DefaultHandleChange(n, ev) }

func (rectangleKind) ApplyTransform(n Node, tr geom.Transform) error {
	if err := composeTransform(n, tr); err != nil {
		return err
	}
	return transformChildren(n, tr)
}

func (rectangleKind) SourceBBox(Node) geom.Rect { return sourceBox }

func (rectangleKind) GeometryBBox(n Node) geom.Rect {
	src := n.SourceBBox()
	if tr, ok := n.Transform(); ok {
		return tr.MapRect(src)
	}
	return src
}

// PaintBBox grows the geometry bounds by the widest stroke.
func (rectangleKind) PaintBBox(n Node) geom.Rect {
	var extent float64
	for _, s := range strokes(n) {
		extent = max(extent, s.extent())
	}
	return n.GeometryBBox().Expanded(extent)
}

func (rectangleKind) Paint(n Node, ctx *PaintContext) {
	own, ok := n.Transform()
	if !ok {
		own = geom.Identity
	}
	if ctx.outline() {
		strokeOutline(n, ctx, own)
		return
	}
	quad := own.MapQuadrilateral(n.SourceBBox())
	if fill, _ := n.Value(RectangleFill).(paint.Pattern); fill != nil {
		ctx.Canvas.PutVertices(quad.Points(), true)
		ctx.Canvas.FillVertices(fill, 1)
	}
	for _, s := range strokes(n) {
		if s.pattern == nil {
			continue
		}
		ctx.Canvas.PutVertices(quad.Grown(s.offset()).Points(), true)
		ctx.Canvas.StrokeVertices(s.pattern, s.width)
	}
}

func (rectangleKind) HitTest(n Node, location geom.Point, tr geom.Transform, tolerance float64, _ bool) *HitResult {
	own, ok := n.Transform()
	if !ok {
		own = geom.Identity
	}
	quad := own.Multiplied(tr).MapQuadrilateral(n.SourceBBox()).Grown(tolerance)
	if quad.Contains(location) {
		return &HitResult{Node: n.id}
	}
	return nil
}

// Rectangle is a typed view on a rectangle node.
type Rectangle struct{ Node }

// Rectangle returns the typed view on id.
func (t *Tree) Rectangle(id NodeID) (Rectangle, error) {
	k, err := t.Kind(id)
	if err != nil {
		return Rectangle{}, err
	}
	if k != KindRectangle {
		return Rectangle{}, fmt.Errorf("%w: node %d is a %s, not a rectangle", ErrUnsupported, id, k)
	}
	return Rectangle{t.Node(id)}, nil
}

// Fill returns the fill pattern, nil for none.
func (r Rectangle) Fill() paint.Pattern {
	p, _ := r.Value(RectangleFill).(paint.Pattern)
	return p
}

func (r Rectangle) SetFill(p paint.Pattern) error { return r.t.SetProperty(r.id, RectangleFill, p) }

// StyleSet returns the style set of the rectangle.
func (r Rectangle) StyleSet() NodeID { return r.t.styleSet(r.id) }
