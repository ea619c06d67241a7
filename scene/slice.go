package scene

import (
	"fmt"

	"github.com/benoitkugler/okscene/geom"
	"github.com/benoitkugler/okscene/paint"
)

// Slice property keys.
const (
	SliceColor = "cls" // visual: color of the overlay
	SliceTrim  = "trm" // meta: trim the exported bitmap to its opaque extent
)

// sliceAlpha is the opacity of the overlay painted in normal mode.
const sliceAlpha = 0.5

var sliceProperties = newPropertySet(
	PropertyDef{Key: SliceColor, Group: Visual, Type: PatternValue, Default: paint.NewColor(0, 116, 217)},
	PropertyDef{Key: transformKey, Group: Geometry, Type: TransformValue},
	PropertyDef{Key: SliceTrim, Group: Meta, Type: BoolValue, Default: true},
)

// sourceBox is the intrinsic bounds of slices and rectangles:
// a 2x2 square centered on the origin, sized by the transform.
var sourceBox = geom.Rect{X: -1, Y: -1, W: 2, H: 2}

// sliceKind marks a region of the scene to export as a bitmap.
type sliceKind struct{}

var (
	_ Painter        = sliceKind{}
	_ Transformer    = sliceKind{}
	_ HitTester      = sliceKind{}
	_ BoundsComputer = sliceKind{}
	_ BitmapPainter  = sliceKind{}
)

func (sliceKind) Properties() *PropertySet { return sliceProperties }

func (sliceKind) ValidateInsertion(parent Node, _ NodeID) bool {
	k := parent.Kind()
	return k == KindLayer || k == KindScene
}

func (sliceKind) HandleChange(n Node, ev *Event) error { return DefaultHandleChange(n, ev) }

func (sliceKind) ApplyTransform(n Node, tr geom.Transform) error {
	if err := composeTransform(n, tr); err != nil {
		return err
	}
	return transformChildren(n, tr)
}

func (sliceKind) SourceBBox(Node) geom.Rect { return sourceBox }

func (sliceKind) GeometryBBox(n Node) geom.Rect {
	src := n.SourceBBox()
	if tr, ok := n.Transform(); ok {
		return tr.MapRect(src)
	}
	return src
}

func (sliceKind) PaintBBox(n Node) geom.Rect { return n.GeometryBBox() }

func (sliceKind) Paint(n Node, ctx *PaintContext) {
	if !ctx.Config.SlicesVisible(ctx) {
		return
	}
	own, ok := n.Transform()
	if !ok {
		own = geom.Identity
	}
	if ctx.outline() {
		strokeOutline(n, ctx, own)
		return
	}
	ctx.Canvas.PutVertices(snapped(own.MapQuadrilateral(n.SourceBBox())), true)
	if cls, _ := n.Value(SliceColor).(paint.Pattern); cls != nil {
		ctx.Canvas.FillVertices(cls, sliceAlpha)
	}
}

// PaintToBitmap renders the whole scene owning the slice, not the slice
// itself, and trims the result when the trm flag is set.
func (sliceKind) PaintToBitmap(n Node, ctx *PaintContext) (Bitmap, error) {
	scene := n.Scene()
	if scene == NoNode {
		return nil, ErrNotAttached
	}
	r, ok := ctx.Canvas.(Rasterizer)
	if !ok {
		return nil, ErrNoBitmap
	}
	if err := n.t.Paint(scene, ctx); err != nil {
		return nil, err
	}
	bitmap := r.Bitmap()
	if n.Bool(SliceTrim) {
		bitmap.Trim()
	}
	Logger().Debug("slice painted to bitmap", "slice", n.id, "bounds", bitmap.Image().Bounds())
	return bitmap, nil
}

// HitTest reports the slice itself: once Tree.HitTest has checked its
// bounds, the whole overlay is pickable.
func (sliceKind) HitTest(n Node, _ geom.Point, _ geom.Transform, _ float64, _ bool) *HitResult {
	return &HitResult{Node: n.id}
}

// Slice is a typed view on a slice node.
type Slice struct{ Node }

// Slice returns the typed view on id.
func (t *Tree) Slice(id NodeID) (Slice, error) {
	k, err := t.Kind(id)
	if err != nil {
		return Slice{}, err
	}
	if k != KindSlice {
		return Slice{}, fmt.Errorf("%w: node %d is a %s, not a slice", ErrUnsupported, id, k)
	}
	return Slice{t.Node(id)}, nil
}

// Color returns the overlay color, nil for none.
func (s Slice) Color() paint.Pattern {
	p, _ := s.Value(SliceColor).(paint.Pattern)
	return p
}

func (s Slice) SetColor(p paint.Pattern) error { return s.t.SetProperty(s.id, SliceColor, p) }

// Trim reports whether exports are trimmed.
func (s Slice) Trim() bool { return s.Bool(SliceTrim) }

func (s Slice) SetTrim(trim bool) error { return s.t.SetProperty(s.id, SliceTrim, trim) }
