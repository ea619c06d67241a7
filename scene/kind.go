package scene

import (
	"github.com/benoitkugler/okscene/geom"
)

// Kind is the tag of a concrete node kind.
type Kind uint8

const (
	KindScene Kind = iota
	KindLayer
	KindSlice
	KindRectangle
	KindStyleSet
	KindStyle
	KindStrokePaint

	kindCount
)

var kindNames = [...]string{
	KindScene:       "scene",
	KindLayer:       "layer",
	KindSlice:       "slice",
	KindRectangle:   "rectangle",
	KindStyleSet:    "styleSet",
	KindStyle:       "style",
	KindStrokePaint: "strokePaint",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "<unknown Kind>"
}

// KindByName returns the kind whose String is name.
func KindByName(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return 0, false
}

// Behavior is implemented by every node kind.
type Behavior interface {
	// Properties returns the shared property tables of the kind.
	Properties() *PropertySet

	// ValidateInsertion reports whether a node of this kind may be
	// inserted into parent, before reference (NoNode to append).
	// It must not modify the tree.
	ValidateInsertion(parent Node, reference NodeID) bool

	// HandleChange reacts to an event raised on the node itself.
	// Most kinds delegate to DefaultHandleChange.
	HandleChange(n Node, ev *Event) error
}

// Painter is implemented by kinds that draw something.
type Painter interface {
	Paint(n Node, ctx *PaintContext)
}

// Transformer is implemented by kinds accepting an affine transform,
// either stored on the node or forwarded to its children.
type Transformer interface {
	ApplyTransform(n Node, t geom.Transform) error
}

// HitTester is implemented by kinds which may be picked at a location.
type HitTester interface {
	HitTest(n Node, location geom.Point, t geom.Transform, tolerance float64, force bool) *HitResult
}

// BoundsComputer computes the bounding boxes of a node, in the
// coordinate system of its parent. Results are cached by the Tree.
type BoundsComputer interface {
	SourceBBox(n Node) geom.Rect
	GeometryBBox(n Node) geom.Rect
	PaintBBox(n Node) geom.Rect
}

// BitmapPainter is implemented by kinds which can be exported
// as a raster image.
type BitmapPainter interface {
	PaintToBitmap(n Node, ctx *PaintContext) (Bitmap, error)
}

var behaviors [kindCount]Behavior

func init() {
	behaviors = [kindCount]Behavior{
		KindScene:       sceneKind{},
		KindLayer:       layerKind{},
		KindSlice:       sliceKind{},
		KindRectangle:   rectangleKind{},
		KindStyleSet:    styleSetKind{},
		KindStyle:       styleKind{},
		KindStrokePaint: strokePaintKind{},
	}
}

// Behavior returns the static behaviour of k.
func (k Kind) Behavior() Behavior { return behaviors[k] }

// Properties returns the shared property tables of k.
func (k Kind) Properties() *PropertySet { return behaviors[k].Properties() }

// isDecoration is true for the kinds making up style sets:
// they only affect the paint bounds of the shape owning them.
func (k Kind) isDecoration() bool {
	return k == KindStyleSet || k == KindStyle || k == KindStrokePaint
}
