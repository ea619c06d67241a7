package scene

import (
	"github.com/benoitkugler/okscene/geom"
)

// Layer property keys.
const (
	LayerVisible = "vis"  // visual
	LayerName    = "name" // meta
	LayerLocked  = "lck"  // meta: locked layers are skipped by hit tests
)

// Scene property keys.
const (
	SceneTitle = "ttl" // meta
)

var (
	sceneProperties = newPropertySet(
		PropertyDef{Key: SceneTitle, Group: Meta, Type: StringValue, Default: ""},
	)
	layerProperties = newPropertySet(
		PropertyDef{Key: LayerVisible, Group: Visual, Type: BoolValue, Default: true},
		PropertyDef{Key: LayerName, Group: Meta, Type: StringValue, Default: "Layer"},
		PropertyDef{Key: LayerLocked, Group: Meta, Type: BoolValue, Default: false},
	)
)

// container implements the capabilities shared by scenes and layers:
// bounds are the union of the children ones, transforms are forwarded
// to the children.
type container struct{}

func (container) SourceBBox(n Node) geom.Rect {
	return unionChildren(n, (*Tree).GeometryBBox)
}

func (container) GeometryBBox(n Node) geom.Rect {
	return unionChildren(n, (*Tree).GeometryBBox)
}

func (container) PaintBBox(n Node) geom.Rect {
	return unionChildren(n, (*Tree).PaintBBox)
}

func (container) ApplyTransform(n Node, tr geom.Transform) error {
	return transformChildren(n, tr)
}

// sceneKind is the root of a document.
type sceneKind struct{ container }

var (
	_ Painter     = sceneKind{}
	_ HitTester   = sceneKind{}
	_ Transformer = sceneKind{}
)

func (sceneKind) Properties() *PropertySet { return sceneProperties }

// ValidateInsertion is always false: a scene is a root.
func (sceneKind) ValidateInsertion(Node, NodeID) bool { return false }

func (sceneKind) HandleChange(n Node, ev *Event) error { return DefaultHandleChange(n, ev) }

func (sceneKind) Paint(n Node, ctx *PaintContext) { paintChildren(n, ctx) }

func (sceneKind) HitTest(n Node, location geom.Point, tr geom.Transform, tolerance float64, force bool) *HitResult {
	return hitTestChildren(n, location, tr, tolerance, force)
}

// layerKind groups nodes. Layers may be nested.
type layerKind struct{ container }

var (
	_ Painter     = layerKind{}
	_ HitTester   = layerKind{}
	_ Transformer = layerKind{}
)

func (layerKind) Properties() *PropertySet { return layerProperties }

func (layerKind) ValidateInsertion(parent Node, _ NodeID) bool {
	k := parent.Kind()
	return k == KindLayer || k == KindScene
}

func (layerKind) HandleChange(n Node, ev *Event) error { return DefaultHandleChange(n, ev) }

func (layerKind) Paint(n Node, ctx *PaintContext) {
	if !n.Bool(LayerVisible) {
		return
	}
	paintChildren(n, ctx)
}

func (layerKind) HitTest(n Node, location geom.Point, tr geom.Transform, tolerance float64, force bool) *HitResult {
	if !force && (!n.Bool(LayerVisible) || n.Bool(LayerLocked)) {
		return nil
	}
	return hitTestChildren(n, location, tr, tolerance, force)
}
