package scene

import "github.com/benoitkugler/okscene/geom"

// bboxCache memoizes the bounding boxes of a node.
// A nil entry has not been computed since the last invalidation.
type bboxCache struct {
	source, geometry, paint *geom.Rect

	// number of calls to the kind hooks, for instrumentation
	computed int
}

func (c *bboxCache) clear() {
	c.source, c.geometry, c.paint = nil, nil, nil
}

func (c *bboxCache) clearPaint() {
	c.paint = nil
}

func (t *Tree) cached(id NodeID, slot func(*bboxCache) **geom.Rect, compute func(BoundsComputer, Node) geom.Rect) geom.Rect {
	n, err := t.node(id)
	if err != nil {
		return geom.EmptyRect
	}
	bc, ok := n.kind.Behavior().(BoundsComputer)
	if !ok {
		return geom.EmptyRect
	}
	if r := *slot(&n.cache); r != nil {
		return *r
	}
	r := compute(bc, t.Node(id))
	// the hook may have appended to the arena: reload the slot
	n = &t.nodes[id]
	*slot(&n.cache) = &r
	n.cache.computed++
	return r
}

// SourceBBox returns the intrinsic bounds of id, in its local coordinates.
func (t *Tree) SourceBBox(id NodeID) geom.Rect {
	return t.cached(id, func(c *bboxCache) **geom.Rect { return &c.source }, BoundsComputer.SourceBBox)
}

// GeometryBBox returns the bounds of id after its transform is applied.
func (t *Tree) GeometryBBox(id NodeID) geom.Rect {
	return t.cached(id, func(c *bboxCache) **geom.Rect { return &c.geometry }, BoundsComputer.GeometryBBox)
}

// PaintBBox returns the bounds of everything id paints, decorations included.
func (t *Tree) PaintBBox(id NodeID) geom.Rect {
	return t.cached(id, func(c *bboxCache) **geom.Rect { return &c.paint }, BoundsComputer.PaintBBox)
}

// invalidateGeometry clears the caches of id, then the ones of its ancestors.
func (t *Tree) invalidateGeometry(id NodeID) {
	t.nodes[id].cache.clear()
	t.invalidateAncestors(id)
}

// invalidateAncestors propagates a bounds change of child to its ancestors.
// Above a style set, only the paint bounds are affected.
func (t *Tree) invalidateAncestors(child NodeID) {
	paintOnly := t.nodes[child].kind.isDecoration()
	for p := t.nodes[child].parent; p != NoNode; p = t.nodes[p].parent {
		pn := &t.nodes[p]
		if paintOnly {
			pn.cache.clearPaint()
		} else {
			pn.cache.clear()
		}
	}
}

// unionChildren merges the boxes of the non decoration children of n.
func unionChildren(n Node, box func(*Tree, NodeID) geom.Rect) geom.Rect {
	out := geom.EmptyRect
	for _, c := range n.children() {
		if n.t.nodes[c].kind.isDecoration() {
			continue
		}
		out = out.Union(box(n.t, c))
	}
	return out
}
