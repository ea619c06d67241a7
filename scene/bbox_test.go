package scene

import (
	"testing"

	"github.com/benoitkugler/okscene/geom"
	"github.com/benoitkugler/okscene/paint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSliceBBox(t *testing.T) {
	tree := NewTree()
	slice := tree.New(KindSlice)
	assert.Equal(t, geom.Rect{X: -1, Y: -1, W: 2, H: 2}, tree.SourceBBox(slice))
	assert.Equal(t, geom.Rect{X: -1, Y: -1, W: 2, H: 2}, tree.GeometryBBox(slice))

	tr := geom.NewTransform(100, 0, 0, 50, 110, 180)
	require.NoError(t, tree.SetTransform(slice, &tr))
	assert.Equal(t, geom.Rect{X: -1, Y: -1, W: 2, H: 2}, tree.SourceBBox(slice))
	assert.True(t, tree.GeometryBBox(slice).Equal(geom.Rect{X: 10, Y: 130, W: 200, H: 100}))
	assert.Equal(t, tree.GeometryBBox(slice), tree.PaintBBox(slice))
}

func TestBBoxMemoized(t *testing.T) {
	tree := NewTree()
	slice := tree.New(KindSlice)

	tree.GeometryBBox(slice)
	computed := tree.nodes[slice].cache.computed
	assert.Equal(t, 2, computed) // source and geometry
	tree.GeometryBBox(slice)
	tree.SourceBBox(slice)
	assert.Equal(t, computed, tree.nodes[slice].cache.computed)

	tree.PaintBBox(slice)
	assert.Equal(t, computed+1, tree.nodes[slice].cache.computed)

	// no bounds for decorations
	assert.True(t, tree.PaintBBox(tree.New(KindStyle)).IsEmpty())
}

func TestGeometryInvalidation(t *testing.T) {
	tree, scene, layer, slice := attachedSlice()
	before := tree.GeometryBBox(scene)
	assert.True(t, before.Equal(geom.Rect{X: -1, Y: -1, W: 2, H: 2}))
	var evs events
	evs.listen(tree, scene)

	tr := geom.NewTransform(100, 0, 0, 50, 110, 180)
	require.NoError(t, tree.SetTransform(slice, &tr))

	for _, id := range []NodeID{slice, layer, scene} {
		assert.Nil(t, tree.nodes[id].cache.geometry)
		assert.Nil(t, tree.nodes[id].cache.paint)
	}
	assert.Contains(t, evs.kinds(), NoticeGeometry)
	assert.Contains(t, evs.kinds(), ChangeProperty)
	assert.NotContains(t, evs.kinds(), NoticeRepaint)

	assert.True(t, tree.GeometryBBox(scene).Equal(geom.Rect{X: 10, Y: 130, W: 200, H: 100}))
	assert.True(t, tree.PaintBBox(layer).Equal(geom.Rect{X: 10, Y: 130, W: 200, H: 100}))
}

func TestVisualChangeKeepsBounds(t *testing.T) {
	tree, scene, _, slice := attachedSlice()
	tree.PaintBBox(scene)
	computed := tree.nodes[slice].cache.computed
	var evs events
	evs.listen(tree, scene)

	require.NoError(t, tree.SetProperty(slice, SliceColor, paint.NewColor(255, 0, 0)))
	assert.Equal(t, []ChangeKind{NoticeRepaint, ChangeProperty}, evs.kinds())
	assert.True(t, evs[0].Area.Equal(geom.Rect{X: -1, Y: -1, W: 2, H: 2}))
	assert.NotNil(t, tree.nodes[scene].cache.geometry)
	assert.NotNil(t, tree.nodes[slice].cache.paint)
	assert.Equal(t, computed, tree.nodes[slice].cache.computed)

	// meta properties neither
	evs = nil
	require.NoError(t, tree.SetProperty(slice, SliceTrim, false))
	assert.Equal(t, []ChangeKind{ChangeProperty}, evs.kinds())
	assert.NotNil(t, tree.nodes[scene].cache.paint)
}

func TestGeometryAndVisualChange(t *testing.T) {
	tree := NewTree()
	rect := tree.New(KindRectangle)
	before := tree.PaintBBox(rect)
	require.True(t, before.Equal(geom.Rect{X: -1, Y: -1, W: 2, H: 2}))
	var evs events
	evs.listen(tree, rect)

	require.NoError(t, tree.SetProperties(rect,
		[]string{transformKey, RectangleFill},
		[]any{geom.Translation(500, 500), paint.NewColor(255, 0, 0)},
	))
	assert.Equal(t, []ChangeKind{NoticeGeometry, NoticeRepaint, ChangeProperty}, evs.kinds())
	// the area to repaint is the one covered before the move
	assert.True(t, evs[0].Area.Equal(before), evs[0].Area)
	assert.True(t, evs[1].Area.Equal(before), evs[1].Area)
	assert.True(t, tree.PaintBBox(rect).Equal(geom.Rect{X: 499, Y: 499, W: 2, H: 2}))
}

func TestInsertInvalidatesAncestors(t *testing.T) {
	tree, scene, layer, _ := attachedSlice()
	tree.GeometryBBox(scene)

	other := tree.New(KindSlice)
	tr := geom.Translation(10, 10)
	require.NoError(t, tree.SetTransform(other, &tr))
	require.NoError(t, tree.Append(layer, other))
	assert.True(t, tree.GeometryBBox(scene).Equal(geom.Rect{X: -1, Y: -1, W: 12, H: 12}))

	require.NoError(t, tree.Remove(other))
	assert.True(t, tree.GeometryBBox(scene).Equal(geom.Rect{X: -1, Y: -1, W: 2, H: 2}))
}

func demoRectangle(t *testing.T) (*Tree, NodeID, NodeID) {
	tree := NewTree()
	scene, err := Demo(tree)
	require.NoError(t, err)
	layer := tree.Children(scene)[0]
	return tree, layer, tree.Children(layer)[0]
}

func TestRectanglePaintBBox(t *testing.T) {
	tree, layer, rect := demoRectangle(t)
	geometry := geom.Rect{X: 10, Y: 130, W: 200, H: 100}
	assert.True(t, tree.GeometryBBox(rect).Equal(geometry))
	// the inside stroke stays within the rectangle, the outside one adds 10
	assert.True(t, tree.PaintBBox(rect).Equal(geometry.Expanded(10)))

	styles := tree.Children(tree.StyleSet(rect))
	require.Len(t, styles, 2)
	outside := tree.Children(styles[1])[0]

	tree.GeometryBBox(layer)
	tree.PaintBBox(layer)
	require.NoError(t, tree.SetProperty(outside, StrokeAlignment, AlignCenter))

	// decorations only invalidate the paint bounds
	assert.NotNil(t, tree.nodes[rect].cache.geometry)
	assert.Nil(t, tree.nodes[rect].cache.paint)
	assert.NotNil(t, tree.nodes[layer].cache.geometry)
	assert.Nil(t, tree.nodes[layer].cache.paint)
	assert.True(t, tree.PaintBBox(rect).Equal(geometry.Expanded(5)))

	require.NoError(t, tree.SetProperty(outside, StrokeWidth, 4.0))
	assert.True(t, tree.PaintBBox(rect).Equal(geometry.Expanded(2)))

	// hidden styles take no room
	require.NoError(t, tree.SetProperty(styles[1], StyleVisible, false))
	assert.True(t, tree.PaintBBox(rect).Equal(geometry))
}
