package scene

import (
	"testing"

	"github.com/benoitkugler/okscene/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyIdentityIsNoop(t *testing.T) {
	tree, scene, _, slice := attachedSlice()
	tr := geom.NewTransform(100, 0, 0, 50, 110, 180)
	require.NoError(t, tree.SetTransform(slice, &tr))
	tree.PaintBBox(scene)
	computed := tree.nodes[slice].cache.computed
	var evs events
	evs.listen(tree, scene)

	require.NoError(t, tree.ApplyTransform(scene, geom.Identity))
	require.NoError(t, tree.ApplyTransform(slice, geom.Identity))

	assert.Empty(t, evs)
	assert.NotNil(t, tree.nodes[slice].cache.geometry)
	assert.NotNil(t, tree.nodes[scene].cache.paint)
	tree.PaintBBox(scene)
	assert.Equal(t, computed, tree.nodes[slice].cache.computed)
}

func TestApplyTransform(t *testing.T) {
	tree, scene, _, slice := attachedSlice()

	// no own transform: the applied one is stored
	move := geom.Translation(10, 0)
	require.NoError(t, tree.ApplyTransform(slice, move))
	got, ok := tree.Transform(slice)
	require.True(t, ok)
	assert.True(t, got.Equal(move))

	// composed on top of the own one, through the containers
	scale := geom.Scaling(2, 2)
	require.NoError(t, tree.ApplyTransform(scene, scale))
	got, _ = tree.Transform(slice)
	assert.True(t, got.Equal(move.Multiplied(scale)))
	assert.True(t, got.Equal(geom.NewTransform(2, 0, 0, 2, 20, 0)))
	assert.True(t, tree.GeometryBBox(scene).Equal(geom.Rect{X: 18, Y: -2, W: 4, H: 4}))

	_, ok = tree.Transform(scene)
	assert.False(t, ok)
}

func TestApplyTransformToShapes(t *testing.T) {
	tree, layer, rect := demoRectangle(t)
	require.NoError(t, tree.ApplyTransform(layer, geom.Translation(10, 0)))
	got, ok := tree.Transform(rect)
	require.True(t, ok)
	assert.True(t, got.Equal(geom.NewTransform(100, 0, 0, 50, 120, 180)))
	assert.True(t, tree.GeometryBBox(rect).Equal(geom.Rect{X: 20, Y: 130, W: 200, H: 100}))
}

func TestTransformUnsupported(t *testing.T) {
	tree := NewTree()
	style := tree.New(KindStyle)
	assert.ErrorIs(t, tree.ApplyTransform(style, geom.Translation(1, 1)), ErrUnsupported)
	// the identity is accepted everywhere
	assert.NoError(t, tree.ApplyTransform(style, geom.Identity))

	tr := geom.Scaling(2, 2)
	assert.ErrorIs(t, tree.SetTransform(tree.NewScene(), &tr), ErrUnsupported)
}
