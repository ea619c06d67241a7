package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnion(t *testing.T) {
	a := Rect{0, 0, 10, 10}
	assert.Equal(t, a, EmptyRect.Union(a))
	assert.Equal(t, a, a.Union(EmptyRect))
	assert.True(t, EmptyRect.Union(EmptyRect).IsEmpty())
	assert.Equal(t, Rect{-5, 0, 15, 20}, a.Union(Rect{-5, 10, 1, 10}))

	// degenerate boxes still count
	assert.Equal(t, Rect{0, 0, 20, 10}, a.Union(Rect{20, 5, 0, 0}))
}

func TestExpanded(t *testing.T) {
	assert.Equal(t, Rect{-1, -1, 12, 12}, Rect{0, 0, 10, 10}.Expanded(1))
	assert.True(t, EmptyRect.Expanded(3).IsEmpty())
}

func TestBoundsOf(t *testing.T) {
	assert.True(t, BoundsOf().IsEmpty())
	assert.Equal(t, Rect{-1, 2, 4, 3}, BoundsOf(Point{3, 2}, Point{-1, 5}, Point{0, 3}))
}

func TestSnapped(t *testing.T) {
	assert.Equal(t, Point{10.5, -1.5}, Point{10.9, -1.2}.Snapped(0.5))
}

func TestQuadrilateral(t *testing.T) {
	q := Identity.MapQuadrilateral(Rect{0, 0, 10, 10})
	assert.True(t, q.Contains(Point{5, 5}))
	assert.True(t, q.Contains(Point{10, 10}))
	assert.False(t, q.Contains(Point{11, 5}))

	grown := q.Grown(1)
	assert.True(t, grown.Bounds().Equal(Rect{-1, -1, 12, 12}))
	assert.True(t, grown.Contains(Point{10.5, 5}))
	shrunk := q.Grown(-2)
	assert.True(t, shrunk.Bounds().Equal(Rect{2, 2, 6, 6}))

	// counter clockwise quads grow outward too
	rev := Quadrilateral{q[3], q[2], q[1], q[0]}
	assert.True(t, rev.Grown(1).Bounds().Equal(Rect{-1, -1, 12, 12}))

	// segment: falls back to the bounds
	flat := Scaling(1, 0).MapQuadrilateral(Rect{0, 0, 10, 10})
	assert.True(t, flat.Grown(1).Bounds().Equal(Rect{-1, -1, 12, 2}))
}

func TestViewport(t *testing.T) {
	view, w, h := Viewport(Rect{10, 130, 200, 100.5}, 2)
	assert.Equal(t, 400, w)
	assert.Equal(t, 201, h)
	assert.Equal(t, Point{0, 0}, view.MapPoint(Point{10, 130}))
	assert.Equal(t, Point{400, 201}, view.MapPoint(Point{210, 230.5}))

	_, w, h = Viewport(EmptyRect, 1)
	assert.Zero(t, w)
	assert.Zero(t, h)
}
