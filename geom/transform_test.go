package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiplied(t *testing.T) {
	scale, move := Scaling(2, 3), Translation(10, 0)

	p := Point{1, 1}
	assert.Equal(t, Point{12, 3}, scale.Multiplied(move).MapPoint(p))
	assert.Equal(t, Point{22, 3}, move.Multiplied(scale).MapPoint(p))
	assert.False(t, scale.Multiplied(move).Equal(move.Multiplied(scale)))

	assert.True(t, scale.Multiplied(Identity).Equal(scale))
	assert.True(t, Identity.Multiplied(scale).Equal(scale))

	rot := Rotation(math.Pi / 2)
	q := rot.MapPoint(Point{1, 0})
	assert.True(t, q.Equal(Point{0, 1}))
}

func TestTranslateScale(t *testing.T) {
	tr := Identity.Scale(2, 2).Translate(1, 1)
	assert.Equal(t, Point{3, 3}, tr.MapPoint(Point{1, 1}))
}

func TestInverted(t *testing.T) {
	tr := NewTransform(100, 0, 0, 50, 110, 180)
	inv, ok := tr.Inverted()
	require.True(t, ok)
	assert.True(t, tr.Multiplied(inv).IsIdentity())
	p := Point{3, -7}
	assert.True(t, inv.MapPoint(tr.MapPoint(p)).Equal(p))

	_, ok = Scaling(0, 1).Inverted()
	assert.False(t, ok)
}

func TestMapRect(t *testing.T) {
	tr := NewTransform(100, 0, 0, 50, 110, 180)
	assert.Equal(t, Rect{10, 130, 200, 100}, tr.MapRect(Rect{-1, -1, 2, 2}))

	// rotated boxes give their axis aligned bounds
	r := Rotation(math.Pi / 4).MapRect(Rect{-1, -1, 2, 2})
	assert.True(t, r.Equal(Rect{-math.Sqrt2, -math.Sqrt2, 2 * math.Sqrt2, 2 * math.Sqrt2}))
}

func TestTransformString(t *testing.T) {
	for _, tr := range []Transform{
		Identity,
		NewTransform(100, 0, 0, 50, 110, 180),
		Rotation(0.3).Multiplied(Translation(-1.5, 2e-7)),
	} {
		s := tr.String()
		back, err := ParseTransform(s)
		require.NoError(t, err)
		assert.Equal(t, tr, back, s)
	}
	assert.Equal(t, "1,0,0,1,0,0", Identity.String())

	for _, bad := range []string{"", "1,0,0,1,0", "1,0,0,1,0,x"} {
		_, err := ParseTransform(bad)
		assert.Error(t, err, bad)
	}
}
