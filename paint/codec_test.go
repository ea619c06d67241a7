package paint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerialize(t *testing.T) {
	for _, test := range []struct {
		p    Pattern
		want string
	}{
		{nil, ""},
		{NewColor(0, 116, 217), "#0074d9"},
		{Color{R: 255, A: 128}, "#ff000080"},
		{
			Gradient{
				Direction: Linear{0, 0, 1, 0},
				Stops:     []GradStop{{0, NewColor(255, 0, 0), 1}, {1, NewColor(0, 0, 255), 0.5}},
			},
			"linear 0,0,1,0 pad 0:#ff0000:1 1:#0000ff:0.5",
		},
	} {
		got := Serialize(test.p)
		assert.Equal(t, test.want, got)
		back, err := Deserialize(got)
		require.NoError(t, err)
		assert.True(t, Equal(test.p, back), got)
	}

	radial := Gradient{
		Direction: Radial{0.5, 0.5, 0.5, 0.5, 0.5, 0},
		Stops:     []GradStop{{0.25, NewColor(1, 2, 3), 1}},
		Spread:    ReflectSpread,
	}
	back, err := Deserialize(Serialize(radial))
	require.NoError(t, err)
	assert.True(t, Equal(radial, back))
}

func TestDeserializeErrors(t *testing.T) {
	for _, s := range []string{
		"#12",
		"#gggggg",
		"conic 0,0 pad",
		"linear 0,0,1 pad",
		"linear 0,0,1,0 spiral",
		"linear 0,0,1,0 pad 0:#ff0000",
	} {
		_, err := Deserialize(s)
		assert.ErrorIs(t, err, ErrInvalidPattern, s)
	}
}

func TestParseSVGColor(t *testing.T) {
	for s, want := range map[string]Pattern{
		"#f00":           NewColor(255, 0, 0),
		"#00FF00":        NewColor(0, 255, 0),
		"rgb(0, 0, 255)": NewColor(0, 0, 255),
		"rgb(100%,0,0)":  NewColor(255, 0, 0),
		"steelblue":      NewColor(70, 130, 180),
		"none":           nil,
	} {
		got, err := ParseSVGColor(s)
		require.NoError(t, err, s)
		assert.True(t, Equal(want, got), s)
	}
	_, err := ParseSVGColor("blurple")
	assert.ErrorIs(t, err, ErrInvalidPattern)
}

func TestWithOpacity(t *testing.T) {
	assert.Equal(t, Color{R: 255, A: 128}, WithOpacity(NewColor(255, 0, 0), 0.5))
	assert.Equal(t, NewColor(255, 0, 0), WithOpacity(NewColor(255, 0, 0), 2))

	g := Gradient{Direction: Linear{}, Stops: []GradStop{{0, NewColor(1, 1, 1), 0.8}}}
	faded := WithOpacity(g, 0.5).(Gradient)
	assert.InDelta(t, 0.4, faded.Stops[0].Opacity, 1e-9)
	assert.Equal(t, 0.8, g.Stops[0].Opacity)

	c, ok := FirstColor(g)
	require.True(t, ok)
	assert.Equal(t, uint8(204), c.A)
}
