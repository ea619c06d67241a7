package svgin

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/benoitkugler/okscene/geom"
	"github.com/benoitkugler/okscene/paint"
	"github.com/benoitkugler/okscene/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const icons = `<?xml version="1.0"?>
<svg xmlns="http://www.w3.org/2000/svg" width="200" height="100" viewBox="0 0 100 50">
	<title>Icons</title>
	<defs>
		<linearGradient id="grad" x1="0" x2="100%">
			<stop offset="0" stop-color="#ff0000"/>
			<stop offset="1" stop-color="blue" stop-opacity="0.5"/>
		</linearGradient>
	</defs>
	<g id="back" transform="translate(10,0)">
		<rect x="0" y="0" width="20" height="10" fill="#00ff00" stroke="black" stroke-width="2"/>
		<rect x="30" y="0" width="10" height="10" style="fill:url(#grad)"/>
		<rect x="30" y="0" width="0" height="10"/>
	</g>
	<circle cx="5" cy="5" r="5"/>
</svg>`

func TestImport(t *testing.T) {
	tree := scene.NewTree()
	root, err := Import(tree, strings.NewReader(icons), scene.IgnoreErrorMode)
	require.NoError(t, err)

	assert.Equal(t, "Icons", tree.Node(root).Text(scene.SceneTitle))
	require.Len(t, tree.Children(root), 1)
	layer := tree.Children(root)[0]
	assert.Equal(t, "back", tree.Node(layer).Text(scene.LayerName))

	rects := tree.Children(layer)
	require.Len(t, rects, 2) // the empty one is skipped

	first, err := tree.Rectangle(rects[0])
	require.NoError(t, err)
	assert.Equal(t, paint.NewColor(0, 0xff, 0), first.Fill())
	assert.True(t, first.GeometryBBox().Equal(geom.Rect{X: 20, Y: 0, W: 40, H: 20}), first.GeometryBBox())
	// the stroke width is scaled by the view box
	assert.True(t, first.PaintBBox().Equal(geom.Rect{X: 18, Y: -2, W: 44, H: 24}), first.PaintBBox())

	styles := tree.Children(first.StyleSet())
	require.Len(t, styles, 1)
	decorations := tree.Children(styles[0])
	require.Len(t, decorations, 1)
	stroke := tree.Node(decorations[0])
	assert.Equal(t, 4.0, stroke.Float(scene.StrokeWidth))
	assert.Equal(t, scene.AlignCenter, stroke.Text(scene.StrokeAlignment))

	second, err := tree.Rectangle(rects[1])
	require.NoError(t, err)
	expected := paint.Gradient{
		Direction: paint.Linear{0, 0, 1, 0},
		Stops: []paint.GradStop{
			{Offset: 0, Color: paint.NewColor(0xff, 0, 0), Opacity: 1},
			{Offset: 1, Color: paint.NewColor(0, 0, 0xff), Opacity: 0.5},
		},
	}
	assert.True(t, paint.Equal(expected, second.Fill()), second.Fill())
	assert.Empty(t, tree.Children(second.StyleSet()))
}

func TestImportUnsupported(t *testing.T) {
	tree := scene.NewTree()
	_, err := Import(tree, strings.NewReader(icons), scene.StrictErrorMode)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circle")

	var buf bytes.Buffer
	scene.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	defer scene.SetLogger(nil)
	_, err = Import(tree, strings.NewReader(icons), scene.WarnErrorMode)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "element circle")
}

func TestImportUnsupportedPaint(t *testing.T) {
	const doc = `<svg><g fill="#00ff00"><rect width="2" height="2" fill="currentColor" stroke="inherit"/></g></svg>`

	tree := scene.NewTree()
	root, err := Import(tree, strings.NewReader(doc), scene.IgnoreErrorMode)
	require.NoError(t, err)
	layer := tree.Children(root)[0]
	require.Len(t, tree.Children(layer), 1)
	rect, err := tree.Rectangle(tree.Children(layer)[0])
	require.NoError(t, err)
	// the inherited fill is kept
	assert.Equal(t, paint.NewColor(0, 0xff, 0), rect.Fill())
	assert.Empty(t, tree.Children(rect.StyleSet()))

	_, err = Import(tree, strings.NewReader(doc), scene.StrictErrorMode)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "currentColor")
}

func TestImportInvalid(t *testing.T) {
	for _, doc := range []string{
		"",
		"<html><body/></html>",
		`<svg><rect width="abc" height="2"/></svg>`,
		`<svg><rect width="2" height="2" transform="rotate(1,2)"/></svg>`,
		`<svg><rect`,
	} {
		tree := scene.NewTree()
		_, err := Import(tree, strings.NewReader(doc), scene.IgnoreErrorMode)
		assert.Error(t, err, doc)
	}
}

func TestImportCharset(t *testing.T) {
	doc := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?><svg><title>Caf\xe9</title></svg>"
	tree := scene.NewTree()
	root, err := Import(tree, strings.NewReader(doc), scene.StrictErrorMode)
	require.NoError(t, err)
	assert.Equal(t, "Café", tree.Node(root).Text(scene.SceneTitle))
}

func TestImportFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "icons.svg")
	require.NoError(t, os.WriteFile(file, []byte(icons), 0o644))

	tree := scene.NewTree()
	root, err := ImportFile(tree, file, scene.IgnoreErrorMode)
	require.NoError(t, err)
	assert.Len(t, tree.Children(root), 1)

	_, err = ImportFile(tree, filepath.Join(t.TempDir(), "missing.svg"), scene.IgnoreErrorMode)
	assert.Error(t, err)
}

func TestParseTransform(t *testing.T) {
	tests := []struct {
		attr     string
		in, want geom.Point
	}{
		{"translate(10,0) scale(2)", geom.Point{X: 1, Y: 1}, geom.Point{X: 12, Y: 2}},
		{"scale(2), translate(10)", geom.Point{X: 1, Y: 1}, geom.Point{X: 22, Y: 2}},
		{"rotate(90)", geom.Point{X: 1, Y: 0}, geom.Point{X: 0, Y: 1}},
		{"rotate(180 1 1)", geom.Point{X: 0, Y: 0}, geom.Point{X: 2, Y: 2}},
		{"matrix(1 0 0 1 3 4)", geom.Point{}, geom.Point{X: 3, Y: 4}},
		{"skewX(45)", geom.Point{X: 0, Y: 1}, geom.Point{X: 1, Y: 1}},
	}
	for _, tt := range tests {
		m, err := parseTransform(geom.Identity, tt.attr)
		require.NoError(t, err, tt.attr)
		got := m.MapPoint(tt.in)
		assert.InDelta(t, tt.want.X, got.X, 1e-9, tt.attr)
		assert.InDelta(t, tt.want.Y, got.Y, 1e-9, tt.attr)
	}

	for _, attr := range []string{"translate(1,2,3)", "scale(a)", "spin(3)", "translate"} {
		_, err := parseTransform(geom.Identity, attr)
		assert.Error(t, err, attr)
	}
}
