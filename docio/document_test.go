package docio

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/benoitkugler/okscene/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func demoDocument(t *testing.T) (*scene.Tree, scene.NodeID, Document) {
	t.Helper()
	tree := scene.NewTree()
	root, err := scene.Demo(tree)
	require.NoError(t, err)
	doc, err := New(tree, root)
	require.NoError(t, err)
	return tree, root, doc
}

func TestRoundTrip(t *testing.T) {
	tree, root, doc := demoDocument(t)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, doc))
	assert.True(t, strings.HasPrefix(buf.String(), "<?xml"))
	assert.Contains(t, buf.String(), `<p k="ttl" t="s">Demo</p>`)

	got, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, doc.ID, got.ID)
	assert.Equal(t, doc.Root, got.Root)

	restored, err := got.Restore(tree)
	require.NoError(t, err)
	assert.Equal(t, tree.PaintBBox(root), tree.PaintBBox(restored))
	assert.Len(t, tree.Children(restored), 1)
}

func TestChecksum(t *testing.T) {
	_, _, doc := demoDocument(t)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, doc))

	tampered := strings.Replace(buf.String(), ">Demo<", ">Oops<", 1)
	_, err := Read(strings.NewReader(tampered))
	assert.ErrorIs(t, err, ErrChecksum)
}

func TestReadInvalid(t *testing.T) {
	_, err := Read(strings.NewReader(`<okscene version="2" id="" checksum=""></okscene>`))
	assert.ErrorIs(t, err, ErrVersion)

	_, err = Read(strings.NewReader(`<okscene version="1"`))
	assert.Error(t, err)

	// valid checksum of an empty content, but no id
	_, err = Read(strings.NewReader(`<okscene version="1" id="abc" checksum="af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262"></okscene>`))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrChecksum)
}

func TestPropertyTypes(t *testing.T) {
	rec := scene.Record{Kind: "layer", Properties: scene.Blob{"name": "", "vis": false, "x": 1.5}}
	node, err := toXML(rec)
	require.NoError(t, err)
	require.Len(t, node.Props, 3)
	assert.Equal(t, xmlProp{Key: "name", Type: "s"}, node.Props[0])
	assert.Equal(t, xmlProp{Key: "vis", Type: "b", Value: "false"}, node.Props[1])
	assert.Equal(t, xmlProp{Key: "x", Type: "n", Value: "1.5"}, node.Props[2])

	back, err := node.record()
	require.NoError(t, err)
	assert.Equal(t, rec, back)

	_, err = toXML(scene.Record{Kind: "layer", Properties: scene.Blob{"x": 1}})
	assert.Error(t, err)
	_, err = xmlNode{Kind: "layer", Props: []xmlProp{{Key: "vis", Type: "b", Value: "maybe"}}}.record()
	assert.Error(t, err)
}

func TestFiles(t *testing.T) {
	_, _, doc := demoDocument(t)
	dir := t.TempDir()
	for _, name := range []string{"doc.xml", "doc.xml.gz", "doc.xml.zst"} {
		path := filepath.Join(dir, name)
		require.NoError(t, SaveFile(path, doc), name)
		got, err := LoadFile(path)
		require.NoError(t, err, name)
		assert.Equal(t, doc, got, name)
	}

	_, err := LoadFile(filepath.Join(dir, "missing.xml"))
	assert.Error(t, err)
}
