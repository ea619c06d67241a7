package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the CLI with args, and returns its standard output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	configPath, outputPath, outputDir = "", "", "."
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestDemoAndTree(t *testing.T) {
	doc := filepath.Join(t.TempDir(), "demo.xml.gz")
	_, err := run(t, "demo", "-o", doc)
	require.NoError(t, err)

	out, err := run(t, "tree", doc)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 9)
	assert.True(t, strings.HasPrefix(lines[0], `scene "Demo"`), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], `  layer "Layer"`), lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "    rectangle"), lines[2])
	assert.Contains(t, out, "inside 15")
	assert.Contains(t, out, "outside 10")
	assert.True(t, strings.HasPrefix(lines[8], "    slice"), lines[8])
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "demo.xml")
	_, err := run(t, "demo", "-o", doc)
	require.NoError(t, err)

	for _, name := range []string{"demo.png", "demo.pdf", "demo.svg"} {
		path := filepath.Join(dir, name)
		_, err = run(t, "render", doc, "-o", path)
		require.NoError(t, err, name)
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.NotZero(t, info.Size())
	}

	f, err := os.Open(filepath.Join(dir, "demo.png"))
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	// the slice covers the outside stroke
	assert.Equal(t, 230, img.Bounds().Dx())
	assert.Equal(t, 130, img.Bounds().Dy())

	_, err = run(t, "render", doc, "-o", filepath.Join(dir, "demo.bmp"))
	assert.Error(t, err)
}

func TestSlices(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "demo.xml")
	_, err := run(t, "demo", "-o", doc)
	require.NoError(t, err)

	out, err := run(t, "slices", doc, "-d", filepath.Join(dir, "out"))
	require.NoError(t, err)
	path := strings.TrimSpace(out)
	assert.Equal(t, filepath.Join(dir, "out", "slice-1.png"), path)
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestImport(t *testing.T) {
	dir := t.TempDir()
	svg := filepath.Join(dir, "in.svg")
	require.NoError(t, os.WriteFile(svg, []byte(`<svg><title>Imported</title><rect width="10" height="20" fill="red"/></svg>`), 0o644))
	doc := filepath.Join(dir, "in.xml.zst")
	_, err := run(t, "import", svg, "-o", doc)
	require.NoError(t, err)

	out, err := run(t, "tree", doc)
	require.NoError(t, err)
	assert.Contains(t, out, `scene "Imported"`)
	assert.Contains(t, out, "rectangle Rect(0,0 10x20)")

	configFile := filepath.Join(dir, "strict.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("error_mode: strict\n"), 0o644))
	require.NoError(t, os.WriteFile(svg, []byte(`<svg><circle r="2"/></svg>`), 0o644))
	_, err = run(t, "import", svg, "-o", doc, "--config", configFile)
	assert.Error(t, err)
}

func TestMissingDocument(t *testing.T) {
	_, err := run(t, "tree", filepath.Join(t.TempDir(), "missing.xml"))
	assert.Error(t, err)
}
