package main

import (
	"errors"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/benoitkugler/okscene/docio"
	"github.com/benoitkugler/okscene/geom"
	"github.com/benoitkugler/okscene/pdfout"
	"github.com/benoitkugler/okscene/raster"
	"github.com/benoitkugler/okscene/scene"
	"github.com/benoitkugler/okscene/svgin"
	"github.com/benoitkugler/okscene/svgout"
	"github.com/spf13/cobra"
)

var errEmptyScene = errors.New("nothing to render: the scene is empty")

func save(tree *scene.Tree, root scene.NodeID, path string) error {
	doc, err := docio.New(tree, root)
	if err != nil {
		return err
	}
	if err := docio.SaveFile(path, doc); err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	scene.Logger().Info("document saved", "path", path, "id", doc.ID)
	return nil
}

func load(path string) (*scene.Tree, scene.NodeID, error) {
	doc, err := docio.LoadFile(path)
	if err != nil {
		return nil, scene.NoNode, fmt.Errorf("loading document: %w", err)
	}
	tree := scene.NewTree()
	tree.ErrorMode = cfg.Mode()
	root, err := doc.Restore(tree)
	if err != nil {
		return nil, scene.NoNode, fmt.Errorf("restoring document: %w", err)
	}
	return tree, root, nil
}

func runDemo(cmd *cobra.Command, _ []string) error {
	tree := scene.NewTree()
	root, err := scene.Demo(tree)
	if err != nil {
		return err
	}
	return save(tree, root, outputPath)
}

func runImport(cmd *cobra.Command, args []string) error {
	tree := scene.NewTree()
	root, err := svgin.ImportFile(tree, args[0], cfg.Mode())
	if err != nil {
		return fmt.Errorf("importing %s: %w", args[0], err)
	}
	return save(tree, root, outputPath)
}

func runTree(cmd *cobra.Command, args []string) error {
	tree, root, err := load(args[0])
	if err != nil {
		return err
	}
	printNode(cmd.OutOrStdout(), tree, root, 0)
	return nil
}

func printNode(w io.Writer, tree *scene.Tree, id scene.NodeID, depth int) {
	kind, _ := tree.Kind(id)
	n := tree.Node(id)
	label := kind.String()
	switch kind {
	case scene.KindScene:
		if title := n.Text(scene.SceneTitle); title != "" {
			label += fmt.Sprintf(" %q", title)
		}
	case scene.KindLayer:
		label += fmt.Sprintf(" %q", n.Text(scene.LayerName))
		if !n.Bool(scene.LayerVisible) {
			label += " (hidden)"
		}
	case scene.KindStrokePaint:
		label += fmt.Sprintf(" %s %g", n.Text(scene.StrokeAlignment), n.Float(scene.StrokeWidth))
	}
	if kind == scene.KindScene || kind == scene.KindLayer || kind == scene.KindSlice || kind == scene.KindRectangle {
		label += " " + n.PaintBBox().String()
	}
	fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), label)
	for _, c := range tree.Children(id) {
		printNode(w, tree, c, depth+1)
	}
}

// paintBackground fills the whole page with the configured background.
func paintBackground(canvas scene.Canvas, width, height int) {
	bg := cfg.BackgroundPattern()
	if bg == nil {
		return
	}
	page := geom.Rect{W: float64(width), H: float64(height)}
	corners := page.Corners()
	canvas.PutVertices(corners[:], true)
	canvas.FillVertices(bg, 1)
}

func runRender(cmd *cobra.Command, args []string) error {
	tree, root, err := load(args[0])
	if err != nil {
		return err
	}
	view, width, height := geom.Viewport(tree.PaintBBox(root), cfg.Scale)
	if width == 0 || height == 0 {
		return errEmptyScene
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer f.Close()

	var output func(io.Writer) error
	var canvas scene.Canvas
	switch ext := strings.ToLower(filepath.Ext(outputPath)); ext {
	case ".png":
		c := raster.NewCanvas(width, height)
		c.Clear(cfg.BackgroundPattern())
		canvas = c
		output = func(w io.Writer) error { return png.Encode(w, c.Image()) }
	case ".pdf":
		c := pdfout.NewCanvas(float64(width), float64(height))
		paintBackground(c, width, height)
		canvas, output = c, c.Output
	case ".svg":
		c := svgout.NewCanvas(float64(width), float64(height))
		c.SetTitle(tree.Node(root).Text(scene.SceneTitle))
		paintBackground(c, width, height)
		canvas, output = c, c.Output
	default:
		return fmt.Errorf("unsupported output format %q", ext)
	}

	canvas.SetTransform(view)
	if err := tree.Paint(root, scene.NewPaintContext(canvas, cfg)); err != nil {
		return err
	}
	if err := output(f); err != nil {
		return fmt.Errorf("writing %s: %w", outputPath, err)
	}
	scene.Logger().Info("document rendered", "path", outputPath, "width", width, "height", height)
	return f.Close()
}

// slices returns the slices of the subtree rooted at id, in paint order.
func slices(tree *scene.Tree, id scene.NodeID) []scene.NodeID {
	var out []scene.NodeID
	if k, _ := tree.Kind(id); k == scene.KindSlice {
		out = append(out, id)
	}
	for _, c := range tree.Children(id) {
		out = append(out, slices(tree, c)...)
	}
	return out
}

// exportConfig hides the slice overlays from their own bitmaps.
type exportConfig struct{ scene.Configuration }

func (exportConfig) SlicesVisible(*scene.PaintContext) bool { return false }

func runSlices(cmd *cobra.Command, args []string) error {
	tree, root, err := load(args[0])
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return err
	}
	for i, id := range slices(tree, root) {
		view, width, height := geom.Viewport(tree.GeometryBBox(id), cfg.Scale)
		if width == 0 || height == 0 {
			continue
		}
		canvas := raster.NewCanvas(width, height)
		canvas.SetTransform(view)
		bitmap, err := tree.PaintToBitmap(id, scene.NewPaintContext(canvas, exportConfig{cfg}))
		if err != nil {
			return fmt.Errorf("slice %d: %w", id, err)
		}
		if bitmap.Image().Bounds().Empty() {
			scene.Logger().Warn("skipping empty slice", "slice", id)
			continue
		}
		path := filepath.Join(outputDir, fmt.Sprintf("slice-%d.png", i+1))
		if err := writePNG(path, bitmap); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
	}
	return nil
}

func writePNG(path string, bitmap scene.Bitmap) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := png.Encode(f, bitmap.Image()); err != nil {
		return err
	}
	return f.Close()
}
