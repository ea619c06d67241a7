package scene

import (
	"github.com/benoitkugler/okscene/geom"
	"github.com/benoitkugler/okscene/paint"
)

// Demo builds a small document in t and returns its scene: one layer
// holding a rectangle decorated by two styles, and a slice covering it.
//
// The rectangle is the unit square scaled by (100, 50) and moved to
// (110, 180). Its first style strokes it inside with a width of 15, the
// second one, at half opacity, outside with a width of 10.
func Demo(t *Tree) (NodeID, error) {
	scene := t.NewScene()
	if err := t.SetProperty(scene, SceneTitle, "Demo"); err != nil {
		return NoNode, err
	}
	layer := t.New(KindLayer)
	if err := t.Append(scene, layer); err != nil {
		return NoNode, err
	}

	rect := t.New(KindRectangle)
	if err := t.Append(layer, rect); err != nil {
		return NoNode, err
	}
	if err := t.SetProperties(rect,
		[]string{transformKey, RectangleFill},
		[]any{geom.NewTransform(100, 0, 0, 50, 110, 180), paint.NewColor(0xdd, 0xdd, 0xdd)},
	); err != nil {
		return NoNode, err
	}

	first, err := t.AddStyle(rect)
	if err != nil {
		return NoNode, err
	}
	if _, err := t.AddStrokePaint(first, 15, AlignInside, paint.NewColor(0x20, 0x40, 0x80)); err != nil {
		return NoNode, err
	}
	second, err := t.AddStyle(rect)
	if err != nil {
		return NoNode, err
	}
	if err := t.SetProperty(second, StyleOpacity, 0.5); err != nil {
		return NoNode, err
	}
	if _, err := t.AddStrokePaint(second, 10, AlignOutside, paint.NewColor(0xc0, 0x20, 0x20)); err != nil {
		return NoNode, err
	}

	slice := t.New(KindSlice)
	if err := t.Append(layer, slice); err != nil {
		return NoNode, err
	}
	// cover the rectangle and its outside stroke
	tr := geom.NewTransform(115, 0, 0, 65, 110, 180)
	if err := t.SetTransform(slice, &tr); err != nil {
		return NoNode, err
	}
	return scene, nil
}
