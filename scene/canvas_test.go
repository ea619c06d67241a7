package scene

import (
	"image"

	"github.com/benoitkugler/okscene/geom"
	"github.com/benoitkugler/okscene/paint"
)

// call is one operation recorded by recordingCanvas.
type call struct {
	op      string // put, stroke, fill
	points  []geom.Point
	pattern paint.Pattern
	value   float64 // width or alpha
	view    geom.Transform
}

type recordingCanvas struct {
	view  geom.Transform
	calls []call
}

var _ Canvas = (*recordingCanvas)(nil)

func newRecordingCanvas() *recordingCanvas { return &recordingCanvas{view: geom.Identity} }

func (c *recordingCanvas) ResetTransform() geom.Transform {
	old := c.view
	c.view = geom.Identity
	return old
}

func (c *recordingCanvas) SetTransform(t geom.Transform) { c.view = t }
func (c *recordingCanvas) Transform() geom.Transform     { return c.view }

func (c *recordingCanvas) PutVertices(points []geom.Point, _ bool) {
	c.calls = append(c.calls, call{op: "put", points: append([]geom.Point(nil), points...), view: c.view})
}

func (c *recordingCanvas) StrokeVertices(p paint.Pattern, width float64) {
	c.calls = append(c.calls, call{op: "stroke", pattern: p, value: width, view: c.view})
}

func (c *recordingCanvas) FillVertices(p paint.Pattern, alpha float64) {
	c.calls = append(c.calls, call{op: "fill", pattern: p, value: alpha, view: c.view})
}

func (c *recordingCanvas) ops() []string {
	out := make([]string, len(c.calls))
	for i, cl := range c.calls {
		out[i] = cl.op
	}
	return out
}

type fakeBitmap struct {
	img     *image.RGBA
	trimmed bool
}

func (b *fakeBitmap) Image() image.Image { return b.img }
func (b *fakeBitmap) Trim()              { b.trimmed = true }

// rasterCanvas adds a bitmap to recordingCanvas.
type rasterCanvas struct {
	*recordingCanvas
	bitmap *fakeBitmap
}

var _ Rasterizer = rasterCanvas{}

func newRasterCanvas() rasterCanvas {
	return rasterCanvas{
		recordingCanvas: newRecordingCanvas(),
		bitmap:          &fakeBitmap{img: image.NewRGBA(image.Rect(0, 0, 4, 4))},
	}
}

func (c rasterCanvas) Bitmap() Bitmap { return c.bitmap }

// events collects the events delivered to a listener.
type events []Event

func (evs *events) listen(t *Tree, id NodeID) func() {
	return t.Listen(id, func(ev Event) { *evs = append(*evs, ev) })
}

func (evs events) kinds() []ChangeKind {
	out := make([]ChangeKind, len(evs))
	for i, ev := range evs {
		out[i] = ev.Kind
	}
	return out
}

// attachedSlice returns a tree holding scene > layer > slice.
func attachedSlice() (t *Tree, scene, layer, slice NodeID) {
	t = NewTree()
	scene = t.NewScene()
	layer = t.New(KindLayer)
	slice = t.New(KindSlice)
	if err := t.Append(scene, layer); err != nil {
		panic(err)
	}
	if err := t.Append(layer, slice); err != nil {
		panic(err)
	}
	return t, scene, layer, slice
}
