// Package svgout implements a scene.Canvas producing SVG markup.
//
// Every fill or stroke becomes one polygon (or polyline) element,
// with coordinates already mapped by the canvas transform.
// Gradients are collected in a defs section.
package svgout

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/benoitkugler/okscene/geom"
	"github.com/benoitkugler/okscene/paint"
	"github.com/benoitkugler/okscene/scene"
)

var _ scene.Canvas = (*Canvas)(nil)

// Canvas records the drawing operations, which are written by Output.
type Canvas struct {
	width, height float64
	title         string

	view   geom.Transform
	points string // current polygon, in document space
	closed bool

	defs     []paint.Gradient
	elements []xml.StartElement
}

// NewCanvas returns an empty canvas of the given size, in user units.
func NewCanvas(width, height float64) *Canvas {
	return &Canvas{width: width, height: height, view: geom.Identity}
}

// SetTitle sets the content of the title element.
func (c *Canvas) SetTitle(title string) { c.title = title }

func (c *Canvas) ResetTransform() geom.Transform {
	old := c.view
	c.view = geom.Identity
	return old
}

func (c *Canvas) SetTransform(t geom.Transform) { c.view = t }
func (c *Canvas) Transform() geom.Transform     { return c.view }

func (c *Canvas) PutVertices(points []geom.Point, closed bool) {
	chunks := make([]string, len(points))
	for i, p := range points {
		p = c.view.MapPoint(p)
		chunks[i] = formatFloat(p.X) + "," + formatFloat(p.Y)
	}
	c.points = strings.Join(chunks, " ")
	c.closed = closed
}

func (c *Canvas) shape(closed bool) xml.StartElement {
	se := xml.StartElement{Name: xml.Name{Local: "polyline"}}
	if closed {
		se.Name.Local = "polygon"
	}
	addAttr(&se.Attr, "points", c.points)
	return se
}

func (c *Canvas) StrokeVertices(p paint.Pattern, width float64) {
	if c.points == "" || p == nil {
		return
	}
	se := c.shape(c.closed)
	addAttr(&se.Attr, "fill", "none")
	c.addPaint(&se, "stroke", p, 1)
	addAttr(&se.Attr, "stroke-width", formatFloat(width*math.Sqrt(math.Abs(c.view.Determinant()))))
	c.elements = append(c.elements, se)
}

func (c *Canvas) FillVertices(p paint.Pattern, alpha float64) {
	if c.points == "" || p == nil {
		return
	}
	se := c.shape(true)
	c.addPaint(&se, "fill", p, alpha)
	c.elements = append(c.elements, se)
}

// addPaint sets the attribute of the given kind ("fill" or "stroke")
// and its opacity, registering gradients in the definitions.
func (c *Canvas) addPaint(se *xml.StartElement, kind string, p paint.Pattern, alpha float64) {
	switch p := p.(type) {
	case paint.Color:
		addAttr(&se.Attr, kind, rgb(p))
		alpha *= float64(p.A) / 0xff
	case paint.Gradient:
		c.defs = append(c.defs, p)
		addAttr(&se.Attr, kind, fmt.Sprintf("url(#grad%d)", len(c.defs)))
	}
	if alpha != 1 {
		addAttr(&se.Attr, kind+"-opacity", formatFloat(alpha))
	}
}

// Output writes the SVG document to w.
func (c *Canvas) Output(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(bw)
	enc.Indent("", "  ")

	root := xml.StartElement{Name: xml.Name{Local: "svg"}}
	addAttr(&root.Attr, "xmlns", "http://www.w3.org/2000/svg")
	addAttr(&root.Attr, "width", formatFloat(c.width))
	addAttr(&root.Attr, "height", formatFloat(c.height))
	addAttr(&root.Attr, "viewBox", fmt.Sprintf("0 0 %s %s", formatFloat(c.width), formatFloat(c.height)))
	if err := enc.EncodeToken(root); err != nil {
		return err
	}
	if c.title != "" {
		if err := enc.EncodeElement(c.title, xml.StartElement{Name: xml.Name{Local: "title"}}); err != nil {
			return err
		}
	}
	if len(c.defs) != 0 {
		if err := c.writeDefs(enc); err != nil {
			return err
		}
	}
	for _, se := range c.elements {
		if err := writeEmpty(enc, se); err != nil {
			return err
		}
	}
	if err := enc.EncodeToken(root.End()); err != nil {
		return err
	}
	if err := enc.Flush(); err != nil {
		return err
	}
	return bw.Flush()
}

func (c *Canvas) writeDefs(enc *xml.Encoder) error {
	defs := xml.StartElement{Name: xml.Name{Local: "defs"}}
	if err := enc.EncodeToken(defs); err != nil {
		return err
	}
	for i, g := range c.defs {
		me := xml.StartElement{}
		addAttr(&me.Attr, "id", fmt.Sprintf("grad%d", i+1))
		switch dir := g.Direction.(type) {
		case paint.Linear:
			me.Name.Local = "linearGradient"
			for j, name := range [...]string{"x1", "y1", "x2", "y2"} {
				addAttr(&me.Attr, name, formatFloat(dir[j]))
			}
		case paint.Radial:
			me.Name.Local = "radialGradient"
			for j, name := range [...]string{"cx", "cy", "fx", "fy", "r", "fr"} {
				addAttr(&me.Attr, name, formatFloat(dir[j]))
			}
		default:
			continue
		}
		// pad is default
		if g.Spread != paint.PadSpread {
			addAttr(&me.Attr, "spreadMethod", g.Spread.String())
		}
		if err := enc.EncodeToken(me); err != nil {
			return err
		}
		for _, s := range g.Stops {
			se := xml.StartElement{Name: xml.Name{Local: "stop"}}
			addAttr(&se.Attr, "offset", formatFloat(s.Offset))
			addAttr(&se.Attr, "stop-color", rgb(s.Color))
			addAttr(&se.Attr, "stop-opacity", formatFloat(s.Opacity*float64(s.Color.A)/0xff))
			if err := writeEmpty(enc, se); err != nil {
				return err
			}
		}
		if err := enc.EncodeToken(me.End()); err != nil {
			return err
		}
	}
	return enc.EncodeToken(defs.End())
}

func writeEmpty(enc *xml.Encoder, se xml.StartElement) error {
	if err := enc.EncodeToken(se); err != nil {
		return err
	}
	return enc.EncodeToken(se.End())
}

func addAttr(attr *[]xml.Attr, name, val string) {
	*attr = append(*attr, xml.Attr{Name: xml.Name{Local: name}, Value: val})
}

func rgb(c paint.Color) string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'g', 6, 64) }
