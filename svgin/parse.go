// Package svgin imports the rectangles of an SVG image into a scene.
//
// Only a subset of SVG is supported: the svg root, groups, which become
// layers, rectangles, and the linear and radial gradients they reference.
// Other elements are skipped or rejected according to the ErrorMode.
package svgin

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/benoitkugler/okscene/geom"
	"github.com/benoitkugler/okscene/paint"
	"github.com/benoitkugler/okscene/scene"
	"golang.org/x/net/html/charset"
)

var errInvalidSVG = errors.New("invalid svg xml document")

// cursor is used while parsing SVG files
type cursor struct {
	tree      *scene.Tree
	root      scene.NodeID
	errorMode scene.ErrorMode

	styleStack   []pathStyle
	parentStack  []scene.NodeID // container receiving the new nodes
	grads        map[string]*paint.Gradient
	grad         *paint.Gradient // gradient being read
	inTitle      bool
	inGrad       bool
	inDefs       int // depth of nested defs
	title        strings.Builder
	rectangles   int
	skippedElems int
}

// unsupported reports an element or attribute that can't be imported.
func (c *cursor) unsupported(what string) error {
	switch c.errorMode {
	case scene.StrictErrorMode:
		return fmt.Errorf("svg: unsupported %s", what)
	case scene.WarnErrorMode:
		scene.Logger().Warn("svg: skipping unsupported content", "what", what)
	}
	c.skippedElems++
	return nil
}

// pushStyle parses the style attribute and the presentation attributes,
// and pushes the resulting style on the stack.
func (c *cursor) pushStyle(attrs []xml.Attr) error {
	var pairs []string
	for _, attr := range attrs {
		switch strings.ToLower(attr.Name.Local) {
		case "style":
			pairs = append(pairs, strings.Split(attr.Value, ";")...)
		default:
			pairs = append(pairs, attr.Name.Local+":"+attr.Value)
		}
	}
	// Make a copy of the top style
	curStyle := c.styleStack[len(c.styleStack)-1]
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, ":")
		if !ok {
			continue
		}
		k = strings.ToLower(strings.TrimSpace(k))
		if err := c.readStyleAttr(&curStyle, k, strings.TrimSpace(v)); err != nil {
			return fmt.Errorf("svg: attribute %s: %w", k, err)
		}
	}
	c.styleStack = append(c.styleStack, curStyle) // Push style onto stack
	return nil
}

func (c *cursor) parent() scene.NodeID { return c.parentStack[len(c.parentStack)-1] }

func (c *cursor) readStartElement(se xml.StartElement) error {
	if c.inDefs > 0 && !c.inGrad && se.Name.Local != "linearGradient" && se.Name.Local != "radialGradient" {
		if se.Name.Local == "defs" {
			c.inDefs++
		}
		return nil // only gradients are read from defs
	}
	df, ok := drawFuncs[se.Name.Local]
	if !ok {
		return c.unsupported("element " + se.Name.Local)
	}
	return df(c, se.Attr)
}

type svgFunc func(c *cursor, attrs []xml.Attr) error

var drawFuncs map[string]svgFunc

func init() {
	drawFuncs = map[string]svgFunc{
		"svg":            svgF,
		"g":              gF,
		"rect":           rectF,
		"title":          titleF,
		"desc":           func(*cursor, []xml.Attr) error { return nil },
		"defs":           defsF,
		"linearGradient": linearGradientF,
		"radialGradient": radialGradientF,
		"stop":           stopF,
	}
}

func svgF(c *cursor, attrs []xml.Attr) error {
	var (
		viewBox       []float64
		width, height float64
		err           error
	)
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "viewBox":
			viewBox, err = parseFloats(attr.Value)
			if err == nil && len(viewBox) != 4 {
				err = errParamMismatch
			}
		case "width":
			width, err = parseFloat(attr.Value)
		case "height":
			height, err = parseFloat(attr.Value)
		}
		if err != nil {
			return err
		}
	}
	// map the view box onto the width and height, when both are given
	if len(viewBox) == 4 && viewBox[2] > 0 && viewBox[3] > 0 && width > 0 && height > 0 {
		top := &c.styleStack[len(c.styleStack)-1]
		top.transform = geom.Translation(-viewBox[0], -viewBox[1]).
			Multiplied(geom.Scaling(width/viewBox[2], height/viewBox[3])).
			Multiplied(top.transform)
	}
	return nil
}

// gF creates a layer named after the group id.
func gF(c *cursor, attrs []xml.Attr) error {
	layer := c.tree.New(scene.KindLayer)
	for _, attr := range attrs {
		if attr.Name.Local == "id" || attr.Name.Local == "label" {
			if err := c.tree.SetProperty(layer, scene.LayerName, attr.Value); err != nil {
				return err
			}
		}
	}
	if err := c.tree.Append(c.parent(), layer); err != nil {
		return err
	}
	c.parentStack[len(c.parentStack)-1] = layer
	return nil
}

func rectF(c *cursor, attrs []xml.Attr) error {
	var x, y, w, h float64
	var err error
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "x":
			x, err = parseFloat(attr.Value)
		case "y":
			y, err = parseFloat(attr.Value)
		case "width":
			w, err = parseFloat(attr.Value)
		case "height":
			h, err = parseFloat(attr.Value)
		case "rx", "ry":
			err = c.unsupported("rounded corners")
		}
		if err != nil {
			return err
		}
	}
	if w <= 0 || h <= 0 { // not drawn, but not an error
		return nil
	}
	style := c.styleStack[len(c.styleStack)-1]
	// the unit square centered on the origin, onto the rectangle
	local := geom.Scaling(w/2, h/2).Translate(x+w/2, y+h/2).Multiplied(style.transform)

	rect := c.tree.New(scene.KindRectangle)
	var fill paint.Pattern
	if style.fill != nil {
		fill = paint.WithOpacity(style.fill, style.fillOpacity)
	}
	if err := c.tree.SetTransform(rect, &local); err != nil {
		return err
	}
	if err := c.tree.SetProperty(rect, scene.RectangleFill, fill); err != nil {
		return err
	}
	if style.stroke != nil && style.lineWidth > 0 {
		st, err := c.tree.AddStyle(rect)
		if err != nil {
			return err
		}
		if err := c.tree.SetProperty(st, scene.StyleOpacity, style.lineOpacity); err != nil {
			return err
		}
		width := style.lineWidth * math.Sqrt(math.Abs(style.transform.Determinant()))
		if _, err := c.tree.AddStrokePaint(st, width, scene.AlignCenter, style.stroke); err != nil {
			return err
		}
	}
	c.rectangles++
	return c.tree.Append(c.parent(), rect)
}

func titleF(c *cursor, _ []xml.Attr) error {
	c.inTitle = true
	return nil
}

func defsF(c *cursor, _ []xml.Attr) error {
	c.inDefs++
	return nil
}

func linearGradientF(c *cursor, attrs []xml.Attr) error {
	var err error
	c.inGrad = true
	direction := paint.Linear{0, 0, 1, 0}
	c.grad = &paint.Gradient{}
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "id":
			c.grads[attr.Value] = c.grad
		case "x1":
			direction[0], err = readFraction(attr.Value)
		case "y1":
			direction[1], err = readFraction(attr.Value)
		case "x2":
			direction[2], err = readFraction(attr.Value)
		case "y2":
			direction[3], err = readFraction(attr.Value)
		default:
			err = c.readGradAttr(attr)
		}
		if err != nil {
			return err
		}
	}
	c.grad.Direction = direction
	return nil
}

func radialGradientF(c *cursor, attrs []xml.Attr) error {
	c.inGrad = true
	direction := paint.Radial{0.5, 0.5, 0.5, 0.5, 0.5, 0}
	c.grad = &paint.Gradient{}
	var setFx, setFy bool
	var err error
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "id":
			c.grads[attr.Value] = c.grad
		case "cx":
			direction[0], err = readFraction(attr.Value)
		case "cy":
			direction[1], err = readFraction(attr.Value)
		case "fx":
			setFx = true
			direction[2], err = readFraction(attr.Value)
		case "fy":
			setFy = true
			direction[3], err = readFraction(attr.Value)
		case "r":
			direction[4], err = readFraction(attr.Value)
		case "fr":
			direction[5], err = readFraction(attr.Value)
		default:
			err = c.readGradAttr(attr)
		}
		if err != nil {
			return err
		}
	}
	if !setFx { // set fx to cx by default
		direction[2] = direction[0]
	}
	if !setFy { // set fy to cy by default
		direction[3] = direction[1]
	}
	c.grad.Direction = direction
	return nil
}

func (c *cursor) readGradAttr(attr xml.Attr) error {
	switch attr.Name.Local {
	case "spreadMethod":
		switch attr.Value {
		case "pad":
			c.grad.Spread = paint.PadSpread
		case "reflect":
			c.grad.Spread = paint.ReflectSpread
		case "repeat":
			c.grad.Spread = paint.RepeatSpread
		}
	case "gradientUnits":
		if attr.Value == "userSpaceOnUse" {
			return c.unsupported("user space gradient units")
		}
	case "gradientTransform":
		return c.unsupported("gradient transform")
	}
	return nil
}

func stopF(c *cursor, attrs []xml.Attr) error {
	if !c.inGrad {
		return nil
	}
	stop := paint.GradStop{Opacity: 1.0, Color: paint.NewColor(0, 0, 0)}
	var err error
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "offset":
			stop.Offset, err = readFraction(attr.Value)
		case "stop-color":
			var p paint.Pattern
			p, err = paint.ParseSVGColor(attr.Value)
			if col, ok := p.(paint.Color); ok {
				stop.Color = col
			}
		case "stop-opacity":
			stop.Opacity, err = parseFloat(attr.Value)
		}
		if err != nil {
			return err
		}
	}
	c.grad.Stops = append(c.grad.Stops, stop)
	return nil
}

// Import reads an SVG document from stream into a new scene of tree,
// and returns the scene root. errMode determines if unsupported
// content is ignored, logged or rejected.
func Import(tree *scene.Tree, stream io.Reader, errMode scene.ErrorMode) (scene.NodeID, error) {
	root := tree.NewScene()
	c := &cursor{
		tree:        tree,
		root:        root,
		errorMode:   errMode,
		styleStack:  []pathStyle{defaultStyle},
		parentStack: []scene.NodeID{root},
		grads:       make(map[string]*paint.Gradient),
	}
	if err := c.read(stream); err != nil {
		_ = tree.Destroy(root)
		return scene.NoNode, err
	}
	if title := strings.TrimSpace(c.title.String()); title != "" {
		if err := tree.SetProperty(root, scene.SceneTitle, title); err != nil {
			return scene.NoNode, err
		}
	}
	scene.Logger().Debug("svg imported", "rectangles", c.rectangles, "skipped", c.skippedElems)
	return root, nil
}

func (c *cursor) read(stream io.Reader) error {
	decoder := xml.NewDecoder(stream)
	decoder.CharsetReader = charset.NewReaderLabel
	seenTag := false
	for {
		t, err := decoder.Token()
		if err != nil {
			if err == io.EOF {
				if !seenTag {
					return errInvalidSVG
				}
				return nil
			}
			return err
		}
		// Inspect the type of the XML token
		switch se := t.(type) {
		case xml.StartElement:
			if !seenTag && se.Name.Local != "svg" {
				return errInvalidSVG
			}
			seenTag = true
			// Reads all recognized style attributes from the start element
			// and places it on top of the styleStack
			if err = c.pushStyle(se.Attr); err != nil {
				return err
			}
			c.parentStack = append(c.parentStack, c.parent())
			if err = c.readStartElement(se); err != nil {
				return err
			}
		case xml.EndElement:
			// pop style
			c.styleStack = c.styleStack[:len(c.styleStack)-1]
			c.parentStack = c.parentStack[:len(c.parentStack)-1]
			switch se.Name.Local {
			case "title":
				c.inTitle = false
			case "defs":
				c.inDefs--
			case "radialGradient", "linearGradient":
				c.inGrad = false
			}
		case xml.CharData:
			if c.inTitle {
				c.title.Write(se)
			}
		}
	}
}

// ImportFile reads the named SVG file. See Import.
func ImportFile(tree *scene.Tree, file string, errMode scene.ErrorMode) (scene.NodeID, error) {
	f, err := os.Open(file)
	if err != nil {
		return scene.NoNode, err
	}
	defer f.Close()
	return Import(tree, f, errMode)
}
