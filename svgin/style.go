package svgin

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/benoitkugler/okscene/geom"
	"github.com/benoitkugler/okscene/paint"
)

var errParamMismatch = errors.New("svg: parameter mismatch")

// pathStyle holds the state of the SVG style, inherited by child elements.
type pathStyle struct {
	fillOpacity, lineOpacity float64
	lineWidth                float64
	fill, stroke             paint.Pattern // nil for none

	transform geom.Transform // maps the element coordinates to the document ones
}

// defaultStyle fills black, without stroke.
var defaultStyle = pathStyle{
	fillOpacity: 1,
	lineOpacity: 1,
	lineWidth:   1,
	fill:        paint.NewColor(0, 0, 0),
	transform:   geom.Identity,
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(s), "px"), 64)
}

// splitOnCommaOrSpace returns a list of strings after splitting the input on comma and space delimiters
func splitOnCommaOrSpace(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}

func parseFloats(s string) ([]float64, error) {
	fields := splitOnCommaOrSpace(s)
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := parseFloat(f)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func readFraction(v string) (float64, error) {
	v = strings.TrimSpace(v)
	d := 1.0
	if strings.HasSuffix(v, "%") {
		d = 100
		v = strings.TrimSuffix(v, "%")
	}
	f, err := parseFloat(v)
	return f / d, err
}

// readTransformAttr returns the transform applying the operation k
// with parameters ps, then m: operations listed first apply last.
func readTransformAttr(m geom.Transform, k string, ps []float64) (geom.Transform, error) {
	var op geom.Transform
	switch ln := len(ps); k {
	case "rotate":
		switch ln {
		case 1:
			op = geom.Rotation(ps[0] * math.Pi / 180)
		case 3:
			op = geom.Translation(-ps[1], -ps[2]).
				Multiplied(geom.Rotation(ps[0] * math.Pi / 180)).
				Multiplied(geom.Translation(ps[1], ps[2]))
		default:
			return m, errParamMismatch
		}
	case "translate":
		switch ln {
		case 1:
			op = geom.Translation(ps[0], 0)
		case 2:
			op = geom.Translation(ps[0], ps[1])
		default:
			return m, errParamMismatch
		}
	case "skewx":
		if ln != 1 {
			return m, errParamMismatch
		}
		op = geom.Shearing(math.Tan(ps[0]*math.Pi/180), 0)
	case "skewy":
		if ln != 1 {
			return m, errParamMismatch
		}
		op = geom.Shearing(0, math.Tan(ps[0]*math.Pi/180))
	case "scale":
		switch ln {
		case 1:
			op = geom.Scaling(ps[0], ps[0])
		case 2:
			op = geom.Scaling(ps[0], ps[1])
		default:
			return m, errParamMismatch
		}
	case "matrix":
		if ln != 6 {
			return m, errParamMismatch
		}
		op = geom.NewTransform(ps[0], ps[1], ps[2], ps[3], ps[4], ps[5])
	default:
		return m, errParamMismatch
	}
	return op.Multiplied(m), nil
}

// parseTransform reads a transform list. The operations are applied
// right to left, then parent.
func parseTransform(parent geom.Transform, v string) (geom.Transform, error) {
	m := geom.Identity
	for _, t := range strings.Split(v, ")") {
		t = strings.Trim(t, ", \t\n")
		if len(t) == 0 {
			continue
		}
		d := strings.Split(t, "(")
		if len(d) != 2 || len(d[1]) < 1 {
			return parent, errParamMismatch // badly formed transformation
		}
		ps, err := parseFloats(d[1])
		if err != nil {
			return parent, err
		}
		m, err = readTransformAttr(m, strings.ToLower(strings.TrimSpace(d[0])), ps)
		if err != nil {
			return parent, err
		}
	}
	return m.Multiplied(parent), nil
}

// readPattern parses a fill or stroke value. ok is false when the value
// is skipped, leaving the inherited pattern.
func (c *cursor) readPattern(v string) (p paint.Pattern, ok bool, err error) {
	if strings.HasPrefix(v, "url(") {
		id := strings.TrimSuffix(strings.TrimPrefix(strings.TrimPrefix(v, "url("), "#"), ")")
		if g, ok := c.grads[id]; ok {
			return *g, true, nil
		}
		return nil, false, c.unsupported("gradient reference " + v)
	}
	p, err = paint.ParseSVGColor(v)
	if errors.Is(err, paint.ErrInvalidPattern) { // currentColor, inherit...
		return nil, false, c.unsupported("paint " + v)
	}
	return p, err == nil, err
}

func (c *cursor) readStyleAttr(curStyle *pathStyle, k, v string) error {
	switch k {
	case "fill":
		p, ok, err := c.readPattern(v)
		if err != nil {
			return err
		}
		if ok {
			curStyle.fill = p
		}
	case "stroke":
		p, ok, err := c.readPattern(v)
		if err != nil {
			return err
		}
		if ok {
			curStyle.stroke = p
		}
	case "stroke-width":
		width, err := parseFloat(v)
		if err != nil {
			return err
		}
		curStyle.lineWidth = width
	case "opacity", "stroke-opacity", "fill-opacity":
		op, err := parseFloat(v)
		if err != nil {
			return err
		}
		if k != "stroke-opacity" {
			curStyle.fillOpacity *= op
		}
		if k != "fill-opacity" {
			curStyle.lineOpacity *= op
		}
	case "transform":
		m, err := parseTransform(curStyle.transform, v)
		if err != nil {
			return err
		}
		curStyle.transform = m
	}
	return nil
}
