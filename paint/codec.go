package paint

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// ErrInvalidPattern is returned when a persisted pattern can't be decoded.
var ErrInvalidPattern = errors.New("invalid pattern")

// Serialize returns the stable persisted form of p:
//
//	#rrggbb or #rrggbbaa for colors
//	linear x1,y1,x2,y2 <spread> <offset>:<color>:<opacity>...
//	radial cx,cy,fx,fy,r,fr <spread> <offset>:<color>:<opacity>...
//
// A nil pattern is serialized as the empty string.
func Serialize(p Pattern) string {
	switch p := p.(type) {
	case Color:
		return hexColor(p)
	case Gradient:
		var chunks []string
		switch dir := p.Direction.(type) {
		case Linear:
			chunks = append(chunks, "linear", joinFloats(dir[:]))
		case Radial:
			chunks = append(chunks, "radial", joinFloats(dir[:]))
		default:
			return ""
		}
		chunks = append(chunks, p.Spread.String())
		for _, s := range p.Stops {
			chunks = append(chunks, formatFloat(s.Offset)+":"+hexColor(s.Color)+":"+formatFloat(s.Opacity))
		}
		return strings.Join(chunks, " ")
	}
	return ""
}

// Deserialize reads back the output of Serialize.
// The empty string gives a nil pattern.
func Deserialize(s string) (Pattern, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if strings.HasPrefix(s, "#") {
		return parseHex(s)
	}
	fields := strings.Fields(s)
	if len(fields) < 3 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, s)
	}
	coords, err := splitFloats(fields[1])
	if err != nil {
		return nil, err
	}
	var g Gradient
	switch fields[0] {
	case "linear":
		if len(coords) != 4 {
			return nil, fmt.Errorf("%w: linear gradient needs 4 coordinates", ErrInvalidPattern)
		}
		g.Direction = Linear{coords[0], coords[1], coords[2], coords[3]}
	case "radial":
		if len(coords) != 6 {
			return nil, fmt.Errorf("%w: radial gradient needs 6 coordinates", ErrInvalidPattern)
		}
		g.Direction = Radial{coords[0], coords[1], coords[2], coords[3], coords[4], coords[5]}
	default:
		return nil, fmt.Errorf("%w: unknown gradient %q", ErrInvalidPattern, fields[0])
	}
	switch fields[2] {
	case "pad":
		g.Spread = PadSpread
	case "reflect":
		g.Spread = ReflectSpread
	case "repeat":
		g.Spread = RepeatSpread
	default:
		return nil, fmt.Errorf("%w: unknown spread %q", ErrInvalidPattern, fields[2])
	}
	for _, f := range fields[3:] {
		parts := strings.Split(f, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("%w: invalid stop %q", ErrInvalidPattern, f)
		}
		var (
			stop GradStop
			err  error
		)
		if stop.Offset, err = strconv.ParseFloat(parts[0], 64); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidPattern, err)
		}
		if stop.Color, err = parseHex(parts[1]); err != nil {
			return nil, err
		}
		if stop.Opacity, err = strconv.ParseFloat(parts[2], 64); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidPattern, err)
		}
		g.Stops = append(g.Stops, stop)
	}
	return g, nil
}

// ParseSVGColor parses the color notations accepted in SVG attributes:
// #rgb, #rrggbb, rgb(r,g,b) and color keywords.
// "none" returns a nil pattern.
func ParseSVGColor(s string) (Pattern, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "none" || s == "":
		return nil, nil
	case strings.HasPrefix(s, "#") && len(s) == 4:
		return parseHex("#" + strings.Repeat(s[1:2], 2) + strings.Repeat(s[2:3], 2) + strings.Repeat(s[3:4], 2))
	case strings.HasPrefix(s, "#"):
		return parseHex(s)
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		vs := strings.FieldsFunc(s[4:len(s)-1], func(r rune) bool { return r == ',' || r == ' ' })
		if len(vs) != 3 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, s)
		}
		var c [3]uint8
		for i, v := range vs {
			var (
				f   float64
				err error
			)
			if strings.HasSuffix(v, "%") {
				f, err = strconv.ParseFloat(strings.TrimSuffix(v, "%"), 64)
				f = f * 255 / 100
			} else {
				f, err = strconv.ParseFloat(v, 64)
			}
			if err != nil {
				return nil, fmt.Errorf("%w: %s", ErrInvalidPattern, err)
			}
			c[i] = clampByte(f)
		}
		return NewColor(c[0], c[1], c[2]), nil
	}
	named, ok := colornames.Map[s]
	if !ok {
		return nil, fmt.Errorf("%w: unknown color %q", ErrInvalidPattern, s)
	}
	return Color{R: named.R, G: named.G, B: named.B, A: named.A}, nil
}

func clampByte(f float64) uint8 {
	switch {
	case f < 0:
		return 0
	case f > 255:
		return 255
	}
	return uint8(f + 0.5)
}

func hexColor(c Color) string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

func parseHex(s string) (Color, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) != 6 && len(h) != 8 {
		return Color{}, fmt.Errorf("%w: bad hex color %q", ErrInvalidPattern, s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%w: bad hex color %q", ErrInvalidPattern, s)
	}
	if len(h) == 6 {
		return NewColor(uint8(v>>16), uint8(v>>8), uint8(v)), nil
	}
	return Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }

func joinFloats(fs []float64) string {
	chunks := make([]string, len(fs))
	for i, f := range fs {
		chunks[i] = formatFloat(f)
	}
	return strings.Join(chunks, ",")
}

func splitFloats(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, len(parts))
	for i, p := range parts {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidPattern, err)
		}
		out[i] = f
	}
	return out, nil
}
