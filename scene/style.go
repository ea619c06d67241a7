package scene

import (
	"fmt"
	"math"

	"github.com/benoitkugler/okscene/paint"
)

// Style property keys.
const (
	StyleOpacity = "opc"  // visual
	StyleVisible = "vis"  // visual
	StyleName    = "name" // meta
)

// Stroke paint property keys.
const (
	StrokePattern   = "pat" // visual
	StrokeWidth     = "sw"  // geometry: widens the paint bounds
	StrokeAlignment = "sa"  // geometry, one of the Align constants
)

// Stroke alignments, relative to the outline of the shape.
const (
	AlignCenter  = "center"
	AlignInside  = "inside"
	AlignOutside = "outside"
)

var (
	styleSetProperties = newPropertySet()
	styleProperties    = newPropertySet(
		PropertyDef{Key: StyleOpacity, Group: Visual, Type: NumberValue, Default: 1.0},
		PropertyDef{Key: StyleVisible, Group: Visual, Type: BoolValue, Default: true},
		PropertyDef{Key: StyleName, Group: Meta, Type: StringValue, Default: ""},
	)
	strokePaintProperties = newPropertySet(
		PropertyDef{Key: StrokePattern, Group: Visual, Type: PatternValue, Default: paint.NewColor(0, 0, 0)},
		PropertyDef{Key: StrokeWidth, Group: Geometry, Type: NumberValue, Default: 1.0},
		PropertyDef{Key: StrokeAlignment, Group: Geometry, Type: StringValue, Default: AlignCenter,
			OneOf: []string{AlignCenter, AlignInside, AlignOutside}},
	)
)

// styleSetKind holds the styles of a shape. Every shape owns exactly one.
type styleSetKind struct{}

func (styleSetKind) Properties() *PropertySet { return styleSetProperties }

func (styleSetKind) ValidateInsertion(parent Node, _ NodeID) bool {
	return parent.Kind() == KindRectangle && parent.t.styleSet(parent.id) == NoNode
}

func (styleSetKind) HandleChange(n Node, ev *Event) error { return DefaultHandleChange(n, ev) }

// styleKind is an ordered list of decorations, with a common opacity.
type styleKind struct{}

func (styleKind) Properties() *PropertySet { return styleProperties }

func (styleKind) ValidateInsertion(parent Node, _ NodeID) bool {
	return parent.Kind() == KindStyleSet
}

// HandleChange also invalidates the paint bounds of the shape when the
// style is shown or hidden.
func (styleKind) HandleChange(n Node, ev *Event) error {
	if err := DefaultHandleChange(n, ev); err != nil {
		return err
	}
	if _, ok := ev.Changed(StyleVisible); ok {
		area := n.t.repaintArea(n.id)
		n.t.invalidateGeometry(n.id)
		n.t.deliver(n.id, &Event{Kind: NoticeGeometry, Source: n.id, Area: area})
	}
	return nil
}

// strokePaintKind strokes the outline of the shape owning its style.
type strokePaintKind struct{}

func (strokePaintKind) Properties() *PropertySet { return strokePaintProperties }

func (strokePaintKind) ValidateInsertion(parent Node, _ NodeID) bool {
	return parent.Kind() == KindStyle
}

func (strokePaintKind) HandleChange(n Node, ev *Event) error { return DefaultHandleChange(n, ev) }

// stroke is the resolved form of a visible stroke paint.
type stroke struct {
	pattern paint.Pattern // nil strokes take room but are not painted
	width   float64
	align   string
}

// offset returns how far the stroke center lies outside the shape outline.
func (s stroke) offset() float64 {
	switch s.align {
	case AlignInside:
		return -s.width / 2
	case AlignOutside:
		return s.width / 2
	default:
		return 0
	}
}

// extent returns how far the stroke paints outside the shape outline.
func (s stroke) extent() float64 { return math.Max(0, s.offset()+s.width/2) }

// strokes lists the visible strokes of a shape, in painting order,
// with the style opacity applied.
func strokes(shape Node) []stroke {
	t := shape.t
	set := t.styleSet(shape.id)
	if set == NoNode {
		return nil
	}
	var out []stroke
	for _, sid := range t.nodes[set].children {
		style := t.Node(sid)
		if !style.Bool(StyleVisible) {
			continue
		}
		opacity := style.Float(StyleOpacity)
		for _, pid := range t.nodes[sid].children {
			sp := t.Node(pid)
			if sp.Kind() != KindStrokePaint {
				continue
			}
			if sp.Float(StrokeWidth) <= 0 {
				continue
			}
			pat, _ := sp.Value(StrokePattern).(paint.Pattern)
			if pat != nil {
				pat = paint.WithOpacity(pat, opacity)
			}
			out = append(out, stroke{
				pattern: pat,
				width:   sp.Float(StrokeWidth),
				align:   sp.Text(StrokeAlignment),
			})
		}
	}
	return out
}

// AddStyle appends a new style to the style set of shape.
func (t *Tree) AddStyle(shape NodeID) (NodeID, error) {
	if !t.valid(shape) {
		return NoNode, fmt.Errorf("%w: %d", ErrUnknownNode, shape)
	}
	set := t.styleSet(shape)
	if set == NoNode {
		return NoNode, fmt.Errorf("%w: %s has no style set", ErrUnsupported, t.nodes[shape].kind)
	}
	style := t.New(KindStyle)
	if err := t.Append(set, style); err != nil {
		_ = t.Destroy(style)
		return NoNode, err
	}
	return style, nil
}

// AddStrokePaint appends a stroke decoration to style.
func (t *Tree) AddStrokePaint(style NodeID, width float64, align string, p paint.Pattern) (NodeID, error) {
	sp := t.New(KindStrokePaint)
	if err := t.SetProperties(sp, []string{StrokeWidth, StrokeAlignment, StrokePattern}, []any{width, align, p}); err != nil {
		_ = t.Destroy(sp)
		return NoNode, err
	}
	if err := t.Append(style, sp); err != nil {
		_ = t.Destroy(sp)
		return NoNode, err
	}
	return sp, nil
}
