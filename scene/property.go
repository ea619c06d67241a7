package scene

import (
	"fmt"

	"github.com/benoitkugler/okscene/geom"
	"github.com/benoitkugler/okscene/paint"
)

// Group is the semantic group of a property, which selects
// the invalidation triggered when it changes.
type Group uint8

const (
	// Visual properties only affect appearance.
	Visual Group = iota
	// Geometry properties affect the shape and the bounds.
	Geometry
	// Meta properties are behavioural flags.
	Meta
)

func (g Group) String() string {
	switch g {
	case Visual:
		return "visual"
	case Geometry:
		return "geometry"
	case Meta:
		return "meta"
	default:
		return "<unknown Group>"
	}
}

// ValueType is the type of the values accepted by a property.
type ValueType uint8

const (
	BoolValue      ValueType = iota // bool
	NumberValue                     // float64, other numeric types are converted
	StringValue                     // string
	TransformValue                  // geom.Transform, nil for none
	PatternValue                    // paint.Pattern, nil for none
)

func (v ValueType) String() string {
	switch v {
	case BoolValue:
		return "bool"
	case NumberValue:
		return "number"
	case StringValue:
		return "string"
	case TransformValue:
		return "transform"
	case PatternValue:
		return "pattern"
	default:
		return "<unknown ValueType>"
	}
}

// Codec maps in-memory property values to their persisted scalar form.
type Codec interface {
	Encode(v any) (any, error)
	Decode(v any) (any, error)
}

type scalarCodec struct{ typ ValueType }

func (c scalarCodec) Encode(v any) (any, error) { return v, nil }

func (c scalarCodec) Decode(v any) (any, error) { return normalize(c.typ, v) }

type transformCodec struct{}

func (transformCodec) Encode(v any) (any, error) {
	if v == nil {
		return "", nil
	}
	return v.(geom.Transform).String(), nil
}

func (transformCodec) Decode(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("%w: transform must be persisted as a string, got %T", ErrInvalidValue, v)
	}
	if s == "" {
		return nil, nil
	}
	return geom.ParseTransform(s)
}

type patternCodec struct{}

func (patternCodec) Encode(v any) (any, error) {
	if v == nil {
		return "", nil
	}
	return paint.Serialize(v.(paint.Pattern)), nil
}

func (patternCodec) Decode(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("%w: pattern must be persisted as a string, got %T", ErrInvalidValue, v)
	}
	p, err := paint.Deserialize(s)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}
	return p, nil
}

// PropertyDef declares one property of a node kind.
type PropertyDef struct {
	Key     string
	Group   Group
	Type    ValueType
	Default any

	// OneOf restricts string values, when not empty
	OneOf []string
	// Codec overrides the codec derived from Type
	Codec Codec
}

func (d PropertyDef) codec() Codec {
	if d.Codec != nil {
		return d.Codec
	}
	switch d.Type {
	case TransformValue:
		return transformCodec{}
	case PatternValue:
		return patternCodec{}
	default:
		return scalarCodec{d.Type}
	}
}

// check normalizes v, or returns ErrInvalidValue.
func (d PropertyDef) check(v any) (any, error) {
	out, err := normalize(d.Type, v)
	if err != nil {
		return nil, fmt.Errorf("property %q: %w", d.Key, err)
	}
	if len(d.OneOf) != 0 {
		s := out.(string)
		for _, allowed := range d.OneOf {
			if s == allowed {
				return out, nil
			}
		}
		return nil, fmt.Errorf("property %q: %w: %q not in %v", d.Key, ErrInvalidValue, s, d.OneOf)
	}
	return out, nil
}

func normalize(typ ValueType, v any) (any, error) {
	switch typ {
	case BoolValue:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case NumberValue:
		switch n := v.(type) {
		case float64:
			return n, nil
		case float32:
			return float64(n), nil
		case int:
			return float64(n), nil
		case int32:
			return float64(n), nil
		case int64:
			return float64(n), nil
		}
	case StringValue:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case TransformValue:
		switch tr := v.(type) {
		case nil:
			return nil, nil
		case geom.Transform:
			return tr, nil
		case *geom.Transform:
			if tr == nil {
				return nil, nil
			}
			return *tr, nil
		}
	case PatternValue:
		switch p := v.(type) {
		case nil:
			return nil, nil
		case paint.Color:
			return p, nil
		case paint.Gradient:
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: expected %s, got %T", ErrInvalidValue, typ, v)
}

// equal compares two normalized values of type typ.
func equal(typ ValueType, a, b any) bool {
	switch typ {
	case TransformValue:
		if a == nil || b == nil {
			return a == nil && b == nil
		}
		return a.(geom.Transform).Equal(b.(geom.Transform))
	case PatternValue:
		pa, _ := a.(paint.Pattern)
		pb, _ := b.(paint.Pattern)
		return paint.Equal(pa, pb)
	default:
		return a == b
	}
}

// PropertySet is the immutable table of the properties of a node kind,
// shared by every node of that kind.
type PropertySet struct {
	defs  []PropertyDef
	index map[string]int
}

func newPropertySet(defs ...PropertyDef) *PropertySet {
	ps := &PropertySet{defs: defs, index: make(map[string]int, len(defs))}
	for i, d := range defs {
		if _, dup := ps.index[d.Key]; dup {
			panic("duplicate property " + d.Key)
		}
		if _, err := d.check(d.Default); err != nil {
			panic(err)
		}
		ps.index[d.Key] = i
	}
	return ps
}

// Lookup returns the definition of key.
func (ps *PropertySet) Lookup(key string) (PropertyDef, bool) {
	i, ok := ps.index[key]
	if !ok {
		return PropertyDef{}, false
	}
	return ps.defs[i], true
}

// Default returns the default value of key, or nil for an unknown key.
func (ps *PropertySet) Default(key string) any {
	d, _ := ps.Lookup(key)
	return d.Default
}

// Keys returns the keys of the given group, in declaration order.
func (ps *PropertySet) Keys(g Group) []string {
	var out []string
	for _, d := range ps.defs {
		if d.Group == g {
			out = append(out, d.Key)
		}
	}
	return out
}

// Len returns the number of properties.
func (ps *PropertySet) Len() int { return len(ps.defs) }

// PropertyDelta records the change of one property.
type PropertyDelta struct {
	Key      string
	Old, New any
}

// Property returns the value of key on the node: the value explicitly set,
// or the default of its group.
func (t *Tree) Property(id NodeID, key string) (any, error) {
	n, err := t.node(id)
	if err != nil {
		return nil, err
	}
	def, ok := n.kind.Properties().Lookup(key)
	if !ok {
		return nil, fmt.Errorf("%w: %q on %s", ErrInvalidKey, key, n.kind)
	}
	if v, ok := n.values[key]; ok {
		return v, nil
	}
	return def.Default, nil
}

// value is Property without checks, for keys known to exist.
func (t *Tree) value(id NodeID, key string) any {
	n := &t.nodes[id]
	if v, ok := n.values[key]; ok {
		return v
	}
	return n.kind.Properties().Default(key)
}

// SetProperty sets one property. See SetProperties.
func (t *Tree) SetProperty(id NodeID, key string, value any) error {
	return t.SetProperties(id, []string{key}, []any{value})
}

// SetProperties validates every key and value, then stores the values
// differing from the current ones and raises a single PropertyChange event
// listing them. Nothing is written if one key or value is invalid.
// Setting a property back to its default removes the explicit value.
func (t *Tree) SetProperties(id NodeID, keys []string, values []any) error {
	n, err := t.node(id)
	if err != nil {
		return err
	}
	if len(keys) != len(values) {
		return fmt.Errorf("%w: %d keys for %d values", ErrInvalidValue, len(keys), len(values))
	}
	props := n.kind.Properties()
	checked := make([]any, len(values))
	for i, key := range keys {
		def, ok := props.Lookup(key)
		if !ok {
			return fmt.Errorf("%w: %q on %s", ErrInvalidKey, key, n.kind)
		}
		if checked[i], err = def.check(values[i]); err != nil {
			return err
		}
	}

	var deltas []PropertyDelta
	for i, key := range keys {
		def, _ := props.Lookup(key)
		old := t.value(id, key)
		if equal(def.Type, old, checked[i]) {
			continue
		}
		if equal(def.Type, def.Default, checked[i]) {
			delete(n.values, key)
		} else {
			if n.values == nil {
				n.values = make(map[string]any)
			}
			n.values[key] = checked[i]
		}
		deltas = append(deltas, PropertyDelta{Key: key, Old: old, New: checked[i]})
	}
	if len(deltas) == 0 {
		return nil
	}
	n.modified = true
	return t.raise(id, &Event{Kind: ChangeProperty, Source: id, Changes: deltas})
}
