package scene

import (
	"slices"

	"github.com/benoitkugler/okscene/geom"
)

// ChangeKind tags an Event.
type ChangeKind uint8

const (
	// ChangeProperty is raised when properties of the node changed.
	ChangeProperty ChangeKind = iota
	// ChangeStore is raised to collect the persisted form of the node.
	ChangeStore
	// ChangeRestore is raised to load a persisted form into the node.
	ChangeRestore
	// ChangeInsertChild is raised on a parent after a child was inserted.
	ChangeInsertChild
	// ChangeRemoveChild is raised on a parent after a child was removed.
	ChangeRemoveChild

	// NoticeGeometry signals that the bounds of the node were invalidated.
	NoticeGeometry
	// NoticeRepaint signals that Area must be repainted, bounds unchanged.
	NoticeRepaint
)

func (c ChangeKind) String() string {
	switch c {
	case ChangeProperty:
		return "PropertyChange"
	case ChangeStore:
		return "Store"
	case ChangeRestore:
		return "Restore"
	case ChangeInsertChild:
		return "InsertChild"
	case ChangeRemoveChild:
		return "RemoveChild"
	case NoticeGeometry:
		return "GeometryNotice"
	case NoticeRepaint:
		return "RepaintNotice"
	default:
		return "<unknown ChangeKind>"
	}
}

// Event describes a change of a node. Events are delivered synchronously
// and are never persisted.
type Event struct {
	Kind   ChangeKind
	Source NodeID // the node whose state changed

	Changes []PropertyDelta // ChangeProperty
	Blob    Blob            // ChangeStore, ChangeRestore
	Child   NodeID          // ChangeInsertChild, ChangeRemoveChild
	Area    geom.Rect       // NoticeGeometry, NoticeRepaint: paint bounds before the change
}

// Changed returns the delta of key, if present.
func (ev *Event) Changed(key string) (PropertyDelta, bool) {
	for _, d := range ev.Changes {
		if d.Key == key {
			return d, true
		}
	}
	return PropertyDelta{}, false
}

// touches reports whether a property of the given group changed.
func (ev *Event) touches(props *PropertySet, g Group) bool {
	if ev.Kind != ChangeProperty {
		return false
	}
	for _, d := range ev.Changes {
		if def, _ := props.Lookup(d.Key); def.Group == g {
			return true
		}
	}
	return false
}

// Listener receives the events raised on a node or on its descendants.
type Listener func(ev Event)

type listener struct{ fn Listener }

// Listen registers fn for the events raised on id and on every node
// below it. The returned function unregisters it.
func (t *Tree) Listen(id NodeID, fn Listener) (cancel func()) {
	if !t.valid(id) {
		return func() {}
	}
	l := &listener{fn: fn}
	t.listeners[id] = append(t.listeners[id], l)
	return func() {
		t.listeners[id] = slices.DeleteFunc(t.listeners[id], func(o *listener) bool { return o == l })
		if len(t.listeners[id]) == 0 {
			delete(t.listeners, id)
		}
	}
}

// raise lets the node kind handle ev, then delivers it upward.
func (t *Tree) raise(id NodeID, ev *Event) error {
	n := t.Node(id)
	if err := n.Kind().Behavior().HandleChange(n, ev); err != nil {
		return err
	}
	t.deliver(id, ev)
	return nil
}

// deliver calls the listeners of id and of its ancestors, child first.
func (t *Tree) deliver(id NodeID, ev *Event) {
	for p := id; t.valid(p); p = t.nodes[p].parent {
		for _, l := range slices.Clone(t.listeners[p]) {
			l.fn(*ev)
		}
	}
}

// DefaultHandleChange is the change handler shared by the node kinds.
// It runs, in order:
//   - the persistence hook, for Store and Restore events,
//   - the geometry hook: when a geometry property changed or the node was
//     restored, the cached bounds of the node and of its ancestors are
//     cleared and a GeometryNotice is delivered,
//   - the visual hook: when a visual property changed or the node was
//     restored, a RepaintNotice is delivered, without touching the bounds.
//
// Both notices carry the paint bounds computed before the invalidation:
// the new bounds are available from the node once the notice is received.
func DefaultHandleChange(n Node, ev *Event) error {
	props := n.Kind().Properties()
	switch ev.Kind {
	case ChangeStore:
		if err := storeProperties(n, ev.Blob); err != nil {
			return err
		}
	case ChangeRestore:
		if err := restoreProperties(n, ev.Blob); err != nil {
			return err
		}
	}
	t := n.t
	geometry := ev.Kind == ChangeRestore || ev.touches(props, Geometry)
	visual := ev.Kind == ChangeRestore || ev.touches(props, Visual)
	if !geometry && !visual {
		return nil
	}
	// the area covered before the change, while the caches are still valid
	area := t.repaintArea(n.id)
	if geometry {
		t.invalidateGeometry(n.id)
		t.deliver(n.id, &Event{Kind: NoticeGeometry, Source: n.id, Area: area})
	}
	if visual {
		t.deliver(n.id, &Event{Kind: NoticeRepaint, Source: n.id, Area: area})
	}
	return nil
}

// repaintArea returns the paint bounds of the first non decoration
// node, starting at id.
func (t *Tree) repaintArea(id NodeID) geom.Rect {
	for p := id; p != NoNode; p = t.nodes[p].parent {
		if !t.nodes[p].kind.isDecoration() {
			return t.PaintBBox(p)
		}
	}
	return geom.EmptyRect
}
