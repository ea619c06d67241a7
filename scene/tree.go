package scene

import (
	"fmt"
	"slices"

	"github.com/benoitkugler/okscene/geom"
)

// NodeID references a node of a Tree.
type NodeID int32

// NoNode is the null reference.
const NoNode NodeID = -1

// node is the arena slot of one node. Only the Tree touches it.
type node struct {
	kind     Kind
	alive    bool
	parent   NodeID
	children []NodeID
	scene    NodeID // root of the scene the node belongs to, or NoNode

	values   map[string]any // explicitly set properties only
	modified bool           // since the last Store or Restore

	cache bboxCache
}

// Tree is an arena of nodes. Nodes are created detached; inserting them
// under a scene node attaches them.
// Slots of destroyed nodes are not reused, so that stale NodeIDs keep
// failing with ErrUnknownNode.
type Tree struct {
	nodes     []node
	listeners map[NodeID][]*listener

	// ErrorMode controls how Restore handles unknown persisted properties.
	ErrorMode ErrorMode
}

// NewTree returns an empty arena.
func NewTree() *Tree {
	return &Tree{listeners: make(map[NodeID][]*listener)}
}

func (t *Tree) node(id NodeID) (*node, error) {
	if id < 0 || int(id) >= len(t.nodes) || !t.nodes[id].alive {
		return nil, fmt.Errorf("%w: %d", ErrUnknownNode, id)
	}
	return &t.nodes[id], nil
}

func (t *Tree) valid(id NodeID) bool {
	_, err := t.node(id)
	return err == nil
}

// New creates a detached node of the given kind, holding only default values.
// Shapes are created with their (empty) style set.
func (t *Tree) New(kind Kind) NodeID {
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, node{
		kind:   kind,
		alive:  true,
		parent: NoNode,
		scene:  NoNode,
	})
	if kind == KindScene {
		t.nodes[id].scene = id
	}
	if kind == KindRectangle {
		styles := t.New(KindStyleSet)
		t.attach(id, styles, NoNode)
	}
	return id
}

// NewScene creates a scene root.
func (t *Tree) NewScene() NodeID { return t.New(KindScene) }

// Node returns a handle on id.
func (t *Tree) Node(id NodeID) Node { return Node{t: t, id: id} }

// Kind returns the kind of id.
func (t *Tree) Kind(id NodeID) (Kind, error) {
	n, err := t.node(id)
	if err != nil {
		return 0, err
	}
	return n.kind, nil
}

// Parent returns the parent of id, or NoNode.
func (t *Tree) Parent(id NodeID) NodeID {
	if !t.valid(id) {
		return NoNode
	}
	return t.nodes[id].parent
}

// Children returns a copy of the ordered children of id.
func (t *Tree) Children(id NodeID) []NodeID {
	if !t.valid(id) {
		return nil
	}
	return slices.Clone(t.nodes[id].children)
}

// Scene returns the root of the scene id belongs to, or NoNode
// when the node is detached.
func (t *Tree) Scene(id NodeID) NodeID {
	if !t.valid(id) {
		return NoNode
	}
	return t.nodes[id].scene
}

// Modified reports whether a property of id changed since the
// last Store or Restore.
func (t *Tree) Modified(id NodeID) bool {
	return t.valid(id) && t.nodes[id].modified
}

// IsAncestor reports whether a is a strict ancestor of b.
func (t *Tree) IsAncestor(a, b NodeID) bool {
	for p := t.Parent(b); p != NoNode; p = t.nodes[p].parent {
		if p == a {
			return true
		}
	}
	return false
}

// CanInsert reports whether child may be inserted into parent before
// reference (NoNode to append). It does not modify the tree.
func (t *Tree) CanInsert(parent, child, reference NodeID) bool {
	if !t.valid(parent) || !t.valid(child) || parent == child {
		return false
	}
	c := &t.nodes[child]
	if c.parent != NoNode || c.kind == KindScene || t.IsAncestor(child, parent) {
		return false
	}
	if reference != NoNode && (!t.valid(reference) || t.nodes[reference].parent != parent) {
		return false
	}
	return c.kind.Behavior().ValidateInsertion(t.Node(parent), reference)
}

// Insert inserts the detached node child into parent, before reference
// (NoNode to append). When the insertion is not allowed, the tree is
// left unchanged and ErrInsertionRejected is returned.
// On success the ancestors' bounds are invalidated and an InsertChild
// event is raised on parent.
func (t *Tree) Insert(parent, child, reference NodeID) error {
	if !t.CanInsert(parent, child, reference) {
		Logger().Debug("insertion rejected", "parent", parent, "child", child, "reference", reference)
		return fmt.Errorf("%w: node %d into %d", ErrInsertionRejected, child, parent)
	}
	t.attach(parent, child, reference)
	t.invalidateAncestors(child)
	return t.raise(parent, &Event{Kind: ChangeInsertChild, Source: parent, Child: child})
}

// Append is Insert with no reference.
func (t *Tree) Append(parent, child NodeID) error { return t.Insert(parent, child, NoNode) }

func (t *Tree) attach(parent, child, reference NodeID) {
	p := &t.nodes[parent]
	at := len(p.children)
	if reference != NoNode {
		at = slices.Index(p.children, reference)
	}
	p.children = slices.Insert(p.children, at, child)
	t.nodes[child].parent = parent
	t.setScene(child, p.scene)
}

func (t *Tree) setScene(id, scene NodeID) {
	t.nodes[id].scene = scene
	for _, c := range t.nodes[id].children {
		t.setScene(c, scene)
	}
}

// Remove detaches id from its parent. The removed subtree keeps its
// properties but loses its scene and its cached bounds.
// A RemoveChild event is raised on the former parent.
func (t *Tree) Remove(id NodeID) error {
	n, err := t.node(id)
	if err != nil {
		return err
	}
	parent := n.parent
	if parent == NoNode {
		return nil
	}
	if n.kind == KindStyleSet {
		return fmt.Errorf("%w: a style set can't be removed from its shape", ErrUnsupported)
	}
	t.invalidateAncestors(id)
	p := &t.nodes[parent]
	p.children = slices.DeleteFunc(p.children, func(c NodeID) bool { return c == id })
	n.parent = NoNode
	t.setScene(id, NoNode)
	t.walk(id, func(c NodeID) { t.nodes[c].cache.clear() })
	return t.raise(parent, &Event{Kind: ChangeRemoveChild, Source: parent, Child: id})
}

// Destroy removes id and frees its whole subtree. Listeners registered
// on destroyed nodes are dropped and no further events are delivered.
func (t *Tree) Destroy(id NodeID) error {
	n, err := t.node(id)
	if err != nil {
		return err
	}
	if n.kind == KindStyleSet && n.parent != NoNode {
		return fmt.Errorf("%w: a style set is destroyed with its shape", ErrUnsupported)
	}
	if err := t.Remove(id); err != nil {
		return err
	}
	t.walk(id, func(c NodeID) {
		delete(t.listeners, c)
		t.nodes[c] = node{parent: NoNode, scene: NoNode}
	})
	return nil
}

// walk visits id and its descendants, parents first.
func (t *Tree) walk(id NodeID, fn func(NodeID)) {
	fn(id)
	for _, c := range slices.Clone(t.nodes[id].children) {
		t.walk(c, fn)
	}
}

// styleSet returns the style set child of a shape, or NoNode.
func (t *Tree) styleSet(id NodeID) NodeID {
	for _, c := range t.nodes[id].children {
		if t.nodes[c].kind == KindStyleSet {
			return c
		}
	}
	return NoNode
}

// StyleSet returns the style set of a shape, or NoNode for other kinds.
func (t *Tree) StyleSet(id NodeID) NodeID {
	if !t.valid(id) {
		return NoNode
	}
	return t.styleSet(id)
}

// Node is a handle on a node of a Tree, passed to the kind behaviours.
// It is only valid as long as the node is alive.
type Node struct {
	t  *Tree
	id NodeID
}

func (n Node) ID() NodeID     { return n.id }
func (n Node) Tree() *Tree    { return n.t }
func (n Node) Kind() Kind     { return n.t.nodes[n.id].kind }
func (n Node) Parent() NodeID { return n.t.nodes[n.id].parent }
func (n Node) Scene() NodeID  { return n.t.nodes[n.id].scene }

// Children returns a copy of the ordered children of the node.
func (n Node) Children() []NodeID { return slices.Clone(n.children()) }

func (n Node) children() []NodeID { return n.t.nodes[n.id].children }

// Value returns the value of a property known to the node kind.
func (n Node) Value(key string) any { return n.t.value(n.id, key) }

// Float returns a number property.
func (n Node) Float(key string) float64 {
	f, _ := n.Value(key).(float64)
	return f
}

// Bool returns a boolean property.
func (n Node) Bool(key string) bool {
	b, _ := n.Value(key).(bool)
	return b
}

// Text returns a string property.
func (n Node) Text(key string) string {
	s, _ := n.Value(key).(string)
	return s
}

func (n Node) SourceBBox() geom.Rect   { return n.t.SourceBBox(n.id) }
func (n Node) GeometryBBox() geom.Rect { return n.t.GeometryBBox(n.id) }
func (n Node) PaintBBox() geom.Rect    { return n.t.PaintBBox(n.id) }

// Transform returns the own transform of the node, if any.
func (n Node) Transform() (geom.Transform, bool) {
	tr, ok := n.t.nodes[n.id].values[transformKey].(geom.Transform)
	return tr, ok
}
