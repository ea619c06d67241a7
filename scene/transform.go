package scene

import (
	"fmt"

	"github.com/benoitkugler/okscene/geom"
)

// transformKey is the geometry property holding the own transform
// of transformable kinds.
const transformKey = "trf"

func hasOwnTransform(k Kind) bool {
	_, ok := k.Properties().Lookup(transformKey)
	return ok
}

// Transform returns the own transform of id. The boolean is false
// when the node has none.
func (t *Tree) Transform(id NodeID) (geom.Transform, bool) {
	if !t.valid(id) {
		return geom.Identity, false
	}
	return t.Node(id).Transform()
}

// SetTransform replaces the own transform of id.
// Passing nil removes it.
func (t *Tree) SetTransform(id NodeID, tr *geom.Transform) error {
	n, err := t.node(id)
	if err != nil {
		return err
	}
	if !hasOwnTransform(n.kind) {
		return fmt.Errorf("%w: %s has no transform", ErrUnsupported, n.kind)
	}
	return t.SetProperty(id, transformKey, tr)
}

// ApplyTransform composes tr into id and its transformable descendants.
// The identity is a no-op: no event is raised and no cache is cleared.
func (t *Tree) ApplyTransform(id NodeID, tr geom.Transform) error {
	n, err := t.node(id)
	if err != nil {
		return err
	}
	if tr.IsIdentity() {
		return nil
	}
	tf, ok := n.kind.Behavior().(Transformer)
	if !ok {
		return fmt.Errorf("%w: %s is not transformable", ErrUnsupported, n.kind)
	}
	return tf.ApplyTransform(t.Node(id), tr)
}

// composeTransform applies tr on top of the own transform of n:
// the new transform maps a point through the old one, then through tr.
func composeTransform(n Node, tr geom.Transform) error {
	if tr.IsIdentity() {
		return nil
	}
	next := tr
	if own, ok := n.Transform(); ok {
		next = own.Multiplied(tr)
	}
	return n.t.SetProperty(n.id, transformKey, next)
}

// transformChildren forwards tr to the transformable children of n.
func transformChildren(n Node, tr geom.Transform) error {
	if tr.IsIdentity() {
		return nil
	}
	for _, c := range n.t.Children(n.id) {
		tf, ok := n.t.nodes[c].kind.Behavior().(Transformer)
		if !ok {
			continue
		}
		if err := tf.ApplyTransform(n.t.Node(c), tr); err != nil {
			return err
		}
	}
	return nil
}
