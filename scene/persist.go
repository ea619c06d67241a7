package scene

import (
	"fmt"
	"slices"
)

// Blob is the persisted form of the properties of a node: a flat mapping
// from property key to a scalar (bool, float64, string) or to the string
// produced by the property codec. Keys absent from a Blob take their
// default value on Restore.
type Blob map[string]any

// storeProperties writes the explicitly set properties of n into blob.
func storeProperties(n Node, blob Blob) error {
	props := n.Kind().Properties()
	for _, g := range [...]Group{Visual, Geometry, Meta} {
		for _, key := range props.Keys(g) {
			v, ok := n.t.nodes[n.id].values[key]
			if !ok {
				continue
			}
			def, _ := props.Lookup(key)
			enc, err := def.codec().Encode(v)
			if err != nil {
				return fmt.Errorf("storing %q: %w", key, err)
			}
			blob[key] = enc
		}
	}
	return nil
}

// restoreProperties replaces the properties of n by the ones of blob.
// Every value is decoded before anything is written.
func restoreProperties(n Node, blob Blob) error {
	props := n.Kind().Properties()
	values := make(map[string]any, len(blob))
	for _, key := range sortedKeys(blob) {
		def, ok := props.Lookup(key)
		if !ok {
			switch n.t.ErrorMode {
			case StrictErrorMode:
				return fmt.Errorf("%w: persisted %q on %s", ErrInvalidKey, key, n.Kind())
			case WarnErrorMode:
				Logger().Warn("ignoring persisted property", "kind", n.Kind(), "key", key)
			}
			continue
		}
		dec, err := def.codec().Decode(blob[key])
		if err != nil {
			return fmt.Errorf("restoring %q: %w", key, err)
		}
		if dec, err = def.check(dec); err != nil {
			return err
		}
		if !equal(def.Type, def.Default, dec) {
			values[key] = dec
		}
	}
	nd := &n.t.nodes[n.id]
	nd.values = values
	nd.modified = false
	return nil
}

// Store returns the persisted form of the properties of id.
// A Store event is raised; the node is no longer Modified afterwards.
func (t *Tree) Store(id NodeID) (Blob, error) {
	if _, err := t.node(id); err != nil {
		return nil, err
	}
	blob := Blob{}
	if err := t.raise(id, &Event{Kind: ChangeStore, Source: id, Blob: blob}); err != nil {
		return nil, err
	}
	t.nodes[id].modified = false
	return blob, nil
}

// Restore replaces the properties of id by the persisted ones. Missing keys
// fall back to their default; unknown keys are handled according to the
// tree ErrorMode. On error, the node is left unchanged.
func (t *Tree) Restore(id NodeID, blob Blob) error {
	if _, err := t.node(id); err != nil {
		return err
	}
	Logger().Debug("restoring node", "id", id, "properties", len(blob))
	return t.raise(id, &Event{Kind: ChangeRestore, Source: id, Blob: blob})
}

// Record is the persisted form of a subtree.
type Record struct {
	Kind       string
	Properties Blob
	Children   []Record
}

// StoreSubtree returns the persisted form of id and its descendants.
func (t *Tree) StoreSubtree(id NodeID) (Record, error) {
	n, err := t.node(id)
	if err != nil {
		return Record{}, err
	}
	blob, err := t.Store(id)
	if err != nil {
		return Record{}, err
	}
	rec := Record{Kind: n.kind.String(), Properties: blob}
	for _, c := range t.nodes[id].children {
		crec, err := t.StoreSubtree(c)
		if err != nil {
			return Record{}, err
		}
		rec.Children = append(rec.Children, crec)
	}
	return rec, nil
}

// RestoreSubtree creates a detached subtree from its persisted form
// and returns its root.
func (t *Tree) RestoreSubtree(rec Record) (NodeID, error) {
	kind, ok := KindByName(rec.Kind)
	if !ok {
		return NoNode, fmt.Errorf("unknown node kind %q", rec.Kind)
	}
	id := t.New(kind)
	if err := t.restoreInto(id, rec); err != nil {
		_ = t.Destroy(id)
		return NoNode, err
	}
	return id, nil
}

func (t *Tree) restoreInto(id NodeID, rec Record) error {
	if err := t.Restore(id, rec.Properties); err != nil {
		return err
	}
	for _, crec := range rec.Children {
		// shapes are created with their style set
		if crec.Kind == KindStyleSet.String() {
			if styles := t.styleSet(id); styles != NoNode {
				if err := t.restoreInto(styles, crec); err != nil {
					return err
				}
				continue
			}
		}
		child, err := t.RestoreSubtree(crec)
		if err != nil {
			return err
		}
		if err := t.Append(id, child); err != nil {
			_ = t.Destroy(child)
			return err
		}
	}
	return nil
}

// sortedKeys returns the keys of m in increasing order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
