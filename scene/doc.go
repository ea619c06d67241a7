// Package scene implements the node model of a vector graphics document.
//
// Nodes live in an arena, the Tree, and are referenced by their NodeID.
// Every node has a Kind, which selects a static behaviour: the three
// property tables (visual, geometry and meta), the insertion rules and the
// optional capabilities (painting, hit-testing, bounds, transforms).
//
// Property writes go through the Tree, which compares the new value with
// the current one and, on change, raises an Event on the node. The event is
// first handled by the node kind (persistence, then geometry and visual
// invalidation) and then delivered to the listeners registered on the node
// and on each of its ancestors, up to the root.
//
// Bounding boxes are computed lazily and cached until a geometry property
// of the node, or of one of its children, changes.
//
// Everything is synchronous: a Tree must not be used from several
// goroutines without external locking.
package scene
