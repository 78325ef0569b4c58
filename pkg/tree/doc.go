/*
Package tree implements the typed hierarchical document model.

A Node owns an ordered list of children and keeps a non-owning reference
to its parent. Every node is created from a registry descriptor, which fixes
its kind, the kinds of children it accepts and the property table of its
payload. After every mutating call the following holds:

  - children of a node carry pairwise distinct tags, all different from
    the node's own tag;
  - every child's kind is accepted by its parent;
  - a child's parent is the node whose children contain it;
  - a node appears in at most one children list.

Failed operations leave the tree exactly as it was.

# Basic usage

	m, err := tree.NewModelTree(fem.Registry(), "model")
	comp, err := m.Create("component", "comp1", map[string]any{"dim": 2})
	geom, err := comp.Create("geometry", "geom1", nil)
	_, err = geom.Create("rectangle", "r1", map[string]any{"a": "20 mm", "b": "100 mm"})

The tree carries no locks. Callers that share a tree between goroutines
serialize access themselves (see package workspace).
*/
package tree
