/*
Package femtree manages typed model trees for CFD/FEM simulation setups.

A project is a tree of typed entities: a model holds components, studies and
results; a component holds its geometry, mesh, materials and physics; each of
those holds features. Parents restrict the kinds of their children, sibling
tags are unique, and every entity publishes a table of attributes that is
read as a snapshot and written with a validated, all-or-nothing apply.

Projects persist as a zip archive holding a single digest.json document and
round-trip losslessly.

# Usage

The Engine wraps a project store. Every operation names a project and a node
path relative to the model root ("" or "/" is the root itself).

	eng, err := femtree.New(memory.NewStore())
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	if _, err := eng.NewProject(ctx, "channel", ""); err != nil {
		log.Fatal(err)
	}

	// Add a 2D component with a rectangle.
	_, _ = eng.Create(ctx, "channel", "", "component", "comp", map[string]any{"dim": 2})
	_, _ = eng.Create(ctx, "channel", "comp", "geometry", "geom", nil)
	view, err := eng.Create(ctx, "channel", "comp/geom", "rectangle", "r1",
		map[string]any{"a": "100 mm", "b": "20 mm"})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(view.Attributes["a"]) // 0.1 m

# Packages

  - pkg/tree: the node type and its structural operations.
  - pkg/registry and pkg/attr: entity kinds and the attribute protocol.
  - pkg/fem: the concrete CFD entity kinds and model templates.
  - pkg/document: the document form and the archive format.
  - pkg/workspace: locked load, mutate and save cycles over a store.
  - pkg/adapters: stores, the HTTP and MCP bindings and the sdfx mesher.
*/
package femtree
