/*
Package dsl provides a fluent Go API for programmatically constructing model trees.

It lets model templates and tests describe a tree top-down instead of
checking an error after every Create call. The first failure is recorded
with the path of the node that caused it and reported by Build; later calls
become no-ops.

Example usage:

	b := dsl.New(fem.Registry(), "channel")

	comp := b.Root().Add("component", "comp", map[string]any{"dim": 2})
	comp.Add("geometry", "geom", nil).
		Add("rectangle", "r1", map[string]any{"a": "20 mm", "b": "100 mm"})
	comp.Add("mesh", "mesh", map[string]any{"geom_tag": "geom"})

	b.Root().Add("study", "std", nil).
		Add("ipcs", "ipcs1", map[string]any{"dt": "0.02 s"})

	model, err := b.Build()
*/
package dsl
