package tree

import (
	"github.com/aretw0/femtree/pkg/attr"
	"github.com/aretw0/femtree/pkg/domain"
	"github.com/aretw0/femtree/pkg/registry"
	"github.com/aretw0/femtree/pkg/schema"
	"github.com/aretw0/femtree/pkg/units"
)

type testComponent struct {
	Dim   int `mapstructure:"dim"`
	Label string
}

type testRect struct {
	A units.Quantity `mapstructure:"a"`
}

type empty struct{}

func newEmpty(map[string]any) (any, error) { return &empty{}, nil }

// testRegistry mirrors the shape of the fem kinds with a handful of entries.
func testRegistry() *registry.Registry {
	r := registry.New()
	r.MustRegister(registry.Descriptor{
		Name:     "model",
		Kind:     domain.KindModel,
		Children: []domain.Kind{domain.KindComponent, domain.KindStudy, domain.KindResults},
		New:      newEmpty,
	})
	r.MustRegister(registry.Descriptor{
		Name:     "component",
		Kind:     domain.KindComponent,
		Children: []domain.Kind{domain.KindGeometry},
		Required: schema.Schema{"dim": schema.Int()},
		New: func(args map[string]any) (any, error) {
			var c testComponent
			return &c, registry.Decode(args, &c)
		},
		Properties: attr.Table{
			attr.Int("dim", func(c *testComponent) int { return c.Dim }, nil),
			attr.String("label", func(c *testComponent) string { return c.Label },
				func(c *testComponent, v string) { c.Label = v }),
		},
	})
	r.MustRegister(registry.Descriptor{
		Name:     "geometry",
		Kind:     domain.KindGeometry,
		Children: []domain.Kind{domain.KindGeometryFeature},
		New:      newEmpty,
	})
	r.MustRegister(registry.Descriptor{
		Name: "rectangle",
		Kind: domain.KindGeometryFeature,
		New: func(map[string]any) (any, error) {
			return &testRect{A: units.MustParse("1 m")}, nil
		},
		Properties: attr.Table{
			attr.Quantity("a", schema.PositiveQuantity(units.Length),
				func(r *testRect) units.Quantity { return r.A },
				func(r *testRect, v units.Quantity) { r.A = v }),
		},
	})
	r.MustRegister(registry.Descriptor{Name: "study", Kind: domain.KindStudy, New: newEmpty})
	r.MustRegister(registry.Descriptor{Name: "results", Kind: domain.KindResults, New: newEmpty})
	return r
}
