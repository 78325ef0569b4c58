package fem

import (
	"fmt"

	"github.com/aretw0/femtree/pkg/attr"
	"github.com/aretw0/femtree/pkg/domain"
	"github.com/aretw0/femtree/pkg/registry"
	"github.com/aretw0/femtree/pkg/schema"
)

// Model is the root of a simulation model.
type Model struct{}

func modelDescriptor() registry.Descriptor {
	return registry.Descriptor{
		Name:     TypeModel,
		Kind:     domain.KindModel,
		Children: []domain.Kind{domain.KindComponent, domain.KindResults, domain.KindStudy},
		New:      container[Model],
		Summary:  "Root of a simulation model",
	}
}

// Component groups the geometry, mesh, materials and physics of one
// spatial domain. Its dimension is fixed on creation.
type Component struct {
	Dim   int  `mapstructure:"dim"`
	IsAxi bool `mapstructure:"is_axi"`
}

func componentDescriptor() registry.Descriptor {
	return registry.Descriptor{
		Name:     TypeComponent,
		Kind:     domain.KindComponent,
		Children: []domain.Kind{domain.KindGeometry, domain.KindMaterials, domain.KindMesh, domain.KindPhysics},
		Required: schema.Schema{"dim": schema.Int()},
		New: func(args map[string]any) (any, error) {
			var c Component
			if err := registry.Decode(args, &c); err != nil {
				return nil, err
			}
			if c.Dim < 1 || c.Dim > 3 {
				return nil, fmt.Errorf("dim must be 1, 2 or 3, got %d", c.Dim)
			}
			return &c, nil
		},
		Properties: attr.Table{
			attr.Int("dim", func(c *Component) int { return c.Dim }, nil),
			attr.Bool("is_axi", func(c *Component) bool { return c.IsAxi },
				func(c *Component, v bool) { c.IsAxi = v }),
		},
		Summary: "Spatial domain of dimension 1, 2 or 3",
	}
}
