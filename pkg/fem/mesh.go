package fem

import (
	"github.com/aretw0/femtree/pkg/attr"
	"github.com/aretw0/femtree/pkg/domain"
	"github.com/aretw0/femtree/pkg/registry"
	"github.com/aretw0/femtree/pkg/schema"
	"github.com/aretw0/femtree/pkg/units"
)

// DefaultResolution is the number of mesh cells along the longest side of
// the geometry bounding box.
const DefaultResolution = 100

// Mesh discretizes the geometry named by GeomTag, a sibling of the mesh.
type Mesh struct {
	GeomTag    string
	Resolution int
}

func meshDescriptor() registry.Descriptor {
	return registry.Descriptor{
		Name:     TypeMesh,
		Kind:     domain.KindMesh,
		Children: []domain.Kind{domain.KindMeshFeature},
		New: func(map[string]any) (any, error) {
			return &Mesh{Resolution: DefaultResolution}, nil
		},
		Properties: attr.Table{
			attr.OptionalString("geom_tag", func(m *Mesh) string { return m.GeomTag },
				func(m *Mesh, v string) { m.GeomTag = v }),
			attr.Of("resolution", schema.PositiveInt(),
				func(m *Mesh) int { return m.Resolution },
				func(m *Mesh, v int) { m.Resolution = v }),
		},
		Summary: "Mesh of a sibling geometry",
	}
}

// ElementSize bounds the size of mesh elements.
type ElementSize struct {
	MaxSize *units.Quantity
	MinSize *units.Quantity
}

func elementSizeDescriptor() registry.Descriptor {
	return registry.Descriptor{
		Name: TypeElementSize,
		Kind: domain.KindMeshFeature,
		New:  container[ElementSize],
		Properties: attr.Table{
			attr.Const(KeyMeshType, TypeElementSize),
			attr.OptionalQuantity("max_size", lengthType,
				func(e *ElementSize) *units.Quantity { return e.MaxSize },
				func(e *ElementSize, v *units.Quantity) { e.MaxSize = v }),
			attr.OptionalQuantity("min_size", lengthType,
				func(e *ElementSize) *units.Quantity { return e.MinSize },
				func(e *ElementSize, v *units.Quantity) { e.MinSize = v }),
		},
		Summary: "Bounds on mesh element size",
	}
}
