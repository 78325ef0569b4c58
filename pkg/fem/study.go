package fem

import (
	"github.com/aretw0/femtree/pkg/attr"
	"github.com/aretw0/femtree/pkg/domain"
	"github.com/aretw0/femtree/pkg/registry"
	"github.com/aretw0/femtree/pkg/schema"
	"github.com/aretw0/femtree/pkg/units"
)

// Study solves the physics named by PhysicsTag with its solver features.
type Study struct {
	PhysicsTag string
}

func studyDescriptor() registry.Descriptor {
	return registry.Descriptor{
		Name:     TypeStudy,
		Kind:     domain.KindStudy,
		Children: []domain.Kind{domain.KindSolverFeature},
		New:      container[Study],
		Properties: attr.Table{
			attr.OptionalString("physics_tag", func(s *Study) string { return s.PhysicsTag },
				func(s *Study, v string) { s.PhysicsTag = v }),
		},
		Summary: "Solver configuration for a physics",
	}
}

// Ipcs is the incremental pressure correction scheme for transient
// incompressible flow.
type Ipcs struct {
	NumSteps int
	Dt       units.Quantity
}

// NewIpcs returns the solver with 101 steps of 0.1 s.
func NewIpcs() *Ipcs {
	return &Ipcs{NumSteps: 101, Dt: units.Quantity{Value: 0.1, Dim: units.Time}}
}

// Duration returns the simulated time span.
func (s *Ipcs) Duration() units.Quantity {
	return units.Quantity{Value: s.Dt.Value * float64(s.NumSteps), Dim: units.Time}
}

func ipcsDescriptor() registry.Descriptor {
	return registry.Descriptor{
		Name: TypeIpcs,
		Kind: domain.KindSolverFeature,
		New:  func(map[string]any) (any, error) { return NewIpcs(), nil },
		Properties: attr.Table{
			attr.Const(KeySolverType, TypeIpcs),
			attr.Of("num_steps", schema.PositiveInt(),
				func(s *Ipcs) int { return s.NumSteps },
				func(s *Ipcs, v int) { s.NumSteps = v }),
			attr.Quantity("dt", schema.PositiveQuantity(units.Time),
				func(s *Ipcs) units.Quantity { return s.Dt },
				func(s *Ipcs, v units.Quantity) { s.Dt = v }),
		},
		Summary: "Incremental pressure correction scheme",
	}
}
