package fem

import (
	"github.com/aretw0/femtree/pkg/attr"
	"github.com/aretw0/femtree/pkg/domain"
	"github.com/aretw0/femtree/pkg/registry"
	"github.com/aretw0/femtree/pkg/schema"
	"github.com/aretw0/femtree/pkg/units"
)

// Physics holds the physics features of a component.
type Physics struct{}

func physicsDescriptor() registry.Descriptor {
	return registry.Descriptor{
		Name:     TypePhysics,
		Kind:     domain.KindPhysics,
		Children: []domain.Kind{domain.KindPhysicsFeature},
		New:      container[Physics],
		Summary:  "Container of physics features",
	}
}

// LaminarFlow is incompressible laminar flow driven by a pressure drop.
// Boundaries are selected by expressions over the coordinates x[0], x[1], ...
// The wall is a no-slip boundary.
type LaminarFlow struct {
	Inflow         string
	Outflow        string
	Wall           string
	InletPressure  *units.Quantity
	OutletPressure *units.Quantity
}

var pressureType = schema.Quantity(units.Pressure)

func laminarFlowDescriptor() registry.Descriptor {
	return registry.Descriptor{
		Name: TypeLaminarFlow,
		Kind: domain.KindPhysicsFeature,
		New:  container[LaminarFlow],
		Properties: attr.Table{
			attr.Const(KeyPhysics, TypeLaminarFlow),
			attr.OptionalString("inflow", func(l *LaminarFlow) string { return l.Inflow },
				func(l *LaminarFlow, v string) { l.Inflow = v }),
			attr.OptionalString("outflow", func(l *LaminarFlow) string { return l.Outflow },
				func(l *LaminarFlow, v string) { l.Outflow = v }),
			attr.OptionalString("wall", func(l *LaminarFlow) string { return l.Wall },
				func(l *LaminarFlow, v string) { l.Wall = v }),
			attr.OptionalQuantity("inlet_pressure", pressureType,
				func(l *LaminarFlow) *units.Quantity { return l.InletPressure },
				func(l *LaminarFlow, v *units.Quantity) { l.InletPressure = v }),
			attr.OptionalQuantity("outlet_pressure", pressureType,
				func(l *LaminarFlow) *units.Quantity { return l.OutletPressure },
				func(l *LaminarFlow, v *units.Quantity) { l.OutletPressure = v }),
		},
		Summary: "Incompressible laminar flow",
	}
}
