package fem

import (
	"fmt"
	"sort"

	"github.com/aretw0/femtree/pkg/attr"
	"github.com/aretw0/femtree/pkg/domain"
	"github.com/aretw0/femtree/pkg/registry"
	"github.com/aretw0/femtree/pkg/schema"
	"github.com/aretw0/femtree/pkg/units"
)

// Material property names.
const (
	PropDensity          = "density"
	PropDynamicViscosity = "dynamic_viscosity"
)

// Material holds the fluid properties of the subdomain picked by Selection.
type Material struct {
	Selection        string
	Density          *units.Quantity
	DynamicViscosity *units.Quantity
}

// Materials maps material names to their definitions.
type Materials struct {
	Domains map[string]*Material
}

// Add sets property prop of material name, creating the material on first
// use. Selection replaces any previous selection of that material.
func (m *Materials) Add(name, selection, prop string, value units.Quantity) error {
	var dim units.Dimension
	switch prop {
	case PropDensity:
		dim = units.Density
	case PropDynamicViscosity:
		dim = units.Viscosity
	default:
		return fmt.Errorf("%w: unknown material property %q", domain.ErrInvalidPropertyValue, prop)
	}
	if !value.Dim.Is(dim) || value.Value <= 0 {
		return fmt.Errorf("%w: %s must be a positive %s, got %s", domain.ErrInvalidPropertyValue, prop, dim, value)
	}

	if m.Domains == nil {
		m.Domains = make(map[string]*Material)
	}
	mat, ok := m.Domains[name]
	if !ok {
		mat = &Material{}
		m.Domains[name] = mat
	}
	mat.Selection = selection
	if prop == PropDensity {
		mat.Density = &value
	} else {
		mat.DynamicViscosity = &value
	}
	return nil
}

// Names returns the material names in sorted order.
func (m *Materials) Names() []string {
	names := make([]string, 0, len(m.Domains))
	for k := range m.Domains {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

var materialType = schema.Map(schema.Record(schema.Schema{
	"selection":          schema.String(),
	PropDensity:          schema.Optional(schema.PositiveQuantity(units.Density)),
	PropDynamicViscosity: schema.Optional(schema.PositiveQuantity(units.Viscosity)),
}))

func materialsDescriptor() registry.Descriptor {
	return registry.Descriptor{
		Name: TypeMaterials,
		Kind: domain.KindMaterials,
		New:  container[Materials],
		Properties: attr.Table{
			attr.Of("domains", materialType, getDomains, setDomains),
		},
		Summary: "Material properties by subdomain",
	}
}

func getDomains(m *Materials) map[string]any {
	out := make(map[string]any, len(m.Domains))
	for name, mat := range m.Domains {
		out[name] = map[string]any{
			"selection":          mat.Selection,
			PropDensity:          mat.Density,
			PropDynamicViscosity: mat.DynamicViscosity,
		}
	}
	return out
}

func setDomains(m *Materials, v map[string]any) {
	domains := make(map[string]*Material, len(v))
	for name, raw := range v {
		rec, _ := raw.(map[string]any)
		mat := &Material{}
		mat.Selection, _ = rec["selection"].(string)
		if q, ok := rec[PropDensity].(units.Quantity); ok {
			mat.Density = &q
		}
		if q, ok := rec[PropDynamicViscosity].(units.Quantity); ok {
			mat.DynamicViscosity = &q
		}
		domains[name] = mat
	}
	m.Domains = domains
}
