// Package attr implements the attribute protocol of model entities.
//
// Every entity kind publishes a static Table of properties. A snapshot reads
// all of them into a flat map of primitive values; apply writes a partial map
// back, coercing and validating every value before any of them is assigned.
package attr

import (
	"fmt"
	"sort"

	"github.com/aretw0/femtree/pkg/domain"
	"github.com/aretw0/femtree/pkg/schema"
	"github.com/aretw0/femtree/pkg/units"
)

// Property describes one named attribute of an entity.
type Property struct {
	Name string
	Type schema.Type
	// ReadOnly properties appear in snapshots but are skipped by Apply.
	ReadOnly bool
	Get      func(entity any) any
	// Set receives a value already coerced by Type.
	Set func(entity any, value any)
}

// Table is the ordered property list of an entity kind.
type Table []Property

// Lookup returns the property called name.
func (t Table) Lookup(name string) (Property, bool) {
	for _, p := range t {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

// Names returns property names in table order.
func (t Table) Names() []string {
	names := make([]string, len(t))
	for i, p := range t {
		names[i] = p.Name
	}
	return names
}

// Schema returns the types of the settable properties.
func (t Table) Schema() schema.Schema {
	s := make(schema.Schema, len(t))
	for _, p := range t {
		if !p.ReadOnly {
			s[p.Name] = p.Type
		}
	}
	return s
}

// Snapshot reads every property of entity. Quantities are rendered as their
// canonical string and unset optionals as nil.
func (t Table) Snapshot(entity any) map[string]any {
	out := make(map[string]any, len(t))
	for _, p := range t {
		out[p.Name] = Render(p.Get(entity))
	}
	return out
}

// Apply assigns the values whose keys name settable properties. Unknown and
// read-only keys are ignored. Either every value is assigned or none is.
func (t Table) Apply(entity any, values map[string]any) error {
	type staged struct {
		prop  Property
		value any
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var pending []staged
	for _, key := range keys {
		p, ok := t.Lookup(key)
		if !ok || p.ReadOnly || p.Set == nil {
			continue
		}
		v, err := p.Type.Coerce(values[key])
		if err != nil {
			return fmt.Errorf("%w: %s: %w", domain.ErrInvalidPropertyValue, key, err)
		}
		pending = append(pending, staged{prop: p, value: v})
	}

	for _, s := range pending {
		s.prop.Set(entity, s.value)
	}
	return nil
}

// Render converts a property value into its snapshot form.
func Render(v any) any {
	switch x := v.(type) {
	case units.Quantity:
		return x.String()
	case *units.Quantity:
		if x == nil {
			return nil
		}
		return x.String()
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = Render(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = Render(e)
		}
		return out
	default:
		return v
	}
}
