package attr

import (
	"github.com/aretw0/femtree/pkg/schema"
	"github.com/aretw0/femtree/pkg/units"
)

// Of builds a property for entity type E from typed accessors.
// A nil set makes the property read-only.
func Of[E, V any](name string, typ schema.Type, get func(E) V, set func(E, V)) Property {
	p := Property{
		Name: name,
		Type: typ,
		Get: func(entity any) any {
			e, ok := entity.(E)
			if !ok {
				return nil
			}
			return get(e)
		},
		ReadOnly: set == nil,
	}
	if set != nil {
		p.Set = func(entity any, value any) {
			e, ok := entity.(E)
			if !ok {
				return
			}
			v, _ := value.(V)
			set(e, v)
		}
	}
	return p
}

// String is a string property.
func String[E any](name string, get func(E) string, set func(E, string)) Property {
	return Of(name, schema.String(), get, set)
}

// Int is an int property.
func Int[E any](name string, get func(E) int, set func(E, int)) Property {
	return Of(name, schema.Int(), get, set)
}

// Float is a float64 property.
func Float[E any](name string, get func(E) float64, set func(E, float64)) Property {
	return Of(name, schema.Float(), get, set)
}

// Bool is a bool property.
func Bool[E any](name string, get func(E) bool, set func(E, bool)) Property {
	return Of(name, schema.Bool(), get, set)
}

// Quantity is a quantity property; typ decides dimension and sign.
func Quantity[E any](name string, typ schema.Type, get func(E) units.Quantity, set func(E, units.Quantity)) Property {
	return Of(name, typ, get, set)
}

// OptionalQuantity is a quantity property that may be unset.
func OptionalQuantity[E any](name string, typ schema.Type, get func(E) *units.Quantity, set func(E, *units.Quantity)) Property {
	p := Property{
		Name: name,
		Type: schema.Optional(typ),
		Get: func(entity any) any {
			e, ok := entity.(E)
			if !ok {
				return nil
			}
			return get(e)
		},
		ReadOnly: set == nil,
	}
	if set != nil {
		p.Set = func(entity any, value any) {
			e, ok := entity.(E)
			if !ok {
				return
			}
			if q, ok := value.(units.Quantity); ok {
				set(e, &q)
				return
			}
			set(e, nil)
		}
	}
	return p
}

// OptionalString is a string property whose empty value is reported as unset.
func OptionalString[E any](name string, get func(E) string, set func(E, string)) Property {
	p := Property{
		Name: name,
		Type: schema.Optional(schema.String()),
		Get: func(entity any) any {
			e, ok := entity.(E)
			if !ok {
				return nil
			}
			if v := get(e); v != "" {
				return v
			}
			return nil
		},
		ReadOnly: set == nil,
	}
	if set != nil {
		p.Set = func(entity any, value any) {
			if e, ok := entity.(E); ok {
				s, _ := value.(string)
				set(e, s)
			}
		}
	}
	return p
}

// Const is a read-only property that always reports value. Variant entities
// use it to expose their discriminator.
func Const(name string, value string) Property {
	return Property{
		Name:     name,
		Type:     schema.String(),
		ReadOnly: true,
		Get:      func(any) any { return value },
	}
}
