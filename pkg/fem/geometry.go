package fem

import (
	"github.com/aretw0/femtree/pkg/attr"
	"github.com/aretw0/femtree/pkg/domain"
	"github.com/aretw0/femtree/pkg/registry"
	"github.com/aretw0/femtree/pkg/schema"
	"github.com/aretw0/femtree/pkg/units"
)

// Geometry holds the geometry features of a component.
type Geometry struct{}

func geometryDescriptor() registry.Descriptor {
	return registry.Descriptor{
		Name:     TypeGeometry,
		Kind:     domain.KindGeometry,
		Children: []domain.Kind{domain.KindGeometryFeature},
		New:      container[Geometry],
		Summary:  "Container of geometry features",
	}
}

var (
	lengthType   = schema.PositiveQuantity(units.Length)
	positionType = schema.Vector(schema.Quantity(units.Length), 3)
)

func origin() [3]units.Quantity {
	zero := units.Quantity{Dim: units.Length}
	return [3]units.Quantity{zero, zero, zero}
}

func oneMeter() units.Quantity {
	return units.Quantity{Value: 1, Dim: units.Length}
}

// Rectangle is an axis aligned rectangle with its lower-left corner at X0.
type Rectangle struct {
	X0           [3]units.Quantity
	A            units.Quantity // width
	B            units.Quantity // height
	CornerRadius *units.Quantity
	CharLength   *units.Quantity
}

// NewRectangle returns a 1 m by 1 m rectangle at the origin.
func NewRectangle() *Rectangle {
	return &Rectangle{X0: origin(), A: oneMeter(), B: oneMeter()}
}

func rectangleDescriptor() registry.Descriptor {
	return registry.Descriptor{
		Name: TypeRectangle,
		Kind: domain.KindGeometryFeature,
		New:  func(map[string]any) (any, error) { return NewRectangle(), nil },
		Properties: attr.Table{
			attr.Const(KeyGeomType, TypeRectangle),
			position("x0", func(r *Rectangle) *[3]units.Quantity { return &r.X0 }),
			length("a", func(r *Rectangle) *units.Quantity { return &r.A }),
			length("b", func(r *Rectangle) *units.Quantity { return &r.B }),
			attr.OptionalQuantity("corner_radius", lengthType,
				func(r *Rectangle) *units.Quantity { return r.CornerRadius },
				func(r *Rectangle, v *units.Quantity) { r.CornerRadius = v }),
			attr.OptionalQuantity("char_length", lengthType,
				func(r *Rectangle) *units.Quantity { return r.CharLength },
				func(r *Rectangle, v *units.Quantity) { r.CharLength = v }),
		},
		Summary: "Rectangle of width a and height b",
	}
}

// Block is an axis aligned box with its minimum corner at X0.
type Block struct {
	X0         [3]units.Quantity
	A          units.Quantity
	B          units.Quantity
	C          units.Quantity
	CharLength *units.Quantity
}

// NewBlock returns a 1 m cube at the origin.
func NewBlock() *Block {
	return &Block{X0: origin(), A: oneMeter(), B: oneMeter(), C: oneMeter()}
}

func blockDescriptor() registry.Descriptor {
	return registry.Descriptor{
		Name: TypeBlock,
		Kind: domain.KindGeometryFeature,
		New:  func(map[string]any) (any, error) { return NewBlock(), nil },
		Properties: attr.Table{
			attr.Const(KeyGeomType, TypeBlock),
			position("x0", func(b *Block) *[3]units.Quantity { return &b.X0 }),
			length("a", func(b *Block) *units.Quantity { return &b.A }),
			length("b", func(b *Block) *units.Quantity { return &b.B }),
			length("c", func(b *Block) *units.Quantity { return &b.C }),
			attr.OptionalQuantity("char_length", lengthType,
				func(b *Block) *units.Quantity { return b.CharLength },
				func(b *Block, v *units.Quantity) { b.CharLength = v }),
		},
		Summary: "Box with sides a, b and c",
	}
}

// length binds a positive length field reached through field.
func length[E any](name string, field func(E) *units.Quantity) attr.Property {
	return attr.Quantity(name, lengthType,
		func(e E) units.Quantity { return *field(e) },
		func(e E, v units.Quantity) { *field(e) = v })
}

// position binds a 3 component position reached through field.
func position[E any](name string, field func(E) *[3]units.Quantity) attr.Property {
	return attr.Of(name, positionType,
		func(e E) []any {
			p := field(e)
			return []any{p[0], p[1], p[2]}
		},
		func(e E, v []any) {
			p := field(e)
			for i := range p {
				if q, ok := v[i].(units.Quantity); ok {
					p[i] = q
				}
			}
		})
}
