package registry

import (
	"testing"

	"github.com/aretw0/femtree/pkg/attr"
	"github.com/aretw0/femtree/pkg/domain"
	"github.com/aretw0/femtree/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type box struct {
	Sides int `mapstructure:"sides"`
}

func boxDescriptor(name string) Descriptor {
	return Descriptor{
		Name:     name,
		Kind:     domain.KindGeometryFeature,
		Required: schema.Schema{"sides": schema.Int()},
		New: func(args map[string]any) (any, error) {
			var b box
			if err := Decode(args, &b); err != nil {
				return nil, err
			}
			return &b, nil
		},
		Properties: attr.Table{
			attr.String("geom_type", func(*box) string { return name }, nil),
		},
	}
}

func TestRegistry_LookupNormalizes(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(boxDescriptor("Square Box")))

	for _, name := range []string{"square_box", "Square Box", "square-box"} {
		d, err := r.Lookup(name)
		require.NoError(t, err, name)
		assert.Equal(t, "square_box", d.Name)
	}

	_, err := r.Lookup("circle")
	assert.ErrorIs(t, err, domain.ErrUnknownEntityKind)
}

func TestRegistry_SealedAfterLookup(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(boxDescriptor("box")))
	assert.False(t, r.Sealed())

	_, _ = r.Lookup("box")
	assert.True(t, r.Sealed())

	err := r.Register(boxDescriptor("other"))
	assert.ErrorIs(t, err, ErrSealed)
}

func TestRegistry_RejectsDuplicates(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(boxDescriptor("box")))
	assert.Error(t, r.Register(boxDescriptor("BOX")))
	assert.Panics(t, func() { r.MustRegister(boxDescriptor("box")) })
}

func TestRegistry_ResolveFamily(t *testing.T) {
	r := New()
	r.MustRegister(boxDescriptor("box"))
	r.MustRegister(Descriptor{
		Name: "geometry",
		Kind: domain.KindGeometry,
		New:  func(map[string]any) (any, error) { return struct{}{}, nil },
	})
	require.NoError(t, r.RegisterFamily(domain.KindGeometryFeature, "geom_type"))

	d, err := r.Resolve(map[string]any{"type_info": "geometry_feature", "geom_type": "box"})
	require.NoError(t, err)
	assert.Equal(t, "box", d.Name)

	d, err = r.Resolve(map[string]any{"type_info": "geometry"})
	require.NoError(t, err)
	assert.Equal(t, "geometry", d.Name)

	tests := []map[string]any{
		{},
		{"type_info": "geometry_feature"},
		{"type_info": "geometry_feature", "geom_type": "sphere"},
		{"type_info": "geometry_feature", "geom_type": "geometry"},
		{"type_info": 7},
	}
	for _, attrs := range tests {
		_, err := r.Resolve(attrs)
		assert.ErrorIs(t, err, domain.ErrUnknownEntityKind, "%v", attrs)
	}
}

func TestDescriptor_Build(t *testing.T) {
	d := boxDescriptor("box")

	e, err := d.Build(map[string]any{"sides": "4", "ignored": true})
	require.NoError(t, err)
	assert.Equal(t, 4, e.(*box).Sides)

	_, err = d.Build(map[string]any{})
	assert.ErrorIs(t, err, domain.ErrInvalidPropertyValue)

	_, err = d.Build(map[string]any{"sides": "four"})
	assert.ErrorIs(t, err, domain.ErrInvalidPropertyValue)
}

func TestDescriptors_Sorted(t *testing.T) {
	r := New()
	r.MustRegister(boxDescriptor("b"))
	r.MustRegister(boxDescriptor("a"))

	ds := r.Descriptors()
	require.Len(t, ds, 2)
	assert.Equal(t, "a", ds[0].Name)
	assert.Equal(t, "b", ds[1].Name)
}
