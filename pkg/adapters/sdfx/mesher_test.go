package sdfx_test

import (
	"context"
	"testing"

	"github.com/aretw0/femtree/pkg/adapters/sdfx"
	"github.com/aretw0/femtree/pkg/domain"
	"github.com/aretw0/femtree/pkg/fem"
	"github.com/aretw0/femtree/pkg/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func geometry(t *testing.T) *tree.Node {
	t.Helper()
	m, err := tree.NewModelTree(fem.Registry(), "m")
	require.NoError(t, err)
	comp, err := m.Create(fem.TypeComponent, "comp", map[string]any{"dim": 3})
	require.NoError(t, err)
	geom, err := comp.Create(fem.TypeGeometry, "geom", nil)
	require.NoError(t, err)
	return geom
}

func TestMesher_Rectangle(t *testing.T) {
	geom := geometry(t)
	_, err := geom.Create(fem.TypeRectangle, "r1", map[string]any{
		"x0": "1 m, 2 m, 0 m",
		"a":  "4 m",
		"b":  "2 m",
	})
	require.NoError(t, err)

	stats, err := sdfx.New().Mesh(context.Background(), geom, 20)
	require.NoError(t, err)

	assert.Positive(t, stats.Triangles)
	assert.Positive(t, stats.Vertices)
	assert.InDeltaSlice(t, []float64{1, 2, 0}, stats.Min[:], 1e-9)
	assert.InDeltaSlice(t, []float64{5, 4, 2}, stats.Max[:], 1e-9)
	assert.Contains(t, stats.String(), "triangles")
}

func TestMesher_UnionOfBlocks(t *testing.T) {
	geom := geometry(t)
	_, err := geom.Create(fem.TypeBlock, "b1", nil)
	require.NoError(t, err)
	_, err = geom.Create(fem.TypeBlock, "b2", map[string]any{"x0": "2 m, 0 m, 0 m"})
	require.NoError(t, err)

	stats, err := sdfx.New().Mesh(context.Background(), geom, 0)
	require.NoError(t, err)
	assert.Positive(t, stats.Triangles)
	assert.InDeltaSlice(t, []float64{0, 0, 0}, stats.Min[:], 1e-9)
	assert.InDeltaSlice(t, []float64{3, 1, 1}, stats.Max[:], 1e-9)
}

func TestMesher_Errors(t *testing.T) {
	geom := geometry(t)
	ctx := context.Background()

	_, err := sdfx.New().Mesh(ctx, geom, 10)
	assert.ErrorIs(t, err, sdfx.ErrEmptyGeometry)

	_, err = sdfx.New().Mesh(ctx, geom.Parent(), 10)
	assert.ErrorIs(t, err, domain.ErrInvalidChildKind)

	_, err = geom.Create(fem.TypeBlock, "b1", nil)
	require.NoError(t, err)
	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = sdfx.New().Mesh(canceled, geom, 10)
	assert.ErrorIs(t, err, context.Canceled)
}
