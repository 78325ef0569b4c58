package dsl_test

import (
	"errors"
	"testing"

	"github.com/aretw0/femtree/pkg/domain"
	"github.com/aretw0/femtree/pkg/dsl"
	"github.com/aretw0/femtree/pkg/fem"
	"github.com/aretw0/femtree/pkg/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Chain(t *testing.T) {
	b := dsl.New(fem.Registry(), "m")
	b.Root().
		Add(fem.TypeComponent, "comp", map[string]any{"dim": 2}).
		Add(fem.TypeGeometry, "geom", nil).
		Add(fem.TypeRectangle, "r1", map[string]any{"a": "1 m", "b": "20 cm"}).
		Up().
		Add(fem.TypeRectangle, "r2", map[string]any{"a": "1 m", "b": "1 m"}).
		Set(map[string]any{"char_length": "1 cm"}).
		Up().Up().
		Add(fem.TypeMesh, "mesh", map[string]any{"geom_tag": "geom"})

	m, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, 6, m.Size())

	geom, err := m.Component().ChildByTag("geom")
	require.NoError(t, err)
	assert.Equal(t, 2, geom.NumChildren())

	r2, err := m.FindPath("comp/geom/r2")
	require.NoError(t, err)
	assert.Equal(t, "0.01 m", r2.Snapshot()["char_length"])
	assert.Equal(t, "0.2 m", geom.Children()[0].Snapshot()["b"])
}

func TestBuilder_FirstErrorWins(t *testing.T) {
	b := dsl.New(fem.Registry(), "m")
	comp := b.Root().Add(fem.TypeComponent, "comp", map[string]any{"dim": 2})
	comp.Add(fem.TypeStudy, "bad", nil)
	comp.Add(fem.TypeGeometry, "geom", nil).Add("wormhole", "w", nil)

	_, err := b.Build()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidChildKind)
	assert.NotErrorIs(t, err, domain.ErrUnknownEntityKind)
	assert.Contains(t, err.Error(), "comp: ")
}

func TestBuilder_FailedNodesAreSkipped(t *testing.T) {
	b := dsl.New(fem.Registry(), "m")
	ghost := b.Root().Add(fem.TypeComponent, "comp", nil)
	assert.Nil(t, ghost.Node())

	called := false
	ghost.Add(fem.TypeGeometry, "geom", nil).Do(func(*tree.Node) error {
		called = true
		return nil
	})
	assert.False(t, called)
	assert.ErrorIs(t, b.Err(), domain.ErrInvalidPropertyValue)
}

func TestBuilder_Do(t *testing.T) {
	boom := errors.New("boom")
	b := dsl.New(fem.Registry(), "m")
	b.Root().
		Add(fem.TypeComponent, "comp", map[string]any{"dim": 2}).
		Do(func(n *tree.Node) error { return boom })

	_, err := b.Build()
	assert.ErrorIs(t, err, boom)
}

func TestBuilder_InvalidModelTag(t *testing.T) {
	b := dsl.New(fem.Registry(), "")
	b.Root().Add(fem.TypeStudy, "std", nil)

	m, err := b.Build()
	assert.Nil(t, m)
	assert.ErrorIs(t, err, domain.ErrInvalidTag)
}

func TestNodeBuilder_UpAtRoot(t *testing.T) {
	b := dsl.New(fem.Registry(), "m")
	root := b.Root()
	assert.Same(t, root, root.Up())
}
