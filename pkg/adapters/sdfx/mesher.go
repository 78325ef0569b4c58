// Package sdfx implements ports.MeshEngine with the github.com/deadsy/sdfx
// signed distance field library. Geometry features become SDF solids that
// are unioned and triangulated with marching cubes.
package sdfx

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/aretw0/femtree/pkg/domain"
	"github.com/aretw0/femtree/pkg/fem"
	"github.com/aretw0/femtree/pkg/ports"
	"github.com/aretw0/femtree/pkg/tree"
	"github.com/aretw0/femtree/pkg/units"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ErrEmptyGeometry is returned when a geometry has no meshable feature.
var ErrEmptyGeometry = errors.New("geometry has no meshable features")

// DefaultCells is used when Mesh is called with cells <= 0.
const DefaultCells = fem.DefaultResolution

// Mesher implements ports.MeshEngine.
type Mesher struct{}

var _ ports.MeshEngine = (*Mesher)(nil)

// New returns a new Mesher.
func New() *Mesher {
	return &Mesher{}
}

// Mesh unions the features of geometry and renders the result with cells
// marching cubes along the longest side of its bounding box.
func (m *Mesher) Mesh(ctx context.Context, geometry *tree.Node, cells int) (*ports.MeshStats, error) {
	if geometry.Kind() != domain.KindGeometry {
		return nil, fmt.Errorf("%w: %s is a %s, not a geometry", domain.ErrInvalidChildKind, geometry, geometry.Kind())
	}
	if cells <= 0 {
		cells = DefaultCells
	}

	var solids []sdf.SDF3
	for _, f := range geometry.Children() {
		s, err := Solid(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Path(), err)
		}
		if s != nil {
			solids = append(solids, s)
		}
	}
	if len(solids) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyGeometry, geometry.Path())
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	solid := solids[0]
	if len(solids) > 1 {
		solid = sdf.Union3D(solids...)
	}

	triangles := render.ToTriangles(solid, render.NewMarchingCubesUniform(cells))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vertices := make(map[v3.Vec]struct{}, len(triangles))
	for _, tri := range triangles {
		for j := 0; j < 3; j++ {
			vertices[tri[j]] = struct{}{}
		}
	}

	bb := solid.BoundingBox()
	return &ports.MeshStats{
		Triangles: len(triangles),
		Vertices:  len(vertices),
		Min:       [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z},
		Max:       [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z},
	}, nil
}

// Solid returns the SDF of a geometry feature, or nil for features that
// have no volume. Lengths are in metres. Rectangles are extruded along z by
// their shorter side; a corner radius rounds every edge of the extrusion.
func Solid(feature *tree.Node) (sdf.SDF3, error) {
	switch e := feature.Entity().(type) {
	case *fem.Rectangle:
		a, b := e.A.Value, e.B.Value
		depth := math.Min(a, b)
		round := 0.0
		if e.CornerRadius != nil {
			round = math.Min(e.CornerRadius.Value, 0.25*depth)
		}
		return box(e.X0, v3.Vec{X: a, Y: b, Z: depth}, round)
	case *fem.Block:
		return box(e.X0, v3.Vec{X: e.A.Value, Y: e.B.Value, Z: e.C.Value}, 0)
	default:
		return nil, nil
	}
}

// box places a box of the given size with its lower corner at x0.
// sdf.Box3D centers the box at the origin, so it is moved by half its size.
func box(x0 [3]units.Quantity, size v3.Vec, round float64) (sdf.SDF3, error) {
	s, err := sdf.Box3D(size, round)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidPropertyValue, err)
	}
	offset := v3.Vec{
		X: x0[0].Value + size.X/2,
		Y: x0[1].Value + size.Y/2,
		Z: x0[2].Value + size.Z/2,
	}
	return sdf.Transform3D(s, sdf.Translate3d(offset)), nil
}
