package ports

import (
	"context"
	"fmt"

	"github.com/aretw0/femtree/pkg/document"
	"github.com/aretw0/femtree/pkg/tree"
)

// MeshStats summarizes a generated surface mesh.
type MeshStats struct {
	Triangles int        `json:"triangles"`
	Vertices  int        `json:"vertices"`
	Min       [3]float64 `json:"min"`
	Max       [3]float64 `json:"max"`
}

func (s MeshStats) String() string {
	return fmt.Sprintf("%d triangles, %d vertices, bounds %v..%v", s.Triangles, s.Vertices, s.Min, s.Max)
}

// MeshEngine generates a mesh for a geometry node and its features. cells
// is the number of cells along the longest side of the geometry.
type MeshEngine interface {
	Mesh(ctx context.Context, geometry *tree.Node, cells int) (*MeshStats, error)
}

// Solver runs a study. It receives the study subtree verbatim and the
// document of the whole model it belongs to.
type Solver interface {
	Solve(ctx context.Context, model, study *document.Document) error
}
