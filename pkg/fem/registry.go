package fem

import (
	"github.com/aretw0/femtree/pkg/domain"
	"github.com/aretw0/femtree/pkg/registry"
)

// Registry names of the concrete entity types.
const (
	TypeModel       = "model"
	TypeComponent   = "component"
	TypeGeometry    = "geometry"
	TypeRectangle   = "rectangle"
	TypeBlock       = "block"
	TypeMesh        = "mesh"
	TypeElementSize = "element_size"
	TypeMaterials   = "materials"
	TypePhysics     = "physics"
	TypeLaminarFlow = "laminar_flow"
	TypeStudy       = "study"
	TypeIpcs        = "ipcs"
	TypeResults     = "results"
	TypeLinePlot    = "line_plot"
)

// Discriminator attributes of the feature families.
const (
	KeyGeomType    = "geom_type"
	KeyMeshType    = "mesh_type"
	KeyPhysics     = "physics"
	KeySolverType  = "solver_type"
	KeyResultsType = "results_type"
)

var families = map[domain.Kind]string{
	domain.KindGeometryFeature: KeyGeomType,
	domain.KindMeshFeature:     KeyMeshType,
	domain.KindPhysicsFeature:  KeyPhysics,
	domain.KindSolverFeature:   KeySolverType,
	domain.KindResultsFeature:  KeyResultsType,
}

var defaultRegistry = NewRegistry()

// Registry returns the process-wide registry of fem kinds.
func Registry() *registry.Registry {
	return defaultRegistry
}

// NewRegistry returns a registry holding every fem kind. It stays open for
// further registrations until its first lookup.
func NewRegistry() *registry.Registry {
	r := registry.New()
	Register(r)
	return r
}

// Register adds every fem kind to r.
func Register(r *registry.Registry) {
	for kind, key := range families {
		if err := r.RegisterFamily(kind, key); err != nil {
			panic(err)
		}
	}
	for _, d := range []registry.Descriptor{
		modelDescriptor(),
		componentDescriptor(),
		geometryDescriptor(),
		rectangleDescriptor(),
		blockDescriptor(),
		meshDescriptor(),
		elementSizeDescriptor(),
		materialsDescriptor(),
		physicsDescriptor(),
		laminarFlowDescriptor(),
		studyDescriptor(),
		ipcsDescriptor(),
		resultsDescriptor(),
		linePlotDescriptor(),
	} {
		r.MustRegister(d)
	}
}

func container[T any](map[string]any) (any, error) {
	return new(T), nil
}
