package domain

// Kind identifies the category of an entity in a model tree.
// Variant entities (a rectangle, an IPCS solver) share the kind of their
// family (geometry_feature, solver_feature).
type Kind string

const (
	KindModel           Kind = "model"
	KindComponent       Kind = "component"
	KindGeometry        Kind = "geometry"
	KindGeometryFeature Kind = "geometry_feature"
	KindMesh            Kind = "mesh"
	KindMeshFeature     Kind = "mesh_feature"
	KindMaterials       Kind = "materials"
	KindPhysics         Kind = "physics"
	KindPhysicsFeature  Kind = "physics_feature"
	KindStudy           Kind = "study"
	KindSolverFeature   Kind = "solver_feature"
	KindResults         Kind = "results"
	KindResultsFeature  Kind = "results_feature"
)

// String implements fmt.Stringer.
func (k Kind) String() string { return string(k) }
