// Package fem registers the entity kinds of a finite element model.
//
// A model holds components, studies and results. A component holds its
// geometry, mesh, materials and physics; a study holds solver features and
// results hold results features. Feature families (geometry, mesh, physics,
// solver and results features) are told apart in documents by a
// discriminator attribute such as "geom_type".
//
// Registry returns a sealed process-wide registry with every kind;
// NewRegistry builds an independent one.
package fem
