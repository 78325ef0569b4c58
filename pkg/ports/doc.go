/*
Package ports defines the driven ports (interfaces) of the femtree engine.

These interfaces decouple the model tree from external implementations, so the
engine works with various storage backends, lock services and numerical
engines.

# Key Interfaces

  - ProjectStore: persists project documents by name.
  - DistributedLocker: serializes mutations of a project across replicas.
  - MeshEngine: turns a geometry subtree into a mesh.
  - Solver: receives a study document at solve time.
*/
package ports
