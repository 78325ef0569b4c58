/*
Package domain contains the core vocabulary shared by every femtree package.

It defines the entity kinds a model tree is made of, the document keys used
when a tree is serialized, the error taxonomy, and the lifecycle events
emitted while projects are loaded, mutated and saved. The package is kept
free of I/O and third-party dependencies.

# Key Entities

  - Kind: The category of an entity (component, geometry, study, ...). Kinds
    decide which children a node accepts.
  - Errors: Sentinel values matched with errors.Is by callers.
  - LifecycleHooks: Callbacks fired by the workspace for observability.
*/
package domain
