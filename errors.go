package femtree

import "errors"

// ErrNoMeshEngine is returned by Mesh when the Engine has no mesh engine.
var ErrNoMeshEngine = errors.New("no mesh engine configured")

// ErrNoSolver is returned by Solve when the Engine has no solver.
var ErrNoSolver = errors.New("no solver configured")

// ErrUnknownTemplate is returned when a template name is not registered.
var ErrUnknownTemplate = errors.New("unknown template")
