package femtree

import _ "embed"

// Version is the release of the femtree module.
//
//go:embed VERSION
var Version string
