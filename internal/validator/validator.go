// Package validator checks the cross references of a model tree that the
// tree itself cannot enforce: tags stored as attributes must name existing
// nodes, and features must fit the dimension of their component.
package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/femtree/pkg/domain"
	"github.com/aretw0/femtree/pkg/fem"
	"github.com/aretw0/femtree/pkg/tree"
)

// ErrInvalidModel is returned by Check when Validate finds issues.
var ErrInvalidModel = errors.New("invalid model")

// Issue is a problem found at a node.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	path := i.Path
	if path == "" {
		path = "/"
	}
	return path + ": " + i.Message
}

// Validate walks m and returns every issue found, in tree order.
func Validate(m *tree.ModelTree) []Issue {
	var issues []Issue
	report := func(n *tree.Node, format string, args ...any) {
		issues = append(issues, Issue{Path: n.Path(), Message: fmt.Sprintf(format, args...)})
	}

	physics := physicsTags(m)
	_ = m.Walk(func(n *tree.Node, _ int) error {
		switch e := n.Entity().(type) {
		case *fem.Component:
			checkComponent(n, e, report)
		case *fem.Mesh:
			checkMesh(n, e, report)
		case *fem.ElementSize:
			if e.MinSize != nil && e.MaxSize != nil && e.MinSize.Value > e.MaxSize.Value {
				report(n, "min_size %s exceeds max_size %s", e.MinSize, e.MaxSize)
			}
		case *fem.Materials:
			for _, name := range e.Names() {
				if strings.TrimSpace(e.Domains[name].Selection) == "" {
					report(n, "material %q has no selection", name)
				}
			}
		case *fem.Study:
			switch {
			case e.PhysicsTag == "":
				report(n, "physics_tag is not set")
			case !physics[e.PhysicsTag]:
				report(n, "physics_tag %q names no physics node", e.PhysicsTag)
			}
			if n.NumChildren() == 0 {
				report(n, "study has no solver")
			}
		}
		return nil
	})
	return issues
}

// Check is like Validate but folds the issues into one error wrapping
// ErrInvalidModel.
func Check(m *tree.ModelTree) error {
	issues := Validate(m)
	if len(issues) == 0 {
		return nil
	}
	lines := make([]string, len(issues))
	for i, issue := range issues {
		lines[i] = issue.String()
	}
	return fmt.Errorf("%w: found %d issues:\n- %s", ErrInvalidModel, len(issues), strings.Join(lines, "\n- "))
}

func physicsTags(m *tree.ModelTree) map[string]bool {
	tags := make(map[string]bool)
	for _, comp := range m.ChildrenByKind(domain.KindComponent) {
		for _, p := range comp.ChildrenByKind(domain.KindPhysics) {
			tags[p.Tag()] = true
		}
	}
	return tags
}

type reporter func(n *tree.Node, format string, args ...any)

func checkComponent(n *tree.Node, c *fem.Component, report reporter) {
	geometry := -1
	for i, child := range n.Children() {
		switch child.Kind() {
		case domain.KindGeometry:
			if geometry < 0 {
				geometry = i
			}
			checkFeatures(child, c.Dim, report)
		case domain.KindMesh:
			if geometry < 0 {
				report(child, "mesh precedes any geometry of its component")
			}
		}
	}
	if c.IsAxi && c.Dim != 2 {
		report(n, "axisymmetric components must be 2D, got dim %d", c.Dim)
	}
}

func checkFeatures(geometry *tree.Node, dim int, report reporter) {
	for _, f := range geometry.Children() {
		switch f.Entity().(type) {
		case *fem.Rectangle:
			if dim < 2 {
				report(f, "rectangle needs a 2D or 3D component, got dim %d", dim)
			}
		case *fem.Block:
			if dim != 3 {
				report(f, "block needs a 3D component, got dim %d", dim)
			}
		}
	}
}

func checkMesh(n *tree.Node, m *fem.Mesh, report reporter) {
	if m.GeomTag == "" {
		report(n, "geom_tag is not set")
		return
	}
	parent := n.Parent()
	if parent == nil {
		return
	}
	target := parent.ChildByKind(domain.KindGeometry, m.GeomTag)
	if target == nil {
		report(n, "geom_tag %q names no geometry of the component", m.GeomTag)
	}
}
