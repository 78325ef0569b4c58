package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/femtree/internal/validator"
	"github.com/aretw0/femtree/pkg/domain"
	"github.com/aretw0/femtree/pkg/fem"
	"github.com/aretw0/femtree/pkg/tree"
)

// Overlay marks nodes of the drawn tree.
type Overlay struct {
	// Selected is the path of the highlighted node.
	Selected string
	// Issues paint the nodes they name as invalid.
	Issues []validator.Issue
}

// GenerateMermaid produces a Mermaid flowchart of the tree below root.
// Shapes follow the kind:
// - Model: ((Circle))
// - Features (geometry, mesh, physics, solver, results): [[Subroutine]]
// - Containers: [Rectangle]
// Parent links are solid arrows. The geom_tag and physics_tag references
// are dotted arrows labelled with the attribute.
func GenerateMermaid(root *tree.Node, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	ids := make(map[*tree.Node]string)
	physics := make(map[string]*tree.Node)
	_ = root.Walk(func(n *tree.Node, _ int) error {
		ids[n] = fmt.Sprintf("n%d", len(ids))
		if n.Kind() == domain.KindPhysics {
			if _, ok := physics[n.Tag()]; !ok {
				physics[n.Tag()] = n
			}
		}
		return nil
	})

	var refs []string
	_ = root.Walk(func(n *tree.Node, _ int) error {
		id := ids[n]
		opener, closer := shape(n.Kind())
		fmt.Fprintf(&sb, "    %s%s\"%s<br/><small>%s</small>\"%s\n", id, opener, escape(n.Tag()), n.Name(), closer)
		if n != root {
			fmt.Fprintf(&sb, "    %s --> %s\n", ids[n.Parent()], id)
		}

		switch e := n.Entity().(type) {
		case *fem.Mesh:
			if e.GeomTag != "" && n.Parent() != nil {
				if g, err := n.Parent().ChildByTag(e.GeomTag); err == nil && g.Kind() == domain.KindGeometry {
					refs = append(refs, fmt.Sprintf("    %s -. geom_tag .-> %s\n", id, ids[g]))
				}
			}
		case *fem.Study:
			if p, ok := physics[e.PhysicsTag]; ok {
				refs = append(refs, fmt.Sprintf("    %s -. physics_tag .-> %s\n", id, ids[p]))
			}
		}
		return nil
	})
	for _, r := range refs {
		sb.WriteString(r)
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef invalid fill:#ffebee,stroke:#c62828,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef selected fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, issue := range overlay.Issues {
			n, err := root.FindPath(issue.Path)
			if err != nil || seen[ids[n]] {
				continue
			}
			seen[ids[n]] = true
			fmt.Fprintf(&sb, "    class %s invalid;\n", ids[n])
		}
		if overlay.Selected != "" {
			if n, err := root.FindPath(overlay.Selected); err == nil {
				fmt.Fprintf(&sb, "    class %s selected;\n", ids[n])
			}
		}
	}

	return sb.String()
}

func shape(k domain.Kind) (string, string) {
	switch k {
	case domain.KindModel:
		return "((", "))"
	case domain.KindGeometryFeature, domain.KindMeshFeature, domain.KindPhysicsFeature,
		domain.KindSolverFeature, domain.KindResultsFeature:
		return "[[", "]]"
	default:
		return "[", "]"
	}
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "#quot;")
}
