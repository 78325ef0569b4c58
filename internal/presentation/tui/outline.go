package tui

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/femtree/pkg/domain"
	"github.com/aretw0/femtree/pkg/tree"
)

// Outline renders the tree below root as a markdown bullet list. Each entry
// shows the tag, the entity type and, when attrs is set, the attribute values.
func Outline(root *tree.Node, attrs bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n`%s`", root.Tag(), root.Name())
	if attrs {
		if s := inline(root.Snapshot()); s != "" {
			fmt.Fprintf(&sb, ": %s", s)
		}
	}
	sb.WriteString("\n\n")

	_ = root.Walk(func(n *tree.Node, depth int) error {
		if n == root {
			return nil
		}
		fmt.Fprintf(&sb, "%s- **%s** _%s_", strings.Repeat("  ", depth-1), n.Tag(), n.Name())
		if attrs {
			if s := inline(n.Snapshot()); s != "" {
				fmt.Fprintf(&sb, ": %s", s)
			}
		}
		sb.WriteString("\n")
		return nil
	})
	return sb.String()
}

// Details renders the attributes of n as a markdown table.
func Details(n *tree.Node) string {
	var sb strings.Builder
	path := n.Path()
	if path == "" {
		path = "/"
	}
	fmt.Fprintf(&sb, "## %s\n\n", path)
	fmt.Fprintf(&sb, "- type: `%s`\n- kind: `%s`\n", n.Name(), n.Kind())
	if row, ok := n.Row(); ok {
		fmt.Fprintf(&sb, "- row: %d\n", row)
	}
	if n.NumChildren() > 0 {
		tags := make([]string, 0, n.NumChildren())
		for _, c := range n.Children() {
			tags = append(tags, c.Tag())
		}
		fmt.Fprintf(&sb, "- children: %s\n", strings.Join(tags, ", "))
	}

	snap := n.Snapshot()
	sb.WriteString("\n| attribute | value |\n|---|---|\n")
	for _, k := range keys(snap) {
		fmt.Fprintf(&sb, "| %s | %s |\n", k, strings.ReplaceAll(format(snap[k]), "|", "\\|"))
	}
	return sb.String()
}

func inline(snap map[string]any) string {
	var parts []string
	for _, k := range keys(snap) {
		if snap[k] == nil {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=`%s`", k, format(snap[k])))
	}
	return strings.Join(parts, ", ")
}

// keys sorts the attribute names, leaving out the tag and the registry name.
func keys(snap map[string]any) []string {
	out := make([]string, 0, len(snap))
	for k := range snap {
		if k == domain.KeyTag || k == domain.KeyTypeInfo {
			continue
		}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func format(v any) string {
	switch v := v.(type) {
	case nil:
		return "None"
	case string:
		return v
	case bool, int, int64, float64:
		return fmt.Sprint(v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(data)
	}
}
