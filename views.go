package femtree

import (
	"github.com/aretw0/femtree/pkg/registry"
	"github.com/aretw0/femtree/pkg/tree"
)

// NodeView is the read model of a node handed to bindings.
type NodeView struct {
	Tag        string         `json:"tag"`
	Kind       string         `json:"kind"`
	Name       string         `json:"name"`
	Path       string         `json:"path"`
	Row        int            `json:"row"`
	Attributes map[string]any `json:"attributes"`
	Children   []string       `json:"children"`
}

// View builds the NodeView of n. The root has row -1.
func View(n *tree.Node) *NodeView {
	row, ok := n.Row()
	if !ok {
		row = -1
	}
	children := make([]string, 0, n.NumChildren())
	for _, c := range n.Children() {
		children = append(children, c.Tag())
	}
	return &NodeView{
		Tag:        n.Tag(),
		Kind:       n.Kind().String(),
		Name:       n.Name(),
		Path:       n.Path(),
		Row:        row,
		Attributes: n.Snapshot(),
		Children:   children,
	}
}

// PropertyInfo describes one attribute of a kind.
type PropertyInfo struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	ReadOnly bool   `json:"read_only,omitempty"`
}

// KindInfo describes a registered entity type.
type KindInfo struct {
	Name       string            `json:"name"`
	Kind       string            `json:"kind"`
	Summary    string            `json:"summary,omitempty"`
	Children   []string          `json:"children"`
	Required   map[string]string `json:"required,omitempty"`
	Properties []PropertyInfo    `json:"properties"`
}

func kindInfo(d *registry.Descriptor) KindInfo {
	info := KindInfo{
		Name:       d.Name,
		Kind:       d.Kind.String(),
		Summary:    d.Summary,
		Children:   make([]string, 0, len(d.Children)),
		Properties: make([]PropertyInfo, 0, len(d.Properties)),
	}
	for _, k := range d.Children {
		info.Children = append(info.Children, k.String())
	}
	info.Required = d.Required.Describe()
	for _, p := range d.Properties {
		info.Properties = append(info.Properties, PropertyInfo{Name: p.Name, Type: p.Type.Name(), ReadOnly: p.ReadOnly})
	}
	return info
}
