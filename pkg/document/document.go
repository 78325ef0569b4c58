// Package document converts model trees to and from their serialized form.
//
// A Document mirrors the tree: each node becomes an object holding its
// attributes (the node snapshot plus "tag" and "type_info") and the ordered
// list of its children. Documents are stored as a zip archive with a single
// JSON entry, or exported as plain JSON or YAML.
package document

import (
	"fmt"

	"github.com/aretw0/femtree/pkg/domain"
	"github.com/aretw0/femtree/pkg/registry"
	"github.com/aretw0/femtree/pkg/tree"
)

// Document is the serialized form of a node and its subtree.
type Document struct {
	Attributes map[string]any `json:"attributes" yaml:"attributes"`
	Children   []*Document    `json:"children" yaml:"children"`
}

// Tag returns the tag attribute, or "" when missing.
func (d *Document) Tag() string {
	tag, _ := d.Attributes[domain.KeyTag].(string)
	return tag
}

// TypeInfo returns the type_info attribute, or "" when missing.
func (d *Document) TypeInfo() string {
	ti, _ := d.Attributes[domain.KeyTypeInfo].(string)
	return ti
}

// Count returns the number of nodes in the document.
func (d *Document) Count() int {
	if d == nil {
		return 0
	}
	n := 1
	for _, c := range d.Children {
		n += c.Count()
	}
	return n
}

// Write serializes root and its subtree in pre-order.
func Write(root *tree.Node) *Document {
	attrs := root.Snapshot()
	attrs[domain.KeyTag] = root.Tag()

	typeInfo := root.Name()
	if key, family := root.Registry().Discriminator(root.Kind()); family {
		typeInfo = string(root.Kind())
		attrs[key] = root.Name()
	}
	attrs[domain.KeyTypeInfo] = typeInfo

	doc := &Document{Attributes: attrs, Children: make([]*Document, 0, root.NumChildren())}
	for _, c := range root.Children() {
		doc.Children = append(doc.Children, Write(c))
	}
	return doc
}

// Read rebuilds a detached tree from doc. Nothing is returned when any node
// fails; the error wraps domain.ErrMalformedDocument and names the
// offending node.
func Read(reg *registry.Registry, doc *Document) (*tree.Node, error) {
	return read(reg, doc, "")
}

// ReadModel is like Read but requires a model at the root.
func ReadModel(reg *registry.Registry, doc *Document) (*tree.ModelTree, error) {
	root, err := Read(reg, doc)
	if err != nil {
		return nil, err
	}
	return tree.AsModelTree(root)
}

func read(reg *registry.Registry, doc *Document, parentPath string) (*tree.Node, error) {
	where := parentPath
	if doc == nil || doc.Attributes == nil {
		return nil, fmt.Errorf("%w: %s: node without attributes", domain.ErrMalformedDocument, orRoot(where))
	}

	tag, ok := doc.Attributes[domain.KeyTag].(string)
	if !ok {
		return nil, fmt.Errorf("%w: %s: missing %q", domain.ErrMalformedDocument, orRoot(where), domain.KeyTag)
	}
	if parentPath != "" {
		where = parentPath + tree.PathSeparator + tag
	} else {
		where = tag
	}

	desc, err := reg.Resolve(doc.Attributes)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrMalformedDocument, where, err)
	}
	n, err := tree.NewNode(reg, desc.Name, tag, doc.Attributes)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrMalformedDocument, where, err)
	}

	for _, c := range doc.Children {
		child, err := read(reg, c, where)
		if err != nil {
			return nil, err
		}
		if err := n.AddChild(child); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrMalformedDocument, where, err)
		}
	}
	return n, nil
}

func orRoot(path string) string {
	if path == "" {
		return "<root>"
	}
	return path
}
