package tree

import (
	"fmt"

	"github.com/aretw0/femtree/pkg/domain"
	"github.com/aretw0/femtree/pkg/registry"
)

// ModelTree is a tree whose root is a model node.
type ModelTree struct {
	*Node
}

// NewModelTree creates an empty model.
func NewModelTree(reg *registry.Registry, tag string) (*ModelTree, error) {
	root, err := NewNode(reg, string(domain.KindModel), tag, nil)
	if err != nil {
		return nil, err
	}
	return &ModelTree{Node: root}, nil
}

// AsModelTree wraps a detached model node.
func AsModelTree(root *Node) (*ModelTree, error) {
	if root == nil || root.Kind() != domain.KindModel {
		return nil, fmt.Errorf("%w: root is not a model", domain.ErrMalformedDocument)
	}
	if root.Parent() != nil {
		return nil, fmt.Errorf("%w: model %q has a parent", domain.ErrMalformedDocument, root.Tag())
	}
	return &ModelTree{Node: root}, nil
}

// Component returns the component with tag, or the first component when no
// tag is given.
func (m *ModelTree) Component(tag ...string) *Node {
	return m.ChildByKind(domain.KindComponent, tag...)
}

// Study returns the study with tag, or the first study.
func (m *ModelTree) Study(tag ...string) *Node {
	return m.ChildByKind(domain.KindStudy, tag...)
}

// Results returns the results node with tag, or the first one.
func (m *ModelTree) Results(tag ...string) *Node {
	return m.ChildByKind(domain.KindResults, tag...)
}
