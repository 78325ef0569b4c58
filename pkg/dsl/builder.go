package dsl

import (
	"fmt"

	"github.com/aretw0/femtree/pkg/registry"
	"github.com/aretw0/femtree/pkg/tree"
)

// Builder manages the tree construction.
type Builder struct {
	model *tree.ModelTree
	err   error
	root  *NodeBuilder
}

// New creates a builder whose root is a model tagged tag.
func New(reg *registry.Registry, tag string) *Builder {
	b := &Builder{}
	model, err := tree.NewModelTree(reg, tag)
	if err != nil {
		b.err = fmt.Errorf("model %q: %w", tag, err)
	}
	b.model = model
	if model != nil {
		b.root = &NodeBuilder{node: model.Node, builder: b}
	} else {
		b.root = &NodeBuilder{builder: b}
	}
	return b
}

// Root returns the builder of the model node.
func (b *Builder) Root() *NodeBuilder {
	return b.root
}

// Err returns the first error recorded so far.
func (b *Builder) Err() error {
	return b.err
}

// Build returns the model, or the first error met while building it.
func (b *Builder) Build() (*tree.ModelTree, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.model, nil
}

func (b *Builder) fail(n *tree.Node, err error) {
	if b.err != nil {
		return
	}
	where := "<root>"
	if n != nil && n.Path() != "" {
		where = n.Path()
	}
	b.err = fmt.Errorf("%s: %w", where, err)
}
