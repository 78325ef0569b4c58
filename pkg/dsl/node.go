package dsl

import "github.com/aretw0/femtree/pkg/tree"

// NodeBuilder provides a fluent API for configuring a node.
type NodeBuilder struct {
	node    *tree.Node
	parent  *NodeBuilder
	builder *Builder
}

// Node returns the node being built, or nil after a failure.
func (n *NodeBuilder) Node() *tree.Node {
	return n.node
}

// Add creates a child of the type registered under name and returns its builder.
func (n *NodeBuilder) Add(name, tag string, args map[string]any) *NodeBuilder {
	child := &NodeBuilder{parent: n, builder: n.builder}
	if n.builder.err != nil || n.node == nil {
		return child
	}
	c, err := n.node.Create(name, tag, args)
	if err != nil {
		n.builder.fail(n.node, err)
		return child
	}
	child.node = c
	return child
}

// Set applies attributes to the node.
func (n *NodeBuilder) Set(values map[string]any) *NodeBuilder {
	if n.builder.err != nil || n.node == nil {
		return n
	}
	if err := n.node.Apply(values); err != nil {
		n.builder.fail(n.node, err)
	}
	return n
}

// Do runs fn on the node, for configuration the attribute protocol cannot express.
func (n *NodeBuilder) Do(fn func(*tree.Node) error) *NodeBuilder {
	if n.builder.err != nil || n.node == nil {
		return n
	}
	if err := fn(n.node); err != nil {
		n.builder.fail(n.node, err)
	}
	return n
}

// Up returns the builder of the parent node. The root is its own parent.
func (n *NodeBuilder) Up() *NodeBuilder {
	if n.parent == nil {
		return n
	}
	return n.parent
}
