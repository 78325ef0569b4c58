package tree

import "errors"

// SkipChildren can be returned by a WalkFunc to skip the subtree below a node.
var SkipChildren = errors.New("skip children")

// WalkFunc is called for every node visited by Walk, with its depth below
// the starting node.
type WalkFunc func(n *Node, depth int) error

// Walk visits n and its descendants in pre-order, children in insertion
// order. The walk stops at the first error other than SkipChildren.
func (n *Node) Walk(fn WalkFunc) error {
	return n.walk(fn, 0)
}

func (n *Node) walk(fn WalkFunc, depth int) error {
	if err := fn(n, depth); err != nil {
		if errors.Is(err, SkipChildren) {
			return nil
		}
		return err
	}
	for _, c := range n.children {
		if err := c.walk(fn, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// Size returns the number of nodes in the subtree rooted at n.
func (n *Node) Size() int {
	count := 0
	_ = n.Walk(func(*Node, int) error {
		count++
		return nil
	})
	return count
}
