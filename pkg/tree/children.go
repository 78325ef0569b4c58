package tree

import (
	"fmt"
	"slices"

	"github.com/aretw0/femtree/pkg/domain"
)

// AddChild appends child to the children of n.
func (n *Node) AddChild(child *Node) error {
	return n.attach(len(n.children), child)
}

// InsertChild places child at pos, shifting later children right.
// pos may equal the number of children.
func (n *Node) InsertChild(pos int, child *Node) error {
	if pos < 0 || pos > len(n.children) {
		return fmt.Errorf("%w: insert at %d, %d children", domain.ErrIndexOutOfRange, pos, len(n.children))
	}
	return n.attach(pos, child)
}

// RemoveChild detaches the child at pos and returns it. The returned subtree
// is intact and may be attached elsewhere.
func (n *Node) RemoveChild(pos int) (*Node, error) {
	if pos < 0 || pos >= len(n.children) {
		return nil, fmt.Errorf("%w: remove at %d, %d children", domain.ErrIndexOutOfRange, pos, len(n.children))
	}
	child := n.children[pos]
	n.children = slices.Delete(n.children, pos, pos+1)
	child.parent = nil
	return child, nil
}

// CheckChild reports whether child could be attached beneath n without
// attaching it.
func (n *Node) CheckChild(child *Node) error {
	if child == nil {
		return fmt.Errorf("%w: nil child", domain.ErrInvalidChildKind)
	}
	if child.parent != nil {
		return fmt.Errorf("%w: %s is a child of %s", domain.ErrAlreadyAttached, child, child.parent)
	}
	for a := n; a != nil; a = a.parent {
		if a == child {
			return fmt.Errorf("%w: %s", domain.ErrCycle, child)
		}
	}
	if !n.desc.Accepts(child.Kind()) {
		return fmt.Errorf("%w: %s does not accept %s", domain.ErrInvalidChildKind, n, child.Kind())
	}
	if child.tag == n.tag {
		return fmt.Errorf("%w: %q is the parent's tag", domain.ErrDuplicateTag, child.tag)
	}
	for _, s := range n.children {
		if s.tag == child.tag {
			return fmt.Errorf("%w: %q already used under %q", domain.ErrDuplicateTag, child.tag, n.tag)
		}
	}
	return nil
}

func (n *Node) attach(pos int, child *Node) error {
	if err := n.CheckChild(child); err != nil {
		return err
	}
	n.children = slices.Insert(n.children, pos, child)
	child.parent = n
	return nil
}

// ChildByTag returns the child carrying tag.
func (n *Node) ChildByTag(tag string) (*Node, error) {
	for _, c := range n.children {
		if c.tag == tag {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: %q under %q", domain.ErrUnknownTag, tag, n.tag)
}

// ChildByKind returns the first child of kind, restricted to tag when one
// is given. It returns nil when nothing matches.
func (n *Node) ChildByKind(kind domain.Kind, tag ...string) *Node {
	for _, c := range n.children {
		if c.Kind() != kind {
			continue
		}
		if len(tag) > 0 && tag[0] != "" && c.tag != tag[0] {
			continue
		}
		return c
	}
	return nil
}

// ChildrenByKind returns every child of kind in order.
func (n *Node) ChildrenByKind(kind domain.Kind) []*Node {
	var out []*Node
	for _, c := range n.children {
		if c.Kind() == kind {
			out = append(out, c)
		}
	}
	return out
}

// Row returns the index of n among its parent's children. ok is false for
// a root.
func (n *Node) Row() (row int, ok bool) {
	if n.parent == nil {
		return 0, false
	}
	for i, c := range n.parent.children {
		if c == n {
			return i, true
		}
	}
	return 0, false
}

// TypeCount returns how many children are of kind.
func (n *Node) TypeCount(kind domain.Kind) int {
	count := 0
	for _, c := range n.children {
		if c.Kind() == kind {
			count++
		}
	}
	return count
}
