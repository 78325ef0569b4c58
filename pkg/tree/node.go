package tree

import (
	"fmt"
	"strings"

	"github.com/aretw0/femtree/pkg/domain"
	"github.com/aretw0/femtree/pkg/registry"
)

// Node is an element of a model tree.
type Node struct {
	tag      string
	desc     *registry.Descriptor
	reg      *registry.Registry
	entity   any
	parent   *Node // not owned
	children []*Node
}

// NewNode builds a detached node of the type registered under name.
// Constructor arguments required by the descriptor are taken from args;
// the remaining entries that name settable properties are applied afterwards.
func NewNode(reg *registry.Registry, name, tag string, args map[string]any) (*Node, error) {
	if err := ValidateTag(tag); err != nil {
		return nil, err
	}
	desc, err := reg.Lookup(name)
	if err != nil {
		return nil, err
	}
	entity, err := desc.Build(args)
	if err != nil {
		return nil, err
	}
	n := &Node{tag: tag, desc: desc, reg: reg, entity: entity}
	if err := n.Apply(args); err != nil {
		return nil, err
	}
	return n, nil
}

// Tag returns the node's tag.
func (n *Node) Tag() string { return n.tag }

// Kind returns the node's kind.
func (n *Node) Kind() domain.Kind { return n.desc.Kind }

// Name returns the registry name the node was built from.
func (n *Node) Name() string { return n.desc.Name }

// Descriptor returns the registry descriptor of the node.
func (n *Node) Descriptor() *registry.Descriptor { return n.desc }

// Registry returns the registry the node resolves children with.
func (n *Node) Registry() *registry.Registry { return n.reg }

// Entity returns the kind specific payload.
func (n *Node) Entity() any { return n.entity }

// Parent returns the parent node, or nil for a root.
func (n *Node) Parent() *Node { return n.parent }

// Root walks parents up to the root.
func (n *Node) Root() *Node {
	for n.parent != nil {
		n = n.parent
	}
	return n
}

// Children returns a copy of the ordered children list.
func (n *Node) Children() []*Node {
	return append([]*Node(nil), n.children...)
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int { return len(n.children) }

// Child returns the child at pos.
func (n *Node) Child(pos int) (*Node, error) {
	if pos < 0 || pos >= len(n.children) {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", domain.ErrIndexOutOfRange, pos, len(n.children))
	}
	return n.children[pos], nil
}

// Accepts reports whether kind may be added beneath n.
func (n *Node) Accepts(kind domain.Kind) bool { return n.desc.Accepts(kind) }

// SetTag renames the node. The new tag must stay unique among its siblings,
// differ from the parent's tag and from the tags of its own children.
func (n *Node) SetTag(tag string) error {
	if tag == n.tag {
		return nil
	}
	if err := ValidateTag(tag); err != nil {
		return err
	}
	if p := n.parent; p != nil {
		if tag == p.tag {
			return fmt.Errorf("%w: %q is the parent's tag", domain.ErrDuplicateTag, tag)
		}
		for _, s := range p.children {
			if s != n && s.tag == tag {
				return fmt.Errorf("%w: %q already used under %q", domain.ErrDuplicateTag, tag, p.tag)
			}
		}
	}
	for _, c := range n.children {
		if c.tag == tag {
			return fmt.Errorf("%w: %q is the tag of a child", domain.ErrDuplicateTag, tag)
		}
	}
	n.tag = tag
	return nil
}

// Snapshot returns the node's attributes.
func (n *Node) Snapshot() map[string]any {
	return n.desc.Properties.Snapshot(n.entity)
}

// Apply writes attributes onto the node's payload; see attr.Table.Apply.
func (n *Node) Apply(values map[string]any) error {
	if err := n.desc.Properties.Apply(n.entity, values); err != nil {
		return fmt.Errorf("%s %q: %w", n.desc.Name, n.tag, err)
	}
	return nil
}

// Path returns the tags from the root's first child down to n, joined by
// PathSeparator. The root's path is empty.
func (n *Node) Path() string {
	var tags []string
	for cur := n; cur.parent != nil; cur = cur.parent {
		tags = append(tags, cur.tag)
	}
	for i, j := 0, len(tags)-1; i < j; i, j = i+1, j-1 {
		tags[i], tags[j] = tags[j], tags[i]
	}
	return strings.Join(tags, PathSeparator)
}

// FindPath resolves a path relative to n. Empty segments are ignored, so
// "", "/" and "comp1/" are all accepted.
func (n *Node) FindPath(path string) (*Node, error) {
	cur := n
	for _, seg := range strings.Split(path, PathSeparator) {
		if seg == "" {
			continue
		}
		next, err := cur.ChildByTag(seg)
		if err != nil {
			return nil, fmt.Errorf("path %q: %w", path, err)
		}
		cur = next
	}
	return cur, nil
}

// EntityAs returns the payload of n as T.
func EntityAs[T any](n *Node) (T, bool) {
	e, ok := n.entity.(T)
	return e, ok
}

func (n *Node) String() string {
	return fmt.Sprintf("%s(%s)", n.desc.Name, n.tag)
}
