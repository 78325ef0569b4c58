package tree

// Create builds a child of the type registered under name and appends it.
// When any step fails the child is discarded and n is unchanged.
func (n *Node) Create(name, tag string, args map[string]any) (*Node, error) {
	return n.CreateAt(len(n.children), name, tag, args)
}

// CreateAt is like Create but inserts the child at pos.
func (n *Node) CreateAt(pos int, name, tag string, args map[string]any) (*Node, error) {
	child, err := NewNode(n.reg, name, tag, args)
	if err != nil {
		return nil, err
	}
	if err := n.InsertChild(pos, child); err != nil {
		return nil, err
	}
	return child, nil
}
