package viewmodel

// Node is a hierarchy node. A node without children is a leaf carrying Value.
type Node struct {
	Name     string  `json:"name" yaml:"name"`
	Value    int     `json:"value,omitempty" yaml:"value,omitempty"`
	Children []*Node `json:"children,omitempty" yaml:"children,omitempty"`
}

// NewNode returns an internal node with no children yet.
func NewNode(name string) *Node {
	return &Node{Name: name}
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return n == nil || len(n.Children) == 0
}

// Child returns the direct child with the given name, or nil.
func (n *Node) Child(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Ensure returns the named child, appending it when missing.
func (n *Node) Ensure(name string) *Node {
	if c := n.Child(name); c != nil {
		return c
	}
	c := NewNode(name)
	n.Children = append(n.Children, c)
	return c
}

// Total sums leaf values below n.
func (n *Node) Total() int {
	if n == nil {
		return 0
	}
	if n.IsLeaf() {
		return n.Value
	}
	total := 0
	for _, c := range n.Children {
		total += c.Total()
	}
	return total
}

// Leaves counts leaf nodes below n.
func (n *Node) Leaves() int {
	if n == nil {
		return 0
	}
	if n.IsLeaf() {
		return 1
	}
	count := 0
	for _, c := range n.Children {
		count += c.Leaves()
	}
	return count
}

// Walk visits n and its descendants depth-first with their depth (root is 0).
// Returning false from fn skips the node's children.
func (n *Node) Walk(fn func(node *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(node *Node, depth int) bool, depth int) {
	if n == nil {
		return
	}
	if !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}

// Clone returns a deep copy of the subtree.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{Name: n.Name, Value: n.Value}
	if len(n.Children) > 0 {
		out.Children = make([]*Node, len(n.Children))
		for i, c := range n.Children {
			out.Children[i] = c.Clone()
		}
	}
	return out
}
