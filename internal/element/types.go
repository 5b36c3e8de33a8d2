package element

import "strings"

// Element is a single selectable website element
type Element struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
	Type string `yaml:"type" json:"type"`
	URL  string `yaml:"url,omitempty" json:"url,omitempty"`
}

// HasURL reports whether the element carries a URL
func (e Element) HasURL() bool {
	return e.URL != ""
}

// SearchText returns the string the sidebar filter matches against
func (e Element) SearchText() string {
	parts := []string{e.Name, e.Type}
	if e.HasURL() {
		parts = append(parts, e.URL)
	}
	return strings.Join(parts, " ")
}

// Node is an element with ordered children
type Node struct {
	Element  `yaml:",inline"`
	Children []*Node `yaml:"children,omitempty" json:"children,omitempty"`
}

// IsLeaf reports whether the node has no children
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Tree is the ordered forest of elements shown in the sidebar
type Tree struct {
	Roots []*Node `yaml:"elements" json:"elements"`
}

// WalkFunc is called for every node with its depth. Returning false skips the node's children.
type WalkFunc func(node *Node, depth int) bool

// Walk visits nodes depth-first in document order
func (t *Tree) Walk(fn WalkFunc) {
	if t == nil {
		return
	}
	for _, root := range t.Roots {
		walk(root, 0, fn)
	}
}

func walk(node *Node, depth int, fn WalkFunc) {
	if !fn(node, depth) {
		return
	}
	for _, child := range node.Children {
		walk(child, depth+1, fn)
	}
}

// Find returns the node with the given id
func (t *Tree) Find(id string) (*Node, bool) {
	var found *Node
	t.Walk(func(node *Node, _ int) bool {
		if found != nil {
			return false
		}
		if node.ID == id {
			found = node
			return false
		}
		return true
	})
	return found, found != nil
}

// Len returns the total number of nodes
func (t *Tree) Len() int {
	count := 0
	t.Walk(func(*Node, int) bool {
		count++
		return true
	})
	return count
}

// Elements returns every element in document order
func (t *Tree) Elements() []Element {
	elements := make([]Element, 0, t.Len())
	t.Walk(func(node *Node, _ int) bool {
		elements = append(elements, node.Element)
		return true
	})
	return elements
}
