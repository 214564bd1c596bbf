package engine

import "tradedocs/api/internal/docmodel"

// findParent locates target's parent node and its child index, or nil when
// target is the root or not in the tree.
func findParent(root, target *docmodel.Node) (*docmodel.Node, int) {
	var parent *docmodel.Node
	index := -1
	var walk func(n *docmodel.Node) bool
	walk = func(n *docmodel.Node) bool {
		for i, c := range n.Children {
			if c == target {
				parent, index = n, i
				return true
			}
			if walk(c) {
				return true
			}
		}
		return false
	}
	walk(root)
	return parent, index
}

// removeChild drops the child at index i, preserving order.
func removeChild(parent *docmodel.Node, i int) {
	parent.Children = append(parent.Children[:i], parent.Children[i+1:]...)
}

// insertChild places child at index i, shifting later siblings right.
func insertChild(parent *docmodel.Node, i int, child *docmodel.Node) {
	parent.Children = append(parent.Children, nil)
	copy(parent.Children[i+1:], parent.Children[i:])
	parent.Children[i] = child
}
