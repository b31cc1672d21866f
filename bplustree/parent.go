package bplus

// parentOf returns the parent of n, or false when n is the root.
// Parents are tracked explicitly on every node, so no search is needed; a
// sibling fresh out of a split already carries its future parent's id.
func (t *BPlusTree) parentOf(n *Node) (*Node, bool) {
	if n.parent == noNode || n.id == t.root {
		return nil, false
	}
	return t.node(n.parent), true
}
