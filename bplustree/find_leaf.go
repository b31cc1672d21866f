package bplus

// FindLeaf descends from the root to the leaf whose key range covers key.
// The key need not be present. At each internal node the first child whose
// separator is strictly greater than key is taken, else the last child.
func (t *BPlusTree) FindLeaf(key int64) *Node {
	n := t.node(t.root)
	for !n.isLeaf() {
		i := upperBound(n.keys, key)
		if i >= len(n.children) {
			i = len(n.children) - 1
		}
		n = t.node(n.children[i])
	}
	return n
}

// leftmostLeaf follows first children down to the head of the leaf chain.
func (t *BPlusTree) leftmostLeaf() *Node {
	n := t.node(t.root)
	for !n.isLeaf() {
		n = t.node(n.children[0])
	}
	return n
}
