package bplus

// insertIntoParent inserts sepKey and right into parent, directly after left.
// If the parent overflows, it splits and propagates upward.
func (t *BPlusTree) insertIntoParent(parent, left *Node, sepKey int64, right *Node) {
	// find index of left in parent's children
	idx := 0
	for idx < len(parent.children) && parent.children[idx] != left.id {
		idx++
	}

	// keys: insert sepKey at idx; children: insert right at idx+1
	parent.keys = insert(parent.keys, idx, sepKey)
	parent.children = insert(parent.children, idx+1, right.id)
	right.parent = parent.id

	if len(parent.keys) > t.maxKeys() {
		t.splitInternal(parent)
	}
}
