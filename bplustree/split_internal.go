package bplus

// splitInternal splits an overfull internal node and promotes the middle key.
// Unlike a leaf split the promoted key leaves the node entirely.
func (t *BPlusTree) splitInternal(node *Node) {
	// mid is the index of the key to promote
	mid := len(node.keys) / 2
	promoteKey := node.keys[mid]

	right := t.newNode(NodeInternal)
	// keys: left keeps [0:mid), promote key[mid], right gets (mid, end]
	// children: left keeps [0:mid], right gets [mid+1:]
	right.keys = append(right.keys, node.keys[mid+1:]...)
	right.children = append(right.children, node.children[mid+1:]...)
	right.parent = node.parent

	// update parent pointers for children moved to right
	for _, cid := range right.children {
		t.node(cid).parent = right.id
	}

	node.keys = node.keys[:mid]
	node.children = node.children[:mid+1]

	t.log.Debug("split internal", "node", node.id, "sibling", right.id, "promoted", promoteKey)

	parent, ok := t.parentOf(node)
	if !ok {
		t.createNewRoot(node, promoteKey, right)
		return
	}
	t.insertIntoParent(parent, node, promoteKey, right)
}
