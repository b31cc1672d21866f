package bplus

// splitLeaf moves the upper half of an overfull leaf into a new right
// sibling and copies the sibling's first key up into the parent.
func (t *BPlusTree) splitLeaf(leaf *Node) {
	mid := len(leaf.keys) / 2

	right := t.newNode(NodeLeaf)
	right.keys = append(right.keys, leaf.keys[mid:]...)
	right.children = append(right.children, leaf.children[mid:]...)
	right.next = leaf.next // right inherits leaf's old next pointer
	right.parent = leaf.parent

	leaf.keys = leaf.keys[:mid]
	leaf.children = leaf.children[:mid]
	leaf.next = right.id

	sepKey := right.keys[0]
	t.log.Debug("split leaf", "node", leaf.id, "sibling", right.id, "separator", sepKey)

	parent, ok := t.parentOf(leaf)
	if !ok {
		t.createNewRoot(leaf, sepKey, right)
		return
	}
	t.insertIntoParent(parent, leaf, sepKey, right)
}
