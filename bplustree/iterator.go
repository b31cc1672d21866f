package bplus

// Iterator provides a forward-only scan over the leaf chain.
// It is invalidated by any Insert on the tree.
type Iterator struct {
	tree  *BPlusTree
	leaf  *Node
	index int
	valid bool
}

// SeekGE positions the iterator at the first key >= target.
func (t *BPlusTree) SeekGE(target int64) *Iterator {
	it := &Iterator{tree: t}
	leaf := t.FindLeaf(target)
	i := lowerBound(leaf.keys, target)
	// target may sort after every key in its leaf; the answer is then the
	// head of the next non-empty leaf.
	for i >= len(leaf.keys) {
		if leaf.next == noNode {
			return it
		}
		leaf = t.node(leaf.next)
		i = 0
	}
	it.leaf = leaf
	it.index = i
	it.valid = true
	return it
}

// Next advances the iterator. Returns false when exhausted.
func (it *Iterator) Next() bool {
	if !it.valid {
		return false
	}
	it.index++
	for it.index >= len(it.leaf.keys) {
		if it.leaf.next == noNode {
			it.leaf = nil
			it.valid = false
			return false
		}
		it.leaf = it.tree.node(it.leaf.next)
		it.index = 0
	}
	return true
}

func (it *Iterator) Valid() bool {
	return it.valid
}

// Key returns the current key.
func (it *Iterator) Key() int64 {
	if !it.valid {
		return 0
	}
	return it.leaf.keys[it.index]
}

// Value returns the current value, resolved through the leaf's locator.
func (it *Iterator) Value() string {
	if !it.valid {
		return ""
	}
	return it.tree.values[it.leaf.children[it.index]]
}
