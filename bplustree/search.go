package bplus

// Search returns the value stored under key. A key missing from the leaf
// FindLeaf selects is absent from the tree; no sibling leaves are probed.
func (t *BPlusTree) Search(key int64) (string, bool) {
	if v, ok := t.cache.get(key); ok {
		return v, true
	}

	leaf := t.FindLeaf(key)
	if binarySearch(leaf.keys, key) == -1 {
		return "", false
	}
	v := t.values[key]
	t.cache.put(key, v)
	return v, true
}

// GetRange returns the values of every key in [start, end] in ascending key
// order. An inverted or empty range yields an empty slice.
func (t *BPlusTree) GetRange(start, end int64) []string {
	out := make([]string, 0)
	if start > end {
		return out
	}
	for it := t.SeekGE(start); it.Valid(); it.Next() {
		if it.Key() > end {
			break
		}
		out = append(out, it.Value())
	}
	return out
}

// Keys returns every key in ascending order by walking the leaf chain.
func (t *BPlusTree) Keys() []int64 {
	keys := make([]int64, 0, len(t.values))
	for leaf := t.leftmostLeaf(); ; leaf = t.node(leaf.next) {
		keys = append(keys, leaf.keys...)
		if leaf.next == noNode {
			break
		}
	}
	return keys
}

// Len returns the number of distinct keys.
func (t *BPlusTree) Len() int {
	return len(t.values)
}

// Height returns the number of levels; a lone root leaf has height 1.
func (t *BPlusTree) Height() int {
	h := 1
	for n := t.node(t.root); !n.isLeaf(); n = t.node(n.children[0]) {
		h++
	}
	return h
}

func (t *BPlusTree) Order() int {
	return t.order
}
