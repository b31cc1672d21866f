package bplus

// newNode appends an empty node of the given type to the arena.
// Nodes are never removed; the id stays valid for the life of the tree.
func (t *BPlusTree) newNode(nodeType NodeType) *Node {
	n := &Node{
		id:       int64(len(t.nodes)),
		nodeType: nodeType,
		keys:     make([]int64, 0, t.order),
		children: make([]int64, 0, t.order+1),
		next:     noNode,
		parent:   noNode,
	}
	t.nodes = append(t.nodes, n)
	return n
}

// node resolves an arena id. Ids handed out by newNode are always valid.
func (t *BPlusTree) node(id int64) *Node {
	return t.nodes[id]
}

func (t *BPlusTree) maxKeys() int {
	return t.order - 1
}
