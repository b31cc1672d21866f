// Structure of B+ Tree
/*
Tree
 ├── Internal Node (keys + child node ids)
 │      └── Child Internal Nodes ...
 │             └── Leaf Nodes (keys + record locators + next id)

 Value store: key -> value, kept outside the node hierarchy

- keys: strictly ascending, no duplicates
- internal nodes: len(children) == len(keys)+1
- leaf nodes: len(children) == len(keys), each child is the key used as a
  locator into the value store
- leaf nodes linked with `next` for range scans
- all leaf nodes at same depth
- nodes live in an arena; id == index, parent is stored explicitly

*/
package bplus

import (
	"log/slog"
)

type NodeType int

const (
	NodeInternal NodeType = iota
	NodeLeaf
)

func (nt NodeType) String() string {
	if nt == NodeLeaf {
		return "leaf"
	}
	return "internal"
}

const (
	MinOrder     = 3
	DefaultOrder = 6

	// noNode marks an absent parent or next link.
	noNode int64 = -1
)

type Node struct {
	id       int64
	nodeType NodeType
	keys     []int64 // keys in the node (sorted keys)
	children []int64 // internal: child ids; leaf: record locators
	next     int64   // only for leaf node
	parent   int64
}

func (n *Node) isLeaf() bool { return n.nodeType == NodeLeaf }

// BPlusTree is an ordered int64 -> string index.
//
// A BPlusTree is not safe for concurrent use. Callers that share one across
// goroutines must serialize every call, including the Save that Insert
// performs internally.
type BPlusTree struct {
	nodes  []*Node // arena, nodes[i].id == i
	root   int64
	order  int
	values map[int64]string

	file     *snapshotFile // nil for in-memory trees
	cache    *valueCache   // nil when disabled
	log      *slog.Logger
	isClosed bool
}
