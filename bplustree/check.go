package bplus

import (
	"errors"
	"fmt"
	"math"
)

// Check verifies the structural invariants of the tree:
//   - keys strictly ascending and at most order-1 per node
//   - len(children) == len(keys)+1 for internal nodes, == len(keys) for leaves
//   - every key lies within the separator bounds of its ancestors
//   - parent ids match the hierarchy and every arena node is reachable
//   - all leaves at the same depth
//   - the leaf chain visits every leaf once, left to right
//   - leaf locators equal their keys and the value store holds exactly the leaf keys
func (t *BPlusTree) Check() error {
	c := checker{
		tree:      t,
		leafDepth: -1,
		visited:   make(map[int64]bool, len(t.nodes)),
	}
	if t.root < 0 || t.root >= int64(len(t.nodes)) {
		return fmt.Errorf("root id %d outside arena of %d nodes", t.root, len(t.nodes))
	}
	if p := t.node(t.root).parent; p != noNode {
		return fmt.Errorf("root %d has parent %d", t.root, p)
	}
	if err := c.walk(t.root, noNode, 0, math.MinInt64, math.MaxInt64, true); err != nil {
		return err
	}
	if len(c.visited) != len(t.nodes) {
		return fmt.Errorf("%d of %d arena nodes unreachable from root", len(t.nodes)-len(c.visited), len(t.nodes))
	}
	if c.keyCount != len(t.values) {
		return fmt.Errorf("value store holds %d keys, leaves hold %d", len(t.values), c.keyCount)
	}
	return c.checkChain()
}

type checker struct {
	tree      *BPlusTree
	leafDepth int
	visited   map[int64]bool
	leaves    []int64
	keyCount  int
}

// walk checks the subtree at id, whose keys must lie in [lo, hi).
// hiOpen marks hi as unbounded so math.MaxInt64 itself stays insertable.
func (c *checker) walk(id, parent int64, depth int, lo, hi int64, hiOpen bool) error {
	t := c.tree
	if id < 0 || id >= int64(len(t.nodes)) {
		return fmt.Errorf("child id %d outside arena", id)
	}
	if c.visited[id] {
		return fmt.Errorf("node %d reachable twice", id)
	}
	c.visited[id] = true

	n := t.node(id)
	if n.id != id {
		return fmt.Errorf("arena slot %d holds node %d", id, n.id)
	}
	if n.parent != parent {
		return fmt.Errorf("node %d parent is %d, want %d", id, n.parent, parent)
	}
	if len(n.keys) > t.maxKeys() {
		return fmt.Errorf("node %d holds %d keys, max %d", id, len(n.keys), t.maxKeys())
	}
	if len(n.keys) == 0 && (id != t.root || !n.isLeaf()) {
		return fmt.Errorf("node %d has no keys", id)
	}
	for i, k := range n.keys {
		if i > 0 && n.keys[i-1] >= k {
			return fmt.Errorf("node %d keys not strictly ascending at %d", id, i)
		}
		if k < lo || (!hiOpen && k >= hi) {
			return fmt.Errorf("node %d key %d outside separator bounds", id, k)
		}
	}

	if n.isLeaf() {
		return c.leaf(n, depth)
	}

	if len(n.children) != len(n.keys)+1 {
		return fmt.Errorf("internal node %d has %d keys and %d children", id, len(n.keys), len(n.children))
	}
	for i, cid := range n.children {
		clo, chi, chiOpen := lo, hi, hiOpen
		if i > 0 {
			clo = n.keys[i-1]
		}
		if i < len(n.keys) {
			chi, chiOpen = n.keys[i], false
		}
		if err := c.walk(cid, id, depth+1, clo, chi, chiOpen); err != nil {
			return err
		}
	}
	return nil
}

func (c *checker) leaf(n *Node, depth int) error {
	if c.leafDepth == -1 {
		c.leafDepth = depth
	} else if depth != c.leafDepth {
		return fmt.Errorf("leaf %d at depth %d, others at %d", n.id, depth, c.leafDepth)
	}
	if len(n.children) != len(n.keys) {
		return fmt.Errorf("leaf %d has %d keys and %d locators", n.id, len(n.keys), len(n.children))
	}
	for i, k := range n.keys {
		if n.children[i] != k {
			return fmt.Errorf("leaf %d locator %d does not match key %d", n.id, n.children[i], k)
		}
		if _, ok := c.tree.values[k]; !ok {
			return fmt.Errorf("leaf %d key %d has no value", n.id, k)
		}
	}
	c.keyCount += len(n.keys)
	c.leaves = append(c.leaves, n.id)
	return nil
}

var errChainCycle = errors.New("leaf chain longer than leaf count")

func (c *checker) checkChain() error {
	t := c.tree
	id := c.leaves[0]
	for i := 0; ; i++ {
		if i >= len(c.leaves) {
			return errChainCycle
		}
		if id != c.leaves[i] {
			return fmt.Errorf("leaf chain position %d is node %d, want %d", i, id, c.leaves[i])
		}
		next := t.node(id).next
		if next == noNode {
			if i != len(c.leaves)-1 {
				return fmt.Errorf("leaf chain ends after %d of %d leaves", i+1, len(c.leaves))
			}
			return nil
		}
		if next < 0 || next >= int64(len(t.nodes)) {
			return fmt.Errorf("leaf %d next id %d outside arena", id, next)
		}
		id = next
	}
}
