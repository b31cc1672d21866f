// Tree inspection for debugging.
// Use Inspect(w) to print a human-readable dump of the node hierarchy.

package bplus

import (
	"fmt"
	"io"
	"strings"

	"github.com/xlab/treeprint"
)

// Inspect writes a summary line, the node hierarchy, and the leaf chain to w.
func (t *BPlusTree) Inspect(w io.Writer) error {
	p := func(format string, args ...interface{}) { fmt.Fprintf(w, format, args...) }

	p("order=%d keys=%d nodes=%d height=%d root=%d\n", t.order, t.Len(), len(t.nodes), t.Height(), t.root)

	tree := treeprint.NewWithRoot(t.describe(t.node(t.root)))
	t.addChildren(tree, t.node(t.root))
	if _, err := io.WriteString(w, tree.String()); err != nil {
		return err
	}

	p("leaf chain:")
	for leaf := t.leftmostLeaf(); ; leaf = t.node(leaf.next) {
		p(" [%d]", leaf.id)
		if leaf.next == noNode {
			break
		}
	}
	p("\n")
	return nil
}

func (t *BPlusTree) addChildren(branch treeprint.Tree, n *Node) {
	if n.isLeaf() {
		return
	}
	for _, cid := range n.children {
		child := t.node(cid)
		if child.isLeaf() {
			branch.AddNode(t.describe(child))
			continue
		}
		t.addChildren(branch.AddBranch(t.describe(child)), child)
	}
}

func (t *BPlusTree) describe(n *Node) string {
	kind := strings.ToUpper(n.nodeType.String())
	if n.isLeaf() {
		return fmt.Sprintf("%s [%d] keys=%v next=%d", kind, n.id, n.keys, n.next)
	}
	return fmt.Sprintf("%s [%d] keys=%v children=%v", kind, n.id, n.keys, n.children)
}
