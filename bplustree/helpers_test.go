package bplus

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestTree(t *testing.T, order int, opts ...Option) *BPlusTree {
	t.Helper()
	tree, err := NewBPlusTree(order, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tree.Close() })
	return tree
}

func value(i int64) string {
	return fmt.Sprintf("value_%d", i)
}

func insertKeys(t *testing.T, tree *BPlusTree, keys ...int64) {
	t.Helper()
	for _, k := range keys {
		require.NoError(t, tree.Insert(k, value(k)))
	}
}

func seq(from, to int64) []int64 {
	out := make([]int64, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}

func values(keys ...int64) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, value(k))
	}
	return out
}

// leafCount walks the leaf chain from the leftmost leaf.
func leafCount(tree *BPlusTree) int {
	n := 0
	for leaf := tree.leftmostLeaf(); ; leaf = tree.node(leaf.next) {
		n++
		if leaf.next == noNode {
			return n
		}
	}
}
