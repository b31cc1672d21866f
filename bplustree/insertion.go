package bplus

import (
	"fmt"
	"unicode/utf8"
)

// Insert upserts key -> value and persists the whole tree when the tree is
// file-backed. If the save fails the in-memory tree keeps the change; the
// returned error means index and snapshot disagree until the next Save.
// Values must be valid UTF-8; others are rejected with ErrInvalidValue and
// leave the tree untouched.
func (t *BPlusTree) Insert(key int64, value string) error {
	if t.closed() {
		return ErrClosed
	}
	if !utf8.ValidString(value) {
		return fmt.Errorf("Insert: key %d: %w", key, ErrInvalidValue)
	}

	leaf := t.FindLeaf(key)
	if idx := binarySearch(leaf.keys, key); idx != -1 {
		// Key exists — update value in place, tree shape unchanged.
		t.values[key] = value
		t.cache.invalidate(key)
	} else {
		// Insert key/locator in sorted position.
		pos := lowerBound(leaf.keys, key)
		leaf.keys = insert(leaf.keys, pos, key)
		leaf.children = insert(leaf.children, pos, key)
		t.values[key] = value

		if len(leaf.keys) > t.maxKeys() {
			t.splitLeaf(leaf)
		}
	}

	if err := t.Save(); err != nil {
		return fmt.Errorf("Insert: key %d applied in memory but not persisted: %w", key, err)
	}
	return nil
}
