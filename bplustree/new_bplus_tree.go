package bplus

import (
	"fmt"
	"os"
)

// NewBPlusTree creates an empty in-memory tree: a single empty root leaf.
// Save is a no-op on such a tree.
func NewBPlusTree(order int, opts ...Option) (*BPlusTree, error) {
	if order < MinOrder {
		return nil, fmt.Errorf("%w: %d (minimum %d)", ErrInvalidOrder, order, MinOrder)
	}
	o := buildOptions(opts)

	cache, err := newValueCache(o.cacheEntries)
	if err != nil {
		return nil, err
	}

	t := &BPlusTree{
		order:  order,
		values: make(map[int64]string),
		cache:  cache,
		log:    o.logger,
	}
	root := t.newNode(NodeLeaf)
	t.root = root.id
	return t, nil
}

// OpenOrCreate loads the snapshot at path, or creates an empty tree and
// writes its initial snapshot when no file exists. A file that exists but
// cannot be decoded fails with ErrCorruptSnapshot; it is never replaced.
func OpenOrCreate(path string, order int, opts ...Option) (*BPlusTree, error) {
	t, err := NewBPlusTree(order, opts...)
	if err != nil {
		return nil, err
	}

	f, existed, err := openSnapshotFile(path)
	if err != nil {
		t.cache.close()
		return nil, err
	}
	t.file = f

	if !existed {
		if err := t.Save(); err != nil {
			t.Close()
			_ = os.Remove(path)
			return nil, fmt.Errorf("OpenOrCreate: failed to write initial snapshot: %w", err)
		}
		t.log.Info("created snapshot", "path", path, "order", order)
		return t, nil
	}

	data, err := f.ReadAll()
	if err != nil {
		t.Close()
		return nil, err
	}
	if len(data) == 0 {
		t.Close()
		return nil, fmt.Errorf("OpenOrCreate: %s: %w: empty file", path, ErrCorruptSnapshot)
	}
	if err := t.decodeSnapshot(data); err != nil {
		t.Close()
		return nil, fmt.Errorf("OpenOrCreate: %s: %w", path, err)
	}

	t.log.Info("loaded snapshot", "path", path, "keys", t.Len(), "nodes", len(t.nodes), "height", t.Height())
	return t, nil
}

// Save rewrites the whole snapshot. In-memory trees have nothing to save.
func (t *BPlusTree) Save() error {
	if t.closed() {
		return ErrClosed
	}
	if t.file == nil {
		return nil
	}
	data, err := t.encodeSnapshot()
	if err != nil {
		return fmt.Errorf("Save: encode failed: %w", err)
	}
	if err := t.file.WriteAll(data); err != nil {
		return fmt.Errorf("Save: %w", err)
	}
	t.log.Debug("saved snapshot", "path", t.file.filePath, "bytes", len(data), "keys", t.Len())
	return nil
}

// Close releases the snapshot file and the value cache. The snapshot is
// already current after every Insert, so Close does not write.
func (t *BPlusTree) Close() error {
	if t.isClosed {
		return nil
	}
	t.isClosed = true

	t.cache.close()
	t.cache = nil

	if t.file == nil {
		return nil
	}
	if err := t.file.Close(); err != nil {
		return fmt.Errorf("Close: %w", err)
	}
	return nil
}

func (t *BPlusTree) closed() bool {
	return t.isClosed
}
