package bplus

import (
	"encoding/json"
	"fmt"
	"strconv"
)

/*
Snapshot layout (JSON):

	{
	  "version": 1,
	  "order":   4,
	  "root": {
	    "is_leaf":  false,
	    "keys":     [5],
	    "children": [ {node}, {node} ]      internal: nested node records
	  },
	  "data": { "1": "value_1", ... }       key -> value, keys in decimal
	}

A leaf's "children" are its keys again, used as locators into "data".
The leaf chain is not stored; it is rebuilt by a left-to-right pass over the
leaves after the hierarchy is restored. A missing "version" is read as the
legacy unversioned layout, which names the child list "pointers"; a missing
"order" is read as the caller's order.
*/

const snapshotVersion = 1

type snapshotDoc struct {
	Version int               `json:"version"`
	Order   int               `json:"order,omitempty"`
	Root    *nodeRecord       `json:"root"`
	Data    map[string]string `json:"data"`
}

type nodeRecord struct {
	IsLeaf   *bool           `json:"is_leaf"`
	Keys     []int64         `json:"keys"`
	Children json.RawMessage `json:"children"`
	Pointers json.RawMessage `json:"pointers,omitempty"` // legacy name for children
}

// encodeSnapshot serializes the node hierarchy and the value store.
func (t *BPlusTree) encodeSnapshot() ([]byte, error) {
	root, err := t.recordOf(t.node(t.root))
	if err != nil {
		return nil, err
	}
	data := make(map[string]string, len(t.values))
	for k, v := range t.values {
		data[strconv.FormatInt(k, 10)] = v
	}
	return json.Marshal(&snapshotDoc{
		Version: snapshotVersion,
		Order:   t.order,
		Root:    root,
		Data:    data,
	})
}

func (t *BPlusTree) recordOf(n *Node) (*nodeRecord, error) {
	isLeaf := n.isLeaf()
	rec := &nodeRecord{
		IsLeaf: &isLeaf,
		Keys:   append(make([]int64, 0, len(n.keys)), n.keys...),
	}

	var children any
	if isLeaf {
		children = append(make([]int64, 0, len(n.children)), n.children...)
	} else {
		kids := make([]*nodeRecord, 0, len(n.children))
		for _, cid := range n.children {
			kid, err := t.recordOf(t.node(cid))
			if err != nil {
				return nil, err
			}
			kids = append(kids, kid)
		}
		children = kids
	}

	raw, err := json.Marshal(children)
	if err != nil {
		return nil, fmt.Errorf("encode node %d children: %w", n.id, err)
	}
	rec.Children = raw
	return rec, nil
}

// decodeSnapshot replaces the tree's contents with the snapshot in data.
// Every failure is reported as ErrCorruptSnapshot, except an order that
// disagrees with the tree's configured order.
func (t *BPlusTree) decodeSnapshot(data []byte) error {
	var doc snapshotDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	if doc.Version < 0 || doc.Version > snapshotVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrCorruptSnapshot, doc.Version)
	}
	if doc.Order != 0 && doc.Order != t.order {
		return fmt.Errorf("%w: snapshot has order %d, tree wants %d", ErrOrderMismatch, doc.Order, t.order)
	}
	if doc.Root == nil {
		return fmt.Errorf("%w: missing root", ErrCorruptSnapshot)
	}
	if doc.Data == nil {
		return fmt.Errorf("%w: missing data", ErrCorruptSnapshot)
	}

	values := make(map[int64]string, len(doc.Data))
	for ks, v := range doc.Data {
		k, err := strconv.ParseInt(ks, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: data key %q: %v", ErrCorruptSnapshot, ks, err)
		}
		values[k] = v
	}

	t.nodes = t.nodes[:0]
	root, err := t.restoreNode(doc.Root, noNode, doc.Version == 0)
	if err != nil {
		return err
	}
	t.root = root.id
	t.values = values
	t.relinkLeaves()

	if err := t.Check(); err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	return nil
}

func (t *BPlusTree) restoreNode(rec *nodeRecord, parent int64, legacy bool) (*Node, error) {
	if legacy && rec != nil && rec.Children == nil {
		rec.Children = rec.Pointers
	}
	switch {
	case rec == nil:
		return nil, fmt.Errorf("%w: null node record", ErrCorruptSnapshot)
	case rec.IsLeaf == nil:
		return nil, fmt.Errorf("%w: node missing is_leaf", ErrCorruptSnapshot)
	case rec.Keys == nil:
		return nil, fmt.Errorf("%w: node missing keys", ErrCorruptSnapshot)
	case rec.Children == nil:
		return nil, fmt.Errorf("%w: node missing children", ErrCorruptSnapshot)
	}

	nodeType := NodeInternal
	if *rec.IsLeaf {
		nodeType = NodeLeaf
	}
	n := t.newNode(nodeType)
	n.parent = parent
	n.keys = append(n.keys, rec.Keys...)

	if n.isLeaf() {
		var locators []int64
		if err := json.Unmarshal(rec.Children, &locators); err != nil {
			return nil, fmt.Errorf("%w: leaf %d children: %v", ErrCorruptSnapshot, n.id, err)
		}
		n.children = append(n.children, locators...)
		return n, nil
	}

	var kids []*nodeRecord
	if err := json.Unmarshal(rec.Children, &kids); err != nil {
		return nil, fmt.Errorf("%w: internal %d children: %v", ErrCorruptSnapshot, n.id, err)
	}
	for _, kid := range kids {
		child, err := t.restoreNode(kid, n.id, legacy)
		if err != nil {
			return nil, err
		}
		n.children = append(n.children, child.id)
	}
	return n, nil
}

// relinkLeaves rebuilds the leaf chain in left-to-right order.
func (t *BPlusTree) relinkLeaves() {
	var prev *Node
	var walk func(n *Node)
	walk = func(n *Node) {
		if n.isLeaf() {
			if prev != nil {
				prev.next = n.id
			}
			n.next = noNode
			prev = n
			return
		}
		for _, cid := range n.children {
			walk(t.node(cid))
		}
	}
	walk(t.node(t.root))
}
