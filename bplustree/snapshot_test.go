package bplus

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yudai/gojsondiff"
)

func snapshotPath(t *testing.T) string {
	return filepath.Join(t.TempDir(), "tree.json")
}

func TestOpenOrCreateWritesInitialSnapshot(t *testing.T) {
	path := snapshotPath(t)
	tree, err := OpenOrCreate(path, 4)
	require.NoError(t, err)
	require.NoError(t, tree.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.EqualValues(t, snapshotVersion, doc["version"])
	assert.Contains(t, doc, "root")
	assert.Contains(t, doc, "data")

	reopened, err := OpenOrCreate(path, 4)
	require.NoError(t, err)
	defer reopened.Close()
	assert.Equal(t, 0, reopened.Len())
}

func TestSnapshotRoundTrip(t *testing.T) {
	for _, order := range []int{4, 5, 6} {
		path := snapshotPath(t)
		tree, err := OpenOrCreate(path, order)
		require.NoError(t, err)

		// interleave to exercise splits in the middle of the chain
		for i := int64(0); i < 30; i++ {
			insertKeys(t, tree, 2*i+1, 120-2*i)
		}
		require.Greater(t, tree.Height(), 2, "order %d should need several levels", order)

		before, err := tree.encodeSnapshot()
		require.NoError(t, err)
		wantKeys := tree.Keys()
		wantRange := tree.GetRange(-1, 200)
		require.NoError(t, tree.Close())

		loaded, err := OpenOrCreate(path, order)
		require.NoError(t, err)

		assert.Equal(t, wantKeys, loaded.Keys(), "leaf chain must be rebuilt on load")
		assert.Equal(t, wantRange, loaded.GetRange(-1, 200))
		assert.Equal(t, tree.GetRange(17, 83), loaded.GetRange(17, 83))
		for _, k := range wantKeys {
			v, ok := loaded.Search(k)
			require.True(t, ok)
			assert.Equal(t, value(k), v)
		}
		require.NoError(t, loaded.Check())

		after, err := loaded.encodeSnapshot()
		require.NoError(t, err)
		diff, err := gojsondiff.New().Compare(before, after)
		require.NoError(t, err)
		assert.False(t, diff.Modified(), "re-encoded snapshot differs for order %d", order)

		// the reloaded tree keeps accepting inserts
		require.NoError(t, loaded.Insert(1000, "tail"))
		require.NoError(t, loaded.Check())
		require.NoError(t, loaded.Close())
	}
}

func TestInsertPersistsSynchronously(t *testing.T) {
	path := snapshotPath(t)
	tree, err := OpenOrCreate(path, 4)
	require.NoError(t, err)
	defer tree.Close()

	insertKeys(t, tree, seq(1, 12)...)

	// a second reader sees every insert without Close on the writer
	reader, err := OpenOrCreate(path, 4)
	require.NoError(t, err)
	defer reader.Close()
	assert.Equal(t, values(seq(1, 12)...), reader.GetRange(1, 12))
}

func TestInsertSurfacesWriteFailure(t *testing.T) {
	path := snapshotPath(t)
	tree, err := OpenOrCreate(path, 4)
	require.NoError(t, err)
	defer tree.Close()
	insertKeys(t, tree, 1, 2)

	// pull the handle out from under the tree
	require.NoError(t, tree.file.file.Close())

	err = tree.Insert(3, "three")
	require.Error(t, err)

	v, ok := tree.Search(3)
	require.True(t, ok, "failed save does not roll back the insert")
	assert.Equal(t, "three", v)
}

func TestClosedTreeRejectsWrites(t *testing.T) {
	tree, err := OpenOrCreate(snapshotPath(t), 4)
	require.NoError(t, err)
	require.NoError(t, tree.Close())
	require.NoError(t, tree.Close(), "Close is idempotent")

	assert.ErrorIs(t, tree.Insert(1, "x"), ErrClosed)
	assert.ErrorIs(t, tree.Save(), ErrClosed)
}

func TestOpenOrCreateOrderMismatch(t *testing.T) {
	path := snapshotPath(t)
	tree, err := OpenOrCreate(path, 4)
	require.NoError(t, err)
	insertKeys(t, tree, 1, 2, 3)
	require.NoError(t, tree.Close())

	_, err = OpenOrCreate(path, 6)
	assert.ErrorIs(t, err, ErrOrderMismatch)
}

func TestOpenOrCreateInvalidOrder(t *testing.T) {
	path := snapshotPath(t)
	_, err := OpenOrCreate(path, 2)
	require.ErrorIs(t, err, ErrInvalidOrder)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "no file is created for a rejected order")
}

func TestLoadLegacyUnversionedSnapshot(t *testing.T) {
	tests := []struct {
		name     string
		children string
	}{
		{"pointers", "pointers"},
		{"children", "children"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := snapshotPath(t)
			legacy := strings.ReplaceAll(`{"root": {"keys": [3], "pointers": [
				{"keys": [1, 2], "pointers": [1, 2], "is_leaf": true},
				{"keys": [3, 4], "pointers": [3, 4], "is_leaf": true}], "is_leaf": false},
				"data": {"1": "value_1", "2": "value_2", "3": "value_3", "4": "value_4"}}`,
				"pointers", tc.children)
			require.NoError(t, os.WriteFile(path, []byte(legacy), 0644))

			tree, err := OpenOrCreate(path, 4)
			require.NoError(t, err)
			defer tree.Close()

			assert.Equal(t, values(1, 2, 3, 4), tree.GetRange(1, 4))
			assert.Equal(t, 2, leafCount(tree))
			require.NoError(t, tree.Check())
		})
	}
}

func TestVersionedSnapshotIgnoresPointers(t *testing.T) {
	path := snapshotPath(t)
	body := `{"version":1,"root":{"is_leaf":true,"keys":[1],"pointers":[1]},"data":{"1":"a"}}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	_, err := OpenOrCreate(path, 4)
	assert.ErrorIs(t, err, ErrCorruptSnapshot)
}

func TestInsertRejectsInvalidUTF8(t *testing.T) {
	path := snapshotPath(t)
	tree, err := OpenOrCreate(path, 4)
	require.NoError(t, err)

	err = tree.Insert(1, "\xff\xfebin")
	require.ErrorIs(t, err, ErrInvalidValue)
	_, ok := tree.Search(1)
	assert.False(t, ok, "rejected value is not stored")
	assert.Equal(t, 0, tree.Len())

	// valid multi-byte and control characters survive a reload unchanged
	text := "h\u00e9llo\x00\u4e16\u754c\n\"quoted\""
	require.NoError(t, tree.Insert(2, text))
	require.NoError(t, tree.Close())

	reopened, err := OpenOrCreate(path, 4)
	require.NoError(t, err)
	defer reopened.Close()
	v, ok := reopened.Search(2)
	require.True(t, ok)
	assert.Equal(t, text, v)
	assert.Equal(t, 1, reopened.Len())
}

func TestLoadCorruptSnapshot(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty file", ``},
		{"truncated", `{"version":1,"order":4,"root":{"is_leaf":true,`},
		{"not json", `hello`},
		{"missing root", `{"version":1,"data":{}}`},
		{"missing data", `{"version":1,"root":{"is_leaf":true,"keys":[],"children":[]}}`},
		{"missing is_leaf", `{"root":{"keys":[],"children":[]},"data":{}}`},
		{"missing keys", `{"root":{"is_leaf":true,"children":[]},"data":{}}`},
		{"missing children", `{"root":{"is_leaf":true,"keys":[]},"data":{}}`},
		{"future version", `{"version":99,"root":{"is_leaf":true,"keys":[],"children":[]},"data":{}}`},
		{"bad data key", `{"root":{"is_leaf":true,"keys":[],"children":[]},"data":{"x":"y"}}`},
		{"unsorted keys", `{"root":{"is_leaf":true,"keys":[2,1],"children":[2,1]},"data":{"1":"a","2":"b"}}`},
		{"leaf key without value", `{"root":{"is_leaf":true,"keys":[1,2],"children":[1,2]},"data":{"1":"a"}}`},
		{"orphan value", `{"root":{"is_leaf":true,"keys":[1],"children":[1]},"data":{"1":"a","2":"b"}}`},
		{"locator mismatch", `{"root":{"is_leaf":true,"keys":[1],"children":[7]},"data":{"1":"a"}}`},
		{"overfull node", `{"root":{"is_leaf":true,"keys":[1,2,3,4],"children":[1,2,3,4]},"data":{"1":"a","2":"b","3":"c","4":"d"}}`},
		{"child count", `{"root":{"is_leaf":false,"keys":[3],"children":[
			{"is_leaf":true,"keys":[1],"children":[1]}]},"data":{"1":"a"}}`},
		{"uneven depth", `{"root":{"is_leaf":false,"keys":[3],"children":[
			{"is_leaf":true,"keys":[1],"children":[1]},
			{"is_leaf":false,"keys":[5],"children":[
				{"is_leaf":true,"keys":[3],"children":[3]},
				{"is_leaf":true,"keys":[5],"children":[5]}]}]},
			"data":{"1":"a","3":"b","5":"c"}}`},
		{"key outside separator", `{"root":{"is_leaf":false,"keys":[3],"children":[
			{"is_leaf":true,"keys":[1,4],"children":[1,4]},
			{"is_leaf":true,"keys":[5],"children":[5]}]},"data":{"1":"a","4":"b","5":"c"}}`},
		{"leaf children wrong type", `{"root":{"is_leaf":true,"keys":[1],"children":[{"a":1}]},"data":{"1":"a"}}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := snapshotPath(t)
			require.NoError(t, os.WriteFile(path, []byte(tc.body), 0644))

			_, err := OpenOrCreate(path, 4)
			require.ErrorIs(t, err, ErrCorruptSnapshot)

			raw, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tc.body, string(raw), "a corrupt snapshot is left untouched")
		})
	}
}
