package store

import (
	"testing"

	"github.com/JudioLam9/contracts-v3/lib"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) lib.StoreI {
	db, err := NewStoreInMemory(lib.NewNullLogger())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func bulkSetKV(t *testing.T, store lib.WStoreI, prefix string, keys ...string) {
	for _, key := range keys {
		require.NoError(t, store.Set([]byte(prefix+key), []byte(key)))
	}
}

func TestStoreSetGetDelete(t *testing.T) {
	store := testStore(t)
	// a missing key reads as nil without error
	val, err := store.Get([]byte("a"))
	require.NoError(t, err)
	require.Nil(t, val)
	// a pending write reads back before commit
	require.NoError(t, store.Set([]byte("a"), []byte("1")))
	val, err = store.Get([]byte("a"))
	require.NoError(t, err)
	require.Equal(t, []byte("1"), val)
	// a pending delete reads as nil
	require.NoError(t, store.Delete([]byte("a")))
	val, err = store.Get([]byte("a"))
	require.NoError(t, err)
	require.Nil(t, val)
}

func TestStoreIterator(t *testing.T) {
	store := testStore(t)
	bulkSetKV(t, store, "0/", "c", "a", "b")
	bulkSetKV(t, store, "1/", "f", "d", "e")
	bulkSetKV(t, store, "2/", "i", "h", "g")
	// forward iteration returns the prefix keys in lexicographical order
	it, err := store.Iterator([]byte("1/"))
	require.NoError(t, err)
	expected := []string{"d", "e", "f"}
	for i := 0; it.Valid(); it.Next() {
		require.Equal(t, []byte("1/"+expected[i]), it.Key())
		require.Equal(t, []byte(expected[i]), it.Value())
		i++
	}
	it.Close()
	// reverse iteration returns the prefix keys in reverse order
	rit, err := store.RevIterator([]byte("1/"))
	require.NoError(t, err)
	for i := 0; rit.Valid(); rit.Next() {
		require.Equal(t, []byte("1/"+expected[len(expected)-1-i]), rit.Key())
		i++
	}
	rit.Close()
}

func TestStoreCommitAndVersion(t *testing.T) {
	store := testStore(t)
	require.EqualValues(t, 0, store.Version())
	require.NoError(t, store.Set([]byte("a"), []byte("1")))
	version, err := store.Commit()
	require.NoError(t, err)
	require.EqualValues(t, 1, version)
	require.EqualValues(t, 1, store.Version())
	// the committed write is visible to the next writer
	val, err := store.Get([]byte("a"))
	require.NoError(t, err)
	require.Equal(t, []byte("1"), val)
	// overwrite at the next version
	require.NoError(t, store.Set([]byte("a"), []byte("2")))
	version, err = store.Commit()
	require.NoError(t, err)
	require.EqualValues(t, 2, version)
}

func TestStoreDiscard(t *testing.T) {
	store := testStore(t)
	require.NoError(t, store.Set([]byte("a"), []byte("1")))
	store.Discard()
	// the pending write is gone after discard
	val, err := store.Get([]byte("a"))
	require.NoError(t, err)
	require.Nil(t, val)
	// the store remains usable after discard
	require.NoError(t, store.Set([]byte("b"), []byte("2")))
	_, err = store.Commit()
	require.NoError(t, err)
	val, err = store.Get([]byte("b"))
	require.NoError(t, err)
	require.Equal(t, []byte("2"), val)
}

func TestStoreHistoricalReadOnly(t *testing.T) {
	store := testStore(t)
	// version 1 holds a=1, version 2 holds a=2 and b=1
	require.NoError(t, store.Set([]byte("a"), []byte("1")))
	_, err := store.Commit()
	require.NoError(t, err)
	require.NoError(t, store.Set([]byte("a"), []byte("2")))
	require.NoError(t, store.Set([]byte("b"), []byte("1")))
	_, err = store.Commit()
	require.NoError(t, err)
	// the view at version 1 sees the old value and no b
	ro, err := store.NewReadOnly(1)
	require.NoError(t, err)
	defer ro.Discard()
	require.EqualValues(t, 1, ro.Version())
	val, err := ro.Get([]byte("a"))
	require.NoError(t, err)
	require.Equal(t, []byte("1"), val)
	val, err = ro.Get([]byte("b"))
	require.NoError(t, err)
	require.Nil(t, val)
	// the view at version 2 sees the latest values
	ro2, err := store.NewReadOnly(2)
	require.NoError(t, err)
	defer ro2.Discard()
	val, err = ro2.Get([]byte("a"))
	require.NoError(t, err)
	require.Equal(t, []byte("2"), val)
	// a view beyond the committed version is rejected
	_, err = store.NewReadOnly(3)
	require.ErrorContains(t, err, "beyond the latest committed version")
}

func TestStoreReopenPersists(t *testing.T) {
	dir := t.TempDir()
	config := lib.DefaultConfig()
	store, err := NewStore(config, dir, lib.NewNullLogger())
	require.NoError(t, err)
	require.NoError(t, store.Set([]byte("a"), []byte("1")))
	_, err = store.Commit()
	require.NoError(t, err)
	require.NoError(t, store.Close())
	// reopening the same directory restores the version and the data
	store, err = NewStore(config, dir, lib.NewNullLogger())
	require.NoError(t, err)
	defer store.Close()
	require.EqualValues(t, 1, store.Version())
	val, err := store.Get([]byte("a"))
	require.NoError(t, err)
	require.Equal(t, []byte("1"), val)
}

func TestPrefixEnd(t *testing.T) {
	tests := []struct {
		name   string
		prefix []byte
		end    []byte
	}{
		{name: "empty prefix", prefix: nil, end: []byte{0xff}},
		{name: "simple increment", prefix: []byte{0x01, 0x02}, end: []byte{0x01, 0x03}},
		{name: "trailing max byte", prefix: []byte{0x01, 0xff}, end: []byte{0x02}},
		{name: "all max bytes", prefix: []byte{0xff, 0xff}, end: []byte{}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.end, prefixEnd(test.prefix))
		})
	}
}
