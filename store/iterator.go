package store

import (
	"github.com/JudioLam9/contracts-v3/lib"
	"github.com/dgraph-io/badger/v4"
)

// IteratorI interface enforcement
var _ lib.IteratorI = &Iterator{}

// Iterator is a wrapper over the badgerDB iterator that conforms to the IteratorI interface
type Iterator struct {
	parent *badger.Iterator
	log    lib.LoggerI
}

// newIterator() positions a badger iterator at the first key of the prefix, or at the
// last key when iterating in reverse
func newIterator(txn *badger.Txn, prefix []byte, reverse bool, log lib.LoggerI) *Iterator {
	parent := txn.NewIterator(badger.IteratorOptions{
		Prefix:  prefix,
		Reverse: reverse,
	})
	if reverse {
		// in reverse mode, seeking to the key after the prefix range lands on its last key
		parent.Seek(prefixEnd(prefix))
	} else {
		parent.Rewind()
	}
	return &Iterator{parent: parent, log: log}
}

// Valid() returns whether the iterator is pointing at a key of the prefix
func (i *Iterator) Valid() bool { return i.parent.Valid() }

// Next() moves the iterator to the next key
func (i *Iterator) Next() { i.parent.Next() }

// Key() returns the key the iterator is pointing at
func (i *Iterator) Key() []byte { return i.parent.Item().KeyCopy(nil) }

// Value() returns the value the iterator is pointing at
func (i *Iterator) Value() []byte {
	value, err := i.parent.Item().ValueCopy(nil)
	if err != nil {
		i.log.Error(ErrStoreGet(err).Error())
		return nil
	}
	return value
}

// Close() releases the iterator
func (i *Iterator) Close() { i.parent.Close() }

// prefixEnd() returns the first key lexicographically beyond every key with the prefix
func prefixEnd(prefix []byte) []byte {
	if len(prefix) == 0 {
		return []byte{0xff}
	}
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for len(end) != 0 {
		if end[len(end)-1] != 0xff {
			end[len(end)-1]++
			break
		}
		end = end[:len(end)-1]
	}
	return end
}
