package lib

/* This file contains persistence module interfaces that are used throughout the app */

// StoreI defines the interface for interacting with the versioned settlement storage
type StoreI interface {
	RWStoreI                                              // reading and writing
	Version() uint64                                      // access the committed version of the store
	NewReadOnly(version uint64) (ReadOnlyStoreI, ErrorI)  // historical read only view of the store
	Commit() (version uint64, err ErrorI)                 // save the pending writes and increment the version
	Discard()                                             // discard the pending writes
	Close() ErrorI                                        // gracefully stop the database
}

// ReadOnlyStoreI defines a read only view of the storage fixed at a version
type ReadOnlyStoreI interface {
	RStoreI
	Version() uint64 // the version this view reads at
	Discard()        // release the view when done
}

// RWStoreI defines the Read/Write interface for basic db CRUD operations
type RWStoreI interface {
	RStoreI
	WStoreI
}

// WStoreI defines an interface for basic write operations
type WStoreI interface {
	Set(key, value []byte) ErrorI // set value bytes referenced by key bytes
	Delete(key []byte) ErrorI
}

// RStoreI defines an interface for basic read operations
type RStoreI interface {
	Get(key []byte) ([]byte, ErrorI)               // access value bytes using key bytes
	Iterator(prefix []byte) (IteratorI, ErrorI)    // iterate through the data one KV pair at a time in lexicographical order
	RevIterator(prefix []byte) (IteratorI, ErrorI) // iterate through the data one KV pair at a time in reverse lexicographical order
}

// IteratorI defines an interface for iterating over key-value pairs in a data store
type IteratorI interface {
	Valid() bool           // if the item the iterator is pointing at is valid
	Next()                 // move to next item
	Key() (key []byte)     // retrieve key
	Value() (value []byte) // retrieve value
	Close()                // close the iterator when done, ensuring proper resource management
}
