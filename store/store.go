package store

import (
	"math"
	"path/filepath"
	"sync"

	"github.com/JudioLam9/contracts-v3/lib"
	"github.com/dgraph-io/badger/v4"
)

var _ lib.StoreI = &Store{} // enforce the StoreI interface

/*
The Store is a versioned key value layer over a single BadgerDB instance running in
managed mode, where the application assigns the commit timestamps. Each Commit()
writes the pending batch at version+1, so every historical version of the state
remains readable through NewReadOnly(). The settlement engine processes deposits
and withdrawals against the working writer and commits once the operation is fully
applied, keeping each settlement atomic.
*/

type Store struct {
	version uint64      // the last committed version
	db      *badger.DB  // the underlying badger instance in managed mode
	writer  *badger.Txn // the working read-write transaction for the next version
	log     lib.LoggerI // logger
	config  lib.Config  // config
	mu      sync.Mutex  // mutex for concurrent commits
}

// New() creates a new instance of a StoreI either in memory or an actual disk DB
func New(config lib.Config, log lib.LoggerI) (lib.StoreI, lib.ErrorI) {
	if config.StoreConfig.InMemory {
		return NewStoreInMemory(log)
	}
	return NewStore(config, filepath.Join(config.DataDirPath, config.DBName), log)
}

// NewStore() creates a new instance of a disk DB
func NewStore(config lib.Config, path string, log lib.LoggerI) (lib.StoreI, lib.ErrorI) {
	// all versions are kept so historical views stay readable
	db, err := badger.OpenManaged(badger.DefaultOptions(path).
		WithNumVersionsToKeep(math.MaxInt64).
		WithLogger(nil))
	if err != nil {
		return nil, ErrOpenDB(err)
	}
	return NewStoreWithDB(config, db, log)
}

// NewStoreInMemory() creates a new instance of a mem DB
func NewStoreInMemory(log lib.LoggerI) (lib.StoreI, lib.ErrorI) {
	db, err := badger.OpenManaged(badger.DefaultOptions("").
		WithInMemory(true).
		WithNumVersionsToKeep(math.MaxInt64).
		WithLogger(nil))
	if err != nil {
		return nil, ErrOpenDB(err)
	}
	return NewStoreWithDB(lib.DefaultConfig(), db, log)
}

// NewStoreWithDB() returns a Store object given a DB and a logger
func NewStoreWithDB(config lib.Config, db *badger.DB, log lib.LoggerI) (*Store, lib.ErrorI) {
	// the latest assigned commit timestamp is the committed version
	version := db.MaxVersion()
	return &Store{
		version: version,
		db:      db,
		writer:  db.NewTransactionAt(version, true),
		log:     log,
		config:  config,
	}, nil
}

// Get() retrieves the value associated with the key, nil when the key is absent
func (s *Store) Get(key []byte) ([]byte, lib.ErrorI) {
	return txnGet(s.writer, key)
}

// Set() stages the key-value pair in the working writer
func (s *Store) Set(key, value []byte) lib.ErrorI {
	if err := s.writer.Set(key, value); err != nil {
		return ErrStoreSet(err)
	}
	return nil
}

// Delete() stages the removal of the key in the working writer
func (s *Store) Delete(key []byte) lib.ErrorI {
	if err := s.writer.Delete(key); err != nil {
		return ErrStoreDelete(err)
	}
	return nil
}

// Iterator() creates a new iterator for the given prefix, pending writes included
func (s *Store) Iterator(prefix []byte) (lib.IteratorI, lib.ErrorI) {
	return newIterator(s.writer, prefix, false, s.log), nil
}

// RevIterator() creates a new reverse iterator for the given prefix, pending writes included
func (s *Store) RevIterator(prefix []byte) (lib.IteratorI, lib.ErrorI) {
	return newIterator(s.writer, prefix, true, s.log), nil
}

// Version() returns the last committed version of the store
func (s *Store) Version() uint64 { return s.version }

// NewReadOnly() returns a read view of the store fixed at a historical version
func (s *Store) NewReadOnly(version uint64) (lib.ReadOnlyStoreI, lib.ErrorI) {
	if version > s.version {
		return nil, ErrInvalidVersion(version, s.version)
	}
	return &ReadOnly{
		version: version,
		txn:     s.db.NewTransactionAt(version, false),
		log:     s.log,
	}, nil
}

// Commit() writes the pending batch at the next version and starts a fresh writer
func (s *Store) Commit() (uint64, lib.ErrorI) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.version + 1
	if err := s.writer.CommitAt(next, nil); err != nil {
		return 0, ErrCommitDB(err)
	}
	s.version = next
	s.writer = s.db.NewTransactionAt(next, true)
	return next, nil
}

// Discard() throws away the pending writes and starts a fresh writer
func (s *Store) Discard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writer.Discard()
	s.writer = s.db.NewTransactionAt(s.version, true)
}

// Close() discards the pending writes and stops the database
func (s *Store) Close() lib.ErrorI {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writer.Discard()
	if err := s.db.Close(); err != nil {
		return ErrCloseDB(err)
	}
	return nil
}

// ReadOnlyStoreI interface enforcement
var _ lib.ReadOnlyStoreI = &ReadOnly{}

// ReadOnly is a read view of the store fixed at a version
type ReadOnly struct {
	version uint64
	txn     *badger.Txn
	log     lib.LoggerI
}

// Get() retrieves the value associated with the key at the view's version
func (r *ReadOnly) Get(key []byte) ([]byte, lib.ErrorI) {
	return txnGet(r.txn, key)
}

// Iterator() creates a new iterator for the given prefix at the view's version
func (r *ReadOnly) Iterator(prefix []byte) (lib.IteratorI, lib.ErrorI) {
	return newIterator(r.txn, prefix, false, r.log), nil
}

// RevIterator() creates a new reverse iterator for the given prefix at the view's version
func (r *ReadOnly) RevIterator(prefix []byte) (lib.IteratorI, lib.ErrorI) {
	return newIterator(r.txn, prefix, true, r.log), nil
}

// Version() returns the version this view reads at
func (r *ReadOnly) Version() uint64 { return r.version }

// Discard() releases the view
func (r *ReadOnly) Discard() { r.txn.Discard() }

// txnGet() reads a key from a badger transaction, mapping key-not-found to nil
func txnGet(txn *badger.Txn, key []byte) ([]byte, lib.ErrorI) {
	item, err := txn.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, ErrStoreGet(err)
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return nil, ErrStoreGet(err)
	}
	return val, nil
}
