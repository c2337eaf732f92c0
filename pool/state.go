package pool

import (
	"github.com/JudioLam9/contracts-v3/lib"
)

// StateMachine is the component responsible for maintaining and updating the pool
// accounting state: per token pools, provider accounts, vault and protection wallet
// balances, pending withdrawal requests, and governance params
type StateMachine struct {
	store   lib.RStoreI
	version uint64
	Config  lib.Config
	log     lib.LoggerI
}

// New() creates a StateMachine over a read-write store
func New(c lib.Config, store lib.StoreI, log lib.LoggerI) *StateMachine {
	return &StateMachine{store: store, version: store.Version(), Config: c, log: log}
}

// NewReadOnly() creates a StateMachine over a read view of the store at a version
func NewReadOnly(c lib.Config, store lib.RStoreI, version uint64, log lib.LoggerI) *StateMachine {
	return &StateMachine{store: store, version: version, Config: c, log: log}
}

// Version() returns the store version this state machine operates at
func (s *StateMachine) Version() uint64 { return s.version }

// Store() returns the underlying store
func (s *StateMachine) Store() lib.RStoreI { return s.store }

// Get() reads a key from the store
func (s *StateMachine) Get(key []byte) ([]byte, lib.ErrorI) {
	return s.store.Get(key)
}

// Set() writes a key to the store, erroring over a read view
func (s *StateMachine) Set(key, value []byte) lib.ErrorI {
	// only the read-write store may mutate state
	store, ok := s.store.(lib.WStoreI)
	if !ok {
		return ErrWrongStoreType()
	}
	return store.Set(key, value)
}

// Delete() removes a key from the store, erroring over a read view
func (s *StateMachine) Delete(key []byte) lib.ErrorI {
	// only the read-write store may mutate state
	store, ok := s.store.(lib.WStoreI)
	if !ok {
		return ErrWrongStoreType()
	}
	return store.Delete(key)
}

// Iterator() returns an ascending iterator over a key prefix
func (s *StateMachine) Iterator(prefix []byte) (lib.IteratorI, lib.ErrorI) {
	return s.store.Iterator(prefix)
}

// RevIterator() returns a descending iterator over a key prefix
func (s *StateMachine) RevIterator(prefix []byte) (lib.IteratorI, lib.ErrorI) {
	return s.store.RevIterator(prefix)
}

// GetParams() returns the governance params, falling back to the defaults when unset
func (s *StateMachine) GetParams() (*Params, lib.ErrorI) {
	bz, err := s.Get(KeyForParams())
	if err != nil {
		return nil, err
	}
	// a fresh state starts from the default params
	if bz == nil {
		return DefaultParams(), nil
	}
	params := new(Params)
	if err = lib.UnmarshalJSON(bz, params); err != nil {
		return nil, err
	}
	return params, nil
}

// SetParams() validates and persists the governance params
func (s *StateMachine) SetParams(params *Params) lib.ErrorI {
	if err := params.Check(); err != nil {
		return err
	}
	bz, err := lib.MarshalJSON(params)
	if err != nil {
		return err
	}
	return s.Set(KeyForParams(), bz)
}

// UpdateParam() updates a single governance param by name
func (s *StateMachine) UpdateParam(name string, value uint64) lib.ErrorI {
	// load the current params
	params, err := s.GetParams()
	if err != nil {
		return err
	}
	// apply and validate the single update
	if err = params.SetUint64(name, value); err != nil {
		return err
	}
	// persist the updated params
	return s.SetParams(params)
}
