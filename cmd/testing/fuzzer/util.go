package main

import (
	"math/rand"
	"sync"

	"github.com/JudioLam9/contracts-v3/pool"
	"github.com/holiman/uint256"
)

// badAddress fails the hex address check on every route that parses one
const badAddress = "0xbadbad"

// DependentState mirrors the node state the operations depend on, refreshed periodically
type DependentState struct {
	sync.RWMutex
	version     uint64
	accounts    map[string]*uint256.Int
	withdrawals map[uint64]*pool.WithdrawalRequest
}

func (d *DependentState) Reset(version uint64) {
	d.Lock()
	defer d.Unlock()
	d.version = version
	d.accounts = make(map[string]*uint256.Int)
	d.withdrawals = make(map[uint64]*pool.WithdrawalRequest)
}

func (d *DependentState) GetBalance(provider, token string) (*uint256.Int, bool) {
	d.RLock()
	defer d.RUnlock()
	balance, ok := d.accounts[provider+"/"+token]
	return balance, ok
}

func (d *DependentState) SetBalance(provider, token string, balance *uint256.Int) {
	d.Lock()
	defer d.Unlock()
	d.accounts[provider+"/"+token] = new(uint256.Int).Set(balance)
}

func (d *DependentState) AddBalance(provider, token string, amount *uint256.Int) {
	d.Lock()
	defer d.Unlock()
	balance, ok := d.accounts[provider+"/"+token]
	if !ok {
		balance = new(uint256.Int)
	}
	d.accounts[provider+"/"+token] = new(uint256.Int).Add(balance, amount)
}

func (d *DependentState) SubBalance(provider, token string, amount *uint256.Int) {
	d.Lock()
	defer d.Unlock()
	balance, ok := d.accounts[provider+"/"+token]
	if !ok || amount.Gt(balance) {
		// a stale mirror never drives the balance below zero
		d.accounts[provider+"/"+token] = new(uint256.Int)
		return
	}
	d.accounts[provider+"/"+token] = new(uint256.Int).Sub(balance, amount)
}

func (d *DependentState) SetWithdrawal(request *pool.WithdrawalRequest) {
	d.Lock()
	defer d.Unlock()
	d.withdrawals[request.Id] = request
}

func (d *DependentState) DeleteWithdrawal(id uint64) {
	d.Lock()
	defer d.Unlock()
	delete(d.withdrawals, id)
}

func (d *DependentState) RandomWithdrawal() (*pool.WithdrawalRequest, bool) {
	d.RLock()
	defer d.RUnlock()
	for _, request := range d.withdrawals {
		return request, true
	}
	return nil, false
}

func (f *Fuzzer) getRandomToken() string {
	return f.config.Tokens[rand.Intn(len(f.config.Tokens))]
}

func (f *Fuzzer) getRandomProvider() string {
	return f.config.Providers[rand.Intn(len(f.config.Providers))]
}

func (f *Fuzzer) getRandomAmount() *uint256.Int {
	return uint256.NewInt(uint64(rand.Intn(1_000_000) + 1))
}

func (f *Fuzzer) getRandomAmountUpTo(limit *uint256.Int) *uint256.Int {
	if limit.IsZero() {
		return new(uint256.Int)
	}
	// fuzzer balances stay far below 64 bits
	return uint256.NewInt(uint64(rand.Intn(int(limit.Uint64()))) + 1)
}
