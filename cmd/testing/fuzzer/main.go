package main

import (
	"math/rand"
	"sync"
	"time"

	"github.com/JudioLam9/contracts-v3/cmd/rpc"
	"github.com/JudioLam9/contracts-v3/lib"
	"github.com/JudioLam9/contracts-v3/pool"
	"github.com/holiman/uint256"
)

const (
	localhost      = "http://localhost"
	configFileName = "fuzzer.json"

	DepositOpName = "deposit"
	InitOpName    = "init-withdrawal"
	CancelOpName  = "cancel-withdrawal"
	ProcessOpName = "process-withdrawal"
	FundOpName    = "fund"

	BadTokenReason    = "bad token"
	BadProviderReason = "bad provider"
	BadAmountReason   = "bad amount"
	ExceedsReason     = "amount exceeds balance"
	UnknownIdReason   = "unknown id"
)

func main() {
	fuzzer := NewFuzzer()
	// the week long default lock would starve the process path
	if _, err := fuzzer.client.UpdateParam(pool.ParamWithdrawalLock, 0); err != nil {
		fuzzer.log.Fatal(err.Error())
	}
	go fuzzer.resetDependentStateLoop()
	for range time.Tick(100 * time.Millisecond) {
		if err := fuzzer.NextOperation(); err != nil {
			fuzzer.log.Error(err.Error())
		}
	}
}

type Fuzzer struct {
	log    lib.LoggerI
	config *Config
	client *rpc.Client
	state  *DependentState
}

func NewFuzzer() *Fuzzer {
	log := lib.NewDefaultLogger()
	config := new(Config).FromFile(log)
	return &Fuzzer{
		log:    log,
		config: config,
		client: rpc.NewClient(config.RPCUrl, config.RPCPort, config.AdminPort),
		state: &DependentState{
			RWMutex:     sync.RWMutex{},
			accounts:    make(map[string]*uint256.Int),
			withdrawals: make(map[uint64]*pool.WithdrawalRequest),
		},
	}
}

// NextOperation() executes a random operation against the node
func (f *Fuzzer) NextOperation() lib.ErrorI {
	switch rand.Intn(5) {
	case 0:
		return f.DepositOperation()
	case 1:
		return f.InitWithdrawalOperation()
	case 2:
		return f.CancelWithdrawalOperation()
	case 3:
		return f.ProcessWithdrawalOperation()
	default:
		return f.FundOperation()
	}
}

func (f *Fuzzer) getBalance(provider, token string) *uint256.Int {
	if cached, ok := f.state.GetBalance(provider, token); ok {
		return cached
	}
	account, err := f.client.Account(0, provider, token)
	if err != nil {
		f.log.Fatal(err.Error())
	}
	f.state.SetBalance(provider, token, account.Balance)
	return account.Balance
}

func (f *Fuzzer) resetDependentStateLoop() {
	for range time.Tick(5 * time.Second) {
		version, err := f.client.StoreVersion()
		if err != nil {
			f.log.Error(err.Error())
			continue
		}
		f.state.Reset(version.Version)
		// rebuild the open withdrawal set from the node
		page, err := f.client.Withdrawals(0, lib.PageParams{PerPage: 5000})
		if err != nil {
			f.log.Error(err.Error())
			continue
		}
		for _, request := range *page.Results.(*pool.WithdrawalRequests) {
			f.state.SetWithdrawal(request)
		}
	}
}
