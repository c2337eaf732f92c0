package rpc

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/JudioLam9/contracts-v3/lib"
	"github.com/JudioLam9/contracts-v3/metrics"
	"github.com/JudioLam9/contracts-v3/pool"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/julienschmidt/httprouter"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/net"
	"github.com/shirou/gopsutil/v3/process"
)

// Deposit mints pool tokens for a base token deposit into the vault
func (s *Server) Deposit(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := new(depositRequest)
	// Unmarshal the HTTP request body into the deposit request
	if ok := unmarshal(w, r, req); !ok {
		return
	}
	provider, err := parseAddress(req.Provider)
	if err != nil {
		write(w, err, http.StatusBadRequest)
		return
	}
	token, err := parseAddress(req.Token)
	if err != nil {
		write(w, err, http.StatusBadRequest)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		write(w, err, http.StatusBadRequest)
		return
	}
	// Apply the deposit and commit it as the next version
	var minted *uint256.Int
	version, err := s.commitState(func(state *pool.StateMachine) (e lib.ErrorI) {
		minted, e = state.Deposit(provider, token, amount)
		return
	})
	if err != nil {
		write(w, err, http.StatusBadRequest)
		return
	}
	metrics.UpdateDepositProcessed()
	write(w, &DepositResponse{Token: token, Minted: minted.Dec(), Version: version}, http.StatusOK)
}

// InitWithdrawal escrows pool tokens and opens a withdrawal request subject to the lock duration
func (s *Server) InitWithdrawal(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := new(initWithdrawalRequest)
	// Unmarshal the HTTP request body into the withdrawal request
	if ok := unmarshal(w, r, req); !ok {
		return
	}
	provider, err := parseAddress(req.Provider)
	if err != nil {
		write(w, err, http.StatusBadRequest)
		return
	}
	token, err := parseAddress(req.Token)
	if err != nil {
		write(w, err, http.StatusBadRequest)
		return
	}
	poolTokenAmount, err := parseAmount(req.PoolTokenAmount)
	if err != nil {
		write(w, err, http.StatusBadRequest)
		return
	}
	drawCap, err := parseAmount(req.DrawCap)
	if err != nil {
		write(w, err, http.StatusBadRequest)
		return
	}
	// Open the request and commit it as the next version
	var request *pool.WithdrawalRequest
	version, err := s.commitState(func(state *pool.StateMachine) (e lib.ErrorI) {
		request, e = state.InitWithdrawal(provider, token, poolTokenAmount, drawCap, uint64(time.Now().Unix()))
		return
	})
	if err != nil {
		write(w, err, http.StatusBadRequest)
		return
	}
	metrics.UpdateWithdrawalInitiated()
	write(w, &WithdrawalResponse{Request: request, Version: version}, http.StatusOK)
}

// CancelWithdrawal closes a pending withdrawal request and refunds the escrowed pool tokens
func (s *Server) CancelWithdrawal(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := new(idRequest)
	// Unmarshal the HTTP request body into the id request
	if ok := unmarshal(w, r, req); !ok {
		return
	}
	// Refund the escrow and commit it as the next version
	version, err := s.commitState(func(state *pool.StateMachine) lib.ErrorI {
		return state.CancelWithdrawal(req.Id)
	})
	if err != nil {
		write(w, err, http.StatusBadRequest)
		return
	}
	metrics.UpdateWithdrawalCancelled()
	write(w, &CommitResponse{Version: version}, http.StatusOK)
}

// ProcessWithdrawal settles an unlocked withdrawal request and pays the provider from the vault
func (s *Server) ProcessWithdrawal(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := new(idRequest)
	// Unmarshal the HTTP request body into the id request
	if ok := unmarshal(w, r, req); !ok {
		return
	}
	// Settle the request and commit it as the next version
	var amounts *pool.WithdrawalAmounts
	version, err := s.commitState(func(state *pool.StateMachine) (e lib.ErrorI) {
		amounts, e = state.ProcessWithdrawal(req.Id, uint64(time.Now().Unix()))
		return
	})
	if err != nil {
		write(w, err, http.StatusBadRequest)
		return
	}
	metrics.UpdateWithdrawalProcessed(string(amounts.Regime))
	write(w, &ProcessResponse{Id: req.Id, Amounts: amounts, Version: version}, http.StatusOK)
}

// FundVault credits base tokens to a token's vault balance
func (s *Server) FundVault(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	// Invoke helper with the HTTP request, response writer and inline callbacks
	s.fundHandler(w, r, func(state *pool.StateMachine, token common.Address, amount *uint256.Int) lib.ErrorI {
		return state.VaultAdd(token, amount)
	}, func(state *pool.StateMachine, token common.Address) (*uint256.Int, lib.ErrorI) {
		return state.GetVaultBalance(token)
	})
}

// FundProtection credits base tokens to a token's protection wallet balance
func (s *Server) FundProtection(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	// Invoke helper with the HTTP request, response writer and inline callbacks
	s.fundHandler(w, r, func(state *pool.StateMachine, token common.Address, amount *uint256.Int) lib.ErrorI {
		return state.ProtectionAdd(token, amount)
	}, func(state *pool.StateMachine, token common.Address) (*uint256.Int, lib.ErrorI) {
		return state.GetProtectionBalance(token)
	})
}

// SetParams replaces the pool parameters after validation
func (s *Server) SetParams(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	params := new(pool.Params)
	// Unmarshal the HTTP request body into the parameters
	if ok := unmarshal(w, r, params); !ok {
		return
	}
	// Save the parameters and commit them as the next version
	version, err := s.commitState(func(state *pool.StateMachine) lib.ErrorI {
		return state.SetParams(params)
	})
	if err != nil {
		write(w, err, http.StatusBadRequest)
		return
	}
	write(w, &ParamsResponse{Params: params, Version: version}, http.StatusOK)
}

// UpdateParam updates a single pool parameter by name
func (s *Server) UpdateParam(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := new(updateParamRequest)
	// Unmarshal the HTTP request body into the update request
	if ok := unmarshal(w, r, req); !ok {
		return
	}
	// Apply the update and commit it as the next version
	var params *pool.Params
	version, err := s.commitState(func(state *pool.StateMachine) (e lib.ErrorI) {
		if e = state.UpdateParam(req.ParamName, req.ParamValue); e != nil {
			return
		}
		params, e = state.GetParams()
		return
	})
	if err != nil {
		write(w, err, http.StatusBadRequest)
		return
	}
	write(w, &ParamsResponse{Params: params, Version: version}, http.StatusOK)
}

// Config retrieves the node's configuration file
func (s *Server) Config(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	write(w, s.config, http.StatusOK)
}

// ResourceUsage retrieves node resource usage
func (s *Server) ResourceUsage(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	pm, err := mem.VirtualMemory() // os memory
	if err != nil {
		write(w, ErrResourceUsage(err), http.StatusInternalServerError)
		return
	}
	c, err := cpu.Times(false) // os cpu
	if err != nil {
		write(w, ErrResourceUsage(err), http.StatusInternalServerError)
		return
	}
	cp, err := cpu.Percent(0, false) // os cpu percent
	if err != nil {
		write(w, ErrResourceUsage(err), http.StatusInternalServerError)
		return
	}
	d, err := disk.Usage("/") // os disk
	if err != nil {
		write(w, ErrResourceUsage(err), http.StatusInternalServerError)
		return
	}
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		write(w, ErrResourceUsage(err), http.StatusInternalServerError)
		return
	}
	name, err := p.Name()
	if err != nil {
		write(w, ErrResourceUsage(err), http.StatusInternalServerError)
		return
	}
	cpuPercent, err := p.CPUPercent()
	if err != nil {
		write(w, ErrResourceUsage(err), http.StatusInternalServerError)
		return
	}
	ioCounters, err := net.IOCounters(false)
	if err != nil {
		write(w, ErrResourceUsage(err), http.StatusInternalServerError)
		return
	}
	status, err := p.Status()
	if err != nil {
		write(w, ErrResourceUsage(err), http.StatusInternalServerError)
		return
	}
	fds, err := p.NumFDs()
	if err != nil {
		write(w, ErrResourceUsage(err), http.StatusInternalServerError)
		return
	}
	numThreads, err := p.NumThreads()
	if err != nil {
		write(w, ErrResourceUsage(err), http.StatusInternalServerError)
		return
	}
	memPercent, err := p.MemoryPercent()
	if err != nil {
		write(w, ErrResourceUsage(err), http.StatusInternalServerError)
		return
	}
	utc, err := p.CreateTime()
	if err != nil {
		write(w, ErrResourceUsage(err), http.StatusInternalServerError)
		return
	}
	write(w, ResourceUsageResponse{
		Process: ProcessResourceUsage{
			Name:          name,
			Status:        strings.Join(status, ","),
			CreateTime:    time.Unix(utc/1000, 0).Format(time.RFC822),
			FDCount:       uint64(fds),
			ThreadCount:   uint64(numThreads),
			MemoryPercent: float64(memPercent),
			CPUPercent:    cpuPercent,
		},
		System: SystemResourceUsage{
			TotalRAM:        pm.Total,
			AvailableRAM:    pm.Available,
			UsedRAM:         pm.Used,
			UsedRAMPercent:  pm.UsedPercent,
			FreeRAM:         pm.Free,
			UsedCPUPercent:  cp[0],
			UserCPU:         c[0].User,
			SystemCPU:       c[0].System,
			IdleCPU:         c[0].Idle,
			TotalDisk:       d.Total,
			UsedDisk:        d.Used,
			UsedDiskPercent: d.UsedPercent,
			FreeDisk:        d.Free,
			ReceivedBytesIO: ioCounters[0].BytesRecv,
			WrittenBytesIO:  ioCounters[0].BytesSent,
		},
	}, http.StatusOK)
}

// fundHandler is a helper function that abstracts the common workflow of crediting a tracked balance
func (s *Server) fundHandler(w http.ResponseWriter, r *http.Request, add func(*pool.StateMachine, common.Address, *uint256.Int) lib.ErrorI, get func(*pool.StateMachine, common.Address) (*uint256.Int, lib.ErrorI)) {
	req := new(fundRequest)
	// Unmarshal the HTTP request body into the fund request
	if ok := unmarshal(w, r, req); !ok {
		return
	}
	token, err := parseAddress(req.Token)
	if err != nil {
		write(w, err, http.StatusBadRequest)
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		write(w, err, http.StatusBadRequest)
		return
	}
	// Credit the balance and commit it as the next version
	var balance *uint256.Int
	version, err := s.commitState(func(state *pool.StateMachine) (e lib.ErrorI) {
		if e = add(state, token, amount); e != nil {
			return
		}
		balance, e = get(state, token)
		return
	})
	if err != nil {
		write(w, err, http.StatusBadRequest)
		return
	}
	write(w, &FundResponse{Token: token, Balance: balance.Dec(), Version: version}, http.StatusOK)
}
