package rpc

import (
	"net/http"
	"net/http/pprof"

	"github.com/JudioLam9/contracts-v3/lib"
	"github.com/JudioLam9/contracts-v3/pool"
	"github.com/ethereum/go-ethereum/common"
	"github.com/julienschmidt/httprouter"
)

// Version writes the service software version
func (s *Server) Version(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	write(w, SoftwareVersion, http.StatusOK)
}

// StoreVersion responds with the latest committed store version
func (s *Server) StoreVersion(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	// Create a read-only state at the latest version and write its version
	if err := s.readOnlyState(0, func(state *pool.StateMachine) lib.ErrorI {
		write(w, &VersionResponse{Version: state.Version()}, http.StatusOK)
		return nil
	}); err != nil {
		write(w, err, http.StatusInternalServerError)
	}
}

// Pool responds with the pool tracked for a base token
func (s *Server) Pool(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	// Invoke helper with the HTTP request, response writer and an inline callback
	s.versionAndTokenParams(w, r, func(state *pool.StateMachine, token common.Address) (any, lib.ErrorI) {
		return state.GetPool(token)
	})
}

// Pools responds with a page of pools
func (s *Server) Pools(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	// Invoke helper with the HTTP request, response writer and an inline callback
	s.versionPaginated(w, r, func(state *pool.StateMachine, p lib.PageParams) (any, lib.ErrorI) {
		return state.GetPoolsPage(p)
	})
}

// Params responds with the pool parameters
func (s *Server) Params(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := new(versionRequest)
	if err := s.readOnlyStateFromVersionParams(w, r, req, func(state *pool.StateMachine) lib.ErrorI {
		params, err := state.GetParams()
		if err != nil {
			return err
		}
		write(w, &ParamsResponse{Params: params, Version: state.Version()}, http.StatusOK)
		return nil
	}); err != nil {
		write(w, err, http.StatusBadRequest)
	}
}

// Vault responds with the vault balance tracked for a base token
func (s *Server) Vault(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	// Invoke helper with the HTTP request, response writer and an inline callback
	s.versionAndTokenParams(w, r, func(state *pool.StateMachine, token common.Address) (any, lib.ErrorI) {
		balance, err := state.GetVaultBalance(token)
		if err != nil {
			return nil, err
		}
		return &BalanceResponse{Token: token, Balance: balance.Dec()}, nil
	})
}

// Protection responds with the protection wallet balance tracked for a base token
func (s *Server) Protection(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	// Invoke helper with the HTTP request, response writer and an inline callback
	s.versionAndTokenParams(w, r, func(state *pool.StateMachine, token common.Address) (any, lib.ErrorI) {
		balance, err := state.GetProtectionBalance(token)
		if err != nil {
			return nil, err
		}
		return &BalanceResponse{Token: token, Balance: balance.Dec()}, nil
	})
}

// Account responds with a provider's pool token account for a base token
func (s *Server) Account(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := new(accountRequest)
	if err := s.readOnlyStateFromVersionParams(w, r, req, func(state *pool.StateMachine) lib.ErrorI {
		provider, err := parseAddress(req.Provider)
		if err != nil {
			return err
		}
		token, err := parseAddress(req.Token)
		if err != nil {
			return err
		}
		account, err := state.GetAccount(provider, token)
		if err != nil {
			return err
		}
		write(w, account, http.StatusOK)
		return nil
	}); err != nil {
		write(w, err, http.StatusBadRequest)
	}
}

// Withdrawal responds with a pending withdrawal request by id
func (s *Server) Withdrawal(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := new(versionAndIdRequest)
	if err := s.readOnlyStateFromVersionParams(w, r, req, func(state *pool.StateMachine) lib.ErrorI {
		request, err := state.GetWithdrawal(req.Id)
		if err != nil {
			return err
		}
		write(w, request, http.StatusOK)
		return nil
	}); err != nil {
		write(w, err, http.StatusBadRequest)
	}
}

// Withdrawals responds with a page of pending withdrawal requests
func (s *Server) Withdrawals(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	// Invoke helper with the HTTP request, response writer and an inline callback
	s.versionPaginated(w, r, func(state *pool.StateMachine, p lib.PageParams) (any, lib.ErrorI) {
		return state.GetWithdrawalsPage(p)
	})
}

// Quote previews the settlement of a withdrawal without mutating state
func (s *Server) Quote(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := new(quoteRequest)
	if err := s.readOnlyStateFromVersionParams(w, r, req, func(state *pool.StateMachine) lib.ErrorI {
		token, err := parseAddress(req.Token)
		if err != nil {
			return err
		}
		poolTokenAmount, err := parseAmount(req.PoolTokenAmount)
		if err != nil {
			return err
		}
		drawCap, err := parseAmount(req.DrawCap)
		if err != nil {
			return err
		}
		input, amounts, err := state.QuoteWithdrawal(token, poolTokenAmount, drawCap)
		if err != nil {
			return err
		}
		write(w, &QuoteResponse{Input: input, Amounts: amounts}, http.StatusOK)
		return nil
	}); err != nil {
		write(w, err, http.StatusBadRequest)
	}
}

// Formula runs the settlement calculation over caller supplied balances without touching state
func (s *Server) Formula(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	input := new(pool.WithdrawalInput)
	// Unmarshal the HTTP request body into the settlement input
	if ok := unmarshal(w, r, input); !ok {
		return
	}
	amounts, err := pool.CalculateWithdrawalAmounts(input)
	if err != nil {
		write(w, err, http.StatusBadRequest)
		return
	}
	write(w, amounts, http.StatusOK)
}

// versionPaginated is a helper function to abstract common workflows around a callback requiring a state machine and page parameters
func (s *Server) versionPaginated(w http.ResponseWriter, r *http.Request, callback func(s *pool.StateMachine, p lib.PageParams) (any, lib.ErrorI)) {
	req := new(paginatedVersionRequest)
	if err := s.readOnlyStateFromVersionParams(w, r, req, func(state *pool.StateMachine) lib.ErrorI {
		p, err := callback(state, req.PageParams)
		if err != nil {
			return err
		}
		write(w, p, http.StatusOK)
		return nil
	}); err != nil {
		write(w, err, http.StatusBadRequest)
	}
}

// versionAndTokenParams is a helper function to execute a callback with a state machine and token address as parameters
func (s *Server) versionAndTokenParams(w http.ResponseWriter, r *http.Request, callback func(*pool.StateMachine, common.Address) (any, lib.ErrorI)) {
	req := new(versionAndTokenRequest)
	if err := s.readOnlyStateFromVersionParams(w, r, req, func(state *pool.StateMachine) lib.ErrorI {
		token, err := parseAddress(req.Token)
		if err != nil {
			return err
		}
		p, err := callback(state, token)
		if err != nil {
			return err
		}
		write(w, p, http.StatusOK)
		return nil
	}); err != nil {
		write(w, err, http.StatusBadRequest)
	}
}

// debugHandler exposes the runtime pprof profiles
func debugHandler(routeName string) httprouter.Handle {
	var f http.HandlerFunc
	switch routeName {
	case DebugHeapRouteName, DebugGoroutineRouteName, DebugBlockedRouteName:
		f = func(w http.ResponseWriter, r *http.Request) {
			pprof.Handler(routeName).ServeHTTP(w, r)
		}
	case DebugCPURouteName:
		f = pprof.Profile
	default:
		f = func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}
	}
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		f(w, r)
	}
}
