package pool

import (
	"encoding/json"
	"math/big"

	"github.com/JudioLam9/contracts-v3/lib"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

const WithdrawalsPageName = "withdrawals" // the page type name for a page of withdrawal requests

func init() {
	lib.RegisteredPageables[WithdrawalsPageName] = new(WithdrawalRequests)
}

// WithdrawalRequest is a pending withdrawal, escrowing the provider's pool tokens
// between initiation and processing
type WithdrawalRequest struct {
	Id              uint64         // monotonically increasing request id
	Provider        common.Address // the withdrawing liquidity provider
	Token           common.Address // the base token of the pool
	PoolTokenAmount *uint256.Int   // pool tokens escrowed by this request
	DrawCap         *uint256.Int   // requested cap on the protection wallet draw
	CreatedAt       uint64         // unix second the request was initiated
	UnlocksAt       uint64         // unix second the request becomes processable
}

// WithdrawalRequests is a page of withdrawal requests
type WithdrawalRequests []*WithdrawalRequest

// New() satisfies the Pageable interface for a page of withdrawal requests
func (w *WithdrawalRequests) New() lib.Pageable { return &WithdrawalRequests{} }

// InitWithdrawal() escrows a provider's pool tokens into a pending request that becomes
// processable after the governance lock window
func (s *StateMachine) InitWithdrawal(provider, token common.Address, poolTokenAmount, drawCap *uint256.Int, now uint64) (*WithdrawalRequest, lib.ErrorI) {
	if poolTokenAmount == nil || poolTokenAmount.IsZero() {
		return nil, ErrInvalidWithdrawal()
	}
	if poolTokenAmount.Gt(lib.MaxUint128) {
		return nil, ErrInvalidAmountBound("poolTokenAmount")
	}
	if drawCap == nil {
		drawCap = new(uint256.Int)
	}
	if drawCap.Gt(lib.MaxUint128) {
		return nil, ErrInvalidAmountBound("drawCap")
	}
	// move the pool tokens out of the provider's account into escrow
	if err := s.AccountSub(provider, token, poolTokenAmount); err != nil {
		return nil, err
	}
	// the lock window comes from governance params
	params, err := s.GetParams()
	if err != nil {
		return nil, err
	}
	id, err := s.nextRequestId()
	if err != nil {
		return nil, err
	}
	request := &WithdrawalRequest{
		Id:              id,
		Provider:        provider,
		Token:           token,
		PoolTokenAmount: poolTokenAmount,
		DrawCap:         drawCap,
		CreatedAt:       now,
		UnlocksAt:       now + params.WithdrawalLockSeconds,
	}
	if err = s.setWithdrawal(request); err != nil {
		return nil, err
	}
	return request, nil
}

// CancelWithdrawal() removes a pending request and returns the escrowed pool tokens
func (s *StateMachine) CancelWithdrawal(id uint64) lib.ErrorI {
	request, err := s.GetWithdrawal(id)
	if err != nil {
		return err
	}
	// return the escrow to the provider
	if err = s.AccountAdd(request.Provider, request.Token, request.PoolTokenAmount); err != nil {
		return err
	}
	return s.Delete(KeyForWithdrawal(id))
}

// ProcessWithdrawal() settles a pending request through the withdrawal engine and
// applies the settlement to the pool, the vault, and the protection wallet
func (s *StateMachine) ProcessWithdrawal(id, now uint64) (*WithdrawalAmounts, lib.ErrorI) {
	request, err := s.GetWithdrawal(id)
	if err != nil {
		return nil, err
	}
	// the request must be past its lock window
	if now < request.UnlocksAt {
		return nil, ErrWithdrawalLocked(id, request.UnlocksAt)
	}
	pool, err := s.GetPool(request.Token)
	if err != nil {
		return nil, err
	}
	// the escrow can never exceed the outstanding supply
	if pool.PoolTokenSupply.Lt(request.PoolTokenAmount) {
		return nil, ErrInsufficientFunds(request.Token)
	}
	input, err := s.buildWithdrawalInput(pool, request.PoolTokenAmount, request.DrawCap)
	if err != nil {
		return nil, err
	}
	amounts, err := CalculateWithdrawalAmounts(input)
	if err != nil {
		return nil, err
	}
	// move the staked accounting by p, erroring instead of going negative
	staked, err := lib.BigToUint256(new(big.Int).Add(pool.StakedBalance.ToBig(), amounts.P))
	if err != nil {
		return nil, err
	}
	if staked.Gt(lib.MaxUint128) {
		return nil, ErrInvalidAmountBound("stakedBalance")
	}
	pool.StakedBalance = staked
	// fold q and r into the running accumulators
	pool.ProtocolLiquidity = new(big.Int).Add(pool.ProtocolLiquidity, amounts.Q)
	pool.ProtectionAdjustment = new(big.Int).Add(pool.ProtectionAdjustment, amounts.R)
	// burn the escrowed pool tokens
	pool.PoolTokenSupply = new(uint256.Int).Sub(pool.PoolTokenSupply, request.PoolTokenAmount)
	if err = s.SetPool(pool); err != nil {
		return nil, err
	}
	// the vault pays the transfer and its share of the compensation, the fee
	// remainder of the withdrawal stays behind implicitly
	if err = s.VaultSub(request.Token, amounts.S); err != nil {
		return nil, err
	}
	if !amounts.T.IsZero() {
		if err = s.VaultSub(request.Token, amounts.T); err != nil {
			return nil, err
		}
	}
	// the protection wallet pays its share of the compensation
	if !amounts.U.IsZero() {
		if err = s.ProtectionSub(request.Token, amounts.U); err != nil {
			return nil, err
		}
	}
	if err = s.Delete(KeyForWithdrawal(id)); err != nil {
		return nil, err
	}
	s.log.Infof("Processed withdrawal %d for %s via %s: paid %s base tokens",
		id, request.Provider.Hex(), amounts.Regime, amounts.S.Dec())
	return amounts, nil
}

// QuoteWithdrawal() runs the engine against the current state without changing it
func (s *StateMachine) QuoteWithdrawal(token common.Address, poolTokenAmount, drawCap *uint256.Int) (*WithdrawalInput, *WithdrawalAmounts, lib.ErrorI) {
	pool, err := s.GetPool(token)
	if err != nil {
		return nil, nil, err
	}
	if drawCap == nil {
		drawCap = new(uint256.Int)
	}
	input, err := s.buildWithdrawalInput(pool, poolTokenAmount, drawCap)
	if err != nil {
		return nil, nil, err
	}
	amounts, err := CalculateWithdrawalAmounts(input)
	if err != nil {
		return nil, nil, err
	}
	return input, amounts, nil
}

// buildWithdrawalInput() assembles the engine input from the pool, the custody
// balances, and the governance params
func (s *StateMachine) buildWithdrawalInput(pool *Pool, poolTokenAmount, drawCap *uint256.Int) (*WithdrawalInput, lib.ErrorI) {
	if pool.PoolTokenSupply.IsZero() {
		return nil, ErrEmptyPool(pool.Token)
	}
	// convert pool tokens to base token equivalent units, x = floor(pt*b/a)
	withdrawal, err := lib.SafeMulDiv(poolTokenAmount, pool.StakedBalance, pool.PoolTokenSupply)
	if err != nil {
		return nil, err
	}
	protection, err := s.GetProtectionBalance(pool.Token)
	if err != nil {
		return nil, err
	}
	vault, err := s.GetVaultBalance(pool.Token)
	if err != nil {
		return nil, err
	}
	params, err := s.GetParams()
	if err != nil {
		return nil, err
	}
	return &WithdrawalInput{
		PoolTokenSupply:       pool.PoolTokenSupply,
		StakedBalance:         pool.StakedBalance,
		ProtectionBalance:     protection,
		VaultBalance:          vault,
		ProtectionDrawCap:     drawCap,
		WithdrawalFeePPM:      params.WithdrawalFeePPM,
		DeviationThresholdPPM: params.DeviationThresholdPPM,
		WithdrawalAmount:      withdrawal,
	}, nil
}

// GetWithdrawal() returns a pending withdrawal request by id
func (s *StateMachine) GetWithdrawal(id uint64) (*WithdrawalRequest, lib.ErrorI) {
	bz, err := s.Get(KeyForWithdrawal(id))
	if err != nil {
		return nil, err
	}
	if bz == nil {
		return nil, ErrWithdrawalNotFound(id)
	}
	request := new(WithdrawalRequest)
	if err = lib.UnmarshalJSON(bz, request); err != nil {
		return nil, err
	}
	return request, nil
}

// GetWithdrawals() returns every pending withdrawal request in id order
func (s *StateMachine) GetWithdrawals() (WithdrawalRequests, lib.ErrorI) {
	it, err := s.Iterator(WithdrawalPrefix())
	if err != nil {
		return nil, err
	}
	defer it.Close()
	var result WithdrawalRequests
	for ; it.Valid(); it.Next() {
		request := new(WithdrawalRequest)
		if err = lib.UnmarshalJSON(it.Value(), request); err != nil {
			return nil, err
		}
		result = append(result, request)
	}
	return result, nil
}

// GetWithdrawalsPage() returns a page of pending withdrawal requests
func (s *StateMachine) GetWithdrawalsPage(p lib.PageParams) (*lib.Page, lib.ErrorI) {
	page, requests := lib.NewPage(p, WithdrawalsPageName), new(WithdrawalRequests)
	err := page.Load(WithdrawalPrefix(), false, requests, s.store, func(_, value []byte) lib.ErrorI {
		request := new(WithdrawalRequest)
		if e := lib.UnmarshalJSON(value, request); e != nil {
			return e
		}
		*requests = append(*requests, request)
		return nil
	})
	return page, err
}

// setWithdrawal() persists a pending withdrawal request
func (s *StateMachine) setWithdrawal(request *WithdrawalRequest) lib.ErrorI {
	bz, err := lib.MarshalJSON(request)
	if err != nil {
		return err
	}
	return s.Set(KeyForWithdrawal(request.Id), bz)
}

// nextRequestId() bumps and persists the monotonically increasing request id
func (s *StateMachine) nextRequestId() (uint64, lib.ErrorI) {
	bz, err := s.Get(KeyForLastRequestId())
	if err != nil {
		return 0, err
	}
	id := lib.Uint64FromBytes(bz) + 1
	if err = s.Set(KeyForLastRequestId(), lib.FormatUint64(id)); err != nil {
		return 0, err
	}
	return id, nil
}

type jsonWithdrawalRequest struct {
	Id              uint64         `json:"id"`
	Provider        common.Address `json:"provider"`
	Token           common.Address `json:"token"`
	PoolTokenAmount string         `json:"poolTokenAmount"`
	DrawCap         string         `json:"drawCap"`
	CreatedAt       uint64         `json:"createdAt"`
	UnlocksAt       uint64         `json:"unlocksAt"`
}

// MarshalJSON() implements the json.Marshaler interface for WithdrawalRequest
func (w WithdrawalRequest) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonWithdrawalRequest{
		Id:              w.Id,
		Provider:        w.Provider,
		Token:           w.Token,
		PoolTokenAmount: w.PoolTokenAmount.Dec(),
		DrawCap:         w.DrawCap.Dec(),
		CreatedAt:       w.CreatedAt,
		UnlocksAt:       w.UnlocksAt,
	})
}

// UnmarshalJSON() implements the json.Unmarshaler interface for WithdrawalRequest
func (w *WithdrawalRequest) UnmarshalJSON(b []byte) (err error) {
	j := new(jsonWithdrawalRequest)
	if err = json.Unmarshal(b, j); err != nil {
		return err
	}
	amount, err := lib.StringToUint256(j.PoolTokenAmount)
	if err != nil {
		return err
	}
	drawCap, err := lib.StringToUint256(j.DrawCap)
	if err != nil {
		return err
	}
	*w = WithdrawalRequest{
		Id:              j.Id,
		Provider:        j.Provider,
		Token:           j.Token,
		PoolTokenAmount: amount,
		DrawCap:         drawCap,
		CreatedAt:       j.CreatedAt,
		UnlocksAt:       j.UnlocksAt,
	}
	return
}
