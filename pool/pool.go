package pool

import (
	"encoding/json"
	"math/big"

	"github.com/JudioLam9/contracts-v3/lib"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

const PoolsPageName = "pools" // the page type name for a page of pools

func init() {
	lib.RegisteredPageables[PoolsPageName] = new(Pools)
}

// Pool is the per token accounting record of a liquidity pool
type Pool struct {
	Token                common.Address // the base token this pool stakes
	PoolTokenSupply      *uint256.Int   // outstanding pool token supply
	StakedBalance        *uint256.Int   // base tokens the accounting believes are staked
	ProtocolLiquidity    *big.Int       // running protocol owned liquidity bookkeeping
	ProtectionAdjustment *big.Int       // running protection wallet deficit tracking
}

// Pools is a page of pool records
type Pools []*Pool

// New() satisfies the Pageable interface for a page of pools
func (p *Pools) New() lib.Pageable { return &Pools{} }

// Account tracks a provider's pool token balance for a single pool
type Account struct {
	Provider common.Address // the liquidity provider
	Token    common.Address // the base token of the pool
	Balance  *uint256.Int   // pool tokens the provider holds
}

// GetPool() returns the pool for a token, a zero valued pool when none exists yet
func (s *StateMachine) GetPool(token common.Address) (*Pool, lib.ErrorI) {
	bz, err := s.Get(KeyForPool(token))
	if err != nil {
		return nil, err
	}
	if bz == nil {
		// a pool that was never deposited into is empty, not missing
		return &Pool{
			Token:                token,
			PoolTokenSupply:      new(uint256.Int),
			StakedBalance:        new(uint256.Int),
			ProtocolLiquidity:    new(big.Int),
			ProtectionAdjustment: new(big.Int),
		}, nil
	}
	pool := new(Pool)
	if err = lib.UnmarshalJSON(bz, pool); err != nil {
		return nil, err
	}
	return pool, nil
}

// SetPool() persists a pool record
func (s *StateMachine) SetPool(pool *Pool) lib.ErrorI {
	bz, err := lib.MarshalJSON(pool)
	if err != nil {
		return err
	}
	return s.Set(KeyForPool(pool.Token), bz)
}

// GetPools() returns every pool record in the state
func (s *StateMachine) GetPools() (Pools, lib.ErrorI) {
	it, err := s.Iterator(PoolPrefix())
	if err != nil {
		return nil, err
	}
	defer it.Close()
	var result Pools
	for ; it.Valid(); it.Next() {
		pool := new(Pool)
		if err = lib.UnmarshalJSON(it.Value(), pool); err != nil {
			return nil, err
		}
		result = append(result, pool)
	}
	return result, nil
}

// GetPoolsPage() returns a page of pool records
func (s *StateMachine) GetPoolsPage(p lib.PageParams) (*lib.Page, lib.ErrorI) {
	page, pools := lib.NewPage(p, PoolsPageName), new(Pools)
	err := page.Load(PoolPrefix(), false, pools, s.store, func(_, value []byte) lib.ErrorI {
		pool := new(Pool)
		if e := lib.UnmarshalJSON(value, pool); e != nil {
			return e
		}
		*pools = append(*pools, pool)
		return nil
	})
	return page, err
}

// Deposit() stakes base tokens into a pool, minting pool tokens to the provider
// pro-rata against the staked balance, and returns the minted amount
func (s *StateMachine) Deposit(provider, token common.Address, amount *uint256.Int) (*uint256.Int, lib.ErrorI) {
	if amount == nil || amount.IsZero() || amount.Gt(lib.MaxUint128) {
		return nil, ErrInvalidDeposit()
	}
	pool, err := s.GetPool(token)
	if err != nil {
		return nil, err
	}
	// the first deposit mints one pool token per base token
	minted := new(uint256.Int).Set(amount)
	if !pool.PoolTokenSupply.IsZero() {
		// later deposits mint pro-rata, floor(amount*supply/staked)
		minted, err = lib.SafeMulDiv(amount, pool.PoolTokenSupply, pool.StakedBalance)
		if err != nil {
			return nil, err
		}
	}
	// grow the supply and the staked balance
	pool.PoolTokenSupply = new(uint256.Int).Add(pool.PoolTokenSupply, minted)
	pool.StakedBalance = new(uint256.Int).Add(pool.StakedBalance, amount)
	if pool.PoolTokenSupply.Gt(lib.MaxUint128) || pool.StakedBalance.Gt(lib.MaxUint128) {
		return nil, ErrInvalidAmountBound("stakedBalance")
	}
	if err = s.SetPool(pool); err != nil {
		return nil, err
	}
	// the deposited base tokens land in the vault
	if err = s.VaultAdd(token, amount); err != nil {
		return nil, err
	}
	// credit the minted pool tokens to the provider
	if err = s.AccountAdd(provider, token, minted); err != nil {
		return nil, err
	}
	return minted, nil
}

// GetAccount() returns a provider's pool token account, zero balanced when none exists
func (s *StateMachine) GetAccount(provider, token common.Address) (*Account, lib.ErrorI) {
	bz, err := s.Get(KeyForAccount(provider, token))
	if err != nil {
		return nil, err
	}
	account := &Account{Provider: provider, Token: token, Balance: new(uint256.Int)}
	if bz == nil {
		return account, nil
	}
	account.Balance.SetBytes(bz)
	return account, nil
}

// SetAccount() persists a provider's pool token account, removing zero balances
func (s *StateMachine) SetAccount(account *Account) lib.ErrorI {
	key := KeyForAccount(account.Provider, account.Token)
	// zero balances are removed instead of stored
	if account.Balance.IsZero() {
		return s.Delete(key)
	}
	return s.Set(key, account.Balance.Bytes())
}

// AccountAdd() credits pool tokens to a provider's account
func (s *StateMachine) AccountAdd(provider, token common.Address, amount *uint256.Int) lib.ErrorI {
	account, err := s.GetAccount(provider, token)
	if err != nil {
		return err
	}
	account.Balance = new(uint256.Int).Add(account.Balance, amount)
	return s.SetAccount(account)
}

// AccountSub() debits pool tokens from a provider's account, balance checked
func (s *StateMachine) AccountSub(provider, token common.Address, amount *uint256.Int) lib.ErrorI {
	account, err := s.GetAccount(provider, token)
	if err != nil {
		return err
	}
	if account.Balance.Lt(amount) {
		return ErrInsufficientFunds(token)
	}
	account.Balance = new(uint256.Int).Sub(account.Balance, amount)
	return s.SetAccount(account)
}

type jsonPool struct {
	Token                common.Address `json:"token"`
	PoolTokenSupply      string         `json:"poolTokenSupply"`
	StakedBalance        string         `json:"stakedBalance"`
	ProtocolLiquidity    string         `json:"protocolLiquidity"`
	ProtectionAdjustment string         `json:"protectionAdjustment"`
}

// MarshalJSON() implements the json.Marshaler interface for Pool
func (p Pool) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonPool{
		Token:                p.Token,
		PoolTokenSupply:      p.PoolTokenSupply.Dec(),
		StakedBalance:        p.StakedBalance.Dec(),
		ProtocolLiquidity:    p.ProtocolLiquidity.String(),
		ProtectionAdjustment: p.ProtectionAdjustment.String(),
	})
}

// UnmarshalJSON() implements the json.Unmarshaler interface for Pool
func (p *Pool) UnmarshalJSON(b []byte) (err error) {
	j := new(jsonPool)
	if err = json.Unmarshal(b, j); err != nil {
		return err
	}
	supply, err := lib.StringToUint256(j.PoolTokenSupply)
	if err != nil {
		return err
	}
	staked, err := lib.StringToUint256(j.StakedBalance)
	if err != nil {
		return err
	}
	liquidity, ok := new(big.Int).SetString(j.ProtocolLiquidity, 10)
	if !ok {
		return lib.ErrInvalidAmountText(j.ProtocolLiquidity)
	}
	adjustment, ok := new(big.Int).SetString(j.ProtectionAdjustment, 10)
	if !ok {
		return lib.ErrInvalidAmountText(j.ProtectionAdjustment)
	}
	*p = Pool{
		Token:                j.Token,
		PoolTokenSupply:      supply,
		StakedBalance:        staked,
		ProtocolLiquidity:    liquidity,
		ProtectionAdjustment: adjustment,
	}
	return
}

type jsonAccount struct {
	Provider common.Address `json:"provider"`
	Token    common.Address `json:"token"`
	Balance  string         `json:"balance"`
}

// MarshalJSON() implements the json.Marshaler interface for Account
func (a Account) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonAccount{Provider: a.Provider, Token: a.Token, Balance: a.Balance.Dec()})
}

// UnmarshalJSON() implements the json.Unmarshaler interface for Account
func (a *Account) UnmarshalJSON(b []byte) (err error) {
	j := new(jsonAccount)
	if err = json.Unmarshal(b, j); err != nil {
		return err
	}
	balance, err := lib.StringToUint256(j.Balance)
	if err != nil {
		return err
	}
	*a = Account{Provider: j.Provider, Token: j.Token, Balance: balance}
	return
}
