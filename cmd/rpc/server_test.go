package rpc

import (
	"net/http/httptest"
	"testing"

	"github.com/JudioLam9/contracts-v3/lib"
	"github.com/JudioLam9/contracts-v3/pool"
	"github.com/JudioLam9/contracts-v3/store"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

// newTestServer starts the query and admin routers over an in-memory store and
// returns a client pointed at each
func newTestServer(t *testing.T) (query *Client, admin *Client) {
	log := lib.NewNullLogger()
	db, err := store.NewStoreInMemory(log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	s := NewServer(db, lib.DefaultConfig(), log)
	querySrv := httptest.NewServer(createRouter(s))
	adminSrv := httptest.NewServer(createAdminRouter(s))
	t.Cleanup(querySrv.Close)
	t.Cleanup(adminSrv.Close)
	// empty ports route every call through the url as a remote deployment
	return NewClient(querySrv.URL, "", ""), NewClient(adminSrv.URL, "", "")
}

// newTestHex returns the hex form of a deterministic test address
func newTestHex(variation byte) string {
	return common.BytesToAddress([]byte{variation}).Hex()
}

func TestRPCVersionAndStoreVersion(t *testing.T) {
	query, admin := newTestServer(t)
	// execute the version call
	version, err := query.Version()
	require.NoError(t, err)
	require.Equal(t, SoftwareVersion, *version)
	// a fresh store has no committed versions
	sv, err := query.StoreVersion()
	require.NoError(t, err)
	require.EqualValues(t, 0, sv.Version)
	// a deposit commits version one
	deposit, err := admin.Deposit(newTestHex(1), newTestHex(10), "1000")
	require.NoError(t, err)
	require.EqualValues(t, 1, deposit.Version)
	sv, err = query.StoreVersion()
	require.NoError(t, err)
	require.EqualValues(t, 1, sv.Version)
}

func TestRPCDepositAndQueries(t *testing.T) {
	query, admin := newTestServer(t)
	token, provider := newTestHex(1), newTestHex(10)
	// execute the deposit call
	deposit, err := admin.Deposit(token, provider, "1000")
	require.NoError(t, err)
	require.Equal(t, "1000", deposit.Minted)
	// the pool reflects the first deposit one to one
	p, err := query.Pool(0, token)
	require.NoError(t, err)
	require.Equal(t, "1000", p.PoolTokenSupply.Dec())
	require.Equal(t, "1000", p.StakedBalance.Dec())
	// the vault holds the deposited base tokens
	vault, err := query.Vault(0, token)
	require.NoError(t, err)
	require.Equal(t, "1000", vault.Balance)
	// the provider account holds the minted pool tokens
	account, err := query.Account(0, provider, token)
	require.NoError(t, err)
	require.Equal(t, "1000", account.Balance.Dec())
	// a page of pools contains the single pool
	page, err := query.Pools(0, lib.PageParams{})
	require.NoError(t, err)
	require.Equal(t, 1, page.TotalCount)
	pools, ok := page.Results.(*pool.Pools)
	require.True(t, ok)
	require.Len(t, *pools, 1)
}

func TestRPCWithdrawalFlow(t *testing.T) {
	query, admin := newTestServer(t)
	token, provider := newTestHex(1), newTestHex(10)
	// drop the lock so the request is immediately processable
	params, err := admin.UpdateParam(pool.ParamWithdrawalLock, 0)
	require.NoError(t, err)
	require.EqualValues(t, 0, params.Params.WithdrawalLockSeconds)
	// seed the pool
	_, err = admin.Deposit(token, provider, "1000")
	require.NoError(t, err)
	// open a withdrawal request for a tenth of the position
	initialized, err := admin.InitWithdrawal(token, provider, "100", "")
	require.NoError(t, err)
	require.EqualValues(t, 1, initialized.Request.Id)
	// the escrow reduced the provider account
	account, err := query.Account(0, provider, token)
	require.NoError(t, err)
	require.Equal(t, "900", account.Balance.Dec())
	// the request is visible by id and in the page
	request, err := query.Withdrawal(0, 1)
	require.NoError(t, err)
	require.Equal(t, "100", request.PoolTokenAmount.Dec())
	page, err := query.Withdrawals(0, lib.PageParams{})
	require.NoError(t, err)
	require.Equal(t, 1, page.TotalCount)
	// settle the request, a balanced pool nets the deviation discount
	processed, err := admin.ProcessWithdrawal(1)
	require.NoError(t, err)
	require.Equal(t, pool.RegimeDefaultSurplus, processed.Amounts.Regime)
	require.Equal(t, "99", processed.Amounts.S.Dec())
	// the settlement is reflected in the pool and the vault
	p, err := query.Pool(0, token)
	require.NoError(t, err)
	require.Equal(t, "900", p.PoolTokenSupply.Dec())
	require.Equal(t, "901", p.StakedBalance.Dec())
	vault, err := query.Vault(0, token)
	require.NoError(t, err)
	require.Equal(t, "901", vault.Balance)
	// the request is gone
	_, err = query.Withdrawal(0, 1)
	require.ErrorContains(t, err, "is not found")
}

func TestRPCWithdrawalCancelAndLock(t *testing.T) {
	query, admin := newTestServer(t)
	token, provider := newTestHex(1), newTestHex(10)
	_, err := admin.Deposit(token, provider, "1000")
	require.NoError(t, err)
	_, err = admin.InitWithdrawal(token, provider, "250", "")
	require.NoError(t, err)
	// the default lock blocks immediate processing
	_, err = admin.ProcessWithdrawal(1)
	require.ErrorContains(t, err, "is locked until unix second")
	// cancelling refunds the escrow
	cancelled, err := admin.CancelWithdrawal(1)
	require.NoError(t, err)
	require.NotZero(t, cancelled.Version)
	account, err := query.Account(0, provider, token)
	require.NoError(t, err)
	require.Equal(t, "1000", account.Balance.Dec())
	// the request cannot be cancelled twice
	_, err = admin.CancelWithdrawal(1)
	require.ErrorContains(t, err, "is not found")
}

func TestRPCQuote(t *testing.T) {
	query, admin := newTestServer(t)
	token, provider := newTestHex(1), newTestHex(10)
	_, err := admin.Deposit(token, provider, "1000")
	require.NoError(t, err)
	// extra vault funding opens a deficit against the staked accounting
	funded, err := admin.FundVault(token, "500")
	require.NoError(t, err)
	require.Equal(t, "1500", funded.Balance)
	// execute the quote call
	quote, err := query.Quote(0, token, "100", "")
	require.NoError(t, err)
	require.Equal(t, "100", quote.Input.WithdrawalAmount.Dec())
	require.Equal(t, pool.RegimeDefaultDeficit, quote.Amounts.Regime)
	require.Equal(t, "66", quote.Amounts.S.Dec())
	require.Equal(t, "33", quote.Amounts.T.Dec())
	// quoting does not mutate state
	vault, err := query.Vault(0, token)
	require.NoError(t, err)
	require.Equal(t, "1500", vault.Balance)
	page, err := query.Withdrawals(0, lib.PageParams{})
	require.NoError(t, err)
	require.Zero(t, page.TotalCount)
}

func TestRPCFormula(t *testing.T) {
	query, _ := newTestServer(t)
	// a balanced pool without fees pays the withdrawal in full
	amounts, err := query.Formula(&pool.WithdrawalInput{
		PoolTokenSupply:   uint256.NewInt(1000),
		StakedBalance:     uint256.NewInt(1000),
		ProtectionBalance: new(uint256.Int),
		VaultBalance:      uint256.NewInt(1000),
		ProtectionDrawCap: new(uint256.Int),
		WithdrawalAmount:  uint256.NewInt(100),
	})
	require.NoError(t, err)
	require.Equal(t, pool.RegimeDefaultSurplus, amounts.Regime)
	require.Equal(t, "100", amounts.S.Dec())
	require.Equal(t, "-100", amounts.P.String())
	// the input domain is validated before any arithmetic
	_, err = query.Formula(&pool.WithdrawalInput{
		PoolTokenSupply:   uint256.NewInt(1000),
		StakedBalance:     uint256.NewInt(1000),
		ProtectionBalance: new(uint256.Int),
		VaultBalance:      uint256.NewInt(1000),
		ProtectionDrawCap: new(uint256.Int),
		WithdrawalAmount:  uint256.NewInt(1001),
	})
	require.ErrorContains(t, err, "exceeds the vault balance")
}

func TestRPCHistoricalQueries(t *testing.T) {
	query, admin := newTestServer(t)
	token, provider := newTestHex(1), newTestHex(10)
	// version one holds the first deposit, version two both
	_, err := admin.Deposit(token, provider, "1000")
	require.NoError(t, err)
	_, err = admin.Deposit(token, provider, "500")
	require.NoError(t, err)
	p, err := query.Pool(1, token)
	require.NoError(t, err)
	require.Equal(t, "1000", p.PoolTokenSupply.Dec())
	p, err = query.Pool(0, token)
	require.NoError(t, err)
	require.Equal(t, "1500", p.PoolTokenSupply.Dec())
	// a version beyond the latest commit is rejected
	_, err = query.Pool(99, token)
	require.ErrorContains(t, err, "beyond the latest committed version")
}

func TestRPCParams(t *testing.T) {
	query, admin := newTestServer(t)
	// a fresh state serves the default params
	params, err := query.Params(0)
	require.NoError(t, err)
	require.Equal(t, pool.DefaultParams(), params.Params)
	// execute the set params call
	set, err := admin.SetParams(&pool.Params{
		WithdrawalFeePPM:      5_000,
		DeviationThresholdPPM: 20_000,
		WithdrawalLockSeconds: 60,
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, set.Version)
	params, err = query.Params(0)
	require.NoError(t, err)
	require.EqualValues(t, 5_000, params.Params.WithdrawalFeePPM)
	// execute the update param call
	updated, err := admin.UpdateParam(pool.ParamDeviationThreshold, 15_000)
	require.NoError(t, err)
	require.EqualValues(t, 15_000, updated.Params.DeviationThresholdPPM)
	// unknown names and out of bound values are rejected without a commit
	_, err = admin.UpdateParam("bogus", 1)
	require.ErrorContains(t, err, "is unknown")
	_, err = admin.UpdateParam(pool.ParamWithdrawalFee, pool.PPMResolution+1)
	require.ErrorContains(t, err, "params are invalid")
	params, err = query.Params(0)
	require.NoError(t, err)
	require.EqualValues(t, 15_000, params.Params.DeviationThresholdPPM)
}

func TestRPCInvalidRequests(t *testing.T) {
	query, admin := newTestServer(t)
	token, provider := newTestHex(1), newTestHex(10)
	// malformed addresses are rejected before touching state
	_, err := admin.Deposit("bogus", provider, "10")
	require.ErrorContains(t, err, "is not valid hex")
	// malformed amounts are rejected before touching state
	_, err = admin.Deposit(token, provider, "ten")
	require.ErrorContains(t, err, "unable to parse amount")
	// settling an unknown request fails
	_, err = admin.ProcessWithdrawal(99)
	require.ErrorContains(t, err, "is not found")
	// quoting a pool that has never seen a deposit fails
	_, err = query.Quote(0, token, "10", "")
	require.ErrorContains(t, err, "has no supply")
}

func TestRPCConfig(t *testing.T) {
	_, admin := newTestServer(t)
	// execute the config call
	config, err := admin.Config()
	require.NoError(t, err)
	require.Equal(t, lib.DefaultRPCConfig().RPCPort, config.RPCPort)
}
