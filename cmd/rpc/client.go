package rpc

import (
	"bytes"
	"io"
	"net/http"

	"github.com/JudioLam9/contracts-v3/lib"
	"github.com/JudioLam9/contracts-v3/pool"
)

// Client is a typed HTTP client for the query and admin RPC servers
type Client struct {
	rpcURL    string
	rpcPort   string
	adminPort string
	client    http.Client
}

// NewClient constructs a Client from the rpc url and the query and admin ports
func NewClient(rpcURL, rpcPort, adminPort string) *Client {
	return &Client{rpcURL: rpcURL, rpcPort: rpcPort, adminPort: adminPort, client: http.Client{}}
}

// Version retrieves the software version of the service
func (c *Client) Version() (version *string, err lib.ErrorI) {
	version = new(string)
	err = c.get(VersionRouteName, "", version)
	return
}

// StoreVersion retrieves the latest committed store version
func (c *Client) StoreVersion() (p *VersionResponse, err lib.ErrorI) {
	p = new(VersionResponse)
	err = c.post(StoreVersionRouteName, nil, p)
	return
}

// Pool retrieves the pool tracked for a base token
func (c *Client) Pool(version uint64, token string) (p *pool.Pool, err lib.ErrorI) {
	p = new(pool.Pool)
	err = c.versionAndTokenRequest(PoolRouteName, version, token, p)
	return
}

// Pools retrieves a page of pools
func (c *Client) Pools(version uint64, params lib.PageParams) (p *lib.Page, err lib.ErrorI) {
	p = new(lib.Page)
	err = c.paginatedVersionRequest(PoolsRouteName, version, params, p)
	return
}

// Params retrieves the pool parameters
func (c *Client) Params(version uint64) (p *ParamsResponse, err lib.ErrorI) {
	p = new(ParamsResponse)
	err = c.versionRequest(ParamsRouteName, version, p)
	return
}

// Vault retrieves the vault balance tracked for a base token
func (c *Client) Vault(version uint64, token string) (p *BalanceResponse, err lib.ErrorI) {
	p = new(BalanceResponse)
	err = c.versionAndTokenRequest(VaultRouteName, version, token, p)
	return
}

// Protection retrieves the protection wallet balance tracked for a base token
func (c *Client) Protection(version uint64, token string) (p *BalanceResponse, err lib.ErrorI) {
	p = new(BalanceResponse)
	err = c.versionAndTokenRequest(ProtectionRouteName, version, token, p)
	return
}

// Account retrieves a provider's pool token account for a base token
func (c *Client) Account(version uint64, provider, token string) (p *pool.Account, err lib.ErrorI) {
	bz, err := lib.MarshalJSON(accountRequest{
		versionRequest:  versionRequest{version},
		tokenRequest:    tokenRequest{token},
		providerRequest: providerRequest{provider},
	})
	if err != nil {
		return
	}
	p = new(pool.Account)
	err = c.post(AccountRouteName, bz, p)
	return
}

// Withdrawal retrieves a pending withdrawal request by id
func (c *Client) Withdrawal(version, id uint64) (p *pool.WithdrawalRequest, err lib.ErrorI) {
	bz, err := lib.MarshalJSON(versionAndIdRequest{
		versionRequest: versionRequest{version},
		idRequest:      idRequest{id},
	})
	if err != nil {
		return
	}
	p = new(pool.WithdrawalRequest)
	err = c.post(WithdrawalRouteName, bz, p)
	return
}

// Withdrawals retrieves a page of pending withdrawal requests
func (c *Client) Withdrawals(version uint64, params lib.PageParams) (p *lib.Page, err lib.ErrorI) {
	p = new(lib.Page)
	err = c.paginatedVersionRequest(WithdrawalsRouteName, version, params, p)
	return
}

// Quote previews the settlement of a withdrawal without mutating state
func (c *Client) Quote(version uint64, token, poolTokenAmount, drawCap string) (p *QuoteResponse, err lib.ErrorI) {
	bz, err := lib.MarshalJSON(quoteRequest{
		versionRequest:  versionRequest{version},
		tokenRequest:    tokenRequest{token},
		PoolTokenAmount: poolTokenAmount,
		DrawCap:         drawCap,
	})
	if err != nil {
		return
	}
	p = new(QuoteResponse)
	err = c.post(QuoteRouteName, bz, p)
	return
}

// Formula runs the settlement calculation over caller supplied balances
func (c *Client) Formula(input *pool.WithdrawalInput) (p *pool.WithdrawalAmounts, err lib.ErrorI) {
	bz, err := lib.MarshalJSON(input)
	if err != nil {
		return
	}
	p = new(pool.WithdrawalAmounts)
	err = c.post(FormulaRouteName, bz, p)
	return
}

// Deposit mints pool tokens for a base token deposit into the vault
func (c *Client) Deposit(token, provider, amount string) (p *DepositResponse, err lib.ErrorI) {
	bz, err := lib.MarshalJSON(depositRequest{
		tokenRequest:    tokenRequest{token},
		providerRequest: providerRequest{provider},
		amountRequest:   amountRequest{amount},
	})
	if err != nil {
		return
	}
	p = new(DepositResponse)
	err = c.post(DepositRouteName, bz, p, true)
	return
}

// InitWithdrawal escrows pool tokens and opens a withdrawal request
func (c *Client) InitWithdrawal(token, provider, poolTokenAmount, drawCap string) (p *WithdrawalResponse, err lib.ErrorI) {
	bz, err := lib.MarshalJSON(initWithdrawalRequest{
		tokenRequest:    tokenRequest{token},
		providerRequest: providerRequest{provider},
		PoolTokenAmount: poolTokenAmount,
		DrawCap:         drawCap,
	})
	if err != nil {
		return
	}
	p = new(WithdrawalResponse)
	err = c.post(InitWithdrawalRouteName, bz, p, true)
	return
}

// CancelWithdrawal closes a pending withdrawal request and refunds the escrow
func (c *Client) CancelWithdrawal(id uint64) (p *CommitResponse, err lib.ErrorI) {
	bz, err := lib.MarshalJSON(idRequest{Id: id})
	if err != nil {
		return
	}
	p = new(CommitResponse)
	err = c.post(CancelWithdrawalRouteName, bz, p, true)
	return
}

// ProcessWithdrawal settles an unlocked withdrawal request
func (c *Client) ProcessWithdrawal(id uint64) (p *ProcessResponse, err lib.ErrorI) {
	bz, err := lib.MarshalJSON(idRequest{Id: id})
	if err != nil {
		return
	}
	p = new(ProcessResponse)
	err = c.post(ProcessWithdrawalRouteName, bz, p, true)
	return
}

// FundVault credits base tokens to a token's vault balance
func (c *Client) FundVault(token, amount string) (p *FundResponse, err lib.ErrorI) {
	return c.fundRequest(FundVaultRouteName, token, amount)
}

// FundProtection credits base tokens to a token's protection wallet balance
func (c *Client) FundProtection(token, amount string) (p *FundResponse, err lib.ErrorI) {
	return c.fundRequest(FundProtectionRouteName, token, amount)
}

// SetParams replaces the pool parameters
func (c *Client) SetParams(params *pool.Params) (p *ParamsResponse, err lib.ErrorI) {
	bz, err := lib.MarshalJSON(params)
	if err != nil {
		return
	}
	p = new(ParamsResponse)
	err = c.post(SetParamsRouteName, bz, p, true)
	return
}

// UpdateParam updates a single pool parameter by name
func (c *Client) UpdateParam(name string, value uint64) (p *ParamsResponse, err lib.ErrorI) {
	bz, err := lib.MarshalJSON(updateParamRequest{ParamName: name, ParamValue: value})
	if err != nil {
		return
	}
	p = new(ParamsResponse)
	err = c.post(UpdateParamRouteName, bz, p, true)
	return
}

// ResourceUsage retrieves the node's resource usage
func (c *Client) ResourceUsage() (p *ResourceUsageResponse, err lib.ErrorI) {
	p = new(ResourceUsageResponse)
	err = c.get(ResourceUsageRouteName, "", p, true)
	return
}

// Config retrieves the node's configuration file
func (c *Client) Config() (p *lib.Config, err lib.ErrorI) {
	p = new(lib.Config)
	err = c.get(ConfigRouteName, "", p, true)
	return
}

// Logs retrieves the node's log file, newest lines first
func (c *Client) Logs() (logs string, err lib.ErrorI) {
	resp, e := c.client.Get(c.url(LogsRouteName, "", true))
	if e != nil {
		return "", ErrGetRequest(e)
	}
	bz, e := io.ReadAll(resp.Body)
	if e != nil {
		return "", ErrReadBody(e)
	}
	return string(bz), nil
}

func (c *Client) versionRequest(routeName string, version uint64, ptr any) (err lib.ErrorI) {
	bz, err := lib.MarshalJSON(versionRequest{Version: version})
	if err != nil {
		return
	}
	err = c.post(routeName, bz, ptr)
	return
}

func (c *Client) paginatedVersionRequest(routeName string, version uint64, p lib.PageParams, ptr any) (err lib.ErrorI) {
	bz, err := lib.MarshalJSON(paginatedVersionRequest{
		versionRequest: versionRequest{version},
		PageParams:     p,
	})
	if err != nil {
		return
	}
	err = c.post(routeName, bz, ptr)
	return
}

func (c *Client) versionAndTokenRequest(routeName string, version uint64, token string, ptr any) (err lib.ErrorI) {
	bz, err := lib.MarshalJSON(versionAndTokenRequest{
		versionRequest: versionRequest{version},
		tokenRequest:   tokenRequest{token},
	})
	if err != nil {
		return
	}
	err = c.post(routeName, bz, ptr)
	return
}

func (c *Client) fundRequest(routeName, token, amount string) (p *FundResponse, err lib.ErrorI) {
	bz, err := lib.MarshalJSON(fundRequest{
		tokenRequest:  tokenRequest{token},
		amountRequest: amountRequest{amount},
	})
	if err != nil {
		return
	}
	p = new(FundResponse)
	err = c.post(routeName, bz, p, true)
	return
}

func (c *Client) url(routeName, param string, admin ...bool) string {
	// if rpc port and admin ports are defined then it's a local RPC deployment
	if c.rpcPort != "" && c.adminPort != "" {
		if admin != nil && admin[0] {
			return "http://" + localhost + colon + c.adminPort + routePaths[routeName].Path + param
		}
		return c.rpcURL + colon + c.rpcPort + routePaths[routeName].Path + param
	}
	// if rpc port is not defined then it's considered a remote RPC deployment
	return c.rpcURL + routePaths[routeName].Path + param
}

func (c *Client) post(routeName string, json []byte, ptr any, admin ...bool) lib.ErrorI {
	resp, err := c.client.Post(c.url(routeName, "", admin...), ApplicationJSON, bytes.NewBuffer(json))
	if err != nil {
		return ErrPostRequest(err)
	}
	return c.unmarshal(resp, ptr)
}

func (c *Client) get(routeName, param string, ptr any, admin ...bool) lib.ErrorI {
	resp, err := c.client.Get(c.url(routeName, param, admin...))
	if err != nil {
		return ErrGetRequest(err)
	}
	return c.unmarshal(resp, ptr)
}

func (c *Client) unmarshal(resp *http.Response, ptr any) lib.ErrorI {
	bz, err := io.ReadAll(resp.Body)
	if err != nil {
		return ErrReadBody(err)
	}
	if resp.StatusCode != http.StatusOK {
		return ErrHttpStatus(resp.Status, resp.StatusCode, bz)
	}
	return lib.UnmarshalJSON(bz, ptr)
}
