package rpc

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// RPC Paths
const (
	VersionRoutePath      = "/v1/"
	StoreVersionRoutePath = "/v1/query/store-version"
	PoolRoutePath         = "/v1/query/pool"
	PoolsRoutePath        = "/v1/query/pools"
	ParamsRoutePath       = "/v1/query/params"
	VaultRoutePath        = "/v1/query/vault"
	ProtectionRoutePath   = "/v1/query/protection"
	AccountRoutePath      = "/v1/query/account"
	WithdrawalRoutePath   = "/v1/query/withdrawal"
	WithdrawalsRoutePath  = "/v1/query/withdrawals"
	QuoteRoutePath        = "/v1/query/quote"
	FormulaRoutePath      = "/v1/query/formula"
	// debug
	DebugBlockedRoutePath   = "/debug/blocked"
	DebugHeapRoutePath      = "/debug/heap"
	DebugCPURoutePath       = "/debug/cpu"
	DebugGoroutineRoutePath = "/debug/goroutine"
	// admin
	DepositRoutePath           = "/v1/admin/deposit"
	InitWithdrawalRoutePath    = "/v1/admin/init-withdrawal"
	CancelWithdrawalRoutePath  = "/v1/admin/cancel-withdrawal"
	ProcessWithdrawalRoutePath = "/v1/admin/process-withdrawal"
	FundVaultRoutePath         = "/v1/admin/fund-vault"
	FundProtectionRoutePath    = "/v1/admin/fund-protection"
	SetParamsRoutePath         = "/v1/admin/set-params"
	UpdateParamRoutePath       = "/v1/admin/update-param"
	ResourceUsageRoutePath     = "/v1/admin/resource-usage"
	ConfigRoutePath            = "/v1/admin/config"
	LogsRoutePath              = "/v1/admin/log"
)

const (
	VersionRouteName           = "version"
	StoreVersionRouteName      = "store-version"
	PoolRouteName              = "pool"
	PoolsRouteName             = "pools"
	ParamsRouteName            = "params"
	VaultRouteName             = "vault"
	ProtectionRouteName        = "protection"
	AccountRouteName           = "account"
	WithdrawalRouteName        = "withdrawal"
	WithdrawalsRouteName       = "withdrawals"
	QuoteRouteName             = "quote"
	FormulaRouteName           = "formula"
	DepositRouteName           = "deposit"
	InitWithdrawalRouteName    = "init-withdrawal"
	CancelWithdrawalRouteName  = "cancel-withdrawal"
	ProcessWithdrawalRouteName = "process-withdrawal"
	FundVaultRouteName         = "fund-vault"
	FundProtectionRouteName    = "fund-protection"
	SetParamsRouteName         = "set-params"
	UpdateParamRouteName       = "update-param"
	ResourceUsageRouteName     = "resource-usage"
	ConfigRouteName            = "config"
	LogsRouteName              = "logs"
	// debug route names double as pprof profile names
	DebugBlockedRouteName   = "block"
	DebugHeapRouteName      = "heap"
	DebugCPURouteName       = "cpu"
	DebugGoroutineRouteName = "goroutine"
)

// routes contains the method and path for a service command
type routes map[string]struct {
	Method string
	Path   string
}

// routePaths is a mapping from route names to their corresponding HTTP methods and paths.
var routePaths = routes{
	VersionRouteName:           {Method: http.MethodGet, Path: VersionRoutePath},
	StoreVersionRouteName:      {Method: http.MethodPost, Path: StoreVersionRoutePath},
	PoolRouteName:              {Method: http.MethodPost, Path: PoolRoutePath},
	PoolsRouteName:             {Method: http.MethodPost, Path: PoolsRoutePath},
	ParamsRouteName:            {Method: http.MethodPost, Path: ParamsRoutePath},
	VaultRouteName:             {Method: http.MethodPost, Path: VaultRoutePath},
	ProtectionRouteName:        {Method: http.MethodPost, Path: ProtectionRoutePath},
	AccountRouteName:           {Method: http.MethodPost, Path: AccountRoutePath},
	WithdrawalRouteName:        {Method: http.MethodPost, Path: WithdrawalRoutePath},
	WithdrawalsRouteName:       {Method: http.MethodPost, Path: WithdrawalsRoutePath},
	QuoteRouteName:             {Method: http.MethodPost, Path: QuoteRoutePath},
	FormulaRouteName:           {Method: http.MethodPost, Path: FormulaRoutePath},
	DepositRouteName:           {Method: http.MethodPost, Path: DepositRoutePath},
	InitWithdrawalRouteName:    {Method: http.MethodPost, Path: InitWithdrawalRoutePath},
	CancelWithdrawalRouteName:  {Method: http.MethodPost, Path: CancelWithdrawalRoutePath},
	ProcessWithdrawalRouteName: {Method: http.MethodPost, Path: ProcessWithdrawalRoutePath},
	FundVaultRouteName:         {Method: http.MethodPost, Path: FundVaultRoutePath},
	FundProtectionRouteName:    {Method: http.MethodPost, Path: FundProtectionRoutePath},
	SetParamsRouteName:         {Method: http.MethodPost, Path: SetParamsRoutePath},
	UpdateParamRouteName:       {Method: http.MethodPost, Path: UpdateParamRoutePath},
	ResourceUsageRouteName:     {Method: http.MethodGet, Path: ResourceUsageRoutePath},
	ConfigRouteName:            {Method: http.MethodGet, Path: ConfigRoutePath},
	LogsRouteName:              {Method: http.MethodGet, Path: LogsRoutePath},
	DebugBlockedRouteName:      {Method: http.MethodGet, Path: DebugBlockedRoutePath},
	DebugHeapRouteName:         {Method: http.MethodGet, Path: DebugHeapRoutePath},
	DebugCPURouteName:          {Method: http.MethodGet, Path: DebugCPURoutePath},
	DebugGoroutineRouteName:    {Method: http.MethodGet, Path: DebugGoroutineRoutePath},
}

// httpRouteHandlers is a mapping from route names to their handler functions
type httpRouteHandlers map[string]httprouter.Handle

// createRouter initializes and returns a new HTTP router with the query route handlers
func createRouter(s *Server) *httprouter.Router {
	var r = httpRouteHandlers{
		VersionRouteName:      s.Version,
		StoreVersionRouteName: s.StoreVersion,
		PoolRouteName:         s.Pool,
		PoolsRouteName:        s.Pools,
		ParamsRouteName:       s.Params,
		VaultRouteName:        s.Vault,
		ProtectionRouteName:   s.Protection,
		AccountRouteName:      s.Account,
		WithdrawalRouteName:   s.Withdrawal,
		WithdrawalsRouteName:  s.Withdrawals,
		QuoteRouteName:        s.Quote,
		FormulaRouteName:      s.Formula,
	}

	// Initialize a new router using the httprouter package.
	router := httprouter.New()

	for name, handler := range r {
		// Retrieve the path configuration for the current route name.
		path := routePaths[name]

		// Add the handler for the specific path and HTTP method to the router.
		router.Handle(path.Method, path.Path, logHandler{path.Path, handler}.Handle)
	}

	return router
}

// createAdminRouter initializes and returns a new HTTP router with the admin route handlers
func createAdminRouter(s *Server) *httprouter.Router {
	var r = httpRouteHandlers{
		DepositRouteName:           s.Deposit,
		InitWithdrawalRouteName:    s.InitWithdrawal,
		CancelWithdrawalRouteName:  s.CancelWithdrawal,
		ProcessWithdrawalRouteName: s.ProcessWithdrawal,
		FundVaultRouteName:         s.FundVault,
		FundProtectionRouteName:    s.FundProtection,
		SetParamsRouteName:         s.SetParams,
		UpdateParamRouteName:       s.UpdateParam,
		ResourceUsageRouteName:     s.ResourceUsage,
		ConfigRouteName:            s.Config,
		LogsRouteName:              logsHandler(s),
		// debug
		DebugBlockedRouteName:   debugHandler(DebugBlockedRouteName),
		DebugHeapRouteName:      debugHandler(DebugHeapRouteName),
		DebugCPURouteName:       debugHandler(DebugCPURouteName),
		DebugGoroutineRouteName: debugHandler(DebugGoroutineRouteName),
	}

	// Initialize a new router using the httprouter package.
	router := httprouter.New()

	for name, handler := range r {
		// Retrieve the path configuration for the current route name.
		path := routePaths[name]

		// Add the handler for the specific path and HTTP method to the router.
		router.Handle(path.Method, path.Path, logHandler{path.Path, handler}.Handle)
	}

	return router
}
