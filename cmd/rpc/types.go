package rpc

import (
	"github.com/JudioLam9/contracts-v3/lib"
	"github.com/JudioLam9/contracts-v3/pool"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// =====================================================
// Query Request Types
// =====================================================

type versionRequest struct {
	Version uint64 `json:"version"`
}

func (v *versionRequest) GetVersion() uint64 {
	return v.Version
}

// queryWithVersion is any request carrying a store version, zero means latest
type queryWithVersion interface {
	GetVersion() uint64
}

type tokenRequest struct {
	Token string `json:"token"`
}

type providerRequest struct {
	Provider string `json:"provider"`
}

type amountRequest struct {
	Amount string `json:"amount"`
}

type idRequest struct {
	Id uint64 `json:"id"`
}

type paginatedVersionRequest struct {
	versionRequest
	lib.PageParams
}

type versionAndTokenRequest struct {
	versionRequest
	tokenRequest
}

type versionAndIdRequest struct {
	versionRequest
	idRequest
}

type accountRequest struct {
	versionRequest
	tokenRequest
	providerRequest
}

type quoteRequest struct {
	versionRequest
	tokenRequest
	PoolTokenAmount string `json:"poolTokenAmount"`
	DrawCap         string `json:"drawCap"`
}

// =====================================================
// Admin Request Types
// =====================================================

type depositRequest struct {
	tokenRequest
	providerRequest
	amountRequest
}

type fundRequest struct {
	tokenRequest
	amountRequest
}

type initWithdrawalRequest struct {
	tokenRequest
	providerRequest
	PoolTokenAmount string `json:"poolTokenAmount"`
	DrawCap         string `json:"drawCap"`
}

type updateParamRequest struct {
	ParamName  string `json:"paramName"`
	ParamValue uint64 `json:"paramValue"`
}

// =====================================================
// Response Types
// =====================================================

// VersionResponse reports the latest committed store version
type VersionResponse struct {
	Version uint64 `json:"version"`
}

// BalanceResponse reports a tracked base token balance
type BalanceResponse struct {
	Token   common.Address `json:"token"`
	Balance string         `json:"balance"`
}

// FundResponse reports a credited balance and the version that holds it
type FundResponse struct {
	Token   common.Address `json:"token"`
	Balance string         `json:"balance"`
	Version uint64         `json:"version"`
}

// DepositResponse reports the pool tokens minted by a deposit and the version that holds them
type DepositResponse struct {
	Token   common.Address `json:"token"`
	Minted  string         `json:"minted"`
	Version uint64         `json:"version"`
}

// WithdrawalResponse pairs a withdrawal request with the version that holds it
type WithdrawalResponse struct {
	Request *pool.WithdrawalRequest `json:"request"`
	Version uint64                  `json:"version"`
}

// ProcessResponse reports the settlement of a processed withdrawal
type ProcessResponse struct {
	Id      uint64                  `json:"id"`
	Amounts *pool.WithdrawalAmounts `json:"amounts"`
	Version uint64                  `json:"version"`
}

// QuoteResponse previews a settlement without touching state
type QuoteResponse struct {
	Input   *pool.WithdrawalInput   `json:"input"`
	Amounts *pool.WithdrawalAmounts `json:"amounts"`
}

// ParamsResponse pairs the pool parameters with the version that holds them
type ParamsResponse struct {
	Params  *pool.Params `json:"params"`
	Version uint64       `json:"version"`
}

// CommitResponse reports the version created by an admin mutation
type CommitResponse struct {
	Version uint64 `json:"version"`
}

type ProcessResourceUsage struct {
	Name          string  `json:"name"`
	Status        string  `json:"status"`
	CreateTime    string  `json:"createTime"`
	FDCount       uint64  `json:"fdCount"`
	ThreadCount   uint64  `json:"threadCount"`
	MemoryPercent float64 `json:"usedMemoryPercent"`
	CPUPercent    float64 `json:"usedCPUPercent"`
}

type SystemResourceUsage struct {
	// ram
	TotalRAM       uint64  `json:"totalRAM"`
	AvailableRAM   uint64  `json:"availableRAM"`
	UsedRAM        uint64  `json:"usedRAM"`
	UsedRAMPercent float64 `json:"usedRAMPercent"`
	FreeRAM        uint64  `json:"freeRAM"`
	// CPU
	UsedCPUPercent float64 `json:"usedCPUPercent"`
	UserCPU        float64 `json:"userCPU"`
	SystemCPU      float64 `json:"systemCPU"`
	IdleCPU        float64 `json:"idleCPU"`
	// disk
	TotalDisk       uint64  `json:"totalDisk"`
	UsedDisk        uint64  `json:"usedDisk"`
	UsedDiskPercent float64 `json:"usedDiskPercent"`
	FreeDisk        uint64  `json:"freeDisk"`
	// io
	ReceivedBytesIO uint64 `json:"receivedBytesIO"`
	WrittenBytesIO  uint64 `json:"writtenBytesIO"`
}

// ResourceUsageResponse reports process and system resource usage of the node
type ResourceUsageResponse struct {
	Process ProcessResourceUsage `json:"process"`
	System  SystemResourceUsage  `json:"system"`
}

// parseAddress parses and validates a hex encoded 20 byte address
func parseAddress(s string) (common.Address, lib.ErrorI) {
	if !common.IsHexAddress(s) {
		return common.Address{}, ErrDecodeAddress(s)
	}
	return common.HexToAddress(s), nil
}

// parseAmount parses a base 10 amount, treating the empty string as zero
func parseAmount(s string) (*uint256.Int, lib.ErrorI) {
	if s == "" {
		return new(uint256.Int), nil
	}
	return lib.StringToUint256(s)
}
