package pool

import "github.com/JudioLam9/contracts-v3/lib"

// PPMResolution is the fixed denominator for all parts per million fractions
const PPMResolution = 1_000_000

// param names accepted by UpdateParam()
const (
	ParamWithdrawalFee      = "withdrawalFeePPM"
	ParamDeviationThreshold = "deviationThresholdPPM"
	ParamWithdrawalLock     = "withdrawalLockSeconds"
)

// Params defines the governance adjustable settings of the withdrawal engine
type Params struct {
	WithdrawalFeePPM      uint64 `json:"withdrawalFeePPM"`      // fee charged on withdrawal, parts per million
	DeviationThresholdPPM uint64 `json:"deviationThresholdPPM"` // arbitrage deviation threshold, parts per million
	WithdrawalLockSeconds uint64 `json:"withdrawalLockSeconds"` // cooldown between initiating and processing a withdrawal
}

// DefaultParams() returns the params a fresh state starts with
func DefaultParams() *Params {
	return &Params{
		WithdrawalFeePPM:      2_500,   // 0.25%
		DeviationThresholdPPM: 10_000,  // 1%
		WithdrawalLockSeconds: 604_800, // 7 days
	}
}

// Check() validates the params against their bounds
func (p *Params) Check() lib.ErrorI {
	if p == nil {
		return ErrInvalidParams("params are empty")
	}
	// both fractions are numerators over the fixed ppm resolution
	if p.WithdrawalFeePPM > PPMResolution {
		return ErrInvalidParams(ParamWithdrawalFee)
	}
	if p.DeviationThresholdPPM > PPMResolution {
		return ErrInvalidParams(ParamDeviationThreshold)
	}
	return nil
}

// SetUint64() updates a single param by name
func (p *Params) SetUint64(name string, value uint64) lib.ErrorI {
	switch name {
	case ParamWithdrawalFee:
		p.WithdrawalFeePPM = value
	case ParamDeviationThreshold:
		p.DeviationThresholdPPM = value
	case ParamWithdrawalLock:
		p.WithdrawalLockSeconds = value
	default:
		return ErrUnknownParam(name)
	}
	return p.Check()
}

// Copy() returns a deep copy of the params
func (p *Params) Copy() *Params {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}
