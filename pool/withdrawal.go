package pool

import (
	"encoding/json"
	"math/big"

	"github.com/JudioLam9/contracts-v3/lib"
	"github.com/holiman/uint256"
)

/*
	withdrawal.go is the settlement engine for liquidity withdrawals.

	A withdrawal is settled along exactly one of four paths. The vault either holds more
	base token than the pool's accounting believes (deficit) or less (surplus), and within
	each side the withdrawal is either small enough that a closed form payout pre-empts the
	arbitrage a trader could otherwise take (arbitrage path) or it is paid out
	proportionally (default path).

	All arithmetic is exact. The classifier runs on 256 bit integers with every product
	proven in range, routing the two inequalities whose sides exceed 256 bits through exact
	512 bit products. The payout formulas run on arbitrary precision integers because their
	intermediates exceed 256 bits, and every division floors with negation applied after
	the floor.
*/

// WithdrawalRegime identifies which of the four mutually exclusive settlement paths was taken
type WithdrawalRegime string

const (
	RegimeArbitrageDeficit WithdrawalRegime = "arbitrage_deficit"
	RegimeArbitrageSurplus WithdrawalRegime = "arbitrage_surplus"
	RegimeDefaultDeficit   WithdrawalRegime = "default_deficit"
	RegimeDefaultSurplus   WithdrawalRegime = "default_surplus"
)

// ppmDenominator is the shared 256 bit form of the ppm resolution
var ppmDenominator = uint256.NewInt(PPMResolution)

// WithdrawalInput is the full set of balances and parameters a settlement is a pure function of
type WithdrawalInput struct {
	PoolTokenSupply       *uint256.Int // a, outstanding pool token supply
	StakedBalance         *uint256.Int // b, base tokens the pool's accounting believes are staked
	ProtectionBalance     *uint256.Int // c, base tokens held by the external protection wallet
	VaultBalance          *uint256.Int // e, base tokens actually held by the vault
	ProtectionDrawCap     *uint256.Int // w, requested cap on the protection wallet draw
	WithdrawalFeePPM      uint64       // m, withdrawal fee in parts per million
	DeviationThresholdPPM uint64       // n, arbitrage deviation threshold in parts per million
	WithdrawalAmount      *uint256.Int // x, withdrawal in base token equivalent units
}

// WithdrawalAmounts is the settlement record for a single withdrawal, constructed fresh
// per call and fully populated along exactly one regime path
type WithdrawalAmounts struct {
	Regime WithdrawalRegime // the settlement path taken
	P      *big.Int         // signed change to the pool's staked balance accounting
	Q      *big.Int         // signed change to the protocol owned liquidity bookkeeping, equals P on the default paths
	R      *big.Int         // signed adjustment to the protection wallet deficit tracking
	S      *uint256.Int     // base tokens the vault transfers to the provider
	T      *uint256.Int     // vault funded compensation on the default deficit path
	U      *uint256.Int     // protection wallet funded compensation on the default deficit path
}

// Check() validates the input domain: amounts at most 2^128-1, fractions at most one
// million ppm, and the withdrawal bounded by the vault balance
func (i *WithdrawalInput) Check() lib.ErrorI {
	if i == nil {
		return ErrInvalidWithdrawal()
	}
	amounts := []struct {
		value *uint256.Int
		field string
	}{
		{i.PoolTokenSupply, "poolTokenSupply"},
		{i.StakedBalance, "stakedBalance"},
		{i.ProtectionBalance, "protectionBalance"},
		{i.VaultBalance, "vaultBalance"},
		{i.ProtectionDrawCap, "protectionDrawCap"},
		{i.WithdrawalAmount, "withdrawalAmount"},
	}
	for _, amount := range amounts {
		if amount.value == nil || amount.value.Gt(lib.MaxUint128) {
			return ErrInvalidAmountBound(amount.field)
		}
	}
	if i.WithdrawalFeePPM > PPMResolution {
		return ErrInvalidFeeBound("withdrawalFeePPM")
	}
	if i.DeviationThresholdPPM > PPMResolution {
		return ErrInvalidFeeBound("deviationThresholdPPM")
	}
	if i.WithdrawalAmount.Gt(i.VaultBalance) {
		return ErrWithdrawalExceedsBase()
	}
	return nil
}

// CalculateWithdrawalAmounts() classifies the withdrawal into its settlement regime and
// computes the payout record, identical inputs always produce identical outputs
func CalculateWithdrawalAmounts(input *WithdrawalInput) (*WithdrawalAmounts, lib.ErrorI) {
	// validate the input domain before any arithmetic
	if err := input.Check(); err != nil {
		return nil, err
	}
	// discount the withdrawal by the deviation threshold, y = x*(M-n)/M
	y := netOfDeviation(input.WithdrawalAmount, input.DeviationThresholdPPM)
	// the holdings the pool's accounting believes in, staked plus protection
	believed := new(uint256.Int).Add(input.StakedBalance, input.ProtectionBalance)
	// the vault balance under the same discount decides deficit against the believed holdings
	effective := netOfDeviation(input.VaultBalance, input.DeviationThresholdPPM)
	if effective.Gt(believed) {
		// deficit: the vault actually holds more than the accounting believes
		f := new(uint256.Int).Sub(effective, believed)
		g := new(uint256.Int).Sub(input.VaultBalance, believed)
		if underProtectionLimit(input) && feeCoversDeficitArb(input, f, g) {
			return arbitrageDeficit(input, y, f)
		}
		return defaultDeficit(input, y, g)
	}
	// surplus: the accounting believes more than the vault actually holds
	f := lib.SafeSub(believed, input.VaultBalance)
	if !f.IsZero() && underProtectionLimit(input) && feeCoversSurplusArb(input, f) {
		return arbitrageSurplus(input, y, f)
	}
	return defaultSurplus(input, y)
}

// netOfDeviation() discounts an amount by the deviation threshold, floor(v*(M-n)/M)
func netOfDeviation(v *uint256.Int, n uint64) *uint256.Int {
	// v*(M-n) is exact, v is at most 2^128-1 and the fraction at most 2^20
	out := new(uint256.Int).Mul(v, uint256.NewInt(PPMResolution-n))
	return out.Div(out, ppmDenominator)
}

// underProtectionLimit() reports whether the withdrawal is small enough against the
// protection wallet's share of the vault for an arbitrage free payout to exist,
// b*x < c*(e-x)
func underProtectionLimit(i *WithdrawalInput) bool {
	// both products are exact, every operand is at most 2^128-1
	left := new(uint256.Int).Mul(i.StakedBalance, i.WithdrawalAmount)
	right := new(uint256.Int).Sub(i.VaultBalance, i.WithdrawalAmount)
	right.Mul(i.ProtectionBalance, right)
	return left.Lt(right)
}

// feeCoversDeficitArb() reports whether fee and deviation revenue cover the cost of
// re-adding the withdrawn liquidity in a deficit, b*e*(f*m+e*n) > f*x*g*(M-m),
// both sides exceed 256 bits so the comparison runs on exact 512 bit products
func feeCoversDeficitArb(i *WithdrawalInput, f, g *uint256.Int) bool {
	// b*e is exact, both operands are at most 2^128-1
	be := new(uint256.Int).Mul(i.StakedBalance, i.VaultBalance)
	// f*m + e*n stays under 2^149
	revenue := new(uint256.Int).Mul(f, uint256.NewInt(i.WithdrawalFeePPM))
	revenue.Add(revenue, new(uint256.Int).Mul(i.VaultBalance, uint256.NewInt(i.DeviationThresholdPPM)))
	// f*x is exact, f is below the vault balance in a deficit and x is at most 2^128-1
	fx := new(uint256.Int).Mul(f, i.WithdrawalAmount)
	// g*(M-m) stays under 2^148
	cost := new(uint256.Int).Mul(g, uint256.NewInt(PPMResolution-i.WithdrawalFeePPM))
	return lib.WideMul(be, revenue).Gt(lib.WideMul(fx, cost))
}

// feeCoversSurplusArb() reports whether fee and deviation revenue cover the cost of
// removing the withdrawn liquidity in a surplus, b*e*(f*m+e*n)*M > f*x*(f*M+e*n)*(M-m),
// both sides exceed 256 bits so the comparison runs on exact 512 bit products
func feeCoversSurplusArb(i *WithdrawalInput, f *uint256.Int) bool {
	// b*e is exact, both operands are at most 2^128-1
	be := new(uint256.Int).Mul(i.StakedBalance, i.VaultBalance)
	// (f*m + e*n)*M stays under 2^170
	revenue := new(uint256.Int).Mul(f, uint256.NewInt(i.WithdrawalFeePPM))
	revenue.Add(revenue, new(uint256.Int).Mul(i.VaultBalance, uint256.NewInt(i.DeviationThresholdPPM)))
	revenue.Mul(revenue, ppmDenominator)
	// f*x is exact, f = b+c-e and x <= e keep the product under 2^256
	fx := new(uint256.Int).Mul(f, i.WithdrawalAmount)
	// (f*M + e*n)*(M-m) stays under 2^170
	cost := new(uint256.Int).Mul(f, ppmDenominator)
	cost.Add(cost, new(uint256.Int).Mul(i.VaultBalance, uint256.NewInt(i.DeviationThresholdPPM)))
	cost.Mul(cost, uint256.NewInt(PPMResolution-i.WithdrawalFeePPM))
	return lib.WideMul(be, revenue).Gt(lib.WideMul(fx, cost))
}

// arbitrageDeficit() settles a withdrawal where re-adding the discounted amounts to the
// pool is cheaper than letting traders close the deficit externally
// h = f*(M-m); k = b*e*M - x*h; p = floor(a*x*h/k); r = -floor(x*f/e); s = y
func arbitrageDeficit(i *WithdrawalInput, y, f *uint256.Int) (*WithdrawalAmounts, lib.ErrorI) {
	a, b, e, x := i.PoolTokenSupply.ToBig(), i.StakedBalance.ToBig(), i.VaultBalance.ToBig(), i.WithdrawalAmount.ToBig()
	// h = f*(M-m)
	h := new(big.Int).Mul(f.ToBig(), big.NewInt(int64(PPMResolution-i.WithdrawalFeePPM)))
	// k = b*e*M - x*h
	k := new(big.Int).Mul(b, e)
	k.Mul(k, big.NewInt(PPMResolution))
	k.Sub(k, new(big.Int).Mul(x, h))
	// p = floor(a*x*h/k), the trading liquidity the pool re-adds
	p, err := lib.BigMulDiv(new(big.Int).Mul(a, x), h, k)
	if err != nil {
		return nil, err
	}
	// r = -floor(x*f/e)
	r, err := lib.BigMulDiv(x, f.ToBig(), e)
	if err != nil {
		return nil, err
	}
	return &WithdrawalAmounts{
		Regime: RegimeArbitrageDeficit,
		P:      p,
		Q:      new(big.Int),
		R:      r.Neg(r),
		S:      new(uint256.Int).Set(y),
		T:      new(uint256.Int),
		U:      new(uint256.Int),
	}, nil
}

// arbitrageSurplus() settles a withdrawal where removing the discounted amounts from the
// pool is cheaper than letting traders close the surplus externally
// h = f*M + e*n; k = b*e*(M-m) + floor(x*h*(M-m)/M); p = -floor(a*x*h/k);
// r = floor(x*h/(e*M)); s = y
func arbitrageSurplus(i *WithdrawalInput, y, f *uint256.Int) (*WithdrawalAmounts, lib.ErrorI) {
	a, b, e, x := i.PoolTokenSupply.ToBig(), i.StakedBalance.ToBig(), i.VaultBalance.ToBig(), i.WithdrawalAmount.ToBig()
	M, feeLeft := big.NewInt(PPMResolution), big.NewInt(int64(PPMResolution-i.WithdrawalFeePPM))
	// h = f*M + e*n
	h := new(big.Int).Mul(f.ToBig(), M)
	h.Add(h, new(big.Int).Mul(e, big.NewInt(int64(i.DeviationThresholdPPM))))
	// k = b*e*(M-m) + floor(x*h*(M-m)/M)
	k := new(big.Int).Mul(b, e)
	k.Mul(k, feeLeft)
	discounted, err := lib.BigMulDiv(new(big.Int).Mul(x, h), feeLeft, M)
	if err != nil {
		return nil, err
	}
	k.Add(k, discounted)
	// p = -floor(a*x*h/k), the trading liquidity the pool removes
	p, err := lib.BigMulDiv(new(big.Int).Mul(a, x), h, k)
	if err != nil {
		return nil, err
	}
	// r = floor(x*h/(e*M))
	r, err := lib.BigMulDiv(x, h, new(big.Int).Mul(e, M))
	if err != nil {
		return nil, err
	}
	return &WithdrawalAmounts{
		Regime: RegimeArbitrageSurplus,
		P:      p.Neg(p),
		Q:      new(big.Int),
		R:      r,
		S:      new(uint256.Int).Set(y),
		T:      new(uint256.Int),
		U:      new(uint256.Int),
	}, nil
}

// defaultDeficit() settles a withdrawal proportionally in a deficit and compensates the
// unbacked share from the protection wallet and the vault
// z = max(y*b - c*(e-y), 0); p = q = -floor(a*z/(b*e)); r = -floor(z/e); s = floor(y*(b+c)/e)
func defaultDeficit(i *WithdrawalInput, y, g *uint256.Int) (*WithdrawalAmounts, lib.ErrorI) {
	a, b, c, e := i.PoolTokenSupply.ToBig(), i.StakedBalance.ToBig(), i.ProtectionBalance.ToBig(), i.VaultBalance.ToBig()
	yb := y.ToBig()
	// z = max(y*b - c*(e-y), 0), the payout share the protection wallet does not back
	z := lib.BigSubOrZero(new(big.Int).Mul(yb, b), new(big.Int).Mul(c, new(big.Int).Sub(e, yb)))
	// p = -floor(a*z/(b*e)), shared with q
	be := new(big.Int).Mul(b, e)
	p, err := lib.BigMulDiv(a, z, be)
	if err != nil {
		return nil, err
	}
	p.Neg(p)
	// r = -floor(z/e)
	r, err := lib.BigDiv(z, e)
	if err != nil {
		return nil, err
	}
	// s = floor(y*(b+c)/e), the provider's share of what the vault actually backs
	sBig, err := lib.BigMulDiv(yb, new(big.Int).Add(b, c), e)
	if err != nil {
		return nil, err
	}
	s, err := lib.BigToUint256(sBig)
	if err != nil {
		return nil, err
	}
	// allocate the deficit compensation between the vault and the protection wallet
	t, u, err := protectionSplit(i, yb, g.ToBig(), be)
	if err != nil {
		return nil, err
	}
	return &WithdrawalAmounts{
		Regime: RegimeDefaultDeficit,
		P:      p,
		Q:      new(big.Int).Set(p),
		R:      r.Neg(r),
		S:      s,
		T:      t,
		U:      u,
	}, nil
}

// protectionSplit() allocates the deficit compensation between vault funding t and
// protection wallet funding u, bounded by the requested draw cap w
// w = 0: t = floor(a*y*g/(b*e)), u = 0
// w > 0 and floor(a*y*g/e) > w*a: t = (floor(a*y*g/e) - w*a)/b, u = w
// w > 0 otherwise: t = 0, u = floor(y*g/a)
func protectionSplit(i *WithdrawalInput, y, g, be *big.Int) (*uint256.Int, *uint256.Int, lib.ErrorI) {
	a := i.PoolTokenSupply.ToBig()
	// a*y*g is shared by every allocation
	ayg := new(big.Int).Mul(a, y)
	ayg.Mul(ayg, g)
	// without a draw cap the vault funds the whole compensation
	if i.ProtectionDrawCap.IsZero() {
		tBig, err := lib.BigDiv(ayg, be)
		if err != nil {
			return nil, nil, err
		}
		t, err := lib.BigToUint256(tBig)
		if err != nil {
			return nil, nil, err
		}
		return t, new(uint256.Int), nil
	}
	// weigh the full compensation against the cap scaled by supply
	tb, err := lib.BigDiv(ayg, i.VaultBalance.ToBig())
	if err != nil {
		return nil, nil, err
	}
	wa := new(big.Int).Mul(i.ProtectionDrawCap.ToBig(), a)
	if tb.Cmp(wa) > 0 {
		// the cap is exhausted, the wallet pays w and the vault tops up the rest
		tBig, e := lib.BigDiv(new(big.Int).Sub(tb, wa), i.StakedBalance.ToBig())
		if e != nil {
			return nil, nil, e
		}
		t, e := lib.BigToUint256(tBig)
		if e != nil {
			return nil, nil, e
		}
		return t, new(uint256.Int).Set(i.ProtectionDrawCap), nil
	}
	// the cap covers the compensation, the wallet pays all of it
	uBig, err := lib.BigMulDiv(y, g, a)
	if err != nil {
		return nil, nil, err
	}
	u, err := lib.BigToUint256(uBig)
	if err != nil {
		return nil, nil, err
	}
	return new(uint256.Int), u, nil
}

// defaultSurplus() settles a withdrawal proportionally in a surplus
// z = max(y-c, 0); p = q = -floor(a*z/b); r = -z; s = y
func defaultSurplus(i *WithdrawalInput, y *uint256.Int) (*WithdrawalAmounts, lib.ErrorI) {
	a, b, c := i.PoolTokenSupply.ToBig(), i.StakedBalance.ToBig(), i.ProtectionBalance.ToBig()
	yb := y.ToBig()
	// z = max(y-c, 0), the payout share the protection wallet does not back
	z := lib.BigSubOrZero(yb, c)
	// p = -floor(a*z/b), shared with q
	p, err := lib.BigMulDiv(a, z, b)
	if err != nil {
		return nil, err
	}
	p.Neg(p)
	return &WithdrawalAmounts{
		Regime: RegimeDefaultSurplus,
		P:      p,
		Q:      new(big.Int).Set(p),
		R:      new(big.Int).Neg(z),
		S:      new(uint256.Int).Set(y),
		T:      new(uint256.Int),
		U:      new(uint256.Int),
	}, nil
}

type withdrawalInput struct {
	PoolTokenSupply       string `json:"poolTokenSupply"`
	StakedBalance         string `json:"stakedBalance"`
	ProtectionBalance     string `json:"protectionBalance"`
	VaultBalance          string `json:"vaultBalance"`
	ProtectionDrawCap     string `json:"protectionDrawCap"`
	WithdrawalFeePPM      uint64 `json:"withdrawalFeePPM"`
	DeviationThresholdPPM uint64 `json:"deviationThresholdPPM"`
	WithdrawalAmount      string `json:"withdrawalAmount"`
}

// MarshalJSON() implements the json.Marshaler interface for WithdrawalInput
func (i WithdrawalInput) MarshalJSON() ([]byte, error) {
	return json.Marshal(withdrawalInput{
		PoolTokenSupply:       i.PoolTokenSupply.Dec(),
		StakedBalance:         i.StakedBalance.Dec(),
		ProtectionBalance:     i.ProtectionBalance.Dec(),
		VaultBalance:          i.VaultBalance.Dec(),
		ProtectionDrawCap:     i.ProtectionDrawCap.Dec(),
		WithdrawalFeePPM:      i.WithdrawalFeePPM,
		DeviationThresholdPPM: i.DeviationThresholdPPM,
		WithdrawalAmount:      i.WithdrawalAmount.Dec(),
	})
}

// UnmarshalJSON() implements the json.Unmarshaler interface for WithdrawalInput
func (i *WithdrawalInput) UnmarshalJSON(b []byte) (err error) {
	j := new(withdrawalInput)
	if err = json.Unmarshal(b, j); err != nil {
		return err
	}
	amounts := make([]*uint256.Int, 6)
	for idx, s := range []string{
		j.PoolTokenSupply, j.StakedBalance, j.ProtectionBalance,
		j.VaultBalance, j.ProtectionDrawCap, j.WithdrawalAmount,
	} {
		if amounts[idx], err = lib.StringToUint256(s); err != nil {
			return err
		}
	}
	*i = WithdrawalInput{
		PoolTokenSupply:       amounts[0],
		StakedBalance:         amounts[1],
		ProtectionBalance:     amounts[2],
		VaultBalance:          amounts[3],
		ProtectionDrawCap:     amounts[4],
		WithdrawalFeePPM:      j.WithdrawalFeePPM,
		DeviationThresholdPPM: j.DeviationThresholdPPM,
		WithdrawalAmount:      amounts[5],
	}
	return
}

type withdrawalAmounts struct {
	Regime WithdrawalRegime `json:"regime"`
	P      string           `json:"p"`
	Q      string           `json:"q"`
	R      string           `json:"r"`
	S      string           `json:"s"`
	T      string           `json:"t"`
	U      string           `json:"u"`
}

// MarshalJSON() implements the json.Marshaler interface for WithdrawalAmounts
func (a WithdrawalAmounts) MarshalJSON() ([]byte, error) {
	return json.Marshal(withdrawalAmounts{
		Regime: a.Regime,
		P:      a.P.String(),
		Q:      a.Q.String(),
		R:      a.R.String(),
		S:      a.S.Dec(),
		T:      a.T.Dec(),
		U:      a.U.Dec(),
	})
}

// UnmarshalJSON() implements the json.Unmarshaler interface for WithdrawalAmounts
func (a *WithdrawalAmounts) UnmarshalJSON(b []byte) (err error) {
	j := new(withdrawalAmounts)
	if err = json.Unmarshal(b, j); err != nil {
		return err
	}
	signed := make([]*big.Int, 3)
	for idx, s := range []string{j.P, j.Q, j.R} {
		v, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return lib.ErrInvalidAmountText(s)
		}
		signed[idx] = v
	}
	unsigned := make([]*uint256.Int, 3)
	for idx, s := range []string{j.S, j.T, j.U} {
		if unsigned[idx], err = lib.StringToUint256(s); err != nil {
			return err
		}
	}
	*a = WithdrawalAmounts{
		Regime: j.Regime,
		P:      signed[0],
		Q:      signed[1],
		R:      signed[2],
		S:      unsigned[0],
		T:      unsigned[1],
		U:      unsigned[2],
	}
	return
}
