package pool

import (
	"math/big"
	"testing"

	"github.com/JudioLam9/contracts-v3/lib"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

const maxUint128Dec = "340282366920938463463374607431768211455"

func newTestInput(t *testing.T, a, b, c, e, w string, m, n uint64, x string) *WithdrawalInput {
	parse := func(s string) *uint256.Int {
		v, err := lib.StringToUint256(s)
		require.NoError(t, err)
		return v
	}
	return &WithdrawalInput{
		PoolTokenSupply:       parse(a),
		StakedBalance:         parse(b),
		ProtectionBalance:     parse(c),
		VaultBalance:          parse(e),
		ProtectionDrawCap:     parse(w),
		WithdrawalFeePPM:      m,
		DeviationThresholdPPM: n,
		WithdrawalAmount:      parse(x),
	}
}

func TestCalculateWithdrawalAmounts(t *testing.T) {
	tests := []struct {
		name   string
		detail string
		input  *WithdrawalInput
		regime WithdrawalRegime
		p      string
		q      string
		r      string
		s      string
		tOut   string
		uOut   string
		error  string
	}{
		{
			name:   "balanced pool",
			detail: "vault matches the believed holdings exactly so the boundary falls to the proportional surplus path",
			input:  newTestInput(t, "1000", "1000", "0", "1000", "0", 0, 0, "100"),
			regime: RegimeDefaultSurplus,
			p:      "-100",
			q:      "-100",
			r:      "-100",
			s:      "100",
			tOut:   "0",
			uOut:   "0",
		},
		{
			name:   "deficit without protection",
			detail: "vault holds more than the accounting believes and no protection balance exists, settled proportionally with vault funded compensation",
			input:  newTestInput(t, "1000", "500", "0", "1200", "0", 0, 0, "100"),
			regime: RegimeDefaultDeficit,
			p:      "-83",
			q:      "-83",
			r:      "-41",
			s:      "41",
			tOut:   "116",
			uOut:   "0",
		},
		{
			name:   "deficit with a small draw cap",
			detail: "the requested cap cannot fund the full compensation so the wallet pays the cap and the vault tops up the rest",
			input:  newTestInput(t, "1000", "500", "0", "1200", "50", 0, 0, "100"),
			regime: RegimeDefaultDeficit,
			p:      "-83",
			q:      "-83",
			r:      "-41",
			s:      "41",
			tOut:   "16",
			uOut:   "50",
		},
		{
			name:   "deficit with a generous draw cap",
			detail: "the requested cap covers the full compensation so the wallet funds all of it and the vault pays nothing",
			input:  newTestInput(t, "1000", "500", "0", "1200", "100", 0, 0, "100"),
			regime: RegimeDefaultDeficit,
			p:      "-83",
			q:      "-83",
			r:      "-41",
			s:      "41",
			tOut:   "0",
			uOut:   "70",
		},
		{
			name:   "arbitrage viable deficit",
			detail: "a small withdrawal against a large protection share with fee revenue covering the re-add cost",
			input:  newTestInput(t, "1000", "100", "900", "1100", "0", 100_000, 0, "10"),
			regime: RegimeArbitrageDeficit,
			p:      "8",
			q:      "0",
			r:      "0",
			s:      "10",
			tOut:   "0",
			uOut:   "0",
		},
		{
			name:   "arbitrage viable surplus",
			detail: "a small withdrawal against a large protection share with fee revenue covering the removal cost",
			input:  newTestInput(t, "1000", "100", "1000", "1000", "0", 100_000, 0, "10"),
			regime: RegimeArbitrageSurplus,
			p:      "-11",
			q:      "0",
			r:      "1",
			s:      "10",
			tOut:   "0",
			uOut:   "0",
		},
		{
			name:   "deviation threshold discount",
			detail: "a positive threshold discounts both the payout and the vault balance used for classification",
			input:  newTestInput(t, "1000", "1000", "0", "1000", "0", 0, 100_000, "100"),
			regime: RegimeDefaultSurplus,
			p:      "-90",
			q:      "-90",
			r:      "-90",
			s:      "90",
			tOut:   "0",
			uOut:   "0",
		},
		{
			name:   "magnitude floors before negation",
			detail: "a fractional quotient rounds its magnitude down so the signed result rounds toward zero",
			input:  newTestInput(t, "10", "7", "0", "7", "0", 0, 0, "5"),
			regime: RegimeDefaultSurplus,
			p:      "-7",
			q:      "-7",
			r:      "-5",
			s:      "5",
			tOut:   "0",
			uOut:   "0",
		},
		{
			name:   "empty staked balance",
			detail: "a zero staked balance reaches a zero denominator which is reported rather than handled",
			input:  newTestInput(t, "1000", "0", "0", "1000", "0", 0, 0, "10"),
			error:  "divide by zero",
		},
		{
			name:   "empty supply with a draw cap",
			detail: "a zero pool token supply with a positive cap reaches a zero denominator in the wallet allocation",
			input:  newTestInput(t, "0", "500", "0", "1200", "100", 0, 0, "100"),
			error:  "divide by zero",
		},
		{
			name:   "withdrawal above the vault",
			detail: "a withdrawal above the vault balance violates the input domain",
			input:  newTestInput(t, "1000", "1000", "0", "1000", "0", 0, 0, "1001"),
			error:  "exceeds the vault balance",
		},
		{
			name:   "amount above 128 bits",
			detail: "an amount above 2^128-1 violates the input domain",
			input: newTestInput(t, "340282366920938463463374607431768211456", "1000", "0", "1000",
				"0", 0, 0, "100"),
			error: "exceeds 128 bits",
		},
		{
			name:   "fee above the resolution",
			detail: "a fee numerator above one million violates the input domain",
			input:  newTestInput(t, "1000", "1000", "0", "1000", "0", 1_000_001, 0, "100"),
			error:  "exceeds one million",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// execute the function call
			got, err := CalculateWithdrawalAmounts(test.input)
			// validate the expected error
			if test.error != "" {
				require.ErrorContains(t, err, test.error)
				return
			}
			require.NoError(t, err)
			// validate the regime and every settlement field
			require.Equal(t, test.regime, got.Regime)
			require.Equal(t, test.p, got.P.String())
			require.Equal(t, test.q, got.Q.String())
			require.Equal(t, test.r, got.R.String())
			require.Equal(t, test.s, got.S.Dec())
			require.Equal(t, test.tOut, got.T.Dec())
			require.Equal(t, test.uOut, got.U.Dec())
		})
	}
}

// referenceRegime recomputes the classification with arbitrary precision integers only
func referenceRegime(i *WithdrawalInput) WithdrawalRegime {
	mul := func(vals ...*big.Int) *big.Int {
		out := big.NewInt(1)
		for _, v := range vals {
			out.Mul(out, v)
		}
		return out
	}
	M := big.NewInt(PPMResolution)
	b, c, e, x := i.StakedBalance.ToBig(), i.ProtectionBalance.ToBig(), i.VaultBalance.ToBig(), i.WithdrawalAmount.ToBig()
	m, n := big.NewInt(int64(i.WithdrawalFeePPM)), big.NewInt(int64(i.DeviationThresholdPPM))
	feeLeft := new(big.Int).Sub(M, m)
	believed := new(big.Int).Add(b, c)
	effective := new(big.Int).Div(mul(e, new(big.Int).Sub(M, n)), M)
	limit := mul(b, x).Cmp(mul(c, new(big.Int).Sub(e, x))) < 0
	revenue := func(f *big.Int) *big.Int { return new(big.Int).Add(mul(f, m), mul(e, n)) }
	if effective.Cmp(believed) > 0 {
		f := new(big.Int).Sub(effective, believed)
		g := new(big.Int).Sub(e, believed)
		if limit && mul(b, e, revenue(f)).Cmp(mul(f, x, g, feeLeft)) > 0 {
			return RegimeArbitrageDeficit
		}
		return RegimeDefaultDeficit
	}
	f := lib.BigSubOrZero(believed, e)
	lhs := mul(b, e, revenue(f), M)
	rhs := mul(f, x, new(big.Int).Add(mul(f, M), mul(e, n)), feeLeft)
	if f.Sign() > 0 && limit && lhs.Cmp(rhs) > 0 {
		return RegimeArbitrageSurplus
	}
	return RegimeDefaultSurplus
}

func TestWithdrawalRegimePartition(t *testing.T) {
	// sweep a grid of inputs and check the engine against an arbitrary precision
	// re-derivation of the classifier, plus totality, determinism, and payout bounds
	supplies := []string{"1", "1000", maxUint128Dec}
	staked := []string{"1", "500", "1000000"}
	protections := []string{"0", "900", maxUint128Dec}
	vaults := []string{"1", "1100", "1000000"}
	caps := []string{"0", "50"}
	fees := []uint64{0, 100_000}
	thresholds := []uint64{0, 10_000}
	seen := map[WithdrawalRegime]int{}
	for _, a := range supplies {
		for _, b := range staked {
			for _, c := range protections {
				for _, e := range vaults {
					for _, w := range caps {
						for _, m := range fees {
							for _, n := range thresholds {
								vault, err := lib.StringToUint256(e)
								require.NoError(t, err)
								// withdraw the full vault, half of it, and a single unit
								for _, x := range []*uint256.Int{
									new(uint256.Int).Set(vault),
									new(uint256.Int).Div(vault, uint256.NewInt(2)),
									uint256.NewInt(1),
								} {
									input := newTestInput(t, a, b, c, e, w, m, n, "0")
									input.WithdrawalAmount = x
									got, err := CalculateWithdrawalAmounts(input)
									require.NoError(t, err)
									// the classification must match the reference arithmetic
									require.Equal(t, referenceRegime(input), got.Regime)
									seen[got.Regime]++
									// identical inputs must produce identical outputs
									again, err := CalculateWithdrawalAmounts(input)
									require.NoError(t, err)
									first, err := lib.MarshalJSON(got)
									require.NoError(t, err)
									second, err := lib.MarshalJSON(again)
									require.NoError(t, err)
									require.Equal(t, first, second)
									// the transfer never exceeds the requested withdrawal
									require.False(t, got.S.Gt(x))
									// outside the default deficit path the transfer is the discounted amount
									if got.Regime != RegimeDefaultDeficit {
										require.Equal(t, netOfDeviation(x, n).Dec(), got.S.Dec())
									}
								}
							}
						}
					}
				}
			}
		}
	}
	// the sweep must exercise both default paths and at least one arbitrage path
	require.NotZero(t, seen[RegimeDefaultDeficit])
	require.NotZero(t, seen[RegimeDefaultSurplus])
	require.NotZero(t, seen[RegimeArbitrageDeficit]+seen[RegimeArbitrageSurplus])
}

func TestDeficitBoundaryContinuity(t *testing.T) {
	// walk the vault balance across the believed holdings and ensure the two default
	// paths connect without a jump at the classification boundary
	var last *WithdrawalAmounts
	for _, e := range []string{"999", "1000", "1001", "1002"} {
		input := newTestInput(t, "1000", "600", "400", e, "0", 0, 0, "10")
		got, err := CalculateWithdrawalAmounts(input)
		require.NoError(t, err)
		if last != nil {
			// each settlement field moves by at most one unit per unit of vault balance
			for _, pair := range [][2]*big.Int{
				{last.P, got.P},
				{last.Q, got.Q},
				{last.R, got.R},
				{last.S.ToBig(), got.S.ToBig()},
				{last.T.ToBig(), got.T.ToBig()},
				{last.U.ToBig(), got.U.ToBig()},
			} {
				delta := new(big.Int).Sub(pair[1], pair[0])
				require.LessOrEqual(t, delta.CmpAbs(big.NewInt(1)), 0)
			}
		}
		last = got
	}
}

func TestWithdrawalInputJSON(t *testing.T) {
	input := newTestInput(t, maxUint128Dec, "500", "42", "1200", "7", 2_500, 10_000, "100")
	// round trip through json
	bz, err := lib.MarshalJSON(input)
	require.NoError(t, err)
	got := new(WithdrawalInput)
	require.NoError(t, lib.UnmarshalJSON(bz, got))
	require.Equal(t, input.PoolTokenSupply.Dec(), got.PoolTokenSupply.Dec())
	require.Equal(t, input.StakedBalance.Dec(), got.StakedBalance.Dec())
	require.Equal(t, input.ProtectionBalance.Dec(), got.ProtectionBalance.Dec())
	require.Equal(t, input.VaultBalance.Dec(), got.VaultBalance.Dec())
	require.Equal(t, input.ProtectionDrawCap.Dec(), got.ProtectionDrawCap.Dec())
	require.Equal(t, input.WithdrawalFeePPM, got.WithdrawalFeePPM)
	require.Equal(t, input.DeviationThresholdPPM, got.DeviationThresholdPPM)
	require.Equal(t, input.WithdrawalAmount.Dec(), got.WithdrawalAmount.Dec())
}

func TestWithdrawalAmountsJSON(t *testing.T) {
	amounts, err := CalculateWithdrawalAmounts(newTestInput(t, "1000", "500", "0", "1200", "50", 0, 0, "100"))
	require.NoError(t, err)
	// round trip through json preserving the signs
	bz, err := lib.MarshalJSON(amounts)
	require.NoError(t, err)
	got := new(WithdrawalAmounts)
	require.NoError(t, lib.UnmarshalJSON(bz, got))
	require.Equal(t, amounts.Regime, got.Regime)
	require.Equal(t, amounts.P.String(), got.P.String())
	require.Equal(t, amounts.Q.String(), got.Q.String())
	require.Equal(t, amounts.R.String(), got.R.String())
	require.Equal(t, amounts.S.Dec(), got.S.Dec())
	require.Equal(t, amounts.T.Dec(), got.T.Dec())
	require.Equal(t, amounts.U.Dec(), got.U.Dec())
}
