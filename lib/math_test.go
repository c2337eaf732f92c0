package lib

import (
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

const (
	maxUint256Dec = "115792089237316195423570985008687907853269984665640564039457584007913129639935"
	maxUint128Dec = "340282366920938463463374607431768211455"
)

func TestWideMul(t *testing.T) {
	tests := []struct {
		name   string
		detail string
		x      string
		y      string
	}{
		{
			name:   "zero",
			detail: "multiplying by zero produces a zero high and low word",
			x:      "0",
			y:      maxUint256Dec,
		},
		{
			name:   "identity",
			detail: "multiplying by one reproduces the operand in the low word",
			x:      "1",
			y:      maxUint256Dec,
		},
		{
			name:   "small operands",
			detail: "products that fit in 64 bits populate only the lowest limb",
			x:      "12345",
			y:      "67890",
		},
		{
			name:   "cross limb carry",
			detail: "limb products that straddle 64 bit boundaries propagate their carries",
			x:      "18446744073709551615",
			y:      "18446744073709551617",
		},
		{
			name:   "max 128 bit square",
			detail: "the square of the largest externally accepted amount still fits in the low word",
			x:      maxUint128Dec,
			y:      maxUint128Dec,
		},
		{
			name:   "max 256 bit square",
			detail: "the square of the largest representable value exercises every limb and carry",
			x:      maxUint256Dec,
			y:      maxUint256Dec,
		},
		{
			name:   "asymmetric wide product",
			detail: "a wide times narrow product spills exactly into the high word",
			x:      maxUint256Dec,
			y:      "340282366920938463463374607431768211456",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// parse the operands from their decimal forms
			x, err := StringToUint256(test.x)
			require.NoError(t, err)
			y, err := StringToUint256(test.y)
			require.NoError(t, err)
			// execute the function call
			got := WideMul(x, y)
			// compute the exact expected product with arbitrary precision integers
			want := new(big.Int).Mul(x.ToBig(), y.ToBig())
			// ensure the wide product matches exactly
			require.Equal(t, want.String(), got.ToBig().String())
			// ensure commutativity
			require.Equal(t, want.String(), WideMul(y, x).ToBig().String())
		})
	}
}

func TestUint512Gt(t *testing.T) {
	tests := []struct {
		name     string
		detail   string
		a        *Uint512
		b        *Uint512
		expected bool
	}{
		{
			name:     "high word dominates",
			detail:   "a larger high word wins regardless of the low words",
			a:        &Uint512{Hi: uint256.NewInt(2), Lo: uint256.NewInt(0)},
			b:        &Uint512{Hi: uint256.NewInt(1), Lo: MaxUint128},
			expected: true,
		},
		{
			name:     "high word tie",
			detail:   "equal high words defer to the low word comparison",
			a:        &Uint512{Hi: uint256.NewInt(7), Lo: uint256.NewInt(100)},
			b:        &Uint512{Hi: uint256.NewInt(7), Lo: uint256.NewInt(99)},
			expected: true,
		},
		{
			name:     "equal values",
			detail:   "identical values are not strictly greater",
			a:        &Uint512{Hi: uint256.NewInt(7), Lo: uint256.NewInt(100)},
			b:        &Uint512{Hi: uint256.NewInt(7), Lo: uint256.NewInt(100)},
			expected: false,
		},
		{
			name:     "smaller high word",
			detail:   "a smaller high word loses even with a larger low word",
			a:        &Uint512{Hi: uint256.NewInt(1), Lo: MaxUint128},
			b:        &Uint512{Hi: uint256.NewInt(2), Lo: uint256.NewInt(0)},
			expected: false,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// execute the function call and validate the comparison
			require.Equal(t, test.expected, test.a.Gt(test.b))
		})
	}
}

func TestWideMulGtAgainstBig(t *testing.T) {
	// pairs of products compared both wide and with arbitrary precision integers
	operands := []string{
		"0", "1", "999999", "18446744073709551615", maxUint128Dec,
		"340282366920938463463374607431768211456", maxUint256Dec,
	}
	// parse every operand once
	parsed := make([]*uint256.Int, 0, len(operands))
	for _, s := range operands {
		v, err := StringToUint256(s)
		require.NoError(t, err)
		parsed = append(parsed, v)
	}
	// compare a*b against c*d for every combination
	for _, a := range parsed {
		for _, b := range parsed {
			for _, c := range parsed {
				for _, d := range parsed {
					got := WideMul(a, b).Gt(WideMul(c, d))
					left := new(big.Int).Mul(a.ToBig(), b.ToBig())
					right := new(big.Int).Mul(c.ToBig(), d.ToBig())
					require.Equal(t, left.Cmp(right) > 0, got)
				}
			}
		}
	}
}

func TestBigMulDiv(t *testing.T) {
	tests := []struct {
		name     string
		detail   string
		a        int64
		b        int64
		c        int64
		expected int64
		error    string
	}{
		{
			name:     "exact division",
			detail:   "a product that divides evenly returns the exact quotient",
			a:        10,
			b:        6,
			c:        3,
			expected: 20,
		},
		{
			name:     "floored division",
			detail:   "a product with a remainder is rounded toward zero",
			a:        7,
			b:        3,
			c:        2,
			expected: 10,
		},
		{
			name:     "zero numerator",
			detail:   "a zero product divides to zero",
			a:        0,
			b:        100,
			c:        7,
			expected: 0,
		},
		{
			name:   "zero denominator",
			detail: "dividing by zero is reported rather than panicking",
			a:      1,
			b:      1,
			c:      0,
			error:  "divide by zero",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// execute the function call
			got, err := BigMulDiv(big.NewInt(test.a), big.NewInt(test.b), big.NewInt(test.c))
			// validate the expected error
			if test.error != "" {
				require.ErrorContains(t, err, test.error)
				return
			}
			require.NoError(t, err)
			// validate the expected quotient
			require.Equal(t, test.expected, got.Int64())
		})
	}
}

func TestBigSubOrZero(t *testing.T) {
	tests := []struct {
		name     string
		detail   string
		a        int64
		b        int64
		expected int64
	}{
		{
			name:     "positive difference",
			detail:   "a larger minuend returns the exact difference",
			a:        100,
			b:        40,
			expected: 60,
		},
		{
			name:     "equal operands",
			detail:   "equal operands saturate at zero",
			a:        40,
			b:        40,
			expected: 0,
		},
		{
			name:     "negative difference",
			detail:   "a smaller minuend saturates at zero instead of going negative",
			a:        40,
			b:        100,
			expected: 0,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// execute the function call and validate the saturating difference
			got := BigSubOrZero(big.NewInt(test.a), big.NewInt(test.b))
			require.Equal(t, test.expected, got.Int64())
		})
	}
}

func TestSafeMulDiv(t *testing.T) {
	tests := []struct {
		name     string
		detail   string
		a        string
		b        string
		c        string
		expected string
		error    string
	}{
		{
			name:     "fits without overflow",
			detail:   "an intermediate product above 256 bits still divides back into range",
			a:        maxUint256Dec,
			b:        "1000000",
			c:        "1000000",
			expected: maxUint256Dec,
		},
		{
			name:     "floored quotient",
			detail:   "the quotient is rounded toward zero",
			a:        "7",
			b:        "3",
			c:        "2",
			expected: "10",
		},
		{
			name:   "overflowing quotient",
			detail: "a quotient exceeding 256 bits is rejected",
			a:      maxUint256Dec,
			b:      "2",
			c:      "1",
			error:  "overflows",
		},
		{
			name:   "zero denominator",
			detail: "dividing by zero is reported rather than panicking",
			a:      "1",
			b:      "1",
			c:      "0",
			error:  "divide by zero",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// parse the operands from their decimal forms
			a, err := StringToUint256(test.a)
			require.NoError(t, err)
			b, err := StringToUint256(test.b)
			require.NoError(t, err)
			c, err := StringToUint256(test.c)
			require.NoError(t, err)
			// execute the function call
			got, err := SafeMulDiv(a, b, c)
			// validate the expected error
			if test.error != "" {
				require.ErrorContains(t, err, test.error)
				return
			}
			require.NoError(t, err)
			// validate the expected quotient
			require.Equal(t, test.expected, got.Dec())
		})
	}
}

func TestSafeSub(t *testing.T) {
	// a larger minuend returns the exact difference
	require.Equal(t, "60", SafeSub(uint256.NewInt(100), uint256.NewInt(40)).Dec())
	// a smaller minuend saturates at zero instead of wrapping
	require.Equal(t, "0", SafeSub(uint256.NewInt(40), uint256.NewInt(100)).Dec())
	// equal operands saturate at zero
	require.Equal(t, "0", SafeSub(uint256.NewInt(40), uint256.NewInt(40)).Dec())
}

func TestBigToUint256(t *testing.T) {
	tests := []struct {
		name     string
		detail   string
		value    string
		expected string
		error    string
	}{
		{
			name:     "in range",
			detail:   "a value at the 256 bit ceiling converts exactly",
			value:    maxUint256Dec,
			expected: maxUint256Dec,
		},
		{
			name:   "negative",
			detail: "negative values are rejected",
			value:  "-1",
			error:  "negative",
		},
		{
			name:   "over 256 bits",
			detail: "values beyond the 256 bit ceiling are rejected",
			value:  "115792089237316195423570985008687907853269984665640564039457584007913129639936",
			error:  "overflows",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// parse the test value with arbitrary precision
			value, ok := new(big.Int).SetString(test.value, 10)
			require.True(t, ok)
			// execute the function call
			got, err := BigToUint256(value)
			// validate the expected error
			if test.error != "" {
				require.ErrorContains(t, err, test.error)
				return
			}
			require.NoError(t, err)
			// validate the expected conversion
			require.Equal(t, test.expected, got.Dec())
		})
	}
}

func TestStringToUint256(t *testing.T) {
	tests := []struct {
		name     string
		detail   string
		text     string
		expected string
		error    string
	}{
		{
			name:     "valid decimal",
			detail:   "a plain decimal string parses exactly",
			text:     "123456789012345678901234567890",
			expected: "123456789012345678901234567890",
		},
		{
			name:   "not a number",
			detail: "non numeric text is rejected",
			text:   "12ab34",
			error:  "unable to parse amount",
		},
		{
			name:   "over 256 bits",
			detail: "decimal text beyond the 256 bit ceiling is rejected",
			text:   "115792089237316195423570985008687907853269984665640564039457584007913129639936",
			error:  "unable to parse amount",
		},
		{
			name:   "empty string",
			detail: "empty text is rejected",
			text:   "",
			error:  "unable to parse amount",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// execute the function call
			got, err := StringToUint256(test.text)
			// validate the expected error
			if test.error != "" {
				require.ErrorContains(t, err, test.error)
				return
			}
			require.NoError(t, err)
			// validate the expected parse
			require.Equal(t, test.expected, got.Dec())
		})
	}
}
