package lib

import (
	"math"
	"math/big"
	"math/bits"

	"github.com/holiman/uint256"
)

/*
	This file implements the exact integer arithmetic kernel used by pool settlement.

	Amounts are 256 bit unsigned integers. Products of two amounts can reach 512 bits, so
	every comparison that could overflow is routed through an exact high/low wide product
	rather than wrapping multiplication. Ratio math that can exceed 256 bits in its
	intermediates is carried out on big.Int and floored exactly once.
*/

// MaxUint128 is the inclusive upper bound for externally supplied amounts
var MaxUint128 = &uint256.Int{math.MaxUint64, math.MaxUint64, 0, 0}

// Uint512 is the exact 512 bit product of two 256 bit integers as a high/low pair
type Uint512 struct {
	Hi *uint256.Int // the upper 256 bits of the product
	Lo *uint256.Int // the lower 256 bits of the product
}

// WideMul() multiplies two 256 bit integers into an exact 512 bit product
// the schoolbook limb multiplication never loses carries: each partial sum
// p[i+j] + x[i]*y[j] + carry is at most 2^128-1
func WideMul(x, y *uint256.Int) *Uint512 {
	var p [8]uint64
	// for each 64 bit limb of the multiplicand
	for i := 0; i < 4; i++ {
		var carry uint64
		// multiply against each 64 bit limb of the multiplier
		for j := 0; j < 4; j++ {
			// 128 bit partial product of the two limbs
			hi, lo := bits.Mul64(x[i], y[j])
			var c uint64
			// fold in the running carry
			lo, c = bits.Add64(lo, carry, 0)
			hi += c
			// fold in the accumulated limb at this position
			lo, c = bits.Add64(lo, p[i+j], 0)
			hi += c
			// store the limb and propagate the carry
			p[i+j] = lo
			carry = hi
		}
		// the final carry of the row lands one limb above
		p[i+4] = carry
	}
	// split the 8 limbs into the high and low 256 bit words
	return &Uint512{
		Hi: &uint256.Int{p[4], p[5], p[6], p[7]},
		Lo: &uint256.Int{p[0], p[1], p[2], p[3]},
	}
}

// Gt() returns true if the 512 bit value is strictly greater than the other,
// comparing the high words first and the low words on a tie
func (u *Uint512) Gt(v *Uint512) bool {
	if u.Hi.Eq(v.Hi) {
		return u.Lo.Gt(v.Lo)
	}
	return u.Hi.Gt(v.Hi)
}

// ToBig() converts the 512 bit value into a big.Int
func (u *Uint512) ToBig() *big.Int {
	// shift the high word up 256 bits and add the low word
	b := new(big.Int).Lsh(u.Hi.ToBig(), 256)
	return b.Add(b, u.Lo.ToBig())
}

// BigMulDiv() computes floor(a*b/c) exactly over non-negative big integers
func BigMulDiv(a, b, c *big.Int) (*big.Int, ErrorI) {
	product := new(big.Int).Mul(a, b)
	return BigDiv(product, c)
}

// BigDiv() computes floor(a/b) over non-negative big integers, erroring on a non-positive denominator
func BigDiv(a, b *big.Int) (*big.Int, ErrorI) {
	// a zero denominator here means a caller reached a regime its guards should exclude
	if b.Sign() <= 0 {
		return nil, ErrDivideByZero()
	}
	return new(big.Int).Quo(a, b), nil
}

// BigSubOrZero() computes max(a-b, 0) over big integers
func BigSubOrZero(a, b *big.Int) *big.Int {
	if a.Cmp(b) <= 0 {
		return new(big.Int)
	}
	return new(big.Int).Sub(a, b)
}

// SafeMulDiv() computes floor(a*b/c) over 256 bit integers without intermediate overflow,
// erroring if the final result exceeds 256 bits
func SafeMulDiv(a, b, c *uint256.Int) (*uint256.Int, ErrorI) {
	quotient, err := BigMulDiv(a.ToBig(), b.ToBig(), c.ToBig())
	if err != nil {
		return nil, err
	}
	result := new(uint256.Int)
	// SetFromBig reports truncation of values wider than 256 bits
	if result.SetFromBig(quotient) {
		return nil, ErrAmountOverflow()
	}
	return result, nil
}

// SafeSub() computes max(a-b, 0) over 256 bit integers
func SafeSub(a, b *uint256.Int) *uint256.Int {
	if a.Lt(b) {
		return new(uint256.Int)
	}
	return new(uint256.Int).Sub(a, b)
}

// BigToUint256() converts a non-negative big.Int into a 256 bit integer,
// erroring on negative values or values exceeding 256 bits
func BigToUint256(b *big.Int) (*uint256.Int, ErrorI) {
	if b.Sign() < 0 {
		return nil, ErrNegativeResult()
	}
	result := new(uint256.Int)
	if result.SetFromBig(b) {
		return nil, ErrAmountOverflow()
	}
	return result, nil
}

// StringToUint256() parses a decimal amount string into a 256 bit integer
func StringToUint256(s string) (*uint256.Int, ErrorI) {
	amount, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, ErrInvalidAmountText(s)
	}
	return amount, nil
}
