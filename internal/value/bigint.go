package value

import (
	"math/big"
)

// BigInt wraps math/big.Int to provide the sign+limb arbitrary-precision
// integer spec §3 describes. The teacher has no equivalent type (DWScript
// is Number-only); math/big is the standard-library-but-unavoidable choice
// here since no pack example ships its own bignum and a hand-rolled limb
// vector would duplicate a solved, heavily tested problem for no benefit
// (see DESIGN.md).
type BigInt struct {
	v *big.Int
}

func NewBigIntFromInt64(n int64) *BigInt {
	return &BigInt{v: big.NewInt(n)}
}

// ParseBigInt parses decimal, 0x/0o/0b radix text (with optional `_`
// separators already stripped by the lexer) into a normalized BigInt.
func ParseBigInt(digits string) (*BigInt, bool) {
	i := new(big.Int)
	_, ok := i.SetString(digits, 0)
	if !ok {
		return nil, false
	}
	return &BigInt{v: i}, true
}

func (b *BigInt) IsZero() bool { return b.v.Sign() == 0 }
func (b *BigInt) Sign() int    { return b.v.Sign() }

func (b *BigInt) String() string { return b.v.String() }

func (b *BigInt) Cmp(o *BigInt) int { return b.v.Cmp(o.v) }

func (b *BigInt) Add(o *BigInt) *BigInt { return &BigInt{v: new(big.Int).Add(b.v, o.v)} }
func (b *BigInt) Sub(o *BigInt) *BigInt { return &BigInt{v: new(big.Int).Sub(b.v, o.v)} }
func (b *BigInt) Mul(o *BigInt) *BigInt { return &BigInt{v: new(big.Int).Mul(b.v, o.v)} }

// Div and Mod truncate toward zero, matching ECMAScript BigInt semantics
// (not Euclidean, unlike math/big's default Div/Mod).
func (b *BigInt) Div(o *BigInt) (*BigInt, bool) {
	if o.IsZero() {
		return nil, false
	}
	return &BigInt{v: new(big.Int).Quo(b.v, o.v)}, true
}

func (b *BigInt) Mod(o *BigInt) (*BigInt, bool) {
	if o.IsZero() {
		return nil, false
	}
	return &BigInt{v: new(big.Int).Rem(b.v, o.v)}, true
}

func (b *BigInt) Pow(o *BigInt) (*BigInt, bool) {
	if o.Sign() < 0 {
		return nil, false
	}
	return &BigInt{v: new(big.Int).Exp(b.v, o.v, nil)}, true
}

func (b *BigInt) Neg() *BigInt { return &BigInt{v: new(big.Int).Neg(b.v)} }

func (b *BigInt) And(o *BigInt) *BigInt { return &BigInt{v: new(big.Int).And(b.v, o.v)} }
func (b *BigInt) Or(o *BigInt) *BigInt  { return &BigInt{v: new(big.Int).Or(b.v, o.v)} }
func (b *BigInt) Xor(o *BigInt) *BigInt { return &BigInt{v: new(big.Int).Xor(b.v, o.v)} }
func (b *BigInt) Not(o *BigInt) *BigInt { return &BigInt{v: new(big.Int).Not(o.v)} }

func (b *BigInt) Shl(bits uint) *BigInt { return &BigInt{v: new(big.Int).Lsh(b.v, bits)} }
func (b *BigInt) Shr(bits uint) *BigInt { return &BigInt{v: new(big.Int).Rsh(b.v, bits)} }

// Float64 converts for mixed-context display only; arithmetic mixing
// BigInt with Number is a TypeError at the evaluator level (spec §3), not
// handled here.
func (b *BigInt) Float64() float64 {
	f := new(big.Float).SetInt(b.v)
	r, _ := f.Float64()
	return r
}
