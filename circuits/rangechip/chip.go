// Package rangechip proves bounds on native values with lookups of at most
// lookupBits bits each, and builds comparisons and divisions on top of them.
package rangechip

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/eon-protocol/eonlib/builder"
	"github.com/eon-protocol/eonlib/circuits/gate"
)

// MAX_BITS is the widest value that can be range checked without the
// recomposition wrapping around the native modulus.
const MAX_BITS = fr.Bits - 1

type Chip struct {
	lookupBits int
}

func New(lookupBits int) *Chip {
	if lookupBits <= 0 || lookupBits > MAX_BITS {
		panic(fmt.Sprintf("rangechip: invalid lookup bits %d", lookupBits))
	}
	return &Chip{lookupBits: lookupBits}
}

func (me *Chip) LookupBits() int {
	return me.lookupBits
}

// RangeCheck constrains 0 <= a < 2^bits.
func (me *Chip) RangeCheck(ctx *builder.Context, a builder.AssignedValue, bits int) {
	if bits < 0 || bits > MAX_BITS {
		panic(fmt.Sprintf("rangechip: cannot range check %d bits", bits))
	}
	if bits == 0 {
		ctx.ConstrainEqual(a, builder.ConstantUint64(0))
		return
	}
	if bits <= me.lookupBits {
		ctx.RangeLookup(a, bits)
		return
	}
	n := (bits + me.lookupBits - 1) / me.lookupBits
	v := a.BigInt()
	mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(me.lookupBits)), big.NewInt(1))
	var acc builder.AssignedValue
	for i := 0; i < n; i++ {
		var limb fr.Element
		limb.SetBigInt(new(big.Int).And(new(big.Int).Rsh(v, uint(i*me.lookupBits)), mask))
		w := ctx.LoadWitness(limb)
		width := me.lookupBits
		if i == n-1 && bits%me.lookupBits != 0 {
			width = bits % me.lookupBits
		}
		ctx.RangeLookup(w, width)
		if i == 0 {
			acc = w
		} else {
			acc = ctx.MulAdd(w, builder.PowerOfTwo(i*me.lookupBits), acc)
		}
	}
	ctx.ConstrainEqual(acc, a)
}

// CheckLessThan constrains a < b, assuming both already fit in bits bits.
func (me *Chip) CheckLessThan(ctx *builder.Context, a, b builder.Operand, bits int) {
	if bits >= MAX_BITS {
		panic(fmt.Sprintf("rangechip: cannot compare %d-bit values", bits))
	}
	shifted := gate.Add(ctx, gate.Sub(ctx, a, b), builder.PowerOfTwo(bits))
	me.RangeCheck(ctx, shifted, bits)
}

// IsLessThan returns 1 if a < b and 0 otherwise, assuming both already fit in bits bits.
func (me *Chip) IsLessThan(ctx *builder.Context, a, b builder.Operand, bits int) builder.AssignedValue {
	if bits >= MAX_BITS {
		panic(fmt.Sprintf("rangechip: cannot compare %d-bit values", bits))
	}
	shifted := gate.Add(ctx, gate.Sub(ctx, a, b), builder.PowerOfTwo(bits))
	v := shifted.BigInt()
	var q, r fr.Element
	q.SetBigInt(new(big.Int).Rsh(v, uint(bits)))
	r.SetBigInt(new(big.Int).And(v, new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(bits)), big.NewInt(1))))
	qw, rw := ctx.LoadWitness(q), ctx.LoadWitness(r)
	ctx.ConstrainEqual(ctx.MulAdd(qw, builder.PowerOfTwo(bits), rw), shifted)
	me.RangeCheck(ctx, rw, bits)
	gate.AssertBit(ctx, qw)
	return gate.Not(ctx, qw)
}

// CheckBigLessThanSafe range checks a to the width of b and constrains a < b.
func (me *Chip) CheckBigLessThanSafe(ctx *builder.Context, a builder.AssignedValue, b *big.Int) {
	bits := b.BitLen()
	me.RangeCheck(ctx, a, bits)
	me.CheckLessThan(ctx, a, builder.ConstantBig(b), bits)
}

// IsBigLessThanSafe range checks a to the width of b and returns a < b.
func (me *Chip) IsBigLessThanSafe(ctx *builder.Context, a builder.AssignedValue, b *big.Int) builder.AssignedValue {
	bits := b.BitLen()
	me.RangeCheck(ctx, a, bits)
	return me.IsLessThan(ctx, a, builder.ConstantBig(b), bits)
}

func (me *Chip) CheckLessThanSafe(ctx *builder.Context, a builder.AssignedValue, b uint64) {
	me.CheckBigLessThanSafe(ctx, a, new(big.Int).SetUint64(b))
}

func (me *Chip) IsLessThanSafe(ctx *builder.Context, a builder.AssignedValue, b uint64) builder.AssignedValue {
	return me.IsBigLessThanSafe(ctx, a, new(big.Int).SetUint64(b))
}

func isPowerOfTwo(b *big.Int) (int, bool) {
	k := b.BitLen() - 1
	return k, k >= 0 && b.TrailingZeroBits() == uint(k)
}

// DivMod returns (a / b, a mod b) for a constant divisor b, assuming a fits in
// aBits bits. Power-of-two divisors are range checked exactly: the quotient is
// bounded to aBits - log2(b) bits.
func (me *Chip) DivMod(ctx *builder.Context, a builder.Operand, b *big.Int, aBits int) (builder.AssignedValue, builder.AssignedValue) {
	if b.Sign() <= 0 {
		panic("rangechip: divisor must be positive")
	}
	if aBits > MAX_BITS-1 {
		panic(fmt.Sprintf("rangechip: cannot divide a %d-bit value", aBits))
	}
	var qv, rv big.Int
	qv.DivMod(builder.BigOf(a), b, &rv)
	var q, r fr.Element
	q.SetBigInt(&qv)
	r.SetBigInt(&rv)
	qw, rw := ctx.LoadWitness(q), ctx.LoadWitness(r)
	ctx.ConstrainEqual(ctx.MulAdd(qw, builder.ConstantBig(b), rw), a)
	if k, ok := isPowerOfTwo(b); ok {
		me.RangeCheck(ctx, rw, k)
		me.RangeCheck(ctx, qw, max(aBits-k, 0))
	} else {
		me.CheckBigLessThanSafe(ctx, rw, b)
		bound := new(big.Int).Lsh(big.NewInt(1), uint(aBits))
		bound.Div(bound, b).Add(bound, big.NewInt(1))
		me.CheckBigLessThanSafe(ctx, qw, bound)
	}
	return qw, rw
}

// DivModVar returns (a / b, a mod b) for a witnessed divisor. a must fit in
// aBits bits and b in bBits bits.
func (me *Chip) DivModVar(ctx *builder.Context, a, b builder.AssignedValue, aBits, bBits int) (builder.AssignedValue, builder.AssignedValue) {
	if aBits+bBits > MAX_BITS-1 {
		panic(fmt.Sprintf("rangechip: %d-bit by %d-bit division overflows the native field", aBits, bBits))
	}
	var qv, rv big.Int
	bv := b.BigInt()
	if bv.Sign() == 0 {
		rv.Set(a.BigInt())
	} else {
		qv.DivMod(a.BigInt(), bv, &rv)
	}
	var q, r fr.Element
	q.SetBigInt(&qv)
	r.SetBigInt(&rv)
	qw, rw := ctx.LoadWitness(q), ctx.LoadWitness(r)
	ctx.ConstrainEqual(ctx.MulAdd(qw, b, rw), a)
	me.RangeCheck(ctx, b, bBits)
	me.RangeCheck(ctx, qw, aBits)
	me.RangeCheck(ctx, rw, bBits)
	me.CheckLessThan(ctx, rw, b, bBits)
	return qw, rw
}
