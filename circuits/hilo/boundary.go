package hilo

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/eon-protocol/eonlib/builder"
	"github.com/eon-protocol/eonlib/circuits/foreign"
	"github.com/eon-protocol/eonlib/circuits/gate"
)

// Bounds returns (p >> 128, p mod 2^128).
func Bounds(p *big.Int) (hiMax, loMax *big.Int, err error) {
	if p.Sign() <= 0 || p.BitLen() > TOTAL_BITS {
		return nil, nil, fmt.Errorf("%w: %s", ErrInvalidModulus, p)
	}
	hiMax = new(big.Int).Rsh(p, HALF_BITS)
	loMax = new(big.Int).And(p, new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), HALF_BITS), big.NewInt(1)))
	return hiMax, loMax, nil
}

// AssertBelowModulus constrains hi*2^128 + lo < p. Both halves are range
// checked to 128 bits first. A pair that is not below p is not rejected here:
// it leaves the circuit unsatisfiable.
func (me *Codec) AssertBelowModulus(ctx *builder.Context, hi, lo builder.AssignedValue, p *big.Int) error {
	hiMax, loMax, err := Bounds(p)
	if err != nil {
		return err
	}
	me.rng.RangeCheck(ctx, hi, HALF_BITS)
	me.rng.RangeCheck(ctx, lo, HALF_BITS)
	hiLess := me.rng.IsLessThan(ctx, hi, builder.ConstantBig(hiMax), HALF_BITS)
	hiEqual := gate.IsEqual(ctx, hi, builder.ConstantBig(hiMax))
	loLess := me.rng.IsLessThan(ctx, lo, builder.ConstantBig(loMax), HALF_BITS)
	ok := gate.Or(ctx, hiLess, gate.And(ctx, hiEqual, loLess))
	gate.AssertIsConst(ctx, ok, fr.One())
	return nil
}

// HiLoToFieldElement loads hi*2^128 + lo as a new element of the chip's field
// and binds its limbs to (hi, lo). Malformed halves and values not below the
// modulus are rejected before anything is committed.
func (me *Codec) HiLoToFieldElement(ctx *builder.Context, chip *foreign.Chip, hi, lo builder.AssignedValue) (*foreign.Element, error) {
	if chip.LimbBits() != me.limbBits || chip.NumLimbs() != me.numLimbs {
		return nil, ErrLayoutMismatch
	}
	v, err := Join(hi.BigInt(), lo.BigInt())
	if err != nil {
		return nil, err
	}
	el, err := chip.LoadPrivate(ctx, v)
	if err != nil {
		return nil, err
	}
	me.ConstrainLimbs(ctx, hi, lo, el.Limbs)
	return el, nil
}

// ElementToHiLo returns the halves of a foreign element.
func (me *Codec) ElementToHiLo(ctx *builder.Context, el *foreign.Element) (hi, lo builder.AssignedValue) {
	return me.Compose(ctx, el.Limbs)
}

// AssertReduced constrains a foreign element to be below its modulus.
func (me *Codec) AssertReduced(ctx *builder.Context, chip *foreign.Chip, el *foreign.Element) error {
	hi, lo := me.ElementToHiLo(ctx, el)
	return me.AssertBelowModulus(ctx, hi, lo, chip.Modulus())
}

// ToHiLo splits a native value into its canonical halves: hi*2^128 + lo = a
// with the pair proven below the native modulus, so the split is unique.
func (me *Codec) ToHiLo(ctx *builder.Context, a builder.AssignedValue) (hi, lo builder.AssignedValue) {
	h, l, err := Split(a.BigInt())
	if err != nil {
		panic(err)
	}
	var he, le fr.Element
	he.SetBigInt(h)
	le.SetBigInt(l)
	hi, lo = ctx.LoadWitness(he), ctx.LoadWitness(le)
	ctx.ConstrainEqual(ctx.MulAdd(hi, builder.PowerOfTwo(HALF_BITS), lo), a)
	if err := me.AssertBelowModulus(ctx, hi, lo, fr.Modulus()); err != nil {
		panic(err)
	}
	return hi, lo
}

// FromHiLo returns hi*2^128 + lo as a native value after proving the pair is
// below the native modulus.
func (me *Codec) FromHiLo(ctx *builder.Context, hi, lo builder.AssignedValue) builder.AssignedValue {
	if err := me.AssertBelowModulus(ctx, hi, lo, fr.Modulus()); err != nil {
		panic(err)
	}
	return ctx.MulAdd(hi, builder.PowerOfTwo(HALF_BITS), lo)
}
