package eonlib

import (
	"fmt"

	"github.com/eon-protocol/eonlib/builder"
	"github.com/eon-protocol/eonlib/circuits/rangechip"
)

// RangeCheck constrains a < 2^bits.
func (me *Lib) RangeCheck(a int, bits string) error {
	av, err := me.get(a)
	if err != nil {
		return err
	}
	n, err := builder.ParseBits(bits, rangechip.MAX_BITS)
	if err != nil {
		return err
	}
	me.rng.RangeCheck(me.ctx(), av, n)
	return nil
}

// CheckLessThan constrains a < b for values already known to fit in bits bits.
func (me *Lib) CheckLessThan(a, b int, bits string) error {
	av, bv, err := me.get2(a, b)
	if err != nil {
		return err
	}
	n, err := builder.ParseBits(bits, rangechip.MAX_BITS-1)
	if err != nil {
		return err
	}
	me.rng.CheckLessThan(me.ctx(), av, bv, n)
	return nil
}

func (me *Lib) IsLessThan(a, b int, bits string) (int, error) {
	av, bv, err := me.get2(a, b)
	if err != nil {
		return 0, err
	}
	n, err := builder.ParseBits(bits, rangechip.MAX_BITS-1)
	if err != nil {
		return 0, err
	}
	return me.put(me.rng.IsLessThan(me.ctx(), av, bv, n))
}

// CheckLessThanSafe range checks a and constrains a < b for a 64-bit constant b.
func (me *Lib) CheckLessThanSafe(a int, b string) error {
	av, err := me.get(a)
	if err != nil {
		return err
	}
	bv, err := builder.ParseBigInt(b, 64)
	if err != nil {
		return err
	}
	me.rng.CheckLessThanSafe(me.ctx(), av, bv.Uint64())
	return nil
}

func (me *Lib) IsLessThanSafe(a int, b string) (int, error) {
	av, err := me.get(a)
	if err != nil {
		return 0, err
	}
	bv, err := builder.ParseBigInt(b, 64)
	if err != nil {
		return 0, err
	}
	return me.put(me.rng.IsLessThanSafe(me.ctx(), av, bv.Uint64()))
}

// DivMod returns [a / b, a mod b] for a constant divisor b and a of at most bits bits.
func (me *Lib) DivMod(a int, b, bits string) ([]int, error) {
	av, err := me.get(a)
	if err != nil {
		return nil, err
	}
	bv, err := builder.ParseBigInt(b, rangechip.MAX_BITS-1)
	if err != nil {
		return nil, err
	}
	if bv.Sign() == 0 {
		return nil, fmt.Errorf("%w: zero divisor", ErrInvalidArgument)
	}
	n, err := builder.ParseBits(bits, rangechip.MAX_BITS-1)
	if err != nil {
		return nil, err
	}
	q, r := me.rng.DivMod(me.ctx(), av, bv, n)
	return me.putMany([]builder.AssignedValue{q, r})
}

// DivModVar returns [a / b, a mod b] for a witnessed divisor.
func (me *Lib) DivModVar(a, b int, aBits, bBits string) ([]int, error) {
	av, bv, err := me.get2(a, b)
	if err != nil {
		return nil, err
	}
	an, err := builder.ParseBits(aBits, rangechip.MAX_BITS-1)
	if err != nil {
		return nil, err
	}
	bn, err := builder.ParseBits(bBits, rangechip.MAX_BITS-1)
	if err != nil {
		return nil, err
	}
	if an+bn > rangechip.MAX_BITS-1 {
		return nil, fmt.Errorf("%w: %d-bit by %d-bit division", ErrInvalidArgument, an, bn)
	}
	q, r := me.rng.DivModVar(me.ctx(), av, bv, an, bn)
	return me.putMany([]builder.AssignedValue{q, r})
}

// ToHiLo returns [hi, lo], the canonical 128-bit halves of a.
func (me *Lib) ToHiLo(a int) ([]int, error) {
	av, err := me.get(a)
	if err != nil {
		return nil, err
	}
	hi, lo := me.codec.ToHiLo(me.ctx(), av)
	return me.putMany([]builder.AssignedValue{hi, lo})
}

// FromHiLo returns hi*2^128 + lo after proving the pair is below the native modulus.
func (me *Lib) FromHiLo(hi, lo int) (int, error) {
	hv, lv, err := me.get2(hi, lo)
	if err != nil {
		return 0, err
	}
	return me.put(me.codec.FromHiLo(me.ctx(), hv, lv))
}
