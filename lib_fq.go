package eonlib

import (
	"fmt"

	"github.com/eon-protocol/eonlib/builder"
	"github.com/eon-protocol/eonlib/circuits/foreign"
	"github.com/eon-protocol/eonlib/circuits/hilo"
)

func (me *Lib) field(name string) (*foreign.Chip, error) {
	if chip, ok := me.fields[name]; ok {
		return chip, nil
	}
	p, err := foreign.Modulus(name)
	if err != nil {
		return nil, err
	}
	chip, err := foreign.New(me.rng, p, foreign.LIMB_BITS, foreign.NUM_LIMBS)
	if err != nil {
		return nil, err
	}
	me.fields[name] = chip
	return chip, nil
}

// LoadFq range checks hi and lo to 128 bits, then loads hi*2^128 + lo as an
// element of the named field and returns its limb handles.
func (me *Lib) LoadFq(field string, hi, lo int) ([]int, error) {
	hv, lv, err := me.get2(hi, lo)
	if err != nil {
		return nil, err
	}
	chip, err := me.field(field)
	if err != nil {
		return nil, err
	}
	v, err := hilo.Join(hv.BigInt(), lv.BigInt())
	if err != nil {
		return nil, err
	}
	if v.Cmp(chip.Modulus()) >= 0 {
		return nil, fmt.Errorf("%w: %s", foreign.ErrModulusViolation, v)
	}
	me.rng.RangeCheck(me.ctx(), hv, hilo.HALF_BITS)
	me.rng.RangeCheck(me.ctx(), lv, hilo.HALF_BITS)
	return me.loadFq(chip, hi, lo)
}

// UnsafeLoadFq is LoadFq without the explicit range checks on hi and lo. The
// limb decomposition still bounds both halves.
func (me *Lib) UnsafeLoadFq(field string, hi, lo int) ([]int, error) {
	chip, err := me.field(field)
	if err != nil {
		return nil, err
	}
	return me.loadFq(chip, hi, lo)
}

func (me *Lib) loadFq(chip *foreign.Chip, hi, lo int) ([]int, error) {
	hv, lv, err := me.get2(hi, lo)
	if err != nil {
		return nil, err
	}
	el, err := me.codec.HiLoToFieldElement(me.ctx(), chip, hv, lv)
	if err != nil {
		return nil, err
	}
	return me.putMany(el.Limbs)
}

// FqToHiLo returns [hi, lo] of an element given by its limb handles.
func (me *Lib) FqToHiLo(field string, limbs []int) ([]int, error) {
	chip, err := me.field(field)
	if err != nil {
		return nil, err
	}
	lv, err := me.getMany(limbs)
	if err != nil {
		return nil, err
	}
	el, err := chip.FromLimbs(lv)
	if err != nil {
		return nil, err
	}
	hi, lo := me.codec.ElementToHiLo(me.ctx(), el)
	return me.putMany([]builder.AssignedValue{hi, lo})
}

// AssertBelowModulus constrains hi*2^128 + lo to be below the modulus of the named field.
func (me *Lib) AssertBelowModulus(field string, hi, lo int) error {
	hv, lv, err := me.get2(hi, lo)
	if err != nil {
		return err
	}
	p, err := foreign.Modulus(field)
	if err != nil {
		return err
	}
	return me.codec.AssertBelowModulus(me.ctx(), hv, lv, p)
}
