// Package foreign represents integers modulo a non-native prime as
// little-endian limbs of native field elements.
package foreign

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/eon-protocol/eonlib/builder"
	"github.com/eon-protocol/eonlib/circuits/rangechip"
)

var ErrModulusViolation = errors.New("value is not below the modulus")

// Element is a foreign field value held as range checked limbs.
type Element struct {
	Limbs []builder.AssignedValue
	value *big.Int
}

func (me *Element) Value() *big.Int {
	return new(big.Int).Set(me.value)
}

type Chip struct {
	rng      *rangechip.Chip
	modulus  *big.Int
	limbBits int
	numLimbs int
}

func New(rng *rangechip.Chip, modulus *big.Int, limbBits, numLimbs int) (*Chip, error) {
	if modulus.Sign() <= 0 {
		return nil, errors.New("modulus must be positive")
	}
	if limbBits <= 0 || limbBits >= rangechip.MAX_BITS || numLimbs <= 0 {
		return nil, fmt.Errorf("invalid limb layout %dx%d", numLimbs, limbBits)
	}
	if modulus.BitLen() > limbBits*numLimbs {
		return nil, fmt.Errorf("a %d-bit modulus does not fit %dx%d limbs", modulus.BitLen(), numLimbs, limbBits)
	}
	return &Chip{rng: rng, modulus: new(big.Int).Set(modulus), limbBits: limbBits, numLimbs: numLimbs}, nil
}

func (me *Chip) Modulus() *big.Int {
	return new(big.Int).Set(me.modulus)
}

func (me *Chip) LimbBits() int {
	return me.limbBits
}

func (me *Chip) NumLimbs() int {
	return me.numLimbs
}

// topBits is the width of the most significant limb of a reduced value.
func (me *Chip) topBits() int {
	top := me.modulus.BitLen() - (me.numLimbs-1)*me.limbBits
	if top <= 0 {
		return 0
	}
	return min(top, me.limbBits)
}

// SplitLimbs returns the numLimbs little-endian limbs of v.
func SplitLimbs(v *big.Int, limbBits, numLimbs int) []*big.Int {
	mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(limbBits)), big.NewInt(1))
	ret := make([]*big.Int, numLimbs)
	for i := range ret {
		ret[i] = new(big.Int).And(new(big.Int).Rsh(v, uint(i*limbBits)), mask)
	}
	return ret
}

func (me *Chip) check(v *big.Int) error {
	if v.Sign() < 0 || v.Cmp(me.modulus) >= 0 {
		return fmt.Errorf("%w: %s >= %s", ErrModulusViolation, v, me.modulus)
	}
	return nil
}

// LoadPrivate commits v as witness limbs, each range checked. It rejects
// v >= modulus before committing anything.
func (me *Chip) LoadPrivate(ctx *builder.Context, v *big.Int) (*Element, error) {
	if err := me.check(v); err != nil {
		return nil, err
	}
	limbs := SplitLimbs(v, me.limbBits, me.numLimbs)
	el := &Element{Limbs: make([]builder.AssignedValue, me.numLimbs), value: new(big.Int).Set(v)}
	for i, l := range limbs {
		var e fr.Element
		e.SetBigInt(l)
		el.Limbs[i] = ctx.LoadWitness(e)
	}
	for i, l := range el.Limbs {
		bits := me.limbBits
		if i == me.numLimbs-1 {
			bits = me.topBits()
		}
		me.rng.RangeCheck(ctx, l, bits)
	}
	return el, nil
}

func (me *Chip) LoadConstant(ctx *builder.Context, v *big.Int) (*Element, error) {
	if err := me.check(v); err != nil {
		return nil, err
	}
	el := &Element{Limbs: make([]builder.AssignedValue, me.numLimbs), value: new(big.Int).Set(v)}
	for i, l := range SplitLimbs(v, me.limbBits, me.numLimbs) {
		var e fr.Element
		e.SetBigInt(l)
		el.Limbs[i] = ctx.LoadConstant(e)
	}
	return el, nil
}

// AssertEqual constrains two elements to share every limb.
func (me *Chip) AssertEqual(ctx *builder.Context, a, b *Element) {
	if len(a.Limbs) != len(b.Limbs) {
		panic("foreign: elements have different limb counts")
	}
	for i := range a.Limbs {
		ctx.ConstrainEqual(a.Limbs[i], b.Limbs[i])
	}
}

// FromLimbs wraps already committed limbs, such as values resolved from handles.
func (me *Chip) FromLimbs(limbs []builder.AssignedValue) (*Element, error) {
	if len(limbs) != me.numLimbs {
		return nil, fmt.Errorf("expected %d limbs, got %d", me.numLimbs, len(limbs))
	}
	v := new(big.Int)
	for i := len(limbs) - 1; i >= 0; i-- {
		v.Lsh(v, uint(me.limbBits)).Add(v, limbs[i].BigInt())
	}
	return &Element{Limbs: limbs, value: v}, nil
}
