package hilo

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/math/cmp"
	"github.com/consensys/gnark/std/rangecheck"
)

// Gadget performs the same conversions as Codec inside a gnark circuit.
type Gadget struct {
	api      frontend.API
	rc       frontend.Rangechecker
	limbBits int
	numLimbs int
	pieces   []piece
}

func NewGadget(api frontend.API, limbBits, numLimbs int) (*Gadget, error) {
	pieces, err := tile(limbBits, numLimbs)
	if err != nil {
		return nil, err
	}
	return &Gadget{api: api, rc: rangecheck.New(api), limbBits: limbBits, numLimbs: numLimbs, pieces: pieces}, nil
}

func (me *Gadget) check(v frontend.Variable, bits int) {
	if bits == 0 {
		me.api.AssertIsEqual(v, 0)
		return
	}
	me.rc.Check(v, bits)
}

// divModPow2 returns (a >> k, a mod 2^k) for a of at most bits bits.
func (me *Gadget) divModPow2(a frontend.Variable, k, bits int) (frontend.Variable, frontend.Variable) {
	outs, err := me.api.Compiler().NewHint(HintDivModPow2, 2, a, k)
	if err != nil {
		panic(fmt.Errorf("hint div mod: %w", err))
	}
	q, r := outs[0], outs[1]
	me.check(r, k)
	me.check(q, max(bits-k, 0))
	me.api.AssertIsEqual(me.api.Add(me.api.Mul(q, new(big.Int).Lsh(big.NewInt(1), uint(k))), r), a)
	return q, r
}

func (me *Gadget) split(a frontend.Variable, bits int, pieces []piece) []frontend.Variable {
	ret := make([]frontend.Variable, len(pieces))
	if len(pieces) == 1 {
		me.check(a, pieces[0].width)
		ret[0] = a
		return ret
	}
	cur := a
	for i, p := range pieces[:len(pieces)-1] {
		q, r := me.divModPow2(cur, p.width, bits)
		ret[i] = r
		cur = q
		bits -= p.width
	}
	if last := pieces[len(pieces)-1]; last.width < bits {
		me.check(cur, last.width)
	}
	ret[len(pieces)-1] = cur
	return ret
}

func (me *Gadget) join(values []frontend.Variable, shifts []int) frontend.Variable {
	acc := values[0]
	for i := 1; i < len(values); i++ {
		acc = me.api.Add(acc, me.api.Mul(values[i], new(big.Int).Lsh(big.NewInt(1), uint(shifts[i]))))
	}
	return acc
}

func (me *Gadget) Decompose(hi, lo frontend.Variable) []frontend.Variable {
	var values []frontend.Variable
	for h, half := range []frontend.Variable{lo, hi} {
		values = append(values, me.split(half, HALF_BITS, filter(me.pieces, func(p piece) bool { return p.half == h }))...)
	}
	limbs := make([]frontend.Variable, me.numLimbs)
	for l := range limbs {
		var vs []frontend.Variable
		var shifts []int
		for i, p := range me.pieces {
			if p.limb == l {
				vs = append(vs, values[i])
				shifts = append(shifts, p.offsetInLimb(me.limbBits))
			}
		}
		limbs[l] = me.join(vs, shifts)
	}
	return limbs
}

func (me *Gadget) Compose(limbs []frontend.Variable) (hi, lo frontend.Variable) {
	if len(limbs) != me.numLimbs {
		panic(fmt.Sprintf("hilo: expected %d limbs, got %d", me.numLimbs, len(limbs)))
	}
	var values []frontend.Variable
	for l, limb := range limbs {
		pieces := filter(me.pieces, func(p piece) bool { return p.limb == l })
		values = append(values, me.split(limb, me.limbBits, pieces)...)
	}
	var halves [2]frontend.Variable
	for h := range halves {
		var vs []frontend.Variable
		var shifts []int
		for i, p := range me.pieces {
			if p.half == h {
				vs = append(vs, values[i])
				shifts = append(shifts, p.offsetInHalf())
			}
		}
		halves[h] = me.join(vs, shifts)
	}
	return halves[1], halves[0]
}

func (me *Gadget) AssertBelowModulus(hi, lo frontend.Variable, p *big.Int) error {
	hiMax, loMax, err := Bounds(p)
	if err != nil {
		return err
	}
	me.rc.Check(hi, HALF_BITS)
	me.rc.Check(lo, HALF_BITS)
	hiLess := cmp.IsLess(me.api, hi, hiMax)
	hiEqual := me.api.IsZero(me.api.Sub(hi, hiMax))
	loLess := cmp.IsLess(me.api, lo, loMax)
	ok := me.api.Or(hiLess, me.api.And(hiEqual, loLess))
	me.api.AssertIsEqual(ok, 1)
	return nil
}
