// Package hilo converts 256-bit integers between their two 128-bit halves
// (hi, lo) and the limb form used by foreign field chips, and proves a hi-lo
// pair lies below a given modulus. Every conversion is bound by constraints,
// not only computed on the host.
package hilo

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/eon-protocol/eonlib/builder"
	"github.com/eon-protocol/eonlib/circuits/foreign"
	"github.com/eon-protocol/eonlib/circuits/rangechip"
)

const HALF_BITS = 128
const TOTAL_BITS = 2 * HALF_BITS

var (
	ErrInvalidModulus = errors.New("modulus must lie in (0, 2^256)")
	ErrLayoutMismatch = errors.New("limb layout of the field chip differs from the codec")
)

// piece is the run of bits [start, start+width) of the 256-bit integer that
// lies inside a single half and a single limb.
type piece struct {
	start int
	width int
	half  int
	limb  int
}

func (me piece) offsetInHalf() int {
	return me.start - me.half*HALF_BITS
}

func (me piece) offsetInLimb(limbBits int) int {
	return me.start - me.limb*limbBits
}

type Codec struct {
	rng      *rangechip.Chip
	limbBits int
	numLimbs int
	pieces   []piece
}

// tile cuts [0, 256) at every half and limb boundary.
func tile(limbBits, numLimbs int) ([]piece, error) {
	if limbBits <= 0 || limbBits > HALF_BITS {
		return nil, fmt.Errorf("limb width %d outside (0, %d]", limbBits, HALF_BITS)
	}
	if limbBits*numLimbs < TOTAL_BITS || limbBits*(numLimbs-1) >= TOTAL_BITS {
		return nil, fmt.Errorf("%d limbs of %d bits do not tile %d bits", numLimbs, limbBits, TOTAL_BITS)
	}
	var pieces []piece
	for pos := 0; pos < TOTAL_BITS; {
		limb, half := pos/limbBits, pos/HALF_BITS
		end := min((limb+1)*limbBits, (half+1)*HALF_BITS)
		pieces = append(pieces, piece{start: pos, width: end - pos, half: half, limb: limb})
		pos = end
	}
	return pieces, nil
}

func filter(pieces []piece, selector func(piece) bool) []piece {
	var ret []piece
	for _, p := range pieces {
		if selector(p) {
			ret = append(ret, p)
		}
	}
	return ret
}

func New(rng *rangechip.Chip, limbBits, numLimbs int) (*Codec, error) {
	pieces, err := tile(limbBits, numLimbs)
	if err != nil {
		return nil, err
	}
	return &Codec{rng: rng, limbBits: limbBits, numLimbs: numLimbs, pieces: pieces}, nil
}

// NewDefault returns the 3x88 codec.
func NewDefault(rng *rangechip.Chip) *Codec {
	me, err := New(rng, foreign.LIMB_BITS, foreign.NUM_LIMBS)
	if err != nil {
		panic(err)
	}
	return me
}

func (me *Codec) LimbBits() int {
	return me.limbBits
}

func (me *Codec) NumLimbs() int {
	return me.numLimbs
}

// split cuts a into the given consecutive pieces, lowest first, assuming a fits
// in bits bits. Each cut is a division by a power of two whose quotient is
// range checked to the bits left, so the last piece is bounded as well.
func (me *Codec) split(ctx *builder.Context, a builder.AssignedValue, bits int, pieces []piece) []builder.AssignedValue {
	ret := make([]builder.AssignedValue, len(pieces))
	if len(pieces) == 1 {
		me.rng.RangeCheck(ctx, a, pieces[0].width)
		ret[0] = a
		return ret
	}
	cur := a
	for i, p := range pieces[:len(pieces)-1] {
		q, r := me.rng.DivMod(ctx, cur, new(big.Int).Lsh(big.NewInt(1), uint(p.width)), bits)
		ret[i] = r
		cur = q
		bits -= p.width
	}
	last := pieces[len(pieces)-1]
	if last.width < bits {
		me.rng.RangeCheck(ctx, cur, last.width)
	}
	ret[len(pieces)-1] = cur
	return ret
}

// join returns sum(values[i] * 2^shifts[i]); shifts[0] must be zero.
func join(ctx *builder.Context, values []builder.AssignedValue, shifts []int) builder.AssignedValue {
	acc := values[0]
	for i := 1; i < len(values); i++ {
		acc = ctx.MulAdd(values[i], builder.PowerOfTwo(shifts[i]), acc)
	}
	return acc
}

// Decompose returns the limbs of hi*2^128 + lo. Each half is proven to fit in
// 128 bits along the way.
func (me *Codec) Decompose(ctx *builder.Context, hi, lo builder.AssignedValue) []builder.AssignedValue {
	values := make([]builder.AssignedValue, len(me.pieces))
	n := 0
	for h, half := range []builder.AssignedValue{lo, hi} {
		pieces := filter(me.pieces, func(p piece) bool { return p.half == h })
		for _, v := range me.split(ctx, half, HALF_BITS, pieces) {
			values[n] = v
			n++
		}
	}
	limbs := make([]builder.AssignedValue, me.numLimbs)
	for l := range limbs {
		var vs []builder.AssignedValue
		var shifts []int
		for i, p := range me.pieces {
			if p.limb == l {
				vs = append(vs, values[i])
				shifts = append(shifts, p.offsetInLimb(me.limbBits))
			}
		}
		limbs[l] = join(ctx, vs, shifts)
	}
	return limbs
}

// ConstrainLimbs binds limbs to the decomposition of (hi, lo).
func (me *Codec) ConstrainLimbs(ctx *builder.Context, hi, lo builder.AssignedValue, limbs []builder.AssignedValue) {
	if len(limbs) != me.numLimbs {
		panic(fmt.Sprintf("hilo: expected %d limbs, got %d", me.numLimbs, len(limbs)))
	}
	for i, l := range me.Decompose(ctx, hi, lo) {
		ctx.ConstrainEqual(l, limbs[i])
	}
}

// Compose returns (hi, lo) of limbs. Every limb is bounded here: whole limbs
// are range checked to the limb width, the limb straddling bit 128 is split,
// and the top limb is range checked to the bits it has left below 2^256.
func (me *Codec) Compose(ctx *builder.Context, limbs []builder.AssignedValue) (hi, lo builder.AssignedValue) {
	if len(limbs) != me.numLimbs {
		panic(fmt.Sprintf("hilo: expected %d limbs, got %d", me.numLimbs, len(limbs)))
	}
	values := make([]builder.AssignedValue, 0, len(me.pieces))
	for l, limb := range limbs {
		pieces := filter(me.pieces, func(p piece) bool { return p.limb == l })
		values = append(values, me.split(ctx, limb, me.limbBits, pieces)...)
	}
	halves := [2]builder.AssignedValue{}
	for h := range halves {
		var vs []builder.AssignedValue
		var shifts []int
		for i, p := range me.pieces {
			if p.half == h {
				vs = append(vs, values[i])
				shifts = append(shifts, p.offsetInHalf())
			}
		}
		halves[h] = join(ctx, vs, shifts)
	}
	return halves[1], halves[0]
}
