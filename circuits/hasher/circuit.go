// Package hasher provides Poseidon2 (t=2) over the BN254 scalar field, both
// natively and as gates of a builder context.
package hasher

import (
	"errors"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr/poseidon2"

	"github.com/eon-protocol/eonlib/builder"
	"github.com/eon-protocol/eonlib/circuits/gate"
)

var (
	ErrInvalidSizebuffer = errors.New("the size of the input should match the size of the hash buffer")
)

// Chip emits the Poseidon2 permutation as builder gates.
type Chip struct {
	width           int
	degreeSBox      int
	nbFullRounds    int
	nbPartialRounds int
	// [round][lane]
	roundKeys [][]builder.Constant
}

func New() *Chip {
	concrete := getParameters()
	me := &Chip{
		width:           concrete.Width,
		degreeSBox:      poseidon2.DegreeSBox(),
		nbFullRounds:    concrete.NbFullRounds,
		nbPartialRounds: concrete.NbPartialRounds,
		roundKeys:       make([][]builder.Constant, len(concrete.RoundKeys)),
	}
	for i := range me.roundKeys {
		me.roundKeys[i] = make([]builder.Constant, len(concrete.RoundKeys[i]))
		for j := range me.roundKeys[i] {
			me.roundKeys[i][j] = builder.Constant(concrete.RoundKeys[i][j])
		}
	}
	return me
}

func (me *Chip) sBox(ctx *builder.Context, index int, input []builder.Operand) {
	x := input[index]
	switch me.degreeSBox {
	case 3:
		input[index] = gate.Mul(ctx, gate.Mul(ctx, x, x), x)
	case 5:
		x2 := gate.Mul(ctx, x, x)
		input[index] = gate.Mul(ctx, gate.Mul(ctx, x2, x2), x)
	case 7:
		x2 := gate.Mul(ctx, x, x)
		x3 := gate.Mul(ctx, x2, x)
		input[index] = gate.Mul(ctx, gate.Mul(ctx, x3, x3), x)
	default:
		panic("unsupported sBox degree")
	}
}

func (me *Chip) matMulExternalInPlace(ctx *builder.Context, input []builder.Operand) {
	switch me.width {
	case 2:
		tmp := gate.Add(ctx, input[0], input[1])
		input[0] = gate.Add(ctx, tmp, input[0])
		input[1] = gate.Add(ctx, tmp, input[1])
	case 3:
		tmp := gate.Sum(ctx, input)
		for i := range input {
			input[i] = gate.Add(ctx, input[i], tmp)
		}
	default:
		panic("only T=2,3 is supported for external matrix")
	}
}

// matMulInternalInPlace applies the sparse internal matrix, diag(1,2) or
// diag(1,1,2) plus the all-ones matrix.
func (me *Chip) matMulInternalInPlace(ctx *builder.Context, input []builder.Operand) {
	sum := gate.Sum(ctx, input)
	last := len(input) - 1
	for i := 0; i < last; i++ {
		input[i] = gate.Add(ctx, input[i], sum)
	}
	input[last] = gate.MulAdd(ctx, input[last], builder.ConstantUint64(2), sum)
}

func (me *Chip) addRoundKeyInPlace(ctx *builder.Context, round int, input []builder.Operand) {
	for i, k := range me.roundKeys[round] {
		input[i] = gate.Add(ctx, input[i], k)
	}
}

// Permutation applies the Poseidon2 permutation in place.
func (me *Chip) Permutation(ctx *builder.Context, input []builder.Operand) error {
	if len(input) != me.width {
		return ErrInvalidSizebuffer
	}
	me.matMulExternalInPlace(ctx, input)
	rf := me.nbFullRounds / 2
	for i := 0; i < rf; i++ {
		me.addRoundKeyInPlace(ctx, i, input)
		for j := 0; j < me.width; j++ {
			me.sBox(ctx, j, input)
		}
		me.matMulExternalInPlace(ctx, input)
	}
	for i := rf; i < rf+me.nbPartialRounds; i++ {
		me.addRoundKeyInPlace(ctx, i, input)
		me.sBox(ctx, 0, input)
		me.matMulInternalInPlace(ctx, input)
	}
	for i := rf + me.nbPartialRounds; i < me.nbFullRounds+me.nbPartialRounds; i++ {
		me.addRoundKeyInPlace(ctx, i, input)
		for j := 0; j < me.width; j++ {
			me.sBox(ctx, j, input)
		}
		me.matMulExternalInPlace(ctx, input)
	}
	return nil
}

// Compress returns perm([left,right])[1] + right.
func (me *Chip) Compress(ctx *builder.Context, left, right builder.Operand) builder.AssignedValue {
	if me.width != 2 {
		panic("poseidon2: Compress can only be used when t=2")
	}
	vars := []builder.Operand{left, right}
	if err := me.Permutation(ctx, vars); err != nil {
		panic(err)
	}
	return gate.Add(ctx, vars[1], right)
}

// HashSum folds values from zero using Compress.
func (me *Chip) HashSum(ctx *builder.Context, vals ...builder.Operand) builder.AssignedValue {
	if len(vals) == 0 {
		return ctx.LoadZero()
	}
	var acc builder.Operand = builder.ConstantUint64(0)
	for _, v := range vals {
		acc = me.Compress(ctx, acc, v)
	}
	return acc.(builder.AssignedValue)
}
