// Package gate builds boolean and arithmetic combinators out of the single
// a*b+c gate of the builder.
package gate

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/eon-protocol/eonlib/builder"
)

var (
	zero     = builder.ConstantUint64(0)
	one      = builder.ConstantUint64(1)
	minusOne = builder.ConstantInt64(-1)
)

func MulAdd(ctx *builder.Context, a, b, c builder.Operand) builder.AssignedValue {
	return ctx.MulAdd(a, b, c)
}

func Add(ctx *builder.Context, a, b builder.Operand) builder.AssignedValue {
	return ctx.MulAdd(a, one, b)
}

// Sub returns a - b.
func Sub(ctx *builder.Context, a, b builder.Operand) builder.AssignedValue {
	return ctx.MulAdd(b, minusOne, a)
}

func Neg(ctx *builder.Context, a builder.Operand) builder.AssignedValue {
	return ctx.MulAdd(a, minusOne, zero)
}

func Mul(ctx *builder.Context, a, b builder.Operand) builder.AssignedValue {
	return ctx.MulAdd(a, b, zero)
}

// MulNot returns (1 - a) * b.
func MulNot(ctx *builder.Context, a, b builder.Operand) builder.AssignedValue {
	ab := Mul(ctx, a, b)
	return Sub(ctx, b, ab)
}

// AssertBit constrains a*a = a.
func AssertBit(ctx *builder.Context, a builder.AssignedValue) {
	ctx.ConstrainEqual(Mul(ctx, a, a), a)
}

// DivUnsafe returns a / b. A zero divisor leaves the circuit unsatisfiable
// unless a is zero too.
func DivUnsafe(ctx *builder.Context, a, b builder.Operand) builder.AssignedValue {
	av, bv := builder.ValueOf(a), builder.ValueOf(b)
	var q fr.Element
	q.Inverse(&bv).Mul(&q, &av)
	qw := ctx.LoadWitness(q)
	ctx.ConstrainEqual(Mul(ctx, qw, b), a)
	return qw
}

func AssertIsConst(ctx *builder.Context, a builder.AssignedValue, c fr.Element) {
	ctx.ConstrainEqual(a, builder.Constant(c))
}

// InnerProduct returns sum(a[i] * b[i]).
func InnerProduct[A, B builder.Operand](ctx *builder.Context, a []A, b []B) builder.AssignedValue {
	if len(a) != len(b) {
		panic(fmt.Sprintf("gate: inner product of %d and %d values", len(a), len(b)))
	}
	if len(a) == 0 {
		return ctx.LoadZero()
	}
	acc := ctx.MulAdd(a[0], b[0], zero)
	for i := 1; i < len(a); i++ {
		acc = ctx.MulAdd(a[i], b[i], acc)
	}
	return acc
}

func Sum[A builder.Operand](ctx *builder.Context, a []A) builder.AssignedValue {
	if len(a) == 0 {
		return ctx.LoadZero()
	}
	acc := ctx.MulAdd(a[0], one, zero)
	for i := 1; i < len(a); i++ {
		acc = ctx.MulAdd(a[i], one, acc)
	}
	return acc
}

// And, Or, Not and OrAnd expect boolean operands.
func And(ctx *builder.Context, a, b builder.Operand) builder.AssignedValue {
	return Mul(ctx, a, b)
}

// Or returns a + b - a*b, computed as a*(1-b) + b.
func Or(ctx *builder.Context, a, b builder.Operand) builder.AssignedValue {
	nb := Not(ctx, b)
	return ctx.MulAdd(a, nb, b)
}

func Not(ctx *builder.Context, a builder.Operand) builder.AssignedValue {
	return ctx.MulAdd(a, minusOne, one)
}

// OrAnd returns a || (b && c).
func OrAnd(ctx *builder.Context, a, b, c builder.Operand) builder.AssignedValue {
	return Or(ctx, a, And(ctx, b, c))
}

func Dec(ctx *builder.Context, a builder.Operand) builder.AssignedValue {
	return ctx.MulAdd(a, one, minusOne)
}

// Select returns a when sel is 1 and b when sel is 0.
func Select(ctx *builder.Context, a, b, sel builder.Operand) builder.AssignedValue {
	d := Sub(ctx, a, b)
	return ctx.MulAdd(sel, d, b)
}

// IsZero returns 1 if a is zero and 0 otherwise.
func IsZero(ctx *builder.Context, a builder.Operand) builder.AssignedValue {
	v := builder.ValueOf(a)
	var negInv fr.Element
	negInv.Inverse(&v).Neg(&negInv)
	w := ctx.LoadWitness(negInv)
	out := ctx.MulAdd(a, w, one)
	ctx.ConstrainEqual(Mul(ctx, a, out), zero)
	return out
}

func IsEqual(ctx *builder.Context, a, b builder.Operand) builder.AssignedValue {
	return IsZero(ctx, Sub(ctx, a, b))
}

// NumToBits returns the n little-endian bits of a and constrains them to recompose a.
func NumToBits(ctx *builder.Context, a builder.Operand, n int) []builder.AssignedValue {
	if n <= 0 || n > fr.Bits {
		panic(fmt.Sprintf("gate: cannot decompose into %d bits", n))
	}
	v := builder.BigOf(a)
	bits := make([]builder.AssignedValue, n)
	var acc builder.AssignedValue
	for i := range bits {
		bits[i] = ctx.LoadWitness(fr.NewElement(uint64(v.Bit(i))))
		AssertBit(ctx, bits[i])
		if i == 0 {
			acc = ctx.MulAdd(bits[i], one, zero)
		} else {
			acc = ctx.MulAdd(bits[i], builder.PowerOfTwo(i), acc)
		}
	}
	ctx.ConstrainEqual(acc, a)
	return bits
}

// BitsToIndicator returns the one-hot vector of length 2^len(bits) selecting
// the index the little-endian bits encode.
func BitsToIndicator(ctx *builder.Context, bits []builder.AssignedValue) []builder.AssignedValue {
	if len(bits) == 0 {
		panic("gate: empty bit decomposition")
	}
	ind := make([]builder.AssignedValue, 1<<len(bits))
	ind[0] = Not(ctx, bits[0])
	ind[1] = bits[0]
	for i := 1; i < len(bits); i++ {
		size := 1 << i
		for j := 0; j < size; j++ {
			ind[j+size] = Mul(ctx, ind[j], bits[i])
			ind[j] = MulNot(ctx, bits[i], ind[j])
		}
	}
	return ind
}

// IdxToIndicator returns the one-hot vector of length n for idx. It is all
// zeros when idx >= n.
func IdxToIndicator(ctx *builder.Context, idx builder.Operand, n int) []builder.AssignedValue {
	ind := make([]builder.AssignedValue, n)
	for i := range ind {
		ind[i] = IsEqual(ctx, idx, builder.ConstantUint64(uint64(i)))
	}
	return ind
}

func SelectByIndicator[A builder.Operand](ctx *builder.Context, a []A, indicator []builder.AssignedValue) builder.AssignedValue {
	return InnerProduct(ctx, a, indicator)
}

func SelectFromIdx[A builder.Operand](ctx *builder.Context, a []A, idx builder.Operand) builder.AssignedValue {
	return SelectByIndicator(ctx, a, IdxToIndicator(ctx, idx, len(a)))
}

// PowVar returns a^e for an exponent of at most maxBits bits.
func PowVar(ctx *builder.Context, a, e builder.Operand, maxBits int) builder.AssignedValue {
	bits := NumToBits(ctx, e, maxBits)
	acc := ctx.LoadConstant(fr.One())
	for i := len(bits) - 1; i >= 0; i-- {
		acc = Mul(ctx, acc, acc)
		acc = Select(ctx, Mul(ctx, acc, a), acc, bits[i])
	}
	return acc
}
