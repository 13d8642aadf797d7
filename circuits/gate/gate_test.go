package gate

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/require"

	"github.com/eon-protocol/eonlib/builder"
)

func newCtx() (*builder.Builder, *builder.Context) {
	b := builder.New(8)
	return b, b.Main(0)
}

func witness(ctx *builder.Context, v uint64) builder.AssignedValue {
	return ctx.LoadWitness(fr.NewElement(v))
}

func TestArithmetic(t *testing.T) {
	b, ctx := newCtx()
	x, y := witness(ctx, 7), witness(ctx, 5)
	require.Equal(t, "12", Add(ctx, x, y).String())
	require.Equal(t, "2", Sub(ctx, x, y).String())
	require.Equal(t, "35", Mul(ctx, x, y).String())
	require.Equal(t, "40", MulAdd(ctx, x, y, builder.ConstantUint64(5)).String())
	require.Equal(t, "6", Dec(ctx, x).String())
	n := Neg(ctx, x)
	require.Equal(t, "0", Add(ctx, n, x).String())
	require.Equal(t, "7", DivUnsafe(ctx, Mul(ctx, x, y), y).String())
	require.Equal(t, "12", Sum(ctx, []builder.AssignedValue{x, y}).String())
	require.Equal(t, "49", InnerProduct(ctx, []builder.AssignedValue{x, y}, []builder.Operand{builder.ConstantUint64(2), x}).String())
	require.Equal(t, "2187", PowVar(ctx, builder.ConstantUint64(3), x, 4).String())
	require.NoError(t, b.Check())
}

func TestBooleans(t *testing.T) {
	b, ctx := newCtx()
	bits := []builder.AssignedValue{witness(ctx, 0), witness(ctx, 1)}
	for _, a := range bits {
		AssertBit(ctx, a)
		for _, c := range bits {
			av, cv := a.BigInt().Int64(), c.BigInt().Int64()
			require.Equal(t, av&cv, And(ctx, a, c).BigInt().Int64())
			require.Equal(t, av|cv, Or(ctx, a, c).BigInt().Int64())
			require.Equal(t, (1-av)*cv, MulNot(ctx, a, c).BigInt().Int64())
			for _, d := range bits {
				dv := d.BigInt().Int64()
				require.Equal(t, av|(cv&dv), OrAnd(ctx, a, c, d).BigInt().Int64())
			}
		}
		require.Equal(t, 1-a.BigInt().Int64(), Not(ctx, a).BigInt().Int64())
	}
	require.NoError(t, b.Check())

	AssertBit(ctx, witness(ctx, 2))
	require.ErrorIs(t, b.Check(), builder.ErrUnsatisfied)
}

func TestIsZeroAndSelect(t *testing.T) {
	b, ctx := newCtx()
	require.Equal(t, "1", IsZero(ctx, witness(ctx, 0)).String())
	require.Equal(t, "0", IsZero(ctx, witness(ctx, 9)).String())
	require.Equal(t, "1", IsEqual(ctx, witness(ctx, 9), builder.ConstantUint64(9)).String())
	require.Equal(t, "0", IsEqual(ctx, witness(ctx, 9), builder.ConstantUint64(8)).String())
	x, y := witness(ctx, 11), witness(ctx, 22)
	require.Equal(t, "11", Select(ctx, x, y, witness(ctx, 1)).String())
	require.Equal(t, "22", Select(ctx, x, y, witness(ctx, 0)).String())
	require.NoError(t, b.Check())
}

func TestIndicators(t *testing.T) {
	b, ctx := newCtx()
	bits := NumToBits(ctx, witness(ctx, 6), 3)
	require.Equal(t, []string{"0", "1", "1"}, []string{bits[0].String(), bits[1].String(), bits[2].String()})
	ind := BitsToIndicator(ctx, bits)
	require.Len(t, ind, 8)
	for i, v := range ind {
		want := "0"
		if i == 6 {
			want = "1"
		}
		require.Equal(t, want, v.String(), i)
	}
	arr := []builder.AssignedValue{witness(ctx, 10), witness(ctx, 20), witness(ctx, 30)}
	require.Equal(t, "30", SelectFromIdx(ctx, arr, witness(ctx, 2)).String())
	require.Equal(t, "20", SelectByIndicator(ctx, arr, IdxToIndicator(ctx, builder.ConstantUint64(1), 3)).String())
	require.Equal(t, "0", SelectFromIdx(ctx, arr, witness(ctx, 5)).String())
	require.NoError(t, b.Check())
}

func TestNumToBitsRejectsWideValue(t *testing.T) {
	b, ctx := newCtx()
	NumToBits(ctx, witness(ctx, 9), 3)
	require.ErrorIs(t, b.Check(), builder.ErrUnsatisfied)
}

func TestAssertIsConst(t *testing.T) {
	b, ctx := newCtx()
	AssertIsConst(ctx, witness(ctx, 4), fr.NewElement(4))
	require.NoError(t, b.Check())
	AssertIsConst(ctx, witness(ctx, 4), fr.NewElement(5))
	require.ErrorIs(t, b.Check(), builder.ErrUnsatisfied)
}
