package rangechip

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/require"

	"github.com/eon-protocol/eonlib/builder"
)

const lookupBits = 8

func setup() (*builder.Builder, *builder.Context, *Chip) {
	b := builder.New(lookupBits)
	return b, b.Main(0), New(lookupBits)
}

func big2(n uint) *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), n)
}

func load(ctx *builder.Context, v *big.Int) builder.AssignedValue {
	var e fr.Element
	e.SetBigInt(v)
	return ctx.LoadWitness(e)
}

func TestRangeCheck(t *testing.T) {
	cases := []struct {
		value *big.Int
		bits  int
		ok    bool
	}{
		{big.NewInt(0), 0, true},
		{big.NewInt(1), 0, false},
		{big.NewInt(255), 8, true},
		{big.NewInt(256), 8, false},
		{new(big.Int).Sub(big2(20), big.NewInt(1)), 20, true},
		{big2(20), 20, false},
		{new(big.Int).Sub(big2(128), big.NewInt(1)), 128, true},
		{big2(128), 128, false},
		{new(big.Int).Sub(big2(88), big.NewInt(1)), 88, true},
	}
	for _, c := range cases {
		b, ctx, chip := setup()
		chip.RangeCheck(ctx, load(ctx, c.value), c.bits)
		if c.ok {
			require.NoError(t, b.Check(), "%s in %d bits", c.value, c.bits)
		} else {
			require.ErrorIs(t, b.Check(), builder.ErrUnsatisfied, "%s in %d bits", c.value, c.bits)
		}
	}
}

func TestRangeCheckRejectsFieldWrap(t *testing.T) {
	b, ctx, chip := setup()
	var minusOne fr.Element
	minusOne.SetInt64(-1)
	chip.RangeCheck(ctx, ctx.LoadWitness(minusOne), 128)
	require.ErrorIs(t, b.Check(), builder.ErrUnsatisfied)
	require.Panics(t, func() { chip.RangeCheck(ctx, ctx.LoadWitness(minusOne), fr.Bits) })
}

func TestLessThan(t *testing.T) {
	for _, c := range []struct {
		a, b uint64
		lt   bool
	}{{3, 5, true}, {5, 5, false}, {7, 5, false}, {0, 1, true}, {0, 0, false}, {65534, 65535, true}} {
		b, ctx, chip := setup()
		x := ctx.LoadWitness(fr.NewElement(c.a))
		y := ctx.LoadWitness(fr.NewElement(c.b))
		got := chip.IsLessThan(ctx, x, y, 16)
		want := "0"
		if c.lt {
			want = "1"
		}
		require.Equal(t, want, got.String(), "%d < %d", c.a, c.b)
		require.NoError(t, b.Check())

		chip.CheckLessThan(ctx, x, y, 16)
		if c.lt {
			require.NoError(t, b.Check())
		} else {
			require.ErrorIs(t, b.Check(), builder.ErrUnsatisfied)
		}
	}
}

func TestSafeComparisons(t *testing.T) {
	b, ctx, chip := setup()
	x := ctx.LoadWitness(fr.NewElement(1000))
	require.Equal(t, "1", chip.IsLessThanSafe(ctx, x, 1001).String())
	require.Equal(t, "0", chip.IsLessThanSafe(ctx, x, 1000).String())
	chip.CheckLessThanSafe(ctx, x, 1024)
	require.NoError(t, b.Check())

	chip.CheckBigLessThanSafe(ctx, x, big.NewInt(999))
	require.ErrorIs(t, b.Check(), builder.ErrUnsatisfied)
}

func TestDivMod(t *testing.T) {
	b, ctx, chip := setup()
	x := load(ctx, new(big.Int).Add(new(big.Int).Mul(big2(88), big.NewInt(12345)), big.NewInt(678)))
	q, r := chip.DivMod(ctx, x, big2(88), 128)
	require.Equal(t, "12345", q.String())
	require.Equal(t, "678", r.String())

	q, r = chip.DivMod(ctx, ctx.LoadWitness(fr.NewElement(1000)), big.NewInt(7), 16)
	require.Equal(t, "142", q.String())
	require.Equal(t, "6", r.String())
	require.NoError(t, b.Check())

	chip.DivMod(ctx, load(ctx, big2(128)), big2(88), 128)
	require.ErrorIs(t, b.Check(), builder.ErrUnsatisfied)
}

func TestDivModVar(t *testing.T) {
	b, ctx, chip := setup()
	q, r := chip.DivModVar(ctx, ctx.LoadWitness(fr.NewElement(1000)), ctx.LoadWitness(fr.NewElement(33)), 16, 8)
	require.Equal(t, "30", q.String())
	require.Equal(t, "10", r.String())
	require.NoError(t, b.Check())

	chip.DivModVar(ctx, ctx.LoadWitness(fr.NewElement(5)), ctx.LoadZero(), 16, 8)
	require.ErrorIs(t, b.Check(), builder.ErrUnsatisfied)
}
