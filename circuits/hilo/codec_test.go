package hilo

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"

	"github.com/eon-protocol/eonlib/builder"
	"github.com/eon-protocol/eonlib/circuits/foreign"
	"github.com/eon-protocol/eonlib/circuits/rangechip"
)

const lookupBits = 16

func setup() (*builder.Builder, *builder.Context, *Codec) {
	b := builder.New(lookupBits)
	return b, b.Main(0), NewDefault(rangechip.New(lookupBits))
}

func load(ctx *builder.Context, v *big.Int) builder.AssignedValue {
	var e fr.Element
	e.SetBigInt(v)
	return ctx.LoadWitness(e)
}

func u128(high, low uint64) *big.Int {
	v := new(big.Int).SetUint64(high)
	return v.Lsh(v, 64).Or(v, new(big.Int).SetUint64(low))
}

func limbsValue(limbs []builder.AssignedValue, limbBits int) *big.Int {
	v := new(big.Int)
	for i := len(limbs) - 1; i >= 0; i-- {
		v.Lsh(v, uint(limbBits)).Add(v, limbs[i].BigInt())
	}
	return v
}

func TestTiling(t *testing.T) {
	pieces, err := tile(88, 3)
	require.NoError(t, err)
	require.Equal(t, []piece{
		{start: 0, width: 88, half: 0, limb: 0},
		{start: 88, width: 40, half: 0, limb: 1},
		{start: 128, width: 48, half: 1, limb: 1},
		{start: 176, width: 80, half: 1, limb: 2},
	}, pieces)

	for _, c := range [][2]int{{0, 3}, {129, 2}, {64, 3}, {88, 4}} {
		_, err := tile(c[0], c[1])
		require.Error(t, err, c)
	}
}

func TestRoundTripAndLimbEquivalence(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 40
	properties := gopter.NewProperties(parameters)
	properties.Property("compose(decompose(hi, lo)) == (hi, lo)", prop.ForAll(
		func(h1, h0, l1, l0 uint64) bool {
			b, ctx, codec := setup()
			hiv, lov := u128(h1, h0), u128(l1, l0)
			hi, lo := load(ctx, hiv), load(ctx, lov)
			limbs := codec.Decompose(ctx, hi, lo)
			want := new(big.Int).Add(new(big.Int).Lsh(hiv, HALF_BITS), lov)
			if limbsValue(limbs, codec.LimbBits()).Cmp(want) != 0 {
				return false
			}
			for _, l := range limbs {
				if l.BigInt().BitLen() > codec.LimbBits() {
					return false
				}
			}
			hi2, lo2 := codec.Compose(ctx, limbs)
			if hi2.BigInt().Cmp(hiv) != 0 || lo2.BigInt().Cmp(lov) != 0 {
				return false
			}
			return b.Check() == nil
		},
		gen.UInt64(), gen.UInt64(), gen.UInt64(), gen.UInt64(),
	))
	properties.TestingRun(t)
}

func TestDecomposeLimbValues(t *testing.T) {
	b, ctx, codec := setup()
	hiv := u128(0xfedcba9876543210, 0x0123456789abcdef)
	lov := u128(0xffffffffffffffff, 0x1)
	limbs := codec.Decompose(ctx, load(ctx, hiv), load(ctx, lov))
	full := new(big.Int).Add(new(big.Int).Lsh(hiv, HALF_BITS), lov)
	for i, want := range foreign.SplitLimbs(full, 88, 3) {
		require.Equal(t, want.String(), limbs[i].String(), i)
	}
	require.NoError(t, b.Check())
}

func TestOtherLayouts(t *testing.T) {
	hiv := u128(0x8000000000000001, 0x7fffffffffffffff)
	lov := u128(0xaaaaaaaaaaaaaaaa, 0x5555555555555555)
	full := new(big.Int).Add(new(big.Int).Lsh(hiv, HALF_BITS), lov)
	for _, layout := range [][2]int{{128, 2}, {100, 3}, {64, 4}, {120, 3}, {86, 3}} {
		b := builder.New(lookupBits)
		ctx := b.Main(0)
		codec, err := New(rangechip.New(lookupBits), layout[0], layout[1])
		require.NoError(t, err)
		limbs := codec.Decompose(ctx, load(ctx, hiv), load(ctx, lov))
		require.Equal(t, full.String(), limbsValue(limbs, layout[0]).String(), layout)
		hi, lo := codec.Compose(ctx, limbs)
		require.Equal(t, hiv.String(), hi.String(), layout)
		require.Equal(t, lov.String(), lo.String(), layout)
		require.NoError(t, b.Check(), layout)
	}
}

func TestDecomposeRejectsWideHalf(t *testing.T) {
	b, ctx, codec := setup()
	wide := new(big.Int).Lsh(big.NewInt(1), HALF_BITS)
	codec.Decompose(ctx, load(ctx, big.NewInt(1)), load(ctx, wide))
	require.ErrorIs(t, b.Check(), builder.ErrUnsatisfied)

	b, ctx, codec = setup()
	codec.Decompose(ctx, load(ctx, wide), load(ctx, big.NewInt(1)))
	require.ErrorIs(t, b.Check(), builder.ErrUnsatisfied)
}

func TestComposeRejectsOversizedTopLimb(t *testing.T) {
	b, ctx, codec := setup()
	top := new(big.Int).Lsh(big.NewInt(1), 80)
	codec.Compose(ctx, []builder.AssignedValue{load(ctx, big.NewInt(1)), load(ctx, big.NewInt(2)), load(ctx, top)})
	require.ErrorIs(t, b.Check(), builder.ErrUnsatisfied)
}

func TestComposeBoundsEveryLimb(t *testing.T) {
	wide := new(big.Int).Sub(fr.Modulus(), big.NewInt(1))
	for i := range foreign.NUM_LIMBS {
		b, ctx, codec := setup()
		limbs := []builder.AssignedValue{load(ctx, big.NewInt(0)), load(ctx, big.NewInt(0)), load(ctx, big.NewInt(0))}
		limbs[i] = load(ctx, wide)
		codec.Compose(ctx, limbs)
		require.ErrorIs(t, b.Check(), builder.ErrUnsatisfied, "limb %d", i)
	}

	b, ctx, codec := setup()
	limb := new(big.Int).Lsh(big.NewInt(1), 88)
	codec.Compose(ctx, []builder.AssignedValue{load(ctx, limb), load(ctx, big.NewInt(0)), load(ctx, big.NewInt(0))})
	require.ErrorIs(t, b.Check(), builder.ErrUnsatisfied)
}

func TestConstrainLimbsBindsTarget(t *testing.T) {
	b, ctx, codec := setup()
	hi, lo := load(ctx, big.NewInt(5)), load(ctx, big.NewInt(7))
	full := new(big.Int).Add(new(big.Int).Lsh(big.NewInt(5), HALF_BITS), big.NewInt(7))
	parts := foreign.SplitLimbs(full, 88, 3)
	good := []builder.AssignedValue{load(ctx, parts[0]), load(ctx, parts[1]), load(ctx, parts[2])}
	codec.ConstrainLimbs(ctx, hi, lo, good)
	require.NoError(t, b.Check())

	bad := []builder.AssignedValue{good[0], load(ctx, new(big.Int).Add(parts[1], big.NewInt(1))), good[2]}
	codec.ConstrainLimbs(ctx, hi, lo, bad)
	require.ErrorIs(t, b.Check(), builder.ErrUnsatisfied)
}
