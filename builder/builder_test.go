package builder

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/require"
)

func TestCommitOffsetsAreDense(t *testing.T) {
	b := New(8)
	ctx := b.Main(0)
	for i := 0; i < 5; i++ {
		v := ctx.LoadWitness(fr.NewElement(uint64(i * 10)))
		cell, ok := v.Cell()
		require.True(t, ok)
		require.Equal(t, Cell{Phase: 0, Offset: i}, cell)
	}
	k := ctx.LoadConstant(fr.NewElement(7))
	require.True(t, ctx.IsConstant(5))
	require.False(t, ctx.IsConstant(4))
	require.Equal(t, 6, ctx.Len())
	cell, _ := k.Cell()
	require.Equal(t, 5, cell.Offset)
}

func TestGetOutOfRange(t *testing.T) {
	b := New(8)
	ctx := b.Main(1)
	ctx.LoadWitness(fr.NewElement(1))
	_, err := ctx.Get(1)
	require.ErrorIs(t, err, ErrOutOfRange)
	_, err = ctx.Get(-1)
	require.ErrorIs(t, err, ErrOutOfRange)
	_, err = b.Resolve(Cell{Phase: NumPhases, Offset: 0})
	require.ErrorIs(t, err, ErrOutOfRange)
	v, err := b.Resolve(Cell{Phase: 1, Offset: 0})
	require.NoError(t, err)
	require.Equal(t, "1", v.String())
}

func TestMulAddAndCheck(t *testing.T) {
	b := New(8)
	ctx := b.Main(0)
	x := ctx.LoadWitness(fr.NewElement(3))
	y := ctx.LoadWitness(fr.NewElement(4))
	out := ctx.MulAdd(x, y, ConstantUint64(5))
	require.Equal(t, "17", out.String())
	ctx.ConstrainEqual(out, ConstantUint64(17))
	ctx.RangeLookup(out, 5)
	require.NoError(t, b.Check())

	s := b.Stats().Total()
	require.Equal(t, 1, s.Gates)
	require.Equal(t, 1, s.Copies)
	require.Equal(t, 1, s.Lookups)
	require.Equal(t, 1, s.Constants)
}

func TestCheckReportsViolations(t *testing.T) {
	b := New(8)
	ctx := b.Main(0)
	x := ctx.LoadWitness(fr.NewElement(300))
	ctx.RangeLookup(x, 8)
	require.ErrorIs(t, b.Check(), ErrUnsatisfied)

	b.Reset()
	ctx = b.Main(0)
	x = ctx.LoadWitness(fr.NewElement(2))
	ctx.ConstrainEqual(x, ConstantUint64(3))
	require.ErrorIs(t, b.Check(), ErrUnsatisfied)
}

func TestLookupWiderThanTablePanics(t *testing.T) {
	b := New(8)
	ctx := b.Main(0)
	x := ctx.LoadWitness(fr.NewElement(1))
	require.Panics(t, func() { ctx.RangeLookup(x, 9) })
	require.Panics(t, func() { ctx.MulAdd(AssignedValue{}, x, x) })
}

func TestLayoutFlattensPhases(t *testing.T) {
	b := New(8)
	b.Main(0).LoadWitness(fr.NewElement(1))
	b.Main(0).LoadConstant(fr.NewElement(2))
	y := b.Main(1).LoadWitness(fr.NewElement(3))
	l := b.Layout()
	cell, _ := y.Cell()
	require.Equal(t, 2, l.Index(cell))
	require.Equal(t, 2, l.NbAdvice())
	require.True(t, l.IsConstant(1))
	adv := l.Advice()
	require.Equal(t, "1", adv[0].String())
	require.Equal(t, "3", adv[1].String())
}

func TestHolds(t *testing.T) {
	a, b := New(8), New(8)
	x := a.Main(0).LoadWitness(fr.NewElement(9))
	b.Main(0).LoadWitness(fr.NewElement(1))
	require.True(t, a.Holds(x))
	require.False(t, b.Holds(x))
	require.False(t, a.Holds(AssignedValue{}))

	twin := New(8).Main(0).LoadWitness(fr.NewElement(9))
	require.Equal(t, x.Value(), twin.Value())
	require.False(t, a.Holds(twin))
}

func TestStringIsCanonical(t *testing.T) {
	ctx := New(8).Main(0)
	var e fr.Element
	e.SetBigInt(new(big.Int).Sub(fr.Modulus(), big.NewInt(5)))
	v := ctx.LoadWitness(e)
	require.Equal(t, "21888242871839275222246405745257275088548364400416034343698204186575808495612", v.String())
	back, err := ParseFieldElement(v.String())
	require.NoError(t, err)
	require.Equal(t, e, back)
}

func TestParse(t *testing.T) {
	v, err := ParseBigInt("340282366920938463463374607431768211455", 128)
	require.NoError(t, err)
	require.Equal(t, 128, v.BitLen())
	_, err = ParseBigInt("340282366920938463463374607431768211456", 128)
	require.ErrorIs(t, err, ErrMalformedBigInteger)
	v, err = ParseBigInt("0xff", 8)
	require.NoError(t, err)
	require.Equal(t, int64(255), v.Int64())
	for _, s := range []string{"", "-1", "12a", "1.5"} {
		_, err = ParseBigInt(s, 256)
		require.ErrorIs(t, err, ErrMalformedBigInteger, s)
	}
	_, err = ParseFieldElement(fr.Modulus().String())
	require.ErrorIs(t, err, ErrMalformedBigInteger)
	e, err := ParseFieldElement("42")
	require.NoError(t, err)
	require.Equal(t, "42", e.String())
	n, err := ParseBits("88", 253)
	require.NoError(t, err)
	require.Equal(t, 88, n)
	_, err = ParseBits("254", 253)
	require.ErrorIs(t, err, ErrMalformedBigInteger)
}

func TestFingerprintIgnoresWitnessValues(t *testing.T) {
	build := func(x, y uint64, c uint64) [32]byte {
		b := New(8)
		ctx := b.Main(0)
		a := ctx.LoadWitness(fr.NewElement(x))
		s := ctx.MulAdd(a, ctx.LoadWitness(fr.NewElement(y)), ConstantUint64(c))
		ctx.RangeLookup(s, 8)
		return b.Layout().Fingerprint()
	}
	require.Equal(t, build(1, 2, 3), build(4, 5, 3))
	require.NotEqual(t, build(1, 2, 3), build(1, 2, 4))
}
