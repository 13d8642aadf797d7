package eonlib

import (
	"errors"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/rs/zerolog"

	"github.com/eon-protocol/eonlib/arena"
	"github.com/eon-protocol/eonlib/builder"
	"github.com/eon-protocol/eonlib/circuits/foreign"
	"github.com/eon-protocol/eonlib/circuits/gate"
	"github.com/eon-protocol/eonlib/circuits/hasher"
	"github.com/eon-protocol/eonlib/circuits/hilo"
	"github.com/eon-protocol/eonlib/circuits/rangechip"
)

var (
	ErrLengthMismatch  = errors.New("argument lengths differ")
	ErrInvalidArgument = errors.New("invalid argument")
)

// MAX_INDICATOR bounds the length of indicator vectors built from an index.
const MAX_INDICATOR = 1 << 12

// Lib is the operation facade of a circuit session. Values are addressed by
// integer handles, the offsets of committed cells in the session's phase.
// Numeric parameters are decimal or 0x-prefixed hex strings.
type Lib struct {
	circuit *Circuit
	phase   builder.Phase
	rng     *rangechip.Chip
	codec   *hilo.Codec
	hasher  *hasher.Chip
	fields  map[string]*foreign.Chip
	log     zerolog.Logger
}

func NewLib(circuit *Circuit) *Lib {
	rng := rangechip.New(circuit.config.NumLookupBits)
	return &Lib{
		circuit: circuit,
		rng:     rng,
		codec:   hilo.NewDefault(rng),
		hasher:  hasher.New(),
		fields:  map[string]*foreign.Chip{},
		log:     circuit.log.With().Str("component", "lib").Logger(),
	}
}

func (me *Lib) Circuit() *Circuit {
	return me.circuit
}

func (me *Lib) ctx() *builder.Context {
	return me.circuit.builder.Main(me.phase)
}

func (me *Lib) handle(a int) arena.Handle {
	return arena.Handle{Phase: me.phase, Offset: a}
}

func (me *Lib) get(a int) (builder.AssignedValue, error) {
	return me.circuit.arena.Resolve(me.handle(a))
}

func (me *Lib) get2(a, b int) (builder.AssignedValue, builder.AssignedValue, error) {
	av, err := me.get(a)
	if err != nil {
		return av, av, err
	}
	bv, err := me.get(b)
	return av, bv, err
}

func (me *Lib) getMany(as []int) ([]builder.AssignedValue, error) {
	hs := make([]arena.Handle, len(as))
	for i, a := range as {
		hs[i] = me.handle(a)
	}
	return me.circuit.arena.ResolveMany(hs)
}

func (me *Lib) put(v builder.AssignedValue) (int, error) {
	h, err := me.circuit.arena.Externalize(v)
	if err != nil {
		return 0, err
	}
	return h.Offset, nil
}

func (me *Lib) putMany(vs []builder.AssignedValue) ([]int, error) {
	hs, err := me.circuit.arena.ExternalizeMany(vs)
	if err != nil {
		return nil, err
	}
	ret := make([]int, len(hs))
	for i, h := range hs {
		ret[i] = h.Offset
	}
	return ret, nil
}

func (me *Lib) unary(a int, f func(*builder.Context, builder.Operand) builder.AssignedValue) (int, error) {
	av, err := me.get(a)
	if err != nil {
		return 0, err
	}
	return me.put(f(me.ctx(), av))
}

func (me *Lib) binary(a, b int, f func(*builder.Context, builder.Operand, builder.Operand) builder.AssignedValue) (int, error) {
	av, bv, err := me.get2(a, b)
	if err != nil {
		return 0, err
	}
	return me.put(f(me.ctx(), av, bv))
}

func (me *Lib) ternary(a, b, c int, f func(*builder.Context, builder.Operand, builder.Operand, builder.Operand) builder.AssignedValue) (int, error) {
	vs, err := me.getMany([]int{a, b, c})
	if err != nil {
		return 0, err
	}
	return me.put(f(me.ctx(), vs[0], vs[1], vs[2]))
}

func (me *Lib) Witness(val string) (int, error) {
	v, err := builder.ParseFieldElement(val)
	if err != nil {
		return 0, err
	}
	return me.put(me.ctx().LoadWitness(v))
}

func (me *Lib) Constant(val string) (int, error) {
	v, err := builder.ParseFieldElement(val)
	if err != nil {
		return 0, err
	}
	return me.put(me.ctx().LoadConstant(v))
}

func (me *Lib) Add(a, b int) (int, error) { return me.binary(a, b, gate.Add) }
func (me *Lib) Sub(a, b int) (int, error) { return me.binary(a, b, gate.Sub) }
func (me *Lib) Mul(a, b int) (int, error) { return me.binary(a, b, gate.Mul) }
func (me *Lib) Neg(a int) (int, error)    { return me.unary(a, gate.Neg) }

// MulAdd returns a*b + c.
func (me *Lib) MulAdd(a, b, c int) (int, error) { return me.ternary(a, b, c, gate.MulAdd) }

// MulNot returns (1 - a) * b.
func (me *Lib) MulNot(a, b int) (int, error) { return me.binary(a, b, gate.MulNot) }

func (me *Lib) AssertBit(a int) error {
	av, err := me.get(a)
	if err != nil {
		return err
	}
	gate.AssertBit(me.ctx(), av)
	return nil
}

func (me *Lib) DivUnsafe(a, b int) (int, error) { return me.binary(a, b, gate.DivUnsafe) }

func (me *Lib) AssertIsConst(a int, c string) error {
	av, err := me.get(a)
	if err != nil {
		return err
	}
	cv, err := builder.ParseFieldElement(c)
	if err != nil {
		return err
	}
	gate.AssertIsConst(me.ctx(), av, cv)
	return nil
}

func (me *Lib) InnerProduct(a, b []int) (int, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d and %d", ErrLengthMismatch, len(a), len(b))
	}
	av, err := me.getMany(a)
	if err != nil {
		return 0, err
	}
	bv, err := me.getMany(b)
	if err != nil {
		return 0, err
	}
	return me.put(gate.InnerProduct(me.ctx(), av, bv))
}

func (me *Lib) Sum(a []int) (int, error) {
	av, err := me.getMany(a)
	if err != nil {
		return 0, err
	}
	return me.put(gate.Sum(me.ctx(), av))
}

func (me *Lib) And(a, b int) (int, error)      { return me.binary(a, b, gate.And) }
func (me *Lib) Or(a, b int) (int, error)       { return me.binary(a, b, gate.Or) }
func (me *Lib) Not(a int) (int, error)         { return me.unary(a, gate.Not) }
func (me *Lib) Dec(a int) (int, error)         { return me.unary(a, gate.Dec) }
func (me *Lib) OrAnd(a, b, c int) (int, error) { return me.ternary(a, b, c, gate.OrAnd) }

// Select returns a when sel is 1 and b when sel is 0.
func (me *Lib) Select(a, b, sel int) (int, error) { return me.ternary(a, b, sel, gate.Select) }

func (me *Lib) IsZero(a int) (int, error)     { return me.unary(a, gate.IsZero) }
func (me *Lib) IsEqual(a, b int) (int, error) { return me.binary(a, b, gate.IsEqual) }

func (me *Lib) BitsToIndicator(bits []int) ([]int, error) {
	if len(bits) == 0 || len(bits) > 16 {
		return nil, fmt.Errorf("%w: indicator of %d bits", ErrInvalidArgument, len(bits))
	}
	bv, err := me.getMany(bits)
	if err != nil {
		return nil, err
	}
	return me.putMany(gate.BitsToIndicator(me.ctx(), bv))
}

func (me *Lib) IdxToIndicator(idx int, n string) ([]int, error) {
	iv, err := me.get(idx)
	if err != nil {
		return nil, err
	}
	size, err := builder.ParseBits(n, MAX_INDICATOR)
	if err != nil {
		return nil, err
	}
	return me.putMany(gate.IdxToIndicator(me.ctx(), iv, size))
}

func (me *Lib) SelectByIndicator(a, indicator []int) (int, error) {
	if len(a) != len(indicator) {
		return 0, fmt.Errorf("%w: %d values and %d indicators", ErrLengthMismatch, len(a), len(indicator))
	}
	av, err := me.getMany(a)
	if err != nil {
		return 0, err
	}
	iv, err := me.getMany(indicator)
	if err != nil {
		return 0, err
	}
	return me.put(gate.SelectByIndicator(me.ctx(), av, iv))
}

func (me *Lib) SelectFromIdx(a []int, idx int) (int, error) {
	av, err := me.getMany(a)
	if err != nil {
		return 0, err
	}
	iv, err := me.get(idx)
	if err != nil {
		return 0, err
	}
	return me.put(gate.SelectFromIdx(me.ctx(), av, iv))
}

// NumToBits returns the little-endian bits of a.
func (me *Lib) NumToBits(a int, n string) ([]int, error) {
	av, err := me.get(a)
	if err != nil {
		return nil, err
	}
	bits, err := builder.ParseBits(n, fr.Bits)
	if err != nil {
		return nil, err
	}
	if bits == 0 {
		return nil, fmt.Errorf("%w: zero bits", ErrInvalidArgument)
	}
	return me.putMany(gate.NumToBits(me.ctx(), av, bits))
}

func (me *Lib) ConstrainEqual(a, b int) error {
	av, bv, err := me.get2(a, b)
	if err != nil {
		return err
	}
	me.ctx().ConstrainEqual(av, bv)
	return nil
}

// PowVar returns a^e for an exponent of at most maxBits bits.
func (me *Lib) PowVar(a, e int, maxBits string) (int, error) {
	av, ev, err := me.get2(a, e)
	if err != nil {
		return 0, err
	}
	bits, err := builder.ParseBits(maxBits, fr.Bits)
	if err != nil {
		return 0, err
	}
	if bits == 0 {
		return 0, fmt.Errorf("%w: zero bits", ErrInvalidArgument)
	}
	return me.put(gate.PowVar(me.ctx(), av, ev, bits))
}

// Poseidon hashes the values in order with the Poseidon2 sponge.
func (me *Lib) Poseidon(a []int) (int, error) {
	av, err := me.getMany(a)
	if err != nil {
		return 0, err
	}
	return me.put(me.hasher.HashSum(me.ctx(), builder.Values(av)...))
}

func (me *Lib) MakePublic(a, col int) error {
	return me.circuit.MakePublic(me.handle(a), col)
}

// Value returns the decimal value at a.
func (me *Lib) Value(a int) (string, error) {
	av, err := me.get(a)
	if err != nil {
		return "", err
	}
	return av.String(), nil
}

func (me *Lib) Log(a int) error {
	v, err := me.Value(a)
	if err != nil {
		return err
	}
	me.log.Info().Int("handle", a).Str("value", v).Msg("log")
	return nil
}

func (me *Lib) LookupBits() int {
	return me.rng.LookupBits()
}
