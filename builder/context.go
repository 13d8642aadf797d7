package builder

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// Gate asserts Out = A*B + C.
type Gate struct {
	A, B, C Term
	Out     Cell
}

// Copy asserts A = B.
type Copy struct {
	A, B Cell
}

// Lookup asserts 0 <= Cell < 2^Bits.
type Lookup struct {
	Cell Cell
	Bits int
}

// Context is the append-only sequence of cells of one phase, together with
// the constraints emitted while it was being filled.
type Context struct {
	phase      Phase
	lookupBits int
	values     []fr.Element
	constant   *bitset.BitSet
	gates      []Gate
	copies     []Copy
	lookups    []Lookup
}

func newContext(phase Phase, lookupBits int) *Context {
	return &Context{
		phase:      phase,
		lookupBits: lookupBits,
		constant:   bitset.New(0),
	}
}

func (me *Context) Phase() Phase {
	return me.phase
}

func (me *Context) LookupBits() int {
	return me.lookupBits
}

// Len is the number of committed cells.
func (me *Context) Len() int {
	return len(me.values)
}

func (me *Context) assign(v fr.Element) AssignedValue {
	offset := len(me.values)
	me.values = append(me.values, v)
	return AssignedValue{value: v, cell: Cell{Phase: me.phase, Offset: offset}, owner: me}
}

func (me *Context) LoadWitness(v fr.Element) AssignedValue {
	return me.assign(v)
}

func (me *Context) LoadConstant(v fr.Element) AssignedValue {
	a := me.assign(v)
	me.constant.Set(uint(a.cell.Offset))
	return a
}

func (me *Context) LoadZero() AssignedValue {
	return me.LoadConstant(fr.Element{})
}

// Get returns the committed value at offset.
func (me *Context) Get(offset int) (AssignedValue, error) {
	if offset < 0 || offset >= len(me.values) {
		return AssignedValue{}, fmt.Errorf("%w: offset %d in phase %d holding %d cells", ErrOutOfRange, offset, me.phase, len(me.values))
	}
	return AssignedValue{value: me.values[offset], cell: Cell{Phase: me.phase, Offset: offset}, owner: me}, nil
}

func (me *Context) IsConstant(offset int) bool {
	return me.constant.Test(uint(offset))
}

// MulAdd commits a*b+c as a new witness and records the gate binding it.
func (me *Context) MulAdd(a, b, c Operand) AssignedValue {
	ta, tb, tc := a.Term(), b.Term(), c.Term()
	var v fr.Element
	v.Mul(&ta.Value, &tb.Value).Add(&v, &tc.Value)
	out := me.assign(v)
	me.gates = append(me.gates, Gate{A: ta, B: tb, C: tc, Out: out.cell})
	return out
}

// ConstrainEqual records a copy constraint. Constant operands are materialized
// as constant cells first.
func (me *Context) ConstrainEqual(a, b Operand) {
	ca := me.cellOf(a)
	cb := me.cellOf(b)
	if ca == cb {
		return
	}
	me.copies = append(me.copies, Copy{A: ca, B: cb})
}

func (me *Context) cellOf(o Operand) Cell {
	t := o.Term()
	if t.Constant {
		return me.LoadConstant(t.Value).cell
	}
	return t.Cell
}

// RangeLookup records that a fits in bits bits. bits may not exceed the
// lookup bits of the builder.
func (me *Context) RangeLookup(a AssignedValue, bits int) {
	if bits < 0 || bits > me.lookupBits {
		panic(fmt.Sprintf("builder: lookup of %d bits exceeds the %d lookup bits", bits, me.lookupBits))
	}
	me.lookups = append(me.lookups, Lookup{Cell: a.Term().Cell, Bits: bits})
}

func (me *Context) stats() PhaseStats {
	return PhaseStats{
		Cells:     len(me.values),
		Constants: int(me.constant.Count()),
		Gates:     len(me.gates),
		Copies:    len(me.copies),
		Lookups:   len(me.lookups),
	}
}
