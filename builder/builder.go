// Package builder holds the witness store that circuits are built into: per-phase
// append-only cells, the gates, copy constraints and lookups relating them, and a
// satisfiability check over the committed values.
package builder

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"

	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

var (
	ErrOutOfRange  = errors.New("no committed value at this position")
	ErrUnsatisfied = errors.New("constraint is not satisfied")
)

type Builder struct {
	lookupBits int
	contexts   [NumPhases]*Context
}

func New(lookupBits int) *Builder {
	me := &Builder{lookupBits: lookupBits}
	me.Reset()
	return me
}

func (me *Builder) LookupBits() int {
	return me.lookupBits
}

// Main returns the context of a phase. It panics on an unknown phase.
func (me *Builder) Main(phase Phase) *Context {
	if int(phase) >= NumPhases {
		panic(fmt.Sprintf("builder: phase %d does not exist", phase))
	}
	return me.contexts[phase]
}

// Resolve returns the committed value at c.
func (me *Builder) Resolve(c Cell) (AssignedValue, error) {
	if int(c.Phase) >= NumPhases {
		return AssignedValue{}, fmt.Errorf("%w: phase %d does not exist", ErrOutOfRange, c.Phase)
	}
	return me.contexts[c.Phase].Get(c.Offset)
}

// Holds reports whether v was committed to this builder since its last reset.
// Values of another builder never qualify, whatever their position and value.
func (me *Builder) Holds(v AssignedValue) bool {
	cell, ok := v.Cell()
	if !ok || int(cell.Phase) >= NumPhases {
		return false
	}
	ctx := me.contexts[cell.Phase]
	return v.owner == ctx && cell.Offset < ctx.Len()
}

// Reset drops every cell and constraint. Handles issued before are invalid afterwards.
func (me *Builder) Reset() {
	for i := range me.contexts {
		me.contexts[i] = newContext(Phase(i), me.lookupBits)
	}
}

func (me *Builder) value(c Cell) fr.Element {
	return me.contexts[c.Phase].values[c.Offset]
}

func (me *Builder) term(t Term) fr.Element {
	if t.Constant {
		return t.Value
	}
	return me.value(t.Cell)
}

// Check evaluates every constraint on the committed values and returns the
// first violation wrapped in ErrUnsatisfied.
func (me *Builder) Check() error {
	for _, ctx := range me.contexts {
		for i, g := range ctx.gates {
			a, b, c := me.term(g.A), me.term(g.B), me.term(g.C)
			var want fr.Element
			want.Mul(&a, &b).Add(&want, &c)
			got := me.value(g.Out)
			if !want.Equal(&got) {
				return fmt.Errorf("%w: gate %d of phase %d: %s*%s+%s != %s", ErrUnsatisfied, i, ctx.phase, a.String(), b.String(), c.String(), got.String())
			}
		}
		for i, cp := range ctx.copies {
			a, b := me.value(cp.A), me.value(cp.B)
			if !a.Equal(&b) {
				return fmt.Errorf("%w: copy %d of phase %d: %v=%s != %v=%s", ErrUnsatisfied, i, ctx.phase, cp.A, a.String(), cp.B, b.String())
			}
		}
		var bi big.Int
		for i, lk := range ctx.lookups {
			v := me.value(lk.Cell)
			if v.BigInt(&bi).BitLen() > lk.Bits {
				return fmt.Errorf("%w: lookup %d of phase %d: %s does not fit %d bits", ErrUnsatisfied, i, ctx.phase, v.String(), lk.Bits)
			}
		}
	}
	return nil
}

type PhaseStats struct {
	Cells     int `json:"cells"`
	Constants int `json:"constants"`
	Gates     int `json:"gates"`
	Copies    int `json:"copies"`
	Lookups   int `json:"lookups"`
}

type Stats struct {
	Phases [NumPhases]PhaseStats `json:"phases"`
}

func (me Stats) Total() PhaseStats {
	var t PhaseStats
	for _, p := range me.Phases {
		t.Cells += p.Cells
		t.Constants += p.Constants
		t.Gates += p.Gates
		t.Copies += p.Copies
		t.Lookups += p.Lookups
	}
	return t
}

func (me *Builder) Stats() Stats {
	var s Stats
	for i, ctx := range me.contexts {
		s.Phases[i] = ctx.stats()
	}
	return s
}

// Layout is a flattened snapshot of all phases. Cells are addressed by a global
// index: phase bases are laid out one after the other.
type Layout struct {
	bases    [NumPhases]int
	Values   []fr.Element
	Constant *bitset.BitSet
	Gates    []Gate
	Copies   []Copy
	Lookups  []Lookup
}

func (me *Builder) Layout() *Layout {
	l := &Layout{Constant: bitset.New(0)}
	for i, ctx := range me.contexts {
		base := len(l.Values)
		l.bases[i] = base
		l.Values = append(l.Values, ctx.values...)
		for j := range ctx.values {
			if ctx.constant.Test(uint(j)) {
				l.Constant.Set(uint(base + j))
			}
		}
		l.Gates = append(l.Gates, ctx.gates...)
		l.Copies = append(l.Copies, ctx.copies...)
		l.Lookups = append(l.Lookups, ctx.lookups...)
	}
	return l
}

func (me *Layout) Index(c Cell) int {
	return me.bases[c.Phase] + c.Offset
}

func (me *Layout) IsConstant(index int) bool {
	return me.Constant.Test(uint(index))
}

// NbAdvice is the number of cells that are free witnesses.
func (me *Layout) NbAdvice() int {
	return len(me.Values) - int(me.Constant.Count())
}

// Advice returns the values of the free witness cells in index order.
func (me *Layout) Advice() []fr.Element {
	ret := make([]fr.Element, 0, me.NbAdvice())
	for i, v := range me.Values {
		if !me.IsConstant(i) {
			ret = append(ret, v)
		}
	}
	return ret
}

// Fingerprint hashes the shape of the layout: cell counts, constant values and
// every constraint, but not the free witness values. Two builds of the same
// program with different inputs share a fingerprint.
func (me *Layout) Fingerprint() [32]byte {
	h := sha256.New()
	put := func(vs ...uint64) {
		var buf [8]byte
		for _, v := range vs {
			binary.BigEndian.PutUint64(buf[:], v)
			h.Write(buf[:])
		}
	}
	term := func(t Term) {
		if t.Constant {
			b := t.Value.Bytes()
			put(1)
			h.Write(b[:])
			return
		}
		put(0, uint64(me.Index(t.Cell)))
	}
	put(uint64(len(me.Values)), uint64(me.NbAdvice()))
	for i, ok := me.Constant.NextSet(0); ok; i, ok = me.Constant.NextSet(i + 1) {
		b := me.Values[i].Bytes()
		put(uint64(i))
		h.Write(b[:])
	}
	put(uint64(len(me.Gates)))
	for _, g := range me.Gates {
		term(g.A)
		term(g.B)
		term(g.C)
		put(uint64(me.Index(g.Out)))
	}
	put(uint64(len(me.Copies)))
	for _, c := range me.Copies {
		put(uint64(me.Index(c.A)), uint64(me.Index(c.B)))
	}
	put(uint64(len(me.Lookups)))
	for _, lk := range me.Lookups {
		put(uint64(me.Index(lk.Cell)), uint64(lk.Bits))
	}
	var ret [32]byte
	copy(ret[:], h.Sum(nil))
	return ret
}
