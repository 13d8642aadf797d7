// Package replay re-emits a builder layout as a gnark circuit so that it can
// be compiled and proven by a gnark backend.
package replay

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/rangecheck"

	"github.com/eon-protocol/eonlib/builder"
)

var ErrShapeMismatch = errors.New("assignment does not match the circuit layout")

// Circuit holds one variable per free witness cell of the layout. Constant
// cells are baked in. Instances are the public inputs, each bound to a cell.
type Circuit struct {
	Advice    []frontend.Variable
	Instances []frontend.Variable `gnark:",public"`

	Layout  *builder.Layout `gnark:"-"`
	Publics []int           `gnark:"-"`
}

// New returns the placeholder circuit used for compilation.
func New(layout *builder.Layout, publics []builder.Cell) *Circuit {
	me := &Circuit{
		Advice:    make([]frontend.Variable, layout.NbAdvice()),
		Instances: make([]frontend.Variable, len(publics)),
		Layout:    layout,
		Publics:   make([]int, len(publics)),
	}
	for i, c := range publics {
		me.Publics[i] = layout.Index(c)
	}
	return me
}

// Assign returns the full assignment of a layout with the given public cells.
func Assign(layout *builder.Layout, publics []builder.Cell) *Circuit {
	me := New(layout, publics)
	for i, v := range layout.Advice() {
		me.Advice[i] = bigOf(v)
	}
	for i, idx := range me.Publics {
		me.Instances[i] = bigOf(layout.Values[idx])
	}
	return me
}

// PublicValues returns the values bound to the instances, in order.
func (me *Circuit) PublicValues() []fr.Element {
	ret := make([]fr.Element, len(me.Publics))
	for i, idx := range me.Publics {
		ret[i] = me.Layout.Values[idx]
	}
	return ret
}

func bigOf(v fr.Element) *big.Int {
	var b big.Int
	v.BigInt(&b)
	return &b
}

func (me *Circuit) Define(api frontend.API) error {
	if me.Layout == nil {
		return errors.New("replay circuit without layout")
	}
	if len(me.Advice) != me.Layout.NbAdvice() || len(me.Instances) != len(me.Publics) {
		return ErrShapeMismatch
	}
	vals := make([]frontend.Variable, len(me.Layout.Values))
	next := 0
	for i := range vals {
		if me.Layout.IsConstant(i) {
			vals[i] = bigOf(me.Layout.Values[i])
			continue
		}
		vals[i] = me.Advice[next]
		next++
	}
	term := func(t builder.Term) frontend.Variable {
		if t.Constant {
			return bigOf(t.Value)
		}
		return vals[me.Layout.Index(t.Cell)]
	}
	for _, g := range me.Layout.Gates {
		api.AssertIsEqual(api.Add(api.Mul(term(g.A), term(g.B)), term(g.C)), vals[me.Layout.Index(g.Out)])
	}
	for _, c := range me.Layout.Copies {
		api.AssertIsEqual(vals[me.Layout.Index(c.A)], vals[me.Layout.Index(c.B)])
	}
	rc := rangecheck.New(api)
	for i, lk := range me.Layout.Lookups {
		idx := me.Layout.Index(lk.Cell)
		if me.Layout.IsConstant(idx) {
			if bigOf(me.Layout.Values[idx]).BitLen() > lk.Bits {
				return fmt.Errorf("lookup %d: constant %s does not fit %d bits", i, me.Layout.Values[idx].String(), lk.Bits)
			}
			continue
		}
		if lk.Bits == 0 {
			api.AssertIsEqual(vals[idx], 0)
			continue
		}
		rc.Check(vals[idx], lk.Bits)
	}
	for i, idx := range me.Publics {
		api.AssertIsEqual(me.Instances[i], vals[idx])
	}
	return nil
}

// Fingerprint identifies the constraint system: the layout shape and the
// cells bound to the instances.
func (me *Circuit) Fingerprint() [32]byte {
	h := sha256.New()
	shape := me.Layout.Fingerprint()
	h.Write(shape[:])
	var buf [8]byte
	for _, idx := range me.Publics {
		binary.BigEndian.PutUint64(buf[:], uint64(idx))
		h.Write(buf[:])
	}
	var ret [32]byte
	copy(ret[:], h.Sum(nil))
	return ret
}
