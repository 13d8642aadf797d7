package builder

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// Phase selects one of the independent witness sequences of a Builder.
type Phase uint8

const NumPhases = 3

// Cell is the immutable position of a committed value.
type Cell struct {
	Phase  Phase
	Offset int
}

// AssignedValue is a committed witness or constant together with its position
// and the context holding it. The zero value is uncommitted.
type AssignedValue struct {
	value fr.Element
	cell  Cell
	owner *Context
}

func (me AssignedValue) Value() fr.Element {
	return me.value
}

func (me AssignedValue) BigInt() *big.Int {
	var b big.Int
	me.value.BigInt(&b)
	return &b
}

func (me AssignedValue) Cell() (Cell, bool) {
	return me.cell, me.owner != nil
}

// String renders the canonical decimal value in [0, r).
func (me AssignedValue) String() string {
	return me.BigInt().String()
}

func (me AssignedValue) Term() Term {
	if me.owner == nil {
		panic("builder: operand was never committed")
	}
	return Term{Cell: me.cell, Value: me.value}
}

// Operand is a gate input: either a committed value or an inline constant.
type Operand interface {
	Term() Term
}

// Term is the resolved form of an Operand as recorded in gates.
type Term struct {
	Cell     Cell
	Constant bool
	Value    fr.Element
}

// Constant is baked into the constraint system instead of occupying a witness cell.
type Constant fr.Element

func (me Constant) Term() Term {
	return Term{Constant: true, Value: fr.Element(me)}
}

func ConstantUint64(v uint64) Constant {
	var e fr.Element
	e.SetUint64(v)
	return Constant(e)
}

func ConstantInt64(v int64) Constant {
	var e fr.Element
	e.SetInt64(v)
	return Constant(e)
}

func ConstantBig(v *big.Int) Constant {
	var e fr.Element
	e.SetBigInt(v)
	return Constant(e)
}

// PowerOfTwo returns 2^n reduced into the native field.
func PowerOfTwo(n int) Constant {
	return ConstantBig(new(big.Int).Lsh(big.NewInt(1), uint(n)))
}

// ValueOf returns the host value carried by an operand.
func ValueOf(o Operand) fr.Element {
	return o.Term().Value
}

// BigOf returns the host value carried by an operand as a big.Int.
func BigOf(o Operand) *big.Int {
	v := ValueOf(o)
	var b big.Int
	v.BigInt(&b)
	return &b
}

// Values copies any slice of operands into a slice of the interface type.
func Values[T Operand](vs []T) []Operand {
	ret := make([]Operand, len(vs))
	for i, v := range vs {
		ret[i] = v
	}
	return ret
}
