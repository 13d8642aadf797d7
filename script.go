package eonlib

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var (
	ErrUnknownOp  = errors.New("unknown operation")
	ErrUnbound    = errors.New("name is not bound")
	ErrBadOperand = errors.New("bad operand")
)

// Script is a circuit written as a list of facade operations. Operands are
// strings: "$name" refers to the handles bound by an earlier op's "out",
// "$name[i]" to one of them, "@name" to a runtime input, anything else is a
// numeric literal. JSON numbers are kept as written, never rounded through
// float64. List operands are JSON arrays or a "$name" bound to a list.
type Script struct {
	Config *Config `json:"config,omitempty"`
	Ops    []Op    `json:"ops"`
}

type Op struct {
	Op   string `json:"op"`
	Args []any  `json:"args"`
	Out  string `json:"out,omitempty"`
}

func ReadScript(r io.Reader) (*Script, error) {
	var s Script
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	dec.UseNumber()
	if err := dec.Decode(&s); err != nil {
		return nil, err
	}
	if s.Config != nil {
		if err := s.Config.Validate(); err != nil {
			return nil, err
		}
	}
	return &s, nil
}

func LoadScript(file string) (*Script, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadScript(f)
}

type env struct {
	lib      *Lib
	inputs   map[string]string
	bindings map[string][]int
}

func (me *env) str(arg any) (string, error) {
	if n, ok := arg.(json.Number); ok {
		return n.String(), nil
	}
	s, ok := arg.(string)
	if !ok {
		return "", fmt.Errorf("%w: %v is not a literal", ErrBadOperand, arg)
	}
	if name, ok := strings.CutPrefix(s, "@"); ok {
		v, ok := me.inputs[name]
		if !ok {
			return "", fmt.Errorf("%w: input %q", ErrUnbound, name)
		}
		return v, nil
	}
	return s, nil
}

func (me *env) index(arg any) (int, error) {
	s, err := me.str(arg)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q is not an index", ErrBadOperand, s)
	}
	return n, nil
}

func (me *env) handle(arg any) (int, error) {
	s, ok := arg.(string)
	if !ok || !strings.HasPrefix(s, "$") {
		return 0, fmt.Errorf("%w: %v is not a handle reference", ErrBadOperand, arg)
	}
	name, idx := s[1:], -1
	if open := strings.IndexByte(name, '['); open >= 0 && strings.HasSuffix(name, "]") {
		n, err := strconv.Atoi(name[open+1 : len(name)-1])
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%w: %q", ErrBadOperand, s)
		}
		name, idx = name[:open], n
	}
	hs, ok := me.bindings[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnbound, name)
	}
	if idx < 0 {
		if len(hs) != 1 {
			return 0, fmt.Errorf("%w: %q holds %d handles", ErrBadOperand, name, len(hs))
		}
		return hs[0], nil
	}
	if idx >= len(hs) {
		return 0, fmt.Errorf("%w: %q holds %d handles", ErrBadOperand, s, len(hs))
	}
	return hs[idx], nil
}

func (me *env) handles(arg any) ([]int, error) {
	if list, ok := arg.([]any); ok {
		ret := make([]int, len(list))
		for i, a := range list {
			h, err := me.handle(a)
			if err != nil {
				return nil, err
			}
			ret[i] = h
		}
		return ret, nil
	}
	s, ok := arg.(string)
	if !ok || !strings.HasPrefix(s, "$") {
		return nil, fmt.Errorf("%w: %v is not a handle list", ErrBadOperand, arg)
	}
	hs, ok := me.bindings[s[1:]]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnbound, s[1:])
	}
	return hs, nil
}

// argument kinds of an operation
const (
	kH = iota // handle
	kL        // handle list
	kS        // literal
	kI        // index
)

type opSpec struct {
	kinds []int
	call  func(lib *Lib, a []any) ([]int, error)
}

func one(h int, err error) ([]int, error) {
	if err != nil {
		return nil, err
	}
	return []int{h}, nil
}

func none(err error) ([]int, error) {
	return nil, err
}

var OPS = map[string]opSpec{
	"witness":  {[]int{kS}, func(l *Lib, a []any) ([]int, error) { return one(l.Witness(a[0].(string))) }},
	"constant": {[]int{kS}, func(l *Lib, a []any) ([]int, error) { return one(l.Constant(a[0].(string))) }},
	"add":      {[]int{kH, kH}, func(l *Lib, a []any) ([]int, error) { return one(l.Add(a[0].(int), a[1].(int))) }},
	"sub":      {[]int{kH, kH}, func(l *Lib, a []any) ([]int, error) { return one(l.Sub(a[0].(int), a[1].(int))) }},
	"neg":      {[]int{kH}, func(l *Lib, a []any) ([]int, error) { return one(l.Neg(a[0].(int))) }},
	"mul":      {[]int{kH, kH}, func(l *Lib, a []any) ([]int, error) { return one(l.Mul(a[0].(int), a[1].(int))) }},
	"mul_add": {[]int{kH, kH, kH}, func(l *Lib, a []any) ([]int, error) {
		return one(l.MulAdd(a[0].(int), a[1].(int), a[2].(int)))
	}},
	"mul_not":    {[]int{kH, kH}, func(l *Lib, a []any) ([]int, error) { return one(l.MulNot(a[0].(int), a[1].(int))) }},
	"assert_bit": {[]int{kH}, func(l *Lib, a []any) ([]int, error) { return none(l.AssertBit(a[0].(int))) }},
	"div_unsafe": {[]int{kH, kH}, func(l *Lib, a []any) ([]int, error) { return one(l.DivUnsafe(a[0].(int), a[1].(int))) }},
	"assert_is_const": {[]int{kH, kS}, func(l *Lib, a []any) ([]int, error) {
		return none(l.AssertIsConst(a[0].(int), a[1].(string)))
	}},
	"inner_product": {[]int{kL, kL}, func(l *Lib, a []any) ([]int, error) {
		return one(l.InnerProduct(a[0].([]int), a[1].([]int)))
	}},
	"sum":    {[]int{kL}, func(l *Lib, a []any) ([]int, error) { return one(l.Sum(a[0].([]int))) }},
	"and":    {[]int{kH, kH}, func(l *Lib, a []any) ([]int, error) { return one(l.And(a[0].(int), a[1].(int))) }},
	"or":     {[]int{kH, kH}, func(l *Lib, a []any) ([]int, error) { return one(l.Or(a[0].(int), a[1].(int))) }},
	"not":    {[]int{kH}, func(l *Lib, a []any) ([]int, error) { return one(l.Not(a[0].(int))) }},
	"dec":    {[]int{kH}, func(l *Lib, a []any) ([]int, error) { return one(l.Dec(a[0].(int))) }},
	"select": {[]int{kH, kH, kH}, func(l *Lib, a []any) ([]int, error) { return one(l.Select(a[0].(int), a[1].(int), a[2].(int))) }},
	"or_and": {[]int{kH, kH, kH}, func(l *Lib, a []any) ([]int, error) { return one(l.OrAnd(a[0].(int), a[1].(int), a[2].(int))) }},
	"bits_to_indicator": {[]int{kL}, func(l *Lib, a []any) ([]int, error) {
		return l.BitsToIndicator(a[0].([]int))
	}},
	"idx_to_indicator": {[]int{kH, kS}, func(l *Lib, a []any) ([]int, error) {
		return l.IdxToIndicator(a[0].(int), a[1].(string))
	}},
	"select_by_indicator": {[]int{kL, kL}, func(l *Lib, a []any) ([]int, error) {
		return one(l.SelectByIndicator(a[0].([]int), a[1].([]int)))
	}},
	"select_from_idx": {[]int{kL, kH}, func(l *Lib, a []any) ([]int, error) {
		return one(l.SelectFromIdx(a[0].([]int), a[1].(int)))
	}},
	"is_zero":         {[]int{kH}, func(l *Lib, a []any) ([]int, error) { return one(l.IsZero(a[0].(int))) }},
	"is_equal":        {[]int{kH, kH}, func(l *Lib, a []any) ([]int, error) { return one(l.IsEqual(a[0].(int), a[1].(int))) }},
	"num_to_bits":     {[]int{kH, kS}, func(l *Lib, a []any) ([]int, error) { return l.NumToBits(a[0].(int), a[1].(string)) }},
	"constrain_equal": {[]int{kH, kH}, func(l *Lib, a []any) ([]int, error) { return none(l.ConstrainEqual(a[0].(int), a[1].(int))) }},
	"range_check":     {[]int{kH, kS}, func(l *Lib, a []any) ([]int, error) { return none(l.RangeCheck(a[0].(int), a[1].(string))) }},
	"check_less_than": {[]int{kH, kH, kS}, func(l *Lib, a []any) ([]int, error) {
		return none(l.CheckLessThan(a[0].(int), a[1].(int), a[2].(string)))
	}},
	"is_less_than": {[]int{kH, kH, kS}, func(l *Lib, a []any) ([]int, error) {
		return one(l.IsLessThan(a[0].(int), a[1].(int), a[2].(string)))
	}},
	"check_less_than_safe": {[]int{kH, kS}, func(l *Lib, a []any) ([]int, error) {
		return none(l.CheckLessThanSafe(a[0].(int), a[1].(string)))
	}},
	"is_less_than_safe": {[]int{kH, kS}, func(l *Lib, a []any) ([]int, error) {
		return one(l.IsLessThanSafe(a[0].(int), a[1].(string)))
	}},
	"div_mod": {[]int{kH, kS, kS}, func(l *Lib, a []any) ([]int, error) {
		return l.DivMod(a[0].(int), a[1].(string), a[2].(string))
	}},
	"div_mod_var": {[]int{kH, kH, kS, kS}, func(l *Lib, a []any) ([]int, error) {
		return l.DivModVar(a[0].(int), a[1].(int), a[2].(string), a[3].(string))
	}},
	"pow_var": {[]int{kH, kH, kS}, func(l *Lib, a []any) ([]int, error) {
		return one(l.PowVar(a[0].(int), a[1].(int), a[2].(string)))
	}},
	"poseidon":    {[]int{kL}, func(l *Lib, a []any) ([]int, error) { return one(l.Poseidon(a[0].([]int))) }},
	"to_hi_lo":    {[]int{kH}, func(l *Lib, a []any) ([]int, error) { return l.ToHiLo(a[0].(int)) }},
	"from_hi_lo":  {[]int{kH, kH}, func(l *Lib, a []any) ([]int, error) { return one(l.FromHiLo(a[0].(int), a[1].(int))) }},
	"make_public": {[]int{kH, kI}, func(l *Lib, a []any) ([]int, error) { return none(l.MakePublic(a[0].(int), a[1].(int))) }},
	"log":         {[]int{kH}, func(l *Lib, a []any) ([]int, error) { return none(l.Log(a[0].(int))) }},
	"load_fq": {[]int{kS, kH, kH}, func(l *Lib, a []any) ([]int, error) {
		return l.LoadFq(a[0].(string), a[1].(int), a[2].(int))
	}},
	"unsafe_load_fq": {[]int{kS, kH, kH}, func(l *Lib, a []any) ([]int, error) {
		return l.UnsafeLoadFq(a[0].(string), a[1].(int), a[2].(int))
	}},
	"fq_to_hi_lo": {[]int{kS, kL}, func(l *Lib, a []any) ([]int, error) {
		return l.FqToHiLo(a[0].(string), a[1].([]int))
	}},
	"assert_below_modulus": {[]int{kS, kH, kH}, func(l *Lib, a []any) ([]int, error) {
		return none(l.AssertBelowModulus(a[0].(string), a[1].(int), a[2].(int)))
	}},
}

// Run executes the script against lib and returns the handles bound by name.
func (me *Script) Run(lib *Lib, inputs map[string]string) (map[string][]int, error) {
	e := &env{lib: lib, inputs: inputs, bindings: map[string][]int{}}
	for i, op := range me.Ops {
		spec, ok := OPS[op.Op]
		if !ok {
			return nil, fmt.Errorf("op %d: %w: %q", i, ErrUnknownOp, op.Op)
		}
		if len(op.Args) != len(spec.kinds) {
			return nil, fmt.Errorf("op %d (%s): %w: %d operands, want %d", i, op.Op, ErrBadOperand, len(op.Args), len(spec.kinds))
		}
		args := make([]any, len(op.Args))
		for j, kind := range spec.kinds {
			var err error
			switch kind {
			case kH:
				args[j], err = e.handle(op.Args[j])
			case kL:
				args[j], err = e.handles(op.Args[j])
			case kS:
				args[j], err = e.str(op.Args[j])
			case kI:
				args[j], err = e.index(op.Args[j])
			}
			if err != nil {
				return nil, fmt.Errorf("op %d (%s) operand %d: %w", i, op.Op, j, err)
			}
		}
		out, err := spec.call(lib, args)
		if err != nil {
			return nil, fmt.Errorf("op %d (%s): %w", i, op.Op, err)
		}
		if op.Out != "" {
			e.bindings[op.Out] = out
		}
	}
	return e.bindings, nil
}
