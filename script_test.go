package eonlib

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eon-protocol/eonlib/builder"
)

const testScript = `{
  "config": {"k": 12, "numAdvice": 8, "numLookupAdvice": 2, "numInstance": 1, "numLookupBits": 8, "numVirtualInstance": 1},
  "ops": [
    {"op": "witness", "args": ["@x"], "out": "x"},
    {"op": "witness", "args": ["0x10"], "out": "y"},
    {"op": "mul_add", "args": ["$x", "$x", "$y"], "out": "z"},
    {"op": "div_mod", "args": ["$z", "7", 16], "out": "qr"},
    {"op": "sum", "args": [["$qr[0]", "$qr[1]"]], "out": "s"},
    {"op": "range_check", "args": ["$s", "8"]},
    {"op": "to_hi_lo", "args": ["$z"], "out": "hl"},
    {"op": "load_fq", "args": ["bn254.fq", "$hl[0]", "$hl[1]"], "out": "fq"},
    {"op": "poseidon", "args": ["$fq"], "out": "h"},
    {"op": "make_public", "args": ["$z", 0]},
    {"op": "make_public", "args": ["$h", 0]}
  ]
}`

func TestScriptRun(t *testing.T) {
	s, err := ReadScript(strings.NewReader(testScript))
	require.NoError(t, err)
	require.NotNil(t, s.Config)
	c, err := NewCircuit(*s.Config)
	require.NoError(t, err)
	l := NewLib(c)

	b, err := s.Run(l, map[string]string{"x": "9"})
	require.NoError(t, err)
	require.Equal(t, "97", value(t, l, b["z"][0]))
	require.Equal(t, "13", value(t, l, b["qr"][0]))
	require.Equal(t, "6", value(t, l, b["qr"][1]))
	require.Equal(t, "19", value(t, l, b["s"][0]))
	require.Len(t, b["fq"], 3)
	require.Equal(t, 2, c.Stats().Instance)
	require.NoError(t, c.Mock())
}

func TestScriptErrors(t *testing.T) {
	for _, tc := range []struct {
		ops  string
		want error
	}{
		{`[{"op": "frobnicate", "args": []}]`, ErrUnknownOp},
		{`[{"op": "add", "args": ["$a"]}]`, ErrBadOperand},
		{`[{"op": "neg", "args": ["$a"]}]`, ErrUnbound},
		{`[{"op": "witness", "args": ["@missing"]}]`, ErrUnbound},
		{`[{"op": "witness", "args": [true]}]`, ErrBadOperand},
		{`[{"op": "witness", "args": ["1"], "out": "a"}, {"op": "neg", "args": ["$a[3]"]}]`, ErrBadOperand},
		{`[{"op": "witness", "args": ["1"], "out": "a"}, {"op": "make_public", "args": ["$a", "-1"]}]`, ErrBadOperand},
		{`[{"op": "witness", "args": ["1"], "out": "a"}, {"op": "make_public", "args": ["$a", 4]}]`, ErrNoSuchColumn},
	} {
		s, err := ReadScript(strings.NewReader(`{"ops": ` + tc.ops + `}`))
		require.NoError(t, err)
		_, err = s.Run(newLib(t), nil)
		require.ErrorIs(t, err, tc.want, tc.ops)
	}

	_, err := ReadScript(strings.NewReader(`{"ops": [], "extra": 1}`))
	require.Error(t, err)
	_, err = ReadScript(strings.NewReader(`{"config": {"k": 2, "numLookupBits": 8}, "ops": []}`))
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestScriptNumericLiterals(t *testing.T) {
	s, err := ReadScript(strings.NewReader(`{"ops": [
		{"op": "witness", "args": [9007199254740993], "out": "a"},
		{"op": "witness", "args": [340282366920938463463374607431768211457], "out": "b"},
		{"op": "range_check", "args": ["$a", 54]}
	]}`))
	require.NoError(t, err)
	l := newLib(t)
	b, err := s.Run(l, nil)
	require.NoError(t, err)
	require.Equal(t, "9007199254740993", value(t, l, b["a"][0]))
	require.Equal(t, "340282366920938463463374607431768211457", value(t, l, b["b"][0]))

	for _, lit := range []string{"1.5", "1e3", "-7", "115792089237316195423570985008687907853269984665640564039457584007913129639936"} {
		s, err := ReadScript(strings.NewReader(`{"ops": [{"op": "witness", "args": [` + lit + `]}]}`))
		require.NoError(t, err)
		_, err = s.Run(newLib(t), nil)
		require.ErrorIs(t, err, builder.ErrMalformedBigInteger, lit)
	}
}
