package eonlib

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "eonlib-srs")
	if err != nil {
		panic(err)
	}
	DATA_CACHE_DIR = dir
	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

// session proves knowledge of x < 2^8 with x*x + 5 = y for a public y.
func session(t *testing.T, x string) *Circuit {
	l := newLib(t)
	xh := witness(t, l, x)
	require.NoError(t, l.RangeCheck(xh, "8"))
	five, err := l.Constant("5")
	require.NoError(t, err)
	y, err := l.MulAdd(xh, xh, five)
	require.NoError(t, err)
	require.NoError(t, l.MakePublic(y, 0))
	return l.Circuit()
}

func compile(t *testing.T) *Pk {
	var pk Pk
	require.NoError(t, pk.Compile(session(t, "3")))
	return &pk
}

func TestProveVerify(t *testing.T) {
	pk := compile(t)
	require.Equal(t, 1, pk.Vk().NbInstances())

	c := session(t, "12")
	require.True(t, pk.Matches(c))
	proof, instances, err := pk.Prove(c)
	require.NoError(t, err)
	require.Equal(t, []fr.Element{fr.NewElement(149)}, instances)
	require.NoError(t, pk.Vk().Verify(proof, instances))

	require.Error(t, pk.Vk().Verify(proof, []fr.Element{fr.NewElement(150)}))
	require.ErrorIs(t, pk.Vk().Verify(proof, nil), ErrInstanceCount)
}

func TestProveRejectsOtherShape(t *testing.T) {
	pk := compile(t)
	c := session(t, "4")
	l := NewLib(c)
	witness(t, l, "1")
	require.False(t, pk.Matches(c))
	_, _, err := pk.Prove(c)
	require.ErrorIs(t, err, ErrShapeMismatch)

	c = session(t, "4")
	hs, err := c.Instances(0)
	require.NoError(t, err)
	require.NoError(t, c.MakePublic(hs[0], 1))
	_, _, err = pk.Prove(c)
	require.ErrorIs(t, err, ErrShapeMismatch)
}

func TestKeyRoundTrip(t *testing.T) {
	pk := compile(t)
	var buf bytes.Buffer
	_, err := pk.WriteTo(&buf)
	require.NoError(t, err)
	var back Pk
	_, err = back.ReadFrom(&buf)
	require.NoError(t, err)
	require.Equal(t, pk.Vk().Fingerprint(), back.Vk().Fingerprint())
	require.Equal(t, pk.Vk().Digest(), back.Vk().Digest())

	proof, instances, err := back.Prove(session(t, "200"))
	require.NoError(t, err)
	buf.Reset()
	_, err = proof.WriteTo(&buf)
	require.NoError(t, err)
	var proof2 Proof
	_, err = proof2.ReadFrom(&buf)
	require.NoError(t, err)

	buf.Reset()
	_, err = pk.Vk().WriteTo(&buf)
	require.NoError(t, err)
	var vk Vk
	_, err = vk.ReadFrom(&buf)
	require.NoError(t, err)
	require.NoError(t, vk.Verify(&proof2, instances))
	digest := vk.Digest()
	require.False(t, digest.IsZero())
}

func TestProveBatch(t *testing.T) {
	pk := compile(t)
	circuits := []*Circuit{session(t, "1"), session(t, "2"), session(t, "3")}
	proofs, instances, err := ProveBatch(context.Background(), pk, circuits, 2)
	require.NoError(t, err)
	require.Len(t, proofs, 3)
	for i := range proofs {
		require.Equal(t, fr.NewElement(uint64((i+1)*(i+1)+5)), instances[i][0])
		require.NoError(t, pk.Vk().Verify(proofs[i], instances[i]))
	}

	_, _, err = ProveBatch(context.Background(), pk, []*Circuit{circuits[0], circuits[0]}, 0)
	require.ErrorIs(t, err, ErrSharedBuilder)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = ProveBatch(ctx, pk, circuits, 1)
	require.ErrorIs(t, err, context.Canceled)
}

func TestSRSCache(t *testing.T) {
	compile(t)

	entries, err := os.ReadDir(DATA_CACHE_DIR)
	require.NoError(t, err)
	var file string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".BIN") {
			file = filepath.Join(DATA_CACHE_DIR, e.Name())
		}
	}
	require.NotEmpty(t, file)
	_, err = read_srs(file, 1)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(file+".SHA256", []byte("00\n"), 0o644))
	_, err = read_srs(file, 1)
	require.ErrorIs(t, err, ErrCorruptCache)
	compile(t)
	_, err = read_srs(file, 1)
	require.NoError(t, err)
}
