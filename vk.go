package eonlib

import (
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/kzg"
	"github.com/consensys/gnark/backend/plonk"
	plonkbn254 "github.com/consensys/gnark/backend/plonk/bn254"
	"github.com/consensys/gnark/frontend"

	"github.com/eon-protocol/eonlib/circuits/hasher"
	"github.com/eon-protocol/eonlib/circuits/hilo"
	"github.com/eon-protocol/eonlib/circuits/replay"
)

var ErrInstanceCount = errors.New("wrong number of instances")

type Vk struct {
	vk          plonk.VerifyingKey
	fingerprint [32]byte
}

func (me *Vk) NbInstances() int {
	return me.vk.NbPublicWitness()
}

func (me *Vk) Fingerprint() [32]byte {
	return me.fingerprint
}

func (me *Vk) Verify(proof *Proof, instances []fr.Element) error {
	if len(instances) != me.NbInstances() {
		return fmt.Errorf("%w: got %d, want %d", ErrInstanceCount, len(instances), me.NbInstances())
	}
	assignment := &replay.Circuit{Instances: make([]frontend.Variable, len(instances))}
	for i := range instances {
		var b big.Int
		assignment.Instances[i] = instances[i].BigInt(&b)
	}
	pw, err := frontend.NewWitness(assignment, FIELD, frontend.PublicOnly())
	if err != nil {
		return err
	}
	return plonk.Verify(proof.proof, me.vk, pw)
}

// Digest hashes the commitments of the key, its size and public input count,
// and the circuit fingerprint into one field element.
func (me *Vk) Digest() fr.Element {
	cvk := me.vk.(*plonkbn254.VerifyingKey)
	digests := append([]kzg.Digest{cvk.S[0], cvk.S[1], cvk.S[2], cvk.Ql, cvk.Qr, cvk.Qm, cvk.Qo, cvk.Qk}, cvk.Qcp...)
	vals := make([]fr.Element, 0, len(digests)+4)
	for _, d := range digests {
		vals = append(vals, hasher.DigestHash(d))
	}
	hi, lo, err := hilo.Split(new(big.Int).SetBytes(me.fingerprint[:]))
	if err != nil {
		panic(err)
	}
	var ehi, elo fr.Element
	ehi.SetBigInt(hi)
	elo.SetBigInt(lo)
	vals = append(vals, fr.NewElement(cvk.Size), fr.NewElement(cvk.NbPublicVariables), ehi, elo)
	return hasher.HashSum(vals...)
}

func (me *Vk) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(me.fingerprint[:])
	if err != nil {
		return int64(n), err
	}
	m, err := me.vk.WriteTo(w)
	return int64(n) + m, err
}

func (me *Vk) ReadFrom(r io.Reader) (int64, error) {
	n, err := io.ReadFull(r, me.fingerprint[:])
	if err != nil {
		return int64(n), err
	}
	me.vk = plonk.NewVerifyingKey(CURVE)
	m, err := me.vk.ReadFrom(r)
	return int64(n) + m, err
}
