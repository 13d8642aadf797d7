package eonlib

import (
	"io"

	"github.com/consensys/gnark/backend/plonk"
)

type Proof struct {
	proof plonk.Proof
}

func (me *Proof) WriteTo(w io.Writer) (int64, error) {
	return me.proof.WriteTo(w)
}

func (me *Proof) ReadFrom(r io.Reader) (int64, error) {
	me.proof = plonk.NewProof(CURVE)
	return me.proof.ReadFrom(r)
}
