package eonlib

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/backend/plonk"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/scs"
	"github.com/consensys/gnark/logger"
)

var ErrShapeMismatch = errors.New("circuit does not match the proving key")

type Pk struct {
	vk  Vk
	ccs constraint.ConstraintSystem
	pk  plonk.ProvingKey
}

// Compile mocks the session, compiles its replay circuit and runs the PLONK
// setup over the cached SRS.
func (me *Pk) Compile(circuit *Circuit) error {
	if err := circuit.Mock(); err != nil {
		return err
	}
	placeholder, _ := circuit.Replay()
	log := logger.Logger().With().Str("component", "pk").Int("advice", len(placeholder.Advice)).Int("instances", len(placeholder.Instances)).Logger()
	start := time.Now()
	ccs, err := frontend.Compile(FIELD, scs.NewBuilder, placeholder)
	if err != nil {
		return fmt.Errorf("compile: %w", err)
	}
	log.Debug().Int("nbConstraints", ccs.GetNbConstraints()).Dur("took", time.Since(start)).Msg("replay circuit compiled")
	srs, srsLagrange, err := ReadSRS(ccs)
	if err != nil {
		return err
	}
	start = time.Now()
	ipk, ivk, err := plonk.Setup(ccs, srs, srsLagrange)
	if err != nil {
		return fmt.Errorf("setup: %w", err)
	}
	log.Debug().Dur("took", time.Since(start)).Msg("plonk setup done")
	me.ccs = ccs
	me.pk = ipk
	me.vk = Vk{vk: ivk, fingerprint: placeholder.Fingerprint()}
	return nil
}

func (me *Pk) Vk() *Vk {
	return &me.vk
}

// Prove proves the session and returns the proof together with the instance
// values it was proven against.
func (me *Pk) Prove(circuit *Circuit) (*Proof, []fr.Element, error) {
	if err := circuit.Mock(); err != nil {
		return nil, nil, err
	}
	_, assignment := circuit.Replay()
	if assignment.Fingerprint() != me.vk.fingerprint {
		return nil, nil, ErrShapeMismatch
	}
	witness, err := frontend.NewWitness(assignment, FIELD)
	if err != nil {
		return nil, nil, err
	}
	start := time.Now()
	gp, err := plonk.Prove(me.ccs, me.pk, witness)
	if err != nil {
		return nil, nil, fmt.Errorf("prove: %w", err)
	}
	log := logger.Logger()
	log.Debug().Str("component", "pk").Dur("took", time.Since(start)).Msg("proof generated")
	return &Proof{proof: gp}, assignment.PublicValues(), nil
}

// Matches reports whether the session has the shape this key was compiled for.
func (me *Pk) Matches(circuit *Circuit) bool {
	placeholder, _ := circuit.Replay()
	return placeholder.Fingerprint() == me.vk.fingerprint
}

func (me *Pk) WriteTo(w io.Writer) (int64, error) {
	n, err := me.vk.WriteTo(w)
	if err != nil {
		return n, err
	}
	m, err := me.ccs.WriteTo(w)
	if n += m; err != nil {
		return n, err
	}
	m, err = me.pk.WriteTo(w)
	return n + m, err
}

func (me *Pk) ReadFrom(r io.Reader) (int64, error) {
	n, err := me.vk.ReadFrom(r)
	if err != nil {
		return n, err
	}
	me.ccs = plonk.NewCS(CURVE)
	m, err := me.ccs.ReadFrom(r)
	if n += m; err != nil {
		return n, err
	}
	me.pk = plonk.NewProvingKey(CURVE)
	m, err = me.pk.ReadFrom(r)
	return n + m, err
}

