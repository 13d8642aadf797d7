package eonlib

import (
	"context"
	"errors"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/eon-protocol/eonlib/builder"
)

var ErrSharedBuilder = errors.New("sessions share a witness store")

// ProveBatch proves independent sessions in parallel, at most limit at a time
// when limit is positive. Results are in the order of circuits. Every session
// must own its witness store.
func ProveBatch(ctx context.Context, pk *Pk, circuits []*Circuit, limit int) ([]*Proof, [][]fr.Element, error) {
	seen := make(map[*builder.Builder]int, len(circuits))
	for i, c := range circuits {
		if j, ok := seen[c.builder]; ok {
			return nil, nil, fmt.Errorf("%w: sessions %d and %d", ErrSharedBuilder, j, i)
		}
		seen[c.builder] = i
	}
	proofs := make([]*Proof, len(circuits))
	instances := make([][]fr.Element, len(circuits))
	bar := progressbar.Default(int64(len(circuits)), "Proving")
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, c := range circuits {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			proof, publics, err := pk.Prove(c)
			if err != nil {
				return fmt.Errorf("session %d: %w", i, err)
			}
			proofs[i], instances[i] = proof, publics
			return bar.Add(1)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return proofs, instances, nil
}
