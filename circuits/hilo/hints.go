package hilo

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark/constraint/solver"
)

// HintDivModPow2 divides by a power of two.
//
// ins  = [ A, K ]
// outs = [ A >> K, A mod 2^K ]
func HintDivModPow2(_ *big.Int, ins, outs []*big.Int) error {
	if len(ins) != 2 || len(outs) != 2 {
		return fmt.Errorf("need 2 ins (A,K) and 2 outs (Q,R), got %d and %d", len(ins), len(outs))
	}
	k := ins[1].Int64()
	if k < 0 || k > TOTAL_BITS {
		return fmt.Errorf("invalid shift %d", k)
	}
	outs[0].Rsh(ins[0], uint(k))
	outs[1].And(ins[0], new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(k)), big.NewInt(1)))
	return nil
}

func init() {
	solver.RegisterHint(HintDivModPow2)
}
