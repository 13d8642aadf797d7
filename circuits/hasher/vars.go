// Centralizes Poseidon2 parameters for both native and in-builder code.
package hasher

import (
	"sync"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr/poseidon2"
)

const WIDTH = 2
const ROUND_FULL = 6
const ROUND_PARTIAL = 50
const SEED = "EON_POSEIDON2_HASH_SEED"

// GetPermutation returns the native Poseidon2 permutation.
var GetPermutation = sync.OnceValue(func() *poseidon2.Permutation {
	return poseidon2.NewPermutationWithSeed(WIDTH, ROUND_FULL, ROUND_PARTIAL, SEED)
})

var getParameters = sync.OnceValue(func() *poseidon2.Parameters {
	return poseidon2.NewParametersWithSeed(WIDTH, ROUND_FULL, ROUND_PARTIAL, SEED)
})
