package foreign

import (
	"fmt"
	"math/big"
	"slices"

	bn254fp "github.com/consensys/gnark-crypto/ecc/bn254/fp"
	bn254fr "github.com/consensys/gnark-crypto/ecc/bn254/fr"
	secp256k1fp "github.com/consensys/gnark-crypto/ecc/secp256k1/fp"
	secp256k1fr "github.com/consensys/gnark-crypto/ecc/secp256k1/fr"
)

const LIMB_BITS = 88
const NUM_LIMBS = 3

var MODULI = map[string]*big.Int{
	"bn254.fq":     bn254fp.Modulus(),
	"bn254.fr":     bn254fr.Modulus(),
	"secp256k1.fp": secp256k1fp.Modulus(),
	"secp256k1.fq": secp256k1fr.Modulus(),
}

// Modulus looks a modulus up by name and returns a copy.
func Modulus(name string) (*big.Int, error) {
	p, ok := MODULI[name]
	if !ok {
		return nil, fmt.Errorf("unknown field %q, known: %v", name, Names())
	}
	return new(big.Int).Set(p), nil
}

func Names() []string {
	names := make([]string, 0, len(MODULI))
	for k := range MODULI {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}
