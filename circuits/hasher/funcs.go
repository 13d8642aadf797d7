// native (off-circuit) Poseidon2 hasher functions
package hasher

import (
	"log"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/kzg"
)

// HashCompress returns perm([x,y])[1] + y.
func HashCompress(x, y fr.Element) fr.Element {
	vars := [2]fr.Element{x, y}
	if err := GetPermutation().Permutation(vars[:]); err != nil {
		log.Fatalln(err)
	}
	var ret fr.Element
	ret.Add(&vars[1], &y)
	return ret
}

// HashSum folds a sequence using HashCompress(acc, v) starting from zero.
func HashSum(val ...fr.Element) fr.Element {
	var ret fr.Element
	for _, v := range val {
		ret = HashCompress(ret, v)
	}
	return ret
}

// DigestHash commits a KZG digest (X,Y) by splitting X into quotient and
// remainder modulo the scalar field and negating the remainder when Y is the
// lexicographically largest root.
func DigestHash(val kzg.Digest) fr.Element {
	var ez, em fr.Element
	var iz, im big.Int
	val.X.BigInt(&iz).DivMod(&iz, fr.Modulus(), &im)
	ez.SetBigInt(&iz)
	em.SetBigInt(&im)
	if val.Y.LexicographicallyLargest() {
		em.Neg(&em)
	}
	return HashCompress(ez, em)
}
