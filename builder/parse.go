package builder

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/holiman/uint256"
)

var ErrMalformedBigInteger = errors.New("malformed big integer")

// ParseBigInt parses a non-negative decimal or 0x-prefixed hexadecimal integer
// of at most maxBits bits (maxBits <= 256).
func ParseBigInt(s string, maxBits int) (*big.Int, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: empty string", ErrMalformedBigInteger)
	}
	var (
		v   *uint256.Int
		err error
	)
	if strings.HasPrefix(s, "0x") {
		v, err = uint256.FromHex(s)
	} else {
		v, err = uint256.FromDecimal(s)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrMalformedBigInteger, s, err)
	}
	if v.BitLen() > maxBits {
		return nil, fmt.Errorf("%w: %q exceeds %d bits", ErrMalformedBigInteger, s, maxBits)
	}
	return v.ToBig(), nil
}

// ParseFieldElement parses a canonical native field element.
func ParseFieldElement(s string) (fr.Element, error) {
	var e fr.Element
	b, err := ParseBigInt(s, 256)
	if err != nil {
		return e, err
	}
	if b.Cmp(fr.Modulus()) >= 0 {
		return e, fmt.Errorf("%w: %q is not below the native modulus", ErrMalformedBigInteger, s)
	}
	e.SetBigInt(b)
	return e, nil
}

// ParseBits parses a bit width in [0, maxBits].
func ParseBits(s string, maxBits int) (int, error) {
	b, err := ParseBigInt(s, 16)
	if err != nil {
		return 0, err
	}
	n := int(b.Int64())
	if n > maxBits {
		return 0, fmt.Errorf("%w: bit width %d exceeds %d", ErrMalformedBigInteger, n, maxBits)
	}
	return n, nil
}
