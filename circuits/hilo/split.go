package hilo

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"

	"github.com/eon-protocol/eonlib/builder"
)

var mask128 = new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), HALF_BITS), uint256.NewInt(1))

// Split returns the 128-bit halves of a non-negative integer below 2^256.
func Split(v *big.Int) (hi, lo *big.Int, err error) {
	if v.Sign() < 0 {
		return nil, nil, fmt.Errorf("%w: negative value %s", builder.ErrMalformedBigInteger, v)
	}
	u, overflow := uint256.FromBig(v)
	if overflow {
		return nil, nil, fmt.Errorf("%w: %s exceeds 256 bits", builder.ErrMalformedBigInteger, v)
	}
	hi = new(uint256.Int).Rsh(u, HALF_BITS).ToBig()
	lo = new(uint256.Int).And(u, mask128).ToBig()
	return hi, lo, nil
}

// Join returns hi*2^128 + lo. Each half must fit in 128 bits.
func Join(hi, lo *big.Int) (*big.Int, error) {
	if hi.Sign() < 0 || lo.Sign() < 0 || hi.BitLen() > HALF_BITS || lo.BitLen() > HALF_BITS {
		return nil, fmt.Errorf("%w: hi-lo halves must fit in %d bits", builder.ErrMalformedBigInteger, HALF_BITS)
	}
	h, _ := uint256.FromBig(hi)
	l, _ := uint256.FromBig(lo)
	return new(uint256.Int).Or(new(uint256.Int).Lsh(h, HALF_BITS), l).ToBig(), nil
}
