package numtheory

import "math/bits"

// MulMod returns a*b mod m using a 128-bit intermediate product.
// It panics if m is zero.
func MulMod(a, b, m uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	return bits.Rem64(hi, lo, m)
}

// PowerMod returns base^exp mod m by square-and-multiply. The result is
// always in [0, m); PowerMod(x, 0, m) is 1 for every m > 1. It panics if m
// is zero, like integer division.
func PowerMod(base, exp, m uint64) uint64 {
	if m == 1 {
		return 0
	}
	result := uint64(1)
	base %= m
	for exp > 0 {
		if exp&1 == 1 {
			result = MulMod(result, base, m)
		}
		exp >>= 1
		base = MulMod(base, base, m)
	}
	return result
}
