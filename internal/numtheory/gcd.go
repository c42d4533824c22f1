package numtheory

// Bezout is the result of the extended Euclidean algorithm:
// A*X + B*Y == GCD for the inputs A and B.
type Bezout struct {
	GCD uint64
	X   int64
	Y   int64
}

// GCD returns the greatest common divisor of a and b. GCD(0, b) is b.
func GCD(a, b uint64) uint64 {
	if a < b {
		a, b = b, a
	}
	for b > 0 {
		a, b = b, a%b
	}
	return a
}

// ExtendedGCD returns g = gcd(a, b) together with coefficients x, y such that
// a*x + b*y == g. ExtendedGCD(a, 0) is (a, 1, 0).
//
// The coefficient recurrence runs in wrapping uint64 registers. The returned
// coefficients satisfy |x| <= b/(2g) and |y| <= a/(2g) (or are 0 and 1 for the
// degenerate inputs), so their two's complement reading is exact even when an
// intermediate product overflowed.
func ExtendedGCD(a, b uint64) Bezout {
	oldR, r := a, b
	var oldS, s uint64 = 1, 0
	var oldT, t uint64 = 0, 1

	for r != 0 {
		q := oldR / r
		oldR, r = r, oldR-q*r
		oldS, s = s, oldS-q*s
		oldT, t = t, oldT-q*t
	}

	return Bezout{GCD: oldR, X: int64(oldS), Y: int64(oldT)}
}

// ModInverse returns the inverse of a modulo m, normalized into [0, m).
func ModInverse(a, m uint64) (uint64, error) {
	if m < 2 {
		return 0, invalidf("ModInverse", "modulus %d must be at least 2", m)
	}
	bz := ExtendedGCD(a%m, m)
	if bz.GCD != 1 {
		return 0, &Error{Op: "ModInverse", Err: ErrNotInvertible}
	}
	return ModSigned(bz.X, m), nil
}

// ModSigned returns x mod m in [0, m) for a signed x, as needed to turn a
// Bezout coefficient into an inverse. It panics if m is zero.
func ModSigned(x int64, m uint64) uint64 {
	if x >= 0 {
		return uint64(x) % m
	}
	// -x may be 2^63, which still fits in uint64.
	neg := uint64(-(x + 1)) + 1
	rem := neg % m
	if rem == 0 {
		return 0
	}
	return m - rem
}
