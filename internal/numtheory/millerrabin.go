package numtheory

import (
	"fmt"
	"io"

	"infobez-lab-rsa/internal/randsrc"
)

// Factorization is the decomposition n-1 = 2^R * D with D odd.
type Factorization struct {
	R uint
	D uint64
}

// Decompose factors n-1 as 2^r * d with d odd by repeated halving.
// n must be at least 2.
func Decompose(n uint64) (Factorization, error) {
	if n < 2 {
		return Factorization{}, invalidf("Decompose", "n = %d, want n >= 2", n)
	}

	d := n - 1
	var r uint
	for d&1 == 0 {
		d >>= 1
		r++
	}
	invariant(d&1 == 1 && d<<r == n-1, "decompose %d gave r=%d d=%d", n, r, d)

	return Factorization{R: r, D: d}, nil
}

// IsProbablePrime runs rounds rounds of Miller-Rabin on the odd number n > 2,
// drawing each witness uniformly from [2, n-2] out of rand. A false result
// is a proof of compositeness; a true result is wrong with probability at
// most 4^-rounds.
func IsProbablePrime(rand io.Reader, n uint64, rounds int) (bool, error) {
	if n <= 2 || n&1 == 0 {
		return false, invalidf("IsProbablePrime", "n = %d, want odd n > 2", n)
	}
	if rounds < 1 {
		return false, invalidf("IsProbablePrime", "rounds = %d, want >= 1", rounds)
	}
	if n == 3 {
		// [2, n-2] is empty.
		return true, nil
	}

	f, err := Decompose(n)
	if err != nil {
		return false, err
	}

	for i := 0; i < rounds; i++ {
		a, err := randsrc.Range(rand, 2, n-2)
		if err != nil {
			return false, &Error{Op: "IsProbablePrime", Err: fmt.Errorf("draw witness: %w", err)}
		}
		if !witnessRound(n, f, a) {
			return false, nil
		}
	}
	return true, nil
}

// StrongProbablePrime reports whether the odd number n > 3 passes one
// Miller-Rabin round with the fixed base a. It returns false for inputs
// outside that domain.
func StrongProbablePrime(n, a uint64) bool {
	if n <= 3 || n&1 == 0 {
		return false
	}
	f, err := Decompose(n)
	if err != nil {
		return false
	}
	return witnessRound(n, f, a%n)
}

// witnessRound reports whether a fails to prove n composite.
func witnessRound(n uint64, f Factorization, a uint64) bool {
	x := PowerMod(a, f.D, n)
	if x == 1 || x == n-1 {
		return true
	}
	for j := uint(1); j < f.R; j++ {
		x = MulMod(x, x, n)
		if x == n-1 {
			return true
		}
	}
	return false
}
