// Package selftest runs the literal number theory and RSA checks that the
// rsa-keygen binary can perform at startup or on demand.
package selftest

import (
	"fmt"
	"io"
	"math/bits"

	"infobez-lab-rsa/internal/numtheory"
	"infobez-lab-rsa/internal/rsa"
)

// Result is the outcome of one check.
type Result struct {
	Name string
	Err  error
}

// Passed reports whether the check succeeded.
func (r Result) Passed() bool { return r.Err == nil }

type check struct {
	name string
	fn   func(rand io.Reader) error
}

var checks = []check{
	{"gcd", checkGCD},
	{"extended gcd", checkExtendedGCD},
	{"factorization", checkDecompose},
	{"power mod", checkPowerMod},
	{"known primes", checkKnownPrimes},
	{"known composites", checkKnownComposites},
	{"strong pseudoprimes", checkStrongPseudoprimes},
	{"prime generation", checkGeneratePrime},
	{"toy key", checkToyKey},
	{"key round trip", checkRoundTrip},
}

// Run executes every check with randomness from rand and returns the
// results in a fixed order. A failing check does not stop the others.
func Run(rand io.Reader) []Result {
	results := make([]Result, 0, len(checks))
	for _, c := range checks {
		results = append(results, Result{Name: c.name, Err: c.fn(rand)})
	}
	return results
}

// Failed counts failed results.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if !r.Passed() {
			n++
		}
	}
	return n
}

func checkGCD(io.Reader) error {
	for _, tc := range []struct{ a, b, want uint64 }{{421, 111, 1}, {219, 93, 3}, {0, 17, 17}} {
		if got := numtheory.GCD(tc.a, tc.b); got != tc.want {
			return fmt.Errorf("gcd(%d, %d) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
	return nil
}

func checkExtendedGCD(io.Reader) error {
	for _, tc := range []struct {
		a, b uint64
		want numtheory.Bezout
	}{
		{23, 0, numtheory.Bezout{GCD: 23, X: 1, Y: 0}},
		{421, 111, numtheory.Bezout{GCD: 1, X: -29, Y: 110}},
		{111, 421, numtheory.Bezout{GCD: 1, X: 110, Y: -29}},
	} {
		if got := numtheory.ExtendedGCD(tc.a, tc.b); got != tc.want {
			return fmt.Errorf("extended gcd(%d, %d) = %+v, want %+v", tc.a, tc.b, got, tc.want)
		}
	}
	return nil
}

func checkDecompose(io.Reader) error {
	for _, n := range []uint64{100, 122, 3267} {
		f, err := numtheory.Decompose(n)
		if err != nil {
			return err
		}
		if f.D<<f.R+1 != n || f.D&1 != 1 {
			return fmt.Errorf("decompose(%d) = %+v", n, f)
		}
	}
	return nil
}

func checkPowerMod(io.Reader) error {
	if got := numtheory.PowerMod(4, 13, 497); got != 445 {
		return fmt.Errorf("4^13 mod 497 = %d, want 445", got)
	}
	if got := numtheory.PowerMod(12345, 0, 97); got != 1 {
		return fmt.Errorf("x^0 mod 97 = %d, want 1", got)
	}
	return nil
}

var (
	knownPrimes = []uint64{
		107, 193, 953, 4679, 9521, 100501, 117959, 126019, 149491, 192121,
		141650963, 198491329, 735632791, 982451653,
	}
	knownComposites = []uint64{
		15 * 3 * 7, 123 * 3 * 7, 3 * 3 * 7, 13 * 43 * 312351, 15 * 3 * 634565,
		15 * 3 * 1232333, 15 * 11313111 * 7, 13453617 * 3 * 7,
	}
)

func checkKnownPrimes(rand io.Reader) error {
	for _, p := range knownPrimes {
		ok, err := numtheory.IsProbablePrime(rand, p, 10)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%d reported composite", p)
		}
	}
	return nil
}

func checkKnownComposites(rand io.Reader) error {
	for _, c := range knownComposites {
		ok, err := numtheory.IsProbablePrime(rand, c, 32)
		if err != nil {
			return err
		}
		if ok {
			return fmt.Errorf("%d reported prime", c)
		}
	}
	return nil
}

func checkStrongPseudoprimes(io.Reader) error {
	// Each n is a strong pseudoprime to the first base only.
	for _, tc := range []struct{ n, liar, witness uint64 }{
		{2047, 2, 3},
		{1373653, 3, 5},
		{3215031751, 7, 11},
	} {
		if !numtheory.StrongProbablePrime(tc.n, tc.liar) {
			return fmt.Errorf("%d should pass base %d", tc.n, tc.liar)
		}
		if numtheory.StrongProbablePrime(tc.n, tc.witness) {
			return fmt.Errorf("%d should fail base %d", tc.n, tc.witness)
		}
	}
	return nil
}

func checkGeneratePrime(rand io.Reader) error {
	for _, b := range []int{5, 12, 24, 36, 61} {
		p, err := numtheory.GeneratePrime(rand, b, 10)
		if err != nil {
			return err
		}
		if bits.Len64(p) != b {
			return fmt.Errorf("%d-bit prime %d has %d bits", b, p, bits.Len64(p))
		}
		ok, err := numtheory.IsProbablePrime(rand, p, 10)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("generated %d is composite", p)
		}
	}
	return nil
}

func checkToyKey(io.Reader) error {
	// p=11, q=3, e=3, phi=20
	bz := numtheory.ExtendedGCD(3, 20)
	if bz.X != 7 || (bz.X*3-1)%20 != 0 {
		return fmt.Errorf("toy key: extended gcd(3, 20) = %+v, want x=7", bz)
	}
	for v := uint64(0); v < 33; v++ {
		c, err := rsa.EncryptUnit(v, 3, 33)
		if err != nil {
			return err
		}
		m, err := rsa.DecryptUnit(c, 7, 33)
		if err != nil {
			return err
		}
		if m != v {
			return fmt.Errorf("toy key: %d decrypts to %d", v, m)
		}
	}
	return nil
}

func checkRoundTrip(rand io.Reader) error {
	kp, err := rsa.GenerateKeyPair(rand, 48, 65537, 20)
	if err != nil {
		return err
	}
	msg := []byte("self test")
	ct, err := rsa.EncryptBytes(kp.Public(), msg)
	if err != nil {
		return err
	}
	out, err := kp.DecryptBytes(ct)
	if err != nil {
		return err
	}
	if string(out) != string(msg) {
		return fmt.Errorf("round trip under %v gave %q", kp, out)
	}
	return nil
}
