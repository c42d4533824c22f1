package numtheory

import (
	"context"
	"fmt"
	"io"

	"infobez-lab-rsa/internal/randsrc"
)

// MaxPrimeBits is the widest prime the search can return.
const MaxPrimeBits = 64

// Search defaults.
const (
	DefaultRounds        = 20
	DefaultMaxIncrements = 1024
	DefaultMaxRestarts   = 64
)

// PrimeSearch draws a random odd candidate of the requested bit length and
// walks upwards in steps of two until Miller-Rabin accepts one. A walk is
// abandoned after MaxIncrements steps or when it would leave the bit length,
// and a new random starting point is drawn; after MaxRestarts abandoned walks
// the search fails with ErrSearchExhausted.
type PrimeSearch struct {
	Rounds        int
	MaxIncrements int
	MaxRestarts   int
}

// PrimeResult is a found prime and the cost of finding it.
type PrimeResult struct {
	Value      uint64
	Candidates int
	Restarts   int
}

// DefaultPrimeSearch returns a PrimeSearch with the package defaults.
func DefaultPrimeSearch() PrimeSearch {
	return PrimeSearch{
		Rounds:        DefaultRounds,
		MaxIncrements: DefaultMaxIncrements,
		MaxRestarts:   DefaultMaxRestarts,
	}
}

// GeneratePrime returns a probable prime p with 2^(bits-1) <= p < 2^bits,
// tested with rounds Miller-Rabin rounds.
func GeneratePrime(rand io.Reader, bits, rounds int) (uint64, error) {
	s := DefaultPrimeSearch()
	s.Rounds = rounds
	res, err := s.Search(context.Background(), rand, bits)
	if err != nil {
		return 0, err
	}
	return res.Value, nil
}

// Validate checks the search parameters.
func (s PrimeSearch) Validate() error {
	if s.Rounds < 1 {
		return invalidf("PrimeSearch", "rounds = %d, want >= 1", s.Rounds)
	}
	if s.MaxIncrements < 0 || s.MaxRestarts < 0 {
		return invalidf("PrimeSearch", "negative bound (increments %d, restarts %d)", s.MaxIncrements, s.MaxRestarts)
	}
	return nil
}

// Search finds a probable prime of exactly bits bits. The context is checked
// before every walk.
func (s PrimeSearch) Search(ctx context.Context, rand io.Reader, bits int) (PrimeResult, error) {
	if bits < 2 || bits > MaxPrimeBits {
		return PrimeResult{}, invalidf("GeneratePrime", "bit length %d, want 2..%d", bits, MaxPrimeBits)
	}
	if err := s.Validate(); err != nil {
		return PrimeResult{}, err
	}

	lo := uint64(1) << (bits - 1)
	hi := lo | (lo - 1)

	var res PrimeResult
	for walk := 0; walk <= s.MaxRestarts; walk++ {
		if err := ctx.Err(); err != nil {
			return res, &Error{Op: "GeneratePrime", Err: err}
		}
		if walk > 0 {
			res.Restarts++
		}

		x, err := randsrc.Range(rand, lo, hi)
		if err != nil {
			return res, &Error{Op: "GeneratePrime", Err: fmt.Errorf("draw candidate: %w", err)}
		}
		x |= 1

		for step := 0; ; step++ {
			res.Candidates++
			ok, err := IsProbablePrime(rand, x, s.Rounds)
			if err != nil {
				return res, err
			}
			if ok {
				invariant(x >= lo && x <= hi, "prime %d outside [%d, %d]", x, lo, hi)
				res.Value = x
				return res, nil
			}
			if step >= s.MaxIncrements || hi-x < 2 {
				break
			}
			x += 2
		}
	}

	return res, &Error{
		Op:  "GeneratePrime",
		Err: fmt.Errorf("%w: no %d-bit prime after %d candidates", ErrSearchExhausted, bits, res.Candidates),
	}
}
