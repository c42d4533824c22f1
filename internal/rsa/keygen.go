package rsa

import (
	"context"
	"fmt"
	"io"
	"math/bits"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"infobez-lab-rsa/internal/numtheory"
	"infobez-lab-rsa/internal/pkg/logger"
	"infobez-lab-rsa/internal/randsrc"
)

// Key size bounds. n = p*q has to fit in a uint64, and below 5 bits both
// factors would be the prime 3.
const (
	MinKeyBits = 5
	MaxKeyBits = 64
)

// DefaultMaxResamples bounds how many primes are drawn for one factor
// before the search for a usable one is given up on.
const DefaultMaxResamples = 1000

// KeyGenerator produces RSA key pairs. The zero value is not usable; create
// one with NewKeyGenerator.
type KeyGenerator struct {
	search       numtheory.PrimeSearch
	maxResamples int
	parallel     bool
	logger       logger.Logger
}

// Option configures a KeyGenerator.
type Option func(*KeyGenerator)

// WithRounds sets the number of Miller-Rabin rounds per candidate.
func WithRounds(rounds int) Option {
	return func(g *KeyGenerator) {
		g.search.Rounds = rounds
	}
}

// WithPrimeSearch replaces the prime search parameters, rounds included.
func WithPrimeSearch(s numtheory.PrimeSearch) Option {
	return func(g *KeyGenerator) {
		g.search = s
	}
}

// WithMaxResamples bounds the gcd resampling loop of each prime.
func WithMaxResamples(n int) Option {
	return func(g *KeyGenerator) {
		g.maxResamples = n
	}
}

// WithParallel searches p and q in separate goroutines.
func WithParallel(parallel bool) Option {
	return func(g *KeyGenerator) {
		g.parallel = parallel
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l logger.Logger) Option {
	return func(g *KeyGenerator) {
		g.logger = l
	}
}

// NewKeyGenerator returns a KeyGenerator with the given options applied over
// the defaults of numtheory.DefaultPrimeSearch.
func NewKeyGenerator(opts ...Option) *KeyGenerator {
	g := &KeyGenerator{
		search:       numtheory.DefaultPrimeSearch(),
		maxResamples: DefaultMaxResamples,
		logger:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GenerateKeyPair generates a key pair with a totalBits-bit budget split
// between p and q, public exponent e and rounds Miller-Rabin rounds per
// candidate.
func GenerateKeyPair(rand io.Reader, totalBits int, e uint64, rounds int) (*KeyPair, error) {
	kp, _, err := NewKeyGenerator(WithRounds(rounds)).Generate(context.Background(), rand, totalBits, e)
	return kp, err
}

// Generate generates a key pair. p has totalBits/2 bits and q the rest;
// both satisfy gcd(e, prime-1) == 1 and q != p. Two child streams are keyed
// from rand, first for p and then for q, so the result for a given rand does
// not depend on whether the searches run in parallel.
//
// A q equal to p is redrawn and counted as a resample. Small sizes where
// the constraints leave a single prime fail with ErrSearchExhausted.
func (g *KeyGenerator) Generate(ctx context.Context, rand io.Reader, totalBits int, e uint64) (*KeyPair, *Report, error) {
	if err := g.validate(totalBits, e); err != nil {
		return nil, nil, err
	}

	start := time.Now()
	report := &Report{
		ID:             uuid.New(),
		CreatedAt:      start.UTC(),
		TotalBits:      totalBits,
		PBits:          totalBits / 2,
		QBits:          totalBits - totalBits/2,
		PublicExponent: e,
		Rounds:         g.search.Rounds,
		Parallel:       g.parallel,
	}

	pRand, err := randsrc.Derive(rand)
	if err != nil {
		return nil, nil, &Error{Op: "Generate", Err: err}
	}
	qRand, err := randsrc.Derive(rand)
	if err != nil {
		return nil, nil, &Error{Op: "Generate", Err: err}
	}

	var (
		p, q           uint64
		pStats, qStats primeStats
	)
	if g.parallel {
		eg, egCtx := errgroup.WithContext(ctx)
		eg.Go(func() error {
			var err error
			p, pStats, err = g.constrainedPrime(egCtx, pRand, report.PBits, e, 0, g.maxResamples)
			return err
		})
		eg.Go(func() error {
			var err error
			q, qStats, err = g.constrainedPrime(egCtx, qRand, report.QBits, e, 0, g.maxResamples)
			return err
		})
		err = eg.Wait()
		if err == nil && q == p {
			// Continue the q stream where the sequential search would.
			qStats.resamples++
			g.logger.Debug(fmt.Sprintf("rejected %d-bit prime: equal to p", report.QBits))
			var more primeStats
			q, more, err = g.constrainedPrime(ctx, qRand, report.QBits, e, p, g.maxResamples-qStats.resamples)
			qStats.add(more)
		}
	} else {
		p, pStats, err = g.constrainedPrime(ctx, pRand, report.PBits, e, 0, g.maxResamples)
		if err == nil {
			q, qStats, err = g.constrainedPrime(ctx, qRand, report.QBits, e, p, g.maxResamples)
		}
	}
	report.add(pStats)
	report.add(qStats)
	if err != nil {
		return nil, report, &Error{Op: "Generate", Err: err}
	}

	kp := derive(p, q, e)
	report.Duration = time.Since(start)

	g.logger.Info(fmt.Sprintf("generated %d-bit key n=%d e=%d (%d candidates, %d restarts, %d resamples) in %s",
		totalBits, kp.n, kp.e, report.Candidates, report.Restarts, report.Resamples, report.Duration))

	return kp, report, nil
}

func (g *KeyGenerator) validate(totalBits int, e uint64) error {
	if totalBits < MinKeyBits || totalBits > MaxKeyBits {
		return invalidf("Generate", "total bits %d, want %d..%d", totalBits, MinKeyBits, MaxKeyBits)
	}
	if e <= 1 {
		return invalidf("Generate", "public exponent %d, want > 1", e)
	}
	if e&1 == 0 {
		// p-1 is even for every odd prime, so gcd(e, p-1) >= 2.
		return invalidf("Generate", "public exponent %d is even", e)
	}
	// phi >= 2^(PBits-1) * 2^(QBits-1) = 2^(totalBits-2), so this keeps e < phi.
	if e >= uint64(1)<<(totalBits-2) {
		return invalidf("Generate", "public exponent %d too large for a %d-bit modulus", e, totalBits)
	}
	if g.maxResamples < 1 {
		return invalidf("Generate", "max resamples %d, want >= 1", g.maxResamples)
	}
	if err := g.search.Validate(); err != nil {
		return err
	}
	return nil
}

// constrainedPrime draws at most attempts primes of the given size until one
// has gcd(e, prime-1) == 1 and differs from exclude. Zero excludes nothing.
func (g *KeyGenerator) constrainedPrime(ctx context.Context, rand io.Reader, nbits int, e, exclude uint64, attempts int) (uint64, primeStats, error) {
	var stats primeStats
	for attempt := 0; attempt < attempts; attempt++ {
		res, err := g.search.Search(ctx, rand, nbits)
		stats.candidates += res.Candidates
		stats.restarts += res.Restarts
		if err != nil {
			return 0, stats, err
		}
		switch {
		case numtheory.GCD(e, res.Value-1) != 1:
			g.logger.Debug(fmt.Sprintf("rejected %d-bit prime: gcd(e, p-1) != 1", nbits))
		case res.Value == exclude:
			g.logger.Debug(fmt.Sprintf("rejected %d-bit prime: equal to p", nbits))
		default:
			return res.Value, stats, nil
		}
		stats.resamples++
	}
	return 0, stats, fmt.Errorf("%w: no usable %d-bit prime after %d primes", ErrSearchExhausted, nbits, g.maxResamples)
}

// derive builds the key pair from distinct primes that already satisfy the
// gcd constraint. Every check here is an invariant of the sampling above.
func derive(p, q, e uint64) *KeyPair {
	invariant(p != q, "p == q == %d", p)

	hi, n := bits.Mul64(p, q)
	invariant(hi == 0, "p*q overflows: p=%d q=%d", p, q)

	hi, phi := bits.Mul64(p-1, q-1)
	invariant(hi == 0 && phi > e, "phi out of range for p=%d q=%d e=%d", p, q, e)
	invariant(numtheory.GCD(e, phi) == 1, "gcd(e, phi) != 1 for e=%d", e)

	d, err := numtheory.ModInverse(e, phi)
	invariant(err == nil, "e=%d has no inverse mod phi: %v", e, err)
	invariant(numtheory.MulMod(d, e, phi) == 1, "d*e != 1 mod phi")

	return &KeyPair{n: n, e: e, d: d}
}
