package rsa

import (
	"time"

	"github.com/google/uuid"
)

// Report describes one key generation run. It carries search statistics
// only, never p, q or d.
type Report struct {
	ID             uuid.UUID
	CreatedAt      time.Time
	TotalBits      int
	PBits          int
	QBits          int
	PublicExponent uint64
	Rounds         int
	Parallel       bool
	// Candidates is the number of Miller-Rabin tested candidates over both
	// primes, including the ones rejected by the gcd constraint.
	Candidates int
	Restarts   int
	// Resamples counts primes discarded because gcd(e, p-1) != 1 or
	// because q came out equal to p.
	Resamples int
	Duration  time.Duration
}

// primeStats accumulates the cost of finding one constrained prime.
type primeStats struct {
	candidates int
	restarts   int
	resamples  int
}

func (r *Report) add(s primeStats) {
	r.Candidates += s.candidates
	r.Restarts += s.restarts
	r.Resamples += s.resamples
}

func (s *primeStats) add(o primeStats) {
	s.candidates += o.candidates
	s.restarts += o.restarts
	s.resamples += o.resamples
}
