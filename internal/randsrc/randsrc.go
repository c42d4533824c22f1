// Package randsrc provides the randomness plumbing shared by prime search and
// Miller-Rabin witness selection. Every consumer receives an explicit
// io.Reader; nothing in this module reads from a process-wide generator.
package randsrc

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"golang.org/x/crypto/chacha20"
)

// SeedSize is the size of a seed accepted by NewSeeded.
const SeedSize = chacha20.KeySize

// ErrEmptyRange is returned when a sampling range contains no values.
var ErrEmptyRange = errors.New("randsrc: empty range")

// Default returns the operating system CSPRNG.
func Default() io.Reader {
	return rand.Reader
}

// Stream is a deterministic ChaCha20 keystream. Two streams built from the
// same seed yield the same bytes, which makes prime search reproducible.
// A Stream is not safe for concurrent use.
type Stream struct {
	cipher *chacha20.Cipher
}

// NewSeeded returns a Stream keyed by seed with an all-zero nonce.
func NewSeeded(seed [SeedSize]byte) *Stream {
	nonce := make([]byte, chacha20.NonceSize)
	// Only fails on wrong key or nonce sizes, both fixed here.
	c, err := chacha20.NewUnauthenticatedCipher(seed[:], nonce)
	if err != nil {
		panic(fmt.Sprintf("randsrc: chacha20 setup: %v", err))
	}
	return &Stream{cipher: c}
}

// SeedFromUint64 expands a small integer seed into a full ChaCha20 key.
// It is meant for tests and the --seed CLI flag.
func SeedFromUint64(v uint64) [SeedSize]byte {
	var seed [SeedSize]byte
	binary.LittleEndian.PutUint64(seed[:8], v)
	return seed
}

// Read fills p with keystream bytes. It never fails.
func (s *Stream) Read(p []byte) (int, error) {
	clear(p)
	s.cipher.XORKeyStream(p, p)
	return len(p), nil
}

// Derive keys a fresh Stream from SeedSize bytes of parent. Children derived
// in a fixed order from the same parent are reproducible, and each child can
// be handed to its own goroutine.
func Derive(parent io.Reader) (*Stream, error) {
	var seed [SeedSize]byte
	if _, err := io.ReadFull(parent, seed[:]); err != nil {
		return nil, fmt.Errorf("randsrc: derive seed: %w", err)
	}
	return NewSeeded(seed), nil
}

// Uint64 reads eight bytes from r.
func Uint64(r io.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, fmt.Errorf("randsrc: read: %w", err)
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

// Uint64n returns a uniform value in [0, n) using rejection sampling.
func Uint64n(r io.Reader, n uint64) (uint64, error) {
	if n == 0 {
		return 0, ErrEmptyRange
	}
	if n&(n-1) == 0 {
		v, err := Uint64(r)
		return v & (n - 1), err
	}
	limit := math.MaxUint64 - math.MaxUint64%n
	for {
		v, err := Uint64(r)
		if err != nil {
			return 0, err
		}
		if v < limit {
			return v % n, nil
		}
	}
}

// Range returns a uniform value in the closed interval [lo, hi].
func Range(r io.Reader, lo, hi uint64) (uint64, error) {
	if lo > hi {
		return 0, ErrEmptyRange
	}
	if lo == 0 && hi == math.MaxUint64 {
		return Uint64(r)
	}
	v, err := Uint64n(r, hi-lo+1)
	if err != nil {
		return 0, err
	}
	return lo + v, nil
}
