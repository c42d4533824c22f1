// Package numtheory implements the number theory behind the textbook RSA
// key generator: gcd and extended gcd, modular exponentiation over 64-bit
// moduli, the Miller-Rabin probable prime test and random prime search.
//
// All arithmetic is done on uint64. Products are formed at 128 bits with
// math/bits and reduced before they are stored, so any modulus below 2^64 is
// safe. Bezout coefficients are int64.
//
// Functions that consume randomness take an io.Reader. Pass
// randsrc.Default() for real use or a seeded randsrc.Stream for reproducible
// runs.
package numtheory
