package rsa

import "fmt"

// PublicKey is the public half of a key pair.
type PublicKey struct {
	N uint64
	E uint64
}

// KeyPair is an RSA modulus with its public and private exponents. The
// primes it was built from are not retained. A KeyPair is immutable.
type KeyPair struct {
	n uint64
	e uint64
	d uint64
}

// N returns the modulus.
func (k *KeyPair) N() uint64 { return k.n }

// E returns the public exponent.
func (k *KeyPair) E() uint64 { return k.e }

// D returns the private exponent.
func (k *KeyPair) D() uint64 { return k.d }

// Public returns the public key.
func (k *KeyPair) Public() PublicKey {
	return PublicKey{N: k.n, E: k.e}
}

// String omits the private exponent.
func (k *KeyPair) String() string {
	return fmt.Sprintf("KeyPair{n=%d, e=%d}", k.n, k.e)
}
