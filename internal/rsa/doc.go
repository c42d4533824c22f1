// Package rsa generates textbook RSA key pairs with moduli of up to 64 bits
// and applies unpadded modular exponentiation to single values.
//
// This is a teaching implementation. There is no padding, the arithmetic is
// not constant time and 64-bit moduli are trivially factored. Do not use it
// to protect anything.
//
// A key pair is generated from two probable primes:
//
//	kp, err := rsa.GenerateKeyPair(randsrc.Default(), 32, 17, 20)
//	c, err := rsa.EncryptUnit(42, kp.E(), kp.N())
//	m, err := rsa.DecryptUnit(c, kp.D(), kp.N())
//
// For run statistics, parallel prime search or logging use a KeyGenerator.
package rsa
