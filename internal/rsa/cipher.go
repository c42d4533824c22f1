package rsa

import "infobez-lab-rsa/internal/numtheory"

// EncryptUnit returns v^e mod n. v must be below n.
func EncryptUnit(v, e, n uint64) (uint64, error) {
	if v >= n {
		return 0, invalidf("EncryptUnit", "value %d not below modulus %d", v, n)
	}
	return numtheory.PowerMod(v, e, n), nil
}

// DecryptUnit returns c^d mod n. c must be below n.
func DecryptUnit(c, d, n uint64) (uint64, error) {
	if c >= n {
		return 0, invalidf("DecryptUnit", "value %d not below modulus %d", c, n)
	}
	return numtheory.PowerMod(c, d, n), nil
}

// Encrypt encrypts a single value with the public key.
func (p PublicKey) Encrypt(v uint64) (uint64, error) {
	return EncryptUnit(v, p.E, p.N)
}

// Decrypt decrypts a single value with the private exponent.
func (k *KeyPair) Decrypt(c uint64) (uint64, error) {
	return DecryptUnit(c, k.d, k.n)
}

// EncryptBytes encrypts msg one byte at a time. Each byte becomes an
// independent ciphertext value; there is no padding or chaining, so equal
// bytes give equal ciphertexts. The modulus must exceed 255.
func EncryptBytes(pub PublicKey, msg []byte) ([]uint64, error) {
	if pub.N <= 0xff {
		return nil, invalidf("EncryptBytes", "modulus %d cannot hold byte values", pub.N)
	}
	out := make([]uint64, len(msg))
	for i, b := range msg {
		// b <= 0xff < n keeps every byte in the unit domain.
		out[i] = numtheory.PowerMod(uint64(b), pub.E, pub.N)
	}
	return out, nil
}

// DecryptBytes reverses EncryptBytes.
func (k *KeyPair) DecryptBytes(ct []uint64) ([]byte, error) {
	out := make([]byte, len(ct))
	for i, c := range ct {
		m, err := k.Decrypt(c)
		if err != nil {
			return nil, err
		}
		if m > 0xff {
			return nil, invalidf("DecryptBytes", "value at %d decrypts to %d, not a byte", i, m)
		}
		out[i] = byte(m)
	}
	return out, nil
}
