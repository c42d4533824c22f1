package numtheory

import (
	"bytes"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infobez-lab-rsa/internal/randsrc"
)

func TestPowerMod(t *testing.T) {
	tests := []struct {
		base, exp, mod uint64
		want           uint64
	}{
		{2, 10, 1000, 24},
		{4, 13, 497, 445},
		{5, 0, 7, 1},
		{0, 0, 7, 1},
		{0, 5, 7, 0},
		{123, 45, 1, 0},
		{2, 64, math.MaxUint64, 1},
		{math.MaxUint64 - 1, 2, math.MaxUint64, 1},
		{3, 18446744073709551556, 18446744073709551557, 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PowerMod(tt.base, tt.exp, tt.mod), "PowerMod(%d, %d, %d)", tt.base, tt.exp, tt.mod)
	}
}

func TestPowerModProperties(t *testing.T) {
	r := randsrc.NewSeeded(randsrc.SeedFromUint64(11))
	for i := 0; i < 500; i++ {
		a, err := randsrc.Uint64(r)
		require.NoError(t, err)
		b, err := randsrc.Uint64(r)
		require.NoError(t, err)
		m, err := randsrc.Range(r, 2, math.MaxUint64)
		require.NoError(t, err)

		assert.Equal(t, uint64(1), PowerMod(a, 0, m))
		assert.Less(t, PowerMod(a, b, m), m)
		assert.Equal(t, MulMod(a%m, a%m, m), PowerMod(a, 2, m))
	}
}

func TestPowerModZeroModulusPanics(t *testing.T) {
	assert.Panics(t, func() { PowerMod(2, 3, 0) })
}

func TestDecompose(t *testing.T) {
	tests := []struct {
		n    uint64
		want Factorization
	}{
		{100, Factorization{R: 0, D: 99}},
		{122, Factorization{R: 0, D: 121}},
		{3267, Factorization{R: 1, D: 1633}},
		{2, Factorization{R: 0, D: 1}},
		{17, Factorization{R: 4, D: 1}},
		{math.MaxUint64, Factorization{R: 1, D: math.MaxUint64 >> 1}},
	}

	for _, tt := range tests {
		f, err := Decompose(tt.n)
		require.NoError(t, err)
		assert.Equal(t, tt.want, f, "Decompose(%d)", tt.n)
		assert.Equal(t, tt.n, f.D<<f.R+1)
	}

	for _, n := range []uint64{0, 1} {
		_, err := Decompose(n)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	}
}

var knownPrimes = []uint64{
	5, 7, 107, 193, 953, 4679, 9521,
	100501, 117959, 126019, 149491, 192121,
	141650963, 198491329, 735632791, 982451653,
	4294967291,
	2305843009213693951,  // 2^61 - 1
	18446744073709551557, // 2^64 - 59
}

var knownComposites = []uint64{
	9, 15 * 3 * 7, 123 * 3 * 7, 3 * 3 * 7,
	13 * 43 * 312351, 15 * 3 * 634565, 15 * 3 * 1232333,
	15 * 11313111 * 7, 13453617 * 3 * 7,
	561, 2047, 1373653, 25326001, 3215031751,
	4294967291 * 4294967279,
	math.MaxUint64,
}

func TestIsProbablePrimeKnownPrimes(t *testing.T) {
	r := randsrc.NewSeeded(randsrc.SeedFromUint64(3))
	for _, p := range knownPrimes {
		for _, rounds := range []int{1, 10} {
			ok, err := IsProbablePrime(r, p, rounds)
			require.NoError(t, err)
			assert.True(t, ok, "%d should be prime", p)
		}
	}

	ok, err := IsProbablePrime(r, 3, 1)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIsProbablePrimeKnownComposites(t *testing.T) {
	r := randsrc.NewSeeded(randsrc.SeedFromUint64(4))
	for _, c := range knownComposites {
		ok, err := IsProbablePrime(r, c, 32)
		require.NoError(t, err)
		assert.False(t, ok, "%d should be composite", c)
	}
}

func TestIsProbablePrimeInvalidArguments(t *testing.T) {
	r := randsrc.NewSeeded(randsrc.SeedFromUint64(5))
	for _, n := range []uint64{0, 1, 2, 4, 100} {
		_, err := IsProbablePrime(r, n, 5)
		assert.ErrorIs(t, err, ErrInvalidArgument, "n = %d", n)
	}

	_, err := IsProbablePrime(r, 107, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestIsProbablePrimeReadError(t *testing.T) {
	_, err := IsProbablePrime(bytes.NewReader(nil), 107, 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, io.EOF))

	var nerr *Error
	require.ErrorAs(t, err, &nerr)
	assert.Equal(t, "IsProbablePrime", nerr.Op)
}

func TestStrongProbablePrime(t *testing.T) {
	tests := []struct {
		n, a uint64
		want bool
	}{
		{2047, 2, true},
		{2047, 3, false},
		{1373653, 2, true},
		{1373653, 3, true},
		{1373653, 5, false},
		{25326001, 2, true},
		{25326001, 5, true},
		{25326001, 7, false},
		{3215031751, 7, true},
		{3215031751, 11, false},
		{18446744073709551557, 2, true},
		{107, 2, true},
		{4, 2, false},
		{3, 2, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StrongProbablePrime(tt.n, tt.a), "StrongProbablePrime(%d, %d)", tt.n, tt.a)
	}
}
