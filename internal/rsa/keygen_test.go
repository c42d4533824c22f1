package rsa

import (
	"context"
	"fmt"
	"math/bits"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infobez-lab-rsa/internal/numtheory"
	"infobez-lab-rsa/internal/randsrc"
)

// recordingLogger keeps every message for inspection.
type recordingLogger struct {
	mu    sync.Mutex
	debug []string
	info  []string
}

func (l *recordingLogger) Debug(args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.debug = append(l.debug, fmt.Sprint(args...))
}

func (l *recordingLogger) Info(args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.info = append(l.info, fmt.Sprint(args...))
}

func (l *recordingLogger) Warn(...interface{})  {}
func (l *recordingLogger) Error(...interface{}) {}

func seeded(v uint64) *randsrc.Stream {
	return randsrc.NewSeeded(randsrc.SeedFromUint64(v))
}

func TestDeriveToyKey(t *testing.T) {
	// p=11, q=3, e=3: n=33, phi=20, d=7.
	bz := numtheory.ExtendedGCD(3, 20)
	assert.Equal(t, int64(7), bz.X)
	assert.Zero(t, (7*3-1)%20)

	kp := derive(11, 3, 3)
	assert.Equal(t, uint64(33), kp.N())
	assert.Equal(t, uint64(3), kp.E())
	assert.Equal(t, uint64(7), kp.D())
}

func TestDeriveNormalizesNegativeCoefficient(t *testing.T) {
	// ExtendedGCD(17, 3120) has a negative x; d must still land in [0, phi).
	bz := numtheory.ExtendedGCD(17, 3120)
	require.Less(t, bz.X, int64(0))

	kp := derive(61, 53, 17)
	assert.Equal(t, uint64(3233), kp.N())
	assert.Equal(t, uint64(2753), kp.D())
}

func TestDeriveRejectsEqualFactors(t *testing.T) {
	// n = 121 with (p-1)(q-1) = 100 is not a valid RSA modulus.
	assert.Panics(t, func() { derive(11, 11, 3) })
}

func TestGenerateKeyPairRoundTripAllValues(t *testing.T) {
	kp, err := GenerateKeyPair(seeded(1), 16, 17, 20)
	require.NoError(t, err)

	for v := uint64(0); v < kp.N(); v++ {
		c, err := EncryptUnit(v, kp.E(), kp.N())
		require.NoError(t, err)
		require.Less(t, c, kp.N())
		m, err := DecryptUnit(c, kp.D(), kp.N())
		require.NoError(t, err)
		require.Equal(t, v, m, "round trip of %d under n=%d", v, kp.N())
	}
}

func TestGenerateKeyPairSizes(t *testing.T) {
	tests := []struct {
		totalBits int
		e         uint64
		seed      uint64
	}{
		{20, 3, 10},
		{32, 65537, 11},
		{48, 65537, 12},
		{64, 65537, 13},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d bits", tt.totalBits), func(t *testing.T) {
			kp, err := GenerateKeyPair(seeded(tt.seed), tt.totalBits, tt.e, 20)
			require.NoError(t, err)

			nbits := bits.Len64(kp.N())
			assert.True(t, nbits == tt.totalBits || nbits == tt.totalBits-1, "modulus has %d bits", nbits)
			assert.Equal(t, tt.e, kp.E())
			assert.Less(t, kp.D(), kp.N())

			sample := seeded(tt.seed + 100)
			for i := 0; i < 200; i++ {
				v, err := randsrc.Uint64n(sample, kp.N())
				require.NoError(t, err)
				c, err := kp.Public().Encrypt(v)
				require.NoError(t, err)
				m, err := kp.Decrypt(c)
				require.NoError(t, err)
				assert.Equal(t, v, m)
			}
		})
	}
}

func TestGenerateParallelMatchesSequential(t *testing.T) {
	seq, seqReport, err := NewKeyGenerator().Generate(context.Background(), seeded(77), 32, 17)
	require.NoError(t, err)

	par, parReport, err := NewKeyGenerator(WithParallel(true)).Generate(context.Background(), seeded(77), 32, 17)
	require.NoError(t, err)

	assert.Equal(t, seq.N(), par.N())
	assert.Equal(t, seq.D(), par.D())
	assert.Equal(t, seqReport.Candidates, parReport.Candidates)
	assert.False(t, seqReport.Parallel)
	assert.True(t, parReport.Parallel)
}

func TestGenerateReport(t *testing.T) {
	log := &recordingLogger{}
	kp, report, err := NewKeyGenerator(WithLogger(log), WithRounds(12)).Generate(context.Background(), seeded(5), 24, 3)
	require.NoError(t, err)
	require.NotNil(t, kp)

	assert.NotEqual(t, uuid.Nil, report.ID)
	assert.Equal(t, 24, report.TotalBits)
	assert.Equal(t, 12, report.PBits)
	assert.Equal(t, 12, report.QBits)
	assert.Equal(t, uint64(3), report.PublicExponent)
	assert.Equal(t, 12, report.Rounds)
	assert.GreaterOrEqual(t, report.Candidates, 2)
	assert.Positive(t, report.Duration)

	require.Len(t, log.info, 1)
	assert.Contains(t, log.info[0], fmt.Sprintf("n=%d", kp.N()))
	assert.NotContains(t, log.info[0], fmt.Sprintf("d=%d", kp.D()))
	assert.Len(t, log.debug, report.Resamples)
}

func TestGenerateOddSplit(t *testing.T) {
	_, report, err := NewKeyGenerator().Generate(context.Background(), seeded(6), 33, 17)
	require.NoError(t, err)
	assert.Equal(t, 16, report.PBits)
	assert.Equal(t, 17, report.QBits)
}

func TestGenerateInvalidArguments(t *testing.T) {
	tests := []struct {
		name      string
		gen       *KeyGenerator
		totalBits int
		e         uint64
	}{
		{"too few bits", NewKeyGenerator(), 3, 3},
		{"both factors would be 3", NewKeyGenerator(), 4, 3},
		{"too many bits", NewKeyGenerator(), 65, 3},
		{"exponent zero", NewKeyGenerator(), 32, 0},
		{"exponent one", NewKeyGenerator(), 32, 1},
		{"even exponent", NewKeyGenerator(), 32, 4},
		{"exponent not below phi bound", NewKeyGenerator(), 8, 65},
		{"zero rounds", NewKeyGenerator(WithRounds(0)), 32, 17},
		{"zero resamples", NewKeyGenerator(WithMaxResamples(0)), 32, 17},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kp, _, err := tt.gen.Generate(context.Background(), seeded(1), tt.totalBits, tt.e)
			assert.Nil(t, kp)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
}

func TestGenerateSmallKeysRoundTrip(t *testing.T) {
	// Small sizes leave only a handful of usable primes, so q often comes
	// out equal to p before it is redrawn.
	tests := []struct {
		totalBits int
		e         uint64
		seeds     uint64
	}{
		{6, 5, 50},
		{8, 7, 50},
		{10, 3, 100},
		{12, 3, 100},
		{16, 3, 20},
		{16, 17, 20},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d bits e=%d", tt.totalBits, tt.e), func(t *testing.T) {
			for seed := uint64(0); seed < tt.seeds; seed++ {
				kp, err := GenerateKeyPair(seeded(seed), tt.totalBits, tt.e, 20)
				require.NoError(t, err, "seed %d", seed)

				for v := uint64(0); v < kp.N(); v++ {
					c, err := EncryptUnit(v, kp.E(), kp.N())
					require.NoError(t, err)
					m, err := DecryptUnit(c, kp.D(), kp.N())
					require.NoError(t, err)
					if m != v {
						t.Fatalf("seed %d: %d decrypts to %d under %v d=%d", seed, v, m, kp, kp.D())
					}
				}
			}
		})
	}
}

func TestGenerateRedrawsEqualFactorsInParallel(t *testing.T) {
	for seed := uint64(0); seed < 100; seed++ {
		seq, seqReport, err := NewKeyGenerator().Generate(context.Background(), seeded(seed), 10, 3)
		require.NoError(t, err)

		par, parReport, err := NewKeyGenerator(WithParallel(true)).Generate(context.Background(), seeded(seed), 10, 3)
		require.NoError(t, err)

		assert.Equal(t, seq.N(), par.N(), "seed %d", seed)
		assert.Equal(t, seq.D(), par.D(), "seed %d", seed)
		assert.Equal(t, seqReport.Candidates, parReport.Candidates, "seed %d", seed)
		assert.Equal(t, seqReport.Resamples, parReport.Resamples, "seed %d", seed)
	}
}

func TestGenerateSinglePrimeExhausted(t *testing.T) {
	// 4-bit primes are 11 and 13, gcd(3, 12) = 3, so p = 11 leaves no q.
	for _, parallel := range []bool{false, true} {
		gen := NewKeyGenerator(WithMaxResamples(20), WithParallel(parallel))
		kp, report, err := gen.Generate(context.Background(), seeded(1), 8, 3)
		assert.Nil(t, kp)
		assert.ErrorIs(t, err, ErrSearchExhausted, "parallel=%v", parallel)
		assert.GreaterOrEqual(t, report.Resamples, 20)
	}
}

func TestGenerateResamplingExhausted(t *testing.T) {
	// The 4-bit primes are 11 and 13; gcd(15, 10) = 5 and gcd(15, 12) = 3.
	gen := NewKeyGenerator(WithMaxResamples(5))
	kp, report, err := gen.Generate(context.Background(), seeded(8), 8, 15)
	require.Error(t, err)
	assert.Nil(t, kp)
	assert.ErrorIs(t, err, ErrSearchExhausted)
	assert.Equal(t, 5, report.Resamples)
}

func TestGenerateParallelResamplingExhausted(t *testing.T) {
	gen := NewKeyGenerator(WithMaxResamples(3), WithParallel(true))
	_, _, err := gen.Generate(context.Background(), seeded(9), 8, 15)
	assert.ErrorIs(t, err, ErrSearchExhausted)
}

func TestGenerateCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewKeyGenerator().Generate(ctx, seeded(1), 32, 17)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestKeyPairStringHidesPrivateExponent(t *testing.T) {
	kp := derive(61, 53, 17)
	assert.Equal(t, "KeyPair{n=3233, e=17}", kp.String())
}
