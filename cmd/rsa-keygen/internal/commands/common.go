package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"infobez-lab-rsa/internal/journal"
	"infobez-lab-rsa/internal/numtheory"
	"infobez-lab-rsa/internal/pkg/config"
	"infobez-lab-rsa/internal/pkg/logger"
	"infobez-lab-rsa/internal/randsrc"
	"infobez-lab-rsa/internal/rsa"
)

// App carries the state shared by all sub-commands of one invocation.
type App struct {
	Settings *config.Settings
	Logger   logger.Logger

	envFile     string
	logLevel    string
	journalPath string
	noJournal   bool
}

// setup loads settings from the env file and the environment, applies the
// global flag overrides and builds the logger.
func (a *App) setup(cmd *cobra.Command) error {
	settings, err := config.Load(a.envFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		settings.Logger.LogLevel = a.logLevel
	}
	if flags.Changed("journal") {
		settings.Journal.Path = a.journalPath
		settings.Journal.Enabled = true
	}
	if a.noJournal {
		settings.Journal.Enabled = false
	}
	if err := settings.Journal.Validate(); err != nil {
		return err
	}

	l, err := logger.NewLogger(&settings.Logger)
	if err != nil {
		return fmt.Errorf("failed to setup logger: %w", err)
	}

	a.Settings = settings
	a.Logger = l
	return nil
}

// close releases the logger built by setup.
func (a *App) close() error {
	if a.Logger == nil {
		return nil
	}
	return logger.Close(a.Logger)
}

// openJournal returns nil when the journal is disabled.
func (a *App) openJournal() (*journal.Store, error) {
	if !a.Settings.Journal.Enabled {
		return nil, nil
	}
	return journal.Open(a.Settings.Journal.Path)
}

// keyFlags are the key generation flags shared by keygen and encrypt.
type keyFlags struct {
	bits     int
	exponent uint64
	rounds   int
	parallel bool
	seed     uint64
}

func (f *keyFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.bits, "bits", 0, "Total modulus size in bits (5-64)")
	cmd.Flags().Uint64Var(&f.exponent, "exponent", 0, "Public exponent e (odd, > 1)")
	cmd.Flags().IntVar(&f.rounds, "rounds", 0, "Miller-Rabin rounds per candidate")
	cmd.Flags().BoolVar(&f.parallel, "parallel", false, "Search p and q concurrently")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "Seed for a reproducible run (default: system randomness)")
}

// apply overlays the flags that were set on the loaded settings.
func (f *keyFlags) apply(cmd *cobra.Command, s *config.KeyGenSettings) error {
	flags := cmd.Flags()
	if flags.Changed("bits") {
		s.TotalBits = f.bits
	}
	if flags.Changed("exponent") {
		s.PublicExponent = f.exponent
	}
	if flags.Changed("rounds") {
		s.Rounds = f.rounds
	}
	if flags.Changed("parallel") {
		s.Parallel = f.parallel
	}
	return s.Validate()
}

// randomness returns a seeded stream when --seed was given.
func randomness(cmd *cobra.Command, seed uint64) io.Reader {
	if cmd.Flags().Changed("seed") {
		return randsrc.NewSeeded(randsrc.SeedFromUint64(seed))
	}
	return randsrc.Default()
}

func primeSearch(s *config.KeyGenSettings) numtheory.PrimeSearch {
	return numtheory.PrimeSearch{
		Rounds:        s.Rounds,
		MaxIncrements: s.MaxIncrements,
		MaxRestarts:   s.MaxRestarts,
	}
}

func (a *App) keyGenerator(s *config.KeyGenSettings) *rsa.KeyGenerator {
	return rsa.NewKeyGenerator(
		rsa.WithPrimeSearch(primeSearch(s)),
		rsa.WithMaxResamples(s.MaxResamples),
		rsa.WithParallel(s.Parallel),
		rsa.WithLogger(a.Logger),
	)
}
