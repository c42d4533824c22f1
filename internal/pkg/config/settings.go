package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variable names read by Load.
const (
	EnvTotalBits      = "RSA_TOTAL_BITS"
	EnvPublicExponent = "RSA_PUBLIC_EXPONENT"
	EnvRounds         = "RSA_ROUNDS"
	EnvParallel       = "RSA_PARALLEL"
	EnvMaxIncrements  = "RSA_MAX_INCREMENTS"
	EnvMaxRestarts    = "RSA_MAX_RESTARTS"
	EnvMaxResamples   = "RSA_MAX_RESAMPLES"

	EnvLogLevel      = "LOG_LEVEL"
	EnvLogType       = "LOG_TYPE"
	EnvLogFilePath   = "LOG_FILE_PATH"
	EnvLogMaxSize    = "LOG_MAX_SIZE"
	EnvLogMaxBackups = "LOG_MAX_BACKUPS"
	EnvLogMaxAge     = "LOG_MAX_AGE"

	EnvJournalEnabled = "JOURNAL_ENABLED"
	EnvJournalPath    = "JOURNAL_PATH"
)

// Settings aggregates everything the CLI needs.
type Settings struct {
	KeyGen  KeyGenSettings
	Logger  LoggerSettings
	Journal JournalSettings
}

// Defaults returns a 32-bit key with e = 17, console logging at info and
// the journal in ./keygen.db.
func Defaults() *Settings {
	return &Settings{
		KeyGen: KeyGenSettings{
			TotalBits:      32,
			PublicExponent: 17,
			Rounds:         20,
			MaxIncrements:  1024,
			MaxRestarts:    64,
			MaxResamples:   1000,
		},
		Logger: LoggerSettings{
			LogLevel:   LogLevelInfo,
			LogType:    LogTypeConsole,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		},
		Journal: JournalSettings{
			Enabled: true,
			Path:    "./keygen.db",
		},
	}
}

// Validate validates every section.
func (s *Settings) Validate() error {
	if err := s.KeyGen.Validate(); err != nil {
		return err
	}
	if err := s.Logger.Validate(); err != nil {
		return err
	}
	return s.Journal.Validate()
}

// Load starts from Defaults, loads the given .env files that exist into the
// environment and overlays the environment variables. Missing files are
// skipped; unreadable or malformed ones are errors. The result is not
// validated so that callers can apply flag overrides first.
func Load(envFiles ...string) (*Settings, error) {
	for _, f := range envFiles {
		if _, err := os.Stat(f); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", f, err)
		}
	}

	s := Defaults()
	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	collect(lookupInt(EnvTotalBits, &s.KeyGen.TotalBits))
	collect(lookupUint(EnvPublicExponent, &s.KeyGen.PublicExponent))
	collect(lookupInt(EnvRounds, &s.KeyGen.Rounds))
	collect(lookupBool(EnvParallel, &s.KeyGen.Parallel))
	collect(lookupInt(EnvMaxIncrements, &s.KeyGen.MaxIncrements))
	collect(lookupInt(EnvMaxRestarts, &s.KeyGen.MaxRestarts))
	collect(lookupInt(EnvMaxResamples, &s.KeyGen.MaxResamples))

	lookupString(EnvLogLevel, &s.Logger.LogLevel)
	lookupString(EnvLogType, &s.Logger.LogType)
	lookupString(EnvLogFilePath, &s.Logger.FilePath)
	collect(lookupInt(EnvLogMaxSize, &s.Logger.MaxSize))
	collect(lookupInt(EnvLogMaxBackups, &s.Logger.MaxBackups))
	collect(lookupInt(EnvLogMaxAge, &s.Logger.MaxAge))

	collect(lookupBool(EnvJournalEnabled, &s.Journal.Enabled))
	lookupString(EnvJournalPath, &s.Journal.Path)

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return s, nil
}

func lookupString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func lookupInt(key string, dst *int) error {
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func lookupUint(key string, dst *uint64) error {
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func lookupBool(key string, dst *bool) error {
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}
