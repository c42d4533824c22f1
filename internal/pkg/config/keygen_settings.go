package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// KeyGenSettings holds the parameters of RSA key generation.
type KeyGenSettings struct {
	TotalBits      int    `validate:"min=5,max=64"`
	PublicExponent uint64 `validate:"min=3"`
	Rounds         int    `validate:"min=1,max=128"`
	Parallel       bool
	MaxIncrements  int `validate:"min=0"`
	MaxRestarts    int `validate:"min=0"`
	MaxResamples   int `validate:"min=1"`
}

// Validate checks field ranges and the constraints between fields.
func (s *KeyGenSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for KeyGenSettings: %w", err)
	}

	if s.PublicExponent%2 == 0 {
		return fmt.Errorf("public exponent %d must be odd", s.PublicExponent)
	}
	if s.PublicExponent >= uint64(1)<<(s.TotalBits-2) {
		return fmt.Errorf("public exponent %d too large for a %d-bit modulus", s.PublicExponent, s.TotalBits)
	}

	return nil
}

// JournalSettings controls the sqlite journal of key generation runs.
type JournalSettings struct {
	Enabled bool
	Path    string `validate:"required_if=Enabled true"`
}

// Validate checks that an enabled journal has a path.
func (s *JournalSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for JournalSettings: %w", err)
	}
	return nil
}
