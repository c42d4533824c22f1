package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"infobez-lab-rsa/internal/numtheory"
	"infobez-lab-rsa/internal/rsa"
)

func newKeygenCommand(app *App) *cobra.Command {
	var kf keyFlags
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate an RSA key pair",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := &app.Settings.KeyGen
			if err := kf.apply(cmd, s); err != nil {
				return err
			}

			kp, report, err := generate(cmd.Context(), app, cmd, kf.seed)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "n = %d\n", kp.N())
			fmt.Fprintf(out, "e = %d\n", kp.E())
			fmt.Fprintf(out, "d = %d\n", kp.D())
			fmt.Fprintf(out, "run %s: %d candidates, %d restarts, %d resamples, %s\n",
				report.ID, report.Candidates, report.Restarts, report.Resamples, report.Duration)
			return nil
		},
	}
	kf.register(cmd)
	return cmd
}

// generate runs the key generator and records the run in the journal.
func generate(ctx context.Context, app *App, cmd *cobra.Command, seed uint64) (*rsa.KeyPair, *rsa.Report, error) {
	s := &app.Settings.KeyGen

	kp, report, err := app.keyGenerator(s).Generate(ctx, randomness(cmd, seed), s.TotalBits, s.PublicExponent)
	if err != nil {
		return nil, nil, fmt.Errorf("key generation failed: %w", err)
	}

	store, err := app.openJournal()
	if err != nil {
		return nil, nil, err
	}
	if store != nil {
		defer store.Close()
		if err := store.Record(ctx, report); err != nil {
			app.Logger.Warn(fmt.Sprintf("run not journaled: %v", err))
		}
	}
	return kp, report, nil
}

func newPrimeCommand(app *App) *cobra.Command {
	var (
		nbits  int
		rounds int
		seed   uint64
	)
	cmd := &cobra.Command{
		Use:   "prime",
		Short: "Generate a probable prime of an exact bit length",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := app.Settings.KeyGen
			if cmd.Flags().Changed("rounds") {
				s.Rounds = rounds
			}
			res, err := primeSearch(&s).Search(cmd.Context(), randomness(cmd, seed), nbits)
			if err != nil {
				return err
			}
			app.Logger.Debug(fmt.Sprintf("%d-bit prime after %d candidates", nbits, res.Candidates))

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d\n", res.Value)
			fmt.Fprintf(out, "%d candidates, %d restarts\n", res.Candidates, res.Restarts)
			return nil
		},
	}
	cmd.Flags().IntVar(&nbits, "bits", 32, fmt.Sprintf("Prime size in bits (2-%d)", numtheory.MaxPrimeBits))
	cmd.Flags().IntVar(&rounds, "rounds", numtheory.DefaultRounds, "Miller-Rabin rounds per candidate")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed for a reproducible run (default: system randomness)")
	return cmd
}

func newEncryptCommand(app *App) *cobra.Command {
	var (
		kf      keyFlags
		message string
	)
	cmd := &cobra.Command{
		Use:   "encrypt",
		Short: "Encrypt a message byte by byte under a fresh key and decrypt it again",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := &app.Settings.KeyGen
			// n > 2^(bits-2), so 10 bits is the smallest size that holds a byte.
			if !cmd.Flags().Changed("bits") && s.TotalBits < 10 {
				s.TotalBits = 10
			}
			if err := kf.apply(cmd, s); err != nil {
				return err
			}

			kp, _, err := generate(cmd.Context(), app, cmd, kf.seed)
			if err != nil {
				return err
			}

			ct, err := rsa.EncryptBytes(kp.Public(), []byte(message))
			if err != nil {
				return err
			}
			plain, err := kp.DecryptBytes(ct)
			if err != nil {
				return err
			}

			parts := make([]string, len(ct))
			for i, c := range ct {
				parts[i] = fmt.Sprint(c)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "key: n = %d, e = %d\n", kp.N(), kp.E())
			fmt.Fprintf(out, "ciphertext: [%s]\n", strings.Join(parts, " "))
			fmt.Fprintf(out, "decrypted: %s\n", plain)

			if string(plain) != message {
				return fmt.Errorf("round trip mismatch under %v", kp)
			}
			return nil
		},
	}
	kf.register(cmd)
	cmd.Flags().StringVar(&message, "message", "hello", "Message to encrypt")
	return cmd
}
