package commands

import (
	"github.com/spf13/cobra"

	"infobez-lab-rsa/internal/pkg/config"
)

// Execute runs the rsa-keygen command tree with the process arguments.
func Execute() error {
	rootCmd, app := newRootCommand()
	err := rootCmd.Execute()
	if cerr := app.close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// NewRootCommand builds the rsa-keygen command tree.
func NewRootCommand() *cobra.Command {
	rootCmd, _ := newRootCommand()
	return rootCmd
}

func newRootCommand() (*cobra.Command, *App) {
	app := &App{}

	rootCmd := &cobra.Command{
		Use:   "rsa-keygen",
		Short: "Textbook RSA over 64-bit integers",
		Long: `rsa-keygen generates small RSA key pairs from Miller-Rabin probable primes
and demonstrates unpadded per-byte encryption. Keys of at most 64 bits are
for study only.

Settings are read from the optional env file and the environment
(RSA_TOTAL_BITS, RSA_PUBLIC_EXPONENT, RSA_ROUNDS, RSA_PARALLEL, LOG_LEVEL,
LOG_TYPE, JOURNAL_PATH, ...). Command line flags take precedence.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&app.envFile, "env-file", ".env", "Env file with settings, skipped if missing")
	rootCmd.PersistentFlags().StringVar(&app.logLevel, "log-level", config.LogLevelInfo, "Log level (debug, info, warning, error)")
	rootCmd.PersistentFlags().StringVar(&app.journalPath, "journal", "", "Path of the sqlite run journal")
	rootCmd.PersistentFlags().BoolVar(&app.noJournal, "no-journal", false, "Do not record runs")

	rootCmd.AddCommand(
		newKeygenCommand(app),
		newPrimeCommand(app),
		newEncryptCommand(app),
		newSelftestCommand(app),
		newHistoryCommand(app),
	)
	return rootCmd, app
}
