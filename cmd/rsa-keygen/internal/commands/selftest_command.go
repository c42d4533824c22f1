package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"infobez-lab-rsa/internal/selftest"
)

func newSelftestCommand(app *App) *cobra.Command {
	var seed uint64
	cmd := &cobra.Command{
		Use:   "selftest",
		Short: "Run the built-in number theory and RSA checks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			results := selftest.Run(randomness(cmd, seed))

			out := cmd.OutOrStdout()
			for _, r := range results {
				if r.Passed() {
					fmt.Fprintf(out, "PASS  %s\n", r.Name)
					continue
				}
				fmt.Fprintf(out, "FAIL  %s: %v\n", r.Name, r.Err)
				app.Logger.Error(fmt.Sprintf("self test %q failed: %v", r.Name, r.Err))
			}

			if n := selftest.Failed(results); n > 0 {
				return fmt.Errorf("%d of %d self tests failed", n, len(results))
			}
			return nil
		},
	}
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed for a reproducible run (default: system randomness)")
	return cmd
}
