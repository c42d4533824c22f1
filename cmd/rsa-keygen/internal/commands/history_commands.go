package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"infobez-lab-rsa/internal/journal"
)

func newHistoryCommand(app *App) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show journaled key generation runs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withJournal(app, func(store *journal.Store) error {
				ctx := cmd.Context()
				runs, err := store.List(ctx, limit)
				if err != nil {
					return err
				}
				stats, err := store.Stats(ctx)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "no runs recorded")
					return nil
				}

				w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "CREATED\tBITS\tE\tROUNDS\tPARALLEL\tCANDIDATES\tRESAMPLES\tDURATION\tID")
				for _, r := range runs {
					fmt.Fprintf(w, "%s\t%d\t%s\t%d\t%t\t%d\t%d\t%s\t%s\n",
						r.CreatedAt.Format("2006-01-02 15:04:05"), r.TotalBits, r.PublicExponent, r.Rounds,
						r.Parallel, r.Candidates, r.Resamples, r.Duration, r.ID)
				}
				if err := w.Flush(); err != nil {
					return err
				}

				fmt.Fprintf(out, "\n%d runs, %d candidates, %d resamples, average %s\n",
					stats.Runs, stats.TotalCandidates, stats.TotalResamples, stats.AverageDuration)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to show (0 for all)")

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete all journaled runs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withJournal(app, func(store *journal.Store) error {
				n, err := store.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %d runs\n", n)
				return nil
			})
		},
	})
	return cmd
}

func withJournal(app *App, fn func(*journal.Store) error) error {
	store, err := app.openJournal()
	if err != nil {
		return err
	}
	if store == nil {
		return fmt.Errorf("journal is disabled")
	}
	defer store.Close()
	return fn(store)
}
