package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/tkturners/thumbgen/internal/storage"
)

func newHistoryCmd(ctx *commandContext) *cobra.Command {
	var (
		limit    int
		failures string
		keep     int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent generate and capture runs",
		Example: `  # Last 20 runs
  thumbgen history

  # Failed records of one run
  thumbgen history --failures 5f0c...

  # Keep only the newest 50 runs
  thumbgen history --prune 50`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.config()
			store, err := storage.Open(cmd.Context(), cfg.History.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			switch {
			case keep > 0:
				n, err := store.Prune(cmd.Context(), keep)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Removed %d run(s)\n", n)
				return nil

			case failures != "":
				outcomes, err := store.Failures(cmd.Context(), failures)
				if err != nil {
					return err
				}
				if len(outcomes) == 0 {
					fmt.Fprintf(out, "No failures recorded for run %s\n", failures)
					return nil
				}
				rows := make([][]string, 0, len(outcomes))
				for _, o := range outcomes {
					rows = append(rows, []string{o.ID, o.Error})
				}
				fmt.Fprintln(out, renderTable([]string{"Record", "Error"}, rows))
				return nil
			}

			runs, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, r := range runs {
				rows = append(rows, []string{
					r.Started.Local().Format(time.DateTime),
					r.Operation,
					strconv.Itoa(r.Succeeded),
					strconv.Itoa(r.Failed),
					strconv.Itoa(r.Skipped),
					r.Finished.Sub(r.Started).Round(time.Millisecond).String(),
					r.RunID,
				})
			}
			fmt.Fprintln(out, renderTable([]string{"Started", "Operation", "OK", "Failed", "Skipped", "Duration", "Run ID"}, rows))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show")
	cmd.Flags().StringVar(&failures, "failures", "", "Show failed records of the run with this id")
	cmd.Flags().IntVar(&keep, "prune", 0, "Delete all but the newest N runs")

	return cmd
}
