package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"regbet/internal/manifest"
)

func newRunsCommand(cmdCtx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs [run-id]",
		Short: "Show recorded batch runs, or the cases of one run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := manifest.Open(cfg)
			if err != nil {
				return fmt.Errorf("open run history: %w", err)
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if len(args) == 1 {
				return renderRunCases(cmd, store, args[0])
			}

			runs, err := store.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list runs: %w", err)
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No recorded runs.")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				finished := "-"
				if run.FinishedAt != nil {
					finished = run.FinishedAt.Local().Format(time.DateTime)
				}
				rows = append(rows, []string{
					run.RunID,
					run.StartedAt.Local().Format(time.DateTime),
					finished,
					fmt.Sprintf("%d/%d", run.Completed, run.Total),
					yesNo(run.Overwrite),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Run", "Started", "Finished", "Completed", "Overwrite"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of runs to list")
	return cmd
}

func renderRunCases(cmd *cobra.Command, store *manifest.Store, runID string) error {
	records, err := store.CasesForRun(cmd.Context(), runID)
	if err != nil {
		return fmt.Errorf("list cases: %w", err)
	}
	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintf(out, "No cases recorded for run %s.\n", runID)
		return nil
	}

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{rec.Name, rec.SourcePath, rec.Outcome, rec.Detail})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Case", "Source", "Outcome", "Detail"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
	))
	return nil
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
