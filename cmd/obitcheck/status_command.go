package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"obitcheck/internal/checkpoint"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show progress for every tracked input file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store := checkpoint.NewStore(cfg.Paths.StateDir, nil)
			snapshots, err := store.List()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(snapshots) == 0 {
				fmt.Fprintln(out, "No runs tracked yet")
				return nil
			}

			rows := make([][]string, 0, len(snapshots))
			for _, snap := range snapshots {
				lastRun := ""
				if !snap.State.Timestamp.IsZero() {
					lastRun = snap.State.Timestamp.Local().Format("2006-01-02 15:04:05")
				}
				rows = append(rows, []string{
					snap.Key,
					strconv.Itoa(snap.State.TotalProcessed),
					strconv.Itoa(snap.State.TotalFound),
					strconv.Itoa(snap.State.LastProcessedIndex),
					yesNo(snap.State.Completed),
					lastRun,
					snap.State.LastError,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Input", "Processed", "Found", "Last Index", "Completed", "Last Run", "Error"},
				rows,
				1, 2, 3,
			))
			return nil
		},
	}
}
