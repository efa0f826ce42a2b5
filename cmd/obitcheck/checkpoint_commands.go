package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"obitcheck/internal/checkpoint"
)

func newCheckpointCommand(ctx *commandContext) *cobra.Command {
	checkpointCmd := &cobra.Command{
		Use:   "checkpoint",
		Short: "Inspect and manage run checkpoints",
	}

	checkpointCmd.AddCommand(newCheckpointShowCommand(ctx))
	checkpointCmd.AddCommand(newCheckpointClearCommand(ctx))

	return checkpointCmd
}

func newCheckpointShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <input>",
		Short: "Print the stored checkpoint for an input file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store := checkpoint.NewStore(cfg.Paths.StateDir, nil)
			key := checkpoint.KeyFor(args[0])
			state := store.Load(key)
			data, err := json.MarshalIndent(state, "", "  ")
			if err != nil {
				return fmt.Errorf("encode checkpoint: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

func newCheckpointClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <input>",
		Short: "Remove the stored checkpoint so the next run starts from the top",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store := checkpoint.NewStore(cfg.Paths.StateDir, nil)
			key := checkpoint.KeyFor(args[0])
			if err := store.Clear(key); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared checkpoint for %s\n", key)
			return nil
		},
	}
}
