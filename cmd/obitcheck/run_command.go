package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"obitcheck/internal/checkpoint"
	"obitcheck/internal/config"
	"obitcheck/internal/obitsearch"
	"obitcheck/internal/records"
	"obitcheck/internal/scheduler"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var appendFlag bool
	var overwriteFlag bool

	cmd := &cobra.Command{
		Use:   "run <input.csv> [input.csv...]",
		Short: "Search obituaries for each eligible candidate and partition the rows",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if appendFlag && overwriteFlag {
				return errors.New("--append and --overwrite are mutually exclusive")
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			appendMode, err := resolveAppendMode(cmd, cfg, appendFlag, overwriteFlag)
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			searcher := newSearcher(cfg, logger)
			store := checkpoint.NewStore(cfg.Paths.StateDir, logger)

			for i, input := range args {
				inputPath, err := config.ExpandPath(input)
				if err != nil {
					return fmt.Errorf("resolve input path: %w", err)
				}
				// Later inputs always append so earlier output survives.
				summary, err := processInput(runCtx, cfg, logger, searcher, store, inputPath, appendMode || i > 0)
				fmt.Fprintln(cmd.OutOrStdout(), renderSummary(inputPath, summary))
				if err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&appendFlag, "append", false, "Append to existing output files")
	cmd.Flags().BoolVar(&overwriteFlag, "overwrite", false, "Overwrite existing output files")
	return cmd
}

// resolveAppendMode decides what to do with existing output files. Explicit
// flags win; otherwise an interactive session is asked and a non-interactive
// one appends, which is the safe default for resumed runs.
func resolveAppendMode(cmd *cobra.Command, cfg *config.Config, appendFlag, overwriteFlag bool) (bool, error) {
	if overwriteFlag {
		return false, nil
	}
	if appendFlag {
		return true, nil
	}
	exists := false
	for _, path := range []string{cfg.Output.KeptPath, cfg.Output.RemovedPath} {
		if info, err := os.Stat(path); err == nil && info.Size() > 0 {
			exists = true
			break
		}
	}
	if !exists {
		return false, nil
	}
	return promptAppend(cmd.InOrStdin(), cmd.OutOrStdout())
}

func newSearcher(cfg *config.Config, logger *slog.Logger) *obitsearch.Client {
	limiter := rate.NewLimiter(rate.Limit(cfg.Search.RequestsPerSecond), cfg.Search.Burst)
	return obitsearch.NewClient(obitsearch.Config{
		BaseURL:        cfg.Search.BaseURL,
		CountryID:      cfg.Search.CountryID,
		RegionID:       cfg.Search.RegionID,
		StartDate:      cfg.Search.StartDate,
		EndDate:        cfg.Search.EndDate,
		Limit:          cfg.Search.Limit,
		NoticeType:     cfg.Search.NoticeType,
		UserAgent:      cfg.Search.UserAgent,
		Referer:        cfg.Search.Referer,
		TimeoutSeconds: cfg.Search.TimeoutSeconds,
		MaxAttempts:    cfg.Retry.MaxAttempts,
		RateLimitBase:  time.Duration(cfg.Retry.RateLimitBaseSeconds) * time.Second,
		TransientWait:  time.Duration(cfg.Retry.TransientWaitSeconds) * time.Second,
		JitterMin:      time.Duration(cfg.Retry.JitterMinMillis) * time.Millisecond,
		JitterMax:      time.Duration(cfg.Retry.JitterMaxMillis) * time.Millisecond,
	}, obitsearch.WithLimiter(limiter), obitsearch.WithLogger(logger))
}

// processInput runs one input file end to end under an exclusive per-input
// lock, so two invocations cannot interleave writes to the same checkpoint.
func processInput(ctx context.Context, cfg *config.Config, logger *slog.Logger, searcher scheduler.Searcher, store *checkpoint.Store, inputPath string, appendMode bool) (scheduler.RunSummary, error) {
	var zero scheduler.RunSummary

	key := checkpoint.KeyFor(inputPath)
	lock := flock.New(filepath.Join(cfg.Paths.StateDir, key+".lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return zero, fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return zero, fmt.Errorf("input %s is already being processed by another obitcheck run", inputPath)
	}
	defer lock.Unlock()

	header, rows, err := records.ReadFile(inputPath)
	if err != nil {
		return zero, err
	}

	kept, err := records.NewWriter(cfg.Output.KeptPath, scheduler.KeptColumns(header), appendMode)
	if err != nil {
		return zero, err
	}
	defer kept.Close()
	removed, err := records.NewWriter(cfg.Output.RemovedPath, scheduler.RemovedColumns(header), appendMode)
	if err != nil {
		return zero, err
	}
	defer removed.Close()

	runner := scheduler.New(searcher, store, kept, removed, logger, scheduler.Options{
		BatchSize:   cfg.Run.BatchSize,
		Concurrency: cfg.Run.Concurrency,
		BatchPause:  time.Duration(cfg.Run.BatchPauseSeconds) * time.Second,
		Plan: scheduler.PlanOptions{
			FirstNameColumn:   cfg.Input.FirstNameColumn,
			LastNameColumn:    cfg.Input.LastNameColumn,
			ExpirationColumn:  cfg.Input.ExpirationColumn,
			MinExpirationYear: cfg.Input.MinExpirationYear,
			MinNameLength:     cfg.Input.MinNameLength,
		},
	})
	return runner.Run(ctx, inputPath, rows)
}

func renderSummary(inputPath string, summary scheduler.RunSummary) string {
	status := "halted"
	if summary.Completed {
		status = "completed"
	}
	pairs := [][2]string{
		{"Input", filepath.Base(inputPath)},
		{"Run ID", summary.RunID},
		{"Status", status},
		{"Eligible", strconv.Itoa(summary.Eligible)},
		{"Processed", strconv.Itoa(summary.Processed)},
		{"With obituaries", strconv.Itoa(summary.Found)},
		{"Kept", strconv.Itoa(summary.Kept)},
		{"Removed", strconv.Itoa(summary.Removed)},
		{"Batches", strconv.Itoa(summary.Batches)},
	}
	if summary.HaltReason != "" {
		pairs = append(pairs, [2]string{"Halt reason", summary.HaltReason})
	}
	return renderFieldList(pairs)
}
