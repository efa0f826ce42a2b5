package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"obitcheck/internal/checkpoint"
	"obitcheck/internal/logging"
	"obitcheck/internal/names"
	"obitcheck/internal/obitsearch"
	"obitcheck/internal/records"
)

// Searcher performs one obituary lookup for a candidate.
type Searcher interface {
	Search(ctx context.Context, firstName, lastName string) (obitsearch.Result, error)
}

// Options control batching and pacing for a run.
type Options struct {
	BatchSize   int
	Concurrency int
	BatchPause  time.Duration
	Plan        PlanOptions
}

// RunSummary reports what one run accomplished.
type RunSummary struct {
	RunID      string
	InputKey   string
	Eligible   int
	Processed  int
	Found      int
	Kept       int
	Removed    int
	Batches    int
	Completed  bool
	HaltReason string
}

// Runner executes the batch pipeline for one input file.
type Runner struct {
	searcher Searcher
	store    *checkpoint.Store
	kept     *records.Writer
	removed  *records.Writer
	logger   *slog.Logger
	opts     Options
	sleep    func(ctx context.Context, d time.Duration) error
}

// New constructs a runner. The kept and removed writers must already be open
// with the matching column sets.
func New(searcher Searcher, store *checkpoint.Store, kept, removed *records.Writer, logger *slog.Logger, opts Options) *Runner {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 1
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	return &Runner{
		searcher: searcher,
		store:    store,
		kept:     kept,
		removed:  removed,
		logger:   logging.NewComponentLogger(logger, "scheduler"),
		opts:     opts,
		sleep:    sleepContext,
	}
}

// Run processes rows from inputPath, resuming from the stored checkpoint.
// It returns a summary alongside any terminal error; on terminal errors the
// checkpoint reflects the last fully-completed batch with the failure
// recorded, so re-invocation resumes exactly where the run stopped.
func (r *Runner) Run(ctx context.Context, inputPath string, rows []records.Row) (RunSummary, error) {
	key := checkpoint.KeyFor(inputPath)
	state := r.store.Load(key)
	state.FilePath = inputPath
	state.LastError = ""

	candidates := Plan(rows, state, r.opts.Plan)
	summary := RunSummary{RunID: uuid.NewString(), InputKey: key, Eligible: len(candidates)}
	logger := r.logger.With(
		logging.String(logging.FieldRunID, summary.RunID),
		logging.String(logging.FieldInputKey, key),
	)
	logger.Info("run starting",
		logging.Int("total_rows", len(rows)),
		logging.Int("eligible", len(candidates)),
		logging.Int("resume_index", state.LastProcessedIndex))

	allBatches := batches(candidates, r.opts.BatchSize)
	for bi, batch := range allBatches {
		batchLogger := logger.With(logging.Int(logging.FieldBatch, bi+1))

		outcomes, err := r.processBatch(ctx, batch)
		if err != nil {
			return r.halt(summary, key, state, err, batchLogger)
		}

		for _, outcome := range outcomes {
			row := Partition(outcome)
			if werr := r.write(row); werr != nil {
				return r.halt(summary, key, state, werr, batchLogger)
			}
			state.TotalProcessed++
			summary.Processed++
			if outcome.TotalFound > 0 {
				state.TotalFound++
				summary.Found++
			}
			if row.Kept {
				summary.Kept++
			} else {
				summary.Removed++
			}
		}

		state.LastProcessedIndex = batch[len(batch)-1].Row.Index
		state.Timestamp = time.Now().UTC()
		if err := r.store.Save(key, state); err != nil {
			// Losing resumability costs reprocessing a few rows; losing
			// already-fetched matches is worse, so the run continues.
			batchLogger.Warn("checkpoint save failed, continuing", logging.Error(err))
		}
		summary.Batches++
		batchLogger.Info("batch complete",
			logging.Int("processed", state.TotalProcessed),
			logging.Int("found", state.TotalFound))

		if bi < len(allBatches)-1 && r.opts.BatchPause > 0 {
			if err := r.sleep(ctx, r.opts.BatchPause); err != nil {
				return r.halt(summary, key, state, err, logger)
			}
		}
	}

	state.Completed = true
	state.Timestamp = time.Now().UTC()
	if err := r.store.Save(key, state); err != nil {
		logger.Warn("final checkpoint save failed", logging.Error(err))
	}
	summary.Completed = true
	logger.Info("run complete",
		logging.Int("processed", summary.Processed),
		logging.Int("kept", summary.Kept),
		logging.Int("removed", summary.Removed))
	return summary, nil
}

// processBatch dispatches every candidate concurrently under the configured
// bound and collects outcomes by batch position, so callers observe input
// order regardless of completion order. The first terminal error cancels
// in-flight siblings.
func (r *Runner) processBatch(ctx context.Context, batch []Candidate) ([]SearchOutcome, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Concurrency)

	outcomes := make([]SearchOutcome, len(batch))
	for i, candidate := range batch {
		g.Go(func() error {
			result, err := r.searcher.Search(gctx, candidate.FirstName, candidate.LastName)
			if err != nil {
				return fmt.Errorf("row %d (%s %s): %w",
					candidate.Row.Index, candidate.FirstName, candidate.LastName, err)
			}
			outcomes[i] = evaluate(candidate, result)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// evaluate routes each returned entry through the name matcher.
func evaluate(candidate Candidate, result obitsearch.Result) SearchOutcome {
	outcome := SearchOutcome{
		Candidate:  candidate,
		FailedOpen: result.FailedOpen,
		TotalFound: len(result.Entries),
	}
	for _, entry := range result.Entries {
		decision := names.Match(candidate.FirstName, candidate.LastName, names.Record{
			FirstName:  entry.Name.FirstName,
			LastName:   entry.Name.LastName,
			MiddleName: entry.Name.MiddleName,
			NickName:   entry.Name.NickName,
			MaidenName: entry.Name.MaidenName,
		})
		verdict := EntryVerdict{Entry: entry, Decision: decision}
		if decision.Match {
			outcome.Matched = append(outcome.Matched, verdict)
		} else {
			outcome.Unmatched = append(outcome.Unmatched, verdict)
		}
	}
	return outcome
}

func (r *Runner) write(row PartitionedRow) error {
	if row.Kept {
		return r.kept.Append(row.Fields)
	}
	return r.removed.Append(row.Fields)
}

func (r *Runner) halt(summary RunSummary, key string, state checkpoint.State, cause error, logger *slog.Logger) (RunSummary, error) {
	state.LastError = cause.Error()
	state.Timestamp = time.Now().UTC()
	if err := r.store.Save(key, state); err != nil {
		logger.Warn("checkpoint save failed during halt", logging.Error(err))
	}
	summary.HaltReason = cause.Error()
	logger.Error("run halted", logging.Error(cause))
	return summary, cause
}

func sleepContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
