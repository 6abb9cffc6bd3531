// Copyright 2026 Emberfield Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package enrich

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/emberfield/faultwise/core"
)

// Summary reports the outcome of a pipeline run.
type Summary struct {
	// Total is the record count after deduplication and the test-mode cap.
	Total int

	// Succeeded and Failed count records that reached a terminal state in
	// this run. Records left untouched by an aborted run count in neither.
	Succeeded int
	Failed    int

	// Skipped counts records already completed by a previous run and
	// carried over from its output.
	Skipped int
}

// Runner drives a full enrichment run: load, dedup, resume, fan out over a
// fixed worker pool, checkpoint, and flush batched output.
type Runner struct {
	cfg      *Config
	enricher *Enricher
	logger   *slog.Logger
	progress io.Writer
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRunnerLogger sets a custom logger. Default is slog.Default().
func WithRunnerLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithProgressWriter sets the destination for the live progress line.
// Default is stdout; io.Discard silences it.
func WithProgressWriter(w io.Writer) RunnerOption {
	return func(r *Runner) {
		if w != nil {
			r.progress = w
		}
	}
}

// NewRunner creates a runner for the given configuration and enricher.
func NewRunner(cfg *Config, enricher *Enricher, opts ...RunnerOption) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if enricher == nil {
		return nil, ErrGeneratorRequired
	}

	r := &Runner{
		cfg:      cfg,
		enricher: enricher,
		logger:   slog.Default().With("component", "runner"),
		progress: os.Stdout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Run executes the pipeline until every record reaches a terminal state or
// the context is cancelled. A record is submitted at most once per run;
// records completed by a previous run are carried over from its output and
// skipped. Both outcomes, enriched and failed, advance the checkpoint, so a
// resumed run never re-spends calls on a record it already settled.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	records, err := core.ReadRecords(r.cfg.InputPath)
	if err != nil {
		return nil, err
	}

	loaded := len(records)
	records = core.Deduplicate(records)
	if dupes := loaded - len(records); dupes > 0 {
		r.logger.Info("removed duplicate records", "duplicates", dupes, "remaining", len(records))
	}

	if r.cfg.TestMode && len(records) > r.cfg.TestCount {
		r.logger.Info("test mode, capping run", "cap", r.cfg.TestCount, "total", len(records))
		records = records[:r.cfg.TestCount]
	}

	checkpoint := NewCheckpoint(CheckpointPath(r.cfg.OutputPath))
	if err := checkpoint.Load(); err != nil {
		return nil, err
	}

	sink := NewSink(r.cfg.OutputPath, r.cfg.Model, r.cfg.TestMode)

	slots, skipped, err := r.seedSlots(records, checkpoint, sink)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		r.logger.Info("resuming previous run", "completed", skipped, "remaining", len(records)-skipped)
	}

	pool, err := ants.NewPool(r.cfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	tracker := NewTracker(r.progress, len(records), 1)
	tracker.Start()
	tracker.Increment(skipped)

	summary := &Summary{Total: len(records), Skipped: skipped}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		completed int
		runErr    error
	)

	// Infrastructure failures (checkpoint or flush writes) abort the run:
	// workers in flight finish, nothing new starts, and the checkpoint is
	// kept so the next run resumes cleanly.
	abort := func(err error) {
		if runErr == nil {
			runErr = err
		}
		cancel()
	}

	for index := range records {
		if checkpoint.Done(index) {
			continue
		}

		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()

			if runCtx.Err() != nil {
				return
			}

			result := r.enricher.Enrich(runCtx, records[index], index)
			if result.State == StateFailed && runCtx.Err() != nil {
				// Aborted mid-record, leave it for the next run.
				return
			}

			mu.Lock()
			defer mu.Unlock()

			slots[index] = result.Fault
			if result.State == StateDone {
				summary.Succeeded++
			} else {
				summary.Failed++
				r.logger.Warn("record failed", "fault", records[index].Key(),
					"index", index, "err", result.Err)
			}

			if err := checkpoint.MarkDone(index); err != nil {
				abort(fmt.Errorf("write checkpoint: %w", err))
				return
			}

			completed++
			if completed%r.cfg.BatchSize == 0 {
				if err := sink.Flush(slots); err != nil {
					abort(fmt.Errorf("flush output: %w", err))
					return
				}
			}
			tracker.Increment(1)
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			abort(fmt.Errorf("submit record %d: %w", index, submitErr))
			mu.Unlock()
			break
		}
	}

	wg.Wait()
	tracker.Finish()

	mu.Lock()
	defer mu.Unlock()

	if err := sink.Flush(slots); err != nil && runErr == nil {
		runErr = fmt.Errorf("flush output: %w", err)
	}
	if runErr != nil {
		return summary, runErr
	}
	if err := ctx.Err(); err != nil {
		return summary, err
	}

	// Every record settled: the checkpoint has served its purpose.
	if checkpoint.Count() >= len(records) {
		if err := checkpoint.Clear(); err != nil {
			r.logger.Warn("could not remove checkpoint file", "err", err)
		}
	}

	r.logger.Info("run complete", "total", summary.Total, "succeeded", summary.Succeeded,
		"failed", summary.Failed, "skipped", summary.Skipped, "elapsed", tracker.Elapsed())
	return summary, nil
}

// seedSlots builds the output slot array, carrying over records already
// settled by a previous run. Settled records are matched by identity key in
// the previous output so their enrichment survives the resume; when the
// previous output is missing the raw record stands in.
func (r *Runner) seedSlots(records []*core.Fault, checkpoint *Checkpoint, sink *Sink) ([]*core.Fault, int, error) {
	slots := make([]*core.Fault, len(records))
	if checkpoint.Count() == 0 {
		return slots, 0, nil
	}

	previous, err := sink.LoadPrevious()
	if err != nil {
		return nil, 0, fmt.Errorf("load previous output: %w", err)
	}

	skipped := 0
	for index, record := range records {
		if !checkpoint.Done(index) {
			continue
		}
		if prior, ok := previous[record.Key()]; ok {
			slots[index] = prior
		} else {
			slots[index] = record
		}
		skipped++
	}
	return slots, skipped, nil
}
