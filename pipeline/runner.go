// Package pipeline drives the full normalization run for one or more
// sources: fetch raw records, normalize each, track failures, flush the
// successes through the batch loader and report aggregate counts.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"tendertrail/database"
	"tendertrail/normalization"
	"tendertrail/schema"
)

// Result summarizes one source run.
type Result struct {
	Source    string        `json:"source"`
	Processed int           `json:"processed_count"`
	Errors    int           `json:"error_count"`
	Duration  time.Duration `json:"-"`
}

// Runner is the pipeline orchestrator. Workers > 1 parallelizes the
// normalization stage; results are re-sequenced to input order, so error
// tracking and batch composition stay deterministic either way.
type Runner struct {
	registry   *schema.Registry
	normalizer *normalization.Normalizer
	loader     *database.BatchLoader
	tracker    normalization.ErrorTracker
	db         *database.DB
	workers    int
	logger     *slog.Logger
}

// NewRunner wires the orchestrator. db may be nil when callers always pass
// raw records in memory. workers < 1 is treated as 1.
func NewRunner(registry *schema.Registry, normalizer *normalization.Normalizer,
	loader *database.BatchLoader, tracker normalization.ErrorTracker,
	db *database.DB, workers int) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{
		registry:   registry,
		normalizer: normalizer,
		loader:     loader,
		tracker:    tracker,
		db:         db,
		workers:    workers,
		logger:     slog.Default().With("component", "pipeline"),
	}
}

// ProcessSource normalizes a collection of raw records for one source.
// Record-level problems are tracked and counted; the only error return is
// an unknown source name.
func (r *Runner) ProcessSource(ctx context.Context, source string, raws []normalization.RawRecord) (Result, error) {
	start := time.Now()

	src, err := r.registry.SourceSchema(source)
	if err != nil {
		return Result{Source: source}, err
	}

	result := Result{Source: src.Name}
	var buffer []*normalization.UnifiedTender

	for _, outcome := range r.normalizeAll(ctx, raws, src) {
		if outcome.failure != nil {
			r.tracker.Record(outcome.failure)
			result.Errors++
			continue
		}
		buffer = append(buffer, outcome.tender)
	}

	inserted, loadFailures := r.loader.Load(ctx, buffer)
	result.Processed = inserted
	for _, lf := range loadFailures {
		r.tracker.Record(&normalization.NormalizationError{
			RawID:     lf.RawID,
			Source:    lf.Source,
			Stage:     normalization.StageLoad,
			Message:   lf.Err.Error(),
			CreatedAt: time.Now().UTC(),
		})
		result.Errors++
	}

	result.Duration = time.Since(start)
	r.logger.Info("source run finished",
		"source", src.Name,
		"records", len(raws),
		"processed", result.Processed,
		"errors", result.Errors,
		"duration", result.Duration.Round(time.Millisecond))
	return result, nil
}

// RunStored fetches up to limit raw records for a source from its raw
// table and processes them.
func (r *Runner) RunStored(ctx context.Context, source string, limit int) (Result, error) {
	if r.db == nil {
		return Result{Source: source}, fmt.Errorf("no database configured for stored runs")
	}
	// Resolve the schema first so an unknown source fails before touching
	// raw tables.
	if _, err := r.registry.SourceSchema(source); err != nil {
		return Result{Source: source}, err
	}
	raws, err := r.db.FetchRawRecords(source, limit)
	if err != nil {
		return Result{Source: source}, err
	}
	return r.ProcessSource(ctx, source, raws)
}

// RunAll processes every configured source from its raw table, summing
// counts. Sources whose raw table does not exist yet are skipped.
func (r *Runner) RunAll(ctx context.Context, limit int) ([]Result, error) {
	if r.db == nil {
		return nil, fmt.Errorf("no database configured for stored runs")
	}

	var results []Result
	for _, source := range r.registry.SourceNames() {
		if err := r.db.EnsureRawTable(source); err != nil {
			return results, err
		}
		result, err := r.RunStored(ctx, source, limit)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}

type outcome struct {
	tender  *normalization.UnifiedTender
	failure *normalization.NormalizationError
}

// normalizeAll runs the normalizer over all records, sequentially or on a
// worker pool, returning outcomes in input order.
func (r *Runner) normalizeAll(ctx context.Context, raws []normalization.RawRecord, src *schema.SourceSchema) []outcome {
	outcomes := make([]outcome, len(raws))

	if r.workers == 1 || len(raws) < 2 {
		for i, raw := range raws {
			tender, failure := r.normalizer.Normalize(ctx, raw, src)
			outcomes[i] = outcome{tender: tender, failure: failure}
		}
		return outcomes
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < r.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				tender, failure := r.normalizer.Normalize(ctx, raws[i], src)
				outcomes[i] = outcome{tender: tender, failure: failure}
			}
		}()
	}
	for i := range raws {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return outcomes
}
