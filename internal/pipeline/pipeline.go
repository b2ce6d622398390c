package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gridmerge/internal/merge"
	"gridmerge/internal/model"
	"gridmerge/internal/store"
	"gridmerge/pkg/utils"
)

// RunResult summarizes a completed merge run.
type RunResult struct {
	JobID        string         `json:"job_id"`
	Rows         int            `json:"rows"`
	Columns      []string       `json:"columns"`
	GapFilled    int            `json:"gap_filled"`
	Interpolated int            `json:"interpolated"`
	Exports      []ExportResult `json:"exports"`
	Duration     time.Duration  `json:"duration"`
}

// sourceResult carries one source's aggregated table out of its worker.
type sourceResult struct {
	agg *merge.AggregatedSource
	err error
}

// ------------------- Pipeline Runner -------------------

// Run executes one merge job end to end: per-source load/normalize/aggregate
// workers, the merge barrier, then gap fill, interpolation and export in
// sequence. Stage transitions are strictly forward; any fatal error aborts
// the run at the stage it occurred and no partial merged table is published.
func Run(ctx context.Context, jobID string, spec model.MergeJobSpec) (res *RunResult, err error) {
	start := time.Now()
	fmt.Printf("🚀 Starting merge pipeline for job: %s\n", jobID)

	store.UpdateJobStatus(jobID, "running")
	defer func() {
		if err != nil {
			store.UpdateJobStatus(jobID, "failed")
			store.SaveJobError(jobID, err)
		}
	}()

	if err = spec.Validate(); err != nil {
		return nil, err
	}

	timeout := utils.ParseDuration(spec.Concurrency.JobTimeout, 5*time.Minute)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	startDate, endDate, err := spec.Dates()
	if err != nil {
		return nil, err
	}
	granularity := merge.Granularity(spec.Granularity)
	grid, err := merge.BuildGrid(startDate, endDate, granularity)
	if err != nil {
		return nil, err
	}

	// --- SOURCES STAGE (parallel load → normalize → aggregate) ---
	aggs, err := runSourceWorkers(ctx, jobID, spec, granularity)
	if err != nil {
		return nil, err
	}

	// --- MERGE STAGE ---
	// Barrier: every source above completed or the run already aborted.
	store.UpdateJobStatus(jobID, "merging")
	mergeStart := time.Now()
	store.SaveStageProgress(jobID, "merge", "started", &mergeStart, nil, 0, 0)

	inputs := make([]merge.SourceInput, len(spec.Sources))
	for i, src := range spec.Sources {
		inputs[i] = merge.SourceInput{Agg: aggs[i], Rename: src.Rename}
	}
	frame, err := merge.Merge(grid, granularity, inputs)
	if err != nil {
		return nil, err
	}
	mergeEnd := time.Now()
	store.SaveStageProgress(jobID, "merge", "completed", &mergeStart, &mergeEnd, frame.Len(), 0)
	store.SavePipelineLog(jobID, "merge", "info", "Merged sources onto canonical grid", map[string]interface{}{
		"rows":    frame.Len(),
		"columns": len(frame.Columns),
	})
	fmt.Printf("🔗 Merge complete: %d rows x %d columns\n", frame.Len(), len(frame.Columns))

	// --- GAP FILL STAGE ---
	store.UpdateJobStatus(jobID, "gap_filling")
	gapFilled, err := merge.ForwardFill(frame, spec.GapFill)
	if err != nil {
		return nil, err
	}
	if len(spec.GapFill) > 0 {
		store.SavePipelineLog(jobID, "gap_fill", "info", "Forward fill complete", map[string]interface{}{
			"columns": spec.GapFill,
			"filled":  gapFilled,
		})
		fmt.Printf("🧩 Gap fill: %d cells filled across %d columns\n", gapFilled, len(spec.GapFill))
	}

	// --- INTERPOLATION STAGE (optional) ---
	interpolated := 0
	if spec.Interpolation != nil {
		store.UpdateJobStatus(jobID, "interpolating")
		method := merge.InterpolationMethod(spec.Interpolation.Method)
		for _, col := range spec.Interpolation.Columns {
			n, ierr := merge.Interpolate(frame, col, method, spec.Interpolation.Order)
			if ierr != nil {
				return nil, ierr
			}
			interpolated += n
		}
		store.SavePipelineLog(jobID, "interpolate", "info", "Interpolation complete", map[string]interface{}{
			"method":  spec.Interpolation.Method,
			"columns": spec.Interpolation.Columns,
			"filled":  interpolated,
		})
		fmt.Printf("📈 Interpolation (%s): %d cells filled\n", spec.Interpolation.Method, interpolated)
	}

	// --- EXPORT STAGE ---
	store.UpdateJobStatus(jobID, "exporting")
	exports, err := ExportFrame(ctx, jobID, spec, frame)
	if err != nil {
		return nil, err
	}

	duration := time.Since(start)
	fmt.Printf("🏁 Merge pipeline completed for job %s in %v\n", jobID, duration)
	store.UpdateJobStatus(jobID, "completed")

	return &RunResult{
		JobID:        jobID,
		Rows:         frame.Len(),
		Columns:      frame.Columns,
		GapFilled:    gapFilled,
		Interpolated: interpolated,
		Exports:      exports,
		Duration:     duration,
	}, nil
}

// runSourceWorkers loads, normalizes and aggregates every configured source.
// Sources are independent and never alias memory, so they run in parallel
// worker goroutines; results come back in spec order. The first failure wins
// and fails the whole run — there is no partial merge of whatever arrived.
func runSourceWorkers(ctx context.Context, jobID string, spec model.MergeJobSpec, g merge.Granularity) ([]*merge.AggregatedSource, error) {
	stageStart := time.Now()
	store.UpdateJobStatus(jobID, "loading")
	store.SaveStageProgress(jobID, "sources", "started", &stageStart, nil, 0, 0)
	store.SavePipelineLog(jobID, "sources", "info", "Starting source workers", map[string]interface{}{
		"sources_count": len(spec.Sources),
	})

	workers := spec.Concurrency.SourceWorkers
	if workers == 0 {
		workers = 4 // default
	}
	if workers > len(spec.Sources) {
		workers = len(spec.Sources)
	}

	type job struct {
		idx int
		src model.SourceSpec
	}
	jobs := make(chan job)
	results := make([]sourceResult, len(spec.Sources))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(workerID int) {
			defer wg.Done()
			for j := range jobs {
				agg, err := processSource(ctx, jobID, j.src, g)
				results[j.idx] = sourceResult{agg: agg, err: err}
				if err != nil {
					fmt.Printf("❌ Source worker %d: %s failed - %v\n", workerID, j.src.Name, err)
					cancel() // fail fast: remaining sources stop loading
					return
				}
				fmt.Printf("✅ Source worker %d: %s aggregated\n", workerID, j.src.Name)
			}
		}(w)
	}

	for i, src := range spec.Sources {
		select {
		case <-ctx.Done():
		case jobs <- job{idx: i, src: src}:
		}
	}
	close(jobs)
	wg.Wait()

	rows := 0
	aggs := make([]*merge.AggregatedSource, len(results))
	for i, r := range results {
		if r.err != nil {
			return nil, r.err
		}
		if r.agg == nil {
			// Worker exited before reaching this source (another one failed
			// or the context expired).
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return nil, fmt.Errorf("source %s was never processed", spec.Sources[i].Name)
		}
		aggs[i] = r.agg
		rows += len(r.agg.Slots)
	}

	stageEnd := time.Now()
	store.SaveStageProgress(jobID, "sources", "completed", &stageStart, &stageEnd, rows, 0)
	store.SavePipelineLog(jobID, "sources", "info", "Source workers completed", map[string]interface{}{
		"aggregated_slots": rows,
		"duration_ms":      stageEnd.Sub(stageStart).Milliseconds(),
	})
	return aggs, nil
}

// processSource runs one source through load → normalize → aggregate →
// derived columns, recording its stats in the store.
func processSource(ctx context.Context, jobID string, src model.SourceSpec, g merge.Granularity) (*merge.AggregatedSource, error) {
	ds, err := LoadSource(ctx, src)
	if err != nil {
		return nil, err
	}

	ns, err := merge.Normalize(ds, src.Timestamp.MergeRule(), g)
	if err != nil {
		return nil, err
	}
	if ns.Dropped > 0 {
		store.SavePipelineLog(jobID, "normalize", "warning", "Dropped rows with unparseable timestamps", map[string]interface{}{
			"source":  src.Name,
			"dropped": ns.Dropped,
		})
	}
	if ns.ClockChangePeriods > 0 {
		store.SavePipelineLog(jobID, "normalize", "warning", "Settlement periods beyond 48 on clock-change days", map[string]interface{}{
			"source":  src.Name,
			"periods": ns.ClockChangePeriods,
		})
	}

	agg, err := merge.Aggregate(ns, src.MergeRules())
	if err != nil {
		return nil, err
	}
	for _, d := range src.Derived {
		if err := agg.AddDerived(d.Name, d.From, d.Factor); err != nil {
			return nil, err
		}
	}

	store.SaveSourceStats(jobID, store.SourceStats{
		Source:             src.Name,
		RowsLoaded:         len(ds.Rows),
		RowsDropped:        ns.Dropped,
		ClockChangePeriods: ns.ClockChangePeriods,
		SlotsAggregated:    len(agg.Slots),
	})
	return agg, nil
}
