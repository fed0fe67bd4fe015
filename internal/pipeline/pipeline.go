// Package pipeline is the generic fetch → merge/validate → insert engine
// behind the ETL ingestion jobs. A run fetches from several named data
// sources concurrently and, depending on the mode fixed at construction,
// either pushes each source's records through its own transform and
// insert in isolation, merges everything into a single insert, or leaves
// side effects to the sources themselves.
package pipeline

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/lega0208/upd-new-sub004/internal/logging"
)

// Mode selects the execution behavior of an assembled pipeline. It is an
// explicit variant rather than something inferred from which optional
// hooks happen to be set.
type Mode int

const (
	// ModeIndependent runs fetch, transform and insert per source, fully
	// isolated: one source failing never stops its siblings or the run.
	ModeIndependent Mode = iota
	// ModeMerge collects the raw results of every source, merges them
	// into one set and inserts once. Merge and insert failures fail the
	// run.
	ModeMerge
	// ModeHookOnly runs sources for their side effects only; the
	// pipeline contributes concurrency, isolation and the completion
	// hook.
	ModeHookOnly
)

// Source is one named, independently invokable fetch function.
type Source[T any] func(ctx context.Context) ([]T, error)

// Transform reshapes a record set before insert. In independent mode it
// runs per source (name identifies which); in merge mode it runs once on
// the merged set with an empty name.
type Transform[T any] func(ctx context.Context, source string, items []T, run *RunContext) ([]T, error)

// Insert persists a record set.
type Insert[T any] func(ctx context.Context, items []T) error

// Merge combines the raw per-source results into one set.
type Merge[T any] func(ctx context.Context, results map[string][]T, run *RunContext) ([]T, error)

// CompletionHook runs exactly once after all source work settles.
type CompletionHook func(ctx context.Context, run *RunContext) error

// SourceResult is the outcome of one source within a run. Failures are
// values here, not panics or aborted runs, so partial failure can be
// aggregated and logged.
type SourceResult struct {
	Source string
	Count  int
	Err    error
}

// RunContext threads ephemeral state between hooks of a single run. A
// fresh one is created per invocation.
type RunContext struct {
	mu     sync.Mutex
	values map[string]any
}

func newRunContext() *RunContext {
	return &RunContext{values: make(map[string]any)}
}

// Set stores a value for later hooks.
func (r *RunContext) Set(key string, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = value
}

// Get returns a value stored by an earlier hook.
func (r *RunContext) Get(key string) (any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.values[key]
	return v, ok
}

// Config describes one ingestion pipeline. Build it with NewIndependent,
// NewMerge or NewHookOnly; the mode is fixed from there on.
type Config[T any] struct {
	mode       Mode
	sources    map[string]Source[T]
	transform  Transform[T]
	insert     Insert[T]
	merge      Merge[T]
	onComplete CompletionHook
	log        logging.Logger
}

// NewIndependent builds an independent-mode pipeline. transform and
// onComplete may be nil.
func NewIndependent[T any](sources map[string]Source[T], transform Transform[T], insert Insert[T], onComplete CompletionHook, log logging.Logger) Config[T] {
	return Config[T]{
		mode:       ModeIndependent,
		sources:    sources,
		transform:  transform,
		insert:     insert,
		onComplete: onComplete,
		log:        log,
	}
}

// NewMerge builds a merge-mode pipeline. transform and onComplete may be
// nil; merge and insert are required.
func NewMerge[T any](sources map[string]Source[T], merge Merge[T], transform Transform[T], insert Insert[T], onComplete CompletionHook, log logging.Logger) Config[T] {
	return Config[T]{
		mode:       ModeMerge,
		sources:    sources,
		merge:      merge,
		transform:  transform,
		insert:     insert,
		onComplete: onComplete,
		log:        log,
	}
}

// NewHookOnly builds a hook-only pipeline: sources persist their own
// records and the pipeline only coordinates.
func NewHookOnly[T any](sources map[string]Source[T], onComplete CompletionHook, log logging.Logger) Config[T] {
	return Config[T]{
		mode:       ModeHookOnly,
		sources:    sources,
		onComplete: onComplete,
		log:        log,
	}
}

// Assemble returns the runnable closure for a config. Nothing executes
// until the closure is invoked, so callers can compose or schedule it.
func Assemble[T any](cfg Config[T]) func(context.Context) error {
	return func(ctx context.Context) error {
		run := newRunContext()
		var err error
		switch cfg.mode {
		case ModeMerge:
			err = runMerge(ctx, cfg, run)
		case ModeHookOnly:
			err = runIsolated(ctx, cfg, run, false)
		default:
			err = runIsolated(ctx, cfg, run, true)
		}
		if err != nil {
			return err
		}
		if cfg.onComplete != nil {
			if err := cfg.onComplete(ctx, run); err != nil {
				return fmt.Errorf("completion hook: %w", err)
			}
		}
		return nil
	}
}

// runIsolated executes every source concurrently, each one's
// fetch+transform+insert fully isolated from its siblings. Failures are
// captured per source and summarized after everything settles; the run
// itself never fails because one source did. In-flight sources are not
// hard-aborted on a sibling failure so inserts that already began can
// finish.
func runIsolated[T any](ctx context.Context, cfg Config[T], run *RunContext, insert bool) error {
	results := make([]SourceResult, 0, len(cfg.sources))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for name, src := range cfg.sources {
		wg.Add(1)
		go func(name string, src Source[T]) {
			defer wg.Done()
			res := runSource(ctx, cfg, run, name, src, insert)
			mu.Lock()
			results = append(results, res)
			mu.Unlock()
		}(name, src)
	}
	wg.Wait()

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			cfg.log.Error("pipeline source failed", "source", res.Source, "err", res.Err)
		}
	}
	if failed > 0 {
		cfg.log.Error("pipeline run finished with source failures",
			"failed", failed, "succeeded", len(results)-failed)
	}
	return nil
}

func runSource[T any](ctx context.Context, cfg Config[T], run *RunContext, name string, src Source[T], insert bool) SourceResult {
	res := SourceResult{Source: name}
	items, err := src(ctx)
	if err != nil {
		res.Err = fmt.Errorf("fetch: %w", err)
		return res
	}
	if cfg.transform != nil {
		items, err = cfg.transform(ctx, name, items, run)
		if err != nil {
			res.Err = fmt.Errorf("transform: %w", err)
			return res
		}
	}
	if insert && cfg.insert != nil {
		if err := cfg.insert(ctx, items); err != nil {
			res.Err = fmt.Errorf("insert: %w", err)
			return res
		}
	}
	res.Count = len(items)
	return res
}

// runMerge fetches all sources concurrently, waits for every one to
// settle, then merges and inserts once. Unlike independent mode, a
// source failure here fails the run: the merge is atomic with respect to
// its sources.
func runMerge[T any](ctx context.Context, cfg Config[T], run *RunContext) error {
	raw := make(map[string][]T, len(cfg.sources))
	var mu sync.Mutex
	var g errgroup.Group

	for name, src := range cfg.sources {
		g.Go(func() error {
			items, err := src(ctx)
			if err != nil {
				return fmt.Errorf("source %s: %w", name, err)
			}
			mu.Lock()
			raw[name] = items
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	merged, err := cfg.merge(ctx, raw, run)
	if err != nil {
		return fmt.Errorf("merge: %w", err)
	}
	if cfg.transform != nil {
		merged, err = cfg.transform(ctx, "", merged, run)
		if err != nil {
			return fmt.Errorf("transform: %w", err)
		}
	}
	if err := cfg.insert(ctx, merged); err != nil {
		return fmt.Errorf("insert: %w", err)
	}
	return nil
}
