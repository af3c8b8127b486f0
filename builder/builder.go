// Package builder implements the model builder (spec.md §4.1): it ingests
// parsed compilation units and produces a frozen model.SourceModel plus
// the CALLS relationships discovered in method bodies.
//
// Parsing runs in parallel over a bounded worker pool (Options.Workers), so
// the caller's parser.SourceParser is called concurrently whenever more
// than one worker is configured — each worker only calls the parser and
// returns a value, never touching shared state. Everything after parsing
// (entity extraction, call extraction, relation completion, indexing,
// enrichment, freeze) runs on a single goroutine,
// matching spec.md §5's concurrency model exactly: the only parallel
// stage is parsing, because only parsing is embarrassingly
// per-file-independent once the upstream parser has been handed a path.
package builder

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/archlint/archlint/model"
	"github.com/archlint/archlint/parser"
)

// getOptimalWorkerCount picks the Phase-1 parallelism: 75% of available
// cores, clamped to [2, 16], overridable via ARCHLINT_MAX_WORKERS. Mirrors
// the teacher's getOptimalWorkerCount (cores*0.75, same clamp, same
// env-var escape hatch).
func getOptimalWorkerCount() int {
	if env := os.Getenv("ARCHLINT_MAX_WORKERS"); env != "" {
		if n, err := strconv.Atoi(env); err == nil && n > 0 {
			if n > 32 {
				n = 32
			}
			return n
		}
	}
	workers := int(float64(runtime.NumCPU()) * 0.75)
	if workers < 2 {
		workers = 2
	}
	if workers > 16 {
		workers = 16
	}
	return workers
}

// Options configures Build.
type Options struct {
	// Parser is the upstream collaborator producing a CompilationUnit per
	// file. Required.
	Parser parser.SourceParser

	// Workers overrides the Phase-1 worker pool size. Zero selects
	// getOptimalWorkerCount().
	Workers int

	// ProgressFunc, if set, is called after each file finishes Phase 1
	// parsing (successful or not), for progress reporting. It must be
	// safe to call concurrently.
	ProgressFunc func(path string, ok bool)
}

type parseResult struct {
	index int
	path  string
	unit  parser.CompilationUnit
	err   error
}

// Build runs the full six-phase pipeline and returns the frozen model,
// the CALLS edges (also queryable from the model itself via
// RelationshipsOfKind(KindCalls), returned separately per spec.md §6's
// build_model contract), and parse statistics.
func Build(files []string, opts Options) (*model.SourceModel, []model.Relationship, ParseStats, error) {
	start := time.Now()
	stats := ParseStats{RunID: uuid.NewString(), Files: make([]FileStat, 0, len(files))}

	units, parseWarnings := parsePhase(files, opts)
	stats.Warnings = append(stats.Warnings, parseWarnings...)

	draft := model.NewDraft()
	ri := newResolutionIndex()
	b := &builderState{draft: draft, ri: ri}

	// Phase 1: entity extraction, single-threaded (it mutates the shared
	// Draft and resolutionIndex).
	var pendingMethods []pendingMethod
	for i, u := range units {
		fs := FileStat{Path: files[i]}
		if u == nil {
			fs.OK = false
			fs.Error = "parse failed"
			stats.Files = append(stats.Files, fs)
			continue
		}
		fs.OK = true
		stats.Files = append(stats.Files, fs)
		stats.FilesProcessed++
		pendingMethods = append(pendingMethods, b.extractFile(*u)...)
	}

	// Phase 2: call extraction, using Phase-1-populated entities for
	// symbol lookup.
	for _, pm := range pendingMethods {
		b.extractCalls(pm)
	}

	// Phase 3: relationship completion (CONTAINS edges) already emitted
	// inline during Phase 1 extraction (extractFile), since a type's
	// CONTAINS edges are fully known the moment its members are parsed —
	// there is no later information Phase 3 would add for them.

	// Phase 5: enrichment — propagate stereotype markers from a
	// container-component type onto its own methods.
	enrich(draft)

	// Phase 6: freeze.
	sm, err := draft.Freeze()
	if err != nil {
		return nil, nil, stats, fmt.Errorf("freezing model: %w", err)
	}

	calls := sm.RelationshipsOfKind(model.KindCalls)
	stats.TypesExtracted = len(sm.AllTypes())
	stats.MethodsExtracted = len(sm.AllMethods())
	stats.EdgesExtracted = len(calls)
	stats.FieldsExtracted = draft.FieldCount()
	stats.ElapsedMillis = time.Since(start).Milliseconds()

	return sm, calls, stats, nil
}

// parsePhase runs Phase 1's parsing step, in parallel when more than one
// worker is configured, preserving the original file order in the
// returned slice so every later phase is deterministic regardless of
// which goroutine finished first.
func parsePhase(files []string, opts Options) ([]*parser.CompilationUnit, []string) {
	units := make([]*parser.CompilationUnit, len(files))
	var warnings []string
	var warnMu sync.Mutex

	workers := opts.Workers
	if workers <= 0 {
		workers = getOptimalWorkerCount()
	}
	if workers > len(files) {
		workers = len(files)
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int)
	results := make(chan parseResult, len(files))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				unit, err := opts.Parser(files[idx])
				results <- parseResult{index: idx, path: files[idx], unit: unit, err: err}
				if opts.ProgressFunc != nil {
					opts.ProgressFunc(files[idx], err == nil)
				}
			}
		}()
	}

	go func() {
		for i := range files {
			jobs <- i
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	for r := range results {
		if r.err != nil {
			warnMu.Lock()
			warnings = append(warnings, fmt.Sprintf("parse failure for %s: %v", r.path, r.err))
			warnMu.Unlock()
			continue
		}
		u := r.unit
		units[r.index] = &u
	}

	return units, warnings
}
