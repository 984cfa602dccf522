package engine

import (
	"time"

	"github.com/forgelogic/reconcile/worker"
)

// Config holds the runtime-adjustable knobs spec.md §6.3 names, gathered
// into one struct per ForgeLogic-nojs's constructor-injection style
// (nojs/runtime.NewRenderer takes its dependencies explicitly rather than
// reading package-level state). Every field has a documented default
// matching the spec.md section that names it; nothing here is a
// process-wide singleton (spec.md §9).
type Config struct {
	// LookaheadWindow is W from spec.md §4.4(b). Recorded here for
	// diagnostics only: reconcile.lookaheadWindow and worker.lookaheadWindow
	// are compile-time constants, since §9 treats W as a tuning constant
	// rather than something that changes after process start.
	LookaheadWindow int

	// TIsolate is the combined old+new subtree node count at or above which a
	// single identity's reconciliation is isolated to the worker pipeline
	// instead of being reconciled in-process, whether or not the drain it
	// belongs to was itself routed to ReconcileSerial or ReconcileParallel
	// (spec.md §4.8 cases (a) and (b)). Runtime-adjustable via SetThresholds.
	TIsolate int

	// TDirectReplace gates the instant-navigation similarity check
	// (spec.md §4.8 step 1). Runtime-adjustable via SetThresholds.
	TDirectReplace int

	// CConcurrent is the minimum drain size routed through the parallel
	// pipeline (spec.md §4.7 step 4). Runtime-adjustable.
	CConcurrent int

	// WorkerPoolSize bounds concurrent off-thread diff computations.
	WorkerPoolSize int64

	// SimilarityCacheCapacity bounds proputil.SimilarityCache (spec.md §5).
	SimilarityCacheCapacity int

	// WorkerSoftTimeout is the per-dispatch timeout before falling back to
	// serial reconciliation (spec.md §4.8 step 5).
	WorkerSoftTimeout time.Duration
}

// DefaultConfig returns spec.md's documented defaults.
func DefaultConfig() Config {
	return Config{
		LookaheadWindow:         4,
		TIsolate:                20,
		TDirectReplace:          worker.DefaultDirectReplaceThreshold,
		CConcurrent:             5,
		WorkerPoolSize:          4,
		SimilarityCacheCapacity: 1000,
		WorkerSoftTimeout:       worker.DefaultSoftTimeout,
	}
}
