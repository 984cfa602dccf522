// Package scheduler implements the priority-classified update queue of
// spec.md §4.7: a coalescing pending set, a single interruptible timer, and
// the drain procedure that snapshots the set and hands it to a Driver for
// serial or parallel reconciliation.
//
// Grounded on ForgeLogic-nojs's ReRender/ReRenderSlot dispatch
// (ForgeLogic-nojs/nojs/runtime/renderer_impl.go), which already
// distinguishes "re-render everything" from "re-render one slot" — this
// package generalizes that into priority-ordered batching, since
// ForgeLogic-nojs itself re-renders synchronously with no scheduling layer.
package scheduler

import (
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/forgelogic/reconcile/component"
	"github.com/forgelogic/reconcile/telemetry/logging"
)

// CConcurrent is the default minimum snapshot size that routes a drain
// through the parallel pipeline instead of serial reconciliation (spec.md
// §4.7 step 4).
const CConcurrent = 5

// Driver is supplied by the engine; the scheduler never touches the
// renderer bridge or tree state directly.
type Driver interface {
	BeginBatch()
	ReconcileSerial(identities []any)
	ReconcileParallel(identities []any)
	CommitBatch()
	RecordDrain(parallel bool, duration time.Duration)
}

type pendingEntry struct {
	identity any
	priority component.Priority
	seq      int
}

// Scheduler owns the pending set and its single arm/cancel/rearm timer.
type Scheduler struct {
	mu      sync.Mutex
	pending map[any]*pendingEntry
	seq     int

	timer         *time.Timer
	armed         bool
	armedPriority component.Priority

	driver             Driver
	concurrentEnabled  bool
	hotReloadQuiescent bool
	cConcurrent        int

	delays [5]time.Duration
}

// New creates a Scheduler with spec.md §4.7's default per-class delays:
// immediate=0ms, high=1ms, normal=2ms, low=5ms, idle=16ms.
func New(driver Driver) *Scheduler {
	return &Scheduler{
		pending:           make(map[any]*pendingEntry),
		driver:            driver,
		concurrentEnabled: true,
		cConcurrent:       CConcurrent,
		delays: [5]time.Duration{
			component.PriorityImmediate: 0,
			component.PriorityHigh:      1 * time.Millisecond,
			component.PriorityNormal:    2 * time.Millisecond,
			component.PriorityLow:       5 * time.Millisecond,
			component.PriorityIdle:      16 * time.Millisecond,
		},
	}
}

// SetConcurrentEnabled toggles whether drains may route through the
// parallel pipeline (spec.md §6.3's runtime-adjustable knob).
func (s *Scheduler) SetConcurrentEnabled(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.concurrentEnabled = v
}

// SetHotReloadQuiescent implements spec.md §4.8's "hot-reload quiescence":
// while true, drains are forced serial regardless of snapshot size.
func (s *Scheduler) SetHotReloadQuiescent(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hotReloadQuiescent = v
}

// IsHotReloadQuiescent reports the current quiescence window state.
func (s *Scheduler) IsHotReloadQuiescent() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hotReloadQuiescent
}

// SetConcurrencyThreshold overrides C_concurrent.
func (s *Scheduler) SetConcurrencyThreshold(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cConcurrent = n
}

// Enqueue adds identity to the pending set at priority, coalescing with any
// existing entry for the same identity by keeping the more urgent priority
// (spec.md §4.7: "duplicates coalesce"). It arms or rearms the drain timer
// per the interruption rule.
func (s *Scheduler) Enqueue(identity any, priority component.Priority) {
	s.mu.Lock()
	if e, ok := s.pending[identity]; ok {
		if priority < e.priority {
			e.priority = priority
		}
	} else {
		s.pending[identity] = &pendingEntry{identity: identity, priority: priority, seq: s.seq}
		s.seq++
	}
	s.arm(priority)
	s.mu.Unlock()
}

// arm implements the interruption rule: a single timer is armed at the
// delay of the highest-priority pending entry; a strictly higher-priority
// arrival cancels and rearms it. Must be called with s.mu held.
func (s *Scheduler) arm(priority component.Priority) {
	if s.armed && priority >= s.armedPriority {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.armedPriority = priority
	s.armed = true
	s.timer = time.AfterFunc(s.delays[priority], s.drain)
}

// drain implements spec.md §4.7's drain procedure.
func (s *Scheduler) drain() {
	s.mu.Lock()
	snapshot := make([]*pendingEntry, 0, len(s.pending))
	for _, e := range s.pending {
		snapshot = append(snapshot, e)
	}
	s.pending = make(map[any]*pendingEntry)
	s.armed = false
	concurrentEnabled := s.concurrentEnabled
	hotReload := s.hotReloadQuiescent
	cConcurrent := s.cConcurrent
	s.mu.Unlock()

	sort.SliceStable(snapshot, func(i, j int) bool {
		if snapshot[i].priority != snapshot[j].priority {
			return snapshot[i].priority < snapshot[j].priority
		}
		return snapshot[i].seq < snapshot[j].seq
	})

	identities := make([]any, len(snapshot))
	for i, e := range snapshot {
		identities[i] = e.identity
	}

	s.driver.BeginBatch()
	start := time.Now()
	parallel := len(identities) >= cConcurrent && concurrentEnabled && !hotReload
	if parallel {
		s.driver.ReconcileParallel(identities)
	} else {
		s.driver.ReconcileSerial(identities)
	}
	s.driver.CommitBatch()
	s.driver.RecordDrain(parallel, time.Since(start))

	logging.Log("drain complete", zap.Int("count", len(identities)), zap.Bool("parallel", parallel))
}

// Flush discards pending work for shutdown (spec.md §7 category 5): it stops
// the timer and clears the pending set without running a drain or touching
// the driver.
func (s *Scheduler) Flush() {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.pending = make(map[any]*pendingEntry)
	s.armed = false
	s.mu.Unlock()
}

// PendingCount reports the current pending-set size, for tests and telemetry.
func (s *Scheduler) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
