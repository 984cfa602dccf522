package worker

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/semaphore"
)

// ErrTimeout is returned by Dispatch when the soft timeout elapses before
// the diff computation completes (spec.md §4.8 step 5, §5 "Timeouts").
var ErrTimeout = errors.New("worker: diff computation timed out")

// DefaultSoftTimeout is the default worker soft timeout for trees up to
// roughly 1000 nodes, per spec.md §5's example figure.
const DefaultSoftTimeout = 200 * time.Millisecond

// Pool bounds concurrent diff computations. Spec.md §9 leaves the
// worker-management strategy an open question (custom pool vs
// package-backed pool); Pool is a concrete type that Dispatcher holds as a
// *Pool, and this implementation is the package-backed choice, built on
// golang.org/x/sync/semaphore the way the rest of the example pack uses
// x/sync for bounded fan-out, promoted here from an indirect teacher
// dependency to direct use (DESIGN.md's Open Question entry explains why
// this option was picked over a custom channel-based pool).
type Pool struct {
	sem *semaphore.Weighted
}

// NewPool creates a pool that runs at most size diff computations at once.
func NewPool(size int64) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{sem: semaphore.NewWeighted(size)}
}

// Dispatch runs Diff(oldNode, newNode) on a pooled goroutine, bounded by
// timeout. On success it returns the plan; on timeout or the computation
// panicking, it returns ErrTimeout or a fixed "diff computation panicked"
// error respectively (the recovered value itself is not returned) —
// both are the same "fall back to serial reconciliation" signal to the
// caller (spec.md §4.8 step 5, §7 category 2).
func (p *Pool) Dispatch(ctx context.Context, oldNode, newNode SerializedNode, timeout time.Duration) (Plan, error) {
	if timeout <= 0 {
		timeout = DefaultSoftTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := p.sem.Acquire(ctx, 1); err != nil {
		return Plan{}, ErrTimeout
	}
	defer p.sem.Release(1)

	type result struct {
		plan Plan
		err  error
	}
	done := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: errors.New("worker: diff computation panicked")}
			}
		}()
		done <- result{plan: Diff(oldNode, newNode)}
	}()

	select {
	case <-ctx.Done():
		return Plan{}, ErrTimeout
	case res := <-done:
		return res.plan, res.err
	}
}
