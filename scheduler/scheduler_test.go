package scheduler

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgelogic/reconcile/component"
)

type fakeDriver struct {
	mu         sync.Mutex
	begun      int
	serial     [][]any
	parallel   [][]any
	committed  int
	lastDrain  bool
	drainsDone chan struct{}
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{drainsDone: make(chan struct{}, 32)}
}

func (f *fakeDriver) BeginBatch() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.begun++
}

func (f *fakeDriver) ReconcileSerial(identities []any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.serial = append(f.serial, identities)
}

func (f *fakeDriver) ReconcileParallel(identities []any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.parallel = append(f.parallel, identities)
}

func (f *fakeDriver) CommitBatch() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.committed++
}

func (f *fakeDriver) RecordDrain(parallel bool, d time.Duration) {
	f.mu.Lock()
	f.lastDrain = parallel
	f.mu.Unlock()
	f.drainsDone <- struct{}{}
}

func waitDrain(t *testing.T, f *fakeDriver) {
	t.Helper()
	select {
	case <-f.drainsDone:
	case <-time.After(2 * time.Second):
		t.Fatal("drain did not complete in time")
	}
}

func TestEnqueueCoalescesDuplicateIdentity(t *testing.T) {
	f := newFakeDriver()
	s := New(f)

	s.Enqueue("widget-1", component.PriorityLow)
	assert.Equal(t, 1, s.PendingCount())
	s.Enqueue("widget-1", component.PriorityHigh)
	assert.Equal(t, 1, s.PendingCount(), "the same identity coalesces into one pending entry")

	waitDrain(t, f)
	require.Len(t, f.serial, 1)
	assert.Equal(t, []any{"widget-1"}, f.serial[0])
}

func TestDrainOrdersByPriorityThenArrival(t *testing.T) {
	f := newFakeDriver()
	s := New(f)
	s.SetConcurrencyThreshold(100) // keep this drain serial regardless of count
	s.delays[component.PriorityLow] = 100 * time.Millisecond
	s.delays[component.PriorityHigh] = 20 * time.Millisecond
	s.delays[component.PriorityNormal] = 60 * time.Millisecond

	s.Enqueue("low-1", component.PriorityLow)
	s.Enqueue("high-1", component.PriorityHigh)
	s.Enqueue("normal-1", component.PriorityNormal)

	waitDrain(t, f)
	require.Len(t, f.serial, 1)
	assert.Equal(t, []any{"high-1", "normal-1", "low-1"}, f.serial[0])
}

func TestHigherPriorityArrivalRearmsTimer(t *testing.T) {
	f := newFakeDriver()
	s := New(f)
	s.delays[component.PriorityIdle] = 500 * time.Millisecond
	s.delays[component.PriorityImmediate] = 5 * time.Millisecond

	s.Enqueue("idle-1", component.PriorityIdle)
	time.Sleep(20 * time.Millisecond)
	s.Enqueue("urgent-1", component.PriorityImmediate)

	waitDrain(t, f)
	require.Len(t, f.serial, 1)
	assert.ElementsMatch(t, []any{"idle-1", "urgent-1"}, f.serial[0],
		"the urgent arrival interrupts the idle timer and both drain together")
}

func TestLowerPriorityArrivalDoesNotRearmTimer(t *testing.T) {
	f := newFakeDriver()
	s := New(f)
	s.delays[component.PriorityImmediate] = 10 * time.Millisecond
	s.delays[component.PriorityIdle] = 500 * time.Millisecond

	s.Enqueue("urgent-1", component.PriorityImmediate)
	s.Enqueue("idle-1", component.PriorityIdle)

	waitDrain(t, f)
	require.Len(t, f.serial, 1)
	assert.ElementsMatch(t, []any{"urgent-1", "idle-1"}, f.serial[0],
		"a less urgent arrival joins the already-armed drain instead of delaying it")
}

func TestDrainRoutesLargeBatchThroughParallel(t *testing.T) {
	f := newFakeDriver()
	s := New(f)
	s.SetConcurrencyThreshold(3)

	for i := 0; i < 5; i++ {
		s.Enqueue(i, component.PriorityNormal)
	}

	waitDrain(t, f)
	require.Len(t, f.parallel, 1)
	assert.Empty(t, f.serial)
	assert.True(t, f.lastDrain)
}

func TestHotReloadQuiescenceForcesSerial(t *testing.T) {
	f := newFakeDriver()
	s := New(f)
	s.SetConcurrencyThreshold(1)
	s.SetHotReloadQuiescent(true)

	for i := 0; i < 5; i++ {
		s.Enqueue(i, component.PriorityNormal)
	}

	waitDrain(t, f)
	require.Len(t, f.serial, 1)
	assert.Empty(t, f.parallel)
}

func TestSetConcurrentEnabledFalseForcesSerial(t *testing.T) {
	f := newFakeDriver()
	s := New(f)
	s.SetConcurrencyThreshold(1)
	s.SetConcurrentEnabled(false)

	for i := 0; i < 5; i++ {
		s.Enqueue(i, component.PriorityNormal)
	}

	waitDrain(t, f)
	require.Len(t, f.serial, 1)
	assert.Empty(t, f.parallel)
}

func TestFlushClearsPendingWithoutDriving(t *testing.T) {
	f := newFakeDriver()
	s := New(f)
	s.delays[component.PriorityNormal] = time.Hour

	s.Enqueue("x", component.PriorityNormal)
	require.Equal(t, 1, s.PendingCount())
	s.Flush()
	assert.Equal(t, 0, s.PendingCount())

	time.Sleep(10 * time.Millisecond)
	assert.Zero(t, f.begun, "a flushed pending set never reaches the driver")
}
