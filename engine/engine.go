// Package engine wires the reconciler, scheduler, worker pipeline, and
// renderer bridge into the single host-facing object of spec.md §6: an
// Engine owns the dual trees (current_tree / work_in_progress_tree per
// §4.10), the instance registry, and the priority-classified update queue,
// and exposes the mount/update/diagnostics surface described in §6.1/§6.3.
//
// Grounded on ForgeLogic-nojs's RendererImpl (ForgeLogic-nojs/nojs/runtime/
// renderer_impl.go), which plays the same role for its simpler
// synchronous-only model: one struct holding the live tree, the DOM
// renderer, and the methods a component's generated code calls into. This
// package generalizes that into the scheduler-driven, dual-tree,
// optionally-parallel model spec.md §4 describes, using constructor
// injection throughout rather than package-level state (spec.md §9: "no
// process-wide singletons").
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/forgelogic/reconcile/bridge"
	"github.com/forgelogic/reconcile/component"
	"github.com/forgelogic/reconcile/effect"
	"github.com/forgelogic/reconcile/proputil"
	"github.com/forgelogic/reconcile/reconcile"
	"github.com/forgelogic/reconcile/registry"
	"github.com/forgelogic/reconcile/scheduler"
	"github.com/forgelogic/reconcile/telemetry/logging"
	"github.com/forgelogic/reconcile/telemetry/metrics"
	"github.com/forgelogic/reconcile/vnode"
	"github.com/forgelogic/reconcile/worker"
)

// Engine is the host-facing entry point. One Engine manages one native
// view tree; a process may host several, each fully independent.
type Engine struct {
	mu sync.Mutex

	bridge  bridge.Bridge
	reg     *registry.Registry
	current *vnode.Arena
	root    vnode.ID

	// wip and effects are only non-nil between BeginBatch and CommitBatch,
	// i.e. while a drain is in flight.
	wip     *vnode.Arena
	effects *effect.List

	scheduler  *scheduler.Scheduler
	dispatcher *worker.Dispatcher
	metrics    *metrics.Collector
	config     Config
	session    Session

	stateMu      sync.Mutex
	pendingState map[vnode.ID]any
}

// New creates an Engine over b, registering its Prometheus collectors
// against promReg (nil is accepted: diagnostics still work via Diagnostics(),
// just without a scrape endpoint).
func New(b bridge.Bridge, promReg prometheus.Registerer, cfg Config) *Engine {
	e := &Engine{
		bridge:       b,
		reg:          registry.New(),
		current:      vnode.NewArena(),
		root:         vnode.NoID,
		config:       cfg,
		pendingState: make(map[vnode.ID]any),
	}

	pool := worker.NewPool(cfg.WorkerPoolSize)
	cache := proputil.NewSimilarityCache(cfg.SimilarityCacheCapacity)
	e.dispatcher = worker.NewDispatcher(pool, cache)
	e.dispatcher.DirectReplaceThreshold = cfg.TDirectReplace
	e.dispatcher.Timeout = cfg.WorkerSoftTimeout

	e.metrics = metrics.NewCollector(promReg, cfg.TIsolate, cfg.TDirectReplace, cfg.CConcurrent)
	e.metrics.SetConcurrentEnabled(true)

	e.scheduler = scheduler.New(e)
	e.scheduler.SetConcurrencyThreshold(cfg.CConcurrent)

	return e
}

// Registry exposes the instance registry, e.g. for a bridge adapter that
// needs to implement bridge.InboundEventSink itself.
func (e *Engine) Registry() *registry.Registry { return e.reg }

// DispatchInboundEvent implements bridge.InboundEventSink: a renderer
// callback forwarded straight to the registry's handler table. Unknown
// view ids or event names are dropped silently (spec.md §6.2).
func (e *Engine) DispatchInboundEvent(id vnode.ViewID, eventName string, data any) {
	e.reg.Dispatch(id, eventName, data)
}

// Diagnostics returns the read-only surface of spec.md §6.3.
func (e *Engine) Diagnostics() metrics.Diagnostics { return e.metrics.Snapshot() }

// SetConcurrentEnabled toggles the parallel pipeline at runtime.
func (e *Engine) SetConcurrentEnabled(v bool) {
	e.scheduler.SetConcurrentEnabled(v)
	e.metrics.SetConcurrentEnabled(v)
}

// SetThresholds updates T_isolate, T_direct_replace, and C_concurrent at
// runtime (spec.md §6.3).
func (e *Engine) SetThresholds(tIsolate, tDirectReplace, cConcurrent int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.config.TIsolate = tIsolate
	e.config.TDirectReplace = tDirectReplace
	e.config.CConcurrent = cConcurrent
	e.dispatcher.DirectReplaceThreshold = tDirectReplace
	e.scheduler.SetConcurrencyThreshold(cConcurrent)
	e.metrics.SetThresholds(tIsolate, tDirectReplace, cConcurrent)
}

// rootNativeViewID resolves the native view id a mounted root node owns:
// itself if it is an element, or its content view id if it is a component
// (mirroring reconcile's unexported mountedViewID, which this package
// cannot call directly).
func rootNativeViewID(n *vnode.Node) vnode.ViewID {
	if n == nil {
		return vnode.NoView
	}
	if n.Kind == vnode.KindElement {
		return n.ViewID
	}
	if n.Kind.RendersToChild() {
		return n.ContentViewID
	}
	return vnode.NoView
}

// Mount installs root as the tree's single root node, emitting the initial
// create effects, the outer set_children(RootViewID, [root's view id]) that
// connects it to the pre-existing host root, and finally the root's own
// attach_view — in that order, matching spec.md §8 scenario 1's literal
// expected sequence exactly. rec.Mount is called with vnode.NoView as the
// parent so it mounts the subtree (creates and any inner set_children)
// without emitting its own attach_view; the engine appends the enclosing
// set_children and the attach itself, since no ReconcileChildren call
// covers the very first mount.
func (e *Engine) Mount(root vnode.Node) (vnode.ViewID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	wip := vnode.NewArena()
	rootID := wip.Alloc(root)

	rec := reconcile.New(e.current, wip, e.reg)
	rec.Mount(rootID, vnode.NoView, 0)
	effects := rec.Effects()

	rootViewID := rootNativeViewID(wip.Get(rootID))
	if rootViewID != vnode.NoView {
		effects.Append(effect.Effect{
			Kind: effect.SetChildren, ViewID: vnode.RootViewID,
			Children: []vnode.ViewID{rootViewID},
		})
		effects.Append(effect.Effect{
			Kind: effect.Attach, ViewID: rootViewID, ParentID: vnode.RootViewID, Index: 0,
		})
	}

	if err := effect.Commit(e.bridge, effects); err != nil {
		return vnode.NoView, err
	}
	e.current = wip
	e.root = rootID
	return rootViewID, nil
}

// RequestRerender enqueues a state update for the stateful component at id
// (an arena id in the currently committed tree), at priority. This is the
// concrete implementation behind the component.ReRenderRequester closure a
// component instance receives (spec.md §4.7's "a component requests
// re-render" trigger).
func (e *Engine) RequestRerender(id vnode.ID, newState any, priority component.Priority) {
	e.stateMu.Lock()
	e.pendingState[id] = newState
	e.stateMu.Unlock()
	e.scheduler.Enqueue(id, priority)
}

// RequestRerenderDefault is RequestRerender using the component-type
// priority heuristic (spec.md §4.7) for components that don't implement
// component.Prioritizer.
func (e *Engine) RequestRerenderDefault(id vnode.ID, newState any) {
	e.mu.Lock()
	n := e.current.Get(id)
	e.mu.Unlock()
	if n == nil {
		return
	}
	e.RequestRerender(id, newState, scheduler.PriorityFor(n.Instance, n.ComponentType))
}

func (e *Engine) takePendingState(id vnode.ID) (any, bool) {
	e.stateMu.Lock()
	defer e.stateMu.Unlock()
	v, ok := e.pendingState[id]
	if ok {
		delete(e.pendingState, id)
	}
	return v, ok
}

// nearestNativeParentViewID walks up from id's parent chain in a until it
// finds the nearest node that owns (or stands in for) a native view,
// mirroring the resolution reconcile's own mount path performs inline.
// Engine-level re-renders need this because, unlike a child discovered
// during ReconcileChildren, a scheduled update starts mid-tree with no
// parent context already on the call stack.
func nearestNativeParentViewID(a *vnode.Arena, id vnode.ID) vnode.ViewID {
	n := a.Get(id)
	if n == nil {
		return vnode.RootViewID
	}
	pid := n.Parent
	for pid != vnode.NoID {
		p := a.Get(pid)
		if p == nil {
			break
		}
		if p.Kind == vnode.KindElement {
			return p.ViewID
		}
		if p.Kind.RendersToChild() {
			return p.ContentViewID
		}
		pid = p.Parent
	}
	return vnode.RootViewID
}

// BeginBatch implements scheduler.Driver: it derives this drain's
// work_in_progress_tree as a clone of current_tree (spec.md §4.10). It
// holds e.mu for the duration of the drain; CommitBatch releases it, so this
// is a single lock/unlock pair spanning BeginBatch..CommitBatch, not a leak.
// A drain the scheduler starts while another is running blocks here until
// the first one's CommitBatch, so drains never overlap.
func (e *Engine) BeginBatch() {
	e.mu.Lock()
	e.wip = e.current.Clone()
	e.effects = effect.NewList()
}

// ReconcileSerial implements scheduler.Driver for drains below C_concurrent
// or during hot-reload quiescence: each identity is re-rendered and
// reconciled in-process, in priority order — unless its own subtree is
// large enough to trip T_isolate on its own (spec.md §4.8 case (a): "a
// single root-level reconciliation involves a subtree whose combined
// old+new node count ≥ T_isolate"), in which case it is isolated to the
// worker pipeline exactly as a qualifying parallel drain would. The drain
// waits for the worker's plan before it moves on to the next identity.
func (e *Engine) ReconcileSerial(identities []any) {
	ctx := context.Background()
	for _, raw := range identities {
		id, ok := raw.(vnode.ID)
		if !ok {
			continue
		}
		e.reconcileOneIdentity(ctx, id)
	}
}

// ReconcileParallel implements scheduler.Driver for drains at or above
// C_concurrent: each identity's component is resolved to a plain element
// subtree on the main context, then handed to the worker dispatcher
// (similarity gate, off-thread diff, main-thread splice) only if its own
// subtree clears T_isolate (spec.md §4.8 case (b): "a drain carries ≥
// C_concurrent independent component updates whose subtrees each exceed
// T_isolate" — the per-component threshold still applies inside a
// qualifying drain, it is not satisfied by drain size alone). Identities
// below the threshold are reconciled in-process instead. Any dispatch
// error or timeout falls back to the serial path for that one identity
// rather than failing the whole drain (spec.md §4.8 step 5, §7 category 2).
func (e *Engine) ReconcileParallel(identities []any) {
	ctx := context.Background()
	for _, raw := range identities {
		id, ok := raw.(vnode.ID)
		if !ok {
			continue
		}
		e.reconcileOneIdentity(ctx, id)
	}
}

// reconcileOneIdentity renders id's component against its pending (or
// carried-forward) state and reconciles the result, routing to the worker
// pipeline or the in-process reconciler per-identity based on T_isolate
// regardless of which of ReconcileSerial/ReconcileParallel called it —
// the per-subtree decision is the same either way, per spec.md §4.8.
func (e *Engine) reconcileOneIdentity(ctx context.Context, id vnode.ID) {
	oldNode := e.current.Get(id)
	wipNode := e.wip.Get(id)
	if oldNode == nil || wipNode == nil || !oldNode.Kind.HoldsUserState() {
		return
	}
	if newState, ok := e.takePendingState(id); ok {
		wipNode.State = newState
	}

	rec := reconcile.New(e.current, e.wip, e.reg)
	parentViewID := nearestNativeParentViewID(e.wip, id)

	oldRenderedID := oldNode.RenderedNode
	newRenderedID := rec.Render(id)

	combined := e.current.SubtreeNodeCount(oldRenderedID) + e.wip.SubtreeNodeCount(newRenderedID)
	if combined < e.config.TIsolate {
		rec.Reconcile(oldRenderedID, newRenderedID, parentViewID, 0)
		e.effects.AppendAll(rec.Effects().Effects())
		return
	}

	list, err := e.dispatcher.Reconcile(ctx, e.reg, e.current, e.wip, oldRenderedID, newRenderedID, parentViewID, 0)
	if err != nil {
		logging.Warn("parallel reconcile fell back to serial",
			zap.Int32("component_id", int32(id)), zap.Error(err),
			zap.String("session", e.session.ID.String()))
		rec2 := reconcile.New(e.current, e.wip, e.reg)
		rec2.Reconcile(oldRenderedID, newRenderedID, parentViewID, 0)
		e.effects.AppendAll(rec2.Effects().Effects())
		return
	}
	e.effects.AppendAll(list.Effects())
}

// CommitBatch implements scheduler.Driver: it atomically dispatches the
// drain's accumulated effects against the bridge and, only on success,
// swaps work_in_progress_tree into current_tree (spec.md §4.10's "pointer
// swap only on successful commit").
func (e *Engine) CommitBatch() {
	defer e.mu.Unlock()
	if err := effect.Commit(e.bridge, e.effects); err != nil {
		logging.Error("drain commit failed, keeping prior current_tree", zap.Error(err))
		e.wip = nil
		e.effects = nil
		return
	}
	e.current = e.wip
	e.wip = nil
	e.effects = nil
}

// RecordDrain implements scheduler.Driver, forwarding to the metrics
// collector backing Diagnostics (spec.md §4.7 step 6, §6.3).
func (e *Engine) RecordDrain(parallel bool, d time.Duration) {
	e.metrics.RecordDrain(parallel, d)
}

var _ scheduler.Driver = (*Engine)(nil)
var _ bridge.InboundEventSink = (*Engine)(nil)
