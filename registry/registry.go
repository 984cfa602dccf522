// Package registry implements the three lookup tables of spec.md §4.1:
// by_position and by_position_and_props (component instance identity
// across renders) and nodes_by_view_id (the element/view-id mapping that
// backs invariants 1 and 5 of spec.md §3). It also owns the monotonic
// view-id allocator and the per-view event-handler table of §4.6/§9.
package registry

import (
	"sync"

	"github.com/forgelogic/reconcile/vnode"
)

// PositionKey identifies a component slot independent of props, per
// spec.md §4.1: "(parent_view_id, child_index, component_type)".
type PositionKey struct {
	ParentViewID  vnode.ViewID
	ChildIndex    int
	ComponentType string
}

// PositionPropsKey adds the props hash as a tie-breaker, per spec.md §4.1:
// "(parent_view_id, child_index, component_type, props_hash)".
type PositionPropsKey struct {
	PositionKey
	PropsHash uint64
}

type handlerKey struct {
	ViewID    vnode.ViewID
	EventName string
}

// Registry holds all per-engine mutable lookup state. Per spec.md §9
// ("Global state"), registries are per-engine; multiple engines may
// coexist in one process, each with independent state.
type Registry struct {
	mu sync.Mutex

	byPosition         map[PositionKey]vnode.ID
	byPositionAndProps map[PositionPropsKey]vnode.ID
	nodesByViewID      map[vnode.ViewID]vnode.ID

	nextViewID vnode.ViewID

	handlers  map[handlerKey]vnode.EventHandler
	listeners map[vnode.ViewID]map[string]struct{}
}

// New creates an empty registry. View id 0 is reserved for the root
// (spec.md invariant 2) and is never handed out by AllocateViewID.
func New() *Registry {
	return &Registry{
		byPosition:         make(map[PositionKey]vnode.ID),
		byPositionAndProps: make(map[PositionPropsKey]vnode.ID),
		nodesByViewID:      make(map[vnode.ViewID]vnode.ID),
		nextViewID:         vnode.RootViewID + 1,
		handlers:           make(map[handlerKey]vnode.EventHandler),
		listeners:          make(map[vnode.ViewID]map[string]struct{}),
	}
}

// AllocateViewID returns the next monotonic view id. Ids are never recycled
// (spec.md §4.1: "View ids are allocated by a monotonic counter... Ids are
// not recycled.").
func (r *Registry) AllocateViewID() vnode.ViewID {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextViewID
	r.nextViewID++
	return id
}

// RegisterView records that viewID now reflects the element at nodeID,
// maintaining spec.md invariant 1 (injective nodes_by_view_id mapping).
func (r *Registry) RegisterView(viewID vnode.ViewID, nodeID vnode.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nodesByViewID[viewID] = nodeID
}

// LookupView returns the arena node id for viewID, if present.
func (r *Registry) LookupView(viewID vnode.ViewID) (vnode.ID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.nodesByViewID[viewID]
	return id, ok
}

// ForgetView removes viewID's entry, e.g. after delete_view is emitted.
func (r *Registry) ForgetView(viewID vnode.ViewID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.nodesByViewID, viewID)
	delete(r.listeners, viewID)
	for k := range r.handlers {
		if k.ViewID == viewID {
			delete(r.handlers, k)
		}
	}
}

// ViewCount returns the number of live view-id entries, for invariant checks.
func (r *Registry) ViewCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.nodesByViewID)
}

// LookupByPosition implements the by_position table lookup.
func (r *Registry) LookupByPosition(key PositionKey) (vnode.ID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byPosition[key]
	return id, ok
}

// StoreByPosition records a component instance under its positional key.
func (r *Registry) StoreByPosition(key PositionKey, id vnode.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byPosition[key] = id
}

// EvictByPosition removes a positional entry, e.g. on unmount.
func (r *Registry) EvictByPosition(key PositionKey) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byPosition, key)
}

// LookupByPositionAndProps implements the by_position_and_props tie-breaker lookup.
func (r *Registry) LookupByPositionAndProps(key PositionPropsKey) (vnode.ID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byPositionAndProps[key]
	return id, ok
}

// StoreByPositionAndProps records a component instance under its tie-breaker key.
func (r *Registry) StoreByPositionAndProps(key PositionPropsKey, id vnode.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byPositionAndProps[key] = id
}

// EvictByPositionAndProps removes a tie-breaker entry, e.g. on unmount.
func (r *Registry) EvictByPositionAndProps(key PositionPropsKey) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byPositionAndProps, key)
}

// SetHandler installs the current handler for (viewID, eventName). Per
// spec.md §4.6, a handler-identity change for an already-registered name
// triggers no renderer call — only this local table is updated.
func (r *Registry) SetHandler(viewID vnode.ViewID, eventName string, h vnode.EventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[handlerKey{viewID, eventName}] = h
	set, ok := r.listeners[viewID]
	if !ok {
		set = make(map[string]struct{})
		r.listeners[viewID] = set
	}
	set[eventName] = struct{}{}
}

// RemoveHandler removes (viewID, eventName) from the table.
func (r *Registry) RemoveHandler(viewID vnode.ViewID, eventName string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handlers, handlerKey{viewID, eventName})
	if set, ok := r.listeners[viewID]; ok {
		delete(set, eventName)
	}
}

// ListenerNames returns the current registered listener names for viewID.
func (r *Registry) ListenerNames(viewID vnode.ViewID) map[string]struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]struct{}, len(r.listeners[viewID]))
	for n := range r.listeners[viewID] {
		out[n] = struct{}{}
	}
	return out
}

// Dispatch looks up and invokes the current handler for (viewID, eventName).
// Events for unknown view ids or names are dropped silently, per spec.md §6.2.
func (r *Registry) Dispatch(viewID vnode.ViewID, eventName string, data any) {
	r.mu.Lock()
	h, ok := r.handlers[handlerKey{viewID, eventName}]
	r.mu.Unlock()
	if ok && h != nil {
		h(data)
	}
}
