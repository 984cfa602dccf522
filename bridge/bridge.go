// Package bridge defines the typed facade over the native renderer's
// command stream (spec.md §6.2). The scoped-acquisition batch commit that
// drains an effect list against it is effect.Commit, in package effect.
//
// Grounded on ForgeLogic-nojs's runtime.Renderer interface
// (ForgeLogic-nojs/nojs/runtime/renderer.go): a small interface the engine
// depends on, with a concrete RendererImpl-shaped implementation supplied
// by the host. Here the interface is the renderer bridge itself rather
// than a DOM-patching facade, since spec.md treats the native renderer as
// an external collaborator reachable only through this command surface.
package bridge

import "github.com/forgelogic/reconcile/vnode"

// Bridge is the single-threaded command interface spec.md §6.2 describes.
// All operations identify views by vnode.ViewID; vnode.RootViewID
// pre-exists before the engine starts.
type Bridge interface {
	// BeginBatch opens a commit window; subsequent mutations may be
	// buffered by the renderer.
	BeginBatch()

	// CommitBatch applies buffered mutations atomically.
	CommitBatch()

	// RollbackBatch discards buffered mutations. Implementations that do
	// not support rollback should return false from SupportsRollback; the
	// engine then relies on delete-before-create ordering alone.
	RollbackBatch()

	// SupportsRollback reports whether RollbackBatch is meaningful.
	SupportsRollback() bool

	// CreateView allocates a native view of the given type with the given
	// non-handler props.
	CreateView(id vnode.ViewID, elementType string, props vnode.Props)

	// UpdateView applies only the supplied prop deltas; a key mapped to
	// nil means removal.
	UpdateView(id vnode.ViewID, changed map[string]any)

	// DeleteView destroys the native view. Undefined renderer behavior if
	// later referenced.
	DeleteView(id vnode.ViewID)

	// AttachView inserts id as the index-th child of parentID.
	AttachView(id vnode.ViewID, parentID vnode.ViewID, index int)

	// DetachView removes id from its current parent.
	DetachView(id vnode.ViewID)

	// SetChildren declaratively replaces parentID's child order.
	SetChildren(parentID vnode.ViewID, childIDs []vnode.ViewID)

	// AddEventListeners begins forwarding the named events for id to the
	// engine's dispatch.
	AddEventListeners(id vnode.ViewID, names []string)

	// RemoveEventListeners stops forwarding the named events.
	RemoveEventListeners(id vnode.ViewID, names []string)
}

// InboundEventSink receives renderer-originated events, per spec.md §6.2
// "Inbound event": the renderer calls (view_id, event_name, event_data);
// unknown view ids are dropped silently.
type InboundEventSink interface {
	DispatchInboundEvent(id vnode.ViewID, eventName string, data any)
}
