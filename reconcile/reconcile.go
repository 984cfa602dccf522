// Package reconcile implements the core tree-walk of spec.md §4.3-§4.5: node
// matching, element reconciliation, replacement, mounting, and unmounting.
// It produces an effect.List describing the renderer-bridge calls needed to
// bring the native tree from reflecting an old virtual tree to reflecting a
// new one.
//
// Grounded on ForgeLogic-nojs's patchElement/patchChildren walk
// (ForgeLogic-nojs/vdom/render.go), generalized from direct DOM calls to
// effect-list emission, and on the tagged-sum node model of vnode. Unlike
// ForgeLogic-nojs, which mutates one shared *VNode in place, this package
// reconciles two separate arenas (old/current, new/work-in-progress) and
// copies identity fields (view ids, component state) from old into new
// rather than mutating a single tree — matching spec.md §4.10's dual-tree
// commit model, which requires the old tree to remain readable until commit.
package reconcile

import (
	"go.uber.org/zap"

	"github.com/forgelogic/reconcile/component"
	"github.com/forgelogic/reconcile/effect"
	"github.com/forgelogic/reconcile/events"
	"github.com/forgelogic/reconcile/proputil"
	"github.com/forgelogic/reconcile/registry"
	"github.com/forgelogic/reconcile/telemetry/logging"
	"github.com/forgelogic/reconcile/vnode"
)

// Reconciler walks an old arena against a new one, appending effects and
// updating the shared registry. The engine creates one per root mount and
// one per scheduled identity; the worker package runs its own diff walk and
// does not use a Reconciler.
type Reconciler struct {
	oldArena *vnode.Arena
	newArena *vnode.Arena
	reg      *registry.Registry
	effects  *effect.List
}

// New creates a Reconciler over the given old (current) and new
// (work-in-progress) arenas, sharing reg across both.
func New(oldArena, newArena *vnode.Arena, reg *registry.Registry) *Reconciler {
	return &Reconciler{oldArena: oldArena, newArena: newArena, reg: reg, effects: effect.NewList()}
}

// Effects returns the effect list accumulated so far.
func (r *Reconciler) Effects() *effect.List { return r.effects }

// Reconcile applies spec.md §4.3 rules 1-8 to the pair (oldID, newID),
// mounted under parentViewID at index. newArena's node at newID is mutated
// in place to carry over old's view id / component state where matching
// succeeds.
func (r *Reconciler) Reconcile(oldID, newID vnode.ID, parentViewID vnode.ViewID, index int) {
	oldNode := r.oldArena.Get(oldID)
	newNode := r.newArena.Get(newID)

	oldEmpty := oldNode == nil || oldNode.Kind == vnode.KindEmpty
	newEmpty := newNode == nil || newNode.Kind == vnode.KindEmpty

	switch {
	case oldEmpty && newEmpty:
		return // rule 1
	case oldEmpty && !newEmpty:
		r.Mount(newID, parentViewID, index) // rule 2
		return
	case !oldEmpty && newEmpty:
		r.Unmount(oldID) // rule 3
		return
	}

	if oldNode.Key != nil && newNode.Key != nil && oldNode.Key != newNode.Key {
		r.replace(oldID, newID, parentViewID, index) // rule 4 mismatch
		return
	}

	if oldNode.Kind == vnode.KindElement && newNode.Kind == vnode.KindElement &&
		oldNode.ElementType == newNode.ElementType {
		r.reconcileElement(oldID, newID) // rule 5
		return
	}

	if oldNode.Kind.RendersToChild() && newNode.Kind.RendersToChild() {
		if oldNode.Kind == newNode.Kind && oldNode.ComponentType == newNode.ComponentType {
			r.reconcileSameComponent(oldID, newID, parentViewID, index) // rule 6
			return
		}
		if r.tryElementLevelReconcile(oldID, newID, parentViewID, index) { // rule 7
			return
		}
	}

	if oldNode.Kind == vnode.KindFragment && newNode.Kind == vnode.KindFragment {
		ReconcileChildren(r, oldID, newID, parentViewID)
		return
	}

	r.replace(oldID, newID, parentViewID, index) // rule 8
}

// compatible decides whether a positional-path pair could reconcile without
// falling through to replacement, per §4.4(b)'s look-ahead test: "same
// element type, or component pair reconciling per §4.3".
func compatible(oldArena, newArena *vnode.Arena, oldID, newID vnode.ID) bool {
	o := oldArena.Get(oldID)
	n := newArena.Get(newID)
	if o == nil || n == nil {
		return false
	}
	if o.Kind == vnode.KindElement && n.Kind == vnode.KindElement {
		return o.ElementType == n.ElementType
	}
	if o.Kind == vnode.KindFragment && n.Kind == vnode.KindFragment {
		return true
	}
	if o.Kind.RendersToChild() && n.Kind.RendersToChild() {
		return true
	}
	return o.Kind == vnode.KindEmpty && n.Kind == vnode.KindEmpty
}

// reconcileElement implements §4.3 rule 5's element reconcile: diff props,
// emit update if non-empty (§4.2's update-elision rule), reconcile
// listeners, carry the view id forward, then reconcile children.
func (r *Reconciler) reconcileElement(oldID, newID vnode.ID) {
	oldNode := r.oldArena.Get(oldID)
	newNode := r.newArena.Get(newID)

	newNode.ViewID = oldNode.ViewID
	newNode.ContentViewID = oldNode.ContentViewID
	newNode.PreserveLive = oldNode.PreserveLive && proputil.Equal(
		oldNode.Props["value"], newNode.Props["value"])

	changed := proputil.Diff(oldNode.Props, newNode.Props)
	if newNode.PreserveLive {
		delete(changed, "value")
	}
	if len(changed) > 0 {
		r.effects.Append(effect.Effect{Kind: effect.Update, ViewID: newNode.ViewID, Changed: changed})
	}

	added, removed := events.Reconcile(r.reg, newNode.ViewID, oldNode.Props, newNode.Props)
	if len(added) > 0 {
		r.effects.Append(effect.Effect{Kind: effect.AddListeners, ViewID: newNode.ViewID, Names: added})
	}
	if len(removed) > 0 {
		r.effects.Append(effect.Effect{Kind: effect.RemoveListeners, ViewID: newNode.ViewID, Names: removed})
	}

	ReconcileChildren(r, oldID, newID, newNode.ViewID)
}

// reconcileSameComponent implements §4.3 rule 6: state carries forward from
// oldArena unchanged, as newArena's node is typically a Clone of it already
// holding the same value.
func (r *Reconciler) reconcileSameComponent(oldID, newID vnode.ID, parentViewID vnode.ViewID, index int) {
	oldNode := r.oldArena.Get(oldID)
	newNode := r.newArena.Get(newID)
	newNode.State = oldNode.State
	r.reconcileSameComponentRendered(oldNode, newID, newNode, parentViewID, index)
}

// reconcileSameComponentWithState is reconcileSameComponent's counterpart for
// a self-triggered update (Update below): newState overrides whatever
// oldArena's node holds instead of carrying it forward verbatim.
func (r *Reconciler) reconcileSameComponentWithState(oldID, newID vnode.ID, parentViewID vnode.ViewID, index int, newState any) {
	oldNode := r.oldArena.Get(oldID)
	newNode := r.newArena.Get(newID)
	newNode.State = newState
	r.reconcileSameComponentRendered(oldNode, newID, newNode, parentViewID, index)
}

func (r *Reconciler) reconcileSameComponentRendered(oldNode *vnode.Node, newID vnode.ID, newNode *vnode.Node, parentViewID vnode.ViewID, index int) {
	rendered := r.renderComponent(newID, newNode)
	// Render may have grown the arena, so newNode is re-fetched.
	r.newArena.Get(newID).RenderedNode = rendered
	if rn := r.newArena.Get(rendered); rn != nil {
		rn.Parent = newID
	}
	r.Reconcile(oldNode.RenderedNode, rendered, parentViewID, index)
}

// tryElementLevelReconcile implements §4.3 rule 7: when two different
// concrete component types render, recursively, to the same element type,
// reuse the native view instead of replacing it. Returns false (caller
// should fall through to replace) when the resolved element types differ.
func (r *Reconciler) tryElementLevelReconcile(oldID, newID vnode.ID, parentViewID vnode.ViewID, index int) bool {
	newNode := r.newArena.Get(newID)
	renderedID := r.renderComponent(newID, newNode)
	newNode = r.newArena.Get(newID) // Render may have grown the arena
	newNode.RenderedNode = renderedID
	if rendered := r.newArena.Get(newNode.RenderedNode); rendered != nil {
		rendered.Parent = newID
	}

	oldResolved := r.oldArena.ResolveRenderedElement(oldID)
	newResolved := r.newArena.ResolveRenderedElement(newNode.RenderedNode)
	oldElem := r.oldArena.Get(oldResolved)
	newElem := r.newArena.Get(newResolved)
	if oldElem == nil || newElem == nil || oldElem.Kind != vnode.KindElement ||
		newElem.Kind != vnode.KindElement || oldElem.ElementType != newElem.ElementType {
		return false
	}

	logging.Log("element-level reconciliation across component type swap",
		zap.String("old_type", r.oldArena.Get(oldID).ComponentType),
		zap.String("new_type", newNode.ComponentType),
		zap.String("element_type", newElem.ElementType),
	)
	r.Reconcile(oldResolved, newResolved, parentViewID, index)
	r.newArena.Get(newID).ContentViewID = r.newArena.Get(newResolved).ViewID
	return true
}

// renderComponent renders a fresh component instance: initializes state via
// component.Initializer if the instance provides it, then invokes Render.
// Per SPEC_FULL.md's reading of spec.md §6.1, state initialization and
// render invocation are both engine-driven rather than author-driven, since
// the node stores only an opaque state capsule and an author instance
// value, never a render closure bound ahead of time.
func (r *Reconciler) renderComponent(id vnode.ID, n *vnode.Node) vnode.ID {
	comp, ok := n.Instance.(component.Component)
	if !ok {
		return vnode.NoID
	}
	if n.State == nil {
		if init, ok := n.Instance.(component.Initializer); ok {
			n.State = init.OnInit(n.Props)
		}
	}
	return comp.Render(r.newArena, n.State, n.Props)
}

// Update re-renders the stateful component at id (present at the same id in
// both r.oldArena and r.newArena, typically because newArena started as a
// clone of oldArena) with newState in place of whatever state oldArena holds,
// and reconciles the freshly rendered subtree against the previously
// committed one. This is the engine's entry point for a scheduled re-render
// triggered by a state change rather than a parent passing new props
// (spec.md §4.7's "a component requests re-render").
func (r *Reconciler) Update(id vnode.ID, parentViewID vnode.ViewID, index int, newState any) {
	r.reconcileSameComponentWithState(id, id, parentViewID, index, newState)
}

// Render resolves newArena's node at id (a stateful or stateless component)
// into its rendered child, without reconciling anything. The parallel
// pipeline uses this to obtain a plain element/fragment subtree on the main
// context before serializing it for a worker (spec.md §4.8 step 2: workers
// never see a component instance).
func (r *Reconciler) Render(id vnode.ID) vnode.ID {
	n := r.newArena.Get(id)
	if n == nil {
		return vnode.NoID
	}
	rendered := r.renderComponent(id, n)
	n = r.newArena.Get(id) // renderComponent may have grown the arena
	n.RenderedNode = rendered
	if rn := r.newArena.Get(rendered); rn != nil {
		rn.Parent = id
	}
	return rendered
}

// replace implements §4.3 rule 8 and §4.5's delete-before-create ordering:
// the old subtree is unmounted (emitting deletes) before the new subtree is
// mounted (emitting creates), so the effect list never asks the renderer to
// host two live views for one logical slot.
func (r *Reconciler) replace(oldID, newID vnode.ID, parentViewID vnode.ViewID, index int) {
	r.Unmount(oldID)
	r.Mount(newID, parentViewID, index)
}
