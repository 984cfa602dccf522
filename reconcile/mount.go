package reconcile

import (
	"go.uber.org/zap"

	"github.com/forgelogic/reconcile/effect"
	"github.com/forgelogic/reconcile/events"
	"github.com/forgelogic/reconcile/proputil"
	"github.com/forgelogic/reconcile/telemetry/logging"
	"github.com/forgelogic/reconcile/vnode"
)

// Mount is the top-level entry point for mounting a subtree that is not
// already covered by an enclosing children reconciliation's trailing
// set_children (spec.md §4.4's "single set_children effect on the parent
// with the final ordered view-id sequence" already connects any subtree
// mounted from within ReconcileChildren). Its callers are the engine's
// initial root mount, Reconcile's rule 2 and replace(). Mount emits the
// trailing attach_view described in §4.5 only when parentViewID is a real
// view (not vnode.NoView) and the subtree owns a native view; the engine's
// root mount passes vnode.NoView and connects the root itself. Ordinary
// children-reconcile mounts use the unexported mountChild instead.
func (r *Reconciler) Mount(newID vnode.ID, parentViewID vnode.ViewID, index int) {
	r.mountChild(newID)
	if v := mountedViewID(r.newArena, newID); v != vnode.NoView && parentViewID != vnode.NoView {
		r.effects.Append(effect.Effect{Kind: effect.Attach, ViewID: v, ParentID: parentViewID, Index: index})
	}
}

// mountChild recursively mounts newID without emitting attach_view; callers
// within this package connect the result via a trailing set_children on the
// native parent instead.
func (r *Reconciler) mountChild(newID vnode.ID) {
	n := r.newArena.Get(newID)
	if n == nil {
		return
	}

	switch {
	case n.Kind == vnode.KindEmpty:
		return

	case n.Kind.RendersToChild():
		rendered := r.renderComponent(newID, n)
		if rn := r.newArena.Get(rendered); rn != nil {
			rn.Parent = newID
		}
		r.mountChild(rendered)
		// Render and the nested mount may have grown the arena: re-fetch n.
		n = r.newArena.Get(newID)
		n.RenderedNode = rendered
		n.ContentViewID = mountedViewID(r.newArena, rendered)

	case n.Kind == vnode.KindFragment:
		for _, c := range n.Children {
			if cn := r.newArena.Get(c); cn != nil {
				cn.Parent = newID
			}
			r.mountChild(c)
		}

	case n.Kind == vnode.KindElement:
		r.mountElement(newID, n)
	}
}

func (r *Reconciler) mountElement(id vnode.ID, n *vnode.Node) {
	viewID := r.reg.AllocateViewID()
	n.ViewID = viewID
	r.reg.RegisterView(viewID, id)

	for name := range proputil.EventNames(n.Props) {
		if !events.IsSupported(name, n.ElementType) {
			logging.Log("event name not known to be supported on this element type",
				zap.String("event", name), zap.String("element_type", n.ElementType))
		}
	}

	names := events.InitialListenerNames(r.reg, viewID, n.Props)
	r.effects.Append(effect.Effect{
		Kind:        effect.Create,
		ViewID:      viewID,
		ElementType: n.ElementType,
		Props:       proputil.NonHandlerProps(n.Props),
		Names:       names,
	})

	for _, c := range n.Children {
		if cn := r.newArena.Get(c); cn != nil {
			cn.Parent = id
		}
		r.mountChild(c)
	}
	if childViewIDs := childViewIDsFlattened(r.newArena, n.Children); len(childViewIDs) > 0 {
		r.effects.Append(effect.Effect{Kind: effect.SetChildren, ViewID: viewID, Children: childViewIDs})
	}
}

// mountedViewID returns the native view id a mounted node (or its resolved
// rendered element, for components) now owns, or vnode.NoView for
// fragments/empty, whose children are inlined into the parent's own child
// list instead (see childViewIDsFlattened).
func mountedViewID(a *vnode.Arena, id vnode.ID) vnode.ViewID {
	n := a.Get(id)
	if n == nil {
		return vnode.NoView
	}
	switch {
	case n.Kind == vnode.KindElement:
		return n.ViewID
	case n.Kind.RendersToChild():
		return mountedViewID(a, n.RenderedNode)
	default:
		return vnode.NoView
	}
}

// childViewIDsFlattened collects view ids for a slice of children, inlining
// a fragment child's own children at that position since fragments own no
// native view of their own.
func childViewIDsFlattened(a *vnode.Arena, ids []vnode.ID) []vnode.ViewID {
	out := make([]vnode.ViewID, 0, len(ids))
	var walk func(vnode.ID)
	walk = func(id vnode.ID) {
		n := a.Get(id)
		if n == nil || n.Kind == vnode.KindEmpty {
			return
		}
		if n.Kind == vnode.KindFragment {
			for _, c := range n.Children {
				walk(c)
			}
			return
		}
		if v := mountedViewID(a, id); v != vnode.NoView {
			out = append(out, v)
		}
	}
	for _, id := range ids {
		walk(id)
	}
	return out
}
