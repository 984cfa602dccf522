package effect

import "github.com/forgelogic/reconcile/bridge"

// dispatch issues one effect against b. Replace is expanded into a delete
// of the old view followed by its MountEffects, so bridge implementations
// never need to understand Replace directly — only the effect list's
// producer (reconciler or diff-plan applier) deals in subtree replacement
// as a concept.
func dispatch(b bridge.Bridge, e Effect) {
	switch e.Kind {
	case Create:
		b.CreateView(e.ViewID, e.ElementType, e.Props)
		if len(e.Names) > 0 {
			b.AddEventListeners(e.ViewID, e.Names)
		}
	case Update:
		b.UpdateView(e.ViewID, e.Changed)
	case SetChildren:
		b.SetChildren(e.ViewID, e.Children)
	case Attach:
		b.AttachView(e.ViewID, e.ParentID, e.Index)
	case Detach:
		b.DetachView(e.ViewID)
	case Delete:
		b.DeleteView(e.ViewID)
	case AddListeners:
		b.AddEventListeners(e.ViewID, e.Names)
	case RemoveListeners:
		b.RemoveEventListeners(e.ViewID, e.Names)
	case Replace:
		b.DeleteView(e.ViewID)
		for _, m := range e.MountEffects {
			dispatch(b, m)
		}
	}
}
