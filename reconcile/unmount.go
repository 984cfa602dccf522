package reconcile

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/forgelogic/reconcile/component"
	"github.com/forgelogic/reconcile/effect"
	"github.com/forgelogic/reconcile/telemetry/logging"
	"github.com/forgelogic/reconcile/vnode"
)

// Unmount implements §3's unmount lifecycle and §4.5's unmounting
// procedure: descendants are unmounted depth-first (children before
// parent), listener registrations and registry entries are purged, and a
// delete_view effect is emitted for every element view id encountered.
// Components call their author's OnUnmount hook, if any, before their
// rendered subtree is unmounted.
func (r *Reconciler) Unmount(oldID vnode.ID) {
	n := r.oldArena.Get(oldID)
	if n == nil || n.Kind == vnode.KindEmpty {
		return
	}

	switch {
	case n.Kind.RendersToChild():
		if unmounter, ok := n.Instance.(component.Unmounter); ok {
			unmounter.OnUnmount(n.State)
		}
		r.Unmount(n.RenderedNode)

	case n.Kind == vnode.KindFragment:
		for _, c := range n.Children {
			r.Unmount(c)
		}

	case n.Kind == vnode.KindElement:
		for _, c := range n.Children {
			r.Unmount(c)
		}
		if owner, ok := r.reg.LookupView(n.ViewID); !ok || owner != oldID {
			err := &InvariantViolation{Reason: fmt.Sprintf("view %d unmounted twice or already retargeted", n.ViewID)}
			logging.Error("invariant violation", zap.Error(err))
			return
		}
		r.reg.ForgetView(n.ViewID)
		r.effects.Append(effect.Effect{Kind: effect.Delete, ViewID: n.ViewID})
	}
}
