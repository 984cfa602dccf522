package reconcile

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/forgelogic/reconcile/effect"
	"github.com/forgelogic/reconcile/proputil"
	"github.com/forgelogic/reconcile/registry"
	"github.com/forgelogic/reconcile/telemetry/logging"
	"github.com/forgelogic/reconcile/vnode"
)

// lookaheadWindow is the positional-path insertion/removal scan width, W in
// spec.md §4.4(b). The source left this undocumented; 4 is adopted here as
// the documented default (see DESIGN.md's Open Question resolution) and is
// deliberately small and fixed — larger discrepancies fall through to
// replacement, per spec.md's own rationale.
const lookaheadWindow = 4

// structuralShockMinDelta and structuralShockMinRatio implement §4.4's
// "structural shock" force-replace rule: abandon children reconciliation
// entirely (replacing the whole subtree) when the count delta exceeds both
// an absolute and a relative threshold.
const (
	structuralShockMinDelta = 3
	structuralShockMinRatio = 0.5
)

// ReconcileChildren implements §4.4: dispatches to the keyed or positional
// path depending on whether any child on either side carries a key, and
// applies the structural-shock override first.
func ReconcileChildren(r *Reconciler, oldParentID, newParentID vnode.ID, parentViewID vnode.ViewID) {
	oldChildren := r.oldArena.Children(oldParentID)
	newChildren := r.newArena.Children(newParentID)

	if len(oldChildren) == 0 && len(newChildren) == 0 {
		return // leaf element: no children slot to manage, no set_children noise
	}

	if structuralShock(len(oldChildren), len(newChildren)) {
		logging.Log("structural shock: replacing subtree instead of diffing children",
			zap.Int("old_count", len(oldChildren)), zap.Int("new_count", len(newChildren)))
		for _, c := range oldChildren {
			r.Unmount(c)
		}
		for _, c := range newChildren {
			if cn := r.newArena.Get(c); cn != nil {
				cn.Parent = newParentID
			}
			r.mountChild(c)
		}
		emitSetChildren(r, parentViewID, newParentID)
		return
	}

	if anyKeyed(r.oldArena, oldChildren) || anyKeyed(r.newArena, newChildren) {
		reconcileKeyed(r, oldChildren, newChildren, newParentID, parentViewID)
		return
	}

	reconcilePositional(r, oldChildren, newChildren, newParentID, parentViewID)
}

func structuralShock(oldCount, newCount int) bool {
	delta := oldCount - newCount
	if delta < 0 {
		delta = -delta
	}
	if delta <= structuralShockMinDelta || oldCount == 0 {
		return false
	}
	return float64(delta) > structuralShockMinRatio*float64(oldCount)
}

func anyKeyed(a *vnode.Arena, ids []vnode.ID) bool {
	for _, id := range ids {
		if n := a.Get(id); n != nil && n.Key != nil {
			return true
		}
	}
	return false
}

// reconcileKeyed implements §4.4(a): match by key, mount unmatched new
// children, unmount unmatched old children, and emit a single set_children
// reflecting the final order.
func reconcileKeyed(r *Reconciler, oldChildren, newChildren []vnode.ID, newParentID vnode.ID, parentViewID vnode.ViewID) {
	oldByKey := make(map[any]vnode.ID, len(oldChildren))
	seen := make(map[any]bool, len(oldChildren))
	for _, id := range oldChildren {
		n := r.oldArena.Get(id)
		if n == nil {
			continue
		}
		key := n.Key
		if key == nil {
			key = positionFallbackKey(id)
		}
		if seen[key] {
			err := &AuthorError{Reason: fmt.Sprintf("duplicate key %v among siblings, falling back to position", key)}
			logging.Warn("author error", zap.Error(err))
			key = positionFallbackKey(id)
		}
		seen[key] = true
		oldByKey[key] = id
	}

	matchedOld := make(map[vnode.ID]bool, len(oldChildren))
	for i, newID := range newChildren {
		n := r.newArena.Get(newID)
		if n == nil {
			continue
		}
		n.Parent = newParentID
		key := n.Key
		if key == nil {
			key = positionFallbackKey(newID)
		}
		if oldID, ok := oldByKey[key]; ok {
			matchedOld[oldID] = true
			r.Reconcile(oldID, newID, parentViewID, i)
		} else {
			r.mountChild(newID)
		}
	}

	for _, oldID := range oldChildren {
		if !matchedOld[oldID] {
			r.Unmount(oldID)
		}
	}

	emitSetChildren(r, parentViewID, newParentID)
}

// positionFallbackKey gives an unkeyed (or duplicate-keyed) child a synthetic
// identity distinct from any user-supplied key value, per invariant 8's
// "resolved by position fallback".
func positionFallbackKey(id vnode.ID) any { return id }

// reconcilePositional implements §4.4(b): the two-index walk with
// insertion/removal look-ahead, falling back to the by_position /
// by_position_and_props registry tables (§4.1) as a last resort before
// replacing an unkeyed component that moved beyond lookaheadWindow.
func reconcilePositional(r *Reconciler, oldChildren, newChildren []vnode.ID, newParentID vnode.ID, parentViewID vnode.ViewID) {
	oldChildViewIDs := childViewIDsFlattened(r.oldArena, oldChildren)
	consumed := make(map[vnode.ID]bool)
	i, j := 0, 0
	for i < len(oldChildren) || j < len(newChildren) {
		if i < len(oldChildren) && consumed[oldChildren[i]] {
			// already reunited with a new sibling further along via the
			// position registry below; nothing left to do at this slot.
			i++
			continue
		}

		switch {
		case i >= len(oldChildren):
			mountAt(r, newChildren[j], newParentID)
			rememberPosition(r, parentViewID, j, newChildren[j])
			j++

		case j >= len(newChildren):
			r.Unmount(oldChildren[i])
			i++

		case compatible(r.oldArena, r.newArena, oldChildren[i], newChildren[j]):
			if cn := r.newArena.Get(newChildren[j]); cn != nil {
				cn.Parent = newParentID
			}
			r.Reconcile(oldChildren[i], newChildren[j], parentViewID, j)
			rememberPosition(r, parentViewID, j, newChildren[j])
			i++
			j++

		default:
			if k := findAhead(r.oldArena, r.newArena, oldChildren[i], newChildren, j, lookaheadWindow); k > 0 {
				for off := 0; off < k; off++ {
					mountAt(r, newChildren[j+off], newParentID)
					rememberPosition(r, parentViewID, j+off, newChildren[j+off])
				}
				j += k
				continue
			}
			if k := findAhead(r.newArena, r.oldArena, newChildren[j], oldChildren, i, lookaheadWindow); k > 0 {
				for off := 0; off < k; off++ {
					if !consumed[oldChildren[i+off]] {
						r.Unmount(oldChildren[i+off])
					}
				}
				i += k
				continue
			}
			if oldID, ok := recoverByPosition(r, parentViewID, j, newChildren[j], consumed); ok {
				r.Unmount(oldChildren[i])
				if cn := r.newArena.Get(newChildren[j]); cn != nil {
					cn.Parent = newParentID
				}
				r.Reconcile(oldID, newChildren[j], parentViewID, j)
				consumed[oldID] = true
				rememberPosition(r, parentViewID, j, newChildren[j])
				i++
				j++
				continue
			}
			r.replace(oldChildren[i], newChildren[j], parentViewID, j)
			rememberPosition(r, parentViewID, j, newChildren[j])
			i++
			j++
		}
	}
	emitSetChildrenIfChanged(r, parentViewID, newParentID, oldChildViewIDs)
}

// recoverByPosition implements §4.1's position tables as the positional
// path's last resort before replace(): a component that moved further than
// lookaheadWindow still keeps its identity (and state) if the position it
// lands on recognizes it, either exactly (by_position_and_props, when props
// also match) or approximately (by_position, component type alone).
// candidate ids already claimed earlier in this same walk (consumed) are
// never reused a second time.
func recoverByPosition(r *Reconciler, parentViewID vnode.ViewID, index int, newID vnode.ID, consumed map[vnode.ID]bool) (vnode.ID, bool) {
	n := r.newArena.Get(newID)
	if n == nil || !n.Kind.RendersToChild() {
		return vnode.NoID, false
	}
	key := registry.PositionKey{ParentViewID: parentViewID, ChildIndex: index, ComponentType: n.ComponentType}

	if oldID, ok := r.reg.LookupByPositionAndProps(registry.PositionPropsKey{PositionKey: key, PropsHash: proputil.PropsHash(n.Props)}); ok {
		if !consumed[oldID] && compatible(r.oldArena, r.newArena, oldID, newID) {
			return oldID, true
		}
	}
	if oldID, ok := r.reg.LookupByPosition(key); ok {
		if !consumed[oldID] && compatible(r.oldArena, r.newArena, oldID, newID) {
			return oldID, true
		}
	}
	return vnode.NoID, false
}

// rememberPosition records newID under its position keys so a future render
// that lands a same-typed unkeyed component on a position beyond the
// lookahead window can still recover it via recoverByPosition.
func rememberPosition(r *Reconciler, parentViewID vnode.ViewID, index int, newID vnode.ID) {
	n := r.newArena.Get(newID)
	if n == nil || !n.Kind.RendersToChild() {
		return
	}
	key := registry.PositionKey{ParentViewID: parentViewID, ChildIndex: index, ComponentType: n.ComponentType}
	r.reg.StoreByPosition(key, newID)
	r.reg.StoreByPositionAndProps(registry.PositionPropsKey{PositionKey: key, PropsHash: proputil.PropsHash(n.Props)}, newID)
}

func mountAt(r *Reconciler, newID vnode.ID, newParentID vnode.ID) {
	if cn := r.newArena.Get(newID); cn != nil {
		cn.Parent = newParentID
	}
	r.mountChild(newID)
}

// findAhead scans up to window positions of candidates (starting at from)
// for an entry compatible with target, returning the offset at which it was
// found, or 0 if none. targetArena/target and candidateArena/candidates are
// kept as separate pairs so this single helper serves both the insertion
// scan (target is old[i], candidates are new[j..]) and the removal scan
// (target is new[j], candidates are old[i..]).
func findAhead(targetArena, candidateArena *vnode.Arena, target vnode.ID, candidates []vnode.ID, from, window int) int {
	limit := from + window
	if limit > len(candidates) {
		limit = len(candidates)
	}
	for k := from; k < limit; k++ {
		if compatible(targetArena, candidateArena, target, candidates[k]) {
			return k - from
		}
	}
	return 0
}

// emitSetChildren appends a single set_children effect reflecting
// newParentID's final child order, per §4.4's "emitting a single
// set_children effect on the parent with the final ordered view-id
// sequence." Skipped when the parent owns no native view (fragments never
// reach here directly, but a fragment-only top level can).
func emitSetChildren(r *Reconciler, parentViewID vnode.ViewID, newParentID vnode.ID) {
	if parentViewID == vnode.NoView {
		return
	}
	children := childViewIDsFlattened(r.newArena, r.newArena.Children(newParentID))
	r.effects.Append(effect.Effect{Kind: effect.SetChildren, ViewID: parentViewID, Children: children})
}

// emitSetChildrenIfChanged is emitSetChildren's positional-path counterpart:
// the positional walk can run its full i/j sweep and still land on the same
// final child order it started with (every pair matched in place, nothing
// inserted or removed), and emitting set_children in that case would violate
// the idempotence law that reconciling a tree against a structurally equal
// copy of itself produces no effects. oldChildViewIDs is the parent's
// committed order captured before the walk began; the keyed and
// structural-shock paths keep emitting unconditionally since a key-matched
// reorder or a full replace is exactly the kind of change set_children
// exists to report.
func emitSetChildrenIfChanged(r *Reconciler, parentViewID vnode.ViewID, newParentID vnode.ID, oldChildViewIDs []vnode.ViewID) {
	if parentViewID == vnode.NoView {
		return
	}
	children := childViewIDsFlattened(r.newArena, r.newArena.Children(newParentID))
	if sameViewIDOrder(oldChildViewIDs, children) {
		return
	}
	r.effects.Append(effect.Effect{Kind: effect.SetChildren, ViewID: parentViewID, Children: children})
}

func sameViewIDOrder(a, b []vnode.ViewID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
