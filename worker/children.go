package worker

import (
	"github.com/forgelogic/reconcile/effect"
	"github.com/forgelogic/reconcile/vnode"
)

// lookaheadWindow mirrors reconcile.lookaheadWindow (spec.md §4.4(b)'s W,
// documented default 4); duplicated here rather than imported since the
// worker package must not depend on the main-context reconcile package
// (spec.md §5: workers see only their serialized argument).
const lookaheadWindow = 4

const (
	structuralShockMinDelta = 3
	structuralShockMinRatio = 0.5
)

// reconcileChildren mirrors reconcile.ReconcileChildren over SerializedNode
// slices, emitting diff-plan records instead of effect.Effect directly
// bound to a live arena. It emits the trailing set_children itself and
// returns the final new-children slice (with carried-over view ids).
func (c *diffCtx) reconcileChildren(oldChildren, newChildren []SerializedNode, parentViewID vnode.ViewID) []SerializedNode {
	if len(oldChildren) == 0 && len(newChildren) == 0 {
		return newChildren
	}

	if structuralShock(len(oldChildren), len(newChildren)) {
		for _, o := range oldChildren {
			c.unmount(o)
		}
		for i := range newChildren {
			newChildren[i] = c.mount(newChildren[i], parentViewID, i, false)
		}
		c.emitSetChildren(parentViewID, newChildren)
		return newChildren
	}

	if anyKeyed(oldChildren) || anyKeyed(newChildren) {
		result := c.reconcileKeyed(oldChildren, newChildren, parentViewID)
		c.emitSetChildren(parentViewID, result)
		return result
	}

	oldOrder := flattenViewIDs(oldChildren)
	result := c.reconcilePositional(oldChildren, newChildren, parentViewID)
	c.emitSetChildrenIfChanged(parentViewID, oldOrder, result)
	return result
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

func anyKeyed(nodes []SerializedNode) bool {
	for _, n := range nodes {
		if n.Key != nil {
			return true
		}
	}
	return false
}

func compatible(o, n SerializedNode) bool {
	if o.Kind == vnode.KindElement && n.Kind == vnode.KindElement {
		return o.Type == n.Type
	}
	return o.Kind == n.Kind && (o.Kind == vnode.KindFragment || o.Kind == vnode.KindEmpty)
}

func (c *diffCtx) reconcileKeyed(oldChildren, newChildren []SerializedNode, parentViewID vnode.ViewID) []SerializedNode {
	oldByKey := make(map[any]SerializedNode, len(oldChildren))
	for i, o := range oldChildren {
		key := o.Key
		if key == nil {
			key = i
		}
		oldByKey[key] = o
	}

	matched := make(map[any]bool, len(oldChildren))
	result := make([]SerializedNode, len(newChildren))
	for i, n := range newChildren {
		key := n.Key
		if key == nil {
			key = i
		}
		if o, ok := oldByKey[key]; ok {
			matched[key] = true
			result[i] = c.reconcile(o, n, parentViewID, i)
		} else {
			result[i] = c.mount(n, parentViewID, i, false)
		}
	}
	for i, o := range oldChildren {
		key := o.Key
		if key == nil {
			key = i
		}
		if !matched[key] {
			c.unmount(o)
		}
	}
	return result
}

func (c *diffCtx) reconcilePositional(oldChildren, newChildren []SerializedNode, parentViewID vnode.ViewID) []SerializedNode {
	i, j := 0, 0
	var result []SerializedNode
	for i < len(oldChildren) || j < len(newChildren) {
		switch {
		case i >= len(oldChildren):
			result = append(result, c.mount(newChildren[j], parentViewID, j, false))
			j++

		case j >= len(newChildren):
			c.unmount(oldChildren[i])
			i++

		case compatible(oldChildren[i], newChildren[j]):
			result = append(result, c.reconcile(oldChildren[i], newChildren[j], parentViewID, j))
			i++
			j++

		default:
			if k := findAheadNew(oldChildren[i], newChildren, j, lookaheadWindow); k > 0 {
				for off := 0; off < k; off++ {
					result = append(result, c.mount(newChildren[j+off], parentViewID, j+off, false))
				}
				j += k
				continue
			}
			if k := findAheadOld(newChildren[j], oldChildren, i, lookaheadWindow); k > 0 {
				for off := 0; off < k; off++ {
					c.unmount(oldChildren[i+off])
				}
				i += k
				continue
			}
			result = append(result, c.replace(oldChildren[i], newChildren[j], parentViewID, j))
			i++
			j++
		}
	}
	return result
}

func findAheadNew(target SerializedNode, candidates []SerializedNode, from, window int) int {
	limit := from + window
	if limit > len(candidates) {
		limit = len(candidates)
	}
	for k := from; k < limit; k++ {
		if compatible(target, candidates[k]) {
			return k - from
		}
	}
	return 0
}

func findAheadOld(target SerializedNode, candidates []SerializedNode, from, window int) int {
	return findAheadNew(target, candidates, from, window)
}

func (c *diffCtx) emitSetChildren(parentViewID vnode.ViewID, children []SerializedNode) {
	if parentViewID == vnode.NoView {
		return
	}
	ids := flattenViewIDs(children)
	if len(ids) == 0 {
		return
	}
	c.plan = append(c.plan, effect.Effect{Kind: effect.SetChildren, ViewID: parentViewID, Children: ids})
}

// emitSetChildrenIfChanged mirrors reconcile.emitSetChildrenIfChanged: the
// positional path's two-index walk can settle back on the same child order
// it started from, and emitting set_children in that case would violate the
// idempotence law (reconciling a tree against a structurally equal copy of
// itself must produce no effects). The keyed and structural-shock paths keep
// emitting unconditionally.
func (c *diffCtx) emitSetChildrenIfChanged(parentViewID vnode.ViewID, oldOrder []vnode.ViewID, children []SerializedNode) {
	if parentViewID == vnode.NoView {
		return
	}
	ids := flattenViewIDs(children)
	if len(ids) == 0 {
		return
	}
	if sameViewIDOrder(oldOrder, ids) {
		return
	}
	c.plan = append(c.plan, effect.Effect{Kind: effect.SetChildren, ViewID: parentViewID, Children: ids})
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
