package worker

import (
	"github.com/forgelogic/reconcile/effect"
	"github.com/forgelogic/reconcile/proputil"
	"github.com/forgelogic/reconcile/vnode"
)

// Plan is the diff-plan vocabulary of spec.md §4.8 step 3, reusing
// effect.Kind/effect.Effect directly since §4.9 states the effect list "is
// equivalent to the diff-plan vocabulary." Create records carry a negative
// placeholder ViewID; every other record references either a placeholder
// produced earlier in this same plan or a real id already known to the
// caller (e.g. the subtree's own root view id, when reconciling rather than
// direct-replacing).
type Plan struct {
	Effects []effect.Effect
}

// placeholderAllocator hands out strictly decreasing negative ids, distinct
// from any real (non-negative) vnode.ViewID, for Create records produced
// during a pure diff computation that has no access to the registry.
type placeholderAllocator struct{ next vnode.ViewID }

func (p *placeholderAllocator) next_() vnode.ViewID {
	p.next--
	return p.next
}

// diffCtx carries the mutable state threaded through one diff computation.
type diffCtx struct {
	alloc   placeholderAllocator
	plan    []effect.Effect
	reg     listenerTable
}

// listenerTable is the worker's own scratch copy of which listener names a
// placeholder or existing view id currently has — it cannot touch
// registry.Registry (main-context-only per spec.md §5), so it rebuilds just
// enough bookkeeping to compute added/removed listener names for the plan.
type listenerTable map[vnode.ViewID]map[string]struct{}

func (t listenerTable) names(id vnode.ViewID) map[string]struct{} { return t[id] }

func (t listenerTable) set(id vnode.ViewID, names []string) {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	t[id] = set
}

// Diff implements spec.md §4.8 step 3: the reconcile walk of §4.3-§4.5 run
// against serialized subtrees instead of live arena nodes, producing an
// ordered Plan. Component-level rules (§4.3 rules 6-7) do not apply here;
// by construction every SerializedNode is already Element/Fragment/Empty.
func Diff(oldNode, newNode SerializedNode) Plan {
	ctx := &diffCtx{reg: make(listenerTable)}
	ctx.reconcile(oldNode, newNode, vnode.NoView, 0)
	return Plan{Effects: ctx.plan}
}

func (c *diffCtx) reconcile(oldNode, newNode SerializedNode, parentViewID vnode.ViewID, index int) SerializedNode {
	oldEmpty := oldNode.Kind == vnode.KindEmpty
	newEmpty := newNode.Kind == vnode.KindEmpty

	switch {
	case oldEmpty && newEmpty:
		return newNode
	case oldEmpty && !newEmpty:
		return c.mount(newNode, parentViewID, index, true)
	case !oldEmpty && newEmpty:
		c.unmount(oldNode)
		return newNode
	}

	if oldNode.Key != nil && newNode.Key != nil && oldNode.Key != newNode.Key {
		return c.replace(oldNode, newNode, parentViewID, index)
	}

	if oldNode.Kind == vnode.KindElement && newNode.Kind == vnode.KindElement && oldNode.Type == newNode.Type {
		return c.reconcileElement(oldNode, newNode)
	}
	if oldNode.Kind == vnode.KindFragment && newNode.Kind == vnode.KindFragment {
		newNode.Children = c.reconcileChildren(oldNode.Children, newNode.Children, parentViewID)
		return newNode
	}

	return c.replace(oldNode, newNode, parentViewID, index)
}

func (c *diffCtx) reconcileElement(oldNode, newNode SerializedNode) SerializedNode {
	newNode.ViewID = oldNode.ViewID

	changed := proputil.Diff(oldNode.Props, newNode.Props)
	if len(changed) > 0 {
		c.plan = append(c.plan, effect.Effect{Kind: effect.Update, ViewID: newNode.ViewID, Changed: changed})
	}

	oldNames := c.reg.names(oldNode.ViewID)
	if oldNames == nil {
		oldNames = toSet(oldNode.Listener)
	}
	newNames := toSet(newNode.Listener)
	var added, removed []string
	for n := range newNames {
		if _, ok := oldNames[n]; !ok {
			added = append(added, n)
		}
	}
	for n := range oldNames {
		if _, ok := newNames[n]; !ok {
			removed = append(removed, n)
		}
	}
	c.reg.set(newNode.ViewID, newNode.Listener)
	if len(added) > 0 {
		c.plan = append(c.plan, effect.Effect{Kind: effect.AddListeners, ViewID: newNode.ViewID, Names: added})
	}
	if len(removed) > 0 {
		c.plan = append(c.plan, effect.Effect{Kind: effect.RemoveListeners, ViewID: newNode.ViewID, Names: removed})
	}

	newNode.Children = c.reconcileChildren(oldNode.Children, newNode.Children, newNode.ViewID)
	return newNode
}

func (c *diffCtx) replace(oldNode, newNode SerializedNode, parentViewID vnode.ViewID, index int) SerializedNode {
	c.unmount(oldNode)
	return c.mount(newNode, parentViewID, index, false)
}

// mount appends creates (and, when attach is true, a trailing attach
// record) for a freshly introduced subtree, mirroring reconcile.Mount /
// reconcile.mountChild's split: attach is only requested for a subtree that
// has no enclosing reconcileChildren call to cover its connection via
// set_children.
func (c *diffCtx) mount(n SerializedNode, parentViewID vnode.ViewID, index int, attach bool) SerializedNode {
	if n.Kind == vnode.KindEmpty {
		return n
	}
	if n.Kind == vnode.KindFragment {
		for i := range n.Children {
			n.Children[i] = c.mount(n.Children[i], parentViewID, index+i, attach)
		}
		return n
	}

	id := c.alloc.next_()
	n.ViewID = id
	c.plan = append(c.plan, effect.Effect{
		Kind: effect.Create, ViewID: id, ElementType: n.Type, Props: n.Props, Names: n.Listener,
	})
	c.reg.set(id, n.Listener)

	for i := range n.Children {
		n.Children[i] = c.mount(n.Children[i], id, i, false)
	}
	if childIDs := flattenViewIDs(n.Children); len(childIDs) > 0 {
		c.plan = append(c.plan, effect.Effect{Kind: effect.SetChildren, ViewID: id, Children: childIDs})
	}
	if attach && parentViewID != vnode.NoView {
		c.plan = append(c.plan, effect.Effect{Kind: effect.Attach, ViewID: id, ParentID: parentViewID, Index: index})
	}
	return n
}

func (c *diffCtx) unmount(n SerializedNode) {
	if n.Kind == vnode.KindEmpty {
		return
	}
	for _, ch := range n.Children {
		c.unmount(ch)
	}
	if n.Kind == vnode.KindElement {
		c.plan = append(c.plan, effect.Effect{Kind: effect.Delete, ViewID: n.ViewID})
	}
}

func flattenViewIDs(nodes []SerializedNode) []vnode.ViewID {
	out := make([]vnode.ViewID, 0, len(nodes))
	var walk func(SerializedNode)
	walk = func(n SerializedNode) {
		switch n.Kind {
		case vnode.KindEmpty:
		case vnode.KindFragment:
			for _, c := range n.Children {
				walk(c)
			}
		default:
			out = append(out, n.ViewID)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return out
}

func toSet(names []string) map[string]struct{} {
	out := make(map[string]struct{}, len(names))
	for _, n := range names {
		out[n] = struct{}{}
	}
	return out
}
