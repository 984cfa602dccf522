package worker

import (
	"github.com/forgelogic/reconcile/effect"
	"github.com/forgelogic/reconcile/registry"
	"github.com/forgelogic/reconcile/vnode"
)

// Applier implements spec.md §4.8 step 4: "allocate real view ids for
// placeholders, splice into the node registry, emit effects in plan
// order." It runs on the main context only; Plan itself never touches the
// registry or a live arena (spec.md §5).
type Applier struct {
	reg   *registry.Registry
	arena *vnode.Arena

	viewIDs map[vnode.ViewID]vnode.ViewID // placeholder -> real
	nodes   map[vnode.ViewID]vnode.ID     // real view id -> arena id, for ids touched by this plan
}

// NewApplier creates an Applier that splices plan output into arena,
// allocating real view ids from reg.
func NewApplier(reg *registry.Registry, arena *vnode.Arena) *Applier {
	return &Applier{reg: reg, arena: arena, viewIDs: make(map[vnode.ViewID]vnode.ViewID), nodes: make(map[vnode.ViewID]vnode.ID)}
}

// Apply walks plan in order, allocating a real view id for every Create
// record's placeholder, materializing a vnode.Node for it in the
// destination arena, wiring SetChildren-declared parent/child arena links,
// and returning the effects with every placeholder reference resolved to a
// real view id, ready to append to an effect.List.
func (ap *Applier) Apply(plan Plan) []effect.Effect {
	out := make([]effect.Effect, 0, len(plan.Effects))
	for _, e := range plan.Effects {
		e.ViewID = ap.resolve(e.ViewID)
		e.ParentID = ap.resolve(e.ParentID)
		for i, c := range e.Children {
			e.Children[i] = ap.resolve(c)
		}

		switch e.Kind {
		case effect.Create:
			id := ap.arena.Alloc(vnode.NewElement(e.ElementType, e.Props, nil, nil))
			node := ap.arena.Get(id)
			node.ViewID = e.ViewID
			ap.reg.RegisterView(e.ViewID, id)
			ap.nodes[e.ViewID] = id

		case effect.SetChildren:
			if parentArenaID, ok := ap.arenaIDFor(e.ViewID); ok {
				parent := ap.arena.Get(parentArenaID)
				children := make([]vnode.ID, 0, len(e.Children))
				for _, childViewID := range e.Children {
					if childArenaID, ok := ap.arenaIDFor(childViewID); ok {
						children = append(children, childArenaID)
						if childNode := ap.arena.Get(childArenaID); childNode != nil {
							childNode.Parent = parentArenaID
						}
					}
				}
				if parent != nil {
					parent.Children = children
				}
			}
		}

		out = append(out, e)
	}
	return out
}

// RootArenaID returns the arena id for the given view id, resolving a
// plan placeholder to the real view id first, for a caller that needs to
// splice the resulting subtree into a position in its own tree.
func (ap *Applier) RootArenaID(rootPlaceholderOrRealViewID vnode.ViewID) (vnode.ID, bool) {
	return ap.arenaIDFor(ap.resolve(rootPlaceholderOrRealViewID))
}

func (ap *Applier) resolve(v vnode.ViewID) vnode.ViewID {
	if v >= 0 {
		return v
	}
	if real, ok := ap.viewIDs[v]; ok {
		return real
	}
	real := ap.reg.AllocateViewID()
	ap.viewIDs[v] = real
	return real
}

func (ap *Applier) arenaIDFor(viewID vnode.ViewID) (vnode.ID, bool) {
	if id, ok := ap.nodes[viewID]; ok {
		return id, true
	}
	return ap.reg.LookupView(viewID)
}
