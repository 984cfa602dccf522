package worker

import (
	"context"
	"time"

	"github.com/forgelogic/reconcile/effect"
	"github.com/forgelogic/reconcile/proputil"
	"github.com/forgelogic/reconcile/registry"
	"github.com/forgelogic/reconcile/vnode"
)

// DefaultDirectReplaceThreshold is T_direct_replace from spec.md §4.8 step 1:
// below this combined node count, the instant-navigation similarity check
// never runs and every reconciliation goes through the ordinary diff.
const DefaultDirectReplaceThreshold = 100

// DefaultSimilarityFloor is the S below which a large subtree pair is
// considered unrelated enough to skip diffing entirely and replace outright.
const DefaultSimilarityFloor = 0.2

// Dispatcher combines the similarity gate, the bounded pool, and the applier
// into the single entry point an engine calls per off-thread reconciliation
// (spec.md §4.8 steps 1-4).
type Dispatcher struct {
	Pool                   *Pool
	Cache                  *proputil.SimilarityCache
	DirectReplaceThreshold int
	SimilarityFloor        float64
	Timeout                time.Duration
}

// NewDispatcher creates a Dispatcher with spec.md default thresholds.
func NewDispatcher(pool *Pool, cache *proputil.SimilarityCache) *Dispatcher {
	return &Dispatcher{
		Pool:                   pool,
		Cache:                  cache,
		DirectReplaceThreshold: DefaultDirectReplaceThreshold,
		SimilarityFloor:        DefaultSimilarityFloor,
	}
}

// Reconcile serializes the (oldID, newID) subtree pair out of their
// respective arenas, gates on subtree similarity for large pairs, dispatches
// the remaining diff work to the pool, and splices the result back into
// newArena/reg, returning a ready-to-commit effect.List.
func (d *Dispatcher) Reconcile(ctx context.Context, reg *registry.Registry, oldArena, newArena *vnode.Arena, oldID, newID vnode.ID, parentViewID vnode.ViewID, index int) (*effect.List, error) {
	oldSerialized := Serialize(oldArena, oldID)
	newSerialized := Serialize(newArena, newID)

	if countNodes(oldSerialized)+countNodes(newSerialized) >= d.directReplaceThreshold() {
		score, ok := d.Cache.Get(int32(oldID), int32(newID))
		if !ok {
			score = proputil.Similarity(oldSerialized.TypeSequence(), newSerialized.TypeSequence())
			d.Cache.Put(int32(oldID), int32(newID), score)
		}
		if score < d.similarityFloor() {
			return d.directReplace(reg, newArena, oldSerialized, newSerialized, parentViewID, index), nil
		}
	}

	plan, err := d.Pool.Dispatch(ctx, oldSerialized, newSerialized, d.Timeout)
	if err != nil {
		return nil, err
	}
	applier := NewApplier(reg, newArena)
	list := effect.NewList()
	list.AppendAll(applier.Apply(plan))
	return list, nil
}

// directReplace implements the instant-navigation path of spec.md §4.8 step
// 1: the old subtree is deleted and the new one mounted fresh, with a single
// top-level attach_view rather than a diff walk, mirroring scenario 5's
// expected effect sequence.
func (d *Dispatcher) directReplace(reg *registry.Registry, arena *vnode.Arena, oldSerialized, newSerialized SerializedNode, parentViewID vnode.ViewID, index int) *effect.List {
	c := &diffCtx{reg: make(listenerTable)}
	c.unmount(oldSerialized)
	c.mount(newSerialized, parentViewID, index, true)

	applier := NewApplier(reg, arena)
	list := effect.NewList()
	list.AppendAll(applier.Apply(Plan{Effects: c.plan}))
	return list
}

func (d *Dispatcher) directReplaceThreshold() int {
	if d.DirectReplaceThreshold > 0 {
		return d.DirectReplaceThreshold
	}
	return DefaultDirectReplaceThreshold
}

func (d *Dispatcher) similarityFloor() float64 {
	if d.SimilarityFloor > 0 {
		return d.SimilarityFloor
	}
	return DefaultSimilarityFloor
}

func countNodes(n SerializedNode) int {
	if n.Kind == vnode.KindEmpty {
		return 0
	}
	count := 1
	for _, c := range n.Children {
		count += countNodes(c)
	}
	return count
}
