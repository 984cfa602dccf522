package worker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgelogic/reconcile/effect"
	"github.com/forgelogic/reconcile/vnode"
)

func elem(viewID vnode.ViewID, typ string, key any, props vnode.Props, children ...SerializedNode) SerializedNode {
	return SerializedNode{Kind: vnode.KindElement, Type: typ, Key: key, Props: props, ViewID: viewID, Children: children}
}

func TestDiffPropOnlyChangeEmitsSingleUpdate(t *testing.T) {
	old := elem(1, "Text", nil, vnode.Props{"value": "a"})
	newN := elem(1, "Text", nil, vnode.Props{"value": "b"})

	plan := Diff(old, newN)
	require.Len(t, plan.Effects, 1)
	assert.Equal(t, effect.Update, plan.Effects[0].Kind)
	assert.Equal(t, "b", plan.Effects[0].Changed["value"])
}

func TestDiffElementTypeChangeEmitsDeleteThenCreate(t *testing.T) {
	old := elem(1, "View", nil, nil)
	newN := elem(0, "Text", nil, nil)

	plan := Diff(old, newN)
	require.GreaterOrEqual(t, len(plan.Effects), 2)
	assert.Equal(t, effect.Delete, plan.Effects[0].Kind)
	assert.Equal(t, effect.Create, plan.Effects[1].Kind)
	assert.Less(t, int32(plan.Effects[1].ViewID), int32(0), "a fresh mount's view id is a negative placeholder")
}

func TestDiffKeyedReorderEmitsSingleSetChildren(t *testing.T) {
	a := elem(1, "Text", "a", nil)
	b := elem(2, "Text", "b", nil)
	oldParent := elem(10, "View", nil, nil, a, b)

	na := elem(0, "Text", "a", nil)
	nb := elem(0, "Text", "b", nil)
	newParent := elem(10, "View", nil, nil, nb, na)

	plan := Diff(oldParent, newParent)
	var setChildren []effect.Effect
	for _, e := range plan.Effects {
		if e.Kind == effect.SetChildren {
			setChildren = append(setChildren, e)
		}
	}
	require.Len(t, setChildren, 1)
	assert.Equal(t, []vnode.ViewID{2, 1}, setChildren[0].Children, "keyed children carry their view ids forward across reorder")
}

func TestDiffStructuralShockReplacesAllChildren(t *testing.T) {
	var oldChildren []SerializedNode
	for i := 0; i < 10; i++ {
		oldChildren = append(oldChildren, elem(vnode.ViewID(i+1), "Text", nil, nil))
	}
	oldParent := elem(100, "View", nil, nil, oldChildren...)
	newParent := elem(100, "View", nil, nil, elem(0, "Text", nil, nil))

	plan := Diff(oldParent, newParent)
	deletes := 0
	for _, e := range plan.Effects {
		if e.Kind == effect.Delete {
			deletes++
		}
	}
	assert.Equal(t, 10, deletes)
}

func TestDiffListenerAddRemove(t *testing.T) {
	old := SerializedNode{Kind: vnode.KindElement, Type: "Button", ViewID: 1, Listener: []string{"click"}}
	newN := SerializedNode{Kind: vnode.KindElement, Type: "Button", ViewID: 1, Listener: []string{"mousedown"}}

	plan := Diff(old, newN)
	var added, removed []string
	for _, e := range plan.Effects {
		switch e.Kind {
		case effect.AddListeners:
			added = e.Names
		case effect.RemoveListeners:
			removed = e.Names
		}
	}
	assert.Equal(t, []string{"mousedown"}, added)
	assert.Equal(t, []string{"click"}, removed)
}

func TestDiffMountEmitsCreate(t *testing.T) {
	old := SerializedNode{Kind: vnode.KindEmpty}
	newN := elem(0, "View", nil, nil)

	// Diff's own top-level call has no enclosing parent view, so a fresh
	// mount never gets an attach record here; the dispatcher's direct-replace
	// path is what supplies a real parentViewID and requests one (dispatch.go).
	plan := Diff(old, newN)
	require.Len(t, plan.Effects, 1)
	assert.Equal(t, effect.Create, plan.Effects[0].Kind)
}
