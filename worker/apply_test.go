package worker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgelogic/reconcile/effect"
	"github.com/forgelogic/reconcile/registry"
	"github.com/forgelogic/reconcile/vnode"
)

func TestApplierResolvesPlaceholdersToRealViewIDs(t *testing.T) {
	reg := registry.New()
	arena := vnode.NewArena()
	ap := NewApplier(reg, arena)

	plan := Plan{Effects: []effect.Effect{
		{Kind: effect.Create, ViewID: -1, ElementType: "View"},
		{Kind: effect.SetChildren, ViewID: -1, Children: nil},
	}}

	out := ap.Apply(plan)
	require.Len(t, out, 2)
	assert.Positive(t, int32(out[0].ViewID), "a placeholder resolves to a real, positive view id")
	assert.Equal(t, out[0].ViewID, out[1].ViewID)

	arenaID, ok := ap.RootArenaID(-1)
	require.True(t, ok)
	node := arena.Get(arenaID)
	require.NotNil(t, node)
	assert.Equal(t, "View", node.ElementType)
	assert.Equal(t, out[0].ViewID, node.ViewID)

	_, ok = reg.LookupView(out[0].ViewID)
	assert.True(t, ok, "a real view id created by Apply is registered")
}

func TestApplierWiresChildrenAndParent(t *testing.T) {
	reg := registry.New()
	arena := vnode.NewArena()
	ap := NewApplier(reg, arena)

	plan := Plan{Effects: []effect.Effect{
		{Kind: effect.Create, ViewID: -2, ElementType: "Text"},
		{Kind: effect.Create, ViewID: -1, ElementType: "View"},
		{Kind: effect.SetChildren, ViewID: -1, Children: []vnode.ViewID{-2}},
	}}

	ap.Apply(plan)

	parentArenaID, ok := ap.RootArenaID(-1)
	require.True(t, ok)
	parent := arena.Get(parentArenaID)
	require.Len(t, parent.Children, 1)

	childArenaID := parent.Children[0]
	child := arena.Get(childArenaID)
	require.NotNil(t, child)
	assert.Equal(t, parentArenaID, child.Parent)
	assert.Equal(t, "Text", child.ElementType)
}

func TestApplierReusesAlreadyRealViewIDs(t *testing.T) {
	reg := registry.New()
	arena := vnode.NewArena()
	existingID := arena.Alloc(vnode.NewElement("Text", nil, nil, nil))
	arena.Get(existingID).ViewID = 5
	reg.RegisterView(5, existingID)

	ap := NewApplier(reg, arena)
	plan := Plan{Effects: []effect.Effect{
		{Kind: effect.Update, ViewID: 5, Changed: map[string]any{"value": "x"}},
	}}

	out := ap.Apply(plan)
	require.Len(t, out, 1)
	assert.Equal(t, vnode.ViewID(5), out[0].ViewID, "an already-real view id passes through unchanged")
}
