package vnode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArenaAllocGetFree(t *testing.T) {
	a := NewArena()
	id := a.Alloc(NewElement("View", Props{"x": 1}, nil, nil))
	require.Equal(t, 1, a.Live())

	n := a.Get(id)
	require.NotNil(t, n)
	assert.Equal(t, "View", n.ElementType)

	a.Free(id)
	assert.Equal(t, 0, a.Live())
	assert.Nil(t, a.Get(id).Children)

	// the freed slot is recycled on next alloc
	id2 := a.Alloc(NewElement("Text", nil, nil, nil))
	assert.Equal(t, id, id2)
}

func TestArenaGetOutOfRange(t *testing.T) {
	a := NewArena()
	assert.Nil(t, a.Get(NoID))
	assert.Nil(t, a.Get(42))
}

func TestArenaChildren(t *testing.T) {
	a := NewArena()
	leaf := a.Alloc(NewElement("Text", nil, nil, nil))
	parent := a.Alloc(NewElement("View", nil, []ID{leaf}, nil))
	assert.Equal(t, []ID{leaf}, a.Children(parent))
	assert.Nil(t, a.Children(NoID))
}

func TestArenaCloneIsIndependent(t *testing.T) {
	a := NewArena()
	leaf := a.Alloc(NewElement("Text", Props{"value": "a"}, nil, nil))
	parent := a.Alloc(NewElement("View", nil, []ID{leaf}, nil))

	clone := a.Clone()

	// mutating the clone must not affect the original
	clone.Get(leaf).Props["value"] = "b"
	clone.Get(parent).Children = append(clone.Get(parent).Children, 99)

	assert.Equal(t, "a", a.Get(leaf).Props["value"])
	assert.Equal(t, []ID{leaf}, a.Children(parent))
	assert.Equal(t, []ID{leaf, 99}, clone.Children(parent))
}

func TestResolveRenderedElementWalksComponentChain(t *testing.T) {
	a := NewArena()
	leaf := a.Alloc(NewElement("Text", nil, nil, nil))
	inner := a.Alloc(NewStatelessComponent("Inner", nil, nil, nil))
	a.Get(inner).RenderedNode = leaf
	outer := a.Alloc(NewStatefulComponent("Outer", nil, nil, nil))
	a.Get(outer).RenderedNode = inner

	assert.Equal(t, leaf, a.ResolveRenderedElement(outer))
	assert.Equal(t, leaf, a.ResolveRenderedElement(leaf))
}

func TestIsEventPropAndEventName(t *testing.T) {
	assert.True(t, IsEventProp("onClick", EventHandler(func(any) {})))
	assert.False(t, IsEventProp("onClick", "not a handler"))
	assert.False(t, IsEventProp("title", EventHandler(func(any) {})))

	assert.Equal(t, "click", EventName("onClick"))
	assert.Equal(t, "mousedown", EventName("onmousedown"))
}
