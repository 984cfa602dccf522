package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgelogic/reconcile/vnode"
)

func TestAllocateViewIDMonotonicNeverRecycled(t *testing.T) {
	r := New()
	first := r.AllocateViewID()
	second := r.AllocateViewID()
	require.Greater(t, int32(second), int32(first))
	assert.NotEqual(t, vnode.RootViewID, first, "root view id is reserved, never handed out")

	r.ForgetView(first)
	third := r.AllocateViewID()
	assert.Greater(t, int32(third), int32(second), "ids are not recycled after a view is forgotten")
}

func TestRegisterAndLookupView(t *testing.T) {
	r := New()
	v := r.AllocateViewID()
	r.RegisterView(v, vnode.ID(7))

	id, ok := r.LookupView(v)
	require.True(t, ok)
	assert.Equal(t, vnode.ID(7), id)

	r.ForgetView(v)
	_, ok = r.LookupView(v)
	assert.False(t, ok)
}

func TestPositionTables(t *testing.T) {
	r := New()
	key := PositionKey{ParentViewID: 1, ChildIndex: 0, ComponentType: "Counter"}
	r.StoreByPosition(key, vnode.ID(3))

	id, ok := r.LookupByPosition(key)
	require.True(t, ok)
	assert.Equal(t, vnode.ID(3), id)

	r.EvictByPosition(key)
	_, ok = r.LookupByPosition(key)
	assert.False(t, ok)
}

func TestPositionPropsTieBreaker(t *testing.T) {
	r := New()
	key := PositionPropsKey{
		PositionKey: PositionKey{ParentViewID: 1, ChildIndex: 0, ComponentType: "Counter"},
		PropsHash:   42,
	}
	r.StoreByPositionAndProps(key, vnode.ID(9))

	id, ok := r.LookupByPositionAndProps(key)
	require.True(t, ok)
	assert.Equal(t, vnode.ID(9), id)
}

func TestHandlerDispatch(t *testing.T) {
	r := New()
	var called any
	r.SetHandler(5, "click", func(data any) { called = data })

	r.Dispatch(5, "click", "payload")
	assert.Equal(t, "payload", called)

	names := r.ListenerNames(5)
	_, ok := names["click"]
	assert.True(t, ok)

	r.RemoveHandler(5, "click")
	called = nil
	r.Dispatch(5, "click", "ignored")
	assert.Nil(t, called, "removed handler must not fire")
}

func TestDispatchUnknownViewIsSilent(t *testing.T) {
	r := New()
	assert.NotPanics(t, func() { r.Dispatch(999, "click", nil) })
}
