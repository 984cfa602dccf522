package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgelogic/reconcile/registry"
	"github.com/forgelogic/reconcile/vnode"
)

func handler() vnode.EventHandler { return func(any) {} }

func TestReconcileAddsAndRemovesByName(t *testing.T) {
	reg := registry.New()
	v := vnode.ViewID(1)

	oldProps := vnode.Props{"onClick": handler()}
	newProps := vnode.Props{"onInput": handler()}

	InitialListenerNames(reg, v, oldProps)

	added, removed := Reconcile(reg, v, oldProps, newProps)
	assert.ElementsMatch(t, []string{"input"}, added)
	assert.ElementsMatch(t, []string{"click"}, removed)
}

func TestReconcileHandlerIdentityChangeAloneProducesNoNames(t *testing.T) {
	reg := registry.New()
	v := vnode.ViewID(1)

	h1, h2 := handler(), handler()
	InitialListenerNames(reg, v, vnode.Props{"onClick": h1})

	added, removed := Reconcile(reg, v, vnode.Props{"onClick": h1}, vnode.Props{"onClick": h2})
	assert.Empty(t, added)
	assert.Empty(t, removed)

	var fired bool
	reg.SetHandler(v, "click", func(any) { fired = true })
	reg.Dispatch(v, "click", nil)
	assert.True(t, fired)
}

func TestReconcileNoPriorStateTreatsEverythingAsAdded(t *testing.T) {
	reg := registry.New()
	v := vnode.ViewID(3)

	added, removed := Reconcile(reg, v, vnode.Props{}, vnode.Props{"onClick": handler()})
	assert.ElementsMatch(t, []string{"click"}, added)
	assert.Empty(t, removed)
}

func TestInitialListenerNames(t *testing.T) {
	reg := registry.New()
	v := vnode.ViewID(2)
	props := vnode.Props{"onClick": handler(), "title": "x"}

	names := InitialListenerNames(reg, v, props)
	require.Len(t, names, 1)
	assert.Equal(t, "click", names[0])
}

func TestIsSupportedUnknownEventIsPermissive(t *testing.T) {
	assert.True(t, IsSupported("customEvent", "div"))
}

func TestIsSupportedKnownEvent(t *testing.T) {
	assert.True(t, IsSupported("submit", "form"))
	assert.False(t, IsSupported("submit", "img"))
}
