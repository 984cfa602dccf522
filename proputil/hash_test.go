package proputil

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/forgelogic/reconcile/vnode"
)

func TestPropsHashOrderIndependent(t *testing.T) {
	a := vnode.Props{"b": 2, "a": 1}
	b := vnode.Props{"a": 1, "b": 2}
	assert.Equal(t, PropsHash(a), PropsHash(b))
}

func TestPropsHashIgnoresHandlers(t *testing.T) {
	base := vnode.Props{"a": 1}
	withHandler := vnode.Props{"a": 1, "onClick": vnode.EventHandler(func(any) {})}
	assert.Equal(t, PropsHash(base), PropsHash(withHandler))
}

func TestPropsHashDiffersOnValueChange(t *testing.T) {
	a := vnode.Props{"a": 1}
	b := vnode.Props{"a": 2}
	assert.NotEqual(t, PropsHash(a), PropsHash(b))
}

func TestPropsHashNested(t *testing.T) {
	a := vnode.Props{"style": map[string]any{"x": 1, "y": 2}}
	b := vnode.Props{"style": map[string]any{"y": 2, "x": 1}}
	assert.Equal(t, PropsHash(a), PropsHash(b), "nested map keys must hash in deterministic order")
}
