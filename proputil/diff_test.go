package proputil

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/forgelogic/reconcile/vnode"
)

func TestDiffEmptyWhenNoChange(t *testing.T) {
	old := vnode.Props{"title": "a", "count": 3}
	changed := Diff(old, vnode.Props{"title": "a", "count": 3})
	assert.Empty(t, changed, "identical props must not produce an update_view")
}

func TestDiffDetectsAddChangeRemove(t *testing.T) {
	old := vnode.Props{"title": "a", "removed": "x"}
	updated := vnode.Props{"title": "b", "added": "y"}
	changed := Diff(old, updated)

	assert.Equal(t, "b", changed["title"])
	assert.Equal(t, "y", changed["added"])
	assert.Nil(t, changed["removed"])
	assert.Contains(t, changed, "removed")
}

func TestDiffIgnoresEventHandlers(t *testing.T) {
	h1 := vnode.EventHandler(func(any) {})
	h2 := vnode.EventHandler(func(any) {})
	old := vnode.Props{"onClick": h1}
	updated := vnode.Props{"onClick": h2}
	assert.Empty(t, Diff(old, updated), "handler-identity-only changes must not appear in changed_props")
}

func TestDiffDeepComparesNestedValues(t *testing.T) {
	old := vnode.Props{"style": map[string]any{"color": "red", "items": []any{1, 2}}}
	new := vnode.Props{"style": map[string]any{"color": "red", "items": []any{1, 2}}}
	assert.Empty(t, Diff(old, new))

	new2 := vnode.Props{"style": map[string]any{"color": "blue", "items": []any{1, 2}}}
	assert.NotEmpty(t, Diff(old, new2))
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(map[string]any{"a": 1}, map[string]any{"a": 1}))
	assert.False(t, Equal(map[string]any{"a": 1}, map[string]any{"a": 2}))
	assert.True(t, Equal([]any{1, 2}, []any{1, 2}))
	assert.False(t, Equal([]any{1, 2}, []any{2, 1}))
	assert.True(t, Equal(5, 5))
}

func TestNonHandlerPropsStripsHandlers(t *testing.T) {
	props := vnode.Props{"title": "a", "onClick": vnode.EventHandler(func(any) {})}
	out := NonHandlerProps(props)
	assert.Equal(t, vnode.Props{"title": "a"}, out)
}

func TestEventNames(t *testing.T) {
	props := vnode.Props{
		"onClick": vnode.EventHandler(func(any) {}),
		"onInput": vnode.EventHandler(func(any) {}),
		"title":   "a",
	}
	names := EventNames(props)
	assert.Len(t, names, 2)
	_, ok := names["click"]
	assert.True(t, ok)
}
