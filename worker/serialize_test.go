package worker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgelogic/reconcile/vnode"
)

func TestSerializeStripsHandlersAndExtractsListenerNames(t *testing.T) {
	a := vnode.NewArena()
	id := a.Alloc(vnode.NewElement("Button", vnode.Props{
		"title":   "go",
		"onClick": vnode.EventHandler(func(any) {}),
	}, nil, "key1"))

	out := Serialize(a, id)
	assert.Equal(t, vnode.KindElement, out.Kind)
	assert.Equal(t, "Button", out.Type)
	assert.Equal(t, "key1", out.Key)
	assert.Equal(t, "go", out.Props["title"])
	_, hasHandler := out.Props["onClick"]
	assert.False(t, hasHandler, "handler props never cross into serialized output")
	assert.ElementsMatch(t, []string{"click"}, out.Listener)
}

func TestSerializeResolvesComponentToRenderedChild(t *testing.T) {
	a := vnode.NewArena()
	elemID := a.Alloc(vnode.NewElement("View", nil, nil, nil))
	compID := a.Alloc(vnode.NewStatefulComponent("Widget", nil, nil, nil))
	a.Get(compID).RenderedNode = elemID

	out := Serialize(a, compID)
	assert.Equal(t, vnode.KindElement, out.Kind)
	assert.Equal(t, "View", out.Type, "a component resolves to its already-rendered element")
}

func TestSerializeEmptyAndFragment(t *testing.T) {
	a := vnode.NewArena()
	emptyID := a.Alloc(vnode.NewEmpty())
	assert.Equal(t, vnode.KindEmpty, Serialize(a, emptyID).Kind)

	child := a.Alloc(vnode.NewElement("Text", nil, nil, nil))
	fragID := a.Alloc(vnode.NewFragment([]vnode.ID{child}, nil))
	out := Serialize(a, fragID)
	require.Len(t, out.Children, 1)
	assert.Equal(t, "Text", out.Children[0].Type)
}

func TestTypeSequence(t *testing.T) {
	a := vnode.NewArena()
	c1 := a.Alloc(vnode.NewElement("View", nil, nil, nil))
	c2 := a.Alloc(vnode.NewElement("Text", nil, nil, nil))
	parent := a.Alloc(vnode.NewElement("Row", nil, []vnode.ID{c1, c2}, nil))

	out := Serialize(a, parent)
	assert.Equal(t, []string{"View", "Text"}, out.TypeSequence())
}
