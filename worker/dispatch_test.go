package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgelogic/reconcile/effect"
	"github.com/forgelogic/reconcile/proputil"
	"github.com/forgelogic/reconcile/registry"
	"github.com/forgelogic/reconcile/vnode"
)

func TestDispatcherSmallTreeAlwaysDiffs(t *testing.T) {
	reg := registry.New()
	old := vnode.NewArena()
	oldID := old.Alloc(vnode.NewElement("Text", vnode.Props{"value": "a"}, nil, nil))
	old.Get(oldID).ViewID = 1
	reg.RegisterView(1, oldID)

	wip := old.Clone()
	wip.Get(oldID).Props = vnode.Props{"value": "b"}

	d := NewDispatcher(NewPool(2), proputil.NewSimilarityCache(10))
	list, err := d.Reconcile(context.Background(), reg, old, wip, oldID, oldID, vnode.RootViewID, 0)
	require.NoError(t, err)
	require.Len(t, list.Effects(), 1)
	assert.Equal(t, effect.Update, list.Effects()[0].Kind)
	assert.Equal(t, vnode.ViewID(1), list.Effects()[0].ViewID)
}

func TestDispatcherLargeDissimilarTreeDirectReplaces(t *testing.T) {
	reg := registry.New()
	old := vnode.NewArena()
	var oldChildren []vnode.ID
	for i := 0; i < 120; i++ {
		c := old.Alloc(vnode.NewElement("View", nil, nil, nil))
		old.Get(c).ViewID = vnode.ViewID(i + 1)
		reg.RegisterView(vnode.ViewID(i+1), c)
		oldChildren = append(oldChildren, c)
	}
	oldRoot := old.Alloc(vnode.NewElement("Row", nil, oldChildren, nil))
	old.Get(oldRoot).ViewID = 1000
	reg.RegisterView(1000, oldRoot)

	wip := vnode.NewArena()
	var newChildren []vnode.ID
	for i := 0; i < 120; i++ {
		newChildren = append(newChildren, wip.Alloc(vnode.NewElement("Text", nil, nil, nil)))
	}
	newRoot := wip.Alloc(vnode.NewElement("Column", nil, newChildren, nil))

	d := NewDispatcher(NewPool(2), proputil.NewSimilarityCache(10))
	list, err := d.Reconcile(context.Background(), reg, old, wip, oldRoot, newRoot, vnode.RootViewID, 0)
	require.NoError(t, err)

	deletes, creates := 0, 0
	for _, e := range list.Effects() {
		switch e.Kind {
		case effect.Delete:
			deletes++
		case effect.Create:
			creates++
		}
	}
	assert.Equal(t, 121, deletes, "direct-replace unmounts the entire old subtree")
	assert.Equal(t, 121, creates, "direct-replace mounts the entire new subtree fresh")
}

func TestDispatcherPropagatesPoolTimeout(t *testing.T) {
	reg := registry.New()
	old := vnode.NewArena()
	oldID := old.Alloc(vnode.NewElement("Text", nil, nil, nil))
	wip := old.Clone()

	d := NewDispatcher(NewPool(1), proputil.NewSimilarityCache(10))
	d.Timeout = time.Nanosecond

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := d.Reconcile(ctx, reg, old, wip, oldID, oldID, vnode.RootViewID, 0)
	assert.Error(t, err)
}
