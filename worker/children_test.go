package worker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgelogic/reconcile/effect"
	"github.com/forgelogic/reconcile/vnode"
)

func TestDiffPositionalInsertionUsesLookahead(t *testing.T) {
	a := elem(1, "View", nil, nil)
	b := elem(2, "Text", nil, nil)
	oldParent := elem(10, "Row", nil, nil, a, b)

	// an unkeyed Header is inserted ahead of the existing View/Text pair.
	inserted := elem(0, "Header", nil, nil)
	na := elem(0, "View", nil, nil)
	nb := elem(0, "Text", nil, nil)
	newParent := elem(10, "Row", nil, nil, inserted, na, nb)

	plan := Diff(oldParent, newParent)
	creates := 0
	var setChildren effect.Effect
	for _, e := range plan.Effects {
		if e.Kind == effect.Create {
			creates++
		}
		if e.Kind == effect.SetChildren {
			setChildren = e
		}
	}
	assert.Equal(t, 1, creates, "lookahead recognizes the reused View/Text pair and only mounts the inserted node")
	require.Len(t, setChildren.Children, 3)
	assert.Equal(t, vnode.ViewID(1), setChildren.Children[1], "the original View keeps its view id after the insertion")
	assert.Equal(t, vnode.ViewID(2), setChildren.Children[2])
}

func TestDiffPositionalRemovalUsesLookahead(t *testing.T) {
	a := elem(1, "View", nil, nil)
	b := elem(2, "Text", nil, nil)
	c := elem(3, "Image", nil, nil)
	oldParent := elem(10, "Row", nil, nil, a, b, c)

	nb := elem(0, "Text", nil, nil)
	nc := elem(0, "Image", nil, nil)
	newParent := elem(10, "Row", nil, nil, nb, nc)

	plan := Diff(oldParent, newParent)
	deletes := 0
	for _, e := range plan.Effects {
		if e.Kind == effect.Delete {
			deletes++
		}
	}
	assert.Equal(t, 1, deletes, "lookahead recognizes the reused Text/Image pair and only unmounts the removed node")
}

func TestDiffPositionalIncompatiblePairFallsBackToReplace(t *testing.T) {
	a := elem(1, "View", nil, nil)
	oldParent := elem(10, "Row", nil, nil, a)

	na := elem(0, "Text", nil, nil)
	newParent := elem(10, "Row", nil, nil, na)

	plan := Diff(oldParent, newParent)
	require.GreaterOrEqual(t, len(plan.Effects), 2)
	assert.Equal(t, effect.Delete, plan.Effects[0].Kind)
	assert.Equal(t, effect.Create, plan.Effects[1].Kind)
}
