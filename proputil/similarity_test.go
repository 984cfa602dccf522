package proputil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimilarityIdenticalSequences(t *testing.T) {
	seq := []string{"View", "Text", "Button"}
	assert.Equal(t, 1.0, Similarity(seq, seq))
}

func TestSimilarityEmptySequences(t *testing.T) {
	assert.Equal(t, 1.0, Similarity(nil, nil))
	assert.Equal(t, 0.0, Similarity([]string{"View"}, nil))
}

func TestSimilarityPartialOverlap(t *testing.T) {
	old := []string{"View", "Text", "Button", "Image"}
	new := []string{"View", "Image"}
	s := Similarity(old, new)
	assert.InDelta(t, 0.5, s, 0.001) // lcs=2, longer=4
}

func TestSimilarityCacheEvictsOldest(t *testing.T) {
	c := NewSimilarityCache(5)
	for i := int32(0); i < 5; i++ {
		c.Put(i, i, float64(i))
	}
	require.Equal(t, 5, c.Len())

	c.Put(5, 5, 0.5)
	assert.LessOrEqual(t, c.Len(), 5)

	// the oldest entry (0,0) should have been evicted
	_, ok := c.Get(0, 0)
	assert.False(t, ok)

	// the newest entry must survive
	v, ok := c.Get(5, 5)
	assert.True(t, ok)
	assert.Equal(t, 0.5, v)
}

func TestSimilarityCacheGetMiss(t *testing.T) {
	c := NewSimilarityCache(10)
	_, ok := c.Get(1, 2)
	assert.False(t, ok)
}
