package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriorityQueueOrder(t *testing.T) {
	pq := NewPriorityQueue[string, float64](4)
	pq.Enqueue("c", 3)
	pq.Enqueue("a", 1)
	pq.Enqueue("b1", 2)
	pq.Enqueue("b2", 2)

	var got []string
	for pq.Len() > 0 {
		v, ok := pq.Dequeue()
		require.True(t, ok)
		got = append(got, v)
	}
	assert.Equal(t, []string{"a", "b1", "b2", "c"}, got)

	_, ok := pq.Dequeue()
	assert.False(t, ok)
}

func TestPriorityQueueClear(t *testing.T) {
	pq := NewPriorityQueue[int32, int32](2)
	pq.Enqueue(1, 10)
	pq.Enqueue(2, 5)
	pq.Clear()
	assert.Equal(t, 0, pq.Len())

	pq.Enqueue(7, 1)
	v, ok := pq.Dequeue()
	require.True(t, ok)
	assert.Equal(t, int32(7), v)
}

func TestListAndDict(t *testing.T) {
	list := NewList[int](1)
	list.Add(4)
	list.Add(5)
	list.Set(0, 6)
	assert.Equal(t, 2, list.Length())
	assert.Equal(t, 6, list.Get(0))

	dict := NewDict[string, int](1)
	dict.Set("a", 1)
	assert.True(t, dict.ContainsKey("a"))
	assert.Equal(t, 1, dict.Get("a"))
	dict.Delete("a")
	assert.False(t, dict.ContainsKey("a"))
	assert.Equal(t, 0, dict.Length())
}

func TestFlagsReset(t *testing.T) {
	flags := NewFlags[float64](4, -1)
	*flags.Get(1) = 3
	*flags.Get(3) = 7
	assert.Equal(t, 3.0, *flags.Get(1))
	assert.Equal(t, -1.0, *flags.Get(2))

	flags.Reset()
	for i := int32(0); i < 4; i++ {
		assert.Equal(t, -1.0, *flags.Get(i))
	}
	assert.Equal(t, 4, flags.Size())
}
