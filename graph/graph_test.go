package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ttpr0/go-tour/geo"
)

// square of four nodes roughly 1.1km apart, 0->1 oneway
func buildSquare(t *testing.T) *Graph {
	t.Helper()
	b := NewBuilder(4, 8)
	n0 := b.AddNode(geo.NewCoord(29.00, 41.00))
	n1 := b.AddNode(geo.NewCoord(29.01, 41.00))
	n2 := b.AddNode(geo.NewCoord(29.01, 41.01))
	n3 := b.AddNode(geo.NewCoord(29.00, 41.01))
	require.NoError(t, b.AddEdge(n0, n1, 840, 840))
	require.NoError(t, b.AddEdge(n1, n2, 1110, 1110))
	require.NoError(t, b.AddEdge(n2, n1, 1110, 1110))
	require.NoError(t, b.AddEdge(n2, n3, 840, 840))
	require.NoError(t, b.AddEdge(n3, n0, 1110, 1110))
	return b.Build()
}

func TestBuildTopology(t *testing.T) {
	g := buildSquare(t)
	assert.Equal(t, 4, g.NodeCount())
	assert.Equal(t, 5, g.EdgeCount())

	assert.Equal(t, 1, g.GetNodeDegree(0))
	assert.Equal(t, 1, g.GetNodeDegree(1))
	assert.Equal(t, 2, g.GetNodeDegree(2))

	var targets []int32
	g.ForAdjacentEdges(2, func(edge_id int32, edge Edge) {
		assert.Equal(t, int32(2), edge.NodeA)
		targets = append(targets, edge.NodeB)
	})
	assert.ElementsMatch(t, []int32{1, 3}, targets)

	assert.True(t, g.IsNode(3))
	assert.False(t, g.IsNode(4))
	assert.False(t, g.IsNode(-1))
}

func TestBuilderRejectsInvalidEdges(t *testing.T) {
	b := NewBuilder(1, 1)
	n0 := b.AddNode(geo.NewCoord(0, 0))
	assert.Error(t, b.AddEdge(n0, 5, 1, 1))
	assert.Error(t, b.AddEdge(n0, n0, -1, 1))
	assert.Equal(t, 0, b.EdgeCount())
	assert.Equal(t, 1, b.NodeCount())
}

func TestGetClosestNode(t *testing.T) {
	g := buildSquare(t)

	node, dist, ok := g.GetClosestNode(geo.NewCoord(29.0101, 41.0099), 100)
	require.True(t, ok)
	assert.Equal(t, int32(2), node)
	assert.Less(t, dist, 100.0)

	// nearest node is ~680m away
	_, _, ok = g.GetClosestNode(geo.NewCoord(29.005, 41.005), 100)
	assert.False(t, ok)
	node, _, ok = g.GetClosestNode(geo.NewCoord(29.0049, 41.0049), 1000)
	require.True(t, ok)
	assert.Equal(t, int32(0), node)

	// search radius spanning several grid cells
	node, _, ok = g.GetClosestNode(geo.NewCoord(29.05, 41.00), 10_000)
	require.True(t, ok)
	assert.Equal(t, int32(1), node)

	_, _, ok = g.GetClosestNode(geo.NewCoord(200, 41), 10_000)
	assert.False(t, ok)
}

func TestGetClosestNodeEmptyGraph(t *testing.T) {
	g := NewBuilder(0, 0).Build()
	_, _, ok := g.GetClosestNode(geo.NewCoord(0, 0), 1000)
	assert.False(t, ok)
}
