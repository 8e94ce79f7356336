package graph

import (
	"fmt"
	"math"

	"github.com/ttpr0/go-tour/geo"
	. "github.com/ttpr0/go-tour/util"
)

//*******************************************
// graph builder
//*******************************************

type Builder struct {
	nodes List[geo.Coord]
	edges List[Edge]
}

func NewBuilder(node_capacity, edge_capacity int) *Builder {
	return &Builder{
		nodes: NewList[geo.Coord](node_capacity),
		edges: NewList[Edge](edge_capacity),
	}
}

func (self *Builder) AddNode(point geo.Coord) int32 {
	self.nodes.Add(point)
	return int32(self.nodes.Length() - 1)
}

func (self *Builder) AddEdge(node_a, node_b int32, length, weight float64) error {
	count := int32(self.nodes.Length())
	if node_a < 0 || node_a >= count || node_b < 0 || node_b >= count {
		return fmt.Errorf("edge %d->%d references unknown node", node_a, node_b)
	}
	if length < 0 || weight < 0 || math.IsNaN(length) || math.IsNaN(weight) {
		return fmt.Errorf("edge %d->%d has invalid length/weight %v/%v", node_a, node_b, length, weight)
	}
	self.edges.Add(Edge{
		NodeA:  node_a,
		NodeB:  node_b,
		Length: length,
		Weight: weight,
	})
	return nil
}

func (self *Builder) NodeCount() int {
	return self.nodes.Length()
}
func (self *Builder) EdgeCount() int {
	return self.edges.Length()
}

// Build freezes the builder content into a Graph. The builder must not be
// used afterwards.
func (self *Builder) Build() *Graph {
	nodes := []geo.Coord(self.nodes)
	edges := []Edge(self.edges)
	first_out, out_edges := _BuildTopology(len(nodes), edges)
	g := &Graph{
		nodes:     nodes,
		edges:     edges,
		first_out: first_out,
		out_edges: out_edges,
		index:     NewNodeIndex(nodes, DEFAULT_CELL_SIZE),
	}
	self.nodes = nil
	self.edges = nil
	return g
}

func _BuildTopology(node_count int, edges []Edge) ([]int32, []int32) {
	first_out := make([]int32, node_count+1)
	for _, edge := range edges {
		first_out[edge.NodeA+1] += 1
	}
	for i := 1; i <= node_count; i++ {
		first_out[i] += first_out[i-1]
	}
	out_edges := make([]int32, len(edges))
	fill := make([]int32, node_count)
	copy(fill, first_out[:node_count])
	for i, edge := range edges {
		out_edges[fill[edge.NodeA]] = int32(i)
		fill[edge.NodeA] += 1
	}
	return first_out, out_edges
}
