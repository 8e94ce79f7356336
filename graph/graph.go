package graph

import (
	"github.com/ttpr0/go-tour/geo"
)

//*******************************************
// graph structs
//*******************************************

type Edge struct {
	NodeA int32
	NodeB int32
	// length in meters
	Length float64
	// routing weight, meters or seconds depending on the metric the graph was
	// built with
	Weight float64
}

//*******************************************
// graph
//*******************************************

// Graph is a directed road network with forward adjacency stored as a
// compressed sparse row array. It is never modified after Build and may be
// shared between goroutines without synchronization.
type Graph struct {
	nodes     []geo.Coord
	edges     []Edge
	first_out []int32
	out_edges []int32
	index     *NodeIndex
}

func (self *Graph) NodeCount() int {
	return len(self.nodes)
}
func (self *Graph) EdgeCount() int {
	return len(self.edges)
}
func (self *Graph) IsNode(node int32) bool {
	return node >= 0 && int(node) < len(self.nodes)
}
func (self *Graph) GetNode(node int32) geo.Coord {
	return self.nodes[node]
}
func (self *Graph) GetEdge(edge int32) Edge {
	return self.edges[edge]
}
func (self *Graph) GetNodeDegree(node int32) int {
	return int(self.first_out[node+1] - self.first_out[node])
}

// ForAdjacentEdges calls callback for every outgoing edge of node.
func (self *Graph) ForAdjacentEdges(node int32, callback func(edge_id int32, edge Edge)) {
	start := self.first_out[node]
	end := self.first_out[node+1]
	for i := start; i < end; i++ {
		edge_id := self.out_edges[i]
		callback(edge_id, self.edges[edge_id])
	}
}

// GetClosestNode returns the node closest to point within max_radius meters
// together with its distance to point.
func (self *Graph) GetClosestNode(point geo.Coord, max_radius float64) (int32, float64, bool) {
	return self.index.GetClosestNode(point, max_radius)
}
