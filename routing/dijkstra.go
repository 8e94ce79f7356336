package routing

import (
	"context"
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/ttpr0/go-tour/geo"
	"github.com/ttpr0/go-tour/graph"
	. "github.com/ttpr0/go-tour/util"
)

// number of settled nodes between two context checks
const CANCEL_CHECK_INTERVAL = 1024

type DistFlag struct {
	Dist    float64
	Prev    int32
	Visited bool
}

type _SearchState struct {
	g     *graph.Graph
	flags Flags[DistFlag]
	heap  PriorityQueue[int32, float64]
}

// DijkstraProvider snaps coordinates to the closest graph node and runs a
// one-to-one dijkstra on edge weights. Search state is pooled per graph so
// concurrent calls never share flags.
type DijkstraProvider struct {
	states sync.Pool
}

func NewDijkstraProvider() *DijkstraProvider {
	return &DijkstraProvider{}
}

func (self *DijkstraProvider) ResolvePoint(ctx context.Context, g *graph.Graph, coord geo.Coord, max_radius float64) (ResolvedPoint, error) {
	if err := ctx.Err(); err != nil {
		return ResolvedPoint{}, err
	}
	node, dist, ok := g.GetClosestNode(coord, max_radius)
	if !ok {
		return ResolvedPoint{}, &ResolutionFailure{Coord: coord, Radius: max_radius}
	}
	return ResolvedPoint{Node: node, Coord: coord, Offset: dist}, nil
}

func (self *DijkstraProvider) Distance(ctx context.Context, g *graph.Graph, from, to ResolvedPoint) (float64, error) {
	if !g.IsNode(from.Node) || !g.IsNode(to.Node) {
		return 0, &RouteFailure{From: from.Node, To: to.Node, Err: fmt.Errorf("node not in graph")}
	}
	if err := ctx.Err(); err != nil {
		return 0, &RouteFailure{From: from.Node, To: to.Node, Err: err}
	}
	if from.Node == to.Node {
		return 0, nil
	}

	state := self._AcquireState(g)
	defer self._ReleaseState(state)

	dist, err := _CalcDijkstra(ctx, g, state, from.Node, to.Node)
	if err != nil {
		return 0, &RouteFailure{From: from.Node, To: to.Node, Err: err}
	}
	return dist, nil
}

// Route runs the same search as Distance and returns the settled node path
// from from.Node to to.Node.
func (self *DijkstraProvider) Route(ctx context.Context, g *graph.Graph, from, to ResolvedPoint) (Path, error) {
	if !g.IsNode(from.Node) || !g.IsNode(to.Node) {
		return Path{}, &RouteFailure{From: from.Node, To: to.Node, Err: fmt.Errorf("node not in graph")}
	}
	if err := ctx.Err(); err != nil {
		return Path{}, &RouteFailure{From: from.Node, To: to.Node, Err: err}
	}
	if from.Node == to.Node {
		return Path{
			Nodes:    []int32{from.Node},
			Geometry: geo.CoordArray{g.GetNode(from.Node)},
		}, nil
	}

	state := self._AcquireState(g)
	defer self._ReleaseState(state)

	dist, err := _CalcDijkstra(ctx, g, state, from.Node, to.Node)
	if err != nil {
		return Path{}, &RouteFailure{From: from.Node, To: to.Node, Err: err}
	}
	nodes := _ExtractPath(state, from.Node, to.Node)
	geometry := make(geo.CoordArray, len(nodes))
	for i, node := range nodes {
		geometry[i] = g.GetNode(node)
	}
	return Path{Distance: dist, Nodes: nodes, Geometry: geometry}, nil
}

func (self *DijkstraProvider) _AcquireState(g *graph.Graph) *_SearchState {
	state, _ := self.states.Get().(*_SearchState)
	if state == nil || state.g != g {
		state = &_SearchState{
			g:     g,
			flags: NewFlags(int32(g.NodeCount()), DistFlag{Dist: math.MaxFloat64, Prev: -1}),
			heap:  NewPriorityQueue[int32, float64](100),
		}
	}
	return state
}

func (self *DijkstraProvider) _ReleaseState(state *_SearchState) {
	state.flags.Reset()
	state.heap.Clear()
	self.states.Put(state)
}

func _CalcDijkstra(ctx context.Context, g *graph.Graph, state *_SearchState, start, target int32) (float64, error) {
	flags := &state.flags
	heap := &state.heap

	start_flag := flags.Get(start)
	start_flag.Dist = 0
	heap.Enqueue(start, 0)

	settled := 0
	for {
		curr_id, ok := heap.Dequeue()
		if !ok {
			return 0, ErrNoPath
		}
		curr_flag := flags.Get(curr_id)
		if curr_flag.Visited {
			continue
		}
		curr_flag.Visited = true
		if curr_id == target {
			return curr_flag.Dist, nil
		}
		settled += 1
		if settled%CANCEL_CHECK_INTERVAL == 0 {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
		}
		g.ForAdjacentEdges(curr_id, func(edge_id int32, edge graph.Edge) {
			other_flag := flags.Get(edge.NodeB)
			if other_flag.Visited {
				return
			}
			new_dist := curr_flag.Dist + edge.Weight
			if new_dist < other_flag.Dist {
				other_flag.Dist = new_dist
				other_flag.Prev = curr_id
				heap.Enqueue(edge.NodeB, new_dist)
			}
		})
	}
}

// _ExtractPath follows the predecessors of a finished search back from target.
func _ExtractPath(state *_SearchState, start, target int32) []int32 {
	path := NewList[int32](16)
	curr := target
	for {
		path.Add(curr)
		if curr == start {
			break
		}
		curr = state.flags.Get(curr).Prev
	}
	slices.Reverse(path)
	return path
}
