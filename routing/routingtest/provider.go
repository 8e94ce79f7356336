// Package routingtest provides a scripted routing.Provider for tests.
package routingtest

import (
	"context"
	"sync"

	"github.com/ttpr0/go-tour/geo"
	"github.com/ttpr0/go-tour/graph"
	"github.com/ttpr0/go-tour/routing"
)

// Provider is a fake routing.Provider. Points are registered up front and are
// resolved to their registration index. Unscripted pairs return the haversine
// distance of the two points. The graph argument is ignored and may be nil.
type Provider struct {
	mu             sync.Mutex
	points         map[geo.Coord]int32
	coords         []geo.Coord
	unresolvable   map[int32]bool
	distances      map[[2]int32]float64
	failures       map[[2]int32]bool
	resolve_calls  map[int32]int
	distance_calls int
	route_calls    int

	// Gate blocks every Distance call until it is closed or the context ends.
	Gate chan struct{}
}

func NewProvider(points ...geo.Coord) *Provider {
	p := &Provider{
		points:        make(map[geo.Coord]int32, len(points)),
		unresolvable:  make(map[int32]bool),
		distances:     make(map[[2]int32]float64),
		failures:      make(map[[2]int32]bool),
		resolve_calls: make(map[int32]int),
	}
	for _, c := range points {
		p.AddPoint(c)
	}
	return p
}

// AddPoint registers c and returns its node id.
func (self *Provider) AddPoint(c geo.Coord) int32 {
	self.mu.Lock()
	defer self.mu.Unlock()
	if id, ok := self.points[c]; ok {
		return id
	}
	id := int32(len(self.coords))
	self.points[c] = id
	self.coords = append(self.coords, c)
	return id
}

// FailResolve makes resolution of point id fail.
func (self *Provider) FailResolve(id int32) {
	self.mu.Lock()
	defer self.mu.Unlock()
	self.unresolvable[id] = true
}

// SetDistance scripts the distance between a and b in both directions.
func (self *Provider) SetDistance(a, b int32, dist float64) {
	self.mu.Lock()
	defer self.mu.Unlock()
	self.distances[[2]int32{a, b}] = dist
	self.distances[[2]int32{b, a}] = dist
}

// FailRoute makes the distance between a and b fail in both directions.
func (self *Provider) FailRoute(a, b int32) {
	self.mu.Lock()
	defer self.mu.Unlock()
	self.failures[[2]int32{a, b}] = true
	self.failures[[2]int32{b, a}] = true
}

func (self *Provider) ResolveCalls(id int32) int {
	self.mu.Lock()
	defer self.mu.Unlock()
	return self.resolve_calls[id]
}

func (self *Provider) DistanceCalls() int {
	self.mu.Lock()
	defer self.mu.Unlock()
	return self.distance_calls
}

func (self *Provider) RouteCalls() int {
	self.mu.Lock()
	defer self.mu.Unlock()
	return self.route_calls
}

func (self *Provider) ResolvePoint(ctx context.Context, g *graph.Graph, coord geo.Coord, max_radius float64) (routing.ResolvedPoint, error) {
	if err := ctx.Err(); err != nil {
		return routing.ResolvedPoint{}, err
	}
	self.mu.Lock()
	defer self.mu.Unlock()
	id, ok := self.points[coord]
	if ok {
		self.resolve_calls[id] += 1
	}
	if !ok || self.unresolvable[id] {
		return routing.ResolvedPoint{}, &routing.ResolutionFailure{Coord: coord, Radius: max_radius}
	}
	return routing.ResolvedPoint{Node: id, Coord: coord}, nil
}

func (self *Provider) Distance(ctx context.Context, g *graph.Graph, from, to routing.ResolvedPoint) (float64, error) {
	self.mu.Lock()
	self.distance_calls += 1
	gate := self.Gate
	self.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return 0, &routing.RouteFailure{From: from.Node, To: to.Node, Err: ctx.Err()}
		}
	}
	if err := ctx.Err(); err != nil {
		return 0, &routing.RouteFailure{From: from.Node, To: to.Node, Err: err}
	}

	self.mu.Lock()
	defer self.mu.Unlock()
	key := [2]int32{from.Node, to.Node}
	if self.failures[key] {
		return 0, &routing.RouteFailure{From: from.Node, To: to.Node, Err: routing.ErrNoPath}
	}
	if dist, ok := self.distances[key]; ok {
		return dist, nil
	}
	if from.Node == to.Node {
		return 0, nil
	}
	return geo.Distance(self.coords[from.Node], self.coords[to.Node]), nil
}

// Route returns the straight segment between the two points with the distance
// Distance would report. It is not gated and not counted as a distance call.
func (self *Provider) Route(ctx context.Context, g *graph.Graph, from, to routing.ResolvedPoint) (routing.Path, error) {
	if err := ctx.Err(); err != nil {
		return routing.Path{}, &routing.RouteFailure{From: from.Node, To: to.Node, Err: err}
	}
	self.mu.Lock()
	defer self.mu.Unlock()
	self.route_calls += 1
	key := [2]int32{from.Node, to.Node}
	if self.failures[key] {
		return routing.Path{}, &routing.RouteFailure{From: from.Node, To: to.Node, Err: routing.ErrNoPath}
	}
	if from.Node == to.Node {
		return routing.Path{Nodes: []int32{from.Node}, Geometry: geo.CoordArray{self.coords[from.Node]}}, nil
	}
	dist, ok := self.distances[key]
	if !ok {
		dist = geo.Distance(self.coords[from.Node], self.coords[to.Node])
	}
	return routing.Path{
		Distance: dist,
		Nodes:    []int32{from.Node, to.Node},
		Geometry: geo.CoordArray{self.coords[from.Node], self.coords[to.Node]},
	}, nil
}
