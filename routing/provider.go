package routing

import (
	"context"
	"errors"
	"fmt"

	"github.com/ttpr0/go-tour/geo"
	"github.com/ttpr0/go-tour/graph"
)

//*******************************************
// routing provider
//*******************************************

// ResolvedPoint is a coordinate matched onto the road network. It is only
// valid for the graph it was resolved on.
type ResolvedPoint struct {
	Node  int32
	Coord geo.Coord
	// distance from Coord to the matched node in meters
	Offset float64
}

// Path is the route between two resolved points.
type Path struct {
	Distance float64
	// graph nodes from source to target, both included
	Nodes    []int32
	Geometry geo.CoordArray
}

// Provider resolves coordinates onto a network graph and computes travel
// distances and routes between resolved points. Implementations must allow
// concurrent calls on the same graph.
type Provider interface {
	ResolvePoint(ctx context.Context, g *graph.Graph, coord geo.Coord, max_radius float64) (ResolvedPoint, error)
	Distance(ctx context.Context, g *graph.Graph, from, to ResolvedPoint) (float64, error)
	Route(ctx context.Context, g *graph.Graph, from, to ResolvedPoint) (Path, error)
}

//*******************************************
// errors
//*******************************************

var ErrNoPath = errors.New("no path")

// ResolutionFailure is returned when no network node lies within the search
// radius of a coordinate.
type ResolutionFailure struct {
	Coord  geo.Coord
	Radius float64
}

func (self *ResolutionFailure) Error() string {
	return fmt.Sprintf("no network node within %gm of (%f, %f)", self.Radius, self.Coord.Lon(), self.Coord.Lat())
}

// RouteFailure is returned when no distance between two resolved points could
// be computed. Err is ErrNoPath or the context error that stopped the search.
type RouteFailure struct {
	From int32
	To   int32
	Err  error
}

func (self *RouteFailure) Error() string {
	return fmt.Sprintf("route from node %d to node %d: %v", self.From, self.To, self.Err)
}

func (self *RouteFailure) Unwrap() error {
	return self.Err
}
