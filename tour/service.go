// Package tour computes visiting orders for a set of waypoints on the road
// network.
package tour

import (
	"context"
	"sort"

	"github.com/ttpr0/go-tour/geo"
	"github.com/ttpr0/go-tour/graph"
	"github.com/ttpr0/go-tour/matrix"
	"github.com/ttpr0/go-tour/planner"
	"github.com/ttpr0/go-tour/resultcache"
	"github.com/ttpr0/go-tour/routing"
	"golang.org/x/exp/slog"
)

const DEFAULT_SEARCH_RADIUS = 500

// GraphSource hands out the current network graph.
type GraphSource interface {
	Acquire(ctx context.Context) (*graph.Graph, error)
}

type Service struct {
	graphs        GraphSource
	builder       *matrix.Builder
	cache         *resultcache.Cache[*Result]
	search_radius float64
}

// NewService creates the service. cache may be nil to compute every request.
func NewService(graphs GraphSource, builder *matrix.Builder, cache *resultcache.Cache[*Result], search_radius float64) *Service {
	if search_radius <= 0 {
		search_radius = DEFAULT_SEARCH_RADIUS
	}
	return &Service{
		graphs:        graphs,
		builder:       builder,
		cache:         cache,
		search_radius: search_radius,
	}
}

// ComputeVisitingOrder returns a nearest neighbour visiting order of the
// request waypoints starting at the start waypoint. The end waypoint is not
// pinned to the last position. Waypoints that cannot be resolved or reached
// are reported in Result.Unreachable instead of failing the request.
//
// Errors: *InputError for invalid requests, *StartUnresolvedError when the
// start cannot be matched onto the network and *graphcache.DataLoadError when
// no network is available.
func (self *Service) ComputeVisitingOrder(ctx context.Context, req Request) (*Result, error) {
	waypoints := Normalize(req.Waypoints)
	radius := req.SearchRadius
	if radius == 0 {
		radius = self.search_radius
	}
	if err := Validate(waypoints, radius); err != nil {
		return nil, err
	}

	if self.cache == nil {
		return self._Compute(ctx, waypoints, radius)
	}
	key := Fingerprint(waypoints, radius)
	res, err := self.cache.GetOrCompute(ctx, key, func(ctx context.Context) (*Result, error) {
		return self._Compute(ctx, waypoints, radius)
	})
	if err != nil {
		return nil, err
	}
	return _WithOwnCoords(res, waypoints), nil
}

// _WithOwnCoords returns res with Order taken from waypoints. A cached result
// may come from a request whose coordinates differ below the fingerprint
// precision, res itself is returned when nothing differs.
func _WithOwnCoords(res *Result, waypoints []Waypoint) *Result {
	same := true
	for i, id := range res.OrderIDs {
		if res.Order[i] != waypoints[id].Coord {
			same = false
			break
		}
	}
	if same {
		return res
	}
	own := *res
	own.Order = make([]geo.Coord, len(res.OrderIDs))
	for i, id := range res.OrderIDs {
		own.Order[i] = waypoints[id].Coord
	}
	return &own
}

func (self *Service) _Compute(ctx context.Context, waypoints []Waypoint, radius float64) (*Result, error) {
	g, err := self.graphs.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	coords := make([]geo.Coord, len(waypoints))
	for i, w := range waypoints {
		coords[i] = w.Coord
	}
	res, err := self.builder.Build(ctx, g, coords, radius)
	if err != nil {
		return nil, err
	}

	plan := planner.NearestNeighbor(res.Matrix)
	result := &Result{
		Order:       make([]geo.Coord, 0, len(plan.Order)),
		OrderIDs:    make([]int, 0, len(plan.Order)),
		Unreachable: append([]int{}, res.Unresolved...),
		TotalCost:   plan.Cost(res.Matrix),
	}
	for _, k := range plan.Order {
		id := res.Indices[k]
		result.OrderIDs = append(result.OrderIDs, id)
		result.Order = append(result.Order, waypoints[id].Coord)
	}
	stops := make([]routing.ResolvedPoint, len(plan.Order))
	for i, k := range plan.Order {
		stops[i] = res.Points[k]
	}
	result.Geometry, err = self.builder.Route(ctx, g, stops)
	if err != nil {
		return nil, err
	}
	for _, k := range plan.Unreachable {
		result.Unreachable = append(result.Unreachable, res.Indices[k])
	}
	sort.Ints(result.Unreachable)

	if len(result.Unreachable) > 0 {
		slog.Warn("waypoints left out of visiting order", "unreachable", result.Unreachable)
	}
	return result, nil
}
