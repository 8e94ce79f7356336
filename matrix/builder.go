package matrix

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/ttpr0/go-tour/geo"
	"github.com/ttpr0/go-tour/graph"
	"github.com/ttpr0/go-tour/routing"
	"golang.org/x/exp/slog"
	"golang.org/x/sync/errgroup"
)

const DEFAULT_WORKERS = 8

var ErrTooFewWaypoints = errors.New("at least two waypoints are required")

// StartUnresolvedError is returned when the first waypoint cannot be matched
// onto the network, no order can begin without it.
type StartUnresolvedError struct {
	Coord geo.Coord
	Err   error
}

func (self *StartUnresolvedError) Error() string {
	return fmt.Sprintf("start waypoint (%f, %f) could not be resolved: %v", self.Coord.Lon(), self.Coord.Lat(), self.Err)
}

func (self *StartUnresolvedError) Unwrap() error {
	return self.Err
}

//*******************************************
// matrix builder
//*******************************************

type Result struct {
	// distances between resolved waypoints, index 0 is the start
	Matrix *Matrix
	// Indices[k] is the waypoint index of matrix index k
	Indices []int
	// Points[k] is the resolved point of matrix index k
	Points []routing.ResolvedPoint
	// waypoint indices that could not be resolved
	Unresolved []int
	// number of pairs set to Unreachable
	Failed int
}

type Builder struct {
	provider     routing.Provider
	workers      int
	pair_timeout time.Duration
}

// NewBuilder creates a matrix builder running at most workers provider calls
// at once. Every call is bounded by pair_timeout, zero disables the bound.
func NewBuilder(provider routing.Provider, workers int, pair_timeout time.Duration) *Builder {
	if workers <= 0 {
		workers = DEFAULT_WORKERS
	}
	return &Builder{
		provider:     provider,
		workers:      workers,
		pair_timeout: pair_timeout,
	}
}

// Build resolves every waypoint once and fills the distance matrix over the
// resolved ones. Unresolved waypoints are left out of the matrix, failed or
// timed out pairs are set to Unreachable. Only a failed start or a cancelled
// ctx fail the build, the matrix is never returned half written.
func (self *Builder) Build(ctx context.Context, g *graph.Graph, waypoints []geo.Coord, radius float64) (*Result, error) {
	if len(waypoints) < 2 {
		return nil, ErrTooFewWaypoints
	}
	start := time.Now()

	// resolve waypoints
	resolved := make([]routing.ResolvedPoint, len(waypoints))
	errs := make([]error, len(waypoints))
	rg := errgroup.Group{}
	rg.SetLimit(self.workers)
	for i := range waypoints {
		rg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			call_ctx, cancel := self._CallContext(ctx)
			defer cancel()
			rp, err := self.provider.ResolvePoint(call_ctx, g, waypoints[i], radius)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				errs[i] = err
				return nil
			}
			resolved[i] = rp
			return nil
		})
	}
	if err := rg.Wait(); err != nil {
		return nil, err
	}
	if errs[0] != nil {
		return nil, &StartUnresolvedError{Coord: waypoints[0], Err: errs[0]}
	}

	indices := make([]int, 0, len(waypoints))
	points := make([]routing.ResolvedPoint, 0, len(waypoints))
	unresolved := make([]int, 0)
	for i, err := range errs {
		if err != nil {
			slog.Debug("waypoint unresolved", "index", i, "error", err)
			unresolved = append(unresolved, i)
			continue
		}
		indices = append(indices, i)
		points = append(points, resolved[i])
	}

	// fill pairs
	m := New(len(indices))
	var failed atomic.Int32
	pg := errgroup.Group{}
	pg.SetLimit(self.workers)
	for a := 0; a < len(indices); a++ {
		if ctx.Err() != nil {
			break
		}
		for b := a + 1; b < len(indices); b++ {
			pg.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				call_ctx, cancel := self._CallContext(ctx)
				defer cancel()
				dist, err := self.provider.Distance(call_ctx, g, resolved[indices[a]], resolved[indices[b]])
				if err == nil && (dist < 0 || math.IsNaN(dist) || math.IsInf(dist, 0)) {
					err = fmt.Errorf("invalid distance %v", dist)
				}
				if err != nil {
					if ctx.Err() != nil {
						return ctx.Err()
					}
					slog.Debug("pair unreachable", "from", indices[a], "to", indices[b], "error", err)
					failed.Add(1)
					return nil
				}
				m.Set(a, b, dist)
				return nil
			})
		}
	}
	if err := pg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slog.Info("built distance matrix", "waypoints", len(waypoints), "resolved", len(indices), "unresolved", len(unresolved), "unreachable_pairs", failed.Load(), "took", time.Since(start))
	return &Result{
		Matrix:     m,
		Indices:    indices,
		Points:     points,
		Unresolved: unresolved,
		Failed:     int(failed.Load()),
	}, nil
}

// Route stitches the road geometry of the legs between consecutive stops.
// Legs are computed in parallel, a leg that fails or times out is drawn as a
// straight segment. Only a cancelled ctx fails the call.
func (self *Builder) Route(ctx context.Context, g *graph.Graph, stops []routing.ResolvedPoint) (geo.CoordArray, error) {
	if len(stops) == 0 {
		return geo.CoordArray{}, nil
	}
	if len(stops) == 1 {
		return geo.CoordArray{stops[0].Coord}, nil
	}

	legs := make([]geo.CoordArray, len(stops)-1)
	lg := errgroup.Group{}
	lg.SetLimit(self.workers)
	for i := range legs {
		lg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			call_ctx, cancel := self._CallContext(ctx)
			defer cancel()
			path, err := self.provider.Route(call_ctx, g, stops[i], stops[i+1])
			if err != nil || len(path.Geometry) == 0 {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				slog.Warn("leg geometry unavailable, using straight segment", "leg", i, "error", err)
				legs[i] = geo.CoordArray{stops[i].Coord, stops[i+1].Coord}
				return nil
			}
			legs[i] = path.Geometry
			return nil
		})
	}
	if err := lg.Wait(); err != nil {
		return nil, err
	}

	line := make(geo.CoordArray, 0, len(legs)*8)
	for _, leg := range legs {
		if len(line) > 0 && line[len(line)-1] == leg[0] {
			leg = leg[1:]
		}
		line = append(line, leg...)
	}
	return line, nil
}

func (self *Builder) _CallContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if self.pair_timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, self.pair_timeout)
}
