// Package planner orders waypoints with a nearest neighbour heuristic.
//
// The heuristic is greedy: every step moves to the closest unvisited
// waypoint and never revisits a decision. The resulting tour is an
// approximation and can be noticeably longer than the optimal one.
package planner

import (
	"github.com/ttpr0/go-tour/matrix"
)

// Plan is a visiting order over matrix indices.
type Plan struct {
	// visiting order, always starts with 0
	Order []int
	// indices dropped because no reachable hop led to them
	Unreachable []int
}

// NearestNeighbor builds a visiting order starting at index 0. Ties are
// broken by the smaller index. Unreachable cells are never used as a hop;
// once every remaining index is unreachable from the current one the rest
// is dropped into Plan.Unreachable in ascending order.
func NearestNeighbor(m *matrix.Matrix) Plan {
	n := m.Size()
	if n == 0 {
		return Plan{Order: []int{}, Unreachable: []int{}}
	}
	visited := make([]bool, n)
	order := make([]int, 1, n)
	visited[0] = true

	current := 0
	for len(order) < n {
		next := -1
		best := 0.0
		for candidate := 0; candidate < n; candidate++ {
			if visited[candidate] || m.IsUnreachable(current, candidate) {
				continue
			}
			dist := m.Get(current, candidate)
			if next == -1 || dist < best {
				next = candidate
				best = dist
			}
		}
		if next == -1 {
			break
		}
		visited[next] = true
		order = append(order, next)
		current = next
	}

	unreachable := make([]int, 0)
	for i, v := range visited {
		if !v {
			unreachable = append(unreachable, i)
		}
	}
	return Plan{Order: order, Unreachable: unreachable}
}

// Cost returns the summed hop distance of the order.
func (self Plan) Cost(m *matrix.Matrix) float64 {
	cost := 0.0
	for i := 1; i < len(self.Order); i++ {
		cost += m.Get(self.Order[i-1], self.Order[i])
	}
	return cost
}
