package graph

import (
	"math"

	"github.com/ttpr0/go-tour/geo"
	. "github.com/ttpr0/go-tour/util"
)

// cell size of the node index in degrees (~1.1km along latitude)
const DEFAULT_CELL_SIZE = 0.01

//*******************************************
// node index
//*******************************************

type cell_key struct {
	x int32
	y int32
}

// NodeIndex is a uniform grid over node coordinates used to snap points to
// the network.
type NodeIndex struct {
	nodes     []geo.Coord
	cell_size float64
	cells     Dict[cell_key, List[int32]]
	min_x     int32
	min_y     int32
	max_x     int32
	max_y     int32
}

func NewNodeIndex(nodes []geo.Coord, cell_size float64) *NodeIndex {
	index := &NodeIndex{
		nodes:     nodes,
		cell_size: cell_size,
		cells:     NewDict[cell_key, List[int32]](len(nodes) / 8),
		min_x:     math.MaxInt32,
		min_y:     math.MaxInt32,
		max_x:     math.MinInt32,
		max_y:     math.MinInt32,
	}
	for i, node := range nodes {
		key := index._Cell(node)
		cell := index.cells[key]
		cell.Add(int32(i))
		index.cells[key] = cell
		index.min_x = min(index.min_x, key.x)
		index.min_y = min(index.min_y, key.y)
		index.max_x = max(index.max_x, key.x)
		index.max_y = max(index.max_y, key.y)
	}
	return index
}

func (self *NodeIndex) _Cell(point geo.Coord) cell_key {
	return cell_key{
		x: int32(math.Floor(point.Lon() / self.cell_size)),
		y: int32(math.Floor(point.Lat() / self.cell_size)),
	}
}

// GetClosestNode scans all cells intersecting the search radius. Ties on
// distance are broken by the smaller node id.
func (self *NodeIndex) GetClosestNode(point geo.Coord, max_radius float64) (int32, float64, bool) {
	if len(self.nodes) == 0 || max_radius < 0 || !point.IsValid() {
		return -1, 0, false
	}
	d_lat, d_lon := geo.MetersToDegrees(max_radius, point.Lat())
	d_lat = min(d_lat, 180)
	d_lon = min(d_lon, 360)
	low := self._Cell(geo.NewCoord(point.Lon()-d_lon, point.Lat()-d_lat))
	high := self._Cell(geo.NewCoord(point.Lon()+d_lon, point.Lat()+d_lat))
	low.x = max(low.x, self.min_x)
	low.y = max(low.y, self.min_y)
	high.x = min(high.x, self.max_x)
	high.y = min(high.y, self.max_y)

	closest := int32(-1)
	closest_dist := math.Inf(1)
	for x := low.x; x <= high.x; x++ {
		for y := low.y; y <= high.y; y++ {
			cell, ok := self.cells[cell_key{x, y}]
			if !ok {
				continue
			}
			for _, node := range cell {
				dist := geo.Distance(point, self.nodes[node])
				if dist > max_radius {
					continue
				}
				if dist < closest_dist || (dist == closest_dist && node < closest) {
					closest = node
					closest_dist = dist
				}
			}
		}
	}
	if closest == -1 {
		return -1, 0, false
	}
	return closest, closest_dist, true
}
