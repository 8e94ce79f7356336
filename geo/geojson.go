package geo

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

//*******************************************
// waypoint feed
//*******************************************

// FeedPoint is a single point feature of a waypoint feed.
type FeedPoint struct {
	Coord Coord
	Role  string
	Name  string
}

// ParseFeed reads a GeoJSON FeatureCollection of point features, as served by
// duty-pharmacy style location feeds. The optional "role" and "name"
// properties are carried over. Non-point features are rejected.
func ParseFeed(data []byte) ([]FeedPoint, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("invalid feature collection: %w", err)
	}
	if len(fc.Features) == 0 {
		return nil, errors.New("feature collection contains no features")
	}
	points := make([]FeedPoint, 0, len(fc.Features))
	for i, feature := range fc.Features {
		point, ok := feature.Geometry.(orb.Point)
		if !ok {
			return nil, fmt.Errorf("feature %d: expected Point geometry, got %T", i, feature.Geometry)
		}
		points = append(points, FeedPoint{
			Coord: Coord(point),
			Role:  feature.Properties.MustString("role", ""),
			Name:  feature.Properties.MustString("name", ""),
		})
	}
	return points, nil
}

//*******************************************
// route output
//*******************************************

// NewRouteCollection builds the response collection of an ordered route: the
// route geometry as one LineString followed by one Point feature per stop.
// Without a geometry the LineString runs straight through the stops.
func NewRouteCollection(geometry CoordArray, order CoordArray, ids []int, props map[string]any) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	if len(geometry) < 2 {
		geometry = order
	}
	line := geojson.NewFeature(geometry.LineString())
	for k, v := range props {
		line.Properties[k] = v
	}
	fc.Append(line)

	for i, c := range order {
		stop := geojson.NewFeature(c.Point())
		stop.Properties["sequence"] = i
		if i < len(ids) {
			stop.Properties["id"] = ids[i]
		}
		fc.Append(stop)
	}
	return fc
}
