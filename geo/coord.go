package geo

import (
	"math"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
)

//*******************************************
// coordinates
//*******************************************

// Coord is a [longitude, latitude] pair in WGS84 degrees.
type Coord [2]float64

func NewCoord(lon, lat float64) Coord {
	return Coord{lon, lat}
}

func (self Coord) Lon() float64 {
	return self[0]
}
func (self Coord) Lat() float64 {
	return self[1]
}
func (self Coord) Point() orb.Point {
	return orb.Point(self)
}

// IsValid reports whether the coordinate is finite and inside the WGS84 range.
func (self Coord) IsValid() bool {
	lon, lat := self[0], self[1]
	if math.IsNaN(lon) || math.IsNaN(lat) || math.IsInf(lon, 0) || math.IsInf(lat, 0) {
		return false
	}
	return lon >= -180 && lon <= 180 && lat >= -90 && lat <= 90
}

type CoordArray []Coord

// Length returns the haversine length of the polyline in meters.
func (self CoordArray) Length() float64 {
	length := 0.0
	for i := 1; i < len(self); i++ {
		length += Distance(self[i-1], self[i])
	}
	return length
}

func (self CoordArray) LineString() orb.LineString {
	line := make(orb.LineString, len(self))
	for i, c := range self {
		line[i] = c.Point()
	}
	return line
}

// Distance returns the great circle distance between a and b in meters.
func Distance(a, b Coord) float64 {
	return orbgeo.DistanceHaversine(a.Point(), b.Point())
}

// MetersToDegrees converts a metric radius around lat into a degree extent
// along latitude and longitude. The longitude extent is taken at the
// poleward edge of the radius so the box always contains the circle.
func MetersToDegrees(meters float64, lat float64) (float64, float64) {
	d_lat := meters / orb.EarthRadius * 180 / math.Pi
	cos := math.Cos((math.Abs(lat) + d_lat) * math.Pi / 180)
	if cos < 1e-6 {
		return d_lat, 360
	}
	d_lon := d_lat / cos
	return d_lat, d_lon
}
