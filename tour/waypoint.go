package tour

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/ttpr0/go-tour/geo"
	"github.com/ttpr0/go-tour/matrix"
	. "github.com/ttpr0/go-tour/util"
	"go.uber.org/multierr"
)

//*******************************************
// waypoints
//*******************************************

type Role string

const (
	START        Role = "start"
	END          Role = "end"
	INTERMEDIATE Role = "intermediate"
)

// ParseRole maps a role name to a Role, an empty name yields "".
func ParseRole(name string) (Role, error) {
	switch Role(name) {
	case "", START, END, INTERMEDIATE:
		return Role(name), nil
	}
	return "", &InputError{Msg: fmt.Sprintf("unknown role %q", name)}
}

type Waypoint struct {
	Coord geo.Coord `json:"coord"`
	Role  Role      `json:"role"`
}

type Request struct {
	Waypoints []Waypoint
	// meters, zero selects the service default
	SearchRadius float64
}

// Result is shared between coalesced callers and must not be modified.
type Result struct {
	Order []geo.Coord `json:"order"`
	// waypoint indices in visiting order
	OrderIDs []int `json:"order_ids"`
	// waypoint indices left out of the order, ascending
	Unreachable []int `json:"unreachable"`
	// summed edge weights along the order: seconds for the fastest metric,
	// meters for the shortest metric
	TotalCost float64 `json:"total_cost"`
	// road geometry through the stops in visiting order
	Geometry geo.CoordArray `json:"geometry"`
}

//*******************************************
// errors
//*******************************************

// InputError rejects a request before any computation.
type InputError struct {
	Msg string
}

func (self *InputError) Error() string {
	return "invalid input: " + self.Msg
}

type StartUnresolvedError = matrix.StartUnresolvedError

//*******************************************
// validation
//*******************************************

// Normalize fills in missing roles: the first waypoint becomes the start,
// all others intermediate.
func Normalize(waypoints []Waypoint) []Waypoint {
	normalized := make([]Waypoint, len(waypoints))
	for i, w := range waypoints {
		if w.Role == "" {
			if i == 0 {
				w.Role = START
			} else {
				w.Role = INTERMEDIATE
			}
		}
		normalized[i] = w
	}
	return normalized
}

func Validate(waypoints []Waypoint, radius float64) error {
	if len(waypoints) < 2 {
		return &InputError{Msg: fmt.Sprintf("at least 2 waypoints required, got %d", len(waypoints))}
	}
	if math.IsNaN(radius) || math.IsInf(radius, 0) || radius <= 0 {
		return &InputError{Msg: fmt.Sprintf("search radius must be positive, got %v", radius)}
	}
	ends := 0
	for i, w := range waypoints {
		if !w.Coord.IsValid() {
			return &InputError{Msg: fmt.Sprintf("waypoint %d has invalid coordinates (%v, %v)", i, w.Coord.Lon(), w.Coord.Lat())}
		}
		switch w.Role {
		case START:
			if i != 0 {
				return &InputError{Msg: fmt.Sprintf("waypoint %d: start must be the first waypoint", i)}
			}
		case END:
			ends += 1
		case INTERMEDIATE:
		default:
			return &InputError{Msg: fmt.Sprintf("waypoint %d: unknown role %q", i, w.Role)}
		}
	}
	if waypoints[0].Role != START {
		return &InputError{Msg: "first waypoint must be the start"}
	}
	if ends > 1 {
		return &InputError{Msg: fmt.Sprintf("at most one end waypoint allowed, got %d", ends)}
	}
	return nil
}

// Fingerprint identifies a waypoint set and radius. Coordinates are rounded
// to 1e-6 degrees (about 10cm) so that float noise does not split entries.
func Fingerprint(waypoints []Waypoint, radius float64) string {
	d := xxhash.New()
	buf := make([]byte, 0, 32)
	for _, w := range waypoints {
		buf = buf[:0]
		buf = append(buf, string(w.Role)...)
		buf = append(buf, 0)
		buf = binary.LittleEndian.AppendUint64(buf, uint64(int64(math.Round(w.Coord.Lon()*1e6))))
		buf = binary.LittleEndian.AppendUint64(buf, uint64(int64(math.Round(w.Coord.Lat()*1e6))))
		d.Write(buf)
	}
	buf = binary.LittleEndian.AppendUint64(buf[:0], math.Float64bits(radius))
	d.Write(buf)
	return strconv.FormatUint(d.Sum64(), 16)
}

//*******************************************
// waypoint feeds
//*******************************************

// WaypointsFromFeed converts the points of a GeoJSON feed.
func WaypointsFromFeed(points []geo.FeedPoint) ([]Waypoint, error) {
	waypoints := make([]Waypoint, 0, len(points))
	for _, p := range points {
		role, err := ParseRole(p.Role)
		if err != nil {
			return nil, err
		}
		waypoints = append(waypoints, Waypoint{Coord: p.Coord, Role: role})
	}
	return waypoints, nil
}

type csv_waypoint struct {
	Lat  float64 `csv:"lat"`
	Lon  float64 `csv:"lon"`
	Role string  `csv:"role"`
}

// ReadWaypointsCSV reads a semicolon separated feed with the columns lat, lon
// and an optional role.
func ReadWaypointsCSV(r io.Reader) ([]Waypoint, error) {
	rows, err := ReadCSV[csv_waypoint](r, ';')
	if err != nil {
		return nil, &InputError{Msg: err.Error()}
	}
	waypoints := NewList[Waypoint](10)
	var errs error
	for row, err := range rows {
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		role, err := ParseRole(row.Role)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		waypoints.Add(Waypoint{Coord: geo.NewCoord(row.Lon, row.Lat), Role: role})
	}
	if errs != nil {
		return nil, &InputError{Msg: errs.Error()}
	}
	return waypoints, nil
}
