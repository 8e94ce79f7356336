package main

import (
	"fmt"

	"github.com/ttpr0/go-tour/geo"
	"github.com/ttpr0/go-tour/tour"
)

// WaypointParam is one waypoint of a tour request, lat and lon are required.
type WaypointParam struct {
	Lat  *float64 `json:"lat"`
	Lon  *float64 `json:"lon"`
	Role string   `json:"role"`
}

type TourRequest struct {
	Waypoints    []WaypointParam `json:"waypoints"`
	SearchRadius float64         `json:"search_radius"`
}

func (self TourRequest) ToRequest() (tour.Request, error) {
	waypoints := make([]tour.Waypoint, 0, len(self.Waypoints))
	for i, w := range self.Waypoints {
		if w.Lat == nil || w.Lon == nil {
			return tour.Request{}, &tour.InputError{Msg: fmt.Sprintf("waypoint %d: lat and lon are required", i)}
		}
		role, err := tour.ParseRole(w.Role)
		if err != nil {
			return tour.Request{}, err
		}
		waypoints = append(waypoints, tour.Waypoint{Coord: geo.NewCoord(*w.Lon, *w.Lat), Role: role})
	}
	return tour.Request{Waypoints: waypoints, SearchRadius: self.SearchRadius}, nil
}

// RouteRequest holds the query of the start to end route endpoint.
type RouteRequest struct {
	StartLat float64 `form:"startLat"`
	StartLng float64 `form:"startLng"`
	EndLat   float64 `form:"endLat"`
	EndLng   float64 `form:"endLng"`
}

func (self RouteRequest) ToRequest() tour.Request {
	return tour.Request{
		Waypoints: []tour.Waypoint{
			{Coord: geo.NewCoord(self.StartLng, self.StartLat), Role: tour.START},
			{Coord: geo.NewCoord(self.EndLng, self.EndLat), Role: tour.END},
		},
	}
}
