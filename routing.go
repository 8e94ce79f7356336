package main

import (
	"bytes"
	"context"

	"github.com/ttpr0/go-tour/geo"
	"github.com/ttpr0/go-tour/graphcache"
	"github.com/ttpr0/go-tour/tour"
	. "github.com/ttpr0/go-tour/util"
	"golang.org/x/exp/slog"
)

//**********************************************************
// tour handlers
//**********************************************************

type TourHandlers struct {
	service *tour.Service
	graphs  *graphcache.Cache
}

func NewTourHandlers(service *tour.Service, graphs *graphcache.Cache) *TourHandlers {
	return &TourHandlers{service: service, graphs: graphs}
}

func (self *TourHandlers) HandleTourRequest(ctx context.Context, req TourRequest) Result {
	slog.Debug("run tour request", "waypoints", len(req.Waypoints))
	request, err := req.ToRequest()
	if err != nil {
		return ErrorResult(err)
	}
	res, err := self.service.ComputeVisitingOrder(ctx, request)
	if err != nil {
		return ErrorResult(err)
	}
	return OK(NewTourResponse(res))
}

// HandleGeoJSONTourRequest orders the points of a GeoJSON feed and answers
// with the route as a FeatureCollection.
func (self *TourHandlers) HandleGeoJSONTourRequest(ctx context.Context, body []byte) Result {
	points, err := geo.ParseFeed(body)
	if err != nil {
		return BadRequest(err.Error())
	}
	waypoints, err := tour.WaypointsFromFeed(points)
	if err != nil {
		return ErrorResult(err)
	}
	return self._RouteCollection(ctx, tour.Request{Waypoints: waypoints})
}

// HandleCSVTourRequest orders the rows of a `lat;lon;role` feed.
func (self *TourHandlers) HandleCSVTourRequest(ctx context.Context, body []byte) Result {
	waypoints, err := tour.ReadWaypointsCSV(bytes.NewReader(body))
	if err != nil {
		return ErrorResult(err)
	}
	res, err := self.service.ComputeVisitingOrder(ctx, tour.Request{Waypoints: waypoints})
	if err != nil {
		return ErrorResult(err)
	}
	return OK(NewTourResponse(res))
}

// HandleRouteRequest answers the start to end query with a GeoJSON route.
func (self *TourHandlers) HandleRouteRequest(ctx context.Context, req RouteRequest) Result {
	return self._RouteCollection(ctx, req.ToRequest())
}

func (self *TourHandlers) HandleHealthRequest(ctx context.Context, _ struct{}) Result {
	state := self.graphs.State()
	status := "ok"
	if !state.Loaded {
		status = "loading"
		if state.Error != "" {
			status = "unavailable"
		}
	}
	return OK(HealthResponse{Status: status, Graph: state})
}

func (self *TourHandlers) _RouteCollection(ctx context.Context, req tour.Request) Result {
	res, err := self.service.ComputeVisitingOrder(ctx, req)
	if err != nil {
		return ErrorResult(err)
	}
	props := NewDict[string, any](2)
	props["total_cost"] = res.TotalCost
	props["unreachable"] = res.Unreachable
	return OK(geo.NewRouteCollection(res.Geometry, res.Order, res.OrderIDs, props))
}
