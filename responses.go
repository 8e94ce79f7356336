package main

import (
	"github.com/ttpr0/go-tour/geo"
	"github.com/ttpr0/go-tour/graphcache"
	"github.com/ttpr0/go-tour/tour"
)

type ErrorResponse struct {
	Request string `json:"request"`
	Error   any    `json:"error"`
}

func NewErrorResponse(request string, error any) ErrorResponse {
	return ErrorResponse{
		Request: request,
		Error:   error,
	}
}

type TourResponse struct {
	Order       []geo.Coord `json:"order"`
	OrderIDs    []int       `json:"order_ids"`
	Unreachable []int       `json:"unreachable"`
	TotalCost   float64     `json:"total_cost"`
}

func NewTourResponse(res *tour.Result) TourResponse {
	return TourResponse{
		Order:       res.Order,
		OrderIDs:    res.OrderIDs,
		Unreachable: res.Unreachable,
		TotalCost:   res.TotalCost,
	}
}

type HealthResponse struct {
	Status string           `json:"status"`
	Graph  graphcache.State `json:"graph"`
}
