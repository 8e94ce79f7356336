package main

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ttpr0/go-tour/graphcache"
	"github.com/ttpr0/go-tour/tour"
	"golang.org/x/exp/slog"
)

type Result struct {
	result any
	status int
}

func OK[T any](value T) Result {
	return Result{
		result: value,
		status: http.StatusOK,
	}
}

func BadRequest[T any](value T) Result {
	return Result{
		result: value,
		status: http.StatusBadRequest,
	}
}

// ErrorResult maps service errors to status codes.
func ErrorResult(err error) Result {
	var input_err *tour.InputError
	var start_err *tour.StartUnresolvedError
	var load_err *graphcache.DataLoadError
	switch {
	case errors.As(err, &input_err):
		return Result{result: err.Error(), status: http.StatusBadRequest}
	case errors.As(err, &start_err):
		return Result{result: err.Error(), status: http.StatusUnprocessableEntity}
	case errors.As(err, &load_err):
		return Result{result: err.Error(), status: http.StatusServiceUnavailable}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return Result{result: err.Error(), status: http.StatusGatewayTimeout}
	default:
		return Result{result: err.Error(), status: http.StatusInternalServerError}
	}
}

func WriteResult(c *gin.Context, path string, res Result) {
	if res.status != http.StatusOK {
		slog.Error("request failed", "path", path, "status", res.status, "error", res.result)
		c.JSON(res.status, NewErrorResponse(path, res.result))
		return
	}
	c.JSON(res.status, res.result)
}

// MapPost binds the json body to F.
func MapPost[F any](app gin.IRouter, path string, handler func(context.Context, F) Result) {
	app.POST(path, func(c *gin.Context) {
		var body F
		if err := c.ShouldBindJSON(&body); err != nil {
			WriteResult(c, path, BadRequest(err.Error()))
			return
		}
		WriteResult(c, path, handler(c.Request.Context(), body))
	})
}

// MapPostRaw hands the raw body to the handler.
func MapPostRaw(app gin.IRouter, path string, handler func(context.Context, []byte) Result) {
	app.POST(path, func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			WriteResult(c, path, BadRequest(err.Error()))
			return
		}
		WriteResult(c, path, handler(c.Request.Context(), body))
	})
}

// MapGet binds the query parameters to F using `form` tags.
func MapGet[F any](app gin.IRouter, path string, handler func(context.Context, F) Result) {
	app.GET(path, func(c *gin.Context) {
		var query F
		if err := c.ShouldBindQuery(&query); err != nil {
			WriteResult(c, path, BadRequest(err.Error()))
			return
		}
		WriteResult(c, path, handler(c.Request.Context(), query))
	})
}
