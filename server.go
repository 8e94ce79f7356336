package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

const REQUEST_ID_HEADER = "X-Request-ID"

//**********************************************************
// http server
//**********************************************************

func NewRouter(config Config, handlers *TourHandlers, metrics *Metrics) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	app := gin.New()
	app.Use(gin.Recovery(), RequestID(), RequestLogger(), metrics.Middleware())

	cors_config := cors.DefaultConfig()
	if len(config.Server.CorsOrigins) == 0 {
		cors_config.AllowAllOrigins = true
	} else {
		cors_config.AllowOrigins = config.Server.CorsOrigins
	}
	cors_config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	cors_config.AddAllowHeaders(REQUEST_ID_HEADER)
	cors_config.AddExposeHeaders(REQUEST_ID_HEADER)
	app.Use(cors.New(cors_config))

	MapGet(app, "/api/rota", handlers.HandleRouteRequest)
	MapGet(app, "/api/route", handlers.HandleRouteRequest)
	MapPost(app, "/v1/tour", handlers.HandleTourRequest)
	MapPostRaw(app, "/v1/tour/geojson", handlers.HandleGeoJSONTourRequest)
	MapPostRaw(app, "/v1/tour/csv", handlers.HandleCSVTourRequest)
	MapGet(app, "/health", handlers.HandleHealthRequest)
	app.GET("/metrics", metrics.Handler())
	return app
}

// RequestID tags every request with an id, an incoming id is kept.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(REQUEST_ID_HEADER)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(REQUEST_ID_HEADER, id)
		c.Header(REQUEST_ID_HEADER, id)
		c.Next()
	}
}

func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Info("handled request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"request_id", c.GetString(REQUEST_ID_HEADER),
			"took", time.Since(start),
		)
	}
}

type Server struct {
	srv *http.Server
}

func NewServer(config Config, router *gin.Engine) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              config.Server.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Start binds the listener and serves in the background.
func (self *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", self.srv.Addr)
	if err != nil {
		return err
	}
	slog.Info("server listening", "addr", ln.Addr().String())
	go func() {
		if err := self.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped", "error", err)
		}
	}()
	return nil
}

func (self *Server) Stop(ctx context.Context) error {
	return self.srv.Shutdown(ctx)
}
