package main

import (
	"context"
	"io"

	"github.com/ttpr0/go-tour/graph"
	"github.com/ttpr0/go-tour/graphcache"
	"github.com/ttpr0/go-tour/matrix"
	"github.com/ttpr0/go-tour/parser"
	"github.com/ttpr0/go-tour/resultcache"
	"github.com/ttpr0/go-tour/routing"
	"github.com/ttpr0/go-tour/tour"
	"go.uber.org/fx"
	"golang.org/x/exp/slog"
)

//**********************************************************
// service components
//**********************************************************

func Module(config Config) fx.Option {
	return fx.Module("tour",
		fx.Supply(config),
		fx.Provide(
			NewMetrics,
			NewGraphCache,
			NewMatrixBuilder,
			NewResultCache,
			NewTourService,
			NewTourHandlers,
			NewRouter,
			NewServer,
		),
		fx.Invoke(registerLifecycle),
	)
}

func NewGraphCache(config Config, metrics *Metrics) *graphcache.Cache {
	decoder := config.Graph.Vehicle.Decoder()
	weighting := config.Graph.Metric.Weighting()
	load := func(ctx context.Context, r io.ReadSeeker) (*graph.Graph, error) {
		return parser.ParseGraph(ctx, r, decoder, weighting)
	}
	return graphcache.New(
		graphcache.FileSource{Path: config.Source.OSM},
		load,
		config.Graph.Refresh,
		graphcache.WithLoadObserver(metrics.ObserveGraphLoad),
	)
}

func NewMatrixBuilder(config Config) *matrix.Builder {
	return matrix.NewBuilder(routing.NewDijkstraProvider(), config.Matrix.Workers, config.Matrix.PairTimeout)
}

func NewResultCache(config Config, metrics *Metrics) (*resultcache.Cache[*tour.Result], error) {
	return resultcache.New[*tour.Result](config.Cache.TTL, config.Cache.Size, resultcache.WithObserver(metrics.ObserveCache))
}

func NewTourService(config Config, graphs *graphcache.Cache, builder *matrix.Builder, cache *resultcache.Cache[*tour.Result]) *tour.Service {
	return tour.NewService(graphs, builder, cache, config.Matrix.SearchRadius)
}

// registerLifecycle starts the server and warms the graph cache in the
// background, requests arriving before the load finishes wait for it.
func registerLifecycle(lc fx.Lifecycle, server *Server, graphs *graphcache.Cache) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if _, err := graphs.Acquire(context.Background()); err != nil {
					slog.Error("network graph warm-up failed", "error", err)
				}
			}()
			return server.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			defer graphs.Close()
			return server.Stop(ctx)
		},
	})
}
