// Package graphcache owns the lifecycle of the shared road network graph.
package graphcache

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/ttpr0/go-tour/graph"
	"go.uber.org/multierr"
	"golang.org/x/exp/slog"
	"golang.org/x/sync/singleflight"
)

type LoadObserver func(took time.Duration, err error)

type Option func(*Cache)

func WithClock(c clock.Clock) Option {
	return func(self *Cache) {
		self.clock = c
	}
}

func WithLoadObserver(observer LoadObserver) Option {
	return func(self *Cache) {
		self.observer = observer
	}
}

// State describes the current generation of the cache.
type State struct {
	Source      string    `json:"source"`
	Generation  int       `json:"generation"`
	Loaded      bool      `json:"loaded"`
	LoadedAt    time.Time `json:"loaded_at,omitempty"`
	NextRefresh time.Time `json:"next_refresh,omitempty"`
	Nodes       int       `json:"nodes"`
	Edges       int       `json:"edges"`
	Error       string    `json:"error,omitempty"`
}

//*******************************************
// graph cache
//*******************************************

// Cache loads the network graph on first use and reloads it once refresh has
// passed. Concurrent callers share one load. A failed first load is returned
// to every caller until the next refresh, a failed reload keeps the previous
// graph. A refresh of zero disables reloading.
type Cache struct {
	source   Source
	load     LoadFunc
	refresh  time.Duration
	clock    clock.Clock
	observer LoadObserver

	ctx    context.Context
	cancel context.CancelFunc
	group  singleflight.Group

	mu           sync.RWMutex
	graph        *graph.Graph
	err          error
	generation   int
	loaded_at    time.Time
	next_refresh time.Time
}

func New(source Source, load LoadFunc, refresh time.Duration, opts ...Option) *Cache {
	ctx, cancel := context.WithCancel(context.Background())
	cache := &Cache{
		source:   source,
		load:     load,
		refresh:  refresh,
		clock:    clock.New(),
		observer: func(time.Duration, error) {},
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, opt := range opts {
		opt(cache)
	}
	return cache
}

// Acquire returns the current graph. The first call waits for the load, an
// expired graph is still returned while its replacement loads in the
// background.
func (self *Cache) Acquire(ctx context.Context) (*graph.Graph, error) {
	self.mu.RLock()
	g, err := self.graph, self.err
	expired := self._IsExpired()
	self.mu.RUnlock()

	if g != nil {
		if expired {
			self.group.DoChan("load", self._Load)
		}
		return g, nil
	}
	if err != nil && !expired {
		return nil, err
	}

	ch := self.group.DoChan("load", self._Load)
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*graph.Graph), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (self *Cache) State() State {
	self.mu.RLock()
	defer self.mu.RUnlock()
	state := State{
		Source:      self.source.Name(),
		Generation:  self.generation,
		Loaded:      self.graph != nil,
		LoadedAt:    self.loaded_at,
		NextRefresh: self.next_refresh,
	}
	if self.graph != nil {
		state.Nodes = self.graph.NodeCount()
		state.Edges = self.graph.EdgeCount()
	}
	if self.err != nil {
		state.Error = self.err.Error()
	}
	return state
}

// Close aborts a running load.
func (self *Cache) Close() {
	self.cancel()
}

// _IsExpired reports whether a new load is due, mu must be held.
func (self *Cache) _IsExpired() bool {
	if self.graph == nil && self.err == nil {
		return true
	}
	if self.refresh <= 0 {
		return false
	}
	return !self.clock.Now().Before(self.next_refresh)
}

func (self *Cache) _Load() (any, error) {
	self.mu.RLock()
	expired := self._IsExpired()
	g, err := self.graph, self.err
	self.mu.RUnlock()
	// a load that finished right before this one already did the work
	if !expired {
		if g != nil {
			return g, nil
		}
		return nil, err
	}

	slog.Info("loading network graph", "source", self.source.Name())
	start := self.clock.Now()
	new_g, load_err := self._Read()
	took := self.clock.Since(start)
	self.observer(took, load_err)

	self.mu.Lock()
	defer self.mu.Unlock()
	self.next_refresh = self.clock.Now().Add(self.refresh)
	if load_err != nil {
		load_err = &DataLoadError{Source: self.source.Name(), Err: load_err}
		self.err = load_err
		if self.graph != nil {
			slog.Error("reloading network graph failed, keeping previous graph", "generation", self.generation, "error", load_err)
			return self.graph, nil
		}
		slog.Error("loading network graph failed", "error", load_err)
		return nil, load_err
	}
	self.graph = new_g
	self.err = nil
	self.generation += 1
	self.loaded_at = self.clock.Now()
	slog.Info("network graph loaded", "generation", self.generation, "nodes", new_g.NodeCount(), "edges", new_g.EdgeCount(), "took", took)
	return new_g, nil
}

func (self *Cache) _Read() (g *graph.Graph, err error) {
	r, err := self.source.Open()
	if err != nil {
		return nil, err
	}
	defer func() {
		err = multierr.Append(err, r.Close())
		if err != nil {
			g = nil
		}
	}()
	return self.load(self.ctx, r)
}
