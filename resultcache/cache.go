// Package resultcache memoizes computed results per key for a fixed time to
// live and coalesces concurrent computations of the same key.
package resultcache

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

const DEFAULT_SIZE = 1024

type Event int

const (
	// Hit: a stored value was returned
	Hit Event = iota
	// Miss: the caller started a new computation
	Miss
	// Coalesced: the caller joined a running computation
	Coalesced
	// Expired: a stored value was found past its expiry
	Expired
)

func (self Event) String() string {
	switch self {
	case Hit:
		return "hit"
	case Miss:
		return "miss"
	case Coalesced:
		return "coalesced"
	case Expired:
		return "expired"
	}
	return "unknown"
}

type Observer func(key string, event Event)

type options struct {
	clock    clock.Clock
	observer Observer
}

type Option func(*options)

func WithClock(c clock.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

func WithObserver(observer Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}

//*******************************************
// cache
//*******************************************

type entry[V any] struct {
	value   V
	expires time.Time
}

// flight tracks the callers waiting on one computation. The computation runs
// on ctx which is detached from the callers and cancelled once no caller
// waits anymore.
type flight struct {
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

type Cache[V any] struct {
	ttl      time.Duration
	clock    clock.Clock
	observer Observer
	entries  *lru.Cache[string, entry[V]]
	group    singleflight.Group
	mu       sync.Mutex
	flights  map[string]*flight
}

// New creates a cache keeping at most size values for ttl each.
func New[V any](ttl time.Duration, size int, opts ...Option) (*Cache[V], error) {
	o := options{
		clock:    clock.New(),
		observer: func(string, Event) {},
	}
	for _, opt := range opts {
		opt(&o)
	}
	if size <= 0 {
		size = DEFAULT_SIZE
	}
	entries, err := lru.New[string, entry[V]](size)
	if err != nil {
		return nil, err
	}
	return &Cache[V]{
		ttl:      ttl,
		clock:    o.clock,
		observer: o.observer,
		entries:  entries,
		flights:  make(map[string]*flight),
	}, nil
}

// GetOrCompute returns the value stored for key or computes it with build.
// Concurrent callers with the same key share a single build. Failed builds
// are not stored. A caller whose ctx ends stops waiting; the build itself is
// only cancelled when no caller is left.
func (self *Cache[V]) GetOrCompute(ctx context.Context, key string, build func(ctx context.Context) (V, error)) (V, error) {
	var zero V
	if value, ok := self._Lookup(key); ok {
		self.observer(key, Hit)
		return value, nil
	}

	f, joined := self._Register(ctx, key)
	if joined {
		self.observer(key, Coalesced)
	} else {
		self.observer(key, Miss)
	}

	ch := self.group.DoChan(key, func() (any, error) {
		defer self._Finish(key, f)
		// a build that ended right before this one may have stored the value
		if value, ok := self._Lookup(key); ok {
			return value, nil
		}
		value, err := build(f.ctx)
		if err != nil {
			return nil, err
		}
		self.entries.Add(key, entry[V]{value: value, expires: self.clock.Now().Add(self.ttl)})
		return value, nil
	})

	select {
	case res := <-ch:
		self._Release(key, f)
		if res.Err != nil {
			return zero, res.Err
		}
		value, _ := res.Val.(V)
		return value, nil
	case <-ctx.Done():
		self._Release(key, f)
		return zero, ctx.Err()
	}
}

func (self *Cache[V]) Len() int {
	return self.entries.Len()
}

func (self *Cache[V]) Purge() {
	self.entries.Purge()
}

func (self *Cache[V]) _Lookup(key string) (V, bool) {
	e, ok := self.entries.Get(key)
	if !ok {
		var zero V
		return zero, false
	}
	if !self.clock.Now().Before(e.expires) {
		self.observer(key, Expired)
		var zero V
		return zero, false
	}
	return e.value, true
}

// _Register adds the caller to the running flight of key or starts a new one.
func (self *Cache[V]) _Register(ctx context.Context, key string) (*flight, bool) {
	self.mu.Lock()
	defer self.mu.Unlock()
	if f, ok := self.flights[key]; ok {
		f.waiters += 1
		return f, true
	}
	build_ctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	f := &flight{ctx: build_ctx, cancel: cancel, waiters: 1}
	self.flights[key] = f
	return f, false
}

// _Release removes a caller from f. The last caller cancels the build; if it
// is still running it is forgotten so that later callers start a fresh one
// instead of joining the cancelled build.
func (self *Cache[V]) _Release(key string, f *flight) {
	self.mu.Lock()
	defer self.mu.Unlock()
	f.waiters -= 1
	if f.waiters > 0 {
		return
	}
	f.cancel()
	if self.flights[key] == f {
		delete(self.flights, key)
		self.group.Forget(key)
	}
}

func (self *Cache[V]) _Finish(key string, f *flight) {
	self.mu.Lock()
	defer self.mu.Unlock()
	if self.flights[key] == f {
		delete(self.flights, key)
	}
}
