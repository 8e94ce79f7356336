package graphcache

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ttpr0/go-tour/geo"
	"github.com/ttpr0/go-tour/graph"
)

type memFile struct {
	*bytes.Reader
	close_err error
}

func (self memFile) Close() error {
	return self.close_err
}

type memSource struct {
	data      []byte
	close_err error
}

func (self memSource) Name() string {
	return "memory"
}

func (self memSource) Open() (io.ReadSeekCloser, error) {
	return memFile{Reader: bytes.NewReader(self.data), close_err: self.close_err}, nil
}

// loader returns graphs with one node per call until fail is set
type loader struct {
	calls atomic.Int32
	gate  chan struct{}
	fail  atomic.Bool
}

func (self *loader) load(ctx context.Context, r io.ReadSeeker) (*graph.Graph, error) {
	n := self.calls.Add(1)
	if self.gate != nil {
		select {
		case <-self.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if self.fail.Load() {
		return nil, errors.New("corrupt extract")
	}
	b := graph.NewBuilder(int(n), 0)
	for i := int32(0); i < n; i++ {
		b.AddNode(geo.NewCoord(29, 41))
	}
	return b.Build(), nil
}

func TestAcquireLoadsOnce(t *testing.T) {
	l := &loader{gate: make(chan struct{})}
	c := New(memSource{}, l.load, time.Hour, WithClock(clock.NewMock()))

	graphs := make([]*graph.Graph, 8)
	var wg sync.WaitGroup
	for i := range graphs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			g, err := c.Acquire(context.Background())
			assert.NoError(t, err)
			graphs[i] = g
		}(i)
	}
	require.Eventually(t, func() bool { return l.calls.Load() == 1 }, time.Second, time.Millisecond)
	close(l.gate)
	wg.Wait()

	assert.Equal(t, int32(1), l.calls.Load())
	require.NotNil(t, graphs[0])
	for _, g := range graphs {
		assert.Same(t, graphs[0], g)
	}

	g, err := c.Acquire(context.Background())
	require.NoError(t, err)
	assert.Same(t, graphs[0], g)
	assert.Equal(t, int32(1), l.calls.Load())

	state := c.State()
	assert.True(t, state.Loaded)
	assert.Equal(t, 1, state.Generation)
	assert.Equal(t, 1, state.Nodes)
}

func TestAcquireRefresh(t *testing.T) {
	mock := clock.NewMock()
	l := &loader{}
	c := New(memSource{}, l.load, time.Hour, WithClock(mock))
	ctx := context.Background()

	first, err := c.Acquire(ctx)
	require.NoError(t, err)

	mock.Add(59 * time.Minute)
	g, _ := c.Acquire(ctx)
	assert.Same(t, first, g)

	// expired graph is still served while the new one loads
	mock.Add(time.Minute)
	g, err = c.Acquire(ctx)
	require.NoError(t, err)
	assert.NotNil(t, g)
	require.Eventually(t, func() bool { return c.State().Generation == 2 }, time.Second, time.Millisecond)

	g, err = c.Acquire(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, g.NodeCount())
	assert.Equal(t, int32(2), l.calls.Load())
}

func TestAcquireFailureCachedUntilRefresh(t *testing.T) {
	mock := clock.NewMock()
	l := &loader{}
	l.fail.Store(true)
	c := New(memSource{}, l.load, time.Hour, WithClock(mock))
	ctx := context.Background()

	_, err := c.Acquire(ctx)
	var dle *DataLoadError
	require.ErrorAs(t, err, &dle)
	assert.Equal(t, "memory", dle.Source)

	_, err = c.Acquire(ctx)
	require.ErrorAs(t, err, &dle)
	assert.Equal(t, int32(1), l.calls.Load())
	assert.False(t, c.State().Loaded)
	assert.NotEmpty(t, c.State().Error)

	l.fail.Store(false)
	mock.Add(time.Hour)
	g, err := c.Acquire(ctx)
	require.NoError(t, err)
	assert.NotNil(t, g)
	assert.Equal(t, int32(2), l.calls.Load())
	assert.Empty(t, c.State().Error)
}

func TestAcquireReloadFailureKeepsGraph(t *testing.T) {
	mock := clock.NewMock()
	l := &loader{}
	c := New(memSource{}, l.load, time.Hour, WithClock(mock))
	ctx := context.Background()

	first, err := c.Acquire(ctx)
	require.NoError(t, err)

	l.fail.Store(true)
	mock.Add(time.Hour)
	g, err := c.Acquire(ctx)
	require.NoError(t, err)
	assert.Same(t, first, g)
	require.Eventually(t, func() bool { return c.State().Error != "" }, time.Second, time.Millisecond)

	g, err = c.Acquire(ctx)
	require.NoError(t, err)
	assert.Same(t, first, g)
	assert.Equal(t, 1, c.State().Generation)
	assert.Equal(t, int32(2), l.calls.Load())
}

func TestAcquireCallerCancelled(t *testing.T) {
	l := &loader{gate: make(chan struct{})}
	c := New(memSource{}, l.load, time.Hour)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := c.Acquire(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// the load keeps running for the next caller
	close(l.gate)
	g, err := c.Acquire(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, g)
	assert.Equal(t, int32(1), l.calls.Load())
}

func TestFileSourceMissing(t *testing.T) {
	l := &loader{}
	c := New(FileSource{Path: "./does-not-exist.pbf"}, l.load, time.Hour)

	_, err := c.Acquire(context.Background())
	var dle *DataLoadError
	require.ErrorAs(t, err, &dle)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Equal(t, int32(0), l.calls.Load())
}

func TestCloseErrorCombined(t *testing.T) {
	l := &loader{}
	l.fail.Store(true)
	c := New(memSource{close_err: errors.New("close failed")}, l.load, time.Hour)

	_, err := c.Acquire(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corrupt extract")
	assert.Contains(t, err.Error(), "close failed")
}
