package graphcache

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/ttpr0/go-tour/graph"
)

// Source supplies the raw network data, it is opened once per load.
type Source interface {
	Name() string
	Open() (io.ReadSeekCloser, error)
}

// FileSource reads the network data from a file on disk.
type FileSource struct {
	Path string
}

func (self FileSource) Name() string {
	return self.Path
}

func (self FileSource) Open() (io.ReadSeekCloser, error) {
	return os.Open(self.Path)
}

// LoadFunc builds a graph from the opened source.
type LoadFunc func(ctx context.Context, r io.ReadSeeker) (*graph.Graph, error)

// DataLoadError is returned when the network data could not be read or
// parsed. It is kept until the next scheduled refresh.
type DataLoadError struct {
	Source string
	Err    error
}

func (self *DataLoadError) Error() string {
	return fmt.Sprintf("failed to load network data from %s: %v", self.Source, self.Err)
}

func (self *DataLoadError) Unwrap() error {
	return self.Err
}
