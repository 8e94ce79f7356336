package parser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/ttpr0/go-tour/geo"
	"github.com/ttpr0/go-tour/graph"
	. "github.com/ttpr0/go-tour/util"
	"golang.org/x/exp/slog"
)

var ErrEmptyNetwork = errors.New("no routable ways found")

// ParseGraph reads an OSM PBF extract and builds the routable network for the
// given decoder. The stream is scanned three times: way node references are
// counted first, then node coordinates are collected and finally ways are
// split into edges at junctions.
func ParseGraph(ctx context.Context, r io.ReadSeeker, decoder IOSMDecoder, weighting IWeighting) (*graph.Graph, error) {
	start := time.Now()
	osm_nodes := NewDict[int64, TempNode](10000)
	if err := _Scan(ctx, r, true, func(object osm.Object) {
		_InitWayHandler(object, decoder, osm_nodes)
	}); err != nil {
		return nil, fmt.Errorf("failed to scan ways: %w", err)
	}
	if osm_nodes.Length() == 0 {
		return nil, ErrEmptyNetwork
	}

	builder := graph.NewBuilder(osm_nodes.Length()/4, osm_nodes.Length()/2)
	index_mapping := NewDict[int64, int32](osm_nodes.Length() / 4)
	if err := _Scan(ctx, r, false, func(object osm.Object) {
		_NodeHandler(object, osm_nodes, builder, index_mapping)
	}); err != nil {
		return nil, fmt.Errorf("failed to scan nodes: %w", err)
	}

	edges := NewList[OSMEdge](builder.NodeCount() * 2)
	if err := _Scan(ctx, r, true, func(object osm.Object) {
		_WayHandler(object, decoder, osm_nodes, index_mapping, &edges)
	}); err != nil {
		return nil, fmt.Errorf("failed to scan ways: %w", err)
	}
	if edges.Length() == 0 {
		return nil, ErrEmptyNetwork
	}

	if err := _CreateGraph(builder, edges, weighting); err != nil {
		return nil, err
	}
	g := builder.Build()
	slog.Info("parsed road network", "nodes", g.NodeCount(), "edges", g.EdgeCount(), "took", time.Since(start))
	return g, nil
}

func _Scan(ctx context.Context, r io.ReadSeeker, ways bool, handler func(osm.Object)) error {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return err
	}
	scanner := osmpbf.New(ctx, r, runtime.GOMAXPROCS(-1))
	defer scanner.Close()
	scanner.SkipRelations = true
	if ways {
		scanner.SkipNodes = true
	} else {
		scanner.SkipWays = true
	}
	for scanner.Scan() {
		handler(scanner.Object())
	}
	return scanner.Err()
}

func _CreateGraph(builder *graph.Builder, edges List[OSMEdge], weighting IWeighting) error {
	for _, osmedge := range edges {
		length := osmedge.Nodes.Length()
		weight := weighting.EdgeWeight(length, osmedge.Attr)
		if !osmedge.Attr.Reversed {
			if err := builder.AddEdge(osmedge.NodeA, osmedge.NodeB, length, weight); err != nil {
				return err
			}
		}
		if !osmedge.Attr.Oneway || osmedge.Attr.Reversed {
			if err := builder.AddEdge(osmedge.NodeB, osmedge.NodeA, length, weight); err != nil {
				return err
			}
		}
	}
	return nil
}

//*******************************************
// osm handler methods
//*******************************************

func _InitWayHandler(object osm.Object, decoder IOSMDecoder, osm_nodes Dict[int64, TempNode]) {
	way, ok := object.(*osm.Way)
	if !ok || len(way.Nodes) < 2 {
		return
	}
	tags := Dict[string, string](way.TagMap())
	if !decoder.IsValidHighway(tags) {
		return
	}
	for _, wn := range way.Nodes {
		node := osm_nodes[int64(wn.ID)]
		node.Count += 1
		osm_nodes[int64(wn.ID)] = node
	}
	// way ends are always graph nodes
	for _, ref := range [2]int64{int64(way.Nodes[0].ID), int64(way.Nodes[len(way.Nodes)-1].ID)} {
		node := osm_nodes[ref]
		node.Count += 1
		osm_nodes[ref] = node
	}
}

func _NodeHandler(object osm.Object, osm_nodes Dict[int64, TempNode], builder *graph.Builder, index_mapping Dict[int64, int32]) {
	node, ok := object.(*osm.Node)
	if !ok {
		return
	}
	id := int64(node.ID)
	on, ok := osm_nodes[id]
	if !ok {
		return
	}
	on.Point = geo.NewCoord(node.Lon, node.Lat)
	on.Found = true
	if on.Count > 1 {
		index_mapping[id] = builder.AddNode(on.Point)
	}
	osm_nodes[id] = on
}

func _WayHandler(object osm.Object, decoder IOSMDecoder, osm_nodes Dict[int64, TempNode], index_mapping Dict[int64, int32], edges *List[OSMEdge]) {
	way, ok := object.(*osm.Way)
	if !ok || len(way.Nodes) < 2 {
		return
	}
	tags := Dict[string, string](way.TagMap())
	if !decoder.IsValidHighway(tags) {
		return
	}
	edge_attr := decoder.DecodeEdge(tags)

	// nodes missing from a clipped extract break the way into pieces
	start := int64(-1)
	var e OSMEdge
	for _, wn := range way.Nodes {
		curr := int64(wn.ID)
		on := osm_nodes[curr]
		if !on.Found {
			start = -1
			continue
		}
		_, is_junction := index_mapping[curr]
		if start == -1 {
			if is_junction {
				start = curr
				e = OSMEdge{Nodes: geo.CoordArray{on.Point}}
			}
			continue
		}
		e.Nodes = append(e.Nodes, on.Point)
		if is_junction && curr != start {
			e.NodeA = index_mapping[start]
			e.NodeB = index_mapping[curr]
			e.Attr = edge_attr
			edges.Add(e)
			start = curr
			e = OSMEdge{Nodes: geo.CoordArray{on.Point}}
		}
	}
}
