package parser

import (
	"github.com/ttpr0/go-tour/geo"
)

//*******************************************
// parser structs
//*******************************************

type TempNode struct {
	Point geo.Coord
	Count int32
	Found bool
}

type OSMEdge struct {
	NodeA int32
	NodeB int32
	Attr  EdgeAttribs
	Nodes geo.CoordArray
}

type EdgeAttribs struct {
	Type     RoadType
	Maxspeed byte
	Oneway   bool
	// only the reverse direction is open (oneway=-1)
	Reversed bool
}
