package parser

import (
	. "github.com/ttpr0/go-tour/util"
)

//*******************************************
// osm decoder
//*******************************************

type IOSMDecoder interface {
	IsValidHighway(tags Dict[string, string]) bool
	DecodeEdge(tags Dict[string, string]) EdgeAttribs
}

//*******************************************
// car
//*******************************************

type DrivingDecoder struct{}

var driving_types = Dict[string, bool]{"motorway": true, "motorway_link": true, "trunk": true, "trunk_link": true,
	"primary": true, "primary_link": true, "secondary": true, "secondary_link": true, "tertiary": true, "tertiary_link": true,
	"residential": true, "living_street": true, "service": true, "track": true, "unclassified": true, "road": true}

func (self *DrivingDecoder) IsValidHighway(tags Dict[string, string]) bool {
	if !driving_types.ContainsKey(tags.Get("highway")) {
		return false
	}
	if _IsDenied(tags.Get("motor_vehicle")) || _IsDenied(tags.Get("motorcar")) {
		return false
	}
	if tags.Get("access") == "no" && !_IsAllowed(tags.Get("motorcar")) {
		return false
	}
	return true
}
func (self *DrivingDecoder) DecodeEdge(tags Dict[string, string]) EdgeAttribs {
	e := EdgeAttribs{}
	e.Type = RoadTypeFromString(tags.Get("highway"))
	e.Maxspeed = byte(_GetORSTravelSpeed(e.Type, tags.Get("maxspeed"), tags.Get("tracktype"), tags.Get("surface")))
	e.Oneway, e.Reversed = _IsOneway(tags.Get("oneway"), tags.Get("junction"), e.Type)
	return e
}
