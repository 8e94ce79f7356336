package parser

import (
	. "github.com/ttpr0/go-tour/util"
)

type WalkingDecoder struct{}

var walking_types = Dict[string, bool]{"primary": true, "primary_link": true, "secondary": true, "secondary_link": true,
	"tertiary": true, "tertiary_link": true, "residential": true, "living_street": true, "service": true, "track": true,
	"unclassified": true, "road": true, "footway": true, "path": true, "pedestrian": true, "steps": true, "cycleway": true}

func (self *WalkingDecoder) IsValidHighway(tags Dict[string, string]) bool {
	if !walking_types.ContainsKey(tags.Get("highway")) {
		return false
	}
	if _IsDenied(tags.Get("foot")) {
		return false
	}
	if tags.Get("access") == "no" && !_IsAllowed(tags.Get("foot")) {
		return false
	}
	return true
}

// walking ignores oneway restrictions
func (self *WalkingDecoder) DecodeEdge(tags Dict[string, string]) EdgeAttribs {
	e := EdgeAttribs{}
	e.Type = RoadTypeFromString(tags.Get("highway"))
	if e.Type == STEPS {
		e.Maxspeed = 2
	} else {
		e.Maxspeed = 5
	}
	return e
}
