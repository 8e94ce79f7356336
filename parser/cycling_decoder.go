package parser

import (
	. "github.com/ttpr0/go-tour/util"
)

type CyclingDecoder struct{}

var cycling_types = Dict[string, bool]{"primary": true, "primary_link": true, "secondary": true, "secondary_link": true,
	"tertiary": true, "tertiary_link": true, "residential": true, "living_street": true, "service": true, "track": true,
	"unclassified": true, "road": true, "cycleway": true, "path": true}

func (self *CyclingDecoder) IsValidHighway(tags Dict[string, string]) bool {
	if !cycling_types.ContainsKey(tags.Get("highway")) {
		return false
	}
	if _IsDenied(tags.Get("bicycle")) {
		return false
	}
	if tags.Get("access") == "no" && !_IsAllowed(tags.Get("bicycle")) {
		return false
	}
	return true
}
func (self *CyclingDecoder) DecodeEdge(tags Dict[string, string]) EdgeAttribs {
	e := EdgeAttribs{}
	e.Type = RoadTypeFromString(tags.Get("highway"))
	switch e.Type {
	case CYCLEWAY:
		e.Maxspeed = 18
	case TRACK, PATH:
		e.Maxspeed = 12
	default:
		e.Maxspeed = 15
	}
	if tags.Get("oneway:bicycle") == "no" {
		return e
	}
	e.Oneway, e.Reversed = _IsOneway(tags.Get("oneway"), tags.Get("junction"), e.Type)
	return e
}
