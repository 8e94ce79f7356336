package parser

//*******************************************
// road types
//*******************************************

type RoadType int8

const (
	MOTORWAY       RoadType = 1
	MOTORWAY_LINK  RoadType = 2
	TRUNK          RoadType = 3
	TRUNK_LINK     RoadType = 4
	PRIMARY        RoadType = 5
	PRIMARY_LINK   RoadType = 6
	SECONDARY      RoadType = 7
	SECONDARY_LINK RoadType = 8
	TERTIARY       RoadType = 9
	TERTIARY_LINK  RoadType = 10
	RESIDENTIAL    RoadType = 11
	LIVING_STREET  RoadType = 12
	UNCLASSIFIED   RoadType = 13
	ROAD           RoadType = 14
	TRACK          RoadType = 15
	SERVICE        RoadType = 16
	CYCLEWAY       RoadType = 17
	FOOTWAY        RoadType = 18
	PATH           RoadType = 19
	PEDESTRIAN     RoadType = 20
	STEPS          RoadType = 21
)

var road_type_names = map[string]RoadType{
	"motorway":       MOTORWAY,
	"motorway_link":  MOTORWAY_LINK,
	"trunk":          TRUNK,
	"trunk_link":     TRUNK_LINK,
	"primary":        PRIMARY,
	"primary_link":   PRIMARY_LINK,
	"secondary":      SECONDARY,
	"secondary_link": SECONDARY_LINK,
	"tertiary":       TERTIARY,
	"tertiary_link":  TERTIARY_LINK,
	"residential":    RESIDENTIAL,
	"living_street":  LIVING_STREET,
	"unclassified":   UNCLASSIFIED,
	"road":           ROAD,
	"track":          TRACK,
	"service":        SERVICE,
	"cycleway":       CYCLEWAY,
	"footway":        FOOTWAY,
	"path":           PATH,
	"pedestrian":     PEDESTRIAN,
	"steps":          STEPS,
}

func (self RoadType) String() string {
	for name, typ := range road_type_names {
		if typ == self {
			return name
		}
	}
	return ""
}

// RoadTypeFromString returns 0 for unknown highway values.
func RoadTypeFromString(typ string) RoadType {
	return road_type_names[typ]
}

func (self RoadType) IsMotorway() bool {
	return self == MOTORWAY || self == TRUNK || self == MOTORWAY_LINK || self == TRUNK_LINK
}
