package parser

import (
	"strconv"
	"strings"
)

//*******************************************
// utility methods
//*******************************************

// _IsOneway returns whether the way is oneway and whether the open direction
// is against the node order.
func _IsOneway(oneway string, junction string, str_type RoadType) (bool, bool) {
	switch oneway {
	case "yes", "true", "1":
		return true, false
	case "-1", "reverse":
		return true, true
	case "no", "false", "0":
		return false, false
	}
	if str_type.IsMotorway() || junction == "roundabout" {
		return true, false
	}
	return false, false
}

func _IsDenied(access string) bool {
	switch access {
	case "no", "private", "agricultural", "forestry", "delivery":
		return true
	}
	return false
}

func _IsAllowed(access string) bool {
	switch access {
	case "yes", "designated", "permissive", "destination":
		return true
	}
	return false
}

// _ParseMaxspeed parses numeric maxspeed values in km/h, "mph" suffixed
// values are converted.
func _ParseMaxspeed(maxspeed string) (int32, bool) {
	value := strings.TrimSpace(maxspeed)
	factor := float32(1)
	if strings.HasSuffix(value, "mph") {
		value = strings.TrimSpace(strings.TrimSuffix(value, "mph"))
		factor = 1.609
	}
	t, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	return int32(float32(t) * factor), true
}

func _GetORSTravelSpeed(streettype RoadType, maxspeed string, tracktype string, surface string) int32 {
	var speed int32

	// check if maxspeed is set
	if maxspeed != "" {
		if maxspeed == "walk" {
			speed = 10
		} else if maxspeed == "none" {
			speed = 110
		} else {
			t, ok := _ParseMaxspeed(maxspeed)
			if !ok {
				speed = 20
			} else {
				speed = t
			}
		}
		speed = int32(0.9 * float32(speed))
	}

	// set defaults
	if maxspeed == "" {
		switch streettype {
		case MOTORWAY:
			speed = 100
		case TRUNK:
			speed = 85
		case MOTORWAY_LINK, TRUNK_LINK:
			speed = 60
		case PRIMARY:
			speed = 65
		case SECONDARY:
			speed = 60
		case TERTIARY:
			speed = 50
		case PRIMARY_LINK, SECONDARY_LINK:
			speed = 50
		case TERTIARY_LINK:
			speed = 40
		case UNCLASSIFIED:
			speed = 30
		case RESIDENTIAL:
			speed = 30
		case LIVING_STREET:
			speed = 10
		case ROAD:
			speed = 20
		case SERVICE:
			speed = 15
		case TRACK:
			if tracktype == "" {
				speed = 15
			} else {
				switch tracktype {
				case "grade1":
					speed = 40
				case "grade2":
					speed = 30
				case "grade3":
					speed = 20
				case "grade4":
					speed = 15
				case "grade5":
					speed = 10
				default:
					speed = 15
				}
			}
		default:
			speed = 20
		}
	}

	// check if surface is set
	if surface != "" {
		switch surface {
		case "cement", "compacted":
			if speed > 80 {
				speed = 80
			}
		case "fine_gravel":
			if speed > 60 {
				speed = 60
			}
		case "paving_stones", "metal", "bricks":
			if speed > 40 {
				speed = 40
			}
		case "grass", "wood", "sett", "grass_paver", "gravel", "unpaved", "ground", "dirt", "pebblestone", "tartan":
			if speed > 30 {
				speed = 30
			}
		case "cobblestone", "clay":
			if speed > 20 {
				speed = 20
			}
		case "earth", "stone", "rocky", "sand":
			if speed > 15 {
				speed = 15
			}
		case "mud":
			if speed > 10 {
				speed = 10
			}
		}
	}

	if speed <= 0 {
		speed = 10
	}
	if speed > 250 {
		speed = 250
	}
	return speed
}
