package parser

//*******************************************
// edge weighting
//*******************************************

type IWeighting interface {
	EdgeWeight(length float64, attr EdgeAttribs) float64
}

// FastestWeighting weights edges by travel time in seconds.
type FastestWeighting struct{}

func (self FastestWeighting) EdgeWeight(length float64, attr EdgeAttribs) float64 {
	speed := float64(attr.Maxspeed)
	if speed <= 0 {
		speed = 10
	}
	return length * 3.6 / speed
}

// ShortestWeighting weights edges by length in meters.
type ShortestWeighting struct{}

func (self ShortestWeighting) EdgeWeight(length float64, attr EdgeAttribs) float64 {
	return length
}
