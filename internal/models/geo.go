package models

// Coordinate is a WGS84 latitude/longitude pair in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// RouteShape is the ordered geographic path a vehicle's route follows.
// Shapes are interned per refresh cycle: vehicles sharing the same encoded
// geometry string share one decoded *RouteShape.
type RouteShape []Coordinate
