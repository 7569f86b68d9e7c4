package models

import "time"

// HeadingUnknown is the sentinel heading for a vehicle whose direction of
// travel cannot be determined yet (no usable position history).
const HeadingUnknown = -1

// Stop is one scheduled call on a vehicle's trip, in travel order.
// Times are seconds since service midnight; pointers are nil when the
// upstream feed omitted the value.
type Stop struct {
	Name               string     `json:"name"`
	Position           Coordinate `json:"position"`
	PlatformCode       string     `json:"platformCode,omitempty"`
	ScheduledArrival   *int       `json:"scheduledArrival,omitempty"`
	RealtimeArrival    *int       `json:"realtimeArrival,omitempty"`
	ArrivalDelay       *int       `json:"arrivalDelay,omitempty"`
	ScheduledDeparture *int       `json:"scheduledDeparture,omitempty"`
	RealtimeDeparture  *int       `json:"realtimeDeparture,omitempty"`
}

// RouteInfo describes the line a vehicle is running on.
type RouteInfo struct {
	GtfsID    string `json:"gtfsId"`
	ShortName string `json:"shortName,omitempty"`
	LongName  string `json:"longName,omitempty"`
	Color     string `json:"color,omitempty"`
	TextColor string `json:"textColor,omitempty"`
}

// VehicleSnapshot is the canonical, fully normalized view of one vehicle.
// Instances are immutable once published as part of a FleetSnapshot.
type VehicleSnapshot struct {
	ID          string     `json:"vehicleId"`
	DisplayName string     `json:"displayName"`
	TripID      string     `json:"tripId,omitempty"`
	Headsign    string     `json:"headsign,omitempty"`
	TrainName   string     `json:"trainName,omitempty"`
	Category    string     `json:"category,omitempty"`
	Route       *RouteInfo `json:"route,omitempty"`
	Position    Coordinate `json:"position"`

	// SpeedKMH is the reported speed, clamped to >= 0.
	SpeedKMH float64 `json:"speedKmh"`

	// DelaySeconds is signed; positive means late.
	DelaySeconds int `json:"delaySeconds"`

	// Heading is the derived direction of travel in degrees (0 = north,
	// clockwise, 0-359), or HeadingUnknown.
	Heading int `json:"heading"`

	// Stops preserves upstream travel order. NextStopIndex points at the
	// first stop still ahead of the vehicle, -1 when the trip is finished
	// or no stop times were reported.
	Stops         []Stop `json:"stops"`
	NextStopIndex int    `json:"nextStopIndex"`

	// Shape is nil when route geometry is unavailable (missing upstream or
	// malformed). Vehicles on the same route share the same pointer.
	Shape *RouteShape `json:"shape,omitempty"`

	LastUpdated time.Time `json:"lastUpdated"`
}

// HasShape reports whether usable route geometry was decoded for the vehicle.
func (v *VehicleSnapshot) HasShape() bool {
	return v.Shape != nil && len(*v.Shape) >= 2
}
