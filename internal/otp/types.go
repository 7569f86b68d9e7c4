package otp

// Raw wire types for the OTP2 GraphQL vehiclePositions response. They live
// only for the duration of one fetch cycle; the normalizer turns them into
// canonical snapshots and discards them.

type graphQLRequest struct {
	Query string `json:"query"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type responseEnvelope struct {
	Data   *responseData  `json:"data"`
	Errors []graphQLError `json:"errors,omitempty"`
}

type responseData struct {
	VehiclePositions []VehiclePosition `json:"vehiclePositions"`
}

// VehiclePosition is one raw per-vehicle record as reported upstream.
type VehiclePosition struct {
	VehicleID   string   `json:"vehicleId"`
	Lat         *float64 `json:"lat"`
	Lon         *float64 `json:"lon"`
	Label       string   `json:"label"`
	Speed       *float64 `json:"speed"`
	LastUpdated *int64   `json:"lastUpdated"`

	Trip              *RawTrip    `json:"trip"`
	PrevOrCurrentStop *RawStopRef `json:"prevOrCurrentStop"`
}

// Key returns the stable identity of the record: the vehicle id when
// reported, else the trip short name. Empty means the record is unusable.
func (v *VehiclePosition) Key() string {
	if v.VehicleID != "" {
		return v.VehicleID
	}
	if v.Trip != nil {
		return v.Trip.TripShortName
	}
	return ""
}

type RawTrip struct {
	GtfsID            string       `json:"gtfsId"`
	TripShortName     string       `json:"tripShortName"`
	TripHeadsign      string       `json:"tripHeadsign"`
	TrainCategoryName string       `json:"trainCategoryName"`
	TrainName         string       `json:"trainName"`
	TripGeometry      *RawGeometry `json:"tripGeometry"`
	Route             *RawRoute    `json:"route"`
	Stoptimes         []RawStopTime `json:"stoptimes"`
}

type RawGeometry struct {
	Length int    `json:"length"`
	Points string `json:"points"`
}

type RawRoute struct {
	GtfsID    string `json:"gtfsId"`
	ShortName string `json:"shortName"`
	LongName  string `json:"longName"`
	Color     string `json:"color"`
	TextColor string `json:"textColor"`
}

type RawStopTime struct {
	Stop               *RawStop `json:"stop"`
	ScheduledArrival   *int     `json:"scheduledArrival"`
	RealtimeArrival    *int     `json:"realtimeArrival"`
	ArrivalDelay       *int     `json:"arrivalDelay"`
	ScheduledDeparture *int     `json:"scheduledDeparture"`
	RealtimeDeparture  *int     `json:"realtimeDeparture"`
}

type RawStop struct {
	Name         string  `json:"name"`
	Lat          float64 `json:"lat"`
	Lon          float64 `json:"lon"`
	PlatformCode string  `json:"platformCode"`
}

type RawStopRef struct {
	ArrivalDelay   *int `json:"arrivalDelay"`
	DepartureDelay *int `json:"departureDelay"`
}
