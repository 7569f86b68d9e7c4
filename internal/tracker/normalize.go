package tracker

import (
	"log/slog"
	"time"

	"vonatradar.hu/internal/geom"
	"vonatradar.hu/internal/logging"
	"vonatradar.hu/internal/metrics"
	"vonatradar.hu/internal/models"
	"vonatradar.hu/internal/otp"
	"vonatradar.hu/internal/utils"
)

// shapeInterner caches decoded route geometry by exact encoded string for the
// duration of one refresh cycle. Shapes are shared across the fleet, so
// vehicles on the same route end up holding the same *RouteShape. Decode
// failures are cached too; decoding is deterministic.
type shapeInterner struct {
	decoded map[string]*models.RouteShape
	logger  *slog.Logger
	metrics *metrics.Collector
}

func newShapeInterner(logger *slog.Logger, collector *metrics.Collector) *shapeInterner {
	return &shapeInterner{
		decoded: map[string]*models.RouteShape{},
		logger:  logger,
		metrics: collector,
	}
}

// shapeFor returns the interned shape for the encoded string, decoding it on
// first sight. Malformed or degenerate (< 2 points) geometry downgrades to
// nil: the vehicle simply has no route, the cycle continues.
func (si *shapeInterner) shapeFor(encoded, vehicleID string) *models.RouteShape {
	if encoded == "" {
		return nil
	}
	if shape, seen := si.decoded[encoded]; seen {
		return shape
	}

	var shape *models.RouteShape
	coords, err := geom.DecodePolyline(encoded)
	switch {
	case err != nil:
		if si.metrics != nil {
			si.metrics.ShapeFailures.Inc()
		}
		logging.LogError(si.logger, "route shape unavailable", err,
			slog.String("vehicle_id", vehicleID),
			slog.String("shape_prefix", shapePrefix(encoded)))
	case len(coords) >= 2:
		rs := models.RouteShape(coords)
		shape = &rs
	}

	si.decoded[encoded] = shape
	return shape
}

func shapePrefix(encoded string) string {
	if len(encoded) > 16 {
		return encoded[:16]
	}
	return encoded
}

// buildFleetSnapshot normalizes one cycle's raw records against the previous
// published snapshot and assembles the next immutable FleetSnapshot. Each
// record is normalized independently; one bad shape never aborts the batch.
func buildFleetSnapshot(records []otp.VehiclePosition, prev *models.FleetSnapshot, epsilonMeters float64, fetchedAt time.Time, logger *slog.Logger, collector *metrics.Collector) *models.FleetSnapshot {
	shapes := newShapeInterner(logger, collector)

	vehicles := make(map[string]*models.VehicleSnapshot, len(records))
	for i := range records {
		rec := &records[i]
		var prevVehicle *models.VehicleSnapshot
		if prev != nil {
			prevVehicle = prev.Vehicles[rec.Key()]
		}
		v := normalizeVehicle(rec, prevVehicle, shapes, epsilonMeters, fetchedAt)
		vehicles[v.ID] = v
	}

	return &models.FleetSnapshot{
		Vehicles:  vehicles,
		Timestamp: fetchedAt,
		Valid:     true,
	}
}

// normalizeVehicle converts one raw record into the canonical vehicle entity.
// The previous snapshot's vehicle (may be nil) is the only history input,
// used for heading continuity.
func normalizeVehicle(rec *otp.VehiclePosition, prev *models.VehicleSnapshot, shapes *shapeInterner, epsilonMeters float64, fetchedAt time.Time) *models.VehicleSnapshot {
	position := models.Coordinate{Lat: *rec.Lat, Lon: *rec.Lon}

	v := &models.VehicleSnapshot{
		ID:            rec.Key(),
		DisplayName:   displayName(rec),
		Position:      position,
		SpeedKMH:      speedKMH(rec.Speed),
		DelaySeconds:  delaySeconds(rec.PrevOrCurrentStop),
		Heading:       headingFor(prev, position, epsilonMeters),
		NextStopIndex: -1,
		LastUpdated:   lastUpdated(rec, fetchedAt),
	}

	if trip := rec.Trip; trip != nil {
		v.TripID = trip.GtfsID
		v.Headsign = trip.TripHeadsign
		v.TrainName = trip.TrainName
		v.Category = trip.TrainCategoryName
		if trip.Route != nil {
			v.Route = &models.RouteInfo{
				GtfsID:    trip.Route.GtfsID,
				ShortName: trip.Route.ShortName,
				LongName:  trip.Route.LongName,
				Color:     trip.Route.Color,
				TextColor: trip.Route.TextColor,
			}
		}
		v.Stops = normalizeStops(trip.Stoptimes)
		v.NextStopIndex = nextStopIndex(v.Stops, fetchedAt)
		if trip.TripGeometry != nil {
			v.Shape = shapes.shapeFor(trip.TripGeometry.Points, v.ID)
		}
	}

	return v
}

func displayName(rec *otp.VehiclePosition) string {
	if rec.Trip != nil && rec.Trip.TripShortName != "" {
		return rec.Trip.TripShortName
	}
	if rec.Label != "" {
		return rec.Label
	}
	return rec.VehicleID
}

func speedKMH(speed *float64) float64 {
	if speed == nil || *speed < 0 {
		return 0
	}
	return *speed
}

// delaySeconds reconciles the upstream delay into the fixed convention:
// signed seconds, positive = late.
func delaySeconds(ref *otp.RawStopRef) int {
	if ref == nil {
		return 0
	}
	if ref.ArrivalDelay != nil {
		return *ref.ArrivalDelay
	}
	if ref.DepartureDelay != nil {
		return *ref.DepartureDelay
	}
	return 0
}

// headingFor derives the direction of travel from consecutive position
// reports. Movement below the epsilon keeps the previous heading so a
// stationary train does not flip direction on GPS noise.
func headingFor(prev *models.VehicleSnapshot, position models.Coordinate, epsilonMeters float64) int {
	if prev == nil {
		return models.HeadingUnknown
	}
	moved := utils.Haversine(prev.Position.Lat, prev.Position.Lon, position.Lat, position.Lon)
	if moved <= epsilonMeters {
		return prev.Heading
	}
	return utils.HeadingBetweenPoints(prev.Position.Lat, prev.Position.Lon, position.Lat, position.Lon)
}

// normalizeStops maps raw stop times 1:1 preserving upstream travel order.
func normalizeStops(stoptimes []otp.RawStopTime) []models.Stop {
	stops := make([]models.Stop, 0, len(stoptimes))
	for _, st := range stoptimes {
		if st.Stop == nil {
			continue
		}
		stops = append(stops, models.Stop{
			Name:               st.Stop.Name,
			Position:           models.Coordinate{Lat: st.Stop.Lat, Lon: st.Stop.Lon},
			PlatformCode:       st.Stop.PlatformCode,
			ScheduledArrival:   st.ScheduledArrival,
			RealtimeArrival:    st.RealtimeArrival,
			ArrivalDelay:       st.ArrivalDelay,
			ScheduledDeparture: st.ScheduledDeparture,
			RealtimeDeparture:  st.RealtimeDeparture,
		})
	}
	return stops
}

// nextStopIndex returns the first stop still ahead of the vehicle, judged by
// realtime times when present, scheduled otherwise. -1 means end of route.
func nextStopIndex(stops []models.Stop, now time.Time) int {
	nowSec := now.Hour()*3600 + now.Minute()*60 + now.Second()
	for i, s := range stops {
		arrival := coalesce(s.RealtimeArrival, s.ScheduledArrival)
		departure := coalesce(s.RealtimeDeparture, s.ScheduledDeparture)
		if (arrival != nil && *arrival > nowSec) || (departure != nil && *departure > nowSec) {
			return i
		}
	}
	return -1
}

func coalesce(values ...*int) *int {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

func lastUpdated(rec *otp.VehiclePosition, fetchedAt time.Time) time.Time {
	if rec.LastUpdated != nil && *rec.LastUpdated > 0 {
		return time.Unix(*rec.LastUpdated, 0)
	}
	return fetchedAt
}
