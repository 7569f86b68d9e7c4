package tracker

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vonatradar.hu/internal/geom"
	"vonatradar.hu/internal/logging"
	"vonatradar.hu/internal/models"
	"vonatradar.hu/internal/otp"
)

const testEpsilonMeters = 10.0

func testLogger() *slog.Logger {
	return logging.NewStructuredLogger(io.Discard, slog.LevelInfo)
}

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func rawRecord(id string, lat, lon float64) otp.VehiclePosition {
	return otp.VehiclePosition{
		VehicleID: id,
		Lat:       floatPtr(lat),
		Lon:       floatPtr(lon),
	}
}

func prevVehicle(id string, lat, lon float64, heading int) *models.VehicleSnapshot {
	return &models.VehicleSnapshot{
		ID:       id,
		Position: models.Coordinate{Lat: lat, Lon: lon},
		Heading:  heading,
	}
}

func normalizeOne(t *testing.T, rec otp.VehiclePosition, prev *models.VehicleSnapshot) *models.VehicleSnapshot {
	t.Helper()
	shapes := newShapeInterner(testLogger(), nil)
	return normalizeVehicle(&rec, prev, shapes, testEpsilonMeters, time.Now())
}

func TestHeadingDueNorth(t *testing.T) {
	rec := rawRecord("V1", 47.5079, 19.0402)
	v := normalizeOne(t, rec, prevVehicle("V1", 47.4979, 19.0402, models.HeadingUnknown))

	assert.Equal(t, 0, v.Heading)
}

func TestHeadingCarriedForwardWhenStationary(t *testing.T) {
	rec := rawRecord("V1", 47.4979, 19.0402)
	v := normalizeOne(t, rec, prevVehicle("V1", 47.4979, 19.0402, 123))

	assert.Equal(t, 123, v.Heading)
}

func TestHeadingKeptBelowMovementEpsilon(t *testing.T) {
	// ~3 meters of northward jitter, below the 10 m epsilon.
	rec := rawRecord("V1", 47.49793, 19.0402)
	v := normalizeOne(t, rec, prevVehicle("V1", 47.4979, 19.0402, 270))

	assert.Equal(t, 270, v.Heading)
}

func TestHeadingUnknownWithoutHistory(t *testing.T) {
	v := normalizeOne(t, rawRecord("V1", 47.4979, 19.0402), nil)

	assert.Equal(t, models.HeadingUnknown, v.Heading)
}

func TestDelayReconciliation(t *testing.T) {
	tests := []struct {
		name     string
		ref      *otp.RawStopRef
		expected int
	}{
		{name: "no stop reference", ref: nil, expected: 0},
		{name: "arrival delay wins", ref: &otp.RawStopRef{ArrivalDelay: intPtr(120), DepartureDelay: intPtr(300)}, expected: 120},
		{name: "departure delay fallback", ref: &otp.RawStopRef{DepartureDelay: intPtr(90)}, expected: 90},
		{name: "early trains stay negative", ref: &otp.RawStopRef{ArrivalDelay: intPtr(-45)}, expected: -45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := rawRecord("V1", 47.0, 19.0)
			rec.PrevOrCurrentStop = tt.ref
			v := normalizeOne(t, rec, nil)
			assert.Equal(t, tt.expected, v.DelaySeconds)
		})
	}
}

func TestSpeedClampedNonNegative(t *testing.T) {
	rec := rawRecord("V1", 47.0, 19.0)
	rec.Speed = floatPtr(-3)
	assert.Equal(t, 0.0, normalizeOne(t, rec, nil).SpeedKMH)

	rec.Speed = floatPtr(96)
	assert.Equal(t, 96.0, normalizeOne(t, rec, nil).SpeedKMH)

	rec.Speed = nil
	assert.Equal(t, 0.0, normalizeOne(t, rec, nil).SpeedKMH)
}

func TestDisplayNameFallbackChain(t *testing.T) {
	rec := rawRecord("V1", 47.0, 19.0)
	rec.Trip = &otp.RawTrip{TripShortName: "910"}
	assert.Equal(t, "910", normalizeOne(t, rec, nil).DisplayName)

	rec.Trip = &otp.RawTrip{}
	rec.Label = "IC 910"
	assert.Equal(t, "IC 910", normalizeOne(t, rec, nil).DisplayName)

	rec.Label = ""
	assert.Equal(t, "V1", normalizeOne(t, rec, nil).DisplayName)
}

func TestMalformedShapeDowngradesToNoRoute(t *testing.T) {
	rec := rawRecord("V1", 47.4979, 19.0402)
	rec.Speed = floatPtr(80)
	rec.Trip = &otp.RawTrip{
		GtfsID:        "1:0910",
		TripShortName: "910",
		TripGeometry:  &otp.RawGeometry{Points: "_"},
	}

	v := normalizeOne(t, rec, nil)

	assert.Nil(t, v.Shape)
	assert.False(t, v.HasShape())
	assert.Equal(t, "910", v.DisplayName)
	assert.Equal(t, 80.0, v.SpeedKMH)
	assert.Equal(t, models.Coordinate{Lat: 47.4979, Lon: 19.0402}, v.Position)
}

func TestSinglePointShapeIsUnavailable(t *testing.T) {
	encoded := geom.EncodePolyline([]models.Coordinate{{Lat: 47.5, Lon: 19.0}})

	rec := rawRecord("V1", 47.5, 19.0)
	rec.Trip = &otp.RawTrip{TripGeometry: &otp.RawGeometry{Points: encoded}}

	assert.Nil(t, normalizeOne(t, rec, nil).Shape)
}

func TestSharedShapesAreInterned(t *testing.T) {
	encoded := geom.EncodePolyline([]models.Coordinate{
		{Lat: 47.4979, Lon: 19.0402},
		{Lat: 47.6, Lon: 19.3},
		{Lat: 47.9, Lon: 20.4},
	})

	first := rawRecord("V1", 47.4979, 19.0402)
	first.Trip = &otp.RawTrip{TripGeometry: &otp.RawGeometry{Points: encoded}}
	second := rawRecord("V2", 47.9, 20.4)
	second.Trip = &otp.RawTrip{TripGeometry: &otp.RawGeometry{Points: encoded}}

	snapshot := buildFleetSnapshot([]otp.VehiclePosition{first, second}, nil, testEpsilonMeters, time.Now(), testLogger(), nil)

	v1 := snapshot.Vehicle("V1")
	v2 := snapshot.Vehicle("V2")
	require.NotNil(t, v1.Shape)
	require.NotNil(t, v2.Shape)

	// Reference identity, not just equality: decoded once per cycle.
	assert.Same(t, v1.Shape, v2.Shape)
}

func TestStopsPreserveUpstreamOrder(t *testing.T) {
	rec := rawRecord("V1", 47.0, 19.0)
	rec.Trip = &otp.RawTrip{
		Stoptimes: []otp.RawStopTime{
			{Stop: &otp.RawStop{Name: "Budapest-Keleti", Lat: 47.5004, Lon: 19.0841, PlatformCode: "6"}, ScheduledArrival: intPtr(28800)},
			{Stop: &otp.RawStop{Name: "Gyor", Lat: 47.6832, Lon: 17.6322}, ScheduledArrival: intPtr(33000)},
			{Stop: nil, ScheduledArrival: intPtr(34000)},
			{Stop: &otp.RawStop{Name: "Sopron", Lat: 47.6807, Lon: 16.5836}, ScheduledArrival: intPtr(36000)},
		},
	}

	v := normalizeOne(t, rec, nil)

	require.Len(t, v.Stops, 3)
	assert.Equal(t, "Budapest-Keleti", v.Stops[0].Name)
	assert.Equal(t, "6", v.Stops[0].PlatformCode)
	assert.Equal(t, "Gyor", v.Stops[1].Name)
	assert.Equal(t, "Sopron", v.Stops[2].Name)
}

func TestNextStopIndex(t *testing.T) {
	noon := time.Date(2026, 3, 14, 12, 0, 0, 0, time.Local)
	nowSec := 12 * 3600

	stops := []models.Stop{
		{Name: "passed", RealtimeArrival: intPtr(nowSec - 600)},
		{Name: "ahead", RealtimeArrival: intPtr(nowSec + 600)},
		{Name: "later", ScheduledArrival: intPtr(nowSec + 1800)},
	}
	assert.Equal(t, 1, nextStopIndex(stops, noon))

	// Realtime takes precedence over an already-passed scheduled time.
	stops = []models.Stop{
		{Name: "delayed", ScheduledArrival: intPtr(nowSec - 300), RealtimeArrival: intPtr(nowSec + 300)},
	}
	assert.Equal(t, 0, nextStopIndex(stops, noon))

	// Every stop in the past: end of route.
	stops = []models.Stop{
		{Name: "done", RealtimeDeparture: intPtr(nowSec - 300)},
	}
	assert.Equal(t, -1, nextStopIndex(stops, noon))

	assert.Equal(t, -1, nextStopIndex(nil, noon))
}

func TestBuildFleetSnapshotStampsAndValidates(t *testing.T) {
	fetchedAt := time.Date(2026, 3, 14, 11, 30, 0, 0, time.UTC)

	snapshot := buildFleetSnapshot([]otp.VehiclePosition{rawRecord("V1", 47.0, 19.0)}, nil, testEpsilonMeters, fetchedAt, testLogger(), nil)

	assert.True(t, snapshot.Valid)
	assert.Equal(t, fetchedAt, snapshot.Timestamp)
	assert.Len(t, snapshot.Vehicles, 1)
	assert.Equal(t, fetchedAt, snapshot.Vehicle("V1").LastUpdated)
}
