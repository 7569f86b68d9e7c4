package restapi

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"vonatradar.hu/internal/app"
	"vonatradar.hu/internal/appconf"
	"vonatradar.hu/internal/logging"
	"vonatradar.hu/internal/metrics"
	"vonatradar.hu/internal/otp"
	"vonatradar.hu/internal/tracker"
)

func floatPtr(f float64) *float64 { return &f }

// testFleetBody is an upstream response with two trackable trains.
func testFleetBody(t *testing.T) []byte {
	t.Helper()

	records := []otp.VehiclePosition{
		{
			VehicleID: "V1",
			Lat:       floatPtr(47.4979),
			Lon:       floatPtr(19.0402),
			Speed:     floatPtr(74),
			Trip: &otp.RawTrip{
				GtfsID:        "1:0910",
				TripShortName: "910",
				TripHeadsign:  "Sopron",
			},
		},
		{
			VehicleID: "V2",
			Lat:       floatPtr(47.6832),
			Lon:       floatPtr(17.6322),
		},
	}

	body, err := json.Marshal(map[string]any{
		"data": map[string]any{"vehiclePositions": records},
	})
	require.NoError(t, err)
	return body
}

func newTestAPI(t *testing.T, logger *slog.Logger) *RestAPI {
	t.Helper()

	body := testFleetBody(t)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	t.Cleanup(upstream.Close)

	cfg := appconf.Config{
		Env:                  appconf.Test,
		Port:                 appconf.DefaultPort,
		UpstreamURL:          upstream.URL,
		RefreshInterval:      time.Hour,
		FetchTimeout:         2 * time.Second,
		CachePath:            filepath.Join(t.TempDir(), "vehicle_positions.json"),
		HeadingEpsilonMeters: appconf.DefaultHeadingEpsilonMeters,
	}

	collector := metrics.NewCollector(cfg.RefreshInterval)
	tr, err := tracker.InitTracker(cfg, logger, collector)
	require.NoError(t, err)
	t.Cleanup(tr.Shutdown)

	return NewRestAPI(&app.Application{
		Config:  cfg,
		Logger:  logger,
		Tracker: tr,
		Metrics: collector,
	})
}

func serveRequest(t *testing.T, api *RestAPI, method, target string) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	api.Routes().ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func discardLogger() *slog.Logger {
	return logging.NewStructuredLogger(io.Discard, slog.LevelInfo)
}

type envelope struct {
	Code        int             `json:"code"`
	CurrentTime int64           `json:"currentTime"`
	Data        json.RawMessage `json:"data"`
	Text        string          `json:"text"`
	Version     int             `json:"version"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}
