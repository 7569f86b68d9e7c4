package restapi

import (
	"net/http"
	"time"

	"vonatradar.hu/internal/models"
)

type healthStatus struct {
	Status         string    `json:"status"`
	SchedulerState string    `json:"schedulerState"`
	SnapshotValid  bool      `json:"snapshotValid"`
	LastFetch      time.Time `json:"lastFetch"`
	VehicleCount   int       `json:"vehicleCount"`
}

// healthHandler reports liveness plus snapshot freshness. It returns 200 as
// long as the server runs; a stale or missing snapshot shows up in the body,
// not in the status code, because serving last known data is normal
// operation during upstream outages.
func (api *RestAPI) healthHandler(w http.ResponseWriter, r *http.Request) {
	snapshot := api.Tracker.Snapshot()

	status := healthStatus{
		Status:         "ok",
		SchedulerState: string(api.Tracker.State()),
		SnapshotValid:  snapshot.Valid,
		LastFetch:      snapshot.Timestamp,
		VehicleCount:   len(snapshot.Vehicles),
	}

	api.sendResponse(w, r, models.NewEntryResponse(status))
}
