package restapi

import (
	"net/http"

	"vonatradar.hu/internal/models"
)

func (api *RestAPI) snapshotMeta(snapshot *models.FleetSnapshot) models.SnapshotMeta {
	return models.SnapshotMeta{
		Timestamp:      snapshot.Timestamp,
		Valid:          snapshot.Valid,
		VehicleCount:   len(snapshot.Vehicles),
		SchedulerState: string(api.Tracker.State()),
	}
}

func (api *RestAPI) snapshotHandler(w http.ResponseWriter, r *http.Request) {
	meta := api.snapshotMeta(api.Tracker.Snapshot())
	api.sendResponse(w, r, models.NewEntryResponse(meta))
}
