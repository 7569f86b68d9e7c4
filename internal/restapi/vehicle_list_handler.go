package restapi

import (
	"net/http"

	"vonatradar.hu/internal/models"
)

func (api *RestAPI) vehicleListHandler(w http.ResponseWriter, r *http.Request) {
	snapshot := api.Tracker.Snapshot()

	data := models.VehicleListData{
		Snapshot: api.snapshotMeta(snapshot),
		Vehicles: snapshot.VehicleList(),
	}

	api.sendResponse(w, r, models.NewOKResponse(data))
}
