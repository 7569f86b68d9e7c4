package restapi

import (
	"net/http"

	"vonatradar.hu/internal/models"
	"vonatradar.hu/internal/utils"
)

func (api *RestAPI) vehicleHandler(w http.ResponseWriter, r *http.Request) {
	id := utils.ExtractIDFromParams(r, "id")

	vehicle := api.Tracker.Vehicle(id)
	if vehicle == nil {
		api.sendNotFound(w, r)
		return
	}

	api.sendResponse(w, r, models.NewEntryResponse(vehicle))
}
