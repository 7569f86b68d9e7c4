package restapi

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// Routes builds the full HTTP handler: the vehicle API, the health and
// metrics endpoints, all wrapped in request logging.
func (api *RestAPI) Routes() http.Handler {
	router := httprouter.New()

	router.HandlerFunc(http.MethodGet, "/api/vehicles", api.vehicleListHandler)
	router.HandlerFunc(http.MethodGet, "/api/vehicles/:id", api.vehicleHandler)
	router.HandlerFunc(http.MethodGet, "/api/snapshot", api.snapshotHandler)
	router.HandlerFunc(http.MethodGet, "/health", api.healthHandler)
	router.Handler(http.MethodGet, "/metrics", api.Metrics.Handler())

	return NewRequestLoggingMiddleware(api.Logger)(router)
}
