package restapi

import (
	"vonatradar.hu/internal/app"
)

type RestAPI struct {
	*app.Application
}

// NewRestAPI creates a new RestAPI instance around the application.
func NewRestAPI(app *app.Application) *RestAPI {
	return &RestAPI{Application: app}
}
