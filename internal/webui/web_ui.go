package webui

import (
	"vonatradar.hu/internal/app"
)

// WebUI serves the human-facing debug pages. It is not part of the JSON API
// surface and is only mounted in development.
type WebUI struct {
	*app.Application
}

func NewWebUI(app *app.Application) *WebUI {
	return &WebUI{Application: app}
}
