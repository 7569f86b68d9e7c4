package app

import (
	"log/slog"

	"vonatradar.hu/internal/appconf"
	"vonatradar.hu/internal/metrics"
	"vonatradar.hu/internal/tracker"
)

// Application holds the dependencies for our HTTP handlers, helpers, and
// middleware: the runtime configuration, the logger, the fleet tracker and
// the metrics collector.
type Application struct {
	Config  appconf.Config
	Logger  *slog.Logger
	Tracker *tracker.Tracker
	Metrics *metrics.Collector
}
