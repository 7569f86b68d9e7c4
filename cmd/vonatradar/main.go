package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vonatradar.hu/internal/app"
	"vonatradar.hu/internal/appconf"
	"vonatradar.hu/internal/logging"
	"vonatradar.hu/internal/metrics"
	"vonatradar.hu/internal/restapi"
	"vonatradar.hu/internal/tracker"
	"vonatradar.hu/internal/webui"
)

func main() {
	cfg, err := appconf.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Command-line flags override environment configuration.
	var env string
	flag.IntVar(&cfg.Port, "port", cfg.Port, "API server port")
	flag.StringVar(&env, "env", string(cfg.Env), "Environment (development|test|production)")
	flag.StringVar(&cfg.UpstreamURL, "upstream-url", cfg.UpstreamURL, "OTP2 GraphQL endpoint for vehicle positions")
	flag.DurationVar(&cfg.RefreshInterval, "interval", cfg.RefreshInterval, "Fleet refresh interval")
	flag.DurationVar(&cfg.FetchTimeout, "fetch-timeout", cfg.FetchTimeout, "Per-cycle upstream fetch timeout")
	flag.StringVar(&cfg.CachePath, "cache-path", cfg.CachePath, "Path of the response mirror file")
	flag.Parse()
	cfg.Env = appconf.Environment(env)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.Env == appconf.Development {
		level = slog.LevelDebug
	}
	logger := logging.NewStructuredLogger(os.Stdout, level)

	collector := metrics.NewCollector(cfg.RefreshInterval)

	fleetTracker, err := tracker.InitTracker(cfg, logger, collector)
	if err != nil {
		logging.LogError(logger, "failed to initialize fleet tracker", err)
		os.Exit(1)
	}

	application := &app.Application{
		Config:  cfg,
		Logger:  logger,
		Tracker: fleetTracker,
		Metrics: collector,
	}

	mux := http.NewServeMux()
	mux.Handle("/", restapi.NewRestAPI(application).Routes())
	if cfg.Env == appconf.Development {
		webui.NewWebUI(application).SetWebUIRoutes(mux)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      mux,
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logging.LogOperation(logger, "starting_server",
			slog.String("addr", srv.Addr),
			slog.String("env", string(cfg.Env)),
			slog.Duration("refresh_interval", cfg.RefreshInterval))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.LogError(logger, "server failed", err)
			stop()
		}
	}()

	<-ctx.Done()

	logging.LogOperation(logger, "shutting_down_server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.LogError(logger, "server shutdown failed", err)
	}
	fleetTracker.Shutdown()
}
