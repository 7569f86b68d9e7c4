package tracker

import (
	"context"
	"log/slog"
	"time"

	"vonatradar.hu/internal/logging"
	"vonatradar.hu/internal/otp"
)

// State is the refresh scheduler's current phase.
type State string

const (
	StateIdle     State = "idle"
	StateFetching State = "fetching"
	StateApplying State = "applying"
	StateBackoff  State = "backoff"
)

func (t *Tracker) refreshPeriodically() {
	defer t.wg.Done()

	logger := t.logger.With(slog.String("component", "refresh_scheduler"))

	ticker := time.NewTicker(t.cfg.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := t.RefreshNow(context.Background()); err != nil {
				logging.LogError(logger, "refresh cycle failed, keeping previous snapshot", err,
					slog.String("kind", string(otp.ErrorKind(err))))
			}
		case <-t.shutdownChan:
			logging.LogOperation(logger, "shutting_down_refresh_scheduler")
			return
		}
	}
}

// RefreshNow runs one fetch-normalize-publish cycle. It is the manual
// trigger; the periodic scheduler calls it on every tick. On failure the
// previously published snapshot is left untouched, timestamp included, and
// the cadence is unchanged: Backoff falls straight back to Idle to wait for
// the next tick.
func (t *Tracker) RefreshNow(ctx context.Context) error {
	t.refreshMu.Lock()
	defer t.refreshMu.Unlock()

	start := time.Now()
	if t.metrics != nil {
		t.metrics.FetchCycles.Inc()
	}

	t.setState(StateFetching)
	records, fetchedAt, err := t.client.Fetch(ctx)
	if err != nil {
		if t.metrics != nil {
			t.metrics.FetchErrors.WithLabelValues(string(otp.ErrorKind(err))).Inc()
		}
		t.setState(StateBackoff)
		t.setState(StateIdle)
		return err
	}

	t.setState(StateApplying)
	next := buildFleetSnapshot(records, t.Snapshot(), t.cfg.HeadingEpsilonMeters, fetchedAt, t.logger, t.metrics)
	t.publish(next)

	if t.metrics != nil {
		t.metrics.VehiclesTracked.Set(float64(len(next.Vehicles)))
		t.metrics.LastSuccess.Set(float64(fetchedAt.Unix()))
		t.metrics.CycleDuration.Observe(time.Since(start).Seconds())
	}
	logging.LogOperation(t.logger, "published_fleet_snapshot",
		slog.Int("vehicles", len(next.Vehicles)),
		slog.Time("fetched_at", fetchedAt),
		slog.Duration("cycle_duration", time.Since(start)))

	t.setState(StateIdle)
	return nil
}
