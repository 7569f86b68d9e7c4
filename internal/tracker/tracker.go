// Package tracker owns the fleet snapshot: it runs the periodic
// fetch-normalize-publish cycle and exposes the latest published snapshot to
// readers. Snapshots are immutable once published and replaced by a single
// pointer swap, so readers never observe a half-updated fleet.
package tracker

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"vonatradar.hu/internal/appconf"
	"vonatradar.hu/internal/logging"
	"vonatradar.hu/internal/metrics"
	"vonatradar.hu/internal/models"
	"vonatradar.hu/internal/otp"
)

// Tracker keeps the last-known-good fleet snapshot fresh.
type Tracker struct {
	cfg     appconf.Config
	client  *otp.Client
	logger  *slog.Logger
	metrics *metrics.Collector

	mu       sync.RWMutex
	snapshot *models.FleetSnapshot
	state    State

	// refreshMu serializes cycles so a manual trigger cannot interleave
	// with the timer-driven one.
	refreshMu sync.Mutex

	shutdownChan chan struct{}
	wg           sync.WaitGroup
	shutdownOnce sync.Once
}

// InitTracker builds the upstream client, restores the cache mirror when one
// exists, runs an immediate first cycle and starts the periodic scheduler.
// Only a configuration-level failure (unusable endpoint) is an error; a
// failed first fetch leaves the restored or empty snapshot in place.
func InitTracker(cfg appconf.Config, logger *slog.Logger, collector *metrics.Collector) (*Tracker, error) {
	client, err := otp.NewClient(cfg.UpstreamURL, cfg.CachePath, cfg.FetchTimeout, logger, collector)
	if err != nil {
		return nil, err
	}

	t := &Tracker{
		cfg:          cfg,
		client:       client,
		logger:       logger,
		metrics:      collector,
		snapshot:     models.NewEmptyFleetSnapshot(),
		state:        StateIdle,
		shutdownChan: make(chan struct{}),
	}

	t.restoreFromCache()

	if err := t.RefreshNow(context.Background()); err != nil {
		logging.LogError(logger, "initial fetch failed, serving restored data if any", err,
			slog.String("component", "tracker"))
	}

	t.wg.Add(1)
	go t.refreshPeriodically()

	return t, nil
}

// Shutdown stops the scheduler and waits for an in-flight cycle to finish.
// Publication is a whole-snapshot swap, so stopping mid-cycle cannot leave a
// partially updated snapshot behind.
func (t *Tracker) Shutdown() {
	t.shutdownOnce.Do(func() {
		close(t.shutdownChan)
		t.wg.Wait()
	})
}

// Snapshot returns the current published fleet snapshot. The returned value
// is immutable; callers may hold it as long as they like.
func (t *Tracker) Snapshot() *models.FleetSnapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.snapshot
}

// Vehicle returns the current snapshot of one vehicle, or nil.
func (t *Tracker) Vehicle(id string) *models.VehicleSnapshot {
	return t.Snapshot().Vehicle(id)
}

// State reports the scheduler state for health reporting.
func (t *Tracker) State() State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}

func (t *Tracker) setState(s State) {
	t.mu.Lock()
	t.state = s
	t.mu.Unlock()
}

func (t *Tracker) publish(next *models.FleetSnapshot) {
	t.mu.Lock()
	t.snapshot = next
	t.mu.Unlock()
}

// restoreFromCache builds an initial snapshot from the mirrored response of a
// previous run, stamped with the mirror's age. No history exists, so every
// heading starts unknown.
func (t *Tracker) restoreFromCache() {
	records, fetchedAt, err := t.client.ReadCache()
	if err != nil {
		if !os.IsNotExist(err) {
			logging.LogError(t.logger, "ignoring unreadable cache file", err,
				slog.String("component", "tracker"))
		}
		return
	}

	t.publish(buildFleetSnapshot(records, nil, t.cfg.HeadingEpsilonMeters, fetchedAt, t.logger, t.metrics))
	logging.LogOperation(t.logger, "restored_snapshot_from_cache",
		slog.Int("vehicles", len(records)),
		slog.Time("fetched_at", fetchedAt))
}
