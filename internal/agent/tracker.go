package agent

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/config"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/geo"
)

// Tracker is the client-side location scheduler. It samples the device
// position while tracking is active, forwards each sample to the server
// (location update + deviation check), and raises a notification when the
// verdict reports a deviation.
//
// The tracking-active flag lives in the Store, so a relaunched agent resumes
// in the right state. Loops run regardless; an inactive flag just makes
// every tick a no-op.
type Tracker struct {
	cfg      *config.AgentConfig
	store    *Store
	client   APIClient
	provider LocationProvider
	notifier Notifier

	mu             sync.Mutex
	cancel         context.CancelFunc
	wg             sync.WaitGroup
	running        bool
	lastReported   *geo.Point
	lastReportedAt time.Time

	// cycleMu admits at most one in-flight cycle; overlapping ticks are
	// dropped, not queued.
	cycleMu sync.Mutex
}

func NewTracker(cfg *config.AgentConfig, store *Store, client APIClient, provider LocationProvider, notifier Notifier) *Tracker {
	return &Tracker{
		cfg:      cfg,
		store:    store,
		client:   client,
		provider: provider,
		notifier: notifier,
	}
}

// Start launches the sampling loops. It returns immediately; use Stop for a
// graceful halt.
func (t *Tracker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel
	t.running = true

	t.wg.Add(2)
	go t.movementLoop(ctx)
	go t.fallbackLoop(ctx)

	slog.Info("Tracker started",
		"poll_interval", t.cfg.PollInterval,
		"report_interval", t.cfg.ReportInterval,
		"fallback_interval", t.cfg.FallbackInterval,
	)
}

// Stop halts the loops. An in-flight cycle is allowed to complete; no new
// ticks are scheduled afterwards.
func (t *Tracker) Stop() {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return
	}
	t.running = false
	cancel := t.cancel
	t.mu.Unlock()

	cancel()
	t.wg.Wait()
	slog.Info("Tracker stopped")
}

// TrackerStatus is a point-in-time snapshot for the status command.
type TrackerStatus struct {
	Running        bool
	TrackingActive bool
	LastReported   *geo.Point
	LastReportedAt time.Time
	PendingSamples int
}

func (t *Tracker) Status() (TrackerStatus, error) {
	active, err := t.store.TrackingActive()
	if err != nil {
		return TrackerStatus{}, err
	}
	pending, err := t.store.PendingSamples(100)
	if err != nil {
		return TrackerStatus{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return TrackerStatus{
		Running:        t.running,
		TrackingActive: active,
		LastReported:   t.lastReported,
		LastReportedAt: t.lastReportedAt,
		PendingSamples: len(pending),
	}, nil
}

// Activate turns tracking on (employee checked in) and reports a first
// sample right away.
func (t *Tracker) Activate(ctx context.Context) error {
	if err := t.store.SetTrackingActive(true); err != nil {
		return err
	}
	t.runCycle(ctx, nil, "activation")
	return nil
}

// Deactivate turns tracking off (employee checked out). In-flight cycles
// complete; future ticks become no-ops.
func (t *Tracker) Deactivate() error {
	return t.store.SetTrackingActive(false)
}

// movementLoop polls the provider frequently and runs a report cycle when
// the heartbeat interval elapses or displacement exceeds the distance
// trigger.
func (t *Tracker) movementLoop(ctx context.Context) {
	defer t.wg.Done()

	ticker := time.NewTicker(t.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.pollOnce(ctx)
		}
	}
}

func (t *Tracker) pollOnce(ctx context.Context) {
	active, err := t.store.TrackingActive()
	if err != nil {
		slog.Error("Failed to read tracking state", "error", err)
		return
	}
	if !active {
		return
	}

	acquireCtx, cancel := context.WithTimeout(ctx, t.cfg.CycleTimeout)
	current, err := t.provider.Current(acquireCtx)
	cancel()
	if err != nil {
		// Permission or acquisition failure aborts this tick only.
		slog.Warn("Failed to acquire position", "error", err)
		return
	}

	t.mu.Lock()
	last := t.lastReported
	lastAt := t.lastReportedAt
	t.mu.Unlock()

	heartbeatDue := last == nil || time.Since(lastAt) >= t.cfg.ReportInterval
	moved := last != nil && geo.DistanceKm(*last, current) >= t.cfg.DistanceTriggerKm

	if !heartbeatDue && !moved {
		return
	}

	reason := "heartbeat"
	if moved {
		reason = "movement"
	}
	t.runCycle(ctx, &current, reason)
}

// fallbackLoop runs a full cycle at a coarse interval even when the
// movement path is failing, mirroring the low-frequency background fetch on
// platforms that throttle continuous location delivery.
func (t *Tracker) fallbackLoop(ctx context.Context) {
	defer t.wg.Done()

	ticker := time.NewTicker(t.cfg.FallbackInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			active, err := t.store.TrackingActive()
			if err != nil {
				slog.Error("Failed to read tracking state", "error", err)
				continue
			}
			if !active {
				continue
			}
			t.runCycle(ctx, nil, "fallback")
		}
	}
}

// runCycle performs one check-update-notify cycle: acquire (unless a point
// was supplied), replay any buffered samples, forward the sample, run the
// deviation check, notify on deviation. Every failure is per-cycle: logged,
// never fatal, retried at the next tick.
func (t *Tracker) runCycle(ctx context.Context, point *geo.Point, reason string) {
	if !t.cycleMu.TryLock() {
		slog.Debug("Cycle already in flight, skipping", "reason", reason)
		return
	}
	defer t.cycleMu.Unlock()

	cycleCtx, cancel := context.WithTimeout(ctx, t.cfg.CycleTimeout)
	defer cancel()

	var current geo.Point
	if point != nil {
		current = *point
	} else {
		var err error
		current, err = t.provider.Current(cycleCtx)
		if err != nil {
			slog.Warn("Failed to acquire position", "reason", reason, "error", err)
			return
		}
	}

	t.flushPending(cycleCtx)

	if err := t.client.UpdateLocation(cycleCtx, current); err != nil {
		if errors.Is(err, attendance.ErrNotCheckedIn) {
			// Server says the session is gone; stop tracking instead of
			// buffering samples nobody wants.
			slog.Info("No open session on server, deactivating tracking")
			if dErr := t.Deactivate(); dErr != nil {
				slog.Error("Failed to deactivate tracking", "error", dErr)
			}
			return
		}
		slog.Warn("Failed to report location, buffering sample", "reason", reason, "error", err)
		if qErr := t.store.EnqueueSample(PendingSample{
			Latitude:   current.Latitude,
			Longitude:  current.Longitude,
			CapturedAt: time.Now().UTC(),
		}); qErr != nil {
			slog.Error("Failed to buffer sample", "error", qErr)
		}
		return
	}

	t.mu.Lock()
	t.lastReported = &current
	t.lastReportedAt = time.Now()
	t.mu.Unlock()

	verdict, err := t.client.Monitor(cycleCtx, current)
	if err != nil {
		slog.Warn("Deviation check failed", "reason", reason, "error", err)
		return
	}

	if verdict.LocationChanged {
		if err := t.notifier.NotifyDeviation(Deviation{
			DistanceKm: verdict.DistanceKm,
			Location:   current,
		}); err != nil {
			slog.Error("Failed to deliver deviation notification", "error", err)
		}
	}

	slog.Debug("Cycle completed",
		"reason", reason,
		"location_changed", verdict.LocationChanged,
		"distance_km", verdict.DistanceKm,
	)
}

// flushPending replays buffered samples oldest-first, stopping at the first
// failure so ordering is preserved.
func (t *Tracker) flushPending(ctx context.Context) {
	samples, err := t.store.PendingSamples(50)
	if err != nil {
		slog.Error("Failed to load buffered samples", "error", err)
		return
	}

	for _, sample := range samples {
		point := geo.Point{Latitude: sample.Latitude, Longitude: sample.Longitude}
		if err := t.client.UpdateLocation(ctx, point); err != nil {
			slog.Warn("Replay of buffered sample failed", "error", err)
			return
		}
		if err := t.store.DeleteSample(sample.ID); err != nil {
			slog.Error("Failed to drop delivered sample", "error", err)
			return
		}
	}
}
