package agent

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/config"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/monitor"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPIClient struct {
	mu        sync.Mutex
	updates   []geo.Point
	updateErr error
	verdict   monitor.Verdict
}

func (f *fakeAPIClient) CheckIn(_ context.Context, point geo.Point) (attendance.SessionResponse, error) {
	return attendance.SessionResponse{}, nil
}

func (f *fakeAPIClient) CheckOut(_ context.Context) (attendance.SessionResponse, error) {
	return attendance.SessionResponse{}, nil
}

func (f *fakeAPIClient) UpdateLocation(_ context.Context, point geo.Point) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates = append(f.updates, point)
	return nil
}

func (f *fakeAPIClient) Monitor(_ context.Context, point geo.Point) (monitor.Verdict, error) {
	return f.verdict, nil
}

func (f *fakeAPIClient) Status(_ context.Context) (attendance.StatusResponse, error) {
	return attendance.StatusResponse{}, nil
}

func (f *fakeAPIClient) updateCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.updates)
}

func (f *fakeAPIClient) setUpdateErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateErr = err
}

type fakeNotifier struct {
	mu         sync.Mutex
	deviations []Deviation
}

func (f *fakeNotifier) NotifyDeviation(dev Deviation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deviations = append(f.deviations, dev)
	return nil
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.deviations)
}

func testConfig(statePath string) *config.AgentConfig {
	return &config.AgentConfig{
		APIBaseURL:        "http://localhost:8080",
		AccessToken:       "test-token",
		StatePath:         statePath,
		PollInterval:      10 * time.Millisecond,
		ReportInterval:    time.Hour,
		FallbackInterval:  time.Hour,
		CycleTimeout:      time.Second,
		DistanceTriggerKm: 0.1,
	}
}

func newTestTracker(t *testing.T) (*Tracker, *fakeAPIClient, *fakeNotifier, *Store) {
	t.Helper()

	statePath := filepath.Join(t.TempDir(), "agent.db")
	store, err := OpenStore(statePath)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	client := &fakeAPIClient{}
	notifier := &fakeNotifier{}
	provider := &FixedProvider{Point: geo.Point{Latitude: -6.2, Longitude: 106.8}}
	tracker := NewTracker(testConfig(statePath), store, client, provider, notifier)
	return tracker, client, notifier, store
}

func TestActivateReportsImmediately(t *testing.T) {
	tracker, client, _, store := newTestTracker(t)

	require.NoError(t, tracker.Activate(context.Background()))

	active, err := store.TrackingActive()
	require.NoError(t, err)
	assert.True(t, active)
	assert.Equal(t, 1, client.updateCount())

	status, err := tracker.Status()
	require.NoError(t, err)
	require.NotNil(t, status.LastReported)
	assert.Equal(t, -6.2, status.LastReported.Latitude)
}

func TestCycleNotifiesOnDeviation(t *testing.T) {
	tracker, client, notifier, _ := newTestTracker(t)
	client.verdict = monitor.Verdict{LocationChanged: true, DistanceKm: 2.5}

	tracker.runCycle(context.Background(), nil, "test")

	require.Equal(t, 1, notifier.count())
	assert.InDelta(t, 2.5, notifier.deviations[0].DistanceKm, 1e-9)
}

func TestCycleBuffersSampleOnFailure(t *testing.T) {
	tracker, client, _, store := newTestTracker(t)
	client.setUpdateErr(errors.New("connection refused"))

	tracker.runCycle(context.Background(), nil, "test")

	pending, err := store.PendingSamples(10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, -6.2, pending[0].Latitude)

	// Recovery: the next cycle replays the buffered sample before the
	// fresh one.
	client.setUpdateErr(nil)
	tracker.runCycle(context.Background(), nil, "test")

	pending, err = store.PendingSamples(10)
	require.NoError(t, err)
	assert.Empty(t, pending)
	assert.Equal(t, 2, client.updateCount())
}

func TestCycleDeactivatesWhenNotCheckedIn(t *testing.T) {
	tracker, client, _, store := newTestTracker(t)
	require.NoError(t, store.SetTrackingActive(true))
	client.setUpdateErr(attendance.ErrNotCheckedIn)

	tracker.runCycle(context.Background(), nil, "test")

	active, err := store.TrackingActive()
	require.NoError(t, err)
	assert.False(t, active)

	pending, err := store.PendingSamples(10)
	require.NoError(t, err)
	assert.Empty(t, pending, "no samples should be buffered for a closed session")
}

func TestPollSkipsWhenInactive(t *testing.T) {
	tracker, client, _, store := newTestTracker(t)
	require.NoError(t, store.SetTrackingActive(false))

	tracker.pollOnce(context.Background())

	assert.Zero(t, client.updateCount())
}

func TestPollTriggersOnMovement(t *testing.T) {
	tracker, client, _, store := newTestTracker(t)
	require.NoError(t, store.SetTrackingActive(true))

	// First poll: heartbeat (nothing reported yet).
	tracker.pollOnce(context.Background())
	require.Equal(t, 1, client.updateCount())

	// Same position, heartbeat not due: no report.
	tracker.pollOnce(context.Background())
	assert.Equal(t, 1, client.updateCount())

	// Move past the distance trigger: report.
	tracker.provider = &FixedProvider{Point: geo.Point{Latitude: -6.21, Longitude: 106.8}}
	tracker.pollOnce(context.Background())
	assert.Equal(t, 2, client.updateCount())
}

func TestOverlappingCycleIsDropped(t *testing.T) {
	tracker, client, _, _ := newTestTracker(t)

	tracker.cycleMu.Lock()
	tracker.runCycle(context.Background(), nil, "test")
	tracker.cycleMu.Unlock()

	assert.Zero(t, client.updateCount())
}

func TestStartStop(t *testing.T) {
	tracker, client, _, store := newTestTracker(t)
	require.NoError(t, store.SetTrackingActive(true))

	tracker.Start()
	time.Sleep(50 * time.Millisecond)
	tracker.Stop()

	status, err := tracker.Status()
	require.NoError(t, err)
	assert.False(t, status.Running)
	assert.Greater(t, client.updateCount(), 0)
}
