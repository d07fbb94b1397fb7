package monitor

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/monitor"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/sse"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLocationRepo struct {
	locations map[string]attendance.DefaultLocation
}

func (f *fakeLocationRepo) Upsert(_ context.Context, loc attendance.DefaultLocation) (attendance.DefaultLocation, error) {
	if f.locations == nil {
		f.locations = make(map[string]attendance.DefaultLocation)
	}
	f.locations[loc.EmployeeID] = loc
	return loc, nil
}

func (f *fakeLocationRepo) GetByEmployeeID(_ context.Context, employeeID string) (*attendance.DefaultLocation, error) {
	loc, ok := f.locations[employeeID]
	if !ok {
		return nil, nil
	}
	return &loc, nil
}

func f64(v float64) *float64 {
	return &v
}

func authContext(t *testing.T, employeeID string) context.Context {
	t.Helper()

	ja := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := ja.Encode(map[string]interface{}{
		"employee_id": employeeID,
		"role":        "employee",
		"type":        "access",
		"exp":         time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)

	return jwtauth.NewContext(context.Background(), token, nil)
}

func TestCheckWithoutBaseline(t *testing.T) {
	svc := NewMonitorService(&fakeLocationRepo{}, nil, 0.5)
	ctx := authContext(t, "emp-001")

	verdict, err := svc.Check(ctx, monitor.CheckRequest{Latitude: f64(37.0), Longitude: f64(-122.0)})
	require.NoError(t, err)
	assert.False(t, verdict.LocationChanged)
	assert.Zero(t, verdict.DistanceKm)
	assert.Equal(t, "emp-001", verdict.EmployeeID)
}

func TestCheckDetectsDeviation(t *testing.T) {
	repo := &fakeLocationRepo{}
	_, err := repo.Upsert(context.Background(), attendance.DefaultLocation{
		EmployeeID: "emp-001",
		Latitude:   37.0,
		Longitude:  -122.0,
	})
	require.NoError(t, err)

	hub := sse.NewHub()
	events, unsubscribe := hub.SubscribeAll()
	defer unsubscribe()

	svc := NewMonitorService(repo, hub, 0.5)
	ctx := authContext(t, "emp-001")

	// Roughly 10 km north of the baseline.
	verdict, err := svc.Check(ctx, monitor.CheckRequest{Latitude: f64(37.09), Longitude: f64(-122.0)})
	require.NoError(t, err)
	assert.True(t, verdict.LocationChanged)
	assert.InDelta(t, 10.0, verdict.DistanceKm, 0.1)

	select {
	case ev := <-events:
		assert.Equal(t, "deviation", ev.Event)
	default:
		t.Fatal("expected a deviation event on the hub")
	}
}

func TestCheckWithinThreshold(t *testing.T) {
	repo := &fakeLocationRepo{}
	_, err := repo.Upsert(context.Background(), attendance.DefaultLocation{
		EmployeeID: "emp-001",
		Latitude:   40.0,
		Longitude:  -74.0,
	})
	require.NoError(t, err)

	svc := NewMonitorService(repo, nil, 0.5)
	ctx := authContext(t, "emp-001")

	// A few hundred meters away, under the 0.5 km threshold.
	verdict, err := svc.Check(ctx, monitor.CheckRequest{Latitude: f64(40.002), Longitude: f64(-74.0)})
	require.NoError(t, err)
	assert.False(t, verdict.LocationChanged)
	assert.Greater(t, verdict.DistanceKm, 0.0)
}

func TestCheckRejectsInvalidCoordinates(t *testing.T) {
	svc := NewMonitorService(&fakeLocationRepo{}, nil, 0.5)
	ctx := authContext(t, "emp-001")

	_, err := svc.Check(ctx, monitor.CheckRequest{Latitude: f64(200), Longitude: f64(0)})
	assert.Error(t, err)
}

func TestCheckWithoutClaims(t *testing.T) {
	svc := NewMonitorService(&fakeLocationRepo{}, nil, 0.5)

	_, err := svc.Check(context.Background(), monitor.CheckRequest{Latitude: f64(1), Longitude: f64(1)})
	assert.Error(t, err)
}
