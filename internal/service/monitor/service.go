package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/monitor"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/geo"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/sse"
	"github.com/go-chi/jwtauth/v5"
)

type MonitorServiceImpl struct {
	locations   attendance.LocationRepository
	hub         *sse.Hub
	thresholdKm float64
	now         func() time.Time
}

func NewMonitorService(locations attendance.LocationRepository, hub *sse.Hub, thresholdKm float64) *MonitorServiceImpl {
	return &MonitorServiceImpl{
		locations:   locations,
		hub:         hub,
		thresholdKm: thresholdKm,
		now:         time.Now,
	}
}

// Check implements monitor.Service. An employee without a configured default
// location always gets a "no change" verdict; absence of a baseline is not
// an error.
func (m *MonitorServiceImpl) Check(ctx context.Context, req monitor.CheckRequest) (monitor.Verdict, error) {
	if err := req.Validate(); err != nil {
		return monitor.Verdict{}, err
	}

	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return monitor.Verdict{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}
	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return monitor.Verdict{}, fmt.Errorf("employee_id claim is missing or invalid")
	}

	verdict := monitor.Verdict{
		EmployeeID:      employeeID,
		CurrentLocation: req.Point(),
		CheckedAt:       m.now().UTC().Format("2006-01-02 15:04:05"),
	}

	baseline, err := m.locations.GetByEmployeeID(ctx, employeeID)
	if err != nil {
		return monitor.Verdict{}, err
	}
	if baseline == nil {
		return verdict, nil
	}

	verdict.DistanceKm = geo.DistanceKm(baseline.Point(), req.Point())
	verdict.LocationChanged = verdict.DistanceKm > m.thresholdKm

	if verdict.LocationChanged {
		slog.Info("location deviation detected",
			"employee_id", employeeID,
			"distance_km", verdict.DistanceKm,
			"threshold_km", m.thresholdKm,
		)
		if m.hub != nil {
			m.hub.Publish(employeeID, sse.Event{Event: "deviation", Data: verdict})
		}
	}

	return verdict, nil
}
