package attendance

import (
	"context"
)

// Service defines business logic for attendance operations. The acting
// employee is taken from the JWT claims carried in the context.
type Service interface {
	// CheckIn opens a new session at the given location.
	CheckIn(ctx context.Context, req CheckInRequest) (SessionResponse, error)

	// CheckOut closes the open session and returns it with its duration.
	CheckOut(ctx context.Context) (SessionResponse, error)

	// UpdateLocation overwrites the last-known location on the open session.
	UpdateLocation(ctx context.Context, req UpdateLocationRequest) (SessionResponse, error)

	// GetStatus returns the employee's current check-in state.
	GetStatus(ctx context.Context) (StatusResponse, error)

	// GetTodayDetails returns aggregated hours for today and the current
	// ISO week, plus today's sessions.
	GetTodayDetails(ctx context.Context) (TodayDetailsResponse, error)

	// GetHistory returns sessions and aggregated hours inside a date window.
	GetHistory(ctx context.Context, filter HistoryFilter) (HistoryResponse, error)

	// SetDefaultLocation overwrites an employee's deviation baseline (HR only).
	SetDefaultLocation(ctx context.Context, req SetDefaultLocationRequest) (DefaultLocationResponse, error)
}
