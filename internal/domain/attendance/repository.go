package attendance

import (
	"context"
	"time"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/geo"
)

// SessionRepository defines data access for attendance sessions.
//
// Implementations translate storage-level conditions into domain errors:
// inserting a second open session for the same employee returns
// ErrAlreadyCheckedIn, and operations against a missing open session return
// ErrNotCheckedIn.
type SessionRepository interface {
	// Create opens a new session. The single-open-session invariant is
	// enforced at the storage layer.
	Create(ctx context.Context, session Session) (Session, error)

	// GetOpenSession retrieves the employee's open session.
	GetOpenSession(ctx context.Context, employeeID string) (Session, error)

	// Close records the check-out time and location on the open session and
	// returns the closed session.
	Close(ctx context.Context, employeeID string, at time.Time, point geo.Point) (Session, error)

	// UpdateLastLocation overwrites the last-known location on the open
	// session without touching the check-in time.
	UpdateLastLocation(ctx context.Context, employeeID string, at time.Time, point geo.Point) (Session, error)

	// ListByCheckInRange lists sessions whose check-in time falls inside
	// [from, to), oldest first.
	ListByCheckInRange(ctx context.Context, employeeID string, from, to time.Time) ([]Session, error)
}

// LocationRepository defines data access for HR-configured default locations.
type LocationRepository interface {
	// Upsert creates or overwrites the employee's default location.
	Upsert(ctx context.Context, loc DefaultLocation) (DefaultLocation, error)

	// GetByEmployeeID returns the employee's default location, or nil if
	// none has been configured.
	GetByEmployeeID(ctx context.Context, employeeID string) (*DefaultLocation, error)
}
