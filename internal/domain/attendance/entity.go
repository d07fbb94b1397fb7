package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/geo"
)

// Status of an employee's attendance record.
type Status string

const (
	StatusCheckedOut Status = "checked_out"
	StatusCheckedIn  Status = "checked_in"
)

// Session is one attendance session. A session with a nil CheckOutAt is
// open; at most one open session exists per employee at any time (enforced
// by a partial unique index on the sessions table).
type Session struct {
	ID                string
	EmployeeID        string
	CheckInAt         time.Time
	CheckInLatitude   float64
	CheckInLongitude  float64
	CheckOutAt        *time.Time
	CheckOutLatitude  *float64
	CheckOutLongitude *float64
	LastLatitude      float64
	LastLongitude     float64
	LastSeenAt        time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Open reports whether the session has not been checked out yet.
func (s Session) Open() bool {
	return s.CheckOutAt == nil
}

// Duration returns the session length. Open sessions are measured up to now.
func (s Session) Duration(now time.Time) time.Duration {
	end := now
	if s.CheckOutAt != nil {
		end = *s.CheckOutAt
	}
	if end.Before(s.CheckInAt) {
		return 0
	}
	return end.Sub(s.CheckInAt)
}

// CheckInPoint returns the session's check-in coordinate.
func (s Session) CheckInPoint() geo.Point {
	return geo.Point{Latitude: s.CheckInLatitude, Longitude: s.CheckInLongitude}
}

// DefaultLocation is the HR-configured reference coordinate for an employee,
// used as the baseline for deviation detection. Absent until explicitly set.
type DefaultLocation struct {
	EmployeeID string
	Latitude   float64
	Longitude  float64
	SetBy      string
	UpdatedAt  time.Time
}

// Point returns the reference coordinate.
func (d DefaultLocation) Point() geo.Point {
	return geo.Point{Latitude: d.Latitude, Longitude: d.Longitude}
}
