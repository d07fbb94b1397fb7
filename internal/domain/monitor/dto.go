package monitor

import (
	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/geo"
)

type CheckRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (r *CheckRequest) Validate() error {
	req := attendance.UpdateLocationRequest{Latitude: r.Latitude, Longitude: r.Longitude}
	return req.Validate()
}

// Point returns the reported coordinate. Only valid after Validate.
func (r *CheckRequest) Point() geo.Point {
	return geo.Point{Latitude: *r.Latitude, Longitude: *r.Longitude}
}

// Verdict is the outcome of one deviation check. It is ephemeral: surfaced
// to the caller and the HR event stream, never persisted.
type Verdict struct {
	EmployeeID      string    `json:"employee_id"`
	LocationChanged bool      `json:"location_changed"`
	DistanceKm      float64   `json:"distance_km"`
	CurrentLocation geo.Point `json:"current_location"`
	CheckedAt       string    `json:"checked_at"`
}
