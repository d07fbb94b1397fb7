package attendance

import (
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/geo"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

// validateCoordinate validates an optional coordinate pair. Nil means the
// field was absent from the request body; a location-carrying request
// without coordinates is a validation failure, not a (0,0) check-in.
func validateCoordinate(errs validator.ValidationErrors, latitude, longitude *float64) validator.ValidationErrors {
	if latitude == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude is required",
		})
	} else if *latitude < -90 || *latitude > 90 {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}
	if longitude == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude is required",
		})
	} else if *longitude < -180 || *longitude > 180 {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}
	if latitude != nil && longitude != nil &&
		!(geo.Point{Latitude: *latitude, Longitude: *longitude}).Valid() {
		if len(errs) == 0 {
			errs = append(errs, validator.ValidationError{
				Field:   "location",
				Message: "coordinates must be finite numbers",
			})
		}
	}
	return errs
}

type CheckInRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (r *CheckInRequest) Validate() error {
	errs := validateCoordinate(nil, r.Latitude, r.Longitude)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Point returns the requested coordinate. Only valid after Validate.
func (r *CheckInRequest) Point() geo.Point {
	return geo.Point{Latitude: *r.Latitude, Longitude: *r.Longitude}
}

type UpdateLocationRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (r *UpdateLocationRequest) Validate() error {
	errs := validateCoordinate(nil, r.Latitude, r.Longitude)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Point returns the requested coordinate. Only valid after Validate.
func (r *UpdateLocationRequest) Point() geo.Point {
	return geo.Point{Latitude: *r.Latitude, Longitude: *r.Longitude}
}

// SetDefaultLocationRequest configures the deviation baseline for an
// employee. HR only; the target employee comes from the URL, not the body.
type SetDefaultLocationRequest struct {
	EmployeeID string   `json:"-"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
}

func (r *SetDefaultLocationRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	errs = validateCoordinate(errs, r.Latitude, r.Longitude)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type HistoryFilter struct {
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`   // YYYY-MM-DD
}

func (f *HistoryFilter) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(f.StartDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date is required",
		})
	} else if _, valid := validator.IsValidDate(f.StartDate); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}

	if validator.IsEmpty(f.EndDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date is required",
		})
	} else if _, valid := validator.IsValidDate(f.EndDate); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}

	if len(errs) == 0 {
		start, _ := validator.IsValidDate(f.StartDate)
		end, _ := validator.IsValidDate(f.EndDate)
		if end.Before(start) {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must not be before start_date",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SessionResponse struct {
	ID                string   `json:"id"`
	EmployeeID        string   `json:"employee_id"`
	CheckInTime       string   `json:"check_in_time"`
	CheckInLatitude   float64  `json:"check_in_latitude"`
	CheckInLongitude  float64  `json:"check_in_longitude"`
	CheckOutTime      *string  `json:"check_out_time,omitempty"`
	CheckOutLatitude  *float64 `json:"check_out_latitude,omitempty"`
	CheckOutLongitude *float64 `json:"check_out_longitude,omitempty"`
	LastLatitude      float64  `json:"last_latitude"`
	LastLongitude     float64  `json:"last_longitude"`
	LastSeenTime      string   `json:"last_seen_time"`
	WorkingHours      *float64 `json:"working_hours,omitempty"`
	Open              bool     `json:"open"`
}

type StatusResponse struct {
	EmployeeID  string  `json:"employee_id"`
	Status      Status  `json:"status"`
	LastCheckIn *string `json:"last_check_in,omitempty"`
	SessionID   *string `json:"session_id,omitempty"`
}

type TodayDetailsResponse struct {
	Date       string            `json:"date"`
	TodayHours float64           `json:"today_hours"`
	WeekHours  float64           `json:"week_hours"`
	Sessions   []SessionResponse `json:"sessions"`
}

type HistoryResponse struct {
	StartDate  string            `json:"start_date"`
	EndDate    string            `json:"end_date"`
	TotalHours float64           `json:"total_hours"`
	Sessions   []SessionResponse `json:"sessions"`
}

type DefaultLocationResponse struct {
	EmployeeID string  `json:"employee_id"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	UpdatedAt  string  `json:"updated_at"`
}
