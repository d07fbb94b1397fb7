package attendance

import (
	"math"
	"testing"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 {
	return &v
}

func TestCheckInRequestValidate(t *testing.T) {
	tests := []struct {
		name      string
		latitude  *float64
		longitude *float64
		wantField string
	}{
		{"valid", f64(-6.2), f64(106.8), ""},
		{"latitude boundary", f64(90), f64(180), ""},
		{"missing latitude", nil, f64(106.8), "latitude"},
		{"missing longitude", f64(-6.2), nil, "longitude"},
		{"empty body", nil, nil, "latitude"},
		{"latitude too high", f64(90.1), f64(0), "latitude"},
		{"latitude too low", f64(-90.1), f64(0), "latitude"},
		{"longitude too high", f64(0), f64(180.1), "longitude"},
		{"longitude too low", f64(0), f64(-180.1), "longitude"},
		{"nan coordinate", f64(math.NaN()), f64(0), "location"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := CheckInRequest{Latitude: tt.latitude, Longitude: tt.longitude}
			err := req.Validate()

			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Contains(t, verrs.ToMap(), tt.wantField)
		})
	}
}

func TestUpdateLocationRequestRequiresCoordinates(t *testing.T) {
	req := UpdateLocationRequest{}
	err := req.Validate()

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "latitude")
	assert.Contains(t, verrs.ToMap(), "longitude")
}

func TestSetDefaultLocationRequestValidate(t *testing.T) {
	req := SetDefaultLocationRequest{Latitude: f64(1), Longitude: f64(1)}
	err := req.Validate()

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "employee_id")

	req = SetDefaultLocationRequest{EmployeeID: "emp-001"}
	err = req.Validate()
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "latitude")
	assert.Contains(t, verrs.ToMap(), "longitude")
}

func TestHistoryFilterValidate(t *testing.T) {
	tests := []struct {
		name      string
		start     string
		end       string
		wantField string
	}{
		{"valid range", "2026-03-01", "2026-03-07", ""},
		{"single day", "2026-03-01", "2026-03-01", ""},
		{"missing start", "", "2026-03-07", "start_date"},
		{"missing end", "2026-03-01", "", "end_date"},
		{"bad format", "01-03-2026", "2026-03-07", "start_date"},
		{"end before start", "2026-03-07", "2026-03-01", "end_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter := HistoryFilter{StartDate: tt.start, EndDate: tt.end}
			err := filter.Validate()

			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Contains(t, verrs.ToMap(), tt.wantField)
		})
	}
}
