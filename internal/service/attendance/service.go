package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/geo"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/keylock"
	"github.com/go-chi/jwtauth/v5"
)

type AttendanceServiceImpl struct {
	sessions  attendance.SessionRepository
	locations attendance.LocationRepository
	locks     *keylock.KeyLock
	loc       *time.Location
	now       func() time.Time
}

func NewAttendanceService(
	sessions attendance.SessionRepository,
	locations attendance.LocationRepository,
	loc *time.Location,
) *AttendanceServiceImpl {
	return &AttendanceServiceImpl{
		sessions:  sessions,
		locations: locations,
		locks:     keylock.New(),
		loc:       loc,
		now:       time.Now,
	}
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format("2006-01-02 15:04:05")
	return &format
}

func claimEmployeeID(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return "", fmt.Errorf("employee_id claim is missing or invalid")
	}
	return employeeID, nil
}

func (a *AttendanceServiceImpl) sessionToResponse(s attendance.Session) attendance.SessionResponse {
	resp := attendance.SessionResponse{
		ID:                s.ID,
		EmployeeID:        s.EmployeeID,
		CheckInTime:       s.CheckInAt.Format("2006-01-02 15:04:05"),
		CheckInLatitude:   s.CheckInLatitude,
		CheckInLongitude:  s.CheckInLongitude,
		CheckOutTime:      timePtrToString(s.CheckOutAt),
		CheckOutLatitude:  s.CheckOutLatitude,
		CheckOutLongitude: s.CheckOutLongitude,
		LastLatitude:      s.LastLatitude,
		LastLongitude:     s.LastLongitude,
		LastSeenTime:      s.LastSeenAt.Format("2006-01-02 15:04:05"),
		Open:              s.Open(),
	}
	if s.CheckOutAt != nil {
		hours := s.Duration(a.now().UTC()).Hours()
		resp.WorkingHours = &hours
	}
	return resp
}

// CheckIn implements attendance.Service.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.SessionResponse{}, err
	}

	employeeID, err := claimEmployeeID(ctx)
	if err != nil {
		return attendance.SessionResponse{}, err
	}

	a.locks.Lock(employeeID)
	defer a.locks.Unlock(employeeID)

	nowUTC := a.now().UTC()
	point := req.Point()
	session := attendance.Session{
		EmployeeID:       employeeID,
		CheckInAt:        nowUTC,
		CheckInLatitude:  point.Latitude,
		CheckInLongitude: point.Longitude,
		LastLatitude:     point.Latitude,
		LastLongitude:    point.Longitude,
		LastSeenAt:       nowUTC,
	}

	created, err := a.sessions.Create(ctx, session)
	if err != nil {
		// ErrAlreadyCheckedIn passes through untouched for the handler layer.
		return attendance.SessionResponse{}, err
	}

	return a.sessionToResponse(created), nil
}

// CheckOut implements attendance.Service. The check-out location is the
// session's last-known location; checkout carries no body of its own.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context) (attendance.SessionResponse, error) {
	employeeID, err := claimEmployeeID(ctx)
	if err != nil {
		return attendance.SessionResponse{}, err
	}

	a.locks.Lock(employeeID)
	defer a.locks.Unlock(employeeID)

	open, err := a.sessions.GetOpenSession(ctx, employeeID)
	if err != nil {
		return attendance.SessionResponse{}, err
	}

	closed, err := a.sessions.Close(ctx, employeeID, a.now().UTC(), geo.Point{Latitude: open.LastLatitude, Longitude: open.LastLongitude})
	if err != nil {
		return attendance.SessionResponse{}, err
	}

	return a.sessionToResponse(closed), nil
}

// UpdateLocation implements attendance.Service.
func (a *AttendanceServiceImpl) UpdateLocation(ctx context.Context, req attendance.UpdateLocationRequest) (attendance.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.SessionResponse{}, err
	}

	employeeID, err := claimEmployeeID(ctx)
	if err != nil {
		return attendance.SessionResponse{}, err
	}

	a.locks.Lock(employeeID)
	defer a.locks.Unlock(employeeID)

	updated, err := a.sessions.UpdateLastLocation(ctx, employeeID, a.now().UTC(), req.Point())
	if err != nil {
		return attendance.SessionResponse{}, err
	}

	return a.sessionToResponse(updated), nil
}

// GetStatus implements attendance.Service.
func (a *AttendanceServiceImpl) GetStatus(ctx context.Context) (attendance.StatusResponse, error) {
	employeeID, err := claimEmployeeID(ctx)
	if err != nil {
		return attendance.StatusResponse{}, err
	}

	open, err := a.sessions.GetOpenSession(ctx, employeeID)
	if err != nil {
		if errors.Is(err, attendance.ErrNotCheckedIn) {
			return attendance.StatusResponse{
				EmployeeID: employeeID,
				Status:     attendance.StatusCheckedOut,
			}, nil
		}
		return attendance.StatusResponse{}, err
	}

	checkIn := open.CheckInAt.Format("2006-01-02 15:04:05")
	return attendance.StatusResponse{
		EmployeeID:  employeeID,
		Status:      attendance.StatusCheckedIn,
		LastCheckIn: &checkIn,
		SessionID:   &open.ID,
	}, nil
}

// GetTodayDetails implements attendance.Service. A session belongs to the
// day of its check-in time, evaluated in the service timezone; a still-open
// session contributes its elapsed time so far.
func (a *AttendanceServiceImpl) GetTodayDetails(ctx context.Context) (attendance.TodayDetailsResponse, error) {
	employeeID, err := claimEmployeeID(ctx)
	if err != nil {
		return attendance.TodayDetailsResponse{}, err
	}

	nowLocal := a.now().In(a.loc)
	dayStart := time.Date(nowLocal.Year(), nowLocal.Month(), nowLocal.Day(), 0, 0, 0, 0, a.loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	// ISO week: Monday 00:00 local.
	weekday := int(nowLocal.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	weekStart := dayStart.AddDate(0, 0, -(weekday - 1))
	weekEnd := weekStart.AddDate(0, 0, 7)

	weekSessions, err := a.sessions.ListByCheckInRange(ctx, employeeID, weekStart.UTC(), weekEnd.UTC())
	if err != nil {
		return attendance.TodayDetailsResponse{}, fmt.Errorf("failed to list this week's sessions: %w", err)
	}

	nowUTC := a.now().UTC()
	var todayHours, weekHours float64
	var todayResponses []attendance.SessionResponse

	for _, s := range weekSessions {
		hours := s.Duration(nowUTC).Hours()
		weekHours += hours

		checkInLocal := s.CheckInAt.In(a.loc)
		if !checkInLocal.Before(dayStart) && checkInLocal.Before(dayEnd) {
			todayHours += hours
			todayResponses = append(todayResponses, a.sessionToResponse(s))
		}
	}

	return attendance.TodayDetailsResponse{
		Date:       nowLocal.Format("2006-01-02"),
		TodayHours: todayHours,
		WeekHours:  weekHours,
		Sessions:   todayResponses,
	}, nil
}

// GetHistory implements attendance.Service.
func (a *AttendanceServiceImpl) GetHistory(ctx context.Context, filter attendance.HistoryFilter) (attendance.HistoryResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.HistoryResponse{}, err
	}

	employeeID, err := claimEmployeeID(ctx)
	if err != nil {
		return attendance.HistoryResponse{}, err
	}

	start, err := time.ParseInLocation("2006-01-02", filter.StartDate, a.loc)
	if err != nil {
		return attendance.HistoryResponse{}, fmt.Errorf("failed to parse start_date: %w", err)
	}
	end, err := time.ParseInLocation("2006-01-02", filter.EndDate, a.loc)
	if err != nil {
		return attendance.HistoryResponse{}, fmt.Errorf("failed to parse end_date: %w", err)
	}
	// The window is inclusive of end_date's whole day.
	windowEnd := end.AddDate(0, 0, 1)

	sessions, err := a.sessions.ListByCheckInRange(ctx, employeeID, start.UTC(), windowEnd.UTC())
	if err != nil {
		return attendance.HistoryResponse{}, fmt.Errorf("failed to list sessions: %w", err)
	}

	nowUTC := a.now().UTC()
	var totalHours float64
	responses := make([]attendance.SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		totalHours += s.Duration(nowUTC).Hours()
		responses = append(responses, a.sessionToResponse(s))
	}

	return attendance.HistoryResponse{
		StartDate:  filter.StartDate,
		EndDate:    filter.EndDate,
		TotalHours: totalHours,
		Sessions:   responses,
	}, nil
}

// SetDefaultLocation implements attendance.Service. HR enforcement happens
// in the HTTP middleware; the service records who set the baseline.
func (a *AttendanceServiceImpl) SetDefaultLocation(ctx context.Context, req attendance.SetDefaultLocationRequest) (attendance.DefaultLocationResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.DefaultLocationResponse{}, err
	}

	actorID, err := claimEmployeeID(ctx)
	if err != nil {
		return attendance.DefaultLocationResponse{}, err
	}

	saved, err := a.locations.Upsert(ctx, attendance.DefaultLocation{
		EmployeeID: req.EmployeeID,
		Latitude:   *req.Latitude,
		Longitude:  *req.Longitude,
		SetBy:      actorID,
	})
	if err != nil {
		return attendance.DefaultLocationResponse{}, err
	}

	return attendance.DefaultLocationResponse{
		EmployeeID: saved.EmployeeID,
		Latitude:   saved.Latitude,
		Longitude:  saved.Longitude,
		UpdatedAt:  saved.UpdatedAt.Format("2006-01-02 15:04:05"),
	}, nil
}
