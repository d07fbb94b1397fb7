package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/geo"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

type sessionRepository struct {
	db *database.DB
}

func NewSessionRepository(db *database.DB) attendance.SessionRepository {
	return &sessionRepository{db: db}
}

const sessionColumns = `
	id, employee_id, check_in_at, check_in_latitude, check_in_longitude,
	check_out_at, check_out_latitude, check_out_longitude,
	last_latitude, last_longitude, last_seen_at,
	created_at, updated_at`

func scanSession(row pgx.Row) (attendance.Session, error) {
	var s attendance.Session
	err := row.Scan(
		&s.ID, &s.EmployeeID, &s.CheckInAt, &s.CheckInLatitude, &s.CheckInLongitude,
		&s.CheckOutAt, &s.CheckOutLatitude, &s.CheckOutLongitude,
		&s.LastLatitude, &s.LastLongitude, &s.LastSeenAt,
		&s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// Create implements attendance.SessionRepository. The partial unique index
// uniq_open_session_per_employee rejects a second open session; that
// violation maps to ErrAlreadyCheckedIn.
func (r *sessionRepository) Create(ctx context.Context, session attendance.Session) (attendance.Session, error) {
	query := `
		INSERT INTO attendance_sessions (
			id, employee_id, check_in_at, check_in_latitude, check_in_longitude,
			last_latitude, last_longitude, last_seen_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		) RETURNING ` + sessionColumns

	if session.ID == "" {
		session.ID = uuid.NewString()
	}

	created, err := scanSession(r.db.QueryRow(ctx, query,
		session.ID,
		session.EmployeeID,
		session.CheckInAt,
		session.CheckInLatitude,
		session.CheckInLongitude,
		session.LastLatitude,
		session.LastLongitude,
		session.LastSeenAt,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return attendance.Session{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Session{}, fmt.Errorf("failed to create attendance session: %w", err)
	}

	return created, nil
}

// GetOpenSession implements attendance.SessionRepository.
func (r *sessionRepository) GetOpenSession(ctx context.Context, employeeID string) (attendance.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM attendance_sessions
		WHERE employee_id = $1
		  AND check_out_at IS NULL
		LIMIT 1
	`

	s, err := scanSession(r.db.QueryRow(ctx, query, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Session{}, attendance.ErrNotCheckedIn
		}
		return attendance.Session{}, fmt.Errorf("failed to get open session: %w", err)
	}

	return s, nil
}

// Close implements attendance.SessionRepository. The WHERE clause doubles as
// a conditional update: closing an already-closed or missing session affects
// no rows and maps to ErrNotCheckedIn.
func (r *sessionRepository) Close(ctx context.Context, employeeID string, at time.Time, point geo.Point) (attendance.Session, error) {
	query := `
		UPDATE attendance_sessions
		SET check_out_at = $2,
			check_out_latitude = $3,
			check_out_longitude = $4,
			last_latitude = $3,
			last_longitude = $4,
			last_seen_at = $2,
			updated_at = NOW()
		WHERE employee_id = $1
		  AND check_out_at IS NULL
		RETURNING ` + sessionColumns

	s, err := scanSession(r.db.QueryRow(ctx, query, employeeID, at, point.Latitude, point.Longitude))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Session{}, attendance.ErrNotCheckedIn
		}
		return attendance.Session{}, fmt.Errorf("failed to close session: %w", err)
	}

	return s, nil
}

// UpdateLastLocation implements attendance.SessionRepository.
func (r *sessionRepository) UpdateLastLocation(ctx context.Context, employeeID string, at time.Time, point geo.Point) (attendance.Session, error) {
	query := `
		UPDATE attendance_sessions
		SET last_latitude = $2,
			last_longitude = $3,
			last_seen_at = $4,
			updated_at = NOW()
		WHERE employee_id = $1
		  AND check_out_at IS NULL
		RETURNING ` + sessionColumns

	s, err := scanSession(r.db.QueryRow(ctx, query, employeeID, point.Latitude, point.Longitude, at))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Session{}, attendance.ErrNotCheckedIn
		}
		return attendance.Session{}, fmt.Errorf("failed to update last location: %w", err)
	}

	return s, nil
}

// ListByCheckInRange implements attendance.SessionRepository.
func (r *sessionRepository) ListByCheckInRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM attendance_sessions
		WHERE employee_id = $1
		  AND check_in_at >= $2
		  AND check_in_at < $3
		ORDER BY check_in_at ASC
	`

	rows, err := r.db.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []attendance.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}

	return sessions, nil
}
