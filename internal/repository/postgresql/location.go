package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-tracker-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-tracker-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type locationRepository struct {
	db *database.DB
}

func NewLocationRepository(db *database.DB) attendance.LocationRepository {
	return &locationRepository{db: db}
}

// Upsert implements attendance.LocationRepository.
func (r *locationRepository) Upsert(ctx context.Context, loc attendance.DefaultLocation) (attendance.DefaultLocation, error) {
	query := `
		INSERT INTO employee_locations (employee_id, latitude, longitude, set_by, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (employee_id) DO UPDATE
		SET latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			set_by = EXCLUDED.set_by,
			updated_at = NOW()
		RETURNING employee_id, latitude, longitude, set_by, updated_at
	`

	var saved attendance.DefaultLocation
	err := r.db.QueryRow(ctx, query, loc.EmployeeID, loc.Latitude, loc.Longitude, loc.SetBy).Scan(
		&saved.EmployeeID, &saved.Latitude, &saved.Longitude, &saved.SetBy, &saved.UpdatedAt,
	)
	if err != nil {
		return attendance.DefaultLocation{}, fmt.Errorf("failed to upsert default location: %w", err)
	}

	return saved, nil
}

// GetByEmployeeID implements attendance.LocationRepository.
func (r *locationRepository) GetByEmployeeID(ctx context.Context, employeeID string) (*attendance.DefaultLocation, error) {
	query := `
		SELECT employee_id, latitude, longitude, set_by, updated_at
		FROM employee_locations
		WHERE employee_id = $1
	`

	var loc attendance.DefaultLocation
	err := r.db.QueryRow(ctx, query, employeeID).Scan(
		&loc.EmployeeID, &loc.Latitude, &loc.Longitude, &loc.SetBy, &loc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // no baseline configured
		}
		return nil, fmt.Errorf("failed to get default location: %w", err)
	}

	return &loc, nil
}
