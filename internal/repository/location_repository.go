package repository

import (
	"database/sql"
	"fmt"

	"github.com/jengzang/wifi-positioning-go/internal/models"
)

// LocationRepository handles database operations for the location registry
type LocationRepository struct {
	db *sql.DB
}

// NewLocationRepository creates a new location repository
func NewLocationRepository(db *sql.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

// Upsert inserts a location or updates its placement if the name exists.
func (r *LocationRepository) Upsert(loc *models.Location) error {
	result, err := r.db.Exec(
		`INSERT INTO locations (name, floor, lat, lng) VALUES (?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET floor=excluded.floor, lat=excluded.lat, lng=excluded.lng`,
		loc.Name, loc.Floor, loc.Lat, loc.Lng,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert location: %w", err)
	}

	if id, err := result.LastInsertId(); err == nil && id > 0 {
		loc.ID = id
	}
	return nil
}

// All returns every registered location ordered by name.
func (r *LocationRepository) All() ([]models.Location, error) {
	rows, err := r.db.Query(
		"SELECT id, name, floor, lat, lng FROM locations ORDER BY name",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query locations: %w", err)
	}
	defer rows.Close()

	var locations []models.Location
	for rows.Next() {
		var loc models.Location
		var floor sql.NullString
		if err := rows.Scan(&loc.ID, &loc.Name, &floor, &loc.Lat, &loc.Lng); err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		loc.Floor = floor.String
		locations = append(locations, loc)
	}

	return locations, rows.Err()
}

// Positioned returns only locations that carry map coordinates.
func (r *LocationRepository) Positioned() ([]models.Location, error) {
	rows, err := r.db.Query(
		"SELECT id, name, floor, lat, lng FROM locations WHERE lat IS NOT NULL AND lng IS NOT NULL ORDER BY name",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query positioned locations: %w", err)
	}
	defer rows.Close()

	var locations []models.Location
	for rows.Next() {
		var loc models.Location
		var floor sql.NullString
		if err := rows.Scan(&loc.ID, &loc.Name, &floor, &loc.Lat, &loc.Lng); err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		loc.Floor = floor.String
		locations = append(locations, loc)
	}

	return locations, rows.Err()
}
