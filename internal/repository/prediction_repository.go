package repository

import (
	"database/sql"
	"fmt"

	"github.com/jengzang/wifi-positioning-go/internal/models"
)

// PredictionRepository handles database operations for prediction history
type PredictionRepository struct {
	db *sql.DB
}

// NewPredictionRepository creates a new prediction repository
func NewPredictionRepository(db *sql.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

// Save stores one prediction result and fills in its generated ID. The
// top-3 breakdown is not persisted; history exists for operator review of
// where and how confidently the system placed the device over time.
func (r *PredictionRepository) Save(p *models.Prediction) error {
	result, err := r.db.Exec(
		`INSERT INTO predictions (location, confidence, matched_aps, total_aps, entropy, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.Location, p.Confidence, p.MatchedAPs, p.TotalAPs, p.Entropy, p.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert prediction: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get prediction id: %w", err)
	}
	p.ID = id
	return nil
}

// Recent returns the most recent predictions, newest first.
func (r *PredictionRepository) Recent(limit int) ([]models.Prediction, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(
		`SELECT id, location, confidence, matched_aps, total_aps, entropy, created_at
		 FROM predictions ORDER BY created_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer rows.Close()

	var predictions []models.Prediction
	for rows.Next() {
		var p models.Prediction
		if err := rows.Scan(&p.ID, &p.Location, &p.Confidence, &p.MatchedAPs, &p.TotalAPs, &p.Entropy, &p.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		predictions = append(predictions, p)
	}

	return predictions, rows.Err()
}

// CountByLocation returns how many stored predictions landed on each label.
func (r *PredictionRepository) CountByLocation() (map[string]int, error) {
	rows, err := r.db.Query(
		"SELECT location, COUNT(*) FROM predictions GROUP BY location",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count predictions: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var location string
		var n int
		if err := rows.Scan(&location, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[location] = n
	}

	return counts, rows.Err()
}
