package models

import "time"

// LabelProbability pairs a location label with its predicted probability.
type LabelProbability struct {
	Location    string  `json:"location"`
	Probability float64 `json:"probability"`
}

// Prediction is the result of one classified scan. The same shape is
// returned from the predict endpoint, replayed by /predictions/latest,
// broadcast to WebSocket subscribers and persisted to history.
type Prediction struct {
	ID         int64              `json:"id,omitempty" db:"id"`
	Location   string             `json:"location" db:"location"`
	Confidence float64            `json:"confidence" db:"confidence"`
	Top3       []LabelProbability `json:"top3"`
	MatchedAPs int                `json:"matched_aps" db:"matched_aps"`
	TotalAPs   int                `json:"total_aps" db:"total_aps"`
	Entropy    float64            `json:"entropy" db:"entropy"`
	Timestamp  time.Time          `json:"timestamp" db:"created_at"`
}

// Location is an entry in the location registry: a trainable label plus
// optional map placement for clients that draw floor plans.
type Location struct {
	ID    int64    `json:"id" db:"id"`
	Name  string   `json:"name" db:"name"`
	Floor string   `json:"floor,omitempty" db:"floor"`
	Lat   *float64 `json:"lat,omitempty" db:"lat"`
	Lng   *float64 `json:"lng,omitempty" db:"lng"`
}

// NearbyLocation is a registry entry with its distance from a query point.
type NearbyLocation struct {
	Location
	DistanceMeters float64 `json:"distance_meters"`
}
