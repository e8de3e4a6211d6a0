package classifier

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
)

const (
	// DefaultNeighbors is the k used when none is configured.
	DefaultNeighbors = 5

	// distanceEpsilon keeps the inverse-distance weight finite when a
	// query vector coincides exactly with a training row.
	distanceEpsilon = 1e-9
)

// KNN is a distance-weighted k-nearest-neighbors classifier over the raw
// training matrix. RSSI fingerprints are low-dimensional and the training
// sets are small (hundreds of scans), so keeping the full matrix and
// scanning it per query is both simpler and more accurate than a
// compressed model.
type KNN struct {
	K          int
	numClasses int
	x          [][]float64
	y          []int
}

// NewKNN creates an untrained classifier with the given neighbor count.
// k < 1 falls back to DefaultNeighbors.
func NewKNN(k int) *KNN {
	if k < 1 {
		k = DefaultNeighbors
	}
	return &KNN{K: k}
}

// Train stores the training matrix. Every row must share the same width
// and every class code must be non-negative; the class count is taken as
// max(y)+1 so it lines up with label space codes.
func (c *KNN) Train(X [][]float64, y []int) error {
	if len(X) == 0 {
		return fmt.Errorf("training matrix is empty")
	}
	if len(X) != len(y) {
		return fmt.Errorf("training matrix has %d rows but %d labels", len(X), len(y))
	}

	width := len(X[0])
	if width == 0 {
		return fmt.Errorf("training matrix has zero feature width")
	}

	numClasses := 0
	for i, row := range X {
		if len(row) != width {
			return fmt.Errorf("training row %d has width %d, expected %d", i, len(row), width)
		}
		if y[i] < 0 {
			return fmt.Errorf("training row %d has negative class code %d", i, y[i])
		}
		if y[i]+1 > numClasses {
			numClasses = y[i] + 1
		}
	}

	c.x = X
	c.y = y
	c.numClasses = numClasses
	return nil
}

// NumFeatures returns the trained feature width, or 0 before training.
func (c *KNN) NumFeatures() int {
	if len(c.x) == 0 {
		return 0
	}
	return len(c.x[0])
}

// NumClasses returns the number of classes seen at training time.
func (c *KNN) NumClasses() int {
	return c.numClasses
}

// Predict returns the class with the highest neighbor vote.
func (c *KNN) Predict(vector []float64) (int, error) {
	probs, err := c.PredictProba(vector)
	if err != nil {
		return 0, err
	}
	return floats.MaxIdx(probs), nil
}

// PredictProba returns per-class probabilities as normalized
// inverse-distance vote shares over the k nearest training rows.
func (c *KNN) PredictProba(vector []float64) ([]float64, error) {
	if len(c.x) == 0 {
		return nil, ErrNotTrained
	}
	if len(vector) != c.NumFeatures() {
		return nil, fmt.Errorf("%w: got %d, expected %d", ErrFeatureWidth, len(vector), c.NumFeatures())
	}

	type neighbor struct {
		dist  float64
		class int
	}
	neighbors := make([]neighbor, len(c.x))
	for i, row := range c.x {
		neighbors[i] = neighbor{
			dist:  floats.Distance(vector, row, 2),
			class: c.y[i],
		}
	}
	sort.Slice(neighbors, func(i, j int) bool {
		return neighbors[i].dist < neighbors[j].dist
	})

	k := c.K
	if k > len(neighbors) {
		k = len(neighbors)
	}

	votes := make([]float64, c.numClasses)
	for _, n := range neighbors[:k] {
		votes[n.class] += 1.0 / (n.dist + distanceEpsilon)
	}

	total := floats.Sum(votes)
	if total > 0 {
		floats.Scale(1.0/total, votes)
	}
	return votes, nil
}
