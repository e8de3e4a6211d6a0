package classifier

import (
	"encoding/json"
	"fmt"
	"os"
)

// modelBlob is the on-disk model artifact. The training matrix is stored
// verbatim; model files stay in the tens of kilobytes for realistic
// fingerprint datasets.
type modelBlob struct {
	Kind       string      `json:"kind"`
	K          int         `json:"k"`
	NumClasses int         `json:"num_classes"`
	X          [][]float64 `json:"x"`
	Y          []int       `json:"y"`
}

const knnKind = "knn"

// SaveModel writes a trained KNN classifier to a JSON model file.
func SaveModel(path string, c *KNN) error {
	if len(c.x) == 0 {
		return ErrNotTrained
	}

	blob := modelBlob{
		Kind:       knnKind,
		K:          c.K,
		NumClasses: c.numClasses,
		X:          c.x,
		Y:          c.y,
	}
	data, err := json.Marshal(blob)
	if err != nil {
		return fmt.Errorf("failed to marshal model: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write model file: %w", err)
	}
	return nil
}

// LoadModel reads a model file written by SaveModel.
func LoadModel(path string) (*KNN, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model file: %w", err)
	}

	var blob modelBlob
	if err := json.Unmarshal(data, &blob); err != nil {
		return nil, fmt.Errorf("failed to unmarshal model: %w", err)
	}
	if blob.Kind != knnKind {
		return nil, fmt.Errorf("unsupported model kind %q", blob.Kind)
	}

	c := NewKNN(blob.K)
	if err := c.Train(blob.X, blob.Y); err != nil {
		return nil, fmt.Errorf("model file is not a valid training set: %w", err)
	}
	if blob.NumClasses > c.numClasses {
		// Classes can legitimately be absent from the stored matrix only
		// if training saw them; trust the recorded count.
		c.numClasses = blob.NumClasses
	}
	return c, nil
}
