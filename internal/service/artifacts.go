package service

import (
	"fmt"

	"github.com/jengzang/wifi-positioning-go/internal/classifier"
	"github.com/jengzang/wifi-positioning-go/internal/fingerprint"
)

// ArtifactPaths names the three files a training run writes and a serving
// process reads.
type ArtifactPaths struct {
	Model  string
	Labels string
	Schema string
}

// LoadArtifacts reads and validates an artifact bundle from disk. Any
// inconsistency between the three files is fatal here, at
// startup-equivalent time, not at the first request.
func LoadArtifacts(paths ArtifactPaths) (*Artifacts, error) {
	model, err := classifier.LoadModel(paths.Model)
	if err != nil {
		return nil, fmt.Errorf("failed to load model: %w", err)
	}

	labels, err := fingerprint.LoadLabelSpace(paths.Labels)
	if err != nil {
		return nil, fmt.Errorf("failed to load label space: %w", err)
	}

	schema, err := fingerprint.LoadSchema(paths.Schema)
	if err != nil {
		return nil, fmt.Errorf("failed to load feature schema: %w", err)
	}

	bundle := &Artifacts{Schema: schema, Labels: labels, Model: model}
	if err := bundle.Validate(); err != nil {
		return nil, fmt.Errorf("artifact files disagree: %w", err)
	}
	return bundle, nil
}

// SaveArtifacts writes a bundle produced by training.
func SaveArtifacts(paths ArtifactPaths, bundle *Artifacts) error {
	knn, ok := bundle.Model.(*classifier.KNN)
	if !ok {
		return fmt.Errorf("unsupported model type %T", bundle.Model)
	}
	if err := classifier.SaveModel(paths.Model, knn); err != nil {
		return fmt.Errorf("failed to save model: %w", err)
	}
	if err := bundle.Labels.Save(paths.Labels); err != nil {
		return fmt.Errorf("failed to save label space: %w", err)
	}
	if err := bundle.Schema.Save(paths.Schema); err != nil {
		return fmt.Errorf("failed to save feature schema: %w", err)
	}
	return nil
}
