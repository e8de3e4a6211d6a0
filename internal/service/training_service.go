package service

import (
	"fmt"
	"log"
	"math/rand"

	"github.com/jengzang/wifi-positioning-go/internal/classifier"
	"github.com/jengzang/wifi-positioning-go/internal/dataset"
	"github.com/jengzang/wifi-positioning-go/internal/fingerprint"
)

// TrainOptions configures one training run.
type TrainOptions struct {
	Neighbors    int     // k for the classifier; 0 means the default
	TestFraction float64 // hold-out share; 0 means 0.2
	Seed         int64   // split shuffle seed, fixed for reproducible runs
}

// TrainResult summarizes a completed training run for the operator.
type TrainResult struct {
	Samples      int
	TrainSamples int
	TestSamples  int
	Features     int
	Classes      int
	Accuracy     float64
	ClassCounts  map[string]int
}

// TrainingService fits classifiers from wide-format training tables.
type TrainingService struct{}

// NewTrainingService creates a new training service
func NewTrainingService() *TrainingService {
	return &TrainingService{}
}

// Train runs the full fit: quality check, label encoding, stratified
// hold-out split, classifier training and evaluation. The returned bundle
// holds the model trained on the training split together with the schema
// and label space it is only valid against.
func (s *TrainingService) Train(table *dataset.WideTable, opts TrainOptions) (*Artifacts, *TrainResult, error) {
	report, err := dataset.CheckQuality(table)
	if err != nil {
		return nil, nil, fmt.Errorf("data quality check failed: %w", err)
	}

	if opts.TestFraction <= 0 || opts.TestFraction >= 1 {
		opts.TestFraction = 0.2
	}

	labels := fingerprint.FitLabels(table.Labels())
	y := make([]int, len(table.Meta))
	for i, m := range table.Meta {
		code, err := labels.Encode(m.Label)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to encode training label: %w", err)
		}
		y[i] = code
	}

	trainIdx, testIdx := stratifiedSplit(y, opts.TestFraction, opts.Seed)

	model := classifier.NewKNN(opts.Neighbors)
	if err := model.Train(pick(table.Matrix, trainIdx), pickInts(y, trainIdx)); err != nil {
		return nil, nil, fmt.Errorf("training failed: %w", err)
	}

	correct := 0
	for _, i := range testIdx {
		pred, err := model.Predict(table.Matrix[i])
		if err != nil {
			return nil, nil, fmt.Errorf("evaluation failed on sample %d: %w", i, err)
		}
		if pred == y[i] {
			correct++
		}
	}
	accuracy := 0.0
	if len(testIdx) > 0 {
		accuracy = float64(correct) / float64(len(testIdx))
	}

	// A model trained on a split can legitimately miss classes only seen
	// in the hold-out; the label space still defines the full code range.
	if model.NumClasses() < labels.Len() {
		return nil, nil, fmt.Errorf("training split lost classes: model has %d, label space has %d", model.NumClasses(), labels.Len())
	}

	bundle := &Artifacts{Schema: table.Schema, Labels: labels, Model: model}
	if err := bundle.Validate(); err != nil {
		return nil, nil, fmt.Errorf("trained artifacts inconsistent: %w", err)
	}

	result := &TrainResult{
		Samples:      report.Samples,
		TrainSamples: len(trainIdx),
		TestSamples:  len(testIdx),
		Features:     report.Features,
		Classes:      labels.Len(),
		Accuracy:     accuracy,
		ClassCounts:  report.ClassCounts,
	}

	log.Printf("Training complete: %d samples, %d features, %d locations, hold-out accuracy %.2f%%",
		result.Samples, result.Features, result.Classes, accuracy*100)

	return bundle, result, nil
}

// stratifiedSplit partitions sample indices into train and test sets,
// holding out testFraction of every class so small locations are not lost
// from evaluation. Every class keeps at least one training sample.
func stratifiedSplit(y []int, testFraction float64, seed int64) (train, test []int) {
	rng := rand.New(rand.NewSource(seed))

	byClass := make(map[int][]int)
	for i, class := range y {
		byClass[class] = append(byClass[class], i)
	}

	// Deterministic class order so the same seed always yields the same
	// split regardless of map iteration.
	maxClass := -1
	for class := range byClass {
		if class > maxClass {
			maxClass = class
		}
	}

	for class := 0; class <= maxClass; class++ {
		indices := byClass[class]
		if len(indices) == 0 {
			continue
		}
		rng.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})

		nTest := int(float64(len(indices)) * testFraction)
		if nTest >= len(indices) {
			nTest = len(indices) - 1
		}
		test = append(test, indices[:nTest]...)
		train = append(train, indices[nTest:]...)
	}

	return train, test
}

func pick(matrix [][]float64, indices []int) [][]float64 {
	out := make([][]float64, len(indices))
	for i, idx := range indices {
		out[i] = matrix[idx]
	}
	return out
}

func pickInts(values []int, indices []int) []int {
	out := make([]int, len(indices))
	for i, idx := range indices {
		out[i] = values[idx]
	}
	return out
}
