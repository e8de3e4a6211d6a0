package classifier

import "errors"

// Classifier is the contract the serving layer depends on. A trained
// classifier consumes feature vectors of a fixed width and produces class
// codes and per-class probabilities; feeding it a vector of any other
// width is a usage error, never a silent wrong answer.
type Classifier interface {
	// Predict returns the class code for a single feature vector.
	Predict(vector []float64) (int, error)

	// PredictProba returns one probability per class, summing to 1,
	// indexed by class code.
	PredictProba(vector []float64) ([]float64, error)

	// NumFeatures returns the feature width the classifier was trained on.
	NumFeatures() int

	// NumClasses returns the number of classes the classifier knows.
	NumClasses() int
}

// TrainableClassifier additionally supports fitting from a training matrix.
type TrainableClassifier interface {
	Classifier

	// Train fits the classifier on a matrix of feature vectors and their
	// class codes. len(y) must equal len(X).
	Train(X [][]float64, y []int) error
}

var (
	// ErrNotTrained is returned when predicting before Train or load.
	ErrNotTrained = errors.New("classifier has not been trained")

	// ErrFeatureWidth is returned when an input vector's width does not
	// match the width the classifier was trained on.
	ErrFeatureWidth = errors.New("feature vector width does not match trained width")
)
