package service

import (
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/jengzang/wifi-positioning-go/internal/classifier"
	"github.com/jengzang/wifi-positioning-go/internal/fingerprint"
	"github.com/jengzang/wifi-positioning-go/internal/models"
	"github.com/jengzang/wifi-positioning-go/internal/push"
	"github.com/jengzang/wifi-positioning-go/internal/repository"
	"github.com/jengzang/wifi-positioning-go/internal/stats"
)

// LowConfidenceThreshold marks predictions worth flagging to an operator.
// A prediction below it is logged, never blocked; partial AP matches are
// still useful in a noisy radio environment.
const LowConfidenceThreshold = 0.3

// PredictionService owns the trained artifacts and turns scan payloads
// into predictions. Artifacts are swappable as a unit so an admin reload
// never mixes a new schema with an old model.
type PredictionService struct {
	mu     sync.RWMutex
	bundle *Artifacts

	latestMu sync.RWMutex
	latest   *models.Prediction

	hub      *push.Hub
	predRepo *repository.PredictionRepository
}

// Artifacts is the trained trio that must only ever be used together:
// feature schema, label space and classifier, all from one training run.
type Artifacts struct {
	Schema *fingerprint.Schema
	Labels *fingerprint.LabelSpace
	Model  classifier.Classifier
}

// Validate checks the cross-artifact width invariants. A mismatch means
// the artifacts come from different training runs and every prediction
// would be meaningless.
func (a *Artifacts) Validate() error {
	if a.Schema == nil || a.Labels == nil || a.Model == nil {
		return fmt.Errorf("incomplete artifacts")
	}
	if a.Schema.Len() != a.Model.NumFeatures() {
		return fmt.Errorf("schema has %d features but model expects %d", a.Schema.Len(), a.Model.NumFeatures())
	}
	if a.Labels.Len() != a.Model.NumClasses() {
		return fmt.Errorf("label space has %d classes but model has %d", a.Labels.Len(), a.Model.NumClasses())
	}
	return nil
}

// NewPredictionService validates the artifact bundle and wires the
// service. repo may be nil when history persistence is disabled.
func NewPredictionService(bundle *Artifacts, hub *push.Hub, repo *repository.PredictionRepository) (*PredictionService, error) {
	if err := bundle.Validate(); err != nil {
		return nil, fmt.Errorf("invalid artifacts: %w", err)
	}
	return &PredictionService{
		bundle:   bundle,
		hub:      hub,
		predRepo: repo,
	}, nil
}

// Reload swaps in a new artifact bundle after validating it. Requests in
// flight finish against the old bundle.
func (s *PredictionService) Reload(bundle *Artifacts) error {
	if err := bundle.Validate(); err != nil {
		return fmt.Errorf("invalid artifacts: %w", err)
	}

	s.mu.Lock()
	s.bundle = bundle
	s.mu.Unlock()

	log.Printf("Artifacts reloaded: %d features, %d locations", bundle.Schema.Len(), bundle.Labels.Len())
	return nil
}

// Features returns the current feature count.
func (s *PredictionService) Features() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bundle.Schema.Len()
}

// Locations returns the labels the current model can predict.
func (s *PredictionService) Locations() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bundle.Labels.Labels()
}

// Predict classifies one scan. The scan items are already normalized to a
// single list by the boundary; malformed and unknown observations degrade
// matched_aps silently per the feature-building contract.
func (s *PredictionService) Predict(items []models.ScanItem) (*models.Prediction, error) {
	s.mu.RLock()
	bundle := s.bundle
	s.mu.RUnlock()

	observations := make([]fingerprint.Observation, len(items))
	for i, it := range items {
		observations[i] = fingerprint.Observation{BSSID: it.BSSID, RSSI: string(it.RSSI)}
	}

	vector, matched := fingerprint.BuildVector(bundle.Schema, observations)

	// Width re-check before invoking the classifier. Validate() makes
	// this unreachable, but a silent wrong answer here would corrupt
	// every downstream consumer.
	if len(vector) != bundle.Model.NumFeatures() {
		return nil, fmt.Errorf("feature mismatch: got %d, expected %d", len(vector), bundle.Model.NumFeatures())
	}

	probs, err := bundle.Model.PredictProba(vector)
	if err != nil {
		sample := vector
		if len(sample) > 5 {
			sample = sample[:5]
		}
		log.Printf("[ERROR] Classifier failed: %v (vector width %d, first values %v)", err, len(vector), sample)
		return nil, fmt.Errorf("model prediction failed: %w", err)
	}

	ranked := make([]models.LabelProbability, 0, len(probs))
	for code, p := range probs {
		label, err := bundle.Labels.Decode(code)
		if err != nil {
			return nil, fmt.Errorf("model produced undecodable class %d: %w", code, err)
		}
		ranked = append(ranked, models.LabelProbability{Location: label, Probability: p})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Probability > ranked[j].Probability
	})

	top3 := ranked
	if len(top3) > 3 {
		top3 = top3[:3]
	}

	prediction := &models.Prediction{
		Location:   ranked[0].Location,
		Confidence: ranked[0].Probability,
		Top3:       top3,
		MatchedAPs: matched,
		TotalAPs:   len(items),
		Entropy:    stats.ShannonEntropy(probs),
		Timestamp:  time.Now().UTC(),
	}

	if prediction.Confidence < LowConfidenceThreshold {
		log.Printf("[WARNING] Low confidence prediction %.3f for %s: scanned APs may not match training data",
			prediction.Confidence, prediction.Location)
	}

	s.latestMu.Lock()
	s.latest = prediction
	s.latestMu.Unlock()

	if s.predRepo != nil {
		if err := s.predRepo.Save(prediction); err != nil {
			// History is best-effort; the prediction itself succeeded.
			log.Printf("Failed to persist prediction: %v", err)
		}
	}

	if s.hub != nil {
		s.hub.Broadcast(prediction)
	}

	log.Printf("Predicted %s (confidence %.2f, matched %d/%d APs)",
		prediction.Location, prediction.Confidence, matched, len(items))

	return prediction, nil
}

// HistoryStats summarizes the persisted prediction history for operators.
type HistoryStats struct {
	Total      int            `json:"total"`
	ByLocation map[string]int `json:"by_location"`

	// Spread is the normalized entropy of the location distribution:
	// 0 when every prediction landed on one label, 1 when uniform.
	Spread float64 `json:"spread"`
}

// Stats aggregates the stored history by predicted location.
func (s *PredictionService) Stats() (*HistoryStats, error) {
	if s.predRepo == nil {
		return nil, fmt.Errorf("prediction history is not enabled")
	}

	counts, err := s.predRepo.CountByLocation()
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate history: %w", err)
	}

	total := 0
	values := make([]float64, 0, len(counts))
	for _, n := range counts {
		total += n
		values = append(values, float64(n))
	}

	return &HistoryStats{
		Total:      total,
		ByLocation: counts,
		Spread:     stats.NormalizedEntropy(values),
	}, nil
}

// History returns recent persisted predictions, newest first.
func (s *PredictionService) History(limit int) ([]models.Prediction, error) {
	if s.predRepo == nil {
		return nil, fmt.Errorf("prediction history is not enabled")
	}
	return s.predRepo.Recent(limit)
}

// Latest returns the most recent prediction, or false if none has been
// made since the process started.
func (s *PredictionService) Latest() (*models.Prediction, bool) {
	s.latestMu.RLock()
	defer s.latestMu.RUnlock()
	if s.latest == nil {
		return nil, false
	}
	return s.latest, true
}
