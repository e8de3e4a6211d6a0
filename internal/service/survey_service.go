package service

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/google/uuid"

	"github.com/jengzang/wifi-positioning-go/internal/fingerprint"
	"github.com/jengzang/wifi-positioning-go/internal/models"
)

// SurveySubmission is one stationary capture burst: consecutive scans
// taken at a single labelled location. The scanning itself happens on the
// client; the backend only accepts the readings.
type SurveySubmission struct {
	Location string              `json:"location"`
	Scans    [][]models.ScanItem `json:"scans"`
}

// SurveyService appends labelled fingerprint bursts to the long-format
// training CSV that the trainer consumes.
type SurveyService struct {
	path string
}

// NewSurveyService creates a survey service writing to the given CSV path
func NewSurveyService(path string) *SurveyService {
	return &SurveyService{path: path}
}

var surveyHeader = []string{"Location_Label", "Burst_ID", "Scan_Index", "BSSID", "SSID", "RSSI"}

// Append writes one burst to the training CSV, assigning it a fresh burst
// ID. Observations with unparsable RSSI are dropped, matching the
// feature-building contract. Returns the burst ID and the row count
// written.
func (s *SurveyService) Append(sub SurveySubmission) (string, int, error) {
	if sub.Location == "" {
		return "", 0, fmt.Errorf("location label is required")
	}
	if len(sub.Scans) == 0 {
		return "", 0, fmt.Errorf("at least one scan is required")
	}

	_, statErr := os.Stat(s.path)
	isNew := os.IsNotExist(statErr)

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return "", 0, fmt.Errorf("failed to open training data: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if isNew {
		if err := w.Write(surveyHeader); err != nil {
			return "", 0, fmt.Errorf("failed to write header: %w", err)
		}
	}

	burstID := uuid.NewString()
	rows := 0
	for scanIndex, scan := range sub.Scans {
		for _, item := range scan {
			if _, err := strconv.ParseFloat(string(item.RSSI), 64); err != nil {
				continue
			}
			record := []string{
				sub.Location,
				burstID,
				strconv.Itoa(scanIndex),
				fingerprint.Normalize(item.BSSID),
				"",
				string(item.RSSI),
			}
			if err := w.Write(record); err != nil {
				return "", 0, fmt.Errorf("failed to write reading: %w", err)
			}
			rows++
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", 0, fmt.Errorf("failed to flush training data: %w", err)
	}
	if rows == 0 {
		return "", 0, fmt.Errorf("no usable readings in submission")
	}

	return burstID, rows, nil
}
