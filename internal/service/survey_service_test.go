package service

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/wifi-positioning-go/internal/dataset"
	"github.com/jengzang/wifi-positioning-go/internal/models"
)

func TestSurveyAppend_WritesReadableTrainingData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "survey.csv")
	svc := NewSurveyService(path)

	burstID, rows, err := svc.Append(SurveySubmission{
		Location: "Kitchen",
		Scans: [][]models.ScanItem{
			{{BSSID: "AA-BB-CC", RSSI: "-40"}, {BSSID: "dd:ee:ff", RSSI: "-70"}},
			{{BSSID: "aa:bb:cc:", RSSI: "-42"}},
		},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, burstID)
	assert.Equal(t, 3, rows)

	// A second burst appends under a new ID.
	burstID2, _, err := svc.Append(SurveySubmission{
		Location: "Office",
		Scans:    [][]models.ScanItem{{{BSSID: "dd:ee:ff:", RSSI: "-45"}}},
	})
	require.NoError(t, err)
	assert.NotEqual(t, burstID, burstID2)

	// The file round-trips through the long-format reader.
	longRows, err := dataset.ReadLongFile(path)
	require.NoError(t, err)
	require.Len(t, longRows, 4)
	assert.Equal(t, "aa:bb:cc:", longRows[0].BSSID)
	assert.Equal(t, burstID, longRows[0].BurstID)
	assert.Equal(t, "Kitchen", longRows[0].Label)
	assert.Equal(t, "1", longRows[2].ScanIndex)
}

func TestSurveyAppend_DropsUnparsableRSSI(t *testing.T) {
	path := filepath.Join(t.TempDir(), "survey.csv")
	svc := NewSurveyService(path)

	_, rows, err := svc.Append(SurveySubmission{
		Location: "Kitchen",
		Scans: [][]models.ScanItem{
			{{BSSID: "aa:", RSSI: "-40"}, {BSSID: "bb:", RSSI: "weak"}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, rows)
}

func TestSurveyAppend_Validation(t *testing.T) {
	svc := NewSurveyService(filepath.Join(t.TempDir(), "survey.csv"))

	_, _, err := svc.Append(SurveySubmission{Scans: [][]models.ScanItem{{{BSSID: "aa:", RSSI: "-40"}}}})
	assert.Error(t, err)

	_, _, err = svc.Append(SurveySubmission{Location: "Kitchen"})
	assert.Error(t, err)
}
