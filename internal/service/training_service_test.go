package service

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/wifi-positioning-go/internal/dataset"
	"github.com/jengzang/wifi-positioning-go/internal/fingerprint"
)

// Synthetic survey: two locations with cleanly separated fingerprints,
// enough scans for a stratified split.
func testTable(t *testing.T) *dataset.WideTable {
	t.Helper()

	var rows []dataset.LongRow
	for i := 0; i < 10; i++ {
		rows = append(rows,
			dataset.LongRow{Label: "Kitchen", BurstID: "k", ScanIndex: scanIdx(i), BSSID: "aa:bb:cc:", RSSI: -40 - float64(i%3)},
			dataset.LongRow{Label: "Kitchen", BurstID: "k", ScanIndex: scanIdx(i), BSSID: "dd:ee:ff:", RSSI: -95 + float64(i%2)},
			dataset.LongRow{Label: "Office", BurstID: "o", ScanIndex: scanIdx(i), BSSID: "dd:ee:ff:", RSSI: -42 - float64(i%3)},
			dataset.LongRow{Label: "Office", BurstID: "o", ScanIndex: scanIdx(i), BSSID: "aa:bb:cc:", RSSI: -93 + float64(i%2)},
		)
	}

	table, err := dataset.Pivot(rows, 0)
	require.NoError(t, err)
	return table
}

func scanIdx(i int) string {
	return string(rune('a' + i))
}

func TestTrain_ProducesConsistentArtifacts(t *testing.T) {
	trainer := NewTrainingService()

	bundle, result, err := trainer.Train(testTable(t), TrainOptions{Seed: 42})
	require.NoError(t, err)

	require.NoError(t, bundle.Validate())
	assert.Equal(t, 2, bundle.Schema.Len())
	assert.Equal(t, []string{"Kitchen", "Office"}, bundle.Labels.Labels())

	assert.Equal(t, 20, result.Samples)
	assert.Equal(t, result.Samples, result.TrainSamples+result.TestSamples)
	assert.Equal(t, 2, result.Classes)

	// Clean clusters should classify near-perfectly.
	assert.Greater(t, result.Accuracy, 0.9)
}

func TestTrain_DeterministicForFixedSeed(t *testing.T) {
	trainer := NewTrainingService()

	_, a, err := trainer.Train(testTable(t), TrainOptions{Seed: 7})
	require.NoError(t, err)
	_, b, err := trainer.Train(testTable(t), TrainOptions{Seed: 7})
	require.NoError(t, err)

	assert.Equal(t, a.Accuracy, b.Accuracy)
	assert.Equal(t, a.TrainSamples, b.TrainSamples)
}

func TestTrain_FailsQualityCheck(t *testing.T) {
	rows := []dataset.LongRow{
		{Label: "Kitchen", BurstID: "k", ScanIndex: "0", BSSID: "aa:", RSSI: -40},
		{Label: "Office", BurstID: "o", ScanIndex: "0", BSSID: "aa:", RSSI: -90},
		{Label: "Office", BurstID: "o", ScanIndex: "1", BSSID: "aa:", RSSI: -91},
	}
	table, err := dataset.Pivot(rows, 0)
	require.NoError(t, err)

	trainer := NewTrainingService()
	_, _, err = trainer.Train(table, TrainOptions{})
	assert.Error(t, err)
}

func TestStratifiedSplit_EveryClassKeepsTrainingSamples(t *testing.T) {
	y := []int{0, 0, 0, 0, 1, 1, 2, 2, 2, 2, 2, 2}
	train, test := stratifiedSplit(y, 0.25, 1)

	assert.Len(t, train, len(y)-len(test))

	seen := make(map[int]bool)
	for _, i := range train {
		seen[y[i]] = true
	}
	assert.True(t, seen[0] && seen[1] && seen[2])
}

func TestArtifacts_SaveLoadRoundTrip(t *testing.T) {
	trainer := NewTrainingService()
	bundle, _, err := trainer.Train(testTable(t), TrainOptions{Seed: 42})
	require.NoError(t, err)

	dir := t.TempDir()
	paths := ArtifactPaths{
		Model:  filepath.Join(dir, "model.json"),
		Labels: filepath.Join(dir, "labels.json"),
		Schema: filepath.Join(dir, "schema.csv"),
	}
	require.NoError(t, SaveArtifacts(paths, bundle))

	loaded, err := LoadArtifacts(paths)
	require.NoError(t, err)
	assert.Equal(t, bundle.Schema.IDs(), loaded.Schema.IDs())
	assert.Equal(t, bundle.Labels.Labels(), loaded.Labels.Labels())
	assert.Equal(t, bundle.Model.NumFeatures(), loaded.Model.NumFeatures())
}

func TestLoadArtifacts_DetectsCrossFileMismatch(t *testing.T) {
	trainer := NewTrainingService()
	bundle, _, err := trainer.Train(testTable(t), TrainOptions{Seed: 42})
	require.NoError(t, err)

	dir := t.TempDir()
	paths := ArtifactPaths{
		Model:  filepath.Join(dir, "model.json"),
		Labels: filepath.Join(dir, "labels.json"),
		Schema: filepath.Join(dir, "schema.csv"),
	}
	require.NoError(t, SaveArtifacts(paths, bundle))

	// Overwrite the schema with one from a different "run".
	wrong := fingerprint.NewSchema([]string{"aa:bb:cc:", "dd:ee:ff:", "11:22:33:"})
	require.NoError(t, wrong.Save(paths.Schema))

	_, err = LoadArtifacts(paths)
	assert.Error(t, err)
}
