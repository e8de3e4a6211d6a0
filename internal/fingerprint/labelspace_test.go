package fingerprint

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelSpace_RoundTrip(t *testing.T) {
	ls := FitLabels([]string{"Kitchen", "Bedroom", "Office", "Kitchen", "Hallway"})

	require.Equal(t, 4, ls.Len())
	for _, label := range ls.Labels() {
		code, err := ls.Encode(label)
		require.NoError(t, err)

		decoded, err := ls.Decode(code)
		require.NoError(t, err)
		assert.Equal(t, label, decoded)
	}
}

func TestLabelSpace_AlphabeticalCodes(t *testing.T) {
	ls := FitLabels([]string{"Office", "Bedroom", "Kitchen"})

	assert.Equal(t, []string{"Bedroom", "Kitchen", "Office"}, ls.Labels())

	code, err := ls.Encode("Bedroom")
	require.NoError(t, err)
	assert.Equal(t, 0, code)
}

func TestLabelSpace_EncodeUnknownLabel(t *testing.T) {
	ls := FitLabels([]string{"Kitchen"})

	_, err := ls.Encode("Garage")
	assert.Error(t, err)
}

func TestLabelSpace_DecodeOutOfRange(t *testing.T) {
	ls := FitLabels([]string{"Kitchen", "Office"})

	_, err := ls.Decode(-1)
	assert.Error(t, err)
	_, err = ls.Decode(2)
	assert.Error(t, err)
}

func TestLabelSpace_SaveLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "label_space.json")

	ls := FitLabels([]string{"Office", "Bedroom", "Kitchen"})
	require.NoError(t, ls.Save(path))

	loaded, err := LoadLabelSpace(path)
	require.NoError(t, err)
	assert.Equal(t, ls.Labels(), loaded.Labels())

	code, err := loaded.Encode("Kitchen")
	require.NoError(t, err)
	decoded, err := loaded.Decode(code)
	require.NoError(t, err)
	assert.Equal(t, "Kitchen", decoded)
}

func TestSchema_SaveLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "feature_list.csv")

	schema := NewSchema([]string{"AA-BB-CC", "dd:ee:ff", "11:22:33:"})
	require.NoError(t, schema.Save(path))

	loaded, err := LoadSchema(path)
	require.NoError(t, err)
	assert.Equal(t, schema.IDs(), loaded.IDs())
}
