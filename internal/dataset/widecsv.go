package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jengzang/wifi-positioning-go/internal/fingerprint"
)

var metaColumns = []string{"Location_Label", "Burst_ID", "Scan_Index"}

// SaveWideFile writes the wide table as a CSV: meta columns first, then
// one column per schema entry, values as plain numbers.
func SaveWideFile(path string, t *WideTable) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create wide CSV: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := append(append([]string{}, metaColumns...), t.Schema.IDs()...)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, meta := range t.Meta {
		record := make([]string, 0, len(header))
		record = append(record, meta.Label, meta.BurstID, meta.ScanIndex)
		for _, v := range t.Matrix[i] {
			record = append(record, strconv.FormatFloat(v, 'f', -1, 64))
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush wide CSV: %w", err)
	}
	return nil
}

// LoadWideFile reads a wide-format training CSV from disk.
func LoadWideFile(path string) (*WideTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open wide CSV: %w", err)
	}
	defer f.Close()

	t, err := ReadWide(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return t, nil
}

// ReadWide parses a wide-format training table. Every non-meta column is
// treated as a feature; cells that do not parse as numbers (blanks,
// stray text) fall back to the sentinel rather than failing the load.
func ReadWide(r io.Reader) (*WideTable, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	metaIdx := make(map[string]int, len(metaColumns))
	var featureIdx []int
	var featureIDs []string
	for i, name := range header {
		name = strings.TrimSpace(name)
		isMeta := false
		for _, m := range metaColumns {
			if name == m {
				metaIdx[m] = i
				isMeta = true
				break
			}
		}
		if !isMeta {
			featureIdx = append(featureIdx, i)
			featureIDs = append(featureIDs, name)
		}
	}
	if _, ok := metaIdx["Location_Label"]; !ok {
		return nil, fmt.Errorf("missing required column %q", "Location_Label")
	}
	if len(featureIdx) == 0 {
		return nil, fmt.Errorf("no feature columns in wide CSV")
	}

	// Two header columns that normalize to the same identifier would
	// leave the schema narrower than the rows; fail here with the column
	// names instead of as a width mismatch downstream.
	seen := make(map[string]string, len(featureIDs))
	for _, id := range featureIDs {
		norm := fingerprint.Normalize(id)
		if prev, ok := seen[norm]; ok {
			return nil, fmt.Errorf("feature columns %q and %q both normalize to %q", prev, id, norm)
		}
		seen[norm] = id
	}

	t := &WideTable{Schema: fingerprint.NewSchema(featureIDs)}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse row %d: %w", line, err)
		}
		line++

		meta := ScanMeta{Label: strings.TrimSpace(record[metaIdx["Location_Label"]])}
		if i, ok := metaIdx["Burst_ID"]; ok {
			meta.BurstID = strings.TrimSpace(record[i])
		}
		if i, ok := metaIdx["Scan_Index"]; ok {
			meta.ScanIndex = strings.TrimSpace(record[i])
		}

		row := make([]float64, len(featureIdx))
		for j, i := range featureIdx {
			v, err := strconv.ParseFloat(strings.TrimSpace(record[i]), 64)
			if err != nil {
				v = fingerprint.MissingRSSI
			}
			row[j] = v
		}

		t.Meta = append(t.Meta, meta)
		t.Matrix = append(t.Matrix, row)
	}

	if len(t.Matrix) == 0 {
		return nil, fmt.Errorf("wide CSV contains no samples")
	}
	return t, nil
}
