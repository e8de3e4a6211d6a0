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

// LongRow is one access point reading from the long-format survey CSV:
// one row per (scan, AP) pair as the collector writes them.
type LongRow struct {
	Label     string
	BurstID   string
	ScanIndex string
	BSSID     string
	SSID      string
	RSSI      float64
}

// Required long-format columns. SSID, Timestamp and Device_ID are carried
// by some collector generations and ignored here.
var requiredColumns = []string{"Location_Label", "Burst_ID", "Scan_Index", "BSSID", "RSSI"}

// ReadLongFile loads a long-format survey CSV from disk.
func ReadLongFile(path string) ([]LongRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open training data: %w", err)
	}
	defer f.Close()

	rows, err := ReadLong(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return rows, nil
}

// ReadLong parses long-format survey data. BSSIDs are normalized on the
// way in; rows whose RSSI does not parse are dropped, matching the
// collector's occasional blank readings.
func ReadLong(r io.Reader) ([]LongRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
	}
	ssidCol, hasSSID := col["SSID"]

	var rows []LongRow
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

		rssi, err := strconv.ParseFloat(strings.TrimSpace(record[col["RSSI"]]), 64)
		if err != nil {
			continue
		}

		row := LongRow{
			Label:     strings.TrimSpace(record[col["Location_Label"]]),
			BurstID:   strings.TrimSpace(record[col["Burst_ID"]]),
			ScanIndex: strings.TrimSpace(record[col["Scan_Index"]]),
			BSSID:     fingerprint.Normalize(record[col["BSSID"]]),
			RSSI:      rssi,
		}
		if hasSSID && ssidCol < len(record) {
			row.SSID = strings.TrimSpace(record[ssidCol])
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no usable rows in training data")
	}
	return rows, nil
}
