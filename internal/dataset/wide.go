package dataset

import (
	"fmt"
	"sort"

	"github.com/jengzang/wifi-positioning-go/internal/fingerprint"
)

// ScanMeta identifies one scan snapshot within the survey.
type ScanMeta struct {
	Label     string
	BurstID   string
	ScanIndex string
}

// WideTable is the per-scan training table: one row per scan, one column
// per access point in schema order, missing readings filled with the
// sentinel.
type WideTable struct {
	Meta   []ScanMeta
	Schema *fingerprint.Schema
	Matrix [][]float64
}

// Pivot converts long-format readings into a wide per-scan table.
//
// A scan is keyed by Burst_ID and Scan_Index together. When the same AP
// appears more than once within one scan its readings are collapsed to
// their median. The canonical AP ordering is by descending reading count
// across the whole survey (most frequently seen APs first, ties broken
// lexicographically for determinism); topK > 0 truncates the schema to
// the K most frequent APs.
func Pivot(rows []LongRow, topK int) (*WideTable, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no readings to pivot")
	}

	apCounts := make(map[string]int)
	for _, r := range rows {
		apCounts[r.BSSID]++
	}

	aps := make([]string, 0, len(apCounts))
	for ap := range apCounts {
		aps = append(aps, ap)
	}
	sort.Slice(aps, func(i, j int) bool {
		if apCounts[aps[i]] != apCounts[aps[j]] {
			return apCounts[aps[i]] > apCounts[aps[j]]
		}
		return aps[i] < aps[j]
	})
	if topK > 0 && topK < len(aps) {
		aps = aps[:topK]
	}
	schema := fingerprint.NewSchema(aps)

	type scanAccum struct {
		meta     ScanMeta
		readings map[string][]float64
	}
	var order []string
	scans := make(map[string]*scanAccum)
	for _, r := range rows {
		key := r.BurstID + "||" + r.ScanIndex
		acc, ok := scans[key]
		if !ok {
			acc = &scanAccum{
				meta:     ScanMeta{Label: r.Label, BurstID: r.BurstID, ScanIndex: r.ScanIndex},
				readings: make(map[string][]float64),
			}
			scans[key] = acc
			order = append(order, key)
		}
		acc.readings[r.BSSID] = append(acc.readings[r.BSSID], r.RSSI)
	}

	table := &WideTable{
		Meta:   make([]ScanMeta, 0, len(order)),
		Schema: schema,
		Matrix: make([][]float64, 0, len(order)),
	}
	for _, key := range order {
		acc := scans[key]
		row := make([]float64, schema.Len())
		for i := range row {
			row[i] = fingerprint.MissingRSSI
		}
		for ap, values := range acc.readings {
			col, ok := schema.Index(ap)
			if !ok {
				continue
			}
			row[col] = median(values)
		}
		table.Meta = append(table.Meta, acc.meta)
		table.Matrix = append(table.Matrix, row)
	}

	return table, nil
}

// Labels returns the location label of every row, aligned to Matrix.
func (t *WideTable) Labels() []string {
	labels := make([]string, len(t.Meta))
	for i, m := range t.Meta {
		labels[i] = m.Label
	}
	return labels
}

// median of a non-empty slice; an even count averages the middle pair.
func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
