package dataset

import (
	"fmt"
	"math"
	"sort"
)

// QualityReport summarizes a training table before a fit is attempted.
type QualityReport struct {
	Samples      int
	Features     int
	ClassCounts  map[string]int
	MinClassSize int
}

// CheckQuality validates a wide table for training: no NaN or Inf cells,
// and at least two samples per location so a stratified hold-out split is
// possible. Violations are errors; the caller decides whether to abort.
func CheckQuality(t *WideTable) (*QualityReport, error) {
	report := &QualityReport{
		Samples:     len(t.Matrix),
		Features:    t.Schema.Len(),
		ClassCounts: make(map[string]int),
	}

	for i, row := range t.Matrix {
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return report, fmt.Errorf("non-finite value at row %d column %d", i, j)
			}
		}
	}

	for _, m := range t.Meta {
		if m.Label == "" {
			return report, fmt.Errorf("sample with empty location label")
		}
		report.ClassCounts[m.Label]++
	}

	report.MinClassSize = report.Samples
	for _, n := range report.ClassCounts {
		if n < report.MinClassSize {
			report.MinClassSize = n
		}
	}
	if report.MinClassSize < 2 {
		return report, fmt.Errorf("smallest location has %d sample(s), need at least 2", report.MinClassSize)
	}

	return report, nil
}

// SortedClasses returns the class names in ascending sample-count order,
// ties alphabetical. Used for operator-facing summaries.
func (r *QualityReport) SortedClasses() []string {
	names := make([]string, 0, len(r.ClassCounts))
	for name := range r.ClassCounts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if r.ClassCounts[names[i]] != r.ClassCounts[names[j]] {
			return r.ClassCounts[names[i]] < r.ClassCounts[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}
