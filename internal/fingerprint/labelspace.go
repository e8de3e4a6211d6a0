package fingerprint

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// LabelSpace maps location names to the integer codes the classifier
// trains on, and back. Codes are assigned alphabetically at fit time and
// the mapping is persisted with the model; a classifier output is only
// meaningful against the exact label space it was trained with.
type LabelSpace struct {
	labels []string
	codes  map[string]int
}

// FitLabels builds a label space from training labels. Duplicates are
// collapsed; codes are assigned in sorted label order.
func FitLabels(labels []string) *LabelSpace {
	seen := make(map[string]bool, len(labels))
	var distinct []string
	for _, l := range labels {
		if !seen[l] {
			seen[l] = true
			distinct = append(distinct, l)
		}
	}
	sort.Strings(distinct)

	ls := &LabelSpace{
		labels: distinct,
		codes:  make(map[string]int, len(distinct)),
	}
	for i, l := range distinct {
		ls.codes[l] = i
	}
	return ls
}

// Len returns the number of distinct labels.
func (ls *LabelSpace) Len() int {
	return len(ls.labels)
}

// Labels returns all labels in code order.
func (ls *LabelSpace) Labels() []string {
	out := make([]string, len(ls.labels))
	copy(out, ls.labels)
	return out
}

// Encode returns the code for a label fitted at training time. A label
// that was never fitted is a usage error: inference must only ever encode
// labels from the persisted space.
func (ls *LabelSpace) Encode(label string) (int, error) {
	code, ok := ls.codes[label]
	if !ok {
		return 0, fmt.Errorf("label %q not present in fitted label space", label)
	}
	return code, nil
}

// Decode returns the label for a code produced by Encode.
func (ls *LabelSpace) Decode(code int) (string, error) {
	if code < 0 || code >= len(ls.labels) {
		return "", fmt.Errorf("label code %d out of range [0,%d)", code, len(ls.labels))
	}
	return ls.labels[code], nil
}

type labelSpaceBlob struct {
	Labels []string `json:"labels"`
}

// Save persists the label space as a JSON artifact.
func (ls *LabelSpace) Save(path string) error {
	data, err := json.MarshalIndent(labelSpaceBlob{Labels: ls.labels}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal label space: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write label space: %w", err)
	}
	return nil
}

// LoadLabelSpace reads a label space saved by Save. Code order is taken
// from the file as-is; re-sorting here would silently remap classes.
func LoadLabelSpace(path string) (*LabelSpace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read label space: %w", err)
	}

	var blob labelSpaceBlob
	if err := json.Unmarshal(data, &blob); err != nil {
		return nil, fmt.Errorf("failed to unmarshal label space: %w", err)
	}
	if len(blob.Labels) == 0 {
		return nil, fmt.Errorf("label space file contains no labels")
	}

	ls := &LabelSpace{
		labels: blob.Labels,
		codes:  make(map[string]int, len(blob.Labels)),
	}
	for i, l := range blob.Labels {
		ls.codes[l] = i
	}
	return ls, nil
}
