package fingerprint

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// Schema is the canonical, ordered list of access point identifiers fixed
// at training time. Every feature vector, whether built for a training row
// or an inference request, aligns its columns to this exact sequence.
type Schema struct {
	ids   []string
	index map[string]int
}

// NewSchema builds a schema from raw identifier strings. Each entry is
// normalized; duplicates after normalization are dropped, keeping the
// first occurrence so column order stays stable.
func NewSchema(raw []string) *Schema {
	s := &Schema{
		ids:   make([]string, 0, len(raw)),
		index: make(map[string]int, len(raw)),
	}
	for _, r := range raw {
		id := Normalize(r)
		if _, dup := s.index[id]; dup {
			continue
		}
		s.index[id] = len(s.ids)
		s.ids = append(s.ids, id)
	}
	return s
}

// Len returns the number of feature columns.
func (s *Schema) Len() int {
	return len(s.ids)
}

// IDs returns the identifiers in column order. The returned slice is a
// copy; the schema itself is immutable after construction.
func (s *Schema) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// Index returns the column position of a canonical identifier.
func (s *Schema) Index(id string) (int, bool) {
	i, ok := s.index[id]
	return i, ok
}

// LoadSchema reads a schema from a headerless one-column CSV of identifier
// strings, the artifact format written at training time. Identifiers are
// stored raw and normalized on load, so the file round-trips datasets
// that predate the canonical form.
func LoadSchema(path string) (*Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open schema file: %w", err)
	}
	defer f.Close()

	return ReadSchema(f)
}

// ReadSchema parses schema CSV content from a reader.
func ReadSchema(r io.Reader) (*Schema, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 1

	var raw []string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse schema row: %w", err)
		}
		raw = append(raw, record[0])
	}

	if len(raw) == 0 {
		return nil, fmt.Errorf("schema file contains no identifiers")
	}
	return NewSchema(raw), nil
}

// Save writes the schema as a headerless one-column CSV.
func (s *Schema) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create schema file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	for _, id := range s.ids {
		if err := w.Write([]string{id}); err != nil {
			return fmt.Errorf("failed to write schema row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush schema file: %w", err)
	}
	return nil
}
