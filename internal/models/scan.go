package models

import (
	"encoding/json"
	"errors"
	"strconv"
)

// RSSIValue accepts a signal strength as either a JSON number or a quoted
// string; client firmwares disagree on which they send. The raw text is
// kept so the feature builder decides what parses and what gets dropped.
type RSSIValue string

// UnmarshalJSON accepts -62, "-62" and null.
func (v *RSSIValue) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = RSSIValue(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*v = RSSIValue(strconv.FormatFloat(f, 'f', -1, 64))
	return nil
}

// MarshalJSON emits the value as a number when it parses, else a string.
func (v RSSIValue) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseFloat(string(v), 64); err == nil {
		return []byte(v), nil
	}
	return json.Marshal(string(v))
}

// ScanItem is one observed access point in a prediction request.
type ScanItem struct {
	BSSID string    `json:"bssid"`
	RSSI  RSSIValue `json:"rssi"`
}

// ScanRequest is the prediction request payload. Scans is the canonical
// key; AccessPoints is a legacy alias some client sketches used. Exactly
// the same shape under both keys.
type ScanRequest struct {
	Scans        []ScanItem `json:"scans"`
	AccessPoints []ScanItem `json:"access_points"`
}

// ErrNoScans is returned when neither payload key carries observations.
var ErrNoScans = errors.New("no scans provided: use JSON key 'scans' with a list of {bssid,rssi}")

// Items normalizes the two accepted spellings onto one list. Scans takes
// precedence when both are present.
func (r *ScanRequest) Items() ([]ScanItem, error) {
	if len(r.Scans) > 0 {
		return r.Scans, nil
	}
	if len(r.AccessPoints) > 0 {
		return r.AccessPoints, nil
	}
	return nil, ErrNoScans
}
