package fingerprint

import "strconv"

// MissingRSSI is the sentinel written into every feature column for which
// no observation matched. It is deliberately below any plausible real
// reading so the classifier can separate "absent" from "weak".
const MissingRSSI = -110.0

// Observation is a single access point sighting: an identifier in whatever
// textual form the scanner produced, and a signal strength in dBm. RSSI is
// carried as text because request payloads and historical CSVs both arrive
// untyped; parsing happens inside BuildVector and a value that does not
// parse drops the observation rather than failing the scan.
type Observation struct {
	BSSID string
	RSSI  string
}

// Obs is a convenience constructor for an observation with a numeric RSSI.
func Obs(bssid string, rssi float64) Observation {
	return Observation{BSSID: bssid, RSSI: strconv.FormatFloat(rssi, 'f', -1, 64)}
}

// BuildVector turns a set of observations into a feature vector aligned to
// the schema's column order, plus the count of observations that matched a
// schema column.
//
// Every column starts at MissingRSSI, so the output length always equals
// schema.Len() no matter how many observations are supplied. Observations
// with unparsable RSSI are skipped. Identifiers unknown to the schema are
// ignored; the access point simply carries no information for this model.
// When several observations normalize to the same identifier the last one
// in input order wins, and each of them counts toward matched.
func BuildVector(schema *Schema, observations []Observation) ([]float64, int) {
	vector := make([]float64, schema.Len())
	for i := range vector {
		vector[i] = MissingRSSI
	}

	matched := 0
	for _, obs := range observations {
		rssi, err := strconv.ParseFloat(obs.RSSI, 64)
		if err != nil {
			continue
		}
		id := Normalize(obs.BSSID)
		col, ok := schema.Index(id)
		if !ok {
			continue
		}
		vector[col] = rssi
		matched++
	}

	return vector, matched
}
