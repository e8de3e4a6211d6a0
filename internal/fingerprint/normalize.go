package fingerprint

import "strings"

// Normalize canonicalizes a BSSID string: trims whitespace, lowercases,
// replaces hyphens with colons, and ensures a trailing colon. Scanning
// stacks disagree on separator and case, and one dataset generation
// carried a trailing colon; every identifier that enters the pipeline
// goes through this exact sequence so that training and inference agree
// on what counts as the same access point.
//
// Normalize is total and idempotent: it never fails, and
// Normalize(Normalize(x)) == Normalize(x).
func Normalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "-", ":")
	if !strings.HasSuffix(s, ":") {
		s += ":"
	}
	return s
}
