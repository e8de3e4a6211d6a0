package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_CaseAndSeparator(t *testing.T) {
	// All spellings of the same hardware address collapse to one form.
	assert.Equal(t, "aa:bb:cc:", Normalize("AA-BB-CC"))
	assert.Equal(t, "aa:bb:cc:", Normalize("aa:bb:cc"))
	assert.Equal(t, "aa:bb:cc:", Normalize("aa:bb:cc:"))
	assert.Equal(t, "aa:bb:cc:", Normalize("  Aa-Bb-Cc  "))
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"AA-BB-CC-DD-EE-FF",
		"aa:bb:cc:dd:ee:ff:",
		"  7A:D4:B4:EA:97:69 ",
		"",
		":",
		"already:normal:",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestNormalize_EmptyInput(t *testing.T) {
	// Even the empty string gets the terminating separator.
	assert.Equal(t, ":", Normalize(""))
	assert.Equal(t, ":", Normalize("   "))
}
