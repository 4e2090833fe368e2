package utils

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeQuery trims a query parameter and normalizes it to NFC so that
// composed and decomposed accented forms (common in the French field values)
// compare equal against stored column data.
func NormalizeQuery(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
