package charset

import "golang.org/x/text/unicode/norm"

// Normalize applies Unicode canonical composition (NFC). Sequences without
// a precomposed form are left decomposed.
func Normalize(s string) string {
	return norm.NFC.String(s)
}

// IsNormalized reports whether s is already in NFC.
func IsNormalized(s string) bool {
	return norm.NFC.IsNormalString(s)
}
