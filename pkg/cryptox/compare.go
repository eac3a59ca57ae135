package cryptox

import "crypto/subtle"

// Equal reports whether a and b hold the same bytes.
//
// A length mismatch returns immediately; lengths are not secret here (all
// compared values are fixed-size encodings). Otherwise every byte position is
// examined regardless of where the first difference occurs, so the running
// time does not reveal how long a matching prefix an attacker has guessed.
func Equal(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}

// EqualString is Equal for strings.
func EqualString(a, b string) bool {
	return Equal([]byte(a), []byte(b))
}
