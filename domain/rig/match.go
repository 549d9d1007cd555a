package rig

import "strings"

// Matches reports whether two bone names refer to the same bone under the
// session's case-sensitivity setting. Pure function: symmetric, reflexive.
//
// Matches is the pairwise contract; the index-based joins use Key, its
// canonical-form twin. The two must agree: Matches(a, b, cs) iff
// Key(a, cs) == Key(b, cs).
func Matches(a, b string, caseSensitive bool) bool {
	if caseSensitive {
		return a == b
	}
	return strings.ToLower(a) == strings.ToLower(b)
}

// Key canonicalizes a bone name for use as a lookup-map key. Case-sensitive
// keys are the raw name; case-insensitive keys are lower-cased. Key equality
// is equivalent to Matches.
func Key(name string, caseSensitive bool) string {
	if caseSensitive {
		return name
	}
	return strings.ToLower(name)
}
