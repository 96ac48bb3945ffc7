package identity

import (
	"regexp"
	"unicode/utf8"
)

// Trust ranks how much confidence the store has in a member's display name.
// It is persisted next to the name so later passes can tell a name mined from
// messages apart from one an operator confirmed, without encoding provenance
// inside the string itself.
type Trust int16

const (
	// TrustNone means no name has been stored yet.
	TrustNone Trust = iota
	// TrustSelf means the stored name is just the canonical id again.
	TrustSelf
	// TrustNumeric means the name is phone-shaped or the "Unknown" placeholder.
	TrustNumeric
	// TrustProvisional marks names mined from rescue heuristics or messages.
	TrustProvisional
	// TrustConfirmed marks operator-supplied names. Never overwritten.
	TrustConfirmed
)

var numericName = regexp.MustCompile(`^[0-9\s+()\-]*$`)

// ClassifyName buckets a display name for the member with the given
// canonical id.
func ClassifyName(name, canonicalID string) Trust {
	switch {
	case name == "":
		return TrustNone
	case name == canonicalID:
		return TrustSelf
	case name == "Unknown" || numericName.MatchString(name):
		return TrustNumeric
	default:
		return TrustProvisional
	}
}

// UsableName reports whether a candidate is long enough to persist at all.
func UsableName(name string) bool {
	return utf8.RuneCountInString(name) >= 2
}

// ShouldOverwrite decides whether a candidate at the given trust may replace
// the stored name. Confirmed names are final; anything below them yields to
// an equal or better candidate.
func ShouldOverwrite(stored, candidate Trust) bool {
	return stored < TrustConfirmed && stored <= candidate
}
