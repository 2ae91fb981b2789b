// Package caption derives per-clip overlay text and the stabilization-skip
// flag from the filename convention users already encode their footage with.
package caption

import (
	"path/filepath"
	"strings"
)

// markerToken disables stabilization when it appears (case-insensitively)
// in the suffix a caption rule strips off. Users append it to clips shot
// on a tripod, where stabilization only degrades the picture.
const markerToken = "nostable"

// captionRule extracts the caption portion of a base filename. ok reports
// whether the rule applies; rules are tried in order, first match wins.
type captionRule func(base string) (head string, ok bool)

var captionRules = []captionRule{
	// "Northern-Canada_1" -> "Northern-Canada"
	func(base string) (string, bool) {
		head, _, found := strings.Cut(base, "_")
		return head, found
	},
	// "Another-Spot (4)" -> "Another-Spot"
	func(base string) (string, bool) {
		head, _, found := strings.Cut(base, " (")
		return head, found
	},
	// Bare names caption as-is.
	func(base string) (string, bool) {
		return base, true
	},
}

// Derive maps a clip filename to its caption text and stabilization-skip
// flag. Dashes in the captured caption become spaces, so "Northern-Canada_1"
// captions as "Northern Canada". The marker scan is independent of which
// caption rule fires: any suffix a rule could strip is checked.
// Derive is total; it never fails.
func Derive(filename string) (text string, skipStabilization bool) {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	skipStabilization = markedNoStable(base)
	for _, rule := range captionRules {
		head, ok := rule(base)
		if !ok {
			continue
		}
		return strings.ReplaceAll(head, "-", " "), skipStabilization
	}
	return strings.ReplaceAll(base, "-", " "), skipStabilization
}

// markedNoStable scans the portion after the first underscore and the
// parenthesized portion after a space for the marker token.
func markedNoStable(base string) bool {
	if _, tail, found := strings.Cut(base, "_"); found && containsMarker(tail) {
		return true
	}
	if _, tail, found := strings.Cut(base, " ("); found && containsMarker(tail) {
		return true
	}
	return false
}

func containsMarker(s string) bool {
	return strings.Contains(strings.ToLower(s), markerToken)
}
