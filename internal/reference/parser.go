// Package reference classifies raw comment references into canonical comment
// identifiers. A reference is either a YouTube watch URL carrying an lc=
// query parameter, or a bare comment ID token.
package reference

import (
	"errors"
	"regexp"
	"strings"
)

// ErrUnrecognized is returned when a reference matches neither the URL form
// nor the bare-token form.
var ErrUnrecognized = errors.New("unrecognized comment reference")

const urlMarker = "youtube.com"

// Bare comment IDs are at least 20 characters of alphanumerics, underscores,
// and dots. Shorter tokens are ambiguous with video IDs and are rejected.
var bareTokenPattern = regexp.MustCompile(`^[A-Za-z0-9_.]{20,}$`)

// Parse extracts the canonical comment identifier from a raw reference.
// URL references must carry an lc= parameter; the &lc= form takes precedence
// over a leading ?lc= form, and the value is truncated at the next &. The
// first marker present decides the outcome: an empty value under it fails the
// reference rather than falling through to the other form.
func Parse(ref string) (string, error) {
	if strings.Contains(ref, urlMarker) {
		for _, marker := range []string{"&lc=", "?lc="} {
			if !strings.Contains(ref, marker) {
				continue
			}
			if id := extractQueryID(ref, marker); id != "" {
				return id, nil
			}
			return "", ErrUnrecognized
		}
		return "", ErrUnrecognized
	}

	if bareTokenPattern.MatchString(ref) {
		return ref, nil
	}

	return "", ErrUnrecognized
}

func extractQueryID(ref, marker string) string {
	_, after, found := strings.Cut(ref, marker)
	if !found {
		return ""
	}
	id, _, _ := strings.Cut(after, "&")
	return id
}
