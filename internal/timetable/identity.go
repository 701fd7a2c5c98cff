package timetable

import (
	"errors"
	"strings"
)

// ErrMissingIdentity is returned when class, branch, or semester is
// blank (or slugs down to nothing).
var ErrMissingIdentity = errors.New("timetable requires class, branch, and semester")

const idPrefix = "tt_"

// TimetableID derives the stable external id for a timetable from its
// identity tuple. Equivalent inputs after normalization always map to
// the same id, which is how the editor detects an existing timetable
// without a lookup table. Kind is optional; a blank kind keeps the
// three-part form so ids from older data stay stable.
func TimetableID(class, branch, semester, kind string) (string, error) {
	cls := SlugID(class)
	br := SlugID(branch)
	sem := SlugID(semester)
	if cls == "" || br == "" || sem == "" {
		return "", ErrMissingIdentity
	}

	parts := []string{cls, br, sem}
	if k := SlugID(kind); k != "" {
		parts = append(parts, k)
	}
	return idPrefix + strings.Join(parts, "__"), nil
}
