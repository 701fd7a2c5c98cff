// Package timetable holds the in-memory grid model for the timetable
// editor: sparse per-table batch grids, the cross-table conflict
// detector, and the occurrence projection the reconciler persists.
package timetable

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultDays is the fixed day axis shared by every table.
var DefaultDays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// CellRef addresses one (time-row, day-column) cell of a table.
// Comparable struct keys replace the "row-col" string keys of the
// wire format so lookups cannot collide.
type CellRef struct {
	Row int
	Col int
}

// BatchRef addresses one batch slot within a cell.
type BatchRef struct {
	Row   int
	Col   int
	Batch int
}

// Cell returns the containing cell of a batch slot.
func (b BatchRef) Cell() CellRef {
	return CellRef{Row: b.Row, Col: b.Col}
}

// CellKey formats the wire key for a cell, "{row}-{col}". Decimal
// formatting is collision-free for non-negative indices since '-'
// cannot appear inside a formatted integer.
func CellKey(row, col int) string {
	return fmt.Sprintf("%d-%d", row, col)
}

// DataKey formats the wire key for a batch slot, "{row}-{col}-{batch}".
func DataKey(row, col, batch int) string {
	return fmt.Sprintf("%d-%d-%d", row, col, batch)
}

// ParseCellKey parses a "{row}-{col}" wire key.
func ParseCellKey(key string) (CellRef, error) {
	parts := strings.Split(key, "-")
	if len(parts) != 2 {
		return CellRef{}, fmt.Errorf("malformed cell key %q", key)
	}
	row, err := parseIndex(parts[0])
	if err != nil {
		return CellRef{}, fmt.Errorf("malformed cell key %q: %w", key, err)
	}
	col, err := parseIndex(parts[1])
	if err != nil {
		return CellRef{}, fmt.Errorf("malformed cell key %q: %w", key, err)
	}
	return CellRef{Row: row, Col: col}, nil
}

// ParseDataKey parses a "{row}-{col}-{batch}" wire key.
func ParseDataKey(key string) (BatchRef, error) {
	parts := strings.Split(key, "-")
	if len(parts) != 3 {
		return BatchRef{}, fmt.Errorf("malformed data key %q", key)
	}
	indices := make([]int, 3)
	for i, p := range parts {
		n, err := parseIndex(p)
		if err != nil {
			return BatchRef{}, fmt.Errorf("malformed data key %q: %w", key, err)
		}
		indices[i] = n
	}
	return BatchRef{Row: indices[0], Col: indices[1], Batch: indices[2]}, nil
}

func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative index %d", n)
	}
	return n, nil
}

// Normalize trims a value and collapses internal whitespace runs to
// single spaces. All persisted string fields pass through here.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Fold normalizes a value for conflict comparison: trim, collapse
// whitespace, lowercase. "Dr. Smith" and " dr.   smith " fold equal.
func Fold(s string) string {
	return strings.ToLower(Normalize(s))
}

// SlugID makes a value safe for use inside a timetable id: lowercase,
// slashes to hyphens, spaces to underscores, everything outside
// [a-z0-9_-] stripped, capped at 180 bytes.
func SlugID(s string) string {
	lowered := strings.ToLower(Normalize(s))
	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		switch {
		case r == '/':
			b.WriteByte('-')
		case r == ' ':
			b.WriteByte('_')
		case r == '_' || r == '-',
			r >= 'a' && r <= 'z',
			r >= '0' && r <= '9':
			b.WriteRune(r)
		}
	}
	slug := b.String()
	if len(slug) > 180 {
		slug = slug[:180]
	}
	return slug
}
