package timetable

import (
	"errors"
	"testing"
)

func TestTimetableIDDeterministic(t *testing.T) {
	a, err := TimetableID("CS", "A", "3", "full-time")
	if err != nil {
		t.Fatalf("TimetableID: %v", err)
	}
	b, err := TimetableID(" cs ", "a", "3", "Full-Time")
	if err != nil {
		t.Fatalf("TimetableID: %v", err)
	}
	if a != b {
		t.Fatalf("ids differ: %q vs %q", a, b)
	}
	if a != "tt_cs__a__3__full-time" {
		t.Fatalf("id = %q", a)
	}
}

func TestTimetableIDBlankKind(t *testing.T) {
	id, err := TimetableID("CS", "A", "3", "")
	if err != nil {
		t.Fatalf("TimetableID: %v", err)
	}
	// Kind is optional; without it the id keeps the three-part form.
	if id != "tt_cs__a__3" {
		t.Fatalf("id = %q", id)
	}
}

func TestTimetableIDMissingComponents(t *testing.T) {
	cases := [][4]string{
		{"", "A", "3", ""},
		{"CS", "  ", "3", ""},
		{"CS", "A", "", ""},
		{"???", "A", "3", ""}, // slugs to empty
	}
	for _, c := range cases {
		if _, err := TimetableID(c[0], c[1], c[2], c[3]); !errors.Is(err, ErrMissingIdentity) {
			t.Errorf("TimetableID(%q,%q,%q,%q) err = %v, want ErrMissingIdentity", c[0], c[1], c[2], c[3], err)
		}
	}
}
