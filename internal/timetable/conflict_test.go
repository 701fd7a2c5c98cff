package timetable

import "testing"

func buildWorkspace(t *testing.T) *Workspace {
	t.Helper()
	return NewWorkspace(nil, []string{"9:00", "10:00"}, 0)
}

func mustUpdate(t *testing.T, ws *Workspace, table string, row, col, batch int, field Field, value string) {
	t.Helper()
	if _, err := ws.UpdateBatch(table, row, col, batch, field, value); err != nil {
		t.Fatalf("UpdateBatch(%s,%d,%d,%d,%s): %v", table, row, col, batch, field, err)
	}
}

func TestSingleOccupantIsNeverAConflict(t *testing.T) {
	ws := buildWorkspace(t)
	mustUpdate(t, ws, "Table 1", 0, 0, 0, FieldTeacher, "Dr. Smith")

	report := CheckConflicts(ws, BatchPos{TableID: "Table 1"}, FieldTeacher, "Dr. Smith")
	if report.Teacher.Conflict {
		t.Fatalf("single occupant flagged: %+v", report.Teacher)
	}
	if len(report.Teacher.Matches) != 1 {
		t.Fatalf("matches = %d, want 1 (the slot itself)", len(report.Teacher.Matches))
	}
}

func TestNormalizedTeacherValuesConflict(t *testing.T) {
	ws := buildWorkspace(t)
	mustUpdate(t, ws, "Table 1", 0, 0, 0, FieldTeacher, "Dr. Smith")
	if _, err := ws.CreateBatch("Table 1", 0, 0); err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}

	report := CheckConflicts(ws, BatchPos{TableID: "Table 1", Batch: 1}, FieldTeacher, " dr.   smith ")
	if !report.Teacher.Conflict {
		t.Fatal("case/whitespace-insensitive match not detected")
	}
	if len(report.Teacher.Matches) != 2 {
		t.Fatalf("matches = %d, want 2", len(report.Teacher.Matches))
	}
}

func TestEmptyValueNeverConflicts(t *testing.T) {
	ws := buildWorkspace(t)
	mustUpdate(t, ws, "Table 1", 0, 0, 0, FieldTeacher, "Dr. Smith")
	if _, err := ws.CreateBatch("Table 1", 0, 0); err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}

	report := CheckConflicts(ws, BatchPos{TableID: "Table 1", Batch: 1}, FieldTeacher, "")
	if report.Teacher.Conflict {
		t.Fatal("empty candidate flagged as conflict")
	}
	if len(report.Teacher.Matches) != 0 {
		t.Fatalf("matches = %d, want 0", len(report.Teacher.Matches))
	}

	// Two empty slots at the same cell are not a collision either.
	mustUpdate(t, ws, "Table 1", 0, 0, 0, FieldTeacher, "")
	report = CheckConflicts(ws, BatchPos{TableID: "Table 1", Batch: 1}, FieldTeacher, "")
	if report.Teacher.Conflict {
		t.Fatal("two empty slots flagged as conflict")
	}
}

func TestSymmetricDetection(t *testing.T) {
	ws := buildWorkspace(t)
	mustUpdate(t, ws, "Table 1", 0, 0, 0, FieldTeacher, "Smith")
	ws.EnsureTable("Table 2")
	mustUpdate(t, ws, "Table 2", 0, 0, 0, FieldTeacher, "Smith")

	fromA := CheckConflicts(ws, BatchPos{TableID: "Table 1"}, FieldTeacher, "Smith")
	fromB := CheckConflicts(ws, BatchPos{TableID: "Table 2"}, FieldTeacher, "Smith")

	if !fromA.Teacher.Conflict || !fromB.Teacher.Conflict {
		t.Fatalf("conflict missed: A=%v B=%v", fromA.Teacher.Conflict, fromB.Teacher.Conflict)
	}
	if len(fromA.Teacher.Matches) != len(fromB.Teacher.Matches) {
		t.Fatalf("match counts differ: %d vs %d", len(fromA.Teacher.Matches), len(fromB.Teacher.Matches))
	}
	// Same colliding set regardless of which side triggered the check.
	set := func(matches []Entry) map[Entry]bool {
		m := make(map[Entry]bool, len(matches))
		for _, e := range matches {
			m[e] = true
		}
		return m
	}
	setA, setB := set(fromA.Teacher.Matches), set(fromB.Teacher.Matches)
	for e := range setA {
		if !setB[e] {
			t.Fatalf("entry %+v missing from other side", e)
		}
	}
}

func TestRoomConflictIndependentOfTeacher(t *testing.T) {
	ws := buildWorkspace(t)
	mustUpdate(t, ws, "Table 1", 0, 0, 0, FieldTeacher, "Smith")
	mustUpdate(t, ws, "Table 1", 0, 0, 0, FieldRoom, "R1")
	ws.EnsureTable("Table 2")
	mustUpdate(t, ws, "Table 2", 0, 0, 0, FieldTeacher, "Jones")

	report := CheckConflicts(ws, BatchPos{TableID: "Table 2"}, FieldRoom, "R1")
	if !report.Room.Conflict {
		t.Fatal("room collision missed")
	}
	if report.Teacher.Conflict {
		t.Fatal("teacher flagged without a collision")
	}
}

func TestDifferentCoordinatesNeverCompared(t *testing.T) {
	ws := buildWorkspace(t)
	// Same teacher on Mon 9:00 and Wed 9:00 — different columns.
	mustUpdate(t, ws, "Table 1", 0, 0, 0, FieldTeacher, "Smith")
	ws.EnsureTable("Table 2")

	report := CheckConflicts(ws, BatchPos{TableID: "Table 2", Col: 2}, FieldTeacher, "Smith")
	if report.Teacher.Conflict {
		t.Fatal("cross-slot values compared")
	}
}

func TestEndToEndScenario(t *testing.T) {
	// Timetable CS/A/3, table one: Mon 9:00 teacher Smith room R1.
	// Table two: Wed 9:00 teacher Smith room R2 — no conflict, different
	// coordinates. Then Smith lands on Mon 9:00 of table two as well.
	ws := buildWorkspace(t)
	mustUpdate(t, ws, "Table 1", 0, 0, 0, FieldTeacher, "Smith")
	mustUpdate(t, ws, "Table 1", 0, 0, 0, FieldRoom, "R1")

	report, err := ws.UpdateBatch("Table 2", 0, 2, 0, FieldTeacher, "Smith")
	if err != nil {
		t.Fatalf("UpdateBatch: %v", err)
	}
	if report.Teacher.Conflict {
		t.Fatal("Wed edit flagged against Mon booking")
	}
	mustUpdate(t, ws, "Table 2", 0, 2, 0, FieldRoom, "R2")

	report, err = ws.UpdateBatch("Table 2", 0, 0, 0, FieldTeacher, "Smith")
	if err != nil {
		t.Fatalf("UpdateBatch: %v", err)
	}
	if !report.Teacher.Conflict {
		t.Fatal("Mon double-booking missed")
	}
	if len(report.Teacher.Matches) != 2 {
		t.Fatalf("matches = %d, want 2", len(report.Teacher.Matches))
	}
}
