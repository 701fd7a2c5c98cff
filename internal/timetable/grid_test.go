package timetable

import (
	"errors"
	"testing"
)

func TestBatchCountDefaultsToOne(t *testing.T) {
	ws := NewWorkspace(nil, []string{"9:00"}, 0)
	if got := ws.BatchCount("Table 1", 0, 0); got != 1 {
		t.Fatalf("BatchCount on untouched cell = %d, want 1", got)
	}
	if got := ws.BatchCount("no such table", 4, 4); got != 1 {
		t.Fatalf("BatchCount on unknown table = %d, want 1", got)
	}
}

func TestCreateBatchGrowsMonotonically(t *testing.T) {
	ws := NewWorkspace(nil, []string{"9:00"}, 3)

	for want := 2; want <= 3; want++ {
		got, err := ws.CreateBatch("Table 1", 0, 0)
		if err != nil {
			t.Fatalf("CreateBatch: %v", err)
		}
		if got != want {
			t.Fatalf("count = %d, want %d", got, want)
		}
	}

	if _, err := ws.CreateBatch("Table 1", 0, 0); !errors.Is(err, ErrBatchLimit) {
		t.Fatalf("err = %v, want ErrBatchLimit", err)
	}
	if got := ws.BatchCount("Table 1", 0, 0); got != 3 {
		t.Fatalf("count after refused create = %d, want 3", got)
	}
}

func TestCreateBatchKeepsExistingAssignments(t *testing.T) {
	ws := NewWorkspace(nil, []string{"9:00"}, 0)
	if _, err := ws.UpdateBatch("Table 1", 0, 0, 0, FieldCourse, "Algorithms"); err != nil {
		t.Fatalf("UpdateBatch: %v", err)
	}

	if _, err := ws.CreateBatch("Table 1", 0, 0); err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}

	g := ws.Grid("Table 1")
	if got := g.Assignment(0, 0, 0).Course; got != "Algorithms" {
		t.Fatalf("existing assignment changed: %q", got)
	}
	if !g.Assignment(0, 0, 1).IsEmpty() {
		t.Fatal("new batch should start empty")
	}
}

func TestUpdateBatchFieldsAndErrors(t *testing.T) {
	ws := NewWorkspace(nil, []string{"9:00"}, 0)

	for _, f := range []Field{FieldCourse, FieldTeacher, FieldRoom, FieldBatchName} {
		if _, err := ws.UpdateBatch("Table 1", 0, 0, 0, f, "v"); err != nil {
			t.Fatalf("UpdateBatch(%s): %v", f, err)
		}
	}
	a := ws.Grid("Table 1").Assignment(0, 0, 0)
	if a.Course != "v" || a.Teacher != "v" || a.Room != "v" || a.BatchName != "v" {
		t.Fatalf("assignment = %+v", a)
	}

	if _, err := ws.UpdateBatch("Table 1", 0, 0, 1, FieldCourse, "x"); !errors.Is(err, ErrBatchRange) {
		t.Fatalf("out-of-range err = %v, want ErrBatchRange", err)
	}
	if _, err := ws.UpdateBatch("Table 1", 0, 0, 0, Field("color"), "x"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("unknown field err = %v, want ErrUnknownField", err)
	}
}

func TestUpdateBatchReturnsConflictReportForTeacherAndRoom(t *testing.T) {
	ws := NewWorkspace(nil, []string{"9:00"}, 0)
	ws.EnsureTable("Table 1")
	ws.EnsureTable("Table 2")

	if _, err := ws.UpdateBatch("Table 1", 0, 0, 0, FieldTeacher, "Smith"); err != nil {
		t.Fatalf("UpdateBatch: %v", err)
	}

	report, err := ws.UpdateBatch("Table 2", 0, 0, 0, FieldTeacher, "smith")
	if err != nil {
		t.Fatalf("UpdateBatch: %v", err)
	}
	if report == nil || !report.Teacher.Conflict {
		t.Fatalf("expected teacher conflict, got %+v", report)
	}

	// Course edits carry no report.
	report, err = ws.UpdateBatch("Table 2", 0, 0, 0, FieldCourse, "Algo")
	if err != nil {
		t.Fatalf("UpdateBatch: %v", err)
	}
	if report != nil {
		t.Fatalf("course edit returned report %+v", report)
	}
}

func TestTableIDNormalization(t *testing.T) {
	ws := NewWorkspace(nil, []string{"9:00"}, 0)
	ws.EnsureTable("  Table   1 ")
	ws.EnsureTable("Table 1")
	ws.EnsureTable("")

	if got := len(ws.Tables()); got != 1 {
		t.Fatalf("tables = %v", ws.Tables())
	}
	if ws.Tables()[0] != "Table 1" {
		t.Fatalf("table id = %q", ws.Tables()[0])
	}
}
