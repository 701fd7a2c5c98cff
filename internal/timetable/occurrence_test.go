package timetable

import (
	"testing"

	"github.com/planovate/planovate-backend/internal/model"
)

func TestBuildOccurrencesSkipsEmptyBatches(t *testing.T) {
	ws := NewWorkspace(nil, []string{"9:00", "10:00"}, 0)
	mustUpdate(t, ws, "Table 1", 0, 0, 0, FieldTeacher, "Smith")
	mustUpdate(t, ws, "Table 1", 0, 0, 0, FieldCourse, "Algorithms")
	ws.EnsureTable("Table 2")
	mustUpdate(t, ws, "Table 2", 1, 3, 0, FieldRoom, "R2")

	meta := &model.TimetableMeta{Class: " CS ", Branch: "A"}
	occs := BuildOccurrences("tt_cs__a__3", meta, ws)

	if len(occs) != 2 {
		t.Fatalf("occurrences = %d, want 2", len(occs))
	}
	first := occs[0]
	if first.TableID != "Table 1" || first.Row != 0 || first.Col != 0 || first.Batch != 0 {
		t.Fatalf("first occurrence = %+v", first)
	}
	if first.Day != "Mon" || first.TimeLabel != "9:00" {
		t.Fatalf("labels = %q/%q", first.Day, first.TimeLabel)
	}
	if first.Class != "CS" || first.Branch != "A" {
		t.Fatalf("identity fields not normalized: %+v", first)
	}
	second := occs[1]
	if second.TableID != "Table 2" || second.Day != "Thu" || second.TimeLabel != "10:00" {
		t.Fatalf("second occurrence = %+v", second)
	}
}

func TestRoundTripSparseBatchIndices(t *testing.T) {
	// One cell split into 3 batches with indices 0 and 2 populated and
	// index 1 left empty. The empty batch is never persisted, but the
	// reloaded count must still be 3, with index 1 all-empty.
	ws := NewWorkspace(nil, []string{"9:00"}, 0)
	for i := 0; i < 2; i++ {
		if _, err := ws.CreateBatch("Table 1", 0, 0); err != nil {
			t.Fatalf("CreateBatch: %v", err)
		}
	}
	mustUpdate(t, ws, "Table 1", 0, 0, 0, FieldTeacher, "Smith")
	mustUpdate(t, ws, "Table 1", 0, 0, 2, FieldTeacher, "Jones")
	ws.EnsureTable("Table 2")
	mustUpdate(t, ws, "Table 2", 0, 1, 0, FieldCourse, "Physics")

	occs := BuildOccurrences("tt_cs__a__3", nil, ws)
	if len(occs) != 3 {
		t.Fatalf("occurrences = %d, want 3 (2 tables, empty middle batch skipped)", len(occs))
	}

	loaded := ReconstructWorkspace(nil, []string{"9:00"}, occs, 0)

	if got := loaded.Tables(); len(got) != 2 || got[0] != "Table 1" || got[1] != "Table 2" {
		t.Fatalf("derived tables = %v", got)
	}
	if got := loaded.BatchCount("Table 1", 0, 0); got != 3 {
		t.Fatalf("reloaded count = %d, want 3 (max index + 1)", got)
	}

	g := loaded.Grid("Table 1")
	if got := g.Assignment(0, 0, 0).Teacher; got != "Smith" {
		t.Fatalf("batch 0 teacher = %q", got)
	}
	if !g.Assignment(0, 0, 1).IsEmpty() {
		t.Fatal("missing middle batch should reconstruct all-empty")
	}
	if got := g.Assignment(0, 0, 2).Teacher; got != "Jones" {
		t.Fatalf("batch 2 teacher = %q", got)
	}
}

func TestReconstructEmptyOccurrenceSet(t *testing.T) {
	ws := ReconstructWorkspace(nil, []string{"9:00"}, nil, 0)
	if got := ws.Tables(); len(got) != 1 || got[0] != DefaultTableID {
		t.Fatalf("tables = %v, want the default table", got)
	}
}

func TestTableListIsAProjectionOfOccurrences(t *testing.T) {
	occs := []model.Occurrence{
		{TableID: "Section B", Row: 0, Col: 0, Batch: 0, Course: "x"},
		{TableID: "Section A", Row: 0, Col: 1, Batch: 0, Course: "y"},
		{TableID: "Section B", Row: 0, Col: 2, Batch: 1, Course: "z"},
	}
	ws := ReconstructWorkspace(nil, []string{"9:00"}, occs, 0)

	got := ws.Tables()
	if len(got) != 2 || got[0] != "Section A" || got[1] != "Section B" {
		t.Fatalf("derived tables = %v", got)
	}
	if count := ws.BatchCount("Section B", 0, 2); count != 2 {
		t.Fatalf("Section B count = %d, want 2", count)
	}
}
