package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/planovate/planovate-backend/internal/model"
	"github.com/planovate/planovate-backend/internal/timetable"
)

// fakeScheduleStore is an in-memory ScheduleStore keyed by occurrence
// identity, mimicking the document-store semantics of the real one.
type fakeScheduleStore struct {
	rows        map[model.OccurrenceKey]model.Occurrence
	upsertCalls int
	deleteCalls int
	failUpserts bool
}

func newFakeScheduleStore() *fakeScheduleStore {
	return &fakeScheduleStore{rows: make(map[model.OccurrenceKey]model.Occurrence)}
}

func (f *fakeScheduleStore) OccurrencesByTimetable(_ context.Context, timetableID string) ([]model.Occurrence, error) {
	var out []model.Occurrence
	for _, o := range f.rows {
		if o.TimetableID == timetableID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeScheduleStore) UpsertOccurrences(_ context.Context, occurrences []model.Occurrence) error {
	f.upsertCalls++
	if f.failUpserts {
		return errors.New("store unavailable")
	}
	for _, o := range occurrences {
		f.rows[o.Key()] = o
	}
	return nil
}

func (f *fakeScheduleStore) DeleteOccurrences(_ context.Context, keys []model.OccurrenceKey) error {
	f.deleteCalls++
	for _, k := range keys {
		delete(f.rows, k)
	}
	return nil
}

type fakeMetaStore struct {
	metas map[string]model.TimetableMeta
}

func newFakeMetaStore() *fakeMetaStore {
	return &fakeMetaStore{metas: make(map[string]model.TimetableMeta)}
}

func (f *fakeMetaStore) MetaByID(_ context.Context, id string) (*model.TimetableMeta, error) {
	if m, ok := f.metas[id]; ok {
		copied := m
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeMetaStore) UpsertMeta(_ context.Context, m *model.TimetableMeta) error {
	f.metas[m.ID] = *m
	return nil
}

func (f *fakeMetaStore) ListMetas(_ context.Context, class, branch, semester string, _ int) ([]model.TimetableMeta, error) {
	var out []model.TimetableMeta
	for _, m := range f.metas {
		if (class == "" || m.Class == class) &&
			(branch == "" || m.Branch == branch) &&
			(semester == "" || m.Semester == semester) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMetaStore) DeleteMeta(_ context.Context, id string) error {
	delete(f.metas, id)
	return nil
}

func newTestService(schedules *fakeScheduleStore, metas *fakeMetaStore) *TimetableService {
	return NewTimetableService(schedules, metas, nil, 0, zerolog.Nop())
}

func testMeta() *model.TimetableMeta {
	return &model.TimetableMeta{Class: "CS", Branch: "A", Semester: "3"}
}

func populatedWorkspace(t *testing.T, svc *TimetableService) *timetable.Workspace {
	t.Helper()
	ws := svc.NewWorkspace(nil, []string{"9:00", "10:00"})
	for i := 0; i < 2; i++ {
		if _, err := ws.CreateBatch("Table 1", 0, 0); err != nil {
			t.Fatalf("CreateBatch: %v", err)
		}
	}
	for batch := 0; batch < 3; batch++ {
		if _, err := ws.UpdateBatch("Table 1", 0, 0, batch, timetable.FieldTeacher, "T"+string(rune('A'+batch))); err != nil {
			t.Fatalf("UpdateBatch: %v", err)
		}
	}
	return ws
}

func TestSaveRejectsMissingIdentity(t *testing.T) {
	schedules := newFakeScheduleStore()
	svc := newTestService(schedules, newFakeMetaStore())

	ws := svc.NewWorkspace(nil, []string{"9:00"})
	_, err := svc.Save(context.Background(), &model.TimetableMeta{Class: "CS"}, ws)
	if !errors.Is(err, timetable.ErrMissingIdentity) {
		t.Fatalf("err = %v, want ErrMissingIdentity", err)
	}
	// Validation happens before any I/O.
	if schedules.upsertCalls != 0 {
		t.Fatal("store touched despite validation failure")
	}
}

func TestSavePersistsOccurrencesAndMeta(t *testing.T) {
	schedules := newFakeScheduleStore()
	metas := newFakeMetaStore()
	svc := newTestService(schedules, metas)

	ws := populatedWorkspace(t, svc)
	id, err := svc.Save(context.Background(), testMeta(), ws)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if id != "tt_cs__a__3" {
		t.Fatalf("id = %q", id)
	}
	if len(schedules.rows) != 3 {
		t.Fatalf("stored occurrences = %d, want 3", len(schedules.rows))
	}
	meta := metas.metas[id]
	if meta.Class != "CS" || len(meta.Days) != 6 || len(meta.TimeSlots) != 2 {
		t.Fatalf("stored meta = %+v", meta)
	}
}

func TestSaveDeletesOrphans(t *testing.T) {
	schedules := newFakeScheduleStore()
	svc := newTestService(schedules, newFakeMetaStore())
	ctx := context.Background()

	ws := populatedWorkspace(t, svc)
	if _, err := svc.Save(ctx, testMeta(), ws); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if len(schedules.rows) != 3 {
		t.Fatalf("stored = %d, want 3", len(schedules.rows))
	}

	// Same cell reduced to a single populated batch: clearing the upper
	// batches must delete their persisted rows.
	shrunk := svc.NewWorkspace(nil, []string{"9:00", "10:00"})
	if _, err := shrunk.UpdateBatch("Table 1", 0, 0, 0, timetable.FieldTeacher, "TA"); err != nil {
		t.Fatalf("UpdateBatch: %v", err)
	}
	if _, err := svc.Save(ctx, testMeta(), shrunk); err != nil {
		t.Fatalf("second save: %v", err)
	}

	if len(schedules.rows) != 1 {
		t.Fatalf("stored after shrink = %d, want 1 (indices 1 and 2 deleted)", len(schedules.rows))
	}
	for k := range schedules.rows {
		if k.Batch != 0 {
			t.Fatalf("surviving row has batch %d, want 0", k.Batch)
		}
	}
}

func TestSaveKeepsUntouchedRowsStable(t *testing.T) {
	// Diff-based reconciliation, not delete-all-then-insert: a second
	// identical save issues no deletes.
	schedules := newFakeScheduleStore()
	svc := newTestService(schedules, newFakeMetaStore())
	ctx := context.Background()

	ws := populatedWorkspace(t, svc)
	if _, err := svc.Save(ctx, testMeta(), ws); err != nil {
		t.Fatalf("first save: %v", err)
	}
	deletesBefore := schedules.deleteCalls

	if _, err := svc.Save(ctx, testMeta(), ws); err != nil {
		t.Fatalf("second save: %v", err)
	}
	if schedules.deleteCalls != deletesBefore {
		t.Fatal("identical save issued deletes")
	}
	if len(schedules.rows) != 3 {
		t.Fatalf("stored = %d, want 3", len(schedules.rows))
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	schedules := newFakeScheduleStore()
	metas := newFakeMetaStore()
	svc := newTestService(schedules, metas)
	ctx := context.Background()

	// Two tables, one cell split into 3 with indices 0 and 2 populated.
	ws := svc.NewWorkspace(nil, []string{"9:00"})
	for i := 0; i < 2; i++ {
		if _, err := ws.CreateBatch("Table 1", 0, 0); err != nil {
			t.Fatalf("CreateBatch: %v", err)
		}
	}
	mustEdit := func(table string, row, col, batch int, f timetable.Field, v string) {
		t.Helper()
		if _, err := ws.UpdateBatch(table, row, col, batch, f, v); err != nil {
			t.Fatalf("UpdateBatch: %v", err)
		}
	}
	mustEdit("Table 1", 0, 0, 0, timetable.FieldTeacher, "Smith")
	mustEdit("Table 1", 0, 0, 2, timetable.FieldTeacher, "Jones")
	mustEdit("Table 2", 0, 1, 0, timetable.FieldCourse, "Physics")

	id, err := svc.Save(ctx, testMeta(), ws)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if len(schedules.rows) != 3 {
		t.Fatalf("stored = %d, want 3 (empty middle batch never persisted)", len(schedules.rows))
	}

	loaded, err := svc.Load(ctx, id)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := loaded.Workspace
	if tables := got.Tables(); len(tables) != 2 {
		t.Fatalf("derived tables = %v", tables)
	}
	if count := got.BatchCount("Table 1", 0, 0); count != 3 {
		t.Fatalf("reloaded count = %d, want 3", count)
	}
	g := got.Grid("Table 1")
	if !g.Assignment(0, 0, 1).IsEmpty() {
		t.Fatal("middle batch should reload all-empty")
	}
	if g.Assignment(0, 0, 2).Teacher != "Jones" {
		t.Fatalf("batch 2 = %+v", g.Assignment(0, 0, 2))
	}
}

func TestLoadUnknownTimetable(t *testing.T) {
	svc := newTestService(newFakeScheduleStore(), newFakeMetaStore())
	if _, err := svc.Load(context.Background(), "tt_nope__x__1"); !errors.Is(err, ErrTimetableNotFound) {
		t.Fatalf("err = %v, want ErrTimetableNotFound", err)
	}
}

func TestSaveSurfacesStoreErrors(t *testing.T) {
	schedules := newFakeScheduleStore()
	schedules.failUpserts = true
	svc := newTestService(schedules, newFakeMetaStore())

	ws := populatedWorkspace(t, svc)
	if _, err := svc.Save(context.Background(), testMeta(), ws); err == nil {
		t.Fatal("store failure swallowed")
	}
}

func TestDeleteRemovesOccurrencesThenMeta(t *testing.T) {
	schedules := newFakeScheduleStore()
	metas := newFakeMetaStore()
	svc := newTestService(schedules, metas)
	ctx := context.Background()

	ws := populatedWorkspace(t, svc)
	id, err := svc.Save(ctx, testMeta(), ws)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := svc.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(schedules.rows) != 0 {
		t.Fatalf("occurrences left: %d", len(schedules.rows))
	}
	if _, ok := metas.metas[id]; ok {
		t.Fatal("meta row left")
	}
}

func TestListFiltersByIdentity(t *testing.T) {
	schedules := newFakeScheduleStore()
	metas := newFakeMetaStore()
	svc := newTestService(schedules, metas)
	ctx := context.Background()

	ws := svc.NewWorkspace(nil, []string{"9:00"})
	if _, err := svc.Save(ctx, testMeta(), ws); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := svc.Save(ctx, &model.TimetableMeta{Class: "EE", Branch: "B", Semester: "1"}, ws); err != nil {
		t.Fatalf("Save: %v", err)
	}

	all, err := svc.List(ctx, "", "", "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("all = %d, want 2", len(all))
	}

	cs, err := svc.List(ctx, " CS ", "", "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(cs) != 1 || cs[0].Class != "CS" {
		t.Fatalf("filtered = %+v", cs)
	}
}
