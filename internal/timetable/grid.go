package timetable

import (
	"errors"
	"fmt"
)

// DefaultMaxBatches caps how far a cell can be split. The grid itself
// has no structural limit; the cap protects clients from runaway
// splitting and is configurable per workspace.
const DefaultMaxBatches = 8

// DefaultTableID names the implicit first table of a timetable.
const DefaultTableID = "Table 1"

var (
	// ErrBatchLimit is returned when CreateBatch would exceed the
	// workspace's batch cap.
	ErrBatchLimit = errors.New("cell batch limit reached")
	// ErrBatchRange is returned when an edit addresses a batch index at
	// or beyond the cell's current count.
	ErrBatchRange = errors.New("batch index out of range")
	// ErrUnknownField is returned for a field name outside the
	// assignment schema.
	ErrUnknownField = errors.New("unknown assignment field")
)

// Field names one editable assignment field.
type Field string

const (
	FieldCourse    Field = "course"
	FieldTeacher   Field = "teacher"
	FieldRoom      Field = "room"
	FieldBatchName Field = "batch_name"
)

// Assignment holds the free-text contents of one batch slot. Values
// are plain identifiers, not foreign keys; matching elsewhere is by
// normalized string equality.
type Assignment struct {
	Course    string `json:"course"`
	Teacher   string `json:"teacher"`
	Room      string `json:"room"`
	BatchName string `json:"batch_name"`
}

// IsEmpty reports whether every field normalizes to blank. Empty
// assignments are never persisted.
func (a Assignment) IsEmpty() bool {
	return Normalize(a.Course) == "" &&
		Normalize(a.Teacher) == "" &&
		Normalize(a.Room) == "" &&
		Normalize(a.BatchName) == ""
}

func (a *Assignment) set(field Field, value string) error {
	switch field {
	case FieldCourse:
		a.Course = value
	case FieldTeacher:
		a.Teacher = value
	case FieldRoom:
		a.Room = value
	case FieldBatchName:
		a.BatchName = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

// Grid is one table's sparse cell state: explicit batch counts for
// split cells and assignments for touched batch slots. A cell absent
// from counts is UNSPLIT (count 1).
type Grid struct {
	counts map[CellRef]int
	data   map[BatchRef]Assignment
}

// NewGrid returns an empty grid.
func NewGrid() *Grid {
	return &Grid{
		counts: make(map[CellRef]int),
		data:   make(map[BatchRef]Assignment),
	}
}

// BatchCount returns the cell's batch count, defaulting to 1 for cells
// that were never split.
func (g *Grid) BatchCount(row, col int) int {
	if n, ok := g.counts[CellRef{Row: row, Col: col}]; ok && n > 0 {
		return n
	}
	return 1
}

// Assignment returns the stored assignment for a batch slot, or the
// zero assignment when the slot was never touched.
func (g *Grid) Assignment(row, col, batch int) Assignment {
	return g.data[BatchRef{Row: row, Col: col, Batch: batch}]
}

// SetCount overwrites a cell's batch count directly. Used when
// reconstructing a grid from persisted occurrences, which is the only
// path that can shrink a count.
func (g *Grid) SetCount(row, col, count int) {
	if count < 1 {
		count = 1
	}
	g.counts[CellRef{Row: row, Col: col}] = count
}

// SetAssignment overwrites a batch slot wholesale.
func (g *Grid) SetAssignment(row, col, batch int, a Assignment) {
	g.data[BatchRef{Row: row, Col: col, Batch: batch}] = a
}

// Workspace is one editing session's full in-memory state: the shared
// day/time axes plus one grid per table. Tables are independent grids
// sharing the same axes; they share a teacher/room pool only in the
// sense that the conflict detector scans all of them.
type Workspace struct {
	Days       []string
	TimeSlots  []string
	tableOrder []string
	grids      map[string]*Grid
	maxBatches int
}

// NewWorkspace creates a workspace with the given axes. Nil or empty
// days fall back to Mon..Sat. maxBatches <= 0 selects the default cap.
func NewWorkspace(days, timeSlots []string, maxBatches int) *Workspace {
	if len(days) == 0 {
		days = append([]string(nil), DefaultDays...)
	}
	if maxBatches <= 0 {
		maxBatches = DefaultMaxBatches
	}
	return &Workspace{
		Days:       days,
		TimeSlots:  append([]string(nil), timeSlots...),
		grids:      make(map[string]*Grid),
		maxBatches: maxBatches,
	}
}

// Tables returns the table ids in creation order.
func (w *Workspace) Tables() []string {
	return append([]string(nil), w.tableOrder...)
}

// Grid returns the grid for a table id, or nil if the table does not
// exist.
func (w *Workspace) Grid(tableID string) *Grid {
	return w.grids[canonTableID(tableID)]
}

func canonTableID(tableID string) string {
	id := Normalize(tableID)
	if id == "" {
		id = DefaultTableID
	}
	return id
}

// EnsureTable returns the table's grid, creating it on first use.
// Normalizes the id so " Table  1 " and "Table 1" are one table.
func (w *Workspace) EnsureTable(tableID string) *Grid {
	id := canonTableID(tableID)
	if g, ok := w.grids[id]; ok {
		return g
	}
	g := NewGrid()
	w.grids[id] = g
	w.tableOrder = append(w.tableOrder, id)
	return g
}

// AddTimeSlot appends a time-slot label to the row axis. The axis only
// grows; existing cell keys stay valid because the grid is sparse.
func (w *Workspace) AddTimeSlot(label string) {
	w.TimeSlots = append(w.TimeSlots, Normalize(label))
}

// CreateBatch splits a cell one step further: count goes from its
// current value (implicitly 1) to current+1. Existing assignments are
// untouched; the new batch starts all-empty. Counts never decrease
// through this path — shrinking only happens when a save reconciles
// against fewer persisted occurrences.
func (w *Workspace) CreateBatch(tableID string, row, col int) (int, error) {
	g := w.EnsureTable(tableID)
	count := g.BatchCount(row, col)
	if count >= w.maxBatches {
		return count, fmt.Errorf("%w (max %d)", ErrBatchLimit, w.maxBatches)
	}
	count++
	g.SetCount(row, col, count)
	return count, nil
}

// BatchCount returns the batch count at a cell, 1 when the table or
// cell is unknown.
func (w *Workspace) BatchCount(tableID string, row, col int) int {
	g := w.grids[canonTableID(tableID)]
	if g == nil {
		return 1
	}
	return g.BatchCount(row, col)
}

// UpdateBatch sets one field of one batch's assignment, creating the
// assignment record if absent. For teacher and room edits it also
// returns the conflict report for that exact position and field,
// evaluated against the new value; the edit is committed either way —
// conflicts are advisory, never blocking.
func (w *Workspace) UpdateBatch(tableID string, row, col, batch int, field Field, value string) (*ConflictReport, error) {
	g := w.EnsureTable(tableID)
	if batch < 0 || batch >= g.BatchCount(row, col) {
		return nil, fmt.Errorf("%w: %d of %d", ErrBatchRange, batch, g.BatchCount(row, col))
	}

	ref := BatchRef{Row: row, Col: col, Batch: batch}
	a := g.data[ref]
	if err := a.set(field, value); err != nil {
		return nil, err
	}
	g.data[ref] = a

	if field != FieldTeacher && field != FieldRoom {
		return nil, nil
	}
	report := CheckConflicts(w, BatchPos{TableID: canonTableID(tableID), Row: row, Col: col, Batch: batch}, field, value)
	return &report, nil
}
