package timetable

import (
	"sort"

	"github.com/planovate/planovate-backend/internal/model"
)

// BuildOccurrences flattens a workspace snapshot into the occurrence
// list the reconciler persists: one record per non-empty batch slot,
// iterating every table over the full day/time axes. Empty assignments
// produce nothing — they simply do not exist as occurrences.
func BuildOccurrences(timetableID string, meta *model.TimetableMeta, ws *Workspace) []model.Occurrence {
	days := ws.Days
	if len(days) == 0 {
		days = DefaultDays
	}

	var class, branch string
	if meta != nil {
		class = Normalize(meta.Class)
		branch = Normalize(meta.Branch)
	}

	var occurrences []model.Occurrence
	for _, tableID := range ws.Tables() {
		g := ws.Grid(tableID)
		if g == nil {
			continue
		}
		for row := range ws.TimeSlots {
			for col := range days {
				count := g.BatchCount(row, col)
				for batch := 0; batch < count; batch++ {
					a := g.Assignment(row, col, batch)
					if a.IsEmpty() {
						continue
					}
					occurrences = append(occurrences, model.Occurrence{
						TimetableID: timetableID,
						TableID:     Normalize(tableID),
						Row:         row,
						Col:         col,
						Batch:       batch,
						Day:         Normalize(days[col]),
						TimeLabel:   Normalize(ws.TimeSlots[row]),
						Class:       class,
						Branch:      branch,
						BatchName:   Normalize(a.BatchName),
						Course:      Normalize(a.Course),
						Teacher:     Normalize(a.Teacher),
						Room:        Normalize(a.Room),
					})
				}
			}
		}
	}
	return occurrences
}

// ReconstructWorkspace rebuilds grids from a flat occurrence list. Per
// (table, cell) the batch count is the highest batchIndex+1 seen, so a
// cell persisted only at indices 0 and 2 comes back with count 3 and an
// all-empty batch at index 1. The table list is purely a projection of
// the distinct table ids in the occurrence set — never stored metadata —
// sorted for a deterministic order, with the default table when the set
// is empty.
func ReconstructWorkspace(days, timeSlots []string, occurrences []model.Occurrence, maxBatches int) *Workspace {
	ws := NewWorkspace(days, timeSlots, maxBatches)

	tableIDs := make([]string, 0)
	seen := make(map[string]bool)
	for _, o := range occurrences {
		id := canonTableID(o.TableID)
		if !seen[id] {
			seen[id] = true
			tableIDs = append(tableIDs, id)
		}
	}
	sort.Strings(tableIDs)
	if len(tableIDs) == 0 {
		tableIDs = []string{DefaultTableID}
	}
	for _, id := range tableIDs {
		ws.EnsureTable(id)
	}

	for _, o := range occurrences {
		g := ws.EnsureTable(o.TableID)
		if have := g.BatchCount(o.Row, o.Col); o.Batch+1 > have {
			g.SetCount(o.Row, o.Col, o.Batch+1)
		}
		g.SetAssignment(o.Row, o.Col, o.Batch, Assignment{
			Course:    o.Course,
			Teacher:   o.Teacher,
			Room:      o.Room,
			BatchName: o.BatchName,
		})
	}
	return ws
}
