package timetable

import (
	"fmt"
	"sort"
)

// TableWire is the JSON form of one table's grid as clients send and
// receive it: batch counts keyed by "row-col" and assignments keyed by
// "row-col-batch". Internally both maps use comparable struct keys;
// the string keys exist only at the wire boundary.
type TableWire struct {
	Batches map[string]int        `json:"batches"`
	Data    map[string]Assignment `json:"data"`
}

// Wire renders the workspace's grids in wire form, one entry per table.
func (w *Workspace) Wire() map[string]TableWire {
	out := make(map[string]TableWire, len(w.tableOrder))
	for _, tableID := range w.tableOrder {
		g := w.grids[tableID]
		tw := TableWire{
			Batches: make(map[string]int, len(g.counts)),
			Data:    make(map[string]Assignment, len(g.data)),
		}
		for cell, count := range g.counts {
			tw.Batches[CellKey(cell.Row, cell.Col)] = count
		}
		for ref, a := range g.data {
			tw.Data[DataKey(ref.Row, ref.Col, ref.Batch)] = a
		}
		out[tableID] = tw
	}
	return out
}

// WorkspaceFromWire builds a workspace from wire-form grids. Malformed
// keys are rejected rather than skipped so a client bug cannot silently
// drop cells.
func WorkspaceFromWire(days, timeSlots []string, tables map[string]TableWire, maxBatches int) (*Workspace, error) {
	ws := NewWorkspace(days, timeSlots, maxBatches)

	tableIDs := make([]string, 0, len(tables))
	for tableID := range tables {
		tableIDs = append(tableIDs, tableID)
	}
	sort.Strings(tableIDs)

	for _, tableID := range tableIDs {
		tw := tables[tableID]
		g := ws.EnsureTable(tableID)
		for key, count := range tw.Batches {
			cell, err := ParseCellKey(key)
			if err != nil {
				return nil, fmt.Errorf("table %q: %w", tableID, err)
			}
			g.SetCount(cell.Row, cell.Col, count)
		}
		for key, a := range tw.Data {
			ref, err := ParseDataKey(key)
			if err != nil {
				return nil, fmt.Errorf("table %q: %w", tableID, err)
			}
			g.SetAssignment(ref.Row, ref.Col, ref.Batch, a)
		}
	}
	return ws, nil
}
