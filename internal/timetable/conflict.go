package timetable

// BatchPos locates the batch slot being edited when checking for
// conflicts.
type BatchPos struct {
	TableID string
	Row     int
	Col     int
	Batch   int
}

// Entry is one colliding batch slot in a conflict report, carrying
// enough context to render "which other cell clashes".
type Entry struct {
	TableID string `json:"table_id"`
	Row     int    `json:"row_index"`
	Col     int    `json:"col_index"`
	Batch   int    `json:"batch_index"`
	Teacher string `json:"teacher"`
	Room    string `json:"room"`
}

// FieldReport is the conflict verdict for one resource dimension.
// Matches holds the full colliding set, the edited slot included, so
// len(Matches) > 1 iff Conflict.
type FieldReport struct {
	Conflict bool    `json:"conflict"`
	Matches  []Entry `json:"matches"`
}

// ConflictReport annotates one prospective edit with teacher and room
// collisions at the edited (row, col). Conflicts are warnings, not
// errors: the edit that produced them is still committed.
type ConflictReport struct {
	Teacher FieldReport `json:"teacher"`
	Room    FieldReport `json:"room"`
}

// CheckConflicts evaluates the prospective state of one cell edit
// across every table in the workspace. Only batch slots at the same
// (row, col) are compared — two different time slots cannot conflict.
// The candidate value is substituted into the target slot's edited
// field before comparison, so the verdict reflects the edit before the
// grid is mutated. Pure over the provided state; cannot fail.
func CheckConflicts(ws *Workspace, target BatchPos, field Field, candidate string) ConflictReport {
	targetTable := canonTableID(target.TableID)

	type entry struct {
		Entry
		isTarget bool
	}

	var entries []entry
	tables := ws.Tables()
	seen := false
	for _, tableID := range tables {
		if tableID == targetTable {
			seen = true
			break
		}
	}
	if !seen {
		tables = append(tables, targetTable)
	}
	for _, tableID := range tables {
		g := ws.Grid(tableID)
		count := 1
		if g != nil {
			count = g.BatchCount(target.Row, target.Col)
		}
		if tableID == targetTable && count <= target.Batch {
			count = target.Batch + 1
		}
		for batch := 0; batch < count; batch++ {
			var a Assignment
			if g != nil {
				a = g.Assignment(target.Row, target.Col, batch)
			}
			e := entry{Entry: Entry{
				TableID: tableID,
				Row:     target.Row,
				Col:     target.Col,
				Batch:   batch,
				Teacher: a.Teacher,
				Room:    a.Room,
			}}
			if tableID == targetTable && batch == target.Batch {
				e.isTarget = true
				switch field {
				case FieldTeacher:
					e.Teacher = candidate
				case FieldRoom:
					e.Room = candidate
				}
			}
			entries = append(entries, e)
		}
	}

	// Needles come from the target's prospective state. An unfilled
	// field is not a booking, so an empty needle never matches.
	var teacherNeedle, roomNeedle string
	for _, e := range entries {
		if e.isTarget {
			teacherNeedle = Fold(e.Teacher)
			roomNeedle = Fold(e.Room)
			break
		}
	}
	if field == FieldTeacher {
		teacherNeedle = Fold(candidate)
	}
	if field == FieldRoom {
		roomNeedle = Fold(candidate)
	}

	collect := func(needle string, value func(Entry) string) FieldReport {
		if needle == "" {
			return FieldReport{Matches: []Entry{}}
		}
		matches := []Entry{}
		for _, e := range entries {
			if Fold(value(e.Entry)) == needle {
				matches = append(matches, e.Entry)
			}
		}
		return FieldReport{Conflict: len(matches) > 1, Matches: matches}
	}

	return ConflictReport{
		Teacher: collect(teacherNeedle, func(e Entry) string { return e.Teacher }),
		Room:    collect(roomNeedle, func(e Entry) string { return e.Room }),
	}
}
