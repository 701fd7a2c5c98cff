package model

import (
	"fmt"
	"time"
)

// TimetableMeta is the persisted timetable document: identity, axis
// labels, and bookkeeping timestamps. Table names are intentionally
// absent — the table list is derived from the occurrence set on load.
type TimetableMeta struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Class     string    `json:"class"`
	Branch    string    `json:"branch"`
	Semester  string    `json:"semester"`
	Kind      string    `json:"kind"`
	Days      []string  `json:"days"`
	TimeSlots []string  `json:"time_slots"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Occurrence is the persisted record of one non-empty batch assignment.
// Day and TimeLabel are denormalized copies of the axis labels at the
// occurrence's coordinates so a flat occurrence list is self-describing.
type Occurrence struct {
	TimetableID string `json:"timetable_id"`
	TableID     string `json:"table_id"`
	Row         int    `json:"row_index"`
	Col         int    `json:"col_index"`
	Batch       int    `json:"batch_index"`
	Day         string `json:"day"`
	TimeLabel   string `json:"time"`
	Class       string `json:"class"`
	Branch      string `json:"branch"`
	BatchName   string `json:"batch"`
	Course      string `json:"course"`
	Teacher     string `json:"teacher"`
	Room        string `json:"room"`
}

// OccurrenceKey identifies one occurrence slot. Two occurrences with
// equal keys describe the same batch position of the same timetable.
type OccurrenceKey struct {
	TimetableID string
	TableID     string
	Row         int
	Col         int
	Batch       int
}

// Key returns the occurrence's identity key.
func (o Occurrence) Key() OccurrenceKey {
	return OccurrenceKey{
		TimetableID: o.TimetableID,
		TableID:     o.TableID,
		Row:         o.Row,
		Col:         o.Col,
		Batch:       o.Batch,
	}
}

// String renders the key in the flat form used for logging and as the
// document id in stores that want a single string key.
func (k OccurrenceKey) String() string {
	return fmt.Sprintf("%s__%s-%d-%d-%d", k.TimetableID, k.TableID, k.Row, k.Col, k.Batch)
}
