package websocket

import "github.com/planovate/planovate-backend/internal/timetable"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionInit        Action = "init"
	ActionAddTable    Action = "add_table"
	ActionAddTimeSlot Action = "add_time_slot"
	ActionCreateBatch Action = "create_batch"
	ActionUpdateBatch Action = "update_batch"
	ActionCheck       Action = "check"
	ActionSave        Action = "save"
	ActionPing        Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// MetaPayload carries the timetable identity and display name.
type MetaPayload struct {
	Name     string `json:"name"`
	Class    string `json:"class"`
	Branch   string `json:"branch"`
	Semester string `json:"semester"`
	Kind     string `json:"kind"`
}

// InitRequest opens an editing session. With Load set the session
// starts from the persisted timetable matching the identity tuple;
// otherwise it starts from an empty workspace with the given axes.
type InitRequest struct {
	Action    Action      `json:"action"`
	Meta      MetaPayload `json:"meta"`
	TimeSlots []string    `json:"time_slots"`
	Load      bool        `json:"load"`
}

// AddTableRequest adds an independent grid to the session.
type AddTableRequest struct {
	Action  Action `json:"action"`
	TableID string `json:"table_id"`
}

// AddTimeSlotRequest appends a row label to the time axis.
type AddTimeSlotRequest struct {
	Action Action `json:"action"`
	Label  string `json:"label"`
}

// CreateBatchRequest splits a cell one step further.
type CreateBatchRequest struct {
	Action  Action `json:"action"`
	TableID string `json:"table_id"`
	Row     int    `json:"row_index"`
	Col     int    `json:"col_index"`
}

// UpdateBatchRequest sets one field of one batch's assignment.
type UpdateBatchRequest struct {
	Action  Action `json:"action"`
	TableID string `json:"table_id"`
	Row     int    `json:"row_index"`
	Col     int    `json:"col_index"`
	Batch   int    `json:"batch_index"`
	Field   string `json:"field"`
	Value   string `json:"value"`
}

// CheckRequest asks for a conflict report without mutating the grid.
type CheckRequest struct {
	Action  Action `json:"action"`
	TableID string `json:"table_id"`
	Row     int    `json:"row_index"`
	Col     int    `json:"col_index"`
	Batch   int    `json:"batch_index"`
	Field   string `json:"field"`
	Value   string `json:"value"`
}

// SaveRequest persists the session's workspace through the reconciler.
type SaveRequest struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventReady     Event = "ready"
	EventGrid      Event = "grid"
	EventConflicts Event = "conflicts"
	EventSaved     Event = "saved"
	EventError     Event = "error"
	EventPong      Event = "pong"
)

// ReadyResponse describes the session's full state after init. Grids
// use the wire form of the grid model ("row-col" keyed counts,
// "row-col-batch" keyed assignments).
type ReadyResponse struct {
	Event       Event                          `json:"event"`
	TimetableID string                         `json:"timetable_id"`
	Days        []string                       `json:"days"`
	TimeSlots   []string                       `json:"time_slots"`
	Tables      []string                       `json:"tables"`
	Grids       map[string]timetable.TableWire `json:"grids"`
}

// GridResponse reports a structural change to one cell.
type GridResponse struct {
	Event      Event  `json:"event"`
	TableID    string `json:"table_id"`
	Row        int    `json:"row_index"`
	Col        int    `json:"col_index"`
	BatchCount int    `json:"batch_count"`
}

// ConflictsResponse annotates an edit with its conflict report.
type ConflictsResponse struct {
	Event   Event                    `json:"event"`
	TableID string                   `json:"table_id"`
	Row     int                      `json:"row_index"`
	Col     int                      `json:"col_index"`
	Batch   int                      `json:"batch_index"`
	Report  timetable.ConflictReport `json:"report"`
}

// SavedResponse acknowledges a completed save.
type SavedResponse struct {
	Event       Event  `json:"event"`
	TimetableID string `json:"timetable_id"`
	Occurrences int    `json:"occurrences"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
