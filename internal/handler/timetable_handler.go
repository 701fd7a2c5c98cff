package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/planovate/planovate-backend/internal/model"
	"github.com/planovate/planovate-backend/internal/response"
	"github.com/planovate/planovate-backend/internal/service"
	"github.com/planovate/planovate-backend/internal/timetable"
	"github.com/planovate/planovate-backend/internal/validator"
)

// TimetableHandler exposes timetable persistence and the one-shot
// conflict check.
type TimetableHandler struct {
	timetableService *service.TimetableService
}

// NewTimetableHandler creates a new TimetableHandler.
func NewTimetableHandler(timetableService *service.TimetableService) *TimetableHandler {
	return &TimetableHandler{timetableService: timetableService}
}

// TimetableMetaRequest carries the identity tuple and display name.
type TimetableMetaRequest struct {
	Name     string `json:"name"`
	Class    string `json:"class" binding:"required,nonblank"`
	Branch   string `json:"branch" binding:"required,nonblank"`
	Semester string `json:"semester" binding:"required,nonblank"`
	Kind     string `json:"kind"`
}

// SaveTimetableRequest is the full save payload: metadata, axes, and
// per-table grids in wire form.
type SaveTimetableRequest struct {
	Meta      TimetableMetaRequest           `json:"meta" binding:"required"`
	TimeSlots []string                       `json:"time_slots"`
	Tables    map[string]timetable.TableWire `json:"tables"`
}

// SaveTimetable godoc
// POST /api/v1/timetables
// Persists a timetable snapshot through the diff-based reconciler.
func (h *TimetableHandler) SaveTimetable(c *gin.Context) {
	var req SaveTimetableRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	ws, err := timetable.WorkspaceFromWire(nil, req.TimeSlots, req.Tables, 0)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	meta := &model.TimetableMeta{
		Name:     req.Meta.Name,
		Class:    req.Meta.Class,
		Branch:   req.Meta.Branch,
		Semester: req.Meta.Semester,
		Kind:     req.Meta.Kind,
	}

	id, err := h.timetableService.Save(c.Request.Context(), meta, ws)
	if err != nil {
		if errors.Is(err, timetable.ErrMissingIdentity) {
			response.Fail(c, http.StatusBadRequest, response.ErrMissingIdentity)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"timetable_id": id})
}

// GetTimetable godoc
// GET /api/v1/timetables/:id
// Loads a timetable with grids reconstructed from its occurrences.
func (h *TimetableHandler) GetTimetable(c *gin.Context) {
	id := c.Param("id")

	loaded, err := h.timetableService.Load(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrTimetableNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"meta":       loaded.Meta,
		"days":       loaded.Workspace.Days,
		"time_slots": loaded.Workspace.TimeSlots,
		"tables":     loaded.Workspace.Tables(),
		"grids":      loaded.Workspace.Wire(),
	})
}

// ListTimetables godoc
// GET /api/v1/timetables?class=&branch=&semester=
// Lists timetable metadata, most recently updated first.
func (h *TimetableHandler) ListTimetables(c *gin.Context) {
	metas, err := h.timetableService.List(c.Request.Context(),
		c.Query("class"), c.Query("branch"), c.Query("semester"))
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if metas == nil {
		metas = []model.TimetableMeta{}
	}

	response.Success(c, http.StatusOK, gin.H{"timetables": metas})
}

// DeleteTimetable godoc
// DELETE /api/v1/timetables/:id
// Deletes a timetable's occurrences, then its metadata.
func (h *TimetableHandler) DeleteTimetable(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.timetableService.Delete(c.Request.Context(), id); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": id})
}

// CheckConflictsRequest is a one-shot conflict probe: the full grid
// state plus the prospective edit.
type CheckConflictsRequest struct {
	TimeSlots []string                       `json:"time_slots"`
	Tables    map[string]timetable.TableWire `json:"tables"`
	TableID   string                         `json:"table_id"`
	Row       int                            `json:"row_index" binding:"min=0"`
	Col       int                            `json:"col_index" binding:"min=0"`
	Batch     int                            `json:"batch_index" binding:"min=0"`
	Field     string                         `json:"field" binding:"required,oneof=teacher room"`
	Value     string                         `json:"value"`
}

// CheckConflicts godoc
// POST /api/v1/timetables/check-conflicts
// Evaluates a prospective edit against the provided grid state. Pure:
// nothing is stored and nothing is read from storage.
func (h *TimetableHandler) CheckConflicts(c *gin.Context) {
	var req CheckConflictsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	ws, err := timetable.WorkspaceFromWire(nil, req.TimeSlots, req.Tables, 0)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	report := timetable.CheckConflicts(ws,
		timetable.BatchPos{TableID: req.TableID, Row: req.Row, Col: req.Col, Batch: req.Batch},
		timetable.Field(req.Field), req.Value)

	response.Success(c, http.StatusOK, gin.H{"report": report})
}
