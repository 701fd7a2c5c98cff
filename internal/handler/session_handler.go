package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/planovate/planovate-backend/internal/logger"
	"github.com/planovate/planovate-backend/internal/model"
	"github.com/planovate/planovate-backend/internal/service"
	"github.com/planovate/planovate-backend/internal/timetable"
	ws "github.com/planovate/planovate-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// SessionHandler runs live timetable editing sessions over WebSocket.
// Each connection owns one workspace; edits mutate it synchronously on
// the connection's read loop and conflict annotations go back on the
// same stream. Nothing touches storage until an explicit save.
type SessionHandler struct {
	timetableService *service.TimetableService
	log              zerolog.Logger
	upgrader         websocket.Upgrader
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(timetableService *service.TimetableService, log zerolog.Logger, allowedOrigins []string) *SessionHandler {
	return &SessionHandler{
		timetableService: timetableService,
		log:              logger.Component(log, "session_handler"),
		upgrader:         buildUpgrader(allowedOrigins),
	}
}

// session is the per-connection editing state.
type session struct {
	meta      *model.TimetableMeta
	workspace *timetable.Workspace
}

// EditingSessionStream godoc
// WS /ws/v1/timetables/session
// Upgrades to WebSocket for live grid editing with conflict feedback.
func (h *SessionHandler) EditingSessionStream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	sessionID := uuid.New().String()
	sessionLog := h.log.With().Str("session_id", sessionID).Logger()
	sessionLog.Info().Msg("Editing session opened")

	sess := &session{}

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			sessionLog.Debug().Err(err).Msg("Editing session closed")
			return
		}

		var envelope ws.RequestEnvelope
		if err := ws.Unmarshal(raw, &envelope); err != nil {
			ws.WriteError(conn, "malformed message")
			continue
		}

		switch envelope.Action {
		case ws.ActionPing:
			ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})

		case ws.ActionInit:
			h.handleInit(c, conn, sess, raw, sessionLog)

		case ws.ActionAddTable:
			var req ws.AddTableRequest
			if err := ws.Unmarshal(raw, &req); err != nil || !h.requireInit(conn, sess) {
				continue
			}
			sess.workspace.EnsureTable(req.TableID)
			h.writeReady(conn, sess)

		case ws.ActionAddTimeSlot:
			var req ws.AddTimeSlotRequest
			if err := ws.Unmarshal(raw, &req); err != nil || !h.requireInit(conn, sess) {
				continue
			}
			sess.workspace.AddTimeSlot(req.Label)
			h.writeReady(conn, sess)

		case ws.ActionCreateBatch:
			var req ws.CreateBatchRequest
			if err := ws.Unmarshal(raw, &req); err != nil || !h.requireInit(conn, sess) {
				continue
			}
			count, err := sess.workspace.CreateBatch(req.TableID, req.Row, req.Col)
			if err != nil {
				ws.WriteError(conn, err.Error())
				continue
			}
			ws.WriteTyped(conn, ws.GridResponse{
				Event:      ws.EventGrid,
				TableID:    req.TableID,
				Row:        req.Row,
				Col:        req.Col,
				BatchCount: count,
			})

		case ws.ActionUpdateBatch:
			var req ws.UpdateBatchRequest
			if err := ws.Unmarshal(raw, &req); err != nil || !h.requireInit(conn, sess) {
				continue
			}
			report, err := sess.workspace.UpdateBatch(req.TableID, req.Row, req.Col, req.Batch,
				timetable.Field(req.Field), req.Value)
			if err != nil {
				ws.WriteError(conn, err.Error())
				continue
			}
			if report == nil {
				// Course and batch-name edits carry no conflict report.
				report = &timetable.ConflictReport{}
			}
			ws.WriteTyped(conn, ws.ConflictsResponse{
				Event:   ws.EventConflicts,
				TableID: req.TableID,
				Row:     req.Row,
				Col:     req.Col,
				Batch:   req.Batch,
				Report:  *report,
			})

		case ws.ActionCheck:
			var req ws.CheckRequest
			if err := ws.Unmarshal(raw, &req); err != nil || !h.requireInit(conn, sess) {
				continue
			}
			report := timetable.CheckConflicts(sess.workspace,
				timetable.BatchPos{TableID: req.TableID, Row: req.Row, Col: req.Col, Batch: req.Batch},
				timetable.Field(req.Field), req.Value)
			ws.WriteTyped(conn, ws.ConflictsResponse{
				Event:   ws.EventConflicts,
				TableID: req.TableID,
				Row:     req.Row,
				Col:     req.Col,
				Batch:   req.Batch,
				Report:  report,
			})

		case ws.ActionSave:
			if !h.requireInit(conn, sess) {
				continue
			}
			id, err := h.timetableService.Save(c.Request.Context(), sess.meta, sess.workspace)
			if err != nil {
				sessionLog.Error().Err(err).Msg("Session save failed")
				ws.WriteError(conn, "save failed")
				continue
			}
			occurrences := timetable.BuildOccurrences(id, sess.meta, sess.workspace)
			ws.WriteTyped(conn, ws.SavedResponse{
				Event:       ws.EventSaved,
				TimetableID: id,
				Occurrences: len(occurrences),
			})

		default:
			ws.WriteError(conn, "unknown action")
		}
	}
}

// handleInit opens the session: either a fresh workspace or one loaded
// from the persisted timetable matching the identity tuple.
func (h *SessionHandler) handleInit(c *gin.Context, conn *websocket.Conn, sess *session, raw []byte, log zerolog.Logger) {
	var req ws.InitRequest
	if err := ws.Unmarshal(raw, &req); err != nil {
		ws.WriteError(conn, "malformed init payload")
		return
	}

	meta := &model.TimetableMeta{
		Name:     req.Meta.Name,
		Class:    req.Meta.Class,
		Branch:   req.Meta.Branch,
		Semester: req.Meta.Semester,
		Kind:     req.Meta.Kind,
	}

	id, err := timetable.TimetableID(meta.Class, meta.Branch, meta.Semester, meta.Kind)
	if err != nil {
		ws.WriteError(conn, err.Error())
		return
	}

	if req.Load {
		loaded, err := h.timetableService.Load(c.Request.Context(), id)
		switch {
		case err == nil:
			sess.meta = loaded.Meta
			sess.workspace = loaded.Workspace
		case errors.Is(err, service.ErrTimetableNotFound):
			sess.meta = meta
			sess.workspace = h.timetableService.NewWorkspace(nil, req.TimeSlots)
		default:
			log.Error().Err(err).Str("timetable_id", id).Msg("Session load failed")
			ws.WriteError(conn, "load failed")
			return
		}
	} else {
		sess.meta = meta
		sess.workspace = h.timetableService.NewWorkspace(nil, req.TimeSlots)
	}

	log.Info().Str("timetable_id", id).Bool("loaded", req.Load).Msg("Editing session initialized")
	h.writeReady(conn, sess)
}

func (h *SessionHandler) requireInit(conn *websocket.Conn, sess *session) bool {
	if sess.workspace == nil {
		ws.WriteError(conn, "session not initialized")
		return false
	}
	return true
}

func (h *SessionHandler) writeReady(conn *websocket.Conn, sess *session) {
	id := ""
	if sess.meta != nil {
		// Best effort: a blank identity only fails at save time.
		if derived, err := timetable.TimetableID(sess.meta.Class, sess.meta.Branch, sess.meta.Semester, sess.meta.Kind); err == nil {
			id = derived
		}
	}
	ws.WriteTyped(conn, ws.ReadyResponse{
		Event:       ws.EventReady,
		TimetableID: id,
		Days:        sess.workspace.Days,
		TimeSlots:   sess.workspace.TimeSlots,
		Tables:      sess.workspace.Tables(),
		Grids:       sess.workspace.Wire(),
	})
}
