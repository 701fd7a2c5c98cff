package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/planovate/planovate-backend/internal/config"
	"github.com/planovate/planovate-backend/internal/logger"
	"github.com/planovate/planovate-backend/internal/model"
	"github.com/planovate/planovate-backend/internal/timetable"
)

// Domain Errors
var (
	ErrTimetableNotFound = errors.New("timetable not found")
)

// Write batching bounds: each call to the store is one bounded round
// trip. Chosen for store limits, not a domain invariant.
const (
	upsertChunkSize = 400
	deleteChunkSize = 450
)

// ScheduleStore is the reconciler's contract with the occurrence store.
type ScheduleStore interface {
	OccurrencesByTimetable(ctx context.Context, timetableID string) ([]model.Occurrence, error)
	UpsertOccurrences(ctx context.Context, occurrences []model.Occurrence) error
	DeleteOccurrences(ctx context.Context, keys []model.OccurrenceKey) error
}

// MetaStore is the reconciler's contract with the timetable metadata
// store. MetaByID returns (nil, nil) for an unknown id.
type MetaStore interface {
	MetaByID(ctx context.Context, id string) (*model.TimetableMeta, error)
	UpsertMeta(ctx context.Context, m *model.TimetableMeta) error
	ListMetas(ctx context.Context, class, branch, semester string, limit int) ([]model.TimetableMeta, error)
	DeleteMeta(ctx context.Context, id string) error
}

// TimetableService reconciles in-memory workspaces against persisted
// occurrences. It is the sole writer of occurrence state.
type TimetableService struct {
	schedules  ScheduleStore
	metas      MetaStore
	rdb        *redis.Client
	maxBatches int
	log        zerolog.Logger
}

// NewTimetableService creates a new TimetableService. rdb may be nil;
// save notifications are then skipped.
func NewTimetableService(schedules ScheduleStore, metas MetaStore, rdb *redis.Client, maxBatches int, log zerolog.Logger) *TimetableService {
	return &TimetableService{
		schedules:  schedules,
		metas:      metas,
		rdb:        rdb,
		maxBatches: maxBatches,
		log:        logger.Component(log, "timetable_service"),
	}
}

// LoadedTimetable is a timetable rehydrated from the store: metadata
// plus a workspace whose table list and batch counts were reconstructed
// from the occurrence set.
type LoadedTimetable struct {
	Meta      *model.TimetableMeta
	Workspace *timetable.Workspace
}

// Save persists a workspace snapshot for the timetable identified by
// meta's (class, branch, semester, kind) tuple and returns the derived
// id. Metadata is merge-upserted; occurrences are reconciled by diff:
// every occurrence in the snapshot is upserted by identity key, then
// every persisted occurrence whose key is absent from the snapshot is
// deleted. The orphan-delete step is what lets a cell shrink from 3
// batches to 1, or empty out entirely, without leaving stale rows.
//
// There is no transaction across the fetch-diff-write sequence: each
// bounded batch of writes commits independently, and a failure part way
// through is surfaced without rollback or retry. Two overlapping saves
// of the same id interleave non-deterministically (last writer wins).
func (s *TimetableService) Save(ctx context.Context, meta *model.TimetableMeta, ws *timetable.Workspace) (string, error) {
	id, err := timetable.TimetableID(meta.Class, meta.Branch, meta.Semester, meta.Kind)
	if err != nil {
		return "", err
	}

	normalized := s.normalizeMeta(id, meta, ws)
	if err := s.metas.UpsertMeta(ctx, normalized); err != nil {
		return "", fmt.Errorf("upsert timetable meta: %w", err)
	}

	occurrences := timetable.BuildOccurrences(id, normalized, ws)

	existing, err := s.schedules.OccurrencesByTimetable(ctx, id)
	if err != nil {
		return "", fmt.Errorf("fetch existing occurrences: %w", err)
	}

	for start := 0; start < len(occurrences); start += upsertChunkSize {
		end := min(start+upsertChunkSize, len(occurrences))
		if err := s.schedules.UpsertOccurrences(ctx, occurrences[start:end]); err != nil {
			return "", fmt.Errorf("upsert occurrences: %w", err)
		}
	}

	keep := make(map[model.OccurrenceKey]bool, len(occurrences))
	for _, o := range occurrences {
		keep[o.Key()] = true
	}
	var orphans []model.OccurrenceKey
	for _, o := range existing {
		if !keep[o.Key()] {
			orphans = append(orphans, o.Key())
		}
	}
	for start := 0; start < len(orphans); start += deleteChunkSize {
		end := min(start+deleteChunkSize, len(orphans))
		if err := s.schedules.DeleteOccurrences(ctx, orphans[start:end]); err != nil {
			return "", fmt.Errorf("delete orphaned occurrences: %w", err)
		}
	}

	s.log.Info().
		Str("timetable_id", id).
		Int("occurrences", len(occurrences)).
		Int("orphans_deleted", len(orphans)).
		Msg("Timetable saved")

	s.notifySaved(ctx, id)

	return id, nil
}

// notifySaved publishes the saved timetable id so other open sessions
// can refresh. Best effort: a publish failure never fails the save.
func (s *TimetableService) notifySaved(ctx context.Context, id string) {
	if s.rdb == nil {
		return
	}
	channel := config.CacheKey.TimetableSavedChannel(id)
	if err := s.rdb.Publish(ctx, channel, id).Err(); err != nil {
		s.log.Warn().Err(err).Str("channel", channel).Msg("Save notification publish failed")
	}
}

// Load rehydrates a timetable. Batch counts come back as max batch
// index + 1 per cell and the table list is derived from the distinct
// table ids in the occurrence set, never from metadata.
func (s *TimetableService) Load(ctx context.Context, id string) (*LoadedTimetable, error) {
	meta, err := s.metas.MetaByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch timetable meta: %w", err)
	}
	if meta == nil {
		return nil, ErrTimetableNotFound
	}

	occurrences, err := s.schedules.OccurrencesByTimetable(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch occurrences: %w", err)
	}

	ws := timetable.ReconstructWorkspace(meta.Days, meta.TimeSlots, occurrences, s.maxBatches)
	return &LoadedTimetable{Meta: meta, Workspace: ws}, nil
}

// List retrieves timetable metadata with optional class/branch/semester
// filters, most recently updated first.
func (s *TimetableService) List(ctx context.Context, class, branch, semester string) ([]model.TimetableMeta, error) {
	return s.metas.ListMetas(ctx,
		timetable.Normalize(class), timetable.Normalize(branch), timetable.Normalize(semester), 50)
}

// Delete removes a timetable: occurrences first, then the metadata row.
// The occurrence rows reference the timetable only by string id, so the
// ordering is the service's responsibility, not the store's.
func (s *TimetableService) Delete(ctx context.Context, id string) error {
	occurrences, err := s.schedules.OccurrencesByTimetable(ctx, id)
	if err != nil {
		return fmt.Errorf("fetch occurrences: %w", err)
	}

	keys := make([]model.OccurrenceKey, 0, len(occurrences))
	for _, o := range occurrences {
		keys = append(keys, o.Key())
	}
	for start := 0; start < len(keys); start += deleteChunkSize {
		end := min(start+deleteChunkSize, len(keys))
		if err := s.schedules.DeleteOccurrences(ctx, keys[start:end]); err != nil {
			return fmt.Errorf("delete occurrences: %w", err)
		}
	}

	if err := s.metas.DeleteMeta(ctx, id); err != nil {
		return fmt.Errorf("delete timetable meta: %w", err)
	}

	s.log.Info().Str("timetable_id", id).Int("occurrences_deleted", len(keys)).Msg("Timetable deleted")
	return nil
}

// NewWorkspace creates an empty workspace honoring the configured batch
// cap.
func (s *TimetableService) NewWorkspace(days, timeSlots []string) *timetable.Workspace {
	return timetable.NewWorkspace(days, timeSlots, s.maxBatches)
}

func (s *TimetableService) normalizeMeta(id string, meta *model.TimetableMeta, ws *timetable.Workspace) *model.TimetableMeta {
	days := ws.Days
	if len(days) == 0 {
		days = timetable.DefaultDays
	}
	normalizedDays := make([]string, len(days))
	for i, d := range days {
		normalizedDays[i] = timetable.Normalize(d)
	}
	slots := make([]string, len(ws.TimeSlots))
	for i, t := range ws.TimeSlots {
		slots[i] = timetable.Normalize(t)
	}

	name := timetable.Normalize(meta.Name)
	if name == "" {
		name = "Timetable " + id
	}

	return &model.TimetableMeta{
		ID:        id,
		Name:      name,
		Class:     timetable.Normalize(meta.Class),
		Branch:    timetable.Normalize(meta.Branch),
		Semester:  timetable.Normalize(meta.Semester),
		Kind:      timetable.Normalize(meta.Kind),
		Days:      normalizedDays,
		TimeSlots: slots,
	}
}
