package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/planovate/planovate-backend/internal/model"
)

// ScheduleRepository persists schedule occurrences. One row per
// non-empty batch assignment; the primary key is the occurrence
// identity (timetable, table, row, col, batch).
type ScheduleRepository struct {
	pool *pgxpool.Pool
}

// NewScheduleRepository creates a new ScheduleRepository.
func NewScheduleRepository(pool *pgxpool.Pool) *ScheduleRepository {
	return &ScheduleRepository{pool: pool}
}

const occurrenceColumns = `timetable_id, table_id, row_index, col_index, batch_index,
	 day, time_label, class, branch, batch_name, course, teacher, room`

// OccurrencesByTimetable retrieves every occurrence persisted for one
// timetable id.
func (r *ScheduleRepository) OccurrencesByTimetable(ctx context.Context, timetableID string) ([]model.Occurrence, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+occurrenceColumns+`
		 FROM schedule_occurrences
		 WHERE timetable_id = $1
		 ORDER BY table_id, row_index, col_index, batch_index`, timetableID)
	if err != nil {
		return nil, fmt.Errorf("query occurrences: %w", err)
	}
	defer rows.Close()

	var occurrences []model.Occurrence
	for rows.Next() {
		var o model.Occurrence
		if err := rows.Scan(
			&o.TimetableID, &o.TableID, &o.Row, &o.Col, &o.Batch,
			&o.Day, &o.TimeLabel, &o.Class, &o.Branch, &o.BatchName,
			&o.Course, &o.Teacher, &o.Room,
		); err != nil {
			return nil, fmt.Errorf("scan occurrence: %w", err)
		}
		occurrences = append(occurrences, o)
	}
	return occurrences, rows.Err()
}

// UpsertOccurrences writes a set of occurrences in a single batched
// round trip, replacing rows whose identity key already exists. Callers
// bound the slice (the reconciler sends ~400 per call).
func (r *ScheduleRepository) UpsertOccurrences(ctx context.Context, occurrences []model.Occurrence) error {
	if len(occurrences) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, o := range occurrences {
		batch.Queue(
			`INSERT INTO schedule_occurrences (`+occurrenceColumns+`)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			 ON CONFLICT (timetable_id, table_id, row_index, col_index, batch_index)
			 DO UPDATE SET
				day = EXCLUDED.day,
				time_label = EXCLUDED.time_label,
				class = EXCLUDED.class,
				branch = EXCLUDED.branch,
				batch_name = EXCLUDED.batch_name,
				course = EXCLUDED.course,
				teacher = EXCLUDED.teacher,
				room = EXCLUDED.room,
				updated_at = CURRENT_TIMESTAMP`,
			o.TimetableID, o.TableID, o.Row, o.Col, o.Batch,
			o.Day, o.TimeLabel, o.Class, o.Branch, o.BatchName,
			o.Course, o.Teacher, o.Room,
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()
	for range occurrences {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("upsert occurrence: %w", err)
		}
	}
	return nil
}

// DeleteOccurrences removes occurrences by identity key in one batched
// round trip. Missing rows are not an error.
func (r *ScheduleRepository) DeleteOccurrences(ctx context.Context, keys []model.OccurrenceKey) error {
	if len(keys) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, k := range keys {
		batch.Queue(
			`DELETE FROM schedule_occurrences
			 WHERE timetable_id = $1 AND table_id = $2
			   AND row_index = $3 AND col_index = $4 AND batch_index = $5`,
			k.TimetableID, k.TableID, k.Row, k.Col, k.Batch,
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()
	for range keys {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("delete occurrence: %w", err)
		}
	}
	return nil
}
