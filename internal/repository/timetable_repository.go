package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/planovate/planovate-backend/internal/model"
)

// TimetableRepository persists timetable metadata documents. Table
// names are never stored here — they are derived from the occurrence
// set on load.
type TimetableRepository struct {
	pool *pgxpool.Pool
}

// NewTimetableRepository creates a new TimetableRepository.
func NewTimetableRepository(pool *pgxpool.Pool) *TimetableRepository {
	return &TimetableRepository{pool: pool}
}

// MetaByID retrieves one timetable's metadata, or nil when the id is
// unknown.
func (r *TimetableRepository) MetaByID(ctx context.Context, id string) (*model.TimetableMeta, error) {
	m := &model.TimetableMeta{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, class, branch, semester, kind, days, time_slots, created_at, updated_at
		 FROM timetables WHERE id = $1`, id,
	).Scan(&m.ID, &m.Name, &m.Class, &m.Branch, &m.Semester, &m.Kind,
		&m.Days, &m.TimeSlots, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query timetable meta: %w", err)
	}
	return m, nil
}

// UpsertMeta inserts or merges a timetable's metadata by its id.
// Merge semantics: an existing row keeps its created_at.
func (r *TimetableRepository) UpsertMeta(ctx context.Context, m *model.TimetableMeta) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO timetables (id, name, class, branch, semester, kind, days, time_slots)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			class = EXCLUDED.class,
			branch = EXCLUDED.branch,
			semester = EXCLUDED.semester,
			kind = EXCLUDED.kind,
			days = EXCLUDED.days,
			time_slots = EXCLUDED.time_slots,
			updated_at = CURRENT_TIMESTAMP
		 RETURNING created_at, updated_at`,
		m.ID, m.Name, m.Class, m.Branch, m.Semester, m.Kind, m.Days, m.TimeSlots,
	).Scan(&m.CreatedAt, &m.UpdatedAt)
}

// ListMetas retrieves timetable metadata, optionally filtered by class,
// branch, and semester, most recently updated first.
func (r *TimetableRepository) ListMetas(ctx context.Context, class, branch, semester string, limit int) ([]model.TimetableMeta, error) {
	if limit < 1 || limit > 50 {
		limit = 50
	}

	query := `SELECT id, name, class, branch, semester, kind, days, time_slots, created_at, updated_at
		 FROM timetables`
	var clauses []string
	var args []interface{}
	addFilter := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		clauses = append(clauses, column+" = $"+strconv.Itoa(len(args)))
	}
	addFilter("class", class)
	addFilter("branch", branch)
	addFilter("semester", semester)

	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	args = append(args, limit)
	query += " ORDER BY updated_at DESC LIMIT $" + strconv.Itoa(len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query timetables: %w", err)
	}
	defer rows.Close()

	var metas []model.TimetableMeta
	for rows.Next() {
		var m model.TimetableMeta
		if err := rows.Scan(&m.ID, &m.Name, &m.Class, &m.Branch, &m.Semester, &m.Kind,
			&m.Days, &m.TimeSlots, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan timetable meta: %w", err)
		}
		metas = append(metas, m)
	}
	return metas, rows.Err()
}

// DeleteMeta removes a timetable's metadata row. The caller is
// responsible for deleting occurrences first — they reference the
// timetable by string id only, with no FK to enforce the order.
func (r *TimetableRepository) DeleteMeta(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM timetables WHERE id = $1`, id)
	return err
}
