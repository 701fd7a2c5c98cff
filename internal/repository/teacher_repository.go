package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/planovate/planovate-backend/internal/model"
)

// ErrDuplicateName is returned when a suggestion entry with this name
// already exists.
var ErrDuplicateName = errors.New("entry with this name already exists")

type TeacherRepository struct {
	pool *pgxpool.Pool
}

func NewTeacherRepository(pool *pgxpool.Pool) *TeacherRepository {
	return &TeacherRepository{pool: pool}
}

func (r *TeacherRepository) Create(ctx context.Context, t *model.Teacher) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO teachers (name) VALUES ($1) RETURNING id, created_at, updated_at`,
		t.Name).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateName
	}
	return err
}

func (r *TeacherRepository) GetAll(ctx context.Context) ([]model.Teacher, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, created_at, updated_at FROM teachers ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teachers []model.Teacher
	for rows.Next() {
		var t model.Teacher
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		teachers = append(teachers, t)
	}
	return teachers, rows.Err()
}

func (r *TeacherRepository) Delete(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM teachers WHERE id = $1`, id)
	return err
}
