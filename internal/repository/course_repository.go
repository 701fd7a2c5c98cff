package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/planovate/planovate-backend/internal/model"
)

type CourseRepository struct {
	pool *pgxpool.Pool
}

func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{pool: pool}
}

func (r *CourseRepository) Create(ctx context.Context, c *model.Course) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO courses (name, code, semester) VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		c.Name, c.Code, c.Semester).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateName
	}
	return err
}

func (r *CourseRepository) GetAll(ctx context.Context) ([]model.Course, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, code, semester, created_at, updated_at FROM courses ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(&c.ID, &c.Name, &c.Code, &c.Semester, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// DistinctSemesters returns the sorted set of non-blank semesters seen
// across courses. Feeds the semester suggestion list.
func (r *CourseRepository) DistinctSemesters(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT semester FROM courses WHERE semester <> '' ORDER BY semester ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var semesters []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		semesters = append(semesters, s)
	}
	return semesters, rows.Err()
}

func (r *CourseRepository) Delete(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	return err
}
