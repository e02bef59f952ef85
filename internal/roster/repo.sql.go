package roster

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidyakosh-erp/vidyakosh-erp/internal/platform/httpx"
)

// Repository provides PostgreSQL backed roster reads.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListActiveStudents returns the active roster for an academic year.
func (r *Repository) ListActiveStudents(ctx context.Context, academicYearID int64) ([]Student, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, class_id, has_hostel, transport_route_id, guardian_phone, guardian_name, first_name
FROM students WHERE academic_year_id = $1 AND status = 'active' ORDER BY id`, academicYearID)
	if err != nil {
		return nil, fmt.Errorf("roster: list active students: %w", err)
	}
	defer rows.Close()
	var students []Student
	for rows.Next() {
		var s Student
		if err := rows.Scan(&s.ID, &s.ClassID, &s.HasHostel, &s.TransportRouteID, &s.GuardianPhone, &s.GuardianName, &s.FirstName); err != nil {
			return nil, fmt.Errorf("roster: scan student: %w", err)
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("roster: iterate students: %w", err)
	}
	return students, nil
}

// GetStudent returns one student by id.
func (r *Repository) GetStudent(ctx context.Context, id int64) (*Student, error) {
	var s Student
	err := r.pool.QueryRow(ctx, `SELECT id, class_id, has_hostel, transport_route_id, guardian_phone, guardian_name, first_name
FROM students WHERE id = $1`, id).Scan(&s.ID, &s.ClassID, &s.HasHostel, &s.TransportRouteID, &s.GuardianPhone, &s.GuardianName, &s.FirstName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: student %d", httpx.ErrNotFound, id)
		}
		return nil, fmt.Errorf("roster: get student: %w", err)
	}
	return &s, nil
}
