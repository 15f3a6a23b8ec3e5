package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/learnifyhq/learnify-backend/internal/model"
)

// AssignmentRepository handles assignment data access.
type AssignmentRepository struct {
	pool *pgxpool.Pool
}

// NewAssignmentRepository creates a new AssignmentRepository.
func NewAssignmentRepository(pool *pgxpool.Pool) *AssignmentRepository {
	return &AssignmentRepository{pool: pool}
}

// Create inserts a new assignment.
func (r *AssignmentRepository) Create(ctx context.Context, a *model.Assignment) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO assignments (course_id, title, description, due_date)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		a.CourseID, a.Title, a.Description, a.DueDate,
	).Scan(&a.ID, &a.CreatedAt)
}

// GetByID retrieves an assignment by its UUID.
func (r *AssignmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Assignment, error) {
	a := &model.Assignment{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, course_id, title, description, due_date, created_at
		 FROM assignments WHERE id = $1`, id,
	).Scan(&a.ID, &a.CourseID, &a.Title, &a.Description, &a.DueDate, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListPendingForStudent retrieves assignments the student has not
// submitted yet and whose due date is still in the future, ordered by
// due date ascending.
func (r *AssignmentRepository) ListPendingForStudent(ctx context.Context, studentID string) ([]model.PendingAssignment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT a.id, a.course_id, a.title, a.description, a.due_date, a.created_at, c.title
		 FROM assignments a
		 JOIN courses c ON c.id = a.course_id
		 WHERE a.due_date >= NOW()
		   AND NOT EXISTS (
		     SELECT 1 FROM submissions s
		     WHERE s.assignment_id = a.id AND s.student_id = $1
		   )
		 ORDER BY a.due_date`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pending []model.PendingAssignment
	for rows.Next() {
		var p model.PendingAssignment
		if err := rows.Scan(&p.ID, &p.CourseID, &p.Title, &p.Description, &p.DueDate, &p.CreatedAt, &p.CourseTitle); err != nil {
			return nil, err
		}
		pending = append(pending, p)
	}
	return pending, rows.Err()
}
