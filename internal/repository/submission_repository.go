package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/learnifyhq/learnify-backend/internal/model"
)

// SubmissionRepository handles assignment submission data access.
type SubmissionRepository struct {
	pool *pgxpool.Pool
}

// NewSubmissionRepository creates a new SubmissionRepository.
func NewSubmissionRepository(pool *pgxpool.Pool) *SubmissionRepository {
	return &SubmissionRepository{pool: pool}
}

// Create inserts a new submission.
func (r *SubmissionRepository) Create(ctx context.Context, s *model.Submission) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO submissions (assignment_id, student_id, file_url)
		 VALUES ($1, $2, $3)
		 RETURNING id, submitted_at`,
		s.AssignmentID, s.StudentID, s.FileURL,
	).Scan(&s.ID, &s.SubmittedAt)
}

// GetByID retrieves a submission by its UUID.
func (r *SubmissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Submission, error) {
	s := &model.Submission{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, assignment_id, student_id, file_url, submitted_at, grade, feedback
		 FROM submissions WHERE id = $1`, id,
	).Scan(&s.ID, &s.AssignmentID, &s.StudentID, &s.FileURL, &s.SubmittedAt, &s.Grade, &s.Feedback)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ListByAssignment retrieves all submissions for an assignment, newest first.
func (r *SubmissionRepository) ListByAssignment(ctx context.Context, assignmentID uuid.UUID) ([]model.Submission, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, assignment_id, student_id, file_url, submitted_at, grade, feedback
		 FROM submissions WHERE assignment_id = $1
		 ORDER BY submitted_at DESC`, assignmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var submissions []model.Submission
	for rows.Next() {
		var s model.Submission
		if err := rows.Scan(&s.ID, &s.AssignmentID, &s.StudentID, &s.FileURL, &s.SubmittedAt, &s.Grade, &s.Feedback); err != nil {
			return nil, err
		}
		submissions = append(submissions, s)
	}
	return submissions, rows.Err()
}

// Review records a teacher's grade and feedback on a submission.
func (r *SubmissionRepository) Review(ctx context.Context, id uuid.UUID, grade int, feedback string) (*model.Submission, error) {
	s := &model.Submission{}
	err := r.pool.QueryRow(ctx,
		`UPDATE submissions SET grade = $1, feedback = $2
		 WHERE id = $3
		 RETURNING id, assignment_id, student_id, file_url, submitted_at, grade, feedback`,
		grade, feedback, id,
	).Scan(&s.ID, &s.AssignmentID, &s.StudentID, &s.FileURL, &s.SubmittedAt, &s.Grade, &s.Feedback)
	if err != nil {
		return nil, err
	}
	return s, nil
}
