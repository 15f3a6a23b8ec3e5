package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/learnifyhq/learnify-backend/internal/model"
	"github.com/learnifyhq/learnify-backend/internal/repository"
)

// Assignment domain errors.
var (
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrSubmissionNotFound = errors.New("submission not found")
)

// AssignmentService handles assignments and their file submissions.
type AssignmentService struct {
	assignments *repository.AssignmentRepository
	submissions *repository.SubmissionRepository
	log         zerolog.Logger
}

// NewAssignmentService creates a new AssignmentService.
func NewAssignmentService(
	assignments *repository.AssignmentRepository,
	submissions *repository.SubmissionRepository,
	log zerolog.Logger,
) *AssignmentService {
	return &AssignmentService{
		assignments: assignments,
		submissions: submissions,
		log:         log.With().Str("component", "assignment_service").Logger(),
	}
}

// Create persists a new assignment.
func (s *AssignmentService) Create(ctx context.Context, req *model.CreateAssignmentRequest) (*model.Assignment, error) {
	assignment := &model.Assignment{
		CourseID:    req.CourseID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	}
	if err := s.assignments.Create(ctx, assignment); err != nil {
		return nil, fmt.Errorf("create assignment: %w", err)
	}

	s.log.Info().
		Str("assignment_id", assignment.ID.String()).
		Str("course_id", assignment.CourseID.String()).
		Msg("Assignment created")
	return assignment, nil
}

// Get retrieves one assignment.
func (s *AssignmentService) Get(ctx context.Context, id uuid.UUID) (*model.Assignment, error) {
	assignment, err := s.assignments.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAssignmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get assignment: %w", err)
	}
	return assignment, nil
}

// ListPending retrieves assignments that are still due and the student
// has not submitted, ordered by the nearest due date first.
func (s *AssignmentService) ListPending(ctx context.Context, studentID string) ([]model.PendingAssignment, error) {
	pending, err := s.assignments.ListPendingForStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("list pending assignments: %w", err)
	}
	if pending == nil {
		pending = []model.PendingAssignment{}
	}
	return pending, nil
}

// RecordSubmission stores a student's uploaded answer. The file itself
// is saved by the upload service beforehand; this records its URL.
func (s *AssignmentService) RecordSubmission(ctx context.Context, assignmentID uuid.UUID, studentID, fileURL string) (*model.Submission, error) {
	if _, err := s.Get(ctx, assignmentID); err != nil {
		return nil, err
	}

	submission := &model.Submission{
		AssignmentID: assignmentID,
		StudentID:    studentID,
		FileURL:      fileURL,
	}
	if err := s.submissions.Create(ctx, submission); err != nil {
		return nil, fmt.Errorf("record submission: %w", err)
	}

	s.log.Info().
		Str("submission_id", submission.ID.String()).
		Str("assignment_id", assignmentID.String()).
		Str("student_id", studentID).
		Msg("Submission recorded")
	return submission, nil
}

// ListSubmissions retrieves every submission for an assignment.
func (s *AssignmentService) ListSubmissions(ctx context.Context, assignmentID uuid.UUID) ([]model.Submission, error) {
	submissions, err := s.submissions.ListByAssignment(ctx, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	if submissions == nil {
		submissions = []model.Submission{}
	}
	return submissions, nil
}

// Review sets the grade and feedback of a submission.
func (s *AssignmentService) Review(ctx context.Context, submissionID uuid.UUID, req *model.ReviewSubmissionRequest) (*model.Submission, error) {
	submission, err := s.submissions.Review(ctx, submissionID, *req.Grade, req.Feedback)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSubmissionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("review submission: %w", err)
	}
	return submission, nil
}
