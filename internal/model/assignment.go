package model

import (
	"time"

	"github.com/google/uuid"
)

// Assignment is a file-submission task attached to a course.
type Assignment struct {
	ID          uuid.UUID `json:"id"`
	CourseID    uuid.UUID `json:"course_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateAssignmentRequest is the payload for posting an assignment.
type CreateAssignmentRequest struct {
	CourseID    uuid.UUID `json:"course_id" binding:"required"`
	Title       string    `json:"title" binding:"required,min=3,max=255"`
	Description string    `json:"description" binding:"max=5000"`
	DueDate     time.Time `json:"due_date" binding:"required"`
}

// PendingAssignment is an assignment the student has not submitted yet,
// annotated with its course title for display.
type PendingAssignment struct {
	Assignment
	CourseTitle string `json:"course_title"`
}

// Submission is one student's uploaded answer to an assignment.
// Grade and Feedback stay nil until a teacher reviews it.
type Submission struct {
	ID           uuid.UUID `json:"id"`
	AssignmentID uuid.UUID `json:"assignment_id"`
	StudentID    string    `json:"student_id"`
	FileURL      string    `json:"file_url"`
	SubmittedAt  time.Time `json:"submitted_at"`
	Grade        *int      `json:"grade,omitempty"`
	Feedback     *string   `json:"feedback,omitempty"`
}

// ReviewSubmissionRequest is the payload for a teacher grading a submission.
type ReviewSubmissionRequest struct {
	Grade    *int   `json:"grade" binding:"required,min=0,max=100"`
	Feedback string `json:"feedback" binding:"max=5000"`
}
