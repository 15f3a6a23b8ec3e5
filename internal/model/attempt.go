package model

import (
	"time"

	"github.com/google/uuid"
)

// Attempt is one user's completed submission against a quiz. Attempts
// are append-only: there is no update or delete path, and nothing
// prevents the same user from attempting a quiz again (retakes create
// separate rows). Answers are stored verbatim so LONG_ANSWER entries
// remain available for later manual review.
type Attempt struct {
	ID        uuid.UUID `json:"id"`
	QuizID    uuid.UUID `json:"quiz_id"`
	UserID    string    `json:"user_id"`
	Score     int       `json:"score"`
	MaxScore  int       `json:"max_score"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Answers   AnswerSet `json:"answers"`
	CreatedAt time.Time `json:"created_at"`
}

// SubmitAttemptRequest is the payload for submitting a finished attempt.
// Answers may be empty — an expired countdown submits whatever was
// collected, including nothing.
type SubmitAttemptRequest struct {
	QuizID    uuid.UUID `json:"quiz_id" binding:"required"`
	Answers   AnswerSet `json:"answers"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required,gtefield=StartTime"`
}

// QuizStats is the aggregate attempt record maintained asynchronously
// by the stats worker.
type QuizStats struct {
	QuizID       uuid.UUID `json:"quiz_id"`
	AttemptCount int       `json:"attempt_count"`
	TotalScore   int       `json:"total_score"`
	AverageScore float64   `json:"average_score"`
}
