package model

import (
	"time"

	"github.com/google/uuid"
)

// Quiz is an authored assessment: a time limit plus ordered questions.
// Once published to a course it is treated as immutable — attempts
// reference it by id and replay grading against the stored definition.
type Quiz struct {
	ID               uuid.UUID  `json:"id"`
	Title            string     `json:"title"`
	TimeLimitMinutes int        `json:"time_limit_minutes"`
	CourseID         uuid.UUID  `json:"course_id"`
	Questions        []Question `json:"questions"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// CreateQuizRequest is the payload for creating a quiz with its full
// question set in one atomic write.
type CreateQuizRequest struct {
	Title            string          `json:"title" binding:"required,min=3,max=255"`
	TimeLimitMinutes int             `json:"time_limit_minutes" binding:"required,min=1,max=480"`
	CourseID         uuid.UUID       `json:"course_id" binding:"required"`
	Questions        []QuestionInput `json:"questions" binding:"required,min=1,dive"`
}

// QuizPayload is the learner-facing projection of a quiz: question
// grading data (correct option, expected output, model answer) is
// stripped so the answer key never reaches the browser.
type QuizPayload struct {
	ID               uuid.UUID            `json:"id"`
	Title            string               `json:"title"`
	TimeLimitMinutes int                  `json:"time_limit_minutes"`
	CourseID         uuid.UUID            `json:"course_id"`
	Questions        []QuestionForLearner `json:"questions"`
}

// LearnerPayload builds the answer-key-free projection of q.
func (q *Quiz) LearnerPayload() *QuizPayload {
	p := &QuizPayload{
		ID:               q.ID,
		Title:            q.Title,
		TimeLimitMinutes: q.TimeLimitMinutes,
		CourseID:         q.CourseID,
		Questions:        make([]QuestionForLearner, 0, len(q.Questions)),
	}
	for _, question := range q.Questions {
		lq := QuestionForLearner{
			ID:       question.ID,
			Type:     question.Type,
			Text:     question.Text,
			Options:  question.Options,
			Position: question.Position,
		}
		if question.CodingProblem != nil {
			lq.StarterCode = question.CodingProblem.StarterCode
		}
		p.Questions = append(p.Questions, lq)
	}
	return p
}
