package model

import (
	"github.com/google/uuid"
)

// QuestionType enumerates the supported question kinds.
type QuestionType string

const (
	QuestionTypeMCQ        QuestionType = "MCQ"
	QuestionTypeCoding     QuestionType = "CODING"
	QuestionTypeLongAnswer QuestionType = "LONG_ANSWER"
)

// Question is a single quiz question. The populated fields depend on
// Type: MCQ carries Options and CorrectAnswer, CODING carries a
// CodingProblem, LONG_ANSWER carries at most a model LongAnswer and is
// never auto-graded.
type Question struct {
	ID            uuid.UUID      `json:"id"`
	QuizID        uuid.UUID      `json:"quiz_id"`
	Type          QuestionType   `json:"type"`
	Text          string         `json:"text"`
	Position      int            `json:"position"`
	Options       []string       `json:"options,omitempty"`
	CorrectAnswer *int           `json:"correct_answer,omitempty"`
	LongAnswer    *string        `json:"long_answer,omitempty"`
	CodingProblem *CodingProblem `json:"coding_problem,omitempty"`
}

// CodingProblem is the grading data owned by a CODING question.
// Submitted output is compared verbatim against ExpectedOutput; the
// platform does not execute submitted code.
type CodingProblem struct {
	ID             uuid.UUID `json:"id"`
	QuestionID     uuid.UUID `json:"question_id"`
	StarterCode    string    `json:"starter_code"`
	ExpectedOutput string    `json:"expected_output"`
}

// QuestionInput is one question inside a CreateQuizRequest. Type-specific
// field presence is validated by the quiz service, not by binding tags,
// so the error can name the offending question.
type QuestionInput struct {
	Type          QuestionType        `json:"type" binding:"required,oneof=MCQ CODING LONG_ANSWER"`
	Text          string              `json:"text" binding:"required,min=1,max=2000"`
	Options       []string            `json:"options" binding:"omitempty,max=10,dive,max=500"`
	CorrectAnswer *int                `json:"correct_answer" binding:"omitempty,min=0"`
	LongAnswer    *string             `json:"long_answer" binding:"omitempty,max=10000"`
	CodingProblem *CodingProblemInput `json:"coding_problem"`
}

// CodingProblemInput is the nested coding payload of a QuestionInput.
type CodingProblemInput struct {
	StarterCode    string `json:"starter_code" binding:"max=10000"`
	ExpectedOutput string `json:"expected_output" binding:"required,max=10000"`
}

// QuestionForLearner is a question stripped of its grading data.
type QuestionForLearner struct {
	ID          uuid.UUID    `json:"id"`
	Type        QuestionType `json:"type"`
	Text        string       `json:"text"`
	Position    int          `json:"position"`
	Options     []string     `json:"options,omitempty"`
	StarterCode string       `json:"starter_code,omitempty"`
}
