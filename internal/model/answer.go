package model

import (
	"github.com/google/uuid"
)

// Answer is a tagged union of the three submittable answer shapes,
// discriminated by Kind. Exactly one value field is meaningful:
// MCQ → Index, CODING → Output, LONG_ANSWER → Text. An answer whose
// Kind does not match its question's type never scores.
type Answer struct {
	Kind   QuestionType `json:"kind" binding:"required,oneof=MCQ CODING LONG_ANSWER"`
	Index  *int         `json:"index,omitempty"`
	Output string       `json:"output,omitempty"`
	Text   string       `json:"text,omitempty"`
}

// AnswerSet maps question id → submitted answer. Questions absent from
// the set are graded as non-matches; keys that match no question are
// ignored. Iteration order is irrelevant: grading walks the quiz's
// question list, not the map.
type AnswerSet map[uuid.UUID]Answer
