package grading

import (
	"testing"

	"github.com/google/uuid"

	"github.com/learnifyhq/learnify-backend/internal/model"
)

func intPtr(n int) *int { return &n }

func mcqQuestion(correct int, options ...string) model.Question {
	return model.Question{
		ID:            uuid.New(),
		Type:          model.QuestionTypeMCQ,
		Text:          "pick one",
		Options:       options,
		CorrectAnswer: intPtr(correct),
	}
}

func codingQuestion(expected string) model.Question {
	id := uuid.New()
	return model.Question{
		ID:   id,
		Type: model.QuestionTypeCoding,
		Text: "write a program",
		CodingProblem: &model.CodingProblem{
			ID:             uuid.New(),
			QuestionID:     id,
			StarterCode:    "func main() {}",
			ExpectedOutput: expected,
		},
	}
}

func longAnswerQuestion() model.Question {
	return model.Question{
		ID:   uuid.New(),
		Type: model.QuestionTypeLongAnswer,
		Text: "explain",
	}
}

func quizOf(questions ...model.Question) *model.Quiz {
	return &model.Quiz{
		ID:               uuid.New(),
		Title:            "test quiz",
		TimeLimitMinutes: 1,
		Questions:        questions,
	}
}

func TestGradeMCQ(t *testing.T) {
	q1 := mcqQuestion(2, "A", "B", "C", "D")
	quiz := quizOf(q1)

	tests := []struct {
		name    string
		answers model.AnswerSet
		want    int
	}{
		{
			name:    "correct index scores one",
			answers: model.AnswerSet{q1.ID: {Kind: model.QuestionTypeMCQ, Index: intPtr(2)}},
			want:    1,
		},
		{
			name:    "wrong index scores zero",
			answers: model.AnswerSet{q1.ID: {Kind: model.QuestionTypeMCQ, Index: intPtr(0)}},
			want:    0,
		},
		{
			name:    "empty answer set scores zero",
			answers: model.AnswerSet{},
			want:    0,
		},
		{
			name:    "nil answer set scores zero",
			answers: nil,
			want:    0,
		},
		{
			name:    "missing index scores zero",
			answers: model.AnswerSet{q1.ID: {Kind: model.QuestionTypeMCQ}},
			want:    0,
		},
		{
			name:    "kind mismatch scores zero",
			answers: model.AnswerSet{q1.ID: {Kind: model.QuestionTypeCoding, Output: "2"}},
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Grade(quiz, tt.answers); got != tt.want {
				t.Errorf("Grade() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGradeCodingExactMatch(t *testing.T) {
	q := codingQuestion("42")
	quiz := quizOf(q)

	if got := Grade(quiz, model.AnswerSet{q.ID: {Kind: model.QuestionTypeCoding, Output: "42"}}); got != 1 {
		t.Errorf("exact match: Grade() = %d, want 1", got)
	}
	// Trailing whitespace is not forgiven.
	if got := Grade(quiz, model.AnswerSet{q.ID: {Kind: model.QuestionTypeCoding, Output: "42 "}}); got != 0 {
		t.Errorf("trailing space: Grade() = %d, want 0", got)
	}
}

func TestGradeLongAnswerNeverScores(t *testing.T) {
	q1 := longAnswerQuestion()
	q2 := longAnswerQuestion()
	quiz := quizOf(q1, q2)

	answers := model.AnswerSet{
		q1.ID: {Kind: model.QuestionTypeLongAnswer, Text: "a thorough essay"},
		q2.ID: {Kind: model.QuestionTypeLongAnswer, Text: ""},
	}
	if got := Grade(quiz, answers); got != 0 {
		t.Errorf("Grade() = %d, want 0 for LONG_ANSWER-only quiz", got)
	}
}

func TestGradeMixedQuiz(t *testing.T) {
	mcq := mcqQuestion(1, "yes", "no")
	coding := codingQuestion("hello\n")
	long := longAnswerQuestion()
	quiz := quizOf(mcq, coding, long)

	answers := model.AnswerSet{
		mcq.ID:    {Kind: model.QuestionTypeMCQ, Index: intPtr(1)},
		coding.ID: {Kind: model.QuestionTypeCoding, Output: "hello\n"},
		long.ID:   {Kind: model.QuestionTypeLongAnswer, Text: "because"},
	}

	if got := Grade(quiz, answers); got != 2 {
		t.Errorf("Grade() = %d, want 2", got)
	}
	if got := MaxScore(quiz); got != 2 {
		t.Errorf("MaxScore() = %d, want 2 (LONG_ANSWER excluded)", got)
	}
}

func TestGradeIgnoresUnknownQuestionIDs(t *testing.T) {
	q := mcqQuestion(0, "A", "B")
	quiz := quizOf(q)

	answers := model.AnswerSet{
		q.ID:       {Kind: model.QuestionTypeMCQ, Index: intPtr(0)},
		uuid.New(): {Kind: model.QuestionTypeMCQ, Index: intPtr(0)},
		uuid.New(): {Kind: model.QuestionTypeCoding, Output: "noise"},
	}
	if got := Grade(quiz, answers); got != 1 {
		t.Errorf("Grade() = %d, want 1 (unknown ids ignored)", got)
	}
}

func TestGradeIsDeterministic(t *testing.T) {
	questions := make([]model.Question, 0, 8)
	answers := model.AnswerSet{}
	for i := 0; i < 8; i++ {
		q := mcqQuestion(i%4, "A", "B", "C", "D")
		questions = append(questions, q)
		answers[q.ID] = model.Answer{Kind: model.QuestionTypeMCQ, Index: intPtr(i % 3)}
	}
	quiz := quizOf(questions...)

	// Map iteration order varies between runs; the score must not.
	first := Grade(quiz, answers)
	for i := 0; i < 50; i++ {
		if got := Grade(quiz, answers); got != first {
			t.Fatalf("Grade() not deterministic: got %d then %d", first, got)
		}
	}
}

func TestMaxScoreEmptyAutoGradable(t *testing.T) {
	quiz := quizOf(longAnswerQuestion())
	if got := MaxScore(quiz); got != 0 {
		t.Errorf("MaxScore() = %d, want 0", got)
	}
}
