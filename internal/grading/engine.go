// Package grading scores quiz attempts. Grade is a pure function over
// a fully loaded quiz definition and a set of submitted answers, so a
// stored attempt can always be re-scored to the same result.
package grading

import (
	"github.com/learnifyhq/learnify-backend/internal/model"
)

// Grade walks quiz.Questions in order and counts exact matches.
// Per question type:
//   - MCQ: 1 point iff the submitted index equals the correct index.
//   - CODING: 1 point iff the submitted output equals the expected
//     output byte for byte. Submitted code is never executed.
//   - LONG_ANSWER: always 0; reserved for manual review.
//
// Missing answers, answers of the wrong kind, and answer keys that
// match no question all score 0 without error. No partial credit,
// no negative marking.
func Grade(quiz *model.Quiz, answers model.AnswerSet) int {
	score := 0
	for _, q := range quiz.Questions {
		ans, ok := answers[q.ID]
		if !ok || ans.Kind != q.Type {
			continue
		}

		switch q.Type {
		case model.QuestionTypeMCQ:
			if q.CorrectAnswer != nil && ans.Index != nil && *ans.Index == *q.CorrectAnswer {
				score++
			}
		case model.QuestionTypeCoding:
			if q.CodingProblem != nil && ans.Output == q.CodingProblem.ExpectedOutput {
				score++
			}
		case model.QuestionTypeLongAnswer:
			// Manual grading only.
		}
	}
	return score
}

// MaxScore returns the highest score Grade can produce for quiz:
// the number of auto-gradable (MCQ and CODING) questions.
func MaxScore(quiz *model.Quiz) int {
	n := 0
	for _, q := range quiz.Questions {
		switch q.Type {
		case model.QuestionTypeMCQ, model.QuestionTypeCoding:
			n++
		}
	}
	return n
}
