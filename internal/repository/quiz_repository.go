package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/learnifyhq/learnify-backend/internal/model"
)

// QuizRepository handles quiz data access. A quiz owns its questions
// and their coding problems; writes and reads always cover the whole
// aggregate.
type QuizRepository struct {
	pool *pgxpool.Pool
}

// NewQuizRepository creates a new QuizRepository.
func NewQuizRepository(pool *pgxpool.Pool) *QuizRepository {
	return &QuizRepository{pool: pool}
}

// CreateWithQuestions persists a quiz together with its questions and
// coding problems in one transaction. Either the whole aggregate
// commits or nothing does — a partial quiz is never visible.
// Generated ids and timestamps are written back into quiz.
func (r *QuizRepository) CreateWithQuestions(ctx context.Context, quiz *model.Quiz) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO quizzes (title, time_limit_minutes, course_id)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		quiz.Title, quiz.TimeLimitMinutes, quiz.CourseID,
	).Scan(&quiz.ID, &quiz.CreatedAt, &quiz.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert quiz: %w", err)
	}

	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		q.QuizID = quiz.ID
		q.Position = i

		err = tx.QueryRow(ctx,
			`INSERT INTO questions (quiz_id, type, text, position, options, correct_answer, long_answer)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 RETURNING id`,
			q.QuizID, q.Type, q.Text, q.Position, q.Options, q.CorrectAnswer, q.LongAnswer,
		).Scan(&q.ID)
		if err != nil {
			return fmt.Errorf("insert question %d: %w", i, err)
		}

		if q.CodingProblem != nil {
			cp := q.CodingProblem
			cp.QuestionID = q.ID
			err = tx.QueryRow(ctx,
				`INSERT INTO coding_problems (question_id, starter_code, expected_output)
				 VALUES ($1, $2, $3)
				 RETURNING id`,
				cp.QuestionID, cp.StarterCode, cp.ExpectedOutput,
			).Scan(&cp.ID)
			if err != nil {
				return fmt.Errorf("insert coding problem %d: %w", i, err)
			}
		}
	}

	return tx.Commit(ctx)
}

// GetWithQuestions retrieves a quiz with its questions (ordered by
// position) and their coding problems. Returns pgx.ErrNoRows if the
// quiz does not exist.
func (r *QuizRepository) GetWithQuestions(ctx context.Context, id uuid.UUID) (*model.Quiz, error) {
	quiz := &model.Quiz{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, title, time_limit_minutes, course_id, created_at, updated_at
		 FROM quizzes WHERE id = $1`, id,
	).Scan(&quiz.ID, &quiz.Title, &quiz.TimeLimitMinutes, &quiz.CourseID, &quiz.CreatedAt, &quiz.UpdatedAt)
	if err != nil {
		return nil, err
	}

	quiz.Questions, err = r.loadQuestions(ctx, quiz.ID)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	return quiz, nil
}

// ListByCourse retrieves all quizzes of a course in creation order,
// each with its full question set.
func (r *QuizRepository) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]model.Quiz, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, time_limit_minutes, course_id, created_at, updated_at
		 FROM quizzes WHERE course_id = $1
		 ORDER BY created_at`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quizzes []model.Quiz
	for rows.Next() {
		var q model.Quiz
		if err := rows.Scan(&q.ID, &q.Title, &q.TimeLimitMinutes, &q.CourseID, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, err
		}
		quizzes = append(quizzes, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range quizzes {
		quizzes[i].Questions, err = r.loadQuestions(ctx, quizzes[i].ID)
		if err != nil {
			return nil, fmt.Errorf("load questions for %s: %w", quizzes[i].ID, err)
		}
	}
	return quizzes, nil
}

// loadQuestions fetches all questions of a quiz joined with their
// coding problems, ordered by position.
func (r *QuizRepository) loadQuestions(ctx context.Context, quizID uuid.UUID) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT q.id, q.quiz_id, q.type, q.text, q.position, q.options, q.correct_answer, q.long_answer,
		        cp.id, cp.starter_code, cp.expected_output
		 FROM questions q
		 LEFT JOIN coding_problems cp ON cp.question_id = q.id
		 WHERE q.quiz_id = $1
		 ORDER BY q.position`, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var q model.Question
		var cpID *uuid.UUID
		var starterCode, expectedOutput *string
		err := rows.Scan(&q.ID, &q.QuizID, &q.Type, &q.Text, &q.Position, &q.Options, &q.CorrectAnswer, &q.LongAnswer,
			&cpID, &starterCode, &expectedOutput)
		if err != nil {
			return nil, err
		}
		if cpID != nil {
			q.CodingProblem = &model.CodingProblem{
				ID:             *cpID,
				QuestionID:     q.ID,
				StarterCode:    *starterCode,
				ExpectedOutput: *expectedOutput,
			}
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}
