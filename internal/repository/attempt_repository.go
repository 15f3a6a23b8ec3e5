package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/learnifyhq/learnify-backend/internal/model"
)

// AttemptRepository handles attempt data access. Attempts are
// append-only: there are insert and read operations, nothing else.
type AttemptRepository struct {
	pool *pgxpool.Pool
}

// NewAttemptRepository creates a new AttemptRepository.
func NewAttemptRepository(pool *pgxpool.Pool) *AttemptRepository {
	return &AttemptRepository{pool: pool}
}

// Create inserts a new attempt row. The answers blob is stored verbatim
// for audit and later manual review of LONG_ANSWER entries.
func (r *AttemptRepository) Create(ctx context.Context, a *model.Attempt) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO attempts (quiz_id, user_id, score, max_score, start_time, end_time, answers)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		a.QuizID, a.UserID, a.Score, a.MaxScore, a.StartTime, a.EndTime, a.Answers,
	).Scan(&a.ID, &a.CreatedAt)
}

// GetByID retrieves an attempt by its UUID.
func (r *AttemptRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Attempt, error) {
	a := &model.Attempt{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, quiz_id, user_id, score, max_score, start_time, end_time, answers, created_at
		 FROM attempts WHERE id = $1`, id,
	).Scan(&a.ID, &a.QuizID, &a.UserID, &a.Score, &a.MaxScore, &a.StartTime, &a.EndTime, &a.Answers, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListByQuiz retrieves all attempts against a quiz, newest first.
func (r *AttemptRepository) ListByQuiz(ctx context.Context, quizID uuid.UUID) ([]model.Attempt, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, quiz_id, user_id, score, max_score, start_time, end_time, answers, created_at
		 FROM attempts WHERE quiz_id = $1
		 ORDER BY created_at DESC`, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []model.Attempt
	for rows.Next() {
		var a model.Attempt
		if err := rows.Scan(&a.ID, &a.QuizID, &a.UserID, &a.Score, &a.MaxScore, &a.StartTime, &a.EndTime, &a.Answers, &a.CreatedAt); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

// GetQuizStats reads the aggregate maintained by the stats worker.
// A quiz with no recorded attempts yet yields zero counts, not an error.
func (r *AttemptRepository) GetQuizStats(ctx context.Context, quizID uuid.UUID) (*model.QuizStats, error) {
	stats := &model.QuizStats{QuizID: quizID}
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(attempt_count, 0), COALESCE(total_score, 0)
		 FROM quizzes
		 LEFT JOIN quiz_stats ON quiz_stats.quiz_id = quizzes.id
		 WHERE quizzes.id = $1`, quizID,
	).Scan(&stats.AttemptCount, &stats.TotalScore)
	if err != nil {
		return nil, err
	}
	if stats.AttemptCount > 0 {
		stats.AverageScore = float64(stats.TotalScore) / float64(stats.AttemptCount)
	}
	return stats, nil
}
