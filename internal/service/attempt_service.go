package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/learnifyhq/learnify-backend/internal/config"
	"github.com/learnifyhq/learnify-backend/internal/grading"
	"github.com/learnifyhq/learnify-backend/internal/model"
)

// ErrAttemptNotFound is returned when no attempt matches the lookup.
var ErrAttemptNotFound = errors.New("attempt not found")

// QuizReader loads the full quiz aggregate grading depends on.
type QuizReader interface {
	GetWithQuestions(ctx context.Context, id uuid.UUID) (*model.Quiz, error)
}

// AttemptStore is the persistence contract for attempts.
type AttemptStore interface {
	Create(ctx context.Context, a *model.Attempt) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Attempt, error)
	ListByQuiz(ctx context.Context, quizID uuid.UUID) ([]model.Attempt, error)
	GetQuizStats(ctx context.Context, quizID uuid.UUID) (*model.QuizStats, error)
}

// AttemptService accepts finished attempts: it loads the quiz, grades
// the submitted answers, and persists exactly one attempt row. There is
// deliberately no idempotency guard — a user submitting the same quiz
// twice records two attempts (retakes).
type AttemptService struct {
	quizzes  QuizReader
	attempts AttemptStore
	rdb      *redis.Client // nil disables async stat aggregation
	log      zerolog.Logger
}

// NewAttemptService creates a new AttemptService.
func NewAttemptService(quizzes QuizReader, attempts AttemptStore, rdb *redis.Client, log zerolog.Logger) *AttemptService {
	return &AttemptService{
		quizzes:  quizzes,
		attempts: attempts,
		rdb:      rdb,
		log:      log.With().Str("component", "attempt_service").Logger(),
	}
}

// Submit grades and records one attempt. If the quiz does not exist the
// call fails with ErrQuizNotFound and nothing is written — grading
// depends on a fully loaded quiz, so attempt creation never commits
// without it.
func (s *AttemptService) Submit(ctx context.Context, userID string, req *model.SubmitAttemptRequest) (*model.Attempt, error) {
	quiz, err := s.quizzes.GetWithQuestions(ctx, req.QuizID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrQuizNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load quiz: %w", err)
	}

	answers := req.Answers
	if answers == nil {
		answers = model.AnswerSet{}
	}

	attempt := &model.Attempt{
		QuizID:    quiz.ID,
		UserID:    userID,
		Score:     grading.Grade(quiz, answers),
		MaxScore:  grading.MaxScore(quiz),
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Answers:   answers,
	}

	if err := s.attempts.Create(ctx, attempt); err != nil {
		return nil, fmt.Errorf("create attempt: %w", err)
	}

	s.enqueueStats(ctx, attempt)

	s.log.Info().
		Str("attempt_id", attempt.ID.String()).
		Str("quiz_id", quiz.ID.String()).
		Str("user_id", userID).
		Int("score", attempt.Score).
		Int("max_score", attempt.MaxScore).
		Msg("Attempt recorded")
	return attempt, nil
}

// enqueueStats pushes the score onto the stats queue for the background
// worker. Best effort: a queue failure never fails the submission.
func (s *AttemptService) enqueueStats(ctx context.Context, a *model.Attempt) {
	if s.rdb == nil {
		return
	}
	payload, _ := json.Marshal(map[string]interface{}{
		"quiz_id": a.QuizID.String(),
		"score":   a.Score,
	})
	if err := s.rdb.RPush(ctx, config.WorkerKey.QuizStatsQueue, payload).Err(); err != nil {
		s.log.Warn().Err(err).Str("quiz_id", a.QuizID.String()).Msg("Stats enqueue failed")
	}
}

// Get retrieves an attempt by id.
func (s *AttemptService) Get(ctx context.Context, id uuid.UUID) (*model.Attempt, error) {
	attempt, err := s.attempts.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAttemptNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get attempt: %w", err)
	}
	return attempt, nil
}

// ListByQuiz retrieves all attempts against a quiz, newest first.
func (s *AttemptService) ListByQuiz(ctx context.Context, quizID uuid.UUID) ([]model.Attempt, error) {
	attempts, err := s.attempts.ListByQuiz(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	if attempts == nil {
		attempts = []model.Attempt{}
	}
	return attempts, nil
}

// Stats reads the aggregate the stats worker maintains for a quiz.
func (s *AttemptService) Stats(ctx context.Context, quizID uuid.UUID) (*model.QuizStats, error) {
	stats, err := s.attempts.GetQuizStats(ctx, quizID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrQuizNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("quiz stats: %w", err)
	}
	return stats, nil
}
