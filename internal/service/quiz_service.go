package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/learnifyhq/learnify-backend/internal/model"
)

// Quiz domain errors.
var (
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrInvalidQuestion signals a question whose type-specific required
	// fields are absent or inconsistent. Creation is rejected outright;
	// nothing is persisted.
	ErrInvalidQuestion = errors.New("invalid question")
)

// QuizStore is the persistence contract the quiz service needs. The
// atomic aggregate write and the read-with-joins are explicit here so
// they are guaranteed by contract, not by an ORM feature.
type QuizStore interface {
	CreateWithQuestions(ctx context.Context, quiz *model.Quiz) error
	GetWithQuestions(ctx context.Context, id uuid.UUID) (*model.Quiz, error)
	ListByCourse(ctx context.Context, courseID uuid.UUID) ([]model.Quiz, error)
}

// QuizService handles quiz authoring and retrieval.
type QuizService struct {
	quizzes QuizStore
	log     zerolog.Logger
}

// NewQuizService creates a new QuizService.
func NewQuizService(quizzes QuizStore, log zerolog.Logger) *QuizService {
	return &QuizService{
		quizzes: quizzes,
		log:     log.With().Str("component", "quiz_service").Logger(),
	}
}

// Create validates and persists a quiz with its questions in one atomic
// write. Fields that do not belong to a question's type are discarded,
// matching what an author's form may send; missing required fields
// reject the whole request with ErrInvalidQuestion.
func (s *QuizService) Create(ctx context.Context, req *model.CreateQuizRequest) (*model.Quiz, error) {
	quiz := &model.Quiz{
		Title:            req.Title,
		TimeLimitMinutes: req.TimeLimitMinutes,
		CourseID:         req.CourseID,
		Questions:        make([]model.Question, 0, len(req.Questions)),
	}

	for i, in := range req.Questions {
		q, err := buildQuestion(in)
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i, err)
		}
		quiz.Questions = append(quiz.Questions, q)
	}

	if err := s.quizzes.CreateWithQuestions(ctx, quiz); err != nil {
		return nil, fmt.Errorf("create quiz: %w", err)
	}

	s.log.Info().
		Str("quiz_id", quiz.ID.String()).
		Str("course_id", quiz.CourseID.String()).
		Int("questions", len(quiz.Questions)).
		Msg("Quiz created")
	return quiz, nil
}

// buildQuestion checks the type-specific invariants of one question
// input and converts it to the persistence model, keeping exactly the
// fields its type requires.
func buildQuestion(in model.QuestionInput) (model.Question, error) {
	q := model.Question{Type: in.Type, Text: in.Text}

	switch in.Type {
	case model.QuestionTypeMCQ:
		if len(in.Options) < 2 {
			return q, fmt.Errorf("%w: MCQ requires at least two options", ErrInvalidQuestion)
		}
		if in.CorrectAnswer == nil {
			return q, fmt.Errorf("%w: MCQ requires a correct_answer index", ErrInvalidQuestion)
		}
		if *in.CorrectAnswer < 0 || *in.CorrectAnswer >= len(in.Options) {
			return q, fmt.Errorf("%w: correct_answer %d out of range for %d options",
				ErrInvalidQuestion, *in.CorrectAnswer, len(in.Options))
		}
		q.Options = in.Options
		q.CorrectAnswer = in.CorrectAnswer

	case model.QuestionTypeCoding:
		if in.CodingProblem == nil || in.CodingProblem.ExpectedOutput == "" {
			return q, fmt.Errorf("%w: CODING requires a coding_problem with expected_output", ErrInvalidQuestion)
		}
		q.CodingProblem = &model.CodingProblem{
			StarterCode:    in.CodingProblem.StarterCode,
			ExpectedOutput: in.CodingProblem.ExpectedOutput,
		}

	case model.QuestionTypeLongAnswer:
		q.LongAnswer = in.LongAnswer

	default:
		return q, fmt.Errorf("%w: unknown type %q", ErrInvalidQuestion, in.Type)
	}

	return q, nil
}

// Get retrieves a quiz with its full question set.
func (s *QuizService) Get(ctx context.Context, id uuid.UUID) (*model.Quiz, error) {
	quiz, err := s.quizzes.GetWithQuestions(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrQuizNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get quiz: %w", err)
	}
	return quiz, nil
}

// ListByCourse retrieves all quizzes of a course in creation order.
func (s *QuizService) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]model.Quiz, error) {
	quizzes, err := s.quizzes.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	if quizzes == nil {
		quizzes = []model.Quiz{}
	}
	return quizzes, nil
}
