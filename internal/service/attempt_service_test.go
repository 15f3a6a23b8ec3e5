package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/learnifyhq/learnify-backend/internal/model"
)

type fakeQuizReader struct {
	quizzes map[uuid.UUID]*model.Quiz
}

func (f *fakeQuizReader) GetWithQuestions(_ context.Context, id uuid.UUID) (*model.Quiz, error) {
	if q, ok := f.quizzes[id]; ok {
		return q, nil
	}
	return nil, pgx.ErrNoRows
}

type fakeAttemptStore struct {
	created []*model.Attempt
}

func (f *fakeAttemptStore) Create(_ context.Context, a *model.Attempt) error {
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	f.created = append(f.created, a)
	return nil
}

func (f *fakeAttemptStore) GetByID(_ context.Context, id uuid.UUID) (*model.Attempt, error) {
	for _, a := range f.created {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeAttemptStore) ListByQuiz(_ context.Context, quizID uuid.UUID) ([]model.Attempt, error) {
	var out []model.Attempt
	for _, a := range f.created {
		if a.QuizID == quizID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAttemptStore) GetQuizStats(_ context.Context, quizID uuid.UUID) (*model.QuizStats, error) {
	return &model.QuizStats{QuizID: quizID}, nil
}

func intPtr(n int) *int { return &n }

func mcqQuiz(correct int) *model.Quiz {
	quizID := uuid.New()
	return &model.Quiz{
		ID:               quizID,
		Title:            "single MCQ",
		TimeLimitMinutes: 1,
		Questions: []model.Question{{
			ID:            uuid.New(),
			QuizID:        quizID,
			Type:          model.QuestionTypeMCQ,
			Text:          "pick",
			Options:       []string{"A", "B", "C", "D"},
			CorrectAnswer: intPtr(correct),
		}},
	}
}

func newAttemptService(quiz *model.Quiz) (*AttemptService, *fakeAttemptStore) {
	reader := &fakeQuizReader{quizzes: map[uuid.UUID]*model.Quiz{}}
	if quiz != nil {
		reader.quizzes[quiz.ID] = quiz
	}
	store := &fakeAttemptStore{}
	return NewAttemptService(reader, store, nil, zerolog.Nop()), store
}

func submitReq(quizID uuid.UUID, answers model.AnswerSet) *model.SubmitAttemptRequest {
	start := time.Now().Add(-time.Minute)
	return &model.SubmitAttemptRequest{
		QuizID:    quizID,
		Answers:   answers,
		StartTime: start,
		EndTime:   start.Add(time.Minute),
	}
}

func TestSubmitScoresAndPersists(t *testing.T) {
	quiz := mcqQuiz(2)
	qID := quiz.Questions[0].ID
	svc, store := newAttemptService(quiz)

	tests := []struct {
		name      string
		answers   model.AnswerSet
		wantScore int
	}{
		{"correct answer", model.AnswerSet{qID: {Kind: model.QuestionTypeMCQ, Index: intPtr(2)}}, 1},
		{"wrong answer", model.AnswerSet{qID: {Kind: model.QuestionTypeMCQ, Index: intPtr(0)}}, 0},
		{"no answers", model.AnswerSet{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempt, err := svc.Submit(context.Background(), "user-1", submitReq(quiz.ID, tt.answers))
			if err != nil {
				t.Fatalf("Submit() error: %v", err)
			}
			if attempt.Score != tt.wantScore {
				t.Errorf("Score = %d, want %d", attempt.Score, tt.wantScore)
			}
			if attempt.MaxScore != 1 {
				t.Errorf("MaxScore = %d, want 1", attempt.MaxScore)
			}
			if attempt.ID == uuid.Nil {
				t.Error("attempt id was not generated")
			}
		})
	}

	if len(store.created) != 3 {
		t.Errorf("persisted attempts = %d, want 3 (retakes create separate rows)", len(store.created))
	}
}

func TestSubmitUnknownQuizPersistsNothing(t *testing.T) {
	svc, store := newAttemptService(nil)

	_, err := svc.Submit(context.Background(), "user-1", submitReq(uuid.New(), model.AnswerSet{}))
	if err != ErrQuizNotFound {
		t.Fatalf("Submit() error = %v, want ErrQuizNotFound", err)
	}
	if len(store.created) != 0 {
		t.Errorf("persisted attempts = %d, want 0", len(store.created))
	}
}

func TestSubmitStoresAnswersVerbatim(t *testing.T) {
	quiz := mcqQuiz(1)
	svc, store := newAttemptService(quiz)

	// Includes an answer for a question id the quiz does not contain;
	// it scores nothing but is still stored for audit.
	strayID := uuid.New()
	answers := model.AnswerSet{
		quiz.Questions[0].ID: {Kind: model.QuestionTypeMCQ, Index: intPtr(1)},
		strayID:              {Kind: model.QuestionTypeLongAnswer, Text: "free-form note"},
	}

	attempt, err := svc.Submit(context.Background(), "user-2", submitReq(quiz.ID, answers))
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if attempt.Score != 1 {
		t.Errorf("Score = %d, want 1 (stray id ignored by grading)", attempt.Score)
	}

	stored := store.created[0].Answers
	if len(stored) != 2 {
		t.Fatalf("stored answers = %d entries, want 2", len(stored))
	}
	if stored[strayID].Text != "free-form note" {
		t.Error("stray answer was not stored verbatim")
	}
}

func TestSubmitNilAnswersBecomesEmptySet(t *testing.T) {
	quiz := mcqQuiz(0)
	svc, store := newAttemptService(quiz)

	attempt, err := svc.Submit(context.Background(), "user-3", submitReq(quiz.ID, nil))
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if attempt.Score != 0 {
		t.Errorf("Score = %d, want 0", attempt.Score)
	}
	if store.created[0].Answers == nil {
		t.Error("stored answers is nil, want empty set")
	}
}

func TestGetUnknownAttempt(t *testing.T) {
	svc, _ := newAttemptService(nil)
	if _, err := svc.Get(context.Background(), uuid.New()); err != ErrAttemptNotFound {
		t.Errorf("Get() error = %v, want ErrAttemptNotFound", err)
	}
}
