package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/learnifyhq/learnify-backend/internal/model"
)

type fakeQuizStore struct {
	created []*model.Quiz
	quizzes map[uuid.UUID]*model.Quiz
}

func (f *fakeQuizStore) CreateWithQuestions(_ context.Context, quiz *model.Quiz) error {
	quiz.ID = uuid.New()
	for i := range quiz.Questions {
		quiz.Questions[i].ID = uuid.New()
		quiz.Questions[i].QuizID = quiz.ID
		quiz.Questions[i].Position = i
	}
	f.created = append(f.created, quiz)
	return nil
}

func (f *fakeQuizStore) GetWithQuestions(_ context.Context, id uuid.UUID) (*model.Quiz, error) {
	if q, ok := f.quizzes[id]; ok {
		return q, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeQuizStore) ListByCourse(_ context.Context, _ uuid.UUID) ([]model.Quiz, error) {
	return nil, nil
}

func validCreateRequest() *model.CreateQuizRequest {
	return &model.CreateQuizRequest{
		Title:            "Sorting algorithms",
		TimeLimitMinutes: 20,
		CourseID:         uuid.New(),
		Questions: []model.QuestionInput{
			{
				Type:          model.QuestionTypeMCQ,
				Text:          "Worst case of quicksort?",
				Options:       []string{"O(n)", "O(n log n)", "O(n^2)"},
				CorrectAnswer: intPtr(2),
			},
			{
				Type: model.QuestionTypeCoding,
				Text: "Print the sorted list",
				CodingProblem: &model.CodingProblemInput{
					StarterCode:    "def solve():\n    pass",
					ExpectedOutput: "1 2 3",
				},
			},
			{
				Type: model.QuestionTypeLongAnswer,
				Text: "Explain stability in sorting.",
			},
		},
	}
}

func TestCreateQuiz(t *testing.T) {
	store := &fakeQuizStore{}
	svc := NewQuizService(store, zerolog.Nop())

	quiz, err := svc.Create(context.Background(), validCreateRequest())
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if len(store.created) != 1 {
		t.Fatalf("persisted quizzes = %d, want 1", len(store.created))
	}
	if len(quiz.Questions) != 3 {
		t.Fatalf("questions = %d, want 3", len(quiz.Questions))
	}
	if quiz.Questions[0].CorrectAnswer == nil || *quiz.Questions[0].CorrectAnswer != 2 {
		t.Error("MCQ correct answer was not kept")
	}
	if quiz.Questions[1].CodingProblem == nil || quiz.Questions[1].CodingProblem.ExpectedOutput != "1 2 3" {
		t.Error("coding problem was not kept")
	}
}

func TestCreateQuizRejectsInvalidQuestions(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.CreateQuizRequest)
	}{
		{"MCQ with one option", func(r *model.CreateQuizRequest) {
			r.Questions[0].Options = []string{"only"}
		}},
		{"MCQ without correct answer", func(r *model.CreateQuizRequest) {
			r.Questions[0].CorrectAnswer = nil
		}},
		{"MCQ answer out of range", func(r *model.CreateQuizRequest) {
			r.Questions[0].CorrectAnswer = intPtr(3)
		}},
		{"MCQ negative answer", func(r *model.CreateQuizRequest) {
			r.Questions[0].CorrectAnswer = intPtr(-1)
		}},
		{"coding without problem", func(r *model.CreateQuizRequest) {
			r.Questions[1].CodingProblem = nil
		}},
		{"coding without expected output", func(r *model.CreateQuizRequest) {
			r.Questions[1].CodingProblem.ExpectedOutput = ""
		}},
		{"unknown type", func(r *model.CreateQuizRequest) {
			r.Questions[2].Type = "ESSAY"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeQuizStore{}
			svc := NewQuizService(store, zerolog.Nop())

			req := validCreateRequest()
			tt.mutate(req)

			_, err := svc.Create(context.Background(), req)
			if !errors.Is(err, ErrInvalidQuestion) {
				t.Fatalf("Create() error = %v, want ErrInvalidQuestion", err)
			}
			if len(store.created) != 0 {
				t.Errorf("persisted quizzes = %d, want 0 (whole request rejected)", len(store.created))
			}
		})
	}
}

func TestCreateQuizDiscardsExtraneousFields(t *testing.T) {
	store := &fakeQuizStore{}
	svc := NewQuizService(store, zerolog.Nop())

	req := validCreateRequest()
	// An authoring form may submit MCQ fields alongside a coding question.
	req.Questions[1].Options = []string{"leftover", "fields"}
	req.Questions[1].CorrectAnswer = intPtr(0)

	quiz, err := svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	coding := quiz.Questions[1]
	if coding.Options != nil || coding.CorrectAnswer != nil {
		t.Error("fields outside the question type were not discarded")
	}
}

func TestGetQuizNotFound(t *testing.T) {
	svc := NewQuizService(&fakeQuizStore{quizzes: map[uuid.UUID]*model.Quiz{}}, zerolog.Nop())
	if _, err := svc.Get(context.Background(), uuid.New()); !errors.Is(err, ErrQuizNotFound) {
		t.Errorf("Get() error = %v, want ErrQuizNotFound", err)
	}
}

func TestListByCourseNeverReturnsNil(t *testing.T) {
	svc := NewQuizService(&fakeQuizStore{}, zerolog.Nop())
	quizzes, err := svc.ListByCourse(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("ListByCourse() error: %v", err)
	}
	if quizzes == nil {
		t.Error("ListByCourse() returned nil, want empty slice")
	}
}
