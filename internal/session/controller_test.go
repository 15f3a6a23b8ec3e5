package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/learnifyhq/learnify-backend/internal/model"
)

type fakeFetcher struct {
	payload *model.QuizPayload
	err     error
}

func (f *fakeFetcher) FetchQuiz(_ context.Context, _ uuid.UUID) (*model.QuizPayload, error) {
	return f.payload, f.err
}

type fakeSubmitter struct {
	mu    sync.Mutex
	calls []model.SubmitAttemptRequest
	err   error
}

func (f *fakeSubmitter) SubmitAttempt(_ context.Context, req model.SubmitAttemptRequest) (*model.Attempt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	if f.err != nil {
		return nil, f.err
	}
	return &model.Attempt{
		ID:      uuid.New(),
		QuizID:  req.QuizID,
		Score:   0,
		Answers: req.Answers,
	}, nil
}

func (f *fakeSubmitter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func intPtr(n int) *int { return &n }

func testPayload(timeLimitMinutes, questionCount int) *model.QuizPayload {
	p := &model.QuizPayload{
		ID:               uuid.New(),
		Title:            "unit test quiz",
		TimeLimitMinutes: timeLimitMinutes,
	}
	for i := 0; i < questionCount; i++ {
		p.Questions = append(p.Questions, model.QuestionForLearner{
			ID:       uuid.New(),
			Type:     model.QuestionTypeMCQ,
			Text:     "q",
			Position: i,
			Options:  []string{"A", "B", "C", "D"},
		})
	}
	return p
}

func startController(t *testing.T, payload *model.QuizPayload, sub *fakeSubmitter) *Controller {
	t.Helper()
	c := New(&fakeFetcher{payload: payload}, sub, zerolog.Nop())
	if err := c.Start(context.Background(), payload.ID); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if got := c.State(); got != StateActive {
		t.Fatalf("state after Start = %s, want %s", got, StateActive)
	}
	return c
}

func TestStartInitializesCountdown(t *testing.T) {
	c := startController(t, testPayload(2, 1), &fakeSubmitter{})
	if got := c.Remaining(); got != 120 {
		t.Errorf("Remaining() = %d, want 120", got)
	}
	if got := c.RemainingDisplay(); got != "2:00" {
		t.Errorf("RemainingDisplay() = %q, want %q", got, "2:00")
	}
}

func TestStartFailureStaysLoading(t *testing.T) {
	c := New(&fakeFetcher{err: errors.New("boom")}, &fakeSubmitter{}, zerolog.Nop())
	if err := c.Start(context.Background(), uuid.New()); err == nil {
		t.Fatal("Start() error = nil, want error")
	}
	if got := c.State(); got != StateLoading {
		t.Errorf("state = %s, want %s", got, StateLoading)
	}
	if _, err := c.Result(); err == nil {
		t.Error("Result() error = nil, want recorded load error")
	}
}

func TestCountdownForcesSingleSubmission(t *testing.T) {
	sub := &fakeSubmitter{}
	c := startController(t, testPayload(1, 3), sub)

	q0 := c.mustCurrent(t)
	if err := c.SelectAnswer(model.Answer{Kind: model.QuestionTypeMCQ, Index: intPtr(1)}); err != nil {
		t.Fatalf("SelectAnswer() error: %v", err)
	}

	ctx := context.Background()
	for i := 0; i < 60; i++ {
		if got := c.State(); got != StateActive {
			t.Fatalf("left ACTIVE after %d ticks", i)
		}
		c.Tick(ctx)
	}

	if got := c.State(); got != StateSucceeded {
		t.Fatalf("state after 60 ticks = %s, want %s", got, StateSucceeded)
	}
	if got := sub.callCount(); got != 1 {
		t.Fatalf("submissions = %d, want exactly 1", got)
	}

	req := sub.calls[0]
	ans, ok := req.Answers[q0.ID]
	if !ok || ans.Index == nil || *ans.Index != 1 {
		t.Errorf("submitted answers missing collected answer: %+v", req.Answers)
	}

	// Further ticks after the terminal state do nothing.
	c.Tick(ctx)
	if got := sub.callCount(); got != 1 {
		t.Errorf("submissions after extra tick = %d, want 1", got)
	}
}

func TestManualSubmitOnlyOnLastQuestion(t *testing.T) {
	sub := &fakeSubmitter{}
	c := startController(t, testPayload(1, 2), sub)

	if err := c.Submit(context.Background()); !errors.Is(err, ErrNotLastQuestion) {
		t.Fatalf("Submit() on first question error = %v, want ErrNotLastQuestion", err)
	}

	c.Next()
	if err := c.Submit(context.Background()); err != nil {
		t.Fatalf("Submit() on last question error: %v", err)
	}
	if got := sub.callCount(); got != 1 {
		t.Errorf("submissions = %d, want 1", got)
	}
	if got := c.State(); got != StateSucceeded {
		t.Errorf("state = %s, want %s", got, StateSucceeded)
	}
}

func TestManualSubmitCancelsCountdown(t *testing.T) {
	sub := &fakeSubmitter{}
	c := startController(t, testPayload(1, 1), sub)

	if err := c.Submit(context.Background()); err != nil {
		t.Fatalf("Submit() error: %v", err)
	}

	// A stale timer tick arriving after submission must not double-submit.
	c.Tick(context.Background())
	if got := sub.callCount(); got != 1 {
		t.Errorf("submissions = %d, want 1", got)
	}
}

func TestNavigationClampsIndex(t *testing.T) {
	c := startController(t, testPayload(1, 3), &fakeSubmitter{})

	c.Previous()
	if got := c.QuestionIndex(); got != 0 {
		t.Errorf("index after Previous at start = %d, want 0", got)
	}

	for i := 0; i < 10; i++ {
		c.Next()
	}
	if got := c.QuestionIndex(); got != 2 {
		t.Errorf("index after repeated Next = %d, want 2", got)
	}
}

func TestSelectAnswerUpsertsWithoutAdvancing(t *testing.T) {
	sub := &fakeSubmitter{}
	c := startController(t, testPayload(1, 2), sub)

	if err := c.SelectAnswer(model.Answer{Kind: model.QuestionTypeMCQ, Index: intPtr(0)}); err != nil {
		t.Fatalf("SelectAnswer() error: %v", err)
	}
	if got := c.QuestionIndex(); got != 0 {
		t.Fatalf("SelectAnswer advanced index to %d", got)
	}
	// Re-answering the same question replaces the stored value.
	if err := c.SelectAnswer(model.Answer{Kind: model.QuestionTypeMCQ, Index: intPtr(3)}); err != nil {
		t.Fatalf("SelectAnswer() error: %v", err)
	}

	q0 := c.mustCurrent(t)
	c.Next()
	if err := c.Submit(context.Background()); err != nil {
		t.Fatalf("Submit() error: %v", err)
	}

	ans := sub.calls[0].Answers[q0.ID]
	if ans.Index == nil || *ans.Index != 3 {
		t.Errorf("stored answer = %+v, want upserted index 3", ans)
	}
}

func TestSubmitFailureIsTerminal(t *testing.T) {
	sub := &fakeSubmitter{err: errors.New("server exploded")}
	c := startController(t, testPayload(1, 1), sub)

	if err := c.Submit(context.Background()); err == nil {
		t.Fatal("Submit() error = nil, want failure")
	}
	if got := c.State(); got != StateFailed {
		t.Errorf("state = %s, want %s", got, StateFailed)
	}
	// No automatic retry: further ticks do not resubmit.
	c.Tick(context.Background())
	if got := sub.callCount(); got != 1 {
		t.Errorf("submissions = %d, want 1", got)
	}
}

func TestRemainingDisplayZeroPadsSeconds(t *testing.T) {
	c := startController(t, testPayload(1, 1), &fakeSubmitter{})
	ctx := context.Background()
	for i := 0; i < 55; i++ {
		c.Tick(ctx)
	}
	if got := c.RemainingDisplay(); got != "0:05" {
		t.Errorf("RemainingDisplay() = %q, want %q", got, "0:05")
	}
}

// mustCurrent fetches the current question or fails the test.
func (c *Controller) mustCurrent(t *testing.T) model.QuestionForLearner {
	t.Helper()
	q, ok := c.CurrentQuestion()
	if !ok {
		t.Fatal("CurrentQuestion() returned no question")
	}
	return q
}
