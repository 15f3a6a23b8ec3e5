// Package session drives a single quiz-taking sitting: it loads the
// quiz, walks the learner through the questions, counts the time limit
// down second by second, and submits the collected answers exactly once
// — either when the learner finishes or when the countdown expires.
//
// The controller is the in-process counterpart of the browser attempt
// page; the Go client and the e2e suite drive it directly.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/learnifyhq/learnify-backend/internal/model"
)

// State is the lifecycle phase of an attempt sitting.
type State string

const (
	StateLoading    State = "LOADING"
	StateActive     State = "ACTIVE"
	StateSubmitting State = "SUBMITTING"
	StateSucceeded  State = "SUCCEEDED"
	StateFailed     State = "FAILED"
)

var (
	// ErrNotActive is returned by operations that require a running sitting.
	ErrNotActive = errors.New("attempt session is not active")
	// ErrNotLastQuestion is returned when Submit is called before the
	// learner has reached the final question. The countdown path is
	// exempt: expiry submits from any question.
	ErrNotLastQuestion = errors.New("submit is only available on the last question")
)

// QuizFetcher loads the learner-facing quiz payload.
type QuizFetcher interface {
	FetchQuiz(ctx context.Context, id uuid.UUID) (*model.QuizPayload, error)
}

// AttemptSubmitter delivers the finished attempt for grading and persistence.
type AttemptSubmitter interface {
	SubmitAttempt(ctx context.Context, req model.SubmitAttemptRequest) (*model.Attempt, error)
}

// Controller is the state machine for one sitting. All methods are safe
// for use from the ticker goroutine and a UI goroutine concurrently;
// the in-flight guard guarantees a single submission even if the timer
// fires while a manual submit is underway.
type Controller struct {
	quizzes  QuizFetcher
	attempts AttemptSubmitter
	log      zerolog.Logger

	mu        sync.Mutex
	state     State
	quiz      *model.QuizPayload
	index     int
	answers   model.AnswerSet
	remaining int // whole seconds left on the countdown
	startTime time.Time
	attempt   *model.Attempt
	err       error
}

// New creates a Controller in the LOADING state.
func New(quizzes QuizFetcher, attempts AttemptSubmitter, log zerolog.Logger) *Controller {
	return &Controller{
		quizzes:  quizzes,
		attempts: attempts,
		log:      log.With().Str("component", "attempt_session").Logger(),
		state:    StateLoading,
		answers:  model.AnswerSet{},
	}
}

// Start fetches the quiz and activates the sitting. On failure the
// controller stays in LOADING with the error recorded; there is no
// retry policy.
func (c *Controller) Start(ctx context.Context, quizID uuid.UUID) error {
	quiz, err := c.quizzes.FetchQuiz(ctx, quizID)
	if err != nil {
		c.mu.Lock()
		c.err = fmt.Errorf("fetch quiz: %w", err)
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.quiz = quiz
	c.index = 0
	c.remaining = quiz.TimeLimitMinutes * 60
	c.startTime = time.Now()
	c.state = StateActive

	c.log.Info().
		Str("quiz_id", quiz.ID.String()).
		Int("questions", len(quiz.Questions)).
		Int("seconds", c.remaining).
		Msg("Attempt started")
	return nil
}

// Run ticks the countdown once per second until the sitting leaves the
// ACTIVE state or ctx is cancelled. Call in a goroutine after Start.
func (c *Controller) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Tick(ctx)
			if c.State() != StateActive {
				return
			}
		}
	}
}

// Tick advances the countdown by one second. Reaching zero forces a
// submission with whatever answers were collected so far. Ticks are
// ignored outside the ACTIVE state, which is what cancels the timer the
// instant a manual submission begins.
func (c *Controller) Tick(ctx context.Context) {
	c.mu.Lock()
	if c.state != StateActive {
		c.mu.Unlock()
		return
	}
	if c.remaining > 0 {
		c.remaining--
	}
	if c.remaining > 0 {
		c.mu.Unlock()
		return
	}
	// Countdown hit zero: force the submission from whichever question
	// the learner is on.
	c.beginSubmitLocked()
	c.mu.Unlock()

	c.log.Info().Msg("Time limit reached, submitting")
	c.finishSubmit(ctx)
}

// Submit is the learner's explicit submit action, available on the last
// question only. It blocks until the server accepts or rejects the attempt.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateActive {
		c.mu.Unlock()
		return ErrNotActive
	}
	if c.index != len(c.quiz.Questions)-1 {
		c.mu.Unlock()
		return ErrNotLastQuestion
	}
	c.beginSubmitLocked()
	c.mu.Unlock()

	c.finishSubmit(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// beginSubmitLocked transitions ACTIVE → SUBMITTING. The caller must
// hold c.mu and must have verified the state is ACTIVE; the transition
// is what makes concurrent timer/manual triggers collapse into one
// submission.
func (c *Controller) beginSubmitLocked() {
	c.state = StateSubmitting
	c.remaining = 0
}

// finishSubmit performs the network call outside the lock and records
// the terminal state. Any transport or server failure is terminal; the
// controller never retries.
func (c *Controller) finishSubmit(ctx context.Context) {
	c.mu.Lock()
	req := model.SubmitAttemptRequest{
		QuizID:    c.quiz.ID,
		Answers:   c.answers,
		StartTime: c.startTime,
		EndTime:   time.Now(),
	}
	c.mu.Unlock()

	attempt, err := c.attempts.SubmitAttempt(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state = StateFailed
		c.err = fmt.Errorf("submit attempt: %w", err)
		c.log.Error().Err(err).Msg("Attempt submission failed")
		return
	}
	c.state = StateSucceeded
	c.attempt = attempt
	c.log.Info().
		Str("attempt_id", attempt.ID.String()).
		Int("score", attempt.Score).
		Msg("Attempt submitted")
}

// Next moves to the following question. The index clamps at the last
// question; collected answers are untouched.
func (c *Controller) Next() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateActive {
		return
	}
	if c.index < len(c.quiz.Questions)-1 {
		c.index++
	}
}

// Previous moves to the preceding question, clamped at the first.
func (c *Controller) Previous() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateActive {
		return
	}
	if c.index > 0 {
		c.index--
	}
}

// SelectAnswer records an answer for the current question, replacing
// any earlier answer to it. It does not advance the question index.
func (c *Controller) SelectAnswer(ans model.Answer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateActive {
		return ErrNotActive
	}
	q := c.quiz.Questions[c.index]
	c.answers[q.ID] = ans
	return nil
}

// CurrentQuestion returns the question the sitting is positioned on.
func (c *Controller) CurrentQuestion() (model.QuestionForLearner, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.quiz == nil || len(c.quiz.Questions) == 0 {
		return model.QuestionForLearner{}, false
	}
	return c.quiz.Questions[c.index], true
}

// QuestionIndex returns the 0-based current question index.
func (c *Controller) QuestionIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// Remaining returns the countdown value in whole seconds, never negative.
func (c *Controller) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// RemainingDisplay renders the countdown as minutes:seconds with the
// seconds zero-padded, e.g. "9:05".
func (c *Controller) RemainingDisplay() string {
	r := c.Remaining()
	return fmt.Sprintf("%d:%02d", r/60, r%60)
}

// State returns the current lifecycle phase.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Result returns the persisted attempt after SUCCEEDED, or the terminal
// error after FAILED (and the load error while stuck in LOADING).
func (c *Controller) Result() (*model.Attempt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attempt, c.err
}
