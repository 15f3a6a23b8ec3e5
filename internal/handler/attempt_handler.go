package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/learnifyhq/learnify-backend/internal/middleware"
	"github.com/learnifyhq/learnify-backend/internal/model"
	"github.com/learnifyhq/learnify-backend/internal/response"
	"github.com/learnifyhq/learnify-backend/internal/service"
	"github.com/learnifyhq/learnify-backend/internal/validator"
)

// AttemptHandler handles quiz attempt submission and retrieval.
type AttemptHandler struct {
	attemptService *service.AttemptService
}

// NewAttemptHandler creates a new AttemptHandler.
func NewAttemptHandler(attemptService *service.AttemptService) *AttemptHandler {
	return &AttemptHandler{attemptService: attemptService}
}

// Submit godoc
// POST /api/v1/attempts
// Grades the submitted answers against the quiz and records the attempt.
func (h *AttemptHandler) Submit(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req model.SubmitAttemptRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	attempt, err := h.attemptService.Submit(c.Request.Context(), claims.UserID, &req)
	if errors.Is(err, service.ErrQuizNotFound) {
		response.Fail(c, http.StatusNotFound, response.ErrQuizNotFound)
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"attempt": attempt})
}

// Get godoc
// GET /api/v1/attempts/:attempt_id
func (h *AttemptHandler) Get(c *gin.Context) {
	claims := middleware.GetClaims(c)

	attemptID, err := uuid.Parse(c.Param("attempt_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	attempt, err := h.attemptService.Get(c.Request.Context(), attemptID)
	if errors.Is(err, service.ErrAttemptNotFound) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	// Students may only read their own attempts.
	if claims.Role != model.RoleTeacher && attempt.UserID != claims.UserID {
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"attempt": attempt})
}

// ListByQuiz godoc
// GET /api/v1/quizzes/:quiz_id/attempts
// Teacher-only listing of every attempt for a quiz, newest first.
func (h *AttemptHandler) ListByQuiz(c *gin.Context) {
	quizID, err := uuid.Parse(c.Param("quiz_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	attempts, err := h.attemptService.ListByQuiz(c.Request.Context(), quizID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"attempts": attempts})
}
