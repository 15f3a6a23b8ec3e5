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

// QuizHandler handles quiz authoring and delivery endpoints.
type QuizHandler struct {
	quizService    *service.QuizService
	attemptService *service.AttemptService
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(quizService *service.QuizService, attemptService *service.AttemptService) *QuizHandler {
	return &QuizHandler{
		quizService:    quizService,
		attemptService: attemptService,
	}
}

// Create godoc
// POST /api/v1/quizzes
// Creates a quiz together with all its questions in one request.
func (h *QuizHandler) Create(c *gin.Context) {
	var req model.CreateQuizRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	quiz, err := h.quizService.Create(c.Request.Context(), &req)
	if errors.Is(err, service.ErrInvalidQuestion) {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrInvalidQuestion,
			map[string]string{"questions": err.Error()})
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"quiz": quiz})
}

// Get godoc
// GET /api/v1/quizzes/:quiz_id
// Teachers receive the full quiz; students receive the same quiz with
// correct answers and expected outputs removed.
func (h *QuizHandler) Get(c *gin.Context) {
	claims := middleware.GetClaims(c)

	quizID, err := uuid.Parse(c.Param("quiz_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	quiz, err := h.quizService.Get(c.Request.Context(), quizID)
	if errors.Is(err, service.ErrQuizNotFound) {
		response.Fail(c, http.StatusNotFound, response.ErrQuizNotFound)
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if claims != nil && claims.Role == model.RoleTeacher {
		response.Success(c, http.StatusOK, gin.H{"quiz": quiz})
		return
	}
	response.Success(c, http.StatusOK, gin.H{"quiz": quiz.LearnerPayload()})
}

// ListByCourse godoc
// GET /api/v1/courses/:course_id/quizzes
func (h *QuizHandler) ListByCourse(c *gin.Context) {
	claims := middleware.GetClaims(c)

	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	quizzes, err := h.quizService.ListByCourse(c.Request.Context(), courseID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if claims != nil && claims.Role == model.RoleTeacher {
		response.Success(c, http.StatusOK, gin.H{"quizzes": quizzes})
		return
	}

	payloads := make([]*model.QuizPayload, 0, len(quizzes))
	for i := range quizzes {
		payloads = append(payloads, quizzes[i].LearnerPayload())
	}
	response.Success(c, http.StatusOK, gin.H{"quizzes": payloads})
}

// Stats godoc
// GET /api/v1/quizzes/:quiz_id/stats
// Returns the aggregate attempt statistics of a quiz.
func (h *QuizHandler) Stats(c *gin.Context) {
	quizID, err := uuid.Parse(c.Param("quiz_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	stats, err := h.attemptService.Stats(c.Request.Context(), quizID)
	if errors.Is(err, service.ErrQuizNotFound) {
		response.Fail(c, http.StatusNotFound, response.ErrQuizNotFound)
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"stats": stats})
}
