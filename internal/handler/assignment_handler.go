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

// AssignmentHandler handles assignment and submission endpoints.
type AssignmentHandler struct {
	assignmentService *service.AssignmentService
	uploadService     *service.UploadService
}

// NewAssignmentHandler creates a new AssignmentHandler.
func NewAssignmentHandler(assignmentService *service.AssignmentService, uploadService *service.UploadService) *AssignmentHandler {
	return &AssignmentHandler{
		assignmentService: assignmentService,
		uploadService:     uploadService,
	}
}

// Create godoc
// POST /api/v1/assignments
func (h *AssignmentHandler) Create(c *gin.Context) {
	var req model.CreateAssignmentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	assignment, err := h.assignmentService.Create(c.Request.Context(), &req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"assignment": assignment})
}

// Get godoc
// GET /api/v1/assignments/:assignment_id
func (h *AssignmentHandler) Get(c *gin.Context) {
	assignmentID, err := uuid.Parse(c.Param("assignment_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	assignment, err := h.assignmentService.Get(c.Request.Context(), assignmentID)
	if errors.Is(err, service.ErrAssignmentNotFound) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"assignment": assignment})
}

// ListPending godoc
// GET /api/v1/assignments/pending
// Returns assignments still due that the student has not submitted,
// nearest due date first.
func (h *AssignmentHandler) ListPending(c *gin.Context) {
	claims := middleware.GetClaims(c)

	pending, err := h.assignmentService.ListPending(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"assignments": pending})
}

// SubmitFile godoc
// POST /api/v1/assignments/:assignment_id/submissions
// Accepts a multipart upload as the student's answer.
func (h *AssignmentHandler) SubmitFile(c *gin.Context) {
	claims := middleware.GetClaims(c)

	assignmentID, err := uuid.Parse(c.Param("assignment_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}

	file, err := header.Open()
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	defer file.Close()

	fileURL, err := h.uploadService.SaveSubmission(file, header)
	switch {
	case errors.Is(err, service.ErrUnsupportedFileType):
		response.Fail(c, http.StatusBadRequest, response.ErrUnsupportedFile)
		return
	case errors.Is(err, service.ErrFileTooLarge):
		response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
		return
	case err != nil:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	submission, err := h.assignmentService.RecordSubmission(c.Request.Context(), assignmentID, claims.UserID, fileURL)
	if errors.Is(err, service.ErrAssignmentNotFound) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"submission": submission})
}

// ListSubmissions godoc
// GET /api/v1/assignments/:assignment_id/submissions
// Teacher-only listing of every submission for an assignment.
func (h *AssignmentHandler) ListSubmissions(c *gin.Context) {
	assignmentID, err := uuid.Parse(c.Param("assignment_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	submissions, err := h.assignmentService.ListSubmissions(c.Request.Context(), assignmentID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"submissions": submissions})
}

// Review godoc
// PATCH /api/v1/submissions/:submission_id
// Sets the grade and feedback on a submission.
func (h *AssignmentHandler) Review(c *gin.Context) {
	submissionID, err := uuid.Parse(c.Param("submission_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.ReviewSubmissionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	submission, err := h.assignmentService.Review(c.Request.Context(), submissionID, &req)
	if errors.Is(err, service.ErrSubmissionNotFound) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"submission": submission})
}
