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

// MeetingHandler handles video meeting endpoints.
type MeetingHandler struct {
	meetingService *service.MeetingService
}

// NewMeetingHandler creates a new MeetingHandler.
func NewMeetingHandler(meetingService *service.MeetingService) *MeetingHandler {
	return &MeetingHandler{meetingService: meetingService}
}

// Create godoc
// POST /api/v1/meetings
func (h *MeetingHandler) Create(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req model.CreateMeetingRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	meeting, err := h.meetingService.Create(c.Request.Context(), claims.UserID, &req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"meeting": meeting})
}

// List godoc
// GET /api/v1/meetings
func (h *MeetingHandler) List(c *gin.Context) {
	meetings, err := h.meetingService.List(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"meetings": meetings})
}

// Get godoc
// GET /api/v1/meetings/:meeting_id
func (h *MeetingHandler) Get(c *gin.Context) {
	meetingID, err := uuid.Parse(c.Param("meeting_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	meeting, err := h.meetingService.Get(c.Request.Context(), meetingID)
	if errors.Is(err, service.ErrMeetingNotFound) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"meeting": meeting})
}

// Token godoc
// POST /api/v1/meetings/:meeting_id/token
// Signs a short-lived join token for the video provider's SDK.
func (h *MeetingHandler) Token(c *gin.Context) {
	claims := middleware.GetClaims(c)

	meetingID, err := uuid.Parse(c.Param("meeting_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	token, err := h.meetingService.RoomToken(c.Request.Context(), meetingID, claims.UserID)
	if errors.Is(err, service.ErrMeetingNotFound) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"token": token})
}
