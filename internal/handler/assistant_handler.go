package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/learnifyhq/learnify-backend/internal/middleware"
	"github.com/learnifyhq/learnify-backend/internal/model"
	"github.com/learnifyhq/learnify-backend/internal/response"
	"github.com/learnifyhq/learnify-backend/internal/service"
	"github.com/learnifyhq/learnify-backend/internal/validator"
)

// AssistantHandler handles study assistant chat endpoints.
type AssistantHandler struct {
	assistantService *service.AssistantService
}

// NewAssistantHandler creates a new AssistantHandler.
func NewAssistantHandler(assistantService *service.AssistantService) *AssistantHandler {
	return &AssistantHandler{assistantService: assistantService}
}

// Chat godoc
// POST /api/v1/assistant/chat
// Sends a message to the assistant and returns its reply.
func (h *AssistantHandler) Chat(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req model.ChatRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	reply, err := h.assistantService.Chat(c.Request.Context(), claims.UserID, req.Message)
	if errors.Is(err, service.ErrAssistantUnavailable) {
		response.Fail(c, http.StatusBadGateway, response.ErrAssistantUnavailable)
		return
	}
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, reply)
}

// History godoc
// GET /api/v1/assistant/history
func (h *AssistantHandler) History(c *gin.Context) {
	claims := middleware.GetClaims(c)

	history, err := h.assistantService.History(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"history": history})
}

// Reset godoc
// DELETE /api/v1/assistant/history
// Clears the conversation so the next chat starts fresh.
func (h *AssistantHandler) Reset(c *gin.Context) {
	claims := middleware.GetClaims(c)

	if err := h.assistantService.Reset(c.Request.Context(), claims.UserID); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}
