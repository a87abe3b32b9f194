package chat

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"casefile-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the chat service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches chat routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/cases/:id/messages", h.listMessages)
	rg.POST("/cases/:id/messages", h.postMessage)
}

func (h *Handler) listMessages(c *gin.Context) {
	caseID := c.Param("id")
	if caseID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "case id is required", nil)
		return
	}

	msgs, err := h.Svc.List(c.Request.Context(), caseID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list messages", nil)
		return
	}
	respond.JSON(c, http.StatusOK, msgs)
}

type postMessageRequest struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type postMessageResponse struct {
	UserMessage Message  `json:"userMessage"`
	AIMessage   *Message `json:"aiMessage,omitempty"`
}

func (h *Handler) postMessage(c *gin.Context) {
	caseID := c.Param("id")
	if caseID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "case id is required", nil)
		return
	}

	var req postMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if req.Role == "" {
		req.Role = RoleUser
	}

	msg, reply, err := h.Svc.Post(c.Request.Context(), caseID, req.Role, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to post message", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, postMessageResponse{UserMessage: msg, AIMessage: reply})
}
