package actions

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"casefile-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the actions service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches action lifecycle routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/cases/:id/actions", h.listByCase)
	rg.PATCH("/actions/:id", h.setStatus)
	rg.DELETE("/actions/:id", h.deleteAction)
	rg.GET("/approvals", h.listApproved)
}

func (h *Handler) listByCase(c *gin.Context) {
	caseID := c.Param("id")
	if caseID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "case id is required", nil)
		return
	}

	list, err := h.Svc.ListByCase(c.Request.Context(), caseID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list actions", nil)
		return
	}
	respond.JSON(c, http.StatusOK, list)
}

type setStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) setStatus(c *gin.Context) {
	actionID := c.Param("id")
	if actionID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "action id is required", nil)
		return
	}

	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	action, err := h.Svc.SetStatus(c.Request.Context(), actionID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidStatus):
			respond.Error(c, http.StatusBadRequest, "validation_error", "status must be approved or rejected", []map[string]string{
				{"field": "status", "issue": "invalid_value"},
			})
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "action not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update action", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, action)
}

func (h *Handler) deleteAction(c *gin.Context) {
	actionID := c.Param("id")
	if actionID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "action id is required", nil)
		return
	}

	action, err := h.Svc.Delete(c.Request.Context(), actionID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "action not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete action", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, action)
}

func (h *Handler) listApproved(c *gin.Context) {
	list, err := h.Svc.ListApproved(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list approvals", nil)
		return
	}
	respond.JSON(c, http.StatusOK, list)
}
