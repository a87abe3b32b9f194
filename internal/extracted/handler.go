package extracted

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"casefile-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the extracted-data repo.
type Handler struct {
	Repo Repo
}

// NewHandler constructs a Handler.
func NewHandler(repo Repo) *Handler {
	return &Handler{Repo: repo}
}

// RegisterRoutes attaches extraction views to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/cases/:id/extracted-data", h.listByCase)
	rg.GET("/deadlines", h.listDeadlines)
}

func (h *Handler) listByCase(c *gin.Context) {
	caseID := c.Param("id")
	if caseID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "case id is required", nil)
		return
	}

	list, err := h.Repo.ListByCase(c.Request.Context(), caseID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list extracted data", nil)
		return
	}
	respond.JSON(c, http.StatusOK, list)
}

func (h *Handler) listDeadlines(c *gin.Context) {
	list, err := h.Repo.ListDeadlines(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list deadlines", nil)
		return
	}
	respond.JSON(c, http.StatusOK, list)
}
