package documents

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"casefile-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the documents repo.
type Handler struct {
	Repo Repo
}

// NewHandler constructs a Handler.
func NewHandler(repo Repo) *Handler {
	return &Handler{Repo: repo}
}

// RegisterRoutes attaches document listing routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/cases/:id/documents", h.listByCase)
}

func (h *Handler) listByCase(c *gin.Context) {
	caseID := c.Param("id")
	if caseID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "case id is required", nil)
		return
	}

	docs, err := h.Repo.ListByCase(c.Request.Context(), caseID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list documents", nil)
		return
	}
	respond.JSON(c, http.StatusOK, docs)
}
