package cases

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"casefile-backend/internal/shared/server/middleware"
	"casefile-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the cases service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches case routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/cases", h.listCases)
	rg.POST("/cases", h.createCase)
	rg.GET("/cases/:id", h.getCase)
	rg.DELETE("/cases/:id", h.deleteCase)
}

type createCaseRequest struct {
	Name       string `json:"name"`
	CaseNumber string `json:"caseNumber"`
}

func (h *Handler) createCase(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req createCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	cs, err := h.Svc.Create(c.Request.Context(), userID, req.Name, req.CaseNumber)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "case name is required", []map[string]string{
				{"field": "name", "issue": "required"},
			})
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create case", nil)
		}
		return
	}
	respond.JSON(c, http.StatusCreated, cs)
}

func (h *Handler) listCases(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	list, err := h.Svc.List(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list cases", nil)
		return
	}
	respond.JSON(c, http.StatusOK, list)
}

func (h *Handler) getCase(c *gin.Context) {
	caseID := c.Param("id")
	if caseID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "case id is required", nil)
		return
	}

	cs, err := h.Svc.Get(c.Request.Context(), caseID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "case not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load case", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, cs)
}

func (h *Handler) deleteCase(c *gin.Context) {
	caseID := c.Param("id")
	if caseID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "case id is required", nil)
		return
	}

	if err := h.Svc.Delete(c.Request.Context(), caseID); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "case not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete case", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"deleted": true})
}
