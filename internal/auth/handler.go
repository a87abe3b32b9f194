package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"casefile-backend/internal/shared/server/middleware"
	"casefile-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the auth service.
type Handler struct {
	Svc *Service
	// SecureCookies marks session cookies Secure; enabled in production.
	SecureCookies bool
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, secureCookies bool) *Handler {
	return &Handler{Svc: svc, SecureCookies: secureCookies}
}

// RegisterRoutes attaches auth routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/register", h.register)
	rg.POST("/auth/login", h.login)
	rg.POST("/auth/logout", h.logout)
	rg.GET("/auth/user", h.currentUser)
}

type registerRequest struct {
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	user, token, err := h.Svc.Register(c.Request.Context(), RegisterInput{
		Username: req.Username,
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.Is(err, ErrUsernameTaken):
			respond.Error(c, http.StatusBadRequest, "validation_error", "username already exists", []map[string]string{
				{"field": "username", "issue": "taken"},
			})
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "registration failed", nil)
		}
		return
	}

	h.setSessionCookie(c, token)
	respond.JSON(c, http.StatusCreated, user)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	user, token, err := h.Svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.Is(err, ErrInvalidCredentials):
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "invalid credentials", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "login failed", nil)
		}
		return
	}

	h.setSessionCookie(c, token)
	respond.JSON(c, http.StatusOK, user)
}

func (h *Handler) logout(c *gin.Context) {
	token, _ := c.Cookie(middleware.SessionCookie)
	if err := h.Svc.Logout(c.Request.Context(), token); err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "logout failed", nil)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.SecureCookies, true)
	respond.JSON(c, http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *Handler) currentUser(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "authentication required", nil)
		return
	}

	user, err := h.Svc.CurrentUser(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "user not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch user", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, user)
}

func (h *Handler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, int(h.Svc.SessionTTL.Seconds()), "/", "", h.SecureCookies, true)
}
