package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"casefile-backend/internal/shared/server/respond"
)

const (
	userIDKey = "userId"

	// SessionCookie is the name of the HTTP cookie carrying the session token.
	SessionCookie = "casefile_session"
)

// SessionValidator resolves a session token to the owning user ID.
type SessionValidator interface {
	Validate(ctx context.Context, token string) (string, error)
}

// Session validates the session cookie and stores the user identity in context.
// Register and login are reachable without a session; everything else is not.
func Session(sessions SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		if isPublicPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		token, err := c.Cookie(SessionCookie)
		if err != nil || strings.TrimSpace(token) == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid session", nil)
			return
		}

		userID, err := sessions.Validate(c.Request.Context(), token)
		if err != nil {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid session", nil)
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

func isPublicPath(path string) bool {
	switch path {
	case "/api/v1/auth/register", "/api/v1/auth/login", "/api/v1/auth/logout", "/api/v1/health":
		return true
	}
	return false
}

// UserIDFromContext fetches the user ID set by the session middleware.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}
