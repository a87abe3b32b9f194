package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"casefile-backend/internal/actions"
	"casefile-backend/internal/auth"
	"casefile-backend/internal/cases"
	"casefile-backend/internal/chat"
	"casefile-backend/internal/documents"
	"casefile-backend/internal/extracted"
	"casefile-backend/internal/intake"
	"casefile-backend/internal/shared/config"
	"casefile-backend/internal/shared/server/middleware"
	"casefile-backend/internal/shared/server/respond"
)

// RouterDeps carries everything the router needs wired in.
type RouterDeps struct {
	Config           config.Config
	Sessions         middleware.SessionValidator
	AuthHandler      *auth.Handler
	CaseHandler      *cases.Handler
	DocumentHandler  *documents.Handler
	IntakeHandler    *intake.Handler
	ChatHandler      *chat.Handler
	ExtractedHandler *extracted.Handler
	ActionHandler    *actions.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		cors.New(cors.Config{
			AllowOrigins:     deps.Config.CORSAllowOrigin,
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		middleware.Session(deps.Sessions),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	deps.AuthHandler.RegisterRoutes(api)
	deps.CaseHandler.RegisterRoutes(api)
	deps.DocumentHandler.RegisterRoutes(api)
	deps.IntakeHandler.RegisterRoutes(api)
	deps.ChatHandler.RegisterRoutes(api)
	deps.ExtractedHandler.RegisterRoutes(api)
	deps.ActionHandler.RegisterRoutes(api)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
