package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"scholardocs/internal/documents"
	"scholardocs/internal/notifications"
	"scholardocs/internal/realtime"
	"scholardocs/internal/shared/config"
	"scholardocs/internal/shared/metrics"
	"scholardocs/internal/shared/server/middleware"
	"scholardocs/internal/shared/server/respond"
)

// RouterDeps carries the handlers the router mounts.
type RouterDeps struct {
	Config               config.Config
	DocumentsHandler     *documents.Handler
	NotificationsHandler *notifications.Handler
	RealtimeHandler      *realtime.Handler
}

const uploadRateGroup = "UPLOAD"

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(deps.Config.JWTSecret),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				// Uploads fan out into OCR work; keep them to a trickle
				// per user. Everything else is unthrottled.
				uploadRateGroup: {Rate: 0.5, Burst: 3},
			},
			GroupFor: func(c *gin.Context) string {
				if c.Request.Method == http.MethodPost && c.FullPath() == "/api/documents/upload" {
					return uploadRateGroup
				}
				return ""
			},
		}),
	)

	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	api.GET("/admin/metrics", middleware.RequireAdmin(), metrics.Handler())
	deps.DocumentsHandler.RegisterRoutes(api)
	deps.NotificationsHandler.RegisterRoutes(api)
	if deps.RealtimeHandler != nil {
		r.GET("/ws", deps.RealtimeHandler.Serve)
	}

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
