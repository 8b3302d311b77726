package routes

import (
	"github.com/gin-gonic/gin"

	"learnhub/internal/middleware"
	"learnhub/pkg/websocket"
)

// SetupWebSocketRoutes mounts the realtime endpoint used for course
// rooms and playback progress reporting.
func SetupWebSocketRoutes(r *gin.RouterGroup, wsHandler *websocket.Handler, jwtSecret string) {
	ws := r.Group("/ws")
	ws.Use(middleware.AuthRequired(jwtSecret))
	{
		ws.GET("/", wsHandler.HandleWebSocket)
	}
}
