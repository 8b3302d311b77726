package routes

import (
	"github.com/gin-gonic/gin"

	"learnhub/internal/handlers"
	"learnhub/internal/middleware"
)

// SetupWatchTimeRoutes sets up the REST progress endpoint and student views.
func SetupWatchTimeRoutes(r *gin.RouterGroup, watchTimeHandler *handlers.WatchTimeHandler, jwtSecret string) {
	progress := r.Group("/progress")
	progress.Use(middleware.AuthRequired(jwtSecret))
	{
		progress.POST("/", watchTimeHandler.RecordProgress)
		progress.GET("/", watchTimeHandler.MyWatchTime)
	}
}
