package routes

import (
	"github.com/gin-gonic/gin"

	"learnhub/internal/handlers"
	"learnhub/internal/middleware"
)

// SetupAdminRoutes sets up platform configuration management.
func SetupAdminRoutes(r *gin.RouterGroup, adminHandler *handlers.AdminHandler, jwtSecret string) {
	admin := r.Group("/admin/config")
	admin.Use(middleware.AuthRequired(jwtSecret), middleware.AdminRequired())
	{
		admin.GET("/", adminHandler.GetPlatformConfig)
		admin.PUT("/", adminHandler.UpdatePlatformConfig)
	}
}
