package routes

import (
	"github.com/gin-gonic/gin"

	"learnhub/internal/handlers"
	"learnhub/internal/middleware"
)

// SetupAuthRoutes sets up registration, login and device routes.
func SetupAuthRoutes(r *gin.RouterGroup, authHandler *handlers.AuthHandler, jwtSecret string) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/google", authHandler.GoogleLogin)
		auth.POST("/refresh", authHandler.RefreshToken)
	}

	devices := r.Group("/devices")
	devices.Use(middleware.AuthRequired(jwtSecret))
	{
		devices.POST("/", authHandler.RegisterDevice)
	}
}
