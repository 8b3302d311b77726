package routes

import (
	"github.com/gin-gonic/gin"

	"learnhub/internal/handlers"
	"learnhub/internal/middleware"
)

// SetupSubscriptionRoutes sets up plan browsing and subscription management.
func SetupSubscriptionRoutes(r *gin.RouterGroup, subscriptionHandler *handlers.SubscriptionHandler, jwtSecret string) {
	plans := r.Group("/plans")
	{
		plans.GET("/", subscriptionHandler.ListPlans)
		plans.GET("/:id", subscriptionHandler.GetPlan)
	}

	subscriptions := r.Group("/subscriptions")
	subscriptions.Use(middleware.AuthRequired(jwtSecret))
	{
		subscriptions.GET("/active", subscriptionHandler.MySubscription)
		subscriptions.GET("/", subscriptionHandler.MySubscriptionHistory)
		subscriptions.DELETE("/:id", subscriptionHandler.CancelSubscription)
	}

	admin := r.Group("/admin/plans")
	admin.Use(middleware.AuthRequired(jwtSecret), middleware.AdminRequired())
	{
		admin.POST("/", subscriptionHandler.CreatePlan)
		admin.PUT("/:id", subscriptionHandler.UpdatePlan)
	}
}
