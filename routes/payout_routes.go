package routes

import (
	"github.com/gin-gonic/gin"

	"learnhub/internal/handlers"
	"learnhub/internal/middleware"
)

// SetupPayoutRoutes sets up instructor earnings and admin payout review.
func SetupPayoutRoutes(r *gin.RouterGroup, payoutHandler *handlers.PayoutHandler, jwtSecret string) {
	earnings := r.Group("/earnings")
	earnings.Use(middleware.AuthRequired(jwtSecret), middleware.InstructorRequired())
	{
		earnings.GET("/monthly", payoutHandler.MonthlyEarnings)
		earnings.GET("/summary", payoutHandler.EarningsSummary)
	}

	payouts := r.Group("/payouts")
	payouts.Use(middleware.AuthRequired(jwtSecret), middleware.InstructorRequired())
	{
		payouts.POST("/", payoutHandler.RequestPayout)
		payouts.GET("/", payoutHandler.MyPayouts)
	}

	admin := r.Group("/admin/payouts")
	admin.Use(middleware.AuthRequired(jwtSecret), middleware.AdminRequired())
	{
		admin.GET("/", payoutHandler.ListByStatus)
		admin.GET("/:id", payoutHandler.GetPayout)
		admin.PUT("/:id/status", payoutHandler.UpdateStatus)
	}
}
