package routes

import (
	"github.com/gin-gonic/gin"

	"learnhub/internal/handlers"
	"learnhub/internal/middleware"
)

// SetupPaymentRoutes sets up checkout, verification and webhook routes.
func SetupPaymentRoutes(r *gin.RouterGroup, paymentHandler *handlers.PaymentHandler, jwtSecret string) {
	// Public webhook route (authenticity via gateway signature)
	webhooks := r.Group("/webhooks/payments")
	{
		webhooks.POST("/", paymentHandler.HandleWebhook)
	}

	payments := r.Group("/payments")
	payments.Use(middleware.AuthRequired(jwtSecret))
	{
		payments.POST("/initiate", paymentHandler.InitiatePayment)
		payments.POST("/verify", paymentHandler.VerifyPayment)
		payments.POST("/cancel", paymentHandler.CancelPayment)
		payments.GET("/transactions", paymentHandler.MyTransactions)
		payments.GET("/transactions/:id", paymentHandler.GetTransaction)
	}

	admin := r.Group("/admin/payments")
	admin.Use(middleware.AuthRequired(jwtSecret), middleware.AdminRequired())
	{
		admin.POST("/:id/refund", paymentHandler.RefundPayment)
	}
}
