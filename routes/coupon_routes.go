package routes

import (
	"github.com/gin-gonic/gin"

	"learnhub/internal/handlers"
	"learnhub/internal/middleware"
)

// SetupCouponRoutes sets up coupon preview/confirm and admin management.
func SetupCouponRoutes(r *gin.RouterGroup, couponHandler *handlers.CouponHandler, jwtSecret string) {
	coupons := r.Group("/coupons")
	coupons.Use(middleware.AuthRequired(jwtSecret))
	{
		coupons.POST("/preview", couponHandler.PreviewCoupon)
		coupons.POST("/confirm", couponHandler.ConfirmCoupon)
		coupons.GET("/available", couponHandler.AvailableCoupons)
	}

	admin := r.Group("/admin/coupons")
	admin.Use(middleware.AuthRequired(jwtSecret), middleware.AdminRequired())
	{
		admin.POST("/", couponHandler.CreateCoupon)
		admin.GET("/", couponHandler.ListCoupons)
		admin.GET("/:id", couponHandler.GetCoupon)
		admin.PUT("/:id", couponHandler.UpdateCoupon)
		admin.DELETE("/:id", couponHandler.DeactivateCoupon)
		admin.GET("/:id/stats", couponHandler.CouponStats)
	}
}
