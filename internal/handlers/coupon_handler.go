package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"learnhub/internal/models"
	"learnhub/internal/services"
	"learnhub/internal/utils"
	"learnhub/internal/validators"
	"learnhub/pkg/logger"
)

type CouponHandler struct {
	couponService services.CouponService
	logger        *logger.Logger
}

func NewCouponHandler(couponService services.CouponService, logger *logger.Logger) *CouponHandler {
	return &CouponHandler{
		couponService: couponService,
		logger:        logger,
	}
}

// PreviewCoupon validates a coupon against an order without consuming it.
// The same request can be repeated any number of times.
func (h *CouponHandler) PreviewCoupon(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var req validators.CouponPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request payload")
		return
	}
	if errs := validators.ValidateStruct(&req); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.ToMap())
		return
	}

	result, err := h.couponService.ValidateCoupon(c.Request.Context(), req.Code, userID, req.OrderAmount, req.Categories)
	if err != nil {
		h.logger.WithError(err).WithCouponCode(req.Code).Error("Coupon preview failed")
		utils.InternalServerErrorResponse(c)
		return
	}

	if !result.IsValid {
		utils.UnprocessableResponse(c, result.Reason, result.Message)
		return
	}

	utils.SuccessResponse(c, "Coupon is valid", gin.H{
		"code":            result.Coupon.Code,
		"type":            result.Coupon.Type,
		"discount_amount": result.DiscountAmount,
		"final_amount":    result.FinalAmount,
	})
}

// ConfirmCoupon atomically redeems a coupon for an order.
func (h *CouponHandler) ConfirmCoupon(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var req validators.CouponConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request payload")
		return
	}
	if errs := validators.ValidateStruct(&req); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.ToMap())
		return
	}

	orderRefID, err := primitive.ObjectIDFromHex(req.OrderRefID)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid order reference ID")
		return
	}

	result, err := h.couponService.RedeemCoupon(
		c.Request.Context(),
		req.Code, userID, req.OrderAmount, req.Categories,
		models.OrderContext(req.OrderContext), orderRefID,
	)
	if err != nil {
		h.logger.WithError(err).WithCouponCode(req.Code).WithUserID(userID).Error("Coupon redemption failed")
		utils.InternalServerErrorResponse(c)
		return
	}

	if !result.IsValid {
		utils.UnprocessableResponse(c, result.Reason, result.Message)
		return
	}

	utils.SuccessResponse(c, "Coupon redeemed", gin.H{
		"code":            result.Coupon.Code,
		"discount_amount": result.DiscountAmount,
		"final_amount":    result.FinalAmount,
	})
}

// AvailableCoupons lists active coupons the caller has not used yet.
func (h *CouponHandler) AvailableCoupons(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	category := c.Query("category")

	coupons, err := h.couponService.AvailableCoupons(c.Request.Context(), userID, category)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list available coupons")
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, "Available coupons retrieved", gin.H{
		"coupons": coupons,
		"count":   len(coupons),
	})
}

// CreateCoupon creates a new coupon. Admin only.
func (h *CouponHandler) CreateCoupon(c *gin.Context) {
	var req validators.CouponCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request payload")
		return
	}

	validFrom, validUntil, errs := validators.ValidateCouponCreate(&req)
	if len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.ToMap())
		return
	}

	coupon := &models.Coupon{
		Code:        req.Code,
		Title:       req.Title,
		Description: req.Description,
		Type:        models.CouponType(req.Type),
		Value:       req.Value,
		MaxUses:     req.MaxUses,
		MinAmount:   req.MinAmount,
		MaxDiscount: req.MaxDiscount,
		Categories:  utils.NormalizeCategories(req.Categories),
		ValidFrom:   validFrom,
		ValidUntil:  validUntil,
		IsActive:    true,
	}

	if err := h.couponService.CreateCoupon(c.Request.Context(), coupon); err != nil {
		if errors.Is(err, services.ErrCouponExists) {
			utils.ConflictResponse(c, "A coupon with this code already exists")
			return
		}
		h.logger.WithError(err).WithCouponCode(req.Code).Error("Failed to create coupon")
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.CreatedResponse(c, "Coupon created", coupon)
}

// GetCoupon returns a single coupon by ID. Admin only.
func (h *CouponHandler) GetCoupon(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid coupon ID")
		return
	}

	coupon, err := h.couponService.GetCoupon(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrCouponNotFound) {
			utils.NotFoundResponse(c, "Coupon")
			return
		}
		h.logger.WithError(err).Error("Failed to get coupon")
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, "Coupon retrieved", coupon)
}

// ListCoupons returns a paginated list of all coupons. Admin only.
func (h *CouponHandler) ListCoupons(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	coupons, total, err := h.couponService.ListCoupons(c.Request.Context(), params)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list coupons")
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponseWithMeta(c, "Coupons retrieved", coupons, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}

// UpdateCoupon applies partial updates to a coupon. Admin only.
func (h *CouponHandler) UpdateCoupon(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid coupon ID")
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		utils.BadRequestResponse(c, "Invalid request payload")
		return
	}

	if err := h.couponService.UpdateCoupon(c.Request.Context(), id, updates); err != nil {
		if errors.Is(err, services.ErrCouponNotFound) {
			utils.NotFoundResponse(c, "Coupon")
			return
		}
		h.logger.WithError(err).Error("Failed to update coupon")
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, "Coupon updated", nil)
}

// DeactivateCoupon disables a coupon without deleting its usage history.
func (h *CouponHandler) DeactivateCoupon(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid coupon ID")
		return
	}

	if err := h.couponService.DeactivateCoupon(c.Request.Context(), id); err != nil {
		if errors.Is(err, services.ErrCouponNotFound) {
			utils.NotFoundResponse(c, "Coupon")
			return
		}
		h.logger.WithError(err).Error("Failed to deactivate coupon")
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, "Coupon deactivated", nil)
}

// CouponStats reports redemption counts and totals. Admin only.
func (h *CouponHandler) CouponStats(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid coupon ID")
		return
	}

	stats, err := h.couponService.CouponStats(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrCouponNotFound) {
			utils.NotFoundResponse(c, "Coupon")
			return
		}
		h.logger.WithError(err).Error("Failed to compute coupon stats")
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, "Coupon stats retrieved", stats)
}
