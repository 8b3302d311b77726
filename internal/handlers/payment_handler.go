package handlers

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"learnhub/internal/services"
	"learnhub/internal/utils"
	"learnhub/pkg/logger"
)

type PaymentHandler struct {
	paymentService services.PaymentService
	logger         *logger.Logger
}

func NewPaymentHandler(paymentService services.PaymentService, logger *logger.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		logger:         logger,
	}
}

// InitiatePayment creates a gateway order for a plan or a course purchase
// and returns the checkout payload for the client SDK.
func (h *PaymentHandler) InitiatePayment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var req struct {
		PlanID     string `json:"plan_id"`
		CourseID   string `json:"course_id"`
		CouponCode string `json:"coupon_code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request payload")
		return
	}
	if (req.PlanID == "") == (req.CourseID == "") {
		utils.BadRequestResponse(c, "Exactly one of plan_id or course_id is required")
		return
	}

	request := &services.InitiatePaymentRequest{
		UserID:     userID,
		CouponCode: req.CouponCode,
	}
	if req.PlanID != "" {
		planID, err := primitive.ObjectIDFromHex(req.PlanID)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid plan ID")
			return
		}
		request.PlanID = &planID
	}
	if req.CourseID != "" {
		courseID, err := primitive.ObjectIDFromHex(req.CourseID)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid course ID")
			return
		}
		request.CourseID = &courseID
	}

	payload, err := h.paymentService.InitiatePayment(c.Request.Context(), request)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPlanNotFound):
			utils.NotFoundResponse(c, "Subscription plan")
		case errors.Is(err, services.ErrCourseNotFound):
			utils.NotFoundResponse(c, "Course")
		case errors.Is(err, services.ErrCouponNotFound):
			utils.UnprocessableResponse(c, "COUPON_INVALID", err.Error())
		default:
			h.logger.WithError(err).WithUserID(userID).Error("Failed to initiate payment")
			utils.InternalServerErrorResponse(c)
		}
		return
	}

	utils.CreatedResponse(c, "Payment initiated", payload)
}

// VerifyPayment checks the gateway signature returned by the client
// and completes the transaction.
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	var req struct {
		GatewayOrderID   string `json:"gateway_order_id" binding:"required"`
		GatewayPaymentID string `json:"gateway_payment_id" binding:"required"`
		Signature        string `json:"signature" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request payload")
		return
	}

	txn, err := h.paymentService.VerifyPayment(c.Request.Context(), req.GatewayOrderID, req.GatewayPaymentID, req.Signature)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			utils.NotFoundResponse(c, "Payment order")
		case errors.Is(err, services.ErrSignatureMismatch):
			utils.UnprocessableResponse(c, "SIGNATURE_MISMATCH", "Payment signature verification failed")
		case errors.Is(err, services.ErrTransactionClosed):
			utils.ConflictResponse(c, "Transaction is already settled")
		default:
			h.logger.WithError(err).Error("Failed to verify payment")
			utils.InternalServerErrorResponse(c)
		}
		return
	}

	utils.SuccessResponse(c, "Payment verified", txn)
}

// CancelPayment marks the caller's pending transaction as cancelled.
func (h *PaymentHandler) CancelPayment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var req struct {
		GatewayOrderID string `json:"gateway_order_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request payload")
		return
	}

	if err := h.paymentService.CancelPayment(c.Request.Context(), req.GatewayOrderID, userID); err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			utils.NotFoundResponse(c, "Payment order")
		case errors.Is(err, services.ErrTransactionClosed):
			utils.ConflictResponse(c, "Transaction is already settled")
		default:
			h.logger.WithError(err).Error("Failed to cancel payment")
			utils.InternalServerErrorResponse(c)
		}
		return
	}

	utils.SuccessResponse(c, "Payment cancelled", nil)
}

// HandleWebhook receives asynchronous gateway events. The route is
// public; authenticity comes from the webhook signature.
func (h *PaymentHandler) HandleWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		utils.BadRequestResponse(c, "Failed to read webhook body")
		return
	}

	signature := c.GetHeader("X-Razorpay-Signature")
	if signature == "" {
		signature = c.GetHeader("Stripe-Signature")
	}

	if err := h.paymentService.HandleWebhook(c.Request.Context(), payload, signature); err != nil {
		if errors.Is(err, services.ErrSignatureMismatch) {
			utils.UnauthorizedResponse(c)
			return
		}
		h.logger.WithError(err).Error("Webhook processing failed")
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, "Webhook processed", nil)
}

// RefundPayment refunds a completed transaction. Admin only.
func (h *PaymentHandler) RefundPayment(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid transaction ID")
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request payload")
		return
	}

	refund, err := h.paymentService.RefundPayment(c.Request.Context(), id, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			utils.NotFoundResponse(c, "Transaction")
		case errors.Is(err, services.ErrTransactionClosed):
			utils.ConflictResponse(c, "Only completed transactions can be refunded")
		default:
			h.logger.WithError(err).Error("Failed to refund payment")
			utils.InternalServerErrorResponse(c)
		}
		return
	}

	utils.SuccessResponse(c, "Refund initiated", refund)
}

// GetTransaction returns one transaction; callers may only read their own.
func (h *PaymentHandler) GetTransaction(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid transaction ID")
		return
	}

	txn, err := h.paymentService.GetTransaction(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			utils.NotFoundResponse(c, "Transaction")
			return
		}
		h.logger.WithError(err).Error("Failed to get transaction")
		utils.InternalServerErrorResponse(c)
		return
	}

	userType, _ := c.Get("user_type")
	if txn.UserID != userID && userType != "admin" {
		utils.NotFoundResponse(c, "Transaction")
		return
	}

	utils.SuccessResponse(c, "Transaction retrieved", txn)
}

// MyTransactions lists the caller's payment history.
func (h *PaymentHandler) MyTransactions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	params := utils.GetPaginationParams(c)

	transactions, total, err := h.paymentService.ListUserTransactions(c.Request.Context(), userID, params)
	if err != nil {
		h.logger.WithError(err).WithUserID(userID).Error("Failed to list transactions")
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponseWithMeta(c, "Transactions retrieved", transactions, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}
