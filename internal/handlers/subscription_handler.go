package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"learnhub/internal/models"
	"learnhub/internal/services"
	"learnhub/internal/utils"
	"learnhub/pkg/logger"
)

type SubscriptionHandler struct {
	subscriptionService services.SubscriptionService
	logger              *logger.Logger
}

func NewSubscriptionHandler(subscriptionService services.SubscriptionService, logger *logger.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionService: subscriptionService,
		logger:              logger,
	}
}

// ListPlans returns subscription plans. Public callers see active plans
// only; admins can pass all=true.
func (h *SubscriptionHandler) ListPlans(c *gin.Context) {
	userType, _ := c.Get("user_type")
	activeOnly := !(userType == "admin" && c.Query("all") == "true")

	plans, err := h.subscriptionService.ListPlans(c.Request.Context(), activeOnly)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list plans")
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, "Plans retrieved", gin.H{
		"plans": plans,
		"count": len(plans),
	})
}

// GetPlan returns a single subscription plan.
func (h *SubscriptionHandler) GetPlan(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid plan ID")
		return
	}

	plan, err := h.subscriptionService.GetPlan(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrPlanNotFound) {
			utils.NotFoundResponse(c, "Subscription plan")
			return
		}
		h.logger.WithError(err).Error("Failed to get plan")
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, "Plan retrieved", plan)
}

// CreatePlan registers a new subscription plan. Admin only.
func (h *SubscriptionHandler) CreatePlan(c *gin.Context) {
	var req struct {
		Name        string   `json:"name" binding:"required,max=120"`
		Description string   `json:"description" binding:"max=1000"`
		Price       float64  `json:"price" binding:"required,min=0"`
		Currency    string   `json:"currency"`
		Period      string   `json:"period" binding:"omitempty,oneof=monthly yearly"`
		Categories  []string `json:"categories"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request payload")
		return
	}

	plan := &models.SubscriptionPlan{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Currency:    req.Currency,
		Period:      models.PlanPeriod(req.Period),
		Categories:  req.Categories,
		IsActive:    true,
	}

	if err := h.subscriptionService.CreatePlan(c.Request.Context(), plan); err != nil {
		h.logger.WithError(err).Error("Failed to create plan")
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.CreatedResponse(c, "Plan created", plan)
}

// UpdatePlan applies partial updates to a plan. Admin only.
func (h *SubscriptionHandler) UpdatePlan(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid plan ID")
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		utils.BadRequestResponse(c, "Invalid request payload")
		return
	}

	if err := h.subscriptionService.UpdatePlan(c.Request.Context(), id, updates); err != nil {
		if errors.Is(err, services.ErrPlanNotFound) {
			utils.NotFoundResponse(c, "Subscription plan")
			return
		}
		h.logger.WithError(err).Error("Failed to update plan")
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, "Plan updated", nil)
}

// MySubscription returns the caller's active subscription, if any.
func (h *SubscriptionHandler) MySubscription(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	subscription, err := h.subscriptionService.ActiveSubscription(c.Request.Context(), userID)
	if err != nil {
		h.logger.WithError(err).WithUserID(userID).Error("Failed to get active subscription")
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, "Subscription retrieved", gin.H{
		"subscription": subscription,
		"active":       subscription != nil,
	})
}

// MySubscriptionHistory lists all of the caller's subscriptions.
func (h *SubscriptionHandler) MySubscriptionHistory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	params := utils.GetPaginationParams(c)

	subscriptions, total, err := h.subscriptionService.ListUserSubscriptions(c.Request.Context(), userID, params)
	if err != nil {
		h.logger.WithError(err).WithUserID(userID).Error("Failed to list subscriptions")
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponseWithMeta(c, "Subscriptions retrieved", subscriptions, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}

// CancelSubscription cancels the caller's active subscription.
func (h *SubscriptionHandler) CancelSubscription(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid subscription ID")
		return
	}

	if err := h.subscriptionService.CancelSubscription(c.Request.Context(), userID, id); err != nil {
		h.logger.WithError(err).WithUserID(userID).Warn("Failed to cancel subscription")
		utils.NotFoundResponse(c, "Active subscription")
		return
	}

	utils.SuccessResponse(c, "Subscription cancelled", nil)
}
