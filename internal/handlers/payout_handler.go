package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"learnhub/internal/models"
	"learnhub/internal/services"
	"learnhub/internal/utils"
	"learnhub/pkg/logger"
)

type PayoutHandler struct {
	payoutService services.PayoutService
	logger        *logger.Logger
}

func NewPayoutHandler(payoutService services.PayoutService, logger *logger.Logger) *PayoutHandler {
	return &PayoutHandler{
		payoutService: payoutService,
		logger:        logger,
	}
}

// MonthlyEarnings returns the caller's earnings breakdown for one month.
// Defaults to the current month when no query params are given.
func (h *PayoutHandler) MonthlyEarnings(c *gin.Context) {
	instructorID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	month, year, err := monthYearParams(c)
	if err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}

	earnings, err := h.payoutService.MonthlyEarnings(c.Request.Context(), instructorID, month, year)
	if err != nil {
		h.logger.WithError(err).WithUserID(instructorID).Error("Failed to compute monthly earnings")
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, "Monthly earnings retrieved", earnings)
}

// EarningsSummary returns lifetime totals across all payout states.
func (h *PayoutHandler) EarningsSummary(c *gin.Context) {
	instructorID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	summary, err := h.payoutService.EarningsSummary(c.Request.Context(), instructorID)
	if err != nil {
		h.logger.WithError(err).WithUserID(instructorID).Error("Failed to compute earnings summary")
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, "Earnings summary retrieved", summary)
}

// RequestPayout creates a payout request for a completed month.
func (h *PayoutHandler) RequestPayout(c *gin.Context) {
	instructorID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var req struct {
		Month int `json:"month" binding:"required,min=1,max=12"`
		Year  int `json:"year" binding:"required,min=2020"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request payload")
		return
	}

	request, err := h.payoutService.RequestPayout(c.Request.Context(), instructorID, req.Month, req.Year)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBelowMinimumPayout):
			utils.UnprocessableResponse(c, "BELOW_MINIMUM_PAYOUT", "Earnings are below the minimum payout amount")
		case errors.Is(err, services.ErrDuplicatePayout):
			utils.ConflictResponse(c, "A payout request for this period is already open")
		default:
			h.logger.WithError(err).WithUserID(instructorID).Error("Failed to create payout request")
			utils.InternalServerErrorResponse(c)
		}
		return
	}

	utils.CreatedResponse(c, "Payout request created", request)
}

// MyPayouts lists the caller's payout requests.
func (h *PayoutHandler) MyPayouts(c *gin.Context) {
	instructorID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	params := utils.GetPaginationParams(c)

	payouts, total, err := h.payoutService.ListByInstructor(c.Request.Context(), instructorID, params)
	if err != nil {
		h.logger.WithError(err).WithUserID(instructorID).Error("Failed to list payouts")
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponseWithMeta(c, "Payout requests retrieved", payouts, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}

// GetPayout returns a single payout request. Admin only.
func (h *PayoutHandler) GetPayout(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid payout ID")
		return
	}

	payout, err := h.payoutService.GetPayout(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrPayoutNotFound) {
			utils.NotFoundResponse(c, "Payout request")
			return
		}
		h.logger.WithError(err).Error("Failed to get payout request")
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, "Payout request retrieved", payout)
}

// ListByStatus lists payout requests in one state. Admin only.
func (h *PayoutHandler) ListByStatus(c *gin.Context) {
	status := models.PayoutStatus(c.DefaultQuery("status", string(models.PayoutStatusPending)))
	switch status {
	case models.PayoutStatusPending, models.PayoutStatusApproved, models.PayoutStatusRejected, models.PayoutStatusProcessed:
	default:
		utils.BadRequestResponse(c, "Invalid payout status")
		return
	}

	params := utils.GetPaginationParams(c)

	payouts, total, err := h.payoutService.ListByStatus(c.Request.Context(), status, params)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list payouts by status")
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponseWithMeta(c, "Payout requests retrieved", payouts, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	})
}

// UpdateStatus moves a payout request through its lifecycle. Admin only.
func (h *PayoutHandler) UpdateStatus(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid payout ID")
		return
	}

	var req struct {
		Status string `json:"status" binding:"required,oneof=approved rejected processed"`
		Notes  string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request payload")
		return
	}

	payout, err := h.payoutService.UpdatePayoutStatus(c.Request.Context(), id, models.PayoutStatus(req.Status), req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPayoutNotFound):
			utils.NotFoundResponse(c, "Payout request")
		case errors.Is(err, services.ErrInvalidTransition):
			utils.UnprocessableResponse(c, "INVALID_TRANSITION", "Payout request cannot move to the requested status")
		default:
			h.logger.WithError(err).Error("Failed to update payout status")
			utils.InternalServerErrorResponse(c)
		}
		return
	}

	utils.SuccessResponse(c, "Payout status updated", payout)
}

// monthYearParams parses optional month/year query params, defaulting to now.
func monthYearParams(c *gin.Context) (int, int, error) {
	now := time.Now()
	month := int(now.Month())
	year := now.Year()

	if raw := c.Query("month"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 12 {
			return 0, 0, errors.New("month must be between 1 and 12")
		}
		month = parsed
	}
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 2020 {
			return 0, 0, errors.New("year must be 2020 or later")
		}
		year = parsed
	}
	return month, year, nil
}
