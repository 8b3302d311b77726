package handlers

import (
	"github.com/gin-gonic/gin"

	"learnhub/internal/models"
	"learnhub/internal/services"
	"learnhub/internal/utils"
	"learnhub/pkg/logger"
)

// AdminHandler exposes the platform revenue configuration. All routes
// behind it require the admin role.
type AdminHandler struct {
	configService services.PlatformConfigService
	logger        *logger.Logger
}

func NewAdminHandler(configService services.PlatformConfigService, logger *logger.Logger) *AdminHandler {
	return &AdminHandler{
		configService: configService,
		logger:        logger,
	}
}

// GetPlatformConfig returns the current revenue-sharing configuration.
func (h *AdminHandler) GetPlatformConfig(c *gin.Context) {
	config, err := h.configService.Get(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to load platform config")
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, "Platform config retrieved", config)
}

// UpdatePlatformConfig replaces the revenue-sharing configuration.
// Changes take effect within the config cache TTL.
func (h *AdminHandler) UpdatePlatformConfig(c *gin.Context) {
	adminID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var req struct {
		TaxPercent      *float64 `json:"tax_percent" binding:"required,min=0,max=100"`
		PlatformFeePct  *float64 `json:"platform_fee_pct" binding:"required,min=0,max=100"`
		PerMinuteRate   *float64 `json:"per_minute_rate" binding:"required,gt=0"`
		MinPayoutAmount *float64 `json:"min_payout_amount" binding:"required,min=0"`
		Currency        string   `json:"currency" binding:"omitempty,len=3"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request payload")
		return
	}

	current, err := h.configService.Get(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to load platform config")
		utils.InternalServerErrorResponse(c)
		return
	}

	config := &models.PlatformConfig{
		TaxPercent:      *req.TaxPercent,
		PlatformFeePct:  *req.PlatformFeePct,
		PerMinuteRate:   *req.PerMinuteRate,
		MinPayoutAmount: *req.MinPayoutAmount,
		Currency:        current.Currency,
		UpdatedBy:       adminID,
	}
	if req.Currency != "" {
		config.Currency = req.Currency
	}

	if err := h.configService.Update(c.Request.Context(), config); err != nil {
		h.logger.WithError(err).Error("Failed to update platform config")
		utils.InternalServerErrorResponse(c)
		return
	}

	h.logger.WithUserID(adminID).Info("Platform config updated")
	utils.SuccessResponse(c, "Platform config updated", config)
}
