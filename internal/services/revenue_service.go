package services

import (
	"learnhub/internal/models"
	"learnhub/internal/utils"
)

// RevenueService computes the platform split applied to every rupee of
// revenue, whether from subscriptions or watch-time earnings.
type RevenueService interface {
	Split(base, taxPercent, platformFeePct float64) models.RevenueBreakdown
}

type revenueService struct{}

func NewRevenueService() RevenueService {
	return &revenueService{}
}

// Split derives the four-way breakdown from a base amount. Tax is added
// on top of the base; the platform fee comes out of it.
func (s *revenueService) Split(base, taxPercent, platformFeePct float64) models.RevenueBreakdown {
	tax := utils.RoundMoney(base * taxPercent / 100)
	fee := utils.RoundMoney(base * platformFeePct / 100)

	return models.RevenueBreakdown{
		Gross:           utils.RoundMoney(base),
		Tax:             tax,
		PlatformFee:     fee,
		InstructorShare: utils.RoundMoney(base - fee),
		Total:           utils.RoundMoney(base + tax),
	}
}
