package services

import (
	"context"
	"time"

	"learnhub/internal/models"
	"learnhub/internal/repositories/interfaces"
	"learnhub/internal/utils"
	"learnhub/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PayoutService interface {
	MonthlyEarnings(ctx context.Context, instructorID primitive.ObjectID, month, year int) (*models.MonthlyEarnings, error)
	EarningsSummary(ctx context.Context, instructorID primitive.ObjectID) (*models.EarningsSummary, error)
	RequestPayout(ctx context.Context, instructorID primitive.ObjectID, month, year int) (*models.PayoutRequest, error)
	UpdatePayoutStatus(ctx context.Context, id primitive.ObjectID, status models.PayoutStatus, notes string) (*models.PayoutRequest, error)
	GetPayout(ctx context.Context, id primitive.ObjectID) (*models.PayoutRequest, error)
	ListByInstructor(ctx context.Context, instructorID primitive.ObjectID, params *utils.PaginationParams) ([]*models.PayoutRequest, int64, error)
	ListByStatus(ctx context.Context, status models.PayoutStatus, params *utils.PaginationParams) ([]*models.PayoutRequest, int64, error)
}

type payoutService struct {
	payoutRepo    interfaces.PayoutRepository
	watchTimeRepo interfaces.WatchTimeRepository
	revenue       RevenueService
	config        PlatformConfigService
	notifications NotificationService
	clock         Clock
	logger        *logger.Logger
}

func NewPayoutService(
	payoutRepo interfaces.PayoutRepository,
	watchTimeRepo interfaces.WatchTimeRepository,
	revenue RevenueService,
	config PlatformConfigService,
	notifications NotificationService,
	clock Clock,
	logger *logger.Logger,
) PayoutService {
	return &payoutService{
		payoutRepo:    payoutRepo,
		watchTimeRepo: watchTimeRepo,
		revenue:       revenue,
		config:        config,
		notifications: notifications,
		clock:         clock,
		logger:        logger,
	}
}

// MonthlyEarnings recomputes an instructor's earnings for a period from the
// watch-time buckets; it never reads stored payout amounts.
func (s *payoutService) MonthlyEarnings(ctx context.Context, instructorID primitive.ObjectID, month, year int) (*models.MonthlyEarnings, error) {
	watchTime, err := s.watchTimeRepo.SumByInstructor(ctx, instructorID, month, year)
	if err != nil {
		return nil, err
	}

	config, err := s.config.Get(ctx)
	if err != nil {
		return nil, err
	}

	base := float64(watchTime.TotalMinutes) * config.PerMinuteRate
	breakdown := s.revenue.Split(base, config.TaxPercent, config.PlatformFeePct)

	return &models.MonthlyEarnings{
		InstructorID:     instructorID,
		Month:            month,
		Year:             year,
		WatchTimeMinutes: watchTime.TotalMinutes,
		CourseCount:      watchTime.CourseCount,
		Breakdown:        breakdown,
	}, nil
}

func (s *payoutService) EarningsSummary(ctx context.Context, instructorID primitive.ObjectID) (*models.EarningsSummary, error) {
	totals, err := s.payoutRepo.GetTotals(ctx, instructorID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	current, err := s.MonthlyEarnings(ctx, instructorID, int(now.Month()), now.Year())
	if err != nil {
		return nil, err
	}

	return &models.EarningsSummary{
		InstructorID: instructorID,
		TotalEarned:  utils.RoundMoney(totals.TotalEarned),
		TotalPending: utils.RoundMoney(totals.TotalPending),
		TotalPaid:    utils.RoundMoney(totals.TotalPaid),
		CurrentMonth: current.Breakdown.InstructorShare,
		RequestCount: totals.RequestCount,
	}, nil
}

func (s *payoutService) RequestPayout(ctx context.Context, instructorID primitive.ObjectID, month, year int) (*models.PayoutRequest, error) {
	earnings, err := s.MonthlyEarnings(ctx, instructorID, month, year)
	if err != nil {
		return nil, err
	}

	config, err := s.config.Get(ctx)
	if err != nil {
		return nil, err
	}

	if earnings.Breakdown.InstructorShare < config.MinPayoutAmount {
		return nil, ErrBelowMinimumPayout
	}

	open, err := s.payoutRepo.HasOpenRequest(ctx, instructorID, month, year)
	if err != nil {
		return nil, err
	}
	if open {
		return nil, ErrDuplicatePayout
	}

	request := &models.PayoutRequest{
		InstructorID:     instructorID,
		Month:            month,
		Year:             year,
		Amount:           earnings.Breakdown.InstructorShare,
		Breakdown:        earnings.Breakdown,
		WatchTimeMinutes: earnings.WatchTimeMinutes,
		CourseCount:      earnings.CourseCount,
	}

	if err := s.payoutRepo.Create(ctx, request); err != nil {
		return nil, err
	}

	s.logger.WithUserID(instructorID).
		WithFields(map[string]interface{}{"month": month, "year": year, "amount": request.Amount}).
		Info("Payout requested")

	return request, nil
}

// UpdatePayoutStatus enforces the one-directional state machine:
// pending -> approved | rejected, approved -> processed.
func (s *payoutService) UpdatePayoutStatus(ctx context.Context, id primitive.ObjectID, status models.PayoutStatus, notes string) (*models.PayoutRequest, error) {
	request, err := s.payoutRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !validTransition(request.Status, status) {
		return nil, ErrInvalidTransition
	}

	var processedAt *time.Time
	if status == models.PayoutStatusProcessed {
		now := s.clock.Now()
		processedAt = &now
	}

	transitioned, err := s.payoutRepo.UpdateStatus(ctx, id, request.Status, status, notes, processedAt)
	if err != nil {
		return nil, err
	}
	if !transitioned {
		// The request moved under us between the read and the write.
		return nil, ErrInvalidTransition
	}

	request.Status = status
	if notes != "" {
		request.AdminNotes = notes
	}
	request.ProcessedAt = processedAt

	s.notifications.NotifyPayoutStatus(ctx, request.InstructorID, request)

	s.logger.WithField("payout_id", id.Hex()).
		WithField("status", string(status)).
		Info("Payout status updated")

	return request, nil
}

func (s *payoutService) GetPayout(ctx context.Context, id primitive.ObjectID) (*models.PayoutRequest, error) {
	return s.payoutRepo.GetByID(ctx, id)
}

func (s *payoutService) ListByInstructor(ctx context.Context, instructorID primitive.ObjectID, params *utils.PaginationParams) ([]*models.PayoutRequest, int64, error) {
	return s.payoutRepo.GetByInstructor(ctx, instructorID, params)
}

func (s *payoutService) ListByStatus(ctx context.Context, status models.PayoutStatus, params *utils.PaginationParams) ([]*models.PayoutRequest, int64, error) {
	return s.payoutRepo.GetByStatus(ctx, status, params)
}

func validTransition(from, to models.PayoutStatus) bool {
	switch from {
	case models.PayoutStatusPending:
		return to == models.PayoutStatusApproved || to == models.PayoutStatusRejected
	case models.PayoutStatusApproved:
		return to == models.PayoutStatusProcessed
	default:
		return false
	}
}
