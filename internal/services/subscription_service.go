package services

import (
	"context"
	"fmt"

	"learnhub/internal/models"
	"learnhub/internal/repositories/interfaces"
	"learnhub/internal/utils"
	"learnhub/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SubscriptionService interface {
	CreatePlan(ctx context.Context, plan *models.SubscriptionPlan) error
	GetPlan(ctx context.Context, id primitive.ObjectID) (*models.SubscriptionPlan, error)
	ListPlans(ctx context.Context, activeOnly bool) ([]*models.SubscriptionPlan, error)
	UpdatePlan(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error

	ActiveSubscription(ctx context.Context, userID primitive.ObjectID) (*models.Subscription, error)
	ListUserSubscriptions(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Subscription, int64, error)
	CancelSubscription(ctx context.Context, userID, id primitive.ObjectID) error
	ExpireDueSubscriptions(ctx context.Context) (int64, error)
}

type subscriptionService struct {
	subRepo interfaces.SubscriptionRepository
	clock   Clock
	logger  *logger.Logger
}

func NewSubscriptionService(subRepo interfaces.SubscriptionRepository, clock Clock, logger *logger.Logger) SubscriptionService {
	return &subscriptionService{
		subRepo: subRepo,
		clock:   clock,
		logger:  logger,
	}
}

func (s *subscriptionService) CreatePlan(ctx context.Context, plan *models.SubscriptionPlan) error {
	if plan.Name == "" {
		return fmt.Errorf("plan name is required")
	}
	if plan.Price <= 0 {
		return fmt.Errorf("plan price must be positive")
	}
	if plan.Currency == "" {
		plan.Currency = utils.DefaultCurrency
	}
	if plan.Period == "" {
		plan.Period = models.PlanPeriodMonthly
	}
	plan.Categories = utils.NormalizeCategories(plan.Categories)

	return s.subRepo.CreatePlan(ctx, plan)
}

func (s *subscriptionService) GetPlan(ctx context.Context, id primitive.ObjectID) (*models.SubscriptionPlan, error) {
	return s.subRepo.GetPlanByID(ctx, id)
}

func (s *subscriptionService) ListPlans(ctx context.Context, activeOnly bool) ([]*models.SubscriptionPlan, error) {
	return s.subRepo.ListPlans(ctx, activeOnly)
}

func (s *subscriptionService) UpdatePlan(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	return s.subRepo.UpdatePlan(ctx, id, updates)
}

func (s *subscriptionService) ActiveSubscription(ctx context.Context, userID primitive.ObjectID) (*models.Subscription, error) {
	return s.subRepo.GetActiveByUser(ctx, userID, s.clock.Now())
}

func (s *subscriptionService) ListUserSubscriptions(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Subscription, int64, error) {
	return s.subRepo.GetByUser(ctx, userID, params)
}

func (s *subscriptionService) CancelSubscription(ctx context.Context, userID, id primitive.ObjectID) error {
	sub, err := s.subRepo.GetActiveByUser(ctx, userID, s.clock.Now())
	if err != nil {
		return err
	}
	if sub == nil || sub.ID != id {
		return fmt.Errorf("no matching active subscription")
	}

	if err := s.subRepo.UpdateStatus(ctx, id, models.SubscriptionStatusCancelled); err != nil {
		return err
	}

	s.logger.WithUserID(userID).WithField("subscription_id", id.Hex()).Info("Subscription cancelled")
	return nil
}

// ExpireDueSubscriptions flips active subscriptions past their expiry.
// Intended for a periodic job.
func (s *subscriptionService) ExpireDueSubscriptions(ctx context.Context) (int64, error) {
	count, err := s.subRepo.ExpireDue(ctx, s.clock.Now())
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.logger.WithField("count", count).Info("Subscriptions expired")
	}
	return count, nil
}
