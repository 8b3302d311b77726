package interfaces

import (
	"context"
	"time"

	"learnhub/internal/models"
	"learnhub/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SubscriptionRepository interface {
	// Plans
	CreatePlan(ctx context.Context, plan *models.SubscriptionPlan) error
	GetPlanByID(ctx context.Context, id primitive.ObjectID) (*models.SubscriptionPlan, error)
	ListPlans(ctx context.Context, activeOnly bool) ([]*models.SubscriptionPlan, error)
	UpdatePlan(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error

	// Orders
	CreateOrder(ctx context.Context, order *models.SubscriptionOrder) error
	GetOrderByID(ctx context.Context, id primitive.ObjectID) (*models.SubscriptionOrder, error)

	// Subscriptions
	CreateSubscription(ctx context.Context, sub *models.Subscription) error
	GetActiveByUser(ctx context.Context, userID primitive.ObjectID, at time.Time) (*models.Subscription, error)
	GetByUser(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Subscription, int64, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.SubscriptionStatus) error
	ExpireDue(ctx context.Context, at time.Time) (int64, error)
}
