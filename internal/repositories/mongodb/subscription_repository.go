package mongodb

import (
	"context"
	"fmt"
	"time"

	"learnhub/internal/models"
	"learnhub/internal/repositories/interfaces"
	"learnhub/internal/services"
	"learnhub/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type subscriptionRepository struct {
	plans         *mongo.Collection
	orders        *mongo.Collection
	subscriptions *mongo.Collection
}

func NewSubscriptionRepository(db *mongo.Database) interfaces.SubscriptionRepository {
	return &subscriptionRepository{
		plans:         db.Collection("subscriptionPlans"),
		orders:        db.Collection("subscriptionOrders"),
		subscriptions: db.Collection("subscriptions"),
	}
}

// Plans

func (r *subscriptionRepository) CreatePlan(ctx context.Context, plan *models.SubscriptionPlan) error {
	plan.ID = primitive.NewObjectID()
	plan.CreatedAt = time.Now()
	plan.UpdatedAt = time.Now()

	_, err := r.plans.InsertOne(ctx, plan)
	if err != nil {
		return fmt.Errorf("failed to create subscription plan: %w", err)
	}

	return nil
}

func (r *subscriptionRepository) GetPlanByID(ctx context.Context, id primitive.ObjectID) (*models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	err := r.plans.FindOne(ctx, bson.M{"_id": id}).Decode(&plan)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, services.ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to get subscription plan: %w", err)
	}

	return &plan, nil
}

func (r *subscriptionRepository) ListPlans(ctx context.Context, activeOnly bool) ([]*models.SubscriptionPlan, error) {
	filter := bson.M{}
	if activeOnly {
		filter["is_active"] = true
	}

	cursor, err := r.plans.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "price", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find subscription plans: %w", err)
	}
	defer cursor.Close(ctx)

	var plans []*models.SubscriptionPlan
	for cursor.Next(ctx) {
		var plan models.SubscriptionPlan
		if err := cursor.Decode(&plan); err != nil {
			return nil, fmt.Errorf("failed to decode subscription plan: %w", err)
		}
		plans = append(plans, &plan)
	}

	return plans, nil
}

func (r *subscriptionRepository) UpdatePlan(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	_, err := r.plans.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		return fmt.Errorf("failed to update subscription plan: %w", err)
	}

	return nil
}

// Orders

func (r *subscriptionRepository) CreateOrder(ctx context.Context, order *models.SubscriptionOrder) error {
	order.ID = primitive.NewObjectID()
	order.CreatedAt = time.Now()

	_, err := r.orders.InsertOne(ctx, order)
	if err != nil {
		return fmt.Errorf("failed to create subscription order: %w", err)
	}

	return nil
}

func (r *subscriptionRepository) GetOrderByID(ctx context.Context, id primitive.ObjectID) (*models.SubscriptionOrder, error) {
	var order models.SubscriptionOrder
	err := r.orders.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, services.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get subscription order: %w", err)
	}

	return &order, nil
}

// Subscriptions

func (r *subscriptionRepository) CreateSubscription(ctx context.Context, sub *models.Subscription) error {
	sub.ID = primitive.NewObjectID()
	sub.Status = models.SubscriptionStatusActive
	sub.CreatedAt = time.Now()
	sub.UpdatedAt = time.Now()

	_, err := r.subscriptions.InsertOne(ctx, sub)
	if err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	return nil
}

func (r *subscriptionRepository) GetActiveByUser(ctx context.Context, userID primitive.ObjectID, at time.Time) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.subscriptions.FindOne(ctx, bson.M{
		"user_id":    userID,
		"status":     models.SubscriptionStatusActive,
		"expires_at": bson.M{"$gt": at},
	}, options.FindOne().SetSort(bson.D{{Key: "expires_at", Value: -1}})).Decode(&sub)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active subscription: %w", err)
	}

	return &sub, nil
}

func (r *subscriptionRepository) GetByUser(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Subscription, int64, error) {
	filter := bson.M{"user_id": userID}

	total, err := r.subscriptions.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	cursor, err := r.subscriptions.Find(ctx, filter, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find subscriptions: %w", err)
	}
	defer cursor.Close(ctx)

	var subs []*models.Subscription
	for cursor.Next(ctx) {
		var sub models.Subscription
		if err := cursor.Decode(&sub); err != nil {
			return nil, 0, fmt.Errorf("failed to decode subscription: %w", err)
		}
		subs = append(subs, &sub)
	}

	return subs, total, nil
}

func (r *subscriptionRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.SubscriptionStatus) error {
	_, err := r.subscriptions.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to update subscription status: %w", err)
	}

	return nil
}

func (r *subscriptionRepository) ExpireDue(ctx context.Context, at time.Time) (int64, error) {
	result, err := r.subscriptions.UpdateMany(
		ctx,
		bson.M{
			"status":     models.SubscriptionStatusActive,
			"expires_at": bson.M{"$lte": at},
		},
		bson.M{"$set": bson.M{"status": models.SubscriptionStatusExpired, "updated_at": time.Now()}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to expire subscriptions: %w", err)
	}

	return result.ModifiedCount, nil
}
