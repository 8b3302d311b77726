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
)

type couponUsageRepository struct {
	collection *mongo.Collection
}

func NewCouponUsageRepository(db *mongo.Database) interfaces.CouponUsageRepository {
	return &couponUsageRepository{
		collection: db.Collection("couponUsage"),
	}
}

func (r *couponUsageRepository) Create(ctx context.Context, usage *models.CouponUsage) error {
	usage.ID = primitive.NewObjectID()
	usage.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, usage)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return services.ErrAlreadyUsed
		}
		return fmt.Errorf("failed to create coupon usage: %w", err)
	}

	return nil
}

func (r *couponUsageRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete coupon usage: %w", err)
	}
	return nil
}

func (r *couponUsageRepository) DeleteByCouponAndUser(ctx context.Context, couponID, userID primitive.ObjectID) (bool, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{
		"coupon_id": couponID,
		"user_id":   userID,
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete coupon usage: %w", err)
	}
	return result.DeletedCount > 0, nil
}

func (r *couponUsageRepository) HasUsed(ctx context.Context, couponID, userID primitive.ObjectID) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{
		"coupon_id": couponID,
		"user_id":   userID,
	})
	if err != nil {
		return false, fmt.Errorf("failed to check coupon usage: %w", err)
	}

	return count > 0, nil
}

func (r *couponUsageRepository) GetByUser(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.CouponUsage, int64, error) {
	filter := bson.M{"user_id": userID}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count coupon usage: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find coupon usage: %w", err)
	}
	defer cursor.Close(ctx)

	var usages []*models.CouponUsage
	for cursor.Next(ctx) {
		var usage models.CouponUsage
		if err := cursor.Decode(&usage); err != nil {
			return nil, 0, fmt.Errorf("failed to decode coupon usage: %w", err)
		}
		usages = append(usages, &usage)
	}

	return usages, total, nil
}

func (r *couponUsageRepository) CountByCoupon(ctx context.Context, couponID primitive.ObjectID) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"coupon_id": couponID})
	if err != nil {
		return 0, fmt.Errorf("failed to count coupon usage: %w", err)
	}
	return count, nil
}

func (r *couponUsageRepository) TotalDiscountByCoupon(ctx context.Context, couponID primitive.ObjectID) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"coupon_id": couponID}}},
		{{Key: "$group", Value: bson.M{
			"_id":            nil,
			"total_discount": bson.M{"$sum": "$discount_amount"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("failed to aggregate coupon discounts: %w", err)
	}
	defer cursor.Close(ctx)

	var result struct {
		TotalDiscount float64 `bson:"total_discount"`
	}
	if cursor.Next(ctx) {
		if err := cursor.Decode(&result); err != nil {
			return 0, fmt.Errorf("failed to decode discount total: %w", err)
		}
	}

	return result.TotalDiscount, nil
}
